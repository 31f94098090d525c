package ir

// ItemID names a nominal type or trait declared in a Program. It is an
// opaque token: the core never inspects it, only compares it for equality
// and hands it back to the Program oracle for resolution.
type ItemID string

// AssocTypeID names an associated type item declared in a Program, used
// both by fully selected Projection types and by UnselectedProjection's
// type name.
type AssocTypeID string
