package ir

import (
	"fmt"
	"strings"
)

// TypeName identifies what an ApplicationTy or UnselectedProjectionTy is
// applied to: a declared nominal item, a skolem constant born from
// universal instantiation, or (for unselected projections) an associated
// type awaiting trait resolution.
type TypeName interface {
	isTypeName()
	String() string
	Equal(TypeName) bool
}

// ItemTypeName names a declared nominal type.
type ItemTypeName struct{ ID ItemID }

func (ItemTypeName) isTypeName()    {}
func (n ItemTypeName) String() string { return string(n.ID) }
func (n ItemTypeName) Equal(o TypeName) bool {
	other, ok := o.(ItemTypeName)
	return ok && n.ID == other.ID
}

// SkolemTypeName is the TypeName of a skolem constant introduced by
// universal instantiation in a given universe — the spec's TypeName::ForAll.
type SkolemTypeName struct{ Universe Universe }

func (SkolemTypeName) isTypeName()    {}
func (n SkolemTypeName) String() string { return "!" + n.Universe.String() }
func (n SkolemTypeName) Equal(o TypeName) bool {
	other, ok := o.(SkolemTypeName)
	return ok && n.Universe == other.Universe
}

// AssocTypeName names an associated type whose owning trait has not yet
// been selected, used as the type name of an UnselectedProjectionTy.
type AssocTypeName struct{ ID AssocTypeID }

func (AssocTypeName) isTypeName()    {}
func (n AssocTypeName) String() string { return string(n.ID) }
func (n AssocTypeName) Equal(o TypeName) bool {
	other, ok := o.(AssocTypeName)
	return ok && n.ID == other.ID
}

// Ty is the type sublanguage: a free existential variable, an applied
// nominal/skolem type, a selected or unselected projection, or a
// universally quantified type.
type Ty interface {
	isTy()
	IsVar() bool
	String() string
	Equal(Ty) bool
}

// VarTy is a free existential referenced by de Bruijn depth, counted
// outward from the innermost enclosing binder.
type VarTy struct{ Depth int }

func (VarTy) isTy()         {}
func (VarTy) IsVar() bool   { return true }
func (t VarTy) String() string { return fmt.Sprintf("?%d", t.Depth) }
func (t VarTy) Equal(o Ty) bool {
	other, ok := o.(VarTy)
	return ok && t.Depth == other.Depth
}

// ApplicationTy applies a type name to a (possibly empty) parameter list.
// Skolem types are represented as a zero-arity ApplicationTy whose Name is
// a SkolemTypeName.
type ApplicationTy struct {
	Name       TypeName
	Parameters []Parameter
}

func (ApplicationTy) isTy()       {}
func (ApplicationTy) IsVar() bool { return false }
func (t ApplicationTy) String() string {
	if len(t.Parameters) == 0 {
		return t.Name.String()
	}
	parts := make([]string, len(t.Parameters))
	for i, p := range t.Parameters {
		parts[i] = p.String()
	}
	return t.Name.String() + "<" + strings.Join(parts, ", ") + ">"
}
func (t ApplicationTy) Equal(o Ty) bool {
	other, ok := o.(ApplicationTy)
	return ok && t.Name.Equal(other.Name) && parametersEqual(t.Parameters, other.Parameters)
}

// Skolem builds the canonical representation of a skolem constant in u:
// a zero-arity ApplicationTy named by a SkolemTypeName.
func Skolem(u Universe) Ty {
	return ApplicationTy{Name: SkolemTypeName{Universe: u}}
}

// ProjectionTy is a fully selected associated-type projection,
// <T as Trait<...>>::Item<...>, identified by the associated type's id.
type ProjectionTy struct {
	AssocTypeID AssocTypeID
	Parameters  []Parameter
}

func (ProjectionTy) isTy()       {}
func (ProjectionTy) IsVar() bool { return false }
func (t ProjectionTy) String() string {
	parts := make([]string, len(t.Parameters))
	for i, p := range t.Parameters {
		parts[i] = p.String()
	}
	return "<<projection " + string(t.AssocTypeID) + ">>(" + strings.Join(parts, ", ") + ")"
}
func (t ProjectionTy) Equal(o Ty) bool {
	other, ok := o.(ProjectionTy)
	return ok && t.AssocTypeID == other.AssocTypeID && parametersEqual(t.Parameters, other.Parameters)
}

// UnselectedProjectionTy is a projection whose owning trait has not been
// resolved yet: T::Item<...> without knowing which trait declares Item.
type UnselectedProjectionTy struct {
	TypeName   TypeName
	Parameters []Parameter
}

func (UnselectedProjectionTy) isTy()       {}
func (UnselectedProjectionTy) IsVar() bool { return false }
func (t UnselectedProjectionTy) String() string {
	parts := make([]string, len(t.Parameters))
	for i, p := range t.Parameters {
		parts[i] = p.String()
	}
	return t.TypeName.String() + "::(" + strings.Join(parts, ", ") + ")"
}
func (t UnselectedProjectionTy) Equal(o Ty) bool {
	other, ok := o.(UnselectedProjectionTy)
	return ok && t.TypeName.Equal(other.TypeName) && parametersEqual(t.Parameters, other.Parameters)
}

// QuantifiedTy is a universally quantified type, for<...> Inner — the
// spec's Ty::ForAll{num_binders, inner}. Inner's free variables at depth
// 0..NumBinders-1 are bound by this quantifier.
type QuantifiedTy struct {
	NumBinders int
	Inner      Ty
}

func (QuantifiedTy) isTy()       {}
func (QuantifiedTy) IsVar() bool { return false }
func (t QuantifiedTy) String() string {
	return fmt.Sprintf("for<%d> %s", t.NumBinders, t.Inner)
}
func (t QuantifiedTy) Equal(o Ty) bool {
	other, ok := o.(QuantifiedTy)
	return ok && t.NumBinders == other.NumBinders && t.Inner.Equal(other.Inner)
}

// ForAllTy is an alias of QuantifiedTy under the name the reference
// implementation gives this Ty variant.
type ForAllTy = QuantifiedTy

// Lifetime is the lifetime sublanguage: a free existential variable or a
// skolem constant.
type Lifetime interface {
	isLifetime()
	IsVar() bool
	String() string
	Equal(Lifetime) bool
}

// VarLifetime is a free existential lifetime variable.
type VarLifetime struct{ Depth int }

func (VarLifetime) isLifetime()    {}
func (VarLifetime) IsVar() bool    { return true }
func (l VarLifetime) String() string { return fmt.Sprintf("'?%d", l.Depth) }
func (l VarLifetime) Equal(o Lifetime) bool {
	other, ok := o.(VarLifetime)
	return ok && l.Depth == other.Depth
}

// ForAllLifetime is a skolem lifetime constant born in a given universe.
type ForAllLifetime struct{ Universe Universe }

func (ForAllLifetime) isLifetime()    {}
func (ForAllLifetime) IsVar() bool    { return false }
func (l ForAllLifetime) String() string { return "'!" + l.Universe.String() }
func (l ForAllLifetime) Equal(o Lifetime) bool {
	other, ok := o.(ForAllLifetime)
	return ok && l.Universe == other.Universe
}

// Const is the const sublanguage. Only Var exists; every other const
// operation (skolemization, universe mapping) is deliberately unspecified,
// matching the reference implementation's unimplemented const paths.
type Const interface {
	isConst()
	IsVar() bool
	String() string
	Equal(Const) bool
}

// VarConst is a free existential const variable.
type VarConst struct{ Depth int }

func (VarConst) isConst()      {}
func (VarConst) IsVar() bool   { return true }
func (c VarConst) String() string { return fmt.Sprintf("?%dconst", c.Depth) }
func (c VarConst) Equal(o Const) bool {
	other, ok := o.(VarConst)
	return ok && c.Depth == other.Depth
}
