package ir

// BoundVarKind describes one variable bound by a Binders or Canonical
// value: which Kind it is, and (for Canonical binders) the universe it was
// declared in.
type BoundVarKind = ParameterKind[Universe]

// Binders pairs a value with the kinds of the variables it binds at de
// Bruijn depths 0..len(Kinds)-1, outermost first. It underlies both
// universally quantified goals/types and, via Canonical, existentially
// quantified answers.
type Binders[T any] struct {
	Kinds []BoundVarKind
	Value T
}

// Canonical is a Binders whose binders describe existential variables and
// whose Value is ground modulo those existentials and any skolems already
// present. It is the output of Canonicalize.
type Canonical[T any] struct {
	Binders[T]
}

// UCanonical augments a Canonical with the number of distinct universes
// appearing in it, renumbered densely from U0..Universes-1. It is the
// output of UCanonicalize, paired with the UniverseMap used to produce it.
type UCanonical[T any] struct {
	Canonical[T]
	Universes int
}
