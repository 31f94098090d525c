package ir

import "fmt"

// Goal is the obligation language the resolvent engine proves against:
// quantified sub-goals, implications, conjunctions, negation, a leaf
// domain/equality goal, or the unconditional failure marker CannotProve.
type Goal interface {
	isGoal()
	String() string
}

// QuantifiedGoal is Quantified(kind, Binders<Goal>): the inner goal holds
// for all (or some) instantiation of the bound variables, depending on
// Kind — this core only ever constructs the universal ("forall") form, the
// existential form belongs to the surface query layer.
type QuantifiedGoal struct {
	Kind  Kind
	Goal  Binders[Goal]
}

func (QuantifiedGoal) isGoal() {}
func (g QuantifiedGoal) String() string {
	return fmt.Sprintf("forall<%d> { %s }", len(g.Goal.Kinds), g.Goal.Value)
}

// ImpliesGoal is Implies(clauses, Goal): goal must hold given the extra
// program clauses in scope for its proof.
type ImpliesGoal struct {
	Clauses []ProgramClause
	Goal    Goal
}

func (ImpliesGoal) isGoal() {}
func (g ImpliesGoal) String() string {
	return fmt.Sprintf("if (%d clauses) { %s }", len(g.Clauses), g.Goal)
}

// AndGoal is the conjunction of two goals.
type AndGoal struct{ Left, Right Goal }

func (AndGoal) isGoal() {}
func (g AndGoal) String() string { return fmt.Sprintf("(%s, %s)", g.Left, g.Right) }

// NotGoal negates a goal; the resolvent engine treats a negated condition
// in a clause body as a Negative subgoal rather than a Positive one.
type NotGoal struct{ Goal Goal }

func (NotGoal) isGoal() {}
func (g NotGoal) String() string { return fmt.Sprintf("not { %s }", g.Goal) }

// LeafGoalWrapper lifts a LeafGoal (an equality or domain goal) into Goal.
type LeafGoalWrapper struct{ Leaf LeafGoal }

func (LeafGoalWrapper) isGoal() {}
func (g LeafGoalWrapper) String() string { return g.Leaf.String() }

// Leaf wraps a LeafGoal as a Goal; a small convenience used throughout
// resolvent construction where a clause condition or unification subgoal
// needs to be appended to an ExClause's subgoal list.
func Leaf(l LeafGoal) Goal { return LeafGoalWrapper{Leaf: l} }

// CannotProveGoal is the unconditional-failure marker.
type CannotProveGoal struct{}

func (CannotProveGoal) isGoal()       {}
func (CannotProveGoal) String() string { return "CannotProve" }

// LeafGoal is a goal with no further goal structure: an equality between
// two parameters, or a domain goal.
type LeafGoal interface {
	isLeafGoal()
	String() string
}

// EqGoal asserts that two parameters (of the same kind) are equal.
type EqGoal struct{ A, B Parameter }

func (EqGoal) isLeafGoal() {}
func (g EqGoal) String() string { return fmt.Sprintf("%s = %s", g.A, g.B) }

// DomainGoal is a goal about the trait system proper: implementation,
// normalization, well-formedness, and the environment queries.
type DomainGoal interface {
	LeafGoal
	isDomainGoal()
}

// ImplementedGoal asserts that a TraitRef holds: Self: Trait<Args...>.
type ImplementedGoal struct{ Trait TraitRef }

func (ImplementedGoal) isLeafGoal()   {}
func (ImplementedGoal) isDomainGoal() {}
func (g ImplementedGoal) String() string { return g.Trait.String() }

// TraitRef names a trait item applied to parameters; Parameters[0] is
// always the Self type.
type TraitRef struct {
	TraitID    ItemID
	Parameters []Parameter
}

func (r TraitRef) String() string {
	if len(r.Parameters) == 0 {
		return string(r.TraitID)
	}
	self := r.Parameters[0].String()
	args := r.Parameters[1:]
	s := self + ": " + string(r.TraitID)
	if len(args) > 0 {
		s += "<"
		for i, p := range args {
			if i > 0 {
				s += ", "
			}
			s += p.String()
		}
		s += ">"
	}
	return s
}

// NormalizeGoal asserts that a selected projection normalizes to Ty.
type NormalizeGoal struct {
	Projection ProjectionTy
	Ty         Ty
}

func (NormalizeGoal) isLeafGoal()   {}
func (NormalizeGoal) isDomainGoal() {}
func (g NormalizeGoal) String() string {
	return fmt.Sprintf("Normalize(%s -> %s)", g.Projection, g.Ty)
}

// ProjectionEqGoal asserts that a selected projection equals Ty, without
// necessarily having normalized it — the deferred subgoal unification
// produces when it meets a projection on one side.
type ProjectionEqGoal struct {
	Projection ProjectionTy
	Ty         Ty
}

func (ProjectionEqGoal) isLeafGoal()   {}
func (ProjectionEqGoal) isDomainGoal() {}
func (g ProjectionEqGoal) String() string {
	return fmt.Sprintf("ProjectionEq(%s = %s)", g.Projection, g.Ty)
}

// UnselectedNormalizeGoal is Normalize's analogue for an
// UnselectedProjectionTy, used before trait selection resolves which
// trait's associated type is meant.
type UnselectedNormalizeGoal struct {
	Projection UnselectedProjectionTy
	Ty         Ty
}

func (UnselectedNormalizeGoal) isLeafGoal()   {}
func (UnselectedNormalizeGoal) isDomainGoal() {}
func (g UnselectedNormalizeGoal) String() string {
	return fmt.Sprintf("UnselectedNormalize(%s -> %s)", g.Projection, g.Ty)
}

// WellFormedGoal asserts that a parameter is well formed.
type WellFormedGoal struct{ Parameter Parameter }

func (WellFormedGoal) isLeafGoal()   {}
func (WellFormedGoal) isDomainGoal() {}
func (g WellFormedGoal) String() string { return fmt.Sprintf("WellFormed(%s)", g.Parameter) }

// FromEnvGoal asserts that a parameter is derivable from the environment
// (used to seed proofs from a caller's assumed bounds).
type FromEnvGoal struct{ Parameter Parameter }

func (FromEnvGoal) isLeafGoal()   {}
func (FromEnvGoal) isDomainGoal() {}
func (g FromEnvGoal) String() string { return fmt.Sprintf("FromEnv(%s)", g.Parameter) }

// InScopeGoal asserts that a trait item is in scope for method resolution.
type InScopeGoal struct{ TraitID ItemID }

func (InScopeGoal) isLeafGoal()   {}
func (InScopeGoal) isDomainGoal() {}
func (g InScopeGoal) String() string { return fmt.Sprintf("InScope(%s)", g.TraitID) }
