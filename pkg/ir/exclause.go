package ir

import "fmt"

// Environment is an immutable list of clauses in scope for a proof
// attempt. It is always shared by reference; nothing in the core ever
// mutates an Environment once built — extending scope means building a new
// one that points at the old one's clauses plus more.
type Environment struct {
	Clauses []ProgramClause
}

// NewEnvironment returns an environment holding exactly the given clauses.
func NewEnvironment(clauses ...ProgramClause) *Environment {
	return &Environment{Clauses: clauses}
}

// Extend returns a new Environment with additional clauses appended,
// leaving the receiver untouched.
func (e *Environment) Extend(clauses ...ProgramClause) *Environment {
	next := make([]ProgramClause, 0, len(e.Clauses)+len(clauses))
	next = append(next, e.Clauses...)
	next = append(next, clauses...)
	return &Environment{Clauses: next}
}

// InEnvironment pairs a value (typically a Goal) with the Environment it
// must be proved in.
type InEnvironment[T any] struct {
	Environment *Environment
	Goal        T
}

// Literal is a subgoal remaining in an ExClause, either asserted positively
// or negatively (negation as failure).
type Literal interface {
	isLiteral()
	String() string
}

// PositiveLiteral is a subgoal that must be proved.
type PositiveLiteral struct{ Goal InEnvironment[Goal] }

func (PositiveLiteral) isLiteral()   {}
func (l PositiveLiteral) String() string { return l.Goal.Goal.String() }

// NegativeLiteral is a subgoal that must fail to prove (negation as
// failure).
type NegativeLiteral struct{ Goal InEnvironment[Goal] }

func (NegativeLiteral) isLiteral()   {}
func (l NegativeLiteral) String() string { return "not " + l.Goal.Goal.String() }

// DelayedLiteral is a subgoal whose truth was deferred rather than proved
// or refuted outright, per Extended Well-Founded Semantics; it is carried
// on the ExClause until the forest scheduler resolves it.
type DelayedLiteral struct {
	Goal InEnvironment[DomainGoal]
}

func (l DelayedLiteral) String() string { return "delayed(" + l.Goal.Goal.String() + ")" }

// Constraint is a deferred lifetime obligation produced by unification when
// it meets a lifetime variable against a lifetime skolem rather than
// failing or instantiating outright.
type Constraint struct{ A, B Lifetime }

func (c Constraint) String() string { return fmt.Sprintf("%s == %s", c.A, c.B) }

// LifetimeEq builds the (currently only) Constraint shape.
func LifetimeEq(a, b Lifetime) Constraint { return Constraint{A: a, B: b} }

// ExClause (an EWFS X-clause) is the goal-state record the resolvent
// engine produces: the accumulated substitution, any delayed literals,
// lifetime constraints, and the subgoals still to prove.
type ExClause struct {
	Subst          Substitution
	DelayedLiterals []DelayedLiteral
	Constraints     []Constraint
	Subgoals        []Literal
}

// NewExClause builds an ExClause carrying subst and no delayed literals,
// constraints, or subgoals yet — the starting point resolvent_clause builds
// on before folding in unification results and clause conditions.
func NewExClause(subst Substitution) *ExClause {
	return &ExClause{Subst: subst}
}
