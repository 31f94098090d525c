// Package resolvent implements the SLG resolvent operation: combining a
// goal with a program clause or a table answer to produce the next
// X-clause the forest scheduler must solve.
//
// From EWFS: let G be an X-clause A :- D | L1,...,Ln with Li the selected
// literal, and let C' = A' :- L'1...L'm be a variant of a clause C sharing
// no variables with G. If Li and A' unify with most general unifier S,
// then S(A :- D | L1...Li-1, L'1...L'm, Li+1...Ln) is the SLG resolvent of
// G with C.
package resolvent

import (
	"github.com/traitforge/slgcore/pkg/infer"
	"github.com/traitforge/slgcore/pkg/ir"
)

// Clause applies the resolvent algorithm to incorporate a program clause
// into the goal currently being solved: clause's binders are instantiated
// with fresh existentials, its consequence is unified against the selected
// literal goal, and its conditions become the new ExClause's subgoals
// alongside whatever unification produced.
func Clause(table *infer.Table, env *ir.Environment, goal ir.DomainGoal, subst ir.Substitution, clause ir.ProgramClause) (*ir.ExClause, error) {
	table.Logger().Trace("resolvent_clause", "goal", goal)
	impl := table.InstantiateBindersExistentiallyProgramClauseImplication(clause)

	result, err := table.UnifyDomainGoal(env, goal, impl.Consequence)
	if err != nil {
		return nil, err
	}

	ex := ir.NewExClause(subst.Clone())
	result.IntoExClause(env, ex)

	for _, c := range impl.Conditions {
		if n, ok := c.(ir.NotGoal); ok {
			ex.Subgoals = append(ex.Subgoals, ir.NegativeLiteral{Goal: ir.InEnvironment[ir.Goal]{Environment: env, Goal: n.Goal}})
			continue
		}
		ex.Subgoals = append(ex.Subgoals, ir.PositiveLiteral{Goal: ir.InEnvironment[ir.Goal]{Environment: env, Goal: c}})
	}

	return ex, nil
}
