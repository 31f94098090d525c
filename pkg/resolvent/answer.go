package resolvent

import (
	"github.com/pkg/errors"
	"github.com/traitforge/slgcore/pkg/fold"
	"github.com/traitforge/slgcore/pkg/infer"
	"github.com/traitforge/slgcore/pkg/ir"
)

// ApplyAnswerSubst plugs a completed subgoal's answer into the ExClause
// that was pending on it. Rather than substituting the answer into
// answerTableGoal and then unifying the result against selectedGoal — which
// would risk re-triggering projection normalization and looping — it walks
// answerTableGoal and selectedGoal in lockstep (a "zip"). Whenever the walk
// meets a free variable on the answer side, that is a reference into the
// answer substitution: the corresponding instantiated value is looked up
// and unified against whatever occupies the same position in selectedGoal.
// A free variable that turns out to be bound inside the answer (i.e. one of
// its own quantifiers) is not a substitution reference at all — the two
// sides are asserted to name the same bound variable instead.
//
// The returned error is only ever infer.ErrNoSolution (or a wrapped one),
// from a substitution reference failing to unify against the pending
// value it lines up with — a candidate answer that just doesn't apply. A
// zip that finds the two shapes don't line up at all, or that a pair of
// bound variables don't name the same quantifier position, means
// answerTableGoal and selectedGoal were never built from the same shape to
// begin with; that is an internal logic bug, not a recoverable failure, so
// it panics instead of returning an error.
func ApplyAnswerSubst(
	table *infer.Table,
	ex *ir.ExClause,
	selectedGoal ir.InEnvironment[ir.Goal],
	answerTableGoal ir.Canonical[ir.InEnvironment[ir.Goal]],
	canonicalAnswerSubst ir.Canonical[ir.ConstrainedSubst],
) (*ir.ExClause, error) {
	table.Logger().Trace("apply_answer_subst", "goal", selectedGoal.Goal)
	instantiated := table.InstantiateCanonicalConstrainedSubst(canonicalAnswerSubst)

	sub := &substitutor{
		table:       table,
		env:         selectedGoal.Environment,
		answerSubst: instantiated.Subst,
		ex:          ex,
	}
	if err := sub.zipGoal(answerTableGoal.Value.Goal, selectedGoal.Goal); err != nil {
		return nil, err
	}
	sub.ex.Constraints = append(sub.ex.Constraints, instantiated.Constraints...)
	return sub.ex, nil
}

// substitutor is the answer-substitution zipper: it pairs the answer's
// canonical goal shape (whose free variables index the instantiated
// answerSubst) against the pending goal
// that spawned the subgoal, tracking how many quantifier binders each side
// has independently accumulated since they may have been truncated to
// different depths.
type substitutor struct {
	table          *infer.Table
	env            *ir.Environment
	answerSubst    ir.Substitution
	answerBinders  int
	pendingBinders int
	ex             *ir.ExClause
}

// structuralMismatch reports that the answer and pending goal shapes
// diverged at a point the zip never expects them to: both are built from
// the same table-goal the answer was computed against, so any shape
// mismatch between them is an internal logic bug, not a failed
// unification. Per the error handling design, that is a panic, not an
// ErrNoSolution-class error a scheduler could mistake for "try another
// clause".
func structuralMismatch(answer, pending any) error {
	panic(errors.Errorf("resolvent: structural mismatch between answer %v and pending goal %v", answer, pending))
}

// assertMatchingVars checks that a bound variable on the answer side and
// one on the pending side refer to the same quantifier position. Like
// structuralMismatch, a failure here means the two sides were never built
// from the same shape to begin with, so it panics rather than returning a
// recoverable error.
func (s *substitutor) assertMatchingVars(answerDepth, pendingDepth int) error {
	if answerDepth < s.answerBinders || pendingDepth < s.pendingBinders {
		panic(errors.Errorf("resolvent: answer variable escaped its binder scope: answer ?%d (binders %d), pending ?%d (binders %d)",
			answerDepth, s.answerBinders, pendingDepth, s.pendingBinders))
	}
	if answerDepth-s.answerBinders != pendingDepth-s.pendingBinders {
		panic(errors.Errorf("resolvent: answer and pending goal reference different bound variables: answer ?%d (binders %d), pending ?%d (binders %d)",
			answerDepth, s.answerBinders, pendingDepth, s.pendingBinders))
	}
	return nil
}

func (s *substitutor) zipGoal(answer, pending ir.Goal) error {
	switch av := answer.(type) {
	case ir.QuantifiedGoal:
		pv, ok := pending.(ir.QuantifiedGoal)
		if !ok || av.Kind != pv.Kind {
			return structuralMismatch(answer, pending)
		}
		return s.zipBindersGoal(av.Goal, pv.Goal)
	case ir.ImpliesGoal:
		pv, ok := pending.(ir.ImpliesGoal)
		if !ok || len(av.Clauses) != len(pv.Clauses) {
			return structuralMismatch(answer, pending)
		}
		for i := range av.Clauses {
			if err := s.zipProgramClause(av.Clauses[i], pv.Clauses[i]); err != nil {
				return err
			}
		}
		return s.zipGoal(av.Goal, pv.Goal)
	case ir.AndGoal:
		pv, ok := pending.(ir.AndGoal)
		if !ok {
			return structuralMismatch(answer, pending)
		}
		if err := s.zipGoal(av.Left, pv.Left); err != nil {
			return err
		}
		return s.zipGoal(av.Right, pv.Right)
	case ir.NotGoal:
		pv, ok := pending.(ir.NotGoal)
		if !ok {
			return structuralMismatch(answer, pending)
		}
		return s.zipGoal(av.Goal, pv.Goal)
	case ir.LeafGoalWrapper:
		pv, ok := pending.(ir.LeafGoalWrapper)
		if !ok {
			return structuralMismatch(answer, pending)
		}
		return s.zipLeafGoal(av.Leaf, pv.Leaf)
	case ir.CannotProveGoal:
		if _, ok := pending.(ir.CannotProveGoal); !ok {
			return structuralMismatch(answer, pending)
		}
		return nil
	default:
		panic(errors.Errorf("resolvent: unknown goal constructor %T", answer))
	}
}

func (s *substitutor) zipLeafGoal(answer, pending ir.LeafGoal) error {
	if aeq, ok := answer.(ir.EqGoal); ok {
		peq, ok := pending.(ir.EqGoal)
		if !ok {
			return structuralMismatch(answer, pending)
		}
		if err := s.zipParameter(aeq.A, peq.A); err != nil {
			return err
		}
		return s.zipParameter(aeq.B, peq.B)
	}
	adg, ok := answer.(ir.DomainGoal)
	if !ok {
		panic(errors.Errorf("resolvent: unknown leaf goal %T", answer))
	}
	pdg, ok := pending.(ir.DomainGoal)
	if !ok {
		return structuralMismatch(answer, pending)
	}
	return s.zipDomainGoal(adg, pdg)
}

func (s *substitutor) zipDomainGoal(answer, pending ir.DomainGoal) error {
	switch av := answer.(type) {
	case ir.ImplementedGoal:
		pv, ok := pending.(ir.ImplementedGoal)
		if !ok || av.Trait.TraitID != pv.Trait.TraitID {
			return structuralMismatch(answer, pending)
		}
		return s.zipParameters(av.Trait.Parameters, pv.Trait.Parameters)
	case ir.NormalizeGoal:
		pv, ok := pending.(ir.NormalizeGoal)
		if !ok {
			return structuralMismatch(answer, pending)
		}
		if err := s.zipProjection(av.Projection, pv.Projection); err != nil {
			return err
		}
		return s.zipTy(av.Ty, pv.Ty)
	case ir.ProjectionEqGoal:
		pv, ok := pending.(ir.ProjectionEqGoal)
		if !ok {
			return structuralMismatch(answer, pending)
		}
		if err := s.zipProjection(av.Projection, pv.Projection); err != nil {
			return err
		}
		return s.zipTy(av.Ty, pv.Ty)
	case ir.UnselectedNormalizeGoal:
		pv, ok := pending.(ir.UnselectedNormalizeGoal)
		if !ok || !av.Projection.TypeName.Equal(pv.Projection.TypeName) {
			return structuralMismatch(answer, pending)
		}
		if err := s.zipParameters(av.Projection.Parameters, pv.Projection.Parameters); err != nil {
			return err
		}
		return s.zipTy(av.Ty, pv.Ty)
	case ir.WellFormedGoal:
		pv, ok := pending.(ir.WellFormedGoal)
		if !ok {
			return structuralMismatch(answer, pending)
		}
		return s.zipParameter(av.Parameter, pv.Parameter)
	case ir.FromEnvGoal:
		pv, ok := pending.(ir.FromEnvGoal)
		if !ok {
			return structuralMismatch(answer, pending)
		}
		return s.zipParameter(av.Parameter, pv.Parameter)
	case ir.InScopeGoal:
		pv, ok := pending.(ir.InScopeGoal)
		if !ok || av.TraitID != pv.TraitID {
			return structuralMismatch(answer, pending)
		}
		return nil
	default:
		panic(errors.Errorf("resolvent: unknown domain goal %T", answer))
	}
}

func (s *substitutor) zipProjection(answer, pending ir.ProjectionTy) error {
	if answer.AssocTypeID != pending.AssocTypeID {
		return structuralMismatch(answer, pending)
	}
	return s.zipParameters(answer.Parameters, pending.Parameters)
}

func (s *substitutor) zipParameters(answer, pending []ir.Parameter) error {
	if len(answer) != len(pending) {
		return structuralMismatch(answer, pending)
	}
	for i := range answer {
		if err := s.zipParameter(answer[i], pending[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *substitutor) zipParameter(answer, pending ir.Parameter) error {
	switch av := answer.(type) {
	case ir.TyParameter:
		pv, ok := pending.(ir.TyParameter)
		if !ok {
			return structuralMismatch(answer, pending)
		}
		return s.zipTy(av.Ty, pv.Ty)
	case ir.LifetimeParameter:
		pv, ok := pending.(ir.LifetimeParameter)
		if !ok {
			return structuralMismatch(answer, pending)
		}
		return s.zipLifetime(av.Lifetime, pv.Lifetime)
	case ir.ConstParameter:
		pv, ok := pending.(ir.ConstParameter)
		if !ok {
			return structuralMismatch(answer, pending)
		}
		return s.zipConst(av.Const, pv.Const)
	default:
		panic(errors.Errorf("resolvent: unknown parameter kind %T", answer))
	}
}

func (s *substitutor) zipProgramClause(answer, pending ir.ProgramClause) error {
	if len(answer.Kinds) != len(pending.Kinds) {
		return structuralMismatch(answer, pending)
	}
	s.answerBinders += len(answer.Kinds)
	s.pendingBinders += len(pending.Kinds)
	defer func() {
		s.answerBinders -= len(answer.Kinds)
		s.pendingBinders -= len(pending.Kinds)
	}()
	if err := s.zipDomainGoal(answer.Value.Consequence, pending.Value.Consequence); err != nil {
		return err
	}
	if len(answer.Value.Conditions) != len(pending.Value.Conditions) {
		return structuralMismatch(answer, pending)
	}
	for i := range answer.Value.Conditions {
		if err := s.zipGoal(answer.Value.Conditions[i], pending.Value.Conditions[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *substitutor) zipBindersGoal(answer, pending ir.Binders[ir.Goal]) error {
	if len(answer.Kinds) != len(pending.Kinds) {
		return structuralMismatch(answer, pending)
	}
	s.answerBinders += len(answer.Kinds)
	s.pendingBinders += len(pending.Kinds)
	defer func() {
		s.answerBinders -= len(answer.Kinds)
		s.pendingBinders -= len(pending.Kinds)
	}()
	return s.zipGoal(answer.Value, pending.Value)
}

func (s *substitutor) zipTy(answer, pending ir.Ty) error {
	if n, ok := s.table.NormalizeShallowTy(pending, s.pendingBinders); ok {
		pending = n
	}

	if av, ok := answer.(ir.VarTy); ok {
		handled, err := s.unifyFreeAnswerVarTy(av.Depth, pending)
		if err != nil {
			return err
		}
		if handled {
			return nil
		}
	}

	switch av := answer.(type) {
	case ir.VarTy:
		pv, ok := pending.(ir.VarTy)
		if !ok {
			return structuralMismatch(answer, pending)
		}
		return s.assertMatchingVars(av.Depth, pv.Depth)
	case ir.ApplicationTy:
		pv, ok := pending.(ir.ApplicationTy)
		if !ok || !av.Name.Equal(pv.Name) {
			return structuralMismatch(answer, pending)
		}
		return s.zipParameters(av.Parameters, pv.Parameters)
	case ir.ProjectionTy:
		pv, ok := pending.(ir.ProjectionTy)
		if !ok {
			return structuralMismatch(answer, pending)
		}
		return s.zipProjection(av, pv)
	case ir.UnselectedProjectionTy:
		pv, ok := pending.(ir.UnselectedProjectionTy)
		if !ok || !av.TypeName.Equal(pv.TypeName) {
			return structuralMismatch(answer, pending)
		}
		return s.zipParameters(av.Parameters, pv.Parameters)
	case ir.QuantifiedTy:
		pv, ok := pending.(ir.QuantifiedTy)
		if !ok || av.NumBinders != pv.NumBinders {
			return structuralMismatch(answer, pending)
		}
		s.answerBinders += av.NumBinders
		s.pendingBinders += pv.NumBinders
		defer func() {
			s.answerBinders -= av.NumBinders
			s.pendingBinders -= pv.NumBinders
		}()
		return s.zipTy(av.Inner, pv.Inner)
	default:
		panic(errors.Errorf("resolvent: unknown ty constructor %T", answer))
	}
}

func (s *substitutor) unifyFreeAnswerVarTy(answerDepth int, pending ir.Ty) (bool, error) {
	if answerDepth < s.answerBinders {
		return false, nil
	}
	param := s.answerSubst.Parameters[answerDepth-s.answerBinders]
	shifted, ok := fold.DownShiftTy(s.pendingBinders, pending)
	if !ok {
		panic("resolvent: truncation left a pending value referencing an internal binder")
	}
	result, err := s.table.UnifyTy(s.env, ir.AsTy(param), shifted)
	if err != nil {
		return false, err
	}
	result.IntoExClause(s.env, s.ex)
	return true, nil
}

func (s *substitutor) zipLifetime(answer, pending ir.Lifetime) error {
	if n, ok := s.table.NormalizeShallowLifetime(pending, s.pendingBinders); ok {
		pending = n
	}

	if av, ok := answer.(ir.VarLifetime); ok {
		handled, err := s.unifyFreeAnswerVarLifetime(av.Depth, pending)
		if err != nil {
			return err
		}
		if handled {
			return nil
		}
	}

	switch av := answer.(type) {
	case ir.VarLifetime:
		pv, ok := pending.(ir.VarLifetime)
		if !ok {
			return structuralMismatch(answer, pending)
		}
		return s.assertMatchingVars(av.Depth, pv.Depth)
	case ir.ForAllLifetime:
		pv, ok := pending.(ir.ForAllLifetime)
		if !ok || av.Universe != pv.Universe {
			return structuralMismatch(answer, pending)
		}
		return nil
	default:
		panic(errors.Errorf("resolvent: unknown lifetime constructor %T", answer))
	}
}

func (s *substitutor) unifyFreeAnswerVarLifetime(answerDepth int, pending ir.Lifetime) (bool, error) {
	if answerDepth < s.answerBinders {
		return false, nil
	}
	param := s.answerSubst.Parameters[answerDepth-s.answerBinders]
	shifted, ok := fold.DownShiftLifetime(s.pendingBinders, pending)
	if !ok {
		panic("resolvent: truncation left a pending value referencing an internal binder")
	}
	result, err := s.table.UnifyLifetime(s.env, ir.AsLifetime(param), shifted)
	if err != nil {
		return false, err
	}
	result.IntoExClause(s.env, s.ex)
	return true, nil
}

func (s *substitutor) zipConst(answer, pending ir.Const) error {
	if n, ok := s.table.NormalizeShallowConst(pending, s.pendingBinders); ok {
		pending = n
	}

	av, ok := answer.(ir.VarConst)
	if !ok {
		panic(errors.Errorf("resolvent: unknown const constructor %T", answer))
	}

	handled, err := s.unifyFreeAnswerVarConst(av.Depth, pending)
	if err != nil {
		return err
	}
	if handled {
		return nil
	}

	pv, ok := pending.(ir.VarConst)
	if !ok {
		return structuralMismatch(answer, pending)
	}
	return s.assertMatchingVars(av.Depth, pv.Depth)
}

func (s *substitutor) unifyFreeAnswerVarConst(answerDepth int, pending ir.Const) (bool, error) {
	if answerDepth < s.answerBinders {
		return false, nil
	}
	param := s.answerSubst.Parameters[answerDepth-s.answerBinders]
	shifted, ok := fold.DownShiftConst(s.pendingBinders, pending)
	if !ok {
		panic("resolvent: truncation left a pending value referencing an internal binder")
	}
	result, err := s.table.UnifyConst(ir.AsConst(param), shifted)
	if err != nil {
		return false, err
	}
	result.IntoExClause(s.env, s.ex)
	return true, nil
}
