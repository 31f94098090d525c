package infer

import (
	"github.com/pkg/errors"
	"github.com/traitforge/slgcore/pkg/fold"
	"github.com/traitforge/slgcore/pkg/ir"
)

// ErrNoSolution is the single recoverable-failure sentinel the core ever
// returns: unification found a type mismatch, a universe violation, or an
// occurs-check failure; resolvent_clause's selected literal didn't unify
// with a candidate clause; or one of apply_answer_subst's zip-embedded
// unification calls rejected the instantiated answer value. It carries no
// data — the scheduler's own trace explains the failure, per the error
// handling design. A zip that finds the answer and pending goal shapes
// structurally incompatible is a different failure class entirely — an
// internal logic bug, not a candidate that merely failed to apply — and
// panics rather than returning this sentinel.
var ErrNoSolution = errors.New("no solution")

// UnificationResult carries what a successful unify call produced beyond
// the bindings it made directly in the table: deferred subgoals (from
// meeting a projection against a non-projection) and lifetime-equality
// constraints (from meeting a lifetime variable against a lifetime
// skolem).
type UnificationResult struct {
	Goals       []ir.Goal
	Constraints []ir.Constraint
}

func (r *UnificationResult) addGoal(g ir.Goal)           { r.Goals = append(r.Goals, g) }
func (r *UnificationResult) addConstraint(c ir.Constraint) { r.Constraints = append(r.Constraints, c) }
func (r *UnificationResult) merge(other *UnificationResult) {
	r.Goals = append(r.Goals, other.Goals...)
	r.Constraints = append(r.Constraints, other.Constraints...)
}

// IntoExClause folds r's deferred goals (as positive subgoals in env) and
// lifetime constraints into ex — the step resolvent_clause and
// apply_answer_subst both take right after a successful unify.
func (r *UnificationResult) IntoExClause(env *ir.Environment, ex *ir.ExClause) {
	ex.Constraints = append(ex.Constraints, r.Constraints...)
	for _, g := range r.Goals {
		ex.Subgoals = append(ex.Subgoals, ir.PositiveLiteral{Goal: ir.InEnvironment[ir.Goal]{Environment: env, Goal: g}})
	}
}

// UnifyTy solves a == b at binder depth 0, the entry point
// apply_answer_subst's zipper uses for type positions.
func (t *Table) UnifyTy(env *ir.Environment, a, b ir.Ty) (*UnificationResult, error) {
	t.logger.Trace("unify", "a", a, "b", b)
	result := &UnificationResult{}
	if err := t.unifyTy(env, a, b, 0, result); err != nil {
		return nil, err
	}
	return result, nil
}

// UnifyLifetime solves a == b for lifetimes.
func (t *Table) UnifyLifetime(env *ir.Environment, a, b ir.Lifetime) (*UnificationResult, error) {
	result := &UnificationResult{}
	if err := t.unifyLifetime(env, a, b, 0, result); err != nil {
		return nil, err
	}
	return result, nil
}

// UnifyConst solves a == b for consts.
func (t *Table) UnifyConst(a, b ir.Const) (*UnificationResult, error) {
	result := &UnificationResult{}
	if err := t.unifyConst(a, b, 0, result); err != nil {
		return nil, err
	}
	return result, nil
}

// UnifyParameter solves a == b for two same-kind parameters.
func (t *Table) UnifyParameter(env *ir.Environment, a, b ir.Parameter) (*UnificationResult, error) {
	result := &UnificationResult{}
	if err := t.unifyParameter(env, a, b, 0, result); err != nil {
		return nil, err
	}
	return result, nil
}

// UnifyDomainGoal solves a == b for two domain goals, the entry point
// resolvent_clause uses to unify a selected literal against a candidate
// clause's consequence.
func (t *Table) UnifyDomainGoal(env *ir.Environment, a, b ir.DomainGoal) (*UnificationResult, error) {
	result := &UnificationResult{}
	if err := t.unifyDomainGoal(env, a, b, 0, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (t *Table) unifyDomainGoal(env *ir.Environment, a, b ir.DomainGoal, binders int, result *UnificationResult) error {
	switch av := a.(type) {
	case ir.ImplementedGoal:
		bv, ok := b.(ir.ImplementedGoal)
		if !ok || av.Trait.TraitID != bv.Trait.TraitID {
			return ErrNoSolution
		}
		return t.unifyParameters(env, av.Trait.Parameters, bv.Trait.Parameters, binders, result)
	case ir.NormalizeGoal:
		bv, ok := b.(ir.NormalizeGoal)
		if !ok || av.Projection.AssocTypeID != bv.Projection.AssocTypeID {
			return ErrNoSolution
		}
		if err := t.unifyParameters(env, av.Projection.Parameters, bv.Projection.Parameters, binders, result); err != nil {
			return err
		}
		return t.unifyTy(env, av.Ty, bv.Ty, binders, result)
	case ir.ProjectionEqGoal:
		bv, ok := b.(ir.ProjectionEqGoal)
		if !ok || av.Projection.AssocTypeID != bv.Projection.AssocTypeID {
			return ErrNoSolution
		}
		if err := t.unifyParameters(env, av.Projection.Parameters, bv.Projection.Parameters, binders, result); err != nil {
			return err
		}
		return t.unifyTy(env, av.Ty, bv.Ty, binders, result)
	case ir.UnselectedNormalizeGoal:
		bv, ok := b.(ir.UnselectedNormalizeGoal)
		if !ok || !av.Projection.TypeName.Equal(bv.Projection.TypeName) {
			return ErrNoSolution
		}
		if err := t.unifyParameters(env, av.Projection.Parameters, bv.Projection.Parameters, binders, result); err != nil {
			return err
		}
		return t.unifyTy(env, av.Ty, bv.Ty, binders, result)
	case ir.WellFormedGoal:
		bv, ok := b.(ir.WellFormedGoal)
		if !ok {
			return ErrNoSolution
		}
		return t.unifyParameter(env, av.Parameter, bv.Parameter, binders, result)
	case ir.FromEnvGoal:
		bv, ok := b.(ir.FromEnvGoal)
		if !ok {
			return ErrNoSolution
		}
		return t.unifyParameter(env, av.Parameter, bv.Parameter, binders, result)
	case ir.InScopeGoal:
		bv, ok := b.(ir.InScopeGoal)
		if !ok || av.TraitID != bv.TraitID {
			return ErrNoSolution
		}
		return nil
	default:
		return errors.Errorf("infer: unknown domain goal kind in unify: %T", a)
	}
}

func (t *Table) unifyParameter(env *ir.Environment, a, b ir.Parameter, binders int, result *UnificationResult) error {
	switch av := a.(type) {
	case ir.TyParameter:
		bv, ok := b.(ir.TyParameter)
		if !ok {
			return ErrNoSolution
		}
		return t.unifyTy(env, av.Ty, bv.Ty, binders, result)
	case ir.LifetimeParameter:
		bv, ok := b.(ir.LifetimeParameter)
		if !ok {
			return ErrNoSolution
		}
		return t.unifyLifetime(env, av.Lifetime, bv.Lifetime, binders, result)
	case ir.ConstParameter:
		bv, ok := b.(ir.ConstParameter)
		if !ok {
			return ErrNoSolution
		}
		return t.unifyConst(av.Const, bv.Const, binders, result)
	default:
		return errors.Errorf("infer: unknown parameter kind in unify: %T", a)
	}
}

func (t *Table) unifyParameters(env *ir.Environment, as, bs []ir.Parameter, binders int, result *UnificationResult) error {
	if len(as) != len(bs) {
		return ErrNoSolution
	}
	for i := range as {
		if err := t.unifyParameter(env, as[i], bs[i], binders, result); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) unifyTy(env *ir.Environment, a, b ir.Ty, binders int, result *UnificationResult) error {
	if n, ok := t.NormalizeShallowTy(a, binders); ok {
		a = n
	}
	if n, ok := t.NormalizeShallowTy(b, binders); ok {
		b = n
	}

	if av, ok := a.(ir.VarTy); ok && av.Depth >= binders {
		return t.bindTy(env, av.Depth-binders, b, binders, result)
	}
	if bv, ok := b.(ir.VarTy); ok && bv.Depth >= binders {
		return t.bindTy(env, bv.Depth-binders, a, binders, result)
	}
	if av, ok := a.(ir.VarTy); ok {
		bv, ok := b.(ir.VarTy)
		if !ok || av.Depth != bv.Depth {
			return ErrNoSolution
		}
		return nil
	}

	aProj, aIsProj := a.(ir.ProjectionTy)
	bProj, bIsProj := b.(ir.ProjectionTy)
	switch {
	case aIsProj && bIsProj && aProj.AssocTypeID == bProj.AssocTypeID:
		return t.unifyParameters(env, aProj.Parameters, bProj.Parameters, binders, result)
	case aIsProj:
		result.addGoal(ir.Leaf(ir.ProjectionEqGoal{Projection: aProj, Ty: b}))
		return nil
	case bIsProj:
		result.addGoal(ir.Leaf(ir.ProjectionEqGoal{Projection: bProj, Ty: a}))
		return nil
	}

	switch av := a.(type) {
	case ir.ApplicationTy:
		bv, ok := b.(ir.ApplicationTy)
		if !ok || !av.Name.Equal(bv.Name) {
			return ErrNoSolution
		}
		return t.unifyParameters(env, av.Parameters, bv.Parameters, binders, result)
	case ir.UnselectedProjectionTy:
		bv, ok := b.(ir.UnselectedProjectionTy)
		if !ok || !av.TypeName.Equal(bv.TypeName) {
			return ErrNoSolution
		}
		return t.unifyParameters(env, av.Parameters, bv.Parameters, binders, result)
	case ir.QuantifiedTy:
		bv, ok := b.(ir.QuantifiedTy)
		if !ok || av.NumBinders != bv.NumBinders {
			return ErrNoSolution
		}
		return t.unifyTy(env, av.Inner, bv.Inner, binders+av.NumBinders, result)
	default:
		return ErrNoSolution
	}
}

func (t *Table) unifyLifetime(env *ir.Environment, a, b ir.Lifetime, binders int, result *UnificationResult) error {
	if n, ok := t.NormalizeShallowLifetime(a, binders); ok {
		a = n
	}
	if n, ok := t.NormalizeShallowLifetime(b, binders); ok {
		b = n
	}

	av, aVar := a.(ir.VarLifetime)
	bv, bVar := b.(ir.VarLifetime)

	switch {
	case aVar && av.Depth >= binders && bVar && bv.Depth >= binders:
		return t.bindLifetimeVarToVar(av.Depth-binders, bv.Depth-binders, result)
	case aVar && av.Depth >= binders:
		return t.bindLifetime(av.Depth-binders, b, binders, result)
	case bVar && bv.Depth >= binders:
		return t.bindLifetime(bv.Depth-binders, a, binders, result)
	case aVar && bVar:
		if av.Depth != bv.Depth {
			return ErrNoSolution
		}
		return nil
	}

	askolem, aSkolem := a.(ir.ForAllLifetime)
	bskolem, bSkolem := b.(ir.ForAllLifetime)
	if aSkolem && bSkolem {
		if askolem.Universe != bskolem.Universe {
			return ErrNoSolution
		}
		return nil
	}
	return ErrNoSolution
}

func (t *Table) unifyConst(a, b ir.Const, binders int, result *UnificationResult) error {
	if n, ok := t.NormalizeShallowConst(a, binders); ok {
		a = n
	}
	if n, ok := t.NormalizeShallowConst(b, binders); ok {
		b = n
	}

	av, aVar := a.(ir.VarConst)
	bv, bVar := b.(ir.VarConst)

	switch {
	case aVar && av.Depth >= binders && bVar && bv.Depth >= binders:
		return t.bindConstVarToVar(av.Depth-binders, bv.Depth-binders)
	case aVar && av.Depth >= binders:
		return t.bindConst(av.Depth-binders, b, binders)
	case bVar && bv.Depth >= binders:
		return t.bindConst(bv.Depth-binders, a, binders)
	case aVar && bVar:
		if av.Depth != bv.Depth {
			return ErrNoSolution
		}
		return nil
	}
	return ErrNoSolution
}

// bindTy instantiates type variable idx (declared at the ambient binders
// depth) to candidate, after down-shifting candidate out of the ambient
// binder scope and checking the universe invariant.
func (t *Table) bindTy(env *ir.Environment, idx int, candidate ir.Ty, binders int, result *UnificationResult) error {
	shifted, ok := fold.DownShiftTy(binders, candidate)
	if !ok {
		return ErrNoSolution
	}
	ui := t.typeVarUniverse(idx)
	if err := t.checkAndRaiseTy(ui, shifted); err != nil {
		return err
	}
	if occursTy(t, idx, shifted) {
		return ErrNoSolution
	}
	t.bindTypeVar(idx, shifted)
	return nil
}

func (t *Table) bindLifetime(idx int, candidate ir.Lifetime, binders int, result *UnificationResult) error {
	shifted, ok := fold.DownShiftLifetime(binders, candidate)
	if !ok {
		return ErrNoSolution
	}
	if skolem, isSkolem := shifted.(ir.ForAllLifetime); isSkolem {
		// Lifetime variable against lifetime skolem: defer as a
		// constraint rather than instantiate, per the component design.
		result.addConstraint(ir.LifetimeEq(ir.VarLifetime{Depth: idx}, skolem))
		return nil
	}
	ui := t.lifetimeVarUniverse(idx)
	if err := t.checkAndRaiseLifetime(ui, shifted); err != nil {
		return err
	}
	if v, ok := shifted.(ir.VarLifetime); ok && v.Depth == idx {
		return ErrNoSolution
	}
	t.bindLifetimeVar(idx, shifted)
	return nil
}

func (t *Table) bindLifetimeVarToVar(a, b int, result *UnificationResult) error {
	if a == b {
		return nil
	}
	ua, ub := t.lifetimeVarUniverse(a), t.lifetimeVarUniverse(b)
	if ua <= ub {
		t.bindLifetimeVar(b, ir.VarLifetime{Depth: a})
	} else {
		t.bindLifetimeVar(a, ir.VarLifetime{Depth: b})
	}
	return nil
}

func (t *Table) bindConst(idx int, candidate ir.Const, binders int) error {
	shifted, ok := fold.DownShiftConst(binders, candidate)
	if !ok {
		return ErrNoSolution
	}
	ui := t.constVarUniverse(idx)
	if err := t.checkAndRaiseConst(ui, shifted); err != nil {
		return err
	}
	if v, ok := shifted.(ir.VarConst); ok && v.Depth == idx {
		return ErrNoSolution
	}
	t.bindConstVar(idx, shifted)
	return nil
}

func (t *Table) bindConstVarToVar(a, b int) error {
	if a == b {
		return nil
	}
	ua, ub := t.constVarUniverse(a), t.constVarUniverse(b)
	if ua <= ub {
		t.bindConstVar(b, ir.VarConst{Depth: a})
	} else {
		t.bindConstVar(a, ir.VarConst{Depth: b})
	}
	return nil
}

// checkAndRaiseTy walks candidate (already down-shifted to binders=0)
// ensuring every skolem free in it is visible from ui and raising the
// universe of every existential free in it that currently exceeds ui, per
// the universe check on instantiation.
func (t *Table) checkAndRaiseTy(ui ir.Universe, candidate ir.Ty) error {
	f, errf := t.universeCheckFolder(ui)
	fold.Ty(f, candidate, 0)
	return *errf
}

func (t *Table) checkAndRaiseLifetime(ui ir.Universe, candidate ir.Lifetime) error {
	f, errf := t.universeCheckFolder(ui)
	fold.Lifetime(f, candidate, 0)
	return *errf
}

func (t *Table) checkAndRaiseConst(ui ir.Universe, candidate ir.Const) error {
	f, errf := t.universeCheckFolder(ui)
	fold.Const(f, candidate, 0)
	return *errf
}

func (t *Table) universeCheckFolder(ui ir.Universe) (fold.Folder, *error) {
	var err error
	f := fold.Identity().WithExistential(
		func(depth, binders int) ir.Ty {
			idx := depth - binders
			if val, bound := t.ProbeTypeVar(idx); bound {
				if e := t.checkAndRaiseTy(ui, fold.UpShiftTy(binders, val)); e != nil && err == nil {
					err = e
				}
			} else if t.typeVarUniverse(idx) > ui {
				t.raiseTypeVarUniverse(idx, ui)
			}
			return ir.VarTy{Depth: depth}
		},
		func(depth, binders int) ir.Lifetime {
			idx := depth - binders
			if val, bound := t.ProbeLifetimeVar(idx); bound {
				if e := t.checkAndRaiseLifetime(ui, fold.UpShiftLifetime(binders, val)); e != nil && err == nil {
					err = e
				}
			} else if t.lifetimeVarUniverse(idx) > ui {
				t.raiseLifetimeVarUniverse(idx, ui)
			}
			return ir.VarLifetime{Depth: depth}
		},
		func(depth, binders int) ir.Const {
			idx := depth - binders
			if val, bound := t.ProbeConstVar(idx); bound {
				if e := t.checkAndRaiseConst(ui, fold.UpShiftConst(binders, val)); e != nil && err == nil {
					err = e
				}
			} else if t.constVarUniverse(idx) > ui {
				t.raiseConstVarUniverse(idx, ui)
			}
			return ir.VarConst{Depth: depth}
		},
	).WithUniversal(
		func(u ir.Universe, binders int) ir.Ty {
			if u > ui && err == nil {
				err = ErrNoSolution
			}
			return ir.Skolem(u)
		},
		func(u ir.Universe, binders int) ir.Lifetime {
			if u > ui && err == nil {
				err = ErrNoSolution
			}
			return ir.ForAllLifetime{Universe: u}
		},
	)
	return f, &err
}

// occursTy reports whether type variable idx appears free (directly or
// through a chain of bindings) in candidate, which must already be
// down-shifted to binders=0.
func occursTy(t *Table, idx int, candidate ir.Ty) bool {
	found := false
	f := fold.Identity().WithExistential(
		func(depth, binders int) ir.Ty {
			d := depth - binders
			if d == idx {
				found = true
				return ir.VarTy{Depth: depth}
			}
			if val, bound := t.ProbeTypeVar(d); bound && occursTy(t, idx, val) {
				found = true
			}
			return ir.VarTy{Depth: depth}
		},
		func(depth, binders int) ir.Lifetime { return ir.VarLifetime{Depth: depth} },
		func(depth, binders int) ir.Const { return ir.VarConst{Depth: depth} },
	)
	fold.Ty(f, candidate, 0)
	return found
}
