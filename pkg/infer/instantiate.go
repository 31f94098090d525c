package infer

import (
	"github.com/traitforge/slgcore/pkg/fold"
	"github.com/traitforge/slgcore/pkg/ir"
)

// instantiator replaces each of the first len(vars) free existentials with
// the corresponding entry of vars, up-shifted into the traversal's current
// binder depth. A free existential beyond that range pre-existed the
// binders being peeled off here and is renumbered down by len(vars) to
// account for their removal.
type instantiator struct {
	vars []ir.Parameter
}

func (in *instantiator) folder() fold.Folder {
	return fold.Identity().WithExistential(
		func(depth, binders int) ir.Ty {
			free := depth - binders
			if free < len(in.vars) {
				return fold.UpShiftTy(binders, ir.AsTy(in.vars[free]))
			}
			return ir.VarTy{Depth: depth - len(in.vars)}
		},
		func(depth, binders int) ir.Lifetime {
			free := depth - binders
			if free < len(in.vars) {
				return fold.UpShiftLifetime(binders, ir.AsLifetime(in.vars[free]))
			}
			return ir.VarLifetime{Depth: depth - len(in.vars)}
		},
		func(depth, binders int) ir.Const {
			free := depth - binders
			if free < len(in.vars) {
				return fold.UpShiftConst(binders, ir.AsConst(in.vars[free]))
			}
			return ir.VarConst{Depth: depth - len(in.vars)}
		},
	)
}

func (t *Table) parameterKindToParameter(k ir.BoundVarKind) ir.Parameter {
	switch k.Kind {
	case ir.KindType:
		return ir.TyParameter{Ty: t.NewTypeVariable(k.Value)}
	case ir.KindLifetime:
		return ir.LifetimeParameter{Lifetime: t.NewLifetimeVariable(k.Value)}
	case ir.KindConst:
		return ir.ConstParameter{Const: t.NewConstVariable(k.Value)}
	default:
		panic("infer: unknown BoundVarKind kind")
	}
}

// FreshSubst builds a Substitution mapping each of kinds to a brand new
// existential variable of matching kind and declared universe. Applying the
// result to the value kinds was taken from is equivalent to instantiating
// it, and is the shape the resolvent engine needs when it must hold onto
// the substitution itself rather than just the instantiated term.
func (t *Table) FreshSubst(kinds []ir.BoundVarKind) ir.Substitution {
	params := make([]ir.Parameter, len(kinds))
	for i, k := range kinds {
		params[i] = t.parameterKindToParameter(k)
	}
	return ir.Substitution{Parameters: params}
}

func instantiate[T any](t *Table, kinds []ir.BoundVarKind, value T, foldValue func(fold.Folder, T, int) T) T {
	vars := make([]ir.Parameter, len(kinds))
	for i, k := range kinds {
		vars[i] = t.parameterKindToParameter(k)
	}
	in := &instantiator{vars: vars}
	return foldValue(in.folder(), value, 0)
}

// InstantiateCanonicalTy replaces every free existential a Canonical[Ty]
// carries with a fresh variable of the declared kind and universe.
func (t *Table) InstantiateCanonicalTy(c ir.Canonical[ir.Ty]) ir.Ty {
	return instantiate(t, c.Kinds, c.Value, fold.Ty)
}

// InstantiateCanonicalGoal is InstantiateCanonicalTy for goals.
func (t *Table) InstantiateCanonicalGoal(c ir.Canonical[ir.Goal]) ir.Goal {
	return instantiate(t, c.Kinds, c.Value, fold.Goal)
}

// InstantiateCanonicalConstrainedSubst is InstantiateCanonicalTy for answer
// substitutions — the step that turns a stored, frozen table answer back
// into a live term usable against the caller's own table.
func (t *Table) InstantiateCanonicalConstrainedSubst(c ir.Canonical[ir.ConstrainedSubst]) ir.ConstrainedSubst {
	return instantiate(t, c.Kinds, c.Value, foldConstrainedSubst)
}

func withUniverse(kinds []ir.BoundVarKind, u ir.Universe) []ir.BoundVarKind {
	out := make([]ir.BoundVarKind, len(kinds))
	for i, k := range kinds {
		out[i] = ir.BoundVarKind{Kind: k.Kind, Value: u}
	}
	return out
}

// InstantiateInTy instantiates a value with len(kinds) leading binders,
// allocating every fresh variable in the given universe regardless of what
// (if anything) those binders had declared — used to apply a universally
// quantified program clause like `forall X. P => Q` against a goal in a
// known universe.
func (t *Table) InstantiateInTy(universe ir.Universe, kinds []ir.BoundVarKind, value ir.Ty) ir.Ty {
	return instantiate(t, withUniverse(kinds, universe), value, fold.Ty)
}

// InstantiateInGoal is InstantiateInTy for goals.
func (t *Table) InstantiateInGoal(universe ir.Universe, kinds []ir.BoundVarKind, value ir.Goal) ir.Goal {
	return instantiate(t, withUniverse(kinds, universe), value, fold.Goal)
}

// InstantiateInProgramClauseImplication is InstantiateInTy for a program
// clause's body.
func (t *Table) InstantiateInProgramClauseImplication(universe ir.Universe, kinds []ir.BoundVarKind, value ir.ProgramClauseImplication) ir.ProgramClauseImplication {
	return instantiate(t, withUniverse(kinds, universe), value, fold.ProgramClauseImplication)
}

// InstantiateBindersExistentiallyGoal instantiates b's binders as fresh
// existentials all allocated in the table's current max universe — the
// shorthand used whenever a bound value is being unwrapped into the
// ambient proof context rather than checked against one particular universe.
func (t *Table) InstantiateBindersExistentiallyGoal(b ir.Binders[ir.Goal]) ir.Goal {
	return t.InstantiateInGoal(t.MaxUniverse(), b.Kinds, b.Value)
}

// InstantiateBindersExistentiallyProgramClauseImplication is
// InstantiateBindersExistentiallyGoal for a program clause body — the usual
// way a clause is pulled off the environment and turned into a candidate
// during resolution.
func (t *Table) InstantiateBindersExistentiallyProgramClauseImplication(b ir.Binders[ir.ProgramClauseImplication]) ir.ProgramClauseImplication {
	return t.InstantiateInProgramClauseImplication(t.MaxUniverse(), b.Kinds, b.Value)
}

// universalVars allocates one fresh universe per kind and wraps it as the
// matching skolem parameter: ForAllLifetime for lifetimes, a zero-arity
// SkolemTypeName application for types. Const has no skolem form, so a
// const binder panics — see the Open Questions in DESIGN.md.
func (t *Table) universalVars(kinds []ir.BoundVarKind) []ir.Parameter {
	vars := make([]ir.Parameter, len(kinds))
	for i, k := range kinds {
		u := t.NewUniverse()
		switch k.Kind {
		case ir.KindLifetime:
			vars[i] = ir.LifetimeParameter{Lifetime: ir.ForAllLifetime{Universe: u}}
		case ir.KindConst:
			panic("infer: universal instantiation of a const parameter is not supported")
		default:
			vars[i] = ir.TyParameter{Ty: ir.Skolem(u)}
		}
	}
	return vars
}

// InstantiateBindersUniversallyGoal replaces each of b's binders with a
// skolem constant in its own brand new universe — the standard way to
// reduce a ForAll-quantified goal to one about fresh, rigid names before
// attempting to prove it.
func (t *Table) InstantiateBindersUniversallyGoal(b ir.Binders[ir.Goal]) ir.Goal {
	in := &instantiator{vars: t.universalVars(b.Kinds)}
	return fold.Goal(in.folder(), b.Value, 0)
}

// InstantiateBindersUniversallyTy is InstantiateBindersUniversallyGoal for a
// bound type.
func (t *Table) InstantiateBindersUniversallyTy(b ir.Binders[ir.Ty]) ir.Ty {
	in := &instantiator{vars: t.universalVars(b.Kinds)}
	return fold.Ty(in.folder(), b.Value, 0)
}
