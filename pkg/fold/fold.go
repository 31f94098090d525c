// Package fold implements the generic term-rewriting framework the rest of
// the core is built on: instantiation, normalization, shifting and universe
// collection are all one Folder driven over a term while threading a
// running de Bruijn binder depth.
//
// Go has no trait mixing, so where the reference implementation composes
// four independent callback capabilities into one object, a Folder here is
// a plain struct of function values — start from Identity() and replace
// only the fields a given pass cares about. Every field must be set: the
// driver functions call them without a nil check.
package fold

import "github.com/traitforge/slgcore/pkg/ir"

// Folder holds the four capabilities a traversal needs: what to do when a
// free existential variable of each kind is reached, and what to do when a
// free universal (skolem) of each kind is reached. Each callback receives
// the raw de Bruijn depth (or universe) at the point of occurrence and the
// number of binders the traversal has descended through since it started;
// a depth-correct callback combines the two when synthesizing a new free
// reference, per the Contract in the component design.
//
// Const has no universal-folding field: free universal consts do not occur
// because nothing in this core ever constructs one (see the open question
// on const skolemization).
type Folder struct {
	FoldFreeExistentialTy       func(depth, binders int) ir.Ty
	FoldFreeExistentialLifetime func(depth, binders int) ir.Lifetime
	FoldFreeExistentialConst    func(depth, binders int) ir.Const

	FoldFreeUniversalTy       func(universe ir.Universe, binders int) ir.Ty
	FoldFreeUniversalLifetime func(universe ir.Universe, binders int) ir.Lifetime
}

// Identity is a Folder that leaves every term unchanged; embedding it by
// value and overriding only the fields a pass needs is the idiomatic way to
// build a partial folder (e.g. an existential-only instantiator keeps the
// identity universal behavior).
func Identity() Folder {
	return Folder{
		FoldFreeExistentialTy: func(depth, binders int) ir.Ty {
			return ir.VarTy{Depth: depth}
		},
		FoldFreeExistentialLifetime: func(depth, binders int) ir.Lifetime {
			return ir.VarLifetime{Depth: depth}
		},
		FoldFreeExistentialConst: func(depth, binders int) ir.Const {
			return ir.VarConst{Depth: depth}
		},
		FoldFreeUniversalTy: func(universe ir.Universe, binders int) ir.Ty {
			return ir.Skolem(universe)
		},
		FoldFreeUniversalLifetime: func(universe ir.Universe, binders int) ir.Lifetime {
			return ir.ForAllLifetime{Universe: universe}
		},
	}
}

// WithExistential returns a copy of f with its existential callbacks
// replaced. Used to build instantiators and normalizers, which only ever
// override the existential side and keep the identity universal side.
func (f Folder) WithExistential(
	ty func(depth, binders int) ir.Ty,
	lt func(depth, binders int) ir.Lifetime,
	ct func(depth, binders int) ir.Const,
) Folder {
	f.FoldFreeExistentialTy = ty
	f.FoldFreeExistentialLifetime = lt
	f.FoldFreeExistentialConst = ct
	return f
}

// WithUniversal returns a copy of f with its universal callbacks replaced.
// Used to build universal instantiators and universe collectors.
func (f Folder) WithUniversal(
	ty func(universe ir.Universe, binders int) ir.Ty,
	lt func(universe ir.Universe, binders int) ir.Lifetime,
) Folder {
	f.FoldFreeUniversalTy = ty
	f.FoldFreeUniversalLifetime = lt
	return f
}

// Ty folds t, recursing structurally and threading binders (the count of
// Binders/QuantifiedTy scopes entered so far). Free Vars and skolems are
// handed to f's callbacks; everything else recurses.
func Ty(f Folder, t ir.Ty, binders int) ir.Ty {
	switch v := t.(type) {
	case ir.VarTy:
		if v.Depth < binders {
			return v
		}
		return f.FoldFreeExistentialTy(v.Depth, binders)
	case ir.ApplicationTy:
		if skolem, ok := v.Name.(ir.SkolemTypeName); ok && len(v.Parameters) == 0 {
			return f.FoldFreeUniversalTy(skolem.Universe, binders)
		}
		return ir.ApplicationTy{Name: v.Name, Parameters: Parameters(f, v.Parameters, binders)}
	case ir.ProjectionTy:
		return ir.ProjectionTy{AssocTypeID: v.AssocTypeID, Parameters: Parameters(f, v.Parameters, binders)}
	case ir.UnselectedProjectionTy:
		return ir.UnselectedProjectionTy{TypeName: v.TypeName, Parameters: Parameters(f, v.Parameters, binders)}
	case ir.QuantifiedTy:
		return ir.QuantifiedTy{NumBinders: v.NumBinders, Inner: Ty(f, v.Inner, binders+v.NumBinders)}
	default:
		panic("fold: unknown Ty constructor")
	}
}

// Lifetime folds l the same way Ty does.
func Lifetime(f Folder, l ir.Lifetime, binders int) ir.Lifetime {
	switch v := l.(type) {
	case ir.VarLifetime:
		if v.Depth < binders {
			return v
		}
		return f.FoldFreeExistentialLifetime(v.Depth, binders)
	case ir.ForAllLifetime:
		return f.FoldFreeUniversalLifetime(v.Universe, binders)
	default:
		panic("fold: unknown Lifetime constructor")
	}
}

// Const folds c. Only Var exists; a free Var is handed to the existential
// callback, a bound one is left alone. There is no universal case: const
// skolems are never constructed (see the Folder doc and DESIGN.md).
func Const(f Folder, c ir.Const, binders int) ir.Const {
	v, ok := c.(ir.VarConst)
	if !ok {
		panic("fold: unknown Const constructor")
	}
	if v.Depth < binders {
		return v
	}
	return f.FoldFreeExistentialConst(v.Depth, binders)
}

// Parameter folds a single Parameter by dispatching on its kind.
func Parameter(f Folder, p ir.Parameter, binders int) ir.Parameter {
	switch v := p.(type) {
	case ir.TyParameter:
		return ir.TyParameter{Ty: Ty(f, v.Ty, binders)}
	case ir.LifetimeParameter:
		return ir.LifetimeParameter{Lifetime: Lifetime(f, v.Lifetime, binders)}
	case ir.ConstParameter:
		return ir.ConstParameter{Const: Const(f, v.Const, binders)}
	default:
		panic("fold: unknown Parameter constructor")
	}
}

// Parameters folds each element of ps.
func Parameters(f Folder, ps []ir.Parameter, binders int) []ir.Parameter {
	if ps == nil {
		return nil
	}
	out := make([]ir.Parameter, len(ps))
	for i, p := range ps {
		out[i] = Parameter(f, p, binders)
	}
	return out
}

// Goal folds g, recursing through quantifiers, implications, conjunction
// and negation down to leaf domain/equality goals.
func Goal(f Folder, g ir.Goal, binders int) ir.Goal {
	switch v := g.(type) {
	case ir.QuantifiedGoal:
		return ir.QuantifiedGoal{Kind: v.Kind, Goal: BindersGoal(f, v.Goal, binders)}
	case ir.ImpliesGoal:
		clauses := make([]ir.ProgramClause, len(v.Clauses))
		for i, c := range v.Clauses {
			clauses[i] = ProgramClause(f, c, binders)
		}
		return ir.ImpliesGoal{Clauses: clauses, Goal: Goal(f, v.Goal, binders)}
	case ir.AndGoal:
		return ir.AndGoal{Left: Goal(f, v.Left, binders), Right: Goal(f, v.Right, binders)}
	case ir.NotGoal:
		return ir.NotGoal{Goal: Goal(f, v.Goal, binders)}
	case ir.LeafGoalWrapper:
		return ir.Leaf(LeafGoal(f, v.Leaf, binders))
	case ir.CannotProveGoal:
		return v
	default:
		panic("fold: unknown Goal constructor")
	}
}

// LeafGoal folds an equality or domain goal.
func LeafGoal(f Folder, l ir.LeafGoal, binders int) ir.LeafGoal {
	switch v := l.(type) {
	case ir.EqGoal:
		return ir.EqGoal{A: Parameter(f, v.A, binders), B: Parameter(f, v.B, binders)}
	default:
		dg, ok := l.(ir.DomainGoal)
		if !ok {
			panic("fold: unknown LeafGoal constructor")
		}
		return DomainGoal(f, dg, binders)
	}
}

// DomainGoal folds a domain goal's embedded parameters and types.
func DomainGoal(f Folder, d ir.DomainGoal, binders int) ir.DomainGoal {
	switch v := d.(type) {
	case ir.ImplementedGoal:
		return ir.ImplementedGoal{Trait: traitRef(f, v.Trait, binders)}
	case ir.NormalizeGoal:
		return ir.NormalizeGoal{Projection: projectionTy(f, v.Projection, binders), Ty: Ty(f, v.Ty, binders)}
	case ir.ProjectionEqGoal:
		return ir.ProjectionEqGoal{Projection: projectionTy(f, v.Projection, binders), Ty: Ty(f, v.Ty, binders)}
	case ir.UnselectedNormalizeGoal:
		return ir.UnselectedNormalizeGoal{
			Projection: ir.UnselectedProjectionTy{TypeName: v.Projection.TypeName, Parameters: Parameters(f, v.Projection.Parameters, binders)},
			Ty:         Ty(f, v.Ty, binders),
		}
	case ir.WellFormedGoal:
		return ir.WellFormedGoal{Parameter: Parameter(f, v.Parameter, binders)}
	case ir.FromEnvGoal:
		return ir.FromEnvGoal{Parameter: Parameter(f, v.Parameter, binders)}
	case ir.InScopeGoal:
		return v
	default:
		panic("fold: unknown DomainGoal constructor")
	}
}

func traitRef(f Folder, r ir.TraitRef, binders int) ir.TraitRef {
	return ir.TraitRef{TraitID: r.TraitID, Parameters: Parameters(f, r.Parameters, binders)}
}

func projectionTy(f Folder, p ir.ProjectionTy, binders int) ir.ProjectionTy {
	return ir.ProjectionTy{AssocTypeID: p.AssocTypeID, Parameters: Parameters(f, p.Parameters, binders)}
}

// ProgramClauseImplication folds a clause body's consequence and
// conditions.
func ProgramClauseImplication(f Folder, i ir.ProgramClauseImplication, binders int) ir.ProgramClauseImplication {
	conditions := make([]ir.Goal, len(i.Conditions))
	for j, c := range i.Conditions {
		conditions[j] = Goal(f, c, binders)
	}
	return ir.ProgramClauseImplication{
		Consequence: DomainGoal(f, i.Consequence, binders),
		Conditions:  conditions,
	}
}

// ProgramClause folds a clause's binders and body together.
func ProgramClause(f Folder, c ir.ProgramClause, binders int) ir.ProgramClause {
	return BindersProgramClauseImplication(f, c, binders)
}

// BindersGoal folds a Binders[Goal], incrementing binders by the bound
// variable count while inside Value.
func BindersGoal(f Folder, b ir.Binders[ir.Goal], binders int) ir.Binders[ir.Goal] {
	return ir.Binders[ir.Goal]{Kinds: b.Kinds, Value: Goal(f, b.Value, binders+len(b.Kinds))}
}

// BindersProgramClauseImplication folds a Binders[ProgramClauseImplication].
func BindersProgramClauseImplication(f Folder, b ir.Binders[ir.ProgramClauseImplication], binders int) ir.Binders[ir.ProgramClauseImplication] {
	return ir.Binders[ir.ProgramClauseImplication]{
		Kinds: b.Kinds,
		Value: ProgramClauseImplication(f, b.Value, binders+len(b.Kinds)),
	}
}

// BindersTy folds a Binders[Ty].
func BindersTy(f Folder, b ir.Binders[ir.Ty], binders int) ir.Binders[ir.Ty] {
	return ir.Binders[ir.Ty]{Kinds: b.Kinds, Value: Ty(f, b.Value, binders+len(b.Kinds))}
}
