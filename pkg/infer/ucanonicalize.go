package infer

import (
	"github.com/traitforge/slgcore/pkg/fold"
	"github.com/traitforge/slgcore/pkg/ir"
)

// uCanonicalize implements the two-pass algorithm shared by every
// UCanonicalize* entry point: collect every universe appearing free in the
// payload into a UniverseMap seeded with U0, then remap both the payload's
// skolems and the binders' declared universes through it.
func uCanonicalize[T any](t *Table, c ir.Canonical[T], foldValue func(fold.Folder, T, int) T) (ir.UCanonical[T], *ir.UniverseMap) {
	t.logger.Trace("u_canonicalize", "binders", len(c.Kinds))
	m := ir.NewUniverseMap()

	collector := fold.Identity().WithUniversal(
		func(u ir.Universe, binders int) ir.Ty {
			m.Add(u)
			return ir.Skolem(u)
		},
		func(u ir.Universe, binders int) ir.Lifetime {
			m.Add(u)
			return ir.ForAllLifetime{Universe: u}
		},
	)
	foldValue(collector, c.Value, 0)

	remapper := fold.Identity().WithUniversal(
		func(u ir.Universe, binders int) ir.Ty {
			return ir.Skolem(m.MapUniverseToCanonical(u))
		},
		func(u ir.Universe, binders int) ir.Lifetime {
			return ir.ForAllLifetime{Universe: m.MapUniverseToCanonical(u)}
		},
	)
	remappedValue := foldValue(remapper, c.Value, 0)

	kinds := make([]ir.BoundVarKind, len(c.Kinds))
	for i, k := range c.Kinds {
		kinds[i] = ir.BoundVarKind{Kind: k.Kind, Value: m.MapUniverseToCanonical(k.Value)}
	}

	return ir.UCanonical[T]{
		Canonical: ir.Canonical[T]{Binders: ir.Binders[T]{Kinds: kinds, Value: remappedValue}},
		Universes: len(m.Universes),
	}, m
}

// UCanonicalizeTy compresses ty's universes into a dense, monotone mapping.
func (t *Table) UCanonicalizeTy(c ir.Canonical[ir.Ty]) (ir.UCanonical[ir.Ty], *ir.UniverseMap) {
	return uCanonicalize(t, c, fold.Ty)
}

// UCanonicalizeGoal is UCanonicalizeTy for goals.
func (t *Table) UCanonicalizeGoal(c ir.Canonical[ir.Goal]) (ir.UCanonical[ir.Goal], *ir.UniverseMap) {
	return uCanonicalize(t, c, fold.Goal)
}

// UCanonicalizeConstrainedSubst is UCanonicalizeTy for answer substitutions
// — the shape a completed subgoal's answer is u-canonicalized into before
// being stored as a table key's answer.
func (t *Table) UCanonicalizeConstrainedSubst(c ir.Canonical[ir.ConstrainedSubst]) (ir.UCanonical[ir.ConstrainedSubst], *ir.UniverseMap) {
	return uCanonicalize(t, c, foldConstrainedSubst)
}

func foldConstrainedSubst(f fold.Folder, cs ir.ConstrainedSubst, binders int) ir.ConstrainedSubst {
	params := make([]ir.Parameter, len(cs.Subst.Parameters))
	for i, p := range cs.Subst.Parameters {
		params[i] = fold.Parameter(f, p, binders)
	}
	constraints := make([]ir.Constraint, len(cs.Constraints))
	for i, c := range cs.Constraints {
		constraints[i] = ir.Constraint{A: fold.Lifetime(f, c.A, binders), B: fold.Lifetime(f, c.B, binders)}
	}
	return ir.ConstrainedSubst{Subst: ir.Substitution{Parameters: params}, Constraints: constraints}
}
