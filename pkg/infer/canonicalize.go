package infer

import (
	"github.com/traitforge/slgcore/pkg/fold"
	"github.com/traitforge/slgcore/pkg/ir"
)

// canonicalizer assigns each distinct free existential encountered, in
// left-to-right first-occurrence order, a fresh dense canonical index,
// recording its kind and declared universe. It is purely structural: a
// variable's binding (if any) is not consulted, only its declared universe
// — callers that want instantiated variables folded in first should
// normalize_deep before canonicalizing.
type canonicalizer struct {
	table  *Table
	tyMap  map[int]int
	ltMap  map[int]int
	ctMap  map[int]int
	kinds  []ir.BoundVarKind
}

func newCanonicalizer(t *Table) *canonicalizer {
	return &canonicalizer{
		table: t,
		tyMap: make(map[int]int),
		ltMap: make(map[int]int),
		ctMap: make(map[int]int),
	}
}

func (c *canonicalizer) folder() fold.Folder {
	return fold.Identity().WithExistential(
		func(depth, binders int) ir.Ty {
			idx := depth - binders
			canon, ok := c.tyMap[idx]
			if !ok {
				canon = len(c.kinds)
				c.tyMap[idx] = canon
				c.kinds = append(c.kinds, ir.BoundVarKind{Kind: ir.KindType, Value: c.table.typeVarUniverse(idx)})
			}
			return ir.VarTy{Depth: canon + binders}
		},
		func(depth, binders int) ir.Lifetime {
			idx := depth - binders
			canon, ok := c.ltMap[idx]
			if !ok {
				canon = len(c.kinds)
				c.ltMap[idx] = canon
				c.kinds = append(c.kinds, ir.BoundVarKind{Kind: ir.KindLifetime, Value: c.table.lifetimeVarUniverse(idx)})
			}
			return ir.VarLifetime{Depth: canon + binders}
		},
		func(depth, binders int) ir.Const {
			idx := depth - binders
			canon, ok := c.ctMap[idx]
			if !ok {
				canon = len(c.kinds)
				c.ctMap[idx] = canon
				c.kinds = append(c.kinds, ir.BoundVarKind{Kind: ir.KindConst, Value: c.table.constVarUniverse(idx)})
			}
			return ir.VarConst{Depth: canon + binders}
		},
	)
}

// CanonicalizeTy freezes ty's current free existentials into a Canonical
// form.
func (t *Table) CanonicalizeTy(ty ir.Ty) ir.Canonical[ir.Ty] {
	c := newCanonicalizer(t)
	value := fold.Ty(c.folder(), ty, 0)
	return ir.Canonical[ir.Ty]{Binders: ir.Binders[ir.Ty]{Kinds: c.kinds, Value: value}}
}

// CanonicalizeGoal is CanonicalizeTy for goals.
func (t *Table) CanonicalizeGoal(g ir.Goal) ir.Canonical[ir.Goal] {
	c := newCanonicalizer(t)
	value := fold.Goal(c.folder(), g, 0)
	return ir.Canonical[ir.Goal]{Binders: ir.Binders[ir.Goal]{Kinds: c.kinds, Value: value}}
}

// CanonicalizeConstrainedSubst canonicalizes a ConstrainedSubst (the shape
// an SLG answer takes): its substituted parameters and lifetime
// constraints share one binder list.
func (t *Table) CanonicalizeConstrainedSubst(cs ir.ConstrainedSubst) ir.Canonical[ir.ConstrainedSubst] {
	c := newCanonicalizer(t)
	f := c.folder()
	params := make([]ir.Parameter, len(cs.Subst.Parameters))
	for i, p := range cs.Subst.Parameters {
		params[i] = fold.Parameter(f, p, 0)
	}
	constraints := make([]ir.Constraint, len(cs.Constraints))
	for i, ct := range cs.Constraints {
		constraints[i] = ir.Constraint{
			A: fold.Lifetime(f, ct.A, 0),
			B: fold.Lifetime(f, ct.B, 0),
		}
	}
	value := ir.ConstrainedSubst{Subst: ir.Substitution{Parameters: params}, Constraints: constraints}
	return ir.Canonical[ir.ConstrainedSubst]{Binders: ir.Binders[ir.ConstrainedSubst]{Kinds: c.kinds, Value: value}}
}
