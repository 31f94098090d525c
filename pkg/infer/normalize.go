package infer

import (
	"github.com/traitforge/slgcore/pkg/fold"
	"github.com/traitforge/slgcore/pkg/ir"
)

// NormalizeShallowTy returns term's instantiation, shifted by binders, if
// term is a free Var whose table representative is bound; otherwise it
// reports false and the term is left as is. This is the cheap check used
// throughout unification and the answer-substitution zipper before
// committing to a structural case.
func (t *Table) NormalizeShallowTy(term ir.Ty, binders int) (ir.Ty, bool) {
	v, ok := term.(ir.VarTy)
	if !ok || v.Depth < binders {
		return nil, false
	}
	val, bound := t.ProbeTypeVar(v.Depth - binders)
	if !bound {
		return nil, false
	}
	return fold.UpShiftTy(binders, val), true
}

// NormalizeShallowLifetime is NormalizeShallowTy for lifetimes.
func (t *Table) NormalizeShallowLifetime(term ir.Lifetime, binders int) (ir.Lifetime, bool) {
	v, ok := term.(ir.VarLifetime)
	if !ok || v.Depth < binders {
		return nil, false
	}
	val, bound := t.ProbeLifetimeVar(v.Depth - binders)
	if !bound {
		return nil, false
	}
	return fold.UpShiftLifetime(binders, val), true
}

// NormalizeShallowConst is NormalizeShallowTy for consts.
func (t *Table) NormalizeShallowConst(term ir.Const, binders int) (ir.Const, bool) {
	v, ok := term.(ir.VarConst)
	if !ok || v.Depth < binders {
		return nil, false
	}
	val, bound := t.ProbeConstVar(v.Depth - binders)
	if !bound {
		return nil, false
	}
	return fold.UpShiftConst(binders, val), true
}

// NormalizeDeepTy fully expands every instantiated variable in ty. It is
// not meant for hot paths — only for debug output and final answer
// extraction, per the component design.
func (t *Table) NormalizeDeepTy(ty ir.Ty) ir.Ty {
	f := t.deepNormalizeFolder()
	return fold.Ty(f, ty, 0)
}

// NormalizeDeepLifetime is NormalizeDeepTy for lifetimes.
func (t *Table) NormalizeDeepLifetime(l ir.Lifetime) ir.Lifetime {
	f := t.deepNormalizeFolder()
	return fold.Lifetime(f, l, 0)
}

// NormalizeDeepConst is NormalizeDeepTy for consts.
func (t *Table) NormalizeDeepConst(c ir.Const) ir.Const {
	f := t.deepNormalizeFolder()
	return fold.Const(f, c, 0)
}

// NormalizeDeepParameter is NormalizeDeepTy dispatching on kind.
func (t *Table) NormalizeDeepParameter(p ir.Parameter) ir.Parameter {
	f := t.deepNormalizeFolder()
	return fold.Parameter(f, p, 0)
}

func (t *Table) deepNormalizeFolder() fold.Folder {
	return fold.Identity().WithExistential(
		func(depth, binders int) ir.Ty {
			idx := depth - binders
			val, bound := t.ProbeTypeVar(idx)
			if !bound {
				return ir.VarTy{Depth: depth}
			}
			return fold.UpShiftTy(binders, t.NormalizeDeepTy(val))
		},
		func(depth, binders int) ir.Lifetime {
			idx := depth - binders
			val, bound := t.ProbeLifetimeVar(idx)
			if !bound {
				return ir.VarLifetime{Depth: depth}
			}
			return fold.UpShiftLifetime(binders, t.NormalizeDeepLifetime(val))
		},
		func(depth, binders int) ir.Const {
			idx := depth - binders
			val, bound := t.ProbeConstVar(idx)
			if !bound {
				return ir.VarConst{Depth: depth}
			}
			return fold.UpShiftConst(binders, t.NormalizeDeepConst(val))
		},
	)
}
