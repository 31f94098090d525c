package fold

import "github.com/traitforge/slgcore/pkg/ir"

// upShiftFolder builds the existential side of an up_shift(n) folder: every
// free Var's depth grows by n, regardless of kind. Skolems are untouched
// (the identity universal side), since shifting moves binders, not
// universes.
func upShiftFolder(n int) Folder {
	return Identity().WithExistential(
		func(depth, binders int) ir.Ty { return ir.VarTy{Depth: depth + n} },
		func(depth, binders int) ir.Lifetime { return ir.VarLifetime{Depth: depth + n} },
		func(depth, binders int) ir.Const { return ir.VarConst{Depth: depth + n} },
	)
}

// downShiftFolder builds the existential side of a down_shift(n) folder,
// reporting through ok whether every free Var it touched had free depth
// (depth - binders) >= n. A var with smaller free depth would, after the
// shift, collide with one of this term's own binders — the shift is
// invalid for this term and ok is left false.
func downShiftFolder(n int, ok *bool) Folder {
	return Identity().WithExistential(
		func(depth, binders int) ir.Ty {
			if depth-binders < n {
				*ok = false
				return ir.VarTy{Depth: depth}
			}
			return ir.VarTy{Depth: depth - n}
		},
		func(depth, binders int) ir.Lifetime {
			if depth-binders < n {
				*ok = false
				return ir.VarLifetime{Depth: depth}
			}
			return ir.VarLifetime{Depth: depth - n}
		},
		func(depth, binders int) ir.Const {
			if depth-binders < n {
				*ok = false
				return ir.VarConst{Depth: depth}
			}
			return ir.VarConst{Depth: depth - n}
		},
	)
}

// UpShiftTy adds n to every free Var depth in t.
func UpShiftTy(n int, t ir.Ty) ir.Ty {
	if n == 0 {
		return t
	}
	return Ty(upShiftFolder(n), t, 0)
}

// UpShiftLifetime adds n to every free Var depth in l.
func UpShiftLifetime(n int, l ir.Lifetime) ir.Lifetime {
	if n == 0 {
		return l
	}
	return Lifetime(upShiftFolder(n), l, 0)
}

// UpShiftConst adds n to every free Var depth in c.
func UpShiftConst(n int, c ir.Const) ir.Const {
	if n == 0 {
		return c
	}
	return Const(upShiftFolder(n), c, 0)
}

// UpShiftParameter adds n to every free Var depth in p, dispatching on kind.
func UpShiftParameter(n int, p ir.Parameter) ir.Parameter {
	if n == 0 {
		return p
	}
	return Parameter(upShiftFolder(n), p, 0)
}

// DownShiftTy subtracts n from every free Var depth in t. ok is false if
// some free Var's depth was too small, in which case the returned term
// must be discarded.
func DownShiftTy(n int, t ir.Ty) (ir.Ty, bool) {
	if n == 0 {
		return t, true
	}
	ok := true
	result := Ty(downShiftFolder(n, &ok), t, 0)
	return result, ok
}

// DownShiftLifetime subtracts n from every free Var depth in l. See
// DownShiftTy.
func DownShiftLifetime(n int, l ir.Lifetime) (ir.Lifetime, bool) {
	if n == 0 {
		return l, true
	}
	ok := true
	result := Lifetime(downShiftFolder(n, &ok), l, 0)
	return result, ok
}

// DownShiftConst subtracts n from every free Var depth in c. See
// DownShiftTy.
func DownShiftConst(n int, c ir.Const) (ir.Const, bool) {
	if n == 0 {
		return c, true
	}
	ok := true
	result := Const(downShiftFolder(n, &ok), c, 0)
	return result, ok
}

// DownShiftParameter subtracts n from every free Var depth in p,
// dispatching on kind. See DownShiftTy.
func DownShiftParameter(n int, p ir.Parameter) (ir.Parameter, bool) {
	if n == 0 {
		return p, true
	}
	ok := true
	result := Parameter(downShiftFolder(n, &ok), p, 0)
	return result, ok
}
