package fold

import (
	"testing"

	"github.com/traitforge/slgcore/pkg/ir"
)

func TestUpDownShiftRoundTrip(t *testing.T) {
	ty := ir.ApplicationTy{
		Name:       ir.ItemTypeName{ID: "Vec"},
		Parameters: []ir.Parameter{ir.TyParameter{Ty: ir.VarTy{Depth: 3}}},
	}
	shifted := UpShiftTy(2, ty)
	want := ir.ApplicationTy{
		Name:       ir.ItemTypeName{ID: "Vec"},
		Parameters: []ir.Parameter{ir.TyParameter{Ty: ir.VarTy{Depth: 5}}},
	}
	if !shifted.Equal(want) {
		t.Errorf("UpShiftTy(2, %s) = %s, want %s", ty, shifted, want)
	}

	back, ok := DownShiftTy(2, shifted)
	if !ok {
		t.Fatal("DownShiftTy reported !ok for a value shifted well clear of its own binders")
	}
	if !back.Equal(ty) {
		t.Errorf("down-shift did not invert up-shift: got %s, want %s", back, ty)
	}
}

func TestDownShiftRejectsCollision(t *testing.T) {
	// VarTy{0} would collide with a binder introduced by the shift target;
	// down-shifting by more than its depth must fail rather than produce a
	// nonsensical negative index.
	_, ok := DownShiftTy(1, ir.VarTy{Depth: 0})
	if ok {
		t.Error("want DownShiftTy to reject a var too shallow to shift, got ok")
	}
}

func TestShiftZeroIsIdentity(t *testing.T) {
	ty := ir.VarTy{Depth: 7}
	if got := UpShiftTy(0, ty); got != ty {
		t.Errorf("UpShiftTy(0, ...) should return the same value, got %v", got)
	}
	got, ok := DownShiftTy(0, ty)
	if !ok || got != ty {
		t.Errorf("DownShiftTy(0, ...) should return the same value, got %v, %v", got, ok)
	}
}

func TestUpShiftLeavesSkolemsAlone(t *testing.T) {
	skolem := ir.Skolem(ir.Universe(2))
	if got := UpShiftTy(5, skolem); !got.Equal(skolem) {
		t.Errorf("up-shifting a skolem should be a no-op, got %s", got)
	}
}
