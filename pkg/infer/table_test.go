package infer

import (
	"testing"

	"github.com/traitforge/slgcore/pkg/ir"
)

func TestNewTableStartsEmpty(t *testing.T) {
	table := NewTable()
	if table.MaxUniverse() != ir.RootUniverse {
		t.Errorf("want a fresh table to start in U0, got %s", table.MaxUniverse())
	}
}

func TestNewUniverseIsMonotonic(t *testing.T) {
	table := NewTable()
	u1 := table.NewUniverse()
	u2 := table.NewUniverse()
	if !u1.Less(u2) {
		t.Errorf("want successive universes to increase, got %s then %s", u1, u2)
	}
	if table.MaxUniverse() != u2 {
		t.Errorf("want MaxUniverse to track the latest allocation, got %s", table.MaxUniverse())
	}
}

func TestNewTypeVariableBumpsMaxUniverse(t *testing.T) {
	table := NewTable()
	table.NewTypeVariable(ir.Universe(5))
	if table.MaxUniverse() != ir.Universe(5) {
		t.Errorf("want allocating a variable in U5 to raise the watermark, got %s", table.MaxUniverse())
	}
}

func TestProbeUnboundVariable(t *testing.T) {
	table := NewTable()
	v := table.NewTypeVariable(ir.RootUniverse)
	if _, bound := table.ProbeTypeVar(v.Depth); bound {
		t.Error("want a freshly allocated variable to be unbound")
	}
}

func TestSnapshotRollbackUndoesBinding(t *testing.T) {
	table := NewTable()
	env := ir.NewEnvironment()
	v := table.NewTypeVariable(ir.RootUniverse)

	snap := table.Snapshot()
	u32 := ir.ApplicationTy{Name: ir.ItemTypeName{ID: "u32"}}
	if _, err := table.UnifyTy(env, v, u32); err != nil {
		t.Fatalf("unify failed: %v", err)
	}
	if _, bound := table.ProbeTypeVar(v.Depth); !bound {
		t.Fatal("want the variable bound after unification")
	}

	table.RollbackTo(snap)
	if _, bound := table.ProbeTypeVar(v.Depth); bound {
		t.Error("want RollbackTo to undo the binding")
	}
}

func TestSnapshotRollbackUndoesVariableCreation(t *testing.T) {
	table := NewTable()
	table.NewTypeVariable(ir.RootUniverse)
	snap := table.Snapshot()
	table.NewTypeVariable(ir.RootUniverse)
	table.NewUniverse()

	table.RollbackTo(snap)
	if table.MaxUniverse() != ir.RootUniverse {
		t.Errorf("want the universe watermark restored, got %s", table.MaxUniverse())
	}
	if len(table.tys) != 1 {
		t.Errorf("want the second variable's slot gone, have %d slots", len(table.tys))
	}
}

func TestSnapshotsNestLIFO(t *testing.T) {
	table := NewTable()
	env := ir.NewEnvironment()
	v1 := table.NewTypeVariable(ir.RootUniverse)

	outer := table.Snapshot()
	if _, err := table.UnifyTy(env, v1, ir.ApplicationTy{Name: ir.ItemTypeName{ID: "A"}}); err != nil {
		t.Fatalf("unify failed: %v", err)
	}
	v2 := table.NewTypeVariable(ir.RootUniverse)
	inner := table.Snapshot()
	if _, err := table.UnifyTy(env, v2, ir.ApplicationTy{Name: ir.ItemTypeName{ID: "B"}}); err != nil {
		t.Fatalf("unify failed: %v", err)
	}

	table.RollbackTo(inner)
	if _, bound := table.ProbeTypeVar(v1.Depth); !bound {
		t.Error("rolling back to the inner snapshot should leave the outer binding intact")
	}
	if _, bound := table.ProbeTypeVar(v2.Depth); bound {
		t.Error("rolling back to the inner snapshot should undo v2's binding")
	}

	table.RollbackTo(outer)
	if _, bound := table.ProbeTypeVar(v1.Depth); bound {
		t.Error("rolling back to the outer snapshot should undo v1's binding too")
	}
}
