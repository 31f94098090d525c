package infer

import (
	"testing"

	"github.com/traitforge/slgcore/pkg/ir"
)

func TestUnifyTyBindsFreeVariable(t *testing.T) {
	table := NewTable()
	env := ir.NewEnvironment()
	v := table.NewTypeVariable(ir.RootUniverse)
	u32 := ir.ApplicationTy{Name: ir.ItemTypeName{ID: "u32"}}

	if _, err := table.UnifyTy(env, v, u32); err != nil {
		t.Fatalf("unify failed: %v", err)
	}
	bound, ok := table.ProbeTypeVar(v.Depth)
	if !ok || !bound.Equal(u32) {
		t.Errorf("want %s bound to %s, got %v (bound=%v)", v, u32, bound, ok)
	}
}

func TestUnifyTyApplicationMismatch(t *testing.T) {
	table := NewTable()
	env := ir.NewEnvironment()
	a := ir.ApplicationTy{Name: ir.ItemTypeName{ID: "u32"}}
	b := ir.ApplicationTy{Name: ir.ItemTypeName{ID: "i64"}}

	if _, err := table.UnifyTy(env, a, b); err != ErrNoSolution {
		t.Errorf("want ErrNoSolution for mismatched nominal types, got %v", err)
	}
}

func TestUnifyTyRecursesIntoParameters(t *testing.T) {
	table := NewTable()
	env := ir.NewEnvironment()
	v := table.NewTypeVariable(ir.RootUniverse)
	a := ir.ApplicationTy{Name: ir.ItemTypeName{ID: "Vec"}, Parameters: []ir.Parameter{ir.TyParameter{Ty: v}}}
	b := ir.ApplicationTy{Name: ir.ItemTypeName{ID: "Vec"}, Parameters: []ir.Parameter{
		ir.TyParameter{Ty: ir.ApplicationTy{Name: ir.ItemTypeName{ID: "u32"}}},
	}}

	if _, err := table.UnifyTy(env, a, b); err != nil {
		t.Fatalf("unify failed: %v", err)
	}
	bound, ok := table.ProbeTypeVar(v.Depth)
	if !ok || !bound.Equal(ir.ApplicationTy{Name: ir.ItemTypeName{ID: "u32"}}) {
		t.Errorf("want the nested variable bound to u32, got %v", bound)
	}
}

func TestUnifyTyOccursCheck(t *testing.T) {
	table := NewTable()
	env := ir.NewEnvironment()
	v := table.NewTypeVariable(ir.RootUniverse)
	cyclic := ir.ApplicationTy{Name: ir.ItemTypeName{ID: "Vec"}, Parameters: []ir.Parameter{ir.TyParameter{Ty: v}}}

	if _, err := table.UnifyTy(env, v, cyclic); err != ErrNoSolution {
		t.Errorf("want ErrNoSolution from the occurs check, got %v", err)
	}
}

func TestUnifyTyUniverseViolationRolledBack(t *testing.T) {
	table := NewTable()
	env := ir.NewEnvironment()
	u1 := table.NewUniverse()
	x := table.NewTypeVariable(u1)
	u2 := table.NewUniverse()

	snap := table.Snapshot()
	_, err := table.UnifyTy(env, x, ir.Skolem(u2))
	if err != ErrNoSolution {
		t.Fatalf("want ErrNoSolution binding a U%d variable to a deeper skolem, got %v", u1, err)
	}
	table.RollbackTo(snap)
	if _, bound := table.ProbeTypeVar(x.Depth); bound {
		t.Error("want the failed unification rolled back, variable still unbound")
	}
}

func TestUnifyTyRaisesNestedExistentialUniverse(t *testing.T) {
	// Binding x (declared in U0) to y (declared in U1, less visible) must
	// lower y's universe to U0: y now only ever appears through x, which
	// is only visible that far in.
	table := NewTable()
	env := ir.NewEnvironment()
	x := table.NewTypeVariable(ir.RootUniverse)
	u1 := table.NewUniverse()
	y := table.NewTypeVariable(u1)

	if _, err := table.UnifyTy(env, x, y); err != nil {
		t.Fatalf("want binding across universes to succeed with a raise, got %v", err)
	}
	if got := table.typeVarUniverse(y.Depth); got != ir.RootUniverse {
		t.Errorf("want y's universe lowered to %s, got %s", ir.RootUniverse, got)
	}
}

func TestUnifyTyVisibleSkolemSucceeds(t *testing.T) {
	// A variable declared in U2 can be bound to a skolem in a strictly
	// more-visible universe (U1 <= U2) without any violation.
	table := NewTable()
	env := ir.NewEnvironment()
	u1 := table.NewUniverse()
	table.NewUniverse()
	x := table.NewTypeVariable(ir.Universe(2))

	if _, err := table.UnifyTy(env, x, ir.Skolem(u1)); err != nil {
		t.Fatalf("want a visible skolem to unify cleanly, got %v", err)
	}
	bound, ok := table.ProbeTypeVar(x.Depth)
	if !ok || !bound.Equal(ir.Skolem(u1)) {
		t.Errorf("want x bound to the skolem, got %v", bound)
	}
}

func TestUnifyDomainGoalImplemented(t *testing.T) {
	table := NewTable()
	env := ir.NewEnvironment()
	v := table.NewTypeVariable(ir.RootUniverse)
	a := ir.ImplementedGoal{Trait: ir.TraitRef{TraitID: "Clone", Parameters: []ir.Parameter{ir.TyParameter{Ty: v}}}}
	b := ir.ImplementedGoal{Trait: ir.TraitRef{TraitID: "Clone", Parameters: []ir.Parameter{
		ir.TyParameter{Ty: ir.ApplicationTy{Name: ir.ItemTypeName{ID: "u32"}}},
	}}}

	if _, err := table.UnifyDomainGoal(env, a, b); err != nil {
		t.Fatalf("unify failed: %v", err)
	}
	bound, ok := table.ProbeTypeVar(v.Depth)
	if !ok || !bound.Equal(ir.ApplicationTy{Name: ir.ItemTypeName{ID: "u32"}}) {
		t.Errorf("want Self bound to u32, got %v", bound)
	}
}

func TestUnifyDomainGoalTraitMismatch(t *testing.T) {
	table := NewTable()
	env := ir.NewEnvironment()
	a := ir.ImplementedGoal{Trait: ir.TraitRef{TraitID: "Clone"}}
	b := ir.ImplementedGoal{Trait: ir.TraitRef{TraitID: "Copy"}}

	if _, err := table.UnifyDomainGoal(env, a, b); err != ErrNoSolution {
		t.Errorf("want ErrNoSolution for differing trait ids, got %v", err)
	}
}

func TestUnifyTyProjectionAgainstNonProjectionDefers(t *testing.T) {
	table := NewTable()
	env := ir.NewEnvironment()
	proj := ir.ProjectionTy{AssocTypeID: "Item"}
	u32 := ir.ApplicationTy{Name: ir.ItemTypeName{ID: "u32"}}

	result, err := table.UnifyTy(env, proj, u32)
	if err != nil {
		t.Fatalf("want meeting a projection against a concrete type to defer, not fail: %v", err)
	}
	if len(result.Goals) != 1 {
		t.Fatalf("want exactly one deferred ProjectionEq goal, got %d", len(result.Goals))
	}
}
