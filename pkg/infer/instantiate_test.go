package infer

import (
	"testing"

	"github.com/traitforge/slgcore/pkg/ir"
)

func TestInstantiateCanonicalTyFreshensPerBinder(t *testing.T) {
	table := NewTable()
	c := ir.Canonical[ir.Ty]{Binders: ir.Binders[ir.Ty]{
		Kinds: []ir.BoundVarKind{{Kind: ir.KindType, Value: ir.RootUniverse}, {Kind: ir.KindType, Value: ir.Universe(3)}},
		Value: ir.ApplicationTy{
			Name:       ir.ItemTypeName{ID: "Pair"},
			Parameters: []ir.Parameter{ir.TyParameter{Ty: ir.VarTy{Depth: 0}}, ir.TyParameter{Ty: ir.VarTy{Depth: 1}}},
		},
	}}

	result := table.InstantiateCanonicalTy(c)
	app := result.(ir.ApplicationTy)
	first := app.Parameters[0].(ir.TyParameter).Ty.(ir.VarTy)
	second := app.Parameters[1].(ir.TyParameter).Ty.(ir.VarTy)
	if first.Depth == second.Depth {
		t.Fatal("want two distinct fresh variables, got the same one for both binders")
	}
	if table.typeVarUniverse(first.Depth) != ir.RootUniverse {
		t.Errorf("want binder 0's fresh variable declared in U0, got %s", table.typeVarUniverse(first.Depth))
	}
	if table.typeVarUniverse(second.Depth) != ir.Universe(3) {
		t.Errorf("want binder 1's fresh variable declared in U3, got %s", table.typeVarUniverse(second.Depth))
	}
}

func TestInstantiateInTyForcesSharedUniverse(t *testing.T) {
	table := NewTable()
	kinds := []ir.BoundVarKind{{Kind: ir.KindType, Value: ir.RootUniverse}}
	result := table.InstantiateInTy(ir.Universe(2), kinds, ir.VarTy{Depth: 0})
	v := result.(ir.VarTy)
	if table.typeVarUniverse(v.Depth) != ir.Universe(2) {
		t.Errorf("want the fresh variable declared in the forced universe U2 regardless of the binder's own, got %s", table.typeVarUniverse(v.Depth))
	}
}

func TestInstantiateBindersExistentiallyUsesMaxUniverse(t *testing.T) {
	table := NewTable()
	table.NewUniverse()
	table.NewUniverse() // max_universe now U2
	b := ir.Binders[ir.Goal]{
		Kinds: []ir.BoundVarKind{{Kind: ir.KindType, Value: ir.RootUniverse}},
		Value: ir.Leaf(ir.ImplementedGoal{Trait: ir.TraitRef{
			TraitID:    "Clone",
			Parameters: []ir.Parameter{ir.TyParameter{Ty: ir.VarTy{Depth: 0}}},
		}}),
	}

	result := table.InstantiateBindersExistentiallyGoal(b)
	leaf := result.(ir.LeafGoalWrapper).Leaf.(ir.ImplementedGoal)
	v := leaf.Trait.Parameters[0].(ir.TyParameter).Ty.(ir.VarTy)
	if table.typeVarUniverse(v.Depth) != table.MaxUniverse() {
		t.Errorf("want the fresh variable declared in the table's current max universe %s, got %s", table.MaxUniverse(), table.typeVarUniverse(v.Depth))
	}
}

func TestInstantiateBindersUniversallyAllocatesFreshUniversePerBinder(t *testing.T) {
	table := NewTable()
	before := table.MaxUniverse()
	b := ir.Binders[ir.Ty]{
		Kinds: []ir.BoundVarKind{{Kind: ir.KindType, Value: ir.RootUniverse}, {Kind: ir.KindType, Value: ir.RootUniverse}},
		Value: ir.ApplicationTy{
			Name:       ir.ItemTypeName{ID: "Pair"},
			Parameters: []ir.Parameter{ir.TyParameter{Ty: ir.VarTy{Depth: 0}}, ir.TyParameter{Ty: ir.VarTy{Depth: 1}}},
		},
	}

	result := table.InstantiateBindersUniversallyTy(b)
	if table.MaxUniverse() != before+2 {
		t.Fatalf("want max_universe to advance by exactly one universe per binder, went from %s to %s", before, table.MaxUniverse())
	}
	app := result.(ir.ApplicationTy)
	first := app.Parameters[0].(ir.TyParameter).Ty.(ir.ApplicationTy).Name.(ir.SkolemTypeName)
	second := app.Parameters[1].(ir.TyParameter).Ty.(ir.ApplicationTy).Name.(ir.SkolemTypeName)
	if first.Universe == second.Universe {
		t.Error("want each binder skolemized into its own distinct universe")
	}
}

func TestInstantiateBindersUniversallyPanicsOnConst(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("want universally instantiating a const binder to panic, per the unresolved const-skolem question")
		}
	}()
	table := NewTable()
	b := ir.Binders[ir.Ty]{
		Kinds: []ir.BoundVarKind{{Kind: ir.KindConst, Value: ir.RootUniverse}},
		Value: ir.VarTy{Depth: 0},
	}
	table.InstantiateBindersUniversallyTy(b)
}

func TestInstantiateCanonicalLeavesOuterFreeVarsRenumbered(t *testing.T) {
	// A free existential beyond the binder range is renumbered down by the
	// number of binders peeled off, not left referencing a now-nonexistent
	// depth.
	table := NewTable()
	c := ir.Canonical[ir.Ty]{Binders: ir.Binders[ir.Ty]{
		Kinds: []ir.BoundVarKind{{Kind: ir.KindType, Value: ir.RootUniverse}},
		Value: ir.VarTy{Depth: 1}, // depth 1, free relative to this Canonical's single binder
	}}
	result := table.InstantiateCanonicalTy(c)
	v, ok := result.(ir.VarTy)
	if !ok {
		t.Fatalf("want a renumbered free variable, got %T", result)
	}
	if v.Depth != 0 {
		t.Errorf("want the outer free variable renumbered to depth 0 after removing the one peeled binder, got %d", v.Depth)
	}
}
