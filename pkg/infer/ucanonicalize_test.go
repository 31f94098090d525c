package infer

import (
	"testing"

	"github.com/traitforge/slgcore/pkg/ir"
)

func TestUCanonicalizeTyCompressesUniverses(t *testing.T) {
	table := NewTable()
	u1 := table.NewUniverse()
	u2 := table.NewUniverse()
	u3 := table.NewUniverse()
	pair := ir.ItemID("Pair")

	c := ir.Canonical[ir.Ty]{Binders: ir.Binders[ir.Ty]{
		Kinds: []ir.BoundVarKind{{Kind: ir.KindType, Value: u2}},
		Value: ir.ApplicationTy{
			Name:       ir.ItemTypeName{ID: pair},
			Parameters: []ir.Parameter{ir.TyParameter{Ty: ir.Skolem(u1)}, ir.TyParameter{Ty: ir.Skolem(u3)}},
		},
	}}

	uc, m := table.UCanonicalizeTy(c)
	want := []ir.Universe{ir.RootUniverse, u1, u3}
	if len(m.Universes) != len(want) {
		t.Fatalf("want universe map %v, got %v", want, m.Universes)
	}
	for i := range want {
		if m.Universes[i] != want[i] {
			t.Fatalf("want universe map %v, got %v", want, m.Universes)
		}
	}
	if uc.Universes != 3 {
		t.Errorf("want 3 distinct universes, got %d", uc.Universes)
	}
	// u2 never appears free (only as the binder's own declared universe),
	// so it maps to the largest canonical universe strictly below it: u1's
	// canonical index.
	if uc.Kinds[0].Value != ir.Universe(1) {
		t.Errorf("want the binder-only universe remapped to U1, got %s", uc.Kinds[0].Value)
	}

	app := uc.Value.(ir.ApplicationTy)
	first := app.Parameters[0].(ir.TyParameter).Ty.(ir.ApplicationTy).Name.(ir.SkolemTypeName)
	second := app.Parameters[1].(ir.TyParameter).Ty.(ir.ApplicationTy).Name.(ir.SkolemTypeName)
	if first.Universe != ir.Universe(1) {
		t.Errorf("want u1 remapped to canonical U1, got %s", first.Universe)
	}
	if second.Universe != ir.Universe(2) {
		t.Errorf("want u3 remapped to canonical U2, got %s", second.Universe)
	}
}

func TestUCanonicalizeTyAlwaysIncludesRoot(t *testing.T) {
	table := NewTable()
	c := ir.Canonical[ir.Ty]{Binders: ir.Binders[ir.Ty]{
		Value: ir.ApplicationTy{Name: ir.ItemTypeName{ID: "u32"}},
	}}
	_, m := table.UCanonicalizeTy(c)
	if len(m.Universes) != 1 || m.Universes[0] != ir.RootUniverse {
		t.Errorf("want a ground term's universe map to contain only U0, got %v", m.Universes)
	}
}

func TestUCanonicalizeIsDeterministic(t *testing.T) {
	table := NewTable()
	u1 := table.NewUniverse()
	c := ir.Canonical[ir.Ty]{Binders: ir.Binders[ir.Ty]{
		Value: ir.ApplicationTy{
			Name:       ir.ItemTypeName{ID: "Pair"},
			Parameters: []ir.Parameter{ir.TyParameter{Ty: ir.Skolem(u1)}, ir.TyParameter{Ty: ir.Skolem(u1)}},
		},
	}}
	uc1, _ := table.UCanonicalizeTy(c)
	uc2, _ := table.UCanonicalizeTy(c)
	if !uc1.Value.Equal(uc2.Value) {
		t.Errorf("want u-canonicalizing the same term twice to produce identical results, got %s and %s", uc1.Value, uc2.Value)
	}
}
