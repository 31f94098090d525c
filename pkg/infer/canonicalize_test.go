package infer

import (
	"testing"

	"github.com/traitforge/slgcore/pkg/ir"
)

func TestCanonicalizeTyDensifiesFirstOccurrenceOrder(t *testing.T) {
	table := NewTable()
	a := table.NewTypeVariable(ir.RootUniverse)
	b := table.NewTypeVariable(ir.Universe(2))
	// Skip a's own index in the source term's occurrence order: b appears
	// first, so it must receive canonical index 0, a canonical index 1.
	ty := ir.ApplicationTy{
		Name: ir.ItemTypeName{ID: "Pair"},
		Parameters: []ir.Parameter{
			ir.TyParameter{Ty: b},
			ir.TyParameter{Ty: a},
			ir.TyParameter{Ty: b},
		},
	}

	c := table.CanonicalizeTy(ty)
	if len(c.Kinds) != 2 {
		t.Fatalf("want 2 distinct existentials canonicalized, got %d", len(c.Kinds))
	}
	if c.Kinds[0].Value != ir.Universe(2) {
		t.Errorf("want canonical binder 0 to record b's universe U2, got %s", c.Kinds[0].Value)
	}
	if c.Kinds[1].Value != ir.RootUniverse {
		t.Errorf("want canonical binder 1 to record a's universe U0, got %s", c.Kinds[1].Value)
	}

	app := c.Value.(ir.ApplicationTy)
	first := app.Parameters[0].(ir.TyParameter).Ty.(ir.VarTy)
	second := app.Parameters[1].(ir.TyParameter).Ty.(ir.VarTy)
	third := app.Parameters[2].(ir.TyParameter).Ty.(ir.VarTy)
	if first.Depth != 0 || second.Depth != 1 || third.Depth != 0 {
		t.Errorf("want depths [0, 1, 0], got [%d, %d, %d]", first.Depth, second.Depth, third.Depth)
	}
}

func TestCanonicalizeTyIgnoresBoundInstantiation(t *testing.T) {
	// Canonicalize is purely structural: a bound variable's value is not
	// consulted, so canonicalizing a bound VarTy still yields a fresh
	// existential binder rather than the value it resolves to.
	table := NewTable()
	env := ir.NewEnvironment()
	v := table.NewTypeVariable(ir.RootUniverse)
	u32 := ir.ApplicationTy{Name: ir.ItemTypeName{ID: "u32"}}
	if _, err := table.UnifyTy(env, v, u32); err != nil {
		t.Fatalf("unify failed: %v", err)
	}

	c := table.CanonicalizeTy(v)
	if len(c.Kinds) != 1 {
		t.Fatalf("want one canonical binder even though v is bound, got %d", len(c.Kinds))
	}
	if !c.Value.(ir.VarTy).Equal(ir.VarTy{Depth: 0}) {
		t.Errorf("want the canonicalized value to still be a free variable, got %s", c.Value)
	}
}

func TestCanonicalizeConstrainedSubstSharesOneBinderList(t *testing.T) {
	table := NewTable()
	v := table.NewTypeVariable(ir.RootUniverse)
	l := table.NewLifetimeVariable(ir.RootUniverse)
	cs := ir.ConstrainedSubst{
		Subst:       ir.Substitution{Parameters: []ir.Parameter{ir.TyParameter{Ty: v}}},
		Constraints: []ir.Constraint{{A: l, B: l}},
	}

	c := table.CanonicalizeConstrainedSubst(cs)
	if len(c.Kinds) != 2 {
		t.Fatalf("want the type and lifetime variables to share one dense binder list, got %d binders", len(c.Kinds))
	}
	tyVar := c.Value.Subst.Parameters[0].(ir.TyParameter).Ty.(ir.VarTy)
	if tyVar.Depth != 0 {
		t.Errorf("want the type variable canonicalized to index 0, got %d", tyVar.Depth)
	}
	ltA := c.Value.Constraints[0].A.(ir.VarLifetime)
	ltB := c.Value.Constraints[0].B.(ir.VarLifetime)
	if ltA.Depth != 1 || ltB.Depth != 1 || ltA.Depth != ltB.Depth {
		t.Errorf("want both constraint sides canonicalized to the same lifetime index, got %d and %d", ltA.Depth, ltB.Depth)
	}
}
