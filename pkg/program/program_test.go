package program

import (
	"testing"

	"github.com/traitforge/slgcore/pkg/ir"
)

func TestRegisterAndTypeKind(t *testing.T) {
	db := New()
	id := NewItemID()
	if err := db.Register(id, "Vec"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	kind, ok := db.TypeKind(id)
	if !ok || kind.Name != "Vec" {
		t.Errorf("want TypeKind to resolve the registered name, got %v (ok=%v)", kind, ok)
	}
}

func TestRegisterDuplicateFails(t *testing.T) {
	db := New()
	id := NewItemID()
	if err := db.Register(id, "Vec"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := db.Register(id, "Vec"); err == nil {
		t.Error("want registering the same id twice to fail")
	}
}

func TestRegisterRejectsTraitIDCollision(t *testing.T) {
	db := New()
	id := NewItemID()
	if err := db.RegisterTrait(id, 1); err != nil {
		t.Fatalf("RegisterTrait failed: %v", err)
	}
	if err := db.Register(id, "Vec"); err == nil {
		t.Error("want registering a type under an id already used by a trait to fail")
	}
}

func TestRegisterAssocTypeRequiresKnownTrait(t *testing.T) {
	db := New()
	assocID := NewAssocTypeID()
	if err := db.RegisterAssocType(assocID, ir.AssociatedTyDatum{TraitID: NewItemID(), Name: "Item"}); err == nil {
		t.Error("want registering an associated type against an unknown trait to fail")
	}
}

func TestRegisterAllAccumulatesEveryFailure(t *testing.T) {
	db := New()
	id := NewItemID()
	err := db.RegisterAll(
		func(d *Database) error { return d.Register(id, "Vec") },
		func(d *Database) error { return d.Register(id, "Vec") },
		func(d *Database) error { return d.RegisterTrait(id, 1) },
	)
	if err == nil {
		t.Fatal("want RegisterAll to report the accumulated failures")
	}
	if _, ok := db.TypeKind(id); !ok {
		t.Error("want the first, successful registration to have gone through despite later failures")
	}
}

func TestRegisterAllSucceedsWhenEveryStepSucceeds(t *testing.T) {
	db := New()
	cloneID, vecID := NewItemID(), NewItemID()
	err := db.RegisterAll(
		func(d *Database) error { return d.RegisterTrait(cloneID, 1) },
		func(d *Database) error { return d.Register(vecID, "Vec") },
	)
	if err != nil {
		t.Fatalf("want no error when every registration succeeds, got %v", err)
	}
}

func TestSplitProjectionPartitionsParameters(t *testing.T) {
	db := New()
	traitID := NewItemID()
	assocID := NewAssocTypeID()
	if err := db.RegisterTrait(traitID, 2); err != nil {
		t.Fatalf("RegisterTrait failed: %v", err)
	}
	if err := db.RegisterAssocType(assocID, ir.AssociatedTyDatum{TraitID: traitID, Name: "Item", NumOwnParameters: 1}); err != nil {
		t.Fatalf("RegisterAssocType failed: %v", err)
	}

	selfTy := ir.TyParameter{Ty: ir.ApplicationTy{Name: ir.ItemTypeName{ID: "MyIter"}}}
	traitArg := ir.TyParameter{Ty: ir.ApplicationTy{Name: ir.ItemTypeName{ID: "u32"}}}
	ownArg := ir.TyParameter{Ty: ir.ApplicationTy{Name: ir.ItemTypeName{ID: "i64"}}}
	proj := ir.ProjectionTy{AssocTypeID: assocID, Parameters: []ir.Parameter{selfTy, traitArg, ownArg}}

	datum, traitParams, ownParams, ok := db.SplitProjection(proj)
	if !ok {
		t.Fatal("want SplitProjection to resolve a registered projection")
	}
	if datum.Name != "Item" {
		t.Errorf("want the resolved datum's name Item, got %s", datum.Name)
	}
	if len(traitParams) != 2 || !traitParams[0].Equal(selfTy) || !traitParams[1].Equal(traitArg) {
		t.Errorf("want the trait's 2 leading parameters (Self included), got %v", traitParams)
	}
	if len(ownParams) != 1 || !ownParams[0].Equal(ownArg) {
		t.Errorf("want the associated type's 1 own trailing parameter, got %v", ownParams)
	}
}

func TestSplitProjectionUnknownAssocType(t *testing.T) {
	db := New()
	_, _, _, ok := db.SplitProjection(ir.ProjectionTy{AssocTypeID: NewAssocTypeID()})
	if ok {
		t.Error("want SplitProjection to report failure for an unregistered associated type")
	}
}
