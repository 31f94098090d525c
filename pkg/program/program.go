// Package program implements an in-memory reference ir.Program: the name
// oracle the core consults for pretty printing and projection splitting.
// It is the concrete oracle used by tests and the demo driver, built once
// from a whole file's worth of declarations via Register/RegisterAssocType.
package program

import (
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/traitforge/slgcore/pkg/ir"
)

// TraitDecl records a trait's declared formal-parameter count (Self
// included), which SplitProjection needs to tell a projection's trait
// parameters apart from its associated type's own.
type TraitDecl struct {
	ID            ir.ItemID
	NumParameters int
}

// Database is an in-memory ir.Program. Construct with New, populate with
// Register/RegisterTrait/RegisterAssocType (or RegisterAll for batch
// validation), then treat it as read-only.
type Database struct {
	types    map[ir.ItemID]ir.TypeKind
	traits   map[ir.ItemID]TraitDecl
	assocTys map[ir.AssocTypeID]ir.AssociatedTyDatum
}

// New returns an empty Database.
func New() *Database {
	return &Database{
		types:    make(map[ir.ItemID]ir.TypeKind),
		traits:   make(map[ir.ItemID]TraitDecl),
		assocTys: make(map[ir.AssocTypeID]ir.AssociatedTyDatum),
	}
}

// NewItemID mints a fresh opaque type or trait identifier.
func NewItemID() ir.ItemID { return ir.ItemID(uuid.NewString()) }

// NewAssocTypeID mints a fresh opaque associated-type identifier.
func NewAssocTypeID() ir.AssocTypeID { return ir.AssocTypeID(uuid.NewString()) }

// Register declares a nominal type under id.
func (d *Database) Register(id ir.ItemID, name string) error {
	if _, exists := d.types[id]; exists {
		return errors.Errorf("program: type %s already registered", id)
	}
	if _, exists := d.traits[id]; exists {
		return errors.Errorf("program: id %s already registered as a trait", id)
	}
	d.types[id] = ir.TypeKind{Name: name}
	return nil
}

// RegisterTrait declares a trait under id with numParameters formal
// parameters, Self included.
func (d *Database) RegisterTrait(id ir.ItemID, numParameters int) error {
	if _, exists := d.traits[id]; exists {
		return errors.Errorf("program: trait %s already registered", id)
	}
	if _, exists := d.types[id]; exists {
		return errors.Errorf("program: id %s already registered as a type", id)
	}
	d.traits[id] = TraitDecl{ID: id, NumParameters: numParameters}
	return nil
}

// RegisterAssocType declares an associated type under id, owned by
// datum.TraitID, which must already be registered.
func (d *Database) RegisterAssocType(id ir.AssocTypeID, datum ir.AssociatedTyDatum) error {
	if _, exists := d.assocTys[id]; exists {
		return errors.Errorf("program: associated type %s already registered", id)
	}
	if _, ok := d.traits[datum.TraitID]; !ok {
		return errors.Errorf("program: associated type %s declares unknown trait %s", id, datum.TraitID)
	}
	d.assocTys[id] = datum
	return nil
}

// RegisterAll runs each registration in order, accumulating every failure
// into a single multierror instead of stopping at the first one: a
// Database is typically built once from a whole file's worth of
// declarations, and a caller benefits from seeing every conflict at once
// rather than fixing them one compile-edit-run cycle at a time.
func (d *Database) RegisterAll(fns ...func(*Database) error) error {
	var result *multierror.Error
	for _, fn := range fns {
		if err := fn(d); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// TypeKind implements ir.Program.
func (d *Database) TypeKind(id ir.ItemID) (ir.TypeKind, bool) {
	k, ok := d.types[id]
	return k, ok
}

// AssociatedTyDatum implements ir.Program.
func (d *Database) AssociatedTyDatum(id ir.AssocTypeID) (ir.AssociatedTyDatum, bool) {
	datum, ok := d.assocTys[id]
	return datum, ok
}

// Trait looks up a registered trait's declaration.
func (d *Database) Trait(id ir.ItemID) (TraitDecl, bool) {
	t, ok := d.traits[id]
	return t, ok
}

// SplitProjection implements ir.Program: it partitions p's parameters into
// the owning trait's leading parameters (Self included) and the
// associated type's own trailing parameters.
func (d *Database) SplitProjection(p ir.ProjectionTy) (ir.AssociatedTyDatum, []ir.Parameter, []ir.Parameter, bool) {
	datum, ok := d.assocTys[p.AssocTypeID]
	if !ok {
		return ir.AssociatedTyDatum{}, nil, nil, false
	}
	trait, ok := d.traits[datum.TraitID]
	if !ok || len(p.Parameters) < trait.NumParameters {
		return ir.AssociatedTyDatum{}, nil, nil, false
	}
	return datum, p.Parameters[:trait.NumParameters], p.Parameters[trait.NumParameters:], true
}

var _ ir.Program = (*Database)(nil)
