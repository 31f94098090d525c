// Package infer implements the inference table: per-kind existential
// variable stores with snapshot/rollback, unification, shallow/deep
// normalization, canonicalization and u-canonicalization, and the three
// instantiation flavors the resolvent engine drives.
package infer

import (
	"github.com/hashicorp/go-hclog"
	"github.com/traitforge/slgcore/pkg/ir"
)

type tySlot struct {
	universe ir.Universe
	bound    bool
	value    ir.Ty
}

type lifetimeSlot struct {
	universe ir.Universe
	bound    bool
	value    ir.Lifetime
}

type constSlot struct {
	universe ir.Universe
	bound    bool
	value    ir.Const
}

type trailKind int

const (
	trailBindTy trailKind = iota
	trailBindLifetime
	trailBindConst
	trailRaiseTy
	trailRaiseLifetime
	trailRaiseConst
)

type trailEntry struct {
	kind     trailKind
	index    int
	universe ir.Universe // previous universe, for trailRaise* entries
}

// Table is the inference table (component C): three per-kind variable
// stores plus a universe watermark. It is not safe for concurrent use —
// per the concurrency model, each proof-attempt strand owns one Table
// exclusively for the duration of a step, and the enclosing scheduler
// (internal/parallel) is responsible for never sharing one across strands.
type Table struct {
	tys       []tySlot
	lifetimes []lifetimeSlot
	consts    []constSlot

	maxUniverse ir.Universe
	trail       []trailEntry

	logger hclog.Logger
}

// NewTable returns an empty inference table in the root universe, logging
// nothing.
func NewTable() *Table {
	return &Table{logger: hclog.NewNullLogger()}
}

// WithLogger sets t's trace logger and returns t, for fluent construction:
// infer.NewTable().WithLogger(l).
func (t *Table) WithLogger(l hclog.Logger) *Table {
	if l == nil {
		l = hclog.NewNullLogger()
	}
	t.logger = l
	return t
}

// Logger returns t's trace logger, for packages that drive the table (the
// resolvent engine, u-canonicalization) to log at their own call sites
// instead of only inside Table's own methods.
func (t *Table) Logger() hclog.Logger { return t.logger }

// MaxUniverse returns the highest universe any live variable was created
// in, or that NewUniverse has allocated.
func (t *Table) MaxUniverse() ir.Universe { return t.maxUniverse }

// NewUniverse allocates a universe strictly greater than every prior one.
func (t *Table) NewUniverse() ir.Universe {
	t.maxUniverse++
	return t.maxUniverse
}

func (t *Table) bumpMaxUniverse(u ir.Universe) {
	if u > t.maxUniverse {
		t.maxUniverse = u
	}
}

// NewTypeVariable allocates a fresh existential type variable in universe u.
func (t *Table) NewTypeVariable(u ir.Universe) ir.VarTy {
	t.bumpMaxUniverse(u)
	t.tys = append(t.tys, tySlot{universe: u})
	return ir.VarTy{Depth: len(t.tys) - 1}
}

// NewLifetimeVariable allocates a fresh existential lifetime variable in
// universe u.
func (t *Table) NewLifetimeVariable(u ir.Universe) ir.VarLifetime {
	t.bumpMaxUniverse(u)
	t.lifetimes = append(t.lifetimes, lifetimeSlot{universe: u})
	return ir.VarLifetime{Depth: len(t.lifetimes) - 1}
}

// NewConstVariable allocates a fresh existential const variable in
// universe u.
func (t *Table) NewConstVariable(u ir.Universe) ir.VarConst {
	t.bumpMaxUniverse(u)
	t.consts = append(t.consts, constSlot{universe: u})
	return ir.VarConst{Depth: len(t.consts) - 1}
}

// ProbeTypeVar peeks at index's current instantiation, if any.
func (t *Table) ProbeTypeVar(index int) (ir.Ty, bool) {
	s := t.tys[index]
	return s.value, s.bound
}

// ProbeLifetimeVar peeks at index's current instantiation, if any.
func (t *Table) ProbeLifetimeVar(index int) (ir.Lifetime, bool) {
	s := t.lifetimes[index]
	return s.value, s.bound
}

// ProbeConstVar peeks at index's current instantiation, if any.
func (t *Table) ProbeConstVar(index int) (ir.Const, bool) {
	s := t.consts[index]
	return s.value, s.bound
}

func (t *Table) typeVarUniverse(index int) ir.Universe     { return t.tys[index].universe }
func (t *Table) lifetimeVarUniverse(index int) ir.Universe { return t.lifetimes[index].universe }
func (t *Table) constVarUniverse(index int) ir.Universe    { return t.consts[index].universe }

func (t *Table) bindTypeVar(index int, value ir.Ty) {
	t.trail = append(t.trail, trailEntry{kind: trailBindTy, index: index})
	t.tys[index].bound = true
	t.tys[index].value = value
}

func (t *Table) bindLifetimeVar(index int, value ir.Lifetime) {
	t.trail = append(t.trail, trailEntry{kind: trailBindLifetime, index: index})
	t.lifetimes[index].bound = true
	t.lifetimes[index].value = value
}

func (t *Table) bindConstVar(index int, value ir.Const) {
	t.trail = append(t.trail, trailEntry{kind: trailBindConst, index: index})
	t.consts[index].bound = true
	t.consts[index].value = value
}

func (t *Table) raiseTypeVarUniverse(index int, u ir.Universe) {
	if t.tys[index].universe <= u {
		return
	}
	t.trail = append(t.trail, trailEntry{kind: trailRaiseTy, index: index, universe: t.tys[index].universe})
	t.tys[index].universe = u
}

func (t *Table) raiseLifetimeVarUniverse(index int, u ir.Universe) {
	if t.lifetimes[index].universe <= u {
		return
	}
	t.trail = append(t.trail, trailEntry{kind: trailRaiseLifetime, index: index, universe: t.lifetimes[index].universe})
	t.lifetimes[index].universe = u
}

func (t *Table) raiseConstVarUniverse(index int, u ir.Universe) {
	if t.consts[index].universe <= u {
		return
	}
	t.trail = append(t.trail, trailEntry{kind: trailRaiseConst, index: index, universe: t.consts[index].universe})
	t.consts[index].universe = u
}

// Snapshot is an opaque transactional boundary marker returned by
// Table.Snapshot.
type Snapshot struct {
	tys, lifetimes, consts, trail int
	maxUniverse                   ir.Universe
}

// Snapshot records the table's current state so it can later be rolled
// back to. Snapshots nest LIFO: rolling back to an outer snapshot after
// taking an inner one is fine, but the reverse is a caller bug.
func (t *Table) Snapshot() Snapshot {
	return Snapshot{
		tys:         len(t.tys),
		lifetimes:   len(t.lifetimes),
		consts:      len(t.consts),
		trail:       len(t.trail),
		maxUniverse: t.maxUniverse,
	}
}

// RollbackTo undoes every variable binding, universe raise, and variable
// creation made since s was taken.
func (t *Table) RollbackTo(s Snapshot) {
	for i := len(t.trail) - 1; i >= s.trail; i-- {
		e := t.trail[i]
		switch e.kind {
		case trailBindTy:
			t.tys[e.index].bound = false
			t.tys[e.index].value = nil
		case trailBindLifetime:
			t.lifetimes[e.index].bound = false
			t.lifetimes[e.index].value = nil
		case trailBindConst:
			t.consts[e.index].bound = false
			t.consts[e.index].value = nil
		case trailRaiseTy:
			t.tys[e.index].universe = e.universe
		case trailRaiseLifetime:
			t.lifetimes[e.index].universe = e.universe
		case trailRaiseConst:
			t.consts[e.index].universe = e.universe
		}
	}
	t.trail = t.trail[:s.trail]
	t.tys = t.tys[:s.tys]
	t.lifetimes = t.lifetimes[:s.lifetimes]
	t.consts = t.consts[:s.consts]
	t.maxUniverse = s.maxUniverse
}

// Commit discards s: the changes made since it was taken stay in place and
// s is no longer rolled back to. Rolling back to an older snapshot taken
// before s still undoes them, since their trail entries remain. Commit is a
// no-op in this representation — only RollbackTo ever consults the trail,
// so there is nothing to release.
func (t *Table) Commit(Snapshot) {}
