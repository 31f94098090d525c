package ir

import "sync"

// TypeKind describes a declared nominal type for pretty-printing and
// arity checks.
type TypeKind struct {
	Name string
}

// AssociatedTyDatum describes a declared associated type: the trait that
// declares it, its name, and how many of its own parameters follow the
// trait's (used to partition a projection's parameter list when rendering
// it).
type AssociatedTyDatum struct {
	TraitID    ItemID
	Name       string
	NumOwnParameters int
}

// Program is the oracle the core consults for name resolution. The core
// only ever reads it: during pretty printing (resolving ids to declared
// names) and when splitting a projection's parameter list between the
// owning trait's parameters and the associated type's own.
type Program interface {
	TypeKind(id ItemID) (TypeKind, bool)
	AssociatedTyDatum(id AssocTypeID) (AssociatedTyDatum, bool)
	SplitProjection(p ProjectionTy) (datum AssociatedTyDatum, traitParams, ownParams []Parameter, ok bool)
}

var (
	programMu  sync.Mutex
	currentProgram Program
)

// WithProgram installs p as the current program oracle for the duration of
// fn and guarantees its removal (restoring whatever program, if any, was
// installed before) on every exit path, including a panic unwinding through
// fn.
func WithProgram(p Program, fn func()) {
	programMu.Lock()
	previous := currentProgram
	currentProgram = p
	programMu.Unlock()

	defer func() {
		programMu.Lock()
		currentProgram = previous
		programMu.Unlock()
	}()

	fn()
}

// CurrentProgram returns the currently installed program oracle, if any.
// Readers (the debug printer) must tolerate its absence and fall back to a
// structural rendering.
func CurrentProgram() (Program, bool) {
	programMu.Lock()
	defer programMu.Unlock()
	return currentProgram, currentProgram != nil
}
