package ir

import (
	"fmt"
	"sort"
)

// Universe is a non-negative index tagging the visibility of skolem
// constants. U0 is the root universe; a skolem in Ui is visible to an
// existential in Uj iff j >= i. Universes are created monotonically by an
// inference table and never reused.
type Universe int

// RootUniverse is U0, the universe every inference table starts in.
const RootUniverse Universe = 0

func (u Universe) String() string { return fmt.Sprintf("U%d", int(u)) }

// Less reports whether u is strictly less than other, i.e. u is "more
// visible" (visible from more existentials) than other.
func (u Universe) Less(other Universe) bool { return u < other }

// UniverseMap is a sorted, deduplicated list of the universes that appear
// free in some u-canonicalized term, always containing U0 at index 0.
// Position i is the canonical universe Ui; UniverseMap.Universes[i] is the
// original universe it stands for.
type UniverseMap struct {
	Universes []Universe
}

// NewUniverseMap returns a map seeded with the root universe, as every
// UniverseMap built from a term must be.
func NewUniverseMap() *UniverseMap {
	return &UniverseMap{Universes: []Universe{RootUniverse}}
}

// Add inserts u into the map if not already present, keeping Universes
// sorted. It mirrors the collect pass's seen-universe bookkeeping.
func (m *UniverseMap) Add(u Universe) {
	i := sort.Search(len(m.Universes), func(i int) bool { return m.Universes[i] >= u })
	if i < len(m.Universes) && m.Universes[i] == u {
		return
	}
	m.Universes = append(m.Universes, RootUniverse)
	copy(m.Universes[i+1:], m.Universes[i:])
	m.Universes[i] = u
}

// MapUniverseToCanonical maps an original universe to its canonical form. If
// u appears in the map at index i, the result is Ui. Otherwise u is a
// canonical-binder-only universe that never appears free in the payload;
// the result is U(i-1), the largest canonical universe strictly below u,
// per the u-canonicalization mapping rule.
func (m *UniverseMap) MapUniverseToCanonical(u Universe) Universe {
	i := sort.Search(len(m.Universes), func(i int) bool { return m.Universes[i] >= u })
	if i < len(m.Universes) && m.Universes[i] == u {
		return Universe(i)
	}
	if i == 0 {
		panic("ir: universe below root universe has no canonical form")
	}
	return Universe(i - 1)
}

// MapUniverseFromCanonical is the inverse of MapUniverseToCanonical for
// in-range canonical universes, and synthesizes an order-preserving fresh
// universe beyond all originals for out-of-range ones (universes introduced
// during solving rather than present in the original term).
func (m *UniverseMap) MapUniverseFromCanonical(c Universe) Universe {
	if int(c) < len(m.Universes) {
		return m.Universes[c]
	}
	max := m.Universes[len(m.Universes)-1]
	return max + (c - Universe(len(m.Universes))) + 1
}
