package ir

import "testing"

func TestUniverseMapAddIsSortedAndDeduplicated(t *testing.T) {
	m := NewUniverseMap()
	m.Add(3)
	m.Add(1)
	m.Add(3)
	m.Add(2)

	want := []Universe{0, 1, 2, 3}
	if len(m.Universes) != len(want) {
		t.Fatalf("want %v, got %v", want, m.Universes)
	}
	for i := range want {
		if m.Universes[i] != want[i] {
			t.Errorf("want %v, got %v", want, m.Universes)
			break
		}
	}
}

func TestMapUniverseToCanonicalInRange(t *testing.T) {
	m := NewUniverseMap()
	m.Add(5)
	m.Add(2)

	for canonical, original := range m.Universes {
		if got := m.MapUniverseToCanonical(original); got != Universe(canonical) {
			t.Errorf("MapUniverseToCanonical(%s) = %s, want U%d", original, got, canonical)
		}
	}
}

func TestMapUniverseToCanonicalBinderOnly(t *testing.T) {
	// U0 < U1 < U2 but only U2 ever appears free; U1 is a canonical-binder-only
	// universe and must map to the largest canonical universe strictly below it.
	m := NewUniverseMap()
	m.Add(2)

	if got := m.MapUniverseToCanonical(1); got != Universe(0) {
		t.Errorf("want U1 (binder-only) to map to U0, got %s", got)
	}
}

func TestMapUniverseFromCanonicalRoundTrip(t *testing.T) {
	m := NewUniverseMap()
	m.Add(4)
	m.Add(7)

	for canonical, original := range m.Universes {
		if got := m.MapUniverseFromCanonical(Universe(canonical)); got != original {
			t.Errorf("MapUniverseFromCanonical(%d) = %s, want %s", canonical, got, original)
		}
	}
}

func TestMapUniverseFromCanonicalSynthesizesFresh(t *testing.T) {
	m := NewUniverseMap()
	m.Add(3)

	beyond := Universe(len(m.Universes))
	first := m.MapUniverseFromCanonical(beyond)
	second := m.MapUniverseFromCanonical(beyond + 1)
	if !first.Less(second) {
		t.Errorf("want synthesized universes to stay strictly increasing, got %s then %s", first, second)
	}
	if first <= m.Universes[len(m.Universes)-1] {
		t.Errorf("want a fresh universe beyond every original, got %s", first)
	}
}
