package hexmap

import "testing"

func TestHexMapIterOrder(t *testing.T) {
	m := New[int](2)

	// 1 + 3r(r+1)
	if m.Len() != 19 {
		t.Fatalf("Expected 19 tiles for radius 2, got %d", m.Len())
	}

	first := m.Iter()[0]
	if first != (PosHex{Q: -2, R: 0}) {
		t.Errorf("Expected first tile (-2,0), got %v", first)
	}
	last := m.Iter()[m.Len()-1]
	if last != (PosHex{Q: 2, R: 0}) {
		t.Errorf("Expected last tile (2,0), got %v", last)
	}

	// Порядок: сначала Q, потом R
	for i := 1; i < m.Len(); i++ {
		prev, cur := m.Iter()[i-1], m.Iter()[i]
		if cur.Q < prev.Q || (cur.Q == prev.Q && cur.R <= prev.R) {
			t.Fatalf("Order broken at %d: %v after %v", i, cur, prev)
		}
	}
}

func TestHexMapGetSet(t *testing.T) {
	m := NewFilled(3, 7)
	p := PosHex{Q: 1, R: 2}

	if m.Get(p) != 7 {
		t.Errorf("Expected filled value 7, got %d", m.Get(p))
	}
	m.Set(p, 42)
	if m.Get(p) != 42 {
		t.Errorf("Expected 42, got %d", m.Get(p))
	}

	if m.IsInside(PosHex{Q: 3, R: 1}) {
		t.Error("(3,1) is outside radius 3")
	}

	defer func() {
		if recover() == nil {
			t.Error("Expected panic on out of bounds access")
		}
	}()
	m.Get(PosHex{Q: 4, R: 0})
}
