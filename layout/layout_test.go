package layout

import (
	"errors"
	"testing"
)

func TestPositionOf(t *testing.T) {
	s := Default()
	tests := []struct {
		id  ID
		sym Symbol
		pos Position
	}{
		{QWERTZ, "q", Position{1, 0}},
		{QWERTZ, "1", Position{0, 0}},
		{QWERTZ, "'", Position{0, 10}},
		{QWERTZ, "z", Position{1, 5}},
		{QWERTZ, "y", Position{3, 0}},
		{QWERTZ, "-", Position{3, 9}},
		{QWERTZ, "<", Position{3, -1}},
		{QWERTZ, "ü", Position{1, 10}},
		{QWERTY, "y", Position{1, 5}},
		{QWERTY, "z", Position{3, 0}},
		{QWERTY, "q", Position{1, 0}},
	}
	for _, tt := range tests {
		got, ok := s.PositionOf(tt.id, tt.sym)
		if !ok {
			t.Fatalf("%s %q: not found", tt.id, tt.sym)
		}
		if got != tt.pos {
			t.Fatalf("%s %q: got %+v want %+v", tt.id, tt.sym, got, tt.pos)
		}
	}
}

func TestPositionOfUnknown(t *testing.T) {
	s := Default()
	for _, sym := range []Symbol{"Q", "[", " ", "ß"} {
		if _, ok := s.PositionOf(QWERTZ, sym); ok {
			t.Fatalf("%q should not be mapped", sym)
		}
	}
	if _, ok := s.PositionOf("dvorak", "q"); ok {
		t.Fatalf("unknown layout should map nothing")
	}
}

func TestKeyAtInvertsPositionOf(t *testing.T) {
	s := Default()
	for _, id := range s.IDs() {
		m, err := s.Map(id)
		if err != nil {
			t.Fatalf("Map(%s): %v", id, err)
		}
		for _, row := range m.Rows() {
			for _, sym := range row.Keys {
				pos, ok := m.PositionOf(sym)
				if !ok {
					t.Fatalf("%s %q: no position", id, sym)
				}
				back, ok := m.KeyAt(pos.Row, pos.Col)
				if !ok || back != sym {
					t.Fatalf("%s %q: KeyAt(%d,%d) = %q, %v", id, sym, pos.Row, pos.Col, back, ok)
				}
			}
		}
	}
}

func TestKeyAtOutside(t *testing.T) {
	s := Default()
	for _, pos := range [][2]int{{0, 11}, {4, 0}, {-1, 0}, {0, -1}, {3, -2}} {
		if sym, ok := s.KeyAt(QWERTZ, pos[0], pos[1]); ok {
			t.Fatalf("(%d,%d): unexpected key %q", pos[0], pos[1], sym)
		}
	}
}

func TestVariantsDifferOnlyInYZ(t *testing.T) {
	s := Default()
	a, _ := s.Map(QWERTZ)
	b, _ := s.Map(QWERTY)
	diff := 0
	ra, rb := a.Rows(), b.Rows()
	for r := range ra {
		for i := range ra[r].Keys {
			if ra[r].Keys[i] != rb[r].Keys[i] {
				diff++
			}
		}
	}
	if diff != 2 {
		t.Fatalf("expected 2 differing keys, got %d", diff)
	}
}

func TestMapUnknown(t *testing.T) {
	_, err := Default().Map("azerty")
	if !errors.Is(err, ErrUnknownLayout) {
		t.Fatalf("expected ErrUnknownLayout, got %v", err)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := map[string]string{
		"duplicate key": `
- id: x
  rows:
    - keys: "abca"`,
		"upper case": `
- id: x
  rows:
    - keys: "aB"`,
		"no id": `
- rows:
    - keys: "a"`,
		"empty": `[]`,
	}
	for name, doc := range tests {
		if _, err := Load([]byte(doc)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
