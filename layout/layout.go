// Package layout maps physical keyboard keys to grid positions for each
// keyboard variant.
package layout

import (
	_ "embed"
	"errors"
	"fmt"
	"unicode"

	"gopkg.in/yaml.v3"
)

// ID identifies a keyboard variant
type ID string

const (
	QWERTZ ID = "qwertz"
	QWERTY ID = "qwerty"
)

// ErrUnknownLayout is returned when a layout id has no map.
var ErrUnknownLayout = errors.New("unknown layout")

// Symbol is the canonical, lower-case identity of a key.
type Symbol string

// Position is a grid coordinate shared with the pitch tables
type Position struct {
	Row, Col int
}

// Row is one keyboard row. Keys[i] sits at column Offset+i.
type Row struct {
	Offset int
	Keys   []Symbol
}

// Map is the key grid of one keyboard variant.
type Map struct {
	ID    ID
	rows  []Row
	index map[Symbol]Position
}

// KeyAt returns the key at a grid position, or false if there is none.
func (m *Map) KeyAt(row, col int) (Symbol, bool) {
	if row < 0 || row >= len(m.rows) {
		return "", false
	}
	r := m.rows[row]
	i := col - r.Offset
	if i < 0 || i >= len(r.Keys) {
		return "", false
	}
	return r.Keys[i], true
}

// PositionOf returns the grid position of a key, or false for keys the map
// does not contain.
func (m *Map) PositionOf(s Symbol) (Position, bool) {
	p, ok := m.index[s]
	return p, ok
}

// Rows returns a copy of the rows, top to bottom.
func (m *Map) Rows() []Row {
	rows := make([]Row, len(m.rows))
	for i, r := range m.rows {
		keys := make([]Symbol, len(r.Keys))
		copy(keys, r.Keys)
		rows[i] = Row{Offset: r.Offset, Keys: keys}
	}
	return rows
}

// Set is an immutable collection of maps keyed by layout id.
type Set struct {
	maps  map[ID]*Map
	order []ID
}

// Map returns the map for id.
func (s *Set) Map(id ID) (*Map, error) {
	m, ok := s.maps[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, id)
	}
	return m, nil
}

// Has reports whether id names a map in the set
func (s *Set) Has(id ID) bool {
	_, ok := s.maps[id]
	return ok
}

// KeyAt looks up a position in the map of id.
func (s *Set) KeyAt(id ID, row, col int) (Symbol, bool) {
	m, ok := s.maps[id]
	if !ok {
		return "", false
	}
	return m.KeyAt(row, col)
}

// PositionOf looks up a key in the map of id.
func (s *Set) PositionOf(id ID, sym Symbol) (Position, bool) {
	m, ok := s.maps[id]
	if !ok {
		return Position{}, false
	}
	return m.PositionOf(sym)
}

// IDs returns the layout ids in definition order
func (s *Set) IDs() []ID {
	ids := make([]ID, len(s.order))
	copy(ids, s.order)
	return ids
}

// Next returns the id following id in definition order, wrapping around.
func (s *Set) Next(id ID, step int) ID {
	if len(s.order) == 0 {
		return id
	}
	for i, cur := range s.order {
		if cur == id {
			n := len(s.order)
			return s.order[((i+step)%n+n)%n]
		}
	}
	return s.order[0]
}

type rawRow struct {
	Offset int    `yaml:"offset"`
	Keys   string `yaml:"keys"`
}

type rawMap struct {
	ID   ID       `yaml:"id"`
	Rows []rawRow `yaml:"rows"`
}

// Load parses a YAML list of layout definitions.
func Load(data []byte) (*Set, error) {
	var raw []rawMap
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse layouts: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("parse layouts: no layouts defined")
	}

	s := &Set{maps: make(map[ID]*Map, len(raw))}
	for _, rm := range raw {
		if rm.ID == "" {
			return nil, errors.New("parse layouts: layout without id")
		}
		if _, dup := s.maps[rm.ID]; dup {
			return nil, fmt.Errorf("parse layouts: duplicate layout %q", rm.ID)
		}
		m, err := buildMap(rm)
		if err != nil {
			return nil, fmt.Errorf("layout %q: %w", rm.ID, err)
		}
		s.maps[rm.ID] = m
		s.order = append(s.order, rm.ID)
	}
	return s, nil
}

func buildMap(rm rawMap) (*Map, error) {
	m := &Map{
		ID:    rm.ID,
		rows:  make([]Row, len(rm.Rows)),
		index: make(map[Symbol]Position),
	}
	for r, rr := range rm.Rows {
		row := Row{Offset: rr.Offset}
		for i, ch := range []rune(rr.Keys) {
			if unicode.ToLower(ch) != ch {
				return nil, fmt.Errorf("row %d: key %q is not lower-case", r, ch)
			}
			sym := Symbol(ch)
			if prev, dup := m.index[sym]; dup {
				return nil, fmt.Errorf("row %d: key %q already at (%d,%d)", r, ch, prev.Row, prev.Col)
			}
			m.index[sym] = Position{Row: r, Col: rr.Offset + i}
			row.Keys = append(row.Keys, sym)
		}
		m.rows[r] = row
	}
	return m, nil
}

//go:embed layouts.yaml
var defaultLayoutsYaml []byte

// Default returns the built-in layouts. It panics if the embedded data is
// malformed.
func Default() *Set {
	s, err := Load(defaultLayoutsYaml)
	if err != nil {
		panic(fmt.Errorf("failed to load built-in layouts: %w", err))
	}
	return s
}
