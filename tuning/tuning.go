// Package tuning holds the pitch tables: for every tuning, a grid of pitches
// addressed by (row, column). Tables are immutable once loaded.
package tuning

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ID identifies a tuning
type ID string

const (
	EDO12         ID = "12edo"
	EDO19         ID = "19edo"
	EDO31         ID = "31edo"
	WickiHayden   ID = "wicki_hayden"
	HarmonicTable ID = "harmonic_table"
)

// ErrUnknownTuning is returned when a tuning id has no table.
var ErrUnknownTuning = errors.New("unknown tuning")

// Pitch is a named pitch and the MIDI note it is played on.
// Two pitches with the same Note are the same pitch for note tracking.
type Pitch struct {
	Name string
	Note uint8
}

func (p Pitch) String() string {
	return fmt.Sprintf("%s(%d)", p.Name, p.Note)
}

// Table is the pitch grid of one tuning. Rows may differ in length.
type Table struct {
	ID          ID
	Description string
	rows        [][]Pitch
}

// PitchAt returns the pitch at a grid position, or false outside the grid.
func (t *Table) PitchAt(row, col int) (Pitch, bool) {
	if row < 0 || row >= len(t.rows) {
		return Pitch{}, false
	}
	if col < 0 || col >= len(t.rows[row]) {
		return Pitch{}, false
	}
	return t.rows[row][col], true
}

// Rows returns the number of rows
func (t *Table) Rows() int {
	return len(t.rows)
}

// RowLen returns the length of a row (0 for rows outside the grid)
func (t *Table) RowLen(row int) int {
	if row < 0 || row >= len(t.rows) {
		return 0
	}
	return len(t.rows[row])
}

// Set is an immutable collection of tables keyed by tuning id.
type Set struct {
	tables map[ID]*Table
	order  []ID
}

// Table returns the table for id.
func (s *Set) Table(id ID) (*Table, error) {
	t, ok := s.tables[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTuning, id)
	}
	return t, nil
}

// Has reports whether id names a table in the set
func (s *Set) Has(id ID) bool {
	_, ok := s.tables[id]
	return ok
}

// PitchAt looks up a position in the table of id. Unknown ids and positions
// outside the grid both yield false.
func (s *Set) PitchAt(id ID, row, col int) (Pitch, bool) {
	t, ok := s.tables[id]
	if !ok {
		return Pitch{}, false
	}
	return t.PitchAt(row, col)
}

// IDs returns the tuning ids in definition order
func (s *Set) IDs() []ID {
	ids := make([]ID, len(s.order))
	copy(ids, s.order)
	return ids
}

// Next returns the id following id in definition order, wrapping around.
// An id not in the set yields the first id.
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

type rawReference struct {
	Name string `yaml:"name"`
	Note int    `yaml:"note"`
}

type rawTable struct {
	ID          ID           `yaml:"id"`
	Description string       `yaml:"description"`
	Reference   rawReference `yaml:"reference"`
	Steps       []string     `yaml:"steps"`
	Rows        [][]string   `yaml:"rows"`
}

// Load parses a YAML list of tuning definitions.
func Load(data []byte) (*Set, error) {
	var raw []rawTable
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse tunings: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("parse tunings: no tunings defined")
	}

	s := &Set{tables: make(map[ID]*Table, len(raw))}
	for _, rt := range raw {
		if rt.ID == "" {
			return nil, errors.New("parse tunings: tuning without id")
		}
		if _, dup := s.tables[rt.ID]; dup {
			return nil, fmt.Errorf("parse tunings: duplicate tuning %q", rt.ID)
		}
		t, err := buildTable(rt)
		if err != nil {
			return nil, fmt.Errorf("tuning %q: %w", rt.ID, err)
		}
		s.tables[rt.ID] = t
		s.order = append(s.order, rt.ID)
	}
	return s, nil
}

func buildTable(rt rawTable) (*Table, error) {
	sc, err := newScale(rt.Steps, rt.Reference.Name, rt.Reference.Note)
	if err != nil {
		return nil, err
	}
	t := &Table{
		ID:          rt.ID,
		Description: rt.Description,
		rows:        make([][]Pitch, len(rt.Rows)),
	}
	for r, row := range rt.Rows {
		t.rows[r] = make([]Pitch, len(row))
		for c, name := range row {
			note, err := sc.note(name)
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", r, c, err)
			}
			t.rows[r][c] = Pitch{Name: name, Note: note}
		}
	}
	return t, nil
}

//go:embed tunings.yaml
var defaultTuningsYaml []byte

// Default returns the built-in tunings. It panics if the embedded data is
// malformed.
func Default() *Set {
	s, err := Load(defaultTuningsYaml)
	if err != nil {
		panic(fmt.Errorf("failed to load built-in tunings: %w", err))
	}
	return s
}
