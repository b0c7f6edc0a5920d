package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-jammer/layout"
	"go-jammer/theme"
	"go-jammer/tuning"
)

// CellWidth is the printed width of one key
const CellWidth = 6

// rowStagger is how far each keyboard row is shifted right of the one above
const rowStagger = 2

// KeyState is how a key is drawn
type KeyState int

const (
	KeyNoPitch KeyState = iota
	KeyIdle
	KeySounding
)

// KeyCell is one key of the grid
type KeyCell struct {
	Symbol layout.Symbol
	Pitch  tuning.Pitch
	State  KeyState
}

// KeyRow is one keyboard row. Offset is the grid column of the first cell.
type KeyRow struct {
	Offset int
	Cells  []KeyCell
}

// BuildKeyboard resolves every key of a layout map. resolve gives the pitch
// of a key under the current tuning, sounding reports whether a note is on.
func BuildKeyboard(m *layout.Map, resolve func(layout.Symbol) (tuning.Pitch, bool), sounding func(uint8) bool) []KeyRow {
	rows := m.Rows()
	out := make([]KeyRow, len(rows))
	for r, row := range rows {
		kr := KeyRow{Offset: row.Offset, Cells: make([]KeyCell, len(row.Keys))}
		for i, sym := range row.Keys {
			cell := KeyCell{Symbol: sym}
			if p, ok := resolve(sym); ok {
				cell.Pitch = p
				cell.State = KeyIdle
				if sounding(p.Note) {
					cell.State = KeySounding
				}
			}
			kr.Cells[i] = cell
		}
		out[r] = kr
	}
	return out
}

// RenderKeyboard draws the rows staggered like a physical keyboard, two
// lines per row: the key legend and the pitch it plays.
func RenderKeyboard(rows []KeyRow, th *theme.Theme) string {
	minOffset := 0
	for _, r := range rows {
		minOffset = min(minOffset, r.Offset)
	}

	idle := lipgloss.NewStyle().Width(CellWidth).Foreground(th.Key())
	sounding := lipgloss.NewStyle().Width(CellWidth).Foreground(th.Sounding()).Bold(true)
	noPitch := lipgloss.NewStyle().Width(CellWidth).Foreground(th.Muted())

	var lines []string
	for r, row := range rows {
		indent := strings.Repeat(" ", r*rowStagger+(row.Offset-minOffset)*CellWidth)

		var top, bottom strings.Builder
		top.WriteString(indent)
		bottom.WriteString(indent)
		for _, c := range row.Cells {
			style, mark := noPitch, th.Symbols.KeyNoPitch
			switch c.State {
			case KeyIdle:
				style, mark = idle, th.Symbols.KeyIdle
			case KeySounding:
				style, mark = sounding, th.Symbols.KeySounding
			}
			top.WriteString(style.Render(fmt.Sprintf("%c %s", mark, c.Symbol)))
			bottom.WriteString(style.Render(pitchLabel(c)))
		}
		lines = append(lines, strings.TrimRight(top.String(), " "), strings.TrimRight(bottom.String(), " "))
	}
	return strings.Join(lines, "\n")
}

func pitchLabel(c KeyCell) string {
	if c.State == KeyNoPitch {
		return ""
	}
	name := c.Pitch.Name
	if len(name) > CellWidth-1 {
		name = name[:CellWidth-1]
	}
	return name
}

// RenderLegend renders the key state legend on one line
func RenderLegend(th *theme.Theme) string {
	item := func(color lipgloss.Color, mark rune, desc string) string {
		return lipgloss.NewStyle().Foreground(color).Render(string(mark)) + " " + desc
	}
	return strings.Join([]string{
		item(th.Key(), th.Symbols.KeyIdle, "key"),
		item(th.Sounding(), th.Symbols.KeySounding, "sounding"),
		item(th.Muted(), th.Symbols.KeyNoPitch, "no pitch"),
	}, "   ")
}

// Section is a titled list of name/description pairs
type Section struct {
	Title string
	Items []Item
}

// Item is one entry of a Section
type Item struct {
	Name string
	Desc string
}

// RenderSections formats sections as an indented listing
func RenderSections(sections []Section) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		if len(sec.Items) == 0 {
			lines = append(lines, "  (none)")
		}
		for _, it := range sec.Items {
			lines = append(lines, strings.TrimRight(fmt.Sprintf("  %-16s %s", it.Name, it.Desc), " "))
		}
	}
	return strings.Join(lines, "\n")
}
