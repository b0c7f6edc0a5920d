package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	// Key grid
	KeyIdle     rune // □ key with a pitch
	KeySounding rune // ■ pitch sounding
	KeyNoPitch  rune // · key outside the pitch grid

	// Status line
	Focused   rune // ● receiving keys
	Unfocused rune // ○ keys not reaching us
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			KeyIdle:     '□',
			KeySounding: '■',
			KeyNoPitch:  '·',

			Focused:   '●',
			Unfocused: '○',
		},
	}
}

// Default returns the theme with the built-in palette
func Default() *Theme {
	return New(DefaultPalette())
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG       = 0.0 // deep purple
	RoleSurface  = 0.1 // dark purple
	RoleMuted    = 0.2 // purple-magenta
	RoleFG       = 0.4 // pink-purple (readable)
	RoleAccent   = 0.5 // vivid magenta
	RoleKey      = 0.6 // rose pink, idle key
	RoleWarning  = 0.8 // orange
	RoleSounding = 0.9 // yellow-orange, sounding key
	RoleSuccess  = 1.0 // bright yellow
)

// Style helpers

func (t *Theme) BG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleBG))
}

func (t *Theme) Surface() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleSurface))
}

func (t *Theme) FG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleFG))
}

func (t *Theme) Accent() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleAccent))
}

func (t *Theme) Muted() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleMuted))
}

func (t *Theme) Key() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleKey))
}

func (t *Theme) Sounding() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleSounding))
}

func (t *Theme) Warning() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleWarning))
}

func (t *Theme) Success() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleSuccess))
}

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(norm))
}

// Hex returns the #rrggbb form of a color
func Hex(c RGB) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(Hex(c))
}
