package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the control bindings. They use keys outside the note grid so
// that playing never triggers one.
type keyMap struct {
	NextTuning key.Binding
	PrevTuning key.Binding
	Layout     key.Binding
	Panic      key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextTuning: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tuning"),
		),
		PrevTuning: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev tuning"),
		),
		Layout: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "layout"),
		),
		Panic: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "all notes off"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTuning, k.Layout, k.Panic, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTuning, k.PrevTuning, k.Layout},
		{k.Panic, k.Help, k.Quit},
	}
}
