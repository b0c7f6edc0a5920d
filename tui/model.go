package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-jammer/debug"
	"go-jammer/input"
	"go-jammer/jammer"
	"go-jammer/midi"
	"go-jammer/theme"
	"go-jammer/tuning"
	"go-jammer/widgets"
)

// Status describes the attached devices for the header
type Status struct {
	Output  string // empty when no MIDI output is open
	Device  string // evdev device name, empty for terminal keys
	Grabbed bool   // the device is grabbed, the terminal sees none of its keys
}

// DeviceKeyMsg carries a key event from the input device goroutine
type DeviceKeyMsg input.KeyEvent

// PortMsg carries an output port hot-plug event
type PortMsg midi.PortEvent

// DeviceErrMsg reports that the input device stopped
type DeviceErrMsg struct {
	Err error
}

type Model struct {
	ctrl    *jammer.Controller
	Theme   *theme.Theme
	status  Status
	hold    *input.Hold
	keys    keyMap
	help    help.Model
	focused bool
	device  bool // note keys come from the input device
	offline bool // the output port went away
	mods    modifiers
	last    string
	errMsg  string

	quitting bool
}

// NewModel creates the UI around a controller. With a device attached,
// terminal keys only drive the control bindings.
func NewModel(ctrl *jammer.Controller, th *theme.Theme, status Status, releaseAfter time.Duration) Model {
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(th.Accent())
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(th.Muted())
	h.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(th.Surface())
	h.Styles.FullKey = h.Styles.ShortKey
	h.Styles.FullDesc = h.Styles.ShortDesc
	h.Styles.FullSeparator = h.Styles.ShortSeparator

	return Model{
		ctrl:    ctrl,
		Theme:   th,
		status:  status,
		hold:    input.NewHold(releaseAfter),
		keys:    defaultKeyMap(),
		help:    h,
		focused: true,
		device:  status.Device != "",
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case input.ReleaseMsg:
		if k, ok := m.hold.Expire(msg); ok {
			m.noteEvent(m.ctrl.OnKeyUp(k))
		}

	case DeviceKeyMsg:
		// like a window, we only play while focused
		if !m.focused {
			return m, nil
		}
		return m.handleDeviceKey(input.KeyEvent(msg))

	case DeviceErrMsg:
		m.errMsg = fmt.Sprintf("input device stopped: %v", msg.Err)
		m.device = false
		m.mods = modifiers{}
		debug.Log("input", "%s", m.errMsg)
		// key releases from the device will never arrive
		m.hold.Reset()
		m.releasedAll(m.ctrl.AllOff())

	case PortMsg:
		if msg.Name == m.status.Output {
			m.offline = msg.Type == midi.PortDisconnected
		}

	case tea.FocusMsg:
		m.focused = true
		m.mods = modifiers{}
		m.ctrl.OnFocusGained()

	case tea.BlurMsg:
		m.focused = false
		m.mods = modifiers{}
		m.hold.Reset()
		m.releasedAll(m.ctrl.OnFocusLost())

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if next, cmd, ok := m.control(msg); ok {
		return next, cmd
	}

	if m.device || msg.Type != tea.KeyRunes || msg.Alt || msg.Paste || len(msg.Runes) != 1 {
		return m, nil
	}

	k := jammer.CharKey(msg.Runes[0])
	_, cmd := m.hold.Press(k)
	if cmd == nil {
		return m, nil
	}
	// repeats go through too, the tracker drops the duplicates
	m.noteEvent(m.ctrl.OnKeyDown(k))
	return m, cmd
}

// handleDeviceKey routes a device key to the control bindings first when the
// device is grabbed, so a grabbed keyboard can still quit and switch
// selections. Ungrabbed, the terminal delivers the same keys itself.
func (m Model) handleDeviceKey(ev input.KeyEvent) (tea.Model, tea.Cmd) {
	if m.mods.track(ev) {
		return m, nil
	}
	if ev.Down && ev.Key.Code != 0 {
		if km, ok := controlKey(ev.Key.Code, m.mods); ok && m.status.Grabbed {
			if ev.Repeat {
				return m, nil
			}
			if next, cmd, ok := m.control(km); ok {
				return next, cmd
			}
		}
		if m.mods.ctrl() {
			return m, nil
		}
	}

	if ev.Down {
		if ev.Repeat {
			debug.LogEvery(50, "input", "repeat %s", ev.Key)
		}
		m.noteEvent(m.ctrl.OnKeyDown(ev.Key))
	} else {
		m.noteEvent(m.ctrl.OnKeyUp(ev.Key))
	}
	return m, nil
}

// control runs the binding msg matches, if any
func (m Model) control(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.ctrl.Shutdown()
		return m, tea.Quit, true

	case key.Matches(msg, m.keys.NextTuning):
		m.selectTuning(1)

	case key.Matches(msg, m.keys.PrevTuning):
		m.selectTuning(-1)

	case key.Matches(msg, m.keys.Layout):
		next := m.ctrl.Layouts().Next(m.ctrl.Session().Layout, 1)
		if err := m.ctrl.SetLayout(next); err != nil {
			m.errMsg = err.Error()
		}

	case key.Matches(msg, m.keys.Panic):
		m.hold.Reset()
		m.releasedAll(m.ctrl.AllOff())

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	default:
		return m, nil, false
	}
	return m, nil, true
}

func (m *Model) selectTuning(step int) {
	next := m.ctrl.Tunings().Next(m.ctrl.Session().Tuning, step)
	if err := m.ctrl.SetTuning(next); err != nil {
		m.errMsg = err.Error()
	}
}

func (m *Model) noteEvent(e jammer.Event, ok bool) {
	if ok {
		m.last = e.String()
	}
}

func (m *Model) releasedAll(events []jammer.Event) {
	if len(events) > 0 {
		m.last = fmt.Sprintf("released %d notes", len(events))
	}
}

// Session exposes the controller selection (for tests and main)
func (m Model) Session() jammer.Session {
	return m.ctrl.Session()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	th := m.Theme
	headerStyle := lipgloss.NewStyle().Foreground(th.Accent()).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(th.Muted())
	fgStyle := lipgloss.NewStyle().Foreground(th.FG())
	warnStyle := lipgloss.NewStyle().Foreground(th.Warning())
	okStyle := lipgloss.NewStyle().Foreground(th.Success())

	s := m.ctrl.Session()

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(headerStyle.Render("go-jammer"))
	out.WriteString("  ")
	out.WriteString(dimStyle.Render("I need focus to play MIDI out"))
	out.WriteString("\n\n")

	out.WriteString(fgStyle.Render(fmt.Sprintf("tuning %-15s layout %-8s", s.Tuning, s.Layout)))
	if t, err := m.ctrl.Tunings().Table(s.Tuning); err == nil && t.Description != "" {
		out.WriteString(dimStyle.Render(t.Description))
	}
	out.WriteString("\n")

	midiStatus := "MIDI: none"
	if m.status.Output != "" {
		midiStatus = "MIDI: " + m.status.Output
		if m.offline {
			midiStatus += " (disconnected)"
		}
	}
	inputStatus := "keys: terminal"
	if m.device {
		inputStatus = "keys: " + m.status.Device
	}
	out.WriteString(dimStyle.Render(midiStatus + "   " + inputStatus))
	out.WriteString("\n")

	if m.focused {
		out.WriteString(okStyle.Render(fmt.Sprintf("%c listening to keyboard", th.Symbols.Focused)))
	} else {
		out.WriteString(warnStyle.Render(fmt.Sprintf("%c no focus, no midi", th.Symbols.Unfocused)))
	}
	out.WriteString("\n\n")

	out.WriteString(widgets.RenderKeyboard(m.keyboard(), th))
	out.WriteString("\n\n")
	out.WriteString(widgets.RenderLegend(th))
	out.WriteString("\n\n")

	out.WriteString(fgStyle.Render("sounding: " + soundingNames(m.ctrl.Sounding())))
	out.WriteString("\n")
	if m.last != "" {
		out.WriteString(dimStyle.Render("last: " + m.last))
		out.WriteString("\n")
	}
	if m.errMsg != "" {
		out.WriteString(warnStyle.Render(m.errMsg))
		out.WriteString("\n")
	}

	out.WriteString("\n")
	out.WriteString(m.help.View(m.keys))

	return out.String()
}

func (m Model) keyboard() []widgets.KeyRow {
	lm, err := m.ctrl.Layouts().Map(m.ctrl.Session().Layout)
	if err != nil {
		return nil
	}
	return widgets.BuildKeyboard(lm, m.ctrl.ResolveSymbol, m.ctrl.IsSounding)
}

func soundingNames(ps []tuning.Pitch) string {
	if len(ps) == 0 {
		return "-"
	}
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name
	}
	return strings.Join(names, " ")
}
