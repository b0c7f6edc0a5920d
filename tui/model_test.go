package tui

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"go-jammer/input"
	"go-jammer/jammer"
	"go-jammer/layout"
	"go-jammer/midi"
	"go-jammer/theme"
	"go-jammer/tuning"
)

type noteLog struct {
	msgs []string
}

func (n *noteLog) NoteOn(note, velocity uint8) {
	n.msgs = append(n.msgs, fmt.Sprintf("on %03d", note))
}

func (n *noteLog) NoteOff(note uint8) {
	n.msgs = append(n.msgs, fmt.Sprintf("off %03d", note))
}

func newTestModel(t *testing.T, status Status) (Model, *noteLog) {
	t.Helper()
	sink := &noteLog{}
	ctrl, err := jammer.NewController(tuning.Default(), layout.Default(), sink)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return NewModel(ctrl, theme.Default(), status, time.Millisecond), sink
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func TestTerminalKeyPlaysAndReleases(t *testing.T) {
	m, sink := newTestModel(t, Status{})

	m, cmd := update(t, m, runes("q"))
	if cmd == nil {
		t.Fatalf("expected a release timer")
	}
	m, _ = update(t, m, runes("q")) // auto-repeat
	m, cmd2 := update(t, m, runes("q"))

	// stale timer does nothing, the latest one releases
	m, _ = update(t, m, cmd())
	if len(sink.msgs) != 1 {
		t.Fatalf("stale timer released: %v", sink.msgs)
	}
	m, _ = update(t, m, cmd2())

	want := []string{"on 059", "off 059"}
	if strings.Join(sink.msgs, ",") != strings.Join(want, ",") {
		t.Fatalf("got %v want %v", sink.msgs, want)
	}
}

func TestBlurReleasesEverything(t *testing.T) {
	m, sink := newTestModel(t, Status{})

	m, _ = update(t, m, runes("q"))
	m, _ = update(t, m, runes("y"))
	m, _ = update(t, m, tea.BlurMsg{})

	want := "on 059,on 049,off 049,off 059"
	if got := strings.Join(sink.msgs, ","); got != want {
		t.Fatalf("got %s want %s", got, want)
	}
	if !strings.Contains(m.View(), "no focus, no midi") {
		t.Fatalf("view does not show lost focus")
	}

	m, _ = update(t, m, tea.FocusMsg{})
	if !strings.Contains(m.View(), "listening to keyboard") {
		t.Fatalf("view does not show focus")
	}
}

func TestDeviceKeys(t *testing.T) {
	m, sink := newTestModel(t, Status{Device: "AT Translated Set 2 keyboard"})

	q := jammer.ScanKey(jammer.KeyQ)
	m, _ = update(t, m, DeviceKeyMsg(input.KeyEvent{Key: q, Down: true}))
	m, _ = update(t, m, DeviceKeyMsg(input.KeyEvent{Key: q, Down: true, Repeat: true}))
	m, _ = update(t, m, DeviceKeyMsg(input.KeyEvent{Key: q}))

	// terminal echo of the same key is ignored while the device plays
	m, cmd := update(t, m, runes("q"))
	if cmd != nil {
		t.Fatalf("terminal key started a timer with a device attached")
	}

	want := "on 059,off 059"
	if got := strings.Join(sink.msgs, ","); got != want {
		t.Fatalf("got %s want %s", got, want)
	}

	// unfocused device events are dropped
	m, _ = update(t, m, tea.BlurMsg{})
	update(t, m, DeviceKeyMsg(input.KeyEvent{Key: q, Down: true}))
	if len(sink.msgs) != 2 {
		t.Fatalf("unfocused device event played: %v", sink.msgs)
	}
}

func TestSelectionCycling(t *testing.T) {
	m, sink := newTestModel(t, Status{})

	m, _ = update(t, m, runes("q"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Session().Tuning != tuning.EDO19 {
		t.Fatalf("tab: got %s", m.Session().Tuning)
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.Session().Tuning != tuning.HarmonicTable {
		t.Fatalf("shift+tab: got %s", m.Session().Tuning)
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	if m.Session().Layout != layout.QWERTY {
		t.Fatalf("ctrl+l: got %s", m.Session().Layout)
	}
	if len(sink.msgs) != 1 {
		t.Fatalf("selection changes sent notes: %v", sink.msgs)
	}
	if !strings.Contains(m.View(), "harmonic_table") {
		t.Fatalf("view does not show the tuning")
	}
}

func TestPanicAndQuit(t *testing.T) {
	m, sink := newTestModel(t, Status{Output: "FLUID Synth"})

	m, _ = update(t, m, runes("q"))
	m, _ = update(t, m, runes("w"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlP})
	if len(sink.msgs) != 4 {
		t.Fatalf("panic: %v", sink.msgs)
	}
	if !strings.Contains(m.View(), "MIDI: FLUID Synth") {
		t.Fatalf("view does not show the output")
	}

	m, _ = update(t, m, runes("e"))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatalf("esc should quit")
	}
	if sink.msgs[len(sink.msgs)-1] != "off 063" {
		t.Fatalf("quit did not release: %v", sink.msgs)
	}
	if m.View() != "" {
		t.Fatalf("view after quit should be empty")
	}
}

func TestIgnoresNonNoteKeys(t *testing.T) {
	m, sink := newTestModel(t, Status{})

	for _, msg := range []tea.KeyMsg{
		{Type: tea.KeySpace, Runes: []rune(" ")},
		{Type: tea.KeyRunes, Runes: []rune("q"), Alt: true},
		{Type: tea.KeyRunes, Runes: []rune("qw"), Paste: true},
		{Type: tea.KeyEnter},
		runes("["),
	} {
		m, _ = update(t, m, msg)
	}
	if len(sink.msgs) != 0 {
		t.Fatalf("non-note keys played: %v", sink.msgs)
	}
}

func TestOutputHotPlug(t *testing.T) {
	m, _ := newTestModel(t, Status{Output: "FLUID Synth"})

	m, _ = update(t, m, PortMsg{Type: midi.PortDisconnected, Name: "Launchpad"})
	if strings.Contains(m.View(), "(disconnected)") {
		t.Fatalf("other port marked the output offline")
	}
	m, _ = update(t, m, PortMsg{Type: midi.PortDisconnected, Name: "FLUID Synth"})
	if !strings.Contains(m.View(), "FLUID Synth (disconnected)") {
		t.Fatalf("view does not show the lost output")
	}
	m, _ = update(t, m, PortMsg{Type: midi.PortConnected, Name: "FLUID Synth"})
	if strings.Contains(m.View(), "(disconnected)") {
		t.Fatalf("reconnected output still offline")
	}
}

func TestDeviceLossReleasesNotes(t *testing.T) {
	m, sink := newTestModel(t, Status{Device: "AT Translated Set 2 keyboard"})

	m, _ = update(t, m, DeviceKeyMsg(input.KeyEvent{Key: jammer.ScanKey(jammer.KeyQ), Down: true}))
	m, _ = update(t, m, DeviceErrMsg{Err: errors.New("no such device")})

	if got := strings.Join(sink.msgs, ","); got != "on 059,off 059" {
		t.Fatalf("got %s", got)
	}
	if m.Session() != jammer.DefaultSession || len(m.ctrl.Sounding()) != 0 {
		t.Fatalf("still sounding: %v", m.ctrl.Sounding())
	}
	if !strings.Contains(m.View(), "input device stopped: no such device") {
		t.Fatalf("view does not show the device error")
	}
}

func deviceDown(code jammer.ScanCode) DeviceKeyMsg {
	return DeviceKeyMsg(input.KeyEvent{Key: jammer.ScanKey(code), Down: true})
}

func deviceUp(code jammer.ScanCode) DeviceKeyMsg {
	return DeviceKeyMsg(input.KeyEvent{Key: jammer.ScanKey(code)})
}

func TestGrabbedDeviceControls(t *testing.T) {
	m, sink := newTestModel(t, Status{Device: "kbd", Grabbed: true})

	m, _ = update(t, m, deviceDown(jammer.KeyQ))
	m, _ = update(t, m, deviceDown(jammer.KeyTab))
	if m.Session().Tuning != tuning.EDO19 {
		t.Fatalf("tab: got %s", m.Session().Tuning)
	}
	m, _ = update(t, m, DeviceKeyMsg(input.KeyEvent{Key: jammer.ScanKey(jammer.KeyTab), Down: true, Repeat: true}))
	if m.Session().Tuning != tuning.EDO19 {
		t.Fatalf("tab repeat cycled: got %s", m.Session().Tuning)
	}
	m, _ = update(t, m, deviceUp(jammer.KeyTab))

	m, _ = update(t, m, deviceDown(jammer.KeyLeftShift))
	m, _ = update(t, m, deviceDown(jammer.KeyTab))
	m, _ = update(t, m, deviceUp(jammer.KeyLeftShift))
	if m.Session().Tuning != tuning.EDO12 {
		t.Fatalf("shift+tab: got %s", m.Session().Tuning)
	}

	// ctrl chords run bindings and never play their letter
	m, _ = update(t, m, deviceDown(jammer.KeyRightCtrl))
	m, _ = update(t, m, deviceDown(jammer.KeyL))
	if m.Session().Layout != layout.QWERTY {
		t.Fatalf("ctrl+l: got %s", m.Session().Layout)
	}
	m, _ = update(t, m, deviceDown(jammer.KeyP))
	m, _ = update(t, m, deviceUp(jammer.KeyRightCtrl))
	if got := strings.Join(sink.msgs, ","); got != "on 059,off 059" {
		t.Fatalf("got %s", got)
	}

	m, _ = update(t, m, deviceDown(jammer.KeyW))
	m, cmd := update(t, m, deviceDown(jammer.KeyEsc))
	if cmd == nil {
		t.Fatalf("esc from the device should quit")
	}
	if sink.msgs[len(sink.msgs)-1] != "off 061" {
		t.Fatalf("quit did not release: %v", sink.msgs)
	}
}

func TestUngrabbedDeviceLeavesControlsToTerminal(t *testing.T) {
	m, sink := newTestModel(t, Status{Device: "kbd"})

	m, cmd := update(t, m, deviceDown(jammer.KeyEsc))
	if cmd != nil {
		t.Fatalf("device esc quit although the terminal sees it too")
	}
	m, _ = update(t, m, deviceDown(jammer.KeyTab))
	if m.Session().Tuning != tuning.EDO12 {
		t.Fatalf("device tab cycled: got %s", m.Session().Tuning)
	}
	m, _ = update(t, m, deviceDown(jammer.KeyLeftCtrl))
	update(t, m, deviceDown(jammer.KeyL))
	if len(sink.msgs) != 0 {
		t.Fatalf("ctrl chord played: %v", sink.msgs)
	}
}

func TestHelpUsesSurfaceSeparator(t *testing.T) {
	m, _ := newTestModel(t, Status{})
	if m.help.Styles.ShortSeparator.GetForeground() != m.Theme.Surface() {
		t.Fatalf("separator color: %v", m.help.Styles.ShortSeparator.GetForeground())
	}
}
