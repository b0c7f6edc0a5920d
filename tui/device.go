package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"go-jammer/input"
	"go-jammer/jammer"
)

// modifiers tracks the modifier keys held on the input device. A grabbed
// device sends nothing to the terminal, so control chords are rebuilt here.
type modifiers struct {
	leftCtrl, rightCtrl   bool
	leftShift, rightShift bool
}

// track records a modifier transition and reports whether ev was one
func (md *modifiers) track(ev input.KeyEvent) bool {
	switch ev.Key.Code {
	case jammer.KeyLeftCtrl:
		md.leftCtrl = ev.Down
	case jammer.KeyRightCtrl:
		md.rightCtrl = ev.Down
	case jammer.KeyLeftShift:
		md.leftShift = ev.Down
	case jammer.KeyRightShift:
		md.rightShift = ev.Down
	default:
		return false
	}
	return true
}

func (md modifiers) ctrl() bool  { return md.leftCtrl || md.rightCtrl }
func (md modifiers) shift() bool { return md.leftShift || md.rightShift }

// controlKey returns the terminal key a device key stands for when it can
// trigger a control binding.
func controlKey(code jammer.ScanCode, md modifiers) (tea.KeyMsg, bool) {
	switch code {
	case jammer.KeyEsc:
		return tea.KeyMsg{Type: tea.KeyEsc}, true
	case jammer.KeyTab:
		if md.shift() {
			return tea.KeyMsg{Type: tea.KeyShiftTab}, true
		}
		return tea.KeyMsg{Type: tea.KeyTab}, true
	case jammer.KeyF1:
		return tea.KeyMsg{Type: tea.KeyF1}, true
	}
	if !md.ctrl() {
		return tea.KeyMsg{}, false
	}
	switch code {
	case jammer.KeyC:
		return tea.KeyMsg{Type: tea.KeyCtrlC}, true
	case jammer.KeyL:
		return tea.KeyMsg{Type: tea.KeyCtrlL}, true
	case jammer.KeyP:
		return tea.KeyMsg{Type: tea.KeyCtrlP}, true
	}
	return tea.KeyMsg{}, false
}
