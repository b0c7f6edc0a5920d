//go:build linux
// +build linux

package input

import (
	"testing"

	"github.com/holoplot/go-evdev"

	"go-jammer/jammer"
)

func TestScanCodesMatchKernel(t *testing.T) {
	tests := []struct {
		ours   jammer.ScanCode
		kernel evdev.EvCode
	}{
		{jammer.KeyGrave, evdev.KEY_GRAVE},
		{jammer.Key1, evdev.KEY_1},
		{jammer.Key0, evdev.KEY_0},
		{jammer.KeyMinus, evdev.KEY_MINUS},
		{jammer.KeyEqual, evdev.KEY_EQUAL},
		{jammer.KeyQ, evdev.KEY_Q},
		{jammer.KeyY, evdev.KEY_Y},
		{jammer.KeyP, evdev.KEY_P},
		{jammer.KeyLeftBrace, evdev.KEY_LEFTBRACE},
		{jammer.KeyRightBrace, evdev.KEY_RIGHTBRACE},
		{jammer.KeyA, evdev.KEY_A},
		{jammer.KeyL, evdev.KEY_L},
		{jammer.KeySemicolon, evdev.KEY_SEMICOLON},
		{jammer.KeyApostrophe, evdev.KEY_APOSTROPHE},
		{jammer.KeyBackslash, evdev.KEY_BACKSLASH},
		{jammer.KeyZ, evdev.KEY_Z},
		{jammer.KeyM, evdev.KEY_M},
		{jammer.KeyComma, evdev.KEY_COMMA},
		{jammer.KeyDot, evdev.KEY_DOT},
		{jammer.KeySlash, evdev.KEY_SLASH},
		{jammer.Key102nd, evdev.KEY_102ND},
		{jammer.KeyEsc, evdev.KEY_ESC},
		{jammer.KeyTab, evdev.KEY_TAB},
		{jammer.KeyLeftCtrl, evdev.KEY_LEFTCTRL},
		{jammer.KeyRightCtrl, evdev.KEY_RIGHTCTRL},
		{jammer.KeyLeftShift, evdev.KEY_LEFTSHIFT},
		{jammer.KeyRightShift, evdev.KEY_RIGHTSHIFT},
		{jammer.KeyF1, evdev.KEY_F1},
	}
	for _, tt := range tests {
		if uint16(tt.ours) != uint16(tt.kernel) {
			t.Fatalf("scan code %d, kernel %d", tt.ours, tt.kernel)
		}
	}
}

func TestKeyEvent(t *testing.T) {
	tests := []struct {
		ev   evdev.InputEvent
		want KeyEvent
		ok   bool
	}{
		{evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_Q, Value: 1},
			KeyEvent{Key: jammer.ScanKey(jammer.KeyQ), Down: true}, true},
		{evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_Q, Value: 2},
			KeyEvent{Key: jammer.ScanKey(jammer.KeyQ), Down: true, Repeat: true}, true},
		{evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_Q, Value: 0},
			KeyEvent{Key: jammer.ScanKey(jammer.KeyQ)}, true},
		{evdev.InputEvent{Type: evdev.EV_SYN, Code: 0, Value: 0}, KeyEvent{}, false},
		{evdev.InputEvent{Type: evdev.EV_MSC, Code: 4, Value: 30}, KeyEvent{}, false},
	}
	for i, tt := range tests {
		got, ok := keyEvent(&tt.ev)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("case %d: got %+v, %v", i, got, ok)
		}
	}
	if _, ok := keyEvent(nil); ok {
		t.Fatalf("nil event accepted")
	}
}
