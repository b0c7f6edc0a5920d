// Package input delivers key presses and releases from keyboards: hardware
// scan codes from Linux input devices, and terminal keys whose release is
// inferred from silence.
package input

import (
	"errors"

	"go-jammer/jammer"
)

// ErrUnsupported is returned by device input on systems without evdev.
var ErrUnsupported = errors.New("keyboard device input is only supported on Linux")

// ErrNoKeyboard is returned when no readable keyboard device exists.
var ErrNoKeyboard = errors.New("no keyboard input device found")

// KeyEvent is one key transition
type KeyEvent struct {
	Key    jammer.RawKey
	Down   bool
	Repeat bool // auto-repeat, Down is also set
}

// DeviceInfo describes an input device node
type DeviceInfo struct {
	Path string
	Name string
}
