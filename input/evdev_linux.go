//go:build linux
// +build linux

package input

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/holoplot/go-evdev"
	"go.uber.org/zap"

	"go-jammer/jammer"
)

// key event values
const (
	valueUp     = 0
	valueDown   = 1
	valueRepeat = 2
)

// Device reads key events from a Linux input device node. Reading needs
// permission on /dev/input/eventN, usually membership of the input group.
type Device struct {
	dev  *evdev.InputDevice
	path string
	name string
	log  *zap.Logger

	mu      sync.Mutex
	grabbed bool
	closed  bool
}

// Open opens an input device. An empty path picks the first keyboard.
func Open(path string, log *zap.Logger) (*Device, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if path == "" {
		info, err := FindKeyboard()
		if err != nil {
			return nil, err
		}
		path = info.Path
	}

	dev, err := evdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	name, err := dev.Name()
	if err != nil {
		name = path
	}
	if !isKeyboard(dev) {
		dev.Close()
		return nil, fmt.Errorf("%s (%s) is not a keyboard", path, name)
	}

	log.Info("input device opened", zap.String("path", path), zap.String("name", name))
	return &Device{dev: dev, path: path, name: name, log: log}, nil
}

// Name returns the device name reported by the kernel
func (d *Device) Name() string {
	return d.name
}

// Path returns the device node path
func (d *Device) Path() string {
	return d.path
}

// Grab takes exclusive access, so key presses stop reaching other programs
// (including the terminal) until the device is closed.
func (d *Device) Grab() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.grabbed {
		return nil
	}
	if err := d.dev.Grab(); err != nil {
		return fmt.Errorf("grab %s: %w", d.path, err)
	}
	d.grabbed = true
	d.log.Info("input device grabbed", zap.String("path", d.path))
	return nil
}

// Listen reads events until ctx is done or the device fails, calling fn for
// every key transition in the order the kernel reports them.
func (d *Device) Listen(ctx context.Context, fn func(KeyEvent)) error {
	stop := context.AfterFunc(ctx, func() {
		d.Close()
	})
	defer stop()

	for {
		ev, err := d.dev.ReadOne()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, os.ErrClosed) {
				return ctx.Err()
			}
			return fmt.Errorf("read %s: %w", d.path, err)
		}
		ke, ok := keyEvent(ev)
		if !ok {
			continue
		}
		fn(ke)
	}
}

// Close releases the grab and closes the device. It is safe to call twice.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	if d.grabbed {
		d.dev.Ungrab()
		d.grabbed = false
	}
	d.log.Info("input device closed", zap.String("path", d.path))
	return d.dev.Close()
}

// keyEvent converts an EV_KEY event. Other event types are dropped.
func keyEvent(ev *evdev.InputEvent) (KeyEvent, bool) {
	if ev == nil || ev.Type != evdev.EV_KEY {
		return KeyEvent{}, false
	}
	key := jammer.ScanKey(jammer.ScanCode(ev.Code))
	switch ev.Value {
	case valueDown:
		return KeyEvent{Key: key, Down: true}, true
	case valueRepeat:
		return KeyEvent{Key: key, Down: true, Repeat: true}, true
	case valueUp:
		return KeyEvent{Key: key}, true
	}
	return KeyEvent{}, false
}

// isKeyboard reports whether a device has letter keys
func isKeyboard(dev *evdev.InputDevice) bool {
	codes := dev.CapableEvents(evdev.EV_KEY)
	return slices.Contains(codes, evdev.KEY_Q) && slices.Contains(codes, evdev.KEY_P)
}

// ListDevices returns the keyboards that can be opened. Devices without
// read permission are skipped.
func ListDevices() ([]DeviceInfo, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, fmt.Errorf("list input devices: %w", err)
	}

	var out []DeviceInfo
	for _, p := range paths {
		dev, err := evdev.Open(p.Path)
		if err != nil {
			continue
		}
		if isKeyboard(dev) {
			out = append(out, DeviceInfo{Path: p.Path, Name: p.Name})
		}
		dev.Close()
	}
	return out, nil
}

// FindKeyboard returns the first readable keyboard
func FindKeyboard() (DeviceInfo, error) {
	devs, err := ListDevices()
	if err != nil {
		return DeviceInfo{}, err
	}
	if len(devs) == 0 {
		return DeviceInfo{}, ErrNoKeyboard
	}
	return devs[0], nil
}
