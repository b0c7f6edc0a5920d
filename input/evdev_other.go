//go:build !linux
// +build !linux

package input

import (
	"context"

	"go.uber.org/zap"
)

// Device is unavailable on this system.
type Device struct{}

// Open always fails with ErrUnsupported.
func Open(path string, log *zap.Logger) (*Device, error) {
	return nil, ErrUnsupported
}

func (d *Device) Name() string { return "" }
func (d *Device) Path() string { return "" }

func (d *Device) Grab() error { return ErrUnsupported }

func (d *Device) Listen(ctx context.Context, fn func(KeyEvent)) error {
	return ErrUnsupported
}

func (d *Device) Close() error { return nil }

// ListDevices always fails with ErrUnsupported.
func ListDevices() ([]DeviceInfo, error) {
	return nil, ErrUnsupported
}

// FindKeyboard always fails with ErrUnsupported.
func FindKeyboard() (DeviceInfo, error) {
	return DeviceInfo{}, ErrUnsupported
}
