//go:build !darwin
// +build !darwin

package midi

import (
	"fmt"

	"go.uber.org/zap"
)

func newCoreMIDIBackend(log *zap.Logger) (backend, error) {
	log.Warn("coremidi backend requested on non-macOS system")
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedBackend, BackendCoreMIDI)
}
