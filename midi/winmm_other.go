//go:build !windows
// +build !windows

package midi

import (
	"fmt"

	"go.uber.org/zap"
)

func newWinMMBackend(log *zap.Logger) (backend, error) {
	log.Warn("winmm backend requested on non-Windows system")
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedBackend, BackendWinMM)
}
