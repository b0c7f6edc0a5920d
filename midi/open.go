// Package midi sends note messages to a system MIDI output port.
package midi

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	ErrNoOutputPorts      = errors.New("no MIDI output ports")
	ErrPortNotFound       = errors.New("MIDI output port not found")
	ErrUnsupportedBackend = errors.New("MIDI backend not supported on this system")
	ErrScanTimeout        = errors.New("timed out listing MIDI ports")
)

// backend lists and opens output ports of one system API
type backend interface {
	outPorts() ([]string, error)
	open(index int) (port, error)
}

// backendInitializers holds the backends compiled for this OS. Unsupported
// ones return ErrUnsupportedBackend.
var backendInitializers = map[Backend]func(*zap.Logger) (backend, error){
	BackendRtMidi:   newRtMidiBackend,
	BackendCoreMIDI: newCoreMIDIBackend,
	BackendWinMM:    newWinMMBackend,
}

func initBackend(b Backend, log *zap.Logger) (backend, error) {
	newBackend, ok := backendInitializers[b]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBackend, b)
	}
	return newBackend(log)
}

// Open opens an output port. Without a port option the first port that is
// not a virtual loopback is used.
func Open(opts ...Option) (*Output, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Channel > 15 {
		return nil, fmt.Errorf("MIDI channel %d out of range", o.Channel+1)
	}

	be, err := initBackend(o.Backend, o.Logger)
	if err != nil {
		return nil, err
	}
	names, err := scan(be, o.Timeout)
	if err != nil {
		return nil, err
	}
	idx, err := selectPort(names, o.Port)
	if err != nil {
		return nil, err
	}
	p, err := be.open(idx)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", names[idx], err)
	}

	o.Logger.Info("output opened",
		zap.String("backend", string(o.Backend)),
		zap.String("port", names[idx]),
		zap.Uint8("channel", o.Channel+1),
	)
	return newOutput(p, o.Backend, o.Channel, o.Logger), nil
}

// ListOutPorts returns the output port names of a backend
func ListOutPorts(b Backend, timeout time.Duration) ([]string, error) {
	be, err := initBackend(b, zap.NewNop())
	if err != nil {
		return nil, err
	}
	return scan(be, timeout)
}

// scan lists ports on another goroutine and gives up after timeout
func scan(be backend, timeout time.Duration) ([]string, error) {
	if timeout <= 0 {
		timeout = DefaultScanTimeout
	}

	type result struct {
		names []string
		err   error
	}
	ch := make(chan result, 1)
	go func() {
		names, err := be.outPorts()
		ch <- result{names: names, err: err}
	}()

	select {
	case r := <-ch:
		return r.names, r.err
	case <-time.After(timeout):
		// user needs to run: sudo killall coreaudiod midiserver
		return nil, ErrScanTimeout
	}
}

// selectPort picks a port by index, exact name or name fragment, all case
// insensitive. An empty want skips loopback "Through" ports.
func selectPort(names []string, want string) (int, error) {
	if len(names) == 0 {
		return -1, ErrNoOutputPorts
	}

	want = strings.TrimSpace(want)
	if want == "" {
		for i, name := range names {
			if !isThrough(name) {
				return i, nil
			}
		}
		return -1, ErrNoOutputPorts
	}

	if n, err := strconv.Atoi(want); err == nil {
		if n < 0 || n >= len(names) {
			return -1, fmt.Errorf("%w: index %d of %d", ErrPortNotFound, n, len(names))
		}
		return n, nil
	}

	lw := strings.ToLower(want)
	for i, name := range names {
		if strings.ToLower(name) == lw {
			return i, nil
		}
	}
	for i, name := range names {
		if strings.Contains(strings.ToLower(name), lw) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrPortNotFound, want)
}

func isThrough(name string) bool {
	name = strings.ToLower(name)
	return strings.Contains(name, "through")
}
