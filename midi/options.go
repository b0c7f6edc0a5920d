package midi

import (
	"time"

	"go.uber.org/zap"
)

// Backend selects the system MIDI API used for output
type Backend string

const (
	BackendRtMidi   Backend = "rtmidi"
	BackendCoreMIDI Backend = "coremidi"
	BackendWinMM    Backend = "winmm"
)

// Backends lists every backend name, supported on this OS or not
func Backends() []Backend {
	return []Backend{BackendRtMidi, BackendCoreMIDI, BackendWinMM}
}

// DefaultScanTimeout bounds port enumeration. CoreMIDI can hang when the
// MIDI server is wedged.
const DefaultScanTimeout = 3 * time.Second

// Options configures Open
type Options struct {
	Backend Backend
	Port    string // name, name fragment or index; empty picks the first real port
	Channel uint8  // 0-15
	Timeout time.Duration
	Logger  *zap.Logger
}

// Option is a functional option for Open
type Option func(*Options)

// WithBackend selects the MIDI API
func WithBackend(b Backend) Option {
	return func(o *Options) {
		o.Backend = b
	}
}

// WithPort selects the output port
func WithPort(name string) Option {
	return func(o *Options) {
		o.Port = name
	}
}

// WithChannel sets the zero-based output channel
func WithChannel(ch uint8) Option {
	return func(o *Options) {
		o.Channel = ch
	}
}

// WithTimeout bounds port enumeration
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

func defaultOptions() *Options {
	return &Options{
		Backend: BackendRtMidi,
		Timeout: DefaultScanTimeout,
		Logger:  zap.NewNop(),
	}
}
