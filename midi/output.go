package midi

import (
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
	"go.uber.org/zap"
)

// port is an open output connection of one backend
type port interface {
	Send(msg []byte) error
	Close() error
	String() string
}

// Output sends note messages to one MIDI output port. Sends never block on
// errors: a failed send is logged and dropped.
type Output struct {
	port    port
	backend Backend
	channel uint8
	log     *zap.Logger

	mu     sync.Mutex
	closed bool
	failed int
}

func newOutput(p port, backend Backend, channel uint8, log *zap.Logger) *Output {
	return &Output{
		port:    p,
		backend: backend,
		channel: channel & 0x0F,
		log:     log,
	}
}

// NoteOn sends a note-on on the output channel
func (o *Output) NoteOn(note, velocity uint8) {
	o.send(noteOnMsg(o.channel, note, velocity))
}

// NoteOff sends a note-off on the output channel
func (o *Output) NoteOff(note uint8) {
	o.send(noteOffMsg(o.channel, note))
}

// AllNotesOff sends the All Notes Off channel message
func (o *Output) AllNotesOff() {
	o.send(allNotesOffMsg(o.channel))
}

func (o *Output) send(msg gomidi.Message) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return
	}
	if err := o.port.Send(msg); err != nil {
		o.failed++
		o.log.Debug("send failed",
			zap.String("port", o.port.String()),
			zap.Stringer("msg", msg),
			zap.Int("failed", o.failed),
			zap.Error(err),
		)
	}
}

// Name returns the port name
func (o *Output) Name() string {
	return o.port.String()
}

// Backend returns the backend the port was opened with
func (o *Output) Backend() Backend {
	return o.backend
}

// Channel returns the zero-based output channel
func (o *Output) Channel() uint8 {
	return o.channel
}

// Close closes the port. Later sends are dropped.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return nil
	}
	o.closed = true
	o.log.Info("output closed", zap.String("port", o.port.String()))
	return o.port.Close()
}

type discard struct{}

func (discard) NoteOn(note, velocity uint8) {}
func (discard) NoteOff(note uint8)          {}

// Discard is the sink used when no output port is available. Every message
// is dropped.
var Discard discard
