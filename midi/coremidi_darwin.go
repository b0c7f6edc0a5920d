//go:build darwin
// +build darwin

package midi

import (
	"fmt"
	"sync"

	"github.com/youpy/go-coremidi"
	"go.uber.org/zap"
)

type coreMIDIBackend struct {
	log    *zap.Logger
	client coremidi.Client
	mu     sync.Mutex
	dests  []coremidi.Destination
}

func newCoreMIDIBackend(log *zap.Logger) (backend, error) {
	client, err := coremidi.NewClient("go-jammer")
	if err != nil {
		return nil, fmt.Errorf("coremidi client: %w", err)
	}
	log.Debug("coremidi client created")
	return &coreMIDIBackend{log: log, client: client}, nil
}

func (b *coreMIDIBackend) outPorts() ([]string, error) {
	dests, err := coremidi.AllDestinations()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI destinations: %w", err)
	}

	b.mu.Lock()
	b.dests = dests
	b.mu.Unlock()

	names := make([]string, len(dests))
	for i, d := range dests {
		names[i] = d.Name()
	}
	return names, nil
}

func (b *coreMIDIBackend) open(index int) (port, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if index < 0 || index >= len(b.dests) {
		return nil, ErrPortNotFound
	}
	out, err := coremidi.NewOutputPort(b.client, "Output Port")
	if err != nil {
		return nil, fmt.Errorf("error creating output port: %w", err)
	}
	return &coreMIDIPort{out: out, dest: b.dests[index]}, nil
}

type coreMIDIPort struct {
	out  coremidi.OutputPort
	dest coremidi.Destination
}

func (p *coreMIDIPort) Send(msg []byte) error {
	packet := coremidi.NewPacket(msg, 0)
	return packet.Send(&p.out, &p.dest)
}

// Close is a no-op: CoreMIDI ports live as long as the client.
func (p *coreMIDIPort) Close() error {
	return nil
}

func (p *coreMIDIPort) String() string {
	return p.dest.Name()
}
