package midi

import (
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
	"go.uber.org/zap"
)

type rtMidiBackend struct {
	log   *zap.Logger
	mu    sync.Mutex
	ports []drivers.Out
}

func newRtMidiBackend(log *zap.Logger) (backend, error) {
	return &rtMidiBackend{log: log}, nil
}

func (b *rtMidiBackend) outPorts() ([]string, error) {
	outs := gomidi.GetOutPorts()

	b.mu.Lock()
	b.ports = outs
	b.mu.Unlock()

	names := make([]string, len(outs))
	for i, p := range outs {
		names[i] = p.String()
	}
	return names, nil
}

func (b *rtMidiBackend) open(index int) (port, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if index < 0 || index >= len(b.ports) {
		return nil, ErrPortNotFound
	}
	out := b.ports[index]
	if err := out.Open(); err != nil {
		return nil, err
	}
	b.log.Debug("rtmidi port open", zap.Int("number", out.Number()), zap.String("name", out.String()))
	return &rtMidiPort{out: out}, nil
}

type rtMidiPort struct {
	out drivers.Out
}

func (p *rtMidiPort) Send(msg []byte) error {
	return p.out.Send(msg)
}

func (p *rtMidiPort) Close() error {
	return p.out.Close()
}

func (p *rtMidiPort) String() string {
	return p.out.String()
}
