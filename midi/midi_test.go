package midi

import (
	"bytes"
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"go.uber.org/zap"

	"go-jammer/jammer"
)

var (
	_ jammer.Sink = (*Output)(nil)
	_ jammer.Sink = Discard
)

type fakePort struct {
	sent   [][]byte
	err    error
	closed bool
}

func (p *fakePort) Send(msg []byte) error {
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, append([]byte(nil), msg...))
	return nil
}

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

func (p *fakePort) String() string { return "fake" }

type fakeBackend struct {
	names []string
	block chan struct{}
	port  *fakePort
}

func (b *fakeBackend) outPorts() ([]string, error) {
	if b.block != nil {
		<-b.block
	}
	return b.names, nil
}

func (b *fakeBackend) open(index int) (port, error) {
	return b.port, nil
}

func TestOutputMessages(t *testing.T) {
	p := &fakePort{}
	o := newOutput(p, BackendRtMidi, 2, zap.NewNop())

	o.NoteOn(59, 100)
	o.NoteOff(59)
	o.AllNotesOff()

	want := [][]byte{
		{StatusNoteOn | 2, 59, 100},
		{StatusNoteOff | 2, 59, 0},
		{StatusCC | 2, CCAllNotesOff, 0},
	}
	if len(p.sent) != len(want) {
		t.Fatalf("sent %d messages, want %d", len(p.sent), len(want))
	}
	for i := range want {
		if !bytes.Equal(p.sent[i], want[i]) {
			t.Fatalf("msg %d: got % X want % X", i, p.sent[i], want[i])
		}
	}
}

func TestOutputClampsChannel(t *testing.T) {
	o := newOutput(&fakePort{}, BackendRtMidi, 0x13, zap.NewNop())
	if o.Channel() != 3 {
		t.Fatalf("channel: got %d", o.Channel())
	}
}

func TestOutputDropsErrors(t *testing.T) {
	p := &fakePort{err: errors.New("unplugged")}
	o := newOutput(p, BackendRtMidi, 0, zap.NewNop())

	o.NoteOn(60, 100)
	o.NoteOff(60)
	if o.failed != 2 {
		t.Fatalf("expected 2 failed sends, got %d", o.failed)
	}
}

func TestOutputClose(t *testing.T) {
	p := &fakePort{}
	o := newOutput(p, BackendRtMidi, 0, zap.NewNop())

	if err := o.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !p.closed {
		t.Fatalf("port not closed")
	}
	o.NoteOn(60, 100)
	if len(p.sent) != 0 {
		t.Fatalf("send after close went through")
	}
	if err := o.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestSelectPort(t *testing.T) {
	names := []string{"Midi Through Port-0", "FLUID Synth (1234)", "USB MIDI Interface"}
	tests := []struct {
		want string
		idx  int
	}{
		{"", 1},
		{"usb midi interface", 2},
		{"fluid", 1},
		{"through", 0},
		{"2", 2},
		{" FLUID Synth (1234) ", 1},
	}
	for _, tt := range tests {
		got, err := selectPort(names, tt.want)
		if err != nil {
			t.Fatalf("%q: %v", tt.want, err)
		}
		if got != tt.idx {
			t.Fatalf("%q: got %d want %d", tt.want, got, tt.idx)
		}
	}
}

func TestSelectPortErrors(t *testing.T) {
	if _, err := selectPort(nil, ""); !errors.Is(err, ErrNoOutputPorts) {
		t.Fatalf("empty list: got %v", err)
	}
	if _, err := selectPort([]string{"Midi Through Port-0"}, ""); !errors.Is(err, ErrNoOutputPorts) {
		t.Fatalf("only loopback: got %v", err)
	}
	names := []string{"FLUID Synth"}
	if _, err := selectPort(names, "launchpad"); !errors.Is(err, ErrPortNotFound) {
		t.Fatalf("missing name: got %v", err)
	}
	if _, err := selectPort(names, "5"); !errors.Is(err, ErrPortNotFound) {
		t.Fatalf("bad index: got %v", err)
	}
}

func TestScanTimeout(t *testing.T) {
	be := &fakeBackend{names: []string{"x"}, block: make(chan struct{})}
	defer close(be.block)

	_, err := scan(be, 20*time.Millisecond)
	if !errors.Is(err, ErrScanTimeout) {
		t.Fatalf("expected ErrScanTimeout, got %v", err)
	}
}

func TestOpenWithFakeBackend(t *testing.T) {
	p := &fakePort{}
	be := &fakeBackend{names: []string{"Midi Through", "Synth"}, port: p}

	const fake Backend = "fake"
	backendInitializers[fake] = func(*zap.Logger) (backend, error) { return be, nil }
	defer delete(backendInitializers, fake)

	o, err := Open(WithBackend(fake), WithChannel(9))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if o.Backend() != fake || o.Channel() != 9 {
		t.Fatalf("unexpected output: %s ch %d", o.Backend(), o.Channel())
	}
	o.NoteOn(36, 100)
	if len(p.sent) != 1 || p.sent[0][0] != StatusNoteOn|9 {
		t.Fatalf("unexpected messages % X", p.sent)
	}

	names, err := ListOutPorts(fake, time.Second)
	if err != nil || len(names) != 2 {
		t.Fatalf("ListOutPorts: %v, %v", names, err)
	}
}

func TestOpenRejects(t *testing.T) {
	if _, err := Open(WithBackend("alsa")); !errors.Is(err, ErrUnsupportedBackend) {
		t.Fatalf("unknown backend: got %v", err)
	}
	if _, err := Open(WithChannel(16)); err == nil {
		t.Fatalf("channel 17 should be rejected")
	}
	if runtime.GOOS != "darwin" {
		if _, err := Open(WithBackend(BackendCoreMIDI)); !errors.Is(err, ErrUnsupportedBackend) {
			t.Fatalf("coremidi on %s: got %v", runtime.GOOS, err)
		}
	}
	if runtime.GOOS != "windows" {
		if _, err := Open(WithBackend(BackendWinMM)); !errors.Is(err, ErrUnsupportedBackend) {
			t.Fatalf("winmm on %s: got %v", runtime.GOOS, err)
		}
	}
}

func TestWatcherReportsChanges(t *testing.T) {
	be := &fakeBackend{names: []string{"Midi Through", "FLUID Synth"}}
	w := newWatcher(be, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w.scan(ctx, false)
	if !w.Present("FLUID Synth") || w.Present("Launchpad") {
		t.Fatalf("initial scan: %v", w.ports)
	}

	be.names = []string{"Midi Through", "Launchpad"}
	w.scan(ctx, true)

	got := map[string]PortEventType{}
	for i := 0; i < 2; i++ {
		ev := <-w.Events()
		got[ev.Name] = ev.Type
	}
	if got["Launchpad"] != PortConnected || got["FLUID Synth"] != PortDisconnected {
		t.Fatalf("events: %v", got)
	}
	if w.Present("FLUID Synth") {
		t.Fatalf("disconnected port still present")
	}
}

func TestWatcherRunClosesEvents(t *testing.T) {
	w := newWatcher(&fakeBackend{names: []string{"a"}}, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not return")
	}
	if _, ok := <-w.Events(); ok {
		t.Fatalf("events channel still open")
	}
}
