package midi

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// PortEvent is emitted when an output port appears or goes away
type PortEvent struct {
	Type PortEventType
	Name string
}

type PortEventType int

const (
	PortConnected PortEventType = iota
	PortDisconnected
)

func (t PortEventType) String() string {
	if t == PortConnected {
		return "connected"
	}
	return "disconnected"
}

// DefaultPollRate is how often the watcher lists ports
const DefaultPollRate = time.Second

// Watcher polls the output ports of a backend and reports hot-plug changes
type Watcher struct {
	be       backend
	log      *zap.Logger
	pollRate time.Duration
	timeout  time.Duration

	mu     sync.RWMutex
	ports  map[string]bool
	events chan PortEvent
}

// NewWatcher creates a watcher for backend b
func NewWatcher(b Backend, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	be, err := initBackend(b, log)
	if err != nil {
		return nil, err
	}
	return newWatcher(be, log), nil
}

func newWatcher(be backend, log *zap.Logger) *Watcher {
	return &Watcher{
		be:       be,
		log:      log,
		pollRate: DefaultPollRate,
		timeout:  DefaultScanTimeout,
		ports:    make(map[string]bool),
		events:   make(chan PortEvent, 16),
	}
}

// Events returns the channel of port events. It is closed when Run returns.
func (w *Watcher) Events() <-chan PortEvent {
	return w.events
}

// Present reports whether a port with this name was seen in the last scan
func (w *Watcher) Present(name string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.ports[name]
}

// Run polls until ctx is done (blocking - run in goroutine). Ports seen by
// the first scan are not reported.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.events)

	ticker := time.NewTicker(w.pollRate)
	defer ticker.Stop()

	w.scan(ctx, false)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.scan(ctx, true)
		}
	}
}

func (w *Watcher) scan(ctx context.Context, notify bool) {
	names, err := scan(w.be, w.timeout)
	if err != nil {
		// a hung scan is skipped, ports keep their last state
		w.log.Debug("port scan failed", zap.Error(err))
		return
	}

	seen := make(map[string]bool, len(names))
	for _, n := range names {
		seen[n] = true
	}

	w.mu.Lock()
	var changes []PortEvent
	for n := range seen {
		if !w.ports[n] {
			changes = append(changes, PortEvent{Type: PortConnected, Name: n})
		}
	}
	for n := range w.ports {
		if !seen[n] {
			changes = append(changes, PortEvent{Type: PortDisconnected, Name: n})
		}
	}
	w.ports = seen
	w.mu.Unlock()

	if !notify {
		return
	}
	for _, ev := range changes {
		w.log.Info("output port "+ev.Type.String(), zap.String("port", ev.Name))
		select {
		case w.events <- ev:
		case <-ctx.Done():
			return
		}
	}
}
