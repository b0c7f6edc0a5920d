package jammer

import (
	"sort"

	"go.uber.org/zap"

	"go-jammer/tuning"
)

// Tracker owns the set of sounding pitches and decides which key transitions
// become note messages. Tracking is per pitch, not per key: when two keys
// resolve to the same note, releasing either one sends the NoteOff.
//
// Tracker is not safe for concurrent use; callers deliver events in order
// from a single goroutine.
type Tracker struct {
	resolver *Resolver
	sink     Sink
	log      *zap.Logger
	active   map[uint8]tuning.Pitch
}

// NewTracker creates a tracker with an empty active set
func NewTracker(r *Resolver, sink Sink, log *zap.Logger) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{
		resolver: r,
		sink:     sink,
		log:      log,
		active:   make(map[uint8]tuning.Pitch),
	}
}

// KeyDown sends a NoteOn for the key's pitch unless it has no pitch or the
// pitch is already sounding.
func (t *Tracker) KeyDown(k RawKey, s Session) (Event, bool) {
	p, ok := t.resolver.Resolve(k, s)
	if !ok {
		return Event{}, false
	}
	if _, on := t.active[p.Note]; on {
		return Event{}, false
	}
	t.active[p.Note] = p
	e := Event{Kind: NoteOn, Pitch: p, Velocity: Velocity}
	t.emit(k, e)
	return e, true
}

// KeyUp sends a NoteOff for the key's pitch if it is sounding.
func (t *Tracker) KeyUp(k RawKey, s Session) (Event, bool) {
	p, ok := t.resolver.Resolve(k, s)
	if !ok {
		return Event{}, false
	}
	held, on := t.active[p.Note]
	if !on {
		return Event{}, false
	}
	delete(t.active, p.Note)
	// report the pitch that was switched on, the key may now resolve to
	// another name for the same note
	e := Event{Kind: NoteOff, Pitch: held}
	t.emit(k, e)
	return e, true
}

// AllOff sends a NoteOff for every sounding pitch in ascending note order
// and clears the set.
func (t *Tracker) AllOff() []Event {
	if len(t.active) == 0 {
		return nil
	}
	events := make([]Event, 0, len(t.active))
	for _, p := range t.Sounding() {
		events = append(events, Event{Kind: NoteOff, Pitch: p})
	}
	clear(t.active)
	for _, e := range events {
		send(t.sink, e)
	}
	t.log.Debug("all notes off", zap.Int("count", len(events)))
	return events
}

// Sounding returns the sounding pitches sorted by note
func (t *Tracker) Sounding() []tuning.Pitch {
	out := make([]tuning.Pitch, 0, len(t.active))
	for _, p := range t.active {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Note < out[j].Note })
	return out
}

// IsSounding reports whether a note is in the active set
func (t *Tracker) IsSounding(note uint8) bool {
	_, ok := t.active[note]
	return ok
}

func (t *Tracker) emit(k RawKey, e Event) {
	send(t.sink, e)
	t.log.Debug("note",
		zap.Stringer("kind", e.Kind),
		zap.Stringer("key", k),
		zap.String("pitch", e.Pitch.Name),
		zap.Uint8("note", e.Pitch.Note),
	)
}
