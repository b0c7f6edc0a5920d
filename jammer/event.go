package jammer

import (
	"fmt"

	"go-jammer/tuning"
)

// Velocity is the fixed note-on velocity
const Velocity uint8 = 100

// EventKind is the type of a note event
type EventKind int

const (
	NoteOn EventKind = iota
	NoteOff
)

func (k EventKind) String() string {
	switch k {
	case NoteOn:
		return "NoteOn"
	case NoteOff:
		return "NoteOff"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is a note transition sent to the sink
type Event struct {
	Kind     EventKind
	Pitch    tuning.Pitch
	Velocity uint8 // 0 for NoteOff
}

func (e Event) String() string {
	if e.Kind == NoteOn {
		return fmt.Sprintf("%s(%d, %s, vel %d)", e.Kind, e.Pitch.Note, e.Pitch.Name, e.Velocity)
	}
	return fmt.Sprintf("%s(%d, %s)", e.Kind, e.Pitch.Note, e.Pitch.Name)
}

// Sink receives note messages. Calls are fire-and-forget: a sink that cannot
// deliver drops the message.
type Sink interface {
	NoteOn(note, velocity uint8)
	NoteOff(note uint8)
}

func send(s Sink, e Event) {
	switch e.Kind {
	case NoteOn:
		s.NoteOn(e.Pitch.Note, e.Velocity)
	case NoteOff:
		s.NoteOff(e.Pitch.Note)
	}
}
