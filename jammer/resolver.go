package jammer

import (
	"go-jammer/layout"
	"go-jammer/tuning"
)

// Session is the current tuning and layout selection.
type Session struct {
	Tuning tuning.ID
	Layout layout.ID
}

// DefaultSession is the selection used when none is given
var DefaultSession = Session{Tuning: tuning.EDO12, Layout: layout.QWERTZ}

// Resolver turns raw keys into pitches through two lookups: symbol to grid
// position (layout), then grid position to pitch (tuning). Either can change
// without touching the other.
type Resolver struct {
	tunings *tuning.Set
	layouts *layout.Set
}

// NewResolver creates a resolver over immutable tables
func NewResolver(tunings *tuning.Set, layouts *layout.Set) *Resolver {
	return &Resolver{tunings: tunings, layouts: layouts}
}

// Resolve returns the pitch a raw key plays under the session's selection.
// Unknown keys, keys missing from the layout and positions outside the pitch
// grid all return false.
func (r *Resolver) Resolve(k RawKey, s Session) (tuning.Pitch, bool) {
	sym, ok := Normalize(k)
	if !ok {
		return tuning.Pitch{}, false
	}
	return r.ResolveSymbol(sym, s)
}

// ResolveSymbol is Resolve for an already normalized symbol.
func (r *Resolver) ResolveSymbol(sym layout.Symbol, s Session) (tuning.Pitch, bool) {
	pos, ok := r.layouts.PositionOf(s.Layout, sym)
	if !ok {
		return tuning.Pitch{}, false
	}
	return r.tunings.PitchAt(s.Tuning, pos.Row, pos.Col)
}
