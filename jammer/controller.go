// Package jammer is the key-to-note engine: it resolves raw keys to pitches
// through a layout and a tuning, tracks which pitches are sounding, and
// sends note messages to a sink.
package jammer

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"go-jammer/layout"
	"go-jammer/tuning"
)

// ErrInvalidSelection is returned when a tuning or layout id is not known.
var ErrInvalidSelection = errors.New("invalid selection")

// Controller owns the session and forwards key and focus events to the
// tracker. Changing the tuning or layout never sends notes: held keys keep
// their old pitch until their next transition.
type Controller struct {
	tunings *tuning.Set
	layouts *layout.Set
	session Session
	tracker *Tracker
	log     *zap.Logger
}

// NewController creates a controller. The initial session is validated the
// same way as later selections.
func NewController(tunings *tuning.Set, layouts *layout.Set, sink Sink, opts ...Option) (*Controller, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if sink == nil {
		return nil, errors.New("nil sink")
	}

	c := &Controller{
		tunings: tunings,
		layouts: layouts,
		log:     o.Logger,
	}
	if err := c.checkTuning(o.Session.Tuning); err != nil {
		return nil, err
	}
	if err := c.checkLayout(o.Session.Layout); err != nil {
		return nil, err
	}
	c.session = o.Session
	c.tracker = NewTracker(NewResolver(tunings, layouts), sink, o.Logger)

	c.log.Info("session started",
		zap.String("tuning", string(c.session.Tuning)),
		zap.String("layout", string(c.session.Layout)),
	)
	return c, nil
}

// SetTuning selects a tuning. Sounding notes are left alone.
func (c *Controller) SetTuning(id tuning.ID) error {
	if err := c.checkTuning(id); err != nil {
		return err
	}
	c.session.Tuning = id
	c.log.Info("tuning changed", zap.String("tuning", string(id)))
	return nil
}

// SetLayout selects a keyboard layout. Sounding notes are left alone.
func (c *Controller) SetLayout(id layout.ID) error {
	if err := c.checkLayout(id); err != nil {
		return err
	}
	c.session.Layout = id
	c.log.Info("layout changed", zap.String("layout", string(id)))
	return nil
}

func (c *Controller) checkTuning(id tuning.ID) error {
	if _, err := c.tunings.Table(id); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSelection, err)
	}
	return nil
}

func (c *Controller) checkLayout(id layout.ID) error {
	if _, err := c.layouts.Map(id); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSelection, err)
	}
	return nil
}

// OnKeyDown handles a key press or auto-repeat
func (c *Controller) OnKeyDown(k RawKey) (Event, bool) {
	return c.tracker.KeyDown(k, c.session)
}

// OnKeyUp handles a key release
func (c *Controller) OnKeyUp(k RawKey) (Event, bool) {
	return c.tracker.KeyUp(k, c.session)
}

// OnFocusLost silences everything. Releases that happen while unfocused are
// never seen, so nothing may stay sounding.
func (c *Controller) OnFocusLost() []Event {
	c.log.Info("focus lost")
	return c.tracker.AllOff()
}

// OnFocusGained records that key events will arrive again.
func (c *Controller) OnFocusGained() {
	c.log.Info("focus gained")
}

// AllOff silences everything, keeping the session running.
func (c *Controller) AllOff() []Event {
	return c.tracker.AllOff()
}

// Shutdown silences everything before exit.
func (c *Controller) Shutdown() []Event {
	events := c.tracker.AllOff()
	c.log.Info("session stopped", zap.Int("released", len(events)))
	return events
}

// Session returns the current selection
func (c *Controller) Session() Session {
	return c.session
}

// Sounding returns the sounding pitches sorted by note
func (c *Controller) Sounding() []tuning.Pitch {
	return c.tracker.Sounding()
}

// IsSounding reports whether note is sounding
func (c *Controller) IsSounding(note uint8) bool {
	return c.tracker.IsSounding(note)
}

// Resolve returns the pitch k plays under the current selection without
// touching note state.
func (c *Controller) Resolve(k RawKey) (tuning.Pitch, bool) {
	return c.tracker.resolver.Resolve(k, c.session)
}

// ResolveSymbol is Resolve for a key symbol
func (c *Controller) ResolveSymbol(sym layout.Symbol) (tuning.Pitch, bool) {
	return c.tracker.resolver.ResolveSymbol(sym, c.session)
}

// Tunings returns the tuning tables
func (c *Controller) Tunings() *tuning.Set {
	return c.tunings
}

// Layouts returns the layout maps
func (c *Controller) Layouts() *layout.Set {
	return c.layouts
}
