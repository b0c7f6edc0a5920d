package input

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"go-jammer/jammer"
	"go-jammer/layout"
)

// DefaultReleaseAfter is longer than the usual auto-repeat delay (~500ms),
// so a held key keeps refreshing its timer before it fires.
const DefaultReleaseAfter = 600 * time.Millisecond

// ReleaseMsg fires when a terminal key has been quiet for the release delay.
type ReleaseMsg struct {
	Symbol layout.Symbol
	Token  uint64
}

type heldKey struct {
	key   jammer.RawKey
	token uint64
}

// Hold infers key releases for terminal input, which only reports presses.
// A key counts as held while presses (auto-repeat) keep arriving and is
// released once none arrived for the release delay. Every press replaces the
// key's token, so only the timer of the latest press can release it.
//
// Hold is meant to be used from a bubbletea Update loop and is not safe for
// concurrent use.
type Hold struct {
	after time.Duration
	keys  map[layout.Symbol]heldKey
	next  uint64
}

// NewHold creates a Hold. Non-positive delays use DefaultReleaseAfter.
func NewHold(after time.Duration) *Hold {
	if after <= 0 {
		after = DefaultReleaseAfter
	}
	return &Hold{
		after: after,
		keys:  make(map[layout.Symbol]heldKey),
	}
}

// After returns the release delay
func (h *Hold) After() time.Duration {
	return h.after
}

// Press records a press or repeat of k. first is true when the key was not
// already held. The returned command delivers the ReleaseMsg. Keys that do
// not normalize to a symbol are ignored.
func (h *Hold) Press(k jammer.RawKey) (first bool, cmd tea.Cmd) {
	sym, ok := jammer.Normalize(k)
	if !ok {
		return false, nil
	}

	_, held := h.keys[sym]
	h.next++
	token := h.next
	h.keys[sym] = heldKey{key: k, token: token}

	return !held, tea.Tick(h.after, func(time.Time) tea.Msg {
		return ReleaseMsg{Symbol: sym, Token: token}
	})
}

// Expire handles a ReleaseMsg. It returns the key to release when the
// message belongs to the latest press of a still held key.
func (h *Hold) Expire(msg ReleaseMsg) (jammer.RawKey, bool) {
	hk, ok := h.keys[msg.Symbol]
	if !ok || hk.token != msg.Token {
		return jammer.RawKey{}, false
	}
	delete(h.keys, msg.Symbol)
	return hk.key, true
}

// IsHeld reports whether the symbol is held
func (h *Hold) IsHeld(sym layout.Symbol) bool {
	_, ok := h.keys[sym]
	return ok
}

// Len returns the number of held keys
func (h *Hold) Len() int {
	return len(h.keys)
}

// Reset forgets every held key. Pending timers become stale.
func (h *Hold) Reset() {
	clear(h.keys)
}
