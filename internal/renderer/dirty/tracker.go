// Package dirty records why the ruler's cached state is stale.
//
// Hosts report every buffer mutation, resize and scroll through Mark; the
// ruler drains the pending reasons before its next draw or accessibility
// rebuild and decides what to recompute.
package dirty

import (
	"strings"
	"sync"
)

// Reason identifies what invalidated the ruler.
type Reason uint8

const (
	// ReasonTextChanged indicates the buffer was edited or replaced.
	ReasonTextChanged Reason = 1 << iota

	// ReasonResized indicates the view changed size, so wrapping may differ.
	ReasonResized

	// ReasonScrolled indicates the visible region moved.
	ReasonScrolled

	// ReasonFontChanged indicates glyph metrics changed.
	ReasonFontChanged

	// ReasonDrawn indicates a draw pass ran against a newer layout.
	ReasonDrawn
)

// String returns the string representation of the reason.
func (r Reason) String() string {
	switch r {
	case ReasonTextChanged:
		return "text"
	case ReasonResized:
		return "resize"
	case ReasonScrolled:
		return "scroll"
	case ReasonFontChanged:
		return "font"
	case ReasonDrawn:
		return "draw"
	default:
		return "unknown"
	}
}

// allReasons lists every reason in bit order.
var allReasons = []Reason{ReasonTextChanged, ReasonResized, ReasonScrolled, ReasonFontChanged, ReasonDrawn}

// Set is a bit set of reasons.
type Set uint8

// Has returns true if the set contains r.
func (s Set) Has(r Reason) bool {
	return s&Set(r) != 0
}

// IsEmpty returns true if no reason is set.
func (s Set) IsEmpty() bool {
	return s == 0
}

// AffectsLineCount returns true if the logical line count may have changed.
func (s Set) AffectsLineCount() bool {
	return s.Has(ReasonTextChanged)
}

// AffectsLayout returns true if fragment geometry may have changed.
func (s Set) AffectsLayout() bool {
	return s.Has(ReasonTextChanged) || s.Has(ReasonResized) || s.Has(ReasonFontChanged)
}

// String returns the reasons joined with '|', e.g. "text|resize".
func (s Set) String() string {
	if s == 0 {
		return "none"
	}
	var parts []string
	for _, r := range allReasons {
		if s.Has(r) {
			parts = append(parts, r.String())
		}
	}
	return strings.Join(parts, "|")
}

// Tracker accumulates invalidation reasons.
type Tracker struct {
	mu      sync.Mutex
	pending Set
	marks   uint64
}

// NewTracker creates a tracker. A new tracker starts with every reason
// pending so the first pass computes everything.
func NewTracker() *Tracker {
	var all Set
	for _, r := range allReasons {
		all |= Set(r)
	}
	return &Tracker{pending: all}
}

// Mark records a reason.
func (t *Tracker) Mark(r Reason) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.pending |= Set(r)
	t.marks++
}

// Pending returns the recorded reasons without clearing them.
func (t *Tracker) Pending() Set {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

// Has returns true if r is pending.
func (t *Tracker) Has(r Reason) bool {
	return t.Pending().Has(r)
}

// IsDirty returns true if any reason is pending.
func (t *Tracker) IsDirty() bool {
	return !t.Pending().IsEmpty()
}

// Take returns the pending reasons and clears them.
func (t *Tracker) Take() Set {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.pending
	t.pending = 0
	return s
}

// Clear drops all pending reasons.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = 0
}

// MarkCount returns how many times Mark has been called.
func (t *Tracker) MarkCount() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.marks
}
