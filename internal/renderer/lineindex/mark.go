package lineindex

import (
	"fmt"

	"github.com/dshills/lineruler/internal/renderer/core"
)

// Kind distinguishes the first fragment of a line from its continuations.
type Kind uint8

const (
	// KindLine marks the first visual fragment of a logical line.
	KindLine Kind = iota

	// KindContinuation marks a wrapped fragment after the first.
	KindContinuation
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindContinuation:
		return "continuation"
	default:
		return "unknown"
	}
}

// Mark labels one visual line fragment.
type Mark struct {
	Kind Kind

	// Line is the 1-based logical line number.
	Line int

	// Continuation is the 1-based index of a wrapped fragment within Line.
	// Zero for KindLine.
	Continuation int
}

// LineMark returns the mark for the first fragment of line n.
func LineMark(n int) Mark {
	return Mark{Kind: KindLine, Line: n}
}

// ContinuationMark returns the mark for the k-th continuation of line n.
func ContinuationMark(n, k int) Mark {
	return Mark{Kind: KindContinuation, Line: n, Continuation: k}
}

// IsContinuation returns true for wrapped fragments.
func (m Mark) IsContinuation() bool {
	return m.Kind == KindContinuation
}

// String returns a compact representation, e.g. "Line(3)" or "Continuation(3,1)".
func (m Mark) String() string {
	if m.Kind == KindContinuation {
		return fmt.Sprintf("Continuation(%d,%d)", m.Line, m.Continuation)
	}
	return fmt.Sprintf("Line(%d)", m.Line)
}

// Visibility reports whether a fragment lies inside the visible window.
type Visibility uint8

const (
	Visible Visibility = iota
	Hidden
)

// String returns the string representation of the visibility.
func (v Visibility) String() string {
	if v == Hidden {
		return "hidden"
	}
	return "visible"
}

// Mode selects how much of the buffer Enumerate walks.
type Mode uint8

const (
	// VisibleOnly enumerates the laid-out visible region. Used for drawing.
	VisibleOnly Mode = iota

	// Full enumerates the entire buffer. Used for the accessibility tree.
	Full
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	if m == Full {
		return "full"
	}
	return "visible"
}

// Fragment is one emitted visual line fragment.
type Fragment struct {
	Mark       Mark
	Visibility Visibility
	Rect       core.Rect
}

// Visitor receives fragments in top-to-bottom buffer order.
type Visitor func(Fragment)
