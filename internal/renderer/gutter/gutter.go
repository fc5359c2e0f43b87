// Package gutter provides the line-number gutter policy for the ruler.
// The gutter is the area to the left of the text content that displays a
// label for every visual line fragment: the line number for the first
// fragment of a logical line and a continuation marker for wrapped rows.
package gutter

import (
	"sync"

	"github.com/mattn/go-runewidth"
)

// Config holds gutter configuration.
type Config struct {
	// DigitAdvance is the horizontal advance of one digit glyph in view
	// units. Terminal hosts use one cell.
	DigitAdvance float64

	// MinDigits is the minimum number of digit slots reserved.
	MinDigits int
}

// DefaultConfig returns the default gutter configuration.
func DefaultConfig() Config {
	return Config{
		DigitAdvance: float64(runewidth.RuneWidth('0')),
		MinDigits:    1,
	}
}

// WidthPolicy derives the gutter width from the logical line count:
// (digit count + 1) digit advances. The extra slot is the margin between
// the labels and the text.
type WidthPolicy struct {
	Advance   float64
	MinDigits int
}

// Width returns the gutter width for lineCount lines.
func (p WidthPolicy) Width(lineCount int) float64 {
	digits := countDigits(lineCount)
	if digits < p.MinDigits {
		digits = p.MinDigits
	}
	return float64(digits+1) * p.Advance
}

// Gutter tracks the logical line count and the width derived from it.
type Gutter struct {
	mu sync.RWMutex

	policy    WidthPolicy
	lineCount int
	width     float64
}

// New creates a gutter with the given configuration.
func New(config Config) *Gutter {
	policy := WidthPolicy{Advance: config.DigitAdvance, MinDigits: config.MinDigits}
	return &Gutter{
		policy: policy,
		width:  policy.Width(0),
	}
}

// Width returns the current gutter width.
func (g *Gutter) Width() float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.width
}

// Columns returns the width rounded up to whole terminal cells.
func (g *Gutter) Columns() int {
	w := g.Width()
	cols := int(w)
	if float64(cols) < w {
		cols++
	}
	return cols
}

// LineCount returns the last line count set.
func (g *Gutter) LineCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.lineCount
}

// SetLineCount updates the line count. The width is only recomputed when
// the count changes; the return value reports whether the width changed.
func (g *Gutter) SetLineCount(count int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if count == g.lineCount {
		return false
	}
	g.lineCount = count

	width := g.policy.Width(count)
	if width == g.width {
		return false
	}
	g.width = width
	return true
}

// Policy returns the width policy.
func (g *Gutter) Policy() WidthPolicy {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.policy
}

// SetPolicy replaces the width policy, e.g. after a font change, and
// reports whether the width changed.
func (g *Gutter) SetPolicy(policy WidthPolicy) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.policy = policy
	width := policy.Width(g.lineCount)
	changed := width != g.width
	g.width = width
	return changed
}

// CellStyle describes how to style a gutter cell.
type CellStyle uint8

const (
	StyleNormal CellStyle = iota
	StyleLineNumber
	StyleContinuation
)

// Cell represents a single gutter cell.
type Cell struct {
	Rune  rune
	Style CellStyle
}

// Cells lays a label out into cols terminal cells: right-aligned, with the
// last column left blank as a separator. Labels too long for the space keep
// their rightmost characters.
func Cells(label string, style CellStyle, cols int) []Cell {
	if cols <= 0 {
		return nil
	}

	cells := make([]Cell, cols)
	for i := range cells {
		cells[i] = Cell{Rune: ' ', Style: StyleNormal}
	}

	runes := []rune(label)
	col := cols - 2
	for i := len(runes) - 1; i >= 0 && col >= 0; i-- {
		w := runewidth.RuneWidth(runes[i])
		if w == 0 {
			continue
		}
		if w > col+1 {
			break
		}
		col -= w - 1
		cells[col] = Cell{Rune: runes[i], Style: style}
		for j := 1; j < w; j++ {
			cells[col+j] = Cell{Rune: 0, Style: style}
		}
		col--
	}
	return cells
}

// countDigits returns the number of digits needed to display a number.
func countDigits(n int) int {
	if n <= 0 {
		return 1
	}
	digits := 0
	for n > 0 {
		digits++
		n /= 10
	}
	return digits
}
