// Package core provides shared types for the renderer subsystem.
// This package breaks import cycles between the line indexer, the layout
// engine and the accessibility projection.
package core

import "fmt"

// Range is a half-open interval [Start, End) of character or glyph indexes.
type Range struct {
	Start int
	End   int
}

// NewRange creates a range from a location and length.
func NewRange(location, length int) Range {
	if length < 0 {
		length = 0
	}
	return Range{Start: location, End: location + length}
}

// Len returns the number of indexes covered by the range.
func (r Range) Len() int {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// IsEmpty returns true if the range covers nothing.
func (r Range) IsEmpty() bool {
	return r.Len() == 0
}

// Contains returns true if i lies within the range.
func (r Range) Contains(i int) bool {
	return i >= r.Start && i < r.End
}

// Intersects returns true if the two ranges share at least one index.
func (r Range) Intersects(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// String returns a human-readable representation.
func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// Point is a position in view coordinates.
type Point struct {
	X, Y float64
}

// Rect is a rectangle in view coordinates. The origin is the top-left corner.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// RectFromSize creates a rectangle from position and size.
func RectFromSize(x, y, width, height float64) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// MinY returns the top edge.
func (r Rect) MinY() float64 { return r.Y }

// MaxY returns the bottom edge (exclusive).
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// MaxX returns the right edge (exclusive).
func (r Rect) MaxX() float64 { return r.X + r.Width }

// OverlapsRows returns true if r and other share any vertical extent.
// Zero-width rectangles still overlap.
func (r Rect) OverlapsRows(other Rect) bool {
	return r.Y < other.MaxY() && other.Y < r.MaxY()
}

// IsEmpty returns true if the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains returns true if p is within the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.MaxX() &&
		p.Y >= r.Y && p.Y < r.MaxY()
}

// WithWidth returns a copy of the rectangle with a different width.
func (r Rect) WithWidth(width float64) Rect {
	r.Width = width
	return r
}

// Offset returns the rectangle translated by dx, dy.
func (r Rect) Offset(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// String returns a human-readable representation.
func (r Rect) String() string {
	return fmt.Sprintf("{%g,%g %gx%g}", r.X, r.Y, r.Width, r.Height)
}
