package core

import "testing"

func TestRangeLen(t *testing.T) {
	tests := []struct {
		name string
		r    Range
		want int
	}{
		{"empty", Range{Start: 3, End: 3}, 0},
		{"inverted", Range{Start: 5, End: 2}, 0},
		{"normal", Range{Start: 2, End: 7}, 5},
		{"from location", NewRange(4, 3), 3},
		{"negative length", NewRange(4, -1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Len(); got != tt.want {
				t.Errorf("Len() = %d, want %d", got, tt.want)
			}
			if got := tt.r.IsEmpty(); got != (tt.want == 0) {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want == 0)
			}
		})
	}
}

func TestRangeContainsAndIntersects(t *testing.T) {
	r := Range{Start: 2, End: 5}

	if r.Contains(1) || !r.Contains(2) || !r.Contains(4) || r.Contains(5) {
		t.Error("Contains should treat the range as half-open")
	}
	if !r.Intersects(Range{Start: 4, End: 9}) {
		t.Error("expected overlap with [4,9)")
	}
	if r.Intersects(Range{Start: 5, End: 9}) {
		t.Error("adjacent ranges should not intersect")
	}
	if r.Intersects(Range{Start: 0, End: 2}) {
		t.Error("adjacent ranges should not intersect")
	}
}

func TestRectContains(t *testing.T) {
	r := RectFromSize(0, 2, 4, 1)

	tests := []struct {
		p    Point
		want bool
	}{
		{Point{X: 0, Y: 2}, true},
		{Point{X: 3.5, Y: 2.5}, true},
		{Point{X: 4, Y: 2}, false},
		{Point{X: 0, Y: 3}, false},
		{Point{X: -1, Y: 2}, false},
	}

	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestRectOverlapsRows(t *testing.T) {
	view := RectFromSize(0, 0, 10, 2)

	tests := []struct {
		r    Rect
		want bool
	}{
		{RectFromSize(0, 1, 0, 1), true},
		{RectFromSize(0, 2, 0, 1), false},
		{RectFromSize(5, -1, 3, 1), false},
		{RectFromSize(5, -0.5, 3, 1), true},
		{RectFromSize(0, 0, 0, 0), false},
	}

	for _, tt := range tests {
		if got := tt.r.OverlapsRows(view); got != tt.want {
			t.Errorf("%v.OverlapsRows(%v) = %v, want %v", tt.r, view, got, tt.want)
		}
	}
}

func TestRectHelpers(t *testing.T) {
	r := RectFromSize(1, 2, 3, 4)

	if r.MinY() != 2 || r.MaxY() != 6 || r.MaxX() != 4 {
		t.Errorf("unexpected edges for %v", r)
	}
	if w := r.WithWidth(9); w.Width != 9 || w.X != 1 {
		t.Errorf("WithWidth() = %v", w)
	}
	if o := r.Offset(1, -2); o.X != 2 || o.Y != 0 {
		t.Errorf("Offset() = %v", o)
	}
	if (Rect{Width: 0, Height: 1}).IsEmpty() != true {
		t.Error("zero-width rect should be empty")
	}
}
