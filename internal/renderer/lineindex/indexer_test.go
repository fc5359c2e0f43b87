package lineindex

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func collect(t *testing.T, ix *Indexer, mode Mode) ([]Fragment, int) {
	t.Helper()
	var frags []Fragment
	count, err := ix.Enumerate(mode, func(f Fragment) {
		frags = append(frags, f)
	})
	if err != nil {
		t.Fatalf("Enumerate(%v) error: %v", mode, err)
	}
	return frags, count
}

func marksOf(frags []Fragment) []Mark {
	marks := make([]Mark, len(frags))
	for i, f := range frags {
		marks[i] = f.Mark
	}
	return marks
}

func TestEnumerateFull(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		width     int
		wantMarks []Mark
		wantCount int
	}{
		{
			name:      "empty buffer has one line",
			text:      "",
			wantMarks: []Mark{LineMark(1)},
			wantCount: 1,
		},
		{
			name:      "no trailing newline",
			text:      "a\nb\nc",
			wantMarks: []Mark{LineMark(1), LineMark(2), LineMark(3)},
			wantCount: 3,
		},
		{
			name:      "trailing newline adds extra fragment",
			text:      "a\nb\nc\n",
			wantMarks: []Mark{LineMark(1), LineMark(2), LineMark(3), LineMark(4)},
			wantCount: 4,
		},
		{
			name:      "wrapped line then extra fragment",
			text:      "aaaa\n",
			width:     2,
			wantMarks: []Mark{LineMark(1), ContinuationMark(1, 1), LineMark(2)},
			wantCount: 2,
		},
		{
			name:  "line wrapping into four fragments",
			text:  "abcdefg",
			width: 2,
			wantMarks: []Mark{
				LineMark(1),
				ContinuationMark(1, 1),
				ContinuationMark(1, 2),
				ContinuationMark(1, 3),
			},
			wantCount: 1,
		},
		{
			name:  "continuations restart per line",
			text:  "abc\n\ndefgh",
			width: 2,
			wantMarks: []Mark{
				LineMark(1),
				ContinuationMark(1, 1),
				LineMark(2),
				LineMark(3),
				ContinuationMark(3, 1),
				ContinuationMark(3, 2),
			},
			wantCount: 3,
		},
		{
			name:      "consecutive blank lines",
			text:      "\n\n\n",
			wantMarks: []Mark{LineMark(1), LineMark(2), LineMark(3), LineMark(4)},
			wantCount: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, _ := newFakeHost(tt.text, tt.width)
			frags, count := collect(t, New(host), Full)

			if diff := cmp.Diff(tt.wantMarks, marksOf(frags)); diff != "" {
				t.Errorf("marks mismatch (-want +got):\n%s", diff)
			}
			if count != tt.wantCount {
				t.Errorf("count = %d, want %d", count, tt.wantCount)
			}
		})
	}
}

func TestEnumerateFullNoWrapEmitsOneLinePerBufferLine(t *testing.T) {
	text := "one\ntwo\nthree\nfour\nfive\nsix\nseven"
	host, _ := newFakeHost(text, 0)
	frags, count := collect(t, New(host), Full)

	if len(frags) != 7 || count != 7 {
		t.Fatalf("got %d fragments, count %d; want 7, 7", len(frags), count)
	}
	for i, f := range frags {
		if f.Mark != LineMark(i+1) {
			t.Errorf("fragment %d mark = %v, want %v", i, f.Mark, LineMark(i+1))
		}
		if f.Rect.Y != float64(i) {
			t.Errorf("fragment %d rect.Y = %g, want %d", i, f.Rect.Y, i)
		}
	}
}

func TestEnumerateLineNumbersContiguous(t *testing.T) {
	text := "short\na much longer line that wraps\n\nx\nanother long line here\n"
	host, _ := newFakeHost(text, 5)
	frags, _ := collect(t, New(host), Full)

	prevLine, prevCont := 0, 0
	for _, f := range frags {
		switch f.Mark.Kind {
		case KindLine:
			if f.Mark.Line != prevLine+1 {
				t.Fatalf("line %d follows line %d", f.Mark.Line, prevLine)
			}
			prevLine, prevCont = f.Mark.Line, 0
		case KindContinuation:
			if f.Mark.Line != prevLine || f.Mark.Continuation != prevCont+1 {
				t.Fatalf("%v follows line %d continuation %d", f.Mark, prevLine, prevCont)
			}
			prevCont = f.Mark.Continuation
		}
	}
}

func TestEnumerateFullVisibility(t *testing.T) {
	host, layout := newFakeHost("l1\nl2\nl3\nl4\nl5", 0)
	layout.setViewport(1, 2)

	frags, _ := collect(t, New(host), Full)
	want := []Visibility{Hidden, Visible, Visible, Hidden, Hidden}
	for i, f := range frags {
		if f.Visibility != want[i] {
			t.Errorf("fragment %d (%v) visibility = %v, want %v", i, f.Mark, f.Visibility, want[i])
		}
	}
}

func TestEnumerateVisibleOnly(t *testing.T) {
	host, layout := newFakeHost("l1\nl2\nl3\nl4\nl5", 0)
	layout.setViewport(2, 2)

	frags, count := collect(t, New(host), VisibleOnly)

	if diff := cmp.Diff([]Mark{LineMark(3), LineMark(4)}, marksOf(frags)); diff != "" {
		t.Errorf("marks mismatch (-want +got):\n%s", diff)
	}
	if count != 4 {
		t.Errorf("count = %d, want 4", count)
	}
	for _, f := range frags {
		if f.Visibility != Visible {
			t.Errorf("%v should be visible", f.Mark)
		}
	}
}

func TestEnumerateVisibleOnlyStartsInsideWrappedLine(t *testing.T) {
	// Fragments: [aa] [aa] [aa\n] [b]
	host, layout := newFakeHost("aaaaaa\nb", 2)
	layout.setViewport(1, 2)

	frags, count := collect(t, New(host), VisibleOnly)

	want := []Mark{ContinuationMark(1, 1), ContinuationMark(1, 2)}
	if diff := cmp.Diff(want, marksOf(frags)); diff != "" {
		t.Errorf("marks mismatch (-want +got):\n%s", diff)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestEnumerateVisibleOnlyStopsAtViewportEnd(t *testing.T) {
	// Line 1 wraps into four fragments; only the first two are visible.
	host, layout := newFakeHost("abcdefgh\nz", 2)
	layout.setViewport(0, 2)

	frags, _ := collect(t, New(host), VisibleOnly)

	want := []Mark{LineMark(1), ContinuationMark(1, 1)}
	if diff := cmp.Diff(want, marksOf(frags)); diff != "" {
		t.Errorf("marks mismatch (-want +got):\n%s", diff)
	}
}

func TestEnumerateVisibleOnlyExtraFragment(t *testing.T) {
	host, layout := newFakeHost("a\nb\n", 0)

	layout.setViewport(1, 5)
	frags, count := collect(t, New(host), VisibleOnly)
	if diff := cmp.Diff([]Mark{LineMark(2), LineMark(3)}, marksOf(frags)); diff != "" {
		t.Errorf("marks at end of buffer (-want +got):\n%s", diff)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}

	layout.setViewport(0, 1)
	frags, _ = collect(t, New(host), VisibleOnly)
	if diff := cmp.Diff([]Mark{LineMark(1)}, marksOf(frags)); diff != "" {
		t.Errorf("extra fragment should not be emitted off screen (-want +got):\n%s", diff)
	}
}

func TestEnumerateExtraFragmentBelowViewport(t *testing.T) {
	// The last text row fills the viewport; the extra row is just below it.
	host, layout := newFakeHost("a\nb\n", 0)
	layout.setViewport(0, 2)

	frags, _ := collect(t, New(host), VisibleOnly)
	if diff := cmp.Diff([]Mark{LineMark(1), LineMark(2)}, marksOf(frags)); diff != "" {
		t.Errorf("VisibleOnly marks (-want +got):\n%s", diff)
	}

	frags, count := collect(t, New(host), Full)
	want := []Visibility{Visible, Visible, Hidden}
	if len(frags) != len(want) {
		t.Fatalf("Full emitted %d fragments, want %d", len(frags), len(want))
	}
	for i, f := range frags {
		if f.Visibility != want[i] {
			t.Errorf("fragment %d (%v) visibility = %v, want %v", i, f.Mark, f.Visibility, want[i])
		}
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}

	layout.setViewport(0, 3)
	frags, _ = collect(t, New(host), VisibleOnly)
	if diff := cmp.Diff([]Mark{LineMark(1), LineMark(2), LineMark(3)}, marksOf(frags)); diff != "" {
		t.Errorf("extra row inside viewport (-want +got):\n%s", diff)
	}
}

func TestEnumerateIdempotent(t *testing.T) {
	host, layout := newFakeHost("alpha\nbeta gamma delta\n\nepsilon\n", 4)
	layout.setViewport(2, 4)
	ix := New(host)

	for _, mode := range []Mode{VisibleOnly, Full} {
		first, firstCount := collect(t, ix, mode)
		second, secondCount := collect(t, ix, mode)

		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("%v: second pass differs (-first +second):\n%s", mode, diff)
		}
		if firstCount != secondCount {
			t.Errorf("%v: count %d then %d", mode, firstCount, secondCount)
		}
	}
}

func TestEnumerateErrors(t *testing.T) {
	_, err := New(nil).Enumerate(Full, func(Fragment) {})
	if !errors.Is(err, ErrUnsupportedHost) {
		t.Errorf("nil host error = %v, want ErrUnsupportedHost", err)
	}

	host := &fakeHost{text: "abc"}
	_, err = New(host).Enumerate(VisibleOnly, func(Fragment) {})
	if !errors.Is(err, ErrNoLayoutEngine) {
		t.Errorf("missing layout error = %v, want ErrNoLayoutEngine", err)
	}
}

func TestEnumerateStuckLayoutTerminates(t *testing.T) {
	host := &fakeHost{text: "ab\ncd"}
	host.layout = stuckLayout{newFakeLayout(host.text, 0)}

	frags, count := collect(t, New(host), Full)
	if len(frags) != 2 || count != 2 {
		t.Errorf("got %d fragments, count %d; want 2, 2", len(frags), count)
	}
}

func TestSetHostAndInvalidate(t *testing.T) {
	ix := New(nil)
	host, _ := newFakeHost("x\ny", 0)
	ix.SetHost(host)

	if ix.Host() != Host(host) {
		t.Fatal("Host() did not return the attached host")
	}
	if _, count := collect(t, ix, Full); count != 2 {
		t.Errorf("count = %d, want 2", count)
	}

	// Mutating the buffer without changing its length is only safe after
	// Invalidate.
	host.text = "\n\nz"
	host.layout = newFakeLayout(host.text, 0)
	ix.Invalidate()
	if _, count := collect(t, ix, Full); count != 3 {
		t.Errorf("count after invalidate = %d, want 3", count)
	}
}

func TestMarkString(t *testing.T) {
	if s := LineMark(3).String(); s != "Line(3)" {
		t.Errorf("LineMark(3).String() = %q", s)
	}
	if s := ContinuationMark(3, 2).String(); s != "Continuation(3,2)" {
		t.Errorf("ContinuationMark(3, 2).String() = %q", s)
	}
	if !ContinuationMark(1, 1).IsContinuation() || LineMark(1).IsContinuation() {
		t.Error("IsContinuation mismatch")
	}
}
