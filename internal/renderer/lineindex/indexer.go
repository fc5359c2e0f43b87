package lineindex

import (
	"github.com/dshills/lineruler/internal/renderer/core"
)

// Indexer enumerates the line fragments of a host view.
//
// Indexer is not safe for concurrent use; callers confine it to one
// goroutine or guard it with their own lock.
type Indexer struct {
	host    Host
	counter Counter
}

// New creates an indexer bound to host. host may be nil, in which case
// Enumerate reports ErrUnsupportedHost until SetHost is called.
func New(host Host) *Indexer {
	return &Indexer{host: host}
}

// Host returns the attached host.
func (ix *Indexer) Host() Host {
	return ix.host
}

// SetHost attaches the indexer to a different host.
func (ix *Indexer) SetHost(host Host) {
	ix.host = host
	ix.counter.Reset()
}

// Invalidate drops cached line-count state. Hosts call this after every
// buffer mutation.
func (ix *Indexer) Invalidate() {
	ix.counter.Reset()
}

// Enumerate calls visit for each visual line fragment in buffer order and
// returns the number of the last logical line it reached.
func (ix *Indexer) Enumerate(mode Mode, visit Visitor) (int, error) {
	if ix.host == nil {
		return 0, ErrUnsupportedHost
	}
	layout := ix.host.LayoutProvider()
	if layout == nil {
		return 0, ErrNoLayoutEngine
	}

	text := ix.host.Text()
	visible := layout.VisibleGlyphRange()
	total := layout.GlyphRange(core.Range{Start: 0, End: len(text)}).End

	start, end := 0, total
	if mode == VisibleOnly {
		// Begin at the start of the buffer line holding the first visible
		// glyph so continuation indexes count fragments scrolled off the top.
		first := layout.CharacterIndex(visible.Start)
		start = layout.GlyphRange(layout.BufferLineRange(first)).Start
		if start > visible.Start {
			start = visible.Start
		}
		end = visible.End
	}

	line := ix.counter.LineAt(text, layout.CharacterIndex(start))
	last := line - 1

	g := start
	for g < end {
		lineGlyphs := layout.GlyphRange(layout.BufferLineRange(layout.CharacterIndex(g)))
		if lineGlyphs.End <= g {
			break
		}

		k := 0
		for fg := g; fg < lineGlyphs.End; {
			rect, effective := layout.LineFragmentRect(fg)

			visibility := Hidden
			if effective.Intersects(visible) {
				visibility = Visible
			}

			if mode == VisibleOnly && effective.Start >= visible.End {
				break
			}
			if mode == Full || visibility == Visible {
				mark := LineMark(line)
				if k > 0 {
					mark = ContinuationMark(line, k)
				}
				visit(Fragment{Mark: mark, Visibility: visibility, Rect: rect})
			}

			k++
			if effective.End <= fg {
				break
			}
			fg = effective.End
		}

		last = line
		line++
		g = lineGlyphs.End
	}

	if g >= total {
		if rect, ok := layout.ExtraLineFragmentRect(); ok {
			visibility := Hidden
			if rect.OverlapsRows(layout.VisibleRect()) {
				visibility = Visible
			}
			if mode == Full || visibility == Visible {
				visit(Fragment{Mark: LineMark(line), Visibility: visibility, Rect: rect})
				last = line
			}
		}
	}

	return last, nil
}
