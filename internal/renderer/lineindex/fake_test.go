package lineindex

import (
	"strings"

	"github.com/dshills/lineruler/internal/renderer/core"
)

// fakeLayout maps one byte to one glyph and wraps each buffer line into
// fragments of at most width bytes (the line break does not count).
type fakeLayout struct {
	text    string
	frags   []core.Range
	visible core.Range
	top     int
	rows    int // -1 = everything from top
}

func newFakeLayout(text string, width int) *fakeLayout {
	l := &fakeLayout{text: text, rows: -1}
	for start := 0; start < len(text); {
		end := len(text)
		if i := strings.IndexByte(text[start:], '\n'); i >= 0 {
			end = start + i + 1
		}
		content := end - start
		if text[end-1] == '\n' {
			content--
		}
		pos := start
		for width > 0 && content-(pos-start) > width {
			l.frags = append(l.frags, core.Range{Start: pos, End: pos + width})
			pos += width
		}
		l.frags = append(l.frags, core.Range{Start: pos, End: end})
		start = end
	}
	l.visible = core.Range{Start: 0, End: len(text)}
	return l
}

func (l *fakeLayout) setViewport(top, rows int) {
	l.top, l.rows = top, rows
	if top >= len(l.frags) {
		l.visible = core.Range{Start: len(l.text), End: len(l.text)}
		return
	}
	last := top + rows - 1
	if last >= len(l.frags) {
		last = len(l.frags) - 1
	}
	l.visible = core.Range{Start: l.frags[top].Start, End: l.frags[last].End}
}

func (l *fakeLayout) VisibleGlyphRange() core.Range { return l.visible }

func (l *fakeLayout) VisibleRect() core.Rect {
	rows := l.rows
	if rows < 0 {
		rows = len(l.frags) + 1 - l.top
	}
	return core.RectFromSize(0, float64(l.top), 0, float64(rows))
}

func (l *fakeLayout) CharacterIndex(glyph int) int { return glyph }

func (l *fakeLayout) LineFragmentRect(glyph int) (core.Rect, core.Range) {
	for row, f := range l.frags {
		if f.Contains(glyph) {
			return core.RectFromSize(0, float64(row), float64(f.Len()), 1), f
		}
	}
	return core.Rect{}, core.Range{Start: glyph, End: glyph}
}

func (l *fakeLayout) GlyphRange(chars core.Range) core.Range {
	if chars.End > len(l.text) {
		chars.End = len(l.text)
	}
	return chars
}

func (l *fakeLayout) ExtraLineFragmentRect() (core.Rect, bool) {
	if l.text == "" || strings.HasSuffix(l.text, "\n") {
		return core.RectFromSize(0, float64(len(l.frags)), 0, 1), true
	}
	return core.Rect{}, false
}

func (l *fakeLayout) BufferLineRange(char int) core.Range {
	if char > len(l.text) {
		char = len(l.text)
	}
	start := strings.LastIndexByte(l.text[:char], '\n') + 1
	end := len(l.text)
	if i := strings.IndexByte(l.text[char:], '\n'); i >= 0 {
		end = char + i + 1
	}
	return core.Range{Start: start, End: end}
}

type fakeHost struct {
	text     string
	layout   Layout
	scrolled []core.Rect
}

func newFakeHost(text string, width int) (*fakeHost, *fakeLayout) {
	l := newFakeLayout(text, width)
	return &fakeHost{text: text, layout: l}, l
}

func (h *fakeHost) Text() string                { return h.text }
func (h *fakeHost) LayoutProvider() Layout      { return h.layout }
func (h *fakeHost) ScrollToVisible(r core.Rect) { h.scrolled = append(h.scrolled, r) }

// stuckLayout never advances past the first glyph.
type stuckLayout struct {
	*fakeLayout
}

func (l stuckLayout) LineFragmentRect(glyph int) (core.Rect, core.Range) {
	return core.Rect{}, core.Range{Start: glyph, End: glyph}
}
