package lineindex

import "github.com/dshills/lineruler/internal/renderer/core"

// Layout is the capability a host text-rendering subsystem supplies.
// Character indexes are byte offsets into the buffer. Glyph indexes are
// opaque layout units; several characters may map to one glyph.
type Layout interface {
	// VisibleGlyphRange returns the glyphs laid out in the visible window.
	VisibleGlyphRange() core.Range

	// VisibleRect returns the visible region in the coordinate space of
	// the fragment rects. Its vertical extent decides whether the extra
	// fragment is on screen.
	VisibleRect() core.Rect

	// CharacterIndex returns the first character of glyph.
	CharacterIndex(glyph int) int

	// LineFragmentRect returns the rectangle of the fragment containing
	// glyph and the glyph range that fragment covers.
	LineFragmentRect(glyph int) (core.Rect, core.Range)

	// GlyphRange returns the glyphs covering a character range.
	GlyphRange(chars core.Range) core.Range

	// ExtraLineFragmentRect returns the empty trailing fragment that exists
	// only when the buffer ends with a line break.
	ExtraLineFragmentRect() (core.Rect, bool)

	// BufferLineRange returns the characters of the buffer line containing
	// char, including its terminating line break.
	BufferLineRange(char int) core.Range
}

// Host is the view a ruler is attached to.
type Host interface {
	// Text returns the full buffer content.
	Text() string

	// LayoutProvider returns the layout for the current text, or nil when
	// layout metadata is unavailable.
	LayoutProvider() Layout

	// ScrollToVisible scrolls the view so rect is on screen.
	ScrollToVisible(rect core.Rect)
}
