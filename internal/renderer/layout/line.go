// Package layout provides line layout computation for the renderer.
//
// Engine lays a buffer out on a monospace cell grid. Glyphs are grapheme
// clusters, each line break is a zero-width glyph owned by the last fragment
// of its line, and lines longer than the wrap width are split into several
// fragments (rows). Engine satisfies lineindex.Layout.
package layout

import (
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/dshills/lineruler/internal/renderer/core"
	"github.com/dshills/lineruler/internal/renderer/lineindex"
)

var _ lineindex.Layout = (*Engine)(nil)

// wordWrapWindow is how far back from the wrap column a space is searched.
const wordWrapWindow = 20

type glyph struct {
	chars core.Range
	col   int // Column within its fragment
	width int // Cells
	tab   bool
}

type fragment struct {
	glyphs core.Range
	width  int
}

// Engine computes fragment layout for a whole buffer.
type Engine struct {
	text       string
	tabs       *TabExpander
	wrapWidth  int  // 0 = no wrap
	wrapAtWord bool // Try to wrap at word boundaries

	glyphs    []glyph
	frags     []fragment
	glyphFrag []int // glyph index -> fragment index

	top  int
	rows int
}

// NewEngine creates a layout engine with the given tab width.
func NewEngine(tabWidth int) *Engine {
	e := &Engine{
		tabs:       NewTabExpander(tabWidth),
		wrapAtWord: true,
		rows:       -1,
	}
	e.relayout()
	return e
}

// TabWidth returns the current tab width.
func (e *Engine) TabWidth() int {
	return e.tabs.TabWidth()
}

// SetTabWidth sets the tab width and lays the text out again.
func (e *Engine) SetTabWidth(width int) {
	e.tabs.SetTabWidth(width)
	e.relayout()
}

// WrapWidth returns the current wrap width (0 = no wrap).
func (e *Engine) WrapWidth() int {
	return e.wrapWidth
}

// SetWrap configures wrapping and lays the text out again.
// width of 0 disables wrapping.
func (e *Engine) SetWrap(width int, atWord bool) {
	if width < 0 {
		width = 0
	}
	e.wrapWidth = width
	e.wrapAtWord = atWord
	e.relayout()
}

// Text returns the laid-out text.
func (e *Engine) Text() string {
	return e.text
}

// SetText replaces the text and lays it out.
func (e *Engine) SetText(text string) {
	e.text = text
	e.relayout()
}

// SetViewport sets the first visible row and the number of visible rows.
// A negative row count shows everything from top.
func (e *Engine) SetViewport(top, rows int) {
	if top < 0 {
		top = 0
	}
	e.top = top
	e.rows = rows
}

// Viewport returns the first visible row and the visible row count.
func (e *Engine) Viewport() (top, rows int) {
	return e.top, e.rows
}

// FragmentCount returns the number of laid-out fragments, not counting the
// extra trailing fragment.
func (e *Engine) FragmentCount() int {
	return len(e.frags)
}

// RowCount returns the number of rows including the extra trailing one.
func (e *Engine) RowCount() int {
	if e.hasExtra() {
		return len(e.frags) + 1
	}
	return len(e.frags)
}

// GlyphCount returns the number of glyphs.
func (e *Engine) GlyphCount() int {
	return len(e.glyphs)
}

// RowText returns the printable content of a row with tabs expanded to
// spaces and the line break removed.
func (e *Engine) RowText(row int) string {
	if row < 0 || row >= len(e.frags) {
		return ""
	}
	var b strings.Builder
	f := e.frags[row]
	for g := f.glyphs.Start; g < f.glyphs.End; g++ {
		gl := e.glyphs[g]
		switch {
		case gl.tab:
			b.WriteString(strings.Repeat(" ", gl.width))
		case gl.width == 0 && isLineControl(e.text[gl.chars.Start]):
		default:
			b.WriteString(e.text[gl.chars.Start:gl.chars.End])
		}
	}
	return b.String()
}

// VisibleGlyphRange returns the glyphs of the rows inside the viewport.
func (e *Engine) VisibleGlyphRange() core.Range {
	n := len(e.glyphs)
	if e.top >= len(e.frags) {
		return core.Range{Start: n, End: n}
	}
	if e.rows == 0 {
		start := e.frags[e.top].glyphs.Start
		return core.Range{Start: start, End: start}
	}
	last := len(e.frags) - 1
	if e.rows > 0 && e.top+e.rows-1 < last {
		last = e.top + e.rows - 1
	}
	return core.Range{Start: e.frags[e.top].glyphs.Start, End: e.frags[last].glyphs.End}
}

// VisibleRect returns the viewport rows in document coordinates. A negative
// row count extends it to the last row, the extra one included.
func (e *Engine) VisibleRect() core.Rect {
	rows := e.rows
	if rows < 0 {
		rows = e.RowCount() - e.top
		if rows < 0 {
			rows = 0
		}
	}
	return core.RectFromSize(0, float64(e.top), float64(e.wrapWidth), float64(rows))
}

// CharacterIndex returns the first byte of glyph.
func (e *Engine) CharacterIndex(glyph int) int {
	if glyph < 0 {
		return 0
	}
	if glyph >= len(e.glyphs) {
		return len(e.text)
	}
	return e.glyphs[glyph].chars.Start
}

// LineFragmentRect returns the row rectangle containing glyph, in document
// coordinates (one unit per cell and per row), and its glyph range.
func (e *Engine) LineFragmentRect(glyph int) (core.Rect, core.Range) {
	if glyph < 0 || glyph >= len(e.glyphs) {
		return core.Rect{}, core.Range{Start: glyph, End: glyph}
	}
	row := e.glyphFrag[glyph]
	f := e.frags[row]
	return core.RectFromSize(0, float64(row), float64(f.width), 1), f.glyphs
}

// GlyphRange returns the glyphs covering a character range.
func (e *Engine) GlyphRange(chars core.Range) core.Range {
	if chars.Start < 0 {
		chars.Start = 0
	}
	if chars.End > len(e.text) {
		chars.End = len(e.text)
	}
	start := sort.Search(len(e.glyphs), func(i int) bool {
		return e.glyphs[i].chars.End > chars.Start
	})
	if chars.End <= chars.Start {
		return core.Range{Start: start, End: start}
	}
	end := sort.Search(len(e.glyphs), func(i int) bool {
		return e.glyphs[i].chars.Start >= chars.End
	})
	return core.Range{Start: start, End: end}
}

// ExtraLineFragmentRect returns the empty row after a trailing line break.
func (e *Engine) ExtraLineFragmentRect() (core.Rect, bool) {
	if !e.hasExtra() {
		return core.Rect{}, false
	}
	return core.RectFromSize(0, float64(len(e.frags)), 0, 1), true
}

// BufferLineRange returns the bytes of the line containing char, including
// its trailing '\n'.
func (e *Engine) BufferLineRange(char int) core.Range {
	return LineRange(e.text, char)
}

// LineRange returns the bytes of the line of text containing char,
// including its trailing '\n'.
func LineRange(text string, char int) core.Range {
	if char < 0 {
		char = 0
	}
	if char > len(text) {
		char = len(text)
	}
	start := strings.LastIndexByte(text[:char], '\n') + 1
	end := len(text)
	if i := strings.IndexByte(text[char:], '\n'); i >= 0 {
		end = char + i + 1
	}
	return core.Range{Start: start, End: end}
}

func isLineControl(c byte) bool {
	return c == '\n' || c == '\r'
}

func (e *Engine) hasExtra() bool {
	return e.text == "" || strings.HasSuffix(e.text, "\n")
}

// relayout rebuilds glyphs and fragments for the whole text.
func (e *Engine) relayout() {
	e.glyphs = e.glyphs[:0]
	e.frags = e.frags[:0]

	for start := 0; start < len(e.text); {
		r := LineRange(e.text, start)
		e.layoutLine(r)
		start = r.End
	}

	e.glyphFrag = e.glyphFrag[:0]
	for i, f := range e.frags {
		for g := f.glyphs.Start; g < f.glyphs.End; g++ {
			e.glyphFrag = append(e.glyphFrag, i)
		}
	}
}

// layoutLine lays out one buffer line (including its '\n', if any).
func (e *Engine) layoutLine(line core.Range) {
	content := e.text[line.Start:line.End]
	hasNewline := strings.HasSuffix(content, "\n")
	if hasNewline {
		content = content[:len(content)-1]
	}

	fragStart := len(e.glyphs)
	col := 0
	lastBreak := -1 // Glyph index just after the last space in this fragment

	gr := uniseg.NewGraphemes(content)
	for gr.Next() {
		s, end := gr.Positions()
		cluster := gr.Str()
		isTab := cluster == "\t"

		width := runewidth.StringWidth(cluster)
		if isTab {
			width = e.tabs.TabStopOffset(col)
		}

		for e.wrapWidth > 0 && col > 0 && col+width > e.wrapWidth {
			breakAt := len(e.glyphs)
			if e.wrapAtWord && lastBreak > fragStart && lastBreak < breakAt &&
				col-e.glyphs[lastBreak].col <= wordWrapWindow {
				breakAt = lastBreak
			}
			e.closeFragment(fragStart, breakAt)
			fragStart = breakAt
			col = e.reflow(fragStart)
			lastBreak = -1
			if isTab {
				width = e.tabs.TabStopOffset(col)
			}
		}

		e.glyphs = append(e.glyphs, glyph{
			chars: core.Range{Start: line.Start + s, End: line.Start + end},
			col:   col,
			width: width,
			tab:   isTab,
		})
		col += width
		if cluster == " " || isTab {
			lastBreak = len(e.glyphs)
		}
	}

	if hasNewline {
		nl := line.End - 1
		e.glyphs = append(e.glyphs, glyph{
			chars: core.Range{Start: nl, End: nl + 1},
			col:   col,
		})
	}
	e.closeFragment(fragStart, len(e.glyphs))
}

// reflow recomputes columns for glyphs moved to a new fragment starting at
// glyph index from and returns the column after the last one.
func (e *Engine) reflow(from int) int {
	col := 0
	for i := from; i < len(e.glyphs); i++ {
		g := &e.glyphs[i]
		if g.tab {
			g.width = e.tabs.TabStopOffset(col)
		}
		g.col = col
		col += g.width
	}
	return col
}

func (e *Engine) closeFragment(start, end int) {
	width := 0
	for g := start; g < end; g++ {
		width += e.glyphs[g].width
	}
	e.frags = append(e.frags, fragment{
		glyphs: core.Range{Start: start, End: end},
		width:  width,
	})
}
