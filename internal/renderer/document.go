package renderer

import (
	"github.com/dshills/lineruler/internal/config"
	"github.com/dshills/lineruler/internal/renderer/core"
	"github.com/dshills/lineruler/internal/renderer/layout"
	"github.com/dshills/lineruler/internal/renderer/lineindex"
)

var _ lineindex.Host = (*Document)(nil)

// Document is an in-memory text buffer laid out by a layout.Engine. It is
// the host a Ruler numbers.
//
// Document is not safe for concurrent use. Hosts that mutate it from
// several goroutines serialize access themselves and report every change
// to the ruler with Invalidate.
type Document struct {
	engine *layout.Engine
	cfg    config.LayoutConfig
	width  int
}

// NewDocument creates a document laid out with cfg. The view width starts
// at zero (no wrapping) until SetViewWidth is called.
func NewDocument(text string, cfg config.LayoutConfig) *Document {
	d := &Document{
		engine: layout.NewEngine(cfg.TabWidth),
		cfg:    cfg,
	}
	d.applyWrap()
	d.engine.SetText(text)
	return d
}

// Text returns the buffer content.
func (d *Document) Text() string {
	return d.engine.Text()
}

// SetText replaces the buffer content.
func (d *Document) SetText(text string) {
	d.engine.SetText(text)
	d.clampTop()
}

// LayoutProvider returns the layout engine.
func (d *Document) LayoutProvider() lineindex.Layout {
	return d.engine
}

// Engine returns the layout engine.
func (d *Document) Engine() *layout.Engine {
	return d.engine
}

// SetViewWidth sets the number of cells available to text and re-wraps.
func (d *Document) SetViewWidth(width int) {
	if width < 0 {
		width = 0
	}
	if width == d.width {
		return
	}
	d.width = width
	d.applyWrap()
	d.clampTop()
}

// WrapWidth returns the effective wrap column (0 = no wrap).
func (d *Document) WrapWidth() int {
	return d.engine.WrapWidth()
}

func (d *Document) applyWrap() {
	wrap := 0
	switch {
	case d.cfg.NoWrap:
	case d.cfg.WrapWidth > 0 && (d.width == 0 || d.cfg.WrapWidth < d.width):
		wrap = d.cfg.WrapWidth
	default:
		wrap = d.width
	}
	d.engine.SetWrap(wrap, d.cfg.WrapAtWord)
}

// SetViewport shows rows rows starting at top. A negative row count shows
// every row.
func (d *Document) SetViewport(top, rows int) {
	d.engine.SetViewport(top, rows)
	d.clampTop()
}

// Viewport returns the first visible row and the visible row count.
func (d *Document) Viewport() (top, rows int) {
	return d.engine.Viewport()
}

// RowCount returns the number of rows, including the empty row after a
// trailing line break.
func (d *Document) RowCount() int {
	return d.engine.RowCount()
}

// RowText returns the printable text of a row.
func (d *Document) RowText(row int) string {
	return d.engine.RowText(row)
}

// Scroll moves the viewport by delta rows and reports whether it moved.
func (d *Document) Scroll(delta int) bool {
	top, rows := d.engine.Viewport()
	next := top + delta
	if maxTop := d.maxTop(); next > maxTop {
		next = maxTop
	}
	if next < 0 {
		next = 0
	}
	if next == top {
		return false
	}
	d.engine.SetViewport(next, rows)
	return true
}

// ScrollToVisible scrolls the minimum distance that brings rect's row into
// the viewport.
func (d *Document) ScrollToVisible(rect core.Rect) {
	top, rows := d.engine.Viewport()
	if rows < 0 {
		return
	}
	row := int(rect.Y)
	switch {
	case row < top:
		top = row
	case rows > 0 && row >= top+rows:
		top = row - rows + 1
	default:
		return
	}
	d.engine.SetViewport(top, rows)
	d.clampTop()
}

func (d *Document) maxTop() int {
	_, rows := d.engine.Viewport()
	maxTop := d.engine.RowCount() - 1
	if rows > 0 {
		maxTop = d.engine.RowCount() - rows
	}
	if maxTop < 0 {
		maxTop = 0
	}
	return maxTop
}

func (d *Document) clampTop() {
	top, rows := d.engine.Viewport()
	if maxTop := d.maxTop(); top > maxTop {
		d.engine.SetViewport(maxTop, rows)
	}
}
