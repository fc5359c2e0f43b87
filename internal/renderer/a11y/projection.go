// Package a11y mirrors the ruler's line fragments as accessibility records.
//
// The projection is rebuilt lazily: drawing or any other invalidation marks
// it dirty, and the next query re-runs a full enumeration. Records live in
// an arena of reusable slots; a rebuild overwrites slots in place and a slot
// keeps its ID across rebuilds so assistive clients can track elements.
package a11y

import (
	"errors"

	"github.com/google/uuid"

	"github.com/dshills/lineruler/internal/renderer/core"
	"github.com/dshills/lineruler/internal/renderer/lineindex"
)

// Errors returned by projection actions.
var (
	ErrNoRecord   = errors.New("no accessibility record at index")
	ErrNoScroller = errors.New("projection has no scroller")
)

// Record describes one line fragment to assistive technology.
type Record struct {
	ID         uuid.UUID
	Index      int
	Text       string
	Rect       core.Rect
	Mark       lineindex.Mark
	Visibility lineindex.Visibility
}

// Source runs a full enumeration.
type Source func(visit lineindex.Visitor) (int, error)

// Scroller scrolls the host view.
type Scroller interface {
	ScrollToVisible(rect core.Rect)
}

// Config wires a projection to its ruler.
type Config struct {
	// Source enumerates every fragment of the buffer.
	Source Source

	// Label produces the spoken text of a mark.
	Label func(lineindex.Mark) string

	// Width returns the gutter width; records span the whole gutter.
	Width func() float64

	// Scroller performs the scroll-to-visible action. Optional.
	Scroller Scroller

	// OnRebuild receives the line count of each successful rebuild. Optional.
	OnRebuild func(lineCount int)
}

// Projection is the arena of accessibility records.
type Projection struct {
	cfg     Config
	slots   []Record
	live    int
	dirty   bool
	lastErr error
}

// New creates a dirty, empty projection.
func New(cfg Config) *Projection {
	if cfg.Label == nil {
		cfg.Label = func(m lineindex.Mark) string { return m.String() }
	}
	if cfg.Width == nil {
		cfg.Width = func() float64 { return 0 }
	}
	return &Projection{cfg: cfg, dirty: true}
}

// MarkDirty invalidates the records; the next query rebuilds them.
func (p *Projection) MarkDirty() {
	p.dirty = true
}

// Dirty reports whether a rebuild is pending.
func (p *Projection) Dirty() bool {
	return p.dirty
}

// LastError returns the error of the last failed rebuild, or nil.
func (p *Projection) LastError() error {
	return p.lastErr
}

// Capacity returns the number of allocated slots.
func (p *Projection) Capacity() int {
	return len(p.slots)
}

// Rebuild re-runs the enumeration and refills the arena. On failure the
// projection is left empty and dirty.
func (p *Projection) Rebuild() (int, error) {
	if p.cfg.Source == nil {
		p.fail(lineindex.ErrUnsupportedHost)
		return 0, lineindex.ErrUnsupportedHost
	}

	p.live = 0
	width := p.cfg.Width()
	count, err := p.cfg.Source(func(f lineindex.Fragment) {
		r := p.acquire()
		r.Text = p.cfg.Label(f.Mark)
		r.Rect = f.Rect.WithWidth(width)
		r.Mark = f.Mark
		r.Visibility = f.Visibility
	})
	if err != nil {
		p.fail(err)
		return 0, err
	}

	for i := p.live; i < len(p.slots); i++ {
		p.Reset(i)
	}
	p.dirty = false
	p.lastErr = nil
	if p.cfg.OnRebuild != nil {
		p.cfg.OnRebuild(count)
	}
	return count, nil
}

func (p *Projection) fail(err error) {
	for i := 0; i < len(p.slots); i++ {
		p.Reset(i)
	}
	p.live = 0
	p.dirty = true
	p.lastErr = err
}

// acquire returns the next slot, reusing a previous record when one exists.
func (p *Projection) acquire() *Record {
	if p.live == len(p.slots) {
		p.slots = append(p.slots, Record{ID: uuid.New()})
	} else {
		p.Reset(p.live)
	}
	r := &p.slots[p.live]
	r.Index = p.live
	p.live++
	return r
}

// Reset clears a slot for reuse. The slot keeps its ID.
func (p *Projection) Reset(slot int) {
	if slot < 0 || slot >= len(p.slots) {
		return
	}
	p.slots[slot] = Record{ID: p.slots[slot].ID, Index: -1}
}

func (p *Projection) ensure() {
	if p.dirty {
		_, _ = p.Rebuild()
	}
}

// Count returns the number of records.
func (p *Projection) Count() int {
	p.ensure()
	return p.live
}

// At returns the record at index.
func (p *Projection) At(index int) (Record, bool) {
	p.ensure()
	if index < 0 || index >= p.live {
		return Record{}, false
	}
	return p.slots[index], true
}

// Records returns a copy of all records in emission order.
func (p *Projection) Records() []Record {
	return p.Range(0, -1)
}

// Range returns up to maxCount records starting at index. A negative
// maxCount means no limit. Out-of-range requests return an empty slice.
func (p *Projection) Range(index, maxCount int) []Record {
	p.ensure()
	if index < 0 || index >= p.live || maxCount == 0 {
		return []Record{}
	}
	end := p.live
	if maxCount > 0 && maxCount < end-index {
		end = index + maxCount
	}
	out := make([]Record, end-index)
	copy(out, p.slots[index:end])
	return out
}

// Visible returns the records of fragments inside the visible window.
func (p *Projection) Visible() []Record {
	p.ensure()
	var out []Record
	for _, r := range p.slots[:p.live] {
		if r.Visibility == lineindex.Visible {
			out = append(out, r)
		}
	}
	return out
}

// IndexOf returns the index of the record with id, or -1.
func (p *Projection) IndexOf(id uuid.UUID) int {
	p.ensure()
	for i, r := range p.slots[:p.live] {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// HitTest returns the record whose rectangle contains pt.
func (p *Projection) HitTest(pt core.Point) (Record, bool) {
	p.ensure()
	for _, r := range p.slots[:p.live] {
		if r.Rect.Contains(pt) {
			return r, true
		}
	}
	return Record{}, false
}

// ScrollToVisible performs a record's scroll action: the host scrolls the
// record's rectangle into view and the projection becomes dirty.
func (p *Projection) ScrollToVisible(index int) error {
	r, ok := p.At(index)
	if !ok {
		return ErrNoRecord
	}
	if p.cfg.Scroller == nil {
		return ErrNoScroller
	}
	p.cfg.Scroller.ScrollToVisible(r.Rect)
	p.dirty = true
	return nil
}
