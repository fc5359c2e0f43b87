package renderer

import (
	"sync"

	"github.com/dshills/lineruler/internal/config"
	"github.com/dshills/lineruler/internal/logging"
	"github.com/dshills/lineruler/internal/renderer/a11y"
	"github.com/dshills/lineruler/internal/renderer/core"
	"github.com/dshills/lineruler/internal/renderer/dirty"
	"github.com/dshills/lineruler/internal/renderer/gutter"
	"github.com/dshills/lineruler/internal/renderer/lineindex"
)

// DrawItem is one gutter label to paint.
type DrawItem struct {
	Label string
	Mark  lineindex.Mark
	Style gutter.CellStyle

	// Rect spans the full gutter width at the fragment's position.
	Rect core.Rect
}

// Option configures a Ruler.
type Option func(*Ruler)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(r *Ruler) {
		if l != nil {
			r.log = l
		}
	}
}

// WithFormatter replaces the formatter built from the configuration.
func WithFormatter(f *gutter.Formatter) Option {
	return func(r *Ruler) {
		if f != nil {
			r.formatter = f
		}
	}
}

// Ruler draws line numbers for a host view and keeps its gutter width and
// accessibility records current. All methods are safe for concurrent use.
type Ruler struct {
	mu sync.Mutex

	host       lineindex.Host
	indexer    *lineindex.Indexer
	gutter     *gutter.Gutter
	formatter  *gutter.Formatter
	projection *a11y.Projection
	tracker    *dirty.Tracker
	log        logging.Logger
}

// FormatsFromConfig converts ruler settings to label formats. Empty format
// strings select the built-in, translated defaults.
func FormatsFromConfig(cfg config.RulerConfig) gutter.Formats {
	f := gutter.DefaultFormats()
	if cfg.Locale != "" {
		f.Locale = cfg.Locale
	}
	if cfg.ContinuationMarker != "" {
		f.ContinuationMarker = cfg.ContinuationMarker
	}
	if cfg.LineFormat != "" {
		f.LineFormat = cfg.LineFormat
	}
	if cfg.ContinuationFormat != "" {
		f.ContinuationFormat = cfg.ContinuationFormat
	}
	f.GroupDigits = cfg.GroupDigits
	return f
}

// New creates a ruler attached to host.
func New(host lineindex.Host, cfg config.RulerConfig, opts ...Option) (*Ruler, error) {
	gcfg := gutter.DefaultConfig()
	if cfg.DigitAdvance > 0 {
		gcfg.DigitAdvance = cfg.DigitAdvance
	}
	if cfg.MinDigits > 0 {
		gcfg.MinDigits = cfg.MinDigits
	}

	r := &Ruler{
		host:    host,
		indexer: lineindex.New(host),
		gutter:  gutter.New(gcfg),
		tracker: dirty.NewTracker(),
		log:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.formatter == nil {
		f, err := gutter.NewFormatter(FormatsFromConfig(cfg))
		if err != nil {
			return nil, err
		}
		r.formatter = f
	}

	r.projection = a11y.New(a11y.Config{
		Source: func(visit lineindex.Visitor) (int, error) {
			return r.indexer.Enumerate(lineindex.Full, visit)
		},
		Label:     r.formatter.AccessibilityLabel,
		Width:     r.gutter.Width,
		Scroller:  host,
		OnRebuild: r.onRebuild,
	})

	return r, nil
}

// Invalidate records that the host changed. Hosts call it after every
// buffer mutation (ReasonTextChanged), resize, scroll and font change.
func (r *Ruler) Invalidate(reason dirty.Reason) {
	r.tracker.Mark(reason)
}

// sync applies pending invalidations. Callers hold r.mu.
func (r *Ruler) sync() {
	pending := r.tracker.Take()
	if pending.IsEmpty() {
		return
	}
	r.log.Debug("ruler invalidated", "reasons", pending.String())

	if pending.AffectsLineCount() {
		r.indexer.Invalidate()
		if r.host != nil {
			r.setLineCount(lineindex.CountLines(r.host.Text()))
		}
	}
	r.projection.MarkDirty()
}

func (r *Ruler) setLineCount(n int) {
	if r.gutter.SetLineCount(n) {
		r.log.Debug("gutter width changed", "lines", n, "width", r.gutter.Width())
	}
}

// onRebuild receives the line count of a full enumeration.
func (r *Ruler) onRebuild(lines int) {
	r.setLineCount(lines)
}

// Draw enumerates the visible fragments and calls draw for each one in
// top-to-bottom order. When the host cannot supply layout, Draw returns
// lineindex.ErrUnsupportedHost or lineindex.ErrNoLayoutEngine and the
// caller skips the frame.
func (r *Ruler) Draw(draw func(DrawItem)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sync()
	width := r.gutter.Width()
	last, err := r.indexer.Enumerate(lineindex.VisibleOnly, func(f lineindex.Fragment) {
		style := gutter.StyleLineNumber
		if f.Mark.IsContinuation() {
			style = gutter.StyleContinuation
		}
		draw(DrawItem{
			Label: r.formatter.DrawLabel(f.Mark),
			Mark:  f.Mark,
			Style: style,
			Rect:  f.Rect.WithWidth(width),
		})
	})
	if err != nil {
		r.log.Debug("ruler draw skipped", "error", err)
		return err
	}

	r.log.Debug("ruler drawn", "lastLine", last)
	r.tracker.Mark(dirty.ReasonDrawn)
	return nil
}

// Width returns the gutter width.
func (r *Ruler) Width() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sync()
	return r.gutter.Width()
}

// Columns returns the gutter width in whole terminal cells.
func (r *Ruler) Columns() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sync()
	return r.gutter.Columns()
}

// LineCount returns the logical line count the gutter is sized for.
func (r *Ruler) LineCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sync()
	return r.gutter.LineCount()
}

// SetDigitAdvance changes the width of one digit, as after a font change.
func (r *Ruler) SetDigitAdvance(advance float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	policy := gutter.WidthPolicy{Advance: advance, MinDigits: r.gutter.Policy().MinDigits}
	if r.gutter.SetPolicy(policy) {
		r.log.Debug("gutter width changed", "advance", advance, "width", r.gutter.Width())
	}
	r.tracker.Mark(dirty.ReasonFontChanged)
}

// Formatter returns the label formatter.
func (r *Ruler) Formatter() *gutter.Formatter {
	return r.formatter
}

// Accessibility returns the accessibility projection after applying pending
// invalidations. The projection itself is not synchronized; concurrent hosts
// use the Accessibility* methods instead.
func (r *Ruler) Accessibility() *a11y.Projection {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sync()
	return r.projection
}

// AccessibilityRecords returns a snapshot of all accessibility records.
func (r *Ruler) AccessibilityRecords() []a11y.Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sync()
	return r.projection.Records()
}

// AccessibilityHitTest returns the record at pt.
func (r *Ruler) AccessibilityHitTest(pt core.Point) (a11y.Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sync()
	return r.projection.HitTest(pt)
}

// ScrollToRecord performs the scroll action of the record at index.
func (r *Ruler) ScrollToRecord(index int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sync()
	if err := r.projection.ScrollToVisible(index); err != nil {
		return err
	}
	r.tracker.Mark(dirty.ReasonScrolled)
	return nil
}
