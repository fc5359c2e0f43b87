package renderer

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/lineruler/internal/config"
	"github.com/dshills/lineruler/internal/renderer/core"
	"github.com/dshills/lineruler/internal/renderer/dirty"
	"github.com/dshills/lineruler/internal/renderer/gutter"
	"github.com/dshills/lineruler/internal/renderer/lineindex"
)

func newTestRuler(t *testing.T, text string, wrap int) (*Ruler, *Document) {
	t.Helper()
	doc := NewDocument(text, config.LayoutConfig{TabWidth: 4, WrapWidth: wrap})
	r, err := New(doc, config.Default().Ruler)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r, doc
}

func drawLabels(t *testing.T, r *Ruler) ([]string, []DrawItem) {
	t.Helper()
	var labels []string
	var items []DrawItem
	if err := r.Draw(func(item DrawItem) {
		labels = append(labels, item.Label)
		items = append(items, item)
	}); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	return labels, items
}

func TestRulerDraw(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		wrap  int
		want  []string
		lines int
	}{
		{"three lines", "a\nb\nc", 0, []string{"1", "2", "3"}, 3},
		{"wrapped with trailing newline", "aaaa\n", 2, []string{"1", "-", "2"}, 2},
		{"empty buffer", "", 0, []string{"1"}, 1},
		{"wrapped middle line", "a\nbbbbbb\nc", 4, []string{"1", "2", "-", "3"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRuler(t, tt.text, tt.wrap)

			got, _ := drawLabels(t, r)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("labels mismatch (-want +got):\n%s", diff)
			}
			if r.LineCount() != tt.lines {
				t.Errorf("LineCount() = %d, want %d", r.LineCount(), tt.lines)
			}
		})
	}
}

func TestRulerDrawItems(t *testing.T) {
	r, _ := newTestRuler(t, "a\nbbbbbb\nc", 4)

	_, items := drawLabels(t, r)
	if len(items) != 4 {
		t.Fatalf("got %d items, want 4", len(items))
	}
	for i, item := range items {
		if item.Rect.Y != float64(i) || item.Rect.Width != 2 {
			t.Errorf("item %d rect = %v, want row %d width 2", i, item.Rect, i)
		}
	}
	if items[2].Style != gutter.StyleContinuation || items[1].Style != gutter.StyleLineNumber {
		t.Errorf("unexpected styles: %v, %v", items[1].Style, items[2].Style)
	}
	if items[2].Mark != lineindex.ContinuationMark(2, 1) {
		t.Errorf("items[2].Mark = %v", items[2].Mark)
	}
}

func TestRulerDrawScrolled(t *testing.T) {
	r, doc := newTestRuler(t, "a\nbbbbbb\nc", 4)
	doc.SetViewport(2, 2)
	r.Invalidate(dirty.ReasonScrolled)

	got, items := drawLabels(t, r)
	if diff := cmp.Diff([]string{"-", "3"}, got); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	if items[0].Mark != lineindex.ContinuationMark(2, 1) {
		t.Errorf("first visible mark = %v, want Continuation(2,1)", items[0].Mark)
	}
}

func TestRulerDrawViewportEndsBeforeExtraRow(t *testing.T) {
	r, doc := newTestRuler(t, "a\nb\n", 0)
	doc.SetViewport(0, 2)
	r.Invalidate(dirty.ReasonScrolled)

	got, _ := drawLabels(t, r)
	if diff := cmp.Diff([]string{"1", "2"}, got); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}

	records := r.AccessibilityRecords()
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[2].Visibility != lineindex.Hidden {
		t.Errorf("extra row below the viewport is %v, want hidden", records[2].Visibility)
	}
}

func TestRulerWidthFollowsInvalidate(t *testing.T) {
	text := strings.TrimSuffix(strings.Repeat("x\n", 9), "\n")
	r, doc := newTestRuler(t, text, 0)

	if r.Width() != 2 {
		t.Fatalf("Width() = %g for 9 lines, want 2", r.Width())
	}

	doc.SetText(text + "\nx")
	if r.Width() != 2 {
		t.Error("ruler should not notice a mutation until Invalidate")
	}

	r.Invalidate(dirty.ReasonTextChanged)
	if r.Width() != 3 {
		t.Errorf("Width() = %g for 10 lines, want 3", r.Width())
	}
	if r.Columns() != 3 {
		t.Errorf("Columns() = %d, want 3", r.Columns())
	}
}

func TestRulerSetDigitAdvance(t *testing.T) {
	r, _ := newTestRuler(t, "a\nb", 0)

	r.SetDigitAdvance(2.5)
	if r.Width() != 5 {
		t.Errorf("Width() = %g, want 5", r.Width())
	}
}

type nilLayoutHost struct{}

func (nilLayoutHost) Text() string                     { return "abc" }
func (nilLayoutHost) LayoutProvider() lineindex.Layout { return nil }
func (nilLayoutHost) ScrollToVisible(core.Rect)        {}

func TestRulerDrawErrors(t *testing.T) {
	tests := []struct {
		name string
		host lineindex.Host
		want error
	}{
		{"no host", nil, lineindex.ErrUnsupportedHost},
		{"no layout", nilLayoutHost{}, lineindex.ErrNoLayoutEngine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(tt.host, config.Default().Ruler)
			if err != nil {
				t.Fatalf("New: %v", err)
			}

			called := false
			err = r.Draw(func(DrawItem) { called = true })
			if !errors.Is(err, tt.want) {
				t.Errorf("Draw() error = %v, want %v", err, tt.want)
			}
			if called {
				t.Error("draw callback should not run")
			}
			if n := len(r.AccessibilityRecords()); n != 0 {
				t.Errorf("got %d accessibility records, want 0", n)
			}
		})
	}
}

func TestRulerAccessibility(t *testing.T) {
	r, doc := newTestRuler(t, "a\nbbbbbb\nc", 4)
	doc.SetViewport(0, 2)

	records := r.AccessibilityRecords()
	var got []string
	for _, rec := range records {
		got = append(got, rec.Text)
	}
	want := []string{"Line 1", "Line 2", "Line 2, part 2", "Line 3"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	if records[2].Visibility != lineindex.Hidden {
		t.Error("row outside the viewport should be hidden")
	}

	rec, ok := r.AccessibilityHitTest(core.Point{X: 0.5, Y: 3.2})
	if !ok || rec.Text != "Line 3" {
		t.Errorf("HitTest = %q, %v", rec.Text, ok)
	}

	if err := r.ScrollToRecord(3); err != nil {
		t.Fatalf("ScrollToRecord: %v", err)
	}
	if top, _ := doc.Viewport(); top != 2 {
		t.Errorf("viewport top = %d after scrolling to row 3, want 2", top)
	}
	got, _ = drawLabels(t, r)
	if diff := cmp.Diff([]string{"-", "3"}, got); diff != "" {
		t.Errorf("labels after scroll mismatch (-want +got):\n%s", diff)
	}
}

func TestRulerDrawDirtiesProjection(t *testing.T) {
	r, _ := newTestRuler(t, "a\nb", 0)

	p := r.Accessibility()
	if p.Count() != 2 || p.Dirty() {
		t.Fatalf("projection should be built, count=%d dirty=%v", p.Count(), p.Dirty())
	}

	drawLabels(t, r)
	if !r.Accessibility().Dirty() {
		t.Error("drawing should leave the projection dirty")
	}
}

func TestRulerWithFormatter(t *testing.T) {
	formats := gutter.DefaultFormats()
	formats.Locale = "de"
	formats.GroupDigits = true
	f := gutter.MustFormatter(formats)

	doc := NewDocument(strings.Repeat("\n", 1233), config.LayoutConfig{})
	doc.SetViewport(1233, 1)
	r, err := New(doc, config.Default().Ruler, WithFormatter(f))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, _ := drawLabels(t, r)
	if diff := cmp.Diff([]string{"1.234"}, got); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	if r.Formatter() != f {
		t.Error("Formatter() should return the injected formatter")
	}
}

func TestNewInvalidFormats(t *testing.T) {
	cfg := config.Default().Ruler
	cfg.LineFormat = "no placeholder"

	if _, err := New(nil, cfg); !errors.Is(err, gutter.ErrInvalidFormat) {
		t.Errorf("New() error = %v, want ErrInvalidFormat", err)
	}
}

func TestFormatsFromConfig(t *testing.T) {
	got := FormatsFromConfig(config.RulerConfig{})
	if diff := cmp.Diff(gutter.DefaultFormats(), got); diff != "" {
		t.Errorf("empty config mismatch (-want +got):\n%s", diff)
	}

	got = FormatsFromConfig(config.RulerConfig{Locale: "fr", ContinuationMarker: "+", GroupDigits: true})
	if got.Locale != "fr" || got.ContinuationMarker != "+" || !got.GroupDigits {
		t.Errorf("FormatsFromConfig = %+v", got)
	}
}

func TestRulerConcurrentUse(t *testing.T) {
	r, _ := newTestRuler(t, "a\nb\nc\nd", 0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				switch (i + j) % 3 {
				case 0:
					r.Invalidate(dirty.ReasonScrolled)
				case 1:
					_ = r.Draw(func(DrawItem) {})
				default:
					_ = r.Width()
					_ = r.AccessibilityRecords()
				}
			}
		}(i)
	}
	wg.Wait()

	if r.LineCount() != 4 {
		t.Errorf("LineCount() = %d, want 4", r.LineCount())
	}
}
