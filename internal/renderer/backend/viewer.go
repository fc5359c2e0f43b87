// Package backend displays a numbered document in a terminal.
package backend

import (
	"context"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/dshills/lineruler/internal/logging"
	"github.com/dshills/lineruler/internal/renderer"
	"github.com/dshills/lineruler/internal/renderer/dirty"
	"github.com/dshills/lineruler/internal/renderer/gutter"
)

// reloadEvent carries replacement text into the event loop.
type reloadEvent struct {
	text string
}

type quitEvent struct{}

// Viewer shows a Document with its ruler on a tcell screen.
//
// Apart from Reload and Quit, which only post events, Viewer methods must be
// called from the goroutine running Run.
type Viewer struct {
	screen tcell.Screen
	doc    *renderer.Document
	ruler  *renderer.Ruler
	theme  Theme
	log    logging.Logger
	frames uint64
}

// NewViewer creates a viewer. The screen must not be initialized yet.
func NewViewer(screen tcell.Screen, doc *renderer.Document, ruler *renderer.Ruler, theme Theme, log logging.Logger) *Viewer {
	if log == nil {
		log = logging.Discard()
	}
	return &Viewer{
		screen: screen,
		doc:    doc,
		ruler:  ruler,
		theme:  theme,
		log:    logging.WithComponent(log, "viewer"),
	}
}

// NewTerminalViewer creates a viewer on the real terminal.
func NewTerminalViewer(doc *renderer.Document, ruler *renderer.Ruler, theme Theme, log logging.Logger) (*Viewer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewViewer(screen, doc, ruler, theme, log), nil
}

// Init initializes the screen and lays the document out for its size.
func (v *Viewer) Init() error {
	if err := v.screen.Init(); err != nil {
		return err
	}
	v.screen.SetStyle(v.theme.Text)
	v.resize()
	return nil
}

// Fini restores the terminal.
func (v *Viewer) Fini() {
	v.screen.Fini()
}

// Frames returns the number of frames drawn.
func (v *Viewer) Frames() uint64 {
	return v.frames
}

// Reload replaces the document text from any goroutine.
func (v *Viewer) Reload(text string) error {
	return v.screen.PostEvent(tcell.NewEventInterrupt(reloadEvent{text: text}))
}

// Quit stops Run from any goroutine.
func (v *Viewer) Quit() error {
	return v.screen.PostEvent(tcell.NewEventInterrupt(quitEvent{}))
}

// Run draws the document and processes events until the user quits or ctx
// is canceled.
func (v *Viewer) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = v.Quit()
		case <-done:
		}
	}()

	v.Draw()
	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if v.HandleEvent(ev) {
			return ctx.Err()
		}
	}
}

// HandleEvent applies one event and redraws. It returns true when the
// viewer should quit.
func (v *Viewer) HandleEvent(ev tcell.Event) bool {
	switch e := ev.(type) {
	case *tcell.EventResize:
		v.resize()
	case *tcell.EventKey:
		quit, moved := v.handleKey(e)
		if quit {
			return true
		}
		if !moved {
			return false
		}
		v.ruler.Invalidate(dirty.ReasonScrolled)
	case *tcell.EventInterrupt:
		switch data := e.Data().(type) {
		case quitEvent:
			return true
		case reloadEvent:
			v.doc.SetText(data.text)
			v.ruler.Invalidate(dirty.ReasonTextChanged)
			v.resize()
			v.log.Info("document reloaded", "bytes", len(data.text), "lines", v.ruler.LineCount())
		default:
			return false
		}
	default:
		return false
	}

	v.Draw()
	return false
}

// handleKey scrolls for navigation keys.
func (v *Viewer) handleKey(e *tcell.EventKey) (quit, moved bool) {
	_, rows := v.doc.Viewport()
	page := rows - 1
	if page < 1 {
		page = 1
	}

	switch e.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true, false
	case tcell.KeyUp:
		return false, v.doc.Scroll(-1)
	case tcell.KeyDown:
		return false, v.doc.Scroll(1)
	case tcell.KeyPgUp:
		return false, v.doc.Scroll(-page)
	case tcell.KeyPgDn:
		return false, v.doc.Scroll(page)
	case tcell.KeyHome:
		return false, v.doc.Scroll(-v.doc.RowCount())
	case tcell.KeyEnd:
		return false, v.doc.Scroll(v.doc.RowCount())
	case tcell.KeyRune:
		switch e.Rune() {
		case 'q':
			return true, false
		case 'k':
			return false, v.doc.Scroll(-1)
		case 'j', ' ':
			return false, v.doc.Scroll(1)
		}
	}
	return false, false
}

// resize fits the document to the screen. The gutter width only depends on
// the line count, so wrapping to the remaining width is stable.
func (v *Viewer) resize() {
	width, height := v.screen.Size()
	cols := v.ruler.Columns()

	top, _ := v.doc.Viewport()
	v.doc.SetViewWidth(width - cols)
	v.doc.SetViewport(top, height)
	v.ruler.Invalidate(dirty.ReasonResized)
}

// Draw paints one frame.
func (v *Viewer) Draw() {
	v.screen.Clear()
	width, height := v.screen.Size()
	cols := v.ruler.Columns()
	top, _ := v.doc.Viewport()

	for y := 0; y < height; y++ {
		for x := 0; x < cols && x < width; x++ {
			v.screen.SetContent(x, y, ' ', nil, v.theme.Gutter)
		}
	}

	err := v.ruler.Draw(func(item renderer.DrawItem) {
		row := int(item.Rect.Y)
		y := row - top
		if y < 0 || y >= height {
			return
		}
		for x, c := range gutter.Cells(item.Label, item.Style, cols) {
			if c.Rune != 0 && x < width {
				v.screen.SetContent(x, y, c.Rune, nil, v.theme.style(c.Style))
			}
		}
		v.drawText(cols, y, width, v.doc.RowText(row))
	})
	if err != nil {
		v.log.Debug("frame skipped", "error", err)
	}

	v.screen.Show()
	v.frames++
}

// drawText paints text from column x, one grapheme cluster per cell run.
func (v *Viewer) drawText(x, y, width int, text string) {
	gr := uniseg.NewGraphemes(text)
	for gr.Next() && x < width {
		runes := gr.Runes()
		w := runewidth.StringWidth(gr.Str())
		if w == 0 {
			continue
		}
		var comb []rune
		if len(runes) > 1 {
			comb = runes[1:]
		}
		v.screen.SetContent(x, y, runes[0], comb, v.theme.Text)
		x += w
	}
}
