package backend

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/lineruler/internal/config"
	"github.com/dshills/lineruler/internal/renderer/gutter"
)

// Theme holds the styles the viewer paints with.
type Theme struct {
	LineNumber   tcell.Style
	Continuation tcell.Style
	Gutter       tcell.Style
	Text         tcell.Style
}

// ThemeFromConfig builds a theme from hex colors.
func ThemeFromConfig(cfg config.ColorConfig) (Theme, error) {
	entries := []struct{ name, hex string }{
		{"lineNumber", cfg.LineNumber},
		{"continuation", cfg.Continuation},
		{"gutter", cfg.Gutter},
		{"text", cfg.Text},
		{"background", cfg.Background},
	}
	colors := make(map[string]tcell.Color, len(entries))
	for _, e := range entries {
		c, err := convertColor(e.hex)
		if err != nil {
			return Theme{}, fmt.Errorf("colors.%s: %w", e.name, err)
		}
		colors[e.name] = c
	}

	gutterBg := tcell.StyleDefault.Background(colors["gutter"])
	return Theme{
		LineNumber:   gutterBg.Foreground(colors["lineNumber"]),
		Continuation: gutterBg.Foreground(colors["continuation"]).Dim(true),
		Gutter:       gutterBg,
		Text:         tcell.StyleDefault.Foreground(colors["text"]).Background(colors["background"]),
	}, nil
}

// convertColor parses a #rrggbb color into a true-color tcell.Color.
func convertColor(hex string) (tcell.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return tcell.ColorDefault, err
	}
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b)), nil
}

// style returns the style of a gutter cell.
func (t Theme) style(s gutter.CellStyle) tcell.Style {
	switch s {
	case gutter.StyleLineNumber:
		return t.LineNumber
	case gutter.StyleContinuation:
		return t.Continuation
	default:
		return t.Gutter
	}
}
