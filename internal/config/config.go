package config

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/text/language"

	"github.com/dshills/lineruler/internal/renderer/gutter"
)

// Config is the complete lineruler configuration.
type Config struct {
	Ruler   RulerConfig   `toml:"ruler"`
	Layout  LayoutConfig  `toml:"layout"`
	Colors  ColorConfig   `toml:"colors"`
	Logging LoggingConfig `toml:"logging"`
}

// RulerConfig controls gutter sizing and labels.
type RulerConfig struct {
	// MinDigits is the smallest number of digit slots the gutter reserves.
	MinDigits int `toml:"minDigits"`

	// DigitAdvance is the width of one digit. Zero means the cell width of '0'.
	DigitAdvance float64 `toml:"digitAdvance"`

	// Locale selects number formatting and spoken label language (BCP 47).
	Locale string `toml:"locale"`

	// ContinuationMarker is drawn on wrapped fragments.
	ContinuationMarker string `toml:"continuationMarker"`

	// LineFormat is the spoken label of a line; one %s receives the number.
	// Empty selects the locale's built-in phrase.
	LineFormat string `toml:"lineFormat"`

	// ContinuationFormat is the spoken label of a wrapped fragment; two %s
	// receive the line number and the part number.
	ContinuationFormat string `toml:"continuationFormat"`

	// GroupDigits draws line numbers with locale digit grouping.
	GroupDigits bool `toml:"groupDigits"`
}

// LayoutConfig controls how text is laid out next to the ruler.
type LayoutConfig struct {
	// TabWidth is the number of cells between tab stops.
	TabWidth int `toml:"tabWidth"`

	// WrapWidth is the soft wrap column. Zero wraps at the view width.
	WrapWidth int `toml:"wrapWidth"`

	// WrapAtWord breaks wrapped lines at whitespace when possible.
	WrapAtWord bool `toml:"wrapAtWord"`

	// NoWrap disables soft wrapping entirely.
	NoWrap bool `toml:"noWrap"`
}

// ColorConfig holds hex colors for the terminal viewer.
type ColorConfig struct {
	LineNumber   string `toml:"lineNumber"`
	Continuation string `toml:"continuation"`
	Gutter       string `toml:"gutter"`
	Text         string `toml:"text"`
	Background   string `toml:"background"`
}

// LoggingConfig controls diagnostic output.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`

	// Format is text or json.
	Format string `toml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Ruler: RulerConfig{
			MinDigits:          1,
			Locale:             "en",
			ContinuationMarker: "-",
		},
		Layout: LayoutConfig{
			TabWidth:   4,
			WrapAtWord: true,
		},
		Colors: ColorConfig{
			LineNumber:   "#8a8a8a",
			Continuation: "#5f5f5f",
			Gutter:       "#1c1c1c",
			Text:         "#d0d0d0",
			Background:   "#121212",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks every setting and returns all problems joined with
// errors.Join. Each problem is a *ValidationError.
func (c Config) Validate() error {
	var errs []error
	add := func(path, msg string, value any) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: value})
	}

	if c.Ruler.MinDigits < 1 || c.Ruler.MinDigits > 20 {
		add("ruler.minDigits", "must be between 1 and 20", c.Ruler.MinDigits)
	}
	if c.Ruler.DigitAdvance < 0 {
		add("ruler.digitAdvance", "must not be negative", c.Ruler.DigitAdvance)
	}
	if _, err := language.Parse(c.Ruler.Locale); err != nil {
		add("ruler.locale", "not a BCP 47 language tag", c.Ruler.Locale)
	}
	if strings.Contains(c.Ruler.ContinuationMarker, "%") {
		add("ruler.continuationMarker", "must not contain '%'", c.Ruler.ContinuationMarker)
	}
	if f := c.Ruler.LineFormat; f != "" {
		if n, err := gutter.Placeholders(f); err != nil || n != 1 {
			add("ruler.lineFormat", "must contain exactly one %s and no other verbs", f)
		}
	}
	if f := c.Ruler.ContinuationFormat; f != "" {
		if n, err := gutter.Placeholders(f); err != nil || n != 2 {
			add("ruler.continuationFormat", "must contain exactly two %s and no other verbs", f)
		}
	}

	if c.Layout.TabWidth < 1 || c.Layout.TabWidth > 16 {
		add("layout.tabWidth", "must be between 1 and 16", c.Layout.TabWidth)
	}
	if c.Layout.WrapWidth < 0 {
		add("layout.wrapWidth", "must not be negative", c.Layout.WrapWidth)
	}

	colors := []struct{ path, value string }{
		{"colors.lineNumber", c.Colors.LineNumber},
		{"colors.continuation", c.Colors.Continuation},
		{"colors.gutter", c.Colors.Gutter},
		{"colors.text", c.Colors.Text},
		{"colors.background", c.Colors.Background},
	}
	for _, col := range colors {
		if _, err := colorful.Hex(col.value); err != nil {
			add(col.path, "not a #rrggbb color", col.value)
		}
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		add("logging.level", "must be debug, info, warn or error", c.Logging.Level)
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		add("logging.format", "must be text or json", c.Logging.Format)
	}

	return errors.Join(errs...)
}
