package gutter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"golang.org/x/text/number"

	"github.com/dshills/lineruler/internal/renderer/lineindex"
)

// ErrInvalidFormat indicates a label format with the wrong placeholders.
var ErrInvalidFormat = errors.New("invalid label format")

// Default label strings. They double as catalog keys, so translations are
// looked up by these exact values.
const (
	DefaultContinuationMarker = "-"
	DefaultLineFormat         = "Line %s"
	DefaultContinuationFormat = "Line %s, part %s"
)

// Formats configures how marks are turned into text.
type Formats struct {
	// Locale is a BCP 47 tag selecting digits, grouping and translations.
	Locale string

	// ContinuationMarker is drawn in place of a number for wrapped rows.
	ContinuationMarker string

	// LineFormat is the accessibility label of a line. One %s: the number.
	LineFormat string

	// ContinuationFormat is the accessibility label of a wrapped row. Two
	// %s: the line number and the 1-based row within the line.
	ContinuationFormat string

	// GroupDigits enables locale grouping separators in drawn labels.
	// Accessibility labels are always grouped.
	GroupDigits bool
}

// DefaultFormats returns the default formats.
func DefaultFormats() Formats {
	return Formats{
		Locale:             "en",
		ContinuationMarker: DefaultContinuationMarker,
		LineFormat:         DefaultLineFormat,
		ContinuationFormat: DefaultContinuationFormat,
	}
}

// Placeholders returns the number of %s verbs in format. Any other verb,
// %% aside, is rejected with ErrInvalidFormat.
func Placeholders(format string) (int, error) {
	n := 0
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			continue
		}
		i++
		if i == len(format) {
			return n, fmt.Errorf("%w: %q ends with a lone %%", ErrInvalidFormat, format)
		}
		switch format[i] {
		case 's':
			n++
		case '%':
		default:
			return n, fmt.Errorf("%w: %q uses %%%c; only %%s and %%%% are allowed", ErrInvalidFormat, format, format[i])
		}
	}
	return n, nil
}

// Validate checks the format strings.
func (f Formats) Validate() error {
	n, err := Placeholders(f.LineFormat)
	if err != nil {
		return err
	}
	if n != 1 {
		return fmt.Errorf("%w: line format %q needs exactly one %%s", ErrInvalidFormat, f.LineFormat)
	}
	n, err = Placeholders(f.ContinuationFormat)
	if err != nil {
		return err
	}
	if n != 2 {
		return fmt.Errorf("%w: continuation format %q needs exactly two %%s", ErrInvalidFormat, f.ContinuationFormat)
	}
	if strings.Contains(f.ContinuationMarker, "%") {
		return fmt.Errorf("%w: continuation marker %q must not contain %%", ErrInvalidFormat, f.ContinuationMarker)
	}
	if _, err = language.Parse(f.Locale); err != nil {
		return fmt.Errorf("%w: locale %q: %v", ErrInvalidFormat, f.Locale, err)
	}
	return nil
}

// Formatter turns line marks into gutter and accessibility labels.
type Formatter struct {
	formats Formats
	tag     language.Tag
	printer *message.Printer
}

// NewFormatter creates a formatter. Default format strings are translated
// for the locale when the built-in catalog has an entry for them.
func NewFormatter(formats Formats) (*Formatter, error) {
	if err := formats.Validate(); err != nil {
		return nil, err
	}
	tag := language.Make(formats.Locale)
	return &Formatter{
		formats: formats,
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(builtinCatalog())),
	}, nil
}

// MustFormatter is like NewFormatter but panics on error.
func MustFormatter(formats Formats) *Formatter {
	f, err := NewFormatter(formats)
	if err != nil {
		panic(err)
	}
	return f
}

// Formats returns the formats in use.
func (f *Formatter) Formats() Formats {
	return f.formats
}

// Locale returns the resolved language tag.
func (f *Formatter) Locale() language.Tag {
	return f.tag
}

// Number formats n as a locale-aware decimal with grouping.
func (f *Formatter) Number(n int) string {
	return f.printer.Sprint(number.Decimal(n))
}

// DrawLabel returns the text drawn in the gutter for a mark.
func (f *Formatter) DrawLabel(m lineindex.Mark) string {
	if m.IsContinuation() {
		return f.printer.Sprintf(f.formats.ContinuationMarker)
	}
	if f.formats.GroupDigits {
		return f.Number(m.Line)
	}
	return strconv.Itoa(m.Line)
}

// AccessibilityLabel returns the spoken description of a mark. Wrapped rows
// are numbered from 2, the first row being the line itself.
func (f *Formatter) AccessibilityLabel(m lineindex.Mark) string {
	if m.IsContinuation() {
		return f.printer.Sprintf(f.formats.ContinuationFormat, f.Number(m.Line), f.Number(m.Continuation+1))
	}
	return f.printer.Sprintf(f.formats.LineFormat, f.Number(m.Line))
}

// builtinCatalog holds translations of the default label strings.
func builtinCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	translations := []struct {
		tag                language.Tag
		line, continuation string
		marker             string
	}{
		{language.English, DefaultLineFormat, DefaultContinuationFormat, DefaultContinuationMarker},
		{language.German, "Zeile %s", "Zeile %s, Teil %s", DefaultContinuationMarker},
		{language.French, "Ligne %s", "Ligne %s, partie %s", DefaultContinuationMarker},
		{language.Spanish, "Línea %s", "Línea %s, parte %s", DefaultContinuationMarker},
		{language.Japanese, "%s 行", "%s 行 (%s)", "…"},
	}
	for _, t := range translations {
		_ = b.SetString(t.tag, DefaultLineFormat, t.line)
		_ = b.SetString(t.tag, DefaultContinuationFormat, t.continuation)
		_ = b.SetString(t.tag, DefaultContinuationMarker, t.marker)
	}
	return b
}
