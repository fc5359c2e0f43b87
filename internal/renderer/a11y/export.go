package a11y

import (
	"fmt"

	"github.com/tidwall/sjson"

	"github.com/dshills/lineruler/internal/renderer/lineindex"
)

// Export encodes records as a JSON array of objects:
//
//	{"id":"…","index":0,"text":"Line 1","kind":"line","line":1,
//	 "visible":true,"rect":{"x":0,"y":0,"width":3,"height":1}}
//
// Continuation records carry an extra "continuation" field.
func Export(records []Record) ([]byte, error) {
	out := []byte{'['}
	for i, r := range records {
		obj, err := exportRecord(r)
		if err != nil {
			return nil, fmt.Errorf("exporting record %d: %w", i, err)
		}
		if i > 0 {
			out = append(out, ',')
		}
		out = append(out, obj...)
	}
	return append(out, ']'), nil
}

func exportRecord(r Record) ([]byte, error) {
	fields := []struct {
		path  string
		value any
	}{
		{"id", r.ID.String()},
		{"index", r.Index},
		{"text", r.Text},
		{"kind", r.Mark.Kind.String()},
		{"line", r.Mark.Line},
		{"visible", r.Visibility == lineindex.Visible},
		{"rect.x", r.Rect.X},
		{"rect.y", r.Rect.Y},
		{"rect.width", r.Rect.Width},
		{"rect.height", r.Rect.Height},
	}
	if r.Mark.IsContinuation() {
		fields = append(fields, struct {
			path  string
			value any
		}{"continuation", r.Mark.Continuation})
	}

	obj := []byte(`{}`)
	var err error
	for _, f := range fields {
		obj, err = sjson.SetBytes(obj, f.path, f.value)
		if err != nil {
			return nil, err
		}
	}
	return obj, nil
}
