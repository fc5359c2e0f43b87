package renderer

import (
	"bufio"
	"io"
	"strings"

	"github.com/dshills/lineruler/internal/renderer/gutter"
)

// WriteNumbered writes every visible row of doc prefixed with its gutter
// label, right-aligned to the ruler's column width.
func WriteNumbered(w io.Writer, doc *Document, ruler *Ruler) error {
	bw := bufio.NewWriter(w)
	cols := ruler.Columns()

	var werr error
	err := ruler.Draw(func(item DrawItem) {
		if werr != nil {
			return
		}
		var b strings.Builder
		for _, c := range gutter.Cells(item.Label, item.Style, cols) {
			if c.Rune != 0 {
				b.WriteRune(c.Rune)
			}
		}
		b.WriteString(doc.RowText(int(item.Rect.Y)))
		b.WriteByte('\n')
		_, werr = bw.WriteString(b.String())
	})
	if err != nil {
		return err
	}
	if werr != nil {
		return werr
	}
	return bw.Flush()
}
