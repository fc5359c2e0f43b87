// Package renderer provides the line-number ruler for a text view.
//
// The ruler is responsible for:
//   - Numbering visual line fragments, including wrapped continuations
//   - Sizing the gutter from the logical line count
//   - Mirroring fragments as accessibility records
//   - Tracking invalidations reported by the host
//
// Architecture:
//
//	┌─────────────────────────────────────────┐
//	│             Ruler (Facade)              │
//	├─────────────────────────────────────────┤
//	│  lineindex │  gutter   │  a11y          │
//	│  Enumerate │  Width    │  Projection    │
//	├─────────────────────────────────────────┤
//	│     Host (Document + layout.Engine)     │
//	└─────────────────────────────────────────┘
//
// Usage:
//
//	doc := renderer.NewDocument(text, cfg.Layout)
//	r, _ := renderer.New(doc, cfg.Ruler)
//	r.Draw(func(item renderer.DrawItem) {
//	    // paint item.Label inside item.Rect
//	})
package renderer
