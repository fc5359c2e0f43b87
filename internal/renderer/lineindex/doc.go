// Package lineindex maps a text buffer's logical lines onto the visual line
// fragments produced by a text layout engine.
//
// The indexer walks buffer lines in order and, for each one, asks the layout
// for the fragments it occupies. The first fragment of a line carries a Line
// mark; every following fragment of the same line carries a Continuation
// mark. When the buffer ends with a line break the layout reports an extra
// empty fragment, which receives one more Line mark.
//
// Two enumeration modes exist. VisibleOnly touches only the laid-out visible
// region and is used for drawing. Full walks the whole buffer and is used to
// build the accessibility projection.
//
// The indexer is passive: the host must call Invalidate after any buffer
// mutation so that cached line-count checkpoints are discarded.
package lineindex
