package lineindex

import "errors"

// Errors returned by Enumerate. Both are recoverable: the caller skips the
// current draw or update pass and tries again on the next layout change.
var (
	// ErrUnsupportedHost indicates the host view is missing or detached.
	ErrUnsupportedHost = errors.New("unsupported host view")

	// ErrNoLayoutEngine indicates the host could not supply layout metadata.
	ErrNoLayoutEngine = errors.New("no layout engine")
)
