package lineindex

import "strings"

// CountLinesUpTo returns the 1-based logical line number of the character at
// index, i.e. one plus the number of '\n' bytes in text[:index].
// index is clamped to the buffer.
func CountLinesUpTo(text string, index int) int {
	if index <= 0 {
		return 1
	}
	if index > len(text) {
		index = len(text)
	}
	return 1 + countNewlines(text, 0, index)
}

// CountLines returns the number of logical lines in text. An empty buffer
// and a buffer ending with a line break both count the trailing empty line.
func CountLines(text string) int {
	return CountLinesUpTo(text, len(text))
}

// countNewlines counts '\n' bytes in text[from:to]. It alternates between
// skipping a run of ordinary bytes with a single search and consuming a run
// of consecutive newlines.
func countNewlines(text string, from, to int) int {
	count := 0
	pos := from
	for pos < to {
		i := strings.IndexByte(text[pos:to], '\n')
		if i < 0 {
			break
		}
		pos += i
		run := pos
		for run < to && text[run] == '\n' {
			run++
		}
		count += run - pos
		pos = run
	}
	return count
}

// Counter resolves line numbers relative to the last answered query, so a
// sequence of nearby lookups (scrolling) costs the distance moved rather than
// the offset from the start of the buffer.
//
// The checkpoint is only valid for the buffer it was computed on; callers
// must Reset after any mutation.
type Counter struct {
	valid  bool
	length int
	at     int
	line   int
}

// LineAt returns CountLinesUpTo(text, index).
func (c *Counter) LineAt(text string, index int) int {
	if index < 0 {
		index = 0
	}
	if index > len(text) {
		index = len(text)
	}

	var line int
	switch {
	case !c.valid || c.length != len(text):
		line = 1 + countNewlines(text, 0, index)
	case index >= c.at:
		line = c.line + countNewlines(text, c.at, index)
	default:
		line = c.line - countNewlines(text, index, c.at)
	}

	c.valid = true
	c.length = len(text)
	c.at = index
	c.line = line
	return line
}

// Reset discards the checkpoint.
func (c *Counter) Reset() {
	*c = Counter{}
}
