package transcript

import "strings"

// Options controls transcript assembly formatting behavior.
type Options struct {
	// TrailingSpace appends one space so consecutive pastes don't run
	// words together at the input focus.
	TrailingSpace bool
}

// Assemble joins recognized segments and collapses whitespace runs. The
// cloud path passes a single segment; the browser variant feeds one
// segment per recognition result.
func Assemble(segments []string, opts Options) string {
	if len(segments) == 0 {
		return ""
	}

	joined := strings.Join(segments, " ")
	normalized := strings.Join(strings.Fields(joined), " ")
	if normalized == "" {
		return ""
	}

	if opts.TrailingSpace {
		return normalized + " "
	}
	return normalized
}
