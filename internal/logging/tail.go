package logging

import "sync"

const defaultTailCapacity = 200

// Tail is a capped in-memory buffer of recent log lines. The session
// summary and the debug panel read from it; writers never block.
type Tail struct {
	mu    sync.Mutex
	lines []string
	cap   int
}

// NewTail creates a tail buffer holding at most capacity lines.
func NewTail(capacity int) *Tail {
	if capacity <= 0 {
		capacity = defaultTailCapacity
	}
	return &Tail{cap: capacity}
}

// Append records one line, evicting the oldest when full.
func (t *Tail) Append(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = append(t.lines, line)
	if len(t.lines) > t.cap {
		t.lines = t.lines[len(t.lines)-t.cap:]
	}
}

// Lines returns a snapshot of the buffered lines, oldest first.
func (t *Tail) Lines() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.lines))
	copy(out, t.lines)
	return out
}

// Reset discards all buffered lines.
func (t *Tail) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = nil
}
