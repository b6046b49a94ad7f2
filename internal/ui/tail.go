// Package ui implements the murmur host window: a small status view over
// the supervised backend with a bounded tail of its output.
package ui

import "sync"

// Tail is a bounded, concurrency-safe ring of output lines. Appending
// beyond the bound drops the oldest line.
type Tail struct {
	mu    sync.Mutex
	max   int
	lines []string
}

// NewTail creates a tail bounded to max lines. A non-positive max falls
// back to a single line.
func NewTail(max int) *Tail {
	if max <= 0 {
		max = 1
	}
	return &Tail{max: max}
}

// Append adds a line, evicting the oldest when full.
func (t *Tail) Append(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.lines = append(t.lines, line)
	if len(t.lines) > t.max {
		// Shift instead of reslicing so the backing array does not grow
		// without bound.
		copy(t.lines, t.lines[1:])
		t.lines = t.lines[:t.max]
	}
}

// Lines returns a copy of the current tail, oldest first.
func (t *Tail) Lines() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]string, len(t.lines))
	copy(out, t.lines)
	return out
}

// Len returns the number of retained lines.
func (t *Tail) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.lines)
}
