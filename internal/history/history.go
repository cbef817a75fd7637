// Package history keeps a linear undo/redo list of mark snapshots.
package history

import "github.com/example/roomedit/internal/shape"

// History stores deep copies of shape.Marks with a cursor. It always holds
// at least one entry; a fresh history holds the empty snapshot.
type History struct {
	entries []shape.Marks
	index   int
}

// New returns a history holding only the empty snapshot.
func New() *History {
	return &History{entries: []shape.Marks{{}}}
}

// Save truncates any redo entries and appends a copy of m as the current
// snapshot.
func (h *History) Save(m shape.Marks) {
	h.entries = append(h.entries[:h.index+1], m.Clone())
	h.index = len(h.entries) - 1
}

// Undo moves the cursor back and returns a copy of the snapshot there.
func (h *History) Undo() (shape.Marks, bool) {
	if !h.CanUndo() {
		return shape.Marks{}, false
	}
	h.index--
	return h.entries[h.index].Clone(), true
}

// Redo moves the cursor forward and returns a copy of the snapshot there.
func (h *History) Redo() (shape.Marks, bool) {
	if !h.CanRedo() {
		return shape.Marks{}, false
	}
	h.index++
	return h.entries[h.index].Clone(), true
}

func (h *History) CanUndo() bool { return h.index > 0 }
func (h *History) CanRedo() bool { return h.index < len(h.entries)-1 }

// Current returns a copy of the snapshot under the cursor.
func (h *History) Current() shape.Marks { return h.entries[h.index].Clone() }

// Len is the number of stored snapshots.
func (h *History) Len() int { return len(h.entries) }

// Index is the cursor position.
func (h *History) Index() int { return h.index }

// Reset drops everything and starts over from the empty snapshot.
func (h *History) Reset() {
	h.entries = []shape.Marks{{}}
	h.index = 0
}
