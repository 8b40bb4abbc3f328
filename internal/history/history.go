// Package history keeps linear undo/redo stacks of full element-array
// snapshots.
package history

import "github.com/inamate/canvas/internal/document"

// History holds undo and redo snapshots. The most recent undo entry is at
// the end of the undo slice; the next redo entry is at the front of the
// redo slice. Every snapshot is a private deep copy.
type History struct {
	undo  [][]document.Element
	redo  [][]document.Element
	limit int
}

// New returns an empty history. A positive limit caps the number of undo
// snapshots kept; older ones are discarded first.
func New(limit int) *History {
	return &History{limit: limit}
}

// Record pushes a snapshot onto the undo stack and invalidates redo.
func (h *History) Record(snapshot []document.Element) {
	h.undo = append(h.undo, document.CloneElements(snapshot))
	if h.limit > 0 && len(h.undo) > h.limit {
		h.undo = h.undo[len(h.undo)-h.limit:]
	}
	h.redo = nil
}

// Undo pops the latest snapshot and returns it as the state to restore.
// current is pushed onto the front of the redo stack. ok is false when
// there is nothing to undo.
func (h *History) Undo(current []document.Element) (restored []document.Element, ok bool) {
	if len(h.undo) == 0 {
		return nil, false
	}
	last := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append([][]document.Element{document.CloneElements(current)}, h.redo...)
	return document.CloneElements(last), true
}

// Redo takes the first redo snapshot as the state to restore and pushes
// current onto the undo stack. ok is false when there is nothing to redo.
func (h *History) Redo(current []document.Element) (restored []document.Element, ok bool) {
	if len(h.redo) == 0 {
		return nil, false
	}
	next := h.redo[0]
	h.redo = h.redo[1:]
	h.undo = append(h.undo, document.CloneElements(current))
	return document.CloneElements(next), true
}

// CanUndo reports whether an undo snapshot is available.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether a redo snapshot is available.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Len returns the number of undo and redo snapshots.
func (h *History) Len() (undo, redo int) { return len(h.undo), len(h.redo) }

// Reset drops all snapshots.
func (h *History) Reset() {
	h.undo = nil
	h.redo = nil
}
