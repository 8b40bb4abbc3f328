// Package selection implements selection-set algebra and the geometry used
// to treat a set of elements as one logical unit.
package selection

import (
	"slices"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/geom"
)

// Modifiers are the keys that turn a click into an additive selection.
type Modifiers struct {
	Shift bool `json:"shift"`
	Ctrl  bool `json:"ctrl"`
	Meta  bool `json:"meta"`
}

// Any reports whether shift, ctrl or cmd is held.
func (m Modifiers) Any() bool {
	return m.Shift || m.Ctrl || m.Meta
}

// Set combines ids with current. With additive it is a de-duplicated union
// that keeps current's order; otherwise ids replace current.
func Set(current, ids []string, additive bool) []string {
	var out []string
	if additive {
		out = make([]string, 0, len(current)+len(ids))
		out = append(out, current...)
	} else {
		out = make([]string, 0, len(ids))
	}
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// Click resolves element pointer-down semantics. Without a modifier, a
// click on an already selected element keeps the selection so a
// multi-selection can be dragged from any member; a click on an
// unselected element selects only it. With a modifier the element is
// added to the selection.
func Click(current []string, clickedID string, mods Modifiers) []string {
	if mods.Any() {
		return Set(current, []string{clickedID}, true)
	}
	if slices.Contains(current, clickedID) {
		return slices.Clone(current)
	}
	return []string{clickedID}
}

// Prune drops ids that do not name a live top-level element.
func Prune(ids []string, els []document.Element) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if document.IndexOf(els, id) >= 0 {
			out = append(out, id)
		}
	}
	return out
}

// Selected returns the selected elements in document order.
func Selected(els []document.Element, ids []string) []document.Element {
	out := make([]document.Element, 0, len(ids))
	for _, el := range els {
		if slices.Contains(ids, el.ID) {
			out = append(out, el)
		}
	}
	return out
}

// BoundingBox returns the box spanning min(x), min(y), max(x+width),
// max(y+height) of els. ok is false for an empty set.
func BoundingBox(els []document.Element) (box geom.Rect, ok bool) {
	for i, el := range els {
		if i == 0 {
			box = el.Bounds()
			continue
		}
		box = box.Union(el.Bounds())
	}
	return box, len(els) > 0
}

// Intersecting returns the IDs of unlocked top-level elements whose box
// overlaps r. Partial overlap qualifies.
func Intersecting(els []document.Element, r geom.Rect) []string {
	var ids []string
	for _, el := range els {
		if el.Locked {
			continue
		}
		if el.Bounds().Intersects(r) {
			ids = append(ids, el.ID)
		}
	}
	return ids
}
