package editor

import (
	"log/slog"
	"slices"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/geom"
	"github.com/inamate/canvas/internal/grouping"
	"github.com/inamate/canvas/internal/selection"
)

// fallbackOrigin is where new elements go when no viewport is mounted.
var fallbackOrigin = geom.Point{X: 100, Y: 100}

// AddShape appends a shape of the given kind centred in the view and
// selects it.
func (e *Editor) AddShape(kind document.ShapeKind) string {
	switch kind {
	case document.ShapeRectangle, document.ShapeCircle, document.ShapeTriangle:
	default:
		kind = document.ShapeRectangle
	}
	el := document.NewShape(kind, 0, 0)
	return e.add(el)
}

// AddText appends a text element centred in the view and selects it.
func (e *Editor) AddText(content string) string {
	if content == "" {
		content = "Text"
	}
	return e.add(document.NewText(content, 0, 0))
}

// AddImage appends an image element for src. The document stores the
// reference immediately; loading the pixels is the renderer's concern.
func (e *Editor) AddImage(src string, naturalWidth, naturalHeight float64) string {
	return e.add(document.NewImage(src, naturalWidth, naturalHeight, 0, 0))
}

func (e *Editor) add(el document.Element) string {
	origin := e.placement(el.Width, el.Height)
	el.X, el.Y = origin.X, origin.Y

	e.Mutate(func(els []document.Element) []document.Element {
		return append(els, el)
	}, MutateOptions{})
	e.selected = []string{el.ID}
	slog.Debug("element added", "id", el.ID, "type", el.Type)
	return el.ID
}

// placement returns the origin that centres a w by h box in the viewport.
func (e *Editor) placement(w, h float64) geom.Point {
	if !e.viewport.Mounted() {
		return fallbackOrigin
	}
	c := e.toContent(geom.Point{X: e.viewport.Width / 2, Y: e.viewport.Height / 2})
	return geom.Point{X: c.X - w/2, Y: c.Y - h/2}
}

// UpdateElements applies fn to each listed top-level element as one
// undoable step. Unknown ids are ignored; nothing is recorded when none
// match.
func (e *Editor) UpdateElements(ids []string, fn func(el *document.Element)) {
	if len(selection.Prune(ids, e.elements)) == 0 {
		return
	}
	e.Mutate(func(els []document.Element) []document.Element {
		for i := range els {
			if slices.Contains(ids, els[i].ID) {
				fn(&els[i])
				els[i].ClampSize()
			}
		}
		return els
	}, MutateOptions{})
}

// DeleteSelected removes every selected element.
func (e *Editor) DeleteSelected() {
	if len(e.selected) == 0 {
		return
	}
	ids := e.selected
	e.Mutate(func(els []document.Element) []document.Element {
		return slices.DeleteFunc(els, func(el document.Element) bool {
			return slices.Contains(ids, el.ID)
		})
	}, MutateOptions{})
	e.selected = nil
}

// BringToFront moves the selection to the end of the paint order,
// preserving its relative order.
func (e *Editor) BringToFront() {
	e.reorder(true)
}

// SendToBack moves the selection to the start of the paint order.
func (e *Editor) SendToBack() {
	e.reorder(false)
}

func (e *Editor) reorder(front bool) {
	if len(e.selected) == 0 {
		return
	}
	ids := e.selected
	e.Mutate(func(els []document.Element) []document.Element {
		var picked, rest []document.Element
		for _, el := range els {
			if slices.Contains(ids, el.ID) {
				picked = append(picked, el)
			} else {
				rest = append(rest, el)
			}
		}
		if front {
			return append(rest, picked...)
		}
		return append(picked, rest...)
	}, MutateOptions{})
}

// ReferencesImage reports whether any element, group children included,
// shows the image at src.
func (e *Editor) ReferencesImage(src string) bool {
	found := false
	document.Walk(e.elements, func(el document.Element, _ int) {
		if el.Image != nil && el.Image.Src == src {
			found = true
		}
	})
	return found
}

// Copy places deep copies of the selection on the clipboard.
func (e *Editor) Copy() {
	e.clipboard.Copy(selection.Selected(e.elements, e.selected))
}

// Paste appends fresh copies of the clipboard, offset from the previous
// paste, and selects exactly them.
func (e *Editor) Paste() {
	pasted := e.clipboard.Paste()
	if len(pasted) == 0 {
		return
	}
	e.Mutate(func(els []document.Element) []document.Element {
		return append(els, pasted...)
	}, MutateOptions{})
	e.selected = document.IDs(pasted)
	slog.Debug("pasted", "count", len(pasted))
}

// GroupElements replaces two or more selected elements with one group
// and selects it.
func (e *Editor) GroupElements() {
	if len(e.selected) < 2 {
		return
	}
	members := selection.Selected(e.elements, e.selected)
	group, ok := grouping.Group(members)
	if !ok {
		return
	}
	ids := document.IDs(members)
	e.Mutate(func(els []document.Element) []document.Element {
		els = slices.DeleteFunc(els, func(el document.Element) bool {
			return slices.Contains(ids, el.ID)
		})
		return append(els, group)
	}, MutateOptions{})
	e.selected = []string{group.ID}
	slog.Debug("grouped", "group", group.ID, "members", len(members))
}

// UngroupElements dissolves the single selected group into top-level
// elements and selects them.
func (e *Editor) UngroupElements() {
	if len(e.selected) != 1 {
		return
	}
	group, ok := document.Find(e.elements, e.selected[0])
	if !ok {
		return
	}
	children, ok := grouping.Ungroup(group)
	if !ok {
		return
	}
	e.Mutate(func(els []document.Element) []document.Element {
		els = slices.DeleteFunc(els, func(el document.Element) bool {
			return el.ID == group.ID
		})
		return append(els, children...)
	}, MutateOptions{})
	e.selected = document.IDs(children)
	slog.Debug("ungrouped", "group", group.ID, "children", len(children))
}
