// Package grouping merges elements into coordinate-relative groups and
// splits them back out.
package grouping

import (
	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/geom"
	"github.com/inamate/canvas/internal/selection"
)

// Group wraps members into a new group positioned at their bounding box.
// Children are deep copies translated to be relative to the box origin.
// It reports false when fewer than two members are given.
func Group(members []document.Element) (document.Element, bool) {
	if len(members) < 2 {
		return document.Element{}, false
	}
	box, _ := selection.BoundingBox(members)

	children := make([]document.Element, len(members))
	for i, m := range members {
		c := m.Clone()
		c.X -= box.X
		c.Y -= box.Y
		children[i] = c
	}
	return document.NewGroup(children, box.X, box.Y, box.Width, box.Height), true
}

// Ungroup returns the children of group as top-level elements in absolute
// document coordinates. Each resurfaced element, including nested
// sub-groups and their descendants, gets a fresh ID; sub-groups keep their
// own children relative to themselves. The group's rotation is carried
// into its children so they stay where they were drawn. It reports false
// when group is not a group.
func Ungroup(group document.Element) ([]document.Element, bool) {
	if !group.IsGroup() {
		return nil, false
	}
	frame := geom.ElementTransform(group.X, group.Y, group.Rotation)

	out := make([]document.Element, len(group.Children))
	for i, child := range group.Children {
		c := document.Reidentify(child)
		origin := frame.TransformPoint(geom.Point{X: child.X, Y: child.Y})
		c.X, c.Y = origin.X, origin.Y
		c.Rotation = child.Rotation + group.Rotation
		c.Opacity = child.Opacity * group.Opacity
		out[i] = c
	}
	return out, true
}
