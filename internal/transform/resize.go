// Package transform holds the pure geometry behind drag, resize and the
// resize-handle layer. Nothing here touches editor state.
package transform

import (
	"math"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/geom"
)

// MoveEpsilon is the displacement, in document units, a pointer must exceed
// before a press counts as a drag or resize rather than a click.
const MoveEpsilon = 0.01

// Moved reports whether delta is a real movement.
func Moved(delta geom.Point) bool {
	return math.Abs(delta.X) > MoveEpsilon || math.Abs(delta.Y) > MoveEpsilon
}

// Direction names one of the eight resize handles.
type Direction string

const (
	North     Direction = "n"
	NorthEast Direction = "ne"
	East      Direction = "e"
	SouthEast Direction = "se"
	South     Direction = "s"
	SouthWest Direction = "sw"
	West      Direction = "w"
	NorthWest Direction = "nw"
)

// AllDirections are the handles shown for a single element.
var AllDirections = []Direction{North, NorthEast, East, SouthEast, South, SouthWest, West, NorthWest}

// CornerDirections are the handles shown for a multi-selection.
var CornerDirections = []Direction{NorthEast, SouthEast, SouthWest, NorthWest}

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	switch d {
	case North, NorthEast, East, SouthEast, South, SouthWest, West, NorthWest:
		return true
	}
	return false
}

func (d Direction) hasNorth() bool { return d == North || d == NorthEast || d == NorthWest }
func (d Direction) hasSouth() bool { return d == South || d == SouthEast || d == SouthWest }
func (d Direction) hasEast() bool  { return d == East || d == NorthEast || d == SouthEast }
func (d Direction) hasWest() bool  { return d == West || d == NorthWest || d == SouthWest }

// ResizeBox applies a pointer delta to start through handle d. East/south
// grow the far edge; west/north move the near edge and keep the opposite
// edge anchored. Width and height never go below zero; at the clamp the
// dragged edge stops at the fixed edge.
func ResizeBox(start geom.Rect, d Direction, delta geom.Point) geom.Rect {
	out := start
	switch {
	case d.hasEast():
		out.Width = max(0, start.Width+delta.X)
	case d.hasWest():
		out.Width = max(0, start.Width-delta.X)
		out.X = start.X + start.Width - out.Width
	}
	switch {
	case d.hasSouth():
		out.Height = max(0, start.Height+delta.Y)
	case d.hasNorth():
		out.Height = max(0, start.Height-delta.Y)
		out.Y = start.Y + start.Height - out.Height
	}
	return out
}

// ResizeElement resizes a single element through handle d. The delta is
// taken into the element's rotated frame, so handles behave along the
// element's own axes; for unrotated elements this is ResizeBox applied to
// the element box.
func ResizeElement(start document.Element, d Direction, delta geom.Point) document.Element {
	m := geom.ElementTransform(start.X, start.Y, start.Rotation)
	inv := geom.Matrix2D{m[0], m[1], m[2], m[3], 0, 0}.Invert()
	local := inv.TransformPoint(delta)

	box := ResizeBox(geom.Rect{Width: start.Width, Height: start.Height}, d, local)
	origin := m.TransformPoint(geom.Point{X: box.X, Y: box.Y})

	out := start.Clone()
	out.X, out.Y = origin.X, origin.Y
	setSize(&out, box.Width, box.Height)
	return out
}

// Rescale maps every element from startBox onto newBox proportionally:
// position relative to the box origin and size are both multiplied by the
// per-axis scale. An axis whose start extent is zero keeps scale 1.
func Rescale(start []document.Element, startBox, newBox geom.Rect) []document.Element {
	sx := scaleFactor(newBox.Width, startBox.Width)
	sy := scaleFactor(newBox.Height, startBox.Height)

	out := make([]document.Element, len(start))
	for i, el := range start {
		c := el.Clone()
		c.X = newBox.X + (el.X-startBox.X)*sx
		c.Y = newBox.Y + (el.Y-startBox.Y)*sy
		setSize(&c, el.Width*sx, el.Height*sy)
		out[i] = c
	}
	return out
}

// Translate returns el moved so that its origin is start + delta.
func Translate(el document.Element, start, delta geom.Point) document.Element {
	out := el.Clone()
	out.X = start.X + delta.X
	out.Y = start.Y + delta.Y
	return out
}

func scaleFactor(next, prev float64) float64 {
	if prev == 0 {
		return 1
	}
	return next / prev
}

// setSize updates width and height and, for groups, rescales the children
// so their relative layout follows the group box.
func setSize(el *document.Element, w, h float64) {
	sx := scaleFactor(w, el.Width)
	sy := scaleFactor(h, el.Height)
	el.Width, el.Height = w, h
	el.ClampSize()
	if el.IsGroup() && (sx != 1 || sy != 1) {
		for i := range el.Children {
			scaleElement(&el.Children[i], sx, sy)
		}
	}
}

func scaleElement(el *document.Element, sx, sy float64) {
	el.X *= sx
	el.Y *= sy
	el.Width *= sx
	el.Height *= sy
	el.ClampSize()
	for i := range el.Children {
		scaleElement(&el.Children[i], sx, sy)
	}
}
