// Package scene projects editor state onto a retained, hit-testable scene
// graph and compiles it into draw commands.
package scene

import (
	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/geom"
	"github.com/inamate/canvas/internal/transform"
)

// Mode is the pointer interaction mode.
type Mode string

const (
	ModeSelect Mode = "select"
	ModePan    Mode = "pan"
)

// Kind tells renderers what a node paints.
type Kind string

const (
	KindShape   Kind = "shape"
	KindText    Kind = "text"
	KindImage   Kind = "image"
	KindGroup   Kind = "group"
	KindOutline Kind = "outline"
	KindBox     Kind = "selection-box"
	KindHandle  Kind = "handle"
	KindMarquee Kind = "marquee"
)

// Graph is the render-ready projection of the document. It is rebuilt
// whenever state changes and never holds data the editor does not.
type Graph struct {
	Elements  []*Node // top-level element nodes, back to front
	Chrome    []*Node // selection outlines, handles and marquee, drawn over elements
	NodesByID map[string]*Node
	View      geom.Matrix2D
	Zoom      float64
	Mode      Mode

	handles      []transform.Handle
	selectionBox *geom.Rect
}

// Node is a resolved element or overlay with its world transform computed
// and inherited properties applied.
type Node struct {
	ID        string
	Kind      Kind
	ElementID string // top-level element this node belongs to, for hit routing
	Locked    bool

	WorldTransform geom.Matrix2D
	LocalTransform geom.Matrix2D
	Width          float64
	Height         float64
	Opacity        float64

	Parent   *Node
	Children []*Node

	Path        []PathCommand
	Fill        string
	Stroke      string
	StrokeWidth float64
	Dash        []float64

	Shape document.ShapeKind
	Text  *TextRun
	Image *ImageRef

	Bounds geom.Rect // axis-aligned box in document space
}

// PathCommand is one Canvas2D-style path segment: ["M", x, y], ["L", x, y],
// ["Q", cx, cy, x, y], ["C", x1, y1, x2, y2, x, y] or ["Z"].
type PathCommand []any

// TextRun carries what a renderer needs to lay out a text element.
type TextRun struct {
	Content    string             `json:"content"`
	FontFamily string             `json:"fontFamily"`
	FontSize   float64            `json:"fontSize"`
	FontWeight string             `json:"fontWeight"`
	Align      document.TextAlign `json:"align"`
	Color      string             `json:"color"`
	Background string             `json:"background,omitempty"`
	LineHeight float64            `json:"lineHeight"`
}

// ImageRef points a renderer at an image source and how to treat it.
type ImageRef struct {
	Src          string                `json:"src"`
	Filters      document.ImageFilters `json:"filters"`
	BorderRadius float64               `json:"borderRadius,omitempty"`
}

// Handles returns the resize handles currently shown.
func (g *Graph) Handles() []transform.Handle {
	return g.handles
}

// SelectionBox returns the multi-selection bounding box, if one is shown.
func (g *Graph) SelectionBox() (geom.Rect, bool) {
	if g.selectionBox == nil {
		return geom.Rect{}, false
	}
	return *g.selectionBox, true
}

// contains reports whether document point p lies inside the node's own
// painted area, tested in the node's local frame.
func (n *Node) contains(p geom.Point) bool {
	local := n.WorldTransform.Invert().TransformPoint(p)
	if local.X < 0 || local.Y < 0 || local.X > n.Width || local.Y > n.Height {
		return false
	}
	if n.Kind != KindShape {
		return true
	}
	switch n.Shape {
	case document.ShapeCircle:
		rx, ry := n.Width/2, n.Height/2
		if rx == 0 || ry == 0 {
			return false
		}
		dx, dy := (local.X-rx)/rx, (local.Y-ry)/ry
		return dx*dx+dy*dy <= 1
	case document.ShapeTriangle:
		return inTriangle(local, geom.Point{X: n.Width / 2}, geom.Point{X: n.Width, Y: n.Height}, geom.Point{Y: n.Height})
	default:
		return true
	}
}

func inTriangle(p, a, b, c geom.Point) bool {
	cross := func(o, u, v geom.Point) float64 {
		return (u.X-o.X)*(v.Y-o.Y) - (u.Y-o.Y)*(v.X-o.X)
	}
	d1, d2, d3 := cross(a, b, p), cross(b, c, p), cross(c, a, p)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}
