package scene

import (
	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/geom"
	"github.com/inamate/canvas/internal/selection"
	"github.com/inamate/canvas/internal/transform"
)

const (
	SelectionColor   = "#3b82f6"
	HandleFill       = "#ffffff"
	HandleHoverFill  = "#bfdbfe"
	MarqueeFill      = "rgba(59,130,246,0.12)"
	selectionBoxDash = 4.0
)

// Input is everything the projection reads. It is a value, so the graph
// never aliases live editor state beyond the element slice it walks.
type Input struct {
	Elements    []document.Element
	SelectedIDs []string
	Mode        Mode
	Zoom        float64
	Pan         geom.Point
	Marquee     *geom.Rect
	HoverHandle transform.Direction
}

// Build projects in onto a fresh scene graph.
func Build(in Input) *Graph {
	zoom := in.Zoom
	if zoom <= 0 {
		zoom = document.DefaultZoom
	}
	g := &Graph{
		NodesByID: make(map[string]*Node),
		View:      geom.ViewTransform(in.Pan, zoom),
		Zoom:      zoom,
		Mode:      in.Mode,
	}

	for _, el := range in.Elements {
		node := buildNode(g, el, nil, geom.Identity(), 1, el.ID, el.Locked)
		g.Elements = append(g.Elements, node)
	}

	buildChrome(g, in)
	return g
}

// buildNode recursively builds a Node from an element. Group children are
// positioned relative to their parent's frame.
func buildNode(g *Graph, el document.Element, parent *Node, parentWorld geom.Matrix2D, parentOpacity float64, topID string, locked bool) *Node {
	local := geom.ElementTransform(el.X, el.Y, el.Rotation)
	world := parentWorld.Multiply(local)

	node := &Node{
		ID:             el.ID,
		ElementID:      topID,
		Locked:         locked,
		LocalTransform: local,
		WorldTransform: world,
		Width:          el.Width,
		Height:         el.Height,
		Opacity:        parentOpacity * el.Opacity,
		Parent:         parent,
		Bounds:         world.TransformRect(geom.Rect{Width: el.Width, Height: el.Height}),
	}

	switch el.Type {
	case document.ElementTypeShape:
		node.Kind = KindShape
		if el.Shape != nil {
			node.Shape = el.Shape.Kind
			node.Fill = el.Shape.Fill
			node.Stroke = el.Shape.Stroke
			node.StrokeWidth = el.Shape.StrokeWidth
			node.Path = shapePath(el.Shape.Kind, el.Width, el.Height, el.Shape.CornerRadius)
		}
	case document.ElementTypeText:
		node.Kind = KindText
		if el.Text != nil {
			t := *el.Text
			node.Text = &TextRun{
				Content:    t.Content,
				FontFamily: t.FontFamily,
				FontSize:   t.FontSize,
				FontWeight: t.FontWeight,
				Align:      t.Align,
				Color:      t.Color,
				Background: t.Background,
				LineHeight: t.LineHeight,
			}
		}
	case document.ElementTypeImage:
		node.Kind = KindImage
		if el.Image != nil {
			node.Image = &ImageRef{Src: el.Image.Src, Filters: el.Image.Filters, BorderRadius: el.Image.BorderRadius}
		}
	case document.ElementTypeGroup:
		node.Kind = KindGroup
		for _, child := range el.Children {
			c := buildNode(g, child, node, world, node.Opacity, topID, locked)
			node.Children = append(node.Children, c)
			node.Bounds = node.Bounds.Union(c.Bounds)
		}
	}

	g.NodesByID[el.ID] = node
	return node
}

// buildChrome adds selection outlines, the multi-selection box, resize
// handles and the marquee rectangle. None of it is part of the document.
func buildChrome(g *Graph, in Input) {
	selected := selection.Selected(in.Elements, in.SelectedIDs)
	stroke := transform.OutlineWidth(g.Zoom)

	for _, el := range selected {
		frame := geom.ElementTransform(el.X, el.Y, el.Rotation)
		g.Chrome = append(g.Chrome, &Node{
			ID:             "outline:" + el.ID,
			Kind:           KindOutline,
			ElementID:      el.ID,
			WorldTransform: frame,
			Width:          el.Width,
			Height:         el.Height,
			Opacity:        1,
			Path:           rectPath(el.Width, el.Height),
			Stroke:         SelectionColor,
			StrokeWidth:    stroke,
			Bounds:         frame.TransformRect(geom.Rect{Width: el.Width, Height: el.Height}),
		})
	}

	switch {
	case len(selected) == 1 && !selected[0].Locked:
		el := selected[0]
		frame := geom.ElementTransform(el.X, el.Y, el.Rotation)
		g.handles = transform.Handles(frame, el.Width, el.Height, el.Rotation, transform.AllDirections)
	case len(selected) > 1:
		box, _ := selection.BoundingBox(selected)
		g.selectionBox = &box
		g.Chrome = append(g.Chrome, &Node{
			ID:             "selection-box",
			Kind:           KindBox,
			WorldTransform: geom.Translate(box.X, box.Y),
			Width:          box.Width,
			Height:         box.Height,
			Opacity:        1,
			Path:           rectPath(box.Width, box.Height),
			Stroke:         SelectionColor,
			StrokeWidth:    stroke,
			Dash:           []float64{selectionBoxDash / g.Zoom, selectionBoxDash / g.Zoom},
			Bounds:         box,
		})
		g.handles = transform.Handles(geom.Translate(box.X, box.Y), box.Width, box.Height, 0, transform.CornerDirections)
	}

	size := transform.HandleSize(g.Zoom)
	for _, h := range g.handles {
		fill := HandleFill
		if h.Direction == in.HoverHandle {
			fill = HandleHoverFill
		}
		frame := geom.ElementTransform(h.Center.X, h.Center.Y, h.Rotation).Multiply(geom.Translate(-size/2, -size/2))
		g.Chrome = append(g.Chrome, &Node{
			ID:             "handle:" + string(h.Direction),
			Kind:           KindHandle,
			WorldTransform: frame,
			Width:          size,
			Height:         size,
			Opacity:        1,
			Path:           rectPath(size, size),
			Fill:           fill,
			Stroke:         SelectionColor,
			StrokeWidth:    stroke,
			Bounds:         frame.TransformRect(geom.Rect{Width: size, Height: size}),
		})
	}

	if in.Marquee != nil && in.Mode != ModePan {
		m := *in.Marquee
		g.Chrome = append(g.Chrome, &Node{
			ID:             "marquee",
			Kind:           KindMarquee,
			WorldTransform: geom.Translate(m.X, m.Y),
			Width:          m.Width,
			Height:         m.Height,
			Opacity:        1,
			Path:           rectPath(m.Width, m.Height),
			Fill:           MarqueeFill,
			Stroke:         SelectionColor,
			StrokeWidth:    stroke,
			Bounds:         m,
		})
	}
}
