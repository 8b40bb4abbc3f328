package scene

import (
	"github.com/inamate/canvas/internal/document"
)

// Layer separates document content from editor chrome so exports can
// leave the chrome out.
type Layer string

const (
	LayerContent Layer = "content"
	LayerChrome  Layer = "chrome"
)

// DrawCommand is a single drawing operation. Transforms map the node's
// local frame straight to screen space, view included.
type DrawCommand struct {
	Op          string             `json:"op"` // "path", "text" or "image"
	Layer       Layer              `json:"layer"`
	Kind        Kind               `json:"kind"`
	ObjectID    string             `json:"objectId,omitempty"`
	Transform   []float64          `json:"transform"`
	Width       float64            `json:"width"`
	Height      float64            `json:"height"`
	Path        []PathCommand      `json:"path,omitempty"`
	Shape       document.ShapeKind `json:"shape,omitempty"`
	Fill        string             `json:"fill,omitempty"`
	Stroke      string             `json:"stroke,omitempty"`
	StrokeWidth float64            `json:"strokeWidth,omitempty"`
	Dash        []float64          `json:"dash,omitempty"`
	Opacity     float64            `json:"opacity"`
	Text        *TextRun           `json:"text,omitempty"`
	Image       *ImageRef          `json:"image,omitempty"`
}

// CompileDrawCommands flattens the graph into painter's order, back to
// front. Chrome is appended after all content when includeChrome is set.
func CompileDrawCommands(g *Graph, includeChrome bool) []DrawCommand {
	if g == nil {
		return nil
	}
	commands := make([]DrawCommand, 0, len(g.NodesByID)+len(g.Chrome))
	for _, n := range g.Elements {
		compileNode(g, n, LayerContent, &commands)
	}
	if includeChrome {
		for _, n := range g.Chrome {
			compileNode(g, n, LayerChrome, &commands)
		}
	}
	return commands
}

func compileNode(g *Graph, node *Node, layer Layer, commands *[]DrawCommand) {
	if node == nil {
		return
	}

	cmd := DrawCommand{
		Layer:     layer,
		Kind:      node.Kind,
		ObjectID:  node.ID,
		Transform: g.View.Multiply(node.WorldTransform).ToSlice(),
		Width:     node.Width,
		Height:    node.Height,
		Opacity:   node.Opacity,
	}

	switch node.Kind {
	case KindGroup:
		// Groups paint nothing themselves.
	case KindText:
		if node.Text != nil {
			cmd.Op = "text"
			cmd.Text = node.Text
			*commands = append(*commands, cmd)
		}
	case KindImage:
		if node.Image != nil {
			cmd.Op = "image"
			cmd.Image = node.Image
			*commands = append(*commands, cmd)
		}
	default:
		if len(node.Path) > 0 {
			cmd.Op = "path"
			cmd.Path = node.Path
			cmd.Shape = node.Shape
			cmd.Fill = node.Fill
			cmd.Stroke = node.Stroke
			cmd.StrokeWidth = node.StrokeWidth
			cmd.Dash = node.Dash
			*commands = append(*commands, cmd)
		}
	}

	for _, child := range node.Children {
		compileNode(g, child, layer, commands)
	}
}
