package document

import (
	"github.com/inamate/canvas/internal/typeid"
)

const (
	DefaultShapeSize  = 100.0
	DefaultFill       = "#4f46e5"
	DefaultStroke     = "#312e81"
	DefaultTextColor  = "#111827"
	DefaultFontFamily = "Inter"
	DefaultFontSize   = 24.0
	MaxImageSize      = 400.0
)

// NewShape returns a shape element of the given kind at (x, y) with a fresh ID.
func NewShape(kind ShapeKind, x, y float64) Element {
	el := Element{
		ID:      typeid.NewElementID(),
		Type:    ElementTypeShape,
		Name:    shapeName(kind),
		X:       x,
		Y:       y,
		Width:   DefaultShapeSize,
		Height:  DefaultShapeSize,
		Opacity: 1,
		Shape: &ShapeData{
			Kind:        kind,
			Fill:        DefaultFill,
			Stroke:      DefaultStroke,
			StrokeWidth: 0,
		},
	}
	return el
}

func shapeName(kind ShapeKind) string {
	switch kind {
	case ShapeCircle:
		return "Circle"
	case ShapeTriangle:
		return "Triangle"
	default:
		return "Rectangle"
	}
}

// NewText returns a text element with default typography.
func NewText(content string, x, y float64) Element {
	return Element{
		ID:      typeid.NewElementID(),
		Type:    ElementTypeText,
		Name:    "Text",
		X:       x,
		Y:       y,
		Width:   200,
		Height:  DefaultFontSize * 1.2,
		Opacity: 1,
		Text: &TextData{
			Content:    content,
			FontFamily: DefaultFontFamily,
			FontSize:   DefaultFontSize,
			FontWeight: "normal",
			Align:      AlignLeft,
			Color:      DefaultTextColor,
			Background: Transparent,
			LineHeight: 1.2,
		},
	}
}

// NewImage returns an image element. The natural size is scaled down
// uniformly so the longer side does not exceed MaxImageSize.
func NewImage(src string, naturalWidth, naturalHeight, x, y float64) Element {
	w, h := max(0, naturalWidth), max(0, naturalHeight)
	if longest := max(w, h); longest > MaxImageSize {
		f := MaxImageSize / longest
		w, h = w*f, h*f
	}
	return Element{
		ID:      typeid.NewElementID(),
		Type:    ElementTypeImage,
		Name:    "Image",
		X:       x,
		Y:       y,
		Width:   w,
		Height:  h,
		Opacity: 1,
		Image: &ImageData{
			Src:     src,
			Filters: ImageFilters{Brightness: 1},
		},
	}
}

// NewGroup returns a group element. Children must already be relative to (x, y).
func NewGroup(children []Element, x, y, width, height float64) Element {
	return Element{
		ID:       typeid.NewGroupID(),
		Type:     ElementTypeGroup,
		Name:     "Group",
		X:        x,
		Y:        y,
		Width:    width,
		Height:   height,
		Opacity:  1,
		Children: children,
	}
}

// Reidentify returns a deep copy of el in which el and every nested child
// carry fresh IDs.
func Reidentify(el Element) Element {
	out := el.Clone()
	reidentify(&out)
	return out
}

func reidentify(el *Element) {
	if el.IsGroup() {
		el.ID = typeid.NewGroupID()
	} else {
		el.ID = typeid.NewElementID()
	}
	for i := range el.Children {
		reidentify(&el.Children[i])
	}
}
