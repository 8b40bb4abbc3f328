package document

import (
	"github.com/inamate/canvas/internal/geom"
)

type ElementType string

const (
	ElementTypeShape ElementType = "shape"
	ElementTypeText  ElementType = "text"
	ElementTypeImage ElementType = "image"
	ElementTypeGroup ElementType = "group"
)

type ShapeKind string

const (
	ShapeRectangle ShapeKind = "rectangle"
	ShapeCircle    ShapeKind = "circle"
	ShapeTriangle  ShapeKind = "triangle"
)

type TextAlign string

const (
	AlignLeft   TextAlign = "left"
	AlignCenter TextAlign = "center"
	AlignRight  TextAlign = "right"
)

// Transparent is the background-color sentinel for text without a fill.
const Transparent = "transparent"

// Element is one item on the canvas. Type selects which of the variant
// payloads is populated; exactly one of Shape, Text, Image or Children
// (for groups) carries data.
type Element struct {
	ID       string      `json:"id"`
	Type     ElementType `json:"type"`
	Name     string      `json:"name"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
	Rotation float64     `json:"rotation"`
	Opacity  float64     `json:"opacity"`
	Locked   bool        `json:"locked,omitempty"`

	Shape    *ShapeData `json:"shape,omitempty"`
	Text     *TextData  `json:"text,omitempty"`
	Image    *ImageData `json:"image,omitempty"`
	Children []Element  `json:"children,omitempty"` // relative to the group's X/Y
}

type ShapeData struct {
	Kind         ShapeKind `json:"kind"`
	Fill         string    `json:"fill"`
	Stroke       string    `json:"stroke"`
	StrokeWidth  float64   `json:"strokeWidth"`
	CornerRadius float64   `json:"cornerRadius,omitempty"` // rectangle only
}

type TextData struct {
	Content    string    `json:"content"`
	FontFamily string    `json:"fontFamily"`
	FontSize   float64   `json:"fontSize"`
	FontWeight string    `json:"fontWeight"`
	Align      TextAlign `json:"align"`
	Color      string    `json:"color"`
	Background string    `json:"background"`
	LineHeight float64   `json:"lineHeight"`
}

type ImageFilters struct {
	Grayscale  bool    `json:"grayscale"`
	Blur       float64 `json:"blur"`
	Brightness float64 `json:"brightness"`
}

type ImageData struct {
	Src          string       `json:"src"`
	Filters      ImageFilters `json:"filters"`
	BorderRadius float64      `json:"borderRadius"`
}

// Bounds returns the element's axis-aligned box, ignoring rotation.
func (el Element) Bounds() geom.Rect {
	return geom.Rect{X: el.X, Y: el.Y, Width: el.Width, Height: el.Height}
}

// IsGroup reports whether the element is a group.
func (el Element) IsGroup() bool {
	return el.Type == ElementTypeGroup
}

// Clone returns a deep copy of the element. No pointer or slice in the
// result is shared with el.
func (el Element) Clone() Element {
	out := el
	if el.Shape != nil {
		s := *el.Shape
		out.Shape = &s
	}
	if el.Text != nil {
		t := *el.Text
		out.Text = &t
	}
	if el.Image != nil {
		img := *el.Image
		out.Image = &img
	}
	if el.Children != nil {
		out.Children = CloneElements(el.Children)
	}
	return out
}

// CloneElements deep-copies an element slice. A nil input yields an empty,
// non-nil slice so snapshots always serialize as arrays.
func CloneElements(els []Element) []Element {
	out := make([]Element, len(els))
	for i := range els {
		out[i] = els[i].Clone()
	}
	return out
}

// TrimVariants drops payloads that do not belong to the element's type.
func (el *Element) TrimVariants() {
	if el.Type != ElementTypeShape {
		el.Shape = nil
	}
	if el.Type != ElementTypeText {
		el.Text = nil
	}
	if el.Type != ElementTypeImage {
		el.Image = nil
	}
}

// ClampSize forces width and height to be non-negative.
func (el *Element) ClampSize() {
	el.Width = max(0, el.Width)
	el.Height = max(0, el.Height)
}

// Find returns the top-level element with the given ID.
func Find(els []Element, id string) (Element, bool) {
	for _, el := range els {
		if el.ID == id {
			return el, true
		}
	}
	return Element{}, false
}

// IndexOf returns the position of the top-level element with the given ID, or -1.
func IndexOf(els []Element, id string) int {
	for i, el := range els {
		if el.ID == id {
			return i
		}
	}
	return -1
}

// IDs returns the IDs of the top-level elements in document order.
func IDs(els []Element) []string {
	ids := make([]string, len(els))
	for i, el := range els {
		ids[i] = el.ID
	}
	return ids
}

// Walk visits every element depth-first, including group children.
func Walk(els []Element, fn func(el Element, depth int)) {
	var visit func(list []Element, depth int)
	visit = func(list []Element, depth int) {
		for _, el := range list {
			fn(el, depth)
			if el.IsGroup() {
				visit(el.Children, depth+1)
			}
		}
	}
	visit(els, 0)
}
