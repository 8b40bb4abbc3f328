package document

import (
	"encoding/json"
	"log/slog"
	"math"

	"github.com/inamate/canvas/internal/geom"
	"github.com/inamate/canvas/internal/typeid"
)

const (
	MinZoom     = 0.25
	MaxZoom     = 3.0
	DefaultZoom = 1.0
)

// Persisted is the serializable part of the editor state: what is written
// to and read back from the local store.
type Persisted struct {
	Elements []Element  `json:"elements"`
	Pan      geom.Point `json:"pan"`
	Zoom     float64    `json:"zoom"`
}

// NewPersisted returns the default empty document.
func NewPersisted() Persisted {
	return Persisted{Elements: []Element{}, Zoom: DefaultZoom}
}

// ClampZoom limits z to [MinZoom, MaxZoom]. Non-finite values become DefaultZoom.
func ClampZoom(z float64) float64 {
	if math.IsNaN(z) || math.IsInf(z, 0) || z <= 0 {
		return DefaultZoom
	}
	return min(MaxZoom, max(MinZoom, z))
}

// Decode parses persisted state. It never fails: a missing or corrupt
// document yields the default, and each top-level field falls back to its
// own default independently. Within an element each field falls back the
// same way; only elements that are not objects or have an unknown type
// are dropped.
func Decode(data []byte) Persisted {
	doc := NewPersisted()
	if len(data) == 0 {
		return doc
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		slog.Warn("corrupt persisted document, using defaults", "error", err)
		return doc
	}

	if raw, ok := fields["zoom"]; ok {
		var z float64
		if err := json.Unmarshal(raw, &z); err != nil {
			slog.Warn("invalid persisted zoom", "error", err)
		} else {
			doc.Zoom = ClampZoom(z)
		}
	}

	if raw, ok := fields["pan"]; ok {
		var pan geom.Point
		if err := json.Unmarshal(raw, &pan); err != nil || !finite(pan.X) || !finite(pan.Y) {
			slog.Warn("invalid persisted pan", "error", err)
		} else {
			doc.Pan = pan
		}
	}

	if raw, ok := fields["elements"]; ok {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			slog.Warn("invalid persisted elements", "error", err)
		} else {
			seen := make(map[string]bool)
			for i, item := range items {
				el, ok := decodeElement(item)
				if !ok {
					slog.Warn("dropping undecodable element", "index", i)
					continue
				}
				dedupeIDs(&el, seen)
				doc.Elements = append(doc.Elements, el)
			}
		}
	}

	return doc
}

// Encode serializes persisted state.
func Encode(doc Persisted) ([]byte, error) {
	if doc.Elements == nil {
		doc.Elements = []Element{}
	}
	return json.Marshal(doc)
}

// decodeElement recovers one element. Each field decodes on its own, so a
// bad value falls back to its default instead of losing the element or its
// siblings. Only a non-object or an unknown type is dropped.
func decodeElement(raw json.RawMessage) (Element, bool) {
	el := Element{Opacity: 1}
	var shape, text, image json.RawMessage
	var children []json.RawMessage
	decoded, ok := decodeFields(raw, map[string]any{
		"id":       &el.ID,
		"type":     &el.Type,
		"name":     &el.Name,
		"x":        &el.X,
		"y":        &el.Y,
		"width":    &el.Width,
		"height":   &el.Height,
		"rotation": &el.Rotation,
		"opacity":  &el.Opacity,
		"locked":   &el.Locked,
		"shape":    &shape,
		"text":     &text,
		"image":    &image,
		"children": &children,
	})
	if !ok {
		return Element{}, false
	}

	switch el.Type {
	case ElementTypeShape:
		if decoded["shape"] {
			s := &ShapeData{Kind: ShapeRectangle, Fill: DefaultFill, Stroke: DefaultStroke}
			if decodeVariant(shape, map[string]any{
				"kind":         &s.Kind,
				"fill":         &s.Fill,
				"stroke":       &s.Stroke,
				"strokeWidth":  &s.StrokeWidth,
				"cornerRadius": &s.CornerRadius,
			}) {
				el.Shape = s
			}
		}
	case ElementTypeText:
		if decoded["text"] {
			t := &TextData{}
			if decodeVariant(text, map[string]any{
				"content":    &t.Content,
				"fontFamily": &t.FontFamily,
				"fontSize":   &t.FontSize,
				"fontWeight": &t.FontWeight,
				"align":      &t.Align,
				"color":      &t.Color,
				"background": &t.Background,
				"lineHeight": &t.LineHeight,
			}) {
				el.Text = t
			}
		}
	case ElementTypeImage:
		if decoded["image"] {
			img := &ImageData{Filters: ImageFilters{Brightness: 1}}
			var filters json.RawMessage
			if decodeVariant(image, map[string]any{
				"src":          &img.Src,
				"filters":      &filters,
				"borderRadius": &img.BorderRadius,
			}) {
				if len(filters) > 0 {
					decodeVariant(filters, map[string]any{
						"grayscale":  &img.Filters.Grayscale,
						"blur":       &img.Filters.Blur,
						"brightness": &img.Filters.Brightness,
					})
				}
				el.Image = img
			}
		}
	case ElementTypeGroup:
		el.Children = []Element{}
		for i, c := range children {
			child, ok := decodeElement(c)
			if !ok {
				slog.Warn("dropping undecodable child", "group", el.ID, "index", i)
				continue
			}
			el.Children = append(el.Children, child)
		}
	}

	if !normalize(&el) {
		return Element{}, false
	}
	return el, true
}

// decodeFields decodes each named field of a JSON object into its target
// independently. A field that fails keeps the target's current value. It
// reports which fields decoded and false when raw is not an object.
func decodeFields(raw json.RawMessage, targets map[string]any) (map[string]bool, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, false
	}
	decoded := make(map[string]bool, len(fields))
	for key, target := range targets {
		v, ok := fields[key]
		if !ok || string(v) == "null" {
			continue
		}
		if err := json.Unmarshal(v, target); err != nil {
			slog.Warn("invalid persisted field, using default", "field", key, "error", err)
			continue
		}
		decoded[key] = true
	}
	return decoded, true
}

func decodeVariant(raw json.RawMessage, targets map[string]any) bool {
	_, ok := decodeFields(raw, targets)
	return ok
}

// normalize fills variant defaults and repairs out-of-range numbers. It
// reports false for elements of unknown type.
func normalize(el *Element) bool {
	switch el.Type {
	case ElementTypeShape:
		if el.Shape == nil {
			el.Shape = &ShapeData{Kind: ShapeRectangle, Fill: DefaultFill, Stroke: DefaultStroke}
		}
		if el.Shape.Kind == "" {
			el.Shape.Kind = ShapeRectangle
		}
	case ElementTypeText:
		if el.Text == nil {
			el.Text = &TextData{}
		}
		if el.Text.FontSize <= 0 {
			el.Text.FontSize = DefaultFontSize
		}
		if el.Text.FontFamily == "" {
			el.Text.FontFamily = DefaultFontFamily
		}
		if el.Text.LineHeight <= 0 {
			el.Text.LineHeight = 1.2
		}
		if el.Text.Background == "" {
			el.Text.Background = Transparent
		}
		if el.Text.Align == "" {
			el.Text.Align = AlignLeft
		}
	case ElementTypeImage:
		if el.Image == nil {
			el.Image = &ImageData{Filters: ImageFilters{Brightness: 1}}
		}
	case ElementTypeGroup:
		if el.Children == nil {
			el.Children = []Element{}
		}
	default:
		return false
	}

	for _, v := range []*float64{&el.X, &el.Y, &el.Width, &el.Height, &el.Rotation} {
		if !finite(*v) {
			*v = 0
		}
	}
	if !finite(el.Opacity) {
		el.Opacity = 1
	}
	el.ClampSize()
	return true
}

func dedupeIDs(el *Element, seen map[string]bool) {
	if el.ID == "" || seen[el.ID] {
		if el.IsGroup() {
			el.ID = typeid.NewGroupID()
		} else {
			el.ID = typeid.NewElementID()
		}
	}
	seen[el.ID] = true
	for i := range el.Children {
		dedupeIDs(&el.Children[i], seen)
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
