package document

import (
	"reflect"
	"testing"
)

func TestCloneIsDeep(t *testing.T) {
	child := NewShape(ShapeCircle, 1, 2)
	group := NewGroup([]Element{child}, 10, 10, 100, 100)

	clone := group.Clone()
	clone.Children[0].X = 99
	clone.Children[0].Shape.Fill = "#000000"

	if group.Children[0].X != 1 {
		t.Errorf("original child X changed to %v", group.Children[0].X)
	}
	if group.Children[0].Shape.Fill != DefaultFill {
		t.Errorf("original child fill changed to %q", group.Children[0].Shape.Fill)
	}
}

func TestCloneElementsNilYieldsEmpty(t *testing.T) {
	out := CloneElements(nil)
	if out == nil || len(out) != 0 {
		t.Fatalf("CloneElements(nil) = %#v, want empty non-nil slice", out)
	}
}

func TestReidentifyAssignsFreshIDsRecursively(t *testing.T) {
	inner := NewGroup([]Element{NewShape(ShapeRectangle, 0, 0)}, 0, 0, 100, 100)
	outer := NewGroup([]Element{inner, NewText("a", 0, 0)}, 0, 0, 200, 200)

	before := map[string]bool{}
	Walk([]Element{outer}, func(el Element, _ int) { before[el.ID] = true })

	fresh := Reidentify(outer)
	count := 0
	Walk([]Element{fresh}, func(el Element, _ int) {
		count++
		if before[el.ID] {
			t.Errorf("id %q was reused", el.ID)
		}
	})
	if count != len(before) {
		t.Errorf("walked %d elements, want %d", count, len(before))
	}
}

func TestNewImageCapsLongestSide(t *testing.T) {
	img := NewImage("data:image/png;base64,AAAA", 800, 400, 0, 0)
	if img.Width != MaxImageSize || img.Height != MaxImageSize/2 {
		t.Errorf("got %vx%v, want %vx%v", img.Width, img.Height, MaxImageSize, MaxImageSize/2)
	}
}

func TestDecodeMissingOrCorrupt(t *testing.T) {
	for _, input := range []string{"", "not json", "[]", "null"} {
		doc := Decode([]byte(input))
		if doc.Zoom != DefaultZoom || doc.Pan.X != 0 || doc.Pan.Y != 0 || len(doc.Elements) != 0 {
			t.Errorf("Decode(%q) = %+v, want defaults", input, doc)
		}
		if doc.Elements == nil {
			t.Errorf("Decode(%q) returned nil elements", input)
		}
	}
}

func TestDecodeFallsBackPerField(t *testing.T) {
	input := `{
		"zoom": "huge",
		"pan": {"x": 15, "y": -4},
		"elements": [
			{"id": "a", "type": "shape", "x": 1, "y": 2, "width": -5, "height": 10},
			{"id": "b", "type": "sticker"},
			{"id": "a", "type": "text", "text": {"content": "hi"}},
			42
		]
	}`
	doc := Decode([]byte(input))

	if doc.Zoom != DefaultZoom {
		t.Errorf("zoom = %v, want default", doc.Zoom)
	}
	if doc.Pan.X != 15 || doc.Pan.Y != -4 {
		t.Errorf("pan = %+v, want {15 -4}", doc.Pan)
	}
	if len(doc.Elements) != 2 {
		t.Fatalf("got %d elements, want 2", len(doc.Elements))
	}

	shape := doc.Elements[0]
	if shape.Width != 0 {
		t.Errorf("negative width not clamped: %v", shape.Width)
	}
	if shape.Opacity != 1 {
		t.Errorf("missing opacity should default to 1, got %v", shape.Opacity)
	}
	if shape.Shape == nil || shape.Shape.Kind != ShapeRectangle {
		t.Errorf("shape payload not defaulted: %+v", shape.Shape)
	}

	text := doc.Elements[1]
	if text.ID == "a" {
		t.Error("duplicate id was not replaced")
	}
	if text.Text.FontSize != DefaultFontSize || text.Text.Background != Transparent {
		t.Errorf("text defaults not applied: %+v", text.Text)
	}
}

func TestDecodeRecoversBadFieldsInsideGroups(t *testing.T) {
	input := `{"elements": [{
		"id": "g", "type": "group", "x": 10, "y": 10, "width": 100, "height": 100,
		"children": [
			{"id": "ok", "type": "shape", "x": 5, "y": 5, "width": 20, "height": 20},
			{"id": "bad", "type": "shape", "x": "oops", "y": 7, "width": 20, "height": 20,
				"shape": {"kind": "circle", "fill": 12}},
			"junk"
		]
	}, {
		"id": "img", "type": "image", "width": "wide", "height": 40,
		"image": {"src": "asset_x.png", "filters": {"blur": "lots", "grayscale": true}}
	}]}`
	doc := Decode([]byte(input))

	if len(doc.Elements) != 2 {
		t.Fatalf("got %d elements, want 2", len(doc.Elements))
	}
	group := doc.Elements[0]
	if group.ID != "g" || len(group.Children) != 2 {
		t.Fatalf("group = %+v, want 2 recovered children", group)
	}
	bad := group.Children[1]
	if bad.ID != "bad" || bad.X != 0 || bad.Y != 7 {
		t.Errorf("bad child = %+v, want x defaulted and y kept", bad)
	}
	if bad.Shape == nil || bad.Shape.Kind != ShapeCircle || bad.Shape.Fill != DefaultFill {
		t.Errorf("bad child shape = %+v, want circle with default fill", bad.Shape)
	}

	img := doc.Elements[1]
	if img.Width != 0 || img.Height != 40 {
		t.Errorf("image size = %vx%v, want 0x40", img.Width, img.Height)
	}
	if img.Image == nil || img.Image.Src != "asset_x.png" || !img.Image.Filters.Grayscale ||
		img.Image.Filters.Blur != 0 || img.Image.Filters.Brightness != 1 {
		t.Errorf("image payload = %+v", img.Image)
	}
}

func TestDecodeClampsZoom(t *testing.T) {
	if z := Decode([]byte(`{"zoom": 10}`)).Zoom; z != MaxZoom {
		t.Errorf("zoom = %v, want %v", z, MaxZoom)
	}
	if z := Decode([]byte(`{"zoom": 0.01}`)).Zoom; z != MinZoom {
		t.Errorf("zoom = %v, want %v", z, MinZoom)
	}
}

func TestEncodeDecodeSample(t *testing.T) {
	sample := NewSampleDocument()
	data, err := Encode(sample)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got := Decode(data)
	if !reflect.DeepEqual(got, sample) {
		t.Errorf("sample document did not survive encode/decode\n got: %+v\nwant: %+v", got, sample)
	}
}
