package scene

import (
	"encoding/json"
	"testing"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/geom"
	"github.com/inamate/canvas/internal/transform"
)

func rect(x, y, w, h float64) document.Element {
	el := document.NewShape(document.ShapeRectangle, x, y)
	el.Width, el.Height = w, h
	return el
}

func TestBuildRegistersNestedNodes(t *testing.T) {
	doc := document.NewSampleDocument()
	g := Build(Input{Elements: doc.Elements, Zoom: 1, Mode: ModeSelect})

	count := 0
	document.Walk(doc.Elements, func(el document.Element, _ int) {
		count++
		if _, ok := g.NodesByID[el.ID]; !ok {
			t.Errorf("node %q (%s) missing", el.ID, el.Name)
		}
	})
	if len(g.NodesByID) != count {
		t.Errorf("registered %d nodes, want %d", len(g.NodesByID), count)
	}
}

func TestGroupChildrenUseParentFrame(t *testing.T) {
	child := rect(10, 20, 5, 5)
	group := document.NewGroup([]document.Element{child}, 100, 100, 15, 25)
	g := Build(Input{Elements: []document.Element{group}, Zoom: 1})

	n := g.NodesByID[child.ID]
	origin := n.WorldTransform.TransformPoint(geom.Point{})
	if origin.X != 110 || origin.Y != 120 {
		t.Errorf("child origin = %+v, want (110, 120)", origin)
	}
	if n.ElementID != group.ID {
		t.Errorf("child routes to %q, want group %q", n.ElementID, group.ID)
	}
}

func TestHitTestTopmostWins(t *testing.T) {
	back := rect(0, 0, 100, 100)
	front := rect(50, 50, 100, 100)
	g := Build(Input{Elements: []document.Element{back, front}, Zoom: 1})

	tests := []struct {
		p    geom.Point
		want string
	}{
		{geom.Point{X: 10, Y: 10}, back.ID},
		{geom.Point{X: 75, Y: 75}, front.ID},
		{geom.Point{X: 140, Y: 140}, front.ID},
		{geom.Point{X: 300, Y: 300}, ""},
	}
	for _, tt := range tests {
		got := HitTest(g, tt.p)
		if got.ElementID != tt.want {
			t.Errorf("HitTest(%+v) = %+v, want element %q", tt.p, got, tt.want)
		}
	}
}

func TestHitTestRotatedAndCircle(t *testing.T) {
	bar := rect(0, 0, 100, 10)
	bar.Rotation = 90
	circle := document.NewShape(document.ShapeCircle, 200, 0)

	g := Build(Input{Elements: []document.Element{bar, circle}, Zoom: 1})

	if got := HitTest(g, geom.Point{X: -5, Y: 50}); got.ElementID != bar.ID {
		t.Errorf("rotated bar not hit: %+v", got)
	}
	if got := HitTest(g, geom.Point{X: 50, Y: 5}); got.Kind != TargetBackground {
		t.Errorf("unrotated footprint hit: %+v", got)
	}
	if got := HitTest(g, geom.Point{X: 250, Y: 50}); got.ElementID != circle.ID {
		t.Errorf("circle centre not hit: %+v", got)
	}
	if got := HitTest(g, geom.Point{X: 202, Y: 2}); got.Kind != TargetBackground {
		t.Errorf("circle bounding corner hit: %+v", got)
	}
}

func TestHitTestGroupRoutesToTopLevel(t *testing.T) {
	child := rect(0, 0, 10, 10)
	group := document.NewGroup([]document.Element{child, rect(40, 40, 10, 10)}, 0, 0, 50, 50)
	g := Build(Input{Elements: []document.Element{group}, Zoom: 1})

	if got := HitTest(g, geom.Point{X: 5, Y: 5}); got.ElementID != group.ID || got.NodeID != child.ID {
		t.Errorf("got %+v, want group %q via child %q", got, group.ID, child.ID)
	}
	// The gap between children is not part of the group.
	if got := HitTest(g, geom.Point{X: 25, Y: 25}); got.Kind != TargetBackground {
		t.Errorf("gap between children hit: %+v", got)
	}
}

func TestHitTestPanModeIsBackground(t *testing.T) {
	el := rect(0, 0, 100, 100)
	g := Build(Input{Elements: []document.Element{el}, SelectedIDs: []string{el.ID}, Zoom: 1, Mode: ModePan})
	if got := HitTest(g, geom.Point{X: 50, Y: 50}); got.Kind != TargetBackground {
		t.Errorf("pan mode hit %+v", got)
	}
}

func TestHandlesForSingleSelection(t *testing.T) {
	el := rect(0, 0, 100, 50)
	g := Build(Input{Elements: []document.Element{el}, SelectedIDs: []string{el.ID}, Zoom: 1})

	if n := len(g.Handles()); n != 8 {
		t.Fatalf("got %d handles, want 8", n)
	}
	if got := HitTest(g, geom.Point{X: 100, Y: 25}); got.Kind != TargetHandle || got.Handle != transform.East {
		t.Errorf("east handle not hit: %+v", got)
	}
	if _, ok := g.SelectionBox(); ok {
		t.Error("single selection should not show a selection box")
	}
}

func TestNoHandlesForLockedSingleSelection(t *testing.T) {
	el := rect(0, 0, 100, 50)
	el.Locked = true
	g := Build(Input{Elements: []document.Element{el}, SelectedIDs: []string{el.ID}, Zoom: 1})
	if n := len(g.Handles()); n != 0 {
		t.Errorf("locked element shows %d handles", n)
	}
	if got := HitTest(g, geom.Point{X: 50, Y: 25}); !got.Locked {
		t.Errorf("locked flag not reported: %+v", got)
	}
}

func TestMultiSelectionShowsCornersAndBox(t *testing.T) {
	a := rect(0, 0, 10, 10)
	b := rect(90, 90, 10, 10)
	g := Build(Input{Elements: []document.Element{a, b}, SelectedIDs: []string{a.ID, b.ID}, Zoom: 1})

	if n := len(g.Handles()); n != 4 {
		t.Fatalf("got %d handles, want 4", n)
	}
	box, ok := g.SelectionBox()
	if !ok || box != (geom.Rect{Width: 100, Height: 100}) {
		t.Fatalf("selection box = %+v %v", box, ok)
	}
	if got := HitTest(g, geom.Point{X: 50, Y: 50}); got.Kind != TargetSelectionBox {
		t.Errorf("empty area inside selection box = %+v", got)
	}
}

func TestCompileDrawCommands(t *testing.T) {
	a := rect(0, 0, 10, 10)
	text := document.NewText("hello", 20, 0)
	g := Build(Input{
		Elements:    []document.Element{a, text},
		SelectedIDs: []string{a.ID},
		Zoom:        2,
		Pan:         geom.Point{X: 5, Y: 7},
		Marquee:     &geom.Rect{X: 1, Y: 1, Width: 3, Height: 3},
	})

	content := CompileDrawCommands(g, false)
	if len(content) != 2 {
		t.Fatalf("got %d content commands, want 2", len(content))
	}
	if content[0].Op != "path" || content[1].Op != "text" {
		t.Errorf("ops = %q, %q", content[0].Op, content[1].Op)
	}
	want := []float64{2, 0, 0, 2, 45, 7}
	for i, v := range content[1].Transform {
		if v != want[i] {
			t.Fatalf("text transform = %v, want %v", content[1].Transform, want)
		}
	}

	all := CompileDrawCommands(g, true)
	// outline + 8 handles + marquee
	if len(all) != len(content)+10 {
		t.Errorf("got %d commands with chrome, want %d", len(all), len(content)+10)
	}
	for _, c := range all[len(content):] {
		if c.Layer != LayerChrome {
			t.Errorf("chrome command in layer %q", c.Layer)
		}
	}

	if _, err := json.Marshal(all); err != nil {
		t.Fatalf("marshal: %v", err)
	}
}

func TestHoverHandleHighlight(t *testing.T) {
	el := rect(0, 0, 10, 10)
	g := Build(Input{Elements: []document.Element{el}, SelectedIDs: []string{el.ID}, Zoom: 1, HoverHandle: transform.SouthEast})
	for _, n := range g.Chrome {
		if n.Kind != KindHandle {
			continue
		}
		want := HandleFill
		if n.ID == "handle:se" {
			want = HandleHoverFill
		}
		if n.Fill != want {
			t.Errorf("%s fill = %q, want %q", n.ID, n.Fill, want)
		}
	}
}
