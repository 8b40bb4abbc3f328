package grouping

import (
	"math"
	"testing"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/geom"
)

func shape(x, y, w, h float64) document.Element {
	el := document.NewShape(document.ShapeRectangle, x, y)
	el.Width, el.Height = w, h
	return el
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestGroupNeedsTwoMembers(t *testing.T) {
	if _, ok := Group(nil); ok {
		t.Error("Group(nil) succeeded")
	}
	if _, ok := Group([]document.Element{shape(0, 0, 1, 1)}); ok {
		t.Error("Group of one element succeeded")
	}
}

func TestGroupRelativeChildren(t *testing.T) {
	a := shape(10, 10, 20, 20)
	b := shape(50, 10, 10, 10)
	g, ok := Group([]document.Element{a, b})
	if !ok {
		t.Fatal("Group failed")
	}
	if g.Bounds() != (geom.Rect{X: 10, Y: 10, Width: 50, Height: 20}) {
		t.Errorf("group bounds = %+v", g.Bounds())
	}
	if g.Children[0].X != 0 || g.Children[1].X != 40 || g.Children[1].Y != 0 {
		t.Errorf("children not relative: %+v, %+v", g.Children[0].Bounds(), g.Children[1].Bounds())
	}
	if g.Children[0].ID != a.ID {
		t.Error("grouping should keep member ids inside the group")
	}
}

func TestGroupUngroupRoundTrip(t *testing.T) {
	a := shape(10, 10, 20, 20)
	b := shape(50, 10, 10, 10)
	g, _ := Group([]document.Element{a, b})

	out, ok := Ungroup(g)
	if !ok {
		t.Fatal("Ungroup failed")
	}
	if len(out) != 2 {
		t.Fatalf("got %d elements, want 2", len(out))
	}
	for i, want := range []document.Element{a, b} {
		got := out[i]
		if !near(got.X, want.X) || !near(got.Y, want.Y) || got.Width != want.Width || got.Height != want.Height {
			t.Errorf("element %d = %+v, want %+v", i, got.Bounds(), want.Bounds())
		}
		if got.ID == want.ID {
			t.Errorf("element %d kept its id", i)
		}
	}
}

func TestUngroupNonGroup(t *testing.T) {
	if _, ok := Ungroup(shape(0, 0, 1, 1)); ok {
		t.Error("Ungroup of a shape succeeded")
	}
}

func TestUngroupNestedKeepsSubgroup(t *testing.T) {
	inner, _ := Group([]document.Element{shape(100, 100, 10, 10), shape(120, 100, 10, 10)})
	outer, _ := Group([]document.Element{inner, shape(0, 0, 10, 10)})

	top, _ := Ungroup(outer)
	sub := top[0]
	if !sub.IsGroup() {
		t.Fatal("nested group was flattened")
	}
	if sub.X != 100 || sub.Y != 100 {
		t.Errorf("sub-group at (%v, %v), want (100, 100)", sub.X, sub.Y)
	}
	if sub.ID == inner.ID || sub.Children[0].ID == inner.Children[0].ID {
		t.Error("nested ids were not regenerated")
	}

	leaves, _ := Ungroup(sub)
	if leaves[1].X != 120 || leaves[1].Y != 100 {
		t.Errorf("leaf at (%v, %v), want (120, 100)", leaves[1].X, leaves[1].Y)
	}
}

func TestUngroupRotatedGroup(t *testing.T) {
	g := document.NewGroup([]document.Element{shape(10, 0, 5, 5)}, 100, 100, 20, 20)
	g.Rotation = 90

	out, _ := Ungroup(g)
	if !near(out[0].X, 100) || !near(out[0].Y, 110) {
		t.Errorf("child at (%v, %v), want (100, 110)", out[0].X, out[0].Y)
	}
	if out[0].Rotation != 90 {
		t.Errorf("child rotation = %v, want 90", out[0].Rotation)
	}
}
