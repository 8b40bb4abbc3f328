package transform

import (
	"math"
	"testing"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/geom"
)

const tolerance = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func rectNear(a, b geom.Rect) bool {
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Width, b.Width) && near(a.Height, b.Height)
}

func TestMoved(t *testing.T) {
	tests := []struct {
		delta geom.Point
		want  bool
	}{
		{geom.Point{}, false},
		{geom.Point{X: 0.005, Y: -0.005}, false},
		{geom.Point{X: 0.02}, true},
		{geom.Point{Y: -3}, true},
	}
	for _, tt := range tests {
		if got := Moved(tt.delta); got != tt.want {
			t.Errorf("Moved(%+v) = %v, want %v", tt.delta, got, tt.want)
		}
	}
}

func TestResizeBox(t *testing.T) {
	start := geom.Rect{X: 10, Y: 20, Width: 50, Height: 40}
	tests := []struct {
		name  string
		dir   Direction
		delta geom.Point
		want  geom.Rect
	}{
		{"east grows", East, geom.Point{X: 10, Y: 99}, geom.Rect{X: 10, Y: 20, Width: 60, Height: 40}},
		{"east clamps", East, geom.Point{X: -60}, geom.Rect{X: 10, Y: 20, Width: 0, Height: 40}},
		{"west anchors right edge", West, geom.Point{X: -10}, geom.Rect{X: 0, Y: 20, Width: 60, Height: 40}},
		{"west clamps at right edge", West, geom.Point{X: 80}, geom.Rect{X: 60, Y: 20, Width: 0, Height: 40}},
		{"north anchors bottom edge", North, geom.Point{Y: 15}, geom.Rect{X: 10, Y: 35, Width: 50, Height: 25}},
		{"north clamps at bottom edge", North, geom.Point{Y: 100}, geom.Rect{X: 10, Y: 60, Width: 50, Height: 0}},
		{"south", South, geom.Point{Y: -5}, geom.Rect{X: 10, Y: 20, Width: 50, Height: 35}},
		{"south east", SouthEast, geom.Point{X: 5, Y: 5}, geom.Rect{X: 10, Y: 20, Width: 55, Height: 45}},
		{"north west", NorthWest, geom.Point{X: 5, Y: 5}, geom.Rect{X: 15, Y: 25, Width: 45, Height: 35}},
		{"north east", NorthEast, geom.Point{X: 5, Y: -5}, geom.Rect{X: 10, Y: 15, Width: 55, Height: 45}},
		{"south west", SouthWest, geom.Point{X: -5, Y: 5}, geom.Rect{X: 5, Y: 20, Width: 55, Height: 45}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResizeBox(start, tt.dir, tt.delta)
			if !rectNear(got, tt.want) {
				t.Errorf("ResizeBox(%s, %+v) = %+v, want %+v", tt.dir, tt.delta, got, tt.want)
			}
		})
	}
}

func TestResizeElementClampKeepsX(t *testing.T) {
	el := document.NewShape(document.ShapeRectangle, 30, 0)
	el.Width = 50

	// Dragging the east handle 60 units left would imply width -10.
	got := ResizeElement(el, East, geom.Point{X: -60})
	if got.Width != 0 {
		t.Errorf("width = %v, want 0", got.Width)
	}
	if got.X != 30 {
		t.Errorf("x = %v, want 30", got.X)
	}
	if el.Width != 50 {
		t.Error("start element was modified")
	}
}

func TestResizeElementRotated(t *testing.T) {
	el := document.NewShape(document.ShapeRectangle, 0, 0)
	el.Width, el.Height = 100, 50
	el.Rotation = 90

	// With a quarter turn the element's local x axis points down the
	// screen, so a downward drag on the east handle widens it.
	got := ResizeElement(el, East, geom.Point{Y: 20})
	if !near(got.Width, 120) || !near(got.Height, 50) {
		t.Errorf("size = %vx%v, want 120x50", got.Width, got.Height)
	}
	if !near(got.X, 0) || !near(got.Y, 0) {
		t.Errorf("origin = (%v, %v), want (0, 0)", got.X, got.Y)
	}

	// The west handle moves the origin along the rotated axis.
	got = ResizeElement(el, West, geom.Point{Y: 20})
	if !near(got.Width, 80) || !near(got.X, 0) || !near(got.Y, 20) {
		t.Errorf("west resize = (%v, %v, %v), want (0, 20, 80)", got.X, got.Y, got.Width)
	}
}

func TestRescaleProportional(t *testing.T) {
	a := document.NewShape(document.ShapeRectangle, 0, 0)
	a.Width, a.Height = 50, 50
	b := document.NewShape(document.ShapeCircle, 50, 50)
	b.Width, b.Height = 50, 50

	startBox := geom.Rect{Width: 100, Height: 100}
	newBox := ResizeBox(startBox, SouthEast, geom.Point{X: 100, Y: 100})
	got := Rescale([]document.Element{a, b}, startBox, newBox)

	want := []geom.Rect{
		{X: 0, Y: 0, Width: 100, Height: 100},
		{X: 100, Y: 100, Width: 100, Height: 100},
	}
	for i := range want {
		if !rectNear(got[i].Bounds(), want[i]) {
			t.Errorf("element %d = %+v, want %+v", i, got[i].Bounds(), want[i])
		}
	}
}

func TestRescaleZeroExtentKeepsScale(t *testing.T) {
	line := document.NewShape(document.ShapeRectangle, 10, 10)
	line.Width, line.Height = 0, 40

	startBox := line.Bounds()
	newBox := geom.Rect{X: 10, Y: 10, Width: 25, Height: 80}
	got := Rescale([]document.Element{line}, startBox, newBox)[0]

	if got.Width != 0 || got.Height != 80 {
		t.Errorf("size = %vx%v, want 0x80", got.Width, got.Height)
	}
}

func TestResizeGroupScalesChildren(t *testing.T) {
	child := document.NewShape(document.ShapeRectangle, 10, 20)
	child.Width, child.Height = 30, 40
	group := document.NewGroup([]document.Element{child}, 0, 0, 100, 100)

	got := ResizeElement(group, SouthEast, geom.Point{X: 100, Y: -50})
	c := got.Children[0]
	if !rectNear(c.Bounds(), geom.Rect{X: 20, Y: 10, Width: 60, Height: 20}) {
		t.Errorf("child = %+v, want {20 10 60 20}", c.Bounds())
	}
	if group.Children[0].X != 10 {
		t.Error("start group children were modified")
	}
}

func TestHandleSizeIsZoomCompensated(t *testing.T) {
	for _, zoom := range []float64{0.25, 0.5, 1, 2, 3} {
		screen := HandleSize(zoom) * zoom
		if HandleBaseSize/zoom >= HandleMinSize && !near(screen, HandleBaseSize) {
			t.Errorf("zoom %v: handle is %v screen px, want %v", zoom, screen, HandleBaseSize)
		}
	}
	if got := HandleSize(100); got != HandleMinSize {
		t.Errorf("HandleSize(100) = %v, want min %v", got, HandleMinSize)
	}
}

func TestHandlesFollowRotation(t *testing.T) {
	frame := geom.ElementTransform(100, 100, 90)
	hs := Handles(frame, 40, 20, 90, AllDirections)
	if len(hs) != 8 {
		t.Fatalf("got %d handles, want 8", len(hs))
	}
	byDir := map[Direction]geom.Point{}
	for _, h := range hs {
		byDir[h.Direction] = h.Center
	}
	// Local (40, 0) rotated a quarter turn lands at (0, 40) from the origin.
	if p := byDir[NorthEast]; !near(p.X, 100) || !near(p.Y, 140) {
		t.Errorf("ne handle at %+v, want (100, 140)", p)
	}
	if p := byDir[SouthEast]; !near(p.X, 80) || !near(p.Y, 140) {
		t.Errorf("se handle at %+v, want (80, 140)", p)
	}
}

func TestHitHandle(t *testing.T) {
	hs := Handles(geom.Identity(), 100, 50, 0, CornerDirections)

	dir, ok := HitHandle(hs, geom.Point{X: 101, Y: 49}, 1)
	if !ok || dir != SouthEast {
		t.Errorf("HitHandle near se = %q %v, want se", dir, ok)
	}
	if _, ok := HitHandle(hs, geom.Point{X: 50, Y: 25}, 1); ok {
		t.Error("HitHandle matched the box centre")
	}
	// At zoom 2 the hit area halves in document units.
	if _, ok := HitHandle(hs, geom.Point{X: 108, Y: 50}, 2); ok {
		t.Error("hit area did not shrink with zoom")
	}
	if _, ok := HitHandle(hs, geom.Point{X: 108, Y: 50}, 1); !ok {
		t.Error("hit area at zoom 1 too small")
	}
}
