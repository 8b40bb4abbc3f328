package transform

import (
	"github.com/inamate/canvas/internal/geom"
)

const (
	// HandleBaseSize is the on-screen edge length of a resize handle.
	HandleBaseSize = 10.0
	// HandleMinSize is the smallest handle edge length in document units.
	HandleMinSize = 2.0
	// HandleHitPadding widens the hit area around a handle, on screen.
	HandleHitPadding = 4.0
)

// HandleSize returns the handle edge length in document units for zoom, so
// handles keep a constant screen size.
func HandleSize(zoom float64) float64 {
	return max(HandleMinSize, HandleBaseSize/zoom)
}

// HandleHitSize returns the edge length of the handle's hit area in
// document units.
func HandleHitSize(zoom float64) float64 {
	return max(HandleMinSize, (HandleBaseSize+2*HandleHitPadding)/zoom)
}

// OutlineWidth returns a selection outline stroke width in document units
// that renders as one screen pixel and a half.
func OutlineWidth(zoom float64) float64 {
	return 1.5 / zoom
}

// Handle is one resize handle in document space.
type Handle struct {
	Direction Direction  `json:"direction"`
	Center    geom.Point `json:"center"`
	Rotation  float64    `json:"rotation"`
}

// Handles places the given handles on a box of size (w, h) whose local
// frame is mapped to document space by frame. Passing an element
// transform makes the handles follow the element's rotation.
func Handles(frame geom.Matrix2D, w, h, rotation float64, dirs []Direction) []Handle {
	out := make([]Handle, 0, len(dirs))
	for _, d := range dirs {
		local := anchor(d, w, h)
		out = append(out, Handle{Direction: d, Center: frame.TransformPoint(local), Rotation: rotation})
	}
	return out
}

func anchor(d Direction, w, h float64) geom.Point {
	var p geom.Point
	switch {
	case d.hasEast():
		p.X = w
	case d.hasWest():
		p.X = 0
	default:
		p.X = w / 2
	}
	switch {
	case d.hasSouth():
		p.Y = h
	case d.hasNorth():
		p.Y = 0
	default:
		p.Y = h / 2
	}
	return p
}

// HitHandle returns the handle under p, testing in each handle's own
// rotated frame. Later handles win on overlap, matching paint order.
func HitHandle(handles []Handle, p geom.Point, zoom float64) (Direction, bool) {
	half := HandleHitSize(zoom) / 2
	for i := len(handles) - 1; i >= 0; i-- {
		h := handles[i]
		inv := geom.ElementTransform(h.Center.X, h.Center.Y, h.Rotation).Invert()
		local := inv.TransformPoint(p)
		if local.X >= -half && local.X <= half && local.Y >= -half && local.Y <= half {
			return h.Direction, true
		}
	}
	return "", false
}
