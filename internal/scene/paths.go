package scene

import (
	"github.com/inamate/canvas/internal/document"
)

// bezierCircle is 4 * (sqrt(2) - 1) / 3, the control distance for a
// quarter-circle cubic.
const bezierCircle = 0.5522847498

// shapePath returns the outline of a shape in its local frame, where the
// element box spans (0, 0) to (w, h).
func shapePath(kind document.ShapeKind, w, h, cornerRadius float64) []PathCommand {
	switch kind {
	case document.ShapeCircle:
		return ellipsePath(w, h)
	case document.ShapeTriangle:
		return []PathCommand{
			{"M", w / 2, 0.0},
			{"L", w, h},
			{"L", 0.0, h},
			{"Z"},
		}
	default:
		if cornerRadius > 0 {
			return roundedRectPath(w, h, cornerRadius)
		}
		return rectPath(w, h)
	}
}

func rectPath(w, h float64) []PathCommand {
	return []PathCommand{
		{"M", 0.0, 0.0},
		{"L", w, 0.0},
		{"L", w, h},
		{"L", 0.0, h},
		{"Z"},
	}
}

func roundedRectPath(w, h, r float64) []PathCommand {
	r = min(r, w/2, h/2)
	return []PathCommand{
		{"M", r, 0.0},
		{"L", w - r, 0.0},
		{"Q", w, 0.0, w, r},
		{"L", w, h - r},
		{"Q", w, h, w - r, h},
		{"L", r, h},
		{"Q", 0.0, h, 0.0, h - r},
		{"L", 0.0, r},
		{"Q", 0.0, 0.0, r, 0.0},
		{"Z"},
	}
}

// ellipsePath approximates the ellipse inscribed in the box with four
// cubic curves.
func ellipsePath(w, h float64) []PathCommand {
	rx, ry := w/2, h/2
	kx, ky := rx*bezierCircle, ry*bezierCircle
	cx, cy := rx, ry
	return []PathCommand{
		{"M", cx + rx, cy},
		{"C", cx + rx, cy + ky, cx + kx, cy + ry, cx, cy + ry},
		{"C", cx - kx, cy + ry, cx - rx, cy + ky, cx - rx, cy},
		{"C", cx - rx, cy - ky, cx - kx, cy - ry, cx, cy - ry},
		{"C", cx + kx, cy - ry, cx + rx, cy - ky, cx + rx, cy},
		{"Z"},
	}
}

// ToFloat64 reads a numeric path operand. Operands decoded from JSON are
// float64; ones built in-process may be ints.
func ToFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}
