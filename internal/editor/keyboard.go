package editor

import (
	"strings"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/geom"
	"github.com/inamate/canvas/internal/scene"
)

const (
	zoomInFactor  = 1.1
	zoomOutFactor = 0.9
)

// KeyEvent is a key press or release as reported by the host.
type KeyEvent struct {
	Key         string `json:"key"`
	Ctrl        bool   `json:"ctrl"`
	Meta        bool   `json:"meta"`
	Shift       bool   `json:"shift"`
	InTextInput bool   `json:"inTextInput"` // focus is inside a text field
}

func (k KeyEvent) command() bool {
	return k.Ctrl || k.Meta
}

func isSpace(key string) bool {
	return key == " " || key == "Space" || key == "Spacebar"
}

// KeyDown handles the editor shortcuts and reports whether the key was
// consumed. Nothing is handled while focus is in a text field.
func (e *Editor) KeyDown(k KeyEvent) bool {
	if k.InTextInput {
		return false
	}
	if isSpace(k.Key) {
		if !e.spaceHeld {
			e.spaceHeld = true
			e.modeBeforeSpace = e.mode
			e.mode = scene.ModePan
			e.invalidate()
		}
		return true
	}

	switch key := strings.ToLower(k.Key); {
	case key == "delete" || key == "backspace":
		e.DeleteSelected()
	case k.command() && key == "c":
		e.Copy()
	case k.command() && key == "v":
		e.Paste()
	case k.command() && key == "z" && k.Shift:
		e.Redo()
	case k.command() && key == "z":
		e.Undo()
	case k.command() && key == "y":
		e.Redo()
	case k.command() && key == "g" && k.Shift:
		e.UngroupElements()
	case k.command() && key == "g":
		e.GroupElements()
	default:
		return false
	}
	return true
}

// KeyUp ends a space-held temporary pan and restores the previous mode.
// The release is honoured even inside a text field so the mode cannot get
// stuck.
func (e *Editor) KeyUp(k KeyEvent) bool {
	if !isSpace(k.Key) || !e.spaceHeld {
		return false
	}
	e.spaceHeld = false
	e.mode = e.modeBeforeSpace
	e.invalidate()
	return true
}

// WheelEvent is a scroll notch at a screen position.
type WheelEvent struct {
	DeltaY float64 `json:"deltaY"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Ctrl   bool    `json:"ctrl"`
	Meta   bool    `json:"meta"`
}

// Wheel zooms by ten percent per notch when ctrl or cmd is held and the
// pointer is inside the viewport, keeping the point under the pointer
// fixed. It reports whether the zoom was handled.
func (e *Editor) Wheel(w WheelEvent) bool {
	if !(w.Ctrl || w.Meta) || w.DeltaY == 0 {
		return false
	}
	p := geom.Point{X: w.X, Y: w.Y}
	if !e.viewport.Contains(p) {
		return false
	}
	factor := zoomInFactor
	if w.DeltaY > 0 {
		factor = zoomOutFactor
	}
	e.zoomAround(e.zoom*factor, p)
	return true
}

// SetZoom sets the zoom, clamped to the supported range, about the
// viewport centre.
func (e *Editor) SetZoom(z float64) {
	e.zoomAround(z, geom.Point{X: e.viewport.Width / 2, Y: e.viewport.Height / 2})
}

// ZoomIn zooms in one step about the viewport centre.
func (e *Editor) ZoomIn() { e.SetZoom(e.zoom * zoomInFactor) }

// ZoomOut zooms out one step about the viewport centre.
func (e *Editor) ZoomOut() { e.SetZoom(e.zoom * zoomOutFactor) }

// ResetView restores zoom 1 and no pan.
func (e *Editor) ResetView() {
	e.zoom = document.DefaultZoom
	e.pan = geom.Point{}
	e.touch()
}

// zoomAround changes zoom while screen point anchor keeps showing the same
// document point.
func (e *Editor) zoomAround(z float64, anchor geom.Point) {
	z = document.ClampZoom(z)
	if z == e.zoom {
		return
	}
	content := e.toContent(anchor)
	e.zoom = z
	e.pan = geom.Point{X: anchor.X - content.X*z, Y: anchor.Y - content.Y*z}
	e.touch()
}
