// Package protocol defines the JSON messages exchanged with a canvas
// frontend and applies inbound ones to an editor.
package protocol

import (
	"encoding/json"

	"github.com/inamate/canvas/internal/editor"
	"github.com/inamate/canvas/internal/geom"
	"github.com/inamate/canvas/internal/scene"
	"github.com/inamate/canvas/internal/selection"
)

type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

const (
	// Input
	TypePointerDown  = "pointer.down"
	TypePointerMove  = "pointer.move"
	TypePointerUp    = "pointer.up"
	TypePointerLeave = "pointer.leave"
	TypeKeyDown      = "key.down"
	TypeKeyUp        = "key.up"
	TypeWheel        = "wheel"
	TypeViewport     = "viewport"
	TypeCommand      = "command"

	// Output
	TypeWelcome = "welcome"
	TypeScene   = "scene"
	TypeError   = "error"
)

// Command names accepted in a command message.
const (
	CmdUndo           = "undo"
	CmdRedo           = "redo"
	CmdCopy           = "copy"
	CmdPaste          = "paste"
	CmdDelete         = "delete"
	CmdGroup          = "group"
	CmdUngroup        = "ungroup"
	CmdAddShape       = "addShape"
	CmdAddText        = "addText"
	CmdAddImage       = "addImage"
	CmdSetMode        = "setMode"
	CmdSetZoom        = "setZoom"
	CmdZoomIn         = "zoomIn"
	CmdZoomOut        = "zoomOut"
	CmdResetView      = "resetView"
	CmdBringToFront   = "bringToFront"
	CmdSendToBack     = "sendToBack"
	CmdSelect         = "select"
	CmdClearSelection = "clearSelection"
	CmdUpdate         = "update"
)

// PointerPayload carries a pointer event in screen coordinates.
type PointerPayload struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Shift bool    `json:"shift"`
	Ctrl  bool    `json:"ctrl"`
	Meta  bool    `json:"meta"`
}

func (p PointerPayload) point() geom.Point {
	return geom.Point{X: p.X, Y: p.Y}
}

func (p PointerPayload) modifiers() selection.Modifiers {
	return selection.Modifiers{Shift: p.Shift, Ctrl: p.Ctrl, Meta: p.Meta}
}

type ViewportPayload struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type CommandPayload struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args,omitempty"`
}

type AddShapeArgs struct {
	Kind string `json:"kind"`
}

type AddTextArgs struct {
	Content string `json:"content"`
}

type AddImageArgs struct {
	Src    string  `json:"src"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type SetModeArgs struct {
	Mode string `json:"mode"`
}

type SetZoomArgs struct {
	Zoom float64 `json:"zoom"`
}

type SelectArgs struct {
	IDs      []string `json:"ids"`
	Additive bool     `json:"additive"`
}

// UpdateArgs merges Patch, a partial element object such as
// {"rotation": 45, "shape": {"fill": "#ff0000"}} or {"locked": true},
// onto every listed top-level element as one undoable step.
type UpdateArgs struct {
	IDs   []string        `json:"ids"`
	Patch json.RawMessage `json:"patch"`
}

type WelcomePayload struct {
	SessionID string `json:"sessionId"`
	ClientID  string `json:"clientId"`
}

// ScenePayload is sent after every processed message.
type ScenePayload struct {
	Commands []scene.DrawCommand `json:"commands"`
	State    editor.State        `json:"state"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// Encode wraps payload in a message envelope of the given type.
func Encode(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: msgType, Payload: raw})
}
