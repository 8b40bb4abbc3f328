package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/editor"
	"github.com/inamate/canvas/internal/scene"
)

var (
	ErrUnknownType    = errors.New("unknown message type")
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidPatch   = errors.New("invalid element patch")
)

// immutableFields cannot be changed through an update patch.
var immutableFields = []string{"id", "type", "children"}

// Apply applies one inbound message to the editor.
func Apply(ed *editor.Editor, msg *Message) error {
	switch msg.Type {
	case TypePointerDown, TypePointerMove, TypePointerUp:
		var p PointerPayload
		if err := decode(msg.Payload, &p); err != nil {
			return err
		}
		switch msg.Type {
		case TypePointerDown:
			ed.PointerDown(p.point(), p.modifiers())
		case TypePointerMove:
			ed.PointerMove(p.point())
		default:
			ed.PointerUp(p.point())
		}

	case TypePointerLeave:
		ed.PointerLeave()

	case TypeKeyDown, TypeKeyUp:
		var k editor.KeyEvent
		if err := decode(msg.Payload, &k); err != nil {
			return err
		}
		if msg.Type == TypeKeyDown {
			ed.KeyDown(k)
		} else {
			ed.KeyUp(k)
		}

	case TypeWheel:
		var w editor.WheelEvent
		if err := decode(msg.Payload, &w); err != nil {
			return err
		}
		ed.Wheel(w)

	case TypeViewport:
		var v ViewportPayload
		if err := decode(msg.Payload, &v); err != nil {
			return err
		}
		ed.SetViewport(v.Width, v.Height)

	case TypeCommand:
		var c CommandPayload
		if err := decode(msg.Payload, &c); err != nil {
			return err
		}
		return runCommand(ed, c)

	default:
		return fmt.Errorf("%w: %q", ErrUnknownType, msg.Type)
	}
	return nil
}

func runCommand(ed *editor.Editor, c CommandPayload) error {
	switch c.Name {
	case CmdUndo:
		ed.Undo()
	case CmdRedo:
		ed.Redo()
	case CmdCopy:
		ed.Copy()
	case CmdPaste:
		ed.Paste()
	case CmdDelete:
		ed.DeleteSelected()
	case CmdGroup:
		ed.GroupElements()
	case CmdUngroup:
		ed.UngroupElements()
	case CmdBringToFront:
		ed.BringToFront()
	case CmdSendToBack:
		ed.SendToBack()
	case CmdClearSelection:
		ed.ClearSelection()
	case CmdZoomIn:
		ed.ZoomIn()
	case CmdZoomOut:
		ed.ZoomOut()
	case CmdResetView:
		ed.ResetView()

	case CmdAddShape:
		var a AddShapeArgs
		if err := decode(c.Args, &a); err != nil {
			return err
		}
		kind := document.ShapeKind(a.Kind)
		switch kind {
		case document.ShapeRectangle, document.ShapeCircle, document.ShapeTriangle:
		default:
			return fmt.Errorf("unknown shape kind %q", a.Kind)
		}
		ed.AddShape(kind)

	case CmdAddText:
		var a AddTextArgs
		if err := decode(c.Args, &a); err != nil {
			return err
		}
		ed.AddText(a.Content)

	case CmdAddImage:
		var a AddImageArgs
		if err := decode(c.Args, &a); err != nil {
			return err
		}
		if a.Src == "" {
			return errors.New("addImage: missing src")
		}
		ed.AddImage(a.Src, a.Width, a.Height)

	case CmdSetMode:
		var a SetModeArgs
		if err := decode(c.Args, &a); err != nil {
			return err
		}
		switch scene.Mode(a.Mode) {
		case scene.ModeSelect, scene.ModePan:
			ed.SetMode(scene.Mode(a.Mode))
		default:
			return fmt.Errorf("unknown mode %q", a.Mode)
		}

	case CmdSetZoom:
		var a SetZoomArgs
		if err := decode(c.Args, &a); err != nil {
			return err
		}
		ed.SetZoom(a.Zoom)

	case CmdSelect:
		var a SelectArgs
		if err := decode(c.Args, &a); err != nil {
			return err
		}
		ed.SetSelection(a.IDs, a.Additive)

	case CmdUpdate:
		var a UpdateArgs
		if err := decode(c.Args, &a); err != nil {
			return err
		}
		if err := checkPatch(a.Patch); err != nil {
			return err
		}
		ed.UpdateElements(a.IDs, func(el *document.Element) {
			json.Unmarshal(a.Patch, el)
			el.TrimVariants()
		})

	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, c.Name)
	}
	return nil
}

// checkPatch reports an error unless patch is an object that decodes onto
// an element without touching its identity or children.
func checkPatch(patch json.RawMessage) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(patch, &fields); err != nil || fields == nil {
		return fmt.Errorf("%w: must be an object", ErrInvalidPatch)
	}
	for _, key := range immutableFields {
		if _, ok := fields[key]; ok {
			return fmt.Errorf("%w: %q cannot be changed", ErrInvalidPatch, key)
		}
	}
	var scratch document.Element
	if err := json.Unmarshal(patch, &scratch); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	return nil
}

// decode unmarshals a payload; an absent payload leaves v at its zero value.
func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}
