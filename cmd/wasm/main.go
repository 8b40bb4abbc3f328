//go:build js && wasm

package main

import (
	"encoding/json"
	"log/slog"
	"syscall/js"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/editor"
	"github.com/inamate/canvas/internal/geom"
	"github.com/inamate/canvas/internal/protocol"
)

const storageKey = "canvas-document"

var (
	ed    *editor.Editor
	saved uint64
)

func main() {
	ed = editor.New(loadStored(), editor.Options{})
	saved = ed.Revision()

	canvasEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → engine) ---
	canvasEngine.Set("send", js.FuncOf(send))
	canvasEngine.Set("loadDocument", js.FuncOf(loadDocument))
	canvasEngine.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))

	// --- Queries (frontend ← engine) ---
	canvasEngine.Set("getScene", js.FuncOf(getScene))
	canvasEngine.Set("getState", js.FuncOf(getState))
	canvasEngine.Set("getDocument", js.FuncOf(getDocument))
	canvasEngine.Set("hitTest", js.FuncOf(hitTest))

	js.Global().Set("canvasEngine", canvasEngine)
	js.Global().Set("canvasWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func localStorage() js.Value {
	return js.Global().Get("localStorage")
}

func loadStored() document.Persisted {
	ls := localStorage()
	if ls.IsUndefined() || ls.IsNull() {
		return document.NewPersisted()
	}
	item := ls.Call("getItem", storageKey)
	if item.IsNull() {
		return document.NewPersisted()
	}
	return document.Decode([]byte(item.String()))
}

// persist writes the document to localStorage when it changed since the
// last write.
func persist() {
	if ed.Revision() == saved {
		return
	}
	data, err := document.Encode(ed.Persisted())
	if err != nil {
		slog.Error("encode document", "error", err)
		return
	}
	ls := localStorage()
	if ls.IsUndefined() || ls.IsNull() {
		return
	}
	ls.Call("setItem", storageKey, string(data))
	saved = ed.Revision()
}

func result(err error) any {
	if err != nil {
		return js.ValueOf(map[string]any{"error": err.Error()})
	}
	return js.ValueOf(map[string]any{"ok": true})
}

func jsonString(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("marshal", "error", err)
		return js.ValueOf("{}")
	}
	return js.ValueOf(string(data))
}

// --- Command Handlers ---

// send applies one protocol message, e.g.
// {"type":"pointer.down","payload":{"x":10,"y":20}}.
func send(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(map[string]any{"error": "missing message JSON"})
	}
	var msg protocol.Message
	if err := json.Unmarshal([]byte(args[0].String()), &msg); err != nil {
		return result(err)
	}
	err := protocol.Apply(ed, &msg)
	persist()
	return result(err)
}

func loadDocument(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(map[string]any{"error": "missing document JSON"})
	}
	ed.Load(document.Decode([]byte(args[0].String())))
	persist()
	return result(nil)
}

func loadSampleDocument(this js.Value, args []js.Value) any {
	ed.Load(document.NewSampleDocument())
	persist()
	return result(nil)
}

// --- Query Handlers ---

func getScene(this js.Value, args []js.Value) any {
	return jsonString(protocol.ScenePayload{Commands: ed.DrawCommands(), State: ed.Snapshot()})
}

func getState(this js.Value, args []js.Value) any {
	return jsonString(ed.Snapshot())
}

func getDocument(this js.Value, args []js.Value) any {
	data, err := document.Encode(ed.Persisted())
	if err != nil {
		return result(err)
	}
	return js.ValueOf(string(data))
}

func hitTest(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return js.ValueOf("{}")
	}
	return jsonString(ed.HitTest(geom.Point{X: args[0].Float(), Y: args[1].Float()}))
}
