// Package editor owns the live canvas state and turns pointer, keyboard
// and command input into document changes.
//
// An Editor is not safe for concurrent use. Hosts drive it from a single
// goroutine, one event at a time.
package editor

import (
	"context"
	"log/slog"

	"github.com/inamate/canvas/internal/clipboard"
	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/geom"
	"github.com/inamate/canvas/internal/history"
	"github.com/inamate/canvas/internal/scene"
	"github.com/inamate/canvas/internal/selection"
	"github.com/inamate/canvas/internal/transform"
)

// Rasterizer turns compiled draw commands into encoded image bytes.
type Rasterizer interface {
	Rasterize(ctx context.Context, commands []scene.DrawCommand, width, height int) ([]byte, error)
}

// Options configures a new Editor.
type Options struct {
	HistoryLimit int        // 0 keeps every entry
	Rasterizer   Rasterizer // nil disables ExportPNG
}

// Viewport is the on-screen size of the canvas.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Mounted reports whether the canvas has a drawable area.
func (v Viewport) Mounted() bool {
	return v.Width > 0 && v.Height > 0
}

// Contains reports whether screen point p lies inside the viewport.
func (v Viewport) Contains(p geom.Point) bool {
	return v.Mounted() && p.X >= 0 && p.Y >= 0 && p.X <= v.Width && p.Y <= v.Height
}

// Editor is the document state container.
type Editor struct {
	elements []document.Element
	selected []string
	zoom     float64
	pan      geom.Point
	mode     scene.Mode

	spaceHeld       bool
	modeBeforeSpace scene.Mode

	history   *history.History
	clipboard clipboard.Clipboard
	gesture   gesture
	hover     transform.Direction

	viewport   Viewport
	rasterizer Rasterizer

	graph    *scene.Graph
	revision uint64
}

// New returns an editor holding doc.
func New(doc document.Persisted, opts Options) *Editor {
	e := &Editor{
		mode:       scene.ModeSelect,
		history:    history.New(opts.HistoryLimit),
		rasterizer: opts.Rasterizer,
	}
	e.load(doc)
	return e
}

// MutateOptions controls how Mutate records history. The zero value
// records the pre-mutation state.
type MutateOptions struct {
	// SkipHistory applies the change without an undo entry. Continuous
	// gesture frames use it and commit once at release.
	SkipHistory bool
	// HistorySnapshot, when set, is recorded instead of the pre-mutation
	// state.
	HistorySnapshot []document.Element
}

// Mutate is the single entry point for element changes. updater receives a
// deep copy of the live elements and returns the new list. A recorded
// change first commits any drag or resize in progress.
func (e *Editor) Mutate(updater func([]document.Element) []document.Element, opts MutateOptions) {
	if !opts.SkipHistory && opts.HistorySnapshot == nil {
		e.settle()
	}
	next := updater(document.CloneElements(e.elements))
	if next == nil {
		next = []document.Element{}
	}

	if !opts.SkipHistory {
		snapshot := opts.HistorySnapshot
		if snapshot == nil {
			snapshot = e.elements
		}
		e.history.Record(snapshot)
	}

	e.elements = next
	e.selected = selection.Prune(e.selected, e.elements)
	e.touch()
}

// Undo restores the most recent history entry and clears the selection.
func (e *Editor) Undo() {
	e.settle()
	restored, ok := e.history.Undo(e.elements)
	if !ok {
		return
	}
	e.elements = restored
	e.selected = nil
	e.touch()
	slog.Debug("undo", "elements", len(restored))
}

// Redo re-applies the most recently undone state and clears the selection.
func (e *Editor) Redo() {
	e.settle()
	restored, ok := e.history.Redo(e.elements)
	if !ok {
		return
	}
	e.elements = restored
	e.selected = nil
	e.touch()
	slog.Debug("redo", "elements", len(restored))
}

// CanUndo reports whether Undo would change state.
func (e *Editor) CanUndo() bool { return e.history.CanUndo() }

// CanRedo reports whether Redo would change state.
func (e *Editor) CanRedo() bool { return e.history.CanRedo() }

// SetSelection unions ids into the selection when additive, otherwise
// replaces it. IDs that do not name a live element are ignored.
func (e *Editor) SetSelection(ids []string, additive bool) {
	e.selected = selection.Prune(selection.Set(e.selected, ids, additive), e.elements)
	e.invalidate()
}

// ClearSelection empties the selection.
func (e *Editor) ClearSelection() {
	e.selected = nil
	e.invalidate()
}

// SelectedIDs returns a copy of the selection.
func (e *Editor) SelectedIDs() []string {
	return append([]string(nil), e.selected...)
}

// Elements returns a deep copy of the live elements.
func (e *Editor) Elements() []document.Element {
	return document.CloneElements(e.elements)
}

// Mode returns the interaction mode.
func (e *Editor) Mode() scene.Mode { return e.mode }

// SetMode switches between select and pan. An explicit switch ends any
// space-held temporary pan.
func (e *Editor) SetMode(m scene.Mode) {
	if m != scene.ModePan {
		m = scene.ModeSelect
	}
	e.mode = m
	e.spaceHeld = false
	e.invalidate()
}

// Zoom returns the current zoom factor.
func (e *Editor) Zoom() float64 { return e.zoom }

// Pan returns the current pan offset in screen units.
func (e *Editor) Pan() geom.Point { return e.pan }

// Revision increases on every change to persisted state.
func (e *Editor) Revision() uint64 { return e.revision }

// Persisted returns a deep copy of the serializable state.
func (e *Editor) Persisted() document.Persisted {
	return document.Persisted{
		Elements: document.CloneElements(e.elements),
		Pan:      e.pan,
		Zoom:     e.zoom,
	}
}

// Load replaces the document and resets history, selection and any
// in-flight gesture.
func (e *Editor) Load(doc document.Persisted) {
	e.load(doc)
	e.history.Reset()
	e.touch()
}

func (e *Editor) load(doc document.Persisted) {
	e.elements = document.CloneElements(doc.Elements)
	e.pan = doc.Pan
	e.zoom = document.ClampZoom(doc.Zoom)
	e.selected = nil
	e.gesture = nil
	e.hover = ""
	e.graph = nil
}

// State is a read-only view of the editor for hosts and tests.
type State struct {
	Elements    []document.Element `json:"elements"`
	SelectedIDs []string           `json:"selectedIds"`
	Zoom        float64            `json:"zoom"`
	Pan         geom.Point         `json:"pan"`
	Mode        scene.Mode         `json:"mode"`
	Gesture     string             `json:"gesture"`
	CanUndo     bool               `json:"canUndo"`
	CanRedo     bool               `json:"canRedo"`
	Clipboard   int                `json:"clipboard"` // elements ready to paste
	Revision    uint64             `json:"revision"`
}

// Snapshot returns a deep-copied view of the current state.
func (e *Editor) Snapshot() State {
	g := "idle"
	if e.gesture != nil {
		g = e.gesture.name()
	}
	selected := e.SelectedIDs()
	if selected == nil {
		selected = []string{}
	}
	return State{
		Elements:    e.Elements(),
		SelectedIDs: selected,
		Zoom:        e.zoom,
		Pan:         e.pan,
		Mode:        e.mode,
		Gesture:     g,
		CanUndo:     e.CanUndo(),
		CanRedo:     e.CanRedo(),
		Clipboard:   e.clipboard.Len(),
		Revision:    e.revision,
	}
}

// Scene returns the scene graph for the current state, rebuilding it if
// anything changed since the last call.
func (e *Editor) Scene() *scene.Graph {
	if e.graph == nil {
		in := scene.Input{
			Elements:    e.elements,
			SelectedIDs: e.selected,
			Mode:        e.mode,
			Zoom:        e.zoom,
			Pan:         e.pan,
			HoverHandle: e.hover,
		}
		if m, ok := e.gesture.(*marqueeGesture); ok {
			r := m.rect()
			in.Marquee = &r
		}
		e.graph = scene.Build(in)
	}
	return e.graph
}

// DrawCommands compiles the current scene, chrome included.
func (e *Editor) DrawCommands() []scene.DrawCommand {
	return scene.CompileDrawCommands(e.Scene(), true)
}

// SetViewport records the on-screen canvas size. A zero size unmounts it.
func (e *Editor) SetViewport(width, height float64) {
	e.viewport = Viewport{Width: max(0, width), Height: max(0, height)}
}

// Viewport returns the on-screen canvas size.
func (e *Editor) Viewport() Viewport { return e.viewport }

// ExportPNG renders the document, without selection chrome, at the
// viewport size and current view. It returns nil when no canvas is
// mounted or no rasterizer is configured.
func (e *Editor) ExportPNG(ctx context.Context) ([]byte, error) {
	if e.rasterizer == nil || !e.viewport.Mounted() {
		return nil, nil
	}
	commands := scene.CompileDrawCommands(e.Scene(), false)
	return e.rasterizer.Rasterize(ctx, commands, int(e.viewport.Width), int(e.viewport.Height))
}

// toContent maps a screen point to document space.
func (e *Editor) toContent(p geom.Point) geom.Point {
	return geom.Point{X: (p.X - e.pan.X) / e.zoom, Y: (p.Y - e.pan.Y) / e.zoom}
}

// touch marks persisted state as changed.
func (e *Editor) touch() {
	e.revision++
	e.graph = nil
}

// invalidate drops the cached scene without touching persisted state.
func (e *Editor) invalidate() {
	e.graph = nil
}
