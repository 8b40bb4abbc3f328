package editor

import (
	"log/slog"
	"slices"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/geom"
	"github.com/inamate/canvas/internal/scene"
	"github.com/inamate/canvas/internal/selection"
	"github.com/inamate/canvas/internal/transform"
)

// gesture is the in-flight pointer interaction. A nil gesture is idle;
// only one gesture exists at a time.
type gesture interface {
	name() string
}

type dragGesture struct {
	start    geom.Point
	origins  map[string]geom.Point
	snapshot []document.Element
	moved    bool
}

type resizeGesture struct {
	dir      transform.Direction
	start    geom.Point
	elements []document.Element // deep copies of the resized elements at press
	box      geom.Rect
	snapshot []document.Element
	moved    bool
}

type panGesture struct {
	last geom.Point // screen space
}

type marqueeGesture struct {
	start   geom.Point
	current geom.Point
}

func (*dragGesture) name() string    { return "dragging" }
func (*resizeGesture) name() string  { return "resizing" }
func (*panGesture) name() string     { return "panning" }
func (*marqueeGesture) name() string { return "marquee" }

func (m *marqueeGesture) rect() geom.Rect {
	return geom.RectFromPoints(m.start, m.current)
}

// PointerDown hit-tests a screen point against the scene and routes the
// press to the matching handler.
func (e *Editor) PointerDown(screen geom.Point, mods selection.Modifiers) {
	if e.gesture != nil {
		return
	}
	target := e.HitTest(screen)

	switch target.Kind {
	case scene.TargetHandle:
		e.HandlePointerDown(target.Handle, screen)
	case scene.TargetSelectionBox:
		e.SelectionBoxPointerDown(screen)
	case scene.TargetElement:
		e.ElementPointerDown(target.ElementID, screen, mods)
	default:
		e.BackgroundPointerDown(screen, mods)
	}
}

// HitTest returns what lies under a screen point.
func (e *Editor) HitTest(screen geom.Point) scene.Target {
	return scene.HitTest(e.Scene(), e.toContent(screen))
}

// ElementPointerDown applies click selection and starts a drag of the
// selection. Pressing a locked element behaves like pressing the
// background.
func (e *Editor) ElementPointerDown(id string, screen geom.Point, mods selection.Modifiers) {
	if e.gesture != nil {
		return
	}
	el, ok := document.Find(e.elements, id)
	if !ok || el.Locked {
		e.BackgroundPointerDown(screen, mods)
		return
	}
	e.selected = selection.Click(e.selected, id, mods)
	e.invalidate()
	e.beginDrag(e.toContent(screen))
}

// SelectionBoxPointerDown starts a drag of the whole selection.
func (e *Editor) SelectionBoxPointerDown(screen geom.Point) {
	if e.gesture != nil {
		return
	}
	e.beginDrag(e.toContent(screen))
}

// HandlePointerDown starts resizing the selection through handle dir.
func (e *Editor) HandlePointerDown(dir transform.Direction, screen geom.Point) {
	if e.gesture != nil || !dir.Valid() {
		return
	}
	targets := e.transformable()
	if len(targets) == 0 {
		return
	}
	multi := len(e.selected) > 1
	if multi && !isCorner(dir) {
		return
	}

	var box geom.Rect
	if multi {
		box, _ = selection.BoundingBox(selection.Selected(e.elements, e.selected))
	} else {
		box = targets[0].Bounds()
	}
	e.gesture = &resizeGesture{
		dir:      dir,
		start:    e.toContent(screen),
		elements: targets,
		box:      box,
		snapshot: document.CloneElements(e.elements),
	}
	e.invalidate()
}

// BackgroundPointerDown starts panning in pan mode. In select mode without
// a modifier it clears the selection and starts a marquee.
func (e *Editor) BackgroundPointerDown(screen geom.Point, mods selection.Modifiers) {
	if e.gesture != nil {
		return
	}
	if e.mode == scene.ModePan {
		e.gesture = &panGesture{last: screen}
		return
	}
	if mods.Any() {
		return
	}
	p := e.toContent(screen)
	e.selected = nil
	e.gesture = &marqueeGesture{start: p, current: p}
	e.invalidate()
}

func (e *Editor) beginDrag(p geom.Point) {
	targets := e.transformable()
	if len(targets) == 0 {
		return
	}
	origins := make(map[string]geom.Point, len(targets))
	for _, el := range targets {
		origins[el.ID] = geom.Point{X: el.X, Y: el.Y}
	}
	e.gesture = &dragGesture{
		start:    p,
		origins:  origins,
		snapshot: document.CloneElements(e.elements),
	}
}

// transformable returns deep copies of the selected, unlocked elements.
func (e *Editor) transformable() []document.Element {
	var out []document.Element
	for _, el := range selection.Selected(e.elements, e.selected) {
		if !el.Locked {
			out = append(out, el.Clone())
		}
	}
	return out
}

// PointerMove advances the active gesture. When idle it only tracks which
// handle is hovered.
func (e *Editor) PointerMove(screen geom.Point) {
	switch g := e.gesture.(type) {
	case nil:
		e.updateHover(screen)
	case *dragGesture:
		e.moveDrag(g, e.toContent(screen))
	case *resizeGesture:
		e.moveResize(g, e.toContent(screen))
	case *panGesture:
		delta := screen.Sub(g.last)
		g.last = screen
		if delta.X == 0 && delta.Y == 0 {
			return
		}
		e.pan = e.pan.Add(delta)
		e.touch()
	case *marqueeGesture:
		g.current = e.toContent(screen)
		e.invalidate()
	}
}

func (e *Editor) updateHover(screen geom.Point) {
	var dir transform.Direction
	if t := scene.HitTest(e.Scene(), e.toContent(screen)); t.Kind == scene.TargetHandle {
		dir = t.Handle
	}
	if dir != e.hover {
		e.hover = dir
		e.invalidate()
	}
}

func (e *Editor) moveDrag(g *dragGesture, p geom.Point) {
	delta := p.Sub(g.start)
	if !g.moved && !transform.Moved(delta) {
		return
	}
	g.moved = true
	e.Mutate(func(els []document.Element) []document.Element {
		for i := range els {
			if origin, ok := g.origins[els[i].ID]; ok {
				els[i] = transform.Translate(els[i], origin, delta)
			}
		}
		return els
	}, MutateOptions{SkipHistory: true})
}

func (e *Editor) moveResize(g *resizeGesture, p geom.Point) {
	delta := p.Sub(g.start)
	if !g.moved && !transform.Moved(delta) {
		return
	}
	g.moved = true

	var resized []document.Element
	if len(g.elements) == 1 && len(e.selected) == 1 {
		resized = []document.Element{transform.ResizeElement(g.elements[0], g.dir, delta)}
	} else {
		box := transform.ResizeBox(g.box, g.dir, delta)
		resized = transform.Rescale(g.elements, g.box, box)
	}

	byID := make(map[string]document.Element, len(resized))
	for _, el := range resized {
		byID[el.ID] = el
	}
	e.Mutate(func(els []document.Element) []document.Element {
		for i := range els {
			if el, ok := byID[els[i].ID]; ok {
				els[i] = el
			}
		}
		return els
	}, MutateOptions{SkipHistory: true})
}

// PointerUp ends the active gesture. A drag or resize that really moved
// commits one history entry holding the state from before the press.
func (e *Editor) PointerUp(screen geom.Point) {
	if e.gesture == nil {
		return
	}
	e.PointerMove(screen)
	e.finish()
}

// PointerLeave ends the active gesture where the pointer was last seen.
// There is no cancel path: leaving commits like a release.
func (e *Editor) PointerLeave() {
	if e.gesture == nil {
		if e.hover != "" {
			e.hover = ""
			e.invalidate()
		}
		return
	}
	e.finish()
}

func (e *Editor) finish() {
	g := e.gesture
	e.gesture = nil

	switch g := g.(type) {
	case *dragGesture:
		e.commit(g.name(), g.moved, g.snapshot)
	case *resizeGesture:
		e.commit(g.name(), g.moved, g.snapshot)
	case *marqueeGesture:
		var ids []string
		if transform.Moved(g.current.Sub(g.start)) {
			ids = selection.Intersecting(e.elements, g.rect())
		}
		if len(ids) == 0 {
			e.selected = nil
		} else {
			e.selected = selection.Set(nil, ids, false)
		}
		e.invalidate()
	case *panGesture:
		e.invalidate()
	}
}

// settle ends a drag or resize early so its history entry lands before a
// discrete change such as undo or delete.
func (e *Editor) settle() {
	switch e.gesture.(type) {
	case *dragGesture, *resizeGesture:
		e.finish()
	}
}

func (e *Editor) commit(name string, moved bool, snapshot []document.Element) {
	if !moved {
		e.invalidate()
		return
	}
	e.Mutate(func(els []document.Element) []document.Element { return els }, MutateOptions{HistorySnapshot: snapshot})
	slog.Debug("gesture committed", "gesture", name, "selected", len(e.selected))
}

func isCorner(d transform.Direction) bool {
	return slices.Contains(transform.CornerDirections, d)
}
