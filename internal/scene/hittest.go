package scene

import (
	"github.com/inamate/canvas/internal/geom"
	"github.com/inamate/canvas/internal/transform"
)

// TargetKind classifies what a pointer landed on.
type TargetKind string

const (
	TargetBackground   TargetKind = "background"
	TargetElement      TargetKind = "element"
	TargetSelectionBox TargetKind = "selection-box"
	TargetHandle       TargetKind = "handle"
)

// Target is the result of a hit test.
type Target struct {
	Kind      TargetKind          `json:"kind"`
	ElementID string              `json:"elementId,omitempty"` // top-level element, for TargetElement
	NodeID    string              `json:"nodeId,omitempty"`    // innermost node hit
	Locked    bool                `json:"locked,omitempty"`
	Handle    transform.Direction `json:"handle,omitempty"`
}

// HitTest resolves a document-space point to the frontmost target.
// Handles win over elements, elements over the multi-selection box. In pan
// mode every point is background.
func HitTest(g *Graph, p geom.Point) Target {
	if g == nil || g.Mode == ModePan {
		return Target{Kind: TargetBackground}
	}

	if dir, ok := transform.HitHandle(g.handles, p, g.Zoom); ok {
		return Target{Kind: TargetHandle, Handle: dir}
	}

	for i := len(g.Elements) - 1; i >= 0; i-- {
		if hit := hitTestNode(g.Elements[i], p); hit != nil {
			return Target{Kind: TargetElement, ElementID: hit.ElementID, NodeID: hit.ID, Locked: hit.Locked}
		}
	}

	if box, ok := g.SelectionBox(); ok && box.Contains(p) {
		return Target{Kind: TargetSelectionBox}
	}
	return Target{Kind: TargetBackground}
}

// hitTestNode tests children first, front to back, then the node itself.
// Groups are only hit through their children.
func hitTestNode(node *Node, p geom.Point) *Node {
	if node == nil || !node.Bounds.Contains(p) {
		return nil
	}
	for i := len(node.Children) - 1; i >= 0; i-- {
		if hit := hitTestNode(node.Children[i], p); hit != nil {
			return hit
		}
	}
	if node.Kind == KindGroup {
		return nil
	}
	if node.contains(p) {
		return node
	}
	return nil
}
