package clipboard

import (
	"testing"

	"github.com/inamate/canvas/internal/document"
)

func TestPasteEmptyIsNoop(t *testing.T) {
	var c Clipboard
	if got := c.Paste(); got != nil {
		t.Fatalf("Paste on empty clipboard = %v, want nil", got)
	}
	c.Copy(nil)
	if !c.Empty() {
		t.Fatal("Copy(nil) filled the clipboard")
	}
}

func TestPasteOffsetsAccumulate(t *testing.T) {
	src := document.NewShape(document.ShapeRectangle, 100, 50)
	var c Clipboard
	c.Copy([]document.Element{src})

	for i, want := range []float64{20, 40, 60} {
		got := c.Paste()
		if len(got) != 1 {
			t.Fatalf("paste %d returned %d elements", i, len(got))
		}
		if got[0].X != 100+want || got[0].Y != 50+want {
			t.Errorf("paste %d at (%v, %v), want offset %v", i, got[0].X, got[0].Y, want)
		}
		if got[0].ID == src.ID {
			t.Errorf("paste %d reused source id", i)
		}
		if got[0].Name != "Rectangle copy" {
			t.Errorf("paste %d name = %q", i, got[0].Name)
		}
	}

	c.Copy([]document.Element{src})
	if got := c.Paste(); got[0].X != 120 {
		t.Errorf("after re-copy x = %v, want 120", got[0].X)
	}
}

func TestPastedCopiesAreIndependent(t *testing.T) {
	child := document.NewShape(document.ShapeCircle, 5, 5)
	group := document.NewGroup([]document.Element{child}, 0, 0, 50, 50)

	var c Clipboard
	c.Copy([]document.Element{group})
	group.Children[0].Shape.Fill = "#ff0000"

	first := c.Paste()
	second := c.Paste()
	if first[0].Children[0].Shape.Fill != document.DefaultFill {
		t.Error("source mutation after copy leaked into clipboard")
	}
	if first[0].Children[0].ID == second[0].Children[0].ID {
		t.Error("nested children share ids across pastes")
	}

	first[0].Children[0].Shape.Fill = "#00ff00"
	if second[0].Children[0].Shape.Fill != document.DefaultFill {
		t.Error("pastes share nested data")
	}
}
