package document

// NewSampleDocument returns a small canvas exercising every element kind,
// including a nested group.
func NewSampleDocument() Persisted {
	rect := NewShape(ShapeRectangle, 200, 200)
	rect.Width, rect.Height = 200, 150
	rect.Shape.Fill = "#e94560"
	rect.Shape.Stroke = "#000000"
	rect.Shape.StrokeWidth = 2
	rect.Shape.CornerRadius = 12

	circle := NewShape(ShapeCircle, 560, 280)
	circle.Width, circle.Height = 240, 160
	circle.Shape.Fill = "#0f3460"
	circle.Shape.Stroke = "#16213e"
	circle.Shape.StrokeWidth = 2

	triangle := NewShape(ShapeTriangle, 900, 200)
	triangle.Width, triangle.Height = 200, 150
	triangle.Shape.Fill = "#53d769"
	triangle.Shape.Stroke = "#2d6a4f"
	triangle.Shape.StrokeWidth = 2
	triangle.Rotation = 15

	title := NewText("Hello, canvas", 200, 80)
	title.Width = 400
	title.Text.FontSize = 40
	title.Text.FontWeight = "bold"
	title.Height = 48

	badgeRect := NewShape(ShapeRectangle, 0, 0)
	badgeRect.Width, badgeRect.Height = 60, 100
	badgeRect.Shape.Fill = "#f5a623"
	badgeRect.Shape.Stroke = "#c78400"
	badgeRect.Shape.StrokeWidth = 2

	badgeDot := NewShape(ShapeCircle, 20, -40)
	badgeDot.Width, badgeDot.Height = 40, 40
	badgeDot.Shape.Fill = "#bd10e0"

	// Children are relative to the group origin; the dot sits above the
	// bar, so the group box starts at y=-40 relative to the bar.
	for _, c := range []*Element{&badgeRect, &badgeDot} {
		c.Y += 40
	}
	inner := NewGroup([]Element{badgeRect, badgeDot}, 0, 0, 60, 140)
	inner.Name = "Badge"

	caption := NewText("badge", 0, 150)
	caption.Width = 80
	caption.Text.FontSize = 16
	caption.Height = 20

	badge := NewGroup([]Element{inner, caption}, 500, 450, 80, 170)
	badge.Name = "Badge with caption"

	return Persisted{
		Elements: []Element{rect, circle, triangle, title, badge},
		Zoom:     DefaultZoom,
	}
}
