// Package render rasterizes compiled scene draw commands into PNG images
// with gogpu/gg.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/gogpu/gg"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/geom"
	"github.com/inamate/canvas/internal/scene"
)

// ErrNoScene is returned when there is no drawable area to render.
var ErrNoScene = errors.New("render: no scene mounted")

// Rasterizer paints draw commands onto a software canvas.
type Rasterizer struct {
	images     *ImageCache
	fonts      *Fonts
	background string
}

// NewRasterizer returns a rasterizer filling the canvas with background
// first. A background of "transparent" leaves the canvas clear.
func NewRasterizer(images *ImageCache, fonts *Fonts, background string) *Rasterizer {
	return &Rasterizer{images: images, fonts: fonts, background: background}
}

// Rasterize renders commands at width by height pixels and returns PNG bytes.
func (r *Rasterizer) Rasterize(ctx context.Context, commands []scene.DrawCommand, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrNoScene
	}

	if r.images != nil {
		var srcs []string
		for _, cmd := range commands {
			if cmd.Image != nil {
				srcs = append(srcs, cmd.Image.Src)
			}
		}
		if err := r.images.Prefetch(ctx, srcs); err != nil {
			return nil, fmt.Errorf("load images: %w", err)
		}
	}

	dc := gg.NewContext(width, height)
	defer dc.Close()

	if bg, ok := parseColor(r.background, 1); ok {
		dc.ClearWithColor(bg)
	} else {
		dc.Clear()
	}

	for _, cmd := range commands {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.draw(dc, cmd); err != nil {
			return nil, fmt.Errorf("draw %s %s: %w", cmd.Op, cmd.ObjectID, err)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Rasterizer) draw(dc *gg.Context, cmd scene.DrawCommand) error {
	if len(cmd.Transform) != 6 {
		return nil
	}
	dc.Push()
	defer dc.Pop()
	dc.Transform(toMatrix(cmd.Transform))

	switch cmd.Op {
	case "path":
		return drawPath(dc, cmd)
	case "text":
		return r.drawText(dc, cmd)
	case "image":
		r.drawImage(dc, cmd)
	}
	return nil
}

// toMatrix converts a column-major [a b c d e f] canvas matrix into gg's
// row-major form.
func toMatrix(m []float64) gg.Matrix {
	return gg.Matrix{
		A: m[0], B: m[2], C: m[4],
		D: m[1], E: m[3], F: m[5],
	}
}

func tracePath(dc *gg.Context, path []scene.PathCommand) {
	dc.ClearPath()
	for _, seg := range path {
		if len(seg) == 0 {
			continue
		}
		op, _ := seg[0].(string)
		arg := func(i int) float64 { return scene.ToFloat64(seg[i]) }
		switch {
		case op == "M" && len(seg) >= 3:
			dc.MoveTo(arg(1), arg(2))
		case op == "L" && len(seg) >= 3:
			dc.LineTo(arg(1), arg(2))
		case op == "Q" && len(seg) >= 5:
			dc.QuadraticTo(arg(1), arg(2), arg(3), arg(4))
		case op == "C" && len(seg) >= 7:
			dc.CubicTo(arg(1), arg(2), arg(3), arg(4), arg(5), arg(6))
		case op == "Z":
			dc.ClosePath()
		}
	}
}

func drawPath(dc *gg.Context, cmd scene.DrawCommand) error {
	tracePath(dc, cmd.Path)
	defer dc.ClearPath()

	if fill, ok := parseColor(cmd.Fill, cmd.Opacity); ok {
		dc.SetColor(fill.Color())
		if err := dc.FillPreserve(); err != nil {
			return err
		}
	}
	if stroke, ok := parseColor(cmd.Stroke, cmd.Opacity); ok && cmd.StrokeWidth > 0 {
		dc.SetColor(stroke.Color())
		dc.SetLineWidth(cmd.StrokeWidth)
		if len(cmd.Dash) > 0 {
			dc.SetDash(cmd.Dash...)
			defer dc.ClearDash()
		}
		if err := dc.StrokePreserve(); err != nil {
			return err
		}
	}
	return nil
}

func (r *Rasterizer) drawText(dc *gg.Context, cmd scene.DrawCommand) error {
	t := cmd.Text
	if t == nil || r.fonts == nil {
		return nil
	}

	if bg, ok := parseColor(t.Background, cmd.Opacity); ok {
		dc.DrawRectangle(0, 0, cmd.Width, cmd.Height)
		dc.SetColor(bg.Color())
		if err := dc.Fill(); err != nil {
			return err
		}
	}

	col, ok := parseColor(t.Color, cmd.Opacity)
	if !ok {
		return nil
	}
	face := r.fonts.Face(t.FontWeight, t.FontSize)
	dc.SetFont(face)
	dc.SetColor(col.Color())

	lineHeight := t.FontSize * max(t.LineHeight, 0.1)
	ascent := face.Metrics().Ascent
	for i, line := range wrapLines(t.Content, cmd.Width, dc.MeasureString) {
		w, _ := dc.MeasureString(line)
		x := 0.0
		switch t.Align {
		case document.AlignCenter:
			x = (cmd.Width - w) / 2
		case document.AlignRight:
			x = cmd.Width - w
		}
		// Each line box is lineHeight tall with the glyphs centred in it.
		y := float64(i)*lineHeight + (lineHeight-t.FontSize)/2 + ascent
		dc.DrawString(line, x, y)
	}
	return nil
}

// wrapLines breaks content at newlines and then greedily at spaces so no
// line is wider than width. A single word wider than width gets its own line.
func wrapLines(content string, width float64, measure func(string) (float64, float64)) []string {
	var lines []string
	for _, para := range strings.Split(content, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			candidate := line + " " + w
			if cw, _ := measure(candidate); width > 0 && cw > width {
				lines = append(lines, line)
				line = w
				continue
			}
			line = candidate
		}
		lines = append(lines, line)
	}
	return lines
}

func (r *Rasterizer) drawImage(dc *gg.Context, cmd scene.DrawCommand) {
	ref := cmd.Image
	if ref == nil || r.images == nil || cmd.Width <= 0 || cmd.Height <= 0 {
		return
	}
	src, ok := r.images.Get(ref.Src)
	if !ok {
		slog.Debug("image not available, skipping", "id", cmd.ObjectID)
		return
	}

	// Prepare pixels at the on-screen size so filters are resolution independent.
	scale := screenScale(cmd.Transform)
	pw := int(math.Ceil(cmd.Width * scale))
	ph := int(math.Ceil(cmd.Height * scale))
	img := prepareImage(src, pw, ph, ref.Filters, ref.BorderRadius*scale)

	dc.DrawImageEx(gg.ImageBufFromImage(img), gg.DrawImageOptions{
		DstWidth:      cmd.Width,
		DstHeight:     cmd.Height,
		Interpolation: gg.InterpBilinear,
		Opacity:       min(1, max(0, cmd.Opacity)),
		BlendMode:     gg.BlendNormal,
	})
}

// screenScale is the length a unit vector gets under the transform.
func screenScale(m []float64) float64 {
	s := geom.Matrix2D{m[0], m[1], m[2], m[3], 0, 0}.Determinant()
	return math.Sqrt(math.Abs(s))
}
