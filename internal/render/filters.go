package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/inamate/canvas/internal/document"
)

// prepareImage scales src to the pixel size it will be drawn at and
// applies the element's filters and corner radius. The result is a fresh
// image; src is never modified.
func prepareImage(src image.Image, w, h int, filters document.ImageFilters, radius float64) *image.NRGBA {
	w, h = max(1, w), max(1, h)
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	if filters.Grayscale {
		grayscale(dst)
	}
	if b := filters.Brightness; b > 0 && b != 1 {
		brightness(dst, b)
	}
	if r := int(math.Round(filters.Blur)); r > 0 {
		dst = boxBlur(dst, r)
	}
	if radius > 0 {
		roundCorners(dst, radius)
	}
	return dst
}

func grayscale(img *image.NRGBA) {
	for i := 0; i+3 < len(img.Pix); i += 4 {
		p := img.Pix[i : i+3 : i+3]
		y := uint8(math.Round(0.299*float64(p[0]) + 0.587*float64(p[1]) + 0.114*float64(p[2])))
		p[0], p[1], p[2] = y, y, y
	}
}

func brightness(img *image.NRGBA, factor float64) {
	for i := 0; i+3 < len(img.Pix); i += 4 {
		for c := range 3 {
			v := float64(img.Pix[i+c]) * factor
			img.Pix[i+c] = uint8(min(255, max(0, math.Round(v))))
		}
	}
}

// boxBlur runs a separable box blur of radius r, horizontal then vertical.
func boxBlur(src *image.NRGBA, r int) *image.NRGBA {
	b := src.Bounds()
	tmp := image.NewNRGBA(b)
	dst := image.NewNRGBA(b)
	blurPass(src, tmp, r, true)
	blurPass(tmp, dst, r, false)
	return dst
}

func blurPass(src, dst *image.NRGBA, r int, horizontal bool) {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	outer, inner := h, w
	if !horizontal {
		outer, inner = w, h
	}
	at := func(o, i int) int {
		if horizontal {
			return o*src.Stride + i*4
		}
		return i*src.Stride + o*4
	}

	for o := range outer {
		var sum [4]int
		// Edge pixels extend past the border.
		for k := -r; k <= r; k++ {
			idx := at(o, min(inner-1, max(0, k)))
			for c := range 4 {
				sum[c] += int(src.Pix[idx+c])
			}
		}
		n := 2*r + 1
		for i := range inner {
			idx := at(o, i)
			for c := range 4 {
				dst.Pix[idx+c] = uint8(sum[c] / n)
			}
			out := at(o, max(0, i-r))
			in := at(o, min(inner-1, i+r+1))
			for c := range 4 {
				sum[c] += int(src.Pix[in+c]) - int(src.Pix[out+c])
			}
		}
	}
}

// roundCorners clears the alpha outside a rounded rectangle inscribed in img.
func roundCorners(img *image.NRGBA, radius float64) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	r := min(radius, float64(w)/2, float64(h)/2)
	for y := range h {
		for x := range w {
			cx, cy := float64(x)+0.5, float64(y)+0.5
			var dx, dy float64
			switch {
			case cx < r:
				dx = r - cx
			case cx > float64(w)-r:
				dx = cx - (float64(w) - r)
			}
			switch {
			case cy < r:
				dy = r - cy
			case cy > float64(h)-r:
				dy = cy - (float64(h) - r)
			}
			if dx == 0 || dy == 0 {
				continue
			}
			if dx*dx+dy*dy > r*r {
				img.SetNRGBA(x, y, color.NRGBA{})
			}
		}
	}
}
