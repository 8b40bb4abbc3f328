package render

import (
	"fmt"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Fonts holds the embedded faces used for text elements. Font families
// are not resolved; every family renders with the Go fonts.
type Fonts struct {
	regular *text.FontSource
	bold    *text.FontSource
}

// NewFonts parses the embedded regular and bold Go fonts.
func NewFonts() (*Fonts, error) {
	regular, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("load regular font: %w", err)
	}
	bold, err := text.NewFontSource(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("load bold font: %w", err)
	}
	return &Fonts{regular: regular, bold: bold}, nil
}

// Face returns a face for the CSS-style weight at size.
func (f *Fonts) Face(weight string, size float64) text.Face {
	switch weight {
	case "bold", "bolder", "600", "700", "800", "900":
		return f.bold.Face(size)
	default:
		return f.regular.Face(size)
	}
}
