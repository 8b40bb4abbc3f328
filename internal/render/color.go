package render

import (
	"fmt"
	"strings"

	"github.com/gogpu/gg"
)

// parseColor reads "#rgb", "#rrggbb", "#rrggbbaa" and "rgba(r,g,b,a)"
// colors. It reports false for empty and "transparent" values.
func parseColor(s string, opacity float64) (gg.RGBA, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "transparent" || s == "none" {
		return gg.RGBA{}, false
	}

	var c gg.RGBA
	if strings.HasPrefix(s, "rgb") {
		var r, g, b float64
		a := 1.0
		body := s[strings.IndexByte(s, '(')+1:]
		body = strings.TrimSuffix(body, ")")
		body = strings.ReplaceAll(body, " ", "")
		n, _ := fmt.Sscanf(body, "%g,%g,%g,%g", &r, &g, &b, &a)
		if n < 3 {
			return gg.RGBA{}, false
		}
		c = gg.RGBA{R: r / 255, G: g / 255, B: b / 255, A: a}
	} else {
		c = gg.Hex(s)
	}
	c.A *= opacity
	return c, c.A > 0
}
