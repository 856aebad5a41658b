package render

import (
	"fmt"
	"image/color"
	"strconv"
)

// parseHex decodes #RRGGBB or #RRGGBBAA. ok is false for empty or
// malformed input.
func parseHex(s string) (c color.NRGBA, ok bool) {
	if len(s) != 7 && len(s) != 9 || s[0] != '#' {
		return c, false
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return c, false
	}
	if len(s) == 7 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, true
}

// svgPaint returns an SVG paint value for s.
func svgPaint(s string) string {
	c, ok := parseHex(s)
	switch {
	case !ok:
		return "none"
	case c.A == 0xff:
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	default:
		return fmt.Sprintf("rgba(%d,%d,%d,%.3g)", c.R, c.G, c.B, float64(c.A)/255)
	}
}
