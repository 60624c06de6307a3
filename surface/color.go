package surface

import (
	"image/color"
	"strings"

	"github.com/tdewolff/canvas"
)

var namedColors = map[string]color.RGBA{
	"transparent": canvas.Transparent,
	"black":       canvas.Black,
	"white":       canvas.White,
	"red":         canvas.Red,
	"green":       canvas.Green,
	"blue":        canvas.Blue,
	"yellow":      canvas.Yellow,
	"orange":      canvas.Orange,
	"pink":        canvas.Pink,
	"purple":      canvas.Purple,
	"gray":        canvas.Gray,
	"grey":        canvas.Grey,
	"silver":      canvas.Silver,
	"cyan":        canvas.Cyan,
	"magenta":     canvas.Magenta,
	"navy":        canvas.Navy,
	"teal":        canvas.Teal,
	"lime":        canvas.Lime,
	"maroon":      canvas.Maroon,
	"olive":       canvas.Olive,
}

// ParseColor parses a CSS hex color (#rgb, #rgba, #rrggbb, #rrggbbaa) or a
// basic CSS color keyword. The returned color is alpha-premultiplied.
func ParseColor(s string) (color.RGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, true
	}
	if !strings.HasPrefix(s, "#") {
		return color.RGBA{}, false
	}
	digits := s[1:]
	switch len(digits) {
	case 3, 4, 6, 8:
	default:
		return color.RGBA{}, false
	}
	for _, r := range digits {
		if !('0' <= r && r <= '9' || 'a' <= r && r <= 'f') {
			return color.RGBA{}, false
		}
	}
	return canvas.Hex(s), true
}
