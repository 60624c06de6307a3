package fontspec

import (
	"fmt"
	"strconv"
	"strings"
)

// Font is a resolved font shorthand.
type Font struct {
	SizePx   float64
	Bold     bool
	Italic   bool
	Families []string
}

// Parse parses a CSS font shorthand and interprets its style modifiers.
// Unknown modifiers make the whole value invalid, as in CSS.
func Parse(s string) (Font, error) {
	ast, err := ParseShorthandString(s)
	if err != nil {
		return Font{}, fmt.Errorf("解析字体 %q 失败: %w", s, err)
	}
	f := Font{
		SizePx:   ast.Size.Pixels(),
		Families: familyNames(ast.Families),
	}
	if f.SizePx <= 0 {
		return Font{}, fmt.Errorf("字体大小必须大于 0: %q", s)
	}
	for _, mod := range ast.Modifiers {
		if weight, err := strconv.Atoi(mod); err == nil {
			if weight < 1 || weight > 1000 {
				return Font{}, fmt.Errorf("无效的字重 %d", weight)
			}
			f.Bold = weight >= 600
			continue
		}
		switch strings.ToLower(mod) {
		case "bold", "bolder":
			f.Bold = true
		case "italic", "oblique":
			f.Italic = true
		case "normal", "lighter", "small-caps",
			"ultra-condensed", "extra-condensed", "condensed", "semi-condensed",
			"semi-expanded", "expanded", "extra-expanded", "ultra-expanded":
		default:
			return Font{}, fmt.Errorf("未知的字体修饰 %q", mod)
		}
	}
	return f, nil
}

// Format builds the shorthand the renderer hands to a surface: "<size>px <family>".
func Format(sizePx float64, family string) string {
	return strconv.FormatFloat(sizePx, 'f', -1, 64) + "px " + family
}
