package renderer

import (
	"image/color"
	"strings"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/slackmoji/config"
	"github.com/ByLCY/slackmoji/surface"
)

// BuildGradient 返回覆盖 size×size 正方形的双色线性渐变：
// horizontal 从左到右，vertical 从上到下，diagonal 从左上到右下，其他取值按 horizontal 处理。
// 颜色为空或无法解析时分别使用 #FF6B6B 与 #4ECDC4。
func BuildGradient(size float64, dir config.Direction, color1, color2 string) surface.Paint {
	return LinearGradient(size, dir, color1, color2)
}

// LinearGradient 与 BuildGradient 相同，但返回 canvas 的渐变类型，供矢量导出直接使用。
func LinearGradient(size float64, dir config.Direction, color1, color2 string) *canvas.LinearGradient {
	end := canvas.Point{X: size}
	switch config.Direction(strings.ToLower(strings.TrimSpace(string(dir)))) {
	case config.Vertical:
		end = canvas.Point{Y: size}
	case config.Diagonal:
		end = canvas.Point{X: size, Y: size}
	}
	g := canvas.NewLinearGradient(canvas.Point{}, end)
	g.Add(0, stopColor(color1, config.DefaultGradientColor1))
	g.Add(1, stopColor(color2, config.DefaultGradientColor2))
	return g
}

func stopColor(s, fallback string) color.RGBA {
	if c, ok := surface.ParseColor(s); ok {
		return c
	}
	c, _ := surface.ParseColor(fallback)
	return c
}
