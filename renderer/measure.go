package renderer

import (
	"github.com/ByLCY/slackmoji/fontspec"
	"github.com/ByLCY/slackmoji/layout"
)

// TextMeasurer 是测量所需的最小 surface 能力。
type TextMeasurer interface {
	SetFont(font string)
	MeasureText(text string) float64
}

// SurfaceMeasurer 通过 surface 的当前字体测量文本宽度，测量前会切换到 "<size>px <family>"。
type SurfaceMeasurer struct {
	S TextMeasurer
}

var _ layout.Measurer = SurfaceMeasurer{}

// MeasureText implements layout.Measurer.
func (m SurfaceMeasurer) MeasureText(text string, fontSize float64, fontFamily string) float64 {
	m.S.SetFont(fontspec.Format(fontSize, fontFamily))
	return m.S.MeasureText(text)
}
