package layout

// Layout 是一次渲染中全部非空行的纵向排布结果，坐标单位为像素。
type Layout struct {
	Lines       []string `json:"lines"`
	FontSize    float64  `json:"fontSize"`
	LineAdvance float64  `json:"lineAdvance"`
	TotalHeight float64  `json:"totalHeight"`
	StartY      float64  `json:"startY"`
}

// LineY 返回第 i 行的垂直中心。
func (l *Layout) LineY(i int) float64 {
	return l.StartY + float64(i)*l.LineAdvance
}

// Positions 返回每一行的垂直中心，供调试输出使用。
func (l *Layout) Positions() []float64 {
	out := make([]float64, len(l.Lines))
	for i := range l.Lines {
		out[i] = l.LineY(i)
	}
	return out
}
