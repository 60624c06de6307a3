package layout

// 该文件集中定义布局中使用的比例常量与单位换算。

const (
	// MinFontSize 是任何求解结果的下限（像素）。
	MinFontSize = 8
	// EmptyFontSize 是没有可排版行时返回的字号。
	EmptyFontSize = 12
	// FontSizeStep 是逐级缩小字号的步长。
	FontSizeStep = 2
	// FillRatio 是文本块占可用宽高的上限比例。
	FillRatio = 0.9
)

// Percent 表示 0-100 的百分比。
type Percent float64

// Of 返回 v 的 p%。
func (p Percent) Of(v float64) float64 { return v * float64(p) / 100 }

// Inset 返回扣除 p% 留白后剩余的长度。
func (p Percent) Inset(v float64) float64 { return v * (1 - float64(p)/100) }

// LineAdvance 返回字号 fontSize、行高倍数 multiplier 下相邻两行基线的间距。
func LineAdvance(fontSize, multiplier float64) float64 { return fontSize * multiplier }

// TargetWidth 是自动拉伸模式下每行被缩放到的宽度：size*(1-padding%)*0.9。
func TargetWidth(size, paddingPercent float64) float64 {
	return Percent(paddingPercent).Inset(size) * FillRatio
}
