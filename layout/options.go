package layout

// Measurer 返回 text 以 fontSize 像素、fontFamily 字体族排版时的自然宽度。
type Measurer interface {
	MeasureText(text string, fontSize float64, fontFamily string) float64
}

// MeasureFunc 让普通函数满足 Measurer。
type MeasureFunc func(text string, fontSize float64, fontFamily string) float64

// MeasureText implements Measurer.
func (f MeasureFunc) MeasureText(text string, fontSize float64, fontFamily string) float64 {
	return f(text, fontSize, fontFamily)
}

// Constraints 描述求解字号时的可用区域（像素）与排版参数。
type Constraints struct {
	MaxWidth          float64
	MaxHeight         float64
	FontFamily        string
	LineHeight        float64 // 行高倍数
	HorizontalPadding float64 // 左右合计留白，单位 %
}
