package layout

import "math"

// Solver 求出 text 在约束 c 内的最佳字号（像素）。
type Solver interface {
	Solve(text string, c Constraints) float64
}

// SolverFor 按自动拉伸开关选择求解策略：开启时只按高度求解，否则按宽高同时求解。
func SolverFor(autoFitWidth bool, m Measurer) Solver {
	if autoFitWidth {
		return HeightOnlySolver{}
	}
	return BoxFitSolver{Measurer: m}
}

// BoxFitSolver 从 min(宽, 高) 开始每次缩小 2px，直到最宽的行与总高度都落在 90% 以内。
type BoxFitSolver struct {
	Measurer Measurer
}

// Solve implements Solver.
func (s BoxFitSolver) Solve(text string, c Constraints) float64 {
	lines := SplitLines(text)
	if len(lines) == 0 {
		return EmptyFontSize
	}
	available := Percent(c.HorizontalPadding).Inset(c.MaxWidth)

	size := math.Min(c.MaxWidth, c.MaxHeight)
	for size > MinFontSize && !s.fits(lines, size, available, c) {
		size -= FontSizeStep
	}
	return math.Max(size, MinFontSize)
}

func (s BoxFitSolver) fits(lines []string, size, available float64, c Constraints) bool {
	var widest float64
	for _, line := range lines {
		widest = math.Max(widest, s.Measurer.MeasureText(line, size, c.FontFamily))
	}
	total := float64(len(lines)) * LineAdvance(size, c.LineHeight)
	return widest <= available*FillRatio && total <= c.MaxHeight*FillRatio
}

// HeightOnlySolver 只按行数与行高求字号，宽度交给绘制阶段的水平缩放。
type HeightOnlySolver struct{}

// Solve implements Solver.
func (HeightOnlySolver) Solve(text string, c Constraints) float64 {
	n := len(SplitLines(text))
	if n == 0 {
		return EmptyFontSize
	}
	size := c.MaxHeight * FillRatio / float64(n) / c.LineHeight
	return math.Min(math.Max(size, MinFontSize), c.MaxHeight)
}
