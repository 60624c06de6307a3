package layout

import "strings"

// SplitLines 按 \n 切分文本并丢弃空白行，保留行内原样内容（含首尾空格）。
func SplitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// Compute 计算 text 在边长 size 的正方形内的垂直居中排布。没有非空行时返回 nil。
func Compute(text string, fontSize, lineHeight, verticalOffsetPercent, size float64) *Layout {
	lines := SplitLines(text)
	if len(lines) == 0 {
		return nil
	}
	adv := LineAdvance(fontSize, lineHeight)
	total := float64(len(lines)) * adv
	return &Layout{
		Lines:       lines,
		FontSize:    fontSize,
		LineAdvance: adv,
		TotalHeight: total,
		StartY:      (size-total)/2 + adv/2 + Percent(verticalOffsetPercent).Of(size),
	}
}
