package layout

import (
	"math"
	"testing"
)

// TestPercentInsetComplement 验证 Of 与 Inset 互补：两者之和恒等于原长度。
func TestPercentInsetComplement(t *testing.T) {
	samples := []float64{0, 1, 12, 72, 128, 512}
	for _, p := range []Percent{0, 10, 33.3, 50, 100} {
		for _, v := range samples {
			if diff := math.Abs(p.Of(v) + p.Inset(v) - v); diff > 1e-9 {
				t.Fatalf("Of+Inset 不等于原长度: p=%g v=%g diff=%g", float64(p), v, diff)
			}
		}
	}
	if got := Percent(100).Inset(128); got != 0 {
		t.Fatalf("100%% 留白后应无可用宽度，实际 %g", got)
	}
}

// TestLineAdvance 覆盖行距与行高倍数的线性关系。
func TestLineAdvance(t *testing.T) {
	if got := LineAdvance(40, 1.2); math.Abs(got-48) > 1e-9 {
		t.Fatalf("40px × 1.2 行距期望 48，实际 %g", got)
	}
	if got := LineAdvance(40, 1); got != 40 {
		t.Fatalf("行高倍数为 1 时行距应等于字号，实际 %g", got)
	}
}

// TestTargetWidthNeverExceedsAvailable 保证拉伸目标宽度不超过扣除留白后的宽度。
func TestTargetWidthNeverExceedsAvailable(t *testing.T) {
	for _, pad := range []float64{0, 5, 10, 40, 100} {
		avail := Percent(pad).Inset(128)
		if got := TargetWidth(128, pad); got > avail+1e-9 {
			t.Fatalf("padding=%g 时目标宽度 %g 超过可用宽度 %g", pad, got, avail)
		}
	}
}
