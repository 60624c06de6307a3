package canvasrenderer

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/ByLCY/slackmoji/config"
	"github.com/ByLCY/slackmoji/layout"
	"github.com/ByLCY/slackmoji/renderer"
	"github.com/ByLCY/slackmoji/surface"
)

func testConfig() config.RenderConfig {
	cfg := config.Default()
	cfg.FontFamily = "Go"
	return cfg
}

func TestRenderSVG(t *testing.T) {
	r := NewRenderer(nil)
	data, fontSize, err := r.Render(testConfig(), SVG)
	if err != nil {
		t.Fatalf("render svg failed: %v", err)
	}
	if fontSize < layout.MinFontSize {
		t.Fatalf("unexpected font size %v", fontSize)
	}
	out := string(data)
	if !strings.Contains(out, "<svg") || !strings.Contains(out, "<path") {
		t.Fatalf("expected svg with paths, got %.120s", out)
	}
}

func TestRenderPDF(t *testing.T) {
	cfg := testConfig()
	cfg.UseGradient = true
	data, _, err := NewRenderer(nil).Render(cfg, PDF)
	if err != nil {
		t.Fatalf("render pdf failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("expected pdf header")
	}
}

func TestGradientSVG(t *testing.T) {
	cfg := testConfig()
	cfg.UseGradient = true
	cfg.GradientDir = config.Vertical
	data, _, err := NewRenderer(nil).Render(cfg, SVG)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(string(data), "linearGradient") {
		t.Fatalf("expected a linear gradient in svg output")
	}
}

// 矢量与位图两条路径应得到相同的字号。
func TestFontSizeMatchesRaster(t *testing.T) {
	for _, autoFit := range []bool{false, true} {
		cfg := testConfig()
		cfg.Text = "OK\nGo"
		cfg.AutoFitWidth = autoFit

		want, ok := renderer.Render(surface.NewRaster(1, 1), cfg)
		if !ok {
			t.Fatalf("raster render failed")
		}
		_, got, err := NewRenderer(nil).Render(cfg, SVG)
		if err != nil {
			t.Fatalf("vector render failed: %v", err)
		}
		if got != want {
			t.Fatalf("autoFit=%v: vector font size %v, raster %v", autoFit, got, want)
		}
	}
}

// 自动拉伸时，宽度差异很大的两行在缩放后应具有相同的前进宽度。
func TestAutoFitLinesEqualWidth(t *testing.T) {
	cfg := testConfig()
	cfg.Text = "I\nWWWWWW"
	cfg.AutoFitWidth = true

	lines, l, err := NewRenderer(nil).Lines(cfg)
	if err != nil {
		t.Fatalf("lines failed: %v", err)
	}
	if len(lines) != 2 || l == nil {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	target := layout.TargetWidth(float64(cfg.SizePx), cfg.HorizontalPaddingPercent)
	for _, line := range lines {
		if got := line.Width * line.ScaleX; math.Abs(got-target) > 1e-9 {
			t.Fatalf("line %q scaled width %v, want %v", line.Text, got, target)
		}
		b := line.Path.Bounds()
		if b.X1-b.X0 > target+1 {
			t.Fatalf("line %q ink wider than target: %v", line.Text, b.X1-b.X0)
		}
	}
	if lines[0].ScaleX <= lines[1].ScaleX {
		t.Fatalf("narrow line should be stretched more")
	}
}

func TestBlankTextOnlyBackground(t *testing.T) {
	cfg := testConfig()
	cfg.Text = "\n \n"
	data, fontSize, err := NewRenderer(nil).Render(cfg, SVG)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if fontSize != 0 {
		t.Fatalf("expected no font size for blank text, got %v", fontSize)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Fatalf("expected svg document")
	}
}

func TestRenderErrors(t *testing.T) {
	cfg := testConfig()
	cfg.SizePx = 0
	if _, _, err := NewRenderer(nil).Render(cfg, SVG); err == nil {
		t.Fatalf("expected error for non-positive size")
	}
	if _, _, err := NewRenderer(nil).Render(testConfig(), Format("eps")); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestFormatFromPath(t *testing.T) {
	if f, ok := FormatFromPath("out/Emoji.SVG"); !ok || f != SVG {
		t.Fatalf("expected svg, got %q", f)
	}
	if f, ok := FormatFromPath("a.pdf"); !ok || f != PDF {
		t.Fatalf("expected pdf, got %q", f)
	}
	if _, ok := FormatFromPath("a.png"); ok {
		t.Fatalf("png is not a vector format")
	}
}
