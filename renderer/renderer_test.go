package renderer

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/ByLCY/slackmoji/config"
	"github.com/ByLCY/slackmoji/fontspec"
	"github.com/ByLCY/slackmoji/layout"
	"github.com/ByLCY/slackmoji/surface"
)

// recorder 是只记录调用的 surface：测量宽度为 字符数×字号×0.6，FillText 记录缩放后的宽度。
type recorder struct {
	w, h    int
	size    float64
	sx      float64
	stack   []float64
	quality surface.Quality
	fills   []recordedFill
	rects   int
	fonts   []string
}

type recordedFill struct {
	text   string
	width  float64
	scaleX float64
}

func newRecorder() *recorder { return &recorder{sx: 1, size: 10} }

func (r *recorder) Resize(w, h int) {
	r.w, r.h, r.sx, r.stack = w, h, 1, nil
}
func (r *recorder) Width() int                              { return r.w }
func (r *recorder) Height() int                             { return r.h }
func (r *recorder) Clear()                                  {}
func (r *recorder) FillRect(x, y, w, h float64)             { r.rects++ }
func (r *recorder) SetFillColor(string)                     {}
func (r *recorder) SetFillPaint(surface.Paint)              {}
func (r *recorder) SetTextAlign(surface.TextAlign)          {}
func (r *recorder) SetTextBaseline(surface.TextBaseline)    {}
func (r *recorder) SetCompositeOp(surface.CompositeOp)      {}
func (r *recorder) DrawImage(image.Image, float64, float64) {}
func (r *recorder) SetQuality(q surface.Quality)            { r.quality = q }
func (r *recorder) Translate(x, y float64)                  {}
func (r *recorder) Scale(sx, sy float64)                    { r.sx *= sx }
func (r *recorder) Save()                                   { r.stack = append(r.stack, r.sx) }
func (r *recorder) Restore() {
	if len(r.stack) > 0 {
		r.sx = r.stack[len(r.stack)-1]
		r.stack = r.stack[:len(r.stack)-1]
	}
}
func (r *recorder) SetFont(s string) {
	if f, err := fontspec.Parse(s); err == nil {
		r.size = f.SizePx
		r.fonts = append(r.fonts, s)
	}
}
func (r *recorder) MeasureText(text string) float64 {
	return float64(utf8.RuneCountInString(text)) * r.size * 0.6
}
func (r *recorder) FillText(text string, x, y float64) {
	r.fills = append(r.fills, recordedFill{text: text, width: r.sx * r.MeasureText(text), scaleX: r.sx})
}
func (r *recorder) NewOffscreen(w, h int) surface.Surface {
	off := newRecorder()
	off.Resize(w, h)
	return off
}
func (r *recorder) Image() image.Image { return image.NewRGBA(image.Rect(0, 0, r.w, r.h)) }
func (r *recorder) EncodePNG(w io.Writer) error {
	return png.Encode(w, r.Image())
}

var _ surface.Surface = (*recorder)(nil)

func testConfig() config.RenderConfig {
	cfg := config.Default()
	cfg.FontFamily = "Go"
	cfg.TransparentBackground = true
	return cfg
}

func TestAutoFitLinesScaledIndependently(t *testing.T) {
	cfg := testConfig()
	cfg.Text = "A\nWWWWWWWW"
	cfg.AutoFitWidth = true

	rec := newRecorder()
	fontSize, ok := Render(rec, cfg)
	if !ok {
		t.Fatalf("expected render")
	}
	if rec.quality != surface.QualityHigh {
		t.Fatalf("expected high quality")
	}
	if len(rec.fills) != 2 {
		t.Fatalf("expected 2 painted lines, got %d", len(rec.fills))
	}
	target := layout.TargetWidth(float64(cfg.SizePx), cfg.HorizontalPaddingPercent)
	for _, f := range rec.fills {
		if math.Abs(f.width-target) > 1e-6 {
			t.Fatalf("line %q rendered width %v, want %v", f.text, f.width, target)
		}
	}
	if rec.fills[0].scaleX <= rec.fills[1].scaleX {
		t.Fatalf("short line should be stretched more: %v vs %v", rec.fills[0].scaleX, rec.fills[1].scaleX)
	}
	if rec.sx != 1 || len(rec.stack) != 0 {
		t.Fatalf("transform must be restored after each line")
	}
	// 高度求解：128*0.9/2/1.2
	if want := 48.0; math.Abs(fontSize-want) > 1e-9 {
		t.Fatalf("expected font size %v, got %v", want, fontSize)
	}
}

func TestFixedWidthPathIsUnscaled(t *testing.T) {
	cfg := testConfig()
	cfg.Text = "A\nWWWW"
	cfg.AutoFitWidth = false
	cfg.AutoFontSize = false
	cfg.FontSizePx = 20

	rec := newRecorder()
	fontSize, ok := Render(rec, cfg)
	if !ok || fontSize != 20 {
		t.Fatalf("expected verbatim font size 20, got %v (%v)", fontSize, ok)
	}
	for _, f := range rec.fills {
		if f.scaleX != 1 {
			t.Fatalf("fixed-width line %q scaled by %v", f.text, f.scaleX)
		}
	}
}

func TestBoxFitWithRecorderPinsOK(t *testing.T) {
	cfg := testConfig()
	cfg.Text = "OK"
	cfg.AutoFitWidth = false
	cfg.HorizontalPaddingPercent = 10

	fontSize, ok := Render(newRecorder(), cfg)
	if !ok || fontSize != 86 {
		t.Fatalf("expected 86, got %v (%v)", fontSize, ok)
	}
}

func TestBlankFontFamilyUsesDefault(t *testing.T) {
	cfg := testConfig()
	cfg.Text = "OK"
	cfg.FontFamily = ""

	rec := newRecorder()
	fontSize, ok := Render(rec, cfg)
	if !ok || fontSize <= 0 {
		t.Fatalf("expected render, got %v (%v)", fontSize, ok)
	}
	if len(rec.fonts) == 0 {
		t.Fatalf("expected fonts to be applied")
	}
	want := fontspec.Format(fontSize, config.DefaultFontFamily)
	if last := rec.fonts[len(rec.fonts)-1]; last != want {
		t.Fatalf("expected font %q, got %q", want, last)
	}
	if rec.size != fontSize {
		t.Fatalf("surface font size %v, solved %v", rec.size, fontSize)
	}
}

func TestBackgroundRules(t *testing.T) {
	cfg := testConfig()
	cfg.TransparentBackground = false

	rec := newRecorder()
	Render(rec, cfg)
	if rec.rects != 1 {
		t.Fatalf("expected background fill, got %d rects", rec.rects)
	}

	rec = newRecorder()
	Render(rec, cfg, Preview("transparent"))
	if rec.rects != 0 {
		t.Fatalf("transparent preview must not paint a background")
	}

	cfg.TransparentBackground = true
	rec = newRecorder()
	Render(rec, cfg)
	if rec.rects != 0 {
		t.Fatalf("transparent config must not paint a background")
	}
	rec = newRecorder()
	Render(rec, cfg, Preview(DarkBackground))
	if rec.rects != 1 {
		t.Fatalf("preview background must be painted")
	}
}

func rgba(t *testing.T, s surface.Surface) *image.RGBA {
	t.Helper()
	img, ok := s.Image().(*image.RGBA)
	if !ok {
		t.Fatalf("expected *image.RGBA")
	}
	return img
}

func TestBlankTextLeavesBackground(t *testing.T) {
	cfg := testConfig()
	cfg.Text = " \n\t\n"
	cfg.TransparentBackground = false
	cfg.BackgroundColor = "#336699"

	s := surface.NewRaster(1, 1)
	size, ok := Render(s, cfg)
	if ok || size != 0 {
		t.Fatalf("expected no render for blank text, got %v", size)
	}
	img := rgba(t, s)
	if img.Bounds().Dx() != cfg.SizePx {
		t.Fatalf("surface must still be resized")
	}
	want := color.RGBA{0x33, 0x66, 0x99, 0xff}
	for y := 0; y < cfg.SizePx; y += 17 {
		for x := 0; x < cfg.SizePx; x += 17 {
			if got := img.RGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want background %v", x, y, got, want)
			}
		}
	}
}

func TestSolvedSizeWithinBounds(t *testing.T) {
	texts := []string{"OK", "Hello\nWorld", "W", "ありがとう", "a very long line of text that will never fit", "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n11\n12"}
	for _, autoFit := range []bool{false, true} {
		for _, text := range texts {
			cfg := testConfig()
			cfg.Text = text
			cfg.AutoFitWidth = autoFit
			size, ok := Render(surface.NewRaster(1, 1), cfg)
			if !ok {
				t.Fatalf("%q: expected render", text)
			}
			if size < layout.MinFontSize || size > float64(cfg.SizePx) {
				t.Fatalf("%q (autoFit=%v): size %v out of [8, %d]", text, autoFit, size, cfg.SizePx)
			}
		}
	}
}

func TestRenderDeterministic(t *testing.T) {
	cfg := testConfig()
	cfg.Text = "OK"
	cfg.AutoFitWidth = false
	cfg.HorizontalPaddingPercent = 10

	a, b := surface.NewRaster(1, 1), surface.NewRaster(1, 1)
	sa, _ := Render(a, cfg)
	sb, _ := Render(b, cfg)
	if sa != sb {
		t.Fatalf("font size differs between runs: %v vs %v", sa, sb)
	}
	if int(sa)%2 != 0 {
		t.Fatalf("box-fit result must be an even step from 128, got %v", sa)
	}
	if !bytes.Equal(rgba(t, a).Pix, rgba(t, b).Pix) {
		t.Fatalf("pixels differ between runs")
	}
}

func TestGradientMaskMatchesGlyphCoverage(t *testing.T) {
	cfg := testConfig()
	cfg.Text = "Go"
	cfg.UseGradient = true
	cfg.GradientColor1 = "#ff0000"
	cfg.GradientColor2 = "#0000ff"
	cfg.GradientDir = config.Horizontal

	grad := surface.NewRaster(1, 1)
	if _, ok := Render(grad, cfg); !ok {
		t.Fatalf("expected render")
	}

	solid := cfg
	solid.UseGradient = false
	solid.Color = "#ffffff"
	mask := surface.NewRaster(1, 1)
	Render(mask, solid)

	g, m := rgba(t, grad), rgba(t, mask)
	paint := BuildGradient(float64(cfg.SizePx), cfg.GradientDir, cfg.GradientColor1, cfg.GradientColor2)
	var inside int
	for y := 0; y < cfg.SizePx; y++ {
		for x := 0; x < cfg.SizePx; x++ {
			ga, ma := int(g.RGBAAt(x, y).A), int(m.RGBAAt(x, y).A)
			if ma == 0 && ga != 0 {
				t.Fatalf("gradient painted outside glyphs at (%d,%d)", x, y)
			}
			if d := ga - ma; d > 1 || d < -1 {
				t.Fatalf("alpha mismatch at (%d,%d): gradient %d, mask %d", x, y, ga, ma)
			}
			if ma == 0xff {
				inside++
				want := paint.At(float64(x)+0.5, float64(y)+0.5)
				if got := g.RGBAAt(x, y); got != want {
					t.Fatalf("interior pixel (%d,%d) = %v, want gradient %v", x, y, got, want)
				}
			}
		}
	}
	if inside == 0 {
		t.Fatalf("expected fully covered glyph pixels")
	}
}

func TestVerticalGradientOrdering(t *testing.T) {
	cfg := testConfig()
	cfg.Text = "I"
	cfg.UseGradient = true
	cfg.GradientColor1 = "#ff0000"
	cfg.GradientColor2 = "#0000ff"
	cfg.GradientDir = config.Vertical

	s := surface.NewRaster(1, 1)
	Render(s, cfg)
	img := rgba(t, s)

	top, bottom := -1, -1
	var topC, bottomC color.RGBA
	for y := 0; y < cfg.SizePx; y++ {
		for x := 0; x < cfg.SizePx; x++ {
			c := img.RGBAAt(x, y)
			if c.A != 0xff {
				continue
			}
			if top < 0 {
				top, topC = y, c
			}
			bottom, bottomC = y, c
		}
	}
	if top < 0 || bottom <= top {
		t.Fatalf("expected opaque glyph rows, got top=%d bottom=%d", top, bottom)
	}
	if topC.R <= topC.B {
		t.Fatalf("top of glyph should lean to color1, got %v", topC)
	}
	if bottomC.B <= bottomC.R {
		t.Fatalf("bottom of glyph should lean to color2, got %v", bottomC)
	}
}

func TestBuildGradient(t *testing.T) {
	g := BuildGradient(100, config.Horizontal, "#ff0000", "#0000ff")
	if c := g.At(0, 50); c != (color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("start color %v", c)
	}
	if c := g.At(100, 50); c != (color.RGBA{0, 0, 255, 255}) {
		t.Fatalf("end color %v", c)
	}

	// 未知方向按水平处理
	u := BuildGradient(100, "spiral", "#ff0000", "#0000ff")
	if u.At(10, 0) != u.At(10, 90) {
		t.Fatalf("horizontal ramp must be constant along y")
	}

	d := BuildGradient(100, "  DIAGONAL ", "", "not-a-color")
	c1, _ := surface.ParseColor(config.DefaultGradientColor1)
	c2, _ := surface.ParseColor(config.DefaultGradientColor2)
	if d.At(0, 0) != c1 || d.At(100, 100) != c2 {
		t.Fatalf("expected default stops, got %v %v", d.At(0, 0), d.At(100, 100))
	}
	if d.At(100, 0) != d.At(0, 100) {
		t.Fatalf("diagonal ramp must be symmetric")
	}
}

func TestExport(t *testing.T) {
	cfg := testConfig()
	cfg.SizePx = 64
	res, err := Export(cfg, func() surface.Surface { return surface.NewRaster(1, 1) })
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !res.Rendered || res.FontSize < layout.MinFontSize {
		t.Fatalf("unexpected result %+v", res.FontSize)
	}
	for name, data := range map[string][]byte{"png": res.PNG, "light": res.Light, "dark": res.Dark, "transparent": res.Transparent} {
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("%s: decode failed: %v", name, err)
		}
		if img.Bounds() != image.Rect(0, 0, 64, 64) {
			t.Fatalf("%s: unexpected bounds %v", name, img.Bounds())
		}
	}
	if !strings.HasPrefix(res.DataURL, "data:image/png;base64,") {
		t.Fatalf("unexpected data url prefix")
	}

	dark, _ := png.Decode(bytes.NewReader(res.Dark))
	if r, g, b, _ := dark.At(0, 0).RGBA(); r>>8 != 0x1d || g>>8 != 0x1c || b>>8 != 0x1d {
		t.Fatalf("dark preview corner = %v", dark.At(0, 0))
	}
	bare, _ := png.Decode(bytes.NewReader(res.Transparent))
	if _, _, _, a := bare.At(0, 0).RGBA(); a != 0 {
		t.Fatalf("transparent preview corner must be clear")
	}
}

func TestExportLeavesCallerOptions(t *testing.T) {
	cfg := testConfig()
	cfg.SizePx = 16
	cfg.Text = "A"

	opts := make([]Option, 1, 4)
	opts[0] = WithLogger(nil)
	res, err := Export(cfg, func() surface.Surface { return newRecorder() }, opts...)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !res.Rendered {
		t.Fatalf("expected render")
	}
	if spare := opts[:cap(opts)]; spare[1] != nil {
		t.Fatalf("preview option leaked into the caller's slice")
	}
	if o := newOptions(opts); o.preview {
		t.Fatalf("caller options must not carry a preview background")
	}
}

func TestFileName(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	cases := []struct {
		text string
		want string
	}{
		{"Hello\nWorld!", "20240102_030405_Hello_World_128x128.png"},
		{"ありがとう", "20240102_030405_ありがとう_128x128.png"},
		{"!!!", "20240102_030405_emoji_128x128.png"},
		{strings.Repeat("a", 40), "20240102_030405_" + strings.Repeat("a", 30) + "_128x128.png"},
	}
	for _, tc := range cases {
		cfg := config.Default()
		cfg.Text = tc.text
		if got := FileName(cfg, now); got != tc.want {
			t.Fatalf("FileName(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}
