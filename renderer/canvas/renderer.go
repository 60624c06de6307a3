// Package canvasrenderer 通过 github.com/tdewolff/canvas 把表情导出为矢量文件（SVG / PDF）。
// 字号求解与行布局与位图渲染共用 renderer.Plan，测量与字形轮廓都来自 fonts.Face（canvas 字体面），
// 因此同一配置在两种输出里的字号与排布一致。
package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/ByLCY/slackmoji/config"
	"github.com/ByLCY/slackmoji/fonts"
	"github.com/ByLCY/slackmoji/fontspec"
	"github.com/ByLCY/slackmoji/layout"
	"github.com/ByLCY/slackmoji/renderer"
	"github.com/ByLCY/slackmoji/surface"
)

// pxToMm 把 CSS 像素换算为 canvas 使用的毫米。
const pxToMm = 25.4 / 96

// Format 是矢量输出格式。
type Format string

const (
	SVG Format = "svg"
	PDF Format = "pdf"
)

// FormatFromPath 按扩展名推断输出格式。
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "svg":
		return SVG, true
	case "pdf":
		return PDF, true
	}
	return "", false
}

// Renderer 绘制矢量表情。可并发使用。
type Renderer struct {
	fonts *fonts.Registry

	// mu 保护 faces
	mu    sync.Mutex
	faces map[string]*fonts.Face
}

var _ layout.Measurer = (*Renderer)(nil)

// NewRenderer 创建使用 reg 解析字体的渲染器；reg 为 nil 时使用 fonts.Default()。
func NewRenderer(reg *fonts.Registry) *Renderer {
	if reg == nil {
		reg = fonts.Default()
	}
	return &Renderer{
		fonts: reg,
		faces: make(map[string]*fonts.Face),
	}
}

// resolve 把 CSS 字体简写解析为字体面，结果按字符串缓存。调用方需持有 mu。
func (r *Renderer) resolve(spec string) (*fonts.Face, error) {
	if face, ok := r.faces[spec]; ok {
		return face, nil
	}
	f, err := fontspec.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("解析字体 %q 失败: %w", spec, err)
	}
	var style fonts.Style
	if f.Bold {
		style |= fonts.Bold
	}
	if f.Italic {
		style |= fonts.Italic
	}
	face := r.fonts.Face(f.Families, style, f.SizePx)
	if face == nil {
		return nil, fmt.Errorf("%w: %s", fonts.ErrUnknownFamily, spec)
	}
	r.faces[spec] = face
	return face, nil
}

// MeasureText implements layout.Measurer，与位图渲染使用同一字体面测量。
func (r *Renderer) MeasureText(text string, fontSize float64, fontFamily string) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	face, err := r.resolve(fontspec.Format(fontSize, fontFamily))
	if err != nil {
		return 0
	}
	return face.TextWidth(text)
}

// Line 是一行文字在像素坐标中的轮廓。
type Line struct {
	Text string
	Path *canvas.Path
	// Width 是缩放前的自然前进宽度，ScaleX 是自动拉伸使用的水平缩放系数。
	Width  float64
	ScaleX float64
}

// Lines 返回 cfg 每个非空行已定位好的轮廓（像素坐标，y 轴向下）以及行布局。
func (r *Renderer) Lines(cfg config.RenderConfig) ([]Line, *layout.Layout, error) {
	l := renderer.Plan(cfg, r)
	if l == nil {
		return nil, nil, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	face, err := r.resolve(fontspec.Format(l.FontSize, cfg.FamilyOrDefault()))
	if err != nil {
		return nil, nil, err
	}

	size := float64(cfg.SizePx)
	cx := size / 2
	target := layout.TargetWidth(size, cfg.HorizontalPaddingPercent)
	shift := face.MiddleShift()

	lines := make([]Line, 0, len(l.Lines))
	for i, text := range l.Lines {
		p, width := face.Path(text)
		sx := 1.0
		if cfg.AutoFitWidth && width > 0 {
			sx = target / width
		}
		m := canvas.Identity.Translate(cx, l.LineY(i)).Scale(sx, 1).Translate(-width/2, shift)
		lines = append(lines, Line{Text: text, Path: p.Transform(m), Width: width, ScaleX: sx})
	}
	return lines, l, nil
}

type writer interface {
	canvas.Renderer
	Close() error
}

// Render 把 cfg 绘制为 format 格式的矢量文件，返回文件内容与使用的字号。
// 文本为空时只输出背景，字号为 0。
func (r *Renderer) Render(cfg config.RenderConfig, format Format) ([]byte, float64, error) {
	if cfg.SizePx <= 0 {
		return nil, 0, fmt.Errorf("边长必须为正数，当前为 %d", cfg.SizePx)
	}
	lines, l, err := r.Lines(cfg)
	if err != nil {
		return nil, 0, err
	}

	side := float64(cfg.SizePx) * pxToMm
	c := canvas.New(side, side)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 左上角为原点，与位图坐标一致

	if !cfg.TransparentBackground {
		bg := cfg.BackgroundColor
		if strings.TrimSpace(bg) == "" {
			bg = config.DefaultBackground
		}
		if col, ok := surface.ParseColor(bg); ok {
			ctx.SetFillColor(col)
			ctx.DrawPath(0, 0, canvas.Rectangle(side, side))
		}
	}

	var fontSize float64
	if l != nil {
		fontSize = l.FontSize
		if cfg.UseGradient {
			ctx.SetFill(renderer.LinearGradient(side, cfg.GradientDir, cfg.GradientColor1, cfg.GradientColor2))
		} else {
			ctx.SetFillColor(textColor(cfg.Color))
		}
		toMm := canvas.Identity.Scale(pxToMm, pxToMm)
		for _, line := range lines {
			ctx.DrawPath(0, 0, line.Path.Transform(toMm))
		}
	}

	var buf bytes.Buffer
	var w writer
	switch format {
	case SVG:
		w = svg.New(&buf, side, side, nil)
	case PDF:
		w = pdf.New(&buf, side, side, nil)
	default:
		return nil, 0, fmt.Errorf("不支持的矢量格式 %q", format)
	}
	c.RenderTo(w)
	if err := w.Close(); err != nil {
		return nil, 0, fmt.Errorf("写入 %s 失败: %w", format, err)
	}
	return buf.Bytes(), fontSize, nil
}

func textColor(s string) color.RGBA {
	if col, ok := surface.ParseColor(s); ok {
		return col
	}
	col, _ := surface.ParseColor(config.DefaultColor)
	return col
}
