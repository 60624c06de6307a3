// Package renderer 把 config.RenderConfig 绘制到 surface.Surface 上：求解字号、计算行布局，
// 再按纯色或渐变遮罩方式逐行绘制。
package renderer

import (
	"log/slog"
	"strings"

	"github.com/ByLCY/slackmoji/config"
	"github.com/ByLCY/slackmoji/layout"
	"github.com/ByLCY/slackmoji/surface"
)

// Option 调整一次渲染。
type Option func(*options)

type options struct {
	preview    bool
	background string
	logger     *slog.Logger
}

// Preview 以预览模式渲染：忽略配置里的背景设置，background 为具体颜色时用它铺底，
// 为空或 "transparent" 时保持透明。
func Preview(background string) Option {
	return func(o *options) {
		o.preview = true
		o.background = background
	}
}

// WithLogger 设置调试日志输出。
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func newOptions(opts []Option) options {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// backgroundFor 返回需要铺底的颜色；第二个返回值为 false 表示保持透明。
func (o options) backgroundFor(cfg config.RenderConfig) (string, bool) {
	if o.preview {
		bg := strings.TrimSpace(o.background)
		if bg == "" || strings.EqualFold(bg, "transparent") {
			return "", false
		}
		return bg, true
	}
	if cfg.TransparentBackground {
		return "", false
	}
	if strings.TrimSpace(cfg.BackgroundColor) == "" {
		return config.DefaultBackground, true
	}
	return cfg.BackgroundColor, true
}

// Render 把 cfg 绘制到 s 上并返回实际使用的字号。
// 文本没有任何非空行（或边长非正）时只保留背景，返回 (0, false)。
func Render(s surface.Surface, cfg config.RenderConfig, opts ...Option) (float64, bool) {
	o := newOptions(opts)
	if cfg.SizePx <= 0 {
		o.logger.Debug("skip render", "reason", "non-positive size", "size", cfg.SizePx)
		return 0, false
	}
	size := float64(cfg.SizePx)

	// 改变尺寸会清空像素并重置绘制状态
	s.Resize(cfg.SizePx, cfg.SizePx)
	if bg, ok := o.backgroundFor(cfg); ok {
		s.Save()
		s.SetFillColor(bg)
		s.FillRect(0, 0, size, size)
		s.Restore()
	}
	s.SetQuality(surface.QualityHigh)

	if len(layout.SplitLines(cfg.Text)) == 0 {
		o.logger.Debug("skip render", "reason", "blank text")
		return 0, false
	}

	l := Layout(s, cfg)
	fontSize := l.FontSize
	p := painter{
		size:    size,
		family:  cfg.FamilyOrDefault(),
		padding: cfg.HorizontalPaddingPercent,
		autoFit: cfg.AutoFitWidth,
	}
	if cfg.UseGradient {
		p.paintGradient(s, l, BuildGradient(size, cfg.GradientDir, cfg.GradientColor1, cfg.GradientColor2))
	} else {
		p.paintSolid(s, l, cfg.Color)
	}

	o.logger.Debug("rendered",
		"size", cfg.SizePx,
		"font_size", fontSize,
		"lines", len(l.Lines),
		"auto_fit_width", cfg.AutoFitWidth,
		"gradient", cfg.UseGradient,
		"preview", o.preview,
	)
	return fontSize, true
}

// Layout 返回 Render 会在 s 上使用的行布局（不绘制）。
func Layout(s surface.Surface, cfg config.RenderConfig) *layout.Layout {
	return Plan(cfg, SurfaceMeasurer{S: s})
}

// Plan 求解字号并计算行布局：自动字号时按 AutoFitWidth 选择求解器，否则原样使用 FontSizePx。
// 没有非空行或边长非正时返回 nil。
func Plan(cfg config.RenderConfig, m layout.Measurer) *layout.Layout {
	if cfg.SizePx <= 0 {
		return nil
	}
	size := float64(cfg.SizePx)
	lineHeight := cfg.LineHeightMultiplier
	if lineHeight <= 0 {
		lineHeight = config.DefaultLineHeight
	}
	fontSize := float64(cfg.FontSizePx)
	if cfg.AutoFontSize {
		solver := layout.SolverFor(cfg.AutoFitWidth, m)
		fontSize = solver.Solve(cfg.Text, layout.Constraints{
			MaxWidth:          size,
			MaxHeight:         size,
			FontFamily:        cfg.FamilyOrDefault(),
			LineHeight:        lineHeight,
			HorizontalPadding: cfg.HorizontalPaddingPercent,
		})
	}
	return layout.Compute(cfg.Text, fontSize, lineHeight, cfg.VerticalOffsetPercent, size)
}
