// Package config 定义表情渲染配置、默认值、预设以及配置文件加载。
package config

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ByLCY/slackmoji/fontspec"
)

// Direction 是渐变方向。
type Direction string

const (
	Horizontal Direction = "horizontal"
	Vertical   Direction = "vertical"
	Diagonal   Direction = "diagonal"
)

// 默认值
const (
	DefaultText           = "Hello\nWorld"
	DefaultFontSizePx     = 24
	DefaultFontFamily     = "Arial, sans-serif"
	DefaultColor          = "#000000"
	DefaultBackground     = "#FFFFFF"
	DefaultGradientColor1 = "#FF6B6B"
	DefaultGradientColor2 = "#4ECDC4"
	DefaultSizePx         = 128
	DefaultLineHeight     = 1.2
	DefaultPadding        = 10
)

// ///////////////////////////////////////////////
// Render Config
// ///////////////////////////////////////////////

// RenderConfig 描述一次表情渲染的全部参数。按值传递，渲染过程中不会被修改。
type RenderConfig struct {
	// Text 是要绘制的文字，\n 分行。
	Text string `toml:"text" yaml:"text" json:"text"`
	// FontSizePx 是关闭自动字号时使用的字号。
	FontSizePx int `toml:"font_size" yaml:"font_size" json:"fontSize"`
	// AutoFontSize 开启时由求解器计算字号。
	AutoFontSize bool `toml:"auto_font_size" yaml:"auto_font_size" json:"autoFontSize"`
	// AutoFitWidth 开启时每行被水平拉伸到统一宽度。
	AutoFitWidth bool `toml:"auto_fit_width" yaml:"auto_fit_width" json:"autoFitWidth"`
	// FontFamily 是 CSS font-family 列表。
	FontFamily string `toml:"font_family" yaml:"font_family" json:"fontFamily"`
	// Color 是纯色模式下的文字颜色。
	Color string `toml:"color" yaml:"color" json:"color"`
	// BackgroundColor 在 TransparentBackground 关闭时填充整个画布。
	BackgroundColor string `toml:"background_color" yaml:"background_color" json:"backgroundColor"`
	// TransparentBackground 开启时导出透明背景。
	TransparentBackground bool `toml:"transparent_background" yaml:"transparent_background" json:"transparentBackground"`
	// UseGradient 开启时使用双色线性渐变填充文字。
	UseGradient    bool      `toml:"use_gradient" yaml:"use_gradient" json:"useGradient"`
	GradientColor1 string    `toml:"gradient_color1" yaml:"gradient_color1" json:"gradientColor1"`
	GradientColor2 string    `toml:"gradient_color2" yaml:"gradient_color2" json:"gradientColor2"`
	GradientDir    Direction `toml:"gradient_direction" yaml:"gradient_direction" json:"gradientDirection"`
	// SizePx 是输出正方形的边长。
	SizePx int `toml:"size" yaml:"size" json:"size"`
	// LineHeightMultiplier 是行高倍数。
	LineHeightMultiplier float64 `toml:"line_height" yaml:"line_height" json:"lineHeight"`
	// VerticalOffsetPercent 是整体垂直偏移（占边长的百分比，正数向下）。
	VerticalOffsetPercent float64 `toml:"vertical_offset" yaml:"vertical_offset" json:"verticalOffset"`
	// HorizontalPaddingPercent 是左右合计留白百分比。
	HorizontalPaddingPercent float64 `toml:"horizontal_padding" yaml:"horizontal_padding" json:"horizontalPadding"`
}

// Default 返回与编辑器初始状态一致的配置。
func Default() RenderConfig {
	return RenderConfig{
		Text:                     DefaultText,
		FontSizePx:               DefaultFontSizePx,
		AutoFontSize:             true,
		AutoFitWidth:             true,
		FontFamily:               DefaultFontFamily,
		Color:                    DefaultColor,
		BackgroundColor:          DefaultBackground,
		TransparentBackground:    true,
		GradientColor1:           DefaultGradientColor1,
		GradientColor2:           DefaultGradientColor2,
		GradientDir:              Horizontal,
		SizePx:                   DefaultSizePx,
		LineHeightMultiplier:     DefaultLineHeight,
		HorizontalPaddingPercent: DefaultPadding,
	}
}

// Validate 返回第一个不合法的字段。
func (c RenderConfig) Validate() error {
	switch {
	case c.SizePx <= 0:
		return fmt.Errorf("size 必须大于 0，当前为 %d", c.SizePx)
	case c.HorizontalPaddingPercent < 0 || c.HorizontalPaddingPercent > 100:
		return fmt.Errorf("horizontal_padding 必须在 [0, 100] 之间，当前为 %g", c.HorizontalPaddingPercent)
	case c.LineHeightMultiplier <= 0:
		return fmt.Errorf("line_height 必须大于 0，当前为 %g", c.LineHeightMultiplier)
	case !c.AutoFontSize && c.FontSizePx <= 0:
		return errors.New("关闭自动字号时 font_size 必须大于 0")
	}
	switch c.GradientDir {
	case Horizontal, Vertical, Diagonal, "":
	default:
		return fmt.Errorf("未知的渐变方向 %q", c.GradientDir)
	}
	fams, err := fontspec.ParseFamilies(c.FamilyOrDefault())
	if err != nil {
		return fmt.Errorf("font_family 无效: %w", err)
	}
	if len(fams) == 0 {
		return fmt.Errorf("font_family %q 不含任何字体族", c.FontFamily)
	}
	return nil
}

// FamilyOrDefault 返回 FontFamily；为空白时返回 DefaultFontFamily。
func (c RenderConfig) FamilyOrDefault() string {
	if f := strings.TrimSpace(c.FontFamily); f != "" {
		return f
	}
	return DefaultFontFamily
}

// Normalize 统一换行符并对文字做 NFC 规范化，方向名转小写，空字体族替换为 DefaultFontFamily。
func Normalize(c RenderConfig) RenderConfig {
	text := strings.ReplaceAll(c.Text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	c.Text = norm.NFC.String(text)
	c.GradientDir = Direction(strings.ToLower(strings.TrimSpace(string(c.GradientDir))))
	c.FontFamily = c.FamilyOrDefault()
	return c
}
