package config

import (
	"fmt"
	"strings"
)

// GradientPreset 是一组命名的渐变双色。
type GradientPreset struct {
	Name   string
	Color1 string
	Color2 string
}

// ColorPreset 是一个命名的纯色。
type ColorPreset struct {
	Name  string
	Color string
}

// TextCategory 是一组常用表情文字。
type TextCategory struct {
	Name  string
	Texts []string
}

// FontOption 是字体目录中的一项，Family 为 CSS font-family 值。
type FontOption struct {
	Name   string
	Family string
}

// FontCategory 是一组字体选项。
type FontCategory struct {
	Name  string
	Fonts []FontOption
}

var GradientPresets = []GradientPreset{
	{"Coral-Teal", "#FF6B6B", "#4ECDC4"},
	{"Purple", "#667eea", "#764ba2"},
	{"Pink", "#f093fb", "#f5576c"},
	{"Blue", "#4facfe", "#00f2fe"},
	{"Green", "#43e97b", "#38f9d7"},
	{"Sunset", "#fa709a", "#fee140"},
	{"Pastel", "#a8edea", "#fed6e3"},
	{"Rose", "#ff9a9e", "#fecfef"},
}

var ColorPresets = []ColorPreset{
	{"黒", "#2D3748"},
	{"白", "#F7FAFC"},
	{"赤", "#E53E3E"},
	{"青", "#3182CE"},
	{"緑", "#38A169"},
	{"黄", "#D69E2E"},
	{"オレンジ", "#DD6B20"},
	{"ピンク", "#D53F8C"},
	{"紫", "#805AD5"},
	{"グレー", "#718096"},
	{"ティール", "#319795"},
	{"インディゴ", "#4C51BF"},
	{"ライム", "#65D69B"},
	{"アンバー", "#F6AD55"},
	{"シアン", "#0BC5EA"},
	{"コーラル", "#F56565"},
}

var TextPresets = []TextCategory{
	{"基本感情", []string{"OK", "NG", "YES", "NO", "了解", "おつ", "GJ", "thx", "LG\nTM"}},
	{"リアクション", []string{"草", "たし\nかに", "わかる", "つらい", "えらい", "おめ", "ｳﾜｱｱ"}},
	{"ステータス", []string{"作業中", "休憩中", "会議中", "完了", "確認中", "急ぎ", "保留"}},
	{"記号・Unicode", []string{"→", "←", "↑", "↓", "○", "×", "△", "□", "☀", "☂", "⚡", "⭐", "♠", "♣", "♥", "♦"}},
	{"外国語", []string{"Да", "Нет", "Oui", "Non", "Sí", "No", "是", "否", "हाँ", "नहीं"}},
	{"数学・特殊記号", []string{"∞", "≈", "≠", "≤", "≥", "±", "∑", "∆", "∇", "π", "Ω", "α", "β", "γ", "λ", "μ"}},
}

// FontCatalogue 对应编辑器的字体选择列表；未内置的字体族在渲染时回退到默认字体。
var FontCatalogue = []FontCategory{
	{"システム標準", []FontOption{
		{"Arial", "Arial, sans-serif"},
		{"Georgia", "Georgia, serif"},
		{"Helvetica", "Helvetica, sans-serif"},
		{"Impact", "Impact, sans-serif"},
		{"Noto Sans JP", `"Noto Sans JP", sans-serif`},
		{"Noto Serif JP", `"Noto Serif JP", serif`},
		{"Times New Roman", "Times New Roman, serif"},
		{"Verdana", "Verdana, sans-serif"},
	}},
	{"日本語ゴシック", []FontOption{
		{"デラゴシックワン", `"Dela Gothic One", cursive`},
		{"キウイ丸", `"Kiwi Maru", serif`},
		{"モッチーポップP", `"Mochiy Pop P One", sans-serif`},
	}},
	{"日本語明朝", []FontOption{
		{"ひな明朝", `"Hina Mincho", serif`},
		{"しっぽり明朝", `"Shippori Mincho", serif`},
		{"佑字 朴", `"Yuji Boku", serif`},
		{"ZENアンチーク", `"Zen Antique", serif`},
	}},
	{"手書き・デザイン", []FontOption{
		{"はちまるポップ", `"Hachi Maru Pop", cursive`},
		{"解星デコール", `"Kaisei Decol", serif`},
		{"よもぎフォント", `"Yomogi", cursive`},
		{"佑字 肅", `"Yuji Syuku", serif`},
		{"佑字 舞", `"Yuji Mai", serif`},
		{"油性マジック", `"Yusei Magic", sans-serif`},
		{"ZEN紅道", `"Zen Kurenaido", sans-serif`},
	}},
	{"インパクト系", []FontOption{
		{"ドットゴシック16", `"DotGothic16", sans-serif`},
		{"レゲエOne", `"Reggae One", cursive`},
		{"ステッキ", `"Stick", cursive`},
		{"滑油字", `"WDXL Lubrifont JP N", sans-serif`},
	}},
}

// FindGradient 按名称（忽略大小写）查找渐变预设。
func FindGradient(name string) (GradientPreset, bool) {
	for _, p := range GradientPresets {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, true
		}
	}
	return GradientPreset{}, false
}

// ApplyGradient 启用渐变并使用名为 name 的预设颜色。
func (c RenderConfig) ApplyGradient(name string) (RenderConfig, error) {
	p, ok := FindGradient(name)
	if !ok {
		return c, fmt.Errorf("未知的渐变预设 %q", name)
	}
	c.UseGradient = true
	c.GradientColor1, c.GradientColor2 = p.Color1, p.Color2
	return c, nil
}
