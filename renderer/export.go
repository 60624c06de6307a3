package renderer

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ByLCY/slackmoji/config"
	"github.com/ByLCY/slackmoji/surface"
)

// Slack 明暗两种主题的消息背景色
const (
	LightBackground = "#ffffff"
	DarkBackground  = "#1d1c1d"
)

// Result 是一次导出的全部产物。
type Result struct {
	// PNG 是按配置背景渲染的下载图。
	PNG []byte
	// Light 与 Dark 是铺了 Slack 明暗背景的预览图。
	Light []byte
	Dark  []byte
	// Transparent 是透明背景预览图，DataURL 是它的 data:image/png;base64 形式。
	Transparent []byte
	DataURL     string
	// FontSize 是实际使用的字号；文本为空时 Rendered 为 false。
	FontSize float64
	Rendered bool
}

// Export 用 newSurface 创建的 surface 依次渲染下载图与三张预览图。
func Export(cfg config.RenderConfig, newSurface func() surface.Surface, opts ...Option) (*Result, error) {
	res := &Result{}

	s := newSurface()
	res.FontSize, res.Rendered = Render(s, cfg, opts...)
	png, err := EncodePNG(s)
	if err != nil {
		return nil, fmt.Errorf("导出下载图失败: %w", err)
	}
	res.PNG = png

	previews := []struct {
		name       string
		background string
		dst        *[]byte
	}{
		{"light", LightBackground, &res.Light},
		{"dark", DarkBackground, &res.Dark},
		{"transparent", "transparent", &res.Transparent},
	}
	for _, pv := range previews {
		ps := newSurface()
		popts := append(append([]Option(nil), opts...), Preview(pv.background))
		Render(ps, cfg, popts...)
		data, err := EncodePNG(ps)
		if err != nil {
			return nil, fmt.Errorf("导出 %s 预览失败: %w", pv.name, err)
		}
		*pv.dst = data
	}
	res.DataURL = DataURL(res.Transparent)
	return res, nil
}

// EncodePNG 把 surface 编码为 PNG 字节。
func EncodePNG(s surface.Surface) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURL 返回 PNG 数据的 data URL。
func DataURL(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}

var (
	// 保留 ASCII 单词字符、平假名、片假名与 CJK 汉字
	unsafeFileChars = regexp.MustCompile(`[^\w\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{4E00}-\x{9FAF}\x{3400}-\x{4DBF}]`)
	repeatedUnders  = regexp.MustCompile(`_+`)
)

// maxFileTextLen 是文件名中文本部分的最大字符数。
const maxFileTextLen = 30

// FileName 生成下载文件名 "<YYYYMMDD_HHMMSS>_<文本>_<边长>x<边长>.png"。
// 换行与其他不安全字符都折叠为单个下划线，文本部分最多 30 个字符，为空时使用 "emoji"。
func FileName(cfg config.RenderConfig, now time.Time) string {
	text := strings.ReplaceAll(cfg.Text, "\n", "-")
	text = unsafeFileChars.ReplaceAllString(text, "_")
	text = repeatedUnders.ReplaceAllString(text, "_")
	text = strings.TrimPrefix(strings.TrimSuffix(text, "_"), "_")
	if r := []rune(text); len(r) > maxFileTextLen {
		text = string(r[:maxFileTextLen])
	}
	if text == "" {
		text = "emoji"
	}
	return fmt.Sprintf("%s_%s_%dx%d.png", now.Format("20060102_150405"), text, cfg.SizePx, cfg.SizePx)
}
