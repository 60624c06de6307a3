package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/golang-collections/collections/queue"

	"github.com/ByLCY/slackmoji/binding"
	"github.com/ByLCY/slackmoji/cache"
	"github.com/ByLCY/slackmoji/config"
	"github.com/ByLCY/slackmoji/fonts"
	"github.com/ByLCY/slackmoji/fontspec"
	"github.com/ByLCY/slackmoji/layout"
	"github.com/ByLCY/slackmoji/logger"
	"github.com/ByLCY/slackmoji/renderer"
	canvasrenderer "github.com/ByLCY/slackmoji/renderer/canvas"
	"github.com/ByLCY/slackmoji/surface"
	"github.com/ByLCY/slackmoji/watcher"
)

// app 持有一次命令行运行期间共享的资源。
type app struct {
	opts   *options
	log    *slog.Logger
	fonts  *fonts.Registry
	store  *cache.Store
	vector *canvasrenderer.Renderer

	// fontsKey 是所有用户字体内容的摘要，参与缓存键
	fontsKey string
	now      func() time.Time
}

func newApp(opts *options, lg *slog.Logger) (*app, error) {
	a := &app{
		opts:  opts,
		log:   lg,
		fonts: fonts.NewRegistry(),
		now:   time.Now,
	}
	if opts.cachePurge && opts.cachePath == "" {
		return nil, errors.New("-cache-purge 需要同时给出 -cache")
	}
	if opts.cachePath != "" {
		store, err := cache.Open(opts.cachePath)
		if err != nil {
			return nil, err
		}
		a.store = store
		if opts.cachePurge {
			if err := a.purgeCache(); err != nil {
				store.Close()
				return nil, err
			}
		}
		if err := a.restoreFonts(); err != nil {
			store.Close()
			return nil, err
		}
	}
	if err := a.loadFonts(); err != nil {
		a.Close()
		return nil, err
	}
	a.vector = canvasrenderer.NewRenderer(a.fonts)
	return a, nil
}

func (a *app) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// purgeCache 清空缓存的渲染结果，保留字体。
func (a *app) purgeCache() error {
	n, err := a.store.Len()
	if err != nil {
		return fmt.Errorf("读取缓存失败: %w", err)
	}
	if err := a.store.Purge(); err != nil {
		return fmt.Errorf("清空缓存失败: %w", err)
	}
	a.log.Info("cache purged", "path", a.opts.cachePath, "entries", n)
	return nil
}

func (a *app) fontFiles() []string {
	var out []string
	for _, p := range strings.Split(a.opts.fontFiles, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// restoreFonts 把缓存中保存过的字体注册到注册表。
func (a *app) restoreFonts() error {
	return a.store.Fonts(func(name string, data []byte) error {
		if _, err := a.fonts.LoadData(data, name); err != nil {
			a.log.Warn("skip cached font", "name", name, "error", err)
		}
		return nil
	})
}

// loadFonts 读取 -font-file 指定的字体，注册、加入逐字回退链并写入缓存。
func (a *app) loadFonts() error {
	h := sha256.New()
	for _, path := range a.fontFiles() {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("读取字体文件 %s 失败: %w", path, err)
		}
		name, err := a.fonts.LoadData(data, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		if err != nil {
			return fmt.Errorf("解析字体文件 %s 失败: %w", path, err)
		}
		h.Write(data)
		a.fonts.AddFallback(name)
		a.log.Info("font loaded", "path", path, "family", name)
		if a.store != nil {
			if err := a.store.PutFont(name, data); err != nil {
				return err
			}
		}
	}
	a.fontsKey = hex.EncodeToString(h.Sum(nil))
	return nil
}

// loadConfig 读取配置文件（path 为空时使用默认值），应用显式给出的命令行参数与数据插值。
func (a *app) loadConfig(path string) (config.RenderConfig, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.RenderConfig{}, err
		}
		cfg = loaded
	}
	cfg, err := applyFlags(cfg, a.opts)
	if err != nil {
		return config.RenderConfig{}, err
	}

	if a.opts.dataPath != "" {
		data, err := binding.Load(a.opts.dataPath)
		if err != nil {
			return config.RenderConfig{}, err
		}
		cfg.Text = binding.Expand(cfg.Text, data)
	}

	cfg = config.Normalize(cfg)
	if err := cfg.Validate(); err != nil {
		return config.RenderConfig{}, fmt.Errorf("配置不合法: %w", err)
	}
	return cfg, nil
}

// applyFlags 用显式给出的命令行参数覆盖 cfg。
func applyFlags(cfg config.RenderConfig, o *options) (config.RenderConfig, error) {
	if o.set["text"] {
		cfg.Text = strings.ReplaceAll(o.text, `\n`, "\n")
	}
	if o.set["font"] {
		cfg.FontFamily = o.family
	}
	if o.set["font-size"] {
		cfg.FontSizePx = o.fontSize
		cfg.AutoFontSize = false
	}
	if o.set["size"] {
		cfg.SizePx = o.size
	}
	if o.set["color"] {
		cfg.Color = o.color
	}
	if o.set["bg"] {
		cfg.BackgroundColor = o.background
		cfg.TransparentBackground = false
	}
	if o.set["transparent"] {
		cfg.TransparentBackground = o.transparent
	}
	if o.set["auto-fit-width"] {
		cfg.AutoFitWidth = o.autoFitWidth
	}
	if o.set["gradient"] {
		cfg.UseGradient = o.gradient
	}
	if o.set["gradient-preset"] {
		var err error
		if cfg, err = cfg.ApplyGradient(o.gradientPreset); err != nil {
			return cfg, err
		}
	}
	if o.set["direction"] {
		cfg.GradientDir = config.Direction(o.direction)
	}
	if o.set["padding"] {
		cfg.HorizontalPaddingPercent = o.padding
	}
	if o.set["line-height"] {
		cfg.LineHeightMultiplier = o.lineHeight
	}
	if o.set["offset"] {
		cfg.VerticalOffsetPercent = o.offset
	}
	return cfg, nil
}

func (a *app) newSurface() surface.Surface {
	return surface.NewRaster(1, 1, surface.WithFonts(a.fonts), surface.WithLogger(a.log))
}

// renderAll 渲染单个配置，或在给出 -glob 时批量渲染所有匹配的配置文件。
func (a *app) renderAll() error {
	if a.opts.glob == "" {
		return a.renderFile(a.opts.configPath, a.opts.out)
	}

	matches, err := doublestar.FilepathGlob(a.opts.glob)
	if err != nil {
		return fmt.Errorf("解析 glob %q 失败: %w", a.opts.glob, err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("glob %q 没有匹配任何文件", a.opts.glob)
	}

	ext := filepath.Ext(a.opts.out)
	if ext == "" {
		ext = ".png"
	}
	jobs := queue.New()
	for _, m := range matches {
		jobs.Enqueue(m)
	}

	var errs []error
	for jobs.Len() > 0 {
		path := jobs.Dequeue().(string)
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		out := filepath.Join(a.opts.outDir, base+ext)
		if err := a.renderFile(path, out); err != nil {
			logger.Fail(a.log, "batch item failed", "config", path, "error", err)
			errs = append(errs, err)
		}
	}
	a.log.Info("batch finished", "total", len(matches), "failed", len(errs))
	if len(errs) > 0 {
		return fmt.Errorf("%d/%d 个配置渲染失败: %w", len(errs), len(matches), errors.Join(errs...))
	}
	return nil
}

// renderFile 加载 configPath 并渲染到 out。out 为目录时在其中生成带时间戳的文件名。
func (a *app) renderFile(configPath, out string) error {
	cfg, err := a.loadConfig(configPath)
	if err != nil {
		return err
	}
	out = a.outputPath(cfg, out)
	a.checkGlyphs(cfg)
	if a.opts.debugLayout != "" {
		if err := a.writeDebugLayout(cfg); err != nil {
			return err
		}
	}

	data, fontSize, err := a.render(cfg, out)
	if err != nil {
		return err
	}
	if err := writeFile(out, data); err != nil {
		return err
	}
	a.log.Info("emoji written", "path", out, "font_size", fontSize, "bytes", len(data))

	if a.opts.previewDir != "" {
		return a.writePreviews(cfg, out)
	}
	return nil
}

// outputPath 在 out 是已存在的目录或以路径分隔符结尾时，返回其中由 renderer.FileName 生成的路径。
func (a *app) outputPath(cfg config.RenderConfig, out string) string {
	if strings.HasSuffix(out, "/") || strings.HasSuffix(out, string(filepath.Separator)) {
		return filepath.Join(out, renderer.FileName(cfg, a.now()))
	}
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		return filepath.Join(out, renderer.FileName(cfg, a.now()))
	}
	return out
}

// checkGlyphs 返回 cfg.Text 中没有任何已注册字体能绘制的字符数，不为 0 时记录警告。
func (a *app) checkGlyphs(cfg config.RenderConfig) int {
	fams, err := fontspec.ParseFamilies(cfg.FamilyOrDefault())
	if err != nil {
		return 0
	}
	face := a.fonts.Face(fams, fonts.Regular, fontspec.DefaultSizePx)
	if face == nil {
		return 0
	}
	n := face.Missing(cfg.Text)
	if n > 0 {
		a.log.Warn("text has glyphs no font can draw, load a covering font (e.g. CJK) with -font-file",
			"missing", n, "family", face.Family())
	}
	return n
}

// render 按输出扩展名渲染 PNG 或矢量文件，优先使用缓存。
func (a *app) render(cfg config.RenderConfig, out string) ([]byte, float64, error) {
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(out), "."))
	key := cache.Key(cfg, format, a.fontsKey)
	if a.store != nil {
		if data, fontSize, err := a.store.Get(key); err == nil {
			logger.Trace(a.log, "cache hit", "key", key[:12], "path", out)
			return data, fontSize, nil
		} else if !errors.Is(err, cache.ErrMiss) {
			a.log.Warn("cache read failed", "error", err)
		}
	}

	var (
		data     []byte
		fontSize float64
		err      error
	)
	if vf, ok := canvasrenderer.FormatFromPath(out); ok {
		data, fontSize, err = a.vector.Render(cfg, vf)
	} else {
		if format != "png" {
			return nil, 0, fmt.Errorf("不支持的输出格式 %q", format)
		}
		s := a.newSurface()
		fontSize, _ = renderer.Render(s, cfg, renderer.WithLogger(a.log))
		data, err = renderer.EncodePNG(s)
	}
	if err != nil {
		return nil, 0, err
	}

	if a.store != nil {
		if err := a.store.Put(key, data, fontSize); err != nil {
			a.log.Warn("cache write failed", "error", err)
		}
	}
	return data, fontSize, nil
}

// writePreviews 在 -preview-dir 下输出明暗与透明预览图，以及透明预览的 data URL。
func (a *app) writePreviews(cfg config.RenderConfig, out string) error {
	res, err := renderer.Export(cfg, a.newSurface, renderer.WithLogger(a.log))
	if err != nil {
		return err
	}
	base := strings.TrimSuffix(filepath.Base(out), filepath.Ext(out))
	files := map[string][]byte{
		base + ".light.png":       res.Light,
		base + ".dark.png":        res.Dark,
		base + ".transparent.png": res.Transparent,
		base + ".dataurl.txt":     []byte(res.DataURL),
	}
	for name, data := range files {
		if err := writeFile(filepath.Join(a.opts.previewDir, name), data); err != nil {
			return err
		}
	}
	a.log.Debug("previews written", "dir", a.opts.previewDir, "font_size", res.FontSize)
	return nil
}

func (a *app) writeDebugLayout(cfg config.RenderConfig) error {
	s := a.newSurface()
	s.SetQuality(surface.QualityHigh)
	l := renderer.Layout(s, cfg)
	if err := os.MkdirAll(filepath.Dir(a.opts.debugLayout), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(l, a.opts.debugLayout); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}

// watchedPaths 返回监听模式需要关注的文件。
func (a *app) watchedPaths() ([]string, error) {
	paths := []string{a.opts.configPath, a.opts.dataPath}
	paths = append(paths, a.fontFiles()...)
	if a.opts.glob != "" {
		matches, err := doublestar.FilepathGlob(a.opts.glob)
		if err != nil {
			return nil, fmt.Errorf("解析 glob %q 失败: %w", a.opts.glob, err)
		}
		paths = append(paths, matches...)
	}
	return paths, nil
}

// watch 在被监听文件变化时重新加载字体并重新渲染，直到 ctx 结束。
func (a *app) watch(ctx context.Context) error {
	paths, err := a.watchedPaths()
	if err != nil {
		return err
	}
	w, err := watcher.New(paths, watcher.WithLogger(a.log))
	if err != nil {
		return fmt.Errorf("启动监听失败: %w", err)
	}
	defer w.Close()
	a.log.Info("watching for changes", "polling", w.Polling())

	for {
		select {
		case <-ctx.Done():
			a.log.Info("watch stopped")
			return nil
		case <-w.Events():
			if err := a.loadFonts(); err != nil {
				a.log.Error("reload fonts failed", "error", err)
				continue
			}
			if err := a.renderAll(); err != nil {
				a.log.Error("render failed", "error", err)
			}
		}
	}
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", path, err)
	}
	return nil
}

// printPresets 列出渐变、颜色、文字预设、字体目录与内置字体族。
func printPresets(w io.Writer) error {
	var sb strings.Builder
	sb.WriteString("渐变预设:\n")
	for _, p := range config.GradientPresets {
		fmt.Fprintf(&sb, "  %-12s %s → %s\n", p.Name, p.Color1, p.Color2)
	}
	sb.WriteString("颜色预设:\n")
	for _, p := range config.ColorPresets {
		fmt.Fprintf(&sb, "  %-12s %s\n", p.Name, p.Color)
	}
	sb.WriteString("文字预设:\n")
	for _, c := range config.TextPresets {
		fmt.Fprintf(&sb, "  %s: %s\n", c.Name, strings.Join(c.Texts, " / "))
	}
	sb.WriteString("字体目录:\n")
	for _, c := range config.FontCatalogue {
		fmt.Fprintf(&sb, "  %s\n", c.Name)
		for _, f := range c.Fonts {
			fmt.Fprintf(&sb, "    %-16s %s\n", f.Name, f.Family)
		}
	}
	sb.WriteString("内置字体族:\n")
	for _, name := range fonts.Default().Families() {
		fmt.Fprintf(&sb, "  %s\n", name)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
