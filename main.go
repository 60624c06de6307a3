package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ByLCY/slackmoji/config"
	"github.com/ByLCY/slackmoji/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("生成表情失败: %v", err)
	}
}

// options 是命令行参数。set 记录显式给出的参数，只有这些参数会覆盖配置文件。
type options struct {
	configPath     string
	text           string
	family         string
	fontFiles      string
	fontSize       int
	size           int
	color          string
	background     string
	transparent    bool
	autoFitWidth   bool
	gradient       bool
	gradientPreset string
	direction      string
	padding        float64
	lineHeight     float64
	offset         float64

	out         string
	outDir      string
	previewDir  string
	dataPath    string
	glob        string
	watch       bool
	cachePath   string
	cachePurge  bool
	logPath     string
	logLevel    string
	presets     bool
	debugLayout string
	dumpConfig  bool

	set map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	o := &options{set: make(map[string]bool)}
	fs := flag.NewFlagSet("slackmoji", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&o.configPath, "config", "", "配置文件路径（.toml/.yaml/.json）")
	fs.StringVar(&o.text, "text", "", `表情文字，"\n" 表示换行`)
	fs.StringVar(&o.family, "font", "", "CSS font-family 列表")
	fs.StringVar(&o.fontFiles, "font-file", "", "额外加载的字体文件，多个用逗号分隔")
	fs.IntVar(&o.fontSize, "font-size", 0, "固定字号（像素），给出时关闭自动字号")
	fs.IntVar(&o.size, "size", config.DefaultSizePx, "输出边长（像素）")
	fs.StringVar(&o.color, "color", "", "文字颜色")
	fs.StringVar(&o.background, "bg", "", "背景颜色")
	fs.BoolVar(&o.transparent, "transparent", false, "透明背景")
	fs.BoolVar(&o.autoFitWidth, "auto-fit-width", true, "每行水平拉伸到统一宽度")
	fs.BoolVar(&o.gradient, "gradient", false, "使用渐变填充文字")
	fs.StringVar(&o.gradientPreset, "gradient-preset", "", "渐变预设名称（见 -presets）")
	fs.StringVar(&o.direction, "direction", "", "渐变方向：horizontal/vertical/diagonal")
	fs.Float64Var(&o.padding, "padding", config.DefaultPadding, "左右合计留白百分比")
	fs.Float64Var(&o.lineHeight, "line-height", config.DefaultLineHeight, "行高倍数")
	fs.Float64Var(&o.offset, "offset", 0, "垂直偏移百分比，正数向下")

	fs.StringVar(&o.out, "out", "emoji.png", "输出路径，扩展名决定格式：.png/.svg/.pdf；为目录时自动生成文件名")
	fs.StringVar(&o.outDir, "out-dir", "output", "批量模式的输出目录")
	fs.StringVar(&o.previewDir, "preview-dir", "", "额外输出明暗/透明预览图的目录")
	fs.StringVar(&o.dataPath, "data", "", "文字插值数据文件（.json/.toml/.yaml）")
	fs.StringVar(&o.glob, "glob", "", "批量渲染的配置文件 glob，支持 **")
	fs.BoolVar(&o.watch, "watch", false, "监听配置、数据与字体文件并在变化时重新渲染")
	fs.StringVar(&o.cachePath, "cache", "", "渲染缓存文件路径（bbolt）")
	fs.BoolVar(&o.cachePurge, "cache-purge", false, "启动时清空 -cache 中的渲染结果（保留字体）")
	fs.StringVar(&o.logPath, "log", "", "日志文件路径，为空时写到 stderr")
	fs.StringVar(&o.logLevel, "log-level", "info", "日志级别：trace/debug/info/warn/error/fail")
	fs.BoolVar(&o.presets, "presets", false, "列出内置预设与字体后退出")
	fs.StringVar(&o.debugLayout, "debug-layout", "", "布局调试 JSON 输出路径")
	fs.BoolVar(&o.dumpConfig, "dump-config", false, "以 TOML 输出最终配置后退出")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("多余的参数: %s", strings.Join(fs.Args(), " "))
	}
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	return o, nil
}

// run 串联参数解析、配置加载与渲染。
func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseFlags(args, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	lg, closer := logger.New(opts.logPath, logger.ParseLevel(opts.logLevel), 0)
	defer closer.Close()

	if opts.presets {
		return printPresets(stdout)
	}

	a, err := newApp(opts, lg)
	if err != nil {
		return err
	}
	defer a.Close()

	if opts.dumpConfig {
		cfg, err := a.loadConfig(opts.configPath)
		if err != nil {
			return err
		}
		data, err := config.Encode(cfg)
		if err != nil {
			return err
		}
		_, err = stdout.Write(data)
		return err
	}

	if err := a.renderAll(); err != nil {
		if !opts.watch {
			return err
		}
		lg.Error("render failed", "error", err)
	}
	if opts.watch {
		return a.watch(ctx)
	}
	return nil
}
