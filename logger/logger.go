// Package logger 提供渲染命令行使用的 slog 处理器。
//
// 输出格式：
//
//	2006-01-02T15:04:05.000Z [LEVEL] message | key=value, key2=value2
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// 在 slog 标准级别之外的两个级别
const (
	LevelTrace slog.Level = -8
	LevelFail  slog.Level = 12
)

func levelName(l slog.Level) string {
	switch {
	case l <= LevelTrace:
		return "TRACE"
	case l <= slog.LevelDebug:
		return "DEBUG"
	case l <= slog.LevelInfo:
		return "INFO"
	case l <= slog.LevelWarn:
		return "WARN"
	case l <= slog.LevelError:
		return "ERROR"
	default:
		return "FAIL"
	}
}

// ParseLevel 解析 trace/debug/info/warn/error/fail（忽略大小写），无法识别时返回 info。
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "fail":
		return LevelFail
	default:
		return slog.LevelInfo
	}
}

// Handler 按单行文本格式输出日志记录。
type Handler struct {
	w     io.Writer
	mu    *sync.Mutex
	level slog.Leveler
	attrs []groupedAttr
	group string
}

// groupedAttr 记录属性被添加时所在的分组。
type groupedAttr struct {
	slog.Attr
	group string
}

// NewHandler 创建写入 w、过滤 level 以下记录的 Handler。
func NewHandler(w io.Writer, level slog.Leveler) *Handler {
	return &Handler{w: w, mu: &sync.Mutex{}, level: level}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(r.Time.UTC().Format("2006-01-02T15:04:05.000Z"))
	sb.WriteString(" [")
	sb.WriteString(levelName(r.Level))
	sb.WriteString("] ")
	sb.WriteString(r.Message)

	n := 0
	write := func(group string, a slog.Attr) {
		if a.Equal(slog.Attr{}) {
			return
		}
		if n == 0 {
			sb.WriteString(" | ")
		} else {
			sb.WriteString(", ")
		}
		n++
		if group != "" {
			sb.WriteString(group)
			sb.WriteByte('.')
		}
		sb.WriteString(a.Key)
		sb.WriteByte('=')
		sb.WriteString(a.Value.Resolve().String())
	}
	for _, a := range h.attrs {
		write(a.group, a.Attr)
	}
	r.Attrs(func(a slog.Attr) bool {
		write(h.group, a)
		return true
	})
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, sb.String())
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append([]groupedAttr(nil), h.attrs...)
	for _, a := range attrs {
		next.attrs = append(next.attrs, groupedAttr{Attr: a, group: h.group})
	}
	return &next
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	if h.group != "" {
		next.group = h.group + "." + name
	} else {
		next.group = name
	}
	return &next
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New 创建日志器。path 为空时写到 stderr；否则写入按 maxSizeMB 滚动的日志文件。
// 返回的 io.Closer 需要在退出前关闭。
func New(path string, level slog.Level, maxSizeMB int) (*slog.Logger, io.Closer) {
	if path == "" {
		return slog.New(NewHandler(os.Stderr, level)), nopCloser{}
	}
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: 3,
		MaxAge:     28,
	}
	return slog.New(NewHandler(lj, level)), lj
}

// Trace 以 LevelTrace 记录日志。
func Trace(l *slog.Logger, msg string, args ...any) {
	l.Log(context.Background(), LevelTrace, msg, args...)
}

// Fail 以 LevelFail 记录日志。
func Fail(l *slog.Logger, msg string, args ...any) {
	l.Log(context.Background(), LevelFail, msg, args...)
}
