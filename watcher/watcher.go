// Package watcher 监听配置、数据与字体文件的变化，用于命令行的 -watch 模式。
package watcher

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultPollInterval 是 fsnotify 不可用时的轮询间隔。
const DefaultPollInterval = time.Second

// Watcher 监听一组文件。监听的是文件所在目录，因此编辑器以“写临时文件再改名”方式保存也能被捕获。
type Watcher struct {
	files  map[string]struct{}
	dirs   []string
	logger *slog.Logger

	// events 缓冲为 1，连续多次写入合并为一次通知
	events chan struct{}
	done   chan struct{}
	once   sync.Once

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	polling atomic.Bool

	pollInterval time.Duration
}

// Option 配置 Watcher。
type Option func(*Watcher)

// WithLogger 设置日志器。
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithPollInterval 设置轮询间隔。
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.pollInterval = d
		}
	}
}

// WithPolling 强制使用轮询。
func WithPolling() Option {
	return func(w *Watcher) { w.polling.Store(true) }
}

// New 开始监听 paths。空路径会被忽略。
func New(paths []string, opts ...Option) (*Watcher, error) {
	w := &Watcher{
		files:        make(map[string]struct{}),
		logger:       slog.Default(),
		events:       make(chan struct{}, 1),
		done:         make(chan struct{}),
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(w)
	}

	seen := make(map[string]bool)
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("解析路径 %s 失败: %w", p, err)
		}
		w.files[abs] = struct{}{}
		if dir := filepath.Dir(abs); !seen[dir] {
			seen[dir] = true
			w.dirs = append(w.dirs, dir)
		}
	}
	if len(w.files) == 0 {
		return nil, fmt.Errorf("没有需要监听的文件")
	}

	if w.polling.Load() {
		go w.poll(w.snapshot())
		return w, nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Info("fsnotify unavailable, falling back to polling", "error", err)
		w.polling.Store(true)
		go w.poll(w.snapshot())
		return w, nil
	}
	for _, dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			w.logger.Info("cannot watch directory, falling back to polling", "dir", dir, "error", err)
			fsw.Close()
			w.polling.Store(true)
			go w.poll(w.snapshot())
			return w, nil
		}
	}
	w.fsw = fsw
	go w.watch(fsw)
	return w, nil
}

// Events 在被监听文件变化时收到信号。
func (w *Watcher) Events() <-chan struct{} { return w.events }

// Polling 报告是否处于轮询模式。
func (w *Watcher) Polling() bool { return w.polling.Load() }

// Close 停止监听，可重复调用。
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.fsw != nil {
			if cerr := w.fsw.Close(); cerr != nil {
				err = fmt.Errorf("关闭 fsnotify 失败: %w", cerr)
			}
			w.fsw = nil
		}
	})
	return err
}

func (w *Watcher) watch(fsw *fsnotify.Watcher) {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if _, tracked := w.files[filepath.Clean(ev.Name)]; tracked {
				w.logger.Debug("file changed", "path", ev.Name, "op", ev.Op.String())
				w.notify()
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Info("fsnotify error, switching to polling", "error", err)
			w.mu.Lock()
			if w.fsw != nil {
				w.fsw.Close()
				w.fsw = nil
			}
			w.mu.Unlock()
			w.polling.Store(true)
			// 切换前的变化可能已经丢失，补发一次通知
			w.notify()
			go w.poll(w.snapshot())
			return
		}
	}
}

// poll 以 last 为基准轮询。基准须由调用方在启动 goroutine 之前同步取得，否则之间的修改会被当作基准而漏掉。
func (w *Watcher) poll(last map[string]time.Time) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			cur := w.snapshot()
			if path, ok := changed(last, cur); ok {
				w.logger.Debug("file changed", "path", path)
				w.notify()
			}
			last = cur
		}
	}
}

func (w *Watcher) snapshot() map[string]time.Time {
	out := make(map[string]time.Time, len(w.files))
	for path := range w.files {
		if info, err := os.Stat(path); err == nil {
			out[path] = info.ModTime()
		}
	}
	return out
}

// changed 返回第一个修改时间变化、新出现或被删除的文件。
func changed(last, cur map[string]time.Time) (string, bool) {
	for path, mod := range cur {
		if prev, ok := last[path]; !ok || !mod.Equal(prev) {
			return path, true
		}
	}
	for path := range last {
		if _, ok := cur[path]; !ok {
			return path, true
		}
	}
	return "", false
}

func (w *Watcher) notify() {
	select {
	case w.events <- struct{}{}:
	default:
	}
}
