// Package fonts 提供按字体族名称解析 SFNT 字体的注册表。
package fonts

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	tdfont "github.com/tdewolff/font"
	"golang.org/x/image/font/sfnt"
)

// ErrUnknownFamily 表示注册表中没有该字体族（别名解析之后）。
var ErrUnknownFamily = errors.New("unknown font family")

// Style 是字体样式位集合。
type Style int

const (
	Regular Style = 0
	Bold    Style = 1 << 0
	Italic  Style = 1 << 1
)

func (s Style) String() string {
	switch s {
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	case Bold | Italic:
		return "bold italic"
	default:
		return "regular"
	}
}

// face 延迟解析字体数据，同一份数据只解析一次。
// font 用于字族名称与字形覆盖查询，family 是同一份数据在 canvas 中的字体，负责测量与轮廓。
type face struct {
	once   sync.Once
	name   string
	data   []byte
	font   *sfnt.Font
	family *canvas.FontFamily
	err    error
}

func (f *face) load() (*face, error) {
	f.once.Do(func() {
		f.data, f.font, f.err = parse(f.data)
		if f.err != nil {
			return
		}
		f.family = canvas.NewFontFamily(f.name)
		if err := f.family.LoadFont(f.data, 0, canvas.FontRegular); err != nil {
			f.err = fmt.Errorf("加载字体 %s 失败: %w", f.name, err)
		}
	})
	return f, f.err
}

type family struct {
	name  string
	faces map[Style]*face
}

// Registry 维护字体族、别名与回退字体。可并发使用。
type Registry struct {
	mu        sync.RWMutex
	families  map[string]*family
	aliases   map[string]string
	fallbacks []string
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default 返回进程共享的注册表（含内置字体）。
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry 创建一个包含全部内置字体与别名的注册表。
func NewRegistry() *Registry {
	r := &Registry{
		families: make(map[string]*family),
		aliases:  make(map[string]string),
	}
	registerEmbedded(r)
	return r
}

func key(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func (r *Registry) addLazy(name string, style Style, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addLocked(name, style, &face{name: name, data: data})
}

func (r *Registry) addLocked(name string, style Style, f *face) {
	k := key(name)
	fam, ok := r.families[k]
	if !ok {
		fam = &family{name: name, faces: make(map[Style]*face)}
		r.families[k] = fam
	}
	fam.faces[style] = f
}

// LoadData 解析字体数据并按其 name 表注册；name 表缺少字体族名称时使用 fallbackName。
func (r *Registry) LoadData(data []byte, fallbackName string) (string, error) {
	fc := &face{name: fallbackName, data: data}
	if _, err := fc.load(); err != nil {
		return "", err
	}
	f := fc.font

	var buf sfnt.Buffer
	name, err := f.Name(&buf, sfnt.NameIDFamily)
	if err != nil || strings.TrimSpace(name) == "" {
		name = fallbackName
	}
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("字体缺少字体族名称")
	}
	sub, _ := f.Name(&buf, sfnt.NameIDSubfamily)
	fc.name = name

	r.mu.Lock()
	defer r.mu.Unlock()
	r.addLocked(name, parseSubfamily(sub), fc)
	return name, nil
}

// Alias 将 alias 指向已注册（或将要注册）的字体族 target。
func (r *Registry) Alias(alias, target string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[key(alias)] = target
}

// AddFallback 把字体族 name 追加到回退链末尾。回退链既用于无法解析的字体族，也用于逐字缺字回退。
func (r *Registry) AddFallback(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(name)
	for _, f := range r.fallbacks {
		if key(f) == k {
			return
		}
	}
	r.fallbacks = append(r.fallbacks, name)
}

// Families 返回已注册的字体族名称（已排序）。
func (r *Registry) Families() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.families))
	for _, fam := range r.families {
		out = append(out, fam.name)
	}
	sort.Strings(out)
	return out
}

// Lookup 查找字体族 name 的 style 样式。缺少精确样式时依次降级为去掉斜体、去掉粗体、常规。
func (r *Registry) Lookup(name string, style Style) (*sfnt.Font, error) {
	fc, err := r.lookup(name, style)
	if err != nil {
		return nil, err
	}
	return fc.font, nil
}

func (r *Registry) lookup(name string, style Style) (*face, error) {
	r.mu.RLock()
	k := key(name)
	fam, ok := r.families[k]
	if !ok {
		if target, aliased := r.aliases[k]; aliased {
			fam, ok = r.families[key(target)]
		}
	}
	var fc *face
	if ok {
		fc = fam.pick(style)
	}
	r.mu.RUnlock()
	if fc == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFamily, name)
	}
	return fc.load()
}

func (fam *family) pick(style Style) *face {
	for _, s := range []Style{style, style &^ Italic, style &^ Bold, Regular} {
		if fc, ok := fam.faces[s]; ok {
			return fc
		}
	}
	for _, fc := range fam.faces {
		return fc
	}
	return nil
}

// Face 按顺序解析 families 并追加回退链，返回像素字号为 sizePx 的字体面。
// 第一个可用的字体族为主字体；没有任何字体可用时返回 nil。
func (r *Registry) Face(families []string, style Style, sizePx float64) *Face {
	r.mu.RLock()
	names := append(append([]string(nil), families...), r.fallbacks...)
	r.mu.RUnlock()

	var chain []*face
	seen := make(map[*face]bool)
	for _, name := range names {
		fc, err := r.lookup(name, style)
		if err != nil || seen[fc] {
			continue
		}
		seen[fc] = true
		chain = append(chain, fc)
	}
	if len(chain) == 0 {
		return nil
	}
	return newFace(chain, sizePx)
}

// parse 返回可交给 canvas 的 SFNT 数据（WOFF/WOFF2 已转换）以及解析出的字体。集合文件取第一个字体。
func parse(data []byte) ([]byte, *sfnt.Font, error) {
	if len(data) < 4 {
		return nil, nil, fmt.Errorf("字体数据过短")
	}
	switch string(data[:4]) {
	case "wOFF", "wOF2":
		converted, err := tdfont.ToSFNT(data)
		if err != nil {
			return nil, nil, fmt.Errorf("转换 WOFF 字体失败: %w", err)
		}
		data = converted
	case "ttcf":
		coll, err := sfnt.ParseCollection(data)
		if err != nil {
			return nil, nil, err
		}
		f, err := coll.Font(0)
		return data, f, err
	}
	f, err := sfnt.Parse(data)
	return data, f, err
}

func parseSubfamily(sub string) Style {
	sub = strings.ToLower(sub)
	var s Style
	if strings.Contains(sub, "bold") {
		s |= Bold
	}
	if strings.Contains(sub, "italic") || strings.Contains(sub, "oblique") {
		s |= Italic
	}
	return s
}
