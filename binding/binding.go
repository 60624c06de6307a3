// Package binding 将外部数据插值进表情文字，例如 "${user.name}" 或 "${tasks[0]|完了}"。
package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var placeholder = regexp.MustCompile(`\$\{([^}]+)\}`)

// Expand 将 text 中的 ${path} 替换为 data 中对应的值。
// "${path|默认值}" 在路径不存在时使用默认值；没有默认值时保留原占位符。
func Expand(text string, data any) string {
	return placeholder.ReplaceAllStringFunc(text, func(match string) string {
		expr := match[2 : len(match)-1]
		path, fallback, hasFallback := strings.Cut(expr, "|")
		path = strings.TrimSpace(path)
		if path != "" && data != nil {
			if val, ok := Lookup(data, path); ok {
				return format(val)
			}
		}
		if hasFallback {
			return fallback
		}
		return match
	})
}

// Lookup 按 a.b[0].c 形式的路径在 data 中取值。
func Lookup(data any, path string) (any, bool) {
	steps, err := parsePath(path)
	if err != nil {
		return nil, false
	}
	current := data
	for _, st := range steps {
		var ok bool
		if st.index >= 0 {
			current, ok = index(current, st.index)
		} else {
			current, ok = field(current, st.key)
		}
		if !ok {
			return nil, false
		}
	}
	return current, true
}

type step struct {
	key   string
	index int // -1 表示按键取值
}

func parsePath(path string) ([]step, error) {
	var steps []step
	for _, part := range strings.Split(path, ".") {
		name, rest, _ := strings.Cut(part, "[")
		if name == "" && rest == "" {
			return nil, fmt.Errorf("路径 %q 含空段", path)
		}
		if name != "" {
			steps = append(steps, step{key: name, index: -1})
		}
		if rest == "" {
			continue
		}
		for _, idx := range strings.Split(strings.TrimSuffix(rest, "]"), "][") {
			i, err := strconv.Atoi(idx)
			if err != nil || i < 0 {
				return nil, fmt.Errorf("路径 %q 下标无效: %s", path, idx)
			}
			steps = append(steps, step{index: i})
		}
	}
	return steps, nil
}

func field(current any, key string) (any, bool) {
	switch c := current.(type) {
	case map[string]any:
		v, ok := c[key]
		return v, ok
	case map[any]any:
		if v, ok := c[key]; ok {
			return v, true
		}
		// yaml.v2 把 y/n/on/off 等键解码为 bool，数字键解码为 int
		b, isBool := yamlBool(key)
		for k, v := range c {
			if kb, ok := k.(bool); ok {
				if isBool && kb == b {
					return v, true
				}
				continue
			}
			if fmt.Sprint(k) == key {
				return v, true
			}
		}
		return nil, false
	default:
		return nil, false
	}
}

// yamlBool 按 YAML 1.1 的布尔字面量解析 s。
func yamlBool(s string) (value, ok bool) {
	switch strings.ToLower(s) {
	case "y", "yes", "on", "true":
		return true, true
	case "n", "no", "off", "false":
		return false, true
	}
	return false, false
}

func index(current any, i int) (any, bool) {
	switch c := current.(type) {
	case []any:
		if i >= len(c) {
			return nil, false
		}
		return c[i], true
	case []map[string]any:
		if i >= len(c) {
			return nil, false
		}
		return c[i], true
	default:
		return nil, false
	}
}

func format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	default:
		return fmt.Sprint(x)
	}
}
