package binding

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v2"
)

// Parse 按格式（json/toml/yaml）解析数据文档。
func Parse(data []byte, format string) (any, error) {
	var out any
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "json", "":
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("解析 JSON 数据失败: %w", err)
		}
	case "toml":
		var m map[string]any
		if _, err := toml.Decode(string(data), &m); err != nil {
			return nil, fmt.Errorf("解析 TOML 数据失败: %w", err)
		}
		out = m
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("解析 YAML 数据失败: %w", err)
		}
	default:
		return nil, fmt.Errorf("不支持的数据格式 %q", format)
	}
	return out, nil
}

// Load 读取数据文件，按扩展名选择解析器。
func Load(path string) (any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取数据文件失败: %w", err)
	}
	return Parse(raw, filepath.Ext(path))
}
