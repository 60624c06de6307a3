package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v2"
)

// Load 读取配置文件并覆盖到 Default() 之上。格式由扩展名决定：.toml、.yaml/.yml、.json。
func Load(path string) (RenderConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RenderConfig{}, fmt.Errorf("读取配置文件失败: %w", err)
	}
	cfg, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return RenderConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode 按 format 解析 data，未出现的字段保持默认值，结果经过 Normalize 与 Validate。
func Decode(data []byte, format string) (RenderConfig, error) {
	cfg := Default()
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return RenderConfig{}, fmt.Errorf("解析 TOML 配置失败: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return RenderConfig{}, fmt.Errorf("未知的配置项: %v", undecoded)
		}
	case "yaml", "yml":
		if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
			return RenderConfig{}, fmt.Errorf("解析 YAML 配置失败: %w", err)
		}
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return RenderConfig{}, fmt.Errorf("解析 JSON 配置失败: %w", err)
		}
	default:
		return RenderConfig{}, fmt.Errorf("不支持的配置格式 %q", format)
	}
	cfg = Normalize(cfg)
	if err := cfg.Validate(); err != nil {
		return RenderConfig{}, err
	}
	return cfg, nil
}

// Encode 将配置编码为 TOML。
func Encode(cfg RenderConfig) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("编码 TOML 配置失败: %w", err)
	}
	return buf.Bytes(), nil
}
