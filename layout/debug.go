package layout

import (
	"encoding/json"
	"os"
)

type debugLayout struct {
	*Layout
	Positions []float64 `json:"positions"`
}

// WriteDebugJSON 将排布结果（含每行中心坐标）输出为 JSON，便于调试。
func WriteDebugJSON(l *Layout, path string) error {
	if l == nil {
		return nil
	}
	data, err := json.MarshalIndent(debugLayout{Layout: l, Positions: l.Positions()}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
