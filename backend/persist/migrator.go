package persist

import (
	"encoding/json"
	"fmt"
	"strings"

	"ispeaker/backend/domain"
)

// SchemaVersion 当前架构版本
const SchemaVersion = "1.0.0"

// Migrator 版本校验器（仅接受当前 schemaVersion 或旧版扁平存储）
type Migrator struct{}

// NewMigrator 创建校验器
func NewMigrator() *Migrator {
	return &Migrator{}
}

// Migrate 解析并校验版本
//
// Both layouts are the same flat Electron map; a file without schemaVersion was last
// written by the front end alone and is adopted as-is.
func (m *Migrator) Migrate(data []byte) (domain.SettingsState, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return domain.SettingsState{SchemaVersion: SchemaVersion}, nil
	}

	// 缺省键沿用默认日志设置
	state := domain.SettingsState{LogSettings: domain.DefaultLogSettings()}
	if err := json.Unmarshal(data, &state); err != nil {
		return domain.SettingsState{}, fmt.Errorf("failed to parse settings: %w", err)
	}

	switch state.SchemaVersion {
	case "":
		state.SchemaVersion = SchemaVersion
		return state, nil
	case SchemaVersion:
		return state, nil
	default:
		return domain.SettingsState{}, fmt.Errorf("unsupported schemaVersion %s (expected %s)", state.SchemaVersion, SchemaVersion)
	}
}
