package domain

import "time"

const DefaultTheme = "auto"

// LogSettings 日志设置（与前端 update-log-settings 字段一致）
type LogSettings struct {
	NumOfLogs   int    `json:"numOfLogs"`
	KeepForDays int    `json:"keepForDays"`
	LogLevel    string `json:"logLevel"`
	LogFormat   string `json:"logFormat"`
	MaxLogSize  int64  `json:"maxLogSize"`
}

func DefaultLogSettings() LogSettings {
	return LogSettings{
		NumOfLogs:   10,
		KeepForDays: 0,
		LogLevel:    "info",
		LogFormat:   "{h}:{i}:{s} {text}",
		MaxLogSize:  5 * 1024 * 1024,
	}
}

// LogSettingsPatch is a partial update; nil fields keep their current value.
type LogSettingsPatch struct {
	NumOfLogs   *int    `json:"numOfLogs,omitempty"`
	KeepForDays *int    `json:"keepForDays,omitempty"`
	LogLevel    *string `json:"logLevel,omitempty"`
	LogFormat   *string `json:"logFormat,omitempty"`
	MaxLogSize  *int64  `json:"maxLogSize,omitempty"`
}

func (s LogSettings) Apply(p LogSettingsPatch) LogSettings {
	if p.NumOfLogs != nil {
		s.NumOfLogs = *p.NumOfLogs
	}
	if p.KeepForDays != nil {
		s.KeepForDays = *p.KeepForDays
	}
	if p.LogLevel != nil {
		s.LogLevel = *p.LogLevel
	}
	if p.LogFormat != nil {
		s.LogFormat = *p.LogFormat
	}
	if p.MaxLogSize != nil {
		s.MaxLogSize = *p.MaxLogSize
	}
	return s
}

// SettingsState 用户设置持久化结构（ispeakerreact_config.json）
//
// The file is shared with the Electron store, so it is encoded flat: see settings_json.go.
type SettingsState struct {
	// 版本管理
	SchemaVersion string

	// CustomSaveFolder is the user-chosen parent folder; empty means the platform default.
	CustomSaveFolder string
	Theme            string
	LogSettings      LogSettings

	// Extra keeps keys written by the front end that the backend does not interpret.
	Extra map[string]interface{}

	GeneratedAt time.Time
}
