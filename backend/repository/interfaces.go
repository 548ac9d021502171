package repository

import (
	"context"

	"ispeaker/backend/domain"
)

// SettingsRepository 设置仓储接口（单例设置）
type SettingsRepository interface {
	// 自定义保存目录（customSaveFolder）
	GetCustomSaveFolder(ctx context.Context) (string, error)
	SetCustomSaveFolder(ctx context.Context, folder string) error
	ClearCustomSaveFolder(ctx context.Context) error

	// 日志设置
	GetLogSettings(ctx context.Context) (domain.LogSettings, error)
	UpdateLogSettings(ctx context.Context, patch domain.LogSettingsPatch) (domain.LogSettings, error)

	// 主题
	GetTheme(ctx context.Context) (string, error)
	SetTheme(ctx context.Context, theme string) error
}

// Snapshottable 可快照的存储接口
type Snapshottable interface {
	// Snapshot 生成状态快照
	Snapshot() domain.SettingsState

	// LoadState 加载状态
	LoadState(state domain.SettingsState)
}
