package memory

import (
	"context"
	"path/filepath"
	"strings"

	"ispeaker/backend/domain"
	"ispeaker/backend/repository"
	"ispeaker/backend/repository/events"
)

var knownThemes = map[string]struct{}{
	"auto":  {},
	"light": {},
	"dark":  {},
}

// SettingsRepo 设置仓储实现
type SettingsRepo struct {
	store *Store
}

// NewSettingsRepo 创建设置仓储
func NewSettingsRepo(store *Store) *SettingsRepo {
	return &SettingsRepo{store: store}
}

// GetCustomSaveFolder 获取自定义保存目录（未设置时返回空串）
func (r *SettingsRepo) GetCustomSaveFolder(ctx context.Context) (string, error) {
	r.store.RLock()
	defer r.store.RUnlock()
	return r.store.GetCustomSaveFolder(), nil
}

// SetCustomSaveFolder 设置自定义保存目录
func (r *SettingsRepo) SetCustomSaveFolder(ctx context.Context, folder string) error {
	folder = strings.TrimSpace(folder)
	if folder == "" {
		return repository.ErrEmptySaveFolder
	}
	if !filepath.IsAbs(folder) {
		return repository.ErrRelativeFolder
	}

	r.store.Lock()
	r.store.SetCustomSaveFolder(filepath.Clean(folder))
	r.store.Unlock()

	// 在锁外发布事件
	r.store.PublishEventSync(events.SettingsEvent{
		EventType: events.EventSaveFolderChanged,
	})
	return nil
}

// ClearCustomSaveFolder 恢复默认保存目录
func (r *SettingsRepo) ClearCustomSaveFolder(ctx context.Context) error {
	r.store.Lock()
	changed := r.store.GetCustomSaveFolder() != ""
	r.store.SetCustomSaveFolder("")
	r.store.Unlock()

	if changed {
		r.store.PublishEventSync(events.SettingsEvent{
			EventType: events.EventSaveFolderChanged,
		})
	}
	return nil
}

// GetLogSettings 获取日志设置
func (r *SettingsRepo) GetLogSettings(ctx context.Context) (domain.LogSettings, error) {
	r.store.RLock()
	defer r.store.RUnlock()
	return r.store.GetLogSettings(), nil
}

// UpdateLogSettings 合并更新日志设置
func (r *SettingsRepo) UpdateLogSettings(ctx context.Context, patch domain.LogSettingsPatch) (domain.LogSettings, error) {
	r.store.Lock()
	next := normalizeLogSettings(r.store.GetLogSettings().Apply(patch))
	r.store.SetLogSettings(next)
	r.store.Unlock()

	r.store.PublishEventSync(events.SettingsEvent{
		EventType: events.EventLogSettingsChanged,
	})
	return next, nil
}

// GetTheme 获取界面主题
func (r *SettingsRepo) GetTheme(ctx context.Context) (string, error) {
	r.store.RLock()
	defer r.store.RUnlock()
	return r.store.GetTheme(), nil
}

// SetTheme 设置界面主题
func (r *SettingsRepo) SetTheme(ctx context.Context, theme string) error {
	theme = strings.ToLower(strings.TrimSpace(theme))
	if _, ok := knownThemes[theme]; !ok {
		return repository.ErrInvalidTheme
	}

	r.store.Lock()
	r.store.SetTheme(theme)
	r.store.Unlock()

	r.store.PublishEventSync(events.SettingsEvent{
		EventType: events.EventThemeChanged,
	})
	return nil
}

// 确保实现接口
var _ repository.SettingsRepository = (*SettingsRepo)(nil)
