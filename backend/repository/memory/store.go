package memory

import (
	"strings"
	"sync"
	"time"

	"ispeaker/backend/domain"
	"ispeaker/backend/repository/events"
)

// Store 内存存储引擎（设置单例）
type Store struct {
	mu sync.RWMutex

	customSaveFolder string
	theme            string
	logSettings      domain.LogSettings
	extra            map[string]interface{}

	// 事件总线
	eventBus *events.Bus
}

// NewStore 创建新的内存存储
func NewStore(eventBus *events.Bus) *Store {
	return &Store{
		theme:       domain.DefaultTheme,
		logSettings: domain.DefaultLogSettings(),
		eventBus:    eventBus,
	}
}

// ========== 锁操作（供仓储使用）==========

// RLock 获取读锁
func (s *Store) RLock() { s.mu.RLock() }

// RUnlock 释放读锁
func (s *Store) RUnlock() { s.mu.RUnlock() }

// Lock 获取写锁
func (s *Store) Lock() { s.mu.Lock() }

// Unlock 释放写锁
func (s *Store) Unlock() { s.mu.Unlock() }

// ========== 事件发布 ==========

// PublishEventSync 发布事件（同步，应在锁外调用）
//
// 设置事件同步发布：返回前快照器已记录未保存的变更。
func (s *Store) PublishEventSync(event events.Event) {
	if s.eventBus != nil {
		s.eventBus.PublishSync(event)
	}
}

// ========== 单例设置访问（需持有锁）==========

func (s *Store) GetCustomSaveFolder() string { return s.customSaveFolder }

func (s *Store) SetCustomSaveFolder(folder string) { s.customSaveFolder = folder }

func (s *Store) GetTheme() string { return s.theme }

func (s *Store) SetTheme(theme string) { s.theme = theme }

func (s *Store) GetLogSettings() domain.LogSettings { return s.logSettings }

func (s *Store) SetLogSettings(settings domain.LogSettings) { s.logSettings = settings }

// ========== 快照与恢复 ==========

// Snapshot 生成状态快照
func (s *Store) Snapshot() domain.SettingsState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.SettingsState{
		CustomSaveFolder: s.customSaveFolder,
		Theme:            s.theme,
		LogSettings:      s.logSettings,
		Extra:            cloneExtra(s.extra),
		GeneratedAt:      time.Now(),
	}
}

// LoadState 加载状态
func (s *Store) LoadState(state domain.SettingsState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.customSaveFolder = strings.TrimSpace(state.CustomSaveFolder)

	s.theme = strings.TrimSpace(state.Theme)
	if s.theme == "" {
		s.theme = domain.DefaultTheme
	}

	s.logSettings = normalizeLogSettings(state.LogSettings)
	s.extra = cloneExtra(state.Extra)
}

// normalizeLogSettings fills zero-valued fields that have no meaningful zero.
// NumOfLogs and KeepForDays use 0 for "unlimited" and are kept as-is.
func normalizeLogSettings(in domain.LogSettings) domain.LogSettings {
	def := domain.DefaultLogSettings()
	if strings.TrimSpace(in.LogLevel) == "" {
		in.LogLevel = def.LogLevel
	}
	if strings.TrimSpace(in.LogFormat) == "" {
		in.LogFormat = def.LogFormat
	}
	if in.MaxLogSize <= 0 {
		in.MaxLogSize = def.MaxLogSize
	}
	if in.NumOfLogs < 0 {
		in.NumOfLogs = 0
	}
	if in.KeepForDays < 0 {
		in.KeepForDays = 0
	}
	return in
}

func cloneExtra(in map[string]interface{}) map[string]interface{} {
	if in == nil {
		return nil
	}
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch x := v.(type) {
	case map[string]interface{}:
		return cloneExtra(x)
	case []interface{}:
		out := make([]interface{}, 0, len(x))
		for _, item := range x {
			out = append(out, cloneValue(item))
		}
		return out
	default:
		return v
	}
}
