package persist

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"ispeaker/backend/domain"
	"ispeaker/backend/repository"
	"ispeaker/backend/repository/events"
)

// Snapshotter 设置快照管理器
type Snapshotter struct {
	path     string
	store    repository.Snapshottable
	migrator *Migrator
	logger   zerolog.Logger

	mu       sync.Mutex
	pending  bool
	dirty    bool
	unsaved  bool
	closed   bool
	debounce time.Duration
	wg       sync.WaitGroup

	saveMu sync.Mutex
}

// NewSnapshotter 创建快照管理器
func NewSnapshotter(path string, store repository.Snapshottable, logger zerolog.Logger) *Snapshotter {
	return &Snapshotter{
		path:     path,
		store:    store,
		migrator: NewMigrator(),
		logger:   logger.With().Str("component", "snapshot").Logger(),
		debounce: 200 * time.Millisecond,
	}
}

// Path returns the settings file location.
func (s *Snapshotter) Path() string { return s.path }

// SetDebounce 设置防抖延迟
func (s *Snapshotter) SetDebounce(d time.Duration) {
	s.mu.Lock()
	s.debounce = d
	s.mu.Unlock()
}

// SubscribeEvents 订阅事件总线（仅设置写操作触发持久化）
func (s *Snapshotter) SubscribeEvents(bus *events.Bus) events.SubscriptionID {
	return bus.SubscribeAll(func(event events.Event) {
		if events.IsSettings(event.Type()) {
			s.Schedule()
		}
	})
}

// Schedule 调度快照（防抖）
func (s *Snapshotter) Schedule() {
	s.mu.Lock()
	s.unsaved = true
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.pending {
		s.dirty = true
		s.mu.Unlock()
		return
	}
	s.pending = true
	s.dirty = false
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		for {
			s.mu.Lock()
			debounce := s.debounce
			s.mu.Unlock()

			time.Sleep(debounce)

			s.mu.Lock()
			if s.closed {
				s.pending = false
				s.mu.Unlock()
				return
			}
			s.mu.Unlock()
			_ = s.save()

			s.mu.Lock()
			if s.dirty {
				s.dirty = false
				s.mu.Unlock()
				continue
			}
			s.pending = false
			s.mu.Unlock()
			return
		}
	}()
}

// Close stops debounced saves and waits for a pending one to exit. Flush still works.
func (s *Snapshotter) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.wg.Wait()
}

// Flush 同步写入尚未落盘的变更；没有设置事件时不触碰文件（文件与前端共享）
func (s *Snapshotter) Flush() error {
	s.mu.Lock()
	unsaved := s.unsaved
	s.mu.Unlock()
	if !unsaved {
		return nil
	}
	return s.save()
}

func (s *Snapshotter) save() error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	s.unsaved = false
	s.mu.Unlock()

	state := s.store.Snapshot()
	if err := SaveState(s.path, state); err != nil {
		s.mu.Lock()
		s.unsaved = true
		s.mu.Unlock()
		s.logger.Error().Err(err).Str("path", s.path).Msg("write settings failed")
		return err
	}
	return nil
}

// Load 加载状态（严格版本校验）
func (s *Snapshotter) Load() (domain.SettingsState, error) {
	return loadWith(s.migrator, s.path)
}

func loadWith(m *Migrator, path string) (domain.SettingsState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.SettingsState{SchemaVersion: SchemaVersion}, nil
		}
		return domain.SettingsState{}, err
	}
	return m.Migrate(data)
}

// SaveState 静态函数：原子写入状态
func SaveState(path string, state domain.SettingsState) error {
	state.SchemaVersion = SchemaVersion
	state.GeneratedAt = time.Now()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
