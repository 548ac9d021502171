package savefolder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"ispeaker/backend/domain"
	"ispeaker/backend/repository"
	"ispeaker/backend/service/shared"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrRelocationInProgress is logged when a second relocation is attempted while one runs.
var ErrRelocationInProgress = errors.New("save folder relocation already in progress")

// LogRelocator moves the active log file into a new directory.
type LogRelocator interface {
	Relocate(dir string) error
}

// Options 保存目录服务依赖
type Options struct {
	Settings repository.SettingsRepository

	// DefaultRoot is used when no custom folder is set (<Documents>/iSpeakerReact).
	DefaultRoot string

	Guard PathGuard
	Mover *Mover
	Logs  LogRelocator

	OnProgress   func(operationID string, ev domain.ProgressEvent)
	OnVenvStatus func(operationID string, ev domain.VenvStatusEvent)

	Logger zerolog.Logger
}

// Service 保存目录服务：解析当前数据根目录并负责迁移
type Service struct {
	settings    repository.SettingsRepository
	defaultRoot string
	guard       PathGuard
	mover       *Mover
	logs        LogRelocator

	onProgress   func(string, domain.ProgressEvent)
	onVenvStatus func(string, domain.VenvStatusEvent)

	logger zerolog.Logger

	// relocating admits a single relocation at a time.
	relocating sync.Mutex
}

// NewService 创建保存目录服务
func NewService(opts Options) *Service {
	s := &Service{
		settings:     opts.Settings,
		defaultRoot:  opts.DefaultRoot,
		guard:        opts.Guard,
		mover:        opts.Mover,
		logs:         opts.Logs,
		onProgress:   opts.OnProgress,
		onVenvStatus: opts.OnVenvStatus,
		logger:       opts.Logger,
	}
	if s.guard == nil {
		s.guard = NewValidator(shared.ResolveAppPaths("", ""), s.logger)
	}
	if s.mover == nil {
		s.mover = NewMover(FileOps{}, s.logger)
	}
	return s
}

// DefaultRoot returns the platform default data root.
func (s *Service) DefaultRoot() string {
	return s.defaultRoot
}

// CustomSaveFolder returns the configured custom base folder, or "" when unset.
func (s *Service) CustomSaveFolder(ctx context.Context) (string, error) {
	return s.settings.GetCustomSaveFolder(ctx)
}

// DataRoot resolves the effective data root without touching the filesystem.
func (s *Service) DataRoot(ctx context.Context) (string, error) {
	custom, err := s.settings.GetCustomSaveFolder(ctx)
	if err != nil {
		return "", err
	}
	return s.rootFor(custom), nil
}

// SaveFolder resolves the effective data root and creates it when missing.
func (s *Service) SaveFolder(ctx context.Context) (string, error) {
	root, err := s.DataRoot(ctx)
	if err != nil {
		return "", err
	}
	if root == "" {
		return "", errors.New("default save folder is unavailable")
	}
	if err := ensureDir(root); err != nil {
		return "", err
	}
	return root, nil
}

// LogFolder returns <root>/logs, creating it when missing.
func (s *Service) LogFolder(ctx context.Context) (string, error) {
	root, err := s.SaveFolder(ctx)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(root, LogsDirName)
	if err := ensureDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

// IsDenied exposes the path guard.
func (s *Service) IsDenied(path string) bool {
	return s.guard.IsDenied(path)
}

func (s *Service) rootFor(custom string) string {
	return RootFor(custom, s.defaultRoot)
}

// RootFor resolves the data root for a custom-folder setting: <custom>/ispeakerreact_data
// when set, defaultRoot otherwise.
func RootFor(custom, defaultRoot string) string {
	if strings.TrimSpace(custom) != "" {
		return DataSubfolderPath(custom)
	}
	return defaultRoot
}

// SetDataRoot moves the data root to requested, or back to the default when requested
// is empty.
//
// Validation failures return folderChangeError before anything is touched; transfer
// failures return folderMoveError. The custom-folder setting is only written once the
// transfer has succeeded, so the previous root stays authoritative on failure.
func (s *Service) SetDataRoot(ctx context.Context, requested string) domain.RelocationResult {
	if !s.relocating.TryLock() {
		s.logger.Warn().Err(ErrRelocationInProgress).Str("requested", requested).Msg("relocation rejected")
		return domain.RelocationFailed(domain.ErrFolderChange, domain.ReasonFolderMoveInFlight)
	}
	defer s.relocating.Unlock()

	opID := uuid.NewString()
	logger := s.logger.With().Str("operation", opID).Logger()

	prevCustom, err := s.settings.GetCustomSaveFolder(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("read custom save folder failed")
		return domain.RelocationFailed(domain.ErrFolderChange, err.Error())
	}
	oldRoot := s.rootFor(prevCustom)

	requested = strings.TrimSpace(requested)
	reset := requested == ""

	var newRoot string
	if reset {
		newRoot = s.defaultRoot
		if newRoot == "" {
			return domain.RelocationFailed(domain.ErrFolderChange, "default save folder is unavailable")
		}
		if err := ensureDir(newRoot); err != nil {
			logger.Error().Err(err).Str("path", newRoot).Msg("failed to create default save folder")
			return domain.RelocationFailed(domain.ErrFolderChange, err.Error())
		}
		logger.Info().Str("path", newRoot).Msg("reset to default save folder")
	} else {
		if abs, err := filepath.Abs(requested); err == nil {
			requested = abs
		}
		if result, ok := s.validate(logger, requested); !ok {
			return result
		}
		newRoot = DataSubfolderPath(requested)
		if err := ensureDir(newRoot); err != nil {
			logger.Error().Err(err).Str("path", newRoot).Msg("failed to create data subfolder")
			return domain.RelocationFailed(domain.ErrFolderChange, err.Error())
		}
		logger.Info().Str("path", newRoot).Msg("new save folder")
	}

	if ShouldMove(oldRoot, newRoot) {
		s.mover.CleanVenv(oldRoot, func(ev domain.VenvStatusEvent) {
			if s.onVenvStatus != nil {
				s.onVenvStatus(opID, ev)
			}
		}, logger)

		progress := func(ev domain.ProgressEvent) {
			if s.onProgress != nil {
				s.onProgress(opID, ev)
			}
		}
		if _, err := s.mover.MoveContents(oldRoot, newRoot, progress); err != nil {
			logger.Error().Err(err).Str("from", oldRoot).Str("to", newRoot).Msg("failed to move folder contents")
			return domain.RelocationFailed(domain.ErrFolderMove, err.Error())
		}
	} else {
		logger.Debug().Str("from", oldRoot).Str("to", newRoot).Msg("no folder contents to move")
	}

	if reset {
		err = s.settings.ClearCustomSaveFolder(ctx)
	} else {
		err = s.settings.SetCustomSaveFolder(ctx, requested)
	}
	if err != nil {
		logger.Error().Err(err).Msg("persist custom save folder failed")
		return domain.RelocationFailed(domain.ErrFolderChange, err.Error())
	}

	if s.logs != nil {
		logDir := filepath.Join(newRoot, LogsDirName)
		if err := s.logs.Relocate(logDir); err != nil {
			logger.Warn().Err(err).Str("dir", logDir).Msg("failed to move log directory")
		} else {
			logger.Info().Str("dir", logDir).Msg("new log directory")
		}
	}

	if prevCustom != "" && DataSubfolderPath(prevCustom) != newRoot {
		if DeleteEmptyDataSubfolder(prevCustom) {
			logger.Info().Str("base", prevCustom).Msg("removed empty data subfolder")
		}
	}

	return domain.RelocationOK(newRoot)
}

func (s *Service) validate(logger zerolog.Logger, folder string) (domain.RelocationResult, bool) {
	info, err := os.Stat(folder)
	if err != nil || !info.IsDir() {
		logger.Error().Err(err).Str("path", folder).Msg("folder is not a directory")
		return domain.RelocationFailed(domain.ErrFolderChange, domain.ReasonFolderNotDir), false
	}
	if s.guard.IsDenied(folder) {
		logger.Error().Str("path", folder).Msg("folder is restricted")
		return domain.RelocationFailed(domain.ErrFolderChange, domain.ReasonFolderRestricted), false
	}
	if err := shared.CheckWritable(folder); err != nil {
		logger.Error().Err(err).Str("path", folder).Msg("folder is not writable")
		return domain.RelocationFailed(domain.ErrFolderChange, domain.ReasonFolderNoWrite), false
	}
	return domain.RelocationResult{}, true
}
