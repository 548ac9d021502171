package service

import (
	"context"
	"fmt"

	"ispeaker/backend/domain"
	"ispeaker/backend/repository"
	"ispeaker/backend/repository/events"
	"ispeaker/backend/service/applog"
	"ispeaker/backend/service/savefolder"

	"github.com/rs/zerolog"
)

// Facade 服务门面（API 聚合层）
type Facade struct {
	saveFolder *savefolder.Service
	settings   repository.SettingsRepository
	bus        *events.Bus

	logSink    *applog.FileSink
	fileFilter *applog.LevelFilter

	logger zerolog.Logger
}

// NewFacade 创建门面服务
func NewFacade(
	saveFolderSvc *savefolder.Service,
	settings repository.SettingsRepository,
	bus *events.Bus,
	logger zerolog.Logger,
) *Facade {
	return &Facade{
		saveFolder: saveFolderSvc,
		settings:   settings,
		bus:        bus,
		logger:     logger,
	}
}

// SetAppLog attaches the log file sink and its level filter.
func (f *Facade) SetAppLog(sink *applog.FileSink, fileFilter *applog.LevelFilter) {
	f.logSink = sink
	f.fileFilter = fileFilter
}

// ========== 保存目录 ==========

// SaveFolder get-save-folder
func (f *Facade) SaveFolder(ctx context.Context) (string, error) {
	return f.saveFolder.SaveFolder(ctx)
}

// CustomSaveFolder get-custom-save-folder; "" when unset.
func (f *Facade) CustomSaveFolder(ctx context.Context) (string, error) {
	return f.saveFolder.CustomSaveFolder(ctx)
}

// LogFolder getLogFolder
func (f *Facade) LogFolder(ctx context.Context) (string, error) {
	return f.saveFolder.LogFolder(ctx)
}

// SetCustomSaveFolder set-custom-save-folder; empty path resets to the default.
func (f *Facade) SetCustomSaveFolder(ctx context.Context, path string) domain.RelocationResult {
	return f.saveFolder.SetDataRoot(ctx, path)
}

// IsDeniedPath reports whether path may not be used as a save folder.
func (f *Facade) IsDeniedPath(path string) bool {
	return f.saveFolder.IsDenied(path)
}

// ========== 事件 ==========

// SubscribeEvents registers h for every bus event and returns the unsubscribe func.
func (f *Facade) SubscribeEvents(h events.Handler) (events.SubscriptionID, func()) {
	id := f.bus.SubscribeAll(h)
	return id, func() { f.bus.Unsubscribe(id) }
}

// PublishProgress adapts the bus to savefolder.Options.OnProgress. Progress is
// published synchronously so subscribers see events in emission order.
func PublishProgress(bus *events.Bus) func(string, domain.ProgressEvent) {
	return func(opID string, ev domain.ProgressEvent) {
		bus.PublishSync(events.MoveProgressEvent{OperationID: opID, Progress: ev})
	}
}

// PublishVenvStatus adapts the bus to savefolder.Options.OnVenvStatus.
func PublishVenvStatus(bus *events.Bus) func(string, domain.VenvStatusEvent) {
	return func(opID string, ev domain.VenvStatusEvent) {
		bus.PublishSync(events.VenvStatusEvent{OperationID: opID, Status: ev})
	}
}

// ========== 日志 ==========

// GetAppLogs reads the active log file from since; see applog.LogChunk for epoch.
func (f *Facade) GetAppLogs(since, epoch int64) applog.LogChunk {
	if f.logSink == nil {
		return applog.LogChunk{}
	}
	return f.logSink.Since(since, epoch)
}

func (f *Facade) LogSettings(ctx context.Context) (domain.LogSettings, error) {
	return f.settings.GetLogSettings(ctx)
}

// UpdateLogSettings merges patch, then applies level, size cap and retention to the
// running log sink.
func (f *Facade) UpdateLogSettings(ctx context.Context, patch domain.LogSettingsPatch) (domain.LogSettings, error) {
	if patch.LogLevel != nil {
		if _, err := applog.LevelFromString(*patch.LogLevel); err != nil {
			return domain.LogSettings{}, fmt.Errorf("%w: log level %q", repository.ErrInvalidData, *patch.LogLevel)
		}
	}
	if (patch.NumOfLogs != nil && *patch.NumOfLogs < 0) ||
		(patch.KeepForDays != nil && *patch.KeepForDays < 0) ||
		(patch.MaxLogSize != nil && *patch.MaxLogSize < 0) {
		return domain.LogSettings{}, fmt.Errorf("%w: negative log limit", repository.ErrInvalidData)
	}

	updated, err := f.settings.UpdateLogSettings(ctx, patch)
	if err != nil {
		return domain.LogSettings{}, err
	}
	f.ApplyLogSettings(updated)
	return updated, nil
}

// ApplyLogSettings pushes settings into the running file sink.
func (f *Facade) ApplyLogSettings(settings domain.LogSettings) {
	if f.fileFilter != nil {
		if level, err := applog.LevelFromString(settings.LogLevel); err == nil {
			f.fileFilter.SetLevel(level)
		}
	}
	if f.logSink == nil {
		return
	}
	f.logSink.SetMaxSize(settings.MaxLogSize)
	applog.ManageLogFiles(f.logSink.Dir(), f.logSink.Path(), settings, f.logger)
}

// PruneLogs re-applies the stored retention limits to the log directory.
func (f *Facade) PruneLogs(ctx context.Context) {
	if f.logSink == nil {
		return
	}
	settings, err := f.settings.GetLogSettings(ctx)
	if err != nil {
		f.logger.Warn().Err(err).Msg("read log settings failed")
		return
	}
	applog.ManageLogFiles(f.logSink.Dir(), f.logSink.Path(), settings, f.logger)
}

// ========== 主题 ==========

func (f *Facade) Theme(ctx context.Context) (string, error) {
	return f.settings.GetTheme(ctx)
}

func (f *Facade) SetTheme(ctx context.Context, theme string) error {
	return f.settings.SetTheme(ctx, theme)
}
