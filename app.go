package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"ispeaker/backend/config"
	"ispeaker/backend/persist"
	"ispeaker/backend/repository/events"
	"ispeaker/backend/repository/memory"
	"ispeaker/backend/service"
	"ispeaker/backend/service/applog"
	"ispeaker/backend/service/savefolder"
	"ispeaker/backend/service/shared"

	"github.com/rs/zerolog"
)

// app 组装好的后端：设置存储、保存目录服务、日志
type app struct {
	cfg    config.Config
	paths  shared.AppPaths
	logger zerolog.Logger

	bus         *events.Bus
	settings    *memory.SettingsRepo
	snapshotter *persist.Snapshotter
	saveFolder  *savefolder.Service
	facade      *service.Facade

	sink *applog.FileSink
}

// newApp loads configuration and settings and wires the services. With fileLog the
// process also logs into <data root>/logs.
func newApp(opts *globalOptions, stderr io.Writer, fileLog bool) (*app, error) {
	userData := opts.userDataDir
	if userData == "" {
		userData = shared.UserDataRoot()
	}
	cfgPath := opts.configPath
	if cfgPath == "" {
		cfgPath = config.ConfigPath(userData)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if opts.userDataDir == "" && cfg.Paths.UserDataDir != "" {
		userData = cfg.Paths.UserDataDir
	}
	documents := opts.documentsDir
	if documents == "" {
		documents = cfg.Paths.DocumentsDir
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}

	consoleLevel, err := applog.LevelFromString(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	a := &app{
		cfg:    cfg,
		paths:  shared.ResolveAppPaths(userData, documents),
		logger: applog.NewLogger(stderr, consoleLevel),
		bus:    events.NewBus(),
	}

	// 设置存储（严格版本校验，拒绝覆盖无法识别的文件）
	store := memory.NewStore(a.bus)
	a.snapshotter = persist.NewSnapshotter(a.paths.SettingsPath(persist.SettingsFileName), store, a.logger)
	state, err := a.snapshotter.Load()
	if err != nil {
		return nil, fmt.Errorf("load settings %s: %w", a.snapshotter.Path(), err)
	}
	store.LoadState(state)
	a.settings = memory.NewSettingsRepo(store)

	ctx := context.Background()
	logSettings, err := a.settings.GetLogSettings(ctx)
	if err != nil {
		return nil, err
	}

	var fileFilter *applog.LevelFilter
	if fileLog {
		custom, _ := a.settings.GetCustomSaveFolder(ctx)
		logDir := filepath.Join(savefolder.RootFor(custom, a.paths.DefaultSaveFolder()), savefolder.LogsDirName)
		sink, err := applog.OpenFileSink(logDir, logSettings.MaxLogSize)
		if err != nil {
			a.logger.Warn().Err(err).Str("dir", logDir).Msg("file logging disabled")
		} else {
			fileLevel, err := applog.LevelFromString(logSettings.LogLevel)
			if err != nil {
				fileLevel = zerolog.InfoLevel
			}
			a.sink = sink
			fileFilter = applog.NewFileFilter(sink, fileLevel, logSettings.LogFormat)
			a.logger = applog.NewTeeLogger(stderr, consoleLevel, fileFilter)
		}
	}

	sfOpts := savefolder.Options{
		Settings:     a.settings,
		DefaultRoot:  a.paths.DefaultSaveFolder(),
		Guard:        savefolder.NewValidator(a.paths, a.logger.With().Str("component", "validator").Logger()),
		Mover:        savefolder.NewMover(savefolder.FileOps{}, a.logger.With().Str("component", "mover").Logger()),
		OnProgress:   service.PublishProgress(a.bus),
		OnVenvStatus: service.PublishVenvStatus(a.bus),
		Logger:       a.logger.With().Str("component", "savefolder").Logger(),
	}
	if a.sink != nil {
		sfOpts.Logs = a.sink
	}
	a.saveFolder = savefolder.NewService(sfOpts)

	a.facade = service.NewFacade(a.saveFolder, a.settings, a.bus, a.logger)
	if a.sink != nil {
		a.facade.SetAppLog(a.sink, fileFilter)
		a.facade.ApplyLogSettings(logSettings)
		a.logger.Info().Str("path", a.sink.Path()).Msg("app log file")
	}

	a.snapshotter.SubscribeEvents(a.bus)

	a.logger.Debug().
		Str("user_data", a.paths.UserData).
		Str("documents", a.paths.Documents).
		Str("settings", a.snapshotter.Path()).
		Str("config", cfgPath).
		Msg("paths resolved")
	return a, nil
}

// close flushes settings and closes the log file.
func (a *app) close() {
	a.snapshotter.Close()
	if err := a.snapshotter.Flush(); err != nil {
		a.logger.Error().Err(err).Msg("save settings failed")
	}
	if a.sink != nil {
		_ = a.sink.Close()
	}
}
