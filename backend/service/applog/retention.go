package applog

import (
	"time"

	"ispeaker/backend/domain"
	"ispeaker/backend/service/shared"

	"github.com/rs/zerolog"
)

// ManageLogFiles applies numOfLogs and keepForDays to dir. The active file is kept.
func ManageLogFiles(dir, active string, settings domain.LogSettings, logger zerolog.Logger) {
	removed, err := shared.PruneLogFiles(dir, shared.LogPruneOptions{
		Prefix: LogFilePrefix,
		Ext:    LogFileExt,
		Keep:   settings.NumOfLogs,
		MaxAge: time.Duration(settings.KeepForDays) * 24 * time.Hour,
		Skip:   active,
	})
	if err != nil {
		logger.Warn().Err(err).Str("dir", dir).Msg("log retention failed")
		return
	}
	for _, p := range removed {
		logger.Debug().Str("file", p).Msg("removed old log file")
	}
}
