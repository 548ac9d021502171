package savefolder

import (
	"os"
	"path/filepath"

	"ispeaker/backend/domain"

	"github.com/rs/zerolog"
)

// VenvStatusFunc receives venv pre-clean status updates.
type VenvStatusFunc func(domain.VenvStatusEvent)

// CleanVenv deletes <rootDir>/pronunciation-venv if present. It never fails: the venv is
// recreated on demand, so an error is only reported through status and the log.
func (m *Mover) CleanVenv(rootDir string, status VenvStatusFunc, logger zerolog.Logger) {
	if status == nil {
		status = func(domain.VenvStatusEvent) {}
	}
	venvPath := filepath.Join(rootDir, VenvDirName)
	if _, err := os.Lstat(venvPath); err != nil {
		return
	}

	status(domain.VenvStatusEvent{Status: domain.VenvDeleting, Path: venvPath})
	if err := m.ops.RemoveAll(venvPath); err != nil {
		logger.Warn().Err(err).Str("path", venvPath).Msg("could not delete old pronunciation-venv")
		status(domain.VenvStatusEvent{Status: domain.VenvError, Path: venvPath, Error: err.Error()})
		return
	}
	logger.Info().Str("path", venvPath).Msg("deleted old pronunciation-venv")
	status(domain.VenvStatusEvent{Status: domain.VenvDeleted, Path: venvPath})
}
