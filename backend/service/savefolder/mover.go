package savefolder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"ispeaker/backend/domain"
	"ispeaker/backend/service/shared"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
)

// ErrUnsafeMove is returned when source and destination overlap.
var ErrUnsafeMove = errors.New("source and destination overlap")

// ProgressFunc receives every progress event of a move, in emission order.
type ProgressFunc func(domain.ProgressEvent)

// CopyFunc copies one file and returns the number of bytes written.
type CopyFunc func(src, dst string) (int64, error)

// RemoveFunc deletes one path.
type RemoveFunc func(path string) error

// FileOps are the filesystem primitives a move is built from. Nil fields use
// shared.CopyFile, os.Remove and os.RemoveAll.
type FileOps struct {
	Copy CopyFunc
	// Remove deletes a single file or an empty directory.
	Remove RemoveFunc
	// RemoveAll deletes the venv tree.
	RemoveAll RemoveFunc
}

// MoveStats summarises a finished move.
type MoveStats struct {
	Files          int
	Bytes          int64
	DeleteFailures int
	DirsRemoved    int
	DirsTotal      int
}

// Mover transfers a tree by copy-then-delete so it works across volumes.
type Mover struct {
	ops    FileOps
	logger zerolog.Logger
}

// NewMover creates a Mover.
func NewMover(ops FileOps, logger zerolog.Logger) *Mover {
	if ops.Copy == nil {
		ops.Copy = shared.CopyFile
	}
	if ops.Remove == nil {
		ops.Remove = os.Remove
	}
	if ops.RemoveAll == nil {
		ops.RemoveAll = os.RemoveAll
	}
	return &Mover{ops: ops, logger: logger}
}

// MoveContents copies every file of src into dest, deletes the originals, then removes
// the emptied directories of src (src included) deepest first.
//
// A copy failure aborts immediately and leaves src intact. Delete failures are logged
// and skipped. The run is not cancellable once started.
func (m *Mover) MoveContents(src, dest string, progress ProgressFunc) (MoveStats, error) {
	var stats MoveStats
	if progress == nil {
		progress = func(domain.ProgressEvent) {}
	}
	if !disjoint(src, dest) {
		return stats, fmt.Errorf("move %s -> %s: %w", src, dest, ErrUnsafeMove)
	}

	files, err := ListAllFiles(src)
	if err != nil {
		return stats, fmt.Errorf("list files: %w", err)
	}
	total := len(files)

	// 1. copy
	for i, f := range files {
		target, err := shared.SafeJoin(dest, f.RelPath)
		if err != nil {
			return stats, err
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return stats, fmt.Errorf("create %s: %w", filepath.Dir(target), err)
		}
		n, err := m.ops.Copy(f.AbsPath, target)
		if err != nil {
			return stats, fmt.Errorf("copy %s: %w", f.RelPath, err)
		}
		stats.Files++
		stats.Bytes += n
		progress(domain.ProgressEvent{Moved: i + 1, Total: total, Phase: domain.PhaseCopy, Name: strPtr(f.RelPath)})
	}

	// 2. delete originals
	for i, f := range files {
		if err := m.ops.Remove(f.AbsPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			stats.DeleteFailures++
			m.logger.Warn().Err(err).Str("file", f.AbsPath).Msg("delete original failed")
		}
		progress(domain.ProgressEvent{Moved: i + 1, Total: total, Phase: domain.PhaseDelete, Name: strPtr(f.RelPath)})
	}

	// 3. remove emptied directories, deepest first
	dirs, err := listDirs(src)
	if err != nil {
		m.logger.Warn().Err(err).Str("dir", src).Msg("collect directories failed")
	}
	stats.DirsTotal = len(dirs)
	for i := len(dirs) - 1; i >= 0; i-- {
		if err := m.ops.Remove(dirs[i]); err != nil {
			continue
		}
		stats.DirsRemoved++
		name, relErr := filepath.Rel(src, dirs[i])
		if relErr != nil || name == "" {
			name = "."
		}
		progress(domain.ProgressEvent{Moved: stats.DirsRemoved, Total: len(dirs), Phase: domain.PhaseDeleteDir, Name: strPtr(name)})
	}

	progress(domain.ProgressEvent{Moved: total, Total: total, Phase: domain.PhaseDeleteDone})

	m.logger.Info().
		Str("from", src).
		Str("to", dest).
		Int("files", stats.Files).
		Str("size", humanize.IBytes(uint64(stats.Bytes))).
		Int("delete_failures", stats.DeleteFailures).
		Int("dirs_removed", stats.DirsRemoved).
		Msg("folder contents moved")
	return stats, nil
}

func strPtr(s string) *string { return &s }
