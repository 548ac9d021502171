package shared

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// LogPruneOptions controls PruneLogFiles.
type LogPruneOptions struct {
	// Prefix and Ext select the files that belong to us, e.g. "ispeakerreact-log_" and ".log".
	Prefix string
	Ext    string

	// Keep is the maximum number of files left behind. 0 means unlimited.
	Keep int
	// MaxAge removes files whose modification time is older than now-MaxAge. 0 means never.
	MaxAge time.Duration

	// Skip is never removed (the file currently being written).
	Skip string
	Now  time.Time
}

// PruneLogFiles deletes log files in dir by count and age, oldest first.
// Files that vanish concurrently are ignored. It returns the removed paths.
func PruneLogFiles(dir string, opts LogPruneOptions) ([]string, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, nil
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	type logFile struct {
		path    string
		modTime time.Time
	}
	var files []logFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, opts.Prefix) || (opts.Ext != "" && !strings.HasSuffix(name, opts.Ext)) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, logFile{path: filepath.Join(dir, name), modTime: info.ModTime()})
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].modTime.Equal(files[j].modTime) {
			return files[i].path < files[j].path
		}
		return files[i].modTime.Before(files[j].modTime)
	})

	var removed []string
	remove := func(path string) {
		if opts.Skip != "" && filepath.Clean(path) == filepath.Clean(opts.Skip) {
			return
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return
		}
		removed = append(removed, path)
	}

	kept := files
	if opts.Keep > 0 && len(files) > opts.Keep {
		for _, f := range files[:len(files)-opts.Keep] {
			remove(f.path)
		}
		kept = files[len(files)-opts.Keep:]
	}

	if opts.MaxAge > 0 {
		cutoff := now.Add(-opts.MaxAge)
		for _, f := range kept {
			if f.modTime.Before(cutoff) {
				remove(f.path)
			}
		}
	}

	return removed, nil
}
