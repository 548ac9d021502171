package applog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	LogFilePrefix = "ispeakerreact-log_"
	LogFileExt    = ".log"

	// DefaultMaxLogSize matches the front end's default logSettings.maxLogSize.
	DefaultMaxLogSize int64 = 5 * 1024 * 1024
)

// LogFileName returns ispeakerreact-log_YYYY-MM-DD_HH-MM-SS.log for t.
func LogFileName(t time.Time) string {
	return LogFilePrefix + t.Format("2006-01-02_15-04-05") + LogFileExt
}

// FileSink is an io.Writer over the current log file. It can be moved to another
// directory while the process keeps logging through it.
type FileSink struct {
	mu        sync.Mutex
	file      *os.File
	path      string
	size      int64
	epoch     int64
	maxSize   int64
	startedAt time.Time
	now       func() time.Time
}

// OpenFileSink creates dir and opens a freshly named log file in it.
func OpenFileSink(dir string, maxSize int64) (*FileSink, error) {
	s := &FileSink{maxSize: maxSize, now: time.Now}
	if err := s.Relocate(dir); err != nil {
		return nil, err
	}
	return s, nil
}

// Relocate opens a new log file in dir and switches to it. The previous file is closed
// and left where it was.
func (s *FileSink) Relocate(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return errors.New("log dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	path := filepath.Join(dir, LogFileName(now))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return err
	}

	if s.file != nil {
		_ = s.file.Close()
	}
	s.file = f
	s.path = path
	s.size = info.Size()
	s.epoch++
	s.startedAt = now
	return nil
}

// Write implements io.Writer. When the write would push the file past maxSize the file
// is renamed to <stem>.old.log and a new one is started at the same path.
func (s *FileSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return 0, os.ErrClosed
	}
	if s.maxSize > 0 && s.size > 0 && s.size+int64(len(p)) > s.maxSize {
		if err := s.rotateLocked(); err != nil {
			return 0, err
		}
	}
	n, err := s.file.Write(p)
	s.size += int64(n)
	return n, err
}

func (s *FileSink) rotateLocked() error {
	if err := s.file.Close(); err != nil {
		return err
	}
	oldPath := strings.TrimSuffix(s.path, LogFileExt) + ".old" + LogFileExt
	_ = os.Remove(oldPath)
	if err := os.Rename(s.path, oldPath); err != nil {
		return err
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		s.file = nil
		return err
	}
	s.file = f
	s.size = 0
	s.epoch++
	return nil
}

// SetMaxSize changes the rotation threshold. 0 disables rotation.
func (s *FileSink) SetMaxSize(n int64) {
	s.mu.Lock()
	s.maxSize = n
	s.mu.Unlock()
}

// Path returns the active log file.
func (s *FileSink) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Dir returns the directory of the active log file.
func (s *FileSink) Dir() string {
	return filepath.Dir(s.Path())
}

// StartedAt returns when the active file was opened.
func (s *FileSink) StartedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startedAt
}

func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
