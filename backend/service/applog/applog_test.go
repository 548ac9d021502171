package applog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ispeaker/backend/domain"

	"github.com/rs/zerolog"
)

func TestLogFileName(t *testing.T) {
	t.Parallel()

	got := LogFileName(time.Date(2025, 3, 9, 7, 5, 1, 0, time.UTC))
	if got != "ispeakerreact-log_2025-03-09_07-05-01.log" {
		t.Fatalf("unexpected file name %q", got)
	}
}

func TestLevelFromString(t *testing.T) {
	t.Parallel()

	cases := map[string]zerolog.Level{
		"info":    zerolog.InfoLevel,
		"WARN":    zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		" debug ": zerolog.DebugLevel,
	}
	for in, want := range cases {
		got, err := LevelFromString(in)
		if err != nil {
			t.Fatalf("LevelFromString(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("LevelFromString(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := LevelFromString("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestTimeLayout(t *testing.T) {
	t.Parallel()

	if got := TimeLayout("{h}:{i}:{s} {text}"); got != "15:04:05" {
		t.Fatalf("unexpected layout %q", got)
	}
	if got := TimeLayout("[{y}-{m}-{d} {h}:{i}:{s}.{ms}] {text}"); got != "[2006-01-02 15:04:05.000]" {
		t.Fatalf("unexpected layout %q", got)
	}
	if got := TimeLayout("{text}"); got != time.RFC3339 {
		t.Fatalf("expected RFC3339 fallback, got %q", got)
	}
}

func TestNewLogger_WritesAppTag(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(&buf, zerolog.InfoLevel)
	logger.Debug().Msg("hidden")
	logger.Info().Str("path", "/x").Msg("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line should be filtered: %q", out)
	}
	if !strings.Contains(out, "visible") || !strings.Contains(out, "app=ispeaker") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestFileSink_RelocateSwitchesDirectory(t *testing.T) {
	t.Parallel()

	first := t.TempDir()
	sink, err := OpenFileSink(first, 0)
	if err != nil {
		t.Fatalf("OpenFileSink: %v", err)
	}
	defer sink.Close()

	if _, err := sink.Write([]byte("before\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	oldPath := sink.Path()

	second := filepath.Join(t.TempDir(), "data", "logs")
	if err := sink.Relocate(second); err != nil {
		t.Fatalf("Relocate: %v", err)
	}
	if sink.Dir() != second {
		t.Fatalf("expected dir %q, got %q", second, sink.Dir())
	}
	if _, err := sink.Write([]byte("after\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	oldData, err := os.ReadFile(oldPath)
	if err != nil {
		t.Fatalf("read old: %v", err)
	}
	if string(oldData) != "before\n" {
		t.Fatalf("old file content %q", oldData)
	}
	newData, err := os.ReadFile(sink.Path())
	if err != nil {
		t.Fatalf("read new: %v", err)
	}
	if string(newData) != "after\n" {
		t.Fatalf("new file content %q", newData)
	}
}

func TestFileSink_RotatesAtMaxSize(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sink, err := OpenFileSink(dir, 10)
	if err != nil {
		t.Fatalf("OpenFileSink: %v", err)
	}
	defer sink.Close()

	if _, err := sink.Write([]byte("12345678")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := sink.Write([]byte("abcdef")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	oldPath := strings.TrimSuffix(sink.Path(), ".log") + ".old.log"
	oldData, err := os.ReadFile(oldPath)
	if err != nil {
		t.Fatalf("read rotated file: %v", err)
	}
	if string(oldData) != "12345678" {
		t.Fatalf("rotated content %q", oldData)
	}
	cur, err := os.ReadFile(sink.Path())
	if err != nil {
		t.Fatalf("read current file: %v", err)
	}
	if string(cur) != "abcdef" {
		t.Fatalf("current content %q", cur)
	}
}

func TestFileSink_Since(t *testing.T) {
	t.Parallel()

	sink, err := OpenFileSink(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("OpenFileSink: %v", err)
	}
	defer sink.Close()

	if _, err := sink.Write([]byte("hello\nworld\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	snap := sink.Since(6, 0)
	if snap.Text != "world\n" || snap.From != 6 || snap.To != 12 || snap.End != 12 || snap.Lost {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	snap = sink.Since(100, 0)
	if !snap.Lost || snap.From != 0 || snap.Text != "hello\nworld\n" {
		t.Fatalf("expected lost snapshot restarting at 0, got %+v", snap)
	}

	snap = sink.Since(12, snap.Epoch)
	if snap.Lost || snap.Text != "" || snap.From != 12 || snap.To != 12 {
		t.Fatalf("expected empty tail, got %+v", snap)
	}
}

func TestFileSink_Since_NewEpochAfterRotation(t *testing.T) {
	t.Parallel()

	sink, err := OpenFileSink(t.TempDir(), 8)
	if err != nil {
		t.Fatalf("OpenFileSink: %v", err)
	}
	defer sink.Close()

	if _, err := sink.Write([]byte("abcdef")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	first := sink.Since(0, 0)
	if first.Text != "abcdef" {
		t.Fatalf("unexpected first chunk %+v", first)
	}

	// 超过上限后轮转到新文件，旧偏移量不再有效
	if _, err := sink.Write([]byte("0123456")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	next := sink.Since(2, first.Epoch)
	if !next.Lost || next.From != 0 || next.Text != "0123456" {
		t.Fatalf("expected restart in the rotated file, got %+v", next)
	}
	if next.Epoch == first.Epoch {
		t.Fatalf("expected a new epoch after rotation, got %d", next.Epoch)
	}
}

func TestFileSink_Since_NilPathEmpty(t *testing.T) {
	t.Parallel()

	var sink FileSink
	chunk := sink.Since(0, 0)
	if chunk.Text != "" || chunk.Lost || chunk.Path != "" {
		t.Fatalf("expected empty chunk, got %+v", chunk)
	}
}

func TestManageLogFiles_KeepsActiveFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	now := time.Now()
	var paths []string
	for i := 0; i < 4; i++ {
		p := filepath.Join(dir, LogFileName(now.Add(time.Duration(-i)*time.Hour)))
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		mod := now.Add(time.Duration(-i) * time.Hour)
		if err := os.Chtimes(p, mod, mod); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
		paths = append(paths, p)
	}

	settings := domain.DefaultLogSettings()
	settings.NumOfLogs = 2
	ManageLogFiles(dir, paths[0], settings, zerolog.Nop())

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 log files to remain, got %d", len(entries))
	}
	if _, err := os.Stat(paths[0]); err != nil {
		t.Fatalf("active log removed: %v", err)
	}
}

func TestTeeLogger_FiltersPerWriter(t *testing.T) {
	t.Parallel()

	var console, file bytes.Buffer
	fileFilter := NewFileFilter(&file, zerolog.WarnLevel, "{h}:{i}:{s} {text}")
	logger := NewTeeLogger(&console, zerolog.DebugLevel, fileFilter)

	logger.Info().Msg("info line")
	logger.Warn().Msg("warn line")

	if !strings.Contains(console.String(), "info line") || !strings.Contains(console.String(), "warn line") {
		t.Fatalf("console missing lines: %q", console.String())
	}
	if strings.Contains(file.String(), "info line") || !strings.Contains(file.String(), "warn line") {
		t.Fatalf("file filter not applied: %q", file.String())
	}

	fileFilter.SetLevel(zerolog.InfoLevel)
	logger.Info().Msg("second info")
	if !strings.Contains(file.String(), "second info") {
		t.Fatalf("level change not applied: %q", file.String())
	}
}
