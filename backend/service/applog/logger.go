package applog

import (
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

func consoleWriter(w io.Writer, timeFormat string) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: timeFormat,
		NoColor:    true,
	}
}

// NewLogger creates a console-formatted logger tagged app=ispeaker.
func NewLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(consoleWriter(w, time.RFC3339)).
		Level(level).
		With().
		Timestamp().
		Str("app", "ispeaker").
		Logger()
}

// LevelFromString parses a level name; "warning" is accepted as "warn".
func LevelFromString(levelStr string) (zerolog.Level, error) {
	s := strings.ToLower(strings.TrimSpace(levelStr))
	if s == "warning" {
		s = "warn"
	}
	return zerolog.ParseLevel(s)
}

var layoutTokens = strings.NewReplacer(
	"{y}", "2006",
	"{m}", "01",
	"{d}", "02",
	"{h}", "15",
	"{i}", "04",
	"{s}", "05",
	"{ms}", "000",
)

// TimeLayout converts the timestamp part of an electron-log format (everything before
// {text}) into a Go time layout. Unknown tokens are kept literally.
func TimeLayout(format string) string {
	prefix := format
	if idx := strings.Index(prefix, "{text}"); idx >= 0 {
		prefix = prefix[:idx]
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return time.RFC3339
	}
	return layoutTokens.Replace(prefix)
}

// LevelFilter drops events below its level. The level can be changed while logging.
type LevelFilter struct {
	w     io.Writer
	level atomic.Int32
}

func NewLevelFilter(w io.Writer, level zerolog.Level) *LevelFilter {
	f := &LevelFilter{w: w}
	f.SetLevel(level)
	return f
}

func (f *LevelFilter) SetLevel(level zerolog.Level) { f.level.Store(int32(level)) }

func (f *LevelFilter) Level() zerolog.Level { return zerolog.Level(f.level.Load()) }

func (f *LevelFilter) Write(p []byte) (int, error) { return f.w.Write(p) }

// WriteLevel implements zerolog.LevelWriter.
func (f *LevelFilter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level < f.Level() {
		return len(p), nil
	}
	return f.w.Write(p)
}

// NewTeeLogger logs to the console and the log file, each filtered by its own level.
func NewTeeLogger(console io.Writer, consoleLevel zerolog.Level, file *LevelFilter) zerolog.Logger {
	console = NewLevelFilter(consoleWriter(console, time.RFC3339), consoleLevel)
	return zerolog.New(zerolog.MultiLevelWriter(console, file)).
		Level(zerolog.TraceLevel).
		With().
		Timestamp().
		Str("app", "ispeaker").
		Logger()
}

// NewFileFilter wraps sink in a console formatter using the electron-log style format.
func NewFileFilter(sink io.Writer, level zerolog.Level, format string) *LevelFilter {
	return NewLevelFilter(consoleWriter(sink, TimeLayout(format)), level)
}
