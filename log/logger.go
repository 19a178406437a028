// Package log provides levelled, subsystem-tagged logging for the
// recompiler toolchain, built on log/slog.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// LevelTrace extends slog's levels below Debug.
const LevelTrace slog.Level = slog.LevelDebug - 4

var (
	mu      sync.Mutex
	level   = &slog.LevelVar{}
	handler slog.Handler
	root    *slog.Logger
	logFile *os.File
)

func init() {
	level.Set(slog.LevelInfo)
	configure(os.Stderr)
}

func configure(w io.Writer) {
	handler = slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lv, ok := a.Value.Any().(slog.Level); ok && lv == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	})
	root = slog.New(handler)
}

// SetLevel sets the global level by name: trace, debug, info, warn, error.
// Unknown names leave the level unchanged and return false.
func SetLevel(name string) bool {
	switch strings.ToLower(name) {
	case "trace":
		level.Set(LevelTrace)
	case "debug":
		level.Set(slog.LevelDebug)
	case "info":
		level.Set(slog.LevelInfo)
	case "warn", "warning":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	default:
		return false
	}
	return true
}

// SetOutputFile redirects logging to the given file path in addition to
// stderr. An empty path restores stderr-only logging.
func SetOutputFile(path string) error {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	if path == "" {
		configure(os.Stderr)
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	logFile = f
	configure(io.MultiWriter(os.Stderr, f))
	return nil
}

// Logger is a subsystem-tagged logger.
type Logger struct {
	subsystem string
}

// New returns a logger tagged with the given subsystem name.
func New(subsystem string) *Logger {
	return &Logger{subsystem: subsystem}
}

func (l *Logger) log(lv slog.Level, format string, args ...any) {
	mu.Lock()
	lg := root
	mu.Unlock()
	lg.Log(context.Background(), lv, fmt.Sprintf(format, args...), "subsystem", l.subsystem)
}

// Trace logs at trace level.
func (l *Logger) Trace(format string, args ...any) { l.log(LevelTrace, format, args...) }

// Debug logs at debug level.
func (l *Logger) Debug(format string, args ...any) { l.log(slog.LevelDebug, format, args...) }

// Info logs at info level.
func (l *Logger) Info(format string, args ...any) { l.log(slog.LevelInfo, format, args...) }

// Warn logs at warn level.
func (l *Logger) Warn(format string, args ...any) { l.log(slog.LevelWarn, format, args...) }

// Error logs at error level.
func (l *Logger) Error(format string, args ...any) { l.log(slog.LevelError, format, args...) }
