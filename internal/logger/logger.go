// Package logger wraps log/slog for the compiler. Until Init is called every
// call is a no-op, so library packages can log unconditionally.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

var defaultLogger *slog.Logger

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

type Config struct {
	Level  Level
	Format string // "text" or "json"
	Output io.Writer
}

func DefaultConfig() Config {
	return Config{Level: LevelWarn, Format: "text", Output: os.Stderr}
}

// ParseLevel accepts debug, info, warn and error, in any case.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

func Init(cfg Config) error {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: toSlogLevel(cfg.Level)}
	var h slog.Handler
	switch cfg.Format {
	case "", "text":
		h = slog.NewTextHandler(out, opts)
	case "json":
		h = slog.NewJSONHandler(out, opts)
	default:
		return fmt.Errorf("unknown log format %q", cfg.Format)
	}
	defaultLogger = slog.New(h)
	return nil
}

// Reset returns the package to its silent state.
func Reset() { defaultLogger = nil }

func Enabled(l Level) bool {
	return defaultLogger != nil && defaultLogger.Enabled(context.Background(), toSlogLevel(l))
}

func toSlogLevel(l Level) slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func Debug(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Debug(msg, args...)
	}
}

func Info(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Info(msg, args...)
	}
}

func Warn(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Warn(msg, args...)
	}
}

func Error(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Error(msg, args...)
	}
}

// Phase logs the start of a compilation phase.
func Phase(phase string, args ...any) {
	Debug("phase start", append([]any{"phase", phase}, args...)...)
}

// PhaseDone logs the end of a compilation phase with its results.
func PhaseDone(phase string, args ...any) {
	Debug("phase done", append([]any{"phase", phase}, args...)...)
}

// CompileError records a failed compilation. line and col are 1-based.
func CompileError(phase, file string, line, col int, msg string) {
	Error("compilation failed", "phase", phase, "file", file, "line", line, "col", col, "msg", msg)
}
