package view

import (
	"io"
	"log/slog"
	"time"

	"github.com/fatih/color"
	"github.com/go-logr/logr"
	"github.com/lmittmann/tint"
)

type LogLevel int

// Logger is the CLI's own logger. Logr hands the same sink to the engine, so
// engine records share level filtering and formatting with CLI records.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Logr() logr.Logger
}

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelSilent
)

// silentLevel is higher than any level slog or logr produce
const silentLevel = slog.Level(100)

// toSlogLevel converts our LogLevel to slog.Level
func (l LogLevel) toSlogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return silentLevel
	}
}

func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "debug"
	case LogLevelInfo:
		return "info"
	case LogLevelWarn:
		return "warn"
	case LogLevelError:
		return "error"
	default:
		return "silent"
	}
}

// slogLogger backs both the human and the JSON logger; only the handler
// differs
type slogLogger struct {
	logger *slog.Logger
}

var _ Logger = (*slogLogger)(nil)

func rewriteLogLevel(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey && len(groups) == 0 {
		level, ok := a.Value.Any().(slog.Level)
		if !ok {
			return a
		}

		var levelText string
		switch {
		case level < slog.LevelInfo:
			levelText = "DEBUG"
		case level == slog.LevelInfo:
			levelText = color.GreenString("INFO")
		case level == slog.LevelWarn:
			levelText = color.YellowString("WARN")
		case level == slog.LevelError:
			levelText = color.RedString("ERROR")
		default:
			levelText = level.String()
		}
		a.Value = slog.StringValue(levelText)
	}

	return a
}

func (l *slogLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

func (l *slogLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

func (l *slogLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

func (l *slogLogger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

// Logr adapts the logger for the engine. logr V(n) maps to slog level -n, so
// engine detail logged at V(1) shows up only at LogLevelDebug.
func (l *slogLogger) Logr() logr.Logger {
	return logr.FromSlogHandler(l.logger.Handler())
}

// NewHumanLogger creates a human-readable slog logger
func NewHumanLogger(w io.Writer, level LogLevel) Logger {
	opts := &tint.Options{
		Level:       level.toSlogLevel(),
		TimeFormat:  time.DateTime,
		ReplaceAttr: rewriteLogLevel,
		NoColor:     color.NoColor,
	}
	handler := tint.NewHandler(w, opts)
	return &slogLogger{logger: slog.New(handler)}
}

// NewJSONLogger creates a JSON-structured slog logger
func NewJSONLogger(w io.Writer, level LogLevel) Logger {
	opts := &slog.HandlerOptions{
		Level: level.toSlogLevel(),
	}
	handler := slog.NewJSONHandler(w, opts)
	return &slogLogger{logger: slog.New(handler)}
}

// NewNopLogger creates a no-op logger that discards all output
func NewNopLogger() Logger {
	opts := &slog.HandlerOptions{
		Level: silentLevel,
	}
	handler := slog.NewJSONHandler(io.Discard, opts)
	return &slogLogger{logger: slog.New(handler)}
}
