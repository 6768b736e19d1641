// Package logger provides structured, context-aware logging backed by
// zerolog. Call sites pass alternating key/value pairs, e.g.
//
//	log.Info(ctx, "quote applied", "seq", seq, "routes", len(routes))
package logger

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Level is the minimum severity that will be emitted.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// LoggerInterface is the logging contract the rest of the engine
// depends on. Infrastructure receives this, never a concrete logger.
type LoggerInterface interface {
	Debug(ctx context.Context, msg string, kv ...any)
	Info(ctx context.Context, msg string, kv ...any)
	Warn(ctx context.Context, msg string, kv ...any)
	Error(ctx context.Context, msg string, kv ...any)
	With(kv ...any) LoggerInterface
}

// Logger implements LoggerInterface on top of zerolog.
type Logger struct {
	zl zerolog.Logger
}

var _ LoggerInterface = (*Logger)(nil)

// New creates a Logger writing to w at the given level, tagged with the
// service name. Pass io.Discard to silence output (TUI mode).
func New(w io.Writer, level Level, service string) *Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	zl := zerolog.New(w).Level(toZerolog(level)).With().
		Timestamp().
		Str("service", service).
		Logger()
	return &Logger{zl: zl}
}

// NewConsole creates a Logger with human-readable console output.
func NewConsole(w io.Writer, level Level, service string) *Logger {
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	zl := zerolog.New(cw).Level(toZerolog(level)).With().
		Timestamp().
		Str("service", service).
		Logger()
	return &Logger{zl: zl}
}

// ParseLevel maps a config string to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l *Logger) Debug(ctx context.Context, msg string, kv ...any) {
	emit(l.zl.Debug(), msg, kv)
}

func (l *Logger) Info(ctx context.Context, msg string, kv ...any) {
	emit(l.zl.Info(), msg, kv)
}

func (l *Logger) Warn(ctx context.Context, msg string, kv ...any) {
	emit(l.zl.Warn(), msg, kv)
}

func (l *Logger) Error(ctx context.Context, msg string, kv ...any) {
	emit(l.zl.Error(), msg, kv)
}

// With returns a child logger with the key/value pairs attached to
// every subsequent entry.
func (l *Logger) With(kv ...any) LoggerInterface {
	zc := l.zl.With()
	for i := 0; i+1 < len(kv); i += 2 {
		zc = zc.Interface(keyAt(kv, i), kv[i+1])
	}
	child := zc.Logger()
	return &Logger{zl: child}
}

func emit(ev *zerolog.Event, msg string, kv []any) {
	for i := 0; i+1 < len(kv); i += 2 {
		ev = ev.Interface(keyAt(kv, i), kv[i+1])
	}
	if len(kv)%2 != 0 {
		ev = ev.Interface("arg", kv[len(kv)-1])
	}
	ev.Msg(msg)
}

func keyAt(kv []any, i int) string {
	if s, ok := kv[i].(string); ok {
		return s
	}
	return fmt.Sprint(kv[i])
}

func toZerolog(level Level) zerolog.Level {
	switch level {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
