// Package zerologx adapts zerolog to the core.Logger interface, for
// embeddings that already log through zerolog.
package zerologx

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/idlebridge/go-idle-bridge/core"
)

// Logger implements core.Logger on top of a zerolog.Logger.
type Logger struct {
	zl zerolog.Logger
}

var _ core.Logger = (*Logger)(nil)

// New wraps an existing zerolog.Logger.
func New(zl zerolog.Logger) *Logger {
	return &Logger{zl: zl}
}

// NewWriter creates a Logger emitting JSON lines to w at the given level,
// with timestamps.
func NewWriter(w io.Writer, level zerolog.Level) *Logger {
	return New(zerolog.New(w).Level(level).With().Timestamp().Logger())
}

// Debug logs a debug message with optional fields.
func (l *Logger) Debug(msg string, fields ...core.Field) {
	l.emit(l.zl.Debug(), msg, fields)
}

// Info logs an info message with optional fields.
func (l *Logger) Info(msg string, fields ...core.Field) {
	l.emit(l.zl.Info(), msg, fields)
}

// Warn logs a warning message with optional fields.
func (l *Logger) Warn(msg string, fields ...core.Field) {
	l.emit(l.zl.Warn(), msg, fields)
}

// Error logs an error message with optional fields.
func (l *Logger) Error(msg string, fields ...core.Field) {
	l.emit(l.zl.Error(), msg, fields)
}

func (l *Logger) emit(ev *zerolog.Event, msg string, fields []core.Field) {
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			ev = ev.Str(f.Key, v)
		case error:
			ev = ev.AnErr(f.Key, v)
		case int:
			ev = ev.Int(f.Key, v)
		case int64:
			ev = ev.Int64(f.Key, v)
		case bool:
			ev = ev.Bool(f.Key, v)
		default:
			ev = ev.Interface(f.Key, v)
		}
	}
	ev.Msg(msg)
}
