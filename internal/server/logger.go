package server

import (
	"io"
	"os"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// Logger interface for structured logging
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
}

// Field represents a structured log field
type Field struct {
	Key   string
	Value interface{}
}

// ZeroLogger writes JSON lines through zerolog.
type ZeroLogger struct {
	zl zerolog.Logger
}

// NewLogger creates a logger writing to w at the given level.
func NewLogger(w io.Writer, level zerolog.Level) *ZeroLogger {
	return &ZeroLogger{
		zl: zerolog.New(w).Level(level).With().Timestamp().Logger(),
	}
}

// NewDefaultLogger logs info and above to stdout.
func NewDefaultLogger() *ZeroLogger {
	return NewLogger(os.Stdout, zerolog.InfoLevel)
}

func (l *ZeroLogger) Debug(msg string, fields ...Field) {
	l.log(l.zl.Debug(), msg, fields)
}

func (l *ZeroLogger) Info(msg string, fields ...Field) {
	l.log(l.zl.Info(), msg, fields)
}

func (l *ZeroLogger) Error(msg string, fields ...Field) {
	l.log(l.zl.Error(), msg, fields)
}

func (l *ZeroLogger) Warn(msg string, fields ...Field) {
	l.log(l.zl.Warn(), msg, fields)
}

func (l *ZeroLogger) log(ev *zerolog.Event, msg string, fields []Field) {
	if ev == nil {
		return
	}
	for _, f := range fields {
		if err, ok := f.Value.(error); ok {
			ev = ev.Str(f.Key, sanitizeValue(err.Error()).(string))
			continue
		}
		ev = ev.Interface(f.Key, sanitizeValue(f.Value))
	}
	ev.Msg(msg)
}

// Raw request text ends up in error messages; keep it short.
func sanitizeValue(v interface{}) interface{} {
	if s, ok := v.(string); ok {
		if len(s) > 100 {
			cut := 100
			for cut > 0 && !utf8.RuneStart(s[cut]) {
				cut--
			}
			return s[:cut] + "...[truncated]"
		}
	}
	return v
}

// NullLogger discards all logs (for testing)
type NullLogger struct{}

func (n *NullLogger) Debug(msg string, fields ...Field) {}
func (n *NullLogger) Info(msg string, fields ...Field)  {}
func (n *NullLogger) Error(msg string, fields ...Field) {}
func (n *NullLogger) Warn(msg string, fields ...Field)  {}
