package logger

import (
	"io"
	"log/slog"
	"os"
)

type Logger interface {
	Info(msg string, keyvals ...interface{})

	Warn(msg string, keyvals ...interface{})

	Error(msg string, keyvals ...interface{})

	Debug(msg string, keyvals ...interface{})
}

func New(level slog.Level) Logger {
	return NewWithWriter(os.Stderr, level)
}

func NewWithWriter(w io.Writer, level slog.Level) Logger {
	opts := &slog.HandlerOptions{
		Level:     level, // minimum log level
		AddSource: true,  // include file + line number
	}
	handler := slog.NewJSONHandler(w, opts)
	return slog.New(handler)
}

// Discard drops everything. Used by the CLI unless --verbose is set.
func Discard() Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
