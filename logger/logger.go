package logger

import (
	"fmt"
	"io"
	"log/slog"

	slogmulti "github.com/samber/slog-multi"
)

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", level)
	}
}

// New builds a logger writing text to w and, if sink is non-nil, JSON to sink.
func New(level string, w io.Writer, sink io.Writer) (*slog.Logger, error) {
	slogLevel, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: slogLevel}

	handlers := []slog.Handler{slog.NewTextHandler(w, opts)}
	if sink != nil {
		handlers = append(handlers, slog.NewJSONHandler(sink, opts))
	}

	return slog.New(slogmulti.Fanout(handlers...)), nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
