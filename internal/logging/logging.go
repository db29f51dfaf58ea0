package logging

import (
	"context"
	"cooked/internal/configuration"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ParseLevel converts a configured level name into a slog level.
// Unknown names select Info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger builds the application logger.
// Console output goes to out as JSON or, with the text format, as colored tint output.
// When a log file is configured, JSON records are also written to a rotating file;
// the returned closer must be closed on shutdown to flush it.
func NewLogger(config configuration.LoggerConfig, out io.Writer) (*slog.Logger, io.Closer) {
	level := ParseLevel(config.Level)

	var console slog.Handler
	if config.Format == configuration.LogFormatText {
		console = tint.NewHandler(out, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		console = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	}

	if config.File == "" {
		return slog.New(console), nopCloser{}
	}

	file := &lumberjack.Logger{
		Filename:   config.File,
		MaxSize:    config.MaxSizeMB,
		MaxBackups: config.MaxBackups,
		Compress:   true,
	}
	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level})

	return slog.New(fanoutHandler{console, fileHandler}), file
}

// Setup installs the configured logger as the slog default.
func Setup(config configuration.LoggerConfig) io.Closer {
	logger, closer := NewLogger(config, os.Stdout)
	slog.SetDefault(logger)
	return closer
}

// fanoutHandler passes every record to all handlers that accept its level.
type fanoutHandler []slog.Handler

func (h fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, handler := range h {
		if handler.Enabled(ctx, r.Level) {
			errs = append(errs, handler.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (h fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanoutHandler, len(h))
	for i, handler := range h {
		out[i] = handler.WithAttrs(attrs)
	}
	return out
}

func (h fanoutHandler) WithGroup(name string) slog.Handler {
	out := make(fanoutHandler, len(h))
	for i, handler := range h {
		out[i] = handler.WithGroup(name)
	}
	return out
}
