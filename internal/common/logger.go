package common

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"
)

// Fields are extra attributes attached to a log record.
type Fields map[string]any

var levels = map[string]slog.Level{
	"":        slog.LevelInfo,
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// ParseLevel converts a configured level name into a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	lvl, ok := levels[strings.ToLower(strings.TrimSpace(level))]
	if !ok {
		return slog.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalidConfig, level)
	}
	return lvl, nil
}

// NewLogger builds a logger writing to w as text ("console") or JSON.
func NewLogger(w io.Writer, level slog.Level, format string) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(format) {
	case "console", "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("%w: log format %q", ErrInvalidConfig, format)
}

// SetupLogger installs the default logger from configured names.
func SetupLogger(w io.Writer, level, format string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	logger, err := NewLogger(w, lvl, format)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}

// logFields emits msg with err (if any) first and fields in key order.
func logFields(level slog.Level, err error, msg string, fields Fields) {
	ctx := context.Background()
	logger := slog.Default()
	if !logger.Enabled(ctx, level) {
		return
	}
	attrs := make([]slog.Attr, 0, len(fields)+1)
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		attrs = append(attrs, slog.Any(k, fields[k]))
	}
	logger.LogAttrs(ctx, level, msg, attrs...)
}

// LogError logs a failure the user will see.
func LogError(err error, msg string, fields Fields) { logFields(slog.LevelError, err, msg, fields) }

// LogWarn logs a failure that was recovered from.
func LogWarn(err error, msg string, fields Fields) { logFields(slog.LevelWarn, err, msg, fields) }

// LogDebug logs a state change.
func LogDebug(msg string, fields Fields) { logFields(slog.LevelDebug, nil, msg, fields) }
