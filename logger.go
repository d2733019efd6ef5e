package resredis

import (
	"context"
	"errors"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with resredis-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithNamespace adds a namespace field to the logger.
func (l *Logger) WithNamespace(namespace string) *Logger {
	return &Logger{
		Logger: l.Logger.With("namespace", namespace),
	}
}

// LogGet logs a get operation. Missing records are logged at debug level.
func (l *Logger) LogGet(ctx context.Context, id string, err error) {
	switch {
	case err == nil:
		l.DebugContext(ctx, "get completed", "id", id)
	case errors.Is(err, ErrNotFound):
		l.DebugContext(ctx, "record not found", "id", id)
	default:
		l.ErrorContext(ctx, "get failed",
			"id", id,
			"error", err,
		)
	}
}

// LogSave logs a save operation. minted reports whether the id came from the counter.
func (l *Logger) LogSave(ctx context.Context, id string, minted bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "save failed",
			"id", id,
			"minted", minted,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "save completed",
			"id", id,
			"minted", minted,
		)
	}
}

// LogUpdate logs an update operation.
func (l *Logger) LogUpdate(ctx context.Context, id string, err error) {
	switch {
	case err == nil:
		l.DebugContext(ctx, "update completed", "id", id)
	case errors.Is(err, ErrNotFound):
		l.DebugContext(ctx, "update of missing record", "id", id)
	default:
		l.ErrorContext(ctx, "update failed",
			"id", id,
			"error", err,
		)
	}
}

// LogDestroy logs a destroy operation. A failed destroy may leave the hash and
// the index out of step, so it is logged as an error with both halves.
func (l *Logger) LogDestroy(ctx context.Context, id string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "destroy failed, record may need reconciliation",
			"id", id,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "destroy completed",
			"id", id,
		)
	}
}

// LogScan logs a full namespace scan.
func (l *Logger) LogScan(ctx context.Context, scanned, matched int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "scan failed",
			"scanned", scanned,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "scan completed",
			"scanned", scanned,
			"matched", matched,
		)
	}
}

// LogDanglingIndex logs an index entry whose hash no longer exists.
func (l *Logger) LogDanglingIndex(ctx context.Context, key string) {
	l.WarnContext(ctx, "index entry without record", "key", key)
}
