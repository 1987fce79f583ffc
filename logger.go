package skimgo

import (
	"context"
	"log/slog"
	"os"

	"github.com/hupe1980/skimgo/fingerprint"
)

// Logger wraps slog.Logger with skimgo-specific context.
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
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithKey adds a fingerprint key field to the logger.
func (l *Logger) WithKey(key fingerprint.Key) *Logger {
	return &Logger{
		Logger: l.Logger.With("fingerprint", key.String()),
	}
}

// LogCompile logs a cache-miss compilation.
func (l *Logger) LogCompile(ctx context.Context, key fingerprint.Key, expressions int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "compile failed",
			"fingerprint", key.String(),
			"expressions", expressions,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "compile completed",
			"fingerprint", key.String(),
			"expressions", expressions,
		)
	}
}

// LogEvaluate logs an evaluation request.
func (l *Logger) LogEvaluate(ctx context.Context, key fingerprint.Key, inputs int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "evaluate failed",
			"fingerprint", key.String(),
			"inputs", inputs,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "evaluate completed",
			"fingerprint", key.String(),
			"inputs", inputs,
		)
	}
}
