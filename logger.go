package exprset

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with exprset-specific context.
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
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithDims adds feature and sample counts to the logger.
func (l *Logger) WithDims(features, samples int) *Logger {
	return &Logger{
		Logger: l.Logger.With("features", features, "samples", samples),
	}
}

// WithAccession adds an accession field to the logger (useful for tagging
// repository operations).
func (l *Logger) WithAccession(accession string) *Logger {
	return &Logger{
		Logger: l.Logger.With("accession", accession),
	}
}

// LogConstruct logs a container construction.
func (l *Logger) LogConstruct(features, samples int, err error) {
	if err != nil {
		l.Error("construct failed",
			"features", features,
			"samples", samples,
			"error", err,
		)
	} else {
		l.Debug("construct completed",
			"features", features,
			"samples", samples,
		)
	}
}

// LogSubset logs a subset operation with the resulting dimensions.
func (l *Logger) LogSubset(features, samples int, err error) {
	if err != nil {
		l.Error("subset failed",
			"error", err,
		)
	} else {
		l.Debug("subset completed",
			"features", features,
			"samples", samples,
		)
	}
}

// LogSave logs a dataset save operation.
func (l *Logger) LogSave(filename string, bytes int64, err error) {
	if err != nil {
		l.Error("save failed",
			"filename", filename,
			"error", err,
		)
	} else {
		l.Info("dataset saved",
			"filename", filename,
			"bytes", bytes,
		)
	}
}

// LogLoad logs a dataset load operation.
func (l *Logger) LogLoad(filename string, features, samples int, err error) {
	if err != nil {
		l.Error("load failed",
			"filename", filename,
			"error", err,
		)
	} else {
		l.Info("dataset loaded",
			"filename", filename,
			"features", features,
			"samples", samples,
		)
	}
}

// LogFetch logs a repository fetch operation.
func (l *Logger) LogFetch(accession string, err error) {
	if err != nil {
		l.Error("fetch failed",
			"accession", accession,
			"error", err,
		)
	} else {
		l.Info("fetch completed",
			"accession", accession,
		)
	}
}
