// Package log provides the structured logging interface used across the
// machinability toolkit.
//
// Loggers are obtained from a LoggerProvider. The default provider writes
// zerolog JSON to stderr; the CLI swaps in a console writer through
// SetupLogger.
//
// Example usage:
//
//	logger := log.GetLoggerWithName("training").With(
//	    log.ModelNameKey, "Random Forest",
//	    log.EstimatorIDKey, runID,
//	)
//	logger.Info("Training started",
//	    log.SamplesKey, 120,
//	    log.FeaturesKey, 5,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface with alternating key/value
// fields.
//
// Error treats a leading error value specially: it is attached under the
// "error" key and, at debug level, its stack trace is included.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits records at the given level.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level. Values are compatible with slog.Level.
type Level int

// Standard logging levels.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoggerProvider creates and configures loggers.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger tagged with a component name.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum log level for loggers created afterwards.
	SetLevel(level Level)
}
