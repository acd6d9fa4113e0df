// Package logger provides structured logging utilities.
//
// This package wraps a zap sugared logger behind simple printf-style
// functions so callers never have to carry a logger around.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var base = zap.NewNop().Sugar()

// Initialize sets up the global logger.
func Initialize(level string, development bool) error {
	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}

	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.Set(level); err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	base = l.Sugar()
	return nil
}

// Use replaces the global logger, mainly for tests that want to observe output.
func Use(l *zap.Logger) {
	base = l.WithOptions(zap.AddCallerSkip(1)).Sugar()
}

// Debug logs debug messages.
func Debug(message string, args ...any) {
	base.Debugf(message, args...)
}

// Info logs informational messages.
func Info(message string, args ...any) {
	base.Infof(message, args...)
}

// Warn logs warnings.
func Warn(message string, args ...any) {
	base.Warnf(message, args...)
}

// Error logs error messages.
func Error(message string, args ...any) {
	base.Errorf(message, args...)
}

// Fatal logs fatal messages and terminates the program.
func Fatal(message string, args ...any) {
	base.Fatalf(message, args...)
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = base.Sync() // stderr/stdout sync errors are not actionable
}
