// Package log provides the Logger interface and its zap based implementations.
package log

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap/zapcore"
)

const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
)

type Logger interface {
	contextLogger
	withAttributes
}

type contextLogger interface {
	// Debug logs message in the debug level.
	Debug(ctx context.Context, message string)
	// Info logs message in the info level.
	Info(ctx context.Context, message string)
	// Warn logs message in the warning level.
	Warn(ctx context.Context, message string)
	// Error logs message in the error level.
	Error(ctx context.Context, message string)
	// Log logs message in the level, unknown level is logged as info.
	Log(ctx context.Context, level string, message string)

	Debugf(ctx context.Context, template string, args ...any)
	Infof(ctx context.Context, template string, args ...any)
	Warnf(ctx context.Context, template string, args ...any)
	Errorf(ctx context.Context, template string, args ...any)

	Sync() error
}

type withAttributes interface {
	With(attrs ...attribute.KeyValue) Logger
	WithComponent(component string) Logger
}
