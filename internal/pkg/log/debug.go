// nolint:forbidigo // allow usage of the "zap" package
package log

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// DebugLogger returns logs as string in tests.
// Each line has format "LEVEL  message".
type DebugLogger struct {
	Logger
	logs *observer.ObservedLogs
}

func NewDebugLogger() *DebugLogger {
	core, logs := observer.New(zapcore.DebugLevel)
	return &DebugLogger{Logger: loggerFromZapCore(core), logs: logs}
}

func NewNopLogger() Logger {
	return loggerFromZapCore(zapcore.NewNopCore())
}

func (l *DebugLogger) Truncate() {
	l.logs.TakeAll()
}

func (l *DebugLogger) AllMessages() string {
	return l.messages(func(zapcore.Level) bool { return true })
}

func (l *DebugLogger) DebugMessages() string {
	return l.messages(func(lvl zapcore.Level) bool { return lvl == DebugLevel })
}

func (l *DebugLogger) InfoMessages() string {
	return l.messages(func(lvl zapcore.Level) bool { return lvl == InfoLevel })
}

func (l *DebugLogger) WarnMessages() string {
	return l.messages(func(lvl zapcore.Level) bool { return lvl == WarnLevel })
}

func (l *DebugLogger) ErrorMessages() string {
	return l.messages(func(lvl zapcore.Level) bool { return lvl == ErrorLevel })
}

func (l *DebugLogger) WarnAndErrorMessages() string {
	return l.messages(func(lvl zapcore.Level) bool { return lvl >= WarnLevel })
}

func (l *DebugLogger) messages(filter func(zapcore.Level) bool) string {
	var out strings.Builder
	for _, entry := range l.logs.All() {
		if filter(entry.Level) {
			out.WriteString(fmt.Sprintf("%s  %s\n", entry.Level.CapitalString(), entry.Message))
		}
	}
	return out.String()
}
