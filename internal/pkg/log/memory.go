// nolint:forbidigo // allow usage of the "zap" package
package log

import (
	"context"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// MemoryLogger stores logs until the real logger is ready, see CopyLogsTo.
type MemoryLogger struct {
	Logger
	logs *observer.ObservedLogs
}

func NewMemoryLogger() *MemoryLogger {
	core, logs := observer.New(zapcore.DebugLevel)
	return &MemoryLogger{Logger: loggerFromZapCore(core), logs: logs}
}

// CopyLogsTo replays all stored messages to the target logger and clears the memory.
func (l *MemoryLogger) CopyLogsTo(target Logger) {
	for _, entry := range l.logs.TakeAll() {
		logger := target
		if entry.LoggerName != "" {
			logger = logger.WithComponent(entry.LoggerName)
		}
		logger.Log(context.Background(), entry.Level.String(), entry.Message)
	}
}
