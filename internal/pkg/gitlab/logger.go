package gitlab

import (
	"context"
	"fmt"
	"strings"

	"github.com/keboola/pipeline-trigger/internal/pkg/log"
)

// restyLogger forwards resty messages to the debug log, secrets are hidden.
type restyLogger struct {
	logger log.Logger
}

func (l *restyLogger) Debugf(format string, v ...any) {
	l.log("HTTP", format, v...)
}

func (l *restyLogger) Warnf(format string, v ...any) {
	l.log("HTTP-WARN", format, v...)
}

func (l *restyLogger) Errorf(format string, v ...any) {
	l.log("HTTP-ERROR", format, v...)
}

func (l *restyLogger) log(prefix string, format string, v ...any) {
	msg := strings.TrimRight(fmt.Sprintf(format, v...), "\n")
	l.logger.Debug(context.Background(), prefix+"\t"+log.HideSecrets(msg))
}
