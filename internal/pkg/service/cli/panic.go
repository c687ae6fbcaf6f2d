package cli

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/keboola/pipeline-trigger/internal/pkg/log"
)

const panicMessage = `
---------------------------------------------------
ptrigger crashed, it is a bug, not your fault.

To help us diagnose the problem you can send us a crash report.

We have generated a log file at "%s".
Please open an issue with the log file attached.

Thank you kindly!
---------------------------------------------------
`

// ProcessPanic logs the panic and its trace to the debug log, the user gets a short message. Returns the exit code.
func ProcessPanic(ctx context.Context, err any, logger log.Logger, logFilePath string) int {
	logger.Debugf(ctx, "Unexpected panic: %s", err)
	logger.Debugf(ctx, "Trace:\n%s", string(debug.Stack()))

	if logFilePath == "" {
		logFilePath = "-"
	}
	logger.Error(ctx, strings.TrimSpace(fmt.Sprintf(panicMessage, logFilePath)))
	return 1
}
