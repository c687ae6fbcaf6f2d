package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/keboola/pipeline-trigger/internal/pkg/log"
	"github.com/keboola/pipeline-trigger/internal/pkg/utils/errors"
)

func TestProcessPanic(t *testing.T) {
	t.Parallel()
	logger := log.NewDebugLogger()
	exitCode := ProcessPanic(context.Background(), errors.New("test"), logger, "/foo/bar.log")
	assert.Equal(t, 1, exitCode)

	logStr := logger.AllMessages()
	assert.Contains(t, logStr, "DEBUG  Unexpected panic: test")
	assert.Contains(t, logStr, "DEBUG  Trace:")
	assert.Contains(t, logStr, "To help us diagnose the problem you can send us a crash report.")
	assert.Contains(t, logger.ErrorMessages(), `We have generated a log file at "/foo/bar.log".`)
}
