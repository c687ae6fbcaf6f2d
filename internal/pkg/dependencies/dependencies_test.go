package dependencies

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keboola/pipeline-trigger/internal/pkg/event"
	"github.com/keboola/pipeline-trigger/internal/pkg/log"
	"github.com/keboola/pipeline-trigger/internal/pkg/telemetry"
)

func TestNewPlatformDeps(t *testing.T) {
	t.Parallel()

	baseDeps := NewBaseDeps(log.NewNopLogger(), telemetry.NewNopTracer(), clockwork.NewRealClock(), event.NewDispatcher())

	_, err := NewPlatformDeps(baseDeps, "", "token")
	require.Error(t, err)
	assert.Equal(t, "platform host is not set", err.Error())

	_, err = NewPlatformDeps(baseDeps, "gitlab.com", "")
	require.Error(t, err)
	assert.Equal(t, "platform token is not set", err.Error())

	d, err := NewPlatformDeps(baseDeps, "gitlab.com", "token")
	require.NoError(t, err)
	assert.Equal(t, "https://gitlab.com/api/v4", d.PlatformHost())
	assert.NotNil(t, d.PipelineAPI())
}

func TestMocked_AutoAdvanceClock(t *testing.T) {
	t.Parallel()

	d := NewMocked()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.AutoAdvanceClock(ctx)

	start := d.MockedClock().Now()
	select {
	case <-d.Clock().After(time.Minute):
	case <-time.After(5 * time.Second):
		assert.Fail(t, "timeout")
	}
	assert.Equal(t, time.Hour, d.MockedClock().Since(start))
	assert.Equal(t, MockedBaseURL, d.PlatformHost())
}
