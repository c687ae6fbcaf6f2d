package dependencies

import (
	"context"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/jonboulle/clockwork"

	"github.com/keboola/pipeline-trigger/internal/pkg/event"
	"github.com/keboola/pipeline-trigger/internal/pkg/gitlab"
	"github.com/keboola/pipeline-trigger/internal/pkg/log"
	"github.com/keboola/pipeline-trigger/internal/pkg/telemetry"
)

const (
	MockedHost    = "gitlab.mocked.transport.http"
	MockedToken   = "my-secret"
	MockedBaseURL = "https://" + MockedHost + "/api/v4"
)

// Mocked dependencies container for tests.
// The API client uses a mocked HTTP transport and the clock is fake.
type Mocked interface {
	Platform
	DebugLogger() *log.DebugLogger
	MockedHTTPTransport() *httpmock.MockTransport
	MockedClock() *clockwork.FakeClock
	EventRecorder() *event.Recorder
	// AutoAdvanceClock moves the fake clock forward whenever some code waits for it, until the context is done.
	AutoAdvanceClock(ctx context.Context)
}

type mocked struct {
	*platform
	debugLogger   *log.DebugLogger
	transport     *httpmock.MockTransport
	clock         *clockwork.FakeClock
	eventRecorder *event.Recorder
}

func NewMocked() Mocked {
	logger := log.NewDebugLogger()
	clock := clockwork.NewFakeClock()
	recorder := event.NewRecorder()
	transport := httpmock.NewMockTransport()

	baseDeps := newBaseDeps(logger, telemetry.NewNopTracer(), clock, event.NewDispatcher(recorder))
	platformDeps, err := newPlatformDeps(baseDeps, MockedHost, MockedToken, gitlab.WithTransport(transport))
	if err != nil {
		panic(err)
	}

	return &mocked{
		platform:      platformDeps,
		debugLogger:   logger,
		transport:     transport,
		clock:         clock,
		eventRecorder: recorder,
	}
}

func (v *mocked) DebugLogger() *log.DebugLogger {
	return v.debugLogger
}

func (v *mocked) MockedHTTPTransport() *httpmock.MockTransport {
	return v.transport
}

func (v *mocked) MockedClock() *clockwork.FakeClock {
	return v.clock
}

func (v *mocked) EventRecorder() *event.Recorder {
	return v.eventRecorder
}

func (v *mocked) AutoAdvanceClock(ctx context.Context) {
	go func() {
		for {
			if err := v.clock.BlockUntilContext(ctx, 1); err != nil {
				return
			}
			v.clock.Advance(time.Hour)
		}
	}()
}
