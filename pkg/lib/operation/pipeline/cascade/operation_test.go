package cascade

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	deps "github.com/keboola/pipeline-trigger/internal/pkg/dependencies"
	"github.com/keboola/pipeline-trigger/internal/pkg/event"
	"github.com/keboola/pipeline-trigger/internal/pkg/gitlab"
	"github.com/keboola/pipeline-trigger/internal/pkg/model"
	"github.com/keboola/pipeline-trigger/internal/pkg/utils/errors"
)

const (
	jobsURL  = deps.MockedBaseURL + "/projects/123/pipelines/456/jobs"
	playURL1 = deps.MockedBaseURL + "/projects/123/jobs/1/play"
	playURL2 = deps.MockedBaseURL + "/projects/123/jobs/2/play"
	playURL3 = deps.MockedBaseURL + "/projects/123/jobs/3/play"
)

var testTarget = model.Target{ProjectID: "123", Ref: "main"}

func testDeps(t *testing.T) deps.Mocked {
	t.Helper()
	d := deps.NewMocked()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	d.AutoAdvanceClock(ctx)
	return d
}

func jobsResponder(jobs ...map[string]any) httpmock.Responder {
	if jobs == nil {
		jobs = []map[string]any{}
	}
	return httpmock.NewJsonResponderOrPanic(http.StatusOK, jobs)
}

func TestRun_NoManualJobs_ExhaustsAttempts(t *testing.T) {
	t.Parallel()
	d := testDeps(t)
	transport := d.MockedHTTPTransport()
	transport.RegisterResponder(http.MethodGet, jobsURL, jobsResponder(
		map[string]any{"id": 1, "name": "build", "stage": "build", "status": "running"},
	))

	result, err := Run(context.Background(), DefaultConfig(), testTarget, 456, d)
	require.NoError(t, err)
	assert.Equal(t, Result{Phase: PhaseDoneEmpty, Attempts: 3}, result)

	// Exactly MaxAttempts polls, no play
	assert.Equal(t, 3, transport.GetTotalCallCount())
	assert.Equal(t, 3, transport.GetCallCountInfo()["GET "+jobsURL])

	recorder := d.EventRecorder()
	assert.Equal(t, []string{
		event.KindCascadeWaiting,
		event.KindPollAttempt,
		event.KindCascadeWaiting,
		event.KindPollAttempt,
		event.KindCascadeWaiting,
		event.KindPollAttempt,
		event.KindManualJobsNone,
	}, recorder.Kinds())
	assert.Equal(t, []event.CascadeWaiting{
		{Target: testTarget, PipelineID: 456, Delay: 5 * time.Second, Reason: event.WaitReasonInitial},
		{Target: testTarget, PipelineID: 456, Delay: 5 * time.Second, Reason: event.WaitReasonRetry},
		{Target: testTarget, PipelineID: 456, Delay: 5 * time.Second, Reason: event.WaitReasonRetry},
	}, event.Filter[event.CascadeWaiting](recorder))
	assert.Equal(t, []event.PollAttempt{
		{Target: testTarget, PipelineID: 456, Attempt: 1, MaxAttempts: 3},
		{Target: testTarget, PipelineID: 456, Attempt: 2, MaxAttempts: 3},
		{Target: testTarget, PipelineID: 456, Attempt: 3, MaxAttempts: 3},
	}, event.Filter[event.PollAttempt](recorder))
	assert.Equal(t, []event.ManualJobsNone{{Target: testTarget, PipelineID: 456, Attempts: 3}}, event.Filter[event.ManualJobsNone](recorder))
}

func TestRun_SingleAttempt(t *testing.T) {
	t.Parallel()
	d := testDeps(t)
	transport := d.MockedHTTPTransport()
	transport.RegisterResponder(http.MethodGet, jobsURL, jobsResponder())

	cfg := Config{InitialDelay: 0, RetryDelay: time.Second, MaxAttempts: 1, PlayDelay: 0}
	result, err := Run(context.Background(), cfg, testTarget, 456, d)
	require.NoError(t, err)
	assert.Equal(t, PhaseDoneEmpty, result.Phase)
	assert.Equal(t, 1, transport.GetTotalCallCount())
}

func TestRun_ManualJobsOnFirstPoll(t *testing.T) {
	t.Parallel()
	d := testDeps(t)
	transport := d.MockedHTTPTransport()
	transport.RegisterResponder(http.MethodGet, jobsURL, jobsResponder(
		map[string]any{"id": 3, "name": "build", "stage": "build", "status": "success"},
		map[string]any{"id": 2, "name": "deploy-staging", "stage": "deploy", "status": "manual"},
		map[string]any{"id": 1, "name": "deploy-prod", "stage": "release", "status": "manual"},
	))

	var played []int
	playResponder := func(id int) httpmock.Responder {
		return func(*http.Request) (*http.Response, error) {
			played = append(played, id)
			return httpmock.NewJsonResponse(http.StatusOK, map[string]any{"id": id, "status": "pending"})
		}
	}
	transport.RegisterResponder(http.MethodPost, playURL1, playResponder(1))
	transport.RegisterResponder(http.MethodPost, playURL2, playResponder(2))
	transport.RegisterResponder(http.MethodPost, playURL3, playResponder(3))

	result, err := Run(context.Background(), DefaultConfig(), testTarget, 456, d)
	require.NoError(t, err)
	assert.Equal(t, PhaseDone, result.Phase)
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, []int{2, 1}, result.Played.IDs())

	// One poll, two plays in the order returned by the API
	assert.Equal(t, 1, transport.GetCallCountInfo()["GET "+jobsURL])
	assert.Equal(t, []int{2, 1}, played)
	assert.Equal(t, 3, transport.GetTotalCallCount())

	recorder := d.EventRecorder()
	assert.Equal(t, []string{
		event.KindCascadeWaiting,
		event.KindPollAttempt,
		event.KindManualJobsFound,
		event.KindJobPlayed,
		event.KindCascadeWaiting,
		event.KindJobPlayed,
		event.KindCascadeDone,
	}, recorder.Kinds())

	// Play delay is used only between plays
	waiting := event.Filter[event.CascadeWaiting](recorder)
	require.Len(t, waiting, 2)
	assert.Equal(t, event.WaitReasonPlay, waiting[1].Reason)
	assert.Equal(t, time.Second, waiting[1].Delay)
	assert.Equal(t, []event.CascadeDone{{Target: testTarget, PipelineID: 456, Played: 2}}, event.Filter[event.CascadeDone](recorder))
}

func TestRun_ManualJobsOnLaterPoll(t *testing.T) {
	t.Parallel()
	d := testDeps(t)
	transport := d.MockedHTTPTransport()

	polls := 0
	transport.RegisterResponder(http.MethodGet, jobsURL, func(req *http.Request) (*http.Response, error) {
		polls++
		if polls < 2 {
			return jobsResponder()(req)
		}
		return jobsResponder(map[string]any{"id": 1, "name": "deploy", "stage": "deploy", "status": "manual"})(req)
	})
	transport.RegisterResponder(http.MethodPost, playURL1, httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]any{"id": 1}))

	result, err := Run(context.Background(), DefaultConfig(), testTarget, 456, d)
	require.NoError(t, err)
	assert.Equal(t, Result{
		Phase:    PhaseDone,
		Attempts: 2,
		Played:   model.Jobs{{ID: 1, Name: "deploy", Stage: "deploy", Status: model.JobStatusManual}},
	}, result)
	assert.Equal(t, 2, polls)
}

func TestRun_ListJobsError_NotRetried(t *testing.T) {
	t.Parallel()
	d := testDeps(t)
	transport := d.MockedHTTPTransport()
	transport.RegisterResponder(http.MethodGet, jobsURL, httpmock.NewStringResponder(http.StatusServiceUnavailable, `{"message":"maintenance"}`))

	result, err := Run(context.Background(), DefaultConfig(), testTarget, 456, d)
	require.Error(t, err)
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, PhasePolling, result.Phase)
	assert.Equal(t, 1, transport.GetTotalCallCount())

	var transientErr *gitlab.TransientError
	assert.True(t, errors.As(err, &transientErr))
	assert.Equal(t, gitlab.KindTransient, event.ErrorKind(err))
	assert.Contains(t, err.Error(), "cannot list jobs of pipeline #456")
}

func TestRun_PlayError_AbortsRemainingPlays(t *testing.T) {
	t.Parallel()
	d := testDeps(t)
	transport := d.MockedHTTPTransport()
	transport.RegisterResponder(http.MethodGet, jobsURL, jobsResponder(
		map[string]any{"id": 1, "name": "a", "stage": "deploy", "status": "manual"},
		map[string]any{"id": 2, "name": "b", "stage": "deploy", "status": "manual"},
		map[string]any{"id": 3, "name": "c", "stage": "deploy", "status": "manual"},
	))
	transport.RegisterResponder(http.MethodPost, playURL1, httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]any{"id": 1}))
	transport.RegisterResponder(http.MethodPost, playURL2, httpmock.NewStringResponder(http.StatusBadRequest, `{"message":"400 Bad request - Unplayable Job"}`))
	transport.RegisterResponder(http.MethodPost, playURL3, httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]any{"id": 3}))

	result, err := Run(context.Background(), DefaultConfig(), testTarget, 456, d)
	require.Error(t, err)
	assert.Equal(t, PhaseRunning, result.Phase)
	assert.Equal(t, []int{1}, result.Played.IDs())
	assert.Equal(t, 0, transport.GetCallCountInfo()["POST "+playURL3])

	var validationErr *gitlab.ValidationError
	assert.True(t, errors.As(err, &validationErr))
	assert.Equal(t, gitlab.KindValidation, event.ErrorKind(err))
	assert.Contains(t, err.Error(), `cannot play job "b" (#2, stage "deploy") of pipeline #456`)
	assert.NotContains(t, d.EventRecorder().Kinds(), event.KindCascadeDone)
}

func TestRun_Cancelled(t *testing.T) {
	t.Parallel()
	d := deps.NewMocked()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := Run(ctx, DefaultConfig(), testTarget, 456, d)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, PhaseInitialWait, result.Phase)
	assert.Equal(t, 0, d.MockedHTTPTransport().GetTotalCallCount())
}

func TestRun_PollsOnlyAfterDelays(t *testing.T) {
	t.Parallel()
	d := deps.NewMocked()
	clock := d.MockedClock()
	transport := d.MockedHTTPTransport()
	transport.RegisterResponder(http.MethodGet, jobsURL, jobsResponder())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	type runResult struct {
		result Result
		err    error
	}
	done := make(chan runResult, 1)
	cfg := Config{InitialDelay: 10 * time.Second, RetryDelay: 5 * time.Second, MaxAttempts: 2, PlayDelay: time.Second}
	go func() {
		result, err := Run(ctx, cfg, testTarget, 456, d)
		done <- runResult{result: result, err: err}
	}()

	// No poll before the full initial delay
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(9 * time.Second)
	assert.Equal(t, 0, transport.GetTotalCallCount())
	clock.Advance(time.Second)

	// First poll done, waiting for the retry
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	assert.Equal(t, 1, transport.GetTotalCallCount())
	clock.Advance(5 * time.Second)

	out := <-done
	require.NoError(t, out.err)
	assert.Equal(t, Result{Phase: PhaseDoneEmpty, Attempts: 2}, out.result)
	assert.Equal(t, 2, transport.GetTotalCallCount())
}
