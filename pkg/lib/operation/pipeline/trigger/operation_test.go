package trigger

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keboola/pipeline-trigger/internal/pkg/config"
	deps "github.com/keboola/pipeline-trigger/internal/pkg/dependencies"
	"github.com/keboola/pipeline-trigger/internal/pkg/event"
	"github.com/keboola/pipeline-trigger/internal/pkg/gitlab"
	"github.com/keboola/pipeline-trigger/internal/pkg/model"
	"github.com/keboola/pipeline-trigger/internal/pkg/utils/errors"
	"github.com/keboola/pipeline-trigger/pkg/lib/operation/pipeline/cascade"
)

func testDeps(t *testing.T) deps.Mocked {
	t.Helper()
	d := deps.NewMocked()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	d.AutoAdvanceClock(ctx)
	return d
}

func pipelineURL(projectID string) string {
	return deps.MockedBaseURL + "/projects/" + projectID + "/pipeline"
}

// registerCreatePipeline records order of the creation requests and their bodies.
func registerCreatePipeline(transport *httpmock.MockTransport, projectID string, pipelineID int, calls *[]string) {
	transport.RegisterResponder(http.MethodPost, pipelineURL(projectID), func(req *http.Request) (*http.Response, error) {
		var body map[string]any
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			return nil, err
		}
		*calls = append(*calls, projectID+"@"+body["ref"].(string))
		return httpmock.NewJsonResponse(http.StatusCreated, map[string]any{
			"id":      pipelineID,
			"ref":     body["ref"],
			"status":  "created",
			"web_url": "https://gitlab.mocked.transport.http/pipelines/" + projectID,
		})
	})
}

func TestRun_WithoutCascade(t *testing.T) {
	t.Parallel()
	d := testDeps(t)
	transport := d.MockedHTTPTransport()

	var calls []string
	registerCreatePipeline(transport, "1", 101, &calls)
	registerCreatePipeline(transport, "2", 102, &calls)
	registerCreatePipeline(transport, "3", 103, &calls)

	opts := Options{
		Targets: model.Targets{
			{ProjectID: "2", Ref: "main"},
			{ProjectID: "1", Ref: "develop"},
			{ProjectID: "3", Ref: "v1.0.0"},
		},
		Variables: model.Variables{{Key: "ENV", Value: "prod"}},
	}
	report, err := Run(context.Background(), opts, d)
	require.NoError(t, err)

	// Exactly N creations in the input order, no list, no play
	assert.Equal(t, []string{"2@main", "1@develop", "3@v1.0.0"}, calls)
	assert.Equal(t, 3, transport.GetTotalCallCount())
	require.Len(t, report.Targets, 3)
	for _, item := range report.Targets {
		assert.NotNil(t, item.Pipeline)
		assert.Nil(t, item.Cascade)
		assert.NoError(t, item.Err)
	}
	assert.Equal(t, 102, report.Targets[0].Pipeline.ID)

	assert.Equal(t, []string{
		event.KindTargetStarted,
		event.KindPipelineCreated,
		event.KindTargetStarted,
		event.KindPipelineCreated,
		event.KindTargetStarted,
		event.KindPipelineCreated,
		event.KindRunFinished,
	}, d.EventRecorder().Kinds())
}

func TestRun_WithCascade(t *testing.T) {
	t.Parallel()
	d := testDeps(t)
	transport := d.MockedHTTPTransport()

	var calls []string
	registerCreatePipeline(transport, "1", 101, &calls)
	transport.RegisterResponder(http.MethodGet, deps.MockedBaseURL+"/projects/1/pipelines/101/jobs", httpmock.NewJsonResponderOrPanic(http.StatusOK, []map[string]any{
		{"id": 11, "name": "deploy", "stage": "deploy", "status": "manual"},
	}))
	transport.RegisterResponder(http.MethodPost, deps.MockedBaseURL+"/projects/1/jobs/11/play", httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]any{"id": 11}))

	opts := Options{
		Targets:       model.Targets{{ProjectID: "1", Ref: "main"}},
		Cascade:       true,
		CascadeConfig: cascade.Config{InitialDelay: time.Second, RetryDelay: time.Second, MaxAttempts: 2, PlayDelay: time.Second},
	}
	report, err := Run(context.Background(), opts, d)
	require.NoError(t, err)
	require.Len(t, report.Targets, 1)
	require.NotNil(t, report.Targets[0].Cascade)
	assert.Equal(t, cascade.PhaseDone, report.Targets[0].Cascade.Phase)
	assert.Equal(t, []int{11}, report.Targets[0].Cascade.Played.IDs())
	assert.Equal(t, 3, transport.GetTotalCallCount())

	finished := event.Filter[event.RunFinished](d.EventRecorder())
	require.Len(t, finished, 1)
	assert.Equal(t, []event.TargetSummary{{
		Target:   model.Target{ProjectID: "1", Ref: "main"},
		Pipeline: report.Targets[0].Pipeline,
		Played:   1,
	}}, finished[0].Targets)
}

func TestRun_AuthError_AbortsBatch(t *testing.T) {
	t.Parallel()
	d := testDeps(t)
	transport := d.MockedHTTPTransport()

	var calls []string
	transport.RegisterResponder(http.MethodPost, pipelineURL("1"), httpmock.NewStringResponder(http.StatusUnauthorized, `{"message":"401 Unauthorized"}`))
	registerCreatePipeline(transport, "2", 102, &calls)

	opts := Options{
		Targets: model.Targets{{ProjectID: "1", Ref: "main"}, {ProjectID: "2", Ref: "main"}},
		Cascade: true,
	}
	report, err := Run(context.Background(), opts, d)
	require.Error(t, err)

	// Kind is preserved, the cascade is never invoked, the next target is not processed
	var authErr *gitlab.AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, gitlab.KindAuth, event.ErrorKind(err))
	assert.Equal(t, 1, transport.GetTotalCallCount())
	assert.Empty(t, calls)
	require.Len(t, report.Targets, 1)
	assert.Nil(t, report.Targets[0].Cascade)
	assert.Equal(t, err, report.Targets[0].Err)

	assert.Equal(t, []string{
		event.KindTargetStarted,
		event.KindTargetFailed,
		event.KindRunFinished,
	}, d.EventRecorder().Kinds())
	failed := event.Filter[event.TargetFailed](d.EventRecorder())
	assert.Equal(t, gitlab.KindAuth, failed[0].ErrorKind)
}

func TestRun_ContinueOnError(t *testing.T) {
	t.Parallel()
	d := testDeps(t)
	transport := d.MockedHTTPTransport()

	var calls []string
	transport.RegisterResponder(http.MethodPost, pipelineURL("1"), httpmock.NewStringResponder(http.StatusBadRequest, `{"message":{"base":["Reference not found"]}}`))
	registerCreatePipeline(transport, "2", 102, &calls)
	transport.RegisterResponder(http.MethodPost, pipelineURL("3"), httpmock.NewStringResponder(http.StatusNotFound, `{"message":"404 Project Not Found"}`))

	opts := Options{
		Targets:         model.Targets{{ProjectID: "1", Ref: "missing"}, {ProjectID: "2", Ref: "main"}, {ProjectID: "3", Ref: "main"}},
		ContinueOnError: true,
	}
	report, err := Run(context.Background(), opts, d)
	require.Error(t, err)
	assert.Equal(t, []string{"2@main"}, calls)
	assert.Equal(t, 3, transport.GetTotalCallCount())
	require.Len(t, report.Targets, 3)
	assert.Error(t, report.Targets[0].Err)
	assert.NoError(t, report.Targets[1].Err)
	assert.Error(t, report.Targets[2].Err)

	var multiErr errors.MultiError
	require.True(t, errors.As(err, &multiErr))
	assert.Equal(t, 2, multiErr.Len())
	var validationErr *gitlab.ValidationError
	assert.True(t, errors.As(err, &validationErr))
	var notFoundErr *gitlab.NotFoundError
	assert.True(t, errors.As(err, &notFoundErr))
	assert.Contains(t, err.Error(), `target "1@missing" failed`)
	assert.Contains(t, err.Error(), `target "3@main" failed`)
}

func TestRun_NoTargets(t *testing.T) {
	t.Parallel()
	d := testDeps(t)

	_, err := Run(context.Background(), Options{}, d)
	require.Error(t, err)
	var configErr *config.ConfigError
	assert.True(t, errors.As(err, &configErr))
	assert.Equal(t, config.ErrorKindConfig, event.ErrorKind(err))
	assert.Equal(t, 0, d.MockedHTTPTransport().GetTotalCallCount())
	assert.Empty(t, d.EventRecorder().Events())
}

func TestRun_InvalidTarget(t *testing.T) {
	t.Parallel()
	d := testDeps(t)

	_, err := Run(context.Background(), Options{Targets: model.Targets{{ProjectID: "1"}}}, d)
	require.Error(t, err)
	assert.Equal(t, config.ErrorKindConfig, event.ErrorKind(err))
	assert.Equal(t, "target 1: ref is not set", err.Error())
	assert.Equal(t, 0, d.MockedHTTPTransport().GetTotalCallCount())
}
