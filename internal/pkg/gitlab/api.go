package gitlab

import (
	"context"

	"github.com/keboola/pipeline-trigger/internal/pkg/model"
)

// API is implemented by the Client, operations depend on the interface.
type API interface {
	CreatePipeline(ctx context.Context, projectID, ref string, vars model.Variables) (model.Pipeline, error)
	ListJobs(ctx context.Context, projectID string, pipelineID int) (model.Jobs, error)
	PlayJob(ctx context.Context, projectID string, jobID int) (model.Job, error)
}

var _ API = (*Client)(nil)
