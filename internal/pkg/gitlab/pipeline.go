package gitlab

import (
	"context"
	"net/http"
	"strconv"

	"github.com/keboola/pipeline-trigger/internal/pkg/model"
)

const jobsPerPage = 100

type createPipelineBody struct {
	Ref       string          `json:"ref"`
	Variables model.Variables `json:"variables,omitempty"`
}

// CreatePipeline triggers a new pipeline for the ref.
// The request is not idempotent, so it is never repeated.
func (c *Client) CreatePipeline(ctx context.Context, projectID, ref string, vars model.Variables) (model.Pipeline, error) {
	var pipeline model.Pipeline
	req := c.newRequest(ctx).
		SetPathParam("projectId", projectID).
		SetBody(createPipelineBody{Ref: ref, Variables: vars}).
		SetResult(&pipeline)

	if _, err := c.send(ctx, req, http.MethodPost, "/projects/{projectId}/pipeline"); err != nil {
		return model.Pipeline{}, err
	}
	return pipeline, nil
}

// ListJobs returns all jobs of the pipeline, in the order returned by the API.
// All pages are loaded, see the X-Next-Page header.
func (c *Client) ListJobs(ctx context.Context, projectID string, pipelineID int) (model.Jobs, error) {
	all := make(model.Jobs, 0)
	page := 1
	for {
		var jobs model.Jobs
		req := c.newRequest(ctx).
			SetPathParam("projectId", projectID).
			SetPathParam("pipelineId", strconv.Itoa(pipelineID)).
			SetQueryParam("per_page", strconv.Itoa(jobsPerPage)).
			SetQueryParam("page", strconv.Itoa(page)).
			SetResult(&jobs)

		res, err := c.send(ctx, req, http.MethodGet, "/projects/{projectId}/pipelines/{pipelineId}/jobs")
		if err != nil {
			return nil, err
		}
		all = append(all, jobs...)

		next, err := strconv.Atoi(res.Header().Get("X-Next-Page"))
		if err != nil || next <= page {
			return all, nil
		}
		page = next
	}
}

// PlayJob starts the manual job.
// The API returns ValidationError if the job is not in the manual state.
func (c *Client) PlayJob(ctx context.Context, projectID string, jobID int) (model.Job, error) {
	var job model.Job
	req := c.newRequest(ctx).
		SetPathParam("projectId", projectID).
		SetPathParam("jobId", strconv.Itoa(jobID)).
		SetResult(&job)

	if _, err := c.send(ctx, req, http.MethodPost, "/projects/{projectId}/jobs/{jobId}/play"); err != nil {
		return model.Job{}, err
	}
	return job, nil
}
