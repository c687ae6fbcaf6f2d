package model

import "fmt"

type JobStatus string

const (
	JobStatusCreated  JobStatus = "created"
	JobStatusPending  JobStatus = "pending"
	JobStatusManual   JobStatus = "manual"
	JobStatusRunning  JobStatus = "running"
	JobStatusSuccess  JobStatus = "success"
	JobStatusFailed   JobStatus = "failed"
	JobStatusCanceled JobStatus = "canceled"
	JobStatusSkipped  JobStatus = "skipped"
)

// Job of a pipeline, unknown statuses from the platform are kept as they are.
type Job struct {
	ID     int       `json:"id"`
	Name   string    `json:"name"`
	Stage  string    `json:"stage"`
	Status JobStatus `json:"status"`
	// Manual is informative only, the status decides.
	Manual bool   `json:"manual"`
	WebURL string `json:"web_url"`
}

type Jobs []Job

// IsManual returns true if the job is waiting for a manual action.
// Only such job can be played.
func (j Job) IsManual() bool {
	return j.Status == JobStatusManual
}

func (j Job) String() string {
	return fmt.Sprintf(`job "%s" (#%d, stage "%s")`, j.Name, j.ID, j.Stage)
}

// Manual returns manual jobs in the original order.
func (v Jobs) Manual() Jobs {
	out := make(Jobs, 0)
	for _, job := range v {
		if job.IsManual() {
			out = append(out, job)
		}
	}
	return out
}

func (v Jobs) IDs() []int {
	out := make([]int, 0, len(v))
	for _, job := range v {
		out = append(out, job.ID)
	}
	return out
}
