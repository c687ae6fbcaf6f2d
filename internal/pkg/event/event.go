// Package event contains typed events emitted by the trigger and cascade operations.
//
// The operations only emit events, rendering is up to a subscriber, see the presenter package.
package event

import (
	"time"

	"github.com/keboola/pipeline-trigger/internal/pkg/model"
)

const (
	KindTargetStarted   = "target_started"
	KindPipelineCreated = "pipeline_created"
	KindCascadeWaiting  = "cascade_waiting"
	KindPollAttempt     = "poll_attempt"
	KindManualJobsFound = "manual_jobs_found"
	KindManualJobsNone  = "manual_jobs_none"
	KindJobPlayed       = "job_played"
	KindCascadeDone     = "cascade_done"
	KindTargetFailed    = "target_failed"
	KindRunFinished     = "run_finished"
)

type Event interface {
	Kind() string
}

// TargetStarted is emitted before a pipeline is created for the target.
type TargetStarted struct {
	Target model.Target
	// Index starts from 1.
	Index int
	Total int
}

type PipelineCreated struct {
	Target   model.Target
	Pipeline model.Pipeline
}

type WaitReason string

const (
	WaitReasonInitial WaitReason = "initial"
	WaitReasonRetry   WaitReason = "retry"
	WaitReasonPlay    WaitReason = "play"
)

// CascadeWaiting is emitted before each delay of the cascade.
type CascadeWaiting struct {
	Target     model.Target
	PipelineID int
	Delay      time.Duration
	Reason     WaitReason
}

// PollAttempt is emitted before each listing of the pipeline jobs.
type PollAttempt struct {
	Target      model.Target
	PipelineID  int
	Attempt     int
	MaxAttempts int
}

type ManualJobsFound struct {
	Target     model.Target
	PipelineID int
	Jobs       model.Jobs
}

// ManualJobsNone is emitted when all attempts are exhausted. It is not an error.
type ManualJobsNone struct {
	Target     model.Target
	PipelineID int
	Attempts   int
}

type JobPlayed struct {
	Target     model.Target
	PipelineID int
	Job        model.Job
}

type CascadeDone struct {
	Target     model.Target
	PipelineID int
	Played     int
}

// TargetFailed is emitted when the target processing ends with an error.
type TargetFailed struct {
	Target    model.Target
	ErrorKind string
	Message   string
	Err       error
}

type TargetSummary struct {
	Target   model.Target
	Pipeline *model.Pipeline
	Played   int
	Failed   bool
}

// RunFinished is emitted at the end of the trigger run, also after a failure.
type RunFinished struct {
	Targets []TargetSummary
}

func (TargetStarted) Kind() string   { return KindTargetStarted }
func (PipelineCreated) Kind() string { return KindPipelineCreated }
func (CascadeWaiting) Kind() string  { return KindCascadeWaiting }
func (PollAttempt) Kind() string     { return KindPollAttempt }
func (ManualJobsFound) Kind() string { return KindManualJobsFound }
func (ManualJobsNone) Kind() string  { return KindManualJobsNone }
func (JobPlayed) Kind() string       { return KindJobPlayed }
func (CascadeDone) Kind() string     { return KindCascadeDone }
func (TargetFailed) Kind() string    { return KindTargetFailed }
func (RunFinished) Kind() string     { return KindRunFinished }
