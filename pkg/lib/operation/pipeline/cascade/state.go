package cascade

import (
	"github.com/keboola/pipeline-trigger/internal/pkg/model"
)

type Phase string

const (
	PhaseInit        Phase = "init"
	PhaseInitialWait Phase = "initial_wait"
	PhasePolling     Phase = "polling"
	PhaseFound       Phase = "found"
	PhaseRunning     Phase = "running"
	PhaseExhausted   Phase = "exhausted"
	PhaseDone        Phase = "done"
	PhaseDoneEmpty   Phase = "done_empty"
)

// State of one cascade pass, it is discarded at the end.
type State struct {
	PipelineID int
	Attempt    int
	ManualJobs model.Jobs
	Phase      Phase
}

type Result struct {
	// Phase is PhaseDone or PhaseDoneEmpty, on error it is the phase in which the error occurred.
	Phase    Phase
	Attempts int
	Played   model.Jobs
}

func (s *State) result(played model.Jobs) Result {
	return Result{Phase: s.Phase, Attempts: s.Attempt, Played: played}
}
