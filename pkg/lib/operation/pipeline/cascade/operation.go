// Package cascade plays manual jobs of a newly created pipeline.
//
// Jobs are created by the platform asynchronously after the pipeline,
// so the jobs are polled with a fixed delay until a manual job appears or the attempts are exhausted.
package cascade

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel/attribute"

	"github.com/keboola/pipeline-trigger/internal/pkg/ctxattr"
	"github.com/keboola/pipeline-trigger/internal/pkg/event"
	"github.com/keboola/pipeline-trigger/internal/pkg/gitlab"
	"github.com/keboola/pipeline-trigger/internal/pkg/log"
	"github.com/keboola/pipeline-trigger/internal/pkg/model"
	"github.com/keboola/pipeline-trigger/internal/pkg/telemetry"
	"github.com/keboola/pipeline-trigger/internal/pkg/utils/errors"
)

type dependencies interface {
	Logger() log.Logger
	Tracer() telemetry.Tracer
	Clock() clockwork.Clock
	EventEmitter() event.Emitter
	PipelineAPI() gitlab.API
}

type cascade struct {
	config  Config
	target  model.Target
	state   *State
	logger  log.Logger
	clock   clockwork.Clock
	emitter event.Emitter
	api     gitlab.API
}

func Run(ctx context.Context, cfg Config, target model.Target, pipelineID int, d dependencies) (result Result, err error) {
	ctx = ctxattr.ContextWith(ctx, attribute.Int("pipeline.id", pipelineID))
	ctx, span := d.Tracer().Start(ctx, "ptrigger.lib.operation.pipeline.cascade")
	defer span.End(&err)

	c := &cascade{
		config:  cfg,
		target:  target,
		state:   &State{PipelineID: pipelineID, Phase: PhaseInit},
		logger:  d.Logger().WithComponent("cascade").With(attribute.Int("pipeline.id", pipelineID)),
		clock:   d.Clock(),
		emitter: d.EventEmitter(),
		api:     d.PipelineAPI(),
	}

	defer func() {
		span.SetAttributes(attribute.Int("attempts", c.state.Attempt), attribute.String("phase", string(c.state.Phase)))
	}()

	if err = c.waitForJobs(ctx); err != nil {
		return c.state.result(nil), err
	}

	if len(c.state.ManualJobs) == 0 {
		c.setPhase(ctx, PhaseExhausted)
		c.emitter.Emit(ctx, event.ManualJobsNone{Target: target, PipelineID: pipelineID, Attempts: c.state.Attempt})
		c.setPhase(ctx, PhaseDoneEmpty)
		return c.state.result(nil), nil
	}

	played, err := c.playJobs(ctx)
	if err != nil {
		return c.state.result(played), err
	}

	c.setPhase(ctx, PhaseDone)
	c.emitter.Emit(ctx, event.CascadeDone{Target: target, PipelineID: pipelineID, Played: len(played)})
	return c.state.result(played), nil
}

// waitForJobs polls the jobs until a manual job is found or the attempts are exhausted.
// An API error is returned immediately, the attempts are only for the delayed creation of the jobs.
func (c *cascade) waitForJobs(ctx context.Context) error {
	c.setPhase(ctx, PhaseInitialWait)
	if err := c.wait(ctx, c.config.InitialDelay, event.WaitReasonInitial); err != nil {
		return err
	}

	c.setPhase(ctx, PhasePolling)
	retry := c.config.retryBackOff()
	for {
		c.state.Attempt++
		c.emitter.Emit(ctx, event.PollAttempt{
			Target:      c.target,
			PipelineID:  c.state.PipelineID,
			Attempt:     c.state.Attempt,
			MaxAttempts: c.config.MaxAttempts,
		})

		jobs, err := c.api.ListJobs(ctx, c.target.ProjectID, c.state.PipelineID)
		if err != nil {
			return errors.Errorf(`cannot list jobs of pipeline #%d: %w`, c.state.PipelineID, err)
		}

		c.state.ManualJobs = jobs.Manual()
		c.logger.Debugf(ctx, `Attempt %d: found %d jobs, %d manual.`, c.state.Attempt, len(jobs), len(c.state.ManualJobs))
		if len(c.state.ManualJobs) > 0 {
			c.setPhase(ctx, PhaseFound)
			c.emitter.Emit(ctx, event.ManualJobsFound{Target: c.target, PipelineID: c.state.PipelineID, Jobs: c.state.ManualJobs})
			return nil
		}

		delay := retry.NextBackOff()
		if delay == backoff.Stop {
			return nil
		}
		if err := c.wait(ctx, delay, event.WaitReasonRetry); err != nil {
			return err
		}
	}
}

// playJobs plays the manual jobs sequentially, in the order returned by the API.
// The first error stops the remaining plays.
func (c *cascade) playJobs(ctx context.Context) (model.Jobs, error) {
	c.setPhase(ctx, PhaseRunning)
	played := make(model.Jobs, 0, len(c.state.ManualJobs))
	for i, job := range c.state.ManualJobs {
		if i > 0 {
			if err := c.wait(ctx, c.config.PlayDelay, event.WaitReasonPlay); err != nil {
				return played, err
			}
		}

		if _, err := c.api.PlayJob(ctx, c.target.ProjectID, job.ID); err != nil {
			return played, errors.Errorf(`cannot play %s of pipeline #%d: %w`, job.String(), c.state.PipelineID, err)
		}

		played = append(played, job)
		c.emitter.Emit(ctx, event.JobPlayed{Target: c.target, PipelineID: c.state.PipelineID, Job: job})
	}
	return played, nil
}

func (c *cascade) wait(ctx context.Context, delay time.Duration, reason event.WaitReason) error {
	c.emitter.Emit(ctx, event.CascadeWaiting{Target: c.target, PipelineID: c.state.PipelineID, Delay: delay, Reason: reason})
	if delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return errors.Errorf(`cascade of pipeline #%d interrupted: %w`, c.state.PipelineID, ctx.Err())
	case <-c.clock.After(delay):
		return nil
	}
}

func (c *cascade) setPhase(ctx context.Context, phase Phase) {
	c.logger.Debugf(ctx, `Phase "%s" -> "%s".`, c.state.Phase, phase)
	c.state.Phase = phase
}
