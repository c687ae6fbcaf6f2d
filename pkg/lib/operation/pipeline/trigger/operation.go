// Package trigger creates pipelines for the targets and optionally cascades into their manual jobs.
//
// Targets are processed sequentially, in the input order.
package trigger

import (
	"context"

	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel/attribute"

	"github.com/keboola/pipeline-trigger/internal/pkg/config"
	"github.com/keboola/pipeline-trigger/internal/pkg/ctxattr"
	"github.com/keboola/pipeline-trigger/internal/pkg/event"
	"github.com/keboola/pipeline-trigger/internal/pkg/gitlab"
	"github.com/keboola/pipeline-trigger/internal/pkg/log"
	"github.com/keboola/pipeline-trigger/internal/pkg/model"
	"github.com/keboola/pipeline-trigger/internal/pkg/telemetry"
	"github.com/keboola/pipeline-trigger/internal/pkg/utils/errors"
	"github.com/keboola/pipeline-trigger/pkg/lib/operation/pipeline/cascade"
)

type dependencies interface {
	Logger() log.Logger
	Tracer() telemetry.Tracer
	Clock() clockwork.Clock
	EventEmitter() event.Emitter
	PipelineAPI() gitlab.API
}

type Options struct {
	Targets   model.Targets
	Variables model.Variables
	// Cascade enables playing of the manual jobs after the pipeline is created.
	Cascade       bool
	CascadeConfig cascade.Config
	// ContinueOnError records a target failure and continues with the next target.
	// By default, the first failure aborts the remaining targets.
	ContinueOnError bool
}

type TargetReport struct {
	Target   model.Target
	Pipeline *model.Pipeline
	Cascade  *cascade.Result
	Err      error
}

type Report struct {
	Targets []TargetReport
}

func (o Options) validate() error {
	if len(o.Targets) == 0 {
		return config.NewConfigErrorf("no target to trigger, please specify at least one project and ref")
	}
	errs := errors.NewMultiError()
	for i, target := range o.Targets {
		if target.ProjectID == "" {
			errs.Append(errors.Errorf(`target %d: project is not set`, i+1))
		}
		if target.Ref == "" {
			errs.Append(errors.Errorf(`target %d: ref is not set`, i+1))
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return config.NewConfigError(err)
	}
	return nil
}

func Run(ctx context.Context, o Options, d dependencies) (report Report, err error) {
	ctx, span := d.Tracer().Start(ctx, "ptrigger.lib.operation.pipeline.trigger")
	defer span.End(&err)
	span.SetAttributes(attribute.Int("targets", len(o.Targets)), attribute.Bool("cascade", o.Cascade))

	if err = o.validate(); err != nil {
		return report, err
	}

	emitter := d.EventEmitter()
	defer func() {
		emitter.Emit(ctx, event.RunFinished{Targets: report.Summary()})
	}()

	errs := errors.NewMultiError()
	for i, target := range o.Targets {
		emitter.Emit(ctx, event.TargetStarted{Target: target, Index: i + 1, Total: len(o.Targets)})

		item, targetErr := runTarget(ctx, o, target, d)
		report.Targets = append(report.Targets, item)
		if targetErr == nil {
			continue
		}

		emitter.Emit(ctx, event.NewTargetFailed(target, targetErr))
		if !o.ContinueOnError {
			return report, targetErr
		}
		errs.AppendWithPrefixf(targetErr, `target "%s" failed`, target.String())
	}

	return report, errs.ErrorOrNil()
}

func runTarget(ctx context.Context, o Options, target model.Target, d dependencies) (report TargetReport, err error) {
	ctx = ctxattr.ContextWith(ctx, attribute.String("project", target.ProjectID), attribute.String("ref", target.Ref))
	ctx, span := d.Tracer().Start(ctx, "ptrigger.lib.operation.pipeline.trigger.target")
	defer span.End(&err)

	logger := d.Logger().WithComponent("trigger")
	report = TargetReport{Target: target}
	defer func() {
		report.Err = err
	}()

	// The creation is not idempotent, so it is never retried.
	logger.Debugf(ctx, `Creating pipeline for "%s" with %d variables.`, target.String(), len(o.Variables))
	pipeline, err := d.PipelineAPI().CreatePipeline(ctx, target.ProjectID, target.Ref, o.Variables)
	if err != nil {
		return report, err
	}
	report.Pipeline = &pipeline
	span.SetAttributes(attribute.Int("pipeline.id", pipeline.ID))
	ctx = ctxattr.ContextWith(ctx, attribute.Int("pipeline.id", pipeline.ID))
	d.EventEmitter().Emit(ctx, event.PipelineCreated{Target: target, Pipeline: pipeline})

	if !o.Cascade {
		return report, nil
	}

	result, err := cascade.Run(ctx, o.CascadeConfig, target, pipeline.ID, d)
	report.Cascade = &result
	return report, err
}

// Summary of all processed targets, used by the final message.
func (r Report) Summary() []event.TargetSummary {
	out := make([]event.TargetSummary, 0, len(r.Targets))
	for _, item := range r.Targets {
		summary := event.TargetSummary{Target: item.Target, Pipeline: item.Pipeline, Failed: item.Err != nil}
		if item.Cascade != nil {
			summary.Played = len(item.Cascade.Played)
		}
		out = append(out, summary)
	}
	return out
}
