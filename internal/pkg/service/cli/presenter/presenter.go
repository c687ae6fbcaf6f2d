// Package presenter renders the trigger and cascade events to the console through the logger.
package presenter

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/keboola/pipeline-trigger/internal/pkg/event"
	"github.com/keboola/pipeline-trigger/internal/pkg/log"
)

type Presenter struct {
	logger log.Logger
	green  *color.Color
	yellow *color.Color
	red    *color.Color
	bold   *color.Color
}

type Option func(p *Presenter)

// WithColors forces colors on or off, by default the global color.NoColor setting is used.
func WithColors(enabled bool) Option {
	return func(p *Presenter) {
		for _, c := range []*color.Color{p.green, p.yellow, p.red, p.bold} {
			if enabled {
				c.EnableColor()
			} else {
				c.DisableColor()
			}
		}
	}
}

func New(logger log.Logger, opts ...Option) *Presenter {
	p := &Presenter{
		logger: logger,
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed),
		bold:   color.New(color.Bold),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Emit implements event.Emitter.
func (p *Presenter) Emit(ctx context.Context, e event.Event) {
	switch v := e.(type) {
	case event.TargetStarted:
		p.logger.Infof(ctx, `%s Triggering "%s".`, p.bold.Sprintf("[%d/%d]", v.Index, v.Total), v.Target)
	case event.PipelineCreated:
		p.logger.Info(ctx, p.green.Sprintf(`Created pipeline #%d for "%s": %s`, v.Pipeline.ID, v.Target, v.Pipeline.WebURL))
	case event.CascadeWaiting:
		switch v.Reason {
		case event.WaitReasonInitial:
			p.logger.Infof(ctx, `Waiting %s for manual jobs of pipeline #%d.`, v.Delay, v.PipelineID)
		case event.WaitReasonRetry:
			p.logger.Infof(ctx, `No manual job yet, next check in %s.`, v.Delay)
		default:
			p.logger.Debugf(ctx, `Waiting %s before the next job.`, v.Delay)
		}
	case event.PollAttempt:
		p.logger.Infof(ctx, `Checking jobs of pipeline #%d, attempt %d/%d.`, v.PipelineID, v.Attempt, v.MaxAttempts)
	case event.ManualJobsFound:
		names := make([]string, 0, len(v.Jobs))
		for _, job := range v.Jobs {
			names = append(names, fmt.Sprintf(`"%s"`, job.Name))
		}
		p.logger.Infof(ctx, `Found %d manual %s: %s.`, len(v.Jobs), plural(len(v.Jobs), "job", "jobs"), strings.Join(names, ", "))
	case event.ManualJobsNone:
		p.logger.Warn(ctx, p.yellow.Sprintf(`No manual job found in pipeline #%d after %d %s.`, v.PipelineID, v.Attempts, plural(v.Attempts, "attempt", "attempts")))
	case event.JobPlayed:
		p.logger.Info(ctx, p.green.Sprintf(`Played %s.`, v.Job))
	case event.CascadeDone:
		p.logger.Infof(ctx, `Cascade of pipeline #%d finished, played %d %s.`, v.PipelineID, v.Played, plural(v.Played, "job", "jobs"))
	case event.TargetFailed:
		p.logger.Error(ctx, p.red.Sprintf(`Target "%s" failed (%s).`, v.Target, v.ErrorKind))
	case event.RunFinished:
		p.summary(ctx, v)
	}
}

func (p *Presenter) summary(ctx context.Context, v event.RunFinished) {
	created := 0
	lines := make([]string, 0, len(v.Targets))
	for _, item := range v.Targets {
		var line string
		switch {
		case item.Pipeline == nil:
			line = p.red.Sprintf(`  - %s: failed`, item.Target)
		case item.Failed:
			created++
			line = p.red.Sprintf(`  - %s: pipeline #%d, cascade failed`, item.Target, item.Pipeline.ID)
		default:
			created++
			line = fmt.Sprintf(`  - %s: pipeline #%d, played %d %s, %s`, item.Target, item.Pipeline.ID, item.Played, plural(item.Played, "job", "jobs"), item.Pipeline.WebURL)
		}
		lines = append(lines, line)
	}

	msg := p.bold.Sprintf(`Created %d of %d %s.`, created, len(v.Targets), plural(len(v.Targets), "pipeline", "pipelines"))
	if len(lines) > 0 {
		msg += "\n" + strings.Join(lines, "\n")
	}
	p.logger.Info(ctx, msg)
}

func plural(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}
