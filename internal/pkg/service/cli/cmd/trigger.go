package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/keboola/pipeline-trigger/internal/pkg/config"
	"github.com/keboola/pipeline-trigger/internal/pkg/dependencies"
	"github.com/keboola/pipeline-trigger/internal/pkg/event"
	"github.com/keboola/pipeline-trigger/internal/pkg/gitlab"
	"github.com/keboola/pipeline-trigger/internal/pkg/log"
	"github.com/keboola/pipeline-trigger/internal/pkg/service/cli"
	"github.com/keboola/pipeline-trigger/internal/pkg/service/cli/dialog"
	"github.com/keboola/pipeline-trigger/internal/pkg/service/cli/presenter"
	"github.com/keboola/pipeline-trigger/pkg/lib/operation/pipeline/trigger"
)

const triggerLongHelp = `Creates a pipeline for each target, sequentially in the order of the targets.

Targets:
  - positional arguments in the "project@ref" format
  - the "--target" flag, or the "--project" and "--ref" flags
  - "targets" in the config file
  - interactive selection of "projects" from the config file

Pipeline variables:
  - ENVs with the "--variable-prefix" prefix, the prefix is removed
  - "variables" in the config file
  - the "--variable KEY=VALUE" flag

With the "--cascade" flag, manual jobs of each created pipeline are played,
as soon as they appear in the pipeline.
`

func TriggerCommand(root *RootCommand) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "trigger [project@ref ...]",
		Aliases: []string{"t"},
		Short:   "Trigger pipelines for the targets.",
		Long:    triggerLongHelp,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Positional arguments are additional targets
			for _, arg := range args {
				if err := cmd.Flags().Set(config.FlagTarget, arg); err != nil {
					return err
				}
			}
			return root.runTrigger(cmd.Context(), cmd)
		},
	}
	config.BindTriggerFlags(cmd.Flags())
	return cmd
}

func (root *RootCommand) runTrigger(ctx context.Context, cmd *cobra.Command) error {
	logger := root.logger

	cfg, err := config.Load(ctx, logger, root.fs, root.osEnvs, cmd.Flags())
	if err != nil {
		return err
	}

	// Targets from flags, from the config file, or from the interactive dialog
	p := cli.NewPrompt(root.stdin, cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.NonInteractive)
	selection, err := dialog.New(p).SelectTargets(cfg.Targets, cfg.Projects)
	if err != nil {
		return err
	}
	if selection.Outcome == dialog.Cancelled {
		logger.Info(ctx, "Selection cancelled, no pipeline has been created.")
		return nil
	}
	cfg = cfg.WithTargets(selection.Targets)

	if cfg.DryRun {
		root.printDryRun(ctx, cfg)
		return nil
	}

	// Events are rendered by the presenter, colors are used only in a terminal
	colors := p.IsInteractive() && cfg.LogFormat == string(log.LogFormatConsole)
	dispatcher := event.NewDispatcher(presenter.New(logger, presenter.WithColors(colors)))
	baseDeps := dependencies.NewBaseDeps(logger, root.tracer, root.clock, dispatcher)

	clientOpts := []gitlab.Option{
		gitlab.WithLogger(logger),
		gitlab.WithTimeout(cfg.RequestTimeout),
		gitlab.WithVerbose(cfg.Verbose),
	}
	if root.transport != nil {
		clientOpts = append(clientOpts, gitlab.WithTransport(root.transport))
	}
	platformDeps, err := dependencies.NewPlatformDeps(baseDeps, cfg.Host, cfg.Token, clientOpts...)
	if err != nil {
		return config.NewConfigError(err)
	}

	_, err = trigger.Run(ctx, trigger.Options{
		Targets:         cfg.Targets,
		Variables:       cfg.Variables,
		Cascade:         cfg.Cascade,
		CascadeConfig:   cfg.CascadeConfig,
		ContinueOnError: cfg.ContinueOnError,
	}, platformDeps)
	return err
}

// printDryRun prints what would be triggered. Values of the variables are not printed, they may contain secrets.
func (root *RootCommand) printDryRun(ctx context.Context, cfg config.Config) {
	var out strings.Builder
	out.WriteString("Dry run, no pipeline has been created.\n")

	out.WriteString(fmt.Sprintf("Host: %s\n", gitlab.APIURL(cfg.Host)))

	out.WriteString("Targets:\n")
	for _, target := range cfg.Targets {
		out.WriteString(fmt.Sprintf("  - %s\n", target))
	}

	out.WriteString("Variables:")
	if len(cfg.Variables) == 0 {
		out.WriteString(" -")
	}
	for _, key := range cfg.Variables.Keys() {
		out.WriteString(fmt.Sprintf("\n  - %s", key))
	}
	out.WriteString("\n")

	if cfg.Cascade {
		c := cfg.CascadeConfig
		out.WriteString(fmt.Sprintf(
			"Cascade: initial delay %s, retry delay %s, max attempts %d, play delay %s",
			c.InitialDelay, c.RetryDelay, c.MaxAttempts, c.PlayDelay,
		))
	} else {
		out.WriteString("Cascade: disabled")
	}

	root.logger.Info(ctx, out.String())
}
