package cmd

import (
	"github.com/spf13/cobra"

	"github.com/keboola/pipeline-trigger/internal/pkg/version"
)

func VersionCommand(root *RootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root.logger.Info(cmd.Context(), version.Version())
			return nil
		},
	}
}
