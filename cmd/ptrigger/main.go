package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"

	"github.com/keboola/pipeline-trigger/internal/pkg/env"
	"github.com/keboola/pipeline-trigger/internal/pkg/service/cli/cmd"
)

func main() {
	// Cancel the running operation on Ctrl+C
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	root := cmd.NewRootCommand(os.Stdin, os.Stdout, os.Stderr, env.FromOs(), afero.NewOsFs())
	exitCode := root.ExecuteContext(ctx)
	stop()
	os.Exit(exitCode)
}
