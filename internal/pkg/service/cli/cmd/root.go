// Package cmd contains the cobra commands of the ptrigger CLI.
package cmd

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/keboola/pipeline-trigger/internal/pkg/config"
	"github.com/keboola/pipeline-trigger/internal/pkg/env"
	"github.com/keboola/pipeline-trigger/internal/pkg/log"
	"github.com/keboola/pipeline-trigger/internal/pkg/service/cli"
	"github.com/keboola/pipeline-trigger/internal/pkg/telemetry"
	"github.com/keboola/pipeline-trigger/internal/pkg/utils/errors"
	"github.com/keboola/pipeline-trigger/internal/pkg/version"
)

type Cmd = cobra.Command

type RootCommand struct {
	*Cmd
	stdin     io.Reader
	osEnvs    *env.Map
	fs        afero.Fs
	logger    log.Logger
	logFile   *log.File
	clock     clockwork.Clock
	tracer    telemetry.Tracer
	transport http.RoundTripper
}

type Option func(root *RootCommand)

// WithClock replaces the real clock, it is used in tests.
func WithClock(clock clockwork.Clock) Option {
	return func(root *RootCommand) {
		root.clock = clock
	}
}

// WithHTTPTransport replaces the default HTTP transport of the API client, it is used in tests.
func WithHTTPTransport(transport http.RoundTripper) Option {
	return func(root *RootCommand) {
		root.transport = transport
	}
}

func WithTracer(tracer telemetry.Tracer) Option {
	return func(root *RootCommand) {
		root.tracer = tracer
	}
}

// NewRootCommand creates parent of all sub-commands.
func NewRootCommand(stdin io.Reader, stdout io.Writer, stderr io.Writer, osEnvs *env.Map, fs afero.Fs, opts ...Option) *RootCommand {
	root := &RootCommand{
		stdin:  stdin,
		osEnvs: osEnvs,
		fs:     fs,
		logger: log.NewMemoryLogger(), // temporary logger, we don't have a path to the log file yet
		clock:  clockwork.NewRealClock(),
		tracer: telemetry.NewGlobalTracer(),
	}
	for _, o := range opts {
		o(root)
	}

	root.Cmd = &Cmd{
		Use:               "ptrigger", // name of the binary
		Version:           version.Version(),
		Short:             "Trigger GitLab pipelines and play their manual jobs.",
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		SilenceUsage:      true,
		SilenceErrors:     true, // custom error handling, see printError
		RunE: func(cmd *cobra.Command, args []string) error {
			// Print help if no command specified
			return root.Help()
		},
	}

	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate("{{.Version}}")

	// Persistent flags for all sub-commands
	config.BindGlobalFlags(root.PersistentFlags())
	root.Flags().BoolP(config.FlagVersion, "V", false, "print version")

	// Setup the logger, when flags are parsed
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		root.setupLogger(cmd.Flags())
		return nil
	}

	root.AddCommand(
		TriggerCommand(root),
		VersionCommand(root),
	)

	return root
}

// Execute command or sub-command.
func (root *RootCommand) Execute() (exitCode int) {
	return root.ExecuteContext(context.Background())
}

// ExecuteContext executes command or sub-command with the context, which is cancelled on SIGINT/SIGTERM.
func (root *RootCommand) ExecuteContext(ctx context.Context) (exitCode int) {
	defer func() {
		exitCode = root.tearDown(ctx, exitCode, recover())
	}()

	if err := root.Cmd.ExecuteContext(ctx); err != nil {
		root.printError(ctx, err)
		return 1
	}
	return 0
}

func (root *RootCommand) Logger() log.Logger {
	return root.logger
}

func (root *RootCommand) printError(ctx context.Context, errRaw error) {
	// Logger may be uninitialized, if the error occurred during the flags parsing
	if _, ok := root.logger.(*log.MemoryLogger); ok {
		root.setupLogger(root.PersistentFlags())
	}

	fullErr := errors.PrefixError(errRaw, "Error")
	root.logger.Debugf(ctx, "Error debug log:\n%s", errors.Format(fullErr, errors.FormatWithStack(), errors.FormatWithUnwrap()))
	root.PrintErrln(errors.Format(fullErr, errors.FormatAsSentences()))
}

// setupLogger replaces the temporary memory logger.
// Logging flags are read before the config is loaded, so only flags and OS ENVs are considered.
func (root *RootCommand) setupLogger(flags *pflag.FlagSet) {
	memoryLogger, ok := root.logger.(*log.MemoryLogger)
	if !ok {
		return
	}

	naming := env.NewNamingConvention(env.Prefix)
	value := func(name string) string {
		flag := flags.Lookup(name)
		if flag != nil && flag.Changed {
			return flag.Value.String()
		}
		if v, found := root.osEnvs.Lookup(naming.FlagToEnv(name)); found {
			return v
		}
		if flag != nil {
			return flag.DefValue
		}
		return ""
	}

	var logFileErr error
	logFilePath := value(config.FlagLogFile)
	root.logFile, logFileErr = log.NewLogFile(logFilePath)

	logFormat, logFormatErr := log.NewLogFormat(value(config.FlagLogFormat))
	verbose := cast.ToBool(value(config.FlagVerbose))

	root.logger = log.NewCliLogger(root.OutOrStdout(), root.ErrOrStderr(), root.logFile, logFormat, verbose)

	ctx := context.Background()
	if logFileErr != nil && logFilePath != "" {
		root.logger.Warnf(ctx, "Cannot open log file: %s", logFileErr)
	}
	if logFormatErr != nil {
		root.logger.Warnf(ctx, "Invalid log format: %s", logFormatErr)
	}

	root.logger.Debug(ctx, root.Version)
	root.logger.Debugf(ctx, "Running command %v", os.Args)
	if root.logFile == nil {
		root.logger.Debug(ctx, `Log file: -`)
	} else {
		root.logger.Debug(ctx, `Log file: `+root.logFile.Path())
	}

	// Copy logs from the temporary logger
	memoryLogger.CopyLogsTo(root.logger)
}

// tearDown does clean-up after command execution.
func (root *RootCommand) tearDown(ctx context.Context, exitCode int, panicErr any) int {
	if _, ok := root.logger.(*log.MemoryLogger); ok {
		root.setupLogger(root.PersistentFlags())
	}

	if panicErr != nil {
		logFilePath := ""
		if root.logFile != nil {
			logFilePath = root.logFile.Path()
		}
		exitCode = cli.ProcessPanic(ctx, panicErr, root.logger, logFilePath)
	}

	_ = root.logger.Sync()
	if err := root.logFile.TearDown(exitCode != 0); err != nil {
		root.logger.Warnf(ctx, "Cannot close log file: %s", err)
	}
	return exitCode
}
