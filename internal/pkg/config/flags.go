package config

import (
	"github.com/spf13/pflag"

	"github.com/keboola/pipeline-trigger/internal/pkg/env"
	"github.com/keboola/pipeline-trigger/pkg/lib/operation/pipeline/cascade"
)

const (
	DefaultConfigFile = "ptrigger.yaml"
	DefaultLogFormat  = "console"
)

// Flag names, each flag can be set also by ENV, see env.NamingConvention.
const (
	FlagHelp            = "help"
	FlagVersion         = "version"
	FlagVerbose         = "verbose"
	FlagLogFile         = "log-file"
	FlagLogFormat       = "log-format"
	FlagNonInteractive  = "non-interactive"
	FlagWorkingDir      = "working-dir"
	FlagConfigFile      = "config-file"
	FlagHost            = "host"
	FlagToken           = "token"
	FlagTarget          = "target"
	FlagProject         = "project"
	FlagRef             = "ref"
	FlagCascade         = "cascade"
	FlagVariable        = "variable"
	FlagVariablePrefix  = "variable-prefix"
	FlagInitialDelay    = "initial-delay"
	FlagRetryDelay      = "retry-delay"
	FlagMaxAttempts     = "max-attempts"
	FlagPlayDelay       = "play-delay"
	FlagRequestTimeout  = "request-timeout"
	FlagContinueOnError = "continue-on-error"
	FlagDryRun          = "dry-run"
)

// BindGlobalFlags for all commands.
func BindGlobalFlags(flags *pflag.FlagSet) {
	flags.SortFlags = true
	flags.BoolP(FlagHelp, "h", false, "print help for command")
	flags.BoolP(FlagVerbose, "v", false, "print details")
	flags.StringP(FlagLogFile, "l", "", "path to a log file for details")
	flags.String(FlagLogFormat, DefaultLogFormat, `format of stdout and stderr, "console" or "json"`)
	flags.Bool(FlagNonInteractive, false, "disable interactive dialogs")
	flags.StringP(FlagWorkingDir, "d", "", "use other working directory")
	flags.StringP(FlagConfigFile, "c", "", `path to the config file, default "`+DefaultConfigFile+`" if exists`)
	flags.StringP(FlagHost, "H", "", `GitLab host, eg. "gitlab.com"`)
	flags.StringP(FlagToken, "t", "", "GitLab API token")
}

// BindTriggerFlags for the trigger command.
func BindTriggerFlags(flags *pflag.FlagSet) {
	defaults := cascade.DefaultConfig()
	flags.StringSlice(FlagTarget, nil, `target in the "project@ref" format, can be repeated`)
	flags.StringSliceP(FlagProject, "p", nil, `project ID or path, used with the "--ref" flag, can be repeated`)
	flags.StringP(FlagRef, "r", "", "branch or tag for all projects from the \"--project\" flag")
	flags.Bool(FlagCascade, false, "play manual jobs of the created pipelines")
	flags.StringArray(FlagVariable, nil, `pipeline variable in the "KEY=VALUE" format, can be repeated`)
	flags.String(FlagVariablePrefix, env.DefaultVariablePrefix, "ENV variables with the prefix are passed to the pipeline")
	flags.Duration(FlagInitialDelay, defaults.InitialDelay, "delay before the first listing of the jobs")
	flags.Duration(FlagRetryDelay, defaults.RetryDelay, "delay between listings of the jobs")
	flags.Int(FlagMaxAttempts, defaults.MaxAttempts, "max number of listings of the jobs")
	flags.Duration(FlagPlayDelay, defaults.PlayDelay, "delay between plays of the manual jobs")
	flags.Duration(FlagRequestTimeout, DefaultRequestTimeout, "timeout of each API request")
	flags.Bool(FlagContinueOnError, false, "continue with the next target if a target fails")
	flags.Bool(FlagDryRun, false, "print targets and variables, no pipeline is created")
}
