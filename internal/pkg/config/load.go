package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/keboola/pipeline-trigger/internal/pkg/env"
	"github.com/keboola/pipeline-trigger/internal/pkg/log"
	"github.com/keboola/pipeline-trigger/internal/pkg/model"
	"github.com/keboola/pipeline-trigger/internal/pkg/utils/errors"
	"github.com/keboola/pipeline-trigger/pkg/lib/operation/pipeline/cascade"
)

// Load resolves the Config from the flags, ENVs, ".env" files and the config file.
// All errors are ConfigError.
func Load(ctx context.Context, logger log.Logger, fs afero.Fs, osEnvs *env.Map, flags *pflag.FlagSet) (Config, error) {
	cfg, err := load(ctx, logger, fs, osEnvs, flags)
	if err != nil {
		var configErr *ConfigError
		if !errors.As(err, &configErr) {
			err = NewConfigError(err)
		}
		return Config{}, err
	}
	logger.Debugf(ctx, "Resolved config:\n%s", cfg.Dump())
	return cfg, nil
}

func load(ctx context.Context, logger log.Logger, fs afero.Fs, osEnvs *env.Map, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	naming := env.NewNamingConvention(env.Prefix)

	// Working dir and ".env" files
	workingDir, err := workingDir(flags, osEnvs, naming)
	if err != nil {
		return Config{}, err
	}
	envs := env.LoadDotEnv(ctx, logger, osEnvs, fs, []string{workingDir})

	// ENV values are written to the unchanged flags, so they have priority over the config file
	if err := bindEnvs(flags, envs, naming); err != nil {
		return Config{}, err
	}
	if err := v.BindPFlags(flags); err != nil {
		return Config{}, err
	}

	// Config file values are used as defaults
	file, configFile, err := loadConfigFile(fs, workingDir, v.GetString(FlagConfigFile))
	if err != nil {
		return Config{}, err
	}
	if file != nil {
		logger.Infof(ctx, `Loaded config file "%s".`, configFile)
		setFileDefaults(v, file)
	}

	cfg := Config{
		WorkingDir:      workingDir,
		ConfigFile:      configFile,
		Verbose:         v.GetBool(FlagVerbose),
		LogFile:         v.GetString(FlagLogFile),
		LogFormat:       v.GetString(FlagLogFormat),
		NonInteractive:  v.GetBool(FlagNonInteractive),
		Host:            strings.TrimSpace(v.GetString(FlagHost)),
		Token:           strings.TrimSpace(v.GetString(FlagToken)),
		VariablePrefix:  v.GetString(FlagVariablePrefix),
		Cascade:         v.GetBool(FlagCascade),
		RequestTimeout:  v.GetDuration(FlagRequestTimeout),
		ContinueOnError: v.GetBool(FlagContinueOnError),
		DryRun:          v.GetBool(FlagDryRun),
		CascadeConfig: cascade.Config{
			InitialDelay: v.GetDuration(FlagInitialDelay),
			RetryDelay:   v.GetDuration(FlagRetryDelay),
			MaxAttempts:  v.GetInt(FlagMaxAttempts),
			PlayDelay:    v.GetDuration(FlagPlayDelay),
		},
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}

	// Host and token are required
	errs := errors.NewMultiError()
	if cfg.Host == "" {
		errs.Append(missingValueError("host", FlagHost, naming))
	}
	if cfg.Token == "" && !cfg.DryRun {
		errs.Append(missingValueError("token", FlagToken, naming))
	}
	if err := errs.ErrorOrNil(); err != nil {
		return Config{}, err
	}

	// Targets from flags replace targets from the config file
	if cfg.Targets, err = targets(v, flags, file); err != nil {
		return Config{}, err
	}
	if file != nil {
		cfg.Projects = file.Projects
	}

	// Variables: prefixed ENVs, config file, flags
	if cfg.Variables, err = variables(flags, envs, file, cfg.VariablePrefix); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(ctx); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func workingDir(flags *pflag.FlagSet, envs *env.Map, naming *env.NamingConvention) (string, error) {
	var dir string
	if flag := flags.Lookup(FlagWorkingDir); flag != nil && flag.Changed {
		dir = flag.Value.String()
	} else if value, found := envs.Lookup(naming.FlagToEnv(FlagWorkingDir)); found {
		dir = value
	}
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", errors.Errorf("cannot get current working directory: %w", err)
		}
		dir = wd
	}
	return filepath.Clean(dir), nil
}

// bindEnvs sets each unchanged flag from the ENV by the naming convention.
func bindEnvs(flags *pflag.FlagSet, envs env.Provider, naming *env.NamingConvention) error {
	errs := errors.NewMultiError()
	flags.VisitAll(func(flag *pflag.Flag) {
		if flag.Changed || flag.Name == FlagHelp {
			return
		}
		envName := naming.FlagToEnv(flag.Name)
		if value, found := envs.Lookup(envName); found && value != "" {
			if err := flags.Set(flag.Name, value); err != nil {
				errs.Append(errors.Errorf(`invalid value of ENV "%s": %w`, envName, err))
			}
		}
	})
	return errs.ErrorOrNil()
}

func loadConfigFile(fs afero.Fs, workingDir, path string) (*File, string, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(workingDir, path)
	}

	exists, err := afero.Exists(fs, path)
	switch {
	case err != nil:
		return nil, "", errors.Errorf(`cannot check if config file "%s" exists: %w`, path, err)
	case !exists && explicit:
		return nil, "", errors.Errorf(`config file "%s" not found`, path)
	case !exists:
		return nil, "", nil
	}

	file, err := LoadFile(fs, path)
	if err != nil {
		return nil, "", err
	}
	return file, path, nil
}

func setFileDefaults(v *viper.Viper, file *File) {
	if file.Host != "" {
		v.SetDefault(FlagHost, file.Host)
	}
	if file.VariablePrefix != nil {
		v.SetDefault(FlagVariablePrefix, *file.VariablePrefix)
	}
	if file.RequestTimeout != nil {
		v.SetDefault(FlagRequestTimeout, *file.RequestTimeout)
	}
	if file.ContinueOnError != nil {
		v.SetDefault(FlagContinueOnError, *file.ContinueOnError)
	}
	if c := file.Cascade; c.Enabled != nil {
		v.SetDefault(FlagCascade, *c.Enabled)
	}
	if c := file.Cascade; c.InitialDelay != nil {
		v.SetDefault(FlagInitialDelay, *c.InitialDelay)
	}
	if c := file.Cascade; c.RetryDelay != nil {
		v.SetDefault(FlagRetryDelay, *c.RetryDelay)
	}
	if c := file.Cascade; c.MaxAttempts != nil {
		v.SetDefault(FlagMaxAttempts, *c.MaxAttempts)
	}
	if c := file.Cascade; c.PlayDelay != nil {
		v.SetDefault(FlagPlayDelay, *c.PlayDelay)
	}
}

func targets(v *viper.Viper, flags *pflag.FlagSet, file *File) (model.Targets, error) {
	out := make(model.Targets, 0)
	errs := errors.NewMultiError()

	for _, str := range stringSlice(flags, FlagTarget) {
		target, err := model.ParseTarget(str)
		if err != nil {
			errs.Append(err)
			continue
		}
		out = append(out, target)
	}

	projects := stringSlice(flags, FlagProject)
	ref := strings.TrimSpace(v.GetString(FlagRef))
	switch {
	case len(projects) > 0 && ref == "":
		errs.Append(errors.Errorf(`flag "--%s" requires the "--%s" flag`, FlagProject, FlagRef))
	case len(projects) == 0 && ref != "":
		errs.Append(errors.Errorf(`flag "--%s" requires the "--%s" flag`, FlagRef, FlagProject))
	default:
		for _, project := range projects {
			out = append(out, model.Target{ProjectID: strings.TrimSpace(project), Ref: ref})
		}
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	if len(out) == 0 && file != nil {
		out = append(out, file.Targets...)
	}
	return out, nil
}

func variables(flags *pflag.FlagSet, envs env.Provider, file *File, prefix string) (model.Variables, error) {
	out := env.ExtractVariables(envs, prefix)

	if file != nil {
		fileVars, err := file.PipelineVariables()
		if err != nil {
			return nil, err
		}
		out = out.Merge(fileVars)
	}

	errs := errors.NewMultiError()
	flagVars, _ := flags.GetStringArray(FlagVariable)
	for _, str := range flagVars {
		variable, err := model.ParseVariable(str)
		if err != nil {
			errs.Append(err)
			continue
		}
		out = out.Set(variable.Key, variable.Value)
	}
	return out, errs.ErrorOrNil()
}

func stringSlice(flags *pflag.FlagSet, name string) []string {
	values, err := flags.GetStringSlice(name)
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			out = append(out, value)
		}
	}
	return out
}

func missingValueError(name, flag string, naming *env.NamingConvention) error {
	return errors.Errorf(`missing %s, please use "--%s" flag or ENV variable "%s"`, name, flag, naming.FlagToEnv(flag))
}
