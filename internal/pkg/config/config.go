// Package config resolves the immutable configuration of one invocation.
//
// Sources by priority: flags, OS ENVs, ".env" files, the config file, defaults.
package config

import (
	"context"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/keboola/pipeline-trigger/internal/pkg/model"
	"github.com/keboola/pipeline-trigger/internal/pkg/validator"
	"github.com/keboola/pipeline-trigger/pkg/lib/operation/pipeline/cascade"
)

const DefaultRequestTimeout = 30 * time.Second

// Config is built once by the Load function and then passed explicitly, it must not be modified.
type Config struct {
	WorkingDir      string          `yaml:"workingDir"`
	ConfigFile      string          `yaml:"configFile,omitempty"`
	Verbose         bool            `yaml:"verbose"`
	LogFile         string          `yaml:"logFile,omitempty"`
	LogFormat       string          `yaml:"logFormat" validate:"oneof=console json"`
	NonInteractive  bool            `yaml:"nonInteractive"`
	Host            string          `yaml:"host"`
	Token           string          `yaml:"token"`
	Targets         model.Targets   `yaml:"targets" validate:"dive"`
	Projects        []Project       `yaml:"projects,omitempty" validate:"dive"`
	Variables       model.Variables `yaml:"variables" validate:"dive"`
	VariablePrefix  string          `yaml:"variablePrefix"`
	Cascade         bool            `yaml:"cascade"`
	CascadeConfig   cascade.Config  `yaml:"cascadeConfig"`
	RequestTimeout  time.Duration   `yaml:"requestTimeout" validate:"gt=0"`
	ContinueOnError bool            `yaml:"continueOnError"`
	DryRun          bool            `yaml:"dryRun"`
}

// WithTargets returns a copy with the selected targets.
func (c Config) WithTargets(targets model.Targets) Config {
	c.Targets = targets
	return c
}

func (c Config) validate(ctx context.Context) error {
	return validator.Validate(ctx, c)
}

// Dump returns the config for debugging, the token is hidden.
func (c Config) Dump() string {
	c.Token = hideToken(c.Token)
	out, err := yaml.Marshal(c)
	if err != nil {
		return err.Error()
	}
	return strings.TrimSpace(string(out))
}

func hideToken(token string) string {
	const visible = 4
	if len(token) <= visible*2 {
		return strings.Repeat("*", len(token))
	}
	return token[:visible] + "*****"
}
