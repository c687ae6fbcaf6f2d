package config

import (
	"github.com/keboola/pipeline-trigger/internal/pkg/utils/errors"
)

const ErrorKindConfig = "config"

// ConfigError is a missing or an invalid input, it is returned before any network activity.
type ConfigError struct {
	err error
}

func NewConfigError(err error) *ConfigError {
	return &ConfigError{err: err}
}

func NewConfigErrorf(format string, a ...any) *ConfigError {
	return &ConfigError{err: errors.Errorf(format, a...)}
}

func (e *ConfigError) Error() string {
	return e.err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.err
}

func (e *ConfigError) ErrorKind() string {
	return ErrorKindConfig
}
