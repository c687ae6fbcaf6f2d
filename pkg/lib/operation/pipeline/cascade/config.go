package cascade

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultInitialDelay = 5 * time.Second
	DefaultRetryDelay   = 5 * time.Second
	DefaultMaxAttempts  = 3
	DefaultPlayDelay    = 1 * time.Second
)

// Config of the cascade timing.
// Jobs are created by the platform asynchronously, so the first poll is delayed.
type Config struct {
	// InitialDelay before the first poll.
	InitialDelay time.Duration `yaml:"initialDelay" validate:"gte=0"`
	// RetryDelay between polls without a manual job.
	RetryDelay time.Duration `yaml:"retryDelay" validate:"gte=0"`
	// MaxAttempts is the total number of polls, including the first one.
	MaxAttempts int `yaml:"maxAttempts" validate:"gte=1"`
	// PlayDelay between two plays, it keeps the rate of requests low.
	PlayDelay time.Duration `yaml:"playDelay" validate:"gte=0"`
}

func DefaultConfig() Config {
	return Config{
		InitialDelay: DefaultInitialDelay,
		RetryDelay:   DefaultRetryDelay,
		MaxAttempts:  DefaultMaxAttempts,
		PlayDelay:    DefaultPlayDelay,
	}
}

// retryBackOff returns delays between polls, backoff.Stop is returned when the attempts are exhausted.
func (c Config) retryBackOff() backoff.BackOff {
	if c.MaxAttempts <= 1 {
		return &backoff.StopBackOff{}
	}
	return backoff.WithMaxRetries(backoff.NewConstantBackOff(c.RetryDelay), uint64(c.MaxAttempts-1))
}
