// Package dependencies provides dependencies for operations.
//
// Dependencies are split into containers:
//   - Base contains the logger, the tracer, the clock and the event emitter, it doesn't need any configuration.
//   - Platform contains the authenticated GitLab API client, it requires the host and the token.
//
// Operations define a local "dependencies" interface with the methods they use,
// so each container can be replaced in tests, see NewMocked.
package dependencies

import (
	"github.com/jonboulle/clockwork"

	"github.com/keboola/pipeline-trigger/internal/pkg/event"
	"github.com/keboola/pipeline-trigger/internal/pkg/gitlab"
	"github.com/keboola/pipeline-trigger/internal/pkg/log"
	"github.com/keboola/pipeline-trigger/internal/pkg/telemetry"
)

type Base interface {
	Logger() log.Logger
	Tracer() telemetry.Tracer
	Clock() clockwork.Clock
	EventEmitter() event.Emitter
}

type Platform interface {
	Base
	PlatformHost() string
	PipelineAPI() gitlab.API
}
