package dependencies

import (
	"github.com/jonboulle/clockwork"

	"github.com/keboola/pipeline-trigger/internal/pkg/event"
	"github.com/keboola/pipeline-trigger/internal/pkg/log"
	"github.com/keboola/pipeline-trigger/internal/pkg/telemetry"
)

// base dependencies container implements Base interface.
type base struct {
	logger  log.Logger
	tracer  telemetry.Tracer
	clock   clockwork.Clock
	emitter event.Emitter
}

func NewBaseDeps(logger log.Logger, tracer telemetry.Tracer, clock clockwork.Clock, emitter event.Emitter) Base {
	return newBaseDeps(logger, tracer, clock, emitter)
}

func newBaseDeps(logger log.Logger, tracer telemetry.Tracer, clock clockwork.Clock, emitter event.Emitter) *base {
	return &base{
		logger:  logger,
		tracer:  tracer,
		clock:   clock,
		emitter: emitter,
	}
}

func (v *base) Logger() log.Logger {
	return v.logger
}

func (v *base) Tracer() telemetry.Tracer {
	return v.tracer
}

func (v *base) Clock() clockwork.Clock {
	return v.clock
}

func (v *base) EventEmitter() event.Emitter {
	return v.emitter
}
