package event

import (
	"github.com/keboola/pipeline-trigger/internal/pkg/model"
	"github.com/keboola/pipeline-trigger/internal/pkg/utils/errors"
)

const UnknownErrorKind = "unknown"

type errorWithKind interface {
	ErrorKind() string
}

// ErrorKind returns kind of the first error in the chain that defines it.
func ErrorKind(err error) string {
	var withKind errorWithKind
	if errors.As(err, &withKind) {
		return withKind.ErrorKind()
	}
	return UnknownErrorKind
}

func NewTargetFailed(target model.Target, err error) TargetFailed {
	return TargetFailed{Target: target, ErrorKind: ErrorKind(err), Message: err.Error(), Err: err}
}
