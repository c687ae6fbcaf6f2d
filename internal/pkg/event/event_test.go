package event

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/keboola/pipeline-trigger/internal/pkg/model"
	"github.com/keboola/pipeline-trigger/internal/pkg/utils/errors"
)

type kindError struct{}

func (kindError) Error() string     { return "access denied" }
func (kindError) ErrorKind() string { return "auth" }

func TestDispatcher_Order(t *testing.T) {
	t.Parallel()

	var order []string
	first := EmitterFunc(func(_ context.Context, e Event) { order = append(order, "first:"+e.Kind()) })
	second := EmitterFunc(func(_ context.Context, e Event) { order = append(order, "second:"+e.Kind()) })
	recorder := NewRecorder()

	d := NewDispatcher(first, second)
	d.Subscribe(recorder)
	d.Emit(context.Background(), TargetStarted{Target: model.Target{ProjectID: "1", Ref: "main"}, Index: 1, Total: 1})
	d.Emit(context.Background(), PollAttempt{Attempt: 1, MaxAttempts: 3})

	assert.Equal(t, []string{
		"first:target_started",
		"second:target_started",
		"first:poll_attempt",
		"second:poll_attempt",
	}, order)
	assert.Equal(t, []string{KindTargetStarted, KindPollAttempt}, recorder.Kinds())
	assert.Equal(t, []PollAttempt{{Attempt: 1, MaxAttempts: 3}}, Filter[PollAttempt](recorder))

	recorder.Reset()
	assert.Empty(t, recorder.Events())
}

func TestErrorKind(t *testing.T) {
	t.Parallel()

	assert.Equal(t, UnknownErrorKind, ErrorKind(errors.New("some error")))
	assert.Equal(t, "auth", ErrorKind(kindError{}))
	assert.Equal(t, "auth", ErrorKind(errors.Wrap(kindError{}, "cannot create pipeline")))

	multi := errors.NewMultiError()
	multi.Append(errors.New("first"))
	multi.AppendWithPrefix(kindError{}, "second")
	assert.Equal(t, "auth", ErrorKind(multi.ErrorOrNil()))
}

func TestNewTargetFailed(t *testing.T) {
	t.Parallel()

	target := model.Target{ProjectID: "123", Ref: "main"}
	err := errors.Wrap(kindError{}, "cannot create pipeline")
	e := NewTargetFailed(target, err)
	assert.Equal(t, KindTargetFailed, e.Kind())
	assert.Equal(t, "auth", e.ErrorKind)
	assert.Equal(t, err.Error(), e.Message)
	assert.Equal(t, target, e.Target)
}
