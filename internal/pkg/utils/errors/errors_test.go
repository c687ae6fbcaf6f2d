package errors_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/keboola/pipeline-trigger/internal/pkg/utils/errors"
)

func TestNew(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "some error", errors.Format(errors.New("some error")))
}

func TestErrorf(t *testing.T) {
	t.Parallel()
	original := errors.New("original error")
	err := errors.Errorf("enhanced error message: %w", original)
	assert.Equal(t, "enhanced error message: original error", err.Error())
	assert.True(t, errors.Is(err, original))
}

func TestWrap(t *testing.T) {
	t.Parallel()
	original := errors.New("original error")
	err := errors.Wrap(original, "new error message")
	assert.Equal(t, "new error message", errors.Format(err))
	assert.Equal(t, "new error message (*errors.wrappedError):\n- original error", errors.Format(err, errors.FormatWithUnwrap()))
	assert.True(t, errors.Is(err, original))
}

func TestFormatWithStack(t *testing.T) {
	t.Parallel()
	err := errors.New("original error")
	assert.Regexp(t, `^original error \[.*errors_test\.go:\d+\]$`, errors.Format(err, errors.FormatWithStack()))
}

func TestMultiError(t *testing.T) {
	t.Parallel()

	errs := errors.NewMultiError()
	assert.NoError(t, errs.ErrorOrNil())

	errs.Append(errors.New("foo 1"))
	errs.Append(errors.New("foo 2"), nil)

	sub := errs.AppendNested(errors.New("some sub error 1"))
	sub.Append(errors.New("foo 3"))
	sub.Append(errors.New("foo 4"))

	errs.AppendWithPrefixf(errors.New("nested error"), "some %s", "prefix")

	errs.Append(errors.NewNestedError(
		errors.New("some sub error 2"),
		errors.New("foo 5"),
		errors.New("foo 6"),
	))

	assert.Equal(t, 5, errs.Len())
	expected := `
- foo 1
- foo 2
- some sub error 1:
  - foo 3
  - foo 4
- some prefix: nested error
- some sub error 2:
  - foo 5
  - foo 6
`
	assert.Equal(t, strings.Trim(expected, "\n"), errors.Format(errs))

	assert.Equal(t, "- Foo 1.\n- Foo 2.\n- Some sub error 1:\n  - Foo 3.\n  - Foo 4.\n- Some prefix: Nested error.\n- Some sub error 2:\n  - Foo 5.\n  - Foo 6.", errors.Format(errs, errors.FormatAsSentences()))
}

func TestMultiError_Flatten(t *testing.T) {
	t.Parallel()

	inner := errors.NewMultiError()
	inner.Append(errors.New("a"), errors.New("b"))

	outer := errors.NewMultiError()
	outer.Append(inner, errors.New("c"))
	assert.Equal(t, 3, outer.Len())
}

func TestPrefixError(t *testing.T) {
	t.Parallel()

	errs := errors.NewMultiError()
	errs.Append(errors.New("missing host"))
	err := errors.PrefixError(errs, "Error")
	assert.Equal(t, "Error:\n- Missing host.", errors.Format(err, errors.FormatAsSentences()))
}

type kindError struct{}

func (kindError) Error() string { return "kind" }

func TestAs_ThroughMultiError(t *testing.T) {
	t.Parallel()

	errs := errors.NewMultiError()
	errs.Append(errors.New("first"))
	errs.Append(errors.Wrap(kindError{}, "wrapped"))

	var target kindError
	assert.True(t, errors.As(errs, &target))
}
