package errors

import (
	"fmt"
)

// MultiError collects more errors into one, the order is preserved.
type MultiError interface {
	error
	Len() int
	Unwrap() []error
	WrappedErrors() []error
	StackTrace() StackTrace
	Append(errs ...error)
	AppendNested(err error) NestedError
	AppendWithPrefix(err error, prefix string)
	AppendWithPrefixf(err error, format string, a ...any)
	ErrorOrNil() error
}

type multiErrorGetter interface {
	WrappedErrors() []error
}

type multiError struct {
	errs  []error
	trace StackTrace
}

type prefixedError struct {
	prefix string
	err    error
}

func NewMultiError() MultiError {
	return &multiError{trace: callers()}
}

func (e *multiError) Error() string {
	return Format(e)
}

func (e *multiError) Len() int {
	return len(e.errs)
}

func (e *multiError) Unwrap() []error {
	return e.errs
}

func (e *multiError) WrappedErrors() []error {
	return e.errs
}

func (e *multiError) StackTrace() StackTrace {
	return e.trace
}

// Append errors, nil values are ignored, nested MultiError is flattened.
func (e *multiError) Append(errs ...error) {
	for _, err := range errs {
		if err == nil {
			continue
		}
		if v, ok := err.(*multiError); ok { // nolint: errorlint
			e.errs = append(e.errs, v.errs...)
		} else {
			e.errs = append(e.errs, err)
		}
	}
}

func (e *multiError) AppendNested(err error) NestedError {
	nested := NewNestedError(err)
	e.errs = append(e.errs, nested)
	return nested
}

func (e *multiError) AppendWithPrefix(err error, prefix string) {
	if err == nil {
		return
	}
	if v, ok := err.(multiErrorGetter); ok && len(v.WrappedErrors()) > 1 { // nolint: errorlint
		e.errs = append(e.errs, NewNestedError(New(prefix), err))
		return
	}
	e.errs = append(e.errs, &prefixedError{prefix: prefix, err: err})
}

func (e *multiError) AppendWithPrefixf(err error, format string, a ...any) {
	e.AppendWithPrefix(err, fmt.Sprintf(format, a...))
}

// ErrorOrNil returns nil if there is no error, otherwise the MultiError itself.
func (e *multiError) ErrorOrNil() error {
	if len(e.errs) == 0 {
		return nil
	}
	return e
}

func (e *prefixedError) Error() string {
	return e.prefix + ": " + e.err.Error()
}

func (e *prefixedError) Unwrap() error {
	return e.err
}

func (e *prefixedError) WriteError(w Writer, level int, trace StackTrace) {
	w.WritePrefix(e.prefix, nil)
	w.Write(" ")
	w.WriteErrorLevel(level, e.err, trace)
}
