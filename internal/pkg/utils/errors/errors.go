// Package errors extends the standard errors package.
// Each error created by this package contains a stack trace,
// see the Format function and its options for the output formats.
package errors

import (
	"errors"
	"fmt"
)

type stackTracer interface {
	StackTrace() StackTrace
}

type withStack struct {
	err   error
	trace StackTrace
}

type wrappedError struct {
	msg   string
	err   error
	trace StackTrace
}

// New creates an error with the message and the stack trace.
func New(message string) error {
	return &withStack{err: errors.New(message), trace: callers()}
}

// Errorf creates an error with the formatted message and the stack trace, the "%w" verb is supported.
func Errorf(format string, a ...any) error {
	return &withStack{err: fmt.Errorf(format, a...), trace: callers()}
}

// Wrap returns a new error with the message, the original error is available by Unwrap.
func Wrap(err error, message string) error {
	return &wrappedError{msg: message, err: err, trace: callers()}
}

// Wrapf returns a new error with the formatted message, the original error is available by Unwrap.
func Wrapf(err error, format string, a ...any) error {
	return &wrappedError{msg: fmt.Sprintf(format, a...), err: err, trace: callers()}
}

// WithStack adds the stack trace to the error, if it is not present.
func WithStack(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(stackTracer); ok { // nolint: errorlint
		return err
	}
	return &withStack{err: err, trace: callers()}
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func Unwrap(err error) error {
	return errors.Unwrap(err)
}

func (e *withStack) Error() string {
	return e.err.Error()
}

func (e *withStack) Unwrap() error {
	return e.err
}

func (e *withStack) StackTrace() StackTrace {
	return e.trace
}

func (e *wrappedError) Error() string {
	return e.msg
}

func (e *wrappedError) Unwrap() error {
	return e.err
}

func (e *wrappedError) StackTrace() StackTrace {
	return e.trace
}

func (e *wrappedError) WriteError(w Writer, level int, trace StackTrace) {
	w.WriteMessage(e.msg, e.trace)
	if !w.Config().WithUnwrap {
		return
	}
	w.Write(fmt.Sprintf(" (%T):", e))
	w.WriteNewLine()
	w.WriteIndent(level)
	w.WriteBullet()
	w.WriteErrorLevel(level+1, e.err, nil)
}
