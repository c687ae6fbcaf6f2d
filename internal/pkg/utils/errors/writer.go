package errors

import (
	"bufio"
	"strings"
)

const (
	Indent = "  "
	Bullet = "- "
)

type Writer interface {
	Config() FormatConfig
	Write(s string)
	WriteIndent(level int)
	WriteBullet()
	WritePrefix(prefix string, trace StackTrace)
	WriteMessage(msg string, trace StackTrace)
	WriteNewLine()
	WriteError(err error)
	WriteErrorLevel(level int, err error, trace StackTrace)
	WriteNestedError(level int, main error, errs []error, trace StackTrace)
	WriteErrorsList(level int, errs []error)
	String() string
}

// errorWithWrite is implemented by errors with a custom output.
type errorWithWrite interface {
	WriteError(w Writer, level int, trace StackTrace)
}

type writer struct {
	config FormatConfig
	out    strings.Builder
}

func NewWriter(config FormatConfig) Writer {
	return &writer{config: config}
}

func (w *writer) Config() FormatConfig {
	return w.config
}

func (w *writer) WriteError(err error) {
	w.WriteErrorLevel(0, err, nil)
}

func (w *writer) WriteErrorLevel(level int, err error, trace StackTrace) {
	if err == nil {
		panic(New("error cannot be nil"))
	}

	if v, ok := err.(stackTracer); ok { // nolint: errorlint
		trace = v.StackTrace()
	}

	// nolint: errorlint
	switch v := err.(type) {
	case nestedErrorGetter:
		w.WriteNestedError(level, v.MainError(), v.WrappedErrors(), trace)
	case multiErrorGetter:
		w.WriteErrorsList(level, v.WrappedErrors())
	case *withStack:
		w.WriteErrorLevel(level, v.err, trace)
	case errorWithWrite:
		v.WriteError(w, level, trace)
	default:
		// Align all lines of a multi-line message
		scanner := bufio.NewScanner(strings.NewReader(formatMessage(v.Error(), trace, w.config)))
		scanner.Scan()
		w.Write(scanner.Text())
		for scanner.Scan() {
			w.WriteNewLine()
			w.WriteIndent(level)
			w.Write(scanner.Text())
		}
	}
}

func (w *writer) WriteNestedError(level int, main error, errs []error, trace StackTrace) {
	mainWriter := &writer{config: w.config}
	mainWriter.WriteErrorLevel(level, main, trace)
	if len(errs) == 0 {
		w.Write(mainWriter.String())
		return
	}

	w.Write(formatPrefix(mainWriter.String()))
	w.WriteNewLine()
	for i, err := range errs {
		if i > 0 {
			w.WriteNewLine()
		}
		w.WriteIndent(level)
		w.WriteBullet()
		w.WriteErrorLevel(level+1, err, nil)
	}
}

func (w *writer) WriteErrorsList(level int, errs []error) {
	bullets := len(errs) > 1
	for i, err := range errs {
		if i > 0 {
			w.WriteNewLine()
		}
		if bullets {
			w.WriteIndent(level)
			w.WriteBullet()
		}
		w.WriteErrorLevel(level+1, err, nil)
	}
}

func (w *writer) WriteIndent(level int) {
	w.Write(strings.Repeat(Indent, level))
}

func (w *writer) WriteBullet() {
	w.Write(Bullet)
}

func (w *writer) WriteNewLine() {
	w.Write("\n")
}

func (w *writer) Write(s string) {
	_, _ = w.out.WriteString(s)
}

func (w *writer) WritePrefix(prefix string, trace StackTrace) {
	w.Write(formatPrefix(formatMessage(prefix, trace, w.config)))
}

func (w *writer) WriteMessage(msg string, trace StackTrace) {
	w.Write(formatMessage(msg, trace, w.config))
}

func (w *writer) String() string {
	return w.out.String()
}
