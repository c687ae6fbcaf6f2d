// nolint forbidigo
package testhelper

import (
	"bytes"
	"io"
	"os"

	"github.com/acarl005/stripansi"
	"github.com/spf13/cast"
)

// TestIsVerbose returns true if the TEST_VERBOSE ENV is set, then the virtual terminal output is printed.
func TestIsVerbose() bool {
	value := os.Getenv("TEST_VERBOSE")
	if value == "" {
		value = "false"
	}
	return cast.ToBool(value)
}

func VerboseStdout() io.WriteCloser {
	if TestIsVerbose() {
		return newStripAnsiWriter(os.Stdout)
	}
	return &nopCloser{io.Discard}
}

type nopCloser struct {
	io.Writer
}

func (n *nopCloser) Close() error {
	return nil
}

// stripAnsiWriter strips ANSI characters from complete lines.
type stripAnsiWriter struct {
	buf    *bytes.Buffer
	writer io.Writer
}

func newStripAnsiWriter(writer io.Writer) *stripAnsiWriter {
	return &stripAnsiWriter{buf: &bytes.Buffer{}, writer: writer}
}

func (w *stripAnsiWriter) Write(p []byte) (int, error) {
	n, err := w.buf.Write(p)

	// An ANSI sequence can be removed only if it is complete, so the buffer is flushed on a new line
	if bytes.Contains(w.buf.Bytes(), []byte("\n")) {
		if err := w.flush(); err != nil {
			return 0, err
		}
	}

	return n, err
}

func (w *stripAnsiWriter) Close() error {
	return w.flush()
}

func (w *stripAnsiWriter) flush() error {
	if _, err := w.writer.Write([]byte(stripansi.Strip(w.buf.String()))); err != nil {
		return err
	}
	w.buf.Reset()
	return nil
}
