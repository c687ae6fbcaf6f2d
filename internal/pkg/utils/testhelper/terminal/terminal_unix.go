//go:build !windows

package terminal

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"runtime"
	"testing"
	"time"

	"github.com/ActiveState/vt10x"
	"github.com/Netflix/go-expect"
	"github.com/acarl005/stripansi"

	"github.com/keboola/pipeline-trigger/internal/pkg/utils/errors"
	"github.com/keboola/pipeline-trigger/internal/pkg/utils/testhelper"
)

const (
	termEscChar   = '\x1b'
	sendDelay     = 20 * time.Millisecond
	expectTimeout = 15 * time.Second
)

type console struct {
	*expect.Console
	state *vt10x.State
	tty   *tty
}

// tty wraps the terminal file, Close terminates all pending reads and writes, so the test does not hang.
type tty struct {
	file   *os.File
	reader io.Reader
	closed chan struct{}
}

// ansiSplitReader splits "<input><ansi>" read at once into two reads.
// The survey library does not recognize the ANSI sequence in such a chunk and waits endlessly.
type ansiSplitReader struct {
	scanner *bufio.Scanner
}

func New(t *testing.T, opts ...expect.ConsoleOpt) (Console, error) {
	t.Helper()

	if runtime.GOOS == "darwin" {
		t.Skipf(`virtual terminal is not stable in Mac OS tests`)
	}

	// Print the terminal output if TEST_VERBOSE=true
	debugStdout := testhelper.VerboseStdout()
	opts = append(
		opts,
		expect.WithStdout(debugStdout),
		expect.WithCloser(debugStdout),
		expect.WithSendObserver(sendObserver(debugStdout)),
		expect.WithExpectObserver(expectObserver(os.Stderr)), // nolint:forbidigo
		expect.WithDefaultTimeout(expectTimeout),
	)

	out := &console{}
	var err error
	out.Console, out.state, err = vt10x.NewVT10XConsole(opts...)
	if err != nil {
		return nil, err
	}

	ttyFile := out.Console.Tty()
	out.tty = &tty{file: ttyFile, reader: newAnsiSplitReader(ttyFile), closed: make(chan struct{})}
	return out, nil
}

func (c *console) Tty() Tty {
	return c.tty
}

func (c *console) String() string {
	return c.state.String()
}

func (c *console) Send(s string) error {
	c.waitBeforeSend()
	_, err := c.Console.Send(s)
	return err
}

func (c *console) SendLine(s string) error {
	c.waitBeforeSend()
	_, err := c.Console.SendLine(s)
	return err
}

func (c *console) SendEnter() error {
	return c.Send("\n")
}

func (c *console) SendSpace() error {
	return c.Send(" ")
}

func (c *console) SendUpArrow() error {
	return c.Send("\u001B[A")
}

func (c *console) SendDownArrow() error {
	return c.Send("\u001B[B")
}

func (c *console) ExpectString(s string, opts ...expect.ExpectOpt) error {
	opts = append(opts, StringWithoutANSI(s))
	_, err := c.Console.Expect(opts...)
	return err
}

func (c *console) ExpectEOF(opts ...expect.ExpectOpt) (err error) {
	defer func() {
		// Close STDIN on error, for example on timeout
		if err != nil {
			_ = c.Tty().Close()
		}
	}()

	opts = append(opts, expect.EOF, expect.PTSClosed)
	if _, err := c.Console.Expect(opts...); err != nil {
		return errors.Errorf("error while waiting for EOF: %w", err)
	}
	return nil
}

// waitBeforeSend gives the application time to write all output, before the next input is sent.
func (c *console) waitBeforeSend() {
	time.Sleep(sendDelay)
}

func newAnsiSplitReader(in io.Reader) io.Reader {
	r := &ansiSplitReader{scanner: bufio.NewScanner(in)}
	r.scanner.Split(func(data []byte, atEOF bool) (advance int, token []byte, err error) {
		if atEOF && len(data) == 0 {
			return 0, nil, nil
		}
		// Return the part up to the first ANSI escape sequence
		if i := bytes.IndexByte(data, termEscChar); i >= 1 {
			return i, data[0:i], nil
		}
		return len(data), data, nil
	})
	return r
}

func (r *ansiSplitReader) Read(b []byte) (int, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, io.EOF
	}
	s := r.scanner.Bytes()
	if len(b) < len(s) {
		panic(errors.Errorf("small buffer %d, required %d", len(b), len(s)))
	}
	copy(b, s)
	return len(s), nil
}

func (t *tty) Read(p []byte) (int, error) {
	var n int
	var err error
	done := make(chan struct{})

	go func() {
		n, err = t.reader.Read(p)
		close(done)
	}()

	select {
	case <-t.closed:
		return 0, errors.New("cannot read: tty closed")
	case <-done:
		return n, err
	}
}

func (t *tty) Write(p []byte) (int, error) {
	var n int
	var err error
	done := make(chan struct{})

	go func() {
		n, err = t.file.Write(p)
		close(done)
	}()

	select {
	case <-t.closed:
		return 0, errors.New("cannot write: tty closed")
	case <-done:
		return n, err
	}
}

func (t *tty) Fd() uintptr {
	return t.file.Fd()
}

func (t *tty) Close() error {
	select {
	case <-t.closed:
		return errors.New("tty already closed")
	default:
		close(t.closed)
		return t.file.Close()
	}
}

func sendObserver(writer io.Writer) expect.SendObserver {
	return func(msg string, num int, err error) {
		if err == nil {
			_, _ = fmt.Fprintf(writer, "\n\n>>> SEND: %+q\n\n", msg)
		} else {
			_, _ = fmt.Fprintf(writer, "\n\n>>> SEND %+q ERROR: %s\n\n", msg, err)
		}
	}
}

func expectObserver(writer io.Writer) expect.ExpectObserver {
	return func(matchers []expect.Matcher, buf string, err error) {
		if err != nil {
			var criteria []any
			for _, m := range matchers {
				criteria = append(criteria, m.Criteria())
			}
			_, _ = fmt.Fprintf(
				writer,
				"\n\n>>> Could not meet expectations %v, error: %v\nTerminal snapshot:\n-----\n%s\n-----\n",
				criteria, err, stripansi.Strip(buf),
			)
		}
	}
}
