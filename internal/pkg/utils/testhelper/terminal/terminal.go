// Package terminal provides a virtual terminal for tests of interactive dialogs.
package terminal

import (
	"bytes"
	"io"
	"strings"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/Netflix/go-expect"
	"github.com/acarl005/stripansi"
)

// Console is a virtual terminal for tests.
type Console interface {
	// Tty returns the slave part of the pseudo-terminal, it is used as stdin and stdout of the tested code.
	Tty() Tty
	// String returns the current screen of the terminal.
	String() string
	Send(s string) error
	SendLine(s string) error
	SendEnter() error
	SendSpace() error
	SendUpArrow() error
	SendDownArrow() error
	// ExpectString reads from the terminal until the string is read, ANSI sequences are ignored.
	ExpectString(s string, opts ...expect.ExpectOpt) error
	// ExpectEOF reads from the terminal until EOF, a closed PTS is also considered EOF.
	ExpectEOF(opts ...expect.ExpectOpt) error
	Close() error
}

type Tty interface {
	terminal.FileReader
	terminal.FileWriter
	io.Closer
}

type stringWithoutANSIMatcher struct {
	str string
}

func (m *stringWithoutANSIMatcher) Match(v any) bool {
	buf, ok := v.(*bytes.Buffer)
	if !ok {
		return false
	}
	return strings.Contains(stripansi.Strip(buf.String()), m.str)
}

func (m *stringWithoutANSIMatcher) Criteria() any {
	return m.str
}

// StringWithoutANSI adds an Expect condition, it matches if the output contains any of the strings.
func StringWithoutANSI(strs ...string) expect.ExpectOpt {
	return func(opts *expect.ExpectOpts) error {
		for _, str := range strs {
			opts.Matchers = append(opts.Matchers, &stringWithoutANSIMatcher{str: str})
		}
		return nil
	}
}
