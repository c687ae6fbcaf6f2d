package errors

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// FormatConfig controls the output of the Format function.
type FormatConfig struct {
	WithStack   bool
	WithUnwrap  bool
	AsSentences bool
}

type FormatOption func(c *FormatConfig)

// FormatWithStack adds the place where the error was created to each message.
func FormatWithStack() FormatOption {
	return func(c *FormatConfig) {
		c.WithStack = true
	}
}

// FormatWithUnwrap writes also errors wrapped by Wrap/Wrapf.
func FormatWithUnwrap() FormatOption {
	return func(c *FormatConfig) {
		c.WithUnwrap = true
	}
}

// FormatAsSentences capitalizes the first letter of each message and adds the final dot.
func FormatAsSentences() FormatOption {
	return func(c *FormatConfig) {
		c.AsSentences = true
	}
}

// Format error to a human-readable string, nested errors are formatted as a bullet list.
func Format(err error, opts ...FormatOption) string {
	config := FormatConfig{}
	for _, o := range opts {
		o(&config)
	}
	w := NewWriter(config)
	w.WriteError(err)
	return w.String()
}

func formatMessage(msg string, trace StackTrace, config FormatConfig) string {
	if config.AsSentences {
		msg = toSentence(msg)
	}
	if config.WithStack {
		if file, line, ok := trace.Frame(); ok {
			msg = fmt.Sprintf("%s [%s:%d]", msg, file, line)
		}
	}
	return msg
}

func formatPrefix(prefix string) string {
	return strings.TrimRight(prefix, ".,: ") + ":"
}

func toSentence(msg string) string {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return msg
	}

	first, size := utf8.DecodeRuneInString(msg)
	msg = string(unicode.ToUpper(first)) + msg[size:]

	switch msg[len(msg)-1] {
	case '.', '!', '?', ':':
		return msg
	default:
		return msg + "."
	}
}
