// Package interactive implements the Prompt by the survey library.
package interactive

import (
	"fmt"
	"io"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/keboola/pipeline-trigger/internal/pkg/service/cli/prompt"
	"github.com/keboola/pipeline-trigger/internal/pkg/utils/errors"
)

type Prompt struct {
	stdin  terminal.FileReader
	stdout terminal.FileWriter
	stderr io.Writer
	err    error
}

func New(stdin terminal.FileReader, stdout terminal.FileWriter, stderr io.Writer) *Prompt {
	return &Prompt{stdin: stdin, stdout: stdout, stderr: stderr}
}

func (p *Prompt) IsInteractive() bool {
	return true
}

func (p *Prompt) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(p.stdout, format, a...)
}

func (p *Prompt) Select(s *prompt.Select) (string, bool) {
	p.printDescription(s.Description)
	question := &survey.Select{
		Message: formatLabel(s.Label),
		Help:    s.Help,
		Options: s.Options,
	}
	if s.UseDefault {
		question.Default = s.Default
	}

	var result string
	err := survey.AskOne(question, &result, p.opts(s.Validator)...)
	return result, p.handleError(err)
}

func (p *Prompt) SelectIndex(s *prompt.SelectIndex) (int, bool) {
	p.printDescription(s.Description)
	question := &survey.Select{
		Message: formatLabel(s.Label),
		Help:    s.Help,
		Options: s.Options,
	}
	if s.UseDefault {
		question.Default = s.Default
	}

	var result int
	err := survey.AskOne(question, &result, p.opts(s.Validator)...)
	return result, p.handleError(err)
}

func (p *Prompt) MultiSelectIndex(s *prompt.MultiSelectIndex) ([]int, bool) {
	p.printDescription(s.Description)
	question := &survey.MultiSelect{
		Message: formatLabel(s.Label),
		Help:    s.Help,
		Options: s.Options,
	}
	if len(s.Default) > 0 {
		question.Default = s.Default
	}

	var result []int
	err := survey.AskOne(question, &result, p.opts(s.Validator)...)
	return result, p.handleError(err)
}

func (p *Prompt) Ask(q *prompt.Question) (string, bool) {
	p.printDescription(q.Description)
	if q.Hidden && q.Default != "" {
		p.Printf("Leave blank for default value.\n")
	}

	var question survey.Prompt
	if q.Hidden {
		question = &survey.Password{Message: formatLabel(q.Label), Help: q.Help}
	} else {
		question = &survey.Input{Message: formatLabel(q.Label), Help: q.Help, Default: q.Default}
	}

	var result string
	err := survey.AskOne(question, &result, p.opts(q.Validator)...)
	if result == "" {
		result = q.Default
	}
	return strings.TrimSpace(result), p.handleError(err)
}

func (p *Prompt) printDescription(description string) {
	if description != "" {
		p.Printf("\n%s\n", description)
	}
}

func (p *Prompt) opts(validator func(val any) error) []survey.AskOpt {
	opts := []survey.AskOpt{
		survey.WithStdio(p.stdin, p.stdout, p.stderr),
		survey.WithShowCursor(true),
	}
	if validator != nil {
		opts = append(opts, survey.WithValidator(validator))
	}
	return opts
}

func (p *Prompt) Err() error {
	return p.err
}

// handleError returns false if the question was not answered.
// An interruption by Ctrl+C is expected, other errors are kept for Err.
func (p *Prompt) handleError(err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, terminal.InterruptErr):
		p.Printf("\n")
		return false
	default:
		if p.err == nil {
			p.err = errors.Errorf("cannot read the answer: %w", err)
		}
		return false
	}
}

func formatLabel(label string) string {
	if label == "" || strings.HasSuffix(label, "?") || strings.HasSuffix(label, ":") {
		return label
	}
	return label + ":"
}
