// Package nop provides the Prompt used in the non-interactive mode, each question returns its default value.
package nop

import (
	"github.com/keboola/pipeline-trigger/internal/pkg/service/cli/prompt"
)

type Prompt struct{}

func New() *Prompt {
	return &Prompt{}
}

func (p *Prompt) IsInteractive() bool {
	return false
}

func (p *Prompt) Printf(string, ...any) {
	// nop
}

func (p *Prompt) Select(s *prompt.Select) (string, bool) {
	return s.Default, s.UseDefault
}

func (p *Prompt) SelectIndex(s *prompt.SelectIndex) (int, bool) {
	return s.Default, s.UseDefault
}

func (p *Prompt) MultiSelectIndex(s *prompt.MultiSelectIndex) ([]int, bool) {
	return s.Default, len(s.Default) > 0
}

func (p *Prompt) Ask(q *prompt.Question) (string, bool) {
	return q.Default, q.Default != ""
}

func (p *Prompt) Err() error {
	return nil
}
