// Package dialog contains interactive dialogs of the CLI.
package dialog

import (
	"github.com/keboola/pipeline-trigger/internal/pkg/service/cli/prompt"
)

type Dialogs struct {
	prompt.Prompt
}

func New(prompt prompt.Prompt) *Dialogs {
	return &Dialogs{Prompt: prompt}
}
