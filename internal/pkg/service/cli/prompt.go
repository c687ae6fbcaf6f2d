package cli

import (
	"io"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/mattn/go-isatty"

	"github.com/keboola/pipeline-trigger/internal/pkg/service/cli/prompt"
	"github.com/keboola/pipeline-trigger/internal/pkg/service/cli/prompt/interactive"
	"github.com/keboola/pipeline-trigger/internal/pkg/service/cli/prompt/nop"
)

// NewPrompt returns the interactive prompt only if the stdin and stdout are terminals.
func NewPrompt(stdin io.Reader, stdout io.Writer, stderr io.Writer, nonInteractive bool) prompt.Prompt {
	if nonInteractive {
		return nop.New()
	}

	stdinFile, ok1 := stdin.(terminal.FileReader)
	stdoutFile, ok2 := stdout.(terminal.FileWriter)
	if !ok1 || !ok2 || !isTerminal(stdinFile.Fd()) || !isTerminal(stdoutFile.Fd()) {
		return nop.New()
	}

	return interactive.New(stdinFile, stdoutFile, stderr)
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
