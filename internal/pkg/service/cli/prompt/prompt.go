// Package prompt defines interactive questions, see the interactive and nop implementations.
package prompt

import (
	"strings"

	"github.com/AlecAivazis/survey/v2/core"

	"github.com/keboola/pipeline-trigger/internal/pkg/utils/errors"
)

// Prompt asks questions, the bool result is false if the question was not answered.
// Err distinguishes a failure of the terminal from an interrupted question.
type Prompt interface {
	IsInteractive() bool
	Printf(format string, a ...any)
	Select(s *Select) (string, bool)
	SelectIndex(s *SelectIndex) (int, bool)
	MultiSelectIndex(s *MultiSelectIndex) ([]int, bool)
	Ask(q *Question) (string, bool)
	// Err returns the first error of the terminal, an interrupted question is not an error.
	Err() error
}

type Question struct {
	Label       string
	Description string
	Help        string
	Default     string
	Validator   func(val any) error
	Hidden      bool
}

type Select struct {
	Label       string
	Description string
	Help        string
	Options     []string
	Default     string
	UseDefault  bool
	Validator   func(val any) error
}

type SelectIndex struct {
	Label       string
	Description string
	Help        string
	Options     []string
	Default     int
	UseDefault  bool
	Validator   func(val any) error
}

type MultiSelectIndex struct {
	Label       string
	Description string
	Help        string
	Options     []string
	Default     []int
	Validator   func(val any) error
}

func ValueRequired(val any) error {
	str, _ := val.(string)
	if strings.TrimSpace(str) == "" {
		return errors.New("value is required")
	}
	return nil
}

func AtLeastOneRequired(val any) error {
	if v, ok := val.([]core.OptionAnswer); ok && len(v) > 0 {
		return nil
	}
	return errors.New("at least one value is required")
}
