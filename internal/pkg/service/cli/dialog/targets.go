package dialog

import (
	"fmt"

	"github.com/keboola/go-utils/pkg/orderedmap"

	"github.com/keboola/pipeline-trigger/internal/pkg/config"
	"github.com/keboola/pipeline-trigger/internal/pkg/model"
	"github.com/keboola/pipeline-trigger/internal/pkg/service/cli/prompt"
)

type Outcome int

const (
	Selected Outcome = iota
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Selected:
		return "selected"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Selection is the result of SelectTargets, Targets are set only if the Outcome is Selected.
type Selection struct {
	Outcome Outcome
	Targets model.Targets
}

// SelectTargets returns the targets from flags or the config file, if there are any.
// Otherwise, the user selects projects from the config file and a ref for each of them.
// The dialog never exits the process, an interrupted dialog returns the Cancelled outcome
// and a failure of the terminal returns the error.
func (p *Dialogs) SelectTargets(targets model.Targets, projects []config.Project) (Selection, error) {
	if len(targets) > 0 {
		return Selection{Outcome: Selected, Targets: targets}, nil
	}

	if len(projects) == 0 || !p.IsInteractive() {
		return Selection{}, config.NewConfigErrorf(
			`no target specified, please use "--%s" flag, "--%s" and "--%s" flags, or "targets" in the config file`,
			config.FlagTarget, config.FlagProject, config.FlagRef,
		)
	}

	// Options are unique by the label
	options := orderedmap.New()
	for _, project := range projects {
		options.Set(project.String(), project)
	}

	indexes, ok := p.MultiSelectIndex(&prompt.MultiSelectIndex{
		Label:       "Projects",
		Description: "Please select one or more projects.",
		Options:     options.Keys(),
		Validator:   prompt.AtLeastOneRequired,
	})
	if !ok || len(indexes) == 0 {
		return p.cancelled()
	}

	out := make(model.Targets, 0, len(indexes))
	for _, index := range indexes {
		value, _ := options.Get(options.Keys()[index])
		project := value.(config.Project)
		ref, ok := p.selectRef(project)
		if !ok {
			return p.cancelled()
		}
		out = append(out, model.Target{ProjectID: project.ID, Ref: ref})
	}

	return Selection{Outcome: Selected, Targets: out}, nil
}

// cancelled returns the Cancelled outcome, or the error if the terminal failed.
func (p *Dialogs) cancelled() (Selection, error) {
	if err := p.Err(); err != nil {
		return Selection{}, err
	}
	return Selection{Outcome: Cancelled}, nil
}

func (p *Dialogs) selectRef(project config.Project) (string, bool) {
	label := fmt.Sprintf(`Ref of "%s"`, project.ID)
	switch len(project.Refs) {
	case 0:
		return p.Ask(&prompt.Question{
			Label:       label,
			Description: fmt.Sprintf(`Please enter a branch or a tag of the project "%s".`, project),
			Validator:   prompt.ValueRequired,
		})
	case 1:
		return project.Refs[0], true
	default:
		return p.Select(&prompt.Select{
			Label:      label,
			Options:    project.Refs,
			Default:    project.Refs[0],
			UseDefault: true,
		})
	}
}
