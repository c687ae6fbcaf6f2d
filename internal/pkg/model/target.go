package model

import (
	"strings"

	"github.com/keboola/pipeline-trigger/internal/pkg/utils/errors"
)

const targetSeparator = "@"

// Target is a (project, ref) pair for which a pipeline is triggered.
type Target struct {
	ProjectID string `json:"project" yaml:"project" validate:"required"`
	Ref       string `json:"ref" yaml:"ref" validate:"required"`
}

type Targets []Target

// ParseTarget parses the "project@ref" notation, for example "group/app@main".
// A project path cannot contain "@", so the ref is everything after the first one.
func ParseTarget(str string) (Target, error) {
	str = strings.TrimSpace(str)
	index := strings.Index(str, targetSeparator)
	if index <= 0 || index == len(str)-1 {
		return Target{}, errors.Errorf(`invalid target "%s", expected format "project@ref"`, str)
	}
	return Target{ProjectID: str[:index], Ref: str[index+1:]}, nil
}

func (t Target) String() string {
	return t.ProjectID + targetSeparator + t.Ref
}

func (v Targets) Strings() []string {
	out := make([]string, 0, len(v))
	for _, t := range v {
		out = append(out, t.String())
	}
	return out
}
