package model

import (
	"strings"

	"github.com/keboola/pipeline-trigger/internal/pkg/utils/errors"
)

// Variable is a pipeline variable sent with the pipeline creation request.
type Variable struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value"`
}

// Variables keeps the order in which the variables were discovered.
type Variables []Variable

// ParseVariable parses the "KEY=VALUE" notation, the value may contain "=".
func ParseVariable(str string) (Variable, error) {
	key, value, found := strings.Cut(str, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return Variable{}, errors.Errorf(`invalid variable "%s", expected format "KEY=VALUE"`, str)
	}
	return Variable{Key: key, Value: value}, nil
}

// Set updates value of an existing key in place or appends a new variable.
func (v Variables) Set(key, value string) Variables {
	for i := range v {
		if v[i].Key == key {
			v[i].Value = value
			return v
		}
	}
	return append(v, Variable{Key: key, Value: value})
}

// Merge sets all variables from the other list, in order.
func (v Variables) Merge(other Variables) Variables {
	for _, item := range other {
		v = v.Set(item.Key, item.Value)
	}
	return v
}

func (v Variables) Get(key string) (string, bool) {
	for _, item := range v {
		if item.Key == key {
			return item.Value, true
		}
	}
	return "", false
}

func (v Variables) Keys() []string {
	out := make([]string, 0, len(v))
	for _, item := range v {
		out = append(out, item.Key)
	}
	return out
}
