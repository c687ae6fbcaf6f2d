package env

import (
	"strings"

	"github.com/keboola/pipeline-trigger/internal/pkg/model"
)

// DefaultVariablePrefix marks ENV variables passed to the pipeline.
const DefaultVariablePrefix = Prefix + "VAR_"

// ExtractVariables returns pipeline variables from ENVs with the prefix.
// The prefix is stripped once, the discovery order is kept, other keys are ignored.
func ExtractVariables(envs Provider, prefix string) model.Variables {
	out := make(model.Variables, 0)
	if prefix == "" {
		return out
	}
	for _, key := range envs.Keys() {
		if !strings.HasPrefix(key, prefix) || len(key) == len(prefix) {
			continue
		}
		value, _ := envs.Lookup(key)
		out = out.Set(strings.TrimPrefix(key, prefix), value)
	}
	return out
}

// keysOrder returns keys from the .env content in the order of the lines.
func keysOrder(str string) []string {
	var out []string
	for _, line := range strings.Split(str, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		if index := strings.IndexAny(line, "=:"); index > 0 {
			out = append(out, strings.TrimSpace(line[:index]))
		}
	}
	return out
}
