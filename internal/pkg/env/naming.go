package env

import (
	"github.com/iancoleman/strcase"

	"github.com/keboola/pipeline-trigger/internal/pkg/utils/errors"
)

const Prefix = "PTRIGGER_"

// NamingConvention converts a flag name to the ENV variable name.
type NamingConvention struct {
	prefix string
}

func NewNamingConvention(prefix string) *NamingConvention {
	return &NamingConvention{prefix: prefix}
}

// FlagToEnv converts flag name to ENV variable name
// for example "request-timeout" -> "PTRIGGER_REQUEST_TIMEOUT".
func (n *NamingConvention) FlagToEnv(flagName string) string {
	if len(flagName) == 0 {
		panic(errors.New("flag name cannot be empty"))
	}
	return n.prefix + strcase.ToScreamingSnake(flagName)
}

// Files returns names of the env files, a file listed earlier takes precedence.
func Files() []string {
	// https://github.com/bkeepers/dotenv#what-other-env-files-can-i-use
	return []string{
		".env.local",
		".env",
	}
}
