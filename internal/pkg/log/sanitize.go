package log

import (
	"regexp"
	"strings"
)

var secretRegexp = regexp.MustCompile(`(?i)((?:token|authorization)"?\s*[:=]\s*"?(?:bearer\s+)?)[^\s",]+`)

// Sanitize escapes new lines, so the value fits one log line.
func Sanitize(in string) string {
	out := strings.ReplaceAll(in, "\n", `\n`)
	return strings.ReplaceAll(out, "\r", `\n`)
}

// HideSecrets replaces values of tokens and authorization headers by asterisks.
func HideSecrets(in string) string {
	return secretRegexp.ReplaceAllString(in, "${1}*****")
}
