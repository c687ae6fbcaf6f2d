// Package build contains information injected by the linker, for example:
// go build -ldflags "-X github.com/keboola/pipeline-trigger/internal/pkg/build.BuildVersion=v1.0.0".
package build

// nolint: gochecknoglobals
var (
	BuildVersion = "dev"
	GitCommit    = "-"
	BuildDate    = "-"
)
