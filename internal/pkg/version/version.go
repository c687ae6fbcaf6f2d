package version

import (
	"runtime"

	"github.com/keboola/pipeline-trigger/internal/pkg/build"
)

const DevVersionValue = "dev"

// Version for the version command and the --version flag.
func Version() string {
	return "Version:    " + build.BuildVersion + "\n" +
		"Git commit: " + build.GitCommit + "\n" +
		"Build date: " + build.BuildDate + "\n" +
		"Go version: " + runtime.Version() + "\n" +
		"Os/Arch:    " + runtime.GOOS + "/" + runtime.GOARCH + "\n"
}

// IsDev returns true if the binary was built without the version.
func IsDev() bool {
	return build.BuildVersion == DevVersionValue
}
