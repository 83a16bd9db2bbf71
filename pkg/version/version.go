// Package version describes the build of the agent binary.
package version

import "fmt"

var (
	// GitVersion is the git version of the build. It is set by the linker.
	GitVersion = "unknown"
	// GitCommit is the git commit hash of the build. It is set by the linker.
	GitCommit = "unknown"
	// BuildDate is the RFC 3339 build time. It is set by the linker.
	BuildDate = "unknown"
)

// String is the version line shown by --version and logged when an agent starts.
func String() string {
	return fmt.Sprintf("gitVersion=%s, gitCommit=%s, buildDate=%s", GitVersion, GitCommit, BuildDate)
}
