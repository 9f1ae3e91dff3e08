// Package version holds the autorelease build information.
// It has no dependencies and can be imported from any package.
package version

import "fmt"

var (
	// Version information - set via ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// IsDevBuild returns true if running a development build (not a release).
func IsDevBuild() bool {
	return Version == "dev"
}

// String returns a one-line description of the build.
func String() string {
	return fmt.Sprintf("autorelease %s (commit %s, built %s)", Version, Commit, BuildDate)
}
