// Package version carries build metadata stamped in through -ldflags.
package version

var (
	// Version is the semantic version of the build.
	Version = "0.1.0"

	// BuildTime is the UTC time the binary was built.
	BuildTime = "unknown"

	// GitCommit is the commit hash the binary was built from.
	GitCommit = "unknown"
)
