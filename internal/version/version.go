// Package version exposes build-time version information.
// Values are overridden at build time via -ldflags.
package version

var (
	// Version is the semantic version of the build.
	Version = "dev"

	// Commit is the git commit hash the binary was built from.
	Commit = "unknown"

	// BuildDate is the UTC timestamp of the build.
	BuildDate = "unknown"
)
