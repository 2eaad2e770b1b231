// Package version records build identity for batchtop binaries.
package version

// Values are overridden at build time via -ldflags.
var (
	// VersionTag is the semantic version of this build.
	VersionTag = "0.1.0-dev"

	// Commit is the git commit the binary was built from.
	Commit = "unknown"
)
