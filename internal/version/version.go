// Package version exposes build metadata for the scanner binaries.
//
// The values default to development placeholders and are overridden by the
// release build via -ldflags, e.g.
//
//	go build -ldflags "-X .../internal/version.GitCommit=$(git rev-parse HEAD)"
package version

var (
	// Version is the scanner release version.
	Version = "0.1.0"

	// BuildTime is the UTC timestamp of the release build.
	BuildTime = "unknown"

	// GitCommit identifies the source revision the binary was built from.
	GitCommit = "unknown"
)
