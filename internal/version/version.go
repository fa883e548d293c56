// Package version carries the build metadata stamped into release binaries.
// The fields are injected through -ldflags at build time, e.g.
//
//	go build -ldflags "-X github.com/Xichen96/sonic-mgmt/internal/version.Version=v1.2.0"
//
// and stay empty on plain `go build` runs, in which case callers fall back
// to querying git directly.
package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is the release version, usually the git tag.
	Version string

	// GitCommit is the hash of the commit the binary was built from.
	GitCommit string

	// BuildTime is the UTC timestamp of the build.
	BuildTime string
)

// IsSet reports whether any build metadata was stamped in.
func IsSet() bool {
	return Version != "" || GitCommit != ""
}

// Short returns the one-line form printed by the version command.
func Short() string {
	return fmt.Sprintf("%s (%s)", Version, BuildTime)
}

// VersionInfo returns the full build metadata for troubleshooting.
func VersionInfo() string {
	return fmt.Sprintf("Version: %s, Git Commit: %s, Build Time: %s, Go Version: %s",
		Version, GitCommit, BuildTime, runtime.Version())
}
