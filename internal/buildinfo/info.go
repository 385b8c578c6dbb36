// Package buildinfo carries version metadata stamped in at link time:
//
//	go build -ldflags "-X github.com/cleared-dev/txparse/internal/buildinfo.Version=v0.3.0"
package buildinfo

import "fmt"

var (
	// Version will be set via ldflags during build.
	Version = "dev"
	// Commit will be set via ldflags during build.
	Commit = "none"
	// Date will be set via ldflags during build.
	Date = "unknown"
)

// Summary is the one-line version string shown by --version.
func Summary() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
