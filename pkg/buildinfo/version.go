// Package buildinfo carries the version stamped into release builds.
//
// Release builds set the variables through ldflags:
//
//	go build -ldflags "-X github.com/exprtex/exprtex/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/exprtex/exprtex/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/exprtex/exprtex/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Unstamped builds from a checkout fall back to the VCS metadata the Go
// toolchain embeds, so "exprtex --version" still identifies the commit.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	// Version is the semantic version, "dev" when unstamped.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

func init() {
	if Commit != "none" && Date != "unknown" {
		return
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if Commit == "none" {
				Commit = s.Value
			}
		case "vcs.time":
			if Date == "unknown" {
				Date = s.Value
			}
		}
	}
}

// Template returns the version template installed on the cobra root
// command.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
