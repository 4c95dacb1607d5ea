// Package buildinfo exposes the version stamped into the binary.
//
// Release builds set the variables with ldflags:
//
//	go build -ldflags "-X github.com/turtlyscope/turtlyscope/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/turtlyscope/turtlyscope/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/turtlyscope/turtlyscope/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/turtlyscope
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the build metadata reported by the health endpoint.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Get returns the current build metadata.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// String formats the build metadata on three lines.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template is the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (commit %s, built %s)\n", Version, Commit, Date)
}

// UserAgent identifies the server in response headers.
func UserAgent() string {
	return "turtlyscope/" + Version
}
