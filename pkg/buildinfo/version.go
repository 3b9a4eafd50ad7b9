// Package buildinfo carries the version stamped into release binaries.
//
// Release builds overwrite the defaults with ldflags:
//
//	go build -ldflags "-X github.com/gridlock-dev/gridlock/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/gridlock-dev/gridlock/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/gridlock-dev/gridlock/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// A plain go build reports "dev".
package buildinfo

import "fmt"

var (
	// Version is the semantic version of the binary.
	Version = "dev"
	// Commit is the git revision the binary was built from.
	Commit = "none"
	// Date is the UTC build timestamp.
	Date = "unknown"
)

// String formats the build information for logs.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template is the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
