// Package vars holds build-time variables populated via the linker (ldflags).
package vars

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"
)

// License of the project
const License = "AGPL-3.0"

var (
	// Name of the project
	Name = "mcstatus"

	// Version of application (git tag) semver/tag, e.g. v1.2.3
	Version = "dev"

	// Commit is the current git commit, full or short git SHA
	Commit = "unknown"

	// BuildTime is the time of start build app, RFC3339 UTC
	BuildTime = time.Unix(0, 0)

	// URL to repository (https)
	URL = "https://github.com/woozymasta/mcstatus"

	_buildTime string
)

// BuildInfo is the body of GET /api/version.
type BuildInfo struct {
	BuildTime   time.Time `json:"build_time,omitempty"`
	Name        string    `json:"name"`
	Version     string    `json:"version"`
	Commit      string    `json:"commit"`
	CommitShort string    `json:"commit_short,omitempty"`
	GoVersion   string    `json:"go_version"`
	URL         string    `json:"url,omitempty"`
	License     string    `json:"license,omitempty"`
}

func init() {
	if _buildTime == "" {
		return
	}

	if t, err := time.Parse(time.RFC3339, _buildTime); err == nil {
		BuildTime = t.UTC()
	} else if sec, err := strconv.ParseInt(_buildTime, 10, 64); err == nil {
		BuildTime = time.Unix(sec, 0).UTC()
	}
}

// Print writes the build information to the standard output.
func Print() {
	fmt.Printf(`name:     %s
url:      %s
file:     %s
version:  %s
commit:   %s
go:       %s
built:    %s
license:  %s
`, Name, URL, os.Args[0], Version, Commit, runtime.Version(), BuildTime, License)
}

// Info returns a BuildInfo struct containing detailed build metadata.
func Info() BuildInfo {
	return BuildInfo{
		Name:        Name,
		Version:     Version,
		Commit:      Commit,
		CommitShort: CommitShort(),
		GoVersion:   runtime.Version(),
		BuildTime:   BuildTime,
		URL:         URL,
		License:     License,
	}
}

// UserAgent identifies the service on outgoing HTTP requests.
func UserAgent() string {
	return Name + "/" + Version + " (+" + URL + ")"
}

// CommitShort returns the first 7 characters of the git commit hash.
func CommitShort() string {
	if len(Commit) > 7 {
		return Commit[:7]
	}

	return Commit
}
