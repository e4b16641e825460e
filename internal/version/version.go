// Package version holds build information for the function app.
package version

import "runtime"

// Overridable at build time:
// go build -ldflags "-X functions-sample-api/internal/version.Version=1.2.0 -X functions-sample-api/internal/version.Commit=abc123"
var (
	Version = "1.0.0"
	Commit  = "unknown"
)

// Info returns the version, with a short commit hash when one was stamped
func Info() string {
	if Commit != "unknown" && len(Commit) > 7 {
		return Version + " (" + Commit[:7] + ")"
	}
	return Version
}

// Runtime returns the version string of the hosting Go runtime
func Runtime() string {
	return runtime.Version()
}
