// Package buildinfo carries the version stamp injected at build time.
package buildinfo

import (
	"fmt"
	"runtime"
)

// Set via -ldflags at release build time.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Short returns just the version string.
func Short() string {
	return Version
}

// Info returns the full multi-line version report.
func Info() string {
	return fmt.Sprintf("isopin version %s\n  commit: %s\n  built: %s\n  go: %s\n  os/arch: %s/%s",
		Version, Commit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
