// Package version carries build metadata injected via ldflags.
package version

import (
	"fmt"
	"runtime"
	"strings"
)

// These variables are set via ldflags during build.
var (
	Version   = "dev"
	Commit    = "none"
	Date      = "unknown"
	GoVersion = runtime.Version()
)

const shortCommitLen = 7

// Platform returns GOOS/GOARCH of the running binary.
func Platform() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}

// Summary is the version plus the short commit when known.
func Summary() string {
	v := Version
	if v == "" {
		v = "dev"
	}
	if Commit == "" || Commit == "none" {
		return v
	}
	short := Commit
	if len(short) > shortCommitLen {
		short = short[:shortCommitLen]
	}
	return fmt.Sprintf("%s (%s)", v, short)
}

// Details renders the multi-line block printed by the version command.
func Details(program string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s version %s\n", program, Summary())
	fmt.Fprintf(&sb, "  commit: %s\n", Commit)
	fmt.Fprintf(&sb, "  built: %s\n", Date)
	fmt.Fprintf(&sb, "  go: %s\n", GoVersion)
	fmt.Fprintf(&sb, "  platform: %s\n", Platform())
	return sb.String()
}
