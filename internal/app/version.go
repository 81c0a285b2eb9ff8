package app

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
)

// Build information, set with -ldflags "-X github.com/agbru/gctrace/internal/app.Version=...".
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// HasVersionFlag reports whether args ask for the version. Arguments after
// "--" are not considered.
func HasVersionFlag(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "--":
			return false
		case "-V", "--version", "-version":
			return true
		}
	}
	return false
}

// PrintVersion writes the version banner to w.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "gctrace %s (commit %s, built %s) %s %s/%s\n",
		version(), Commit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// version prefers the linker-injected Version and falls back to the module
// version recorded by "go install".
func version() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}
