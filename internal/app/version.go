package app

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/wideint/internal/sysmon"
)

// Build information, set with -ldflags "-X github.com/agbru/wideint/internal/app.Version=...".
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// HasVersionFlag reports whether args ask for the version. It is checked
// before flag parsing so that it works with otherwise invalid arguments.
func HasVersionFlag(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "-version", "--version", "-V":
			return true
		case "--":
			return false
		}
	}
	return false
}

// PrintVersion writes the build information and the processor features.
func PrintVersion(out io.Writer) {
	fmt.Fprintf(out, "wideint %s\n", Version)
	fmt.Fprintf(out, "  commit:  %s\n", Commit)
	fmt.Fprintf(out, "  built:   %s\n", BuildDate)
	fmt.Fprintf(out, "  go:      %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(out, "  cpu:     %s\n", sysmon.CPUFeatures())
}
