package app

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/natcalc/internal/limbs"
)

// Build information, set with -ldflags "-X github.com/agbru/natcalc/internal/app.Version=...".
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// HasVersionFlag reports whether args request the version banner.
func HasVersionFlag(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "-version", "--version", "-V":
			return true
		}
	}
	return false
}

// PrintVersion writes the version banner.
func PrintVersion(out io.Writer) {
	fmt.Fprintf(out, "natcalc %s (commit %s, built %s)\n", Version, Commit, BuildDate)
	fmt.Fprintf(out, "%s %s/%s, %d-bit limbs\n", runtime.Version(), runtime.GOOS, runtime.GOARCH, limbs.W)
}
