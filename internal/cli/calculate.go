package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/natcalc/internal/config"
	"github.com/agbru/natcalc/internal/limbs"
	"github.com/agbru/natcalc/internal/orchestration"
	"github.com/agbru/natcalc/internal/ui"
)

// PrintExecutionConfig displays the current execution configuration: the
// command, timeout, environment details and the resolved thresholds.
//
// Parameters:
//   - cfg: The application configuration.
//   - th: The resolved threshold table.
//   - out: The writer for standard output.
func PrintExecutionConfig(cfg config.AppConfig, th config.Thresholds, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Running %s%s%s with a timeout of %s%s%s.\n",
		ui.ColorMagenta(), cfg.Command, ui.ColorReset(), ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s, %d-bit limbs, CPU features: %s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(), ui.ColorCyan(), runtime.Version(), ui.ColorReset(),
		limbs.W, limbs.DetectCPUFeatures())
	fmt.Fprintf(out, "Thresholds (limbs): %s%s%s.\n", ui.ColorCyan(), th, ui.ColorReset())
}

// PrintExecutionMode displays which checkers a verify run executes.
//
// Parameters:
//   - checkers: The checkers that will be executed.
//   - cfg: The application configuration (sizes, trials and seed).
//   - out: The writer for standard output.
func PrintExecutionMode(checkers []orchestration.Checker, cfg config.AppConfig, out io.Writer) {
	var modeDesc string
	if len(checkers) > 1 {
		modeDesc = fmt.Sprintf("Parallel verification of %d checkers", len(checkers))
	} else {
		modeDesc = fmt.Sprintf("Verification of %s%s%s", ui.ColorGreen(), checkers[0].Name(), ui.ColorReset())
	}
	fmt.Fprintf(out, "Execution mode: %s on %d×%d limbs, %d trials each (seed %d).\n",
		modeDesc, cfg.N, cfg.M, cfg.Trials, cfg.Seed)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
