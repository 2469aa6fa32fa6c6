package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	apperrors "github.com/agbru/natcalc/internal/errors"
	"github.com/agbru/natcalc/internal/format"
	"github.com/agbru/natcalc/internal/metrics"
	"github.com/agbru/natcalc/internal/orchestration"
	"github.com/agbru/natcalc/internal/ui"
)

// CLIProgressReporter implements orchestration.ProgressReporter for CLI output.
// It wraps the DisplayProgress function to provide a spinner and progress bar
// display during verification.
type CLIProgressReporter struct{}

// Verify that CLIProgressReporter implements orchestration.ProgressReporter.
var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress displays a spinner and progress bar for running checkers.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numCheckers int, out io.Writer) {
	DisplayProgress(wg, progressChan, numCheckers, out)
}

// CLIResultPresenter implements orchestration.ResultPresenter for CLI output.
type CLIResultPresenter struct{}

var _ orchestration.ResultPresenter = CLIResultPresenter{}

// PresentComparisonTable displays the verification summary with checker
// names, trial counts, durations and status. Uses manual padding to
// correctly handle ANSI color codes.
func (CLIResultPresenter) PresentComparisonTable(results []orchestration.CheckResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Verification Summary ---\n")

	const nameHeader, trialsHeader, durationHeader = "Algorithm", "Trials", "Duration"
	maxNameLen, maxTrialsLen, maxDurationLen := len(nameHeader), len(trialsHeader), len(durationHeader)
	for _, res := range results {
		maxNameLen = max(maxNameLen, len(res.Name))
		maxTrialsLen = max(maxTrialsLen, len(trialsCell(res)))
		maxDurationLen = max(maxDurationLen, len(durationCell(res.Duration)))
	}

	fmt.Fprintf(out, "%s%s%s%s   %s%s%s%s   %s%s%s%s   %sStatus%s\n",
		ui.ColorUnderline(), nameHeader, ui.ColorReset(), padRight("", maxNameLen-len(nameHeader)),
		ui.ColorUnderline(), trialsHeader, ui.ColorReset(), padRight("", maxTrialsLen-len(trialsHeader)),
		ui.ColorUnderline(), durationHeader, ui.ColorReset(), padRight("", maxDurationLen-len(durationHeader)),
		ui.ColorUnderline(), ui.ColorReset())

	for _, res := range results {
		var status string
		if res.Err != nil {
			status = fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
		} else {
			status = fmt.Sprintf("%s✅ Success%s", ui.ColorGreen(), ui.ColorReset())
		}
		trials, duration := trialsCell(res), durationCell(res.Duration)
		fmt.Fprintf(out, "%s%s%s%s   %s%s   %s%s%s%s   %s\n",
			ui.ColorCyan(), res.Name, ui.ColorReset(), padRight("", maxNameLen-len(res.Name)),
			trials, padRight("", maxTrialsLen-len(trials)),
			ui.ColorYellow(), duration, ui.ColorReset(), padRight("", maxDurationLen-len(duration)),
			status)
	}
}

func trialsCell(res orchestration.CheckResult) string {
	return fmt.Sprintf("%d/%d", res.Passed, res.Trials)
}

func durationCell(d time.Duration) string { return format.FormatTiming(d) }

// padRight returns s followed by length spaces.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}

// HandleError handles verification errors and returns an appropriate exit
// code.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return apperrors.HandleCalculationError(err, duration, out, CLIColorProvider{})
}

// CLIColorProvider supplies the current theme's colors to the error handler.
type CLIColorProvider struct{}

var _ apperrors.ColorProvider = CLIColorProvider{}

func (CLIColorProvider) Red() string    { return ui.ColorRed() }
func (CLIColorProvider) Yellow() string { return ui.ColorYellow() }
func (CLIColorProvider) Reset() string  { return ui.ColorReset() }

// DisplayMemoryStats shows the allocation activity of an operation.
func DisplayMemoryStats(delta metrics.MemoryDelta, out io.Writer) {
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Total allocated: %s\n", format.FormatBytes(delta.AllocatedBytes))
	fmt.Fprintf(out, "  Allocations:     %s\n", format.FormatNumberString(fmt.Sprint(delta.Allocations)))
	fmt.Fprintf(out, "  GC cycles:       %d\n", delta.GCCycles)
	if delta.GCPause > 0 {
		fmt.Fprintf(out, "  GC pause total:  %s\n", format.FormatExecutionDuration(delta.GCPause))
	}
}
