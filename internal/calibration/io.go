package calibration

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/agbru/natcalc/internal/config"
	"github.com/agbru/natcalc/internal/format"
	"github.com/agbru/natcalc/internal/ui"
)

// printCalibrationResults formats and prints the measurements of one
// parameter, marking the chosen crossover.
func printCalibrationResults(out io.Writer, p Parameter, res ParameterResult) {
	lower, upper := p.Lower.String(), p.Upper.String()
	if p.kind != kindMul {
		lower, upper = "schoolbook", "divide&conquer"
	}
	fmt.Fprintf(out, "\n--- %s: %s vs %s ---\n", p.Name, lower, upper)
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "  %sLimbs%s\t%s%s%s\t%s%s%s\n",
		ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), lower, ui.ColorReset(),
		ui.ColorUnderline(), upper, ui.ColorReset())
	fmt.Fprintf(tw, "  %s\t%s\t%s\n", strings.Repeat("─", 8), strings.Repeat("─", 14), strings.Repeat("─", 14))
	for _, m := range res.Measurements {
		if m.Err != "" {
			fmt.Fprintf(tw, "  %s%d%s\t%sN/A%s\t%sN/A%s\n", ui.ColorCyan(), m.Size, ui.ColorReset(),
				ui.ColorRed(), ui.ColorReset(), ui.ColorRed(), ui.ColorReset())
			continue
		}
		highlight := ""
		if res.Crossed && m.Size == res.Value {
			highlight = fmt.Sprintf(" %s(Crossover)%s", ui.ColorGreen(), ui.ColorReset())
		}
		fmt.Fprintf(tw, "  %s%d%s\t%s%s%s\t%s%s%s%s\n",
			ui.ColorCyan(), m.Size, ui.ColorReset(),
			ui.ColorYellow(), formatTiming(m.Lower), ui.ColorReset(),
			ui.ColorYellow(), formatTiming(m.Upper), ui.ColorReset(), highlight)
	}
	tw.Flush()
	if !res.Crossed {
		fmt.Fprintf(out, "  %sno crossover in range, using %d%s\n", ui.ColorGrey(), res.Value, ui.ColorReset())
	}
}

func formatTiming(d time.Duration) string { return format.FormatTiming(d) }

// printCalibrationOutput prints the resulting threshold table.
func printCalibrationOutput(th config.Thresholds, out io.Writer) {
	fmt.Fprintf(out, "\n%sCalibrated thresholds%s (limbs):\n", ui.ColorGreen(), ui.ColorReset())
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, p := range Parameters() {
		fmt.Fprintf(tw, "  %s\t%s%d%s\n", p.Name, ui.ColorYellow(), p.get(th), ui.ColorReset())
	}
	tw.Flush()
}
