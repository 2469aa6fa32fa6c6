// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//     Examples: [DisplayResult], [DisplayQuietResult], [DisplayProgress].
//
//   - Format* functions return a formatted string without performing I/O.
//     Examples: [FormatValue].
//
//   - Write* functions write data to files on the filesystem.
//     Examples: [WriteResultToFile].

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/agbru/natcalc/internal/format"
	"github.com/agbru/natcalc/internal/natural"
	"github.com/agbru/natcalc/internal/ui"
)

// NamedValue is one labelled number of an operation result.
type NamedValue struct {
	Label string
	Value natural.Natural
}

// OperationResult is the outcome of a mul or div command.
type OperationResult struct {
	// Expression describes the operation, e.g. "A × B".
	Expression string
	// Values holds the results (product, or quotient and remainder).
	Values []NamedValue
	// Algorithm names the top-level multiplication algorithm, if any.
	Algorithm string
	// Duration is the time taken by the operation.
	Duration time.Duration
}

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path to save the result (empty for no file output).
	OutputFile string
	// Quiet mode prints the bare values.
	Quiet bool
	// Verbose shows the full values instead of truncating them.
	Verbose bool
}

// FormatValue renders x in decimal. Unless full is set, values longer than
// TruncationLimit digits keep only DisplayEdges digits at each end; shorter
// values get thousands separators.
func FormatValue(x natural.Natural, full bool) string {
	s := x.String()
	if full {
		return s
	}
	if len(s) > TruncationLimit {
		return fmt.Sprintf("%s...%s (truncated, %s digits)",
			s[:DisplayEdges], s[len(s)-DisplayEdges:], format.FormatNumberString(fmt.Sprint(len(s))))
	}
	return format.FormatNumberString(s)
}

// DisplayResult prints a labelled, colorized result.
//
// Parameters:
//   - res: The operation result.
//   - verbose: Print full values and size details.
//   - out: The output writer.
func DisplayResult(res OperationResult, verbose bool, out io.Writer) {
	fmt.Fprintf(out, "\n--- Result ---\n")
	fmt.Fprintf(out, "Operation: %s%s%s\n", ui.ColorMagenta(), res.Expression, ui.ColorReset())
	if res.Algorithm != "" {
		fmt.Fprintf(out, "Algorithm: %s%s%s\n", ui.ColorGreen(), res.Algorithm, ui.ColorReset())
	}
	fmt.Fprintf(out, "Calculation time: %s%s%s\n", ui.ColorYellow(), format.FormatExecutionDuration(res.Duration), ui.ColorReset())
	for _, v := range res.Values {
		if verbose {
			fmt.Fprintf(out, "%s: %d limbs, %d bits\n", v.Label, v.Value.LimbCount(), v.Value.BitLen())
		}
		fmt.Fprintf(out, "%s = %s%s%s\n", v.Label, ui.ColorCyan(), FormatValue(v.Value, verbose), ui.ColorReset())
	}
	if !verbose {
		for _, v := range res.Values {
			if len(v.Value.String()) > TruncationLimit {
				fmt.Fprintf(out, "%sTip: use -v to print the full value, or -o FILE to save it.%s\n", ui.ColorGrey(), ui.ColorReset())
				break
			}
		}
	}
}

// DisplayQuietResult prints each value on its own line with no decoration.
func DisplayQuietResult(res OperationResult, out io.Writer) {
	for _, v := range res.Values {
		fmt.Fprintln(out, v.Value.String())
	}
}

// WriteResultToFile writes an operation result to cfg.OutputFile, creating
// parent directories as needed. It does nothing when no file is configured.
func WriteResultToFile(res OperationResult, cfg OutputConfig) (err error) {
	if cfg.OutputFile == "" {
		return nil
	}

	dir := filepath.Dir(cfg.OutputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(cfg.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	fmt.Fprintf(file, "# natcalc result\n")
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "# Operation: %s\n", res.Expression)
	if res.Algorithm != "" {
		fmt.Fprintf(file, "# Algorithm: %s\n", res.Algorithm)
	}
	fmt.Fprintf(file, "# Duration: %s\n\n", res.Duration)
	for _, v := range res.Values {
		fmt.Fprintf(file, "%s =\n%s\n", v.Label, v.Value.String())
	}
	return nil
}

// DisplayResultWithConfig displays a result with the given output
// configuration and saves it when a file is configured.
func DisplayResultWithConfig(res OperationResult, cfg OutputConfig, out io.Writer) error {
	if cfg.Quiet {
		DisplayQuietResult(res, out)
	} else {
		DisplayResult(res, cfg.Verbose, out)
	}

	if cfg.OutputFile != "" {
		if err := WriteResultToFile(res, cfg); err != nil {
			return err
		}
		if !cfg.Quiet {
			fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
				ui.ColorGreen(), ui.ColorCyan(), cfg.OutputFile, ui.ColorReset())
		}
	}
	return nil
}
