// Package config defines the natcalc configuration: the algorithm threshold
// table shared by the arithmetic kernels, and the application configuration
// parsed from command-line flags and NATCALC_ environment variables.
package config

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	apperrors "github.com/agbru/natcalc/internal/errors"
)

// EnvPrefix is the prefix of every environment variable read by natcalc.
const EnvPrefix = "NATCALC_"

// Commands understood by the CLI.
const (
	CommandMul    = "mul"
	CommandDiv    = "div"
	CommandVerify = "verify"
	CommandTune   = "tune"
)

// Default values for the application flags.
const (
	DefaultN       = 64
	DefaultM       = 64
	DefaultTrials  = 16
	DefaultAlgo    = "all"
	DefaultTimeout = 5 * time.Minute
)

// AppConfig aggregates the configuration parameters of one natcalc run.
type AppConfig struct {
	// Command is the sub-command to execute (mul, div, verify, tune).
	Command string
	// Operands holds the positional decimal operands of mul and div.
	Operands []string
	// N and M are the operand lengths in limbs used by verify.
	N, M int
	// Trials is the number of random operand pairs checked per algorithm.
	Trials int
	// Seed makes verify runs reproducible. Zero picks a time-based seed.
	Seed int64
	// Algo restricts verify to one algorithm name, or "all".
	Algo string
	// Timeout bounds the whole run.
	Timeout time.Duration
	// Verbose enables debug logging and per-algorithm details.
	Verbose bool
	// Quiet suppresses everything but the result.
	Quiet bool
	// NoColor disables ANSI colors in the output.
	NoColor bool
	// TUI runs verify in the interactive dashboard.
	TUI bool
	// OutputFile, when set, receives the result of mul and div.
	OutputFile string
	// LogLevel is the zerolog level name (debug, info, warn, error).
	LogLevel string
	// MetricsAddr, when set, serves Prometheus metrics on this address.
	MetricsAddr string
	// CalibrationProfile is the path of the calibration profile to load, or
	// to write with tune.
	CalibrationProfile string
	// Thresholds holds user overrides; zero entries are resolved later from
	// the calibration profile or the hardware estimate.
	Thresholds Thresholds
}

// ParseConfig parses the command line into an AppConfig.
//
// The first argument may name the command (mul, div, verify, tune); flags may
// precede or follow it. Remaining positional arguments become the operands.
// Environment variables fill every flag that was not set explicitly.
//
// Parameters:
//   - programName: The program name used in usage messages.
//   - args: The command-line arguments, without the program name.
//   - errorWriter: Destination of usage and parse errors.
//
// Returns:
//   - AppConfig: The parsed configuration.
//   - error: flag.ErrHelp when help was requested, a ConfigError otherwise.
func ParseConfig(programName string, args []string, errorWriter io.Writer) (AppConfig, error) {
	config := AppConfig{Command: CommandVerify}
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		config.Command = args[0]
		args = args[1:]
	}

	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	fs.Usage = func() {
		fmt.Fprintf(errorWriter, "Usage: %s [mul A B | div A B | verify | tune] [flags]\n\nFlags:\n", programName)
		fs.PrintDefaults()
	}

	fs.IntVar(&config.N, "n", DefaultN, "Length in limbs of the first verify operand.")
	fs.IntVar(&config.M, "m", DefaultM, "Length in limbs of the second verify operand.")
	fs.IntVar(&config.Trials, "trials", DefaultTrials, "Random operand pairs per algorithm.")
	fs.Int64Var(&config.Seed, "seed", 0, "Random seed for verify (0 = time based).")
	fs.StringVar(&config.Algo, "algo", DefaultAlgo, "Algorithm to verify ('all' or a name such as toom33, fft).")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum run time.")
	fs.BoolVar(&config.Verbose, "v", false, "Verbose output.")
	fs.BoolVar(&config.Verbose, "verbose", false, "Verbose output.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Print the result only.")
	fs.BoolVar(&config.Quiet, "q", false, "Print the result only (shorthand).")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output.")
	fs.BoolVar(&config.TUI, "tui", false, "Show verify in the interactive dashboard.")
	fs.StringVar(&config.OutputFile, "output", "", "Write the result of mul or div to this file.")
	fs.StringVar(&config.OutputFile, "o", "", "Write the result to this file (shorthand).")
	fs.StringVar(&config.LogLevel, "log-level", "info", "Log level (debug, info, warn, error).")
	fs.StringVar(&config.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090).")
	fs.StringVar(&config.CalibrationProfile, "calibration-profile", "", "Calibration profile path (default ~/.natcalc_calibration.json).")
	fs.StringVar(&config.CalibrationProfile, "profile", "", "Alias of -calibration-profile.")
	fs.IntVar(&config.Thresholds.Toom22, "toom22", 0, "Toom-22 threshold in limbs (0 = auto).")
	fs.IntVar(&config.Thresholds.Toom33, "toom33", 0, "Toom-33 threshold in limbs (0 = auto).")
	fs.IntVar(&config.Thresholds.Toom44, "toom44", 0, "Toom-44 threshold in limbs (0 = auto).")
	fs.IntVar(&config.Thresholds.Toom6h, "toom6h", 0, "Toom-6h threshold in limbs (0 = auto).")
	fs.IntVar(&config.Thresholds.Toom8h, "toom8h", 0, "Toom-8h threshold in limbs (0 = auto).")
	fs.IntVar(&config.Thresholds.FFT, "fft", 0, "FFT threshold in limbs (0 = auto).")
	fs.IntVar(&config.Thresholds.DivDC, "div-dc", 0, "Divide-and-conquer division threshold in limbs (0 = auto).")
	fs.IntVar(&config.Thresholds.DivDCApprox, "div-dc-approx", 0, "Approximate divide-and-conquer threshold in limbs (0 = auto).")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	// Flags may also follow the operands: natcalc mul 12 34 -v.
	var operands []string
	for rest := fs.Args(); len(rest) > 0; rest = fs.Args() {
		if len(rest[0]) > 1 && rest[0][0] == '-' {
			if err := fs.Parse(rest); err != nil {
				return AppConfig{}, err
			}
			continue
		}
		operands = append(operands, rest[0])
		if err := fs.Parse(rest[1:]); err != nil {
			return AppConfig{}, err
		}
	}
	config.Operands = operands

	applyEnvOverrides(&config, fs)

	if err := config.Validate(); err != nil {
		fs.Usage()
		return AppConfig{}, err
	}
	return config, nil
}

// Validate checks the semantic consistency of the configuration. Threshold
// overrides are checked after resolution, once the table is complete.
//
// Returns:
//   - error: A ConfigError describing the first problem found, or nil.
func (c AppConfig) Validate() error {
	switch c.Command {
	case CommandMul, CommandDiv:
		if len(c.Operands) != 2 {
			return apperrors.NewConfigError("%s expects two decimal operands, got %d", c.Command, len(c.Operands))
		}
	case CommandVerify, CommandTune:
		if len(c.Operands) != 0 {
			return apperrors.NewConfigError("%s takes no operands, got %q", c.Command, c.Operands)
		}
	default:
		return apperrors.NewConfigError("unknown command %q", c.Command)
	}
	if c.N < 1 || c.M < 1 {
		return apperrors.NewConfigError("operand lengths must be positive (n=%d, m=%d)", c.N, c.M)
	}
	if c.Trials < 1 {
		return apperrors.NewConfigError("trials must be positive, got %d", c.Trials)
	}
	if c.TUI && c.Command != CommandVerify {
		return apperrors.NewConfigError("-tui only applies to verify")
	}
	if c.TUI && c.Quiet {
		return apperrors.NewConfigError("-tui and -quiet are mutually exclusive")
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout must be strictly positive")
	}
	for _, v := range []int{c.Thresholds.Toom22, c.Thresholds.Toom33, c.Thresholds.Toom44,
		c.Thresholds.Toom6h, c.Thresholds.Toom8h, c.Thresholds.FFT, c.Thresholds.DivDC, c.Thresholds.DivDCApprox} {
		if v < 0 {
			return apperrors.NewConfigError("threshold values cannot be negative: %d", v)
		}
	}
	return nil
}
