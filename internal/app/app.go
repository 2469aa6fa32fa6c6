// Package app wires the natcalc command line: it resolves the configuration
// and the threshold table, builds the multiplier and divider, and dispatches
// to the mul, div, verify and tune commands.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/natcalc/internal/calibration"
	"github.com/agbru/natcalc/internal/cli"
	"github.com/agbru/natcalc/internal/config"
	"github.com/agbru/natcalc/internal/div"
	apperrors "github.com/agbru/natcalc/internal/errors"
	"github.com/agbru/natcalc/internal/logging"
	"github.com/agbru/natcalc/internal/metrics"
	"github.com/agbru/natcalc/internal/mul"
	"github.com/agbru/natcalc/internal/natural"
	"github.com/agbru/natcalc/internal/ui"
)

// ThresholdSource names where the resolved threshold table came from.
type ThresholdSource string

// Threshold sources, from highest to lowest priority. Flags and environment
// variables override single entries; the rest fill what is left.
const (
	SourceProfile  ThresholdSource = "calibration profile"
	SourceEstimate ThresholdSource = "hardware estimate"
)

// Application represents the natcalc application instance.
type Application struct {
	Config config.AppConfig
	// Thresholds is the fully resolved table used by every kernel.
	Thresholds config.Thresholds
	// ThresholdSource records how the entries not set by the user were filled.
	ThresholdSource ThresholdSource
	ErrWriter       io.Writer

	logger  zerolog.Logger
	tracer  trace.Tracer
	metrics *metrics.Metrics
	divider *div.Divider
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithMetrics sets the metrics sink; by default a fresh registry is used.
func WithMetrics(m *metrics.Metrics) AppOption {
	return func(a *Application) { a.metrics = m }
}

// WithTracer sets the tracer for verify and tune spans.
func WithTracer(tr trace.Tracer) AppOption {
	return func(a *Application) { a.tracer = tr }
}

// New creates a new Application instance by parsing command-line arguments.
// args[0] is the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}

	programName := "natcalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	app.Config = cfg

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid log level %q", cfg.LogLevel)
	}
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}
	app.logger = logging.NewConsole(errWriter, level, cfg.NoColor)

	if app.tracer == nil {
		app.tracer = otel.Tracer("github.com/agbru/natcalc")
	}
	if app.metrics == nil {
		app.metrics = metrics.NewMetrics()
	}

	app.Thresholds, app.ThresholdSource = ResolveThresholds(cfg)
	if err := app.Thresholds.Validate(); err != nil {
		return nil, err
	}
	return app, nil
}

// ResolveThresholds completes the user overrides in cfg.Thresholds with the
// calibration profile when one can be loaded, and with the hardware estimate
// otherwise. The tune command always starts from the estimate.
func ResolveThresholds(cfg config.AppConfig) (config.Thresholds, ThresholdSource) {
	if cfg.Command != config.CommandTune {
		path := cfg.CalibrationProfile
		if path == "" {
			path = calibration.GetDefaultProfilePath()
		}
		if th, ok := calibration.LoadThresholds(path); ok {
			return cfg.Thresholds.Merge(th), SourceProfile
		}
	}
	return config.ApplyAdaptiveThresholds(cfg).Thresholds, SourceEstimate
}

// Run executes the configured command and returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	ui.InitTheme(a.Config.NoColor)

	mu, err := mul.New(a.Thresholds, mul.WithLogger(logging.Component(a.logger, "mul")))
	if err != nil {
		return apperrors.HandleCalculationError(err, 0, a.ErrWriter, nil)
	}
	a.divider = div.New(mu)
	restore := natural.WithMultiplier(mu)
	defer restore()

	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	if a.Config.MetricsAddr != "" {
		stopMetrics := a.serveMetrics(ctx)
		defer stopMetrics()
	}

	a.logger.Debug().
		Str("command", a.Config.Command).
		Str("thresholds", a.Thresholds.String()).
		Str("source", string(a.ThresholdSource)).
		Msg("configuration resolved")

	switch a.Config.Command {
	case config.CommandMul:
		return a.runMul(ctx, out)
	case config.CommandDiv:
		return a.runDiv(ctx, out)
	case config.CommandTune:
		return a.runTune(ctx, out)
	default:
		return a.runVerify(ctx, out)
	}
}

// serveMetrics starts the Prometheus endpoint and returns a function that
// stops it and waits for the server to exit.
func (a *Application) serveMetrics(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	logger := logging.ForComponent(a.logger, "metrics")
	go func() {
		defer close(done)
		if err := a.metrics.Serve(ctx, a.Config.MetricsAddr, logger); err != nil {
			logger.Error("metrics server failed", err)
		}
	}()
	return func() {
		cancel()
		<-done
	}
}

// runTune measures the crossovers and writes the calibration profile.
func (a *Application) runTune(ctx context.Context, out io.Writer) int {
	path := a.Config.CalibrationProfile
	if path == "" {
		path = calibration.GetDefaultProfilePath()
	}
	if !a.Config.Quiet {
		fmt.Fprintf(out, "--- Calibration ---\nStarting from %s (%s).\n\n", a.Thresholds, a.ThresholdSource)
	}
	opts := []calibration.Option{
		calibration.WithLogger(logging.Component(a.logger, "calibration")),
		calibration.WithTracer(a.tracer),
	}
	if a.Config.Seed != 0 {
		opts = append(opts, calibration.WithSeed(a.Config.Seed))
	}
	start := time.Now()
	if _, err := calibration.Calibrate(ctx, out, a.Thresholds, path, opts...); err != nil {
		return a.handleError(err, time.Since(start), "tune")
	}
	return apperrors.ExitSuccess
}

// handleError reports err on the error writer and returns its exit code.
// Context errors become a TimeoutError naming op.
func (a *Application) handleError(err error, elapsed time.Duration, op string) int {
	if errors.Is(err, context.DeadlineExceeded) {
		err = apperrors.TimeoutError{Operation: op, Limit: a.Config.Timeout}
	}
	return apperrors.HandleCalculationError(err, elapsed, a.ErrWriter, cli.CLIColorProvider{})
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
