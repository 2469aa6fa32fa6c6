package app

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/agbru/natcalc/internal/bigfft"
	"github.com/agbru/natcalc/internal/cli"
	"github.com/agbru/natcalc/internal/config"
	apperrors "github.com/agbru/natcalc/internal/errors"
	"github.com/agbru/natcalc/internal/metrics"
	"github.com/agbru/natcalc/internal/mul"
	"github.com/agbru/natcalc/internal/natural"
	"github.com/agbru/natcalc/internal/orchestration"
	"github.com/agbru/natcalc/internal/tui"
)

// parseOperand parses a non-negative decimal integer.
func parseOperand(field, s string) (natural.Natural, error) {
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return natural.Natural{}, apperrors.ValidationError{Field: field, Message: fmt.Sprintf("%q is not a decimal integer", s)}
	}
	x, ok := natural.FromBig(b)
	if !ok {
		return natural.Natural{}, apperrors.ValidationError{Field: field, Message: "operand must not be negative"}
	}
	return x, nil
}

func (a *Application) parseOperands() (x, y natural.Natural, err error) {
	if x, err = parseOperand("A", a.Config.Operands[0]); err != nil {
		return x, y, err
	}
	y, err = parseOperand("B", a.Config.Operands[1])
	return x, y, err
}

// compute runs op on its own goroutine so that the timeout and signals can
// interrupt the wait. The kernels themselves never observe ctx; an
// abandoned computation ends with the process.
func compute(ctx context.Context, op func() []cli.NamedValue) ([]cli.NamedValue, error) {
	type outcome struct {
		values []cli.NamedValue
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: apperrors.FromPanic(r)}
			}
		}()
		done <- outcome{values: op()}
	}()
	select {
	case o := <-done:
		return o.values, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (a *Application) outputConfig() cli.OutputConfig {
	return cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
	}
}

// runMul multiplies the two operands.
func (a *Application) runMul(ctx context.Context, out io.Writer) int {
	x, y, err := a.parseOperands()
	if err != nil {
		return a.handleError(err, 0, config.CommandMul)
	}
	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, a.Thresholds, out)
	}
	n, m := max(x.LimbCount(), y.LimbCount()), min(x.LimbCount(), y.LimbCount())
	alg := "inline"
	if m > 0 {
		kind := a.divider.Multiplier().Algorithm(n, m)
		if kind == mul.FFT {
			bigfft.EnsurePoolsWarmed(n)
		}
		alg = kind.String()
	}
	return a.runOperation(ctx, out, config.CommandMul, alg, n, "A × B", func() []cli.NamedValue {
		return []cli.NamedValue{{Label: "A × B", Value: x.Mul(y)}}
	})
}

// runDiv divides the first operand by the second.
func (a *Application) runDiv(ctx context.Context, out io.Writer) int {
	x, y, err := a.parseOperands()
	if err != nil {
		return a.handleError(err, 0, config.CommandDiv)
	}
	if y.IsZero() {
		return a.handleError(apperrors.ValidationError{Field: "B", Message: apperrors.ErrDivisionByZero.Error()}, 0, config.CommandDiv)
	}
	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, a.Thresholds, out)
	}
	return a.runOperation(ctx, out, config.CommandDiv, "divmod", x.LimbCount(), "A ÷ B", func() []cli.NamedValue {
		q, r := x.DivMod(y)
		return []cli.NamedValue{{Label: "quotient", Value: q}, {Label: "remainder", Value: r}}
	})
}

// runOperation times op, records it and prints the result.
func (a *Application) runOperation(ctx context.Context, out io.Writer, command, alg string, limbs int, expr string, op func() []cli.NamedValue) int {
	collector := metrics.NewMemoryCollector()
	before := collector.Snapshot()
	start := time.Now()
	values, err := compute(ctx, op)
	elapsed := time.Since(start)
	if err != nil {
		a.metrics.ObserveOperation(alg, limbs, elapsed, metrics.OutcomeError)
		return a.handleError(err, elapsed, command)
	}
	a.metrics.ObserveOperation(alg, limbs, elapsed, metrics.OutcomeOK)
	a.logger.Debug().Str("command", command).Str("algorithm", alg).Int("limbs", limbs).Dur("elapsed", elapsed).Msg("operation complete")

	res := cli.OperationResult{Expression: expr, Values: values, Algorithm: alg, Duration: elapsed}
	if err := cli.DisplayResultWithConfig(res, a.outputConfig(), out); err != nil {
		return a.handleError(err, 0, command)
	}
	if a.Config.Verbose && !a.Config.Quiet {
		cli.DisplayMemoryStats(collector.Snapshot().Since(before), out)
	}
	return apperrors.ExitSuccess
}

// runVerify cross-checks the selected algorithms on random operands.
func (a *Application) runVerify(ctx context.Context, out io.Writer) int {
	cfg := a.Config
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	checkers, err := orchestration.SelectCheckers(cfg, a.divider)
	if err != nil {
		return a.handleError(err, 0, config.CommandVerify)
	}

	ctx, span := a.tracer.Start(ctx, "verify")
	defer span.End()
	span.SetAttributes(
		attribute.Int("n", cfg.N),
		attribute.Int("m", cfg.M),
		attribute.Int("trials", cfg.Trials),
		attribute.Int64("seed", cfg.Seed),
		attribute.Int("checkers", len(checkers)),
	)

	if cfg.TUI {
		code := tui.Run(ctx, checkers, cfg, a.metrics, Version)
		if code != apperrors.ExitSuccess {
			span.SetStatus(codes.Error, fmt.Sprintf("exit code %d", code))
		}
		return code
	}

	var reporter orchestration.ProgressReporter = cli.CLIProgressReporter{}
	progressOut := out
	if cfg.Quiet {
		reporter, progressOut = orchestration.NullProgressReporter{}, io.Discard
	} else {
		cli.PrintExecutionConfig(cfg, a.Thresholds, out)
		cli.PrintExecutionMode(checkers, cfg, out)
	}

	results := orchestration.ExecuteChecks(ctx, checkers, cfg, a.metrics, reporter, progressOut)
	orchestration.MarkDeadlines(ctx, results, cfg.Timeout)

	summary := out
	if cfg.Quiet {
		summary = io.Discard
	}
	code := orchestration.AnalyzeCheckResults(results, cli.CLIResultPresenter{}, summary)
	if code != apperrors.ExitSuccess {
		span.SetStatus(codes.Error, fmt.Sprintf("exit code %d", code))
		if cfg.Quiet {
			for _, r := range results {
				if r.Err != nil {
					fmt.Fprintf(a.ErrWriter, "%s: %v\n", r.Name, r.Err)
				}
			}
		}
	} else if cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return code
}
