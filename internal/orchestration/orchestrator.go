package orchestration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/natcalc/internal/config"
	apperrors "github.com/agbru/natcalc/internal/errors"
	"github.com/agbru/natcalc/internal/metrics"
)

// ProgressBufferMultiplier defines the buffer size multiplier for the progress
// channel. A larger buffer reduces the likelihood of blocking checker
// goroutines when the UI is slow to consume updates.
const ProgressBufferMultiplier = 5

// ExecuteChecks runs cfg.Trials trials of every checker concurrently, one
// goroutine per checker. Checker i draws its operands from a source seeded
// with cfg.Seed+i, so a run is reproducible for a given seed.
//
// A checker stops at its first failure; the others keep going. Cancellation
// of ctx stops every checker before its next trial.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - checkers: The checkers to execute.
//   - cfg: The application configuration (trials and seed).
//   - observer: Receives the outcome of each trial (use NullObserver to discard).
//   - progressReporter: The progress reporter (use NullProgressReporter for quiet mode).
//   - out: The io.Writer for displaying progress updates.
//
// Returns:
//   - []CheckResult: One result per checker, in the order of checkers.
func ExecuteChecks(ctx context.Context, checkers []Checker, cfg config.AppConfig, observer Observer, progressReporter ProgressReporter, out io.Writer) []CheckResult {
	if observer == nil {
		observer = NullObserver{}
	}
	g, ctx := errgroup.WithContext(ctx)
	results := make([]CheckResult, len(checkers))
	progressChan := make(chan ProgressUpdate, len(checkers)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go progressReporter.DisplayProgress(&displayWg, progressChan, len(checkers), out)

	for i, c := range checkers {
		idx, checker := i, c
		g.Go(func() error {
			observer.IncrementActiveChecks()
			defer observer.DecrementActiveChecks()
			rng := rand.New(rand.NewSource(cfg.Seed + int64(idx)))
			results[idx] = runChecker(ctx, checker, cfg.Trials, rng, observer, func(done int) {
				sendProgress(progressChan, ProgressUpdate{CheckerIndex: idx, Value: float64(done) / float64(cfg.Trials)})
			})
			return nil
		})
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

// runChecker runs up to trials trials of c and reports each one to observer.
func runChecker(ctx context.Context, c Checker, trials int, rng *rand.Rand, observer Observer, progress func(done int)) CheckResult {
	res := CheckResult{Name: c.Name()}
	start := time.Now()

	for t := range trials {
		if err := ctx.Err(); err != nil {
			res.Err = err
			break
		}
		res.Trials++
		trialStart := time.Now()
		err := runTrial(c, rng)
		observer.ObserveOperation(c.Name(), c.Limbs(), time.Since(trialStart), outcome(err))
		if err != nil {
			res.Err = apperrors.WrapError(err, "trial %d", t+1)
			break
		}
		res.Passed++
		progress(t + 1)
	}
	res.Duration = time.Since(start)
	return res
}

// runTrial runs one trial, turning a kernel panic into an error.
func runTrial(c Checker, rng *rand.Rand) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.FromPanic(r)
		}
	}()
	return c.Check(rng)
}

func outcome(err error) string {
	var mismatch apperrors.MismatchError
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.As(err, &mismatch):
		return metrics.OutcomeMismatch
	default:
		return metrics.OutcomeError
	}
}

// sendProgress delivers u unless the channel is full. The display only needs
// the latest value, so dropping an update is harmless.
func sendProgress(ch chan<- ProgressUpdate, u ProgressUpdate) {
	select {
	case ch <- u:
	default:
	}
}

// MarkDeadlines replaces the context errors in results with TimeoutErrors
// naming their checker when ctx ended on its deadline.
func MarkDeadlines(ctx context.Context, results []CheckResult, limit time.Duration) {
	if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return
	}
	for i := range results {
		if results[i].Err != nil && apperrors.IsContextError(results[i].Err) {
			results[i].Err = apperrors.TimeoutError{Operation: results[i].Name, Limit: limit}
		}
	}
}

// AnalyzeCheckResults sorts the results (failures first, then by duration),
// presents them and derives the exit code.
//
// A mismatch in any checker is critical and wins over every other failure.
// Other failures are handed to the presenter, which maps them to an exit
// code.
//
// Parameters:
//   - results: The slice of check results to analyze.
//   - presenter: The result presenter for display formatting.
//   - out: The io.Writer for the summary report.
//
// Returns:
//   - int: An exit code indicating success (0) or the type of failure.
func AnalyzeCheckResults(results []CheckResult, presenter ResultPresenter, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err != nil
		}
		return results[i].Duration < results[j].Duration
	})

	presenter.PresentComparisonTable(results, out)

	var firstError error
	var firstDuration time.Duration
	for _, res := range results {
		var mismatch apperrors.MismatchError
		if errors.As(res.Err, &mismatch) {
			fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! %v\n", res.Err)
			return apperrors.ExitErrorMismatch
		}
		if res.Err != nil && firstError == nil {
			firstError, firstDuration = res.Err, res.Duration
		}
	}
	if firstError != nil {
		fmt.Fprintf(out, "\nGlobal Status: Failure.\n")
		return presenter.HandleError(firstError, firstDuration, out)
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All results agree with their references.\n")
	return apperrors.ExitSuccess
}
