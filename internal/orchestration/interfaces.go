package orchestration

import (
	"io"
	"math/rand"
	"sync"
	"time"
)

// Checker is one verification job. Check runs a single trial on operands
// drawn from rng and returns a MismatchError when the result disagrees with
// the reference. A Checker is used by one goroutine at a time.
type Checker interface {
	// Name identifies the checked operation (an algorithm name, "divmod", ...).
	Name() string
	// Limbs is the length of the larger operand, for metrics.
	Limbs() int
	// Check runs one trial.
	Check(rng *rand.Rand) error
}

// ProgressUpdate reports the fraction of trials a checker has completed.
type ProgressUpdate struct {
	// CheckerIndex is the index of the checker in the executed slice.
	CheckerIndex int
	// Value is the completed fraction, from 0.0 to 1.0.
	Value float64
}

// CheckResult is the outcome of running one checker.
type CheckResult struct {
	// Name is the checker name.
	Name string
	// Trials is the number of trials attempted.
	Trials int
	// Passed is the number of trials that agreed with the reference.
	Passed int
	// Duration is the wall time of all trials.
	Duration time.Duration
	// Err is the first failure: a mismatch, a recovered kernel panic, or a
	// context error.
	Err error
}

// Observer receives the outcome of every trial. *metrics.Metrics satisfies
// it.
type Observer interface {
	ObserveOperation(name string, limbs int, elapsed time.Duration, outcome string)
	IncrementActiveChecks()
	DecrementActiveChecks()
}

// NullObserver discards all observations.
type NullObserver struct{}

func (NullObserver) ObserveOperation(string, int, time.Duration, string) {}
func (NullObserver) IncrementActiveChecks()                              {}
func (NullObserver) DecrementActiveChecks()                              {}

// ProgressReporter defines the interface for displaying verification
// progress. Implementations handle the visual representation (spinners,
// progress bars) while the orchestration layer coordinates the checks.
type ProgressReporter interface {
	// DisplayProgress consumes progressChan until it is closed, then calls
	// wg.Done.
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numCheckers int, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numCheckers int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numCheckers int, out io.Writer) {
	f(wg, progressChan, numCheckers, out)
}

// NullProgressReporter drains the progress channel without displaying
// anything. Useful for quiet mode or testing.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter defines the interface for presenting verification results.
type ResultPresenter interface {
	// PresentComparisonTable displays the per-checker summary table.
	PresentComparisonTable(results []CheckResult, out io.Writer)
	// HandleError prints err and returns the matching exit code.
	HandleError(err error, duration time.Duration, out io.Writer) int
}
