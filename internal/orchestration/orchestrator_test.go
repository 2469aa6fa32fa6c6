package orchestration

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/agbru/natcalc/internal/config"
	apperrors "github.com/agbru/natcalc/internal/errors"
	"github.com/agbru/natcalc/internal/metrics"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// MockResultPresenter records what it was asked to present.
type MockResultPresenter struct {
	presented []CheckResult
	handled   error
}

func (p *MockResultPresenter) PresentComparisonTable(results []CheckResult, _ io.Writer) {
	p.presented = results
}

func (p *MockResultPresenter) HandleError(err error, _ time.Duration, _ io.Writer) int {
	p.handled = err
	return apperrors.ExitErrorGeneric
}

// recordingObserver counts observations per outcome.
type recordingObserver struct {
	mu       sync.Mutex
	outcomes map[string]int
	active   int
	peak     int
}

func (o *recordingObserver) ObserveOperation(_ string, _ int, _ time.Duration, outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.outcomes == nil {
		o.outcomes = map[string]int{}
	}
	o.outcomes[outcome]++
}

func (o *recordingObserver) IncrementActiveChecks() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.active++
	o.peak = max(o.peak, o.active)
}

func (o *recordingObserver) DecrementActiveChecks() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.active--
}

// mismatchChecker fails on a chosen trial.
type mismatchChecker struct {
	failAt int
	calls  int
}

func (c *mismatchChecker) Name() string { return "toom33" }
func (c *mismatchChecker) Limbs() int   { return 64 }

func (c *mismatchChecker) Check(*rand.Rand) error {
	c.calls++
	if c.calls == c.failAt {
		return apperrors.MismatchError{Algorithm: "toom33", Reference: "basecase", Sizes: "64×64"}
	}
	return nil
}

func TestExecuteChecks(t *testing.T) {
	t.Parallel()
	cfg := config.AppConfig{Trials: 10, Seed: 42}
	ok := &mockChecker{name: "ok"}
	bad := &mismatchChecker{failAt: 3}
	boom := &mockChecker{name: "boom", behavior: "panic"}
	obs := &recordingObserver{}

	results := ExecuteChecks(context.Background(), []Checker{ok, bad, boom}, cfg, obs, NullProgressReporter{}, io.Discard)
	require.Len(t, results, 3)

	assert.Equal(t, "ok", results[0].Name)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, 10, results[0].Trials)
	assert.Equal(t, 10, results[0].Passed)

	var mismatch apperrors.MismatchError
	require.ErrorAs(t, results[1].Err, &mismatch)
	assert.Contains(t, results[1].Err.Error(), "trial 3")
	assert.Equal(t, 3, results[1].Trials)
	assert.Equal(t, 2, results[1].Passed)

	var calc apperrors.CalculationError
	require.ErrorAs(t, results[2].Err, &calc)
	assert.Equal(t, 0, results[2].Passed)

	assert.Equal(t, 12, obs.outcomes[metrics.OutcomeOK])
	assert.Equal(t, 1, obs.outcomes[metrics.OutcomeMismatch])
	assert.Equal(t, 1, obs.outcomes[metrics.OutcomeError])
	assert.Equal(t, 0, obs.active)
	assert.GreaterOrEqual(t, obs.peak, 1)
}

func TestExecuteChecks_ReportsProgress(t *testing.T) {
	t.Parallel()
	cfg := config.AppConfig{Trials: 4, Seed: 1}
	var mu sync.Mutex
	var last []float64
	reporter := ProgressReporterFunc(func(wg *sync.WaitGroup, ch <-chan ProgressUpdate, n int, _ io.Writer) {
		defer wg.Done()
		agg := NewProgressAggregator(n)
		for u := range ch {
			avg := agg.Update(u)
			mu.Lock()
			last = append(last, avg)
			mu.Unlock()
		}
	})

	ExecuteChecks(context.Background(), []Checker{&mockChecker{name: "a"}, &mockChecker{name: "b"}}, cfg, nil, reporter, io.Discard)

	require.NotEmpty(t, last)
	assert.InDelta(t, 1.0, last[len(last)-1], 1e-9)
}

func TestAnalyzeCheckResults(t *testing.T) {
	t.Parallel()
	mismatch := apperrors.WrapError(apperrors.MismatchError{Algorithm: "B", Reference: "basecase", Sizes: "8×8"}, "trial 1")
	tests := []struct {
		name           string
		results        []CheckResult
		expectedStatus int
		expectHandled  bool
		expectOutput   string
	}{
		{
			name: "All success",
			results: []CheckResult{
				{Name: "A", Trials: 2, Passed: 2, Duration: time.Millisecond},
				{Name: "B", Trials: 2, Passed: 2, Duration: time.Microsecond},
			},
			expectedStatus: apperrors.ExitSuccess,
			expectOutput:   "Success",
		},
		{
			name: "Mismatch",
			results: []CheckResult{
				{Name: "A", Trials: 2, Passed: 2, Duration: time.Millisecond},
				{Name: "B", Trials: 1, Duration: time.Millisecond, Err: mismatch},
			},
			expectedStatus: apperrors.ExitErrorMismatch,
			expectOutput:   "CRITICAL",
		},
		{
			name: "Mismatch wins over other failures",
			results: []CheckResult{
				{Name: "A", Trials: 1, Duration: time.Microsecond, Err: errors.New("fail")},
				{Name: "B", Trials: 1, Duration: time.Millisecond, Err: mismatch},
			},
			expectedStatus: apperrors.ExitErrorMismatch,
			expectOutput:   "CRITICAL",
		},
		{
			name: "Failure",
			results: []CheckResult{
				{Name: "A", Trials: 2, Passed: 2, Duration: time.Millisecond},
				{Name: "B", Trials: 1, Duration: time.Millisecond, Err: errors.New("fail")},
			},
			expectedStatus: apperrors.ExitErrorGeneric,
			expectHandled:  true,
			expectOutput:   "Failure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			presenter := &MockResultPresenter{}
			var out strings.Builder
			status := AnalyzeCheckResults(tt.results, presenter, &out)
			assert.Equal(t, tt.expectedStatus, status)
			assert.Equal(t, tt.expectHandled, presenter.handled != nil)
			assert.Contains(t, out.String(), tt.expectOutput)
			require.Len(t, presenter.presented, len(tt.results))
		})
	}
}

func TestAnalyzeCheckResults_Ordering(t *testing.T) {
	t.Parallel()
	results := []CheckResult{
		{Name: "slow", Duration: time.Second},
		{Name: "fast", Duration: time.Millisecond},
		{Name: "failed", Duration: time.Hour, Err: errors.New("fail")},
	}
	presenter := &MockResultPresenter{}
	AnalyzeCheckResults(results, presenter, io.Discard)

	names := make([]string, len(presenter.presented))
	for i, r := range presenter.presented {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"failed", "fast", "slow"}, names)
}

func TestMarkDeadlines(t *testing.T) {
	t.Parallel()
	mismatch := apperrors.MismatchError{Algorithm: "fft", Reference: "basecase", Sizes: "4×4"}
	results := []CheckResult{
		{Name: "toom33", Err: context.DeadlineExceeded},
		{Name: "fft", Err: mismatch},
		{Name: "div"},
	}

	live, cancel := context.WithCancel(context.Background())
	defer cancel()
	MarkDeadlines(live, results, time.Second)
	assert.ErrorIs(t, results[0].Err, context.DeadlineExceeded, "a live context leaves results alone")

	expired, cancelExpired := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancelExpired()
	MarkDeadlines(expired, results, time.Second)

	var timeout apperrors.TimeoutError
	require.ErrorAs(t, results[0].Err, &timeout)
	assert.Equal(t, "toom33", timeout.Operation)
	assert.Equal(t, time.Second, timeout.Limit)
	assert.Equal(t, mismatch, results[1].Err)
	assert.NoError(t, results[2].Err)
}
