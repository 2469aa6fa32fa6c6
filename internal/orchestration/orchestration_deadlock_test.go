package orchestration

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/agbru/natcalc/internal/config"
)

// mockChecker simulates various checker behaviors for deadlock testing.
type mockChecker struct {
	name     string
	behavior string // "instant", "slow", "error", "panic"
	delay    time.Duration
	calls    int
}

func (m *mockChecker) Name() string { return m.name }
func (m *mockChecker) Limbs() int   { return 8 }

func (m *mockChecker) Check(*rand.Rand) error {
	m.calls++
	switch m.behavior {
	case "slow":
		time.Sleep(m.delay)
	case "error":
		return errors.New("simulated error")
	case "panic":
		panic("simulated panic")
	}
	return nil
}

// slowReporter consumes progress updates slowly to back up the channel.
type slowReporter struct{}

func (slowReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	for range progressChan {
		time.Sleep(time.Millisecond)
	}
}

// TestOrchestrationNoDeadlock_MixedBehaviors verifies that ExecuteChecks
// completes without deadlocking under various checker behavior combinations.
func TestOrchestrationNoDeadlock_MixedBehaviors(t *testing.T) {
	testCases := []struct {
		name     string
		checkers func() []Checker
		reporter ProgressReporter
	}{
		{
			name: "all_instant",
			checkers: func() []Checker {
				return []Checker{&mockChecker{name: "c1"}, &mockChecker{name: "c2"}, &mockChecker{name: "c3"}}
			},
			reporter: NullProgressReporter{},
		},
		{
			name: "mixed_instant_and_slow",
			checkers: func() []Checker {
				return []Checker{&mockChecker{name: "fast"}, &mockChecker{name: "slow", behavior: "slow", delay: time.Millisecond}}
			},
			reporter: NullProgressReporter{},
		},
		{
			name: "mixed_with_errors_and_panics",
			checkers: func() []Checker {
				return []Checker{&mockChecker{name: "ok"}, &mockChecker{name: "err", behavior: "error"}, &mockChecker{name: "boom", behavior: "panic"}}
			},
			reporter: NullProgressReporter{},
		},
		{
			name: "slow_reporter_floods",
			checkers: func() []Checker {
				return []Checker{&mockChecker{name: "flood1"}, &mockChecker{name: "flood2"}}
			},
			reporter: slowReporter{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			cfg := config.AppConfig{Trials: 500, Seed: 1}
			done := make(chan struct{})
			go func() {
				defer close(done)
				ExecuteChecks(ctx, tc.checkers(), cfg, nil, tc.reporter, io.Discard)
			}()

			select {
			case <-done:
			case <-time.After(10 * time.Second):
				t.Fatal("DEADLOCK: ExecuteChecks did not complete within timeout")
			}
		})
	}
}

// TestOrchestrationNoDeadlock_ContextCancellation verifies that cancelling
// the context during execution stops the checkers promptly.
func TestOrchestrationNoDeadlock_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	checkers := []Checker{
		&mockChecker{name: "slow1", behavior: "slow", delay: 20 * time.Millisecond},
		&mockChecker{name: "slow2", behavior: "slow", delay: 20 * time.Millisecond},
	}
	cfg := config.AppConfig{Trials: 1000, Seed: 1}

	done := make(chan []CheckResult)
	go func() {
		done <- ExecuteChecks(ctx, checkers, cfg, NullObserver{}, NullProgressReporter{}, io.Discard)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case results := <-done:
		for _, r := range results {
			if !errors.Is(r.Err, context.Canceled) {
				t.Errorf("%s: err = %v, want context.Canceled", r.Name, r.Err)
			}
			if r.Trials >= cfg.Trials {
				t.Errorf("%s ran all %d trials despite cancellation", r.Name, r.Trials)
			}
		}
	case <-time.After(5 * time.Second):
		t.Fatal("DEADLOCK after context cancellation")
	}
}
