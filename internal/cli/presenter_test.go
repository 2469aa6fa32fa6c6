package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	apperrors "github.com/agbru/natcalc/internal/errors"
	"github.com/agbru/natcalc/internal/metrics"
	"github.com/agbru/natcalc/internal/orchestration"
)

func TestPresentComparisonTable(t *testing.T) {
	t.Parallel()
	results := []orchestration.CheckResult{
		{Name: "toom33", Trials: 16, Passed: 16, Duration: 2 * time.Millisecond},
		{Name: "fft", Trials: 3, Passed: 2, Duration: 0, Err: errors.New("trial 3: boom")},
	}
	var buf bytes.Buffer
	CLIResultPresenter{}.PresentComparisonTable(results, &buf)
	output := buf.String()

	for _, want := range []string{"Verification Summary", "Algorithm", "Trials", "Status",
		"toom33", "16/16", "2ms", "Success", "fft", "2/3", "< 1µs", "Failure (trial 3: boom)"} {
		if !strings.Contains(output, want) {
			t.Errorf("table should contain %q:\n%s", want, output)
		}
	}

	// Columns line up without colors: the trials column starts at the same
	// offset on every row.
	lines := strings.Split(strings.TrimSpace(output), "\n")[1:]
	col := strings.Index(lines[0], "Trials")
	if strings.Index(lines[1], "16/16") != col || strings.Index(lines[2], "2/3") != col {
		t.Errorf("misaligned columns:\n%s", output)
	}
}

func TestHandleError(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name string
		err  error
		code int
		text string
	}{
		{"mismatch", apperrors.MismatchError{Algorithm: "toom22", Reference: "basecase", Sizes: "4×4"}, apperrors.ExitErrorMismatch, "Mismatch"},
		{"timeout", context.DeadlineExceeded, apperrors.ExitErrorTimeout, "Timeout"},
		{"canceled", context.Canceled, apperrors.ExitErrorCanceled, "Canceled"},
		{"generic", errors.New("boom"), apperrors.ExitErrorGeneric, "Error"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			if code := (CLIResultPresenter{}).HandleError(tc.err, time.Second, &buf); code != tc.code {
				t.Errorf("exit code = %d, want %d", code, tc.code)
			}
			if !strings.Contains(buf.String(), tc.text) {
				t.Errorf("output %q should contain %q", buf.String(), tc.text)
			}
		})
	}
}

func TestDisplayMemoryStats(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	DisplayMemoryStats(metrics.MemoryDelta{AllocatedBytes: 3 << 20, Allocations: 12345, GCCycles: 2, GCPause: 5 * time.Millisecond}, &buf)
	for _, want := range []string{"3.0 MiB", "12,345", "GC cycles:       2", "5ms"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("stats should contain %q:\n%s", want, buf.String())
		}
	}
}
