package calibration

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/agbru/natcalc/internal/config"
)

// smallLadders keeps test measurements short.
func smallLadders(p Parameter) []int {
	switch p.Name {
	case "toom22":
		return []int{4, 8, 16}
	case "toom33":
		return []int{16, 24}
	default:
		return []int{6, 8, 12}
	}
}

func newTestTuner(t *testing.T, opts ...Option) *Tuner {
	t.Helper()
	opts = append([]Option{WithCandidates(smallLadders), WithRepetitions(1)}, opts...)
	tuner, err := NewTuner(config.DefaultThresholds(), opts...)
	if err != nil {
		t.Fatalf("NewTuner: %v", err)
	}
	return tuner
}

func TestTunerRunProducesValidTable(t *testing.T) {
	t.Parallel()
	tuner := newTestTuner(t, WithParameters("toom22", "toom33", "div-dc", "div-dc-approx"))

	results, th, err := tuner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := th.Validate(); err != nil {
		t.Fatalf("tuned table invalid: %v (%s)", err, th)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}
	for _, res := range results {
		p, _ := LookupParameter(res.Parameter)
		cands := smallLadders(p)
		if len(res.Measurements) != len(cands) {
			t.Errorf("%s: %d measurements, want %d", res.Parameter, len(res.Measurements), len(cands))
		}
		found := false
		for _, c := range cands {
			found = found || c == res.Value
		}
		if !found {
			t.Errorf("%s: value %d is not a candidate of %v", res.Parameter, res.Value, cands)
		}
		if !res.Crossed && res.Value != cands[len(cands)-1] {
			t.Errorf("%s: without a crossover the top candidate must be kept, got %d", res.Parameter, res.Value)
		}
	}
	if th.Toom44 != config.DefaultToom44Threshold {
		t.Errorf("untuned toom44 changed to %d", th.Toom44)
	}
}

func TestTunerRecordsSpans(t *testing.T) {
	t.Parallel()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	tuner := newTestTuner(t, WithParameters("toom22"), WithTracer(tp.Tracer("test")))

	if _, _, err := tuner.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	names := map[string]int{}
	for _, s := range sr.Ended() {
		names[s.Name()]++
	}
	if names["calibration.Run"] != 1 || names["calibration.tune"] != 1 {
		t.Errorf("spans = %v, want one run and one tune span", names)
	}
	for _, s := range sr.Ended() {
		if s.Name() == "calibration.tune" && len(s.Events()) != 3 {
			t.Errorf("tune span has %d measurement events, want 3", len(s.Events()))
		}
	}
}

func TestTunerSkipsUnsupportedSizes(t *testing.T) {
	t.Parallel()
	// Toom-8h cannot split two-limb operands.
	tuner := newTestTuner(t, WithParameters("toom8h"), WithCandidates(func(Parameter) []int { return []int{2} }))
	results, _, err := tuner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	m := results[0].Measurements[0]
	if m.Err == "" || m.UpperWins() {
		t.Errorf("unsupported size measured: %+v", m)
	}
	if results[0].Crossed {
		t.Error("a skipped measurement cannot be a crossover")
	}
}

func TestTunerCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := newTestTuner(t).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run on a canceled context = %v, want context.Canceled", err)
	}
}

func TestNewTunerErrors(t *testing.T) {
	t.Parallel()
	if _, err := NewTuner(config.Thresholds{}); err == nil {
		t.Error("expected an error for an invalid base table")
	}
	if _, err := NewTuner(config.DefaultThresholds(), WithParameters("strassen")); err == nil {
		t.Error("expected an error for an unknown parameter")
	}
}

func TestOrderChain(t *testing.T) {
	t.Parallel()
	th := config.DefaultThresholds()
	th.Toom22 = 500
	th = orderChain(th)
	if err := th.Validate(); err != nil {
		t.Fatalf("ordered table invalid: %v", err)
	}
	if th.Toom33 != 500 || th.Toom8h != 500 || th.FFT != config.DefaultFFTThreshold {
		t.Errorf("orderChain = %s", th)
	}
}

func TestCalibrateWritesProfile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "profile.json")
	var out bytes.Buffer

	profile, err := Calibrate(context.Background(), &out, config.DefaultThresholds(), path,
		WithParameters("toom22", "div-dc"), WithCandidates(smallLadders), WithRepetitions(1))
	if err != nil {
		t.Fatalf("Calibrate: %v", err)
	}
	if len(profile.Measurements) != 6 {
		t.Errorf("profile holds %d measurements, want 6", len(profile.Measurements))
	}
	loaded, err := loadProfile(path)
	if err != nil {
		t.Fatalf("profile not saved: %v", err)
	}
	if loaded.Thresholds != profile.Thresholds {
		t.Errorf("saved %+v, returned %+v", loaded.Thresholds, profile.Thresholds)
	}
	text := out.String()
	for _, want := range []string{"toom22: basecase vs toom22", "div-dc: schoolbook vs divide&conquer", "Calibrated thresholds", "Profile saved"} {
		if !strings.Contains(text, want) {
			t.Errorf("output lacks %q:\n%s", want, text)
		}
	}
}
