package calibration

import (
	"slices"
	"testing"

	"github.com/agbru/natcalc/internal/config"
)

func TestParametersCoverThresholdTable(t *testing.T) {
	t.Parallel()
	var th config.Thresholds
	for i, p := range Parameters() {
		p.set(&th, i+1)
		if got := p.get(th); got != i+1 {
			t.Errorf("%s: get after set = %d, want %d", p.Name, got, i+1)
		}
	}
	want := config.Thresholds{Toom22: 1, Toom33: 2, Toom44: 3, Toom6h: 4, Toom8h: 5, FFT: 6, DivDC: 7, DivDCApprox: 8}
	if th != want {
		t.Errorf("parameters wrote %+v, want %+v", th, want)
	}
}

func TestLookupParameter(t *testing.T) {
	t.Parallel()
	p, err := LookupParameter("toom33")
	if err != nil {
		t.Fatalf("LookupParameter(toom33): %v", err)
	}
	if p.Lower.String() != "toom22" || p.Upper.String() != "toom33" {
		t.Errorf("toom33 arbitrates %s/%s", p.Lower, p.Upper)
	}
	if _, err := LookupParameter("strassen"); err == nil {
		t.Error("expected an error for an unknown parameter")
	}
}

func TestGenerateCandidates(t *testing.T) {
	t.Parallel()
	for _, p := range Parameters() {
		full := GenerateCandidates(p, false)
		quick := GenerateCandidates(p, true)
		if len(quick) == 0 || len(quick) > len(full) {
			t.Errorf("%s: quick ladder %v not shorter than full ladder %v", p.Name, quick, full)
		}
		if !slices.IsSorted(full) {
			t.Errorf("%s: ladder %v is not sorted", p.Name, full)
		}
		for i, c := range full {
			if c < p.minimum {
				t.Errorf("%s: candidate %d below minimum %d", p.Name, c, p.minimum)
			}
			if i > 0 && c == full[i-1] {
				t.Errorf("%s: duplicate candidate %d", p.Name, c)
			}
		}
		estimate := p.get(EstimateThresholds())
		if !slices.Contains(full, max(p.minimum, estimate)) {
			t.Errorf("%s: ladder %v does not contain the estimate %d", p.Name, full, estimate)
		}
		t.Logf("%s: %v", p.Name, full)
	}
}

func TestEstimateThresholdsIsValid(t *testing.T) {
	t.Parallel()
	if err := EstimateThresholds().Validate(); err != nil {
		t.Errorf("estimate is not a valid table: %v", err)
	}
}

func BenchmarkGenerateCandidates(b *testing.B) {
	b.ReportAllocs()
	params := Parameters()
	for i := 0; i < b.N; i++ {
		for _, p := range params {
			_ = GenerateCandidates(p, false)
		}
	}
}
