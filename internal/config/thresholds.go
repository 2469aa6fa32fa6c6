package config

import (
	"fmt"

	apperrors "github.com/agbru/natcalc/internal/errors"
	"github.com/agbru/natcalc/internal/limbs"
)

// Threshold resolution chain (highest priority first):
//   1. CLI flags (--toom22, --toom33, ..., --fft, --div-dc)
//   2. Environment variables (NATCALC_TOOM22_THRESHOLD, etc.)
//   3. Cached calibration profile (~/.natcalc_calibration.json)
//   4. Adaptive hardware estimation (EstimateThresholds)
//   5. Static defaults (DefaultThresholds)

// Thresholds is the algorithm selection table shared by multiplication and
// division. Every entry is a length in limbs. The multiplication entries are
// compared with the length of the shorter operand; the division entries with
// the divisor length. A Thresholds value only changes performance, never a
// result.
type Thresholds struct {
	// Toom22 is the shortest operand length multiplied with Toom-22 (and the
	// other two-piece variants) instead of the basecase.
	Toom22 int `json:"toom22"`
	// Toom33 enables the three-piece variants (33, 43, 53, 63).
	Toom33 int `json:"toom33"`
	// Toom44 enables the four-piece variants (44, 54).
	Toom44 int `json:"toom44"`
	// Toom6h enables Toom-6½.
	Toom6h int `json:"toom6h"`
	// Toom8h enables Toom-8½.
	Toom8h int `json:"toom8h"`
	// FFT is the operand length from which the Fermat-ring FFT is used.
	FFT int `json:"fft"`
	// DivDC is the divisor length from which exact division switches from
	// schoolbook to divide-and-conquer.
	DivDC int `json:"div_dc"`
	// DivDCApprox is the same crossover for the approximate quotient kernel.
	DivDCApprox int `json:"div_dc_approx"`
}

// Static defaults, tuned for 64-bit limbs on a recent x86-64 core.
const (
	DefaultToom22Threshold      = 32
	DefaultToom33Threshold      = 96
	DefaultToom44Threshold      = 192
	DefaultToom6hThreshold      = 320
	DefaultToom8hThreshold      = 480
	DefaultFFTThreshold         = 1800
	DefaultDivDCThreshold       = 60
	DefaultDivDCApproxThreshold = 60

	// MinToom22Threshold keeps every Toom-22 sub-product strictly shorter
	// than its parent.
	MinToom22Threshold = 4
	// MinDivDCThreshold keeps the half-size schoolbook calls of the
	// divide-and-conquer kernel above the two-limb divisor case.
	MinDivDCThreshold = 6
)

// DefaultThresholds returns the static threshold table.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Toom22:      DefaultToom22Threshold,
		Toom33:      DefaultToom33Threshold,
		Toom44:      DefaultToom44Threshold,
		Toom6h:      DefaultToom6hThreshold,
		Toom8h:      DefaultToom8hThreshold,
		FFT:         DefaultFFTThreshold,
		DivDC:       DefaultDivDCThreshold,
		DivDCApprox: DefaultDivDCApproxThreshold,
	}
}

// Validate checks that the multiplication thresholds are ordered and that
// every entry respects its minimum.
//
// Returns:
//   - error: A ConfigError describing the first violated constraint, or nil.
func (t Thresholds) Validate() error {
	if t.Toom22 < MinToom22Threshold {
		return apperrors.NewConfigError("toom22 threshold %d is below the minimum %d", t.Toom22, MinToom22Threshold)
	}
	chain := []struct {
		name  string
		value int
	}{
		{"toom22", t.Toom22}, {"toom33", t.Toom33}, {"toom44", t.Toom44},
		{"toom6h", t.Toom6h}, {"toom8h", t.Toom8h}, {"fft", t.FFT},
	}
	for i := 1; i < len(chain); i++ {
		if chain[i].value < chain[i-1].value {
			return apperrors.NewConfigError("%s threshold %d is below %s threshold %d",
				chain[i].name, chain[i].value, chain[i-1].name, chain[i-1].value)
		}
	}
	if t.DivDC < MinDivDCThreshold {
		return apperrors.NewConfigError("div-dc threshold %d is below the minimum %d", t.DivDC, MinDivDCThreshold)
	}
	if t.DivDCApprox < MinDivDCThreshold {
		return apperrors.NewConfigError("div-dc-approx threshold %d is below the minimum %d", t.DivDCApprox, MinDivDCThreshold)
	}
	return nil
}

// Merge returns t with every zero entry replaced by the entry of fallback.
func (t Thresholds) Merge(fallback Thresholds) Thresholds {
	pick := func(v, f int) int {
		if v == 0 {
			return f
		}
		return v
	}
	return Thresholds{
		Toom22:      pick(t.Toom22, fallback.Toom22),
		Toom33:      pick(t.Toom33, fallback.Toom33),
		Toom44:      pick(t.Toom44, fallback.Toom44),
		Toom6h:      pick(t.Toom6h, fallback.Toom6h),
		Toom8h:      pick(t.Toom8h, fallback.Toom8h),
		FFT:         pick(t.FFT, fallback.FFT),
		DivDC:       pick(t.DivDC, fallback.DivDC),
		DivDCApprox: pick(t.DivDCApprox, fallback.DivDCApprox),
	}
}

// String renders the table on one line.
func (t Thresholds) String() string {
	return fmt.Sprintf("toom22=%d toom33=%d toom44=%d toom6h=%d toom8h=%d fft=%d div-dc=%d div-dc-approx=%d",
		t.Toom22, t.Toom33, t.Toom44, t.Toom6h, t.Toom8h, t.FFT, t.DivDC, t.DivDCApprox)
}

// ApplyAdaptiveThresholds fills every threshold left at zero with the
// hardware estimate. User-specified overrides are preserved.
func ApplyAdaptiveThresholds(cfg AppConfig) AppConfig {
	cfg.Thresholds = cfg.Thresholds.Merge(EstimateThresholds(limbs.DetectCPUFeatures()))
	return cfg
}

// EstimateThresholds provides a heuristic threshold table without running
// benchmarks. The limb width is the main input: with 32-bit limbs the
// basecase does four times the word operations per bit, so every Toom
// crossover moves down. Without a carry-chain optimized multiply-add the
// basecase is slower still, which moves the Toom-22 crossover down again.
func EstimateThresholds(features limbs.CPUFeatures) Thresholds {
	t := DefaultThresholds()
	if limbs.W == 32 {
		t.Toom22 = 20
		t.Toom33 = 64
		t.Toom44 = 128
		t.Toom6h = 224
		t.Toom8h = 320
		t.FFT = 2400
		t.DivDC = 48
		t.DivDCApprox = 48
	}
	if !features.FastMulAdd() {
		t.Toom22 = max(MinToom22Threshold, t.Toom22*3/4)
	}
	return t
}
