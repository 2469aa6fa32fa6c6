// This file implements candidate threshold generation around the hardware
// estimate.

package calibration

import (
	"slices"

	"github.com/agbru/natcalc/internal/config"
	apperrors "github.com/agbru/natcalc/internal/errors"
	"github.com/agbru/natcalc/internal/limbs"
	"github.com/agbru/natcalc/internal/mul"
)

// ─────────────────────────────────────────────────────────────────────────────
// Tunable parameters
// ─────────────────────────────────────────────────────────────────────────────

// parameterKind tells the tuner which kernels a parameter arbitrates.
type parameterKind int

const (
	kindMul parameterKind = iota
	kindDiv
	kindDivApprox
)

// Parameter describes one entry of the threshold table and the pair of
// methods whose crossover it records.
type Parameter struct {
	// Name is the flag name of the threshold (toom22, fft, div-dc, ...).
	Name string
	// Lower and Upper are the algorithms below and above the crossover.
	// They are only meaningful for multiplication parameters.
	Lower, Upper mul.Algorithm
	kind         parameterKind
	minimum      int
	get          func(config.Thresholds) int
	set          func(*config.Thresholds, int)
}

// Parameters lists the tunable thresholds in dependency order: every
// multiplication crossover is measured with the lower tiers already tuned.
func Parameters() []Parameter {
	return []Parameter{
		{Name: "toom22", Lower: mul.Basecase, Upper: mul.Toom22, minimum: config.MinToom22Threshold,
			get: func(t config.Thresholds) int { return t.Toom22 }, set: func(t *config.Thresholds, v int) { t.Toom22 = v }},
		{Name: "toom33", Lower: mul.Toom22, Upper: mul.Toom33, minimum: config.MinToom22Threshold,
			get: func(t config.Thresholds) int { return t.Toom33 }, set: func(t *config.Thresholds, v int) { t.Toom33 = v }},
		{Name: "toom44", Lower: mul.Toom33, Upper: mul.Toom44, minimum: config.MinToom22Threshold,
			get: func(t config.Thresholds) int { return t.Toom44 }, set: func(t *config.Thresholds, v int) { t.Toom44 = v }},
		{Name: "toom6h", Lower: mul.Toom44, Upper: mul.Toom6h, minimum: config.MinToom22Threshold,
			get: func(t config.Thresholds) int { return t.Toom6h }, set: func(t *config.Thresholds, v int) { t.Toom6h = v }},
		{Name: "toom8h", Lower: mul.Toom6h, Upper: mul.Toom8h, minimum: config.MinToom22Threshold,
			get: func(t config.Thresholds) int { return t.Toom8h }, set: func(t *config.Thresholds, v int) { t.Toom8h = v }},
		{Name: "fft", Lower: mul.Toom8h, Upper: mul.FFT, minimum: config.MinToom22Threshold,
			get: func(t config.Thresholds) int { return t.FFT }, set: func(t *config.Thresholds, v int) { t.FFT = v }},
		{Name: "div-dc", kind: kindDiv, minimum: config.MinDivDCThreshold,
			get: func(t config.Thresholds) int { return t.DivDC }, set: func(t *config.Thresholds, v int) { t.DivDC = v }},
		{Name: "div-dc-approx", kind: kindDivApprox, minimum: config.MinDivDCThreshold,
			get: func(t config.Thresholds) int { return t.DivDCApprox }, set: func(t *config.Thresholds, v int) { t.DivDCApprox = v }},
	}
}

// LookupParameter returns the parameter with the given flag name.
func LookupParameter(name string) (Parameter, error) {
	for _, p := range Parameters() {
		if p.Name == name {
			return p, nil
		}
	}
	return Parameter{}, apperrors.NewConfigError("unknown calibration parameter %q", name)
}

// ─────────────────────────────────────────────────────────────────────────────
// Candidate generation
// ─────────────────────────────────────────────────────────────────────────────

// ladderSteps are the multipliers, in eighths, applied to the estimate to
// build the full candidate ladder.
var ladderSteps = []int{4, 5, 6, 7, 8, 10, 12, 14, 16}

// quickLadderSteps is the reduced ladder of quick calibration.
var quickLadderSteps = []int{4, 6, 8, 12}

// GenerateCandidates returns the sorted, distinct operand lengths at which
// the crossover of p is searched: a geometric ladder from half to twice the
// hardware estimate, never below the parameter minimum.
func GenerateCandidates(p Parameter, quick bool) []int {
	estimate := p.get(EstimateThresholds())
	steps := ladderSteps
	if quick {
		steps = quickLadderSteps
	}
	out := make([]int, 0, len(steps))
	for _, s := range steps {
		out = append(out, max(p.minimum, estimate*s/8))
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// EstimateThresholds returns the hardware estimate the ladders are centred
// on. It delegates to config.EstimateThresholds.
func EstimateThresholds() config.Thresholds {
	return config.EstimateThresholds(limbs.DetectCPUFeatures())
}
