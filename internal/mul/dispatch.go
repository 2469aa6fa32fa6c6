package mul

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agbru/natcalc/internal/bigfft"
	"github.com/agbru/natcalc/internal/config"
	apperrors "github.com/agbru/natcalc/internal/errors"
	"github.com/agbru/natcalc/internal/limbs"
)

// Algorithm identifies one multiplication method.
type Algorithm int

const (
	Basecase Algorithm = iota
	Toom22
	Toom32
	Toom33
	Toom42
	Toom43
	Toom44
	Toom52
	Toom53
	Toom54
	Toom62
	Toom63
	Toom6h
	Toom8h
	FFT
	Unbalanced
)

var algorithmNames = [...]string{
	Basecase:   "basecase",
	Toom22:     "toom22",
	Toom32:     "toom32",
	Toom33:     "toom33",
	Toom42:     "toom42",
	Toom43:     "toom43",
	Toom44:     "toom44",
	Toom52:     "toom52",
	Toom53:     "toom53",
	Toom54:     "toom54",
	Toom62:     "toom62",
	Toom63:     "toom63",
	Toom6h:     "toom6h",
	Toom8h:     "toom8h",
	FFT:        "fft",
	Unbalanced: "unbalanced",
}

func (a Algorithm) String() string {
	if a < 0 || int(a) >= len(algorithmNames) {
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
	return algorithmNames[a]
}

// ParseAlgorithm returns the algorithm with the given name. "karatsuba" is
// accepted for Toom-22.
func ParseAlgorithm(name string) (Algorithm, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "karatsuba" {
		return Toom22, nil
	}
	for i, n := range algorithmNames {
		if n == name {
			return Algorithm(i), nil
		}
	}
	return 0, apperrors.NewConfigError("unknown multiplication algorithm %q", name)
}

// Algorithms lists every algorithm in enum order.
func Algorithms() []Algorithm {
	out := make([]Algorithm, len(algorithmNames))
	for i := range out {
		out[i] = Algorithm(i)
	}
	return out
}

// IsToom reports whether a is a member of the Toom family.
func (a Algorithm) IsToom() bool {
	return a >= Toom22 && a <= Toom8h
}

// ─────────────────────────────────────────────────────────────────────────────
// Selection
// ─────────────────────────────────────────────────────────────────────────────

// tierPenalty is added to a candidate's ratio score for every piece it has
// fewer than the tier allows, so that larger operands favour more pieces.
const tierPenalty = 0.15

// tier returns the largest piece count the thresholds allow for a shorter
// operand of m limbs.
func tier(th config.Thresholds, m int) int {
	switch {
	case m >= th.Toom8h:
		return 8
	case m >= th.Toom6h:
		return 6
	case m >= th.Toom44:
		return 4
	case m >= th.Toom33:
		return 3
	}
	return 2
}

// Select returns the algorithm used for operands of n and m limbs. It depends
// only on the lengths and the threshold table. The order of n and m does not
// matter.
func Select(th config.Thresholds, n, m int) Algorithm {
	if n < m {
		n, m = m, n
	}
	if m < th.Toom22 || m < 1 {
		return Basecase
	}
	if m >= th.FFT {
		return FFT
	}
	t := tier(th, m)
	best, bestScore := Basecase, math.Inf(1)
	for alg := Toom22; alg <= Toom8h; alg++ {
		v := toomVariants[alg]
		pc := v.pieceCount()
		if pc > t {
			continue
		}
		sh := v.shape(n, m)
		if sh == nil {
			continue
		}
		score := sh.ratioScore(n, m) + tierPenalty*float64(t-pc)
		// Ties go to the later variant, which has more pieces.
		if score <= bestScore {
			best, bestScore = alg, score
		}
	}
	if best != Basecase {
		return best
	}
	if n >= 2*m {
		return Unbalanced
	}
	return Basecase
}

// ─────────────────────────────────────────────────────────────────────────────
// Multiplier
// ─────────────────────────────────────────────────────────────────────────────

// Multiplier multiplies limb vectors with the algorithms selected from its
// threshold table. It is immutable and safe for concurrent use.
//
// *Multiplier satisfies bigfft.Multiplier, so the FFT pointwise products
// recurse through the same dispatcher.
type Multiplier struct {
	th     config.Thresholds
	logger zerolog.Logger
}

// Option configures a Multiplier.
type Option func(*Multiplier)

// WithLogger sets the logger used for configuration and forced-algorithm
// diagnostics. The hot path never logs.
func WithLogger(l zerolog.Logger) Option {
	return func(mu *Multiplier) { mu.logger = l }
}

// New returns a Multiplier using th, which must be valid.
func New(th config.Thresholds, opts ...Option) (*Multiplier, error) {
	if err := th.Validate(); err != nil {
		return nil, err
	}
	mu := &Multiplier{th: th, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(mu)
	}
	mu.logger.Debug().Str("thresholds", th.String()).Msg("multiplier configured")
	return mu, nil
}

var defaultMultiplier = sync.OnceValue(func() *Multiplier {
	mu, err := New(config.DefaultThresholds())
	if err != nil {
		panic(err)
	}
	return mu
})

// Default returns the shared Multiplier built from the static thresholds.
func Default() *Multiplier { return defaultMultiplier() }

// Thresholds returns the table the Multiplier selects with.
func (mu *Multiplier) Thresholds() config.Thresholds { return mu.th }

// Algorithm returns the algorithm Mul uses at the top level for operands of
// n and m limbs.
func (mu *Multiplier) Algorithm(n, m int) Algorithm {
	return Select(mu.th, n, m)
}

// ScratchLen returns the scratch length MulWithScratch needs for operands of
// n and m limbs.
func (mu *Multiplier) ScratchLen(n, m int) int {
	return mu.scratchLen(n, m)
}

// ScratchLenWith returns the scratch length MulWith needs to run alg at the
// top level. It is zero for an unsupported combination.
func (mu *Multiplier) ScratchLenWith(alg Algorithm, n, m int) int {
	if n < m {
		n, m = m, n
	}
	if !mu.Supports(alg, n, m) {
		return 0
	}
	return mu.algScratchLen(alg, n, m)
}

// Supports reports whether alg can multiply operands of n and m limbs.
func (mu *Multiplier) Supports(alg Algorithm, n, m int) bool {
	if n < m {
		n, m = m, n
	}
	if m < 1 {
		return false
	}
	switch {
	case alg == Basecase, alg == FFT:
		return true
	case alg == Unbalanced:
		return n > m
	case alg.IsToom():
		return toomVariants[alg].InputSizesValid(n, m)
	}
	return false
}

// Mul writes xs·ys to out[:len(xs)+len(ys)] and returns the top limb of the
// product. out must not overlap either operand. Scratch is allocated for the
// call.
func (mu *Multiplier) Mul(out, xs, ys []Limb) Limb {
	checkMulArgs("Mul", out, xs, ys)
	return mu.MulWithScratch(out, xs, ys, make([]Limb, mu.scratchLen(len(xs), len(ys))))
}

// MulInPlace replaces the n-limb operand in xs[:n] with its product by ys,
// written to xs[:n+len(ys)], and returns the top limb. ys must not overlap
// xs.
func (mu *Multiplier) MulInPlace(xs []Limb, n int, ys []Limb) Limb {
	if n > len(xs) || len(xs) < n+len(ys) {
		apperrors.PanicPrecondition("MulInPlace", "len(xs)=%d cannot hold %d+%d limbs", len(xs), n, len(ys))
	}
	return mu.Mul(xs[:n+len(ys)], limbs.Clone(xs[:n]), ys)
}

// MulWithScratch is Mul with caller-owned scratch of at least
// ScratchLen(len(xs), len(ys)) limbs.
func (mu *Multiplier) MulWithScratch(out, xs, ys, scratch []Limb) Limb {
	checkMulArgs("MulWithScratch", out, xs, ys)
	if need := mu.scratchLen(len(xs), len(ys)); len(scratch) < need {
		apperrors.PanicPrecondition("MulWithScratch", "scratch has %d limbs, need %d", len(scratch), need)
	}
	mu.mulScratch(out, xs, ys, scratch)
	return topLimb(out, len(xs)+len(ys))
}

// MulWith runs alg at the top level regardless of the thresholds; the
// sub-products it needs are dispatched normally. It fails when alg cannot
// handle the lengths.
func (mu *Multiplier) MulWith(alg Algorithm, out, xs, ys, scratch []Limb) (Limb, error) {
	checkMulArgs("MulWith", out, xs, ys)
	if len(xs) < len(ys) {
		xs, ys = ys, xs
	}
	n, m := len(xs), len(ys)
	if !mu.Supports(alg, n, m) {
		mu.logger.Debug().Str("algorithm", alg.String()).Int("n", n).Int("m", m).Msg("algorithm rejected operand sizes")
		return 0, apperrors.NewConfigError("%s cannot multiply %d×%d limbs", alg, n, m)
	}
	if need := mu.algScratchLen(alg, n, m); len(scratch) < need {
		apperrors.PanicPrecondition("MulWith", "scratch has %d limbs, need %d", len(scratch), need)
	}
	mu.run(alg, out[:n+m], xs, ys, scratch)
	return topLimb(out, n+m), nil
}

// Square writes xs² to out[:2·len(xs)] and returns the top limb.
func (mu *Multiplier) Square(out, xs []Limb) Limb {
	checkMulArgs("Square", out, xs, xs)
	n := len(xs)
	if n == 0 {
		return 0
	}
	if Select(mu.th, n, n) == Basecase {
		SquareBasecase(out, xs)
		return out[2*n-1]
	}
	mu.mulScratch(out, xs, xs, make([]Limb, mu.scratchLen(n, n)))
	return out[2*n-1]
}

func checkMulArgs(op string, out, xs, ys []Limb) {
	if len(out) < len(xs)+len(ys) {
		apperrors.PanicPrecondition(op, "len(out)=%d < %d+%d", len(out), len(xs), len(ys))
	}
	if limbs.Overlaps(out[:len(xs)+len(ys)], xs) || limbs.Overlaps(out[:len(xs)+len(ys)], ys) {
		apperrors.PanicPrecondition(op, "out overlaps an operand")
	}
}

func topLimb(out []Limb, n int) Limb {
	if n == 0 {
		return 0
	}
	return out[n-1]
}

// mulScratch is the recursive entry point: it orders the operands, handles
// the empty product and runs the selected algorithm.
func (mu *Multiplier) mulScratch(out, xs, ys, scratch []Limb) {
	if len(xs) < len(ys) {
		xs, ys = ys, xs
	}
	n, m := len(xs), len(ys)
	out = out[:n+m]
	if m == 0 {
		clear(out)
		return
	}
	mu.run(Select(mu.th, n, m), out, xs, ys, scratch)
}

func (mu *Multiplier) scratchLen(n, m int) int {
	if n < m {
		n, m = m, n
	}
	if m == 0 {
		return 0
	}
	return mu.algScratchLen(Select(mu.th, n, m), n, m)
}

// algScratchLen requires n >= m >= 1 and a supported algorithm.
func (mu *Multiplier) algScratchLen(alg Algorithm, n, m int) int {
	switch {
	case alg == Basecase, alg == FFT:
		return 0
	case alg == Unbalanced:
		return mu.unbalancedScratchLen(n, m)
	}
	return mu.toomScratchLen(toomVariants[alg].shape(n, m), n, m)
}

// run executes alg on n >= m >= 1 limbs; out has exactly n+m limbs.
func (mu *Multiplier) run(alg Algorithm, out, xs, ys, scratch []Limb) {
	switch {
	case alg == Basecase:
		MulBasecase(out, xs, ys)
	case alg == FFT:
		bigfft.MulTo(out, xs, ys, mu)
	case alg == Unbalanced:
		mu.mulUnbalanced(out, xs, ys, scratch)
	case alg.IsToom():
		sh := toomVariants[alg].shape(len(xs), len(ys))
		if sh == nil {
			apperrors.PanicPrecondition("mul", "%s cannot multiply %d×%d limbs", alg, len(xs), len(ys))
		}
		mu.toomMul(sh, out, xs, ys, scratch)
	default:
		apperrors.PanicPrecondition("mul", "unknown algorithm %s", alg)
	}
}
