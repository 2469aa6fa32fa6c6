package orchestration

import (
	"fmt"
	"math/big"
	"math/rand"

	"github.com/agbru/natcalc/internal/arena"
	"github.com/agbru/natcalc/internal/config"
	"github.com/agbru/natcalc/internal/div"
	apperrors "github.com/agbru/natcalc/internal/errors"
	"github.com/agbru/natcalc/internal/limbs"
	"github.com/agbru/natcalc/internal/mul"
	"github.com/agbru/natcalc/internal/natural"
)

// Names of the checkers that are not multiplication algorithms.
const (
	CheckDivMod  = "divmod"
	CheckDiv     = "div"
	CheckNatural = "natural"
)

// SelectCheckers builds the checkers requested by cfg.Algo for operands of
// cfg.N and cfg.M limbs. "all" selects every multiplication algorithm able to
// handle the sizes, followed by the division and Natural checkers. The
// basecase is the reference and is never checked against itself.
func SelectCheckers(cfg config.AppConfig, dv *div.Divider) ([]Checker, error) {
	mu := dv.Multiplier()
	n, m := cfg.N, cfg.M
	if cfg.Algo == "all" {
		var checkers []Checker
		for _, alg := range mul.Algorithms() {
			if alg != mul.Basecase && mu.Supports(alg, n, m) {
				checkers = append(checkers, newMulChecker(mu, alg, n, m))
			}
		}
		return append(checkers,
			newDivModChecker(dv, n, m),
			newDivChecker(dv, n, m),
			newNaturalChecker(n, m)), nil
	}
	switch cfg.Algo {
	case CheckDivMod:
		return []Checker{newDivModChecker(dv, n, m)}, nil
	case CheckDiv:
		return []Checker{newDivChecker(dv, n, m)}, nil
	case CheckNatural:
		return []Checker{newNaturalChecker(n, m)}, nil
	}
	alg, err := mul.ParseAlgorithm(cfg.Algo)
	if err != nil {
		return nil, err
	}
	if alg == mul.Basecase {
		return nil, apperrors.NewConfigError("basecase is the reference and cannot be verified")
	}
	if !mu.Supports(alg, n, m) {
		return nil, apperrors.NewConfigError("%s cannot multiply %d×%d limbs", alg, n, m)
	}
	return []Checker{newMulChecker(mu, alg, n, m)}, nil
}

// fillRandom fills xs with random limbs. One draw in four uses all-ones
// limbs, which exercise every carry path.
func fillRandom(xs []limbs.Limb, rng *rand.Rand) {
	if rng.Intn(4) == 0 {
		for i := range xs {
			xs[i] = limbs.MaxLimb
		}
		return
	}
	for i := range xs {
		xs[i] = limbs.Limb(rng.Uint64())
	}
}

// fillDivisor fills ds with random limbs and a non-zero top limb.
func fillDivisor(ds []limbs.Limb, rng *rand.Rand) {
	fillRandom(ds, rng)
	if ds[len(ds)-1] == 0 {
		ds[len(ds)-1] = 1
	}
}

func sizes(n, m int) string { return fmt.Sprintf("%d×%d", n, m) }

// ─────────────────────────────────────────────────────────────────────────────
// Multiplication
// ─────────────────────────────────────────────────────────────────────────────

// mulChecker runs one algorithm at the top level and compares with the
// basecase.
type mulChecker struct {
	mu      *mul.Multiplier
	alg     mul.Algorithm
	n, m    int
	scratch int
	arena   *arena.Arena
}

func newMulChecker(mu *mul.Multiplier, alg mul.Algorithm, n, m int) *mulChecker {
	scratch := mu.ScratchLenWith(alg, n, m)
	return &mulChecker{mu: mu, alg: alg, n: n, m: m, scratch: scratch, arena: arena.ForProduct(n, m, scratch)}
}

func (c *mulChecker) Name() string { return c.alg.String() }
func (c *mulChecker) Limbs() int   { return max(c.n, c.m) }

func (c *mulChecker) Check(rng *rand.Rand) error {
	c.arena.Reset()
	xs, ys := c.arena.Alloc(c.n), c.arena.Alloc(c.m)
	fillRandom(xs, rng)
	fillRandom(ys, rng)
	out := c.arena.Alloc(c.n + c.m)
	ref := c.arena.Alloc(c.n + c.m)
	scratch := c.arena.Alloc(c.scratch)
	if _, err := c.mu.MulWith(c.alg, out, xs, ys, scratch); err != nil {
		return err
	}
	if c.n >= c.m {
		mul.MulBasecase(ref, xs, ys)
	} else {
		mul.MulBasecase(ref, ys, xs)
	}
	if limbs.CmpSameLen(out, ref) != 0 {
		return apperrors.MismatchError{Algorithm: c.Name(), Reference: mul.Basecase.String(), Sizes: sizes(c.n, c.m)}
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Division
// ─────────────────────────────────────────────────────────────────────────────

// divModChecker checks that DivMod returns q and r with q·d + r = n and
// r < d.
type divModChecker struct {
	dv    *div.Divider
	n, m  int
	arena *arena.Arena
}

func newDivModChecker(dv *div.Divider, n, m int) *divModChecker {
	qn := div.QuotientLen(n, m)
	return &divModChecker{dv: dv, n: n, m: m, arena: arena.New(n + 2*m + 2*qn + m)}
}

func (c *divModChecker) Name() string { return CheckDivMod }
func (c *divModChecker) Limbs() int   { return max(c.n, c.m) }

func (c *divModChecker) Check(rng *rand.Rand) error {
	c.arena.Reset()
	ns, ds := c.arena.Alloc(c.n), c.arena.Alloc(c.m)
	fillRandom(ns, rng)
	fillDivisor(ds, rng)
	qs := c.arena.Alloc(div.QuotientLen(c.n, c.m))
	rs := c.arena.Alloc(c.m)
	c.dv.DivMod(qs, rs, ns, ds)

	mismatch := apperrors.MismatchError{Algorithm: CheckDivMod, Reference: "q·d+r", Sizes: sizes(c.n, c.m)}
	if limbs.Cmp(rs, ds) >= 0 {
		return mismatch
	}
	q := limbs.Trim(qs)
	if len(q) == 0 {
		if limbs.Cmp(rs, ns) != 0 {
			return mismatch
		}
		return nil
	}
	prod := c.arena.Alloc(len(q) + c.m + 1)
	c.dv.Multiplier().Mul(prod, q, ds)
	limbs.AddInPlace(prod, rs)
	if limbs.Cmp(prod, ns) != 0 {
		return mismatch
	}
	return nil
}

// divChecker compares the quotient-only Div with the quotient of DivMod.
type divChecker struct {
	dv    *div.Divider
	n, m  int
	arena *arena.Arena
}

func newDivChecker(dv *div.Divider, n, m int) *divChecker {
	qn := div.QuotientLen(n, m)
	return &divChecker{dv: dv, n: n, m: m, arena: arena.New(n + 2*m + 2*qn)}
}

func (c *divChecker) Name() string { return CheckDiv }
func (c *divChecker) Limbs() int   { return max(c.n, c.m) }

func (c *divChecker) Check(rng *rand.Rand) error {
	c.arena.Reset()
	ns, ds := c.arena.Alloc(c.n), c.arena.Alloc(c.m)
	fillRandom(ns, rng)
	fillDivisor(ds, rng)
	qn := div.QuotientLen(c.n, c.m)
	q1, q2 := c.arena.Alloc(qn), c.arena.Alloc(qn)
	rs := c.arena.Alloc(c.m)
	c.dv.Div(q1, ns, ds)
	c.dv.DivMod(q2, rs, ns, ds)
	if limbs.CmpSameLen(q1, q2) != 0 {
		return apperrors.MismatchError{Algorithm: CheckDiv, Reference: CheckDivMod, Sizes: sizes(c.n, c.m)}
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Natural
// ─────────────────────────────────────────────────────────────────────────────

// naturalChecker compares Natural products and quotients with math/big.
type naturalChecker struct {
	n, m   int
	xs, ys []limbs.Limb
}

func newNaturalChecker(n, m int) *naturalChecker {
	return &naturalChecker{n: n, m: m, xs: make([]limbs.Limb, n), ys: make([]limbs.Limb, m)}
}

func (c *naturalChecker) Name() string { return CheckNatural }
func (c *naturalChecker) Limbs() int   { return max(c.n, c.m) }

func (c *naturalChecker) Check(rng *rand.Rand) error {
	fillRandom(c.xs, rng)
	fillDivisor(c.ys, rng)
	x, y := natural.FromLimbs(c.xs), natural.FromLimbs(c.ys)
	bx, by := x.Big(), y.Big()

	if x.Mul(y).Big().Cmp(new(big.Int).Mul(bx, by)) != 0 {
		return apperrors.MismatchError{Algorithm: "natural.Mul", Reference: "math/big", Sizes: sizes(c.n, c.m)}
	}
	q, r := x.DivMod(y)
	bq, br := new(big.Int).QuoRem(bx, by, new(big.Int))
	if q.Big().Cmp(bq) != 0 || r.Big().Cmp(br) != 0 {
		return apperrors.MismatchError{Algorithm: "natural.DivMod", Reference: "math/big", Sizes: sizes(c.n, c.m)}
	}
	return nil
}
