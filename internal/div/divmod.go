package div

import (
	"math/bits"

	apperrors "github.com/agbru/natcalc/internal/errors"
	"github.com/agbru/natcalc/internal/limbs"
)

// divisor trims ds and panics on a zero divisor.
func divisor(ds []Limb) []Limb {
	ds = limbs.Trim(ds)
	if len(ds) == 0 {
		panic(apperrors.ErrDivisionByZero)
	}
	return ds
}

// QuotientLen returns the number of quotient limbs DivMod and Div write for
// a dividend of nn limbs and a divisor of dn significant limbs.
func QuotientLen(nn, dn int) int {
	return max(nn-dn+1, 0)
}

func checkOutputs(op string, qs, rs, ns, ds []Limb) {
	for _, out := range [][]Limb{qs, rs} {
		if limbs.Overlaps(out, ns) || limbs.Overlaps(out, ds) {
			apperrors.PanicPrecondition(op, "an output overlaps an operand")
		}
	}
	if limbs.Overlaps(qs, rs) {
		apperrors.PanicPrecondition(op, "quotient and remainder overlap")
	}
}

// DivMod divides ns by ds. It writes the quotient to
// qs[:QuotientLen(len(ns), dn)] and the remainder to rs[:dn], where dn is the
// number of significant limbs of ds. Neither operand needs to be canonical
// or normalized, and the outputs must not overlap the operands.
func (dv *Divider) DivMod(qs, rs, ns, ds []Limb) {
	ds = divisor(ds)
	dn := len(ds)
	qn := QuotientLen(len(ns), dn)
	if len(rs) < dn || len(qs) < qn {
		apperrors.PanicPrecondition("DivMod", "len(qs)=%d len(rs)=%d, need %d and %d", len(qs), len(rs), qn, dn)
	}
	qs, rs = qs[:qn], rs[:dn]
	checkOutputs("DivMod", qs, rs, ns, ds)
	clear(qs)
	ns = limbs.Trim(ns)
	if len(ns) < dn {
		copy(rs, ns)
		clear(rs[len(ns):])
		return
	}
	dv.divMod(qs[:len(ns)-dn+1], rs, ns, ds)
}

// DivModInPlace divides ns by ds, writing the quotient to
// qs[:QuotientLen(len(ns), dn)] and replacing ns with the remainder: ns[:dn]
// holds it and the limbs above are cleared. It reports whether the division
// is exact. len(ns) must be at least dn and qs must not overlap ns or ds.
func (dv *Divider) DivModInPlace(qs, ns, ds []Limb) bool {
	dn := len(divisor(ds))
	if len(ns) < dn {
		apperrors.PanicPrecondition("DivModInPlace", "len(ns)=%d cannot hold a %d-limb remainder", len(ns), dn)
	}
	if limbs.Overlaps(ns, ds) || limbs.Overlaps(qs, ns) {
		apperrors.PanicPrecondition("DivModInPlace", "the dividend overlaps the divisor or the quotient")
	}
	dv.DivMod(qs, ns[:dn], limbs.Clone(ns), ds)
	clear(ns[dn:])
	return limbs.IsZero(ns[:dn])
}

// divMod requires canonical ns and ds with len(ns) >= len(ds) >= 1.
func (dv *Divider) divMod(qs, rs, ns, ds []Limb) {
	nn, dn := len(ns), len(ds)
	switch dn {
	case 1:
		rs[0] = DivRemLimb(qs, ns, ds[0])
		return
	case 2:
		rs[0], rs[1] = DivRem2(qs, ns, ds)
		return
	}
	s := uint(bits.LeadingZeros(uint(ds[dn-1])))
	buf := make([]Limb, nn+1+dn)
	nb, db := buf[:nn+1], buf[nn+1:]
	limbs.ShlTo(db, ds, s)
	// The carry limb is below the top divisor limb, so no high quotient
	// limb appears.
	nb[nn] = limbs.ShlTo(nb[:nn], ns, s)
	inv := InvertPi1(db[dn-1], db[dn-2])
	if dn < dv.dc || len(qs) < dv.dc {
		DivSchoolbook(qs, nb, db, inv)
	} else {
		dv.DivDivideAndConquer(qs, nb, db, inv, make([]Limb, dv.DivScratchLen(nn+1, dn)))
	}
	limbs.ShrTo(rs, nb[:dn], s)
}

// Div writes the quotient of ns by ds to qs[:QuotientLen(len(ns), dn)]
// without computing the remainder. The approximate kernels run on a
// dividend extended by one zero low limb, so the extra quotient limb absorbs
// their error and the product check is needed only when it is zero.
func (dv *Divider) Div(qs, ns, ds []Limb) {
	ds = divisor(ds)
	dn := len(ds)
	qn := QuotientLen(len(ns), dn)
	if len(qs) < qn {
		apperrors.PanicPrecondition("Div", "len(qs)=%d, need %d", len(qs), qn)
	}
	qs = qs[:qn]
	checkOutputs("Div", qs, nil, ns, ds)
	clear(qs)
	ns = limbs.Trim(ns)
	nn := len(ns)
	if nn < dn {
		return
	}
	qs = qs[:nn-dn+1]
	if dn <= 2 {
		dv.divMod(qs, make([]Limb, dn), ns, ds)
		return
	}
	s := uint(bits.LeadingZeros(uint(ds[dn-1])))
	buf := make([]Limb, nn+2+dn)
	nb, db := buf[:nn+2], buf[nn+2:]
	limbs.ShlTo(db, ds, s)
	nb[nn+1] = limbs.ShlTo(nb[1:nn+1], ns, s)
	inv := InvertPi1(db[dn-1], db[dn-2])
	qb := make([]Limb, nn+2-dn)
	var approx ApproxQuotient
	if dn < dv.dcApprox || len(qb) < dv.dcApprox {
		approx = DivSchoolbookApprox(qb, nb, db, inv)
	} else {
		approx = dv.DivDivideAndConquerApprox(qb, nb, db, inv, make([]Limb, dv.ApproxScratchLen(nn+2, dn)))
	}
	copy(qs, qb[1:])
	if approx.MaybeOneTooLarge && qb[0] == 0 {
		dv.Correct(qs, ApproxQuotient{High: approx.High, MaybeOneTooLarge: true}, ns, ds)
	}
}

// DivRound returns the quotient of ns by ds rounded with mode, as a new
// canonical vector, and how it compares with the exact quotient. Exact
// panics when ds does not divide ns.
func (dv *Divider) DivRound(ns, ds []Limb, mode limbs.RoundingMode) ([]Limb, limbs.Ordering) {
	ds = divisor(ds)
	ns = limbs.Trim(ns)
	dn := len(ds)
	// One spare limb takes the carry of rounding up.
	qs := make([]Limb, QuotientLen(len(ns), dn)+1)
	rs := make([]Limb, dn)
	dv.DivMod(qs[:len(qs)-1], rs, ns, ds)
	rs = limbs.Trim(rs)
	if len(rs) == 0 {
		return limbs.Trim(qs), limbs.Equal
	}
	up, ord := limbs.RoundDecision(mode, "DivRound", cmpHalf(rs, ds), qs[0]&1 == 1)
	if up {
		limbs.Increment(qs)
	}
	return limbs.Trim(qs), ord
}

// cmpHalf compares 2·rs with ds.
func cmpHalf(rs, ds []Limb) int {
	twice := make([]Limb, len(rs)+1)
	twice[len(rs)] = limbs.ShlTo(twice[:len(rs)], rs, 1)
	return limbs.Cmp(twice, ds)
}

// DivMod divides with the default Divider.
func DivMod(qs, rs, ns, ds []Limb) { Default().DivMod(qs, rs, ns, ds) }

// DivModInPlace divides in place with the default Divider.
func DivModInPlace(qs, ns, ds []Limb) bool { return Default().DivModInPlace(qs, ns, ds) }

// Div computes the quotient with the default Divider.
func Div(qs, ns, ds []Limb) { Default().Div(qs, ns, ds) }

// DivRound rounds the quotient with the default Divider.
func DivRound(ns, ds []Limb, mode limbs.RoundingMode) ([]Limb, limbs.Ordering) {
	return Default().DivRound(ns, ds, mode)
}
