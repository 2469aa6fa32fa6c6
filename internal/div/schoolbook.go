package div

import (
	apperrors "github.com/agbru/natcalc/internal/errors"
	"github.com/agbru/natcalc/internal/limbs"
)

// ApproxQuotient describes the result of an approximate division kernel.
type ApproxQuotient struct {
	// High is the quotient limb above the written ones, which is 0 or 1.
	High bool
	// MaybeOneTooLarge is set when the quotient may exceed the exact one by
	// one. When it is clear the quotient is exact.
	MaybeOneTooLarge bool
}

func checkKernelArgs(op string, qs, ns, ds []Limb) {
	nn, dn := len(ns), len(ds)
	if dn <= 2 || nn < dn || len(qs) < nn-dn {
		apperrors.PanicPrecondition(op, "len(qs)=%d len(ns)=%d len(ds)=%d", len(qs), nn, dn)
	}
	if !normalized(ds[dn-1]) {
		apperrors.PanicPrecondition(op, "divisor is not normalized")
	}
	if limbs.Overlaps(qs[:nn-dn], ns) || limbs.Overlaps(qs[:nn-dn], ds) || limbs.Overlaps(ns, ds) {
		apperrors.PanicPrecondition(op, "operands overlap")
	}
}

// DivSchoolbook divides ns by ds with the 3-by-2 kernel, one quotient limb
// per step. It writes the len(ns)-len(ds) low quotient limbs to qs, leaves
// the remainder in ns[:len(ds)] and reports whether the quotient has a
// further top limb of 1. ns[len(ds):] is left unspecified.
//
// ds must have more than two limbs and a normalized top limb, and
// inv = InvertPi1(ds[len(ds)-1], ds[len(ds)-2]).
func DivSchoolbook(qs, ns, ds []Limb, inv Limb) bool {
	checkKernelArgs("DivSchoolbook", qs, ns, ds)
	nn, dn := len(ns), len(ds)
	qh := limbs.CmpSameLen(ns[nn-dn:], ds) >= 0
	if qh {
		limbs.SubInPlace(ns[nn-dn:], ds)
	}

	d1, d0 := ds[dn-1], ds[dn-2]
	// n1 is the top limb of the running remainder. It is kept out of ns
	// between steps.
	n1 := ns[nn-1]
	for i := nn - dn - 1; i >= 0; i-- {
		var q Limb
		if n1 == d1 && ns[i+dn-1] == d0 {
			q = limbs.MaxLimb
			limbs.SubMulVVW(ns[i:i+dn], ds, q)
			n1 = ns[i+dn-1]
		} else {
			var n0 Limb
			q, n1, n0 = Div3by2(n1, ns[i+dn-1], ns[i+dn-2], d1, d0, inv)
			cy := limbs.SubMulVVW(ns[i:i+dn-2], ds[:dn-2], q)
			var cy1 Limb
			if n0 < cy {
				cy1 = 1
			}
			n0 -= cy
			borrow := n1 < cy1
			n1 -= cy1
			ns[i+dn-2] = n0
			if borrow {
				n1 += d1 + limbs.AddInPlace(ns[i:i+dn-1], ds[:dn-1])
				q--
			}
		}
		qs[i] = q
	}
	ns[dn-1] = n1
	return qh
}

// truncation returns how many low divisor limbs the approximate kernels
// drop. Keeping len(qs)+1 divisor limbs (and at least three) bounds the
// quotient error to one.
func truncation(nn, dn int) int {
	qn := nn - dn
	return dn - min(dn, max(qn+1, 3))
}

// DivSchoolbookApprox is DivSchoolbook for callers that only need the
// quotient: it may return a quotient one too large, and ns is left
// unspecified. Only the top len(ns)-len(ds)+1 divisor limbs take part.
func DivSchoolbookApprox(qs, ns, ds []Limb, inv Limb) ApproxQuotient {
	checkKernelArgs("DivSchoolbookApprox", qs, ns, ds)
	k := truncation(len(ns), len(ds))
	high := DivSchoolbook(qs, ns[k:], ds[k:], inv)
	return ApproxQuotient{High: high, MaybeOneTooLarge: k > 0}
}
