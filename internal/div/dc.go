package div

import (
	"sync"

	apperrors "github.com/agbru/natcalc/internal/errors"
	"github.com/agbru/natcalc/internal/limbs"
	"github.com/agbru/natcalc/internal/mul"
)

// Divider runs the division algorithms with the divide-and-conquer
// crossovers of a threshold table and multiplies back through a
// mul.Multiplier. It is immutable and safe for concurrent use.
type Divider struct {
	mu       *mul.Multiplier
	dc       int
	dcApprox int
}

// New returns a Divider using the thresholds and the multiplier of mu.
func New(mu *mul.Multiplier) *Divider {
	th := mu.Thresholds()
	return &Divider{mu: mu, dc: th.DivDC, dcApprox: th.DivDCApprox}
}

var defaultDivider = sync.OnceValue(func() *Divider { return New(mul.Default()) })

// Default returns the Divider built on mul.Default.
func Default() *Divider { return defaultDivider() }

// Multiplier returns the multiplier products are computed with.
func (dv *Divider) Multiplier() *mul.Multiplier { return dv.mu }

// ─────────────────────────────────────────────────────────────────────────────
// Exact division
// ─────────────────────────────────────────────────────────────────────────────

// DivDivideAndConquer has the contract of DivSchoolbook and computes the
// same quotient and remainder. The quotient is produced in blocks of
// len(ds) limbs; a block of at least the DivDC threshold divides the top
// half of the divisor recursively, multiplies the partial quotient by the
// rest of the divisor and corrects. scratch needs DivScratchLen(len(ns),
// len(ds)) limbs.
func (dv *Divider) DivDivideAndConquer(qs, ns, ds []Limb, inv Limb, scratch []Limb) bool {
	checkKernelArgs("DivDivideAndConquer", qs, ns, ds)
	nn, dn := len(ns), len(ds)
	if need := dv.DivScratchLen(nn, dn); len(scratch) < need {
		apperrors.PanicPrecondition("DivDivideAndConquer", "scratch has %d limbs, need %d", len(scratch), need)
	}
	qn := nn - dn
	qh := limbs.CmpSameLen(ns[qn:], ds) >= 0
	if qh {
		limbs.SubInPlace(ns[qn:], ds)
	}
	// The first block takes the odd part so that the others are full.
	b := qn % dn
	if b == 0 {
		b = dn
	}
	for qn > 0 {
		dv.divBlock(qs[qn-b:qn], ns[qn-b:qn+dn], ds, inv, scratch)
		qn -= b
		b = dn
	}
	return qh
}

// divBlock divides the len(ds)+len(qs) limbs of ws, whose top len(ds) limbs
// are below ds, so the quotient fits qs. The remainder is left in
// ws[:len(ds)].
func (dv *Divider) divBlock(qs, ws, ds []Limb, inv Limb, scratch []Limb) {
	dn, b := len(ds), len(qs)
	switch {
	case b < dv.dc:
		DivSchoolbook(qs, ws, ds, inv)
		return
	case b == dn:
		dv.dcDivN(qs, ws, ds, inv, scratch)
		return
	}
	qh := dv.dcDivN(qs, ws[dn-b:], ds[dn-b:], inv, scratch)
	tp := scratch[:dn]
	dv.mu.MulWithScratch(tp, qs, ds[:dn-b], scratch[dn:])
	cy := limbs.SubInPlace(ws[:dn], tp)
	if qh {
		cy += limbs.SubInPlace(ws[b:dn], ds[:dn-b])
	}
	for cy != 0 {
		if limbs.Decrement(qs) != 0 {
			qh = false
		}
		cy -= limbs.AddInPlace(ws[:dn], ds)
	}
	if qh {
		apperrors.PanicPrecondition("DivDivideAndConquer", "block quotient overflowed")
	}
}

// dcDivN divides the 2n limbs of ns by the n limbs of ds. It writes the n
// low quotient limbs to qs, leaves the remainder in ns[:n] and returns the
// top quotient bit.
func (dv *Divider) dcDivN(qs, ns, ds []Limb, inv Limb, scratch []Limb) bool {
	n := len(ds)
	lo := n / 2
	hi := n - lo
	tp := scratch[:n]

	// Top hi quotient limbs from the top half of the divisor.
	qh := dv.divHalf(qs[lo:n], ns[2*lo:2*n], ds[lo:], inv, scratch)
	dv.mu.MulWithScratch(tp, qs[lo:n], ds[:lo], scratch[n:])
	cy := limbs.SubInPlace(ns[lo:lo+n], tp)
	if qh {
		cy += limbs.SubInPlace(ns[n:n+lo], ds[:lo])
	}
	for cy != 0 {
		if limbs.Decrement(qs[lo:n]) != 0 {
			qh = false
		}
		cy -= limbs.AddInPlace(ns[lo:lo+n], ds)
	}

	// Low lo quotient limbs.
	ql := dv.divHalf(qs[:lo], ns[hi:hi+2*lo], ds[hi:], inv, scratch)
	dv.mu.MulWithScratch(tp, ds[:hi], qs[:lo], scratch[n:])
	cy = limbs.SubInPlace(ns[:n], tp)
	if ql {
		cy += limbs.SubInPlace(ns[lo:n], ds[:hi])
	}
	for cy != 0 {
		limbs.Decrement(qs[:lo])
		cy -= limbs.AddInPlace(ns[:n], ds)
	}
	return qh
}

func (dv *Divider) divHalf(qs, ns, ds []Limb, inv Limb, scratch []Limb) bool {
	if len(ds) < dv.dc {
		return DivSchoolbook(qs, ns, ds, inv)
	}
	return dv.dcDivN(qs, ns, ds, inv, scratch)
}

// DivScratchLen returns the scratch DivDivideAndConquer needs for a
// dividend of nn limbs and a divisor of dn limbs.
func (dv *Divider) DivScratchLen(nn, dn int) int {
	qn := nn - dn
	if qn <= 0 || dn <= 0 {
		return 0
	}
	b := qn % dn
	if b == 0 {
		b = dn
	}
	need := dv.blockScratchLen(b, dn)
	if qn > b {
		need = max(need, dv.blockScratchLen(dn, dn))
	}
	return need
}

func (dv *Divider) blockScratchLen(b, dn int) int {
	switch {
	case b < dv.dc:
		return 0
	case b == dn:
		return dv.dcScratchLen(dn)
	}
	return max(dv.dcScratchLen(b), dn+dv.mu.ScratchLen(b, dn-b))
}

func (dv *Divider) dcScratchLen(n int) int {
	lo := n / 2
	hi := n - lo
	need := n + dv.mu.ScratchLen(hi, lo)
	if hi >= dv.dc {
		need = max(need, dv.dcScratchLen(hi))
	}
	if lo >= dv.dc {
		need = max(need, dv.dcScratchLen(lo))
	}
	return need
}

// ─────────────────────────────────────────────────────────────────────────────
// Approximate division
// ─────────────────────────────────────────────────────────────────────────────

// DivDivideAndConquerApprox is the divide-and-conquer counterpart of
// DivSchoolbookApprox. scratch needs ApproxScratchLen(len(ns), len(ds))
// limbs.
func (dv *Divider) DivDivideAndConquerApprox(qs, ns, ds []Limb, inv Limb, scratch []Limb) ApproxQuotient {
	checkKernelArgs("DivDivideAndConquerApprox", qs, ns, ds)
	k := truncation(len(ns), len(ds))
	high := dv.DivDivideAndConquer(qs, ns[k:], ds[k:], inv, scratch)
	return ApproxQuotient{High: high, MaybeOneTooLarge: k > 0}
}

// ApproxScratchLen returns the scratch DivDivideAndConquerApprox needs.
func (dv *Divider) ApproxScratchLen(nn, dn int) int {
	k := truncation(nn, dn)
	return dv.DivScratchLen(nn-k, dn-k)
}

// Correct turns the result of an approximate kernel into the exact quotient
// of ns by ds. qs and approx.High hold the approximate quotient; ns and ds
// are the original operands, which need not be normalized. It returns the
// corrected top quotient bit.
func (dv *Divider) Correct(qs []Limb, approx ApproxQuotient, ns, ds []Limb) bool {
	if !approx.MaybeOneTooLarge {
		return approx.High
	}
	qn, dn := len(qs), len(ds)
	p := make([]Limb, qn+dn+1)
	dv.mu.Mul(p[:qn+dn], qs, ds)
	if approx.High {
		limbs.AddInPlace(p[qn:], ds)
	}
	if limbs.Cmp(p, ns) <= 0 {
		return approx.High
	}
	if limbs.Decrement(qs) != 0 {
		return false
	}
	return approx.High
}
