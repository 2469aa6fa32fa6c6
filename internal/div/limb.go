package div

import (
	"math/bits"

	apperrors "github.com/agbru/natcalc/internal/errors"
	"github.com/agbru/natcalc/internal/limbs"
)

// Limb is the machine word the kernels operate on.
type Limb = limbs.Limb

const highBit = Limb(1) << (limbs.W - 1)

func normalized(d Limb) bool { return d&highBit != 0 }

// InvertLimb returns floor((B²-1)/d) - B for a normalized d, where B = 2^W.
func InvertLimb(d Limb) Limb {
	if !normalized(d) {
		apperrors.PanicPrecondition("InvertLimb", "divisor %#x is not normalized", uint(d))
	}
	inv, _ := bits.Div(uint(^d), uint(limbs.MaxLimb), uint(d))
	return Limb(inv)
}

// Div2by1 divides the two-limb value (n1, n0) by the normalized d, with
// inv = InvertLimb(d). It requires n1 < d.
func Div2by1(n1, n0, d, inv Limb) (q, r Limb) {
	p := limbs.MulWide(inv, n1).Add(limbs.JoinHalves(n1+1, n0))
	q = p.Hi
	r = n0 - q*d
	if r > p.Lo {
		q--
		r += d
	}
	if r >= d {
		q++
		r -= d
	}
	return q, r
}

// InvertPi1 returns floor((B³-1)/(d1·B+d0)) - B, the reciprocal Div3by2 needs.
// d1 must be normalized.
func InvertPi1(d1, d0 Limb) Limb {
	v := InvertLimb(d1)
	p := d1*v + d0
	if p < d0 {
		v--
		var mask Limb
		if p >= d1 {
			mask = limbs.MaxLimb
		}
		p -= d1
		v += mask
		p -= mask & d1
	}
	t := limbs.MulWide(d0, v)
	p += t.Hi
	if p < t.Hi {
		v--
		if p >= d1 && (p > d1 || t.Lo >= d0) {
			v--
		}
	}
	return v
}

// Div3by2 divides (n2, n1, n0) by the normalized (d1, d0) and returns the
// quotient limb and the two-limb remainder. inv = InvertPi1(d1, d0) and
// (n2, n1) must be below (d1, d0).
func Div3by2(n2, n1, n0, d1, d0, inv Limb) (q, r1, r0 Limb) {
	d := limbs.JoinHalves(d1, d0)
	qq := limbs.MulWide(n2, inv).Add(limbs.JoinHalves(n2, n1))
	q, q0 := qq.Hi, qq.Lo

	// Two low limbs of n - q·d, computed modulo B².
	r := limbs.JoinHalves(n1-d1*q, n0).Sub(d).Sub(limbs.MulWide(d0, q))
	q++
	if r.Hi >= q0 {
		q--
		r = r.Add(d)
	}
	if !r.Less(d) {
		q++
		r = r.Sub(d)
	}
	return q, r.Hi, r.Lo
}

// shiftedLimb returns limb i of ns << s; limb len(ns) is the bits shifted out.
func shiftedLimb(ns []Limb, i int, s uint) Limb {
	var x Limb
	if i < len(ns) {
		x = ns[i] << s
	}
	if s > 0 && i > 0 {
		x |= ns[i-1] >> (limbs.W - s)
	}
	return x
}

// DivRemLimb writes ns / d to qs[:len(ns)] and returns the remainder. d need
// not be normalized. qs may be ns itself, or nil when only the remainder is
// wanted.
func DivRemLimb(qs, ns []Limb, d Limb) Limb {
	if d == 0 {
		panic(apperrors.ErrDivisionByZero)
	}
	if qs != nil && len(qs) < len(ns) {
		apperrors.PanicPrecondition("DivRemLimb", "len(qs)=%d < len(ns)=%d", len(qs), len(ns))
	}
	s := uint(bits.LeadingZeros(uint(d)))
	dn := d << s
	inv := InvertLimb(dn)
	r := shiftedLimb(ns, len(ns), s)
	for i := len(ns) - 1; i >= 0; i-- {
		var q Limb
		q, r = Div2by1(r, shiftedLimb(ns, i, s), dn, inv)
		if qs != nil {
			qs[i] = q
		}
	}
	return r >> s
}

// ModLimb returns ns mod d.
func ModLimb(ns []Limb, d Limb) Limb {
	return DivRemLimb(nil, ns, d)
}

// DivRem2 divides ns by the two-limb ds, whose top limb must be non-zero,
// writes the len(ns)-1 quotient limbs to qs and returns the remainder.
func DivRem2(qs, ns, ds []Limb) (r0, r1 Limb) {
	nn := len(ns)
	if len(ds) != 2 || nn < 2 || len(qs) < nn-1 {
		apperrors.PanicPrecondition("DivRem2", "len(qs)=%d len(ns)=%d len(ds)=%d", len(qs), nn, len(ds))
	}
	if ds[1] == 0 {
		apperrors.PanicPrecondition("DivRem2", "top divisor limb is zero")
	}
	s := uint(bits.LeadingZeros(uint(ds[1])))
	d1, d0 := shiftedLimb(ds, 1, s), shiftedLimb(ds, 0, s)
	inv := InvertPi1(d1, d0)
	r1, r0 = shiftedLimb(ns, nn, s), shiftedLimb(ns, nn-1, s)
	for i := nn - 2; i >= 0; i-- {
		qs[i], r1, r0 = Div3by2(r1, r0, shiftedLimb(ns, i, s), d1, d0, inv)
	}
	if s > 0 {
		r0 = r0>>s | r1<<(limbs.W-s)
		r1 >>= s
	}
	return r0, r1
}
