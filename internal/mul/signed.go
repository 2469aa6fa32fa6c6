package mul

import (
	apperrors "github.com/agbru/natcalc/internal/errors"
	"github.com/agbru/natcalc/internal/limbs"
)

// signedVec is a sign-magnitude integer held in a fixed-length limb buffer.
// Interpolation values can be negative; the sign travels with the magnitude
// so that shifts and exact divisions only ever see a non-negative vector.
// Zero is never negative.
type signedVec struct {
	mag []Limb
	neg bool
}

func (z *signedVec) setZero() {
	clear(z.mag)
	z.neg = false
}

// setMag loads the non-negative value xs, zero-extended.
func (z *signedVec) setMag(xs []Limb) {
	if len(xs) > len(z.mag) && !limbs.IsZero(xs[len(z.mag):]) {
		apperrors.PanicPrecondition("signedVec.setMag", "value of %d limbs exceeds capacity %d", len(limbs.Trim(xs)), len(z.mag))
	}
	n := copy(z.mag, xs)
	clear(z.mag[n:])
	z.neg = false
}

func (z *signedVec) set(x *signedVec) {
	copy(z.mag, x.mag)
	z.neg = x.neg
}

func (z *signedVec) isZero() bool {
	return limbs.IsZero(z.mag)
}

func (z *signedVec) negate() {
	if !z.isZero() {
		z.neg = !z.neg
	}
}

// shl multiplies z by 2^bits. Bits shifted past the buffer must be zero.
func (z *signedVec) shl(bits uint) {
	if bits == 0 {
		return
	}
	n := len(z.mag)
	q, r := int(bits/limbs.W), bits%limbs.W
	if q >= n {
		if !z.isZero() {
			overflow("shl")
		}
		return
	}
	if !limbs.IsZero(z.mag[n-q:]) {
		overflow("shl")
	}
	if q > 0 {
		copy(z.mag[q:], z.mag[:n-q])
		clear(z.mag[:q])
	}
	if limbs.ShlTo(z.mag[q:], z.mag[q:], r) != 0 {
		overflow("shl")
	}
}

// shrExact divides z by 2^bits. The shifted-out bits must be zero.
func (z *signedVec) shrExact(bits uint) {
	if bits == 0 {
		return
	}
	n := len(z.mag)
	q, r := int(bits/limbs.W), bits%limbs.W
	if q >= n {
		if !z.isZero() {
			inexact("shrExact")
		}
		return
	}
	if !limbs.IsZero(z.mag[:q]) {
		inexact("shrExact")
	}
	if q > 0 {
		copy(z.mag, z.mag[q:])
		clear(z.mag[n-q:])
	}
	if limbs.ShrTo(z.mag[:n-q], z.mag[:n-q], r) != 0 {
		inexact("shrExact")
	}
}

// divExact divides z by d, which must divide it.
func (z *signedVec) divExact(d Limb) {
	limbs.DivExactLimb(z.mag, z.mag, d)
}

func (z *signedVec) add(x *signedVec) { z.addSigned(x.mag, x.neg) }
func (z *signedVec) sub(x *signedVec) { z.addSigned(x.mag, !x.neg) }

// addSigned adds (-1)^neg · mag to z. mag has the length of z.mag.
func (z *signedVec) addSigned(mag []Limb, neg bool) {
	if z.neg == neg {
		if limbs.AddInPlace(z.mag, mag) != 0 {
			overflow("add")
		}
		return
	}
	if limbs.CmpSameLen(z.mag, mag) >= 0 {
		limbs.SubInPlace(z.mag, mag)
	} else {
		limbs.SubInPlaceRight(mag, z.mag)
		z.neg = neg
	}
	if z.neg && z.isZero() {
		z.neg = false
	}
}

// The interpolation buffers are sized from a bound on every intermediate
// value, and every division it performs is exact. A failure of either is a
// sizing bug in this package.
func overflow(op string) {
	apperrors.PanicPrecondition("toom interpolation", "%s overflowed the working buffer", op)
}

func inexact(op string) {
	apperrors.PanicPrecondition("toom interpolation", "%s discarded non-zero bits", op)
}
