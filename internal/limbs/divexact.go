package limbs

import (
	"math/bits"

	apperrors "github.com/agbru/natcalc/internal/errors"
)

// BinvertLimb returns the inverse of the odd limb d modulo 2^W, by Newton
// iteration starting from d itself (correct to three bits for odd d).
func BinvertLimb(d Limb) Limb {
	if d&1 == 0 {
		apperrors.PanicPrecondition("BinvertLimb", "even divisor %#x", uint(d))
	}
	inv := d
	for prec := 3; prec < W; prec *= 2 {
		inv *= 2 - d*inv
	}
	return inv
}

// DivExactLimb writes xs / d to out[:len(xs)]. d must divide xs exactly;
// otherwise the result is unspecified. out may be xs itself.
func DivExactLimb(out, xs []Limb, d Limb) {
	if d == 0 {
		panic(apperrors.ErrDivisionByZero)
	}
	if len(out) < len(xs) {
		apperrors.PanicPrecondition("DivExactLimb", "len(out)=%d < len(xs)=%d", len(out), len(xs))
	}
	if tz := uint(bits.TrailingZeros(uint(d))); tz > 0 {
		ShrTo(out, xs, tz)
		xs, d = out[:len(xs)], d>>tz
	}
	if d == 1 {
		copy(out, xs)
		return
	}
	inv := BinvertLimb(d)
	var c Limb
	for i, x := range xs {
		l, b := SubWithBorrow(x, c, 0)
		q := l * inv
		out[i] = q
		hi, _ := bits.Mul(uint(q), uint(d))
		c = Limb(hi) + b
	}
}
