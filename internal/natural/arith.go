package natural

import (
	"math/bits"

	apperrors "github.com/agbru/natcalc/internal/errors"
	"github.com/agbru/natcalc/internal/limbs"
)

// ─────────────────────────────────────────────────────────────────────────────
// Addition and subtraction
// ─────────────────────────────────────────────────────────────────────────────

// Add returns x + y.
func (x Natural) Add(y Natural) Natural {
	if x.large == nil && y.large == nil {
		sum, carry := bits.Add(uint(x.small), uint(y.small), 0)
		if carry == 0 {
			return Natural{small: Limb(sum)}
		}
		return Natural{large: []Limb{Limb(sum), 1}}
	}
	var bx, by [1]Limb
	a, b := x.vec(&bx), y.vec(&by)
	if len(a) < len(b) {
		a, b = b, a
	}
	out := make([]Limb, len(a)+1)
	out[len(a)] = limbs.AddGreater(out, a, b)
	return fromVec(out)
}

// AddAssign sets x to x + y.
func (x *Natural) AddAssign(y Natural) {
	*x = x.Add(y)
}

// CheckedSub returns x - y and true, or zero and false when y > x.
func (x Natural) CheckedSub(y Natural) (Natural, bool) {
	if x.large == nil && y.large == nil {
		if x.small < y.small {
			return Natural{}, false
		}
		return Natural{small: x.small - y.small}, true
	}
	if x.Cmp(y) < 0 {
		return Natural{}, false
	}
	var bx, by [1]Limb
	a, b := x.vec(&bx), y.vec(&by)
	out := make([]Limb, len(a))
	limbs.SubGreater(out, a, b)
	return fromVec(out), true
}

// Sub returns x - y. It panics when y > x.
func (x Natural) Sub(y Natural) Natural {
	d, ok := x.CheckedSub(y)
	if !ok {
		apperrors.PanicPrecondition("natural.Sub", "subtrahend exceeds minuend")
	}
	return d
}

// SubAssign sets x to x - y. It panics when y > x and leaves x unchanged.
func (x *Natural) SubAssign(y Natural) {
	d, ok := x.CheckedSub(y)
	if !ok {
		apperrors.PanicPrecondition("natural.SubAssign", "subtrahend exceeds minuend")
	}
	*x = d
}

// ─────────────────────────────────────────────────────────────────────────────
// Multiplication
// ─────────────────────────────────────────────────────────────────────────────

// Mul returns x·y.
func (x Natural) Mul(y Natural) Natural {
	switch {
	case x.IsZero() || y.IsZero():
		return Natural{}
	case x.large == nil && y.large == nil:
		hi, lo := bits.Mul(uint(x.small), uint(y.small))
		return fromVec([]Limb{Limb(lo), Limb(hi)})
	case y.large == nil:
		return mulLimb(x.large, y.small)
	case x.large == nil:
		return mulLimb(y.large, x.small)
	}
	out := make([]Limb, len(x.large)+len(y.large))
	multiplier().Mul(out, x.large, y.large)
	return fromVec(out)
}

func mulLimb(xs []Limb, y Limb) Natural {
	out := make([]Limb, len(xs)+1)
	out[len(xs)] = limbs.MulLimb(out, xs, y)
	return fromVec(out)
}

// MulAssign sets x to x·y.
func (x *Natural) MulAssign(y Natural) {
	*x = x.Mul(y)
}

// Square returns x².
func (x Natural) Square() Natural {
	if x.large == nil {
		return x.Mul(x)
	}
	out := make([]Limb, 2*len(x.large))
	multiplier().Square(out, x.large)
	return fromVec(out)
}
