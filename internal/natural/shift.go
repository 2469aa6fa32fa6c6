package natural

import (
	"math/bits"

	apperrors "github.com/agbru/natcalc/internal/errors"
	"github.com/agbru/natcalc/internal/limbs"
)

// Shl returns x << n.
func (x Natural) Shl(n uint) Natural {
	var bx [1]Limb
	return fromVec(limbs.ShlFull(x.vec(&bx), n))
}

// Shr returns x >> n, truncating.
func (x Natural) Shr(n uint) Natural {
	if x.large == nil {
		if n >= limbs.W {
			return Natural{}
		}
		return Natural{small: x.small >> n}
	}
	vec, _ := limbs.Shr(x.large, n)
	return fromVec(vec)
}

// ShrRound returns x / 2^n rounded with mode and how the result compares
// with the exact quotient.
func (x Natural) ShrRound(n uint, mode limbs.RoundingMode) (Natural, limbs.Ordering) {
	var bx [1]Limb
	vec, ord := limbs.ShrRound(x.vec(&bx), n, mode)
	return fromVec(vec), ord
}

// ShlAssign sets x to x << n.
func (x *Natural) ShlAssign(n uint) {
	*x = x.Shl(n)
}

// ShrAssign sets x to x >> n.
func (x *Natural) ShrAssign(n uint) {
	*x = x.Shr(n)
}

// ModShl returns x·2^n mod m. It panics with apperrors.ErrDivisionByZero
// when m is 0. x need not be reduced; for n = 0 the result is x mod m.
func (x Natural) ModShl(n uint, m Natural) Natural {
	if m.IsZero() {
		panic(apperrors.ErrDivisionByZero)
	}
	r := x.Mod(m)
	switch {
	case n == 0:
		return r
	case m.large == nil && m.small <= 2:
		return Natural{}
	case n <= uint(m.BitLen())+limbs.W:
		return r.Shl(n).Mod(m)
	}
	return r.Mul(powerOfTwoMod(n, m)).Mod(m)
}

// ModShlAssign sets x to x·2^n mod m.
func (x *Natural) ModShlAssign(n uint, m Natural) {
	*x = x.ModShl(n, m)
}

// powerOfTwoMod returns 2^e mod m for m > 2 by left-to-right binary
// exponentiation.
func powerOfTwoMod(e uint, m Natural) Natural {
	r := One()
	for i := bits.Len(e) - 1; i >= 0; i-- {
		r = r.Square().Mod(m)
		if e>>uint(i)&1 == 1 {
			r = r.Shl(1)
			if r.Cmp(m) >= 0 {
				r = r.Sub(m)
			}
		}
	}
	return r
}

// SetBit returns x with bit i set.
func (x Natural) SetBit(i uint) Natural {
	j := int(i / limbs.W)
	if x.large == nil && j == 0 {
		return Natural{small: x.small | 1<<(i%limbs.W)}
	}
	out := x.Limbs()
	if len(out) <= j {
		out = append(out, make([]Limb, j+1-len(out))...)
	}
	out[j] |= 1 << (i % limbs.W)
	return fromVec(out)
}

// ClearBit returns x with bit i cleared.
func (x Natural) ClearBit(i uint) Natural {
	if !x.Bit(i) {
		return x
	}
	if x.large == nil {
		return Natural{small: x.small &^ (1 << i)}
	}
	out := limbs.Clone(x.large)
	out[i/limbs.W] &^= 1 << (i % limbs.W)
	return fromVec(out)
}
