// Copyright 2010 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bigfft

import (
	"math/big"

	"github.com/agbru/natcalc/internal/limbs"
)

// Word is the limb type of the transform, identical to limbs.Limb.
type Word = big.Word

// _W is the limb width in bits.
const _W = limbs.W

// nat is an unnormalized limb vector, least-significant limb first.
type nat []Word

// Arithmetic modulo 2^n+1.

// A fermat of length w+1 represents a number modulo 2^(w*_W) + 1. The last
// limb is zero or one. A number has at most two representatives satisfying the
// 0-1 last limb constraint.
type fermat nat

// basecaseLimbs is the residue length below which pointwise products use the
// embedded schoolbook loop instead of the injected Multiplier.
const basecaseLimbs = 30

func (z fermat) norm() {
	n := len(z) - 1
	c := z[n]
	if c == 0 {
		return
	}
	if z[0] >= c {
		z[n] = 0
		z[0] -= c
		return
	}
	// z[0] < z[n].
	limbs.SubVW(z, z, c)
	if c > 1 {
		z[n] -= c - 1
		c = 1
	}
	// Add back c.
	if z[n] == 1 {
		z[n] = 0
		return
	}
	limbs.AddVW(z, z, 1)
}

// Shift computes (x << k) mod (2^n+1).
func (z fermat) Shift(x fermat, k int) {
	if len(z) != len(x) {
		panic("bigfft: len(z) != len(x) in Shift")
	}
	n := len(x) - 1
	// Shift by n*_W is taking the opposite.
	k %= 2 * n * _W
	if k < 0 {
		k += 2 * n * _W
	}
	neg := false
	if k >= n*_W {
		k -= n * _W
		neg = true
	}

	kw, kb := k/_W, k%_W

	z[n] = 1 // Add (-1)
	if !neg {
		clear(z[:kw])
		// Shift left by kw limbs.
		// x = a·2^(n-k) + b
		// x<<k = (b<<k) - a
		copy(z[kw:], x[:n-kw])
		b := limbs.SubVV(z[:kw+1], z[:kw+1], x[n-kw:])
		if z[kw+1] > 0 {
			z[kw+1] -= b
		} else {
			limbs.SubVW(z[kw+1:], z[kw+1:], b)
		}
	} else {
		clear(z[kw+1 : n])
		// Shift left and negate, by kw limbs.
		copy(z[:kw+1], x[n-kw:n+1])                  // z_low = x_high
		b := limbs.SubVV(z[kw:n], z[kw:n], x[:n-kw]) // z_high -= x_low
		z[n] -= b
	}
	// Add back 1.
	if z[n] > 0 {
		z[n]--
	} else if z[0] < limbs.MaxLimb {
		z[0]++
	} else {
		limbs.AddVW(z, z, 1)
	}
	// Shift left by kb bits
	limbs.ShlTo(z, z, uint(kb))
	z.norm()
}

// ShiftHalf shifts x by k/2 bits the left. Shifting by 1/2 bit
// is multiplication by sqrt(2) mod 2^n+1 which is 2^(3n/4) - 2^(n/4).
// A temporary buffer must be provided in tmp.
func (z fermat) ShiftHalf(x fermat, k int, tmp fermat) {
	n := len(z) - 1
	if k%2 == 0 {
		z.Shift(x, k/2)
		return
	}
	u := (k - 1) / 2
	a := u + (3*_W/4)*n
	b := u + (_W/4)*n
	z.Shift(x, a)
	tmp.Shift(x, b)
	z.Sub(z, tmp)
}

// Add computes addition mod 2^n+1.
func (z fermat) Add(x, y fermat) fermat {
	if len(z) != len(x) {
		panic("bigfft: len(z) != len(x) in Add")
	}
	limbs.AddVV(z, x, y) // there cannot be a carry here.
	z.norm()
	return z
}

// Sub computes subtraction mod 2^n+1.
func (z fermat) Sub(x, y fermat) fermat {
	if len(z) != len(x) {
		panic("bigfft: len(z) != len(x) in Sub")
	}
	n := len(y) - 1
	b := limbs.SubVV(z[:n], x[:n], y[:n])
	b += y[n]
	// If b > 0, we need to subtract b<<n, which is the same as adding b.
	z[n] = x[n]
	if z[0] <= limbs.MaxLimb-b {
		z[0] += b
	} else {
		limbs.AddVW(z, z, b)
	}
	z.norm()
	return z
}

// Mul computes x·y mod 2^n+1 into the buffer z, which must hold 2n+2 limbs,
// and returns the n+1 limb residue at the start of z. Residues of at least
// basecaseLimbs limbs are multiplied by pw when it is not nil.
func (z fermat) Mul(x, y fermat, pw Multiplier) fermat {
	if len(x) != len(y) {
		panic("bigfft: len(x) != len(y) in Mul")
	}
	n := len(x) - 1
	z = z[:2*n+2]
	if n < basecaseLimbs || pw == nil {
		basicMul(z, x, y)
	} else {
		pw.Mul(z, x, y)
	}
	// x and y are at most 2^(nW), so the top limb is zero.
	z = z[:2*n+1]
	// We now have
	// z = z[:n] + 1<<(n*W) * z[n:2n+1]
	// which normalizes to:
	// z = z[:n] - z[n:2n] + z[2n]
	c1 := limbs.AddVW(z[:n], z[:n], z[2*n])
	c2 := limbs.SubVV(z[:n], z[:n], z[n:2*n])
	// Restore carries.
	// Subtracting z[n] -= c2 is the same
	// as z[0] += c2
	z = z[:n+1]
	z[n] = c1
	if limbs.AddVW(z, z, c2) != 0 {
		panic("bigfft: carry out of a normalized residue")
	}
	z.norm()
	return z
}

// basicMul writes the schoolbook product x·y to z[:len(x)+len(y)].
func basicMul(z, x, y fermat) {
	clear(z[:len(x)+len(y)])
	for i, d := range y {
		if d != 0 {
			z[len(x)+i] = limbs.AddMulVVW(z[i:i+len(x)], x, d)
		}
	}
}
