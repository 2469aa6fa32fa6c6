package limbs

import "math/bits"

// AddVV computes z = x + y element-wise and returns the carry.
// Delegates to math/big's internal addVV via go:linkname (declared in arith_decl.go).
func AddVV(z, x, y []Limb) Limb {
	if len(z) == 0 {
		return 0
	}
	return addVV(z, x, y)
}

// SubVV computes z = x - y element-wise and returns the borrow.
// Delegates to math/big's internal subVV via go:linkname (declared in arith_decl.go).
func SubVV(z, x, y []Limb) Limb {
	if len(z) == 0 {
		return 0
	}
	return subVV(z, x, y)
}

// AddVW computes z = x + y for a single word y and returns the carry.
// An empty z propagates y unchanged as the carry.
func AddVW(z, x []Limb, y Limb) Limb {
	if len(z) == 0 {
		return y
	}
	return addVW(z, x, y)
}

// SubVW computes z = x - y for a single word y and returns the borrow.
// An empty z propagates y unchanged as the borrow.
func SubVW(z, x []Limb, y Limb) Limb {
	if len(z) == 0 {
		return y
	}
	return subVW(z, x, y)
}

// MulAddVWW computes z[:len(x)] = x*y + r and returns the carry limb.
func MulAddVWW(z, x []Limb, y, r Limb) Limb {
	if len(x) == 0 {
		return r
	}
	return mulAddVWW(z[:len(x)], x, y, r)
}

// AddMulVVW computes z[:len(x)] += x * y where y is a single word.
// Delegates to math/big's internal addMulVVW via go:linkname (declared in arith_decl.go).
func AddMulVVW(z, x []Limb, y Limb) Limb {
	if len(x) == 0 {
		return 0
	}
	return addMulVVW(z[:len(x)], x, y)
}

// SubMulVVW computes z -= x * y over len(x) limbs of z and returns the borrow
// limb. math/big has no counterpart, so this one is plain Go.
func SubMulVVW(z, x []Limb, y Limb) (c Limb) {
	z = z[:len(x)]
	for i, xi := range x {
		hi, lo := bits.Mul(uint(xi), uint(y))
		lo, cc := bits.Add(lo, uint(c), 0)
		zi, b := bits.Sub(uint(z[i]), lo, 0)
		z[i] = Limb(zi)
		c = Limb(hi + cc + b)
	}
	return c
}

// MulLimb computes out = xs * y and returns the high limb.
func MulLimb(out, xs []Limb, y Limb) Limb {
	return MulAddVWW(out[:len(xs)], xs, y, 0)
}
