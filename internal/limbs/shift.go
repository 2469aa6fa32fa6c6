package limbs

import (
	"math/bits"

	apperrors "github.com/agbru/natcalc/internal/errors"
)

// The intra-limb shifts are plain Go. math/big renamed its shift kernels
// between releases, so linking them would tie the build to one toolchain.

// ShlTo writes xs << s to out[:len(xs)] for 0 <= s < W and returns the bits
// shifted out of the top limb. It walks from the top limb down, so out may
// start at or above xs.
func ShlTo(out, xs []Limb, s uint) Limb {
	if s >= W || len(out) < len(xs) {
		apperrors.PanicPrecondition("ShlTo", "s=%d len(out)=%d len(xs)=%d", s, len(out), len(xs))
	}
	n := len(xs)
	if n == 0 {
		return 0
	}
	if s == 0 {
		copy(out[:n], xs)
		return 0
	}
	ŝ := W - s
	c := xs[n-1] >> ŝ
	for i := n - 1; i > 0; i-- {
		out[i] = xs[i]<<s | xs[i-1]>>ŝ
	}
	out[0] = xs[0] << s
	return c
}

// ShrTo writes xs >> s to out[:len(xs)] for 0 <= s < W and returns the bits
// shifted out of the bottom limb, left-aligned in the returned limb. It walks
// from the bottom limb up, so out may start at or below xs.
func ShrTo(out, xs []Limb, s uint) Limb {
	if s >= W || len(out) < len(xs) {
		apperrors.PanicPrecondition("ShrTo", "s=%d len(out)=%d len(xs)=%d", s, len(out), len(xs))
	}
	n := len(xs)
	if n == 0 {
		return 0
	}
	if s == 0 {
		copy(out[:n], xs)
		return 0
	}
	ŝ := W - s
	c := xs[0] << ŝ
	for i := 0; i < n-1; i++ {
		out[i] = xs[i]>>s | xs[i+1]<<ŝ
	}
	out[n-1] = xs[n-1] >> s
	return c
}

// Shl shifts xs left by an arbitrary number of bits. The result vec has
// len(xs) + bits/W limbs; carry holds the bits that did not fit, so the
// full value is vec followed by carry.
func Shl(xs []Limb, bits uint) (vec []Limb, carry Limb) {
	limbs, s := int(bits/W), bits%W
	vec = make([]Limb, len(xs)+limbs)
	carry = ShlTo(vec[limbs:], xs, s)
	return vec, carry
}

// ShlFull returns the canonical value of xs << bits, with the carry limb
// appended when it is non-zero.
func ShlFull(xs []Limb, bits uint) []Limb {
	xs = Trim(xs)
	if len(xs) == 0 {
		return nil
	}
	vec, carry := Shl(xs, bits)
	if carry != 0 {
		vec = append(vec, carry)
	}
	return vec
}

// Shr shifts xs right by an arbitrary number of bits. sticky reports whether
// any non-zero bit was shifted out; higher layers use it for rounding.
func Shr(xs []Limb, bits uint) (vec []Limb, sticky bool) {
	limbs, s := int(bits/W), bits%W
	if limbs >= len(xs) {
		return nil, !IsZero(xs)
	}
	sticky = !IsZero(xs[:limbs])
	vec = make([]Limb, len(xs)-limbs)
	if out := ShrTo(vec, xs[limbs:], s); out != 0 {
		sticky = true
	}
	return Trim(vec), sticky
}

// ShrRound shifts xs right by bits and rounds the quotient xs / 2^bits
// according to mode. The returned Ordering compares the rounded result with
// the exact quotient. Exact panics when bits were lost.
func ShrRound(xs []Limb, bits uint, mode RoundingMode) ([]Limb, Ordering) {
	vec, sticky := Shr(xs, bits)
	if !sticky {
		return vec, Equal
	}
	// The remainder is compared with 2^(bits-1): its top bit decides, and
	// any lower bit set turns a tie into "above half".
	halfCmp := -1
	if bits > 0 && Bit(xs, bits-1) {
		halfCmp = 0
		if !lowBitsZero(xs, bits-1) {
			halfCmp = 1
		}
	}
	odd := len(vec) > 0 && vec[0]&1 == 1
	up, ord := RoundDecision(mode, "ShrRound", halfCmp, odd)
	if up {
		vec = append(vec, 0)
		Increment(vec)
		vec = Trim(vec)
	}
	return vec, ord
}

// Bit reports whether bit i of xs is set.
func Bit(xs []Limb, i uint) bool {
	j := int(i / W)
	if j >= len(xs) {
		return false
	}
	return xs[j]>>(i%W)&1 == 1
}

// lowBitsZero reports whether bits [0, n) of xs are all zero.
func lowBitsZero(xs []Limb, n uint) bool {
	j, s := int(n/W), n%W
	if j >= len(xs) {
		return IsZero(xs)
	}
	if !IsZero(xs[:j]) {
		return false
	}
	return s == 0 || xs[j]&(Limb(1)<<s-1) == 0
}

// BitLen returns the number of significant bits of xs.
func BitLen(xs []Limb) int {
	xs = Trim(xs)
	if len(xs) == 0 {
		return 0
	}
	return (len(xs)-1)*W + bits.Len(uint(xs[len(xs)-1]))
}
