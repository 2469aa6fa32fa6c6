package limbs

import "math/bits"

const (
	// W is the limb width in bits. It is the single width parameter of the
	// whole kernel: every threshold and size computation derives from it.
	W = bits.UintSize
	// HalfW is the width of a half limb.
	HalfW = W / 2
	// MaxLimb is the largest single-limb value.
	MaxLimb = ^Limb(0)

	lowerHalfMask = Limb(1)<<HalfW - 1
)

// DoubleLimb is a two-limb unsigned value Hi·2^W + Lo.
type DoubleLimb struct {
	Hi, Lo Limb
}

// AddWithCarry returns a + b + carryIn and the carry out. carryIn must be 0 or 1.
func AddWithCarry(a, b, carryIn Limb) (sum, carryOut Limb) {
	s, c := bits.Add(uint(a), uint(b), uint(carryIn))
	return Limb(s), Limb(c)
}

// SubWithBorrow returns a - b - borrowIn and the borrow out. borrowIn must be 0 or 1.
func SubWithBorrow(a, b, borrowIn Limb) (diff, borrowOut Limb) {
	d, c := bits.Sub(uint(a), uint(b), uint(borrowIn))
	return Limb(d), Limb(c)
}

// MulWide returns the full double-width product a·b.
func MulWide(a, b Limb) DoubleLimb {
	hi, lo := bits.Mul(uint(a), uint(b))
	return DoubleLimb{Hi: Limb(hi), Lo: Limb(lo)}
}

// JoinHalves builds a double-width value from its two limbs.
func JoinHalves(hi, lo Limb) DoubleLimb {
	return DoubleLimb{Hi: hi, Lo: lo}
}

// Split returns the high and low limbs of d.
func (d DoubleLimb) Split() (hi, lo Limb) {
	return d.Hi, d.Lo
}

// Add returns d + e modulo 2^(2W).
func (d DoubleLimb) Add(e DoubleLimb) DoubleLimb {
	lo, c := bits.Add(uint(d.Lo), uint(e.Lo), 0)
	hi, _ := bits.Add(uint(d.Hi), uint(e.Hi), c)
	return DoubleLimb{Hi: Limb(hi), Lo: Limb(lo)}
}

// Sub returns d - e modulo 2^(2W).
func (d DoubleLimb) Sub(e DoubleLimb) DoubleLimb {
	lo, b := bits.Sub(uint(d.Lo), uint(e.Lo), 0)
	hi, _ := bits.Sub(uint(d.Hi), uint(e.Hi), b)
	return DoubleLimb{Hi: Limb(hi), Lo: Limb(lo)}
}

// Cmp compares d and e and returns -1, 0 or +1.
func (d DoubleLimb) Cmp(e DoubleLimb) int {
	switch {
	case d.Hi != e.Hi:
		if d.Hi < e.Hi {
			return -1
		}
		return 1
	case d.Lo != e.Lo:
		if d.Lo < e.Lo {
			return -1
		}
		return 1
	}
	return 0
}

// LowerHalf returns the low W/2 bits of x.
func LowerHalf(x Limb) Limb { return x & lowerHalfMask }

// UpperHalf returns the high W/2 bits of x, shifted down.
func UpperHalf(x Limb) Limb { return x >> HalfW }

// JoinHalfLimbs builds a limb from two half limbs. Both must be below 2^(W/2).
func JoinHalfLimbs(hi, lo Limb) Limb { return hi<<HalfW | lo }

// Less reports whether d < e.
func (d DoubleLimb) Less(e DoubleLimb) bool {
	return d.Hi < e.Hi || d.Hi == e.Hi && d.Lo < e.Lo
}
