// Package natural wraps the limb kernels in Natural, an arbitrary-precision
// unsigned integer. Every result is normalized: trailing zero limbs are
// stripped and a value that fits one limb is stored inline.
//
// Arithmetic dispatches through the package default multiplier and divider,
// which SetDefaultMultiplier and WithMultiplier replace with re-tuned ones.
package natural

import (
	"math/big"
	"math/bits"
	"strconv"
	"sync/atomic"

	"github.com/agbru/natcalc/internal/div"
	"github.com/agbru/natcalc/internal/limbs"
	"github.com/agbru/natcalc/internal/mul"
)

// Limb is the machine word of the representation.
type Limb = limbs.Limb

// Natural is a non-negative integer of any size. The zero value is 0.
//
// A Natural either holds one limb inline (small) or a canonical vector of at
// least two limbs (large). Copies share the vector, so no operation writes
// into it once the value is built: the *Assign methods replace the
// receiver with a freshly allocated result and leave every copy unchanged.
type Natural struct {
	small Limb
	large []Limb
}

// ─────────────────────────────────────────────────────────────────────────────
// Kernel selection
// ─────────────────────────────────────────────────────────────────────────────

var defaultDivider atomic.Pointer[div.Divider]

func divider() *div.Divider {
	if dv := defaultDivider.Load(); dv != nil {
		return dv
	}
	return div.Default()
}

func multiplier() *mul.Multiplier { return divider().Multiplier() }

// SetDefaultMultiplier makes every later operation multiply and divide with
// mu and its thresholds. A nil mu restores the built-in defaults.
func SetDefaultMultiplier(mu *mul.Multiplier) {
	if mu == nil {
		defaultDivider.Store(nil)
		return
	}
	defaultDivider.Store(div.New(mu))
}

// WithMultiplier installs mu as the default and returns a function that
// restores the previous one.
func WithMultiplier(mu *mul.Multiplier) (restore func()) {
	prev := defaultDivider.Load()
	SetDefaultMultiplier(mu)
	return func() { defaultDivider.Store(prev) }
}

// ─────────────────────────────────────────────────────────────────────────────
// Construction and normalization
// ─────────────────────────────────────────────────────────────────────────────

// Zero returns 0.
func Zero() Natural { return Natural{} }

// One returns 1.
func One() Natural { return Natural{small: 1} }

// FromLimb returns the value of one limb.
func FromLimb(x Limb) Natural { return Natural{small: x} }

// FromUint64 returns x, which takes two limbs on 32-bit platforms.
func FromUint64(x uint64) Natural {
	if limbs.W == 64 || x>>32 == 0 {
		return Natural{small: Limb(x)}
	}
	return Natural{large: []Limb{Limb(x), Limb(x >> 32)}}
}

// FromLimbs returns the value of xs, least-significant limb first. xs is
// copied and need not be canonical.
func FromLimbs(xs []Limb) Natural {
	return fromVec(limbs.Clone(limbs.Trim(xs)))
}

// FromBig converts x. It reports false when x is nil or negative.
func FromBig(x *big.Int) (Natural, bool) {
	if x == nil || x.Sign() < 0 {
		return Natural{}, false
	}
	return FromLimbs(x.Bits()), true
}

// fromVec takes ownership of xs and normalizes it.
func fromVec(xs []Limb) Natural {
	xs = limbs.Trim(xs)
	switch len(xs) {
	case 0:
		return Natural{}
	case 1:
		return Natural{small: xs[0]}
	}
	return Natural{large: xs}
}

// vec returns the limbs of x without copying; buf backs the inline case.
func (x *Natural) vec(buf *[1]Limb) []Limb {
	if x.large != nil {
		return x.large
	}
	if x.small == 0 {
		return nil
	}
	buf[0] = x.small
	return buf[:]
}

// Clone returns a copy of x with its own storage.
func (x Natural) Clone() Natural {
	return Natural{small: x.small, large: limbs.Clone(x.large)}
}

// ─────────────────────────────────────────────────────────────────────────────
// Accessors
// ─────────────────────────────────────────────────────────────────────────────

// IsSmall reports whether x is stored inline in one limb.
func (x Natural) IsSmall() bool { return x.large == nil }

// Limbs returns a copy of the canonical limb vector of x; zero has none.
func (x Natural) Limbs() []Limb {
	var buf [1]Limb
	return limbs.Clone(x.vec(&buf))
}

// LimbCount returns the number of significant limbs.
func (x Natural) LimbCount() int {
	if x.large != nil {
		return len(x.large)
	}
	if x.small == 0 {
		return 0
	}
	return 1
}

// BitLen returns the number of significant bits; BitLen of 0 is 0.
func (x Natural) BitLen() int {
	if x.large == nil {
		return bits.Len(uint(x.small))
	}
	return limbs.BitLen(x.large)
}

// Bit reports whether bit i is set.
func (x Natural) Bit(i uint) bool {
	var buf [1]Limb
	return limbs.Bit(x.vec(&buf), i)
}

// IsZero reports whether x is 0.
func (x Natural) IsZero() bool { return x.large == nil && x.small == 0 }

// IsOdd reports whether x is odd.
func (x Natural) IsOdd() bool {
	if x.large != nil {
		return x.large[0]&1 == 1
	}
	return x.small&1 == 1
}

// IsEven reports whether x is even.
func (x Natural) IsEven() bool { return !x.IsOdd() }

// Cmp returns -1, 0 or +1 as x is below, equal to or above y.
func (x Natural) Cmp(y Natural) int {
	if x.large == nil && y.large == nil {
		switch {
		case x.small < y.small:
			return -1
		case x.small > y.small:
			return 1
		}
		return 0
	}
	var bx, by [1]Limb
	return limbs.Cmp(x.vec(&bx), y.vec(&by))
}

// Equal reports whether x and y have the same value.
func (x Natural) Equal(y Natural) bool { return x.Cmp(y) == 0 }

// Uint64 returns x as a uint64 and whether it fits.
func (x Natural) Uint64() (uint64, bool) {
	switch {
	case x.large == nil:
		return uint64(x.small), true
	case limbs.W == 32 && len(x.large) == 2:
		return uint64(x.large[1])<<32 | uint64(x.large[0]), true
	}
	return 0, false
}

// Big returns x as a new big.Int.
func (x Natural) Big() *big.Int {
	return new(big.Int).SetBits(x.Limbs())
}

// String returns the decimal representation of x.
func (x Natural) String() string {
	if x.large == nil {
		return strconv.FormatUint(uint64(x.small), 10)
	}
	return x.Big().String()
}
