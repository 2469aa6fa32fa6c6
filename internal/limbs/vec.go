package limbs

import (
	"unsafe"

	apperrors "github.com/agbru/natcalc/internal/errors"
)

// Trim returns xs without its most-significant zero limbs. The result shares
// storage with xs.
func Trim(xs []Limb) []Limb {
	i := len(xs)
	for i > 0 && xs[i-1] == 0 {
		i--
	}
	return xs[:i]
}

// IsCanonical reports whether xs has no most-significant zero limb.
func IsCanonical(xs []Limb) bool {
	return len(xs) == 0 || xs[len(xs)-1] != 0
}

// IsZero reports whether every limb of xs is zero.
func IsZero(xs []Limb) bool {
	for _, x := range xs {
		if x != 0 {
			return false
		}
	}
	return true
}

// CmpSameLen compares two vectors of equal length from the top limb down.
func CmpSameLen(xs, ys []Limb) int {
	for i := len(xs) - 1; i >= 0; i-- {
		if xs[i] != ys[i] {
			if xs[i] < ys[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Cmp compares the values of xs and ys, which need not be canonical.
func Cmp(xs, ys []Limb) int {
	xs, ys = Trim(xs), Trim(ys)
	switch {
	case len(xs) < len(ys):
		return -1
	case len(xs) > len(ys):
		return 1
	}
	return CmpSameLen(xs, ys)
}

// Clone returns a copy of xs with its own storage.
func Clone(xs []Limb) []Limb {
	if xs == nil {
		return nil
	}
	out := make([]Limb, len(xs))
	copy(out, xs)
	return out
}

// NotTo writes the bitwise complement of xs to out[:len(xs)]. out may be xs
// itself.
func NotTo(out, xs []Limb) {
	if len(out) < len(xs) {
		apperrors.PanicPrecondition("NotTo", "len(out)=%d < len(xs)=%d", len(out), len(xs))
	}
	for i, x := range xs {
		out[i] = ^x
	}
}

// NotInPlace complements every limb of xs.
func NotInPlace(xs []Limb) {
	for i := range xs {
		xs[i] = ^xs[i]
	}
}

// Span returns the view buf[off : off+n] with its capacity clipped to n, so
// that appends through the view can never reach the limbs after it.
func Span(buf []Limb, off, n int) []Limb {
	return buf[off : off+n : off+n]
}

// Overlaps reports whether a and b share at least one limb of memory.
func Overlaps(a, b []Limb) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	const size = unsafe.Sizeof(Limb(0))
	a0 := uintptr(unsafe.Pointer(&a[0]))
	b0 := uintptr(unsafe.Pointer(&b[0]))
	a1 := a0 + uintptr(len(a))*size
	b1 := b0 + uintptr(len(b))*size
	return a0 < b1 && b0 < a1
}

// SameStart reports whether a and b begin at the same limb, which is the one
// overlap the in-place kernels accept.
func SameStart(a, b []Limb) bool {
	if len(a) == 0 || len(b) == 0 {
		return len(a) == len(b)
	}
	return &a[0] == &b[0]
}
