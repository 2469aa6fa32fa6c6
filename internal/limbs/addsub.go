package limbs

import apperrors "github.com/agbru/natcalc/internal/errors"

// ─────────────────────────────────────────────────────────────────────────────
// Vector Addition
// ─────────────────────────────────────────────────────────────────────────────

// AddSameLen writes xs + ys to out[:len(xs)] and returns the carry.
// xs and ys must have the same length and out must be at least as long.
func AddSameLen(out, xs, ys []Limb) Limb {
	if len(xs) != len(ys) || len(out) < len(xs) {
		apperrors.PanicPrecondition("AddSameLen", "len(out)=%d len(xs)=%d len(ys)=%d", len(out), len(xs), len(ys))
	}
	return AddVV(out[:len(xs)], xs, ys)
}

// AddGreater writes xs + ys to out[:len(xs)] and returns the carry.
// It requires len(xs) >= len(ys) and len(out) >= len(xs).
func AddGreater(out, xs, ys []Limb) Limb {
	if len(xs) < len(ys) || len(out) < len(xs) {
		apperrors.PanicPrecondition("AddGreater", "len(out)=%d len(xs)=%d len(ys)=%d", len(out), len(xs), len(ys))
	}
	n := len(ys)
	c := AddVV(out[:n], xs[:n], ys)
	if len(xs) == n {
		return c
	}
	return AddVW(out[n:len(xs)], xs[n:], c)
}

// AddInPlace computes xs += ys and returns the carry out of xs.
// The destination must be at least as long as the operand.
func AddInPlace(xs, ys []Limb) Limb {
	if len(xs) < len(ys) {
		apperrors.PanicPrecondition("AddInPlace", "len(xs)=%d < len(ys)=%d", len(xs), len(ys))
	}
	n := len(ys)
	c := AddVV(xs[:n], xs[:n], ys)
	if c == 0 || len(xs) == n {
		return c
	}
	return AddVW(xs[n:], xs[n:], c)
}

// AddLimb writes xs + y to out[:len(xs)] and returns the carry.
func AddLimb(out, xs []Limb, y Limb) Limb {
	if len(out) < len(xs) {
		apperrors.PanicPrecondition("AddLimb", "len(out)=%d < len(xs)=%d", len(out), len(xs))
	}
	return AddVW(out[:len(xs)], xs, y)
}

// AddLimbInPlace computes xs += y and returns the carry.
func AddLimbInPlace(xs []Limb, y Limb) Limb {
	for i := range xs {
		s := xs[i] + y
		xs[i] = s
		if s >= y {
			return 0
		}
		y = 1
	}
	return y
}

// Increment adds one to xs in place and returns the carry.
func Increment(xs []Limb) Limb {
	return AddLimbInPlace(xs, 1)
}

// ─────────────────────────────────────────────────────────────────────────────
// Vector Subtraction
// ─────────────────────────────────────────────────────────────────────────────

// SubSameLen writes xs - ys to out[:len(xs)] and returns the borrow.
// xs and ys must have the same length and out must be at least as long.
func SubSameLen(out, xs, ys []Limb) Limb {
	if len(xs) != len(ys) || len(out) < len(xs) {
		apperrors.PanicPrecondition("SubSameLen", "len(out)=%d len(xs)=%d len(ys)=%d", len(out), len(xs), len(ys))
	}
	return SubVV(out[:len(xs)], xs, ys)
}

// SubGreater writes xs - ys to out[:len(xs)] and returns the borrow.
// It requires len(xs) >= len(ys) and len(out) >= len(xs).
func SubGreater(out, xs, ys []Limb) Limb {
	if len(xs) < len(ys) || len(out) < len(xs) {
		apperrors.PanicPrecondition("SubGreater", "len(out)=%d len(xs)=%d len(ys)=%d", len(out), len(xs), len(ys))
	}
	n := len(ys)
	b := SubVV(out[:n], xs[:n], ys)
	if len(xs) == n {
		return b
	}
	return SubVW(out[n:len(xs)], xs[n:], b)
}

// SubInPlace computes xs -= ys and returns the borrow out of xs.
// The destination must be at least as long as the operand.
func SubInPlace(xs, ys []Limb) Limb {
	if len(xs) < len(ys) {
		apperrors.PanicPrecondition("SubInPlace", "len(xs)=%d < len(ys)=%d", len(xs), len(ys))
	}
	n := len(ys)
	b := SubVV(xs[:n], xs[:n], ys)
	if b == 0 || len(xs) == n {
		return b
	}
	return SubVW(xs[n:], xs[n:], b)
}

// SubInPlaceRight computes ys = xs - ys for vectors of equal length and
// returns the borrow.
func SubInPlaceRight(xs, ys []Limb) Limb {
	if len(xs) != len(ys) {
		apperrors.PanicPrecondition("SubInPlaceRight", "len(xs)=%d != len(ys)=%d", len(xs), len(ys))
	}
	return SubVV(ys, xs, ys)
}

// SubLimb writes xs - y to out[:len(xs)] and returns the borrow.
func SubLimb(out, xs []Limb, y Limb) Limb {
	if len(out) < len(xs) {
		apperrors.PanicPrecondition("SubLimb", "len(out)=%d < len(xs)=%d", len(out), len(xs))
	}
	return SubVW(out[:len(xs)], xs, y)
}

// SubLimbInPlace computes xs -= y and returns the borrow.
func SubLimbInPlace(xs []Limb, y Limb) Limb {
	for i := range xs {
		x := xs[i]
		xs[i] = x - y
		if x >= y {
			return 0
		}
		y = 1
	}
	return y
}

// Decrement subtracts one from xs in place and returns the borrow, which is
// 1 only when xs was zero.
func Decrement(xs []Limb) Limb {
	return SubLimbInPlace(xs, 1)
}

// CheckedSub writes xs - ys to out[:len(xs)] and reports whether the result
// is non-negative. out is left unspecified when it is not.
func CheckedSub(out, xs, ys []Limb) bool {
	ys = Trim(ys)
	if len(ys) > len(xs) {
		return false
	}
	return SubGreater(out, xs, ys) == 0
}
