package limbs

import apperrors "github.com/agbru/natcalc/internal/errors"

// RoundingMode selects how an inexact quotient is rounded. For naturals
// Floor behaves as Down and Ceiling as Up.
type RoundingMode int

const (
	Down RoundingMode = iota
	Up
	Floor
	Ceiling
	Nearest // ties to even
	Exact   // panics when rounding would be needed
)

var roundingModeNames = [...]string{"Down", "Up", "Floor", "Ceiling", "Nearest", "Exact"}

func (m RoundingMode) String() string {
	if m >= 0 && int(m) < len(roundingModeNames) {
		return roundingModeNames[m]
	}
	return "RoundingMode(?)"
}

// Ordering compares a rounded result with the exact value.
type Ordering int

const (
	Less    Ordering = -1
	Equal   Ordering = 0
	Greater Ordering = 1
)

// RoundDecision decides whether a truncated quotient must be incremented.
// It is only called for a non-zero remainder: halfCmp compares the remainder
// with half the divisor (-1, 0, +1) and odd is the parity of the truncated
// quotient. op names the caller in the panic raised for Exact.
func RoundDecision(mode RoundingMode, op string, halfCmp int, odd bool) (up bool, ord Ordering) {
	switch mode {
	case Down, Floor:
		return false, Less
	case Up, Ceiling:
		return true, Greater
	case Nearest:
		if halfCmp > 0 || (halfCmp == 0 && odd) {
			return true, Greater
		}
		return false, Less
	case Exact:
		apperrors.PanicPrecondition(op, "rounding mode Exact with a non-zero remainder")
	}
	apperrors.PanicPrecondition(op, "unknown rounding mode %d", int(mode))
	return false, Equal
}
