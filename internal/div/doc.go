// Package div implements division of limb vectors: single-limb and two-limb
// divisors with precomputed reciprocals, the Möller–Granlund schoolbook
// kernel for longer divisors, and divide-and-conquer division that reduces
// to multiplication through a mul.Multiplier.
//
// The kernels work on normalized divisors (top bit of the top limb set) and
// take the reciprocal from InvertPi1. The entry points DivMod, Div and
// DivRound accept any divisor and normalize internally.
//
// Division by zero panics with apperrors.ErrDivisionByZero; other contract
// violations panic with *apperrors.PreconditionError.
package div
