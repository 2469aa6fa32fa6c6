// Package limbs provides the word-level primitives of the natural number
// kernel: single-limb carry arithmetic, carry-propagating vector addition and
// subtraction, arbitrary bit shifts, comparison and canonicalization.
//
// A limb vector is a []Limb stored least-significant limb first. Routines
// that write an output take it as their first argument and never grow it;
// callers size it from the documented length. In-place variants accept an
// output that starts at the same limb as an input. Violations of these
// contracts panic with *apperrors.PreconditionError.
package limbs
