package mul

import (
	apperrors "github.com/agbru/natcalc/internal/errors"
	"github.com/agbru/natcalc/internal/limbs"
)

// Limb is the machine word the kernels operate on.
type Limb = limbs.Limb

// MulBasecase writes the full product xs·ys to out[:len(xs)+len(ys)] using
// the quadratic schoolbook method. It requires len(xs) >= len(ys) >= 1 and
// an out that overlaps neither operand.
//
// It is the leaf of every recursive algorithm and the reference the others
// are tested against.
func MulBasecase(out, xs, ys []Limb) {
	n, m := len(xs), len(ys)
	if m == 0 || n < m || len(out) < n+m {
		apperrors.PanicPrecondition("MulBasecase", "len(out)=%d len(xs)=%d len(ys)=%d", len(out), n, m)
	}
	if limbs.Overlaps(out, xs) || limbs.Overlaps(out, ys) {
		apperrors.PanicPrecondition("MulBasecase", "out overlaps an operand")
	}
	out[n] = limbs.MulLimb(out[:n], xs, ys[0])
	for i := 1; i < m; i++ {
		out[n+i] = limbs.AddMulVVW(out[i:i+n], xs, ys[i])
	}
}

// MulLowBasecase writes the low len(out) limbs of xs·ys to out. It requires
// len(xs) >= len(out) and len(ys) >= len(out); only the limbs of the operands
// below len(out) contribute.
func MulLowBasecase(out, xs, ys []Limb) {
	n := len(out)
	if len(xs) < n || len(ys) < n {
		apperrors.PanicPrecondition("MulLowBasecase", "len(out)=%d len(xs)=%d len(ys)=%d", n, len(xs), len(ys))
	}
	if limbs.Overlaps(out, xs) || limbs.Overlaps(out, ys) {
		apperrors.PanicPrecondition("MulLowBasecase", "out overlaps an operand")
	}
	if n == 0 {
		return
	}
	limbs.MulLimb(out, xs[:n], ys[0])
	for i := 1; i < n; i++ {
		limbs.AddMulVVW(out[i:], xs[:n-i], ys[i])
	}
}

// SquareBasecase writes xs² to out[:2·len(xs)]. Off-diagonal products are
// accumulated once and doubled, then the diagonal squares are added.
func SquareBasecase(out, xs []Limb) {
	n := len(xs)
	if n == 0 || len(out) < 2*n {
		apperrors.PanicPrecondition("SquareBasecase", "len(out)=%d len(xs)=%d", len(out), n)
	}
	if limbs.Overlaps(out, xs) {
		apperrors.PanicPrecondition("SquareBasecase", "out overlaps the operand")
	}
	out = out[:2*n]
	clear(out)
	// Off-diagonal sum Σ_{i<j} x_i·x_j·B^(i+j).
	for i := 0; i < n-1; i++ {
		out[n+i] = limbs.AddMulVVW(out[2*i+1:n+i], xs[i+1:], xs[i])
	}
	limbs.ShlTo(out, out, 1)
	// Diagonal terms x_i²·B^(2i).
	var c Limb
	for i, x := range xs {
		sq := limbs.MulWide(x, x)
		lo, c1 := limbs.AddWithCarry(out[2*i], sq.Lo, c)
		hi, c2 := limbs.AddWithCarry(out[2*i+1], sq.Hi, c1)
		out[2*i], out[2*i+1] = lo, hi
		c = c2
	}
}
