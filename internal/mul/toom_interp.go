package mul

// maxInterpPoints bounds the equations of one interpolation system; Toom-8½
// needs seven.
const maxInterpPoints = 8

// interpSystem is a homogeneous Vandermonde system
//
//	R_i = Σ_u a_u · Y_i^u · Z_i^(T-1-u),  i = 0 .. T-1
//
// with Y_i = 2^ys[i] and Z_i = 2^zs[i], solved for the integers a_u.
//
// The Newton form of the solution has dyadic rational coefficients. Every
// value is therefore carried multiplied by 2^scale, which computeScale
// derives from the points so that each shift and odd division is exact.
type interpSystem struct {
	ys, zs []uint
	scale  uint
}

// computeScale tracks an upper bound of the power-of-two denominator of every
// intermediate value of solve and records the largest.
func (sys *interpSystem) computeScale() {
	t := len(sys.ys)
	den := make([]int, t)
	scale := 0
	for i := 0; i < t; i++ {
		rest := t - 1 - i
		denB := den[i] + int(sys.zs[i])*rest
		scale = max(scale, denB)
		for j := i + 1; j < t; j++ {
			sub := max(0, denB-int(sys.zs[j])*rest)
			lo, _ := sys.det(j, i)
			den[j] = max(den[j], sub) + int(lo)
			scale = max(scale, den[j])
		}
	}
	sys.scale = uint(scale)
}

// det returns Y_j·Z_i - Y_i·Z_j as ±2^lo·(2^gap - 1).
func (sys *interpSystem) det(j, i int) (lo, gap uint) {
	alpha := sys.ys[j] + sys.zs[i]
	beta := sys.ys[i] + sys.zs[j]
	if alpha < beta {
		return alpha, beta - alpha
	}
	return beta, alpha - beta
}

// solve consumes the right-hand sides eqs and writes the solution a_u to
// coefs[u]. tmp is a working vector of the same length. The solution must be
// non-negative; a negative coefficient panics.
func (sys *interpSystem) solve(eqs, coefs []signedVec, tmp *signedVec) {
	t := len(sys.ys)
	if t == 0 {
		return
	}
	for j := range eqs {
		eqs[j].shl(sys.scale)
	}

	// Newton divided differences: after step i, eqs[i] holds b_i and
	// eqs[j], j > i, the differences of order i+1.
	for i := 0; i < t; i++ {
		rest := uint(t - 1 - i)
		b := &eqs[i]
		b.shrExact(sys.zs[i] * rest)
		for j := i + 1; j < t; j++ {
			tmp.set(b)
			tmp.shl(sys.zs[j] * rest)
			eqs[j].sub(tmp)
			lo, gap := sys.det(j, i)
			eqs[j].shrExact(lo)
			eqs[j].divExact(Limb(1)<<gap - 1)
			if sys.ys[j]+sys.zs[i] < sys.ys[i]+sys.zs[j] {
				eqs[j].negate()
			}
		}
	}

	// Horner expansion of the Newton form
	//   H_i = b_i·Z^(T-1-i) + (Y·Z_i - Y_i·Z)·H_(i+1)
	// into the coefficients of Y^u·Z^(deg-u).
	coefs[0].set(&eqs[t-1])
	deg := 0
	for i := t - 2; i >= 0; i-- {
		coefs[deg+1].set(&coefs[deg])
		coefs[deg+1].shl(sys.zs[i])
		for u := deg; u >= 1; u-- {
			coefs[u].shl(sys.ys[i])
			coefs[u].negate()
			tmp.set(&coefs[u-1])
			tmp.shl(sys.zs[i])
			coefs[u].add(tmp)
		}
		coefs[0].shl(sys.ys[i])
		coefs[0].negate()
		coefs[0].add(&eqs[i])
		deg++
	}

	for u := 0; u < t; u++ {
		coefs[u].shrExact(sys.scale)
		if coefs[u].neg {
			inexact("solve")
		}
	}
}
