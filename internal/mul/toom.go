package mul

import (
	"math"
	"math/bits"

	apperrors "github.com/agbru/natcalc/internal/errors"
	"github.com/agbru/natcalc/internal/limbs"
)

// ─────────────────────────────────────────────────────────────────────────────
// Toom-Cook Evaluation–Interpolation Engine
// ─────────────────────────────────────────────────────────────────────────────
//
// Toom-(k,l) splits xs into k pieces and ys into l pieces of s limbs, reads
// the two operands as polynomials X and Y evaluated at B^s, and recovers the
// k+l-1 coefficients of C = X·Y from its values at k+l-1 points.
//
// Points are homogeneous pairs (p, q) with C(p, q) = Σ c_j p^j q^(d-j) and
// d = k+l-2. Besides 0 = (0, 1) and ∞ = (1, 0), they are taken as ± pairs
// from the sequence 1, 2, 1/2, 4, 1/4, 8, 1/8 ..., with p and q powers of
// two, plus one positive point when the count left is odd. A ± pair splits
// into the even and odd parts of C, so after removing c_0 and c_d every
// remaining equation is a homogeneous Vandermonde system in (p², q²) with
// non-negative right-hand sides. Those systems are solved exactly with Newton
// divided differences; the only divisions are shifts and exact divisions by
// 4^e - 1.

// point is the evaluation point (2^a, 2^b).
type point struct {
	a, b uint
}

// pointSequence returns the first n positive points of 1, 2, 1/2, 4, 1/4 ...
func pointSequence(n int) []point {
	pts := make([]point, 0, n)
	pts = append(pts, point{0, 0})
	for e := uint(1); len(pts) < n; e++ {
		pts = append(pts, point{e, 0})
		if len(pts) < n {
			pts = append(pts, point{0, e})
		}
	}
	return pts[:n]
}

// toomShape is the precomputed size-independent plan of one (k, l) split.
type toomShape struct {
	k, l      int
	d         int
	pairs     []point
	single    point
	hasSingle bool
	// h is the number of limbs an evaluated operand may exceed s by.
	h int
	// even and odd are the two interpolation systems.
	even, odd interpSystem
	// guard is the number of limbs an interpolation value may exceed a full
	// point product by, including the 2^S scaling.
	guard int
}

func newToomShape(k, l int) *toomShape {
	d := k + l - 2
	inner := d - 1 // points besides 0 and ∞
	nPairs := inner / 2
	hasSingle := inner%2 == 1
	pts := pointSequence(nPairs + 1)

	sh := &toomShape{k: k, l: l, d: d, pairs: pts[:nPairs], hasSingle: hasSingle}
	if hasSingle {
		sh.single = pts[nPairs]
	}

	var emax uint
	for _, p := range pts[:nPairs+boolInt(hasSingle)] {
		emax = max(emax, p.a, p.b)
	}
	widest := max(k, l)
	evalBits := int(emax)*(widest-1) + bits.Len(uint(widest))
	sh.h = (evalBits + limbs.W - 1) / limbs.W

	for _, p := range sh.pairs {
		sh.even.ys = append(sh.even.ys, 2*p.a)
		sh.even.zs = append(sh.even.zs, 2*p.b)
		sh.odd.ys = append(sh.odd.ys, 2*p.a)
		sh.odd.zs = append(sh.odd.zs, 2*p.b)
	}
	if hasSingle {
		sh.odd.ys = append(sh.odd.ys, 2*sh.single.a)
		sh.odd.zs = append(sh.odd.zs, 2*sh.single.b)
	}
	sh.even.computeScale()
	sh.odd.computeScale()

	guardBits := 0
	for _, sys := range []*interpSystem{&sh.even, &sh.odd} {
		t := len(sys.ys)
		g := int(sys.scale) + 2*int(emax)*t*t + t*(2*int(emax)+1) + limbs.W
		guardBits = max(guardBits, g)
	}
	sh.guard = (guardBits + limbs.W - 1) / limbs.W
	return sh
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// split returns the piece size and the lengths of the last pieces, and
// whether the split is usable: both last pieces non-empty and every
// evaluated product strictly shorter than the larger operand.
func (sh *toomShape) split(n, m int) (s, lastX, lastY int, ok bool) {
	s = max((n+sh.k-1)/sh.k, (m+sh.l-1)/sh.l)
	lastX = n - (sh.k-1)*s
	lastY = m - (sh.l-1)*s
	ok = lastX > 0 && lastX <= s && lastY > 0 && lastY <= s && s+sh.h < max(n, m)
	return s, lastX, lastY, ok
}

// workLen is the length of one interpolation working vector.
func (sh *toomShape) workLen(s int) int {
	return 2*(s+sh.h) + sh.guard
}

// ownScratch is the scratch used by one Toom level before its sub-products.
func (sh *toomShape) ownScratch(s int) int {
	slots := 2*len(sh.pairs) + boolInt(sh.hasSingle)
	coefs := max(len(sh.even.ys), len(sh.odd.ys))
	return 7*(s+sh.h) + (slots+coefs+1)*sh.workLen(s)
}

// ratioScore measures how far the piece ratio k/l is from n/m.
func (sh *toomShape) ratioScore(n, m int) float64 {
	return math.Abs(math.Log(float64(n)/float64(m)) - math.Log(float64(sh.k)/float64(sh.l)))
}

// ─────────────────────────────────────────────────────────────────────────────
// Variants
// ─────────────────────────────────────────────────────────────────────────────

// ToomVariant describes one member of the Toom family. Toom-6½ and Toom-8½
// have several shapes and use the one whose ratio is closest to n/m.
type ToomVariant struct {
	Algorithm Algorithm
	shapes    []*toomShape
}

// Shapes returns the (k, l) piece counts the variant supports.
func (v ToomVariant) Shapes() [][2]int {
	out := make([][2]int, len(v.shapes))
	for i, sh := range v.shapes {
		out[i] = [2]int{sh.k, sh.l}
	}
	return out
}

// InputSizesValid reports whether the variant can multiply operands of n and
// m limbs, n >= m.
func (v ToomVariant) InputSizesValid(n, m int) bool {
	return v.shape(n, m) != nil
}

// shape returns the usable shape with the best ratio, or nil.
func (v ToomVariant) shape(n, m int) *toomShape {
	if m < 1 || n < m {
		return nil
	}
	var best *toomShape
	bestScore := math.Inf(1)
	for _, sh := range v.shapes {
		if _, _, _, ok := sh.split(n, m); !ok {
			continue
		}
		if score := sh.ratioScore(n, m); score < bestScore {
			best, bestScore = sh, score
		}
	}
	return best
}

// pieceCount is the largest l among the shapes; the dispatcher prefers
// variants with more pieces at large sizes.
func (v ToomVariant) pieceCount() int {
	l := 0
	for _, sh := range v.shapes {
		l = max(l, sh.l)
	}
	return l
}

var toomVariants = func() map[Algorithm]ToomVariant {
	mk := func(alg Algorithm, kl ...[2]int) ToomVariant {
		v := ToomVariant{Algorithm: alg}
		for _, s := range kl {
			v.shapes = append(v.shapes, newToomShape(s[0], s[1]))
		}
		return v
	}
	return map[Algorithm]ToomVariant{
		Toom22: mk(Toom22, [2]int{2, 2}),
		Toom32: mk(Toom32, [2]int{3, 2}),
		Toom33: mk(Toom33, [2]int{3, 3}),
		Toom42: mk(Toom42, [2]int{4, 2}),
		Toom43: mk(Toom43, [2]int{4, 3}),
		Toom44: mk(Toom44, [2]int{4, 4}),
		Toom52: mk(Toom52, [2]int{5, 2}),
		Toom53: mk(Toom53, [2]int{5, 3}),
		Toom54: mk(Toom54, [2]int{5, 4}),
		Toom62: mk(Toom62, [2]int{6, 2}),
		Toom63: mk(Toom63, [2]int{6, 3}),
		Toom6h: mk(Toom6h, [2]int{6, 6}, [2]int{7, 6}, [2]int{8, 5}),
		Toom8h: mk(Toom8h, [2]int{8, 8}, [2]int{9, 8}, [2]int{10, 7}, [2]int{11, 6}),
	}
}()

// ToomVariants lists the Toom family in Algorithm order.
func ToomVariants() []ToomVariant {
	out := make([]ToomVariant, 0, len(toomVariants))
	for alg := Toom22; alg <= Toom8h; alg++ {
		out = append(out, toomVariants[alg])
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Multiplication
// ─────────────────────────────────────────────────────────────────────────────

// toomScratchLen is the scratch needed by one Toom level and everything it
// calls.
func (mu *Multiplier) toomScratchLen(sh *toomShape, n, m int) int {
	s, lastX, lastY, _ := sh.split(n, m)
	sub := mu.scratchLen(s+sh.h, s+sh.h)
	sub = max(sub, mu.scratchLen(s, s))
	sub = max(sub, mu.scratchLen(max(lastX, lastY), min(lastX, lastY)))
	return sh.ownScratch(s) + sub
}

// toomMul writes xs·ys to out[:n+m]. The shape must be valid for (n, m).
func (mu *Multiplier) toomMul(sh *toomShape, out, xs, ys, scratch []Limb) {
	n, m := len(xs), len(ys)
	s, lastX, lastY, ok := sh.split(n, m)
	if !ok {
		apperrors.PanicPrecondition("toomMul", "toom%d%d cannot split %d×%d limbs", sh.k, sh.l, n, m)
	}
	if need := sh.ownScratch(s); len(scratch) < need {
		apperrors.PanicPrecondition("toomMul", "scratch has %d limbs, need %d", len(scratch), need)
	}
	k, l, d, h := sh.k, sh.l, sh.d, sh.h
	ev := s + h
	L := sh.workLen(s)

	// Scratch layout: evaluation buffers, point values, coefficient slots,
	// one temporary, then the scratch of the sub-products.
	off := 0
	take := func(size int) []Limb {
		v := limbs.Span(scratch, off, size)
		off += size
		return v
	}
	evenBuf, oddBuf, shiftTmp := take(ev), take(ev), take(ev)
	xp, xm, yp, ym := take(ev), take(ev), take(ev), take(ev)

	var evens, odds [maxInterpPoints]signedVec
	nPairs := len(sh.pairs)
	for i := 0; i < nPairs; i++ {
		evens[i].mag = take(L)
		odds[i].mag = take(L)
	}
	if sh.hasSingle {
		odds[nPairs].mag = take(L)
	}
	var coefs [maxInterpPoints]signedVec
	nCoefs := max(len(sh.even.ys), len(sh.odd.ys))
	for i := 0; i < nCoefs; i++ {
		coefs[i].mag = take(L)
	}
	tmp := signedVec{mag: take(L)}
	sub := scratch[off:]

	xPiece := func(i int) []Limb { return xs[i*s : i*s+pieceLen(i, k, s, lastX)] }
	yPiece := func(i int) []Limb { return ys[i*s : i*s+pieceLen(i, l, s, lastY)] }

	// evaluate writes X(±p, q) to plus and minus and reports whether the
	// value at the negative point is negative.
	evaluate := func(piece func(int) []Limb, pieces int, pt point, plus, minus []Limb) bool {
		clear(evenBuf)
		clear(oddBuf)
		for i := 0; i < pieces; i++ {
			dst := evenBuf
			if i%2 == 1 {
				dst = oddBuf
			}
			addShifted(dst, piece(i), pt.a*uint(i)+pt.b*uint(pieces-1-i), shiftTmp)
		}
		if limbs.AddSameLen(plus, evenBuf, oddBuf) != 0 {
			overflow("evaluate")
		}
		if minus == nil {
			return false
		}
		if limbs.CmpSameLen(evenBuf, oddBuf) >= 0 {
			limbs.SubSameLen(minus, evenBuf, oddBuf)
			return false
		}
		limbs.SubSameLen(minus, oddBuf, evenBuf)
		return true
	}

	// product writes a·b to the first 2·ev limbs of slot and clears the rest.
	product := func(slot, a, b []Limb) {
		mu.mulScratch(slot[:2*ev], a, b, sub)
		clear(slot[2*ev:])
	}

	// c_0 and c_d go straight to their final place in out.
	c0 := out[:2*s]
	cd := out[d*s : n+m]
	mu.mulScratch(c0, xPiece(0), yPiece(0), sub)
	xl, yl := xPiece(k-1), yPiece(l-1)
	if len(xl) < len(yl) {
		xl, yl = yl, xl
	}
	mu.mulScratch(cd, xl, yl, sub)
	clear(out[2*s : d*s])

	te, to := len(sh.even.ys), len(sh.odd.ys)
	for i, pt := range sh.pairs {
		negX := evaluate(xPiece, k, pt, xp, xm)
		negY := evaluate(yPiece, l, pt, yp, ym)
		a, b := evens[i].mag, odds[i].mag
		product(a, xp, yp)
		product(b, xm, ym)

		// a = C(p,q), b = |C(-p,q)|. Split into the even and odd parts.
		if negX == negY {
			limbs.AddInPlace(a, b)
			shrExactVec(a, 1)
			limbs.SubInPlaceRight(a, b)
		} else {
			limbs.SubInPlace(a, b)
			shrExactVec(a, 1)
			limbs.AddInPlace(b, a)
		}
		subShifted(a, c0, pt.b*uint(d), tmp.mag)
		if d%2 == 0 {
			subShifted(a, cd, pt.a*uint(d), tmp.mag)
		} else {
			subShifted(b, cd, pt.a*uint(d), tmp.mag)
		}
		shrExactVec(a, 2*pt.a+pt.b*uint(d-2*te))
		shrExactVec(b, pt.a+pt.b*uint(d-2*to+1))
	}

	var single []Limb
	if sh.hasSingle {
		single = odds[nPairs].mag
		evaluate(xPiece, k, sh.single, xp, nil)
		evaluate(yPiece, l, sh.single, yp, nil)
		product(single, xp, yp)
	}

	// Even coefficients c_2, c_4, ...
	sh.even.solve(evens[:te], coefs[:te], &tmp)
	if sh.hasSingle {
		pt := sh.single
		subShifted(single, c0, pt.b*uint(d), tmp.mag)
		subShifted(single, cd, pt.a*uint(d), tmp.mag)
		for u := 0; u < te; u++ {
			j := uint(2 * (u + 1))
			subShifted(single, coefs[u].mag, pt.a*j+pt.b*(uint(d)-j), tmp.mag)
		}
		shrExactVec(single, pt.a+pt.b*uint(d-2*to+1))
	}
	for u := 0; u < te; u++ {
		addAt(out[:n+m], coefs[u].mag, 2*(u+1)*s)
	}

	// Odd coefficients c_1, c_3, ...
	sh.odd.solve(odds[:to], coefs[:to], &tmp)
	for u := 0; u < to; u++ {
		addAt(out[:n+m], coefs[u].mag, (2*u+1)*s)
	}
}

// pieceLen is the length of piece i of an operand split into count pieces.
func pieceLen(i, count, s, last int) int {
	if i == count-1 {
		return last
	}
	return s
}

// addShifted adds x·2^shift to acc. tmp must be as long as acc.
func addShifted(acc, x []Limb, shift uint, tmp []Limb) {
	if shift == 0 {
		if limbs.AddInPlace(acc, x) != 0 {
			overflow("addShifted")
		}
		return
	}
	if limbs.AddInPlace(acc, shiftInto(tmp[:len(acc)], x, shift)) != 0 {
		overflow("addShifted")
	}
}

// subShifted subtracts x·2^shift from acc, which must stay non-negative.
// tmp must be at least as long as acc.
func subShifted(acc, x []Limb, shift uint, tmp []Limb) {
	x = limbs.Trim(x)
	if len(x) == 0 {
		return
	}
	if shift == 0 {
		if len(x) > len(acc) || limbs.SubInPlace(acc, x) != 0 {
			overflow("subShifted")
		}
		return
	}
	if limbs.SubInPlace(acc, shiftInto(tmp[:len(acc)], x, shift)) != 0 {
		overflow("subShifted")
	}
}

// shiftInto writes x·2^shift to dst, zero-filled, and returns dst.
func shiftInto(dst, x []Limb, shift uint) []Limb {
	q, r := int(shift/limbs.W), shift%limbs.W
	x = limbs.Trim(x)
	clear(dst)
	if len(x) == 0 {
		return dst
	}
	if q+len(x) > len(dst) {
		overflow("shiftInto")
	}
	c := limbs.ShlTo(dst[q:], x, r)
	if c != 0 {
		if q+len(x) >= len(dst) {
			overflow("shiftInto")
		}
		dst[q+len(x)] = c
	}
	return dst
}

// shrExactVec shifts a non-negative vector right by an exact amount.
func shrExactVec(xs []Limb, bits uint) {
	v := signedVec{mag: xs}
	v.shrExact(bits)
}

// addAt adds the non-negative coefficient c at limb offset off of out. The
// coefficient always fits: the running sum never exceeds the final product.
func addAt(out, c []Limb, off int) {
	c = limbs.Trim(c)
	if len(c) == 0 {
		return
	}
	if off+len(c) > len(out) || limbs.AddInPlace(out[off:], c) != 0 {
		overflow("recompose")
	}
}
