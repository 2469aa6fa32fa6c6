// Copyright 2010 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bigfft

import (
	"github.com/agbru/natcalc/internal/limbs"
)

// poly represents an integer via a polynomial in Z[x]/(x^K+1)
// where K is the FFT length and b^m is the computation basis 1<<(m*_W).
// If P = a[0] + a[1] x + ... a[n] x^(K-1), the associated natural number
// is P(b^m).
type poly struct {
	k uint  // k is such that K = 1<<k.
	m int   // the m such that P(b^m) is the original number.
	a []nat // a slice of at most K m-limb coefficients.

	// owned is pooled storage backing some of a, released by release.
	owned []Word
}

// polyFromNat slices the number x into a polynomial
// with 1<<k coefficients made of m limbs.
func polyFromNat(x nat, k uint, m int) poly {
	p := poly{k: k, m: m}
	p.a = acquireNats(len(x)/m + 1)
	for i := range p.a {
		if len(x) < m {
			p.owned = acquireLimbs(m)
			copy(p.owned, x)
			p.a[i] = p.owned
			break
		}
		p.a[i] = x[:m]
		x = x[m:]
	}
	return p
}

func (p *poly) release() {
	releaseNats(p.a)
	releaseLimbs(p.owned)
	p.a, p.owned = nil, nil
}

// intTo evaluates the polynomial at b^m and writes the value to out, which
// must be long enough to hold it.
func (p *poly) intTo(out []Word) {
	length := len(p.a)*p.m + 1
	if na := len(p.a); na > 0 {
		length += len(p.a[na-1])
	}
	n := acquireLimbs(length)
	defer releaseLimbs(n)
	m := p.m
	np := n
	for i := range p.a {
		l := len(p.a[i])
		c := limbs.AddVV(np[:l], np[:l], p.a[i])
		if np[l] < limbs.MaxLimb {
			np[l] += c
		} else {
			limbs.AddVW(np[l:], np[l:], c)
		}
		np = np[m:]
	}
	copied := copy(out, n)
	if !limbs.IsZero(n[copied:]) {
		panic("bigfft: product does not fit the output")
	}
	clear(out[copied:])
}

// mul multiplies p and q modulo X^K-1, where K = 1<<p.k.
// The product is done via a Fourier transform.
func (p *poly) mul(q *poly, pw Multiplier) poly {
	// extra=2 because:
	// * some power of 2 is a K-th root of unity when n is a multiple of K/2.
	// * 2 itself is a square (see fermat.ShiftHalf)
	n := valueSize(p.k, p.m, 2)

	pv := p.transform(n)
	defer pv.release()
	qv := q.transform(n)
	defer qv.release()
	rv := pv.mul(&qv, pw)
	defer rv.release()
	return rv.invTransform()
}

// sqr squares p modulo X^K-1 with a single forward transform.
func (p *poly) sqr(pw Multiplier) poly {
	n := valueSize(p.k, p.m, 2)

	pv := p.transform(n)
	defer pv.release()
	rv := pv.mul(&pv, pw)
	defer rv.release()
	return rv.invTransform()
}

// A polValues represents the value of a poly at the powers of a
// K-th root of unity θ=2^(l/2) in Z/(b^n+1)Z, where b^n = 2^(K/4*l).
type polValues struct {
	k      uint     // k is such that K = 1<<k.
	n      int      // the length of coefficients, n*_W a multiple of K/4.
	values []fermat // a slice of K (n+1)-limb values
	bits   []Word   // storage of values
}

// newPolValues lays out K zeroed values of n+1 limbs in pooled storage.
func newPolValues(k uint, n int) polValues {
	v := polValues{k: k, n: n}
	v.bits = acquireLimbs((n + 1) << k)
	v.values = acquireFermats(1 << k)
	for i := range v.values {
		v.values[i] = fermat(v.bits[i*(n+1) : (i+1)*(n+1) : (i+1)*(n+1)])
	}
	return v
}

func (v *polValues) release() {
	releaseFermats(v.values)
	releaseLimbs(v.bits)
	v.values, v.bits = nil, nil
}

// transform evaluates p at θ^i for i = 0...K-1, where
// θ is a K-th primitive root of unity in Z/(b^n+1)Z.
func (p *poly) transform(n int) polValues {
	k := p.k
	input := newPolValues(k, n)
	defer input.release()
	for i := range input.values {
		if i < len(p.a) {
			copy(input.values[i], p.a[i])
		}
	}
	values := newPolValues(k, n)
	fourier(values.values, input.values, false, n, k)
	return values
}

// invTransform reconstructs p (modulo X^K - 1) from its
// values at θ^i for i = 0..K-1. The returned poly owns its storage.
func (v *polValues) invTransform() poly {
	k, n := v.k, v.n

	// Perform an inverse Fourier transform to recover p.
	pv := newPolValues(k, n)
	fourier(pv.values, v.values, true, n, k)
	// Divide by K.
	u := acquireFermatDirty(n + 1)
	defer releaseFermat(u)
	a := acquireNats(1 << k)
	for i, pi := range pv.values {
		u.Shift(pi, -int(k))
		copy(pi, u)
		a[i] = nat(pi)
	}
	releaseFermats(pv.values)
	return poly{k: k, m: 0, a: a, owned: pv.bits}
}

// mul returns the pointwise product of p and q.
func (p *polValues) mul(q *polValues, pw Multiplier) polValues {
	n := p.n
	r := newPolValues(p.k, n)
	buf := acquireFermatDirty(2*n + 2)
	defer releaseFermat(buf)
	for i := range r.values {
		z := buf.Mul(p.values[i], q.values[i], pw)
		copy(r.values[i], z)
	}
	return r
}

// fourier performs an unnormalized Fourier transform
// of src, a length 1<<k vector of numbers modulo b^n+1
// where b = 1<<_W.
func fourier(dst []fermat, src []fermat, backward bool, n int, k uint) {
	st := acquireFFTState(n, k)
	defer releaseFFTState(st)
	tmp, tmp2 := st.tmp, st.tmp2

	var rec func(dst, src []fermat, size uint)
	// The recursion function of the FFT.
	// The root of unity used in the transform is ω=1<<(ω2shift/2).
	// The source array may use shifted indices (i.e. the i-th
	// element is src[i << idxShift]).
	rec = func(dst, src []fermat, size uint) {
		idxShift := k - size
		ω2shift := (4 * n * _W) >> size
		if backward {
			ω2shift = -ω2shift
		}

		// Easy cases.
		if len(src[0]) != n+1 || len(dst[0]) != n+1 {
			panic("bigfft: len(src[0]) != n+1 || len(dst[0]) != n+1")
		}
		switch size {
		case 0:
			copy(dst[0], src[0])
			return
		case 1:
			dst[0].Add(src[0], src[1<<idxShift]) // dst[0] = src[0] + src[1]
			dst[1].Sub(src[0], src[1<<idxShift]) // dst[1] = src[0] - src[1]
			return
		}

		// Let P(x) = src[0] + src[1<<idxShift] * x + ... + src[K-1 << idxShift] * x^(K-1)
		// The P(x) = Q1(x²) + x*Q2(x²)
		// where Q1's coefficients are src with indices shifted by 1
		// where Q2's coefficients are src[1<<idxShift:] with indices shifted by 1

		// Split destination vectors in halves.
		dst1 := dst[:1<<(size-1)]
		dst2 := dst[1<<(size-1):]
		// Transform Q1 and Q2 in the halves.
		rec(dst1, src, size-1)
		rec(dst2, src[1<<idxShift:], size-1)

		// Reconstruct P's transform from transforms of Q1 and Q2.
		// dst[i]            is dst1[i] + ω^i * dst2[i]
		// dst[i + 1<<(k-1)] is dst1[i] + ω^(i+K/2) * dst2[i]
		for i := range dst1 {
			tmp.ShiftHalf(dst2[i], i*ω2shift, tmp2) // ω^i * dst2[i]
			dst2[i].Sub(dst1[i], tmp)
			dst1[i].Add(dst1[i], tmp)
		}
	}
	rec(dst, src, k)
}
