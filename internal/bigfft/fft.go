// Copyright 2010 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bigfft multiplies limb vectors with a Schönhage-Strassen FFT over
// the rings Z/(2^(nW)+1).
//
// Pointwise products are delegated to a Multiplier, normally the dispatcher
// of the mul package, so that large residues recurse into Toom-Cook or into
// the FFT itself.
package bigfft

import (
	"fmt"
	"runtime/debug"

	apperrors "github.com/agbru/natcalc/internal/errors"
	"github.com/agbru/natcalc/internal/limbs"
)

//go:generate mockgen -source=fft.go -destination=mocks/mock_multiplier.go -package=mocks

// Multiplier computes the full product of two limb vectors into
// out[:len(xs)+len(ys)] and returns its top limb. out never overlaps the
// operands.
type Multiplier interface {
	Mul(out, xs, ys []Word) Word
}

// MulTo writes xs·ys to out[:len(xs)+len(ys)]. When xs and ys are the same
// vector the operand is transformed once. pw may be nil, in which case every
// pointwise product uses the schoolbook loop.
//
// Precondition violations panic; see Mul for an error-returning variant.
func MulTo(out, xs, ys []Word, pw Multiplier) {
	n := len(xs) + len(ys)
	if len(out) < n {
		apperrors.PanicPrecondition("bigfft.MulTo", "len(out)=%d < %d+%d", len(out), len(xs), len(ys))
	}
	if limbs.Overlaps(out[:n], xs) || limbs.Overlaps(out[:n], ys) {
		apperrors.PanicPrecondition("bigfft.MulTo", "out overlaps an operand")
	}
	out = out[:n]
	if len(xs) == 0 || len(ys) == 0 {
		clear(out)
		return
	}
	if len(xs) == len(ys) && limbs.SameStart(xs, ys) {
		fftsqrTo(out, xs, pw)
		return
	}
	fftmulTo(out, xs, ys, pw)
}

// Mul returns xs·ys in a new canonical vector. A panic raised by a kernel is
// recovered into a CalculationError.
func Mul(xs, ys []Word, pw Multiplier) (res []Word, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = apperrors.CalculationError{Cause: fmt.Errorf("panic in bigfft.Mul: %v\nStack: %s", r, debug.Stack())}
		}
	}()
	out := make([]Word, len(xs)+len(ys))
	MulTo(out, xs, ys, pw)
	return limbs.Trim(out), nil
}

// Sqr returns xs² in a new canonical vector, transforming xs once.
func Sqr(xs []Word, pw Multiplier) (res []Word, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = apperrors.CalculationError{Cause: fmt.Errorf("panic in bigfft.Sqr: %v\nStack: %s", r, debug.Stack())}
		}
	}()
	out := make([]Word, 2*len(xs))
	MulTo(out, xs, xs, pw)
	return limbs.Trim(out), nil
}

// A FFT size of K=1<<k is adequate when K is about 2*sqrt(N) where
// N = x.Bitlen() + y.Bitlen().

// fftSizeThreshold[i] is the maximal size (in bits) where we should use
// fft size i.
var fftSizeThreshold = [...]int64{0, 0, 0,
	4 << 10, 8 << 10, 16 << 10, // 5
	32 << 10, 64 << 10, 1 << 18, 1 << 20, 3 << 20, // 10
	8 << 20, 30 << 20, 100 << 20, 300 << 20, 600 << 20,
}

// Params returns the transform length exponent k and the chunk length m in
// limbs for a product of the given number of limbs: 1<<k chunks of m limbs
// hold the product.
func Params(words int) (k uint, m int) {
	bits := int64(words) * int64(_W)
	k = uint(len(fftSizeThreshold))
	for i := range fftSizeThreshold {
		if fftSizeThreshold[i] > bits {
			k = uint(i)
			break
		}
	}
	m = words>>k + 1
	return k, m
}

// fftSize returns the parameters for the product of x and y.
func fftSize(x, y nat) (k uint, m int) {
	return Params(len(x) + len(y))
}

// valueSize returns the length (in limbs) to use for polynomial
// coefficients, to compute a correct product of polynomials P*Q
// where deg(P*Q) < K (== 1<<k) and where coefficients of P and Q are
// less than b^m (== 1 << (m*_W)).
// The chosen length (in bits) must be a multiple of 1 << (k-extra).
func valueSize(k uint, m int, extra uint) int {
	// The coefficients of P*Q are less than b^(2m)*K
	// so we need W * valueSize >= 2*m*W+K
	n := 2*m*_W + int(k) // necessary bits
	K := max(1<<(k-extra), _W)
	n = ((n / K) + 1) * K // round to a multiple of K
	return n / _W
}

func fftmulTo(out, x, y nat, pw Multiplier) {
	k, m := fftSize(x, y)
	xp := polyFromNat(x, k, m)
	defer xp.release()
	yp := polyFromNat(y, k, m)
	defer yp.release()

	rp := xp.mul(&yp, pw)
	defer rp.release()
	rp.m = m
	rp.intTo(out)
}

func fftsqrTo(out, x nat, pw Multiplier) {
	k, m := Params(2 * len(x))
	xp := polyFromNat(x, k, m)
	defer xp.release()

	rp := xp.sqr(pw)
	defer rp.release()
	rp.m = m
	rp.intTo(out)
}
