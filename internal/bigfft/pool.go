// This file provides memory pooling for FFT operations to reduce GC pressure.

package bigfft

import (
	"math/bits"
	"sync"
)

// ─────────────────────────────────────────────────────────────────────────────
// Size-Classed Pools
// ─────────────────────────────────────────────────────────────────────────────

// classPool pools slices of E by size class. Class i holds slices of exactly
// base·4^i elements; requests above the largest class are allocated directly
// and left to the GC on release.
type classPool[E any] struct {
	base  int
	sizes []int
	pools []sync.Pool
}

func newClassPool[E any](base, classes int) *classPool[E] {
	p := &classPool[E]{
		base:  base,
		sizes: make([]int, classes),
		pools: make([]sync.Pool, classes),
	}
	for i := range p.sizes {
		size := base << (2 * i)
		p.sizes[i] = size
		p.pools[i].New = func() any { return make([]E, size) }
	}
	return p
}

// index returns the class of the smallest slice holding size elements, or -1
// when size is too large for pooling.
//
// Classes are base·4^i, so the index is ceil(log4(size/base)), which
// bits.Len yields in O(1).
func (p *classPool[E]) index(size int) int {
	if size <= p.base {
		return 0
	}
	if size > p.sizes[len(p.sizes)-1] {
		return -1
	}
	return (bits.Len(uint((size-1)/p.base)) + 1) / 2
}

// acquire returns a zeroed slice of exactly size elements. Release it with
// release, preferably with defer.
func (p *classPool[E]) acquire(size int) []E {
	s := p.acquireDirty(size)
	clear(s)
	return s
}

// acquireDirty is acquire without clearing, for callers that overwrite every
// element.
func (p *classPool[E]) acquireDirty(size int) []E {
	idx := p.index(size)
	if idx < 0 {
		return make([]E, size)
	}
	s := p.pools[idx].Get().([]E)
	return s[:size]
}

// release returns s to its class. Slices that did not come from the pool are
// dropped. Safe to call with nil.
func (p *classPool[E]) release(s []E) {
	if s == nil {
		return
	}
	c := cap(s)
	if idx := p.index(c); idx >= 0 && p.sizes[idx] == c {
		p.pools[idx].Put(s[:c])
	}
}

// warm adds count fresh slices to the class serving size.
func (p *classPool[E]) warm(size, count int) {
	idx := p.index(size)
	if idx < 0 {
		return
	}
	for i := 0; i < count; i++ {
		p.pools[idx].Put(make([]E, p.sizes[idx]))
	}
}

// Limb buffers: 64 .. 16M limbs. Fermat residues come from the same pool.
var limbPool = newClassPool[Word](64, 10)

// Coefficient and value vectors of a transform: 8 .. 32K entries.
var (
	natSlicePool    = newClassPool[nat](8, 7)
	fermatSlicePool = newClassPool[fermat](8, 7)
)

func acquireFermat(n int) fermat      { return fermat(limbPool.acquire(n)) }
func acquireFermatDirty(n int) fermat { return fermat(limbPool.acquireDirty(n)) }
func releaseFermat(f fermat)          { limbPool.release(f) }
func acquireLimbs(n int) []Word       { return limbPool.acquire(n) }
func releaseLimbs(s []Word)           { limbPool.release(s) }
func acquireNats(n int) []nat         { return natSlicePool.acquire(n) }
func releaseNats(s []nat)             { natSlicePool.release(s) }
func acquireFermats(n int) []fermat   { return fermatSlicePool.acquire(n) }
func releaseFermats(s []fermat)       { fermatSlicePool.release(s) }

// ─────────────────────────────────────────────────────────────────────────────
// FFT State Pool
// ─────────────────────────────────────────────────────────────────────────────

// fftState holds the two rotation temporaries of one transform.
type fftState struct {
	tmp  fermat
	tmp2 fermat
	n    int
	k    uint
}

var fftStatePool = sync.Pool{
	New: func() any { return &fftState{} },
}

// acquireFFTState returns a state whose temporaries hold n+1 limbs. Release
// it with releaseFFTState.
func acquireFFTState(n int, k uint) *fftState {
	st := fftStatePool.Get().(*fftState)
	for _, buf := range []*fermat{&st.tmp, &st.tmp2} {
		if cap(*buf) < n+1 {
			releaseFermat(*buf)
			*buf = acquireFermat(n + 1)
		} else {
			*buf = (*buf)[:n+1]
			clear(*buf)
		}
	}
	st.n, st.k = n, k
	return st
}

// releaseFFTState keeps the temporaries attached for the next transform.
func releaseFFTState(st *fftState) {
	if st == nil {
		return
	}
	fftStatePool.Put(st)
}
