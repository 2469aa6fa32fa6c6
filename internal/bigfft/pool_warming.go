// Pool pre-warming for adaptive buffer pre-allocation based on operand size.

package bigfft

import "sync/atomic"

// MemoryEstimate holds the largest pooled buffer sizes one product of a given
// operand length requests.
type MemoryEstimate struct {
	// K is the transform length and N the residue length in limbs.
	K, N int
	// MaxLimbSliceSize is the length of one transform's value storage.
	MaxLimbSliceSize int
	// MaxNatSliceSize and MaxFermatSliceSize are the coefficient and value
	// vector lengths.
	MaxNatSliceSize    int
	MaxFermatSliceSize int
}

// EstimateMemoryNeeds returns the buffer sizes of a product of two operands
// of words limbs each.
func EstimateMemoryNeeds(words int) MemoryEstimate {
	k, m := Params(2 * words)
	n := valueSize(k, m, 2)
	return MemoryEstimate{
		K:                  1 << k,
		N:                  n,
		MaxLimbSliceSize:   (n + 1) << k,
		MaxNatSliceSize:    1 << k,
		MaxFermatSliceSize: 1 << k,
	}
}

// PreWarmPools pre-allocates buffers in the pools for products of operands of
// words limbs, so that the first transforms do not allocate. The number of
// buffers per class grows with the size:
//   - words < 10,000: 2 buffers
//   - 10,000 ≤ words < 100,000: 4 buffers
//   - 100,000 ≤ words < 1,000,000: 5 buffers
//   - words ≥ 1,000,000: 6 buffers
func PreWarmPools(words int) {
	est := EstimateMemoryNeeds(words)

	numBuffers := 2
	switch {
	case words >= 1_000_000:
		numBuffers = 6
	case words >= 100_000:
		numBuffers = 5
	case words >= 10_000:
		numBuffers = 4
	}

	limbPool.warm(est.MaxLimbSliceSize, numBuffers)
	natSlicePool.warm(est.MaxNatSliceSize, numBuffers)
	fermatSlicePool.warm(est.MaxFermatSliceSize, numBuffers)
}

// poolsWarmed tracks whether pools have been pre-warmed.
var poolsWarmed atomic.Bool

// EnsurePoolsWarmed pre-warms the pools for maxWords-limb operands exactly
// once per process. It is safe to call concurrently.
func EnsurePoolsWarmed(maxWords int) {
	if poolsWarmed.CompareAndSwap(false, true) {
		PreWarmPools(maxWords)
	}
}
