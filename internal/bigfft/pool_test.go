package bigfft

import (
	"fmt"
	"testing"
)

// indexLinear is the reference linear search the O(1) class index must
// agree with.
func indexLinear[E any](p *classPool[E], size int) int {
	for i, s := range p.sizes {
		if size <= s {
			return i
		}
	}
	return -1
}

func TestLimbPool(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		size int
	}{
		{"small", 10},
		{"medium", 100},
		{"large", 1000},
		{"xlarge", 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := acquireLimbs(tt.size)
			if len(s) != tt.size {
				t.Errorf("acquireLimbs(%d) got length %d", tt.size, len(s))
			}
			for i := range s {
				if s[i] != 0 {
					t.Errorf("acquireLimbs(%d) not zeroed at index %d", tt.size, i)
					break
				}
			}
			// Dirty the buffer so that a reuse must clear it again.
			for i := range s {
				s[i] = Word(i + 1)
			}
			releaseLimbs(s)
		})
	}
}

func TestAcquireDirtyKeepsLength(t *testing.T) {
	t.Parallel()
	f := acquireFermatDirty(100)
	if len(f) != 100 || cap(f) != 256 {
		t.Errorf("acquireFermatDirty(100): len=%d cap=%d, want 100 and 256", len(f), cap(f))
	}
	releaseFermat(f)
}

func TestSlicePools(t *testing.T) {
	t.Parallel()
	for _, size := range []int{4, 16, 64, 256} {
		t.Run(fmt.Sprintf("Size=%d", size), func(t *testing.T) {
			t.Parallel()
			ns := acquireNats(size)
			fs := acquireFermats(size)
			if len(ns) != size || len(fs) != size {
				t.Fatalf("lengths %d, %d, want %d", len(ns), len(fs), size)
			}
			for i := range ns {
				if ns[i] != nil || fs[i] != nil {
					t.Fatalf("element %d not nil", i)
				}
			}
			releaseNats(ns)
			releaseFermats(fs)
		})
	}
}

func TestFFTStatePool(t *testing.T) {
	t.Parallel()
	n, k := 100, uint(4)

	state := acquireFFTState(n, k)
	if len(state.tmp) != n+1 || len(state.tmp2) != n+1 {
		t.Errorf("temporaries have lengths %d, %d, want %d", len(state.tmp), len(state.tmp2), n+1)
	}
	if state.n != n || state.k != k {
		t.Errorf("state = (%d, %d), want (%d, %d)", state.n, state.k, n, k)
	}
	state.tmp[0] = 7
	releaseFFTState(state)

	// A smaller request reuses and clears the attached buffers.
	state = acquireFFTState(10, 2)
	if len(state.tmp) != 11 || state.tmp[0] != 0 {
		t.Errorf("reused state not resized and cleared: len=%d tmp[0]=%d", len(state.tmp), state.tmp[0])
	}
	releaseFFTState(state)
}

func TestReleaseNilSafe(t *testing.T) {
	t.Parallel()
	// These should not panic
	releaseLimbs(nil)
	releaseFermat(nil)
	releaseNats(nil)
	releaseFermats(nil)
	releaseFFTState(nil)
}

func TestReleaseForeignSliceIgnored(t *testing.T) {
	t.Parallel()
	// A slice whose capacity is not a class size is left to the GC.
	releaseLimbs(make([]Word, 100))
	s := acquireLimbs(100)
	if cap(s) != 256 {
		t.Errorf("cap = %d, want class size 256", cap(s))
	}
	releaseLimbs(s)
}

// ─────────────────────────────────────────────────────────────────────────────
// Class index
// ─────────────────────────────────────────────────────────────────────────────

func TestClassIndexConsistency(t *testing.T) {
	t.Parallel()
	t.Run("limbs", func(t *testing.T) {
		t.Parallel()
		maxSize := limbPool.sizes[len(limbPool.sizes)-1]
		for size := 0; size <= 1<<20; size++ {
			if got, want := limbPool.index(size), indexLinear(limbPool, size); got != want {
				t.Fatalf("index(%d) = %d, want %d", size, got, want)
			}
		}
		for _, size := range []int{maxSize - 1, maxSize, maxSize + 1} {
			if got, want := limbPool.index(size), indexLinear(limbPool, size); got != want {
				t.Fatalf("index(%d) = %d, want %d", size, got, want)
			}
		}
	})
	t.Run("nats", func(t *testing.T) {
		t.Parallel()
		maxSize := natSlicePool.sizes[len(natSlicePool.sizes)-1]
		for size := 0; size <= maxSize+100; size++ {
			if got, want := natSlicePool.index(size), indexLinear(natSlicePool, size); got != want {
				t.Fatalf("index(%d) = %d, want %d", size, got, want)
			}
		}
	})
}

// TestPoolIndexBoundaryValues tests the exact boundary values of each class.
func TestPoolIndexBoundaryValues(t *testing.T) {
	t.Parallel()
	for i, size := range limbPool.sizes {
		if got := limbPool.index(size); got != i {
			t.Errorf("index(%d) = %d, want %d", size, got, i)
		}
		if i > 0 {
			if got := limbPool.index(limbPool.sizes[i-1] + 1); got != i {
				t.Errorf("index(%d) = %d, want %d", limbPool.sizes[i-1]+1, got, i)
			}
		}
	}
	if got := limbPool.index(limbPool.sizes[len(limbPool.sizes)-1] + 1); got != -1 {
		t.Errorf("index(max+1) = %d, want -1", got)
	}
	if limbPool.sizes[0] != 64 || fermatSlicePool.sizes[len(fermatSlicePool.sizes)-1] != 32768 {
		t.Errorf("unexpected class layout: %v %v", limbPool.sizes, fermatSlicePool.sizes)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Warming
// ─────────────────────────────────────────────────────────────────────────────

func TestEstimateMemoryNeeds(t *testing.T) {
	t.Parallel()
	for _, words := range []int{100, 1000, 10_000, 100_000} {
		est := EstimateMemoryNeeds(words)
		if est.MaxLimbSliceSize != (est.N+1)*est.K {
			t.Errorf("words=%d: limb size %d != (N+1)·K", words, est.MaxLimbSliceSize)
		}
		// The residues must hold the 2·words product spread over K chunks.
		if est.N*est.K < 2*words {
			t.Errorf("words=%d: N·K = %d too small", words, est.N*est.K)
		}
		if est.MaxNatSliceSize != est.K || est.MaxFermatSliceSize != est.K {
			t.Errorf("words=%d: slice sizes %d, %d, want K=%d", words, est.MaxNatSliceSize, est.MaxFermatSliceSize, est.K)
		}
	}
}

func TestPreWarmPools(t *testing.T) {
	t.Parallel()
	// Warming must not panic for any size, including ones beyond the
	// largest class.
	for _, words := range []int{1, 2000, 50_000, 5_000_000} {
		PreWarmPools(words)
	}
	EnsurePoolsWarmed(2000)
	EnsurePoolsWarmed(2000)
	if !poolsWarmed.Load() {
		t.Error("EnsurePoolsWarmed did not record the warming")
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Benchmarks
// ─────────────────────────────────────────────────────────────────────────────

func BenchmarkClassIndex(b *testing.B) {
	sizes := []int{1, 32, 65, 200, 1000, 5000, 50000, 500000, 5000000}
	b.Run("bitwise", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			for _, s := range sizes {
				limbPool.index(s)
			}
		}
	})
	b.Run("linear", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			for _, s := range sizes {
				indexLinear(limbPool, s)
			}
		}
	})
}

func BenchmarkLimbPool(b *testing.B) {
	for _, size := range []int{64, 1024, 16384} {
		b.Run(fmt.Sprint(size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				releaseLimbs(acquireLimbs(size))
			}
		})
	}
}

func BenchmarkLimbDirectAlloc(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = make([]Word, 1024)
	}
}

func BenchmarkFFTStatePool(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		releaseFFTState(acquireFFTState(100, 4))
	}
}
