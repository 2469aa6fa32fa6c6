package arena

import (
	"testing"

	"github.com/agbru/natcalc/internal/limbs"
)

func TestAllocFromBlock(t *testing.T) {
	t.Parallel()
	a := New(10)
	x := a.Alloc(4)
	y := a.Alloc(6)
	if len(x) != 4 || cap(x) != 4 || len(y) != 6 {
		t.Fatalf("len/cap = %d/%d, %d", len(x), cap(x), len(y))
	}
	if a.UsedWords() != 10 || a.CapacityWords() != 10 {
		t.Errorf("used %d of %d, want 10 of 10", a.UsedWords(), a.CapacityWords())
	}
	x[3] = 7
	if y[0] != 0 {
		t.Error("allocations overlap")
	}
	_ = append(x, 1)
	if y[0] != 0 {
		t.Error("append overwrote the next allocation")
	}
}

func TestAllocFallsBackToHeap(t *testing.T) {
	t.Parallel()
	a := New(4)
	_ = a.Alloc(3)
	z := a.Alloc(2)
	if len(z) != 2 {
		t.Fatalf("len = %d, want 2", len(z))
	}
	if a.UsedWords() != 3 {
		t.Errorf("heap fallback consumed arena words: used %d", a.UsedWords())
	}
	if New(0).Alloc(5) == nil {
		t.Error("an empty arena must still allocate")
	}
	if a.Alloc(0) != nil {
		t.Error("Alloc(0) should return nil")
	}
}

func TestResetClearsReusedMemory(t *testing.T) {
	t.Parallel()
	a := New(8)
	x := a.Alloc(8)
	for i := range x {
		x[i] = limbs.MaxLimb
	}
	a.Reset()
	if a.UsedWords() != 0 {
		t.Errorf("used %d after Reset", a.UsedWords())
	}
	y := a.Alloc(8)
	if !limbs.IsZero(y) {
		t.Errorf("reused block not cleared: %v", y)
	}
}

func TestForProduct(t *testing.T) {
	t.Parallel()
	a := ForProduct(3, 2, 10)
	for _, n := range []int{3, 2, 5, 5, 10} {
		a.Alloc(n)
	}
	if a.UsedWords() != a.CapacityWords() {
		t.Errorf("ForProduct sized %d, a check uses %d", a.CapacityWords(), a.UsedWords())
	}
}

func BenchmarkArenaAlloc(b *testing.B) {
	a := New(1 << 12)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		a.Reset()
		for range 4 {
			_ = a.Alloc(1 << 10)
		}
	}
}
