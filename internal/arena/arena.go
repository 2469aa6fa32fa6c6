// Package arena provides a bump-pointer allocator of limb vectors, used by
// long verification loops to reuse one block of memory across trials.
package arena

import "github.com/agbru/natcalc/internal/limbs"

// Arena pre-allocates a contiguous block of limbs. Each Alloc advances the
// offset; Reset releases everything at once. When the block is exhausted
// Alloc falls back to the heap. An Arena is not safe for concurrent use.
type Arena struct {
	buf    []limbs.Limb
	offset int
}

// New returns an arena of words limbs.
func New(words int) *Arena {
	if words <= 0 {
		return &Arena{}
	}
	return &Arena{buf: make([]limbs.Limb, words)}
}

// ForProduct returns an arena sized for repeated multiplication checks of
// n×m limbs: two operands, two products and scratch limbs of scratch.
func ForProduct(n, m, scratch int) *Arena {
	return New(2*(n+m) + n + m + scratch)
}

// Alloc returns a zeroed vector of n limbs whose capacity is exactly n, so
// appending to it never overwrites a later allocation.
func (a *Arena) Alloc(n int) []limbs.Limb {
	if n <= 0 {
		return nil
	}
	if a.offset+n > len(a.buf) {
		return make([]limbs.Limb, n)
	}
	s := a.buf[a.offset : a.offset+n : a.offset+n]
	a.offset += n
	clear(s)
	return s
}

// Reset makes the whole block available again. Vectors returned before the
// reset must no longer be used.
func (a *Arena) Reset() {
	a.offset = 0
}

// UsedWords returns the number of limbs currently allocated from the block.
func (a *Arena) UsedWords() int {
	return a.offset
}

// CapacityWords returns the size of the block in limbs.
func (a *Arena) CapacityWords() int {
	return len(a.buf)
}
