package mul

import "github.com/agbru/natcalc/internal/limbs"

// mulUnbalanced multiplies n >= m limbs by cutting xs into chunks of m limbs
// and accumulating each balanced chunk product at its offset.
func (mu *Multiplier) mulUnbalanced(out, xs, ys, scratch []Limb) {
	n, m := len(xs), len(ys)
	tmp := scratch[:2*m]
	sub := scratch[2*m:]

	mu.mulScratch(out[:2*m], xs[:m], ys, sub)
	for off := m; off < n; off += m {
		chunk := xs[off:min(off+m, n)]
		p := tmp[:len(chunk)+m]
		mu.mulScratch(p, chunk, ys, sub)
		// out[off:off+m] holds the high half of the previous product.
		clear(out[off+m : off+len(chunk)+m])
		if limbs.AddInPlace(out[off:off+len(chunk)+m], p) != 0 {
			overflow("unbalanced")
		}
	}
}

func (mu *Multiplier) unbalancedScratchLen(n, m int) int {
	sub := mu.scratchLen(m, m)
	if r := n % m; r != 0 {
		sub = max(sub, mu.scratchLen(m, r))
	}
	return 2*m + sub
}
