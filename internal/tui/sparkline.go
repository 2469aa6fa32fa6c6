package tui

// sparkBlocks are the eight heights of a sparkline cell.
var sparkBlocks = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// History keeps the most recent percentage samples of a load series.
type History struct {
	data  []float64
	next  int
	count int
}

// NewHistory returns a history holding up to size samples.
func NewHistory(size int) *History {
	return &History{data: make([]float64, max(size, 1))}
}

// Add records v, dropping the oldest sample when full.
func (h *History) Add(v float64) {
	h.data[h.next] = v
	h.next = (h.next + 1) % len(h.data)
	h.count = min(h.count+1, len(h.data))
}

// Len returns the number of samples held.
func (h *History) Len() int { return h.count }

// Last returns the newest sample, or 0 when empty.
func (h *History) Last() float64 {
	if h.count == 0 {
		return 0
	}
	return h.data[(h.next+len(h.data)-1)%len(h.data)]
}

// Values returns the samples oldest first.
func (h *History) Values() []float64 {
	out := make([]float64, h.count)
	start := h.next - h.count + len(h.data)
	for i := range out {
		out[i] = h.data[(start+i)%len(h.data)]
	}
	return out
}

// Reset drops all samples.
func (h *History) Reset() {
	h.next, h.count = 0, 0
}

// Sparkline renders percentages in [0, 100] as block characters. Values out
// of range are clamped.
func Sparkline(values []float64) string {
	runes := make([]rune, len(values))
	for i, v := range values {
		v = min(max(v, 0), 100)
		runes[i] = sparkBlocks[min(int(v/100*8), 7)]
	}
	return string(runes)
}
