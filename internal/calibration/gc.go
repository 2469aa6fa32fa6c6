package calibration

import (
	"math"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/rs/zerolog"
)

// gcState counts the tuners currently timing. The collector settings are
// process-wide, so only the first Begin saves them and the last End restores
// them.
var gcState struct {
	sync.Mutex
	depth             int
	originalGCPercent int
	start             runtime.MemStats
}

// gcPause keeps the garbage collector out of the timing loops. Operands and
// scratch of a measurement are allocated before it is timed, so the heap
// barely grows while collection is off; a soft memory limit bounds it anyway.
type gcPause struct {
	logger zerolog.Logger
	active bool
}

func newGCPause(logger zerolog.Logger) *gcPause {
	return &gcPause{logger: logger}
}

// Begin collects once and disables the collector.
func (g *gcPause) Begin() {
	if g.active {
		return
	}
	g.active = true
	gcState.Lock()
	defer gcState.Unlock()
	gcState.depth++
	if gcState.depth > 1 {
		return
	}
	runtime.GC()
	runtime.ReadMemStats(&gcState.start)
	gcState.originalGCPercent = debug.SetGCPercent(-1)
	if gcState.start.Sys > 0 {
		debug.SetMemoryLimit(int64(gcState.start.Sys) * 3)
	}
	g.logger.Debug().Uint64("heap_alloc_bytes", gcState.start.HeapAlloc).Msg("gc disabled")
}

// End restores the collector settings and triggers a collection.
func (g *gcPause) End() {
	if !g.active {
		return
	}
	g.active = false
	gcState.Lock()
	defer gcState.Unlock()
	gcState.depth--
	if gcState.depth > 0 {
		return
	}
	var end runtime.MemStats
	runtime.ReadMemStats(&end)
	debug.SetGCPercent(gcState.originalGCPercent)
	debug.SetMemoryLimit(math.MaxInt64)
	runtime.GC()
	g.logger.Debug().
		Uint64("total_alloc_bytes", end.TotalAlloc-gcState.start.TotalAlloc).
		Uint32("gc_cycles", end.NumGC-gcState.start.NumGC).
		Msg("gc re-enabled")
}
