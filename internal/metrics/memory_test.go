package metrics

import "testing"

var sink []byte

func TestMemoryCollector_Snapshot(t *testing.T) {
	t.Parallel()

	mc := NewMemoryCollector()
	snap := mc.Snapshot()

	if snap.HeapAlloc == 0 {
		t.Error("HeapAlloc should be > 0")
	}
	if snap.Sys == 0 {
		t.Error("Sys should be > 0")
	}
}

func TestMemoryCollector_Delta(t *testing.T) {
	t.Parallel()

	mc := NewMemoryCollector()
	before := mc.Snapshot()

	sink = make([]byte, 1024*1024)

	after := mc.Snapshot()

	if after.Sys < before.Sys {
		t.Error("Sys should not decrease between snapshots")
	}
	delta := after.Since(before)
	if delta.AllocatedBytes < 1024*1024 {
		t.Errorf("AllocatedBytes = %d, want at least 1 MiB", delta.AllocatedBytes)
	}
	if delta.Allocations == 0 {
		t.Error("Allocations should count the buffer")
	}
}
