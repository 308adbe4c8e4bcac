// Package metrics reads runtime memory statistics for the benchmark and the
// status displays.
package metrics

import "runtime"

// MemorySnapshot holds a point-in-time memory reading.
type MemorySnapshot struct {
	HeapAlloc    uint64 // bytes in use by application
	HeapSys      uint64 // bytes obtained from OS for heap
	Sys          uint64 // total bytes obtained from OS
	NumGC        uint32 // number of completed GC cycles
	PauseTotalNs uint64 // cumulative GC pause time
	HeapObjects  uint64 // number of allocated heap objects
	Mallocs      uint64 // cumulative count of heap allocations
	TotalAlloc   uint64 // cumulative bytes allocated
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
		HeapObjects:  m.HeapObjects,
		Mallocs:      m.Mallocs,
		TotalAlloc:   m.TotalAlloc,
	}
}

// AllocDelta is the allocation activity between two snapshots.
type AllocDelta struct {
	Allocs uint64
	Bytes  uint64
	GCs    uint32
}

// Since returns the allocations performed between before and s.
func (s MemorySnapshot) Since(before MemorySnapshot) AllocDelta {
	return AllocDelta{
		Allocs: s.Mallocs - before.Mallocs,
		Bytes:  s.TotalAlloc - before.TotalAlloc,
		GCs:    s.NumGC - before.NumGC,
	}
}

// PerOp divides the delta by n operations.
func (d AllocDelta) PerOp(n int) (allocs, bytes float64) {
	if n <= 0 {
		return 0, 0
	}
	return float64(d.Allocs) / float64(n), float64(d.Bytes) / float64(n)
}
