package metrics

import "runtime"

// MemorySnapshot is a point-in-time reading of the Go runtime's memory.
type MemorySnapshot struct {
	HeapAlloc   uint64 // bytes of live heap objects
	HeapSys     uint64 // heap bytes obtained from the OS
	Sys         uint64 // all bytes obtained from the OS
	NumGC       uint32
	HeapObjects uint64
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot stops the world briefly to read runtime.MemStats. The search
// metrics call it once per wave.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:   m.HeapAlloc,
		HeapSys:     m.HeapSys,
		Sys:         m.Sys,
		NumGC:       m.NumGC,
		HeapObjects: m.HeapObjects,
	}
}
