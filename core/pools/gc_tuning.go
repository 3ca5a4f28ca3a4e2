package pools

import (
	"runtime"
	"runtime/debug"
	"time"
)

// GCConfig holds garbage collector tuning knobs.
type GCConfig struct {
	// GOGC is the collection target percentage. Higher means less
	// frequent collection and more retained heap.
	GOGC int

	// MemoryLimit is the soft heap limit in bytes. 0 leaves it unset.
	MemoryLimit int64
}

// DefaultGCConfig returns settings suited to a server that recycles its
// buffers: steady-state allocation is low, so collections can run less often.
func DefaultGCConfig() GCConfig {
	return GCConfig{
		GOGC:        200,
		MemoryLimit: 0,
	}
}

// ApplyGCConfig applies cfg to the runtime.
func ApplyGCConfig(cfg GCConfig) {
	if cfg.GOGC > 0 {
		debug.SetGCPercent(cfg.GOGC)
	}
	if cfg.MemoryLimit > 0 {
		debug.SetMemoryLimit(cfg.MemoryLimit)
	}
}

// OptimizeForHighThroughput trades heap headroom for fewer collections.
func OptimizeForHighThroughput() {
	ApplyGCConfig(GCConfig{GOGC: 300})
}

// GCStats holds garbage collection statistics.
type GCStats struct {
	NumGC        uint32        `json:"num_gc"`
	PauseTotal   time.Duration `json:"pause_total_ns"`
	LastPause    time.Duration `json:"last_pause_ns"`
	AvgPause     time.Duration `json:"avg_pause_ns"`
	AllocBytes   uint64        `json:"alloc_bytes"`
	TotalAlloc   uint64        `json:"total_alloc_bytes"`
	Sys          uint64        `json:"sys_bytes"`
	NumGoroutine int           `json:"num_goroutine"`
}

// GetGCStats reads current memory and collection statistics from the runtime.
func GetGCStats() GCStats {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	stats := GCStats{
		NumGC:        ms.NumGC,
		AllocBytes:   ms.Alloc,
		TotalAlloc:   ms.TotalAlloc,
		Sys:          ms.Sys,
		NumGoroutine: runtime.NumGoroutine(),
	}

	if ms.NumGC > 0 {
		stats.LastPause = time.Duration(ms.PauseNs[(ms.NumGC+255)%256])

		// PauseNs is a ring of the last 256 pauses.
		numPauses := ms.NumGC
		if numPauses > 256 {
			numPauses = 256
		}

		var totalPause uint64
		for i := uint32(0); i < numPauses; i++ {
			totalPause += ms.PauseNs[i]
		}

		stats.PauseTotal = time.Duration(totalPause)
		stats.AvgPause = time.Duration(totalPause / uint64(numPauses))
	}

	return stats
}
