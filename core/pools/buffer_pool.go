package pools

import (
	"sync"
	"sync/atomic"
)

// Buffer tiers for serialized responses
const (
	SmallBufferSize  = 2 * 1024  // 2KB for status-only and short bodies
	MediumBufferSize = 8 * 1024  // 8KB for typical HTML and JSON
	LargeBufferSize  = 64 * 1024 // 64KB for static file payloads
)

// BufferPool hands out byte buffers in capacity tiers so serializing a
// response does not allocate on the hot path.
type BufferPool struct {
	tiers [3]bufferTier

	oversize atomic.Uint64
	gets     atomic.Uint64
}

type bufferTier struct {
	size int
	pool sync.Pool
	hits atomic.Uint64
}

// NewBufferPool creates a pool with the three standard tiers.
func NewBufferPool() *BufferPool {
	bp := &BufferPool{}
	for i, size := range [...]int{SmallBufferSize, MediumBufferSize, LargeBufferSize} {
		size := size
		bp.tiers[i].size = size
		bp.tiers[i].pool.New = func() any {
			buf := make([]byte, 0, size)
			return &buf
		}
	}
	return bp
}

// Get acquires a buffer whose capacity covers estimatedSize. Requests larger
// than the largest tier are served as exact-size one-offs and left to the GC
// on release.
func (bp *BufferPool) Get(estimatedSize int) *[]byte {
	bp.gets.Add(1)

	for i := range bp.tiers {
		t := &bp.tiers[i]
		if estimatedSize <= t.size {
			t.hits.Add(1)
			return t.pool.Get().(*[]byte)
		}
	}

	bp.oversize.Add(1)
	buf := make([]byte, 0, estimatedSize)
	return &buf
}

// Put returns a buffer to the tier matching its capacity. Buffers that grew
// past the largest tier are dropped.
func (bp *BufferPool) Put(buf *[]byte) {
	if buf == nil {
		return
	}

	// Reset length, keep capacity.
	*buf = (*buf)[:0]

	c := cap(*buf)
	for i := range bp.tiers {
		t := &bp.tiers[i]
		if c <= t.size {
			t.pool.Put(buf)
			return
		}
	}
}

// Stats returns a snapshot of the pool counters.
func (bp *BufferPool) Stats() BufferStats {
	total := bp.gets.Load()
	oversize := bp.oversize.Load()

	hitRate := 0.0
	if total > 0 {
		hitRate = float64(total-oversize) / float64(total)
	}

	return BufferStats{
		SmallHits:  bp.tiers[0].hits.Load(),
		MediumHits: bp.tiers[1].hits.Load(),
		LargeHits:  bp.tiers[2].hits.Load(),
		Oversize:   oversize,
		TotalGets:  total,
		HitRate:    hitRate,
	}
}

// BufferStats contains buffer pool statistics.
type BufferStats struct {
	SmallHits  uint64  `json:"small_hits"`
	MediumHits uint64  `json:"medium_hits"`
	LargeHits  uint64  `json:"large_hits"`
	Oversize   uint64  `json:"oversize"`
	TotalGets  uint64  `json:"total_gets"`
	HitRate    float64 `json:"hit_rate"`
}

// Global buffer pool shared by the serialization path.
var globalBufferPool = NewBufferPool()

// AcquireBuffer gets a buffer from the global pool.
func AcquireBuffer(estimatedSize int) *[]byte {
	return globalBufferPool.Get(estimatedSize)
}

// ReleaseBuffer returns a buffer to the global pool.
func ReleaseBuffer(buf *[]byte) {
	globalBufferPool.Put(buf)
}

// GetBufferStats returns statistics for the global buffer pool.
func GetBufferStats() BufferStats {
	return globalBufferPool.Stats()
}
