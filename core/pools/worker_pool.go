package pools

import (
	"net"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// ConnHandler processes one accepted connection to completion. The handler
// owns the connection for its whole lifetime, including closing it.
type ConnHandler func(net.Conn)

// WorkerPool owns a fixed number of long-lived workers draining a single
// unbounded ingress queue of accepted connections. Each connection is handled
// by exactly one worker, exactly once.
type WorkerPool struct {
	handler    ConnHandler
	numWorkers int

	mu      sync.Mutex
	cond    *sync.Cond
	backlog []net.Conn
	closed  bool

	wg sync.WaitGroup

	// Statistics
	stats struct {
		queued    atomic.Uint64
		completed atomic.Uint64
		panics    atomic.Uint64
	}
}

// NewWorkerPool starts n workers feeding connections to handler. A pool size
// below 1 is a configuration error and panics: setup failures fail fast,
// before any client traffic.
func NewWorkerPool(n int, handler ConnHandler) *WorkerPool {
	if n < 1 {
		panic("pools: worker pool size must be at least 1")
	}
	if handler == nil {
		panic("pools: worker pool needs a connection handler")
	}

	p := &WorkerPool{
		handler:    handler,
		numWorkers: n,
	}
	p.cond = sync.NewCond(&p.mu)

	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	return p
}

// Execute enqueues conn and returns immediately. The queue is unbounded:
// enqueue always succeeds, and a backlog growing faster than the workers
// drain it is a documented resource risk, not an error.
func (p *WorkerPool) Execute(conn net.Conn) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		conn.Close()
		return
	}
	p.backlog = append(p.backlog, conn)
	// Counted before the workers can see the connection, so queued never
	// trails completed.
	p.stats.queued.Add(1)
	p.mu.Unlock()

	p.cond.Signal()
}

// worker is the loop run by each pool goroutine: block until a connection is
// queued, dequeue it, serve it, repeat.
func (p *WorkerPool) worker() {
	defer p.wg.Done()

	for {
		p.mu.Lock()
		for len(p.backlog) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.backlog) == 0 {
			// Closed and drained.
			p.mu.Unlock()
			return
		}
		conn := p.backlog[0]
		p.backlog[0] = nil
		p.backlog = p.backlog[1:]
		p.mu.Unlock()

		p.serve(conn)
	}
}

// serve runs the handler inside the worker's recovery boundary: a panicking
// request is logged and the worker moves on to the next connection. The pool
// never dies from a single request.
func (p *WorkerPool) serve(conn net.Conn) {
	defer p.stats.completed.Add(1)
	defer func() {
		if err := recover(); err != nil {
			p.stats.panics.Add(1)
			log.Error().Msgf("panic recovered: %v", err)
			conn.Close()
		}
	}()

	p.handler(conn)
}

// Close marks the pool closed, lets the workers drain the backlog, and waits
// for them to exit. The serving path never calls it (shutdown is out of
// scope); tests and embedding programs use it to reclaim the workers.
// Connections enqueued after Close are closed unhandled.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	p.cond.Broadcast()
	p.wg.Wait()
}

// WorkerPoolStats is a point-in-time snapshot of the pool counters.
type WorkerPoolStats struct {
	NumWorkers int    `json:"num_workers"`
	Queued     uint64 `json:"queued"`
	Completed  uint64 `json:"completed"`
	Pending    uint64 `json:"pending"`
	Panics     uint64 `json:"panics"`
}

// Stats returns a snapshot of the pool counters.
func (p *WorkerPool) Stats() WorkerPoolStats {
	queued := p.stats.queued.Load()
	completed := p.stats.completed.Load()

	return WorkerPoolStats{
		NumWorkers: p.numWorkers,
		Queued:     queued,
		Completed:  completed,
		Pending:    queued - completed,
		Panics:     p.stats.panics.Load(),
	}
}
