package core

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/searchktools/pool-server/core/http"
	"github.com/searchktools/pool-server/core/middleware"
	"github.com/searchktools/pool-server/core/observability"
	"github.com/searchktools/pool-server/core/pools"
	"github.com/searchktools/pool-server/core/router"
	"github.com/searchktools/pool-server/core/static"
)

// Server wires the accept loop, the worker pool, and the request pipeline.
// Registration methods run on the setup goroutine only; Bind snapshots the
// tables, and from then on they are immutable.
type Server struct {
	workers int
	routes  *router.Table
	chain   *middleware.Chain
	monitor *observability.Monitor

	mu   sync.Mutex
	pool *pools.WorkerPool
}

// New returns a server backed by a pool of n workers and no routes. A worker
// count below 1 is a configuration error and panics.
func New(workers int) *Server {
	if workers < 1 {
		panic("core: server needs at least one worker")
	}
	return &Server{
		workers: workers,
		routes:  router.NewTable(),
		chain:   middleware.NewChain(),
		monitor: observability.NewMonitor(),
	}
}

// Route registers handler for the exact normalized path.
func (s *Server) Route(path string, handler router.Handler) {
	s.routes.Add(path, handler)
}

// Use registers middleware for every URL starting with prefix. Middleware
// runs before the route handler, broadest prefix first.
func (s *Server) Use(prefix string, fn middleware.Func) {
	s.chain.Add(prefix, fn)
}

// RouteFile serves the file at path under its slash-rooted route.
func (s *Server) RouteFile(path string) {
	static.Register(s.routes, path)
}

// Public mounts every file under dir, routes rooted at "/".
func (s *Server) Public(dir string) error {
	return static.RegisterDir(s.routes, dir)
}

// Bind listens on addr and serves until the listener fails. It returns a
// descriptive error when the address cannot be bound; otherwise it blocks.
func (s *Server) Bind(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind to %s: %w", addr, err)
	}

	log.Info().Msgf("🚀 Server listening on http://%s", addr)
	return s.Serve(ln)
}

// Serve accepts connections from ln and hands each one to the worker pool.
// The route table and middleware chain are snapshotted once, here. Serve
// returns ErrServerClosed after ln is closed, once the workers drain.
func (s *Server) Serve(ln net.Listener) error {
	d := NewDispatcher(s.routes, s.chain)
	pool := pools.NewWorkerPool(s.workers, func(conn net.Conn) {
		s.serveConn(conn, d)
	})
	defer pool.Close()

	s.mu.Lock()
	s.pool = pool
	s.mu.Unlock()

	log.Info().Msgf("📊 %d workers, %d routes, %d middleware entries", s.workers, s.routes.Len(), s.chain.Len())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return ErrServerClosed
			}
			log.Error().Err(err).Msg("accept failed")
			continue
		}
		pool.Execute(conn)
	}
}

// readerPool recycles the per-connection buffered readers.
var readerPool = sync.Pool{
	New: func() any {
		return bufio.NewReaderSize(nil, readBufferSize)
	},
}

// serveConn runs one connection through the pipeline: parse, dispatch,
// serialize, close. Keep-alive is out of scope, so every connection carries
// exactly one request.
func (s *Server) serveConn(conn net.Conn, d *Dispatcher) {
	defer conn.Close()

	br := readerPool.Get().(*bufio.Reader)
	br.Reset(conn)
	defer readerPool.Put(br)

	start := time.Now()

	req, err := http.ReadRequest(br)
	if err != nil {
		log.Error().Err(err).Msg("request parse failed")
		res := http.NewResponse()
		res.SetStatus(500)
		if werr := http.WriteResponse(conn, res); werr != nil {
			log.Error().Err(werr).Msg("response write failed")
		}
		s.monitor.RecordRequest("malformed", time.Since(start), true)
		return
	}

	res := d.Dispatch(req)

	if err := http.WriteResponse(conn, res); err != nil {
		log.Error().Err(err).Msg("response write failed")
	}

	s.monitor.RecordRequest(req.Method+" "+req.URL, time.Since(start), res.Status >= 500)
}

// Stats assembles a point-in-time snapshot across the worker pool, the
// buffer pool, the GC, and the per-route request monitor.
func (s *Server) Stats() ServerStats {
	s.mu.Lock()
	pool := s.pool
	s.mu.Unlock()

	stats := ServerStats{
		Buffers:  pools.GetBufferStats(),
		GC:       pools.GetGCStats(),
		Requests: s.monitor.Snapshot(),
	}
	if pool != nil {
		stats.Workers = pool.Stats()
	} else {
		stats.Workers = pools.WorkerPoolStats{NumWorkers: s.workers}
	}
	return stats
}
