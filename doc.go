/*
Package pool-server provides a small, predictable HTTP/1.1 server built on a
fixed worker pool.

Pool-Server trades protocol breadth for a transparent execution model: one
TCP listener feeds an unbounded queue drained by a fixed number of workers,
and every connection carries exactly one request. There is no keep-alive, no
TLS, and routing is exact-match, which keeps the whole request path easy to
reason about under load.

Features

  - Fixed worker pool: N long-lived workers over one unbounded ingress queue
  - Exact-match routing with warn-and-replace duplicate handling
  - Prefix-matched middleware, broadest prefix first, with early termination
  - Static file mounts: single files or whole directory trees
  - Pooled buffers on the serialization path with GC tuning profiles
  - Observability: per-route counters, latency buckets, JSON stats snapshot
  - Panic isolation: a crashing handler costs one connection, never a worker

Quick Start

Basic usage example:

package main

import (
    "github.com/searchktools/pool-server/app"
    "github.com/searchktools/pool-server/config"
    "github.com/searchktools/pool-server/core/http"
)

func main() {
    cfg := config.New()
    application := app.New(cfg)

    srv := application.Server()
    srv.Route("/hello", func(req http.Request, res http.Response) http.Response {
        res.SetStatus(200)
        res.SetString("Hello, World!")
        return res
    })

    srv.Route("/json", func(req http.Request, res http.Response) http.Response {
        res.SetStatus(200)
        res.SetJSON(map[string]string{
            "message": "Pool Server",
            "status":  "running",
        })
        return res
    })

    application.Run()
}

Modules

The framework is organized into several modules:

  - app: Application lifecycle management
  - config: Configuration loading from flags and environment
  - core: Accept loop, dispatcher, and stats aggregation
  - core/http: Request parsing and response serialization
  - core/router: Exact-match route table
  - core/middleware: Prefix-matched middleware chain
  - core/pools: Worker pool, buffer pool, GC tuning
  - core/static: Static file mounts
  - core/observability: Per-route request metrics

Concurrency Model

Registration happens on the setup goroutine before Bind. Bind snapshots the
route table and middleware chain; workers only ever read those snapshots, so
the serving path takes no registration locks. The ingress queue is unbounded:
accepting never blocks and never drops, and backlog growth under overload is
the documented trade-off.

For more information, see https://github.com/searchktools/pool-server
*/
package poolserver
