package core

import (
	"github.com/searchktools/pool-server/core/http"
	"github.com/searchktools/pool-server/core/middleware"
	"github.com/searchktools/pool-server/core/router"
)

// Dispatcher turns a parsed request into the response to serialize. It holds
// immutable snapshots of the route table and middleware chain taken at bind
// time, so Dispatch is safe from every worker without locking.
type Dispatcher struct {
	routes router.Table
	chain  middleware.Chain
}

// NewDispatcher snapshots the registration state. The chain is sorted here,
// once, by ascending prefix length.
func NewDispatcher(routes *router.Table, chain *middleware.Chain) *Dispatcher {
	return &Dispatcher{
		routes: routes.Clone(),
		chain:  chain.Sorted(),
	}
}

// Dispatch runs the middleware chain and then the matched route handler.
// Every request starts from a fresh default response, 404 with an empty
// body. A middleware returning false ends the request with the response as
// it stands; an unmatched URL ends it with whatever the middleware left in
// the response.
func (d *Dispatcher) Dispatch(req http.Request) http.Response {
	res := http.NewResponse()

	req, res, cont := d.chain.Run(req, res)
	if !cont {
		return res
	}

	if handler, ok := d.routes.Lookup(req.URL); ok {
		return handler(req, res)
	}
	return res
}
