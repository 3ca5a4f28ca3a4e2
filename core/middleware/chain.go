package middleware

import (
	"sort"
	"strings"

	"github.com/searchktools/pool-server/core/http"
)

// Func is a middleware function. It receives value copies of the request and
// the in-flight response and returns the values threaded into the next stage,
// plus a continue flag: false stops the chain immediately and the current
// response is written without the route handler running.
type Func func(http.Request, http.Response) (http.Request, http.Response, bool)

// entry pairs a normalized path prefix with its middleware function.
type entry struct {
	prefix string
	fn     Func
}

// Chain is the ordered middleware list. Registration happens on the setup
// goroutine only; at bind time workers share a Sorted snapshot.
type Chain struct {
	entries []entry
}

// NewChain returns an empty middleware chain.
func NewChain() *Chain {
	return &Chain{}
}

// Add registers fn for every request whose URL starts with prefix. The prefix
// is normalized like a route path. Matching is a plain string prefix test,
// not segment-aware: "/use" also matches "/user". Documented limitation.
func (c *Chain) Add(prefix string, fn Func) {
	c.entries = append(c.entries, entry{prefix: http.NormalizePath(prefix), fn: fn})
}

// Len returns the number of registered entries.
func (c *Chain) Len() int {
	return len(c.entries)
}

// Sorted returns a snapshot of the chain stably sorted by ascending prefix
// length: broader middleware runs before narrower middleware, and insertion
// order breaks ties.
func (c *Chain) Sorted() Chain {
	entries := make([]entry, len(c.entries))
	copy(entries, c.entries)
	sort.SliceStable(entries, func(i, j int) bool {
		return len(entries[i].prefix) < len(entries[j].prefix)
	})
	return Chain{entries: entries}
}

// Run threads req and res through every entry whose prefix matches req.URL,
// in chain order. It stops at the first middleware returning false; the
// boolean result reports whether the route handler should still run.
func (c *Chain) Run(req http.Request, res http.Response) (http.Request, http.Response, bool) {
	for _, e := range c.entries {
		if !strings.HasPrefix(req.URL, e.prefix) {
			continue
		}

		var cont bool
		req, res, cont = e.fn(req, res)
		if !cont {
			return req, res, false
		}
	}
	return req, res, true
}
