package router

import (
	"github.com/rs/zerolog/log"

	"github.com/searchktools/pool-server/core/http"
)

// Handler is the function registered for an exact route path. It receives
// value copies of the request and the in-flight response and returns the
// final response.
type Handler func(http.Request, http.Response) http.Response

// Table is an exact-match route table keyed by normalized path. Registration
// happens on the setup goroutine only; workers share a read-only Clone taken
// at bind time, so lookups need no locking.
type Table struct {
	routes map[string]Handler
}

// NewTable returns an empty route table.
func NewTable() *Table {
	return &Table{routes: make(map[string]Handler)}
}

// Add registers handler under the normalized form of path, so "/example" and
// "/example/" are the same key. A duplicate registration logs a warning and
// keeps the latest handler.
func (t *Table) Add(path string, handler Handler) {
	key := http.NormalizePath(path)
	if _, exists := t.routes[key]; exists {
		log.Warn().Msgf("route defined twice (%s), using latest definition", path)
	}
	t.routes[key] = handler
}

// Lookup returns the handler registered for path. The path must already be
// normalized; request URLs are normalized at parse time.
func (t *Table) Lookup(path string) (Handler, bool) {
	h, ok := t.routes[path]
	return h, ok
}

// Len returns the number of registered routes.
func (t *Table) Len() int {
	return len(t.routes)
}

// Clone returns an independent snapshot of the table for concurrent
// read-only use after the server binds.
func (t *Table) Clone() Table {
	routes := make(map[string]Handler, len(t.routes))
	for k, v := range t.routes {
		routes[k] = v
	}
	return Table{routes: routes}
}
