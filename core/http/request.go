package http

import (
	"strconv"
	"strings"
)

// Request is a parsed HTTP/1.1 request. It is immutable once parsed;
// middleware and handlers receive value copies and may mutate their own copy
// as it flows downstream.
type Request struct {
	Method string

	// URL is the path component of the request target, normalized: never
	// empty, always begins with '/', no trailing slash except the root path.
	URL string

	// Headers holds the header fields with keys exactly as received. Lookups
	// are case-sensitive: a client sending "content-type" is not visible
	// under "Content-Type". Documented limitation of this engine.
	Headers map[string]string

	// Params holds the URL-decoded query parameters. A key sent without '='
	// maps to the empty string; keys not sent are absent, not empty.
	Params map[string]string

	// Body is the raw request body, empty unless Content-Length said
	// otherwise.
	Body []byte
}

// Header returns the header value for key, matching the key case-sensitively.
func (r Request) Header(key string) string {
	return r.Headers[key]
}

// Param returns the query parameter for key, or "" when absent.
func (r Request) Param(key string) string {
	return r.Params[key]
}

// HasParam reports whether key appeared in the query string.
func (r Request) HasParam(key string) bool {
	_, ok := r.Params[key]
	return ok
}

// MissingParam returns the first of keys that did not appear in the query
// string, with true when such a key exists. Handlers use it as a required-
// parameter gate.
func (r Request) MissingParam(keys ...string) (string, bool) {
	for _, k := range keys {
		if _, ok := r.Params[k]; !ok {
			return k, true
		}
	}
	return "", false
}

// ContentLength returns the body length declared by the headers. Unlike
// Header, the name matches case-insensitively, since this is what frames the
// body on the wire. Missing, malformed, or negative values mean no body.
func (r Request) ContentLength() int {
	for k, v := range r.Headers {
		if strings.EqualFold(k, "Content-Length") {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return 0
			}
			return n
		}
	}
	return 0
}
