package http

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/searchktools/pool-server/core/pools"
)

// headerField is a single response header. Responses keep their fields in a
// slice, not a map, so serialization emits them in insertion order.
type headerField struct {
	name  string
	value string
}

// Response is the mutable response builder threaded through the middleware
// chain and the route handler. Its default state (status 404, no headers,
// no body) is also the fallback written when no route matches.
type Response struct {
	Status int
	Body   []byte

	headers []headerField
}

// NewResponse returns a Response in its default 404 state.
func NewResponse() Response {
	return Response{Status: 404}
}

// WithStatus returns a copy of the response with the given status code.
func (r Response) WithStatus(code int) Response {
	r.Status = code
	return r
}

// SetStatus sets the HTTP status code.
func (r *Response) SetStatus(code int) {
	r.Status = code
}

// SetHeader sets a header field. A field with the same name (exact match)
// keeps its position and gets the new value; a new name is appended.
func (r *Response) SetHeader(name, value string) {
	for i := range r.headers {
		if r.headers[i].name == name {
			r.headers[i].value = value
			return
		}
	}
	r.headers = append(r.headers, headerField{name, value})
}

// Header returns the named header field and whether it has been set.
func (r Response) Header(name string) (string, bool) {
	for _, f := range r.headers {
		if f.name == name {
			return f.value, true
		}
	}
	return "", false
}

// SetBody sets the raw response body.
func (r *Response) SetBody(b []byte) {
	r.Body = b
}

// SetString sets the response body from a string.
func (r *Response) SetString(s string) {
	r.Body = []byte(s)
}

// SetJSON marshals v into the body and sets content-type accordingly.
func (r *Response) SetJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	r.Body = data
	r.SetHeader("content-type", "application/json")
	return nil
}

// AppendResponse appends the wire form of res to dst and returns the extended
// slice: status line, header fields in insertion order, an automatic
// Content-Length when the handler set none, a blank line, then the body.
func AppendResponse(dst []byte, res Response) []byte {
	dst = append(dst, "HTTP/1.1 "...)
	dst = appendInt(dst, res.Status)
	dst = append(dst, ' ')
	dst = append(dst, statusText(res.Status)...)
	dst = append(dst, '\r', '\n')

	hasLength := false
	for _, f := range res.headers {
		dst = append(dst, f.name...)
		dst = append(dst, ':', ' ')
		dst = append(dst, f.value...)
		dst = append(dst, '\r', '\n')
		if strings.EqualFold(f.name, "Content-Length") {
			hasLength = true
		}
	}
	if !hasLength {
		dst = append(dst, "Content-Length: "...)
		dst = appendInt(dst, len(res.Body))
		dst = append(dst, '\r', '\n')
	}

	dst = append(dst, '\r', '\n')
	return append(dst, res.Body...)
}

// EncodeResponse returns the wire bytes for res.
func EncodeResponse(res Response) []byte {
	return AppendResponse(make([]byte, 0, len(res.Body)+128), res)
}

// WriteResponse serializes res through a pooled buffer and writes it to w in
// a single call.
func WriteResponse(w io.Writer, res Response) error {
	buf := pools.AcquireBuffer(len(res.Body) + 256)
	defer pools.ReleaseBuffer(buf)

	*buf = AppendResponse((*buf)[:0], res)
	_, err := w.Write(*buf)
	return err
}

// appendInt appends the decimal form of i to b.
func appendInt(b []byte, i int) []byte {
	if i == 0 {
		return append(b, '0')
	}

	if i < 0 {
		b = append(b, '-')
		i = -i
	}

	var digits [20]byte
	n := 0
	for i > 0 {
		digits[n] = byte('0' + i%10)
		i /= 10
		n++
	}

	for n > 0 {
		n--
		b = append(b, digits[n])
	}

	return b
}

// statusText returns the HTTP reason phrase for the given status code.
func statusText(code int) string {
	switch code {
	case 200:
		return "OK"
	case 201:
		return "Created"
	case 301:
		return "Moved Permanently"
	case 400:
		return "Bad Request"
	case 404:
		return "Not Found"
	case 500:
		return "Internal Server Error"
	default:
		return "Unknown"
	}
}
