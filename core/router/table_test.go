package router

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/searchktools/pool-server/core/http"
)

func echoHandler(body string) Handler {
	return func(req http.Request, res http.Response) http.Response {
		res.SetStatus(200)
		res.SetString(body)
		return res
	}
}

func TestTableExactMatch(t *testing.T) {
	tbl := NewTable()
	tbl.Add("/a/b", echoHandler("ab"))

	tests := []struct {
		path  string
		found bool
	}{
		{"/a/b", true},
		{"/a/bc", false},
		{"/a", false},
		{"/a/b/c", false},
		{"/", false},
	}

	for _, tt := range tests {
		if _, ok := tbl.Lookup(tt.path); ok != tt.found {
			t.Errorf("Lookup(%q) = %v, want %v", tt.path, ok, tt.found)
		}
	}
}

func TestTableNormalizesRegistration(t *testing.T) {
	tbl := NewTable()
	tbl.Add("/example/", echoHandler("x"))

	if _, ok := tbl.Lookup("/example"); !ok {
		t.Error("Registration at /example/ should be reachable at /example")
	}

	if tbl.Len() != 1 {
		t.Errorf("Expected 1 route, got %d", tbl.Len())
	}
}

func TestTableDuplicateReplacesAndWarns(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = prev }()

	tbl := NewTable()
	tbl.Add("/dup", echoHandler("first"))
	tbl.Add("/dup/", echoHandler("second"))

	h, ok := tbl.Lookup("/dup")
	if !ok {
		t.Fatal("Route /dup not found")
	}

	res := h(http.Request{Method: "GET", URL: "/dup"}, http.NewResponse())
	if string(res.Body) != "second" {
		t.Errorf("Expected latest handler to win, got body %q", string(res.Body))
	}

	if !strings.Contains(buf.String(), "route defined twice") {
		t.Errorf("Expected duplicate-route warning, log was %q", buf.String())
	}
}

func TestTableCloneIsIndependent(t *testing.T) {
	tbl := NewTable()
	tbl.Add("/a", echoHandler("a"))

	snapshot := tbl.Clone()
	tbl.Add("/b", echoHandler("b"))

	if _, ok := snapshot.Lookup("/b"); ok {
		t.Error("Clone should not see registrations made after the snapshot")
	}

	if _, ok := snapshot.Lookup("/a"); !ok {
		t.Error("Clone lost an existing route")
	}
}

func BenchmarkTableLookup(b *testing.B) {
	tbl := NewTable()
	tbl.Add("/user", echoHandler("u"))
	tbl.Add("/post", echoHandler("p"))
	tbl.Add("/", echoHandler("root"))
	snapshot := tbl.Clone()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		snapshot.Lookup("/user")
	}
}
