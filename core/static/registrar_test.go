package static

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/searchktools/pool-server/core/http"
	"github.com/searchktools/pool-server/core/router"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestContentType(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"index.html", "text/html"},
		{"page.HTM", "text/html"},
		{"site.css", "text/css"},
		{"app.js", "application/javascript"},
		{"data.json", "application/json"},
		{"logo.png", "image/png"},
		{"photo.jpeg", "image/jpeg"},
		{"favicon.ico", "image/x-icon"},
		{"notes.txt", "text/plain"},
		{"blob.bin", "application/octet-stream"},
		{"noext", "application/octet-stream"},
	}
	for _, c := range cases {
		if got := ContentType(c.name); got != c.want {
			t.Errorf("ContentType(%q) = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestFileHandlerServesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	writeFile(t, path, "<h1>hi</h1>")

	h := FileHandler(path)
	res := h(http.Request{Method: "GET", URL: "/index.html"}, http.NewResponse())

	if res.Status != 200 {
		t.Fatalf("status = %d, want 200", res.Status)
	}
	if ct, ok := res.Header("content-type"); !ok || ct != "text/html" {
		t.Errorf("content-type = %q (present=%v), want text/html", ct, ok)
	}
	if string(res.Body) != "<h1>hi</h1>" {
		t.Errorf("body = %q", res.Body)
	}
}

func TestFileHandlerIgnoresNonGET(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	writeFile(t, path, "<h1>hi</h1>")

	h := FileHandler(path)
	res := h(http.Request{Method: "POST", URL: "/index.html"}, http.NewResponse())

	if res.Status != 404 {
		t.Errorf("status = %d, want untouched default 404", res.Status)
	}
	if _, ok := res.Header("content-type"); ok {
		t.Error("expected no content-type on untouched response")
	}
	if len(res.Body) != 0 {
		t.Errorf("body = %q, want empty", res.Body)
	}
}

func TestFileHandlerReadError(t *testing.T) {
	old := log.Logger
	log.Logger = zerolog.New(io.Discard)
	defer func() { log.Logger = old }()

	path := filepath.Join(t.TempDir(), "gone.html")
	writeFile(t, path, "soon deleted")
	h := FileHandler(path)
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}

	res := h(http.Request{Method: "GET", URL: "/gone.html"}, http.NewResponse())
	if res.Status != 500 {
		t.Errorf("status = %d, want 500", res.Status)
	}
}

func TestRegister(t *testing.T) {
	path := filepath.Join(t.TempDir(), "about.html")
	writeFile(t, path, "<p>about</p>")

	tbl := router.NewTable()
	Register(tbl, path)

	route := "/" + strings.TrimPrefix(filepath.ToSlash(path), "/")
	h, ok := tbl.Lookup(route)
	if !ok {
		t.Fatalf("route %q not registered", route)
	}

	res := h(http.Request{Method: "GET", URL: route}, http.NewResponse())
	if res.Status != 200 || string(res.Body) != "<p>about</p>" {
		t.Errorf("got status %d body %q", res.Status, res.Body)
	}
}

func TestRegisterDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.html"), "<h1>home</h1>")
	writeFile(t, filepath.Join(dir, "css", "site.css"), "body{}")
	writeFile(t, filepath.Join(dir, "notes.txt"), "plain")

	tbl := router.NewTable()
	if err := RegisterDir(tbl, dir); err != nil {
		t.Fatalf("RegisterDir: %v", err)
	}

	if tbl.Len() != 3 {
		t.Errorf("registered %d routes, want 3", tbl.Len())
	}

	cases := []struct {
		route string
		ct    string
		body  string
	}{
		{"/index.html", "text/html", "<h1>home</h1>"},
		{"/css/site.css", "text/css", "body{}"},
		{"/notes.txt", "text/plain", "plain"},
	}
	for _, c := range cases {
		h, ok := tbl.Lookup(c.route)
		if !ok {
			t.Errorf("route %q not registered", c.route)
			continue
		}
		res := h(http.Request{Method: "GET", URL: c.route}, http.NewResponse())
		if res.Status != 200 {
			t.Errorf("%s: status = %d", c.route, res.Status)
		}
		if ct, _ := res.Header("content-type"); ct != c.ct {
			t.Errorf("%s: content-type = %q, want %q", c.route, ct, c.ct)
		}
		if string(res.Body) != c.body {
			t.Errorf("%s: body = %q", c.route, res.Body)
		}
	}

	// Directories themselves are not routes.
	if _, ok := tbl.Lookup("/css"); ok {
		t.Error("directory /css should not be registered")
	}
}

func TestRegisterDirMissing(t *testing.T) {
	tbl := router.NewTable()
	if err := RegisterDir(tbl, filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
