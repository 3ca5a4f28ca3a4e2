// Package static mounts files from disk as routes.
package static

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/searchktools/pool-server/core/http"
	"github.com/searchktools/pool-server/core/router"
)

// FileHandler returns a route handler serving the file at path. The file is
// read per request, so edits on disk show up without re-registration. Only
// GET requests are served; any other method leaves the response untouched.
func FileHandler(path string) router.Handler {
	contentType := ContentType(path)

	return func(req http.Request, res http.Response) http.Response {
		if req.Method != "GET" {
			return res
		}

		data, err := os.ReadFile(path)
		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("static file read failed")
			res.SetStatus(500)
			return res
		}

		res.SetStatus(200)
		res.SetHeader("content-type", contentType)
		res.SetBody(data)
		return res
	}
}

// Register mounts a single file. The route is the slash-rooted file path:
// Register(tbl, "pages/about.html") serves at /pages/about.html.
func Register(tbl *router.Table, path string) {
	route := "/" + strings.TrimPrefix(filepath.ToSlash(path), "/")
	tbl.Add(route, FileHandler(path))
}

// RegisterDir mounts every regular file under dir. Routes are rooted at "/"
// relative to dir, so dir/css/site.css is served at /css/site.css.
func RegisterDir(tbl *router.Table, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		tbl.Add("/"+filepath.ToSlash(rel), FileHandler(p))
		return nil
	})
}
