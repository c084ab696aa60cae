// Package handlers contains the application endpoints served by
// cmd/httpd: echo, user-agent reflection, and file read/write under a
// configured directory.
package handlers

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"rvx.dev/go/httpd/httpd"
)

// Routes builds the route table. dir is the directory served under
// /files/.
func Routes(dir string) *httpd.Router {
	rt := httpd.NewRouter()
	rt.Register("GET", "/", Root)
	rt.Register("GET", "/echo/:msg", Echo)
	rt.Register("GET", "/user-agent", UserAgent)
	rt.Register("GET", "/files/:filename", ReadFile(dir))
	rt.Register("POST", "/files/:filename", WriteFile(dir))
	return rt
}

func Root(w *httpd.Response, r *httpd.Request) {
	w.Status(200)
	w.Send(nil)
}

func Echo(w *httpd.Response, r *httpd.Request) {
	w.Status(200)
	w.Send(r.Params["msg"])
}

func UserAgent(w *httpd.Response, r *httpd.Request) {
	w.Status(200)
	w.Send(r.Header.Get("User-Agent"))
}

// ReadFile serves the named file's bytes as application/octet-stream.
// A missing or unreadable file is a plain-text 404; no 5xx is modeled.
func ReadFile(dir string) httpd.HandlerFunc {
	return func(w *httpd.Response, r *httpd.Request) {
		path, err := securePath(dir, r.Params["filename"])
		if err != nil {
			w.Status(404)
			w.Send("File not found")
			return
		}
		b, err := os.ReadFile(path)
		if err != nil {
			w.Status(404)
			w.Send("File not found")
			return
		}
		w.Status(200)
		w.Send(b)
	}
}

// WriteFile stores the request body as the named file and answers 201
// with no body. Write failures answer a plain-text 404.
func WriteFile(dir string) httpd.HandlerFunc {
	return func(w *httpd.Response, r *httpd.Request) {
		path, err := securePath(dir, r.Params["filename"])
		if err != nil {
			w.Status(404)
			w.Send("Failed to write file")
			return
		}
		if err := os.WriteFile(path, []byte(r.Body), 0o644); err != nil {
			r.Log.Warn().Err(err).Str("file", path).Msg("write failed")
			w.Status(404)
			w.Send("Failed to write file")
			return
		}
		w.Status(201)
		w.Send(nil)
	}
}

var errTraversal = errors.New("handlers: filename escapes served directory")

// securePath joins name onto dir and rejects anything that would land
// outside dir. The :filename capture set already excludes '/', but dots
// are allowed, so ".." must be refused here.
func securePath(dir, name string) (string, error) {
	path := filepath.Join(dir, name)
	root := filepath.Clean(dir)
	if path != root && !strings.HasPrefix(path, root+string(filepath.Separator)) {
		return "", errTraversal
	}
	if filepath.Base(path) != name {
		return "", errTraversal
	}
	return path, nil
}
