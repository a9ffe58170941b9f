// Package spa serves a bundled single-page front end.
package spa

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// IndexFile is the entry point served for unmatched paths.
const IndexFile = "index.html"

// Handler serves files under root. Paths naming a regular file are streamed
// directly; everything else falls back to root/index.html.
type Handler struct {
	root string
}

// New creates a handler for the asset directory root.
func New(root string) *Handler {
	return &Handler{root: root}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Clean against "/" so the result can never climb above root.
	urlPath := path.Clean("/" + r.URL.Path)
	if urlPath != "/" && h.serveFile(w, r, urlPath) {
		return
	}
	if !h.serveFile(w, r, "/"+IndexFile) {
		http.NotFound(w, r)
	}
}

// serveFile streams root/urlPath if it is a regular file.
func (h *Handler) serveFile(w http.ResponseWriter, r *http.Request, urlPath string) bool {
	filePath := filepath.Join(h.root, filepath.FromSlash(urlPath))

	f, err := os.Open(filePath)
	if err != nil {
		return false
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil || !fi.Mode().IsRegular() {
		return false
	}

	http.ServeContent(w, r, fi.Name(), fi.ModTime(), f)
	return true
}
