// Package staticsite serves the portfolio front end: engine files (HTML,
// scripts, styles) from one directory with the owner's content directory
// overlaid for data, config and translation requests.
package staticsite

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// contentPrefixes are the top-level path segments routed to the content
// directory instead of the engine directory.
var contentPrefixes = map[string]bool{
	"data":   true,
	"config": true,
	"lang":   true,
}

// Handler is an http.Handler serving the engine with a content overlay.
type Handler struct {
	engineDir  string
	contentDir string
}

// New creates a handler serving engineDir with contentDir overlaid.
func New(engineDir, contentDir string) *Handler {
	return &Handler{engineDir: engineDir, contentDir: contentDir}
}

// Resolve maps a request path to the file that would serve it.
func (h *Handler) Resolve(reqPath string) string {
	clean := path.Clean("/" + reqPath)
	first := strings.SplitN(strings.TrimPrefix(clean, "/"), "/", 2)[0]

	root := h.engineDir
	if contentPrefixes[first] {
		root = h.contentDir
	}
	return filepath.Join(root, filepath.FromSlash(clean))
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	clean := path.Clean("/" + r.URL.Path)

	// Dotfiles (.env above all) never leave the server.
	for _, part := range strings.Split(clean, "/") {
		if strings.HasPrefix(part, ".") && part != "." {
			http.NotFound(w, r)
			return
		}
	}

	target := h.Resolve(clean)
	info, err := os.Stat(target)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if info.IsDir() {
		index := filepath.Join(target, "index.html")
		if _, err := os.Stat(index); err != nil {
			http.NotFound(w, r)
			return
		}
		target = index
	}
	http.ServeFile(w, r, target)
}
