package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// NotFoundResponse is the JSON body for unknown API routes
// swagger:model NotFoundResponse
type NotFoundResponse struct {
	// Error message
	// default: not found
	Error string `json:"error"`
}

// NewNotFoundHandler returns a JSON 404 for unknown API routes, so
// API clients never receive the HTML fallback.
func NewNotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(NotFoundResponse{Error: "not found"})
	}
}

// NewFrontendHandler serves the single-page frontend from dir. Paths
// that do not match a file fall back to index.html so client-side
// routes survive a page reload.
func NewFrontendHandler(dir string) http.HandlerFunc {
	fs := http.FileServer(http.Dir(dir))
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(filepath.Clean(r.URL.Path), "/")
		if name != "" {
			if info, err := os.Stat(filepath.Join(dir, name)); err == nil && !info.IsDir() {
				fs.ServeHTTP(w, r)
				return
			}
		}
		http.ServeFile(w, r, filepath.Join(dir, "index.html"))
	}
}

// NewUploadsHandler serves saved product images from dir under the
// public uploads prefix.
func NewUploadsHandler(prefix, dir string) http.Handler {
	return http.StripPrefix(prefix, http.FileServer(http.Dir(dir)))
}
