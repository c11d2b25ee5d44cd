package gwapi

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// MountSPA serves files from dir for unmatched non-API GET requests and
// falls back to dir/index.html so client-side routes resolve.
func (a *Api) MountSPA(dir string) {
	index := filepath.Join(dir, "index.html")

	a.Router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") || r.URL.Path == "/api" ||
			(r.Method != http.MethodGet && r.Method != http.MethodHead) {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}

		path := filepath.Join(dir, filepath.FromSlash(filepath.Clean("/"+r.URL.Path)))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			http.ServeFile(w, r, path)
			return
		}
		http.ServeFile(w, r, index)
	})
}
