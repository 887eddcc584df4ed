//go:build dev

package resources

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
)

// getStaticDir resolves the static directory next to this source file,
// regardless of where the binary is run from.
func getStaticDir() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return StaticDirectoryPath
	}
	return filepath.Join(filepath.Dir(filename), "static")
}

// Handler returns an HTTP handler for serving static files.
// In dev mode, files are served directly from the filesystem so edits show
// up on reload.
func Handler() http.Handler {
	staticDir := getStaticDir()
	slog.Info("static assets served from filesystem", "path", staticDir)
	return http.StripPrefix("/static/", http.FileServer(http.FS(os.DirFS(staticDir))))
}

// Index returns the page shell, read fresh on every call.
func Index() ([]byte, error) {
	return os.ReadFile(filepath.Join(getStaticDir(), IndexFile))
}
