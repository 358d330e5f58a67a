package ui

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ArchiveApp serves a generated figure directory (SVG files plus the
// consolidated workbook) for browsing after a batch run.
type ArchiveApp struct {
	router *chi.Mux
	dir    string
}

// NewArchiveApp creates an archive server over the given directory
func NewArchiveApp(dir string) *ArchiveApp {
	a := &ArchiveApp{
		router: chi.NewRouter(),
		dir:    dir,
	}

	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)

	a.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	a.router.Handle("/*", http.StripPrefix("/", http.FileServer(http.Dir(dir))))

	return a
}

// Handler exposes the router for tests
func (a *ArchiveApp) Handler() http.Handler {
	return a.router
}

// Run starts the archive server on the given port
func (a *ArchiveApp) Run(port string) error {
	log.Printf("[Archive] Serving %s on :%s", a.dir, port)
	return http.ListenAndServe(":"+port, a.router)
}
