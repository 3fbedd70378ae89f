// Package server implements the record-store HTTP API the clients talk
// to: password auth plus list/get/patch on the users collection. The
// bundled store is a stand-in for the hosted one; the wire shapes match,
// including the paginated list envelope.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cragmatch/cragmatch/internal/app"
)

// NewRouter builds the record-store route tree.
func NewRouter(appCtx *app.AppContext) *chi.Mux {
	h := &handlers{appCtx: appCtx}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/api/collections/users", func(r chi.Router) {
		r.Post("/auth-with-password", h.authWithPassword)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth(appCtx.Config))
			r.Get("/records", h.listRecords)
			r.Get("/records/{id}", h.getRecord)
			r.Patch("/records/{id}", h.patchRecord)
		})
	})

	return r
}

// Start runs the HTTP server until it fails or the process exits.
func Start(appCtx *app.AppContext) error {
	addr := appCtx.Config.HTTP.Host + ":" + appCtx.Config.HTTP.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(appCtx),
		ReadHeaderTimeout: 5 * time.Second,
	}
	appCtx.Logger.Info("starting record-store server", "addr", addr)
	return srv.ListenAndServe()
}
