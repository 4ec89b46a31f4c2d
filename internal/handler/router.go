package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nabil-dev/chathub/internal/config"
	"github.com/nabil-dev/chathub/internal/handler/history"
	"github.com/nabil-dev/chathub/internal/handler/upload"
	"github.com/nabil-dev/chathub/internal/handler/ws"
	"github.com/nabil-dev/chathub/internal/metrics"
	middlewarePkg "github.com/nabil-dev/chathub/internal/middleware"
)

// NewRouter wires HTTP routes to the chat core.
func NewRouter(cfg *config.Config, wsHandler *ws.Handler, historyHandler *history.Handler, uploadHandler *upload.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(cfg.CORS.Origin))

	wsHandler.RegisterRoutes(r)

	r.Route("/api", func(api chi.Router) {
		historyHandler.RegisterRoutes(api)
		uploadHandler.RegisterRoutes(api)
	})

	r.Handle("/uploads/*", http.StripPrefix("/uploads/", uploadHandler.FileServer()))
	r.Handle("/metrics", metrics.Handler())

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Chat server running"))
	})

	return r
}
