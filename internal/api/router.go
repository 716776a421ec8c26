package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates and configures a chi router with all the application's
// routes.
func NewRouter(hub *Hub, chatHandler *ChatHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Health check endpoint for liveness and readiness probes.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// The WebSocket transport holds connections open indefinitely, so it
	// must stay outside any timeout middleware.
	r.Get("/ws", hub.HandleWS)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/history/{user}", chatHandler.GetHistory)
		r.Get("/settings", chatHandler.GetSettings)
		r.Post("/settings", chatHandler.UpdateSettings)
	})

	return r
}
