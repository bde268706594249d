package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		r.Route("/devices", func(r chi.Router) {
			// Directory listing: open by default, admin-guarded when
			// api.open_directory is false.
			r.Get("/", s.handleListDevices)

			// Registration is unauthenticated: knowing an id and
			// presenting any secret claims (or rotates) that id.
			r.Post("/register", s.handleRegister)

			r.Route("/{id}", func(r chi.Router) {
				// Device-credential operations (secret in JSON body)
				r.Post("/state", s.handleReportState)
				r.Post("/commands/pull", s.handlePullCommands)

				// Operator operation (admin token in Authorization header)
				r.Post("/commands", s.handlePushCommand)
			})
		})

		// WebSocket event stream (admin token, validated in handler)
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"devices": s.relay.DeviceCount(),
	})
}
