package transport

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes регистрирует все HTTP маршруты
func (h *HTTPHandler) RegisterRoutes(r chi.Router) {
	// probes
	r.Get("/health", h.handleHealth)
	r.Get("/ready", h.handleReady)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.handleCreateUser)
		r.Get("/", h.handleListUsers)
		r.Get("/{id}", h.handleGetUser)
		r.Put("/{id}", h.handleReplaceUser)
		r.Patch("/{id}", h.handlePatchUser)
		r.Delete("/{id}", h.handleDeleteUser)
	})
}
