package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all asset routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/assets/{type}", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Delete("/{id}", h.HandleDelete)
	})
}
