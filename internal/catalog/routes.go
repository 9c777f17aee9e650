package catalog

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/items", h.List)
	r.Post("/items", h.Create)
	r.Get("/items/{itemID}", h.Get)
	r.Put("/items/{itemID}", h.Update)
	r.Delete("/items/{itemID}", h.Delete)
	r.Post("/items/{itemID}/restore", h.Restore)
}
