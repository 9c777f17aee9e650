package billing

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/bills", h.List)
	r.Post("/bills", h.Create)
	r.Get("/bills/{billID}", h.Get)
	r.Put("/bills/{billID}", h.Update)
	r.Delete("/bills/{billID}", h.Delete)
}
