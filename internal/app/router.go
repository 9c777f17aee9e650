package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/subahan-billing/subahan-billing/internal/auth"
	"github.com/subahan-billing/subahan-billing/internal/billing"
	"github.com/subahan-billing/subahan-billing/internal/catalog"
	"github.com/subahan-billing/subahan-billing/internal/invoice"
	"github.com/subahan-billing/subahan-billing/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	AuthService    *auth.Service
	AuthHandler    *auth.Handler
	CatalogHandler *catalog.Handler
	BillingHandler *billing.Handler
	InvoiceHandler *invoice.Handler
	JobsHandler    *jobs.Handler
}

// NewRouter constructs the chi.Router. Everything under /api requires a
// live bearer token; login and health checks stay open.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	params.AuthHandler.MountRoutes(r)

	r.Route("/api", func(r chi.Router) {
		r.Use(params.AuthService.Middleware(params.Logger))
		params.CatalogHandler.MountRoutes(r)
		params.BillingHandler.MountRoutes(r)
		params.InvoiceHandler.MountRoutes(r)
		if params.JobsHandler != nil {
			r.Route("/jobs", params.JobsHandler.MountRoutes)
		}
	})

	return r
}
