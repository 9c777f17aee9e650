package invoice

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/subahan-billing/subahan-billing/internal/billing"
	"github.com/subahan-billing/subahan-billing/internal/platform/httpx"
)

type Handler struct {
	logger    *slog.Logger
	bills     *billing.Service
	paginator *Paginator
}

func NewHandler(logger *slog.Logger, bills *billing.Service, paginator *Paginator) *Handler {
	return &Handler{
		logger:    logger,
		bills:     bills,
		paginator: paginator,
	}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/bills/{billID}/print", h.Print)
}

// Print serves the paginated page descriptors the renderer lays out
// verbatim.
func (h *Handler) Print(w http.ResponseWriter, r *http.Request) {
	bill, err := h.bills.Get(r.Context(), chi.URLParam(r, "billID"))
	if err != nil {
		if errors.Is(err, billing.ErrNotFound) {
			httpx.RespondError(w, httpx.ErrNotFound)
			return
		}
		h.logger.Error("print bill", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, h.paginator.BuildDocument(*bill))
}
