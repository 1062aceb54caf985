package transaction

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/school-payments/internal"
	"github.com/frahmantamala/school-payments/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	service ServiceAPI
}

func NewHandler(logger *slog.Logger, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger),
		service:     service,
	}
}

// ListTransactions handles GET /transaction with filter, sort, and
// pagination query parameters.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	params := ParseListParams(r)

	rows, pagination, err := h.service.ListTransactions(r.Context(), params)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "success",
		"data":       rows,
		"pagination": pagination,
	})
}

// ListBySchool handles GET /transaction/school/{schoolID}.
func (h *Handler) ListBySchool(w http.ResponseWriter, r *http.Request) {
	schoolID, err := strconv.ParseInt(chi.URLParam(r, "schoolID"), 10, 64)
	if err != nil {
		h.WriteError(w, internal.NewValidationError("school id must be numeric", internal.ErrCodeValidationFailed))
		return
	}

	params := ParseListParams(r)
	rows, pagination, err := h.service.ListBySchool(r.Context(), schoolID, params)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "success",
		"data":       rows,
		"pagination": pagination,
	})
}

// TransactionStatus handles GET /transaction/status/{orderID}, where orderID
// is the public custom order reference.
func (h *Handler) TransactionStatus(w http.ResponseWriter, r *http.Request) {
	customOrderID := chi.URLParam(r, "orderID")

	status, err := h.service.StatusByOrderID(r.Context(), customOrderID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "", status)
}

// Overview handles GET /transaction/overview.
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.Overview(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "", overview)
}
