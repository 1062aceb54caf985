package order

import (
	"encoding/json"
	"log/slog"
	"net/http"

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

// CreatePayment handles POST /order/create-payment.
func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	trusteeID := internal.UserIDFromContext(r.Context())
	if trusteeID == 0 {
		h.WriteError(w, internal.ErrInvalidToken)
		return
	}

	var dto CreatePaymentDTO
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&dto); err != nil {
		h.WriteError(w, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed))
		return
	}

	created, err := h.service.CreatePayment(r.Context(), trusteeID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Payment request created successfully", created)
}

// VerifyPayment handles GET /order/verify-payment?collect_request_id=...
// It is a read-triggered reconciliation: the response reflects the status
// row after the gateway report has been applied.
func (h *Handler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	collectRequestID := r.URL.Query().Get("collect_request_id")

	status, err := h.service.VerifyPayment(r.Context(), collectRequestID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Payment verified and order status updated", status)
}
