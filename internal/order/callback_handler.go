package order

import (
	"net/http"
)

// HandleCallback handles GET /payment/callback, the browser redirect the
// gateway issues after checkout. A SUCCESS redirect triggers the same
// reconciliation path as an explicit verify call; anything else is reported
// back without touching stored state, since redirects are unauthenticated
// hints rather than authoritative results.
func (h *Handler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	collectRequestID := r.URL.Query().Get("EdvironCollectRequestId")
	redirectStatus := r.URL.Query().Get("status")

	if redirectStatus != "SUCCESS" {
		h.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "cancelled",
			"message": "payment was not completed",
		})
		return
	}

	status, err := h.service.VerifyPayment(r.Context(), collectRequestID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Payment confirmed", status)
}
