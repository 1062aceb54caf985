package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/frahmantamala/school-payments/internal"
)

// BaseHandler carries the helpers every feature handler shares: JSON
// writing, AppError mapping, and bearer-token extraction.
type BaseHandler struct {
	Logger *slog.Logger
}

func NewBaseHandler(logger *slog.Logger) *BaseHandler {
	return &BaseHandler{Logger: logger}
}

func (h *BaseHandler) WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode response", "error", err)
	}
}

// WriteSuccess wraps data in the standard success envelope.
func (h *BaseHandler) WriteSuccess(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	body := map[string]interface{}{
		"status": "success",
	}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	h.WriteJSON(w, statusCode, body)
}

func (h *BaseHandler) WriteError(w http.ResponseWriter, appErr *internal.AppError) {
	statusCode, body := appErr.ToHTTPResponse()
	h.WriteJSON(w, statusCode, body)
}

// HandleServiceError maps any error coming out of a service into an HTTP
// response. Unknown error types collapse to an opaque 500; their detail only
// goes to the log.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		if appErr.StatusCode >= http.StatusInternalServerError {
			h.Logger.Error("service error", "error", appErr.Error(), "code", appErr.Code)
		}
		h.WriteError(w, appErr)
		return
	}

	h.Logger.Error("unhandled service error", "error", err)
	h.WriteError(w, internal.NewInternalError("internal server error", err))
}

// ExtractTokenFromHeader pulls the bearer token out of an Authorization
// header. Empty return means the header was missing or malformed.
func ExtractTokenFromHeader(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
