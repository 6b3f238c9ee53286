package apperror

import (
	"encoding/json"
	"net/http"

	"github.com/user/jobtrack-go/logger"
	"go.uber.org/zap"
)

// WriteJSON serializes `data` to JSON and writes it with the given `status`.
// A nil `data` writes the status line and headers only.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	if data == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already out; nothing useful can be sent to the client.
		return
	}
}

// WriteError converts any error into the standard error payload and writes it.
// Errors that are not *AppError become InternalError. Server-side failures are logged with
// the request-scoped logger; 401 responses carry a Bearer challenge.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := FromError(err)
	if !ok {
		appErr = NewInternalError("an unexpected error occurred", err)
	}

	status := appErr.StatusCode()
	l := logger.From(r.Context())
	if status >= http.StatusInternalServerError {
		l.Error("request failed", zap.Stringer("error_type", appErr.Type), logger.Err(appErr))
	} else {
		l.Debug("request rejected", zap.Stringer("error_type", appErr.Type), logger.Err(appErr))
	}

	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	WriteJSON(w, status, appErr.ToResponse())
}
