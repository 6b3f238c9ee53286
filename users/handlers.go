package users

import (
	"net/http"

	"github.com/user/jobtrack-go/apperror"
)

// Handlers serves the account endpoints that need an authenticated caller.
type Handlers struct{}

// NewHandlers creates Handlers.
func NewHandlers() *Handlers {
	return &Handlers{}
}

// HandleGetMe godoc
// @Summary Get the current user
// @Description Returns the username of the account the bearer token belongs to.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MeResponse
// @Failure 401 {object} apperror.ErrorResponse "Could not validate credentials"
// @Router /me [get]
func (h *Handlers) HandleGetMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := AccountFromContext(r.Context())
		if !ok {
			// Route mounted without the bearer middleware.
			apperror.WriteError(w, r, apperror.NewUnauthenticatedError(apperror.MsgUnauthenticated, nil))
			return
		}
		apperror.WriteJSON(w, http.StatusOK, MeResponse{Username: account.Username})
	}
}
