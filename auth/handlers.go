package auth

import (
	"encoding/json"
	"mime"
	"net/http"

	"github.com/user/jobtrack-go/apperror"
	"github.com/user/jobtrack-go/logger"
)

const maxCredentialsBody = 1 << 16

// Handlers serves login and registration.
type Handlers struct {
	service   *Service
	tokens    *TokenService
	onFailure FailureFunc
}

// NewHandlers creates Handlers. onFailure may be nil.
func NewHandlers(service *Service, tokens *TokenService, onFailure FailureFunc) *Handlers {
	return &Handlers{service: service, tokens: tokens, onFailure: onFailure}
}

// decodeCredentials reads username and password from a form body, or from a JSON body
// when the request says it is JSON.
func decodeCredentials(w http.ResponseWriter, r *http.Request) (Credentials, error) {
	var creds Credentials
	r.Body = http.MaxBytesReader(w, r.Body, maxCredentialsBody)
	defer r.Body.Close()

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			return creds, apperror.NewInvalidInputError("invalid request body", err)
		}
		return creds, nil
	}
	if err := r.ParseForm(); err != nil {
		return creds, apperror.NewInvalidInputError("invalid form body", err)
	}
	creds.Username = r.PostForm.Get("username")
	creds.Password = r.PostForm.Get("password")
	return creds, nil
}

// HandleToken godoc
// @Summary Log in
// @Description Exchanges a username and password for a bearer access token.
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Success 200 {object} TokenResponse
// @Failure 401 {object} apperror.ErrorResponse "Wrong credentials"
// @Router /token [post]
func (h *Handlers) HandleToken() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creds, err := decodeCredentials(w, r)
		if err != nil {
			apperror.WriteError(w, r, err)
			return
		}

		account, err := h.service.Verify(r.Context(), creds.Username, creds.Password)
		if err != nil {
			if apperror.TypeOf(err) == apperror.InvalidCredentialsError && h.onFailure != nil {
				h.onFailure(ReasonInvalidCredentials)
			}
			logger.From(r.Context()).Info("login failed", logger.Username(creds.Username), logger.Err(err))
			apperror.WriteError(w, r, err)
			return
		}

		ttl := h.tokens.DefaultTTL()
		token, _, err := h.tokens.Issue(account.Username, ttl)
		if err != nil {
			apperror.WriteError(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusOK, TokenResponse{
			AccessToken: token,
			TokenType:   "bearer",
			ExpiresIn:   int64(ttl.Seconds()),
		})
	}
}

// HandleRegister godoc
// @Summary Register
// @Description Creates an account. Usernames are unique.
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} apperror.ErrorResponse "Username already registered or invalid input"
// @Router /register [post]
func (h *Handlers) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creds, err := decodeCredentials(w, r)
		if err != nil {
			apperror.WriteError(w, r, err)
			return
		}

		account, err := h.service.Register(r.Context(), creds.Username, creds.Password)
		if err != nil {
			apperror.WriteError(w, r, err)
			return
		}

		logger.From(r.Context()).Info("account registered", logger.Username(account.Username), logger.AccountID(account.ID.String()))
		apperror.WriteJSON(w, http.StatusCreated, RegisterResponse{Username: account.Username})
	}
}
