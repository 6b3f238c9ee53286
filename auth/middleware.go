package auth

import (
	"net/http"
	"strings"

	"github.com/user/jobtrack-go/apperror"
	"github.com/user/jobtrack-go/logger"
	"github.com/user/jobtrack-go/users"
)

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
// The scheme is case-insensitive.
func BearerToken(r *http.Request) (string, bool) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

// Middleware rejects requests without a resolvable bearer token with 401 and otherwise
// stores the caller's account in the request context (see users.AccountFromContext).
// onFailure may be nil.
func Middleware(resolver *Resolver, onFailure FailureFunc) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reject := func(err error) {
				reason := FailureReason(err)
				if onFailure != nil {
					onFailure(reason)
				}
				logger.From(r.Context()).Info("authentication failed", logger.Component("auth"), logger.Err(err))
				apperror.WriteError(w, r, err)
			}

			token, ok := BearerToken(r)
			if !ok {
				reject(apperror.NewUnauthenticatedError(msgNotValidated, nil))
				return
			}

			account, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				if ae, ok := apperror.FromError(err); !ok || !ae.IsAuthFailure() {
					apperror.WriteError(w, r, err)
					return
				}
				reject(err)
				return
			}

			ctx := users.NewContextWithAccount(r.Context(), account)
			ctx = logger.ToContext(ctx, logger.From(ctx).With(logger.AccountID(account.ID.String())))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
