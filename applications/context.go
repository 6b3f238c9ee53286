package applications

import (
	"context"
	"net/http"

	"github.com/user/jobtrack-go/apperror"
	"github.com/user/jobtrack-go/users"
)

type contextKey string

const scopeContextKey contextKey = "applications_scope"

// NewContextWithScope returns a child of ctx carrying scope.
func NewContextWithScope(ctx context.Context, scope *Scope) context.Context {
	return context.WithValue(ctx, scopeContextKey, scope)
}

// ScopeFromContext returns the scope stored by ScopeMiddleware.
func ScopeFromContext(ctx context.Context) (*Scope, bool) {
	scope, ok := ctx.Value(scopeContextKey).(*Scope)
	return scope, ok && scope != nil
}

// ScopeMiddleware binds svc to the authenticated account and stores the resulting Scope
// in the request context. It must run after the bearer middleware.
func ScopeMiddleware(svc *Service) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			account, ok := users.AccountFromContext(r.Context())
			if !ok {
				apperror.WriteError(w, r, apperror.NewUnauthenticatedError(apperror.MsgUnauthenticated, nil))
				return
			}
			next.ServeHTTP(w, r.WithContext(NewContextWithScope(r.Context(), svc.For(account))))
		})
	}
}
