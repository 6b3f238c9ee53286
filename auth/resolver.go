package auth

import (
	"context"
	"errors"

	"github.com/user/jobtrack-go/apperror"
	"github.com/user/jobtrack-go/users"
)

// Resolver maps a bearer token to the account it was issued for.
type Resolver struct {
	tokens   *TokenService
	accounts users.Repository
}

// NewResolver creates a Resolver.
func NewResolver(tokens *TokenService, accounts users.Repository) *Resolver {
	return &Resolver{tokens: tokens, accounts: accounts}
}

// Resolve validates token and loads its subject. Invalid tokens, expired tokens and subjects
// with no account all come back as Unauthenticated; the cause stays wrapped for logging.
// Database failures are returned as they are.
func (r *Resolver) Resolve(ctx context.Context, token string) (*users.Account, error) {
	claims, err := r.tokens.Validate(token)
	if err != nil {
		return nil, apperror.NewUnauthenticatedError(msgNotValidated, err)
	}
	account, err := r.accounts.GetAccountByUsername(ctx, claims.Subject)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthenticatedError(msgNotValidated, err)
		}
		return nil, err
	}
	return account, nil
}

// Failure reasons reported to a FailureFunc.
const (
	ReasonMissingToken       = "missing_token"
	ReasonInvalidToken       = "invalid_token"
	ReasonExpiredToken       = "expired_token"
	ReasonUnknownSubject     = "unknown_subject"
	ReasonInvalidCredentials = "invalid_credentials"
)

// FailureFunc is told about every rejected authentication attempt.
type FailureFunc func(reason string)

// FailureReason classifies an authentication error for metrics and logs.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, apperror.ErrExpiredToken):
		return ReasonExpiredToken
	case errors.Is(err, apperror.ErrInvalidToken):
		return ReasonInvalidToken
	case errors.Is(err, apperror.ErrInvalidCredentials):
		return ReasonInvalidCredentials
	case errors.Is(err, apperror.ErrNotFound):
		return ReasonUnknownSubject
	default:
		return ReasonMissingToken
	}
}
