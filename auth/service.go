// Package auth implements credentials, access tokens and bearer identity resolution.
//
// Service registers and verifies accounts, TokenService issues and validates signed
// tokens, and Resolver turns a presented token into the owning account. Middleware wires the
// resolver into HTTP routes.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/user/jobtrack-go/apperror"
	"github.com/user/jobtrack-go/users"
	"github.com/user/jobtrack-go/validation"
)

// Client-facing messages for authentication failures. The cause is never shown.
const (
	msgWrongCredentials = "Wrong credentials"
	msgNotValidated     = apperror.MsgUnauthenticated
)

// Credentials is a username/password pair as submitted by a client.
type Credentials struct {
	Username string `form:"username" json:"username" validate:"required,max=150,trimmed"`
	Password string `form:"password" json:"password" validate:"required,maxbytes"`
}

// Service is the credential store: it registers accounts and verifies passwords.
type Service struct {
	accounts users.Repository
	hasher   *PasswordHasher
	validate *validation.Validator
	now      func() time.Time
}

// NewService creates a Service.
func NewService(accounts users.Repository, hasher *PasswordHasher, validate *validation.Validator) *Service {
	return &Service{
		accounts: accounts,
		hasher:   hasher,
		validate: validate,
		now:      time.Now,
	}
}

// Register creates an account with a freshly salted hash of password.
// It fails with DuplicateUsername if the name is taken; the existing account is not touched.
func (s *Service) Register(ctx context.Context, username, password string) (*users.Account, error) {
	creds := Credentials{Username: username, Password: password}
	if err := s.validate.Struct(creds); err != nil {
		return nil, err
	}

	if _, err := s.accounts.GetAccountByUsername(ctx, username); err == nil {
		return nil, apperror.NewDuplicateUsernameError("Username already registered", nil)
	} else if !apperror.IsNotFound(err) {
		return nil, err
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	account := &users.Account{
		ID:             uuid.New(),
		Username:       username,
		HashedPassword: hashed,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	// A concurrent registration can still win the race; the unique constraint reports it.
	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Verify returns the account when password matches its stored hash.
// Unknown usernames and wrong passwords both yield InvalidCredentials and take the same time.
func (s *Service) Verify(ctx context.Context, username, password string) (*users.Account, error) {
	account, err := s.accounts.GetAccountByUsername(ctx, username)
	if err != nil {
		if apperror.IsNotFound(err) {
			s.hasher.CompareDummy(password)
			return nil, apperror.NewInvalidCredentialsError(msgWrongCredentials, err)
		}
		return nil, err
	}
	if !s.hasher.Compare(account.HashedPassword, password) {
		return nil, apperror.NewInvalidCredentialsError(msgWrongCredentials, nil)
	}
	return account, nil
}
