package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/user/jobtrack-go/apperror"
	"github.com/user/jobtrack-go/config"
)

// Claims is what a valid token asserts.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService issues and validates HMAC-signed JWT access tokens.
// Tokens are not stored; validity is signature plus expiry.
type TokenService struct {
	secret     []byte
	method     jwt.SigningMethod
	issuer     string
	defaultTTL time.Duration
	now        func() time.Time
}

// TokenOption customizes a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

// NewTokenService creates a TokenService from the auth configuration.
func NewTokenService(cfg *config.AuthConfig, opts ...TokenOption) (*TokenService, error) {
	method, ok := jwt.GetSigningMethod(cfg.Algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, apperror.NewConfigError(fmt.Sprintf("unsupported token algorithm %q", cfg.Algorithm), nil)
	}
	if cfg.SecretKey == "" {
		return nil, apperror.NewConfigError("token secret is empty", nil)
	}
	s := &TokenService{
		secret:     []byte(cfg.SecretKey),
		method:     method,
		issuer:     cfg.Issuer,
		defaultTTL: cfg.AccessTokenDuration,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// DefaultTTL is the lifetime used when Issue is called with ttl <= 0.
func (s *TokenService) DefaultTTL() time.Duration {
	return s.defaultTTL
}

// Issue signs a token for subject that expires ttl from now.
// Expiry has second precision: the issue time is truncated to the second and ttl is
// rounded up to a whole second.
func (s *TokenService) Issue(subject string, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	ttl = (ttl + time.Second - 1).Truncate(time.Second)
	issuedAt := s.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(ttl)

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, apperror.NewInternalError("failed to sign token", err)
	}
	return signed, expiresAt, nil
}

// Validate checks tokenString's signature, algorithm, issuer and expiry.
// An expired token yields an ExpiredToken error; anything else wrong yields InvalidToken.
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
		jwt.WithStrictDecoding(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	registered := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, registered, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperror.NewExpiredTokenError("token has expired", err)
		}
		return nil, apperror.NewInvalidTokenError("token is invalid", err)
	}
	if registered.Subject == "" {
		return nil, apperror.NewInvalidTokenError("token has no subject", nil)
	}

	claims := &Claims{
		Subject:   registered.Subject,
		ExpiresAt: registered.ExpiresAt.Time,
	}
	if registered.IssuedAt != nil {
		claims.IssuedAt = registered.IssuedAt.Time
	}
	return claims, nil
}
