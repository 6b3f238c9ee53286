package auth

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/jobtrack-go/apperror"
)

func TestTokenService_RoundTrip(t *testing.T) {
	clock := newFakeClock()
	tokens := newTestTokens(t, clock)

	token, expiresAt, err := tokens.Issue("alice", 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, clock.Now().Add(10*time.Minute), expiresAt)
	assert.Len(t, strings.Split(token, "."), 3)

	claims, err := tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.True(t, expiresAt.Equal(claims.ExpiresAt))
	assert.True(t, clock.Now().Equal(claims.IssuedAt))
}

func TestTokenService_DefaultTTL(t *testing.T) {
	clock := newFakeClock()
	tokens := newTestTokens(t, clock)

	_, expiresAt, err := tokens.Issue("alice", 0)
	require.NoError(t, err)
	assert.Equal(t, clock.Now().Add(30*time.Minute), expiresAt)
}

func TestTokenService_SubSecondIssueTime(t *testing.T) {
	clock := newFakeClock()
	clock.Advance(900 * time.Millisecond)
	tokens := newTestTokens(t, clock)

	token, expiresAt, err := tokens.Issue("alice", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, clock.Now().Truncate(time.Second).Add(time.Minute), expiresAt)

	clock.Advance(time.Minute - 901*time.Millisecond)
	_, err = tokens.Validate(token)
	require.NoError(t, err)
}

func TestTokenService_Expiry(t *testing.T) {
	clock := newFakeClock()
	tokens := newTestTokens(t, clock)

	token, _, err := tokens.Issue("alice", 10*time.Minute)
	require.NoError(t, err)

	clock.Advance(10*time.Minute - time.Second)
	_, err = tokens.Validate(token)
	require.NoError(t, err, "still valid one second before expiry")

	clock.Advance(time.Second)
	_, err = tokens.Validate(token)
	require.Error(t, err, "expired exactly at issue time + ttl")
	assert.ErrorIs(t, err, apperror.ErrExpiredToken)
	assert.NotErrorIs(t, err, apperror.ErrInvalidToken)

	clock.Advance(24 * time.Hour)
	_, err = tokens.Validate(token)
	assert.ErrorIs(t, err, apperror.ErrExpiredToken)
}

const base64URLAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

func TestTokenService_TamperedSignature(t *testing.T) {
	clock := newFakeClock()
	tokens := newTestTokens(t, clock)

	token, _, err := tokens.Issue("alice", time.Hour)
	require.NoError(t, err)

	sigStart := strings.LastIndexByte(token, '.') + 1
	for i := sigStart; i < len(token); i++ {
		for j := 0; j < len(base64URLAlphabet); j++ {
			c := base64URLAlphabet[j]
			if c == token[i] {
				continue
			}
			tampered := []byte(token)
			tampered[i] = c

			_, err := tokens.Validate(string(tampered))
			require.Errorf(t, err, "signature position %d set to %q", i-sigStart, c)
			require.ErrorIs(t, err, apperror.ErrInvalidToken)
		}
	}
}

// The last character of an HS256 signature carries two padding bits; changing only those
// must still invalidate the token.
func TestTokenService_SignaturePaddingBits(t *testing.T) {
	clock := newFakeClock()
	tokens := newTestTokens(t, clock)

	for i := 0; i < 20; i++ {
		token, _, err := tokens.Issue(fmt.Sprintf("user%d", i), time.Hour)
		require.NoError(t, err)

		last := len(token) - 1
		idx := strings.IndexByte(base64URLAlphabet, token[last])
		require.GreaterOrEqual(t, idx, 0)
		tampered := token[:last] + string(base64URLAlphabet[idx^0x01])

		_, err = tokens.Validate(tampered)
		assert.ErrorIs(t, err, apperror.ErrInvalidToken, "token %d", i)
	}
}

func TestTokenService_SubSecondTTL(t *testing.T) {
	clock := newFakeClock()
	tokens := newTestTokens(t, clock)
	issued := clock.Now()

	short, expiresAt, err := tokens.Issue("alice", 500*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, issued.Add(time.Second), expiresAt)
	_, err = tokens.Validate(short)
	require.NoError(t, err, "valid at the issue instant")

	mixed, expiresAt, err := tokens.Issue("alice", 1500*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, issued.Add(2*time.Second), expiresAt)

	clock.Advance(1200 * time.Millisecond)
	claims, err := tokens.Validate(mixed)
	require.NoError(t, err)
	assert.True(t, claims.ExpiresAt.Equal(expiresAt))
	_, err = tokens.Validate(short)
	assert.ErrorIs(t, err, apperror.ErrExpiredToken)

	clock.Advance(800 * time.Millisecond)
	_, err = tokens.Validate(mixed)
	assert.ErrorIs(t, err, apperror.ErrExpiredToken)
}

func TestTokenService_TamperedPayload(t *testing.T) {
	tokens := newTestTokens(t, newFakeClock())
	token, _, err := tokens.Issue("alice", time.Hour)
	require.NoError(t, err)

	other, _, err := tokens.Issue("mallory", time.Hour)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	otherParts := strings.Split(other, ".")
	forged := parts[0] + "." + otherParts[1] + "." + parts[2]

	_, err = tokens.Validate(forged)
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
}

func TestTokenService_RejectsForeignTokens(t *testing.T) {
	clock := newFakeClock()
	tokens := newTestTokens(t, clock)

	cfg := testAuthConfig()
	cfg.Algorithm = "HS512"
	hs512, err := NewTokenService(cfg, WithClock(clock.Now))
	require.NoError(t, err)
	wrongAlg, _, err := hs512.Issue("alice", time.Hour)
	require.NoError(t, err)

	cfg = testAuthConfig()
	cfg.SecretKey = "another-secret-0123456789abcdef-01234"
	otherKey, err := NewTokenService(cfg, WithClock(clock.Now))
	require.NoError(t, err)
	wrongKey, _, err := otherKey.Issue("alice", time.Hour)
	require.NoError(t, err)

	cfg = testAuthConfig()
	cfg.Issuer = "someone-else"
	otherIssuer, err := NewTokenService(cfg, WithClock(clock.Now))
	require.NoError(t, err)
	wrongIssuer, _, err := otherIssuer.Issue("alice", time.Hour)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "alice",
		Issuer:    "jobtrack",
		ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "jobtrack",
		ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "alice",
		Issuer:  "jobtrack",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	cases := map[string]string{
		"wrong algorithm": wrongAlg,
		"wrong key":       wrongKey,
		"wrong issuer":    wrongIssuer,
		"alg none":        unsigned,
		"no subject":      noSubject,
		"no expiry":       noExpiry,
		"garbage":         "not-a-token",
		"empty":           "",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := tokens.Validate(token)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperror.ErrInvalidToken)
		})
	}
}

func TestNewTokenService_RejectsNonHMAC(t *testing.T) {
	cfg := testAuthConfig()
	cfg.Algorithm = "RS256"
	_, err := NewTokenService(cfg)
	require.Error(t, err)
	assert.Equal(t, apperror.ConfigError, apperror.TypeOf(err))
}
