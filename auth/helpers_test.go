package auth

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/jobtrack-go/config"
	"github.com/user/jobtrack-go/db/dbtest"
	"github.com/user/jobtrack-go/users"
	"github.com/user/jobtrack-go/validation"
)

const testSecret = "test-secret-0123456789abcdef-0123456789"

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{
		SecretKey:           testSecret,
		Algorithm:           "HS256",
		AccessTokenDuration: 30 * time.Minute,
		Issuer:              "jobtrack",
		BcryptCost:          bcrypt.MinCost,
	}
}

func newTestTokens(t *testing.T, clock *fakeClock) *TokenService {
	t.Helper()
	tokens, err := NewTokenService(testAuthConfig(), WithClock(clock.Now))
	require.NoError(t, err)
	return tokens
}

type fixture struct {
	clock    *fakeClock
	accounts users.Repository
	service  *Service
	tokens   *TokenService
	resolver *Resolver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	hasher, err := NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)

	clock := newFakeClock()
	accounts := users.NewRepository(dbtest.NewSQLite(t))
	tokens := newTestTokens(t, clock)
	return &fixture{
		clock:    clock,
		accounts: accounts,
		service:  NewService(accounts, hasher, validation.New()),
		tokens:   tokens,
		resolver: NewResolver(tokens, accounts),
	}
}
