package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/jobtrack-go/apperror"
)

func TestResolver_Resolve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	account, err := f.service.Register(ctx, "alice", "pw")
	require.NoError(t, err)
	token, _, err := f.tokens.Issue("alice", time.Minute)
	require.NoError(t, err)

	got, err := f.resolver.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)
}

func TestResolver_CollapsesFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.service.Register(ctx, "alice", "pw")
	require.NoError(t, err)

	expired, _, err := f.tokens.Issue("alice", time.Minute)
	require.NoError(t, err)
	ghost, _, err := f.tokens.Issue("ghost", time.Hour)
	require.NoError(t, err)
	f.clock.Advance(2 * time.Minute)

	cases := []struct {
		name   string
		token  string
		cause  error
		reason string
	}{
		{"invalid", "garbage", apperror.ErrInvalidToken, ReasonInvalidToken},
		{"expired", expired, apperror.ErrExpiredToken, ReasonExpiredToken},
		{"unknown subject", ghost, apperror.ErrNotFound, ReasonUnknownSubject},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.resolver.Resolve(ctx, tc.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperror.ErrUnauthenticated)
			assert.ErrorIs(t, err, tc.cause)
			assert.Equal(t, tc.reason, FailureReason(err))

			ae, _ := apperror.FromError(err)
			assert.Equal(t, apperror.MsgUnauthenticated, ae.ToResponse().Error)
		})
	}
}

func TestFailureReason_Default(t *testing.T) {
	assert.Equal(t, ReasonMissingToken, FailureReason(errors.New("x")))
	assert.Equal(t, ReasonInvalidCredentials, FailureReason(apperror.NewInvalidCredentialsError("Wrong credentials", nil)))
}
