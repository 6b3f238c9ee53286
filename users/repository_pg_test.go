package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/jobtrack-go/apperror"
	"github.com/user/jobtrack-go/db/dbtest"
)

func TestPgRepository_CreateGetDuplicate(t *testing.T) {
	repo := NewRepository(dbtest.NewPostgres(t))
	ctx := context.Background()
	username := "alice-" + uuid.NewString()[:8]

	first := newAccount(username)
	require.NoError(t, repo.CreateAccount(ctx, first))

	got, err := repo.GetAccountByUsername(ctx, username)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.True(t, first.CreatedAt.Equal(got.CreatedAt))

	second := newAccount(username)
	second.HashedPassword = "other"
	assert.ErrorIs(t, repo.CreateAccount(ctx, second), apperror.ErrDuplicateUsername)

	got, err = repo.GetAccountByUsername(ctx, username)
	require.NoError(t, err)
	assert.Equal(t, first.HashedPassword, got.HashedPassword)

	_, err = repo.GetAccountByUsername(ctx, "ghost-"+uuid.NewString()[:8])
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
