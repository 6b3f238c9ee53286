package applications

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/jobtrack-go/apperror"
	"github.com/user/jobtrack-go/db/dbtest"
)

func uniqueName(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

func TestPgRepository_OwnershipAndLifecycle(t *testing.T) {
	f := newFixtureOn(dbtest.NewPostgres(t))
	ctx := context.Background()
	alice := f.svc.For(f.account(t, uniqueName("alice")))
	bob := f.svc.For(f.account(t, uniqueName("bob")))

	created, err := alice.Create(ctx, CreateRequest{Company: "Acme", Status: "reviewing", URL: strPtr("https://acme.example")})
	require.NoError(t, err)

	got, err := alice.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Company, got.Company)
	assert.True(t, created.AppliedAt.Equal(got.AppliedAt))
	require.NotNil(t, got.URL)

	list, err := bob.List(ctx, Page{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, list)
	_, err = bob.Get(ctx, created.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = bob.Update(ctx, created.ID, UpdateRequest{Status: strPtr("rejected")})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.ErrorIs(t, bob.Delete(ctx, created.ID), apperror.ErrForbidden)

	updated, err := alice.Update(ctx, created.ID, UpdateRequest{Status: strPtr("offered"), URL: OptionalString{Set: true}})
	require.NoError(t, err)
	assert.Equal(t, StatusOffered, updated.Status)
	assert.Nil(t, updated.URL)
	require.NotNil(t, updated.UpdatedAt)

	require.NoError(t, alice.Delete(ctx, created.ID))
	_, err = alice.Get(ctx, created.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.ErrorIs(t, alice.Delete(ctx, created.ID), apperror.ErrNotFound)
}

// Concurrent updates are serialized by the row lock, so each one sees its predecessor's
// updated_at and moves past it even though the clock is frozen.
func TestPgRepository_ConcurrentUpdates(t *testing.T) {
	f := newFixtureOn(dbtest.NewPostgres(t))
	ctx := context.Background()
	alice := f.svc.For(f.account(t, uniqueName("alice")))

	created, err := alice.Create(ctx, CreateRequest{Company: "Acme", Status: "reviewing"})
	require.NoError(t, err)

	const n = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = map[int64]bool{}
		errs []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app, err := alice.Update(ctx, created.ID, UpdateRequest{Status: strPtr("interviewing")})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			seen[app.UpdatedAt.UnixMicro()] = true
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	assert.Len(t, seen, n)

	final, err := alice.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.AppliedAt.Add(n*time.Microsecond).UnixMicro(), final.UpdatedAt.UnixMicro())
}
