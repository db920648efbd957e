package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func setupStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewStore(client), mr
}

func TestStore_CreateAndResolve(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	sessionID, err := store.Create(ctx, 42, time.Hour)
	assert.NoError(t, err)
	assert.NotEmpty(t, sessionID)

	userID, err := store.Resolve(ctx, sessionID)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestStore_Resolve_Unknown(t *testing.T) {
	store, _ := setupStore(t)

	_, err := store.Resolve(context.Background(), "no-such-session")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStore_Resolve_Expired(t *testing.T) {
	store, mr := setupStore(t)
	ctx := context.Background()

	sessionID, err := store.Create(ctx, 7, time.Minute)
	assert.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = store.Resolve(ctx, sessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStore_Destroy(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	sessionID, err := store.Create(ctx, 7, time.Hour)
	assert.NoError(t, err)

	assert.NoError(t, store.Destroy(ctx, sessionID))

	_, err = store.Resolve(ctx, sessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Destroying again is a no-op.
	assert.NoError(t, store.Destroy(ctx, sessionID))
}
