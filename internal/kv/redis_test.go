package kv

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	store := NewRedisStore(client)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return store, mr, cleanup
}

func TestVersion_MissingKeyIsZero(t *testing.T) {
	store, _, cleanup := setupTestRedis(t)
	defer cleanup()

	v, err := store.Version(context.Background(), "user123")

	require.NoError(t, err)
	assert.Equal(t, int64(0), v)
}

func TestBump_Increments(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()
	ctx := context.Background()

	v1, err := store.Bump(ctx, "user123")
	require.NoError(t, err)
	v2, err := store.Bump(ctx, "user123")
	require.NoError(t, err)

	assert.Equal(t, int64(1), v1)
	assert.Equal(t, int64(2), v2)

	got, err := store.Version(ctx, "user123")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got)

	stored, err := mr.Get(sessionKey("user123"))
	require.NoError(t, err)
	assert.Equal(t, "2", stored)
}

func TestVersion_Corrupt(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	mr.Set(sessionKey("user123"), "not-a-number")

	_, err := store.Version(context.Background(), "user123")
	assert.Error(t, err)
}

func TestVersion_RedisDown(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	mr.Close()

	_, err := store.Version(context.Background(), "user123")
	assert.Error(t, err)
}

func TestAcquire_Exclusive(t *testing.T) {
	store, _, cleanup := setupTestRedis(t)
	defer cleanup()
	ctx := context.Background()

	release, err := store.Acquire(ctx, "payment:confirm:tx1", time.Minute)
	require.NoError(t, err)

	_, err = store.Acquire(ctx, "payment:confirm:tx1", time.Minute)
	assert.ErrorIs(t, err, ErrLocked)

	require.NoError(t, release(ctx))

	release2, err := store.Acquire(ctx, "payment:confirm:tx1", time.Minute)
	require.NoError(t, err)
	require.NoError(t, release2(ctx))
}

func TestAcquire_ExpiredLockIsNotReleasedByOldHolder(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()
	ctx := context.Background()

	stale, err := store.Acquire(ctx, "lock", time.Second)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	_, err = store.Acquire(ctx, "lock", time.Minute)
	require.NoError(t, err)

	require.NoError(t, stale(ctx))
	assert.True(t, mr.Exists("lock"))
}
