package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ekoc03/pokedex/modules/cache"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()

	session := &Session{Token: "t1", UserID: 7, Username: "ash", CreatedAt: time.Now()}
	require.NoError(t, store.Put(ctx, session))

	got, err := store.Get(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uint(7), got.UserID)

	// Callers cannot mutate stored sessions through returned values.
	got.UserID = 99
	again, _ := store.Get(ctx, "t1")
	assert.Equal(t, uint(7), again.UserID)

	require.NoError(t, store.Delete(ctx, "t1"))
	require.NoError(t, store.Delete(ctx, "t1"))

	got, err = store.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemorySessionStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemorySessionStore()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Put(ctx, &Session{Token: "short", ExpiresAt: now.Add(time.Minute)}))
	require.NoError(t, store.Put(ctx, &Session{Token: "forever"}))

	now = now.Add(2 * time.Minute)

	got, err := store.Get(ctx, "short")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 1, store.Len())

	got, err = store.Get(ctx, "forever")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func newRedisSessionStore(t *testing.T) (*RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisSessionStore(cache.New(client, "test:", time.Minute)), mr
}

func TestRedisSessionStore(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisSessionStore(t)

	session := &Session{Token: "abc", UserID: 3, Username: "misty", CreatedAt: time.Now().UTC()}
	require.NoError(t, store.Put(ctx, session))
	assert.True(t, mr.Exists("test:session:abc"))
	assert.Zero(t, mr.TTL("test:session:abc"), "sessions without expiry have no TTL")

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uint(3), got.UserID)
	assert.Equal(t, "misty", got.Username)

	require.NoError(t, store.Delete(ctx, "abc"))
	require.NoError(t, store.Delete(ctx, "abc"))

	got, err = store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisSessionStore_TTL(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisSessionStore(t)
	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Put(ctx, &Session{Token: "ttl", ExpiresAt: now.Add(time.Hour)}))
	assert.Equal(t, time.Hour, mr.TTL("test:session:ttl"))

	mr.FastForward(2 * time.Hour)

	got, err := store.Get(ctx, "ttl")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisSessionStore_Unavailable(t *testing.T) {
	store, mr := newRedisSessionStore(t)
	mr.Close()

	_, err := store.Get(context.Background(), "abc")
	assert.Error(t, err)
}
