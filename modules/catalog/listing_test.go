package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ekoc03/pokedex/modules/cache"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestCache(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.New(client, "test:", time.Minute), mr
}

func TestSourceListing_ProbesThenFetchesAll(t *testing.T) {
	src := newFakeSource(names("mon", 30)...)

	all, err := NewSourceListing(src).All(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 30)

	lists, _ := src.calls()
	assert.Equal(t, []listCall{{offset: 0, limit: 1}, {offset: 0, limit: 30}}, lists)
}

func TestSourceListing_SingleProbeWhenSmall(t *testing.T) {
	src := newFakeSource("bulbasaur")

	all, err := NewSourceListing(src).All(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)

	lists, _ := src.calls()
	assert.Len(t, lists, 1)
}

func TestCachedListing(t *testing.T) {
	c, mr := setupTestCache(t)
	src := newFakeSource(names("mon", 5)...)
	listing := NewCachedListing(NewSourceListing(src), c)
	ctx := context.Background()

	first, err := listing.All(ctx)
	require.NoError(t, err)
	assert.Len(t, first, 5)
	assert.True(t, mr.Exists("test:"+listingKey))
	assert.Equal(t, time.Minute, mr.TTL("test:"+listingKey))

	second, err := listing.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	lists, _ := src.calls()
	assert.Len(t, lists, 2, "second read is served from redis")

	mr.FastForward(2 * time.Minute)
	_, err = listing.All(ctx)
	require.NoError(t, err)
	lists, _ = src.calls()
	assert.Len(t, lists, 4, "expired entry reloads")
}

func TestCachedListing_ErrorNotCached(t *testing.T) {
	c, mr := setupTestCache(t)
	src := newFakeSource(names("mon", 5)...)
	src.failList = errors.New("down")
	listing := NewCachedListing(NewSourceListing(src), c)

	_, err := listing.All(context.Background())
	assert.ErrorIs(t, err, src.failList)
	assert.False(t, mr.Exists("test:"+listingKey))
}

func TestCachedListing_RedisDown(t *testing.T) {
	c, mr := setupTestCache(t)
	src := newFakeSource(names("mon", 3)...)
	listing := NewCachedListing(NewSourceListing(src), c)
	mr.Close()

	all, err := listing.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

// gatedListing blocks every load until release is closed.
type gatedListing struct {
	entries []NamedAPIResource
	started chan struct{}
	release chan struct{}
	once    sync.Once
	loads   atomic.Int32
}

func newGatedListing(entries ...string) *gatedListing {
	g := &gatedListing{started: make(chan struct{}), release: make(chan struct{})}
	for _, name := range entries {
		g.entries = append(g.entries, NamedAPIResource{Name: name})
	}
	return g
}

func (g *gatedListing) All(ctx context.Context) ([]NamedAPIResource, error) {
	g.loads.Add(1)
	g.once.Do(func() { close(g.started) })
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-g.release:
		return g.entries, nil
	}
}

func TestCachedListing_CancelledCallerDoesNotFailOthers(t *testing.T) {
	c, mr := setupTestCache(t)
	next := newGatedListing("pikachu", "raichu")
	listing := NewCachedListing(next, c)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := listing.All(ctxA)
		errA <- err
	}()
	<-next.started

	cancelA()
	select {
	case err := <-errA:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller kept waiting")
	}

	type result struct {
		entries []NamedAPIResource
		err     error
	}
	resB := make(chan result, 1)
	go func() {
		entries, err := listing.All(context.Background())
		resB <- result{entries, err}
	}()

	// Let B join the flight before the load finishes.
	time.Sleep(50 * time.Millisecond)
	close(next.release)

	select {
	case r := <-resB:
		require.NoError(t, r.err)
		assert.Len(t, r.entries, 2)
	case <-time.After(time.Second):
		t.Fatal("live caller never got the listing")
	}

	assert.Equal(t, int32(1), next.loads.Load(), "callers share one load")
	assert.True(t, mr.Exists("test:"+listingKey), "shared load still fills the cache")
}
