package catalog

import (
	"context"
	"fmt"

	"github.com/ekoc03/pokedex/modules/cache"
	"golang.org/x/sync/singleflight"
)

// listingKey is the cache key of the full listing.
const listingKey = "catalog:listing"

// Listing yields every entry of the upstream catalog. It backs name search.
type Listing interface {
	All(ctx context.Context) ([]NamedAPIResource, error)
}

// SourceListing reads the full listing straight from the source on each call.
type SourceListing struct {
	source Source
}

// NewSourceListing creates an uncached listing.
func NewSourceListing(source Source) *SourceListing {
	return &SourceListing{source: source}
}

// All probes the total count and then fetches everything in one request.
func (l *SourceListing) All(ctx context.Context) ([]NamedAPIResource, error) {
	probe, err := l.source.ListPokemon(ctx, 0, 1)
	if err != nil {
		return nil, err
	}
	if probe.Count <= len(probe.Results) {
		return probe.Results, nil
	}

	full, err := l.source.ListPokemon(ctx, 0, probe.Count)
	if err != nil {
		return nil, err
	}
	return full.Results, nil
}

// CachedListing keeps the full listing in Redis. Concurrent misses share one upstream fetch.
type CachedListing struct {
	next  Listing
	cache *cache.Cache
	group singleflight.Group
}

// NewCachedListing wraps next with a Redis cache.
func NewCachedListing(next Listing, c *cache.Cache) *CachedListing {
	return &CachedListing{next: next, cache: c}
}

// All returns the cached listing, loading it through next on a miss.
// Cache read and write failures fall through to the source.
// The shared load ignores cancellation of the caller that started it; each caller
// stops waiting when its own ctx is done.
func (l *CachedListing) All(ctx context.Context) ([]NamedAPIResource, error) {
	var cached []NamedAPIResource
	if found, err := l.cache.Get(ctx, listingKey, &cached); err == nil && found {
		return cached, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := l.group.DoChan(listingKey, func() (interface{}, error) {
		entries, err := l.next.All(loadCtx)
		if err != nil {
			return nil, err
		}
		_ = l.cache.Set(loadCtx, listingKey, entries)
		return entries, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}

	entries, ok := res.Val.([]NamedAPIResource)
	if !ok {
		return nil, fmt.Errorf("unexpected listing type %T", res.Val)
	}
	return entries, nil
}
