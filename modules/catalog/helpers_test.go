package catalog

import (
	"context"
	"fmt"
	"strconv"
	"sync"
)

type listCall struct {
	offset, limit int
}

// fakeSource serves a fixed listing and synthesizes a resource for every entry.
type fakeSource struct {
	mu        sync.Mutex
	entries   []NamedAPIResource
	resources map[string]*PokemonResource
	failGet   map[string]error
	failList  error
	listCalls []listCall
	getCalls  []string
}

func newFakeSource(names ...string) *fakeSource {
	f := &fakeSource{
		resources: make(map[string]*PokemonResource),
		failGet:   make(map[string]error),
	}
	for i, name := range names {
		id := i + 1
		f.entries = append(f.entries, NamedAPIResource{
			Name: name,
			URL:  fmt.Sprintf("https://pokeapi.co/api/v2/pokemon/%d/", id),
		})
		res := &PokemonResource{
			ID:   id,
			Name: name,
			Types: []PokemonType{
				{Slot: 1, Type: NamedAPIResource{Name: "normal"}},
			},
		}
		f.resources[strconv.Itoa(id)] = res
		f.resources[name] = res
	}
	return f
}

func (f *fakeSource) ListPokemon(_ context.Context, offset, limit int) (*PokemonListResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls = append(f.listCalls, listCall{offset: offset, limit: limit})
	if f.failList != nil {
		return nil, f.failList
	}
	return &PokemonListResponse{
		Count:   len(f.entries),
		Results: window(f.entries, offset, limit),
	}, nil
}

func (f *fakeSource) GetPokemon(ctx context.Context, idOrName string) (*PokemonResource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls = append(f.getCalls, idOrName)
	if err := f.failGet[idOrName]; err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, ok := f.resources[idOrName]
	if !ok {
		return nil, ErrNotFound
	}
	return res, nil
}

func (f *fakeSource) calls() ([]listCall, []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]listCall(nil), f.listCalls...), append([]string(nil), f.getCalls...)
}

func names(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s-%d", prefix, i+1)
	}
	return out
}

func ptr(s string) *string {
	return &s
}
