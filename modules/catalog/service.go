package catalog

import (
	"context"
	"math"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Service pages, searches and projects the upstream catalog.
type Service struct {
	source  Source
	listing Listing
}

// NewService creates a catalog service. Search runs over listing.
func NewService(source Source, listing Listing) *Service {
	return &Service{source: source, listing: listing}
}

// ListPage returns one page of projected entries. A blank search pages the upstream
// listing directly; otherwise the full listing is filtered by name and paged locally.
// Pages whose offset does not fit in an int are past the end and come back empty.
func (s *Service) ListPage(ctx context.Context, page, limit int, search string) (*PaginatedResponse[Pokemon], error) {
	offset, ok := pageOffset(page, limit)
	term := strings.ToLower(strings.TrimSpace(search))

	var (
		entries []NamedAPIResource
		total   int
	)

	switch {
	case term == "" && !ok:
		list, err := s.source.ListPokemon(ctx, 0, 1)
		if err != nil {
			return nil, err
		}
		total = list.Count
	case term == "":
		list, err := s.source.ListPokemon(ctx, offset, limit)
		if err != nil {
			return nil, err
		}
		entries, total = list.Results, list.Count
	default:
		all, err := s.listing.All(ctx)
		if err != nil {
			return nil, err
		}
		matches := make([]NamedAPIResource, 0)
		for _, e := range all {
			if strings.Contains(strings.ToLower(e.Name), term) {
				matches = append(matches, e)
			}
		}
		total = len(matches)
		if ok {
			entries = window(matches, offset, limit)
		}
	}

	data, err := s.fetchAll(ctx, entries)
	if err != nil {
		return nil, err
	}

	return &PaginatedResponse[Pokemon]{
		Data:       data,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: TotalPages(total, limit),
	}, nil
}

// GetDetail returns the detail projection of one entry.
func (s *Service) GetDetail(ctx context.Context, id int) (*PokemonDetail, error) {
	raw, err := s.source.GetPokemon(ctx, strconv.Itoa(id))
	if err != nil {
		return nil, err
	}
	return ToPokemonDetail(raw)
}

// fetchAll loads every entry concurrently, keeping listing order.
// The first failure cancels the remaining fetches.
func (s *Service) fetchAll(ctx context.Context, entries []NamedAPIResource) ([]Pokemon, error) {
	out := make([]Pokemon, len(entries))
	g, gctx := errgroup.WithContext(ctx)

	for i, e := range entries {
		g.Go(func() error {
			raw, err := s.source.GetPokemon(gctx, lookupKey(e))
			if err != nil {
				return err
			}
			p, err := ToPokemon(raw)
			if err != nil {
				return err
			}
			out[i] = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// lookupKey prefers the id embedded in the listing URL and falls back to the name.
func lookupKey(e NamedAPIResource) string {
	if id := ExtractID(e.URL); id > 0 {
		return strconv.Itoa(id)
	}
	return e.Name
}

// pageOffset returns the zero-based offset of page. ok is false when
// the offset or the end of the page would overflow.
func pageOffset(page, limit int) (offset int, ok bool) {
	if page < 1 || limit < 1 || page-1 > (math.MaxInt-limit)/limit {
		return 0, false
	}
	return (page - 1) * limit, true
}

func window[T any](items []T, offset, limit int) []T {
	if offset < 0 || offset >= len(items) {
		return []T{}
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}
