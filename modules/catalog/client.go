package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

// ErrNotFound is returned when PokeAPI has no entry for the requested id or name.
var ErrNotFound = errors.New("pokemon not found")

// Source is the upstream catalog.
type Source interface {
	ListPokemon(ctx context.Context, offset, limit int) (*PokemonListResponse, error)
	GetPokemon(ctx context.Context, idOrName string) (*PokemonResource, error)
}

// Client talks to PokeAPI over HTTP behind a circuit breaker.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
}

var _ Source = (*Client)(nil)

// NewClient creates a PokeAPI client rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "pokeapi",
			MaxRequests: 3,
			Interval:    30 * time.Second,
			Timeout:     10 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 3 && failureRatio >= 0.6
			},
			// A missing pokemon or a cancelled caller says nothing about upstream health.
			IsSuccessful: func(err error) bool {
				return err == nil ||
					errors.Is(err, ErrNotFound) ||
					errors.Is(err, context.Canceled)
			},
		}),
	}
}

// BreakerState reports the circuit breaker state.
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}

// ListPokemon fetches one page of the listing.
func (c *Client) ListPokemon(ctx context.Context, offset, limit int) (*PokemonListResponse, error) {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))

	var out PokemonListResponse
	if err := c.get(ctx, "/pokemon?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPokemon fetches a single entry by numeric id or name.
func (c *Client) GetPokemon(ctx context.Context, idOrName string) (*PokemonResource, error) {
	var out PokemonResource
	if err := c.get(ctx, "/pokemon/"+url.PathEscape(strings.ToLower(idOrName)), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, dest any) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.do(ctx, path, dest)
	})
	return err
}

func (c *Client) do(ctx context.Context, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build pokeapi request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("pokeapi request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("pokeapi %s returned status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode pokeapi response: %w", err)
	}
	return nil
}
