package catalog

import (
	"context"
	"fmt"

	"github.com/ekoc03/pokedex/config"
	"github.com/ekoc03/pokedex/modules/cache"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/sony/gobreaker"
)

// Module exposes the PokeAPI projection.
type Module struct {
	client  *Client
	service *Service
	cache   *cache.Cache
	cfg     config.Catalog
	logger  types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates the catalog module. c may be nil, in which case
// search reads the full listing from PokeAPI on every request.
func NewModule(cfg config.Catalog, c *cache.Cache, logger types.Logger) *Module {
	return &Module{
		cfg:    cfg,
		cache:  c,
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "catalog"
}

// Start builds the PokeAPI client and the service.
func (m *Module) Start(_ context.Context) error {
	m.client = NewClient(m.cfg.BaseURL, m.cfg.Timeout)

	var listing Listing = NewSourceListing(m.client)
	if m.cache != nil {
		listing = NewCachedListing(listing, m.cache)
	}
	m.service = NewService(m.client, listing)

	m.logger.Info("Catalog module started",
		"baseURL", m.cfg.BaseURL,
		"timeout", m.cfg.Timeout.String(),
		"cachedListing", m.cache != nil)
	return nil
}

// Stop releases idle upstream connections.
func (m *Module) Stop(_ context.Context) error {
	if m.client != nil {
		m.client.http.CloseIdleConnections()
	}
	m.logger.Info("Catalog module stopped")
	return nil
}

// Health reports the circuit breaker state. An open breaker marks the module unhealthy.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if m.client == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "client not initialized",
		}
	}

	state := m.client.BreakerState()
	if state == gobreaker.StateOpen {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("pokeapi circuit %s", state),
			Details: map[string]any{"baseURL": m.cfg.BaseURL},
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"baseURL": m.cfg.BaseURL,
			"circuit": state.String(),
		},
	}
}

// Service returns the catalog service. It is nil until Start has run.
func (m *Module) Service() *Service {
	return m.service
}

// MaxLimit is the largest page size the catalog serves.
func (m *Module) MaxLimit() int {
	return m.cfg.MaxLimit
}
