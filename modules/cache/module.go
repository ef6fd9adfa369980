package cache

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/ekoc03/pokedex/config"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	fiberredis "github.com/gofiber/storage/redis/v3"
	"github.com/redis/go-redis/v9"
)

// Module owns the Redis connection and exposes the shared Cache.
type Module struct {
	cache   *Cache
	client  *redis.Client
	storage *fiberredis.Storage
	cfg     config.Redis
	logger  types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates the Redis client. The connection is verified in Start,
// but Cache is usable by other modules as soon as the module is constructed.
func NewModule(cfg config.Redis, logger types.Logger) *Module {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		PoolSize:     50,
		MinIdleConns: 5,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	return &Module{
		client: client,
		cache:  New(client, cfg.Prefix, cfg.TTL),
		cfg:    cfg,
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "cache"
}

// Start verifies the Redis connection and opens the Fiber storage.
func (m *Module) Start(ctx context.Context) error {
	if err := m.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", m.cfg.Addr, err)
	}

	// fiberredis.New panics when Redis is unreachable, so it runs after the ping.
	host, port := parseRedisAddr(m.cfg.Addr)
	m.storage = fiberredis.New(fiberredis.Config{
		Host:     host,
		Port:     port,
		PoolSize: 10,
	})
	m.logger.Info("Connected to Redis", "addr", m.cfg.Addr, "prefix", m.cfg.Prefix, "ttl", m.cfg.TTL.String())
	return nil
}

// Stop closes the Redis connections.
func (m *Module) Stop(_ context.Context) error {
	if m.storage != nil {
		if err := m.storage.Close(); err != nil {
			m.logger.Warn("Failed to close Fiber storage", "error", err)
		}
	}
	if err := m.client.Close(); err != nil {
		return fmt.Errorf("failed to close Redis connection: %w", err)
	}
	m.logger.Info("Cache module stopped")
	return nil
}

// Health pings Redis and reports the cache counters.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if err := m.cache.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("redis ping failed: %v", err),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"redis_addr": m.cfg.Addr,
			"prefix":     m.cfg.Prefix,
			"stats":      m.cache.Stats(),
		},
	}
}

// Cache returns the shared cache.
func (m *Module) Cache() *Cache {
	return m.cache
}

// Storage returns the Redis-backed Fiber storage used by HTTP middleware.
// It is nil until Start has run.
func (m *Module) Storage() fiber.Storage {
	if m.storage == nil {
		return nil
	}
	return m.storage
}

// parseRedisAddr splits host:port, falling back to the Redis defaults.
func parseRedisAddr(addr string) (string, int) {
	const defaultHost = "127.0.0.1"
	const defaultPort = 6379

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return defaultHost, defaultPort
	}
	if host == "" {
		host = defaultHost
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = defaultPort
	}
	return host, port
}
