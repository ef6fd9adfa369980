package main

import (
	"context"
	"log"
	"os"

	"github.com/ekoc03/pokedex/config"
	"github.com/ekoc03/pokedex/modules/activity"
	"github.com/ekoc03/pokedex/modules/api"
	"github.com/ekoc03/pokedex/modules/auth"
	"github.com/ekoc03/pokedex/modules/cache"
	"github.com/ekoc03/pokedex/modules/catalog"
	"github.com/ekoc03/pokedex/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	logger := app.Logger()

	// Redis is optional: without it sessions live in memory and search reads
	// the full listing from PokeAPI each time.
	var (
		cacheModule  *cache.Module
		sessions     auth.SessionStore
		listingCache *cache.Cache
	)
	if cfg.Redis.Enabled() {
		cacheModule = cache.NewModule(cfg.Redis, logger.WithModule("cache"))
		if err := app.Register(cacheModule); err != nil {
			log.Fatalf("Failed to register cache module: %v", err)
		}
		sessions = auth.NewRedisSessionStore(cacheModule.Cache())
		listingCache = cacheModule.Cache()
	}

	// Order: providers and emitters first, then the HTTP boundary that uses them
	// - auth: request-reply services login, logout, validate-token
	// - task: task store, emits TaskCreated/TaskUpdated/TaskDeleted
	// - activity: consumes task events into a per-user feed
	// - catalog: PokeAPI projection
	// - api: Fiber HTTP server, depends on auth; login limiter uses the cache storage
	authModule := auth.NewModule(cfg.DBPath, cfg.Auth, sessions, logger.WithModule("auth"))
	taskModule := task.NewModule(cfg.DBPath, logger.WithModule("task"))
	activityModule := activity.NewModule(activity.DefaultCapacity, logger.WithModule("activity"))
	catalogModule := catalog.NewModule(cfg.Catalog, listingCache, logger.WithModule("catalog"))
	apiModule := api.NewModule(
		api.Config{
			Addr:           cfg.HTTPAddr,
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Environment:    cfg.Environment,
			LoginLimit:     cfg.LoginLimit,
		},
		taskModule,
		catalogModule,
		activityModule,
		cacheModule,
		logger.WithModule("api"),
	)

	for _, module := range []mono.Module{authModule, taskModule, activityModule, catalogModule, apiModule} {
		if err := app.Register(module); err != nil {
			log.Fatalf("Failed to register %s module: %v", module.Name(), err)
		}
	}

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	logger.Info("Pokedex API started",
		"addr", cfg.HTTPAddr,
		"environment", cfg.Environment,
		"authStrategy", cfg.Auth.Strategy,
		"redis", cfg.Redis.Enabled())
	logger.Info("Press Ctrl+C to shutdown gracefully")

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				logger.Info("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	logger.Info("Application exited", "code", exitCode)
	os.Exit(exitCode)
}
