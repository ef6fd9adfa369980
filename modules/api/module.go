package api

import (
	"context"
	"fmt"
	"time"

	"github.com/ekoc03/pokedex/config"
	"github.com/ekoc03/pokedex/modules/activity"
	"github.com/ekoc03/pokedex/modules/auth"
	"github.com/ekoc03/pokedex/modules/cache"
	"github.com/ekoc03/pokedex/modules/catalog"
	"github.com/ekoc03/pokedex/modules/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Config holds the HTTP settings of the API module.
type Config struct {
	Addr           string
	AllowedOrigins string
	Environment    string
	LoginLimit     config.LoginLimit
}

// AppOptions configures the middleware of a Fiber app built by NewApp.
type AppOptions struct {
	AllowedOrigins string
	LoginLimit     config.LoginLimit
	// LimiterStorage backs the login limiter. Nil keeps the counters in memory.
	LimiterStorage fiber.Storage
}

// Module is the HTTP API module.
type Module struct {
	app            *fiber.App
	cfg            Config
	authContainer  mono.ServiceContainer
	authAdapter    auth.AuthPort
	taskModule     *task.Module
	catalogModule  *catalog.Module
	activityModule *activity.Module
	cacheModule    *cache.Module
	logger         types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.DependentModule       = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates the API module. cacheModule is optional; when set, the
// login limiter keeps its counters in Redis.
func NewModule(
	cfg Config,
	taskModule *task.Module,
	catalogModule *catalog.Module,
	activityModule *activity.Module,
	cacheModule *cache.Module,
	logger types.Logger,
) *Module {
	return &Module{
		cfg:            cfg,
		taskModule:     taskModule,
		catalogModule:  catalogModule,
		activityModule: activityModule,
		cacheModule:    cacheModule,
		logger:         logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *Module) Dependencies() []string {
	return []string{"auth"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *Module) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.authContainer = container
		m.authAdapter = auth.NewAuthAdapter(container)
	}
}

// Start builds the Fiber app and starts listening.
func (m *Module) Start(_ context.Context) error {
	if m.authAdapter == nil {
		return fmt.Errorf("auth dependency not set")
	}
	if m.taskModule.Service() == nil {
		return fmt.Errorf("task module not started")
	}
	if m.catalogModule.Service() == nil {
		return fmt.Errorf("catalog module not started")
	}

	handlers := NewHandlers(
		m.authAdapter,
		m.taskModule.Service(),
		m.catalogModule.Service(),
		m.activityModule,
		m.catalogModule.MaxLimit(),
		m.cfg.Environment,
		m.logger,
	)
	opts := AppOptions{
		AllowedOrigins: m.cfg.AllowedOrigins,
		LoginLimit:     m.cfg.LoginLimit,
	}
	if m.cacheModule != nil {
		opts.LimiterStorage = m.cacheModule.Storage()
	}
	m.app = NewApp(handlers, auth.NewAuthenticator(m.authAdapter), opts, m.logger)

	// Start server in goroutine with startup error detection
	errCh := make(chan error, 1)
	go func() {
		if err := m.app.Listen(m.cfg.Addr); err != nil {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server failed to start: %w", err)
	case <-time.After(100 * time.Millisecond):
	}

	m.logger.Info("HTTP server started", "addr", m.cfg.Addr, "environment", m.cfg.Environment)
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (m *Module) Stop(ctx context.Context) error {
	if m.app != nil {
		if err := m.app.ShutdownWithContext(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}
	m.logger.Info("HTTP server stopped")
	return nil
}

// Health returns the health status of the module.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"addr": m.cfg.Addr,
		},
	}
}

// NewApp wires middleware and routes onto a new Fiber app.
func NewApp(h *Handlers, authenticator *auth.Authenticator, opts AppOptions, log types.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(log),
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: opts.AllowedOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Content-Type,Authorization",
	}))

	app.Get("/health", h.Health)

	api := app.Group("/api")

	authRoutes := api.Group("/auth")
	if opts.LoginLimit.Max > 0 {
		authRoutes.Post("/login", loginLimiter(opts), h.Login)
	} else {
		authRoutes.Post("/login", h.Login)
	}
	authRoutes.Post("/logout", h.Logout)

	requireAuth := AuthMiddleware(authenticator, log)

	tasks := api.Group("/tasks", requireAuth)
	tasks.Post("/", h.CreateTask)
	tasks.Get("/", h.ListTasks)
	tasks.Get("/my-tasks", h.MyTasks)
	tasks.Get("/:id", h.GetTask)
	tasks.Put("/:id", h.UpdateTask)
	tasks.Delete("/:id", h.DeleteTask)

	pokemons := api.Group("/pokemons", requireAuth)
	pokemons.Get("/", h.ListPokemons)
	pokemons.Get("/:id", h.GetPokemon)

	api.Get("/activity", requireAuth, h.Activity)

	app.Use(h.NotFound)

	return app
}

// loginLimiter throttles login attempts per client IP.
func loginLimiter(opts AppOptions) fiber.Handler {
	cfg := limiter.Config{
		Max:        opts.LoginLimit.Max,
		Expiration: opts.LoginLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "login:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return fail(c, fiber.StatusTooManyRequests, "Too many login attempts, please try again later")
		},
	}
	if opts.LimiterStorage != nil {
		cfg.Storage = opts.LimiterStorage
	}
	return limiter.New(cfg)
}

// errorHandler flattens errors that escaped a handler into the {error} body.
func errorHandler(log types.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			message = e.Message
		} else {
			log.Error("Unhandled request error", "method", c.Method(), "path", c.Path(), "error", err)
		}

		return c.Status(code).JSON(ErrorResponse{Error: message})
	}
}
