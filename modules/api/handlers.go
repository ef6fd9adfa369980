package api

import (
	"errors"
	"time"

	"github.com/ekoc03/pokedex/modules/auth"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	auth        auth.AuthPort
	tasks       TaskService
	catalog     CatalogService
	activity    ActivityFeed
	validate    *validator.Validate
	maxLimit    int
	environment string
	logger      types.Logger
	now         func() time.Time
}

// NewHandlers creates a new Handlers instance. maxLimit caps the catalog page size.
func NewHandlers(
	authPort auth.AuthPort,
	tasks TaskService,
	catalog CatalogService,
	activity ActivityFeed,
	maxLimit int,
	environment string,
	logger types.Logger,
) *Handlers {
	return &Handlers{
		auth:        authPort,
		tasks:       tasks,
		catalog:     catalog,
		activity:    activity,
		validate:    validator.New(),
		maxLimit:    maxLimit,
		environment: environment,
		logger:      logger,
		now:         time.Now,
	}
}

// Health handles GET /health.
func (h *Handlers) Health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:      "ok",
		Timestamp:   h.now().UTC(),
		Environment: h.environment,
	})
}

// Login handles POST /api/auth/login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fail(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}

	if err := h.validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Username and password are required")
	}

	result, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return fail(c, fiber.StatusUnauthorized, "Invalid credentials")
		}
		h.logger.Error("Login failed", "username", req.Username, "error", err)
		return fail(c, fiber.StatusInternalServerError, "Login failed")
	}

	return c.JSON(LoginResponse{
		Token:    result.Token,
		Username: result.Username,
	})
}

// Logout handles POST /api/auth/logout. It succeeds whether or not the token was live.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	if token, err := auth.BearerToken(c.Get(fiber.HeaderAuthorization)); err == nil {
		if err := h.auth.Logout(c.UserContext(), token); err != nil {
			h.logger.Warn("Logout failed", "error", err)
		}
	}
	return c.JSON(MessageResponse{Message: "Logged out successfully"})
}

// Activity handles GET /api/activity.
func (h *Handlers) Activity(c *fiber.Ctx) error {
	user := currentUser(c)
	events := h.activity.Recent(user.UserID, c.QueryInt("limit", 0))
	return c.JSON(ActivityResponse{
		Events: events,
		Count:  len(events),
	})
}

// NotFound is the fallback for unmatched routes.
func (h *Handlers) NotFound(c *fiber.Ctx) error {
	return fail(c, fiber.StatusNotFound, "Route not found")
}
