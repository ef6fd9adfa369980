package api

import (
	"errors"

	domain "github.com/ekoc03/pokedex/domain/user"
	"github.com/ekoc03/pokedex/modules/auth"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
)

const (
	// UserContextKey is the key used to store the caller identity in the Fiber context.
	UserContextKey = "user"
)

// AuthMiddleware resolves the bearer token to an identity or rejects the request with 401.
func AuthMiddleware(authenticator *auth.Authenticator, logger types.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, err := authenticator.Authenticate(c.UserContext(), c.Get(fiber.HeaderAuthorization))
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrMissingHeader):
				return fail(c, fiber.StatusUnauthorized, "Authorization header missing")
			case errors.Is(err, auth.ErrMalformedToken):
				return fail(c, fiber.StatusUnauthorized, "Invalid token format")
			case errors.Is(err, auth.ErrInvalidOrExpired):
				return fail(c, fiber.StatusUnauthorized, "Invalid or expired token")
			default:
				logger.Error("Token validation failed", "path", c.Path(), "error", err)
				return fail(c, fiber.StatusInternalServerError, "Authentication failed")
			}
		}

		c.Locals(UserContextKey, identity)
		return c.Next()
	}
}

// currentUser returns the identity stored by AuthMiddleware.
func currentUser(c *fiber.Ctx) *domain.Identity {
	identity, _ := c.Locals(UserContextKey).(*domain.Identity)
	return identity
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(ErrorResponse{Error: message})
}
