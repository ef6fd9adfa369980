package api

import (
	"errors"
	"math"
	"strconv"

	"github.com/ekoc03/pokedex/modules/catalog"
	"github.com/gofiber/fiber/v2"
)

const (
	defaultPage  = 1
	defaultLimit = 20
)

// ListPokemons handles GET /api/pokemons?page=&limit=&search=.
func (h *Handlers) ListPokemons(c *fiber.Ctx) error {
	page := positiveQuery(c, "page", defaultPage)
	limit := positiveQuery(c, "limit", defaultLimit)
	if h.maxLimit > 0 && limit > h.maxLimit {
		limit = h.maxLimit
	}
	// Keep (page-1)*limit within an int.
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}

	result, err := h.catalog.ListPage(c.UserContext(), page, limit, c.Query("search"))
	if err != nil {
		h.logger.Error("Failed to fetch pokemons", "page", page, "limit", limit, "error", err)
		return fail(c, fiber.StatusInternalServerError, "Failed to fetch pokemons")
	}
	return c.JSON(result)
}

// GetPokemon handles GET /api/pokemons/:id.
func (h *Handlers) GetPokemon(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id < 1 {
		return fail(c, fiber.StatusBadRequest, "Invalid pokemon ID")
	}

	detail, err := h.catalog.GetDetail(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, "Pokemon not found")
		}
		h.logger.Error("Failed to fetch pokemon", "id", id, "error", err)
		return fail(c, fiber.StatusInternalServerError, "Failed to fetch pokemon")
	}
	return c.JSON(detail)
}

// positiveQuery reads an integer query parameter, falling back when it is missing, malformed or below 1.
func positiveQuery(c *fiber.Ctx, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}
