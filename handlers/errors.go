package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/go-institutions/services"
	"github.com/sahilchouksey/go-institutions/utils/response"
)

// RespondError maps a service error onto the response envelope.
// notFound is the message used for services.ErrNotFound.
func RespondError(c *fiber.Ctx, err error, notFound string) error {
	var validationErr *services.ValidationError
	var referencedErr *services.ReferencedError

	switch {
	case errors.Is(err, services.ErrNotFound):
		return response.NotFound(c, notFound)
	case errors.As(err, &validationErr):
		return response.ValidationError(c, validationErr.Fields)
	case errors.As(err, &referencedErr):
		return response.Referenced(c, referencedErr.Error())
	default:
		log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
		return response.InternalServerError(c, "")
	}
}

// ParseID reads a positive integer route parameter.
func ParseID(c *fiber.Ctx, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(param), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// ParseFilterID reads an optional positive integer query filter; 0 means unset.
func ParseFilterID(c *fiber.Ctx, key string) (uint, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// PageWindow reads page and limit query parameters, normalized the same
// way as response.CalculatePagination.
func PageWindow(c *fiber.Ctx) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.Query("page", "1"))
	limit, _ = strconv.Atoi(c.Query("limit", "10"))
	meta := response.CalculatePagination(page, limit, 0)
	return meta.CurrentPage, meta.PerPage, meta.Offset()
}

// OrderRequest is the body of the re-ranking endpoints.
type OrderRequest struct {
	Order []uint `json:"order"`
}
