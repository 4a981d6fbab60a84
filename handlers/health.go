package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/go-institutions/database"
	"github.com/sahilchouksey/go-institutions/utils/response"
)

// HandleCheckHealth reports whether the database answers.
func HandleCheckHealth(c *fiber.Ctx, store database.Storage) error {
	if err := store.HealthCheck(); err != nil {
		return response.Unavailable(c, "Database unavailable", err.Error())
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
