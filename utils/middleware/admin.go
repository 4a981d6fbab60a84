package middleware

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/go-institutions/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// auditAction names the kind of write a request performs
func auditAction(c *fiber.Ctx) string {
	switch {
	case strings.HasSuffix(c.Path(), "/order"):
		return "reorder"
	case c.Method() == fiber.MethodPost:
		return "create"
	case c.Method() == fiber.MethodDelete:
		return "delete"
	default:
		return "update"
	}
}

// auditResource returns the collection segment of an /api/v1 path
func auditResource(path string) string {
	path = strings.TrimPrefix(path, "/api/v1/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	return path
}

// AdminAuditLog records successful admin writes. It must run after
// RequireAdmin so the token claims are in the context.
func AdminAuditLog(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Execute the actual handler
		if err := c.Next(); err != nil {
			return err
		}

		status := c.Response().StatusCode()
		if status >= fiber.StatusBadRequest {
			return nil
		}

		adminID, ok := GetUserID(c)
		if !ok {
			return nil
		}
		adminUsername, _ := GetUsername(c)

		var resourceID uint
		if id, err := strconv.ParseUint(c.Params("id"), 10, 64); err == nil {
			resourceID = uint(id)
		} else {
			// Creates carry the new id in the response envelope
			var created struct {
				Data struct {
					ID uint `json:"id"`
				} `json:"data"`
			}
			if json.Unmarshal(c.Response().Body(), &created) == nil {
				resourceID = created.Data.ID
			}
		}

		var newValue datatypes.JSON
		if body := c.Body(); len(body) > 0 && json.Valid(body) {
			newValue = datatypes.JSON(append([]byte(nil), body...))
		}

		auditLog := model.AdminAuditLog{
			AdminID:       adminID,
			AdminUsername: adminUsername,
			Action:        auditAction(c),
			Resource:      auditResource(c.Path()),
			ResourceID:    resourceID,
			NewValue:      newValue,
			Status:        status,
			IPAddress:     c.IP(),
			UserAgent:     c.Get(fiber.HeaderUserAgent),
			Description:   c.Method() + " " + c.Path(),
		}
		if err := db.WithContext(c.UserContext()).Create(&auditLog).Error; err != nil {
			log.Warnf("Failed to record audit log for %s %s: %v", c.Method(), c.Path(), err)
		}
		return nil
	}
}
