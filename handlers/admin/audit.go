package admin

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/go-institutions/database"
	"github.com/sahilchouksey/go-institutions/handlers"
	"github.com/sahilchouksey/go-institutions/model"
	"github.com/sahilchouksey/go-institutions/utils/response"
	"gorm.io/gorm"
)

// ListAuditLogs retrieves admin audit logs with pagination
// GET /api/v1/audit-logs?action=&resource=&admin_id=
func ListAuditLogs(c *fiber.Ctx, store database.Storage) error {
	page, limit, offset := handlers.PageWindow(c)

	adminID, ok := handlers.ParseFilterID(c, "admin_id")
	if !ok {
		return response.BadRequest(c, "Invalid admin_id")
	}

	query := store.GetDB().WithContext(c.UserContext()).Model(&model.AdminAuditLog{})
	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}
	if resource := c.Query("resource"); resource != "" {
		query = query.Where("resource = ?", resource)
	}
	if adminID != 0 {
		query = query.Where("admin_id = ?", adminID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count audit logs")
	}

	logs := []model.AdminAuditLog{}
	if err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&logs).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch audit logs")
	}

	return response.Paginated(c, logs, response.CalculatePagination(page, limit, total))
}

// GetAuditLog retrieves a specific audit log entry
// GET /api/v1/audit-logs/:id
func GetAuditLog(c *fiber.Ctx, store database.Storage) error {
	logID, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid log ID")
	}

	var entry model.AdminAuditLog
	if err := store.GetDB().WithContext(c.UserContext()).First(&entry, logID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Audit log not found")
		}
		return response.InternalServerError(c, "Failed to fetch audit log")
	}

	return response.Success(c, entry)
}
