package response

import (
	"github.com/gofiber/fiber/v2"
)

// Error codes carried in ErrorDetail.Code.
const (
	CodeBadRequest   = "BAD_REQUEST"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeValidation   = "VALIDATION_ERROR"
	CodeReferenced   = "REFERENCED"
	CodeUnhealthy    = "UNHEALTHY"
	CodeHTTP         = "HTTP_ERROR"
	CodeInternal     = "INTERNAL_ERROR"
)

// Response is the envelope of every JSON reply.
type Response struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    interface{}  `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail describes a failed request. Fields is set only for
// CodeValidation and maps JSON field names to messages.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// PaginationMeta contains pagination metadata
type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
}

// PaginatedResponse is the envelope of list endpoints.
type PaginatedResponse struct {
	Success    bool           `json:"success"`
	Message    string         `json:"message,omitempty"`
	Data       interface{}    `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}

func send(c *fiber.Ctx, status int, body Response) error {
	return c.Status(status).JSON(body)
}

// Success returns a 200 with data
func Success(c *fiber.Ctx, data interface{}) error {
	return send(c, fiber.StatusOK, Response{Success: true, Data: data})
}

// SuccessWithMessage returns a 200 with a message, used by updates and deletes
func SuccessWithMessage(c *fiber.Ctx, message string, data interface{}) error {
	return send(c, fiber.StatusOK, Response{Success: true, Message: message, Data: data})
}

// Created returns a 201 carrying the new record
func Created(c *fiber.Ctx, data interface{}) error {
	return send(c, fiber.StatusCreated, Response{Success: true, Message: "Resource created successfully", Data: data})
}

// Error returns an error envelope
func Error(c *fiber.Ctx, statusCode int, message string, code string) error {
	return ErrorWithDetails(c, statusCode, message, code, "")
}

// ErrorWithDetails returns an error envelope with details
func ErrorWithDetails(c *fiber.Ctx, statusCode int, message string, code string, details string) error {
	return send(c, statusCode, Response{
		Error: &ErrorDetail{Code: code, Message: message, Details: details},
	})
}

// BadRequest returns a 400 for malformed bodies and query parameters
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message, CodeBadRequest)
}

// Unauthorized returns a 401
func Unauthorized(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Unauthorized access"
	}
	return Error(c, fiber.StatusUnauthorized, message, CodeUnauthorized)
}

// Forbidden returns a 403
func Forbidden(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Access forbidden"
	}
	return Error(c, fiber.StatusForbidden, message, CodeForbidden)
}

// NotFound returns a 404
func NotFound(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Resource not found"
	}
	return Error(c, fiber.StatusNotFound, message, CodeNotFound)
}

// Referenced returns a 409 for a delete refused because other records still
// point at the target. details names the dependents.
func Referenced(c *fiber.Ctx, details string) error {
	return ErrorWithDetails(c, fiber.StatusConflict, "Record is still referenced", CodeReferenced, details)
}

// ValidationError returns a 422 naming the rejected fields
func ValidationError(c *fiber.Ctx, fields map[string]string) error {
	return send(c, fiber.StatusUnprocessableEntity, Response{
		Error: &ErrorDetail{Code: CodeValidation, Message: "Validation failed", Fields: fields},
	})
}

// Unavailable returns a 503 when a backing store does not answer
func Unavailable(c *fiber.Ctx, message string, details string) error {
	return ErrorWithDetails(c, fiber.StatusServiceUnavailable, message, CodeUnhealthy, details)
}

// InternalServerError returns a 500; the cause is logged, never sent
func InternalServerError(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Internal server error"
	}
	return Error(c, fiber.StatusInternalServerError, message, CodeInternal)
}

// Paginated returns one page of a list
func Paginated(c *fiber.Ctx, data interface{}, pagination PaginationMeta) error {
	return c.Status(fiber.StatusOK).JSON(PaginatedResponse{
		Success:    true,
		Data:       data,
		Pagination: pagination,
	})
}

// CalculatePagination normalizes page and limit (limit 1..100, default 10)
// and derives the page count.
func CalculatePagination(page, limit int, total int64) PaginationMeta {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}

	return PaginationMeta{
		CurrentPage: page,
		PerPage:     limit,
		Total:       total,
		TotalPages:  totalPages,
	}
}

// Offset returns the number of rows to skip for the current page
func (p PaginationMeta) Offset() int {
	return (p.CurrentPage - 1) * p.PerPage
}
