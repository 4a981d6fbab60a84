package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculatePagination(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		total      int64
		wantPage   int
		wantLimit  int
		wantPages  int
		wantOffset int
	}{
		{name: "first page", page: 1, limit: 10, total: 25, wantPage: 1, wantLimit: 10, wantPages: 3, wantOffset: 0},
		{name: "third page", page: 3, limit: 10, total: 25, wantPage: 3, wantLimit: 10, wantPages: 3, wantOffset: 20},
		{name: "bad input", page: 0, limit: 0, total: 5, wantPage: 1, wantLimit: 10, wantPages: 1, wantOffset: 0},
		{name: "limit capped", page: 2, limit: 500, total: 150, wantPage: 2, wantLimit: 100, wantPages: 2, wantOffset: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := CalculatePagination(tt.page, tt.limit, tt.total)
			assert.Equal(t, tt.wantPage, p.CurrentPage)
			assert.Equal(t, tt.wantLimit, p.PerPage)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.wantOffset, p.Offset())
		})
	}
}

func TestErrorEnvelopes(t *testing.T) {
	tests := []struct {
		name       string
		handler    fiber.Handler
		wantStatus int
		wantCode   string
		check      func(t *testing.T, detail *ErrorDetail)
	}{
		{
			name:       "referenced",
			handler:    func(c *fiber.Ctx) error { return Referenced(c, "cannot delete user 1: referenced by 2 funding") },
			wantStatus: http.StatusConflict,
			wantCode:   CodeReferenced,
			check: func(t *testing.T, detail *ErrorDetail) {
				assert.Equal(t, "cannot delete user 1: referenced by 2 funding", detail.Details)
			},
		},
		{
			name:       "validation",
			handler:    func(c *fiber.Ctx) error { return ValidationError(c, map[string]string{"title": "required"}) },
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   CodeValidation,
			check: func(t *testing.T, detail *ErrorDetail) {
				assert.Equal(t, map[string]string{"title": "required"}, detail.Fields)
			},
		},
		{
			name:       "unavailable",
			handler:    func(c *fiber.Ctx) error { return Unavailable(c, "Database unavailable", "dial tcp: refused") },
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   CodeUnhealthy,
		},
		{
			name:       "not found default message",
			handler:    func(c *fiber.Ctx) error { return NotFound(c, "") },
			wantStatus: http.StatusNotFound,
			wantCode:   CodeNotFound,
			check: func(t *testing.T, detail *ErrorDetail) {
				assert.Equal(t, "Resource not found", detail.Message)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", tt.handler)

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body Response
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			if tt.check != nil {
				tt.check(t, body.Error)
			}
		})
	}
}
