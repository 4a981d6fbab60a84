package fundingtype

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/go-institutions/handlers"
	"github.com/sahilchouksey/go-institutions/model"
	"github.com/sahilchouksey/go-institutions/services"
	"github.com/sahilchouksey/go-institutions/utils/response"
)

const notFound = "Funding type not found"

// FundingTypeHandler handles funding type requests
type FundingTypeHandler struct {
	service *services.FundingTypeService
}

// NewFundingTypeHandler creates a new funding type handler
func NewFundingTypeHandler(service *services.FundingTypeService) *FundingTypeHandler {
	return &FundingTypeHandler{service: service}
}

// View is a funding type as returned by the API.
type View struct {
	model.FundingType
	Display string `json:"display"`
}

func newView(t model.FundingType) View {
	return View{FundingType: t, Display: t.String()}
}

// ListFundingTypes handles GET /api/v1/funding-types
func (h *FundingTypeHandler) ListFundingTypes(c *fiber.Ctx) error {
	page, limit, offset := handlers.PageWindow(c)

	types, total, err := h.service.List(c.UserContext(), offset, limit)
	if err != nil {
		return handlers.RespondError(c, err, notFound)
	}

	views := make([]View, 0, len(types))
	for _, t := range types {
		views = append(views, newView(t))
	}
	return response.Paginated(c, views, response.CalculatePagination(page, limit, total))
}

// GetFundingType handles GET /api/v1/funding-types/:id
func (h *FundingTypeHandler) GetFundingType(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.NotFound(c, notFound)
	}

	t, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return handlers.RespondError(c, err, notFound)
	}
	return response.Success(c, newView(*t))
}

// CreateFundingType handles POST /api/v1/funding-types
func (h *FundingTypeHandler) CreateFundingType(c *fiber.Ctx) error {
	var req services.FundingTypeInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	t, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		return handlers.RespondError(c, err, notFound)
	}
	return response.Created(c, newView(*t))
}

// UpdateFundingType handles PUT /api/v1/funding-types/:id
func (h *FundingTypeHandler) UpdateFundingType(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.NotFound(c, notFound)
	}

	var req services.FundingTypeInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	t, err := h.service.Update(c.UserContext(), id, req)
	if err != nil {
		return handlers.RespondError(c, err, notFound)
	}
	return response.SuccessWithMessage(c, "Funding type updated successfully", newView(*t))
}

// DeleteFundingType handles DELETE /api/v1/funding-types/:id
func (h *FundingTypeHandler) DeleteFundingType(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.NotFound(c, notFound)
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return handlers.RespondError(c, err, notFound)
	}
	return response.SuccessWithMessage(c, "Funding type deleted successfully", nil)
}
