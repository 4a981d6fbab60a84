package program

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/go-institutions/handlers"
	"github.com/sahilchouksey/go-institutions/model"
	"github.com/sahilchouksey/go-institutions/services"
	"github.com/sahilchouksey/go-institutions/utils/response"
)

const notFound = "Program not found"

// ProgramHandler handles program-related requests
type ProgramHandler struct {
	service *services.ProgramService
}

// NewProgramHandler creates a new program handler
func NewProgramHandler(service *services.ProgramService) *ProgramHandler {
	return &ProgramHandler{service: service}
}

// View is a program as returned by the API.
type View struct {
	model.Program
	Display string `json:"display"`
}

func newView(p model.Program) View {
	return View{Program: p, Display: p.String()}
}

// ListPrograms handles GET /api/v1/programs?institution_id=
func (h *ProgramHandler) ListPrograms(c *fiber.Ctx) error {
	page, limit, offset := handlers.PageWindow(c)
	institutionID, ok := handlers.ParseFilterID(c, "institution_id")
	if !ok {
		return response.BadRequest(c, "Invalid institution_id")
	}

	programs, total, err := h.service.List(c.UserContext(), institutionID, offset, limit)
	if err != nil {
		return handlers.RespondError(c, err, notFound)
	}

	views := make([]View, 0, len(programs))
	for _, p := range programs {
		views = append(views, newView(p))
	}
	return response.Paginated(c, views, response.CalculatePagination(page, limit, total))
}

// GetProgram handles GET /api/v1/programs/:id
func (h *ProgramHandler) GetProgram(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.NotFound(c, notFound)
	}

	p, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return handlers.RespondError(c, err, notFound)
	}
	return response.Success(c, newView(*p))
}

// CreateProgram handles POST /api/v1/programs
func (h *ProgramHandler) CreateProgram(c *fiber.Ctx) error {
	var req services.UnitInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	p, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		return handlers.RespondError(c, err, notFound)
	}
	return response.Created(c, newView(*p))
}

// UpdateProgram handles PUT /api/v1/programs/:id
func (h *ProgramHandler) UpdateProgram(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.NotFound(c, notFound)
	}

	var req services.UnitInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	p, err := h.service.Update(c.UserContext(), id, req)
	if err != nil {
		return handlers.RespondError(c, err, notFound)
	}
	return response.SuccessWithMessage(c, "Program updated successfully", newView(*p))
}

// DeleteProgram handles DELETE /api/v1/programs/:id
func (h *ProgramHandler) DeleteProgram(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.NotFound(c, notFound)
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return handlers.RespondError(c, err, notFound)
	}
	return response.SuccessWithMessage(c, "Program deleted successfully", nil)
}

// GetOrder handles GET /api/v1/institutions/:id/programs/order
func (h *ProgramHandler) GetOrder(c *fiber.Ctx) error {
	institutionID, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.NotFound(c, "Institution not found")
	}

	ids, err := h.service.Order(c.UserContext(), institutionID)
	if err != nil {
		return handlers.RespondError(c, err, "Institution not found")
	}
	return response.Success(c, handlers.OrderRequest{Order: ids})
}

// SetOrder handles PUT /api/v1/institutions/:id/programs/order
func (h *ProgramHandler) SetOrder(c *fiber.Ctx) error {
	institutionID, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.NotFound(c, "Institution not found")
	}

	var req handlers.OrderRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.service.SetOrder(c.UserContext(), institutionID, req.Order); err != nil {
		return handlers.RespondError(c, err, "Institution not found")
	}
	return response.SuccessWithMessage(c, "Order updated successfully", req)
}
