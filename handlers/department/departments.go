package department

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/go-institutions/handlers"
	"github.com/sahilchouksey/go-institutions/model"
	"github.com/sahilchouksey/go-institutions/services"
	"github.com/sahilchouksey/go-institutions/utils/response"
)

const notFound = "Department not found"

// DepartmentHandler handles department-related requests
type DepartmentHandler struct {
	service *services.DepartmentService
}

// NewDepartmentHandler creates a new department handler
func NewDepartmentHandler(service *services.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{service: service}
}

// View is a department as returned by the API.
type View struct {
	model.Department
	Display string `json:"display"`
}

func newView(d model.Department) View {
	return View{Department: d, Display: d.String()}
}

// ListDepartments handles GET /api/v1/departments?institution_id=
func (h *DepartmentHandler) ListDepartments(c *fiber.Ctx) error {
	page, limit, offset := handlers.PageWindow(c)
	institutionID, ok := handlers.ParseFilterID(c, "institution_id")
	if !ok {
		return response.BadRequest(c, "Invalid institution_id")
	}

	departments, total, err := h.service.List(c.UserContext(), institutionID, offset, limit)
	if err != nil {
		return handlers.RespondError(c, err, notFound)
	}

	views := make([]View, 0, len(departments))
	for _, d := range departments {
		views = append(views, newView(d))
	}
	return response.Paginated(c, views, response.CalculatePagination(page, limit, total))
}

// GetDepartment handles GET /api/v1/departments/:id
func (h *DepartmentHandler) GetDepartment(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.NotFound(c, notFound)
	}

	d, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return handlers.RespondError(c, err, notFound)
	}
	return response.Success(c, newView(*d))
}

// CreateDepartment handles POST /api/v1/departments
func (h *DepartmentHandler) CreateDepartment(c *fiber.Ctx) error {
	var req services.UnitInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	d, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		return handlers.RespondError(c, err, notFound)
	}
	return response.Created(c, newView(*d))
}

// UpdateDepartment handles PUT /api/v1/departments/:id
func (h *DepartmentHandler) UpdateDepartment(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.NotFound(c, notFound)
	}

	var req services.UnitInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	d, err := h.service.Update(c.UserContext(), id, req)
	if err != nil {
		return handlers.RespondError(c, err, notFound)
	}
	return response.SuccessWithMessage(c, "Department updated successfully", newView(*d))
}

// DeleteDepartment handles DELETE /api/v1/departments/:id
func (h *DepartmentHandler) DeleteDepartment(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.NotFound(c, notFound)
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return handlers.RespondError(c, err, notFound)
	}
	return response.SuccessWithMessage(c, "Department deleted successfully", nil)
}

// GetOrder handles GET /api/v1/institutions/:id/departments/order
func (h *DepartmentHandler) GetOrder(c *fiber.Ctx) error {
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

// SetOrder handles PUT /api/v1/institutions/:id/departments/order
func (h *DepartmentHandler) SetOrder(c *fiber.Ctx) error {
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
