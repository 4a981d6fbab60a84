package workgroup

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/go-institutions/handlers"
	"github.com/sahilchouksey/go-institutions/model"
	"github.com/sahilchouksey/go-institutions/services"
	"github.com/sahilchouksey/go-institutions/utils/response"
)

const notFound = "Workgroup not found"

// WorkgroupHandler handles workgroup-related requests
type WorkgroupHandler struct {
	service *services.WorkgroupService
}

// NewWorkgroupHandler creates a new workgroup handler
func NewWorkgroupHandler(service *services.WorkgroupService) *WorkgroupHandler {
	return &WorkgroupHandler{service: service}
}

// View is a workgroup as returned by the API.
type View struct {
	model.Workgroup
	Display string `json:"display"`
}

func newView(w model.Workgroup) View {
	return View{Workgroup: w, Display: w.String()}
}

// ListWorkgroups handles GET /api/v1/workgroups?department_id=
func (h *WorkgroupHandler) ListWorkgroups(c *fiber.Ctx) error {
	page, limit, offset := handlers.PageWindow(c)
	departmentID, ok := handlers.ParseFilterID(c, "department_id")
	if !ok {
		return response.BadRequest(c, "Invalid department_id")
	}

	workgroups, total, err := h.service.List(c.UserContext(), departmentID, offset, limit)
	if err != nil {
		return handlers.RespondError(c, err, notFound)
	}

	views := make([]View, 0, len(workgroups))
	for _, w := range workgroups {
		views = append(views, newView(w))
	}
	return response.Paginated(c, views, response.CalculatePagination(page, limit, total))
}

// GetWorkgroup handles GET /api/v1/workgroups/:id
func (h *WorkgroupHandler) GetWorkgroup(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.NotFound(c, notFound)
	}

	w, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return handlers.RespondError(c, err, notFound)
	}
	return response.Success(c, newView(*w))
}

// CreateWorkgroup handles POST /api/v1/workgroups
func (h *WorkgroupHandler) CreateWorkgroup(c *fiber.Ctx) error {
	var req services.WorkgroupInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	w, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		return handlers.RespondError(c, err, notFound)
	}
	return response.Created(c, newView(*w))
}

// UpdateWorkgroup handles PUT /api/v1/workgroups/:id
func (h *WorkgroupHandler) UpdateWorkgroup(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.NotFound(c, notFound)
	}

	var req services.WorkgroupInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	w, err := h.service.Update(c.UserContext(), id, req)
	if err != nil {
		return handlers.RespondError(c, err, notFound)
	}
	return response.SuccessWithMessage(c, "Workgroup updated successfully", newView(*w))
}

// DeleteWorkgroup handles DELETE /api/v1/workgroups/:id
func (h *WorkgroupHandler) DeleteWorkgroup(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.NotFound(c, notFound)
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return handlers.RespondError(c, err, notFound)
	}
	return response.SuccessWithMessage(c, "Workgroup deleted successfully", nil)
}
