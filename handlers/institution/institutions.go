package institution

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/go-institutions/handlers"
	"github.com/sahilchouksey/go-institutions/model"
	"github.com/sahilchouksey/go-institutions/services"
	"github.com/sahilchouksey/go-institutions/utils/response"
)

const notFound = "Institution not found"

// InstitutionHandler handles institution-related requests
type InstitutionHandler struct {
	service *services.InstitutionService
}

// NewInstitutionHandler creates a new institution handler
func NewInstitutionHandler(service *services.InstitutionService) *InstitutionHandler {
	return &InstitutionHandler{service: service}
}

// View is an institution as returned by the API.
type View struct {
	model.Institution
	Display string `json:"display"`
}

func newView(inst model.Institution) View {
	return View{Institution: inst, Display: inst.String()}
}

func newViews(insts []model.Institution) []View {
	views := make([]View, 0, len(insts))
	for _, inst := range insts {
		views = append(views, newView(inst))
	}
	return views
}

// Index handles GET /
func (h *InstitutionHandler) Index(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString("Hello!")
}

// Detail handles GET /:id
func (h *InstitutionHandler) Detail(c *fiber.Ctx) error {
	return h.GetInstitution(c)
}

// ListInstitutions handles GET /api/v1/institutions
func (h *InstitutionHandler) ListInstitutions(c *fiber.Ctx) error {
	page, limit, offset := handlers.PageWindow(c)

	insts, total, err := h.service.List(c.UserContext(), offset, limit)
	if err != nil {
		return handlers.RespondError(c, err, notFound)
	}
	return response.Paginated(c, newViews(insts), response.CalculatePagination(page, limit, total))
}

// GetInstitution handles GET /api/v1/institutions/:id
func (h *InstitutionHandler) GetInstitution(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.NotFound(c, notFound)
	}

	inst, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return handlers.RespondError(c, err, notFound)
	}
	return response.Success(c, newView(*inst))
}

// CreateInstitution handles POST /api/v1/institutions
func (h *InstitutionHandler) CreateInstitution(c *fiber.Ctx) error {
	var req services.InstitutionInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	inst, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		return handlers.RespondError(c, err, notFound)
	}
	return response.Created(c, newView(*inst))
}

// UpdateInstitution handles PUT /api/v1/institutions/:id
func (h *InstitutionHandler) UpdateInstitution(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.NotFound(c, notFound)
	}

	var req services.InstitutionInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	inst, err := h.service.Update(c.UserContext(), id, req)
	if err != nil {
		return handlers.RespondError(c, err, notFound)
	}
	return response.SuccessWithMessage(c, "Institution updated successfully", newView(*inst))
}

// DeleteInstitution handles DELETE /api/v1/institutions/:id
func (h *InstitutionHandler) DeleteInstitution(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.NotFound(c, notFound)
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return handlers.RespondError(c, err, notFound)
	}
	return response.SuccessWithMessage(c, "Institution deleted successfully", nil)
}

// ListChildren handles GET /api/v1/institutions/:id/children
func (h *InstitutionHandler) ListChildren(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.NotFound(c, notFound)
	}

	children, err := h.service.Children(c.UserContext(), id)
	if err != nil {
		return handlers.RespondError(c, err, notFound)
	}
	return response.Success(c, newViews(children))
}

// GetNeighbors handles GET /api/v1/institutions/:id/neighbors
func (h *InstitutionHandler) GetNeighbors(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.NotFound(c, notFound)
	}

	n, err := h.service.Neighbors(c.UserContext(), id)
	if err != nil {
		return handlers.RespondError(c, err, notFound)
	}
	return response.Success(c, n)
}

// GetRootOrder handles GET /api/v1/institutions/order
func (h *InstitutionHandler) GetRootOrder(c *fiber.Ctx) error {
	return h.getOrder(c, nil)
}

// SetRootOrder handles PUT /api/v1/institutions/order
func (h *InstitutionHandler) SetRootOrder(c *fiber.Ctx) error {
	return h.setOrder(c, nil)
}

// GetChildOrder handles GET /api/v1/institutions/:id/children/order
func (h *InstitutionHandler) GetChildOrder(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.NotFound(c, notFound)
	}
	return h.getOrder(c, &id)
}

// SetChildOrder handles PUT /api/v1/institutions/:id/children/order
func (h *InstitutionHandler) SetChildOrder(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.NotFound(c, notFound)
	}
	return h.setOrder(c, &id)
}

func (h *InstitutionHandler) getOrder(c *fiber.Ctx, parentID *uint) error {
	ids, err := h.service.Order(c.UserContext(), parentID)
	if err != nil {
		return handlers.RespondError(c, err, notFound)
	}
	return response.Success(c, handlers.OrderRequest{Order: ids})
}

func (h *InstitutionHandler) setOrder(c *fiber.Ctx, parentID *uint) error {
	var req handlers.OrderRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.service.SetOrder(c.UserContext(), parentID, req.Order); err != nil {
		return handlers.RespondError(c, err, notFound)
	}
	return response.SuccessWithMessage(c, "Order updated successfully", req)
}
