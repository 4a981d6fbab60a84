package leadershiptitle

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/go-institutions/handlers"
	"github.com/sahilchouksey/go-institutions/model"
	"github.com/sahilchouksey/go-institutions/services"
	"github.com/sahilchouksey/go-institutions/utils/response"
)

const notFound = "Leadership title not found"

// LeadershipTitleHandler handles leadership title requests
type LeadershipTitleHandler struct {
	service *services.LeadershipTitleService
}

// NewLeadershipTitleHandler creates a new leadership title handler
func NewLeadershipTitleHandler(service *services.LeadershipTitleService) *LeadershipTitleHandler {
	return &LeadershipTitleHandler{service: service}
}

// View is a leadership title as returned by the API.
type View struct {
	model.LeadershipTitle
	Display string `json:"display"`
}

func newView(t model.LeadershipTitle) View {
	return View{LeadershipTitle: t, Display: t.String()}
}

// ListLeadershipTitles handles GET /api/v1/leadership-titles
func (h *LeadershipTitleHandler) ListLeadershipTitles(c *fiber.Ctx) error {
	page, limit, offset := handlers.PageWindow(c)

	titles, total, err := h.service.List(c.UserContext(), offset, limit)
	if err != nil {
		return handlers.RespondError(c, err, notFound)
	}

	views := make([]View, 0, len(titles))
	for _, t := range titles {
		views = append(views, newView(t))
	}
	return response.Paginated(c, views, response.CalculatePagination(page, limit, total))
}

// GetLeadershipTitle handles GET /api/v1/leadership-titles/:id
func (h *LeadershipTitleHandler) GetLeadershipTitle(c *fiber.Ctx) error {
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

// CreateLeadershipTitle handles POST /api/v1/leadership-titles
func (h *LeadershipTitleHandler) CreateLeadershipTitle(c *fiber.Ctx) error {
	var req services.LeadershipTitleInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	t, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		return handlers.RespondError(c, err, notFound)
	}
	return response.Created(c, newView(*t))
}

// UpdateLeadershipTitle handles PUT /api/v1/leadership-titles/:id
func (h *LeadershipTitleHandler) UpdateLeadershipTitle(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.NotFound(c, notFound)
	}

	var req services.LeadershipTitleInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	t, err := h.service.Update(c.UserContext(), id, req)
	if err != nil {
		return handlers.RespondError(c, err, notFound)
	}
	return response.SuccessWithMessage(c, "Leadership title updated successfully", newView(*t))
}

// DeleteLeadershipTitle handles DELETE /api/v1/leadership-titles/:id
func (h *LeadershipTitleHandler) DeleteLeadershipTitle(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.NotFound(c, notFound)
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return handlers.RespondError(c, err, notFound)
	}
	return response.SuccessWithMessage(c, "Leadership title deleted successfully", nil)
}
