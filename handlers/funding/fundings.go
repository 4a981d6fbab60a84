package funding

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/go-institutions/handlers"
	"github.com/sahilchouksey/go-institutions/model"
	"github.com/sahilchouksey/go-institutions/services"
	"github.com/sahilchouksey/go-institutions/utils/response"
)

const notFound = "Funding award not found"

// FundingHandler handles funding award requests
type FundingHandler struct {
	service *services.FundingService
}

// NewFundingHandler creates a new funding award handler
func NewFundingHandler(service *services.FundingService) *FundingHandler {
	return &FundingHandler{service: service}
}

// View is a funding award as returned by the API. Dates are written in
// services.DateLayout so a view can be sent back unchanged on update.
type View struct {
	model.Funding
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Display   string `json:"display"`
}

func newView(f model.Funding) View {
	return View{
		Funding:   f,
		StartDate: time.Time(f.StartDate).Format(services.DateLayout),
		EndDate:   time.Time(f.EndDate).Format(services.DateLayout),
		Display:   f.String(),
	}
}

// ListFundings handles GET /api/v1/fundings?awarded_to_id=
func (h *FundingHandler) ListFundings(c *fiber.Ctx) error {
	page, limit, offset := handlers.PageWindow(c)
	awardedToID, ok := handlers.ParseFilterID(c, "awarded_to_id")
	if !ok {
		return response.BadRequest(c, "Invalid awarded_to_id")
	}

	awards, total, err := h.service.List(c.UserContext(), awardedToID, offset, limit)
	if err != nil {
		return handlers.RespondError(c, err, notFound)
	}

	views := make([]View, 0, len(awards))
	for _, f := range awards {
		views = append(views, newView(f))
	}
	return response.Paginated(c, views, response.CalculatePagination(page, limit, total))
}

// ListExpiring handles GET /api/v1/fundings/expiring?days=
func (h *FundingHandler) ListExpiring(c *fiber.Ctx) error {
	days, err := strconv.Atoi(c.Query("days", "30"))
	if err != nil || days < 0 || days > 3650 {
		return response.BadRequest(c, "days must be between 0 and 3650")
	}

	from := time.Now().UTC()
	awards, err := h.service.EndingBetween(c.UserContext(), from, from.AddDate(0, 0, days))
	if err != nil {
		return handlers.RespondError(c, err, notFound)
	}

	views := make([]View, 0, len(awards))
	for _, f := range awards {
		views = append(views, newView(f))
	}
	return response.Success(c, views)
}

// GetFunding handles GET /api/v1/fundings/:id
func (h *FundingHandler) GetFunding(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.NotFound(c, notFound)
	}

	f, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return handlers.RespondError(c, err, notFound)
	}
	return response.Success(c, newView(*f))
}

// CreateFunding handles POST /api/v1/fundings
func (h *FundingHandler) CreateFunding(c *fiber.Ctx) error {
	var req services.FundingInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	f, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		return handlers.RespondError(c, err, notFound)
	}
	return response.Created(c, newView(*f))
}

// UpdateFunding handles PUT /api/v1/fundings/:id
func (h *FundingHandler) UpdateFunding(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.NotFound(c, notFound)
	}

	var req services.FundingInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	f, err := h.service.Update(c.UserContext(), id, req)
	if err != nil {
		return handlers.RespondError(c, err, notFound)
	}
	return response.SuccessWithMessage(c, "Funding award updated successfully", newView(*f))
}

// DeleteFunding handles DELETE /api/v1/fundings/:id
func (h *FundingHandler) DeleteFunding(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.NotFound(c, notFound)
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return handlers.RespondError(c, err, notFound)
	}
	return response.SuccessWithMessage(c, "Funding award deleted successfully", nil)
}
