package controller

import (
	"net/http"

	"availability-service/core/controller"
	"availability-service/core/errors"
	"availability-service/modules/availability/dto"
	"availability-service/modules/availability/service"

	"github.com/labstack/echo/v4"
)

// SlotsController serves the public calculated-slots endpoint. Its response
// body is the contract consumed by booking frontends, so it is returned bare
// rather than wrapped in the management API envelope.
type SlotsController struct {
	controller.BaseController
	AvailabilityService service.AvailabilityServiceInterface
}

// NewSlotsController creates a new controller
func NewSlotsController(svc service.AvailabilityServiceInterface) *SlotsController {
	return &SlotsController{
		BaseController:      controller.NewBaseController(),
		AvailabilityService: svc,
	}
}

// GetCalculatedSlots handles GET /availability/calculated-slots/:organizer_slug/
// @Summary Calculate available slots
// @Description Compute bookable slots for an organizer's event type over a date range
// @Tags Availability
// @Produce json
// @Param organizer_slug path string true "Organizer slug"
// @Param event_type_slug query string true "Event type slug"
// @Param start_date query string true "Range start (YYYY-MM-DD)"
// @Param end_date query string true "Range end (YYYY-MM-DD), inclusive"
// @Param invitee_timezone query string false "IANA timezone of the invitee, default UTC"
// @Param attendee_count query int false "Seats requested, default 1"
// @Param invitee_timezones query string false "Comma-separated IANA names for multi-invitee fairness"
// @Success 200 {object} dto.CalculatedSlotsResponse
// @Failure 400 {object} controller.ErrorResponse
// @Failure 404 {object} controller.ErrorResponse
// @Router /availability/calculated-slots/{organizer_slug}/ [get]
func (c *SlotsController) GetCalculatedSlots(ctx echo.Context) error {
	var query dto.CalculatedSlotsQuery
	if err := ctx.Bind(&query); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid query parameters")
	}
	query.OrganizerSlug = ctx.Param("organizer_slug")

	result, appErr := c.AvailabilityService.GetCalculatedSlots(ctx.Request().Context(), &query)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return ctx.JSON(http.StatusOK, result)
}
