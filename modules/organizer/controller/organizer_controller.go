package controller

import (
	"availability-service/core/controller"
	"availability-service/core/entity"
	"availability-service/core/errors"
	"availability-service/core/params"
	"availability-service/modules/organizer/dto"
	"availability-service/modules/organizer/service"

	"github.com/labstack/echo/v4"
)

// OrganizerController handles organizer and event type HTTP requests
type OrganizerController struct {
	controller.BaseController
	OrganizerService service.OrganizerServiceInterface
}

// NewOrganizerController creates a new controller
func NewOrganizerController(svc service.OrganizerServiceInterface) *OrganizerController {
	return &OrganizerController{
		BaseController:   controller.NewBaseController(),
		OrganizerService: svc,
	}
}

// CreateOrganizer handles POST /organizers
// @Summary Create organizer
// @Description Create a new organizer with a generated public slug
// @Tags Organizer
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateOrganizerRequest true "Organizer payload"
// @Success 200 {object} dto.OrganizerResponse
// @Failure 400 {object} errors.AppError
// @Router /private/organizers [post]
func (c *OrganizerController) CreateOrganizer(ctx echo.Context) error {
	var req dto.CreateOrganizerRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.OrganizerService.CreateOrganizer(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Organizer created successfully")
}

// GetOrganizer handles GET /organizers/:slug
// @Summary Get organizer
// @Description Get an organizer by public slug
// @Tags Organizer
// @Security BearerAuth
// @Produce json
// @Param slug path string true "Organizer slug"
// @Success 200 {object} dto.OrganizerResponse
// @Failure 404 {object} errors.AppError
// @Router /private/organizers/{slug} [get]
func (c *OrganizerController) GetOrganizer(ctx echo.Context) error {
	result, appErr := c.OrganizerService.GetOrganizer(ctx.Request().Context(), ctx.Param("slug"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// ListOrganizers handles GET /organizers
// @Summary List organizers
// @Description List organizers with pagination
// @Tags Organizer
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} entity.Pagination[dto.OrganizerResponse]
// @Router /private/organizers [get]
func (c *OrganizerController) ListOrganizers(ctx echo.Context) error {
	qp := params.NewQueryParams(ctx)

	items, total, appErr := c.OrganizerService.ListOrganizers(ctx.Request().Context(), qp.Page, qp.Limit)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, entity.NewPagination(items, total, qp.Page, qp.Limit), "Success")
}

// UpdateOrganizer handles PUT /organizers/:slug
// @Summary Update organizer
// @Description Update organizer fields, partial body
// @Tags Organizer
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param slug path string true "Organizer slug"
// @Param request body dto.UpdateOrganizerRequest true "Fields to update"
// @Success 200 {object} dto.OrganizerResponse
// @Failure 400 {object} errors.AppError
// @Router /private/organizers/{slug} [put]
func (c *OrganizerController) UpdateOrganizer(ctx echo.Context) error {
	var req dto.UpdateOrganizerRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.OrganizerService.UpdateOrganizer(ctx.Request().Context(), ctx.Param("slug"), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Organizer updated successfully")
}

// DeleteOrganizer handles DELETE /organizers/:slug
// @Summary Delete organizer
// @Tags Organizer
// @Security BearerAuth
// @Param slug path string true "Organizer slug"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.AppError
// @Router /private/organizers/{slug} [delete]
func (c *OrganizerController) DeleteOrganizer(ctx echo.Context) error {
	if appErr := c.OrganizerService.DeleteOrganizer(ctx.Request().Context(), ctx.Param("slug")); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Organizer deleted successfully")
}

// CreateEventType handles POST /organizers/:slug/event-types
// @Summary Create event type
// @Description Create an event type for an organizer
// @Tags Organizer
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param slug path string true "Organizer slug"
// @Param request body dto.CreateEventTypeRequest true "Event type payload"
// @Success 200 {object} dto.EventTypeResponse
// @Failure 400 {object} errors.AppError
// @Router /private/organizers/{slug}/event-types [post]
func (c *OrganizerController) CreateEventType(ctx echo.Context) error {
	var req dto.CreateEventTypeRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.OrganizerService.CreateEventType(ctx.Request().Context(), ctx.Param("slug"), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Event type created successfully")
}

// ListEventTypes handles GET /organizers/:slug/event-types
// @Summary List event types
// @Tags Organizer
// @Security BearerAuth
// @Produce json
// @Param slug path string true "Organizer slug"
// @Success 200 {array} dto.EventTypeResponse
// @Failure 404 {object} errors.AppError
// @Router /private/organizers/{slug}/event-types [get]
func (c *OrganizerController) ListEventTypes(ctx echo.Context) error {
	result, appErr := c.OrganizerService.ListEventTypes(ctx.Request().Context(), ctx.Param("slug"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// UpdateEventType handles PUT /organizers/:slug/event-types/:event_type_slug
// @Summary Update event type
// @Tags Organizer
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param slug path string true "Organizer slug"
// @Param event_type_slug path string true "Event type slug"
// @Param request body dto.UpdateEventTypeRequest true "Fields to update"
// @Success 200 {object} dto.EventTypeResponse
// @Failure 400 {object} errors.AppError
// @Router /private/organizers/{slug}/event-types/{event_type_slug} [put]
func (c *OrganizerController) UpdateEventType(ctx echo.Context) error {
	var req dto.UpdateEventTypeRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.OrganizerService.UpdateEventType(ctx.Request().Context(), ctx.Param("slug"), ctx.Param("event_type_slug"), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Event type updated successfully")
}

// DeleteEventType handles DELETE /organizers/:slug/event-types/:event_type_slug
// @Summary Delete event type
// @Tags Organizer
// @Security BearerAuth
// @Param slug path string true "Organizer slug"
// @Param event_type_slug path string true "Event type slug"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.AppError
// @Router /private/organizers/{slug}/event-types/{event_type_slug} [delete]
func (c *OrganizerController) DeleteEventType(ctx echo.Context) error {
	if appErr := c.OrganizerService.DeleteEventType(ctx.Request().Context(), ctx.Param("slug"), ctx.Param("event_type_slug")); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Event type deleted successfully")
}
