package controller

import (
	"availability-service/core/controller"
	"availability-service/core/errors"
	"availability-service/modules/sync/dto"
	"availability-service/modules/sync/service"

	"github.com/labstack/echo/v4"
)

// SyncController handles calendar sync HTTP requests
type SyncController struct {
	controller.BaseController
	SyncService service.SyncServiceInterface
}

// NewSyncController creates a new controller
func NewSyncController(svc service.SyncServiceInterface) *SyncController {
	return &SyncController{
		BaseController: controller.NewBaseController(),
		SyncService:    svc,
	}
}

// ConnectGoogle handles PUT /sync/google/:organizer_slug/connection
// @Summary Connect Google Calendar
// @Description Store or replace the organizer's Google Calendar connection
// @Tags Sync
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param organizer_slug path string true "Organizer slug"
// @Param request body dto.ConnectGoogleRequest true "Connection payload"
// @Success 200 {object} dto.CalendarConnectionResponse
// @Failure 400 {object} errors.AppError
// @Router /private/sync/google/{organizer_slug}/connection [put]
func (c *SyncController) ConnectGoogle(ctx echo.Context) error {
	var req dto.ConnectGoogleRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.SyncService.ConnectGoogle(ctx.Request().Context(), ctx.Param("organizer_slug"), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Calendar connected successfully")
}

// ListConnections handles GET /sync/:organizer_slug/connections
// @Summary List calendar connections
// @Tags Sync
// @Security BearerAuth
// @Produce json
// @Param organizer_slug path string true "Organizer slug"
// @Success 200 {array} dto.CalendarConnectionResponse
// @Router /private/sync/{organizer_slug}/connections [get]
func (c *SyncController) ListConnections(ctx echo.Context) error {
	result, appErr := c.SyncService.ListConnections(ctx.Request().Context(), ctx.Param("organizer_slug"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// DisconnectGoogle handles DELETE /sync/google/:organizer_slug/connection
// @Summary Disconnect Google Calendar
// @Tags Sync
// @Security BearerAuth
// @Produce json
// @Param organizer_slug path string true "Organizer slug"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.AppError
// @Router /private/sync/google/{organizer_slug}/connection [delete]
func (c *SyncController) DisconnectGoogle(ctx echo.Context) error {
	if appErr := c.SyncService.DisconnectGoogle(ctx.Request().Context(), ctx.Param("organizer_slug")); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Calendar disconnected successfully")
}

// RunGoogleSync handles POST /sync/google/:organizer_slug/run
// @Summary Run Google Calendar sync
// @Description Pull busy intervals for the sync horizon and mirror them as synced blocked times
// @Tags Sync
// @Security BearerAuth
// @Produce json
// @Param organizer_slug path string true "Organizer slug"
// @Success 200 {object} dto.SyncRunResponse
// @Failure 404 {object} errors.AppError
// @Router /private/sync/google/{organizer_slug}/run [post]
func (c *SyncController) RunGoogleSync(ctx echo.Context) error {
	result, appErr := c.SyncService.RunGoogleSync(ctx.Request().Context(), ctx.Param("organizer_slug"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Calendar sync completed")
}
