package controller

import (
	"availability-service/core/controller"
	"availability-service/core/errors"
	"availability-service/modules/availability/dto"
	"availability-service/modules/availability/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AvailabilityController handles the availability management HTTP requests
type AvailabilityController struct {
	controller.BaseController
	AvailabilityService service.AvailabilityServiceInterface
}

// NewAvailabilityController creates a new controller
func NewAvailabilityController(svc service.AvailabilityServiceInterface) *AvailabilityController {
	return &AvailabilityController{
		BaseController:      controller.NewBaseController(),
		AvailabilityService: svc,
	}
}

// ===================== Weekly rules =====================

// CreateRule handles POST /organizers/:slug/availability/rules
// @Summary Create availability rule
// @Description Add a weekly availability window; overlapping windows on the same day are rejected
// @Tags Availability
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param slug path string true "Organizer slug"
// @Param request body dto.CreateAvailabilityRuleRequest true "Rule payload"
// @Success 200 {object} dto.AvailabilityRuleResponse
// @Failure 400 {object} errors.AppError
// @Router /private/organizers/{slug}/availability/rules [post]
func (c *AvailabilityController) CreateRule(ctx echo.Context) error {
	var req dto.CreateAvailabilityRuleRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.AvailabilityService.CreateRule(ctx.Request().Context(), ctx.Param("slug"), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Availability rule created successfully")
}

// ListRules handles GET /organizers/:slug/availability/rules
// @Summary List availability rules
// @Tags Availability
// @Security BearerAuth
// @Produce json
// @Param slug path string true "Organizer slug"
// @Success 200 {array} dto.AvailabilityRuleResponse
// @Router /private/organizers/{slug}/availability/rules [get]
func (c *AvailabilityController) ListRules(ctx echo.Context) error {
	result, appErr := c.AvailabilityService.ListRules(ctx.Request().Context(), ctx.Param("slug"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// UpdateRule handles PUT /organizers/:slug/availability/rules/:id
// @Summary Update availability rule
// @Tags Availability
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param slug path string true "Organizer slug"
// @Param id path string true "Rule ID"
// @Param request body dto.UpdateAvailabilityRuleRequest true "Fields to update"
// @Success 200 {object} dto.AvailabilityRuleResponse
// @Failure 400 {object} errors.AppError
// @Router /private/organizers/{slug}/availability/rules/{id} [put]
func (c *AvailabilityController) UpdateRule(ctx echo.Context) error {
	ruleID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid rule ID")
	}
	var req dto.UpdateAvailabilityRuleRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.AvailabilityService.UpdateRule(ctx.Request().Context(), ctx.Param("slug"), ruleID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Availability rule updated successfully")
}

// DeleteRule handles DELETE /organizers/:slug/availability/rules/:id
// @Summary Delete availability rule
// @Tags Availability
// @Security BearerAuth
// @Param slug path string true "Organizer slug"
// @Param id path string true "Rule ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.AppError
// @Router /private/organizers/{slug}/availability/rules/{id} [delete]
func (c *AvailabilityController) DeleteRule(ctx echo.Context) error {
	ruleID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid rule ID")
	}
	if appErr := c.AvailabilityService.DeleteRule(ctx.Request().Context(), ctx.Param("slug"), ruleID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Availability rule deleted successfully")
}

// ===================== Date overrides =====================

// CreateOverride handles POST /organizers/:slug/availability/overrides
// @Summary Create date override
// @Description Pin one calendar date as unavailable or to an explicit window
// @Tags Availability
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param slug path string true "Organizer slug"
// @Param request body dto.CreateDateOverrideRequest true "Override payload"
// @Success 200 {object} dto.DateOverrideResponse
// @Failure 400 {object} errors.AppError
// @Router /private/organizers/{slug}/availability/overrides [post]
func (c *AvailabilityController) CreateOverride(ctx echo.Context) error {
	var req dto.CreateDateOverrideRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.AvailabilityService.CreateOverride(ctx.Request().Context(), ctx.Param("slug"), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Date override created successfully")
}

// ListOverrides handles GET /organizers/:slug/availability/overrides
// @Summary List date overrides
// @Tags Availability
// @Security BearerAuth
// @Produce json
// @Param slug path string true "Organizer slug"
// @Success 200 {array} dto.DateOverrideResponse
// @Router /private/organizers/{slug}/availability/overrides [get]
func (c *AvailabilityController) ListOverrides(ctx echo.Context) error {
	result, appErr := c.AvailabilityService.ListOverrides(ctx.Request().Context(), ctx.Param("slug"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// UpdateOverride handles PUT /organizers/:slug/availability/overrides/:id
// @Summary Update date override
// @Tags Availability
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param slug path string true "Organizer slug"
// @Param id path string true "Override ID"
// @Param request body dto.UpdateDateOverrideRequest true "Fields to update"
// @Success 200 {object} dto.DateOverrideResponse
// @Failure 400 {object} errors.AppError
// @Router /private/organizers/{slug}/availability/overrides/{id} [put]
func (c *AvailabilityController) UpdateOverride(ctx echo.Context) error {
	overrideID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid override ID")
	}
	var req dto.UpdateDateOverrideRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.AvailabilityService.UpdateOverride(ctx.Request().Context(), ctx.Param("slug"), overrideID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Date override updated successfully")
}

// DeleteOverride handles DELETE /organizers/:slug/availability/overrides/:id
// @Summary Delete date override
// @Tags Availability
// @Security BearerAuth
// @Param slug path string true "Organizer slug"
// @Param id path string true "Override ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.AppError
// @Router /private/organizers/{slug}/availability/overrides/{id} [delete]
func (c *AvailabilityController) DeleteOverride(ctx echo.Context) error {
	overrideID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid override ID")
	}
	if appErr := c.AvailabilityService.DeleteOverride(ctx.Request().Context(), ctx.Param("slug"), overrideID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Date override deleted successfully")
}

// ===================== Recurring blocks =====================

// CreateRecurringBlock handles POST /organizers/:slug/availability/recurring-blocks
// @Summary Create recurring block
// @Description Add a weekly recurring blocked window such as a lunch break
// @Tags Availability
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param slug path string true "Organizer slug"
// @Param request body dto.CreateRecurringBlockRequest true "Block payload"
// @Success 200 {object} dto.RecurringBlockResponse
// @Failure 400 {object} errors.AppError
// @Router /private/organizers/{slug}/availability/recurring-blocks [post]
func (c *AvailabilityController) CreateRecurringBlock(ctx echo.Context) error {
	var req dto.CreateRecurringBlockRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.AvailabilityService.CreateRecurringBlock(ctx.Request().Context(), ctx.Param("slug"), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Recurring block created successfully")
}

// ListRecurringBlocks handles GET /organizers/:slug/availability/recurring-blocks
// @Summary List recurring blocks
// @Tags Availability
// @Security BearerAuth
// @Produce json
// @Param slug path string true "Organizer slug"
// @Success 200 {array} dto.RecurringBlockResponse
// @Router /private/organizers/{slug}/availability/recurring-blocks [get]
func (c *AvailabilityController) ListRecurringBlocks(ctx echo.Context) error {
	result, appErr := c.AvailabilityService.ListRecurringBlocks(ctx.Request().Context(), ctx.Param("slug"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// UpdateRecurringBlock handles PUT /organizers/:slug/availability/recurring-blocks/:id
// @Summary Update recurring block
// @Tags Availability
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param slug path string true "Organizer slug"
// @Param id path string true "Block ID"
// @Param request body dto.UpdateRecurringBlockRequest true "Fields to update"
// @Success 200 {object} dto.RecurringBlockResponse
// @Failure 400 {object} errors.AppError
// @Router /private/organizers/{slug}/availability/recurring-blocks/{id} [put]
func (c *AvailabilityController) UpdateRecurringBlock(ctx echo.Context) error {
	blockID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid block ID")
	}
	var req dto.UpdateRecurringBlockRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.AvailabilityService.UpdateRecurringBlock(ctx.Request().Context(), ctx.Param("slug"), blockID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Recurring block updated successfully")
}

// DeleteRecurringBlock handles DELETE /organizers/:slug/availability/recurring-blocks/:id
// @Summary Delete recurring block
// @Tags Availability
// @Security BearerAuth
// @Param slug path string true "Organizer slug"
// @Param id path string true "Block ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.AppError
// @Router /private/organizers/{slug}/availability/recurring-blocks/{id} [delete]
func (c *AvailabilityController) DeleteRecurringBlock(ctx echo.Context) error {
	blockID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid block ID")
	}
	if appErr := c.AvailabilityService.DeleteRecurringBlock(ctx.Request().Context(), ctx.Param("slug"), blockID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Recurring block deleted successfully")
}

// ===================== One-off blocked times =====================

// CreateBlockedTime handles POST /organizers/:slug/availability/blocked-times
// @Summary Create blocked time
// @Description Block an absolute UTC interval; only manual blocks can be created here
// @Tags Availability
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param slug path string true "Organizer slug"
// @Param request body dto.CreateBlockedTimeRequest true "Block payload"
// @Success 200 {object} dto.BlockedTimeResponse
// @Failure 400 {object} errors.AppError
// @Router /private/organizers/{slug}/availability/blocked-times [post]
func (c *AvailabilityController) CreateBlockedTime(ctx echo.Context) error {
	var req dto.CreateBlockedTimeRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.AvailabilityService.CreateBlockedTime(ctx.Request().Context(), ctx.Param("slug"), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Blocked time created successfully")
}

// ListBlockedTimes handles GET /organizers/:slug/availability/blocked-times
// @Summary List blocked times
// @Tags Availability
// @Security BearerAuth
// @Produce json
// @Param slug path string true "Organizer slug"
// @Success 200 {array} dto.BlockedTimeResponse
// @Router /private/organizers/{slug}/availability/blocked-times [get]
func (c *AvailabilityController) ListBlockedTimes(ctx echo.Context) error {
	result, appErr := c.AvailabilityService.ListBlockedTimes(ctx.Request().Context(), ctx.Param("slug"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// UpdateBlockedTime handles PUT /organizers/:slug/availability/blocked-times/:id
// @Summary Update blocked time
// @Description Synced blocks are read-only and rejected with 403
// @Tags Availability
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param slug path string true "Organizer slug"
// @Param id path string true "Block ID"
// @Param request body dto.UpdateBlockedTimeRequest true "Fields to update"
// @Success 200 {object} dto.BlockedTimeResponse
// @Failure 403 {object} errors.AppError
// @Router /private/organizers/{slug}/availability/blocked-times/{id} [put]
func (c *AvailabilityController) UpdateBlockedTime(ctx echo.Context) error {
	blockID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid block ID")
	}
	var req dto.UpdateBlockedTimeRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.AvailabilityService.UpdateBlockedTime(ctx.Request().Context(), ctx.Param("slug"), blockID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Blocked time updated successfully")
}

// DeleteBlockedTime handles DELETE /organizers/:slug/availability/blocked-times/:id
// @Summary Delete blocked time
// @Description Synced blocks are read-only and rejected with 403
// @Tags Availability
// @Security BearerAuth
// @Param slug path string true "Organizer slug"
// @Param id path string true "Block ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.AppError
// @Router /private/organizers/{slug}/availability/blocked-times/{id} [delete]
func (c *AvailabilityController) DeleteBlockedTime(ctx echo.Context) error {
	blockID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid block ID")
	}
	if appErr := c.AvailabilityService.DeleteBlockedTime(ctx.Request().Context(), ctx.Param("slug"), blockID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Blocked time deleted successfully")
}

// ===================== Buffer settings =====================

// GetBufferSettings handles GET /organizers/:slug/availability/buffer-settings
// @Summary Get buffer settings
// @Tags Availability
// @Security BearerAuth
// @Produce json
// @Param slug path string true "Organizer slug"
// @Success 200 {object} dto.BufferSettingsResponse
// @Router /private/organizers/{slug}/availability/buffer-settings [get]
func (c *AvailabilityController) GetBufferSettings(ctx echo.Context) error {
	result, appErr := c.AvailabilityService.GetBufferSettings(ctx.Request().Context(), ctx.Param("slug"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// UpdateBufferSettings handles PUT /organizers/:slug/availability/buffer-settings
// @Summary Update buffer settings
// @Tags Availability
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param slug path string true "Organizer slug"
// @Param request body dto.UpdateBufferSettingsRequest true "Fields to update"
// @Success 200 {object} dto.BufferSettingsResponse
// @Failure 400 {object} errors.AppError
// @Router /private/organizers/{slug}/availability/buffer-settings [put]
func (c *AvailabilityController) UpdateBufferSettings(ctx echo.Context) error {
	var req dto.UpdateBufferSettingsRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.AvailabilityService.UpdateBufferSettings(ctx.Request().Context(), ctx.Param("slug"), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Buffer settings updated successfully")
}

// ===================== Stats and cache administration =====================

// GetStats handles GET /organizers/:slug/availability/stats
// @Summary Availability statistics
// @Description Summarize rules, overrides, blocks and weekly hours
// @Tags Availability
// @Security BearerAuth
// @Produce json
// @Param slug path string true "Organizer slug"
// @Success 200 {object} dto.AvailabilityStatsResponse
// @Router /private/organizers/{slug}/availability/stats [get]
func (c *AvailabilityController) GetStats(ctx echo.Context) error {
	result, appErr := c.AvailabilityService.GetStats(ctx.Request().Context(), ctx.Param("slug"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// ClearCache handles POST /organizers/:slug/availability/cache/clear
// @Summary Clear slot cache
// @Description Drop every cached slot payload of the organizer
// @Tags Availability
// @Security BearerAuth
// @Produce json
// @Param slug path string true "Organizer slug"
// @Success 200 {object} dto.CacheClearResponse
// @Router /private/organizers/{slug}/availability/cache/clear [post]
func (c *AvailabilityController) ClearCache(ctx echo.Context) error {
	result, appErr := c.AvailabilityService.ClearCache(ctx.Request().Context(), ctx.Param("slug"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Cache cleared successfully")
}

// Precompute handles POST /organizers/:slug/availability/cache/precompute
// @Summary Precompute slot cache
// @Description Enqueue a background task warming common upcoming ranges
// @Tags Availability
// @Security BearerAuth
// @Produce json
// @Param slug path string true "Organizer slug"
// @Success 200 {object} dto.PrecomputeResponse
// @Router /private/organizers/{slug}/availability/cache/precompute [post]
func (c *AvailabilityController) Precompute(ctx echo.Context) error {
	result, appErr := c.AvailabilityService.Precompute(ctx.Request().Context(), ctx.Param("slug"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Precompute task enqueued successfully")
}
