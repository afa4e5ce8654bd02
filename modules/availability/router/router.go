package router

import (
	"availability-service/core/middleware"
	"availability-service/modules/availability/controller"

	"github.com/labstack/echo/v4"
)

// AvailabilityRouter handles availability routes
type AvailabilityRouter struct {
	AvailabilityController *controller.AvailabilityController
	SlotsController        *controller.SlotsController
}

// NewAvailabilityRouter creates a new router
func NewAvailabilityRouter(availabilityController *controller.AvailabilityController, slotsController *controller.SlotsController) *AvailabilityRouter {
	return &AvailabilityRouter{
		AvailabilityController: availabilityController,
		SlotsController:        slotsController,
	}
}

// Setup registers the public slot endpoint and the private management routes
func (r *AvailabilityRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	// Public contract; both forms resolve so trailing-slash clients work.
	e.GET("/availability/calculated-slots/:organizer_slug", r.SlotsController.GetCalculatedSlots)
	e.GET("/availability/calculated-slots/:organizer_slug/", r.SlotsController.GetCalculatedSlots)

	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	availabilityRoutes := privateRoutes.Group("/organizers/:slug/availability", mw.AuthMiddleware())

	availabilityRoutes.POST("/rules", r.AvailabilityController.CreateRule)
	availabilityRoutes.GET("/rules", r.AvailabilityController.ListRules)
	availabilityRoutes.PUT("/rules/:id", r.AvailabilityController.UpdateRule)
	availabilityRoutes.DELETE("/rules/:id", r.AvailabilityController.DeleteRule)

	availabilityRoutes.POST("/overrides", r.AvailabilityController.CreateOverride)
	availabilityRoutes.GET("/overrides", r.AvailabilityController.ListOverrides)
	availabilityRoutes.PUT("/overrides/:id", r.AvailabilityController.UpdateOverride)
	availabilityRoutes.DELETE("/overrides/:id", r.AvailabilityController.DeleteOverride)

	availabilityRoutes.POST("/recurring-blocks", r.AvailabilityController.CreateRecurringBlock)
	availabilityRoutes.GET("/recurring-blocks", r.AvailabilityController.ListRecurringBlocks)
	availabilityRoutes.PUT("/recurring-blocks/:id", r.AvailabilityController.UpdateRecurringBlock)
	availabilityRoutes.DELETE("/recurring-blocks/:id", r.AvailabilityController.DeleteRecurringBlock)

	availabilityRoutes.POST("/blocked-times", r.AvailabilityController.CreateBlockedTime)
	availabilityRoutes.GET("/blocked-times", r.AvailabilityController.ListBlockedTimes)
	availabilityRoutes.PUT("/blocked-times/:id", r.AvailabilityController.UpdateBlockedTime)
	availabilityRoutes.DELETE("/blocked-times/:id", r.AvailabilityController.DeleteBlockedTime)

	availabilityRoutes.GET("/buffer-settings", r.AvailabilityController.GetBufferSettings)
	availabilityRoutes.PUT("/buffer-settings", r.AvailabilityController.UpdateBufferSettings)

	availabilityRoutes.GET("/stats", r.AvailabilityController.GetStats)
	availabilityRoutes.POST("/cache/clear", r.AvailabilityController.ClearCache)
	availabilityRoutes.POST("/cache/precompute", r.AvailabilityController.Precompute)
}
