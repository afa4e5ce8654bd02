package router

import (
	"availability-service/core/middleware"
	"availability-service/modules/organizer/controller"

	"github.com/labstack/echo/v4"
)

// OrganizerRouter handles organizer routes
type OrganizerRouter struct {
	OrganizerController *controller.OrganizerController
}

// NewOrganizerRouter creates a new router
func NewOrganizerRouter(organizerController *controller.OrganizerController) *OrganizerRouter {
	return &OrganizerRouter{
		OrganizerController: organizerController,
	}
}

// Setup registers organizer management routes
func (r *OrganizerRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	organizerRoutes := privateRoutes.Group("/organizers", mw.AuthMiddleware())

	organizerRoutes.POST("", r.OrganizerController.CreateOrganizer)
	organizerRoutes.GET("", r.OrganizerController.ListOrganizers)
	organizerRoutes.GET("/:slug", r.OrganizerController.GetOrganizer)
	organizerRoutes.PUT("/:slug", r.OrganizerController.UpdateOrganizer)
	organizerRoutes.DELETE("/:slug", r.OrganizerController.DeleteOrganizer)

	organizerRoutes.POST("/:slug/event-types", r.OrganizerController.CreateEventType)
	organizerRoutes.GET("/:slug/event-types", r.OrganizerController.ListEventTypes)
	organizerRoutes.PUT("/:slug/event-types/:event_type_slug", r.OrganizerController.UpdateEventType)
	organizerRoutes.DELETE("/:slug/event-types/:event_type_slug", r.OrganizerController.DeleteEventType)
}
