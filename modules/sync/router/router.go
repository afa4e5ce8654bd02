package router

import (
	"availability-service/core/middleware"
	"availability-service/modules/sync/controller"

	"github.com/labstack/echo/v4"
)

// SyncRouter handles calendar sync routes
type SyncRouter struct {
	SyncController *controller.SyncController
}

// NewSyncRouter creates a new router
func NewSyncRouter(syncController *controller.SyncController) *SyncRouter {
	return &SyncRouter{
		SyncController: syncController,
	}
}

// Setup registers the sync routes
func (r *SyncRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	syncRoutes := privateRoutes.Group("/sync", mw.AuthMiddleware())

	syncRoutes.GET("/:organizer_slug/connections", r.SyncController.ListConnections)
	syncRoutes.PUT("/google/:organizer_slug/connection", r.SyncController.ConnectGoogle)
	syncRoutes.DELETE("/google/:organizer_slug/connection", r.SyncController.DisconnectGoogle)
	syncRoutes.POST("/google/:organizer_slug/run", r.SyncController.RunGoogleSync)
}
