package organizer

import (
	"availability-service/core/database"
	"availability-service/core/middleware"
	"availability-service/modules/organizer/controller"
	"availability-service/modules/organizer/repository"
	"availability-service/modules/organizer/router"
	"availability-service/modules/organizer/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the organizer module and registers routes.
// The returned service is shared with the availability and sync modules
// for slug resolution.
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware) service.OrganizerServiceInterface {
	repo := repository.NewOrganizerRepository(db)
	svc := service.NewOrganizerService(repo)
	ctrl := controller.NewOrganizerController(svc)
	rtr := router.NewOrganizerRouter(ctrl)

	rtr.Setup(e, mw)

	return svc
}
