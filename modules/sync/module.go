package sync

import (
	"availability-service/core/database"
	"availability-service/core/middleware"
	availabilityRepository "availability-service/modules/availability/repository"
	organizerService "availability-service/modules/organizer/service"
	"availability-service/modules/sync/controller"
	"availability-service/modules/sync/repository"
	"availability-service/modules/sync/router"
	"availability-service/modules/sync/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the calendar sync module and registers routes. The
// returned service is used by the worker to register the sync task handler.
func Init(
	e *echo.Echo,
	db database.Database,
	mw *middleware.Middleware,
	organizerSvc organizerService.OrganizerServiceInterface,
	invalidator service.CacheInvalidator,
) service.SyncServiceInterface {
	repo := repository.NewSyncRepository(db)
	availabilityRepo := availabilityRepository.NewAvailabilityRepository(db)
	svc := service.NewSyncService(repo, availabilityRepo, organizerSvc, invalidator)

	ctrl := controller.NewSyncController(svc)
	router.NewSyncRouter(ctrl).Setup(e, mw)

	return svc
}
