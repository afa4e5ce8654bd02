package availability

import (
	"availability-service/core/cache"
	"availability-service/core/database"
	"availability-service/core/middleware"
	"availability-service/modules/availability/controller"
	"availability-service/modules/availability/repository"
	"availability-service/modules/availability/router"
	"availability-service/modules/availability/service"
	bookingRepository "availability-service/modules/booking/repository"
	organizerService "availability-service/modules/organizer/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the availability module and registers routes. The
// returned service is used by the worker to register task handlers; the
// cache store is shared with the booking and sync modules for invalidation.
func Init(
	e *echo.Echo,
	db database.Database,
	c cache.Cache,
	mw *middleware.Middleware,
	organizerSvc organizerService.OrganizerServiceInterface,
) (service.AvailabilityServiceInterface, *service.SlotCacheStore) {
	repo := repository.NewAvailabilityRepository(db)
	bookingRepo := bookingRepository.NewBookingRepository(db)
	cacheStore := service.NewSlotCacheStore(c)
	svc := service.NewAvailabilityService(repo, bookingRepo, organizerSvc, cacheStore)

	ctrl := controller.NewAvailabilityController(svc)
	slotsCtrl := controller.NewSlotsController(svc)
	rtr := router.NewAvailabilityRouter(ctrl, slotsCtrl)

	rtr.Setup(e, mw)

	return svc, cacheStore
}
