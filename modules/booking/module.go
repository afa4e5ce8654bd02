package booking

import (
	"availability-service/core/database"
	"availability-service/core/middleware"
	availabilityRepository "availability-service/modules/availability/repository"
	"availability-service/modules/booking/controller"
	"availability-service/modules/booking/repository"
	"availability-service/modules/booking/router"
	"availability-service/modules/booking/service"
	organizerService "availability-service/modules/organizer/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the booking module and registers routes. The invalidator
// is the availability module's slot cache store so bookings bump the cache
// version of their organizer.
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware, organizerSvc organizerService.OrganizerServiceInterface, invalidator service.CacheInvalidator) repository.BookingRepositoryInterface {
	repo := repository.NewBookingRepository(db)
	availabilityRepo := availabilityRepository.NewAvailabilityRepository(db)
	svc := service.NewBookingService(repo, availabilityRepo, organizerSvc, invalidator)
	ctrl := controller.NewBookingController(svc)
	rtr := router.NewBookingRouter(ctrl)

	rtr.Setup(e, mw)

	return repo
}
