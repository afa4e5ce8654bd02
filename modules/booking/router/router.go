package router

import (
	"availability-service/core/middleware"
	"availability-service/modules/booking/controller"

	"github.com/labstack/echo/v4"
)

// BookingRouter handles booking routes
type BookingRouter struct {
	BookingController *controller.BookingController
}

// NewBookingRouter creates a new router
func NewBookingRouter(bookingController *controller.BookingController) *BookingRouter {
	return &BookingRouter{
		BookingController: bookingController,
	}
}

// Setup registers booking management routes
func (r *BookingRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	organizerBookings := privateRoutes.Group("/organizers/:slug/bookings", mw.AuthMiddleware())
	organizerBookings.POST("", r.BookingController.CreateBooking)
	organizerBookings.GET("", r.BookingController.ListBookings)

	bookingRoutes := privateRoutes.Group("/bookings", mw.AuthMiddleware())
	bookingRoutes.GET("/:id", r.BookingController.GetBooking)
	bookingRoutes.POST("/:id/cancel", r.BookingController.CancelBooking)
}
