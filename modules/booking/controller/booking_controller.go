package controller

import (
	"availability-service/core/controller"
	"availability-service/core/entity"
	"availability-service/core/errors"
	"availability-service/core/params"
	"availability-service/modules/booking/dto"
	"availability-service/modules/booking/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// BookingController handles booking HTTP requests
type BookingController struct {
	controller.BaseController
	BookingService service.BookingServiceInterface
}

// NewBookingController creates a new controller
func NewBookingController(svc service.BookingServiceInterface) *BookingController {
	return &BookingController{
		BaseController: controller.NewBaseController(),
		BookingService: svc,
	}
}

// CreateBooking handles POST /organizers/:slug/bookings
// @Summary Create booking
// @Description Book one slot for an invitee and invalidate the organizer's slot cache
// @Tags Booking
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param slug path string true "Organizer slug"
// @Param request body dto.CreateBookingRequest true "Booking payload"
// @Success 200 {object} dto.BookingResponse
// @Failure 400 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /private/organizers/{slug}/bookings [post]
func (c *BookingController) CreateBooking(ctx echo.Context) error {
	var req dto.CreateBookingRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.BookingService.CreateBooking(ctx.Request().Context(), ctx.Param("slug"), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Booking created successfully")
}

// GetBooking handles GET /bookings/:id
// @Summary Get booking
// @Tags Booking
// @Security BearerAuth
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} dto.BookingResponse
// @Failure 404 {object} errors.AppError
// @Router /private/bookings/{id} [get]
func (c *BookingController) GetBooking(ctx echo.Context) error {
	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid booking ID")
	}

	result, appErr := c.BookingService.GetBooking(ctx.Request().Context(), bookingID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// ListBookings handles GET /organizers/:slug/bookings
// @Summary List bookings
// @Description List an organizer's bookings, newest first
// @Tags Booking
// @Security BearerAuth
// @Produce json
// @Param slug path string true "Organizer slug"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} entity.Pagination[dto.BookingResponse]
// @Router /private/organizers/{slug}/bookings [get]
func (c *BookingController) ListBookings(ctx echo.Context) error {
	qp := params.NewQueryParams(ctx)

	items, total, appErr := c.BookingService.ListBookings(ctx.Request().Context(), ctx.Param("slug"), qp.Page, qp.Limit)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, entity.NewPagination(items, total, qp.Page, qp.Limit), "Success")
}

// CancelBooking handles POST /bookings/:id/cancel
// @Summary Cancel booking
// @Description Cancel a booking and invalidate the organizer's slot cache
// @Tags Booking
// @Security BearerAuth
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} dto.BookingResponse
// @Failure 404 {object} errors.AppError
// @Router /private/bookings/{id}/cancel [post]
func (c *BookingController) CancelBooking(ctx echo.Context) error {
	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid booking ID")
	}

	result, appErr := c.BookingService.CancelBooking(ctx.Request().Context(), bookingID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Booking cancelled successfully")
}
