package service

import (
	"context"
	"time"

	"availability-service/core/constants"
	"availability-service/core/errors"
	"availability-service/core/logger"
	availabilityRepository "availability-service/modules/availability/repository"
	"availability-service/modules/booking/dto"
	"availability-service/modules/booking/entity"
	"availability-service/modules/booking/repository"
	organizerService "availability-service/modules/organizer/service"

	"github.com/google/uuid"
)

// CacheInvalidator bumps the organizer's slot cache version after a booking
// mutation. The availability module's cache store satisfies it.
type CacheInvalidator interface {
	InvalidateOrganizer(ctx context.Context, organizerID uuid.UUID) error
}

type BookingServiceInterface interface {
	CreateBooking(ctx context.Context, organizerSlug string, req *dto.CreateBookingRequest) (*dto.BookingResponse, *errors.AppError)
	GetBooking(ctx context.Context, id uuid.UUID) (*dto.BookingResponse, *errors.AppError)
	ListBookings(ctx context.Context, organizerSlug string, page, limit int) ([]dto.BookingResponse, int64, *errors.AppError)
	CancelBooking(ctx context.Context, id uuid.UUID) (*dto.BookingResponse, *errors.AppError)
}

// BookingService handles booking business logic
type BookingService struct {
	repo             repository.BookingRepositoryInterface
	availabilityRepo availabilityRepository.AvailabilityRepository
	organizerSvc     organizerService.OrganizerServiceInterface
	invalidator      CacheInvalidator
}

func NewBookingService(
	repo repository.BookingRepositoryInterface,
	availabilityRepo availabilityRepository.AvailabilityRepository,
	organizerSvc organizerService.OrganizerServiceInterface,
	invalidator CacheInvalidator,
) BookingServiceInterface {
	return &BookingService{
		repo:             repo,
		availabilityRepo: availabilityRepo,
		organizerSvc:     organizerSvc,
		invalidator:      invalidator,
	}
}

// CreateBooking confirms a slot for an invitee. The slot must not collide
// with confirmed bookings or blocked time; group event types admit several
// bookings at the same start until the seats run out.
func (s *BookingService) CreateBooking(ctx context.Context, organizerSlug string, req *dto.CreateBookingRequest) (*dto.BookingResponse, *errors.AppError) {
	logger.Info("BookingService:CreateBooking:Start", "organizer_slug", organizerSlug, "event_type_slug", req.EventTypeSlug)

	organizer, appErr := s.organizerSvc.ResolveOrganizer(ctx, organizerSlug)
	if appErr != nil {
		return nil, appErr
	}
	eventType, appErr := s.organizerSvc.ResolveEventType(ctx, organizer.ID, req.EventTypeSlug)
	if appErr != nil {
		return nil, appErr
	}

	if req.InviteeName == "" || req.InviteeEmail == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invitee_name and invitee_email are required", nil)
	}

	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "start_time must be RFC3339", err)
	}
	start = start.UTC()
	if !start.After(time.Now().UTC()) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "start_time must be in the future", nil)
	}

	attendees := req.AttendeeCount
	if attendees == 0 {
		attendees = constants.DefaultAttendeeCount
	}
	if attendees < 1 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "attendee_count must be at least 1", nil)
	}
	if attendees > eventType.MaxAttendees {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "attendee_count exceeds the event type capacity", nil)
	}

	end := start.Add(time.Duration(eventType.DurationMinutes) * time.Minute)

	if appErr := s.checkConflicts(ctx, organizer.ID, eventType.ID, eventType.MaxAttendees, start, end, attendees); appErr != nil {
		return nil, appErr
	}

	booking := &entity.Booking{
		OrganizerID:   organizer.ID,
		EventTypeID:   eventType.ID,
		StartTime:     start,
		EndTime:       end,
		InviteeName:   req.InviteeName,
		InviteeEmail:  req.InviteeEmail,
		AttendeeCount: attendees,
		Status:        constants.BookingStatusConfirmed,
	}
	created, err := s.repo.CreateBooking(ctx, booking)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create booking", err)
	}

	if err := s.invalidator.InvalidateOrganizer(ctx, organizer.ID); err != nil {
		logger.Warn("BookingService:CreateBooking:CacheInvalidate:Error", "error", err, "organizer_id", organizer.ID)
	}

	logger.Info("BookingService:CreateBooking:Success", "booking_id", created.ID, "start_time", created.StartTime)
	return toBookingResponse(created), nil
}

// checkConflicts rejects a candidate interval that collides with blocked
// time or confirmed bookings. Same event type and identical start only
// consumes seats.
func (s *BookingService) checkConflicts(ctx context.Context, organizerID, eventTypeID uuid.UUID, maxAttendees int, start, end time.Time, attendees int) *errors.AppError {
	blocks, err := s.availabilityRepo.ListBlockedTimesInRange(ctx, organizerID, start, end)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to check blocked times", err)
	}
	for i := range blocks {
		if blocks[i].IsActive {
			return errors.NewAppError(errors.ErrAlreadyExists, "Time slot is no longer available", nil)
		}
	}

	existing, err := s.repo.ListConfirmedInRange(ctx, organizerID, start, end)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to check bookings", err)
	}
	seats := 0
	for i := range existing {
		b := &existing[i]
		if b.EventTypeID == eventTypeID && b.StartTime.Equal(start) {
			seats += b.AttendeeCount
			continue
		}
		return errors.NewAppError(errors.ErrAlreadyExists, "Time slot is no longer available", nil)
	}
	if seats+attendees > maxAttendees {
		return errors.NewAppError(errors.ErrAlreadyExists, "Time slot is no longer available", nil)
	}
	return nil
}

func (s *BookingService) GetBooking(ctx context.Context, id uuid.UUID) (*dto.BookingResponse, *errors.AppError) {
	booking, err := s.repo.GetBookingByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load booking", err)
	}
	if booking == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Booking not found", nil)
	}
	return toBookingResponse(booking), nil
}

func (s *BookingService) ListBookings(ctx context.Context, organizerSlug string, page, limit int) ([]dto.BookingResponse, int64, *errors.AppError) {
	organizer, appErr := s.organizerSvc.ResolveOrganizer(ctx, organizerSlug)
	if appErr != nil {
		return nil, 0, appErr
	}
	offset := (page - 1) * limit
	bookings, total, err := s.repo.ListBookingsByOrganizer(ctx, organizer.ID, limit, offset)
	if err != nil {
		return nil, 0, errors.NewAppError(errors.ErrInternalServer, "Failed to list bookings", err)
	}
	out := make([]dto.BookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, *toBookingResponse(&bookings[i]))
	}
	return out, total, nil
}

// CancelBooking is idempotent; cancelling an already cancelled booking
// returns its current state.
func (s *BookingService) CancelBooking(ctx context.Context, id uuid.UUID) (*dto.BookingResponse, *errors.AppError) {
	booking, err := s.repo.GetBookingByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load booking", err)
	}
	if booking == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Booking not found", nil)
	}
	if booking.Status == constants.BookingStatusCancelled {
		return toBookingResponse(booking), nil
	}

	if err := s.repo.UpdateBookingStatus(ctx, id, constants.BookingStatusCancelled); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to cancel booking", err)
	}
	booking.Status = constants.BookingStatusCancelled

	if err := s.invalidator.InvalidateOrganizer(ctx, booking.OrganizerID); err != nil {
		logger.Warn("BookingService:CancelBooking:CacheInvalidate:Error", "error", err, "organizer_id", booking.OrganizerID)
	}

	logger.Info("BookingService:CancelBooking:Success", "booking_id", id)
	return toBookingResponse(booking), nil
}

func toBookingResponse(b *entity.Booking) *dto.BookingResponse {
	return &dto.BookingResponse{
		ID:            b.ID.String(),
		OrganizerID:   b.OrganizerID.String(),
		EventTypeID:   b.EventTypeID.String(),
		StartTime:     b.StartTime.UTC().Format(time.RFC3339),
		EndTime:       b.EndTime.UTC().Format(time.RFC3339),
		InviteeName:   b.InviteeName,
		InviteeEmail:  b.InviteeEmail,
		AttendeeCount: b.AttendeeCount,
		Status:        b.Status,
		CreatedAt:     b.CreatedAt.UTC().Format(time.RFC3339),
	}
}
