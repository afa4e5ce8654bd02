package service

import (
	"context"
	"testing"
	"time"

	"availability-service/core/constants"
	"availability-service/core/errors"
	availabilityEntity "availability-service/modules/availability/entity"
	availabilityRepository "availability-service/modules/availability/repository"
	"availability-service/modules/booking/dto"
	"availability-service/modules/booking/entity"
	organizerEntity "availability-service/modules/organizer/entity"
	organizerService "availability-service/modules/organizer/service"

	"github.com/google/uuid"
)

type memBookingRepo struct {
	bookings map[uuid.UUID]*entity.Booking
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: map[uuid.UUID]*entity.Booking{}}
}

func (f *memBookingRepo) CreateBooking(ctx context.Context, booking *entity.Booking) (*entity.Booking, error) {
	booking.ID = uuid.New()
	booking.CreatedAt = time.Now()
	stored := *booking
	f.bookings[booking.ID] = &stored
	return booking, nil
}

func (f *memBookingRepo) GetBookingByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	if b, ok := f.bookings[id]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, nil
}

func (f *memBookingRepo) ListBookingsByOrganizer(ctx context.Context, organizerID uuid.UUID, limit, offset int) ([]entity.Booking, int64, error) {
	var out []entity.Booking
	for _, b := range f.bookings {
		if b.OrganizerID == organizerID {
			out = append(out, *b)
		}
	}
	return out, int64(len(out)), nil
}

func (f *memBookingRepo) ListConfirmedInRange(ctx context.Context, organizerID uuid.UUID, from, to time.Time) ([]entity.Booking, error) {
	var out []entity.Booking
	for _, b := range f.bookings {
		if b.OrganizerID != organizerID || b.Status != constants.BookingStatusConfirmed {
			continue
		}
		if b.StartTime.Before(to) && b.EndTime.After(from) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *memBookingRepo) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status string) error {
	if b, ok := f.bookings[id]; ok {
		b.Status = status
	}
	return nil
}

type stubAvailabilityRepo struct {
	availabilityRepository.AvailabilityRepository
	blocks []availabilityEntity.BlockedTime
}

func (f *stubAvailabilityRepo) ListBlockedTimesInRange(ctx context.Context, organizerID uuid.UUID, from, to time.Time) ([]availabilityEntity.BlockedTime, error) {
	var out []availabilityEntity.BlockedTime
	for _, b := range f.blocks {
		if b.StartDatetime.Before(to) && b.EndDatetime.After(from) {
			out = append(out, b)
		}
	}
	return out, nil
}

type stubOrganizerService struct {
	organizerService.OrganizerServiceInterface
	organizer organizerEntity.Organizer
	eventType organizerEntity.EventType
}

func (f *stubOrganizerService) ResolveOrganizer(ctx context.Context, slug string) (*organizerEntity.Organizer, *errors.AppError) {
	if slug != f.organizer.Slug {
		return nil, errors.NewAppError(errors.ErrNotFound, "Organizer not found", nil)
	}
	org := f.organizer
	return &org, nil
}

func (f *stubOrganizerService) ResolveEventType(ctx context.Context, organizerID uuid.UUID, slug string) (*organizerEntity.EventType, *errors.AppError) {
	if slug != f.eventType.Slug {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event type not found", nil)
	}
	et := f.eventType
	return &et, nil
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) InvalidateOrganizer(ctx context.Context, organizerID uuid.UUID) error {
	c.calls++
	return nil
}

type bookingFixture struct {
	repo        *memBookingRepo
	blocks      *stubAvailabilityRepo
	invalidator *countingInvalidator
	svc         BookingServiceInterface
	organizerID uuid.UUID
	eventTypeID uuid.UUID
}

func newBookingFixture(maxAttendees int) *bookingFixture {
	org := organizerEntity.Organizer{Slug: "alice", Name: "Alice", Timezone: "UTC", IsActive: true}
	org.ID = uuid.New()
	et := organizerEntity.EventType{
		OrganizerID:     org.ID,
		Slug:            "intro-call",
		Name:            "Intro Call",
		DurationMinutes: 30,
		MaxAttendees:    maxAttendees,
		IsActive:        true,
	}
	et.ID = uuid.New()

	repo := newMemBookingRepo()
	blocks := &stubAvailabilityRepo{}
	invalidator := &countingInvalidator{}
	svc := NewBookingService(repo, blocks, &stubOrganizerService{organizer: org, eventType: et}, invalidator)
	return &bookingFixture{
		repo:        repo,
		blocks:      blocks,
		invalidator: invalidator,
		svc:         svc,
		organizerID: org.ID,
		eventTypeID: et.ID,
	}
}

func futureStart() time.Time {
	return time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)
}

func bookingRequest(start time.Time) *dto.CreateBookingRequest {
	return &dto.CreateBookingRequest{
		EventTypeSlug: "intro-call",
		StartTime:     start.Format(time.RFC3339),
		InviteeName:   "Bob",
		InviteeEmail:  "bob@example.com",
	}
}

func TestCreateBooking(t *testing.T) {
	fx := newBookingFixture(1)
	start := futureStart()

	resp, appErr := fx.svc.CreateBooking(context.Background(), "alice", bookingRequest(start))
	if appErr != nil {
		t.Fatalf("CreateBooking: %v", appErr)
	}
	if resp.Status != constants.BookingStatusConfirmed {
		t.Errorf("status = %q, want confirmed", resp.Status)
	}
	if resp.AttendeeCount != 1 {
		t.Errorf("attendee count = %d, want default 1", resp.AttendeeCount)
	}
	wantEnd := start.Add(30 * time.Minute).Format(time.RFC3339)
	if resp.EndTime != wantEnd {
		t.Errorf("end time = %q, want %q derived from the duration", resp.EndTime, wantEnd)
	}
	if fx.invalidator.calls != 1 {
		t.Errorf("invalidator calls = %d, want 1", fx.invalidator.calls)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	start := futureStart()
	tests := []struct {
		name   string
		mutate func(*dto.CreateBookingRequest)
		code   errors.ErrorCode
	}{
		{"missing invitee name", func(r *dto.CreateBookingRequest) { r.InviteeName = "" }, errors.ErrInvalidInput},
		{"missing invitee email", func(r *dto.CreateBookingRequest) { r.InviteeEmail = "" }, errors.ErrInvalidInput},
		{"bad start format", func(r *dto.CreateBookingRequest) { r.StartTime = "tomorrow at noon" }, errors.ErrInvalidInput},
		{"start in the past", func(r *dto.CreateBookingRequest) {
			r.StartTime = time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)
		}, errors.ErrInvalidInput},
		{"negative attendees", func(r *dto.CreateBookingRequest) { r.AttendeeCount = -1 }, errors.ErrInvalidInput},
		{"over capacity", func(r *dto.CreateBookingRequest) { r.AttendeeCount = 2 }, errors.ErrInvalidInput},
		{"unknown event type", func(r *dto.CreateBookingRequest) { r.EventTypeSlug = "gone" }, errors.ErrNotFound},
	}
	for _, tt := range tests {
		fx := newBookingFixture(1)
		req := bookingRequest(start)
		tt.mutate(req)
		_, appErr := fx.svc.CreateBooking(context.Background(), "alice", req)
		if appErr == nil || appErr.Code != tt.code {
			t.Errorf("%s: appErr = %v, want %s", tt.name, appErr, tt.code)
		}
		if fx.invalidator.calls != 0 {
			t.Errorf("%s: cache invalidated on a rejected booking", tt.name)
		}
	}
}

func TestCreateBookingBlockedTime(t *testing.T) {
	fx := newBookingFixture(1)
	start := futureStart()
	fx.blocks.blocks = []availabilityEntity.BlockedTime{{
		OrganizerID:   fx.organizerID,
		StartDatetime: start.Add(-time.Hour),
		EndDatetime:   start.Add(time.Hour),
		IsActive:      true,
	}}

	_, appErr := fx.svc.CreateBooking(context.Background(), "alice", bookingRequest(start))
	if appErr == nil || appErr.Code != errors.ErrAlreadyExists {
		t.Errorf("appErr = %v, want ALREADY_EXISTS for a blocked slot", appErr)
	}
}

func TestCreateBookingDoubleBook(t *testing.T) {
	fx := newBookingFixture(1)
	start := futureStart()
	ctx := context.Background()

	if _, appErr := fx.svc.CreateBooking(ctx, "alice", bookingRequest(start)); appErr != nil {
		t.Fatalf("first booking: %v", appErr)
	}
	if _, appErr := fx.svc.CreateBooking(ctx, "alice", bookingRequest(start)); appErr == nil || appErr.Code != errors.ErrAlreadyExists {
		t.Errorf("double booking: appErr = %v, want ALREADY_EXISTS", appErr)
	}

	overlapping := bookingRequest(start.Add(15 * time.Minute))
	if _, appErr := fx.svc.CreateBooking(ctx, "alice", overlapping); appErr == nil || appErr.Code != errors.ErrAlreadyExists {
		t.Errorf("overlapping booking: appErr = %v, want ALREADY_EXISTS", appErr)
	}
}

func TestCreateBookingGroupSeats(t *testing.T) {
	fx := newBookingFixture(4)
	start := futureStart()
	ctx := context.Background()

	first := bookingRequest(start)
	first.AttendeeCount = 2
	if _, appErr := fx.svc.CreateBooking(ctx, "alice", first); appErr != nil {
		t.Fatalf("first group booking: %v", appErr)
	}

	second := bookingRequest(start)
	second.AttendeeCount = 2
	if _, appErr := fx.svc.CreateBooking(ctx, "alice", second); appErr != nil {
		t.Fatalf("second group booking must fit the remaining seats: %v", appErr)
	}

	third := bookingRequest(start)
	third.AttendeeCount = 1
	if _, appErr := fx.svc.CreateBooking(ctx, "alice", third); appErr == nil || appErr.Code != errors.ErrAlreadyExists {
		t.Errorf("overbooked group: appErr = %v, want ALREADY_EXISTS", appErr)
	}
}

func TestCancelBookingIdempotent(t *testing.T) {
	fx := newBookingFixture(1)
	ctx := context.Background()

	resp, appErr := fx.svc.CreateBooking(ctx, "alice", bookingRequest(futureStart()))
	if appErr != nil {
		t.Fatalf("CreateBooking: %v", appErr)
	}
	id, err := uuid.Parse(resp.ID)
	if err != nil {
		t.Fatalf("parse booking id: %v", err)
	}

	cancelled, appErr := fx.svc.CancelBooking(ctx, id)
	if appErr != nil {
		t.Fatalf("CancelBooking: %v", appErr)
	}
	if cancelled.Status != constants.BookingStatusCancelled {
		t.Errorf("status = %q, want cancelled", cancelled.Status)
	}
	if fx.invalidator.calls != 2 {
		t.Errorf("invalidator calls = %d, want 2 (create and cancel)", fx.invalidator.calls)
	}

	again, appErr := fx.svc.CancelBooking(ctx, id)
	if appErr != nil {
		t.Fatalf("second cancel must not error: %v", appErr)
	}
	if again.Status != constants.BookingStatusCancelled {
		t.Errorf("status = %q, want cancelled", again.Status)
	}
	if fx.invalidator.calls != 2 {
		t.Errorf("second cancel must not invalidate again, calls = %d", fx.invalidator.calls)
	}
}

func TestCancelBookingUnknown(t *testing.T) {
	fx := newBookingFixture(1)
	if _, appErr := fx.svc.CancelBooking(context.Background(), uuid.New()); appErr == nil || appErr.Code != errors.ErrNotFound {
		t.Errorf("appErr = %v, want NOT_FOUND", appErr)
	}
}

func TestCancelledSlotCanBeRebooked(t *testing.T) {
	fx := newBookingFixture(1)
	start := futureStart()
	ctx := context.Background()

	resp, appErr := fx.svc.CreateBooking(ctx, "alice", bookingRequest(start))
	if appErr != nil {
		t.Fatalf("CreateBooking: %v", appErr)
	}
	id, _ := uuid.Parse(resp.ID)
	if _, appErr := fx.svc.CancelBooking(ctx, id); appErr != nil {
		t.Fatalf("CancelBooking: %v", appErr)
	}

	if _, appErr := fx.svc.CreateBooking(ctx, "alice", bookingRequest(start)); appErr != nil {
		t.Errorf("rebooking a cancelled slot: %v", appErr)
	}
}
