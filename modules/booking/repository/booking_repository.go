package repository

import (
	"context"
	"database/sql"
	"time"

	"availability-service/core/constants"
	"availability-service/core/database"
	"availability-service/core/logger"
	"availability-service/modules/booking/entity"

	"github.com/google/uuid"
)

type BookingRepositoryInterface interface {
	CreateBooking(ctx context.Context, booking *entity.Booking) (*entity.Booking, error)
	GetBookingByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	ListBookingsByOrganizer(ctx context.Context, organizerID uuid.UUID, limit, offset int) ([]entity.Booking, int64, error)
	// ListConfirmedInRange returns confirmed bookings of the organizer that
	// overlap [from, to), across all event types.
	ListConfirmedInRange(ctx context.Context, organizerID uuid.UUID, from, to time.Time) ([]entity.Booking, error)
	UpdateBookingStatus(ctx context.Context, id uuid.UUID, status string) error
}

type bookingRepository struct {
	db database.Database
}

func NewBookingRepository(db database.Database) BookingRepositoryInterface {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) CreateBooking(ctx context.Context, booking *entity.Booking) (*entity.Booking, error) {
	query := `
		INSERT INTO bookings (
			organizer_id, event_type_id, start_time, end_time,
			invitee_name, invitee_email, attendee_count, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		booking.OrganizerID, booking.EventTypeID, booking.StartTime, booking.EndTime,
		booking.InviteeName, booking.InviteeEmail, booking.AttendeeCount, booking.Status,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		logger.Error("BookingRepo:CreateBooking:Error", "error", err, "organizer_id", booking.OrganizerID)
		return nil, err
	}
	return booking, nil
}

func (r *bookingRepository) GetBookingByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	var booking entity.Booking
	query := `SELECT * FROM bookings WHERE id = $1`

	err := r.db.GetContext(ctx, &booking, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("BookingRepo:GetBookingByID:Error", "error", err, "booking_id", id)
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) ListBookingsByOrganizer(ctx context.Context, organizerID uuid.UUID, limit, offset int) ([]entity.Booking, int64, error) {
	bookings := []entity.Booking{}
	query := `
		SELECT * FROM bookings
		WHERE organizer_id = $1
		ORDER BY start_time DESC
		LIMIT $2 OFFSET $3`

	if err := r.db.SelectContext(ctx, &bookings, query, organizerID, limit, offset); err != nil {
		logger.Error("BookingRepo:ListBookingsByOrganizer:Error", "error", err, "organizer_id", organizerID)
		return nil, 0, err
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM bookings WHERE organizer_id = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, organizerID); err != nil {
		logger.Error("BookingRepo:ListBookingsByOrganizer:Count:Error", "error", err, "organizer_id", organizerID)
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *bookingRepository) ListConfirmedInRange(ctx context.Context, organizerID uuid.UUID, from, to time.Time) ([]entity.Booking, error) {
	bookings := []entity.Booking{}
	query := `
		SELECT * FROM bookings
		WHERE organizer_id = $1
		  AND status = $2
		  AND start_time < $4
		  AND end_time > $3
		ORDER BY start_time ASC`

	err := r.db.SelectContext(ctx, &bookings, query, organizerID, constants.BookingStatusConfirmed, from, to)
	if err != nil {
		logger.Error("BookingRepo:ListConfirmedInRange:Error", "error", err, "organizer_id", organizerID)
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.SQLx().ExecContext(ctx, query, id, status)
	if err != nil {
		logger.Error("BookingRepo:UpdateBookingStatus:Error", "error", err, "booking_id", id)
		return err
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
