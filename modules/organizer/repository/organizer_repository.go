package repository

import (
	"context"
	"database/sql"

	"availability-service/core/database"
	"availability-service/core/logger"
	"availability-service/modules/organizer/entity"

	"github.com/google/uuid"
)

type OrganizerRepository interface {
	CreateOrganizer(ctx context.Context, organizer *entity.Organizer) (*entity.Organizer, error)
	GetOrganizerByID(ctx context.Context, id uuid.UUID) (*entity.Organizer, error)
	GetOrganizerBySlug(ctx context.Context, slug string) (*entity.Organizer, error)
	ListOrganizers(ctx context.Context, limit, offset int) ([]entity.Organizer, int64, error)
	ListActiveOrganizerIDs(ctx context.Context) ([]uuid.UUID, error)
	UpdateOrganizer(ctx context.Context, organizer *entity.Organizer) error
	DeleteOrganizer(ctx context.Context, id uuid.UUID) error
	OrganizerSlugExists(ctx context.Context, slug string) (bool, error)

	CreateEventType(ctx context.Context, eventType *entity.EventType) (*entity.EventType, error)
	GetEventTypeByID(ctx context.Context, id uuid.UUID) (*entity.EventType, error)
	GetEventTypeBySlug(ctx context.Context, organizerID uuid.UUID, slug string) (*entity.EventType, error)
	ListEventTypesByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]entity.EventType, error)
	UpdateEventType(ctx context.Context, eventType *entity.EventType) error
	DeleteEventType(ctx context.Context, id uuid.UUID) error
	EventTypeSlugExists(ctx context.Context, organizerID uuid.UUID, slug string) (bool, error)
}

type organizerRepository struct {
	db database.Database
}

func NewOrganizerRepository(db database.Database) OrganizerRepository {
	return &organizerRepository{db: db}
}

func (r *organizerRepository) CreateOrganizer(ctx context.Context, organizer *entity.Organizer) (*entity.Organizer, error) {
	query := `
		INSERT INTO organizers (slug, name, email, timezone, reasonable_hours_start, reasonable_hours_end, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		organizer.Slug, organizer.Name, organizer.Email, organizer.Timezone,
		organizer.ReasonableHoursStart, organizer.ReasonableHoursEnd, organizer.IsActive,
	).Scan(&organizer.ID, &organizer.CreatedAt, &organizer.UpdatedAt)
	if err != nil {
		logger.Error("OrganizerRepository:CreateOrganizer:Error", "error", err, "slug", organizer.Slug)
		return nil, err
	}
	return organizer, nil
}

func (r *organizerRepository) GetOrganizerByID(ctx context.Context, id uuid.UUID) (*entity.Organizer, error) {
	var organizer entity.Organizer
	err := r.db.GetContext(ctx, &organizer, `SELECT * FROM organizers WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("OrganizerRepository:GetOrganizerByID:Error", "error", err, "id", id)
		return nil, err
	}
	return &organizer, nil
}

func (r *organizerRepository) GetOrganizerBySlug(ctx context.Context, slug string) (*entity.Organizer, error) {
	var organizer entity.Organizer
	err := r.db.GetContext(ctx, &organizer, `SELECT * FROM organizers WHERE slug = $1`, slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("OrganizerRepository:GetOrganizerBySlug:Error", "error", err, "slug", slug)
		return nil, err
	}
	return &organizer, nil
}

func (r *organizerRepository) ListOrganizers(ctx context.Context, limit, offset int) ([]entity.Organizer, int64, error) {
	var organizers []entity.Organizer
	query := `
		SELECT * FROM organizers
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	if err := r.db.SelectContext(ctx, &organizers, query, limit, offset); err != nil {
		logger.Error("OrganizerRepository:ListOrganizers:Error", "error", err)
		return nil, 0, err
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM organizers`); err != nil {
		logger.Error("OrganizerRepository:ListOrganizers:Count:Error", "error", err)
		return nil, 0, err
	}
	return organizers, total, nil
}

func (r *organizerRepository) ListActiveOrganizerIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids, `SELECT id FROM organizers WHERE is_active = true`)
	if err != nil {
		logger.Error("OrganizerRepository:ListActiveOrganizerIDs:Error", "error", err)
		return nil, err
	}
	return ids, nil
}

func (r *organizerRepository) UpdateOrganizer(ctx context.Context, organizer *entity.Organizer) error {
	query := `
		UPDATE organizers
		SET name = $2, email = $3, timezone = $4, reasonable_hours_start = $5, reasonable_hours_end = $6, is_active = $7, updated_at = NOW()
		WHERE id = $1
	`
	err := r.db.ExecContext(ctx, query,
		organizer.ID, organizer.Name, organizer.Email, organizer.Timezone,
		organizer.ReasonableHoursStart, organizer.ReasonableHoursEnd, organizer.IsActive)
	if err != nil {
		logger.Error("OrganizerRepository:UpdateOrganizer:Error", "error", err, "id", organizer.ID)
	}
	return err
}

func (r *organizerRepository) DeleteOrganizer(ctx context.Context, id uuid.UUID) error {
	err := r.db.ExecContext(ctx, `DELETE FROM organizers WHERE id = $1`, id)
	if err != nil {
		logger.Error("OrganizerRepository:DeleteOrganizer:Error", "error", err, "id", id)
	}
	return err
}

func (r *organizerRepository) OrganizerSlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM organizers WHERE slug = $1)`, slug)
	if err != nil {
		logger.Error("OrganizerRepository:OrganizerSlugExists:Error", "error", err, "slug", slug)
		return false, err
	}
	return exists, nil
}

func (r *organizerRepository) CreateEventType(ctx context.Context, eventType *entity.EventType) (*entity.EventType, error) {
	query := `
		INSERT INTO event_types (organizer_id, slug, name, description, duration_minutes, max_attendees, buffer_before, buffer_after, slot_interval_minutes, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		eventType.OrganizerID, eventType.Slug, eventType.Name, eventType.Description,
		eventType.DurationMinutes, eventType.MaxAttendees, eventType.BufferBefore,
		eventType.BufferAfter, eventType.SlotIntervalMinutes, eventType.IsActive,
	).Scan(&eventType.ID, &eventType.CreatedAt, &eventType.UpdatedAt)
	if err != nil {
		logger.Error("OrganizerRepository:CreateEventType:Error", "error", err, "organizer_id", eventType.OrganizerID)
		return nil, err
	}
	return eventType, nil
}

func (r *organizerRepository) GetEventTypeByID(ctx context.Context, id uuid.UUID) (*entity.EventType, error) {
	var eventType entity.EventType
	err := r.db.GetContext(ctx, &eventType, `SELECT * FROM event_types WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("OrganizerRepository:GetEventTypeByID:Error", "error", err, "id", id)
		return nil, err
	}
	return &eventType, nil
}

func (r *organizerRepository) GetEventTypeBySlug(ctx context.Context, organizerID uuid.UUID, slug string) (*entity.EventType, error) {
	var eventType entity.EventType
	query := `SELECT * FROM event_types WHERE organizer_id = $1 AND slug = $2`
	err := r.db.GetContext(ctx, &eventType, query, organizerID, slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("OrganizerRepository:GetEventTypeBySlug:Error", "error", err, "organizer_id", organizerID, "slug", slug)
		return nil, err
	}
	return &eventType, nil
}

func (r *organizerRepository) ListEventTypesByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]entity.EventType, error) {
	var eventTypes []entity.EventType
	query := `
		SELECT * FROM event_types
		WHERE organizer_id = $1
		ORDER BY created_at
	`
	if err := r.db.SelectContext(ctx, &eventTypes, query, organizerID); err != nil {
		logger.Error("OrganizerRepository:ListEventTypesByOrganizer:Error", "error", err, "organizer_id", organizerID)
		return nil, err
	}
	return eventTypes, nil
}

func (r *organizerRepository) UpdateEventType(ctx context.Context, eventType *entity.EventType) error {
	query := `
		UPDATE event_types
		SET name = $2, description = $3, duration_minutes = $4, max_attendees = $5, buffer_before = $6, buffer_after = $7, slot_interval_minutes = $8, is_active = $9, updated_at = NOW()
		WHERE id = $1
	`
	err := r.db.ExecContext(ctx, query,
		eventType.ID, eventType.Name, eventType.Description, eventType.DurationMinutes,
		eventType.MaxAttendees, eventType.BufferBefore, eventType.BufferAfter,
		eventType.SlotIntervalMinutes, eventType.IsActive)
	if err != nil {
		logger.Error("OrganizerRepository:UpdateEventType:Error", "error", err, "id", eventType.ID)
	}
	return err
}

func (r *organizerRepository) DeleteEventType(ctx context.Context, id uuid.UUID) error {
	err := r.db.ExecContext(ctx, `DELETE FROM event_types WHERE id = $1`, id)
	if err != nil {
		logger.Error("OrganizerRepository:DeleteEventType:Error", "error", err, "id", id)
	}
	return err
}

func (r *organizerRepository) EventTypeSlugExists(ctx context.Context, organizerID uuid.UUID, slug string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM event_types WHERE organizer_id = $1 AND slug = $2)`
	err := r.db.GetContext(ctx, &exists, query, organizerID, slug)
	if err != nil {
		logger.Error("OrganizerRepository:EventTypeSlugExists:Error", "error", err, "organizer_id", organizerID, "slug", slug)
		return false, err
	}
	return exists, nil
}
