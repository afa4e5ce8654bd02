package repository

import (
	"context"
	"database/sql"

	"availability-service/core/logger"
	"availability-service/modules/availability/entity"

	"github.com/google/uuid"
)

func (r *availabilityRepository) GetBufferSettings(ctx context.Context, organizerID uuid.UUID) (*entity.BufferSettings, error) {
	var settings entity.BufferSettings
	err := r.db.GetContext(ctx, &settings, `SELECT * FROM buffer_settings WHERE organizer_id = $1`, organizerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AvailabilityRepository:GetBufferSettings:Error", "error", err, "organizer_id", organizerID)
		return nil, err
	}
	return &settings, nil
}

func (r *availabilityRepository) UpsertBufferSettings(ctx context.Context, settings *entity.BufferSettings) (*entity.BufferSettings, error) {
	query := `
		INSERT INTO buffer_settings (organizer_id, default_buffer_before, default_buffer_after, minimum_gap, slot_interval_minutes)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (organizer_id)
		DO UPDATE SET
			default_buffer_before = EXCLUDED.default_buffer_before,
			default_buffer_after = EXCLUDED.default_buffer_after,
			minimum_gap = EXCLUDED.minimum_gap,
			slot_interval_minutes = EXCLUDED.slot_interval_minutes,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		settings.OrganizerID, settings.DefaultBufferBefore, settings.DefaultBufferAfter,
		settings.MinimumGap, settings.SlotIntervalMinutes,
	).Scan(&settings.ID, &settings.CreatedAt, &settings.UpdatedAt)
	if err != nil {
		logger.Error("AvailabilityRepository:UpsertBufferSettings:Error", "error", err, "organizer_id", settings.OrganizerID)
		return nil, err
	}
	return settings, nil
}
