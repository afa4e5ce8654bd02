package repository

import (
	"context"
	"database/sql"
	"time"

	"availability-service/core/logger"
	"availability-service/modules/availability/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

func (r *availabilityRepository) CreateBlockedTime(ctx context.Context, block *entity.BlockedTime) (*entity.BlockedTime, error) {
	query := `
		INSERT INTO blocked_times (organizer_id, start_datetime, end_datetime, reason, source, external_id, external_updated_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		block.OrganizerID, block.StartDatetime, block.EndDatetime, block.Reason,
		block.Source, block.ExternalID, block.ExternalUpdatedAt, block.IsActive,
	).Scan(&block.ID, &block.CreatedAt, &block.UpdatedAt)
	if err != nil {
		logger.Error("AvailabilityRepository:CreateBlockedTime:Error", "error", err, "organizer_id", block.OrganizerID)
		return nil, err
	}
	return block, nil
}

func (r *availabilityRepository) GetBlockedTimeByID(ctx context.Context, id uuid.UUID) (*entity.BlockedTime, error) {
	var block entity.BlockedTime
	err := r.db.GetContext(ctx, &block, `SELECT * FROM blocked_times WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AvailabilityRepository:GetBlockedTimeByID:Error", "error", err, "id", id)
		return nil, err
	}
	return &block, nil
}

func (r *availabilityRepository) ListBlockedTimesByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]entity.BlockedTime, error) {
	var blocks []entity.BlockedTime
	query := `
		SELECT * FROM blocked_times
		WHERE organizer_id = $1
		ORDER BY start_datetime
	`
	err := r.db.SelectContext(ctx, &blocks, query, organizerID)
	if err != nil {
		logger.Error("AvailabilityRepository:ListBlockedTimesByOrganizer:Error", "error", err, "organizer_id", organizerID)
		return nil, err
	}
	return blocks, nil
}

func (r *availabilityRepository) ListBlockedTimesInRange(ctx context.Context, organizerID uuid.UUID, from, to time.Time) ([]entity.BlockedTime, error) {
	var blocks []entity.BlockedTime
	query := `
		SELECT * FROM blocked_times
		WHERE organizer_id = $1 AND start_datetime < $3 AND end_datetime > $2
		ORDER BY start_datetime
	`
	err := r.db.SelectContext(ctx, &blocks, query, organizerID, from, to)
	if err != nil {
		logger.Error("AvailabilityRepository:ListBlockedTimesInRange:Error", "error", err, "organizer_id", organizerID)
		return nil, err
	}
	return blocks, nil
}

func (r *availabilityRepository) UpdateBlockedTime(ctx context.Context, block *entity.BlockedTime) error {
	query := `
		UPDATE blocked_times
		SET start_datetime = $2, end_datetime = $3, reason = $4, is_active = $5, updated_at = NOW()
		WHERE id = $1
	`
	err := r.db.ExecContext(ctx, query,
		block.ID, block.StartDatetime, block.EndDatetime, block.Reason, block.IsActive)
	if err != nil {
		logger.Error("AvailabilityRepository:UpdateBlockedTime:Error", "error", err, "id", block.ID)
	}
	return err
}

func (r *availabilityRepository) DeleteBlockedTime(ctx context.Context, id uuid.UUID) error {
	err := r.db.ExecContext(ctx, `DELETE FROM blocked_times WHERE id = $1`, id)
	if err != nil {
		logger.Error("AvailabilityRepository:DeleteBlockedTime:Error", "error", err, "id", id)
	}
	return err
}

// UpsertSyncedBlockedTime writes one externally sourced block keyed by
// (organizer, source, external_id).
func (r *availabilityRepository) UpsertSyncedBlockedTime(ctx context.Context, block *entity.BlockedTime) error {
	query := `
		INSERT INTO blocked_times (
			organizer_id, start_datetime, end_datetime, reason,
			source, external_id, external_updated_at, is_active, created_at, updated_at
		)
		VALUES (
			:organizer_id, :start_datetime, :end_datetime, :reason,
			:source, :external_id, :external_updated_at, :is_active, NOW(), NOW()
		)
		ON CONFLICT (organizer_id, source, external_id)
		DO UPDATE SET
			start_datetime = EXCLUDED.start_datetime,
			end_datetime = EXCLUDED.end_datetime,
			reason = EXCLUDED.reason,
			external_updated_at = EXCLUDED.external_updated_at,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
	`
	_, err := r.db.NamedExecContext(ctx, query, block)
	if err != nil {
		logger.Error("AvailabilityRepository:UpsertSyncedBlockedTime:Error", "error", err, "organizer_id", block.OrganizerID)
	}
	return err
}

// DeleteStaleSyncedBlockedTimes removes synced rows inside the horizon whose
// external id no longer appears upstream.
func (r *availabilityRepository) DeleteStaleSyncedBlockedTimes(ctx context.Context, organizerID uuid.UUID, source string, keepExternalIDs []string, from, to time.Time) (int64, error) {
	query := `
		DELETE FROM blocked_times
		WHERE organizer_id = ? AND source = ?
		AND start_datetime < ? AND end_datetime > ?
	`
	args := []any{organizerID, source, to, from}
	if len(keepExternalIDs) > 0 {
		inQuery, inArgs, err := sqlx.In(`AND external_id NOT IN (?)`, keepExternalIDs)
		if err != nil {
			logger.Error("AvailabilityRepository:DeleteStaleSyncedBlockedTimes:In:Error", "error", err)
			return 0, err
		}
		query += " " + inQuery
		args = append(args, inArgs...)
	}
	query = r.db.SQLx().Rebind(query)

	result, err := r.db.SQLx().ExecContext(ctx, query, args...)
	if err != nil {
		logger.Error("AvailabilityRepository:DeleteStaleSyncedBlockedTimes:Error", "error", err, "organizer_id", organizerID)
		return 0, err
	}
	affected, _ := result.RowsAffected()
	return affected, nil
}
