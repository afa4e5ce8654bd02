package repository

import (
	"context"
	"database/sql"
	"time"

	"availability-service/core/logger"
	"availability-service/modules/availability/entity"

	"github.com/google/uuid"
)

func (r *availabilityRepository) CreateRule(ctx context.Context, rule *entity.AvailabilityRule) (*entity.AvailabilityRule, error) {
	query := `
		INSERT INTO availability_rules (organizer_id, day_of_week, start_time, end_time, event_type_ids, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		rule.OrganizerID, rule.DayOfWeek, rule.StartTime, rule.EndTime,
		rule.EventTypeIDs, rule.IsActive,
	).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		logger.Error("AvailabilityRepository:CreateRule:Error", "error", err, "organizer_id", rule.OrganizerID)
		return nil, err
	}
	return rule, nil
}

func (r *availabilityRepository) GetRuleByID(ctx context.Context, id uuid.UUID) (*entity.AvailabilityRule, error) {
	var rule entity.AvailabilityRule
	query := `SELECT * FROM availability_rules WHERE id = $1`
	err := r.db.GetContext(ctx, &rule, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AvailabilityRepository:GetRuleByID:Error", "error", err, "id", id)
		return nil, err
	}
	return &rule, nil
}

func (r *availabilityRepository) ListRulesByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]entity.AvailabilityRule, error) {
	var rules []entity.AvailabilityRule
	query := `
		SELECT * FROM availability_rules
		WHERE organizer_id = $1
		ORDER BY day_of_week, start_time
	`
	err := r.db.SelectContext(ctx, &rules, query, organizerID)
	if err != nil {
		logger.Error("AvailabilityRepository:ListRulesByOrganizer:Error", "error", err, "organizer_id", organizerID)
		return nil, err
	}
	return rules, nil
}

func (r *availabilityRepository) UpdateRule(ctx context.Context, rule *entity.AvailabilityRule) error {
	query := `
		UPDATE availability_rules
		SET day_of_week = $2, start_time = $3, end_time = $4, event_type_ids = $5, is_active = $6, updated_at = NOW()
		WHERE id = $1
	`
	err := r.db.ExecContext(ctx, query,
		rule.ID, rule.DayOfWeek, rule.StartTime, rule.EndTime, rule.EventTypeIDs, rule.IsActive)
	if err != nil {
		logger.Error("AvailabilityRepository:UpdateRule:Error", "error", err, "id", rule.ID)
	}
	return err
}

func (r *availabilityRepository) DeleteRule(ctx context.Context, id uuid.UUID) error {
	err := r.db.ExecContext(ctx, `DELETE FROM availability_rules WHERE id = $1`, id)
	if err != nil {
		logger.Error("AvailabilityRepository:DeleteRule:Error", "error", err, "id", id)
	}
	return err
}

func (r *availabilityRepository) CreateOverride(ctx context.Context, override *entity.DateOverrideRule) (*entity.DateOverrideRule, error) {
	query := `
		INSERT INTO date_override_rules (organizer_id, date, is_available, start_time, end_time, reason, event_type_ids, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		override.OrganizerID, override.Date, override.IsAvailable,
		override.StartTime, override.EndTime, override.Reason,
		override.EventTypeIDs, override.IsActive,
	).Scan(&override.ID, &override.CreatedAt, &override.UpdatedAt)
	if err != nil {
		logger.Error("AvailabilityRepository:CreateOverride:Error", "error", err, "organizer_id", override.OrganizerID)
		return nil, err
	}
	return override, nil
}

func (r *availabilityRepository) GetOverrideByID(ctx context.Context, id uuid.UUID) (*entity.DateOverrideRule, error) {
	var override entity.DateOverrideRule
	err := r.db.GetContext(ctx, &override, `SELECT * FROM date_override_rules WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AvailabilityRepository:GetOverrideByID:Error", "error", err, "id", id)
		return nil, err
	}
	return &override, nil
}

func (r *availabilityRepository) ListOverridesByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]entity.DateOverrideRule, error) {
	var overrides []entity.DateOverrideRule
	query := `
		SELECT * FROM date_override_rules
		WHERE organizer_id = $1
		ORDER BY date
	`
	err := r.db.SelectContext(ctx, &overrides, query, organizerID)
	if err != nil {
		logger.Error("AvailabilityRepository:ListOverridesByOrganizer:Error", "error", err, "organizer_id", organizerID)
		return nil, err
	}
	return overrides, nil
}

func (r *availabilityRepository) ListOverridesInRange(ctx context.Context, organizerID uuid.UUID, from, to time.Time) ([]entity.DateOverrideRule, error) {
	var overrides []entity.DateOverrideRule
	query := `
		SELECT * FROM date_override_rules
		WHERE organizer_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date
	`
	err := r.db.SelectContext(ctx, &overrides, query, organizerID, from, to)
	if err != nil {
		logger.Error("AvailabilityRepository:ListOverridesInRange:Error", "error", err, "organizer_id", organizerID)
		return nil, err
	}
	return overrides, nil
}

func (r *availabilityRepository) UpdateOverride(ctx context.Context, override *entity.DateOverrideRule) error {
	query := `
		UPDATE date_override_rules
		SET date = $2, is_available = $3, start_time = $4, end_time = $5, reason = $6, event_type_ids = $7, is_active = $8, updated_at = NOW()
		WHERE id = $1
	`
	err := r.db.ExecContext(ctx, query,
		override.ID, override.Date, override.IsAvailable, override.StartTime,
		override.EndTime, override.Reason, override.EventTypeIDs, override.IsActive)
	if err != nil {
		logger.Error("AvailabilityRepository:UpdateOverride:Error", "error", err, "id", override.ID)
	}
	return err
}

func (r *availabilityRepository) DeleteOverride(ctx context.Context, id uuid.UUID) error {
	err := r.db.ExecContext(ctx, `DELETE FROM date_override_rules WHERE id = $1`, id)
	if err != nil {
		logger.Error("AvailabilityRepository:DeleteOverride:Error", "error", err, "id", id)
	}
	return err
}

func (r *availabilityRepository) CreateRecurringBlock(ctx context.Context, block *entity.RecurringBlockedTime) (*entity.RecurringBlockedTime, error) {
	query := `
		INSERT INTO recurring_blocked_times (organizer_id, name, day_of_week, start_time, end_time, start_date, end_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		block.OrganizerID, block.Name, block.DayOfWeek, block.StartTime,
		block.EndTime, block.StartDate, block.EndDate, block.IsActive,
	).Scan(&block.ID, &block.CreatedAt, &block.UpdatedAt)
	if err != nil {
		logger.Error("AvailabilityRepository:CreateRecurringBlock:Error", "error", err, "organizer_id", block.OrganizerID)
		return nil, err
	}
	return block, nil
}

func (r *availabilityRepository) GetRecurringBlockByID(ctx context.Context, id uuid.UUID) (*entity.RecurringBlockedTime, error) {
	var block entity.RecurringBlockedTime
	err := r.db.GetContext(ctx, &block, `SELECT * FROM recurring_blocked_times WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AvailabilityRepository:GetRecurringBlockByID:Error", "error", err, "id", id)
		return nil, err
	}
	return &block, nil
}

func (r *availabilityRepository) ListRecurringBlocksByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]entity.RecurringBlockedTime, error) {
	var blocks []entity.RecurringBlockedTime
	query := `
		SELECT * FROM recurring_blocked_times
		WHERE organizer_id = $1
		ORDER BY day_of_week, start_time
	`
	err := r.db.SelectContext(ctx, &blocks, query, organizerID)
	if err != nil {
		logger.Error("AvailabilityRepository:ListRecurringBlocksByOrganizer:Error", "error", err, "organizer_id", organizerID)
		return nil, err
	}
	return blocks, nil
}

func (r *availabilityRepository) UpdateRecurringBlock(ctx context.Context, block *entity.RecurringBlockedTime) error {
	query := `
		UPDATE recurring_blocked_times
		SET name = $2, day_of_week = $3, start_time = $4, end_time = $5, start_date = $6, end_date = $7, is_active = $8, updated_at = NOW()
		WHERE id = $1
	`
	err := r.db.ExecContext(ctx, query,
		block.ID, block.Name, block.DayOfWeek, block.StartTime, block.EndTime,
		block.StartDate, block.EndDate, block.IsActive)
	if err != nil {
		logger.Error("AvailabilityRepository:UpdateRecurringBlock:Error", "error", err, "id", block.ID)
	}
	return err
}

func (r *availabilityRepository) DeleteRecurringBlock(ctx context.Context, id uuid.UUID) error {
	err := r.db.ExecContext(ctx, `DELETE FROM recurring_blocked_times WHERE id = $1`, id)
	if err != nil {
		logger.Error("AvailabilityRepository:DeleteRecurringBlock:Error", "error", err, "id", id)
	}
	return err
}
