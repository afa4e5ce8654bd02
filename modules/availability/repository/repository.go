package repository

import (
	"context"
	"time"

	"availability-service/core/database"
	"availability-service/modules/availability/entity"

	"github.com/google/uuid"
)

type AvailabilityRepository interface {
	// Weekly rules
	CreateRule(ctx context.Context, rule *entity.AvailabilityRule) (*entity.AvailabilityRule, error)
	GetRuleByID(ctx context.Context, id uuid.UUID) (*entity.AvailabilityRule, error)
	ListRulesByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]entity.AvailabilityRule, error)
	UpdateRule(ctx context.Context, rule *entity.AvailabilityRule) error
	DeleteRule(ctx context.Context, id uuid.UUID) error

	// Date overrides
	CreateOverride(ctx context.Context, override *entity.DateOverrideRule) (*entity.DateOverrideRule, error)
	GetOverrideByID(ctx context.Context, id uuid.UUID) (*entity.DateOverrideRule, error)
	ListOverridesByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]entity.DateOverrideRule, error)
	ListOverridesInRange(ctx context.Context, organizerID uuid.UUID, from, to time.Time) ([]entity.DateOverrideRule, error)
	UpdateOverride(ctx context.Context, override *entity.DateOverrideRule) error
	DeleteOverride(ctx context.Context, id uuid.UUID) error

	// Recurring blocks
	CreateRecurringBlock(ctx context.Context, block *entity.RecurringBlockedTime) (*entity.RecurringBlockedTime, error)
	GetRecurringBlockByID(ctx context.Context, id uuid.UUID) (*entity.RecurringBlockedTime, error)
	ListRecurringBlocksByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]entity.RecurringBlockedTime, error)
	UpdateRecurringBlock(ctx context.Context, block *entity.RecurringBlockedTime) error
	DeleteRecurringBlock(ctx context.Context, id uuid.UUID) error

	// One-off blocked times
	CreateBlockedTime(ctx context.Context, block *entity.BlockedTime) (*entity.BlockedTime, error)
	GetBlockedTimeByID(ctx context.Context, id uuid.UUID) (*entity.BlockedTime, error)
	ListBlockedTimesByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]entity.BlockedTime, error)
	ListBlockedTimesInRange(ctx context.Context, organizerID uuid.UUID, from, to time.Time) ([]entity.BlockedTime, error)
	UpdateBlockedTime(ctx context.Context, block *entity.BlockedTime) error
	DeleteBlockedTime(ctx context.Context, id uuid.UUID) error

	// Synced blocked times (written by calendar sync only)
	UpsertSyncedBlockedTime(ctx context.Context, block *entity.BlockedTime) error
	DeleteStaleSyncedBlockedTimes(ctx context.Context, organizerID uuid.UUID, source string, keepExternalIDs []string, from, to time.Time) (int64, error)

	// Buffer settings
	GetBufferSettings(ctx context.Context, organizerID uuid.UUID) (*entity.BufferSettings, error)
	UpsertBufferSettings(ctx context.Context, settings *entity.BufferSettings) (*entity.BufferSettings, error)
}

type availabilityRepository struct {
	db database.Database
}

func NewAvailabilityRepository(db database.Database) AvailabilityRepository {
	return &availabilityRepository{db: db}
}
