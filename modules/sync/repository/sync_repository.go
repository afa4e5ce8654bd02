package repository

import (
	"context"
	"database/sql"
	"time"

	"availability-service/core/database"
	"availability-service/core/logger"
	"availability-service/modules/sync/entity"

	"github.com/google/uuid"
)

type SyncRepository interface {
	UpsertConnection(ctx context.Context, conn *entity.CalendarConnection) (*entity.CalendarConnection, error)
	GetConnection(ctx context.Context, organizerID uuid.UUID, provider string) (*entity.CalendarConnection, error)
	ListConnectionsByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]entity.CalendarConnection, error)
	ListActiveConnections(ctx context.Context) ([]entity.CalendarConnection, error)
	UpdateTokens(ctx context.Context, conn *entity.CalendarConnection) error
	MarkSynced(ctx context.Context, id uuid.UUID, at time.Time) error
	DeactivateConnection(ctx context.Context, organizerID uuid.UUID, provider string) error
}

type syncRepository struct {
	db database.Database
}

func NewSyncRepository(db database.Database) SyncRepository {
	return &syncRepository{db: db}
}

// UpsertConnection writes the connection keyed by (organizer, provider).
// Reconnecting replaces the stored tokens and reactivates the row.
func (r *syncRepository) UpsertConnection(ctx context.Context, conn *entity.CalendarConnection) (*entity.CalendarConnection, error) {
	query := `
		INSERT INTO calendar_connections (organizer_id, provider, access_token, refresh_token, token_expires_at, calendar_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (organizer_id, provider)
		DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			token_expires_at = EXCLUDED.token_expires_at,
			calendar_id = EXCLUDED.calendar_id,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		conn.OrganizerID, conn.Provider, conn.AccessToken, conn.RefreshToken,
		conn.TokenExpiresAt, conn.CalendarID, conn.IsActive,
	).Scan(&conn.ID, &conn.CreatedAt, &conn.UpdatedAt)
	if err != nil {
		logger.Error("SyncRepository:UpsertConnection:Error", "error", err, "organizer_id", conn.OrganizerID)
		return nil, err
	}
	return conn, nil
}

func (r *syncRepository) GetConnection(ctx context.Context, organizerID uuid.UUID, provider string) (*entity.CalendarConnection, error) {
	var conn entity.CalendarConnection
	query := `SELECT * FROM calendar_connections WHERE organizer_id = $1 AND provider = $2`
	err := r.db.GetContext(ctx, &conn, query, organizerID, provider)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("SyncRepository:GetConnection:Error", "error", err, "organizer_id", organizerID)
		return nil, err
	}
	return &conn, nil
}

func (r *syncRepository) ListConnectionsByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]entity.CalendarConnection, error) {
	var conns []entity.CalendarConnection
	query := `
		SELECT * FROM calendar_connections
		WHERE organizer_id = $1
		ORDER BY created_at DESC
	`
	err := r.db.SelectContext(ctx, &conns, query, organizerID)
	if err != nil {
		logger.Error("SyncRepository:ListConnectionsByOrganizer:Error", "error", err, "organizer_id", organizerID)
		return nil, err
	}
	return conns, nil
}

// ListActiveConnections returns every active connection, for the periodic
// sync task.
func (r *syncRepository) ListActiveConnections(ctx context.Context) ([]entity.CalendarConnection, error) {
	var conns []entity.CalendarConnection
	query := `
		SELECT * FROM calendar_connections
		WHERE is_active = true
		ORDER BY created_at
	`
	err := r.db.SelectContext(ctx, &conns, query)
	if err != nil {
		logger.Error("SyncRepository:ListActiveConnections:Error", "error", err)
		return nil, err
	}
	return conns, nil
}

func (r *syncRepository) UpdateTokens(ctx context.Context, conn *entity.CalendarConnection) error {
	query := `
		UPDATE calendar_connections
		SET access_token = $2, refresh_token = $3, token_expires_at = $4, updated_at = NOW()
		WHERE id = $1
	`
	err := r.db.ExecContext(ctx, query, conn.ID, conn.AccessToken, conn.RefreshToken, conn.TokenExpiresAt)
	if err != nil {
		logger.Error("SyncRepository:UpdateTokens:Error", "error", err, "id", conn.ID)
	}
	return err
}

func (r *syncRepository) MarkSynced(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE calendar_connections SET last_synced_at = $2, updated_at = NOW() WHERE id = $1`
	err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		logger.Error("SyncRepository:MarkSynced:Error", "error", err, "id", id)
	}
	return err
}

// DeactivateConnection soft-disables the connection; synced blocks are left
// in place until the next sync horizon cleanup.
func (r *syncRepository) DeactivateConnection(ctx context.Context, organizerID uuid.UUID, provider string) error {
	query := `
		UPDATE calendar_connections
		SET is_active = false, updated_at = NOW()
		WHERE organizer_id = $1 AND provider = $2
	`
	err := r.db.ExecContext(ctx, query, organizerID, provider)
	if err != nil {
		logger.Error("SyncRepository:DeactivateConnection:Error", "error", err, "organizer_id", organizerID)
	}
	return err
}
