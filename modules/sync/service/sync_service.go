package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"availability-service/core/config"
	"availability-service/core/constants"
	"availability-service/core/errors"
	"availability-service/core/logger"
	availabilityEntity "availability-service/modules/availability/entity"
	availabilityRepository "availability-service/modules/availability/repository"
	organizerService "availability-service/modules/organizer/service"
	"availability-service/modules/sync/dto"
	"availability-service/modules/sync/entity"
	"availability-service/modules/sync/repository"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleCalendarAPIBase = "https://www.googleapis.com/calendar/v3"
	googleFreeBusyAPI     = googleCalendarAPIBase + "/freeBusy"

	defaultCalendarID = "primary"
	syncBlockReason   = "Google Calendar busy"
)

// CacheInvalidator evicts an organizer's cached slot responses after a sync
// pass changes blocked times.
type CacheInvalidator interface {
	InvalidateOrganizer(ctx context.Context, organizerID uuid.UUID) error
}

type SyncServiceInterface interface {
	ConnectGoogle(ctx context.Context, organizerSlug string, req *dto.ConnectGoogleRequest) (*dto.CalendarConnectionResponse, *errors.AppError)
	ListConnections(ctx context.Context, organizerSlug string) ([]dto.CalendarConnectionResponse, *errors.AppError)
	DisconnectGoogle(ctx context.Context, organizerSlug string) *errors.AppError
	RunGoogleSync(ctx context.Context, organizerSlug string) (*dto.SyncRunResponse, *errors.AppError)
	HandleSyncTask(ctx context.Context, task *asynq.Task) error
}

type SyncService struct {
	repo             repository.SyncRepository
	availabilityRepo availabilityRepository.AvailabilityRepository
	organizerSvc     organizerService.OrganizerServiceInterface
	invalidator      CacheInvalidator
}

func NewSyncService(
	repo repository.SyncRepository,
	availabilityRepo availabilityRepository.AvailabilityRepository,
	organizerSvc organizerService.OrganizerServiceInterface,
	invalidator CacheInvalidator,
) SyncServiceInterface {
	return &SyncService{
		repo:             repo,
		availabilityRepo: availabilityRepo,
		organizerSvc:     organizerSvc,
		invalidator:      invalidator,
	}
}

// ConnectGoogle stores (or replaces) the organizer's Google connection. The
// refresh token must come from an offline-access grant so the sync can keep
// refreshing on its own.
func (s *SyncService) ConnectGoogle(ctx context.Context, organizerSlug string, req *dto.ConnectGoogleRequest) (*dto.CalendarConnectionResponse, *errors.AppError) {
	organizer, appErr := s.organizerSvc.ResolveOrganizer(ctx, organizerSlug)
	if appErr != nil {
		return nil, appErr
	}

	if strings.TrimSpace(req.RefreshToken) == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "refresh_token is required", nil)
	}

	conn := &entity.CalendarConnection{
		OrganizerID:  organizer.ID,
		Provider:     dto.ProviderGoogle,
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
		CalendarID:   defaultCalendarID,
		IsActive:     true,
	}
	if req.CalendarID != "" {
		conn.CalendarID = req.CalendarID
	}
	if req.TokenExpiresAt != "" {
		expiresAt, err := time.Parse(time.RFC3339, req.TokenExpiresAt)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "token_expires_at must be RFC3339", err)
		}
		conn.TokenExpiresAt = expiresAt
	}

	saved, err := s.repo.UpsertConnection(ctx, conn)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to save calendar connection", err)
	}

	logger.Info("SyncService:ConnectGoogle:Saved", "organizer_id", organizer.ID, "calendar_id", saved.CalendarID)
	return toConnectionResponse(saved), nil
}

func (s *SyncService) ListConnections(ctx context.Context, organizerSlug string) ([]dto.CalendarConnectionResponse, *errors.AppError) {
	organizer, appErr := s.organizerSvc.ResolveOrganizer(ctx, organizerSlug)
	if appErr != nil {
		return nil, appErr
	}

	conns, err := s.repo.ListConnectionsByOrganizer(ctx, organizer.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list calendar connections", err)
	}

	result := make([]dto.CalendarConnectionResponse, 0, len(conns))
	for i := range conns {
		result = append(result, *toConnectionResponse(&conns[i]))
	}
	return result, nil
}

func (s *SyncService) DisconnectGoogle(ctx context.Context, organizerSlug string) *errors.AppError {
	organizer, appErr := s.organizerSvc.ResolveOrganizer(ctx, organizerSlug)
	if appErr != nil {
		return appErr
	}

	conn, err := s.repo.GetConnection(ctx, organizer.ID, dto.ProviderGoogle)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to load calendar connection", err)
	}
	if conn == nil {
		return errors.NewAppError(errors.ErrNotFound, "No Google Calendar connection for this organizer", nil)
	}

	if err := s.repo.DeactivateConnection(ctx, organizer.ID, dto.ProviderGoogle); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to disconnect calendar", err)
	}
	return nil
}

// RunGoogleSync performs one on-demand sync pass for the organizer.
func (s *SyncService) RunGoogleSync(ctx context.Context, organizerSlug string) (*dto.SyncRunResponse, *errors.AppError) {
	organizer, appErr := s.organizerSvc.ResolveOrganizer(ctx, organizerSlug)
	if appErr != nil {
		return nil, appErr
	}

	conn, err := s.repo.GetConnection(ctx, organizer.ID, dto.ProviderGoogle)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load calendar connection", err)
	}
	if conn == nil || !conn.IsActive {
		return nil, errors.NewAppError(errors.ErrNotFound, "No Google Calendar connection for this organizer", nil)
	}

	outcome, err := s.syncConnection(ctx, conn)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Calendar sync failed", err)
	}

	return &dto.SyncRunResponse{
		OrganizerSlug: organizer.Slug,
		Provider:      dto.ProviderGoogle,
		BusyIntervals: outcome.busyIntervals,
		Upserted:      outcome.upserted,
		Removed:       outcome.removed,
		SyncedAt:      outcome.syncedAt.UTC().Format(time.RFC3339),
	}, nil
}

// HandleSyncTask is the asynq handler. An empty payload syncs every active
// connection; a payload naming an organizer syncs only that one.
func (s *SyncService) HandleSyncTask(ctx context.Context, task *asynq.Task) error {
	var payload CalendarSyncPayload
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("unmarshal calendar sync payload: %w", err)
		}
	}

	if payload.OrganizerSlug != "" {
		if _, appErr := s.RunGoogleSync(ctx, payload.OrganizerSlug); appErr != nil {
			return fmt.Errorf("sync organizer %q: %w", payload.OrganizerSlug, appErr)
		}
		return nil
	}

	conns, err := s.repo.ListActiveConnections(ctx)
	if err != nil {
		return fmt.Errorf("list active connections: %w", err)
	}

	logger.Info("SyncService:HandleSyncTask:Start", "connections", len(conns))
	synced, failed := 0, 0
	for i := range conns {
		if _, err := s.syncConnection(ctx, &conns[i]); err != nil {
			logger.Warn("SyncService:HandleSyncTask:ConnectionFailed",
				"organizer_id", conns[i].OrganizerID, "provider", conns[i].Provider, "error", err)
			failed++
			continue
		}
		synced++
	}
	logger.Info("SyncService:HandleSyncTask:Complete", "synced", synced, "failed", failed)
	return nil
}

// CalendarSyncPayload targets the sync task at one organizer. Empty means
// all active connections.
type CalendarSyncPayload struct {
	OrganizerSlug string `json:"organizer_slug,omitempty"`
}

type syncOutcome struct {
	busyIntervals int
	upserted      int
	removed       int64
	syncedAt      time.Time
}

// syncConnection pulls busy intervals for the sync horizon, mirrors them as
// synced blocked times, and drops rows whose interval vanished upstream.
func (s *SyncService) syncConnection(ctx context.Context, conn *entity.CalendarConnection) (*syncOutcome, error) {
	now := time.Now().UTC()
	from := now
	to := now.AddDate(0, 0, constants.SyncHorizonDays)

	accessToken, err := s.ensureValidToken(ctx, conn)
	if err != nil {
		return nil, err
	}

	busy, err := s.fetchGoogleFreeBusy(ctx, accessToken, conn.CalendarID, from, to)
	if err != nil {
		return nil, err
	}

	outcome := &syncOutcome{busyIntervals: len(busy), syncedAt: now}
	keepIDs := make([]string, 0, len(busy))
	for _, interval := range busy {
		externalID := freeBusyExternalID(interval.start, interval.end)
		keepIDs = append(keepIDs, externalID)

		block := &availabilityEntity.BlockedTime{
			OrganizerID:       conn.OrganizerID,
			StartDatetime:     interval.start,
			EndDatetime:       interval.end,
			Reason:            syncBlockReason,
			Source:            constants.BlockSourceGoogle,
			ExternalID:        &externalID,
			ExternalUpdatedAt: &now,
			IsActive:          true,
		}
		if err := s.availabilityRepo.UpsertSyncedBlockedTime(ctx, block); err != nil {
			logger.Warn("SyncService:syncConnection:UpsertFailed",
				"organizer_id", conn.OrganizerID, "external_id", externalID, "error", err)
			continue
		}
		outcome.upserted++
	}

	removed, err := s.availabilityRepo.DeleteStaleSyncedBlockedTimes(ctx, conn.OrganizerID, constants.BlockSourceGoogle, keepIDs, from, to)
	if err != nil {
		return nil, err
	}
	outcome.removed = removed

	if err := s.repo.MarkSynced(ctx, conn.ID, now); err != nil {
		logger.Warn("SyncService:syncConnection:MarkSyncedFailed", "id", conn.ID, "error", err)
	}

	if outcome.upserted > 0 || outcome.removed > 0 {
		if err := s.invalidator.InvalidateOrganizer(ctx, conn.OrganizerID); err != nil {
			logger.Warn("SyncService:syncConnection:InvalidateFailed", "organizer_id", conn.OrganizerID, "error", err)
		}
	}

	logger.Info("SyncService:syncConnection:Complete",
		"organizer_id", conn.OrganizerID,
		"busy_intervals", outcome.busyIntervals,
		"upserted", outcome.upserted,
		"removed", outcome.removed)
	return outcome, nil
}

// ensureValidToken returns a usable access token, refreshing through the
// OAuth2 endpoint when the stored one is expired or about to expire.
func (s *SyncService) ensureValidToken(ctx context.Context, conn *entity.CalendarConnection) (string, error) {
	if conn.AccessToken != "" && time.Now().Before(conn.TokenExpiresAt.Add(-5*time.Minute)) {
		return conn.AccessToken, nil
	}

	if conn.RefreshToken == "" {
		return "", fmt.Errorf("access token expired and no refresh token stored")
	}

	cfg, ok := config.GetSafe()
	if !ok {
		return "", fmt.Errorf("config not initialized")
	}

	logger.Info("SyncService:ensureValidToken:Refreshing", "organizer_id", conn.OrganizerID)

	oauthConfig := &oauth2.Config{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		Endpoint:     google.Endpoint,
	}
	tokenSource := oauthConfig.TokenSource(ctx, &oauth2.Token{
		RefreshToken: conn.RefreshToken,
	})

	newToken, err := tokenSource.Token()
	if err != nil {
		logger.Error("SyncService:ensureValidToken:RefreshError", "organizer_id", conn.OrganizerID, "error", err)
		return "", fmt.Errorf("refresh Google token: %w", err)
	}

	conn.AccessToken = newToken.AccessToken
	if newToken.RefreshToken != "" {
		conn.RefreshToken = newToken.RefreshToken
	}
	conn.TokenExpiresAt = newToken.Expiry

	if err := s.repo.UpdateTokens(ctx, conn); err != nil {
		logger.Warn("SyncService:ensureValidToken:SaveFailed", "id", conn.ID, "error", err)
	}

	return newToken.AccessToken, nil
}

type busyInterval struct {
	start time.Time
	end   time.Time
}

// fetchGoogleFreeBusy calls the Google Calendar FreeBusy API for one
// calendar and returns its busy intervals in UTC.
func (s *SyncService) fetchGoogleFreeBusy(ctx context.Context, accessToken, calendarID string, from, to time.Time) ([]busyInterval, error) {
	payload := map[string]any{
		"timeMin": from.Format(time.RFC3339),
		"timeMax": to.Format(time.RFC3339),
		"items": []map[string]string{
			{"id": calendarID},
		},
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", googleFreeBusyAPI, strings.NewReader(string(payloadJSON)))
	if err != nil {
		logger.Error("SyncService:fetchGoogleFreeBusy:NewRequest:Error", "error", err)
		return nil, fmt.Errorf("create freeBusy request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		logger.Error("SyncService:fetchGoogleFreeBusy:DoRequest:Error", "error", err)
		return nil, fmt.Errorf("call freeBusy API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		logger.Error("SyncService:fetchGoogleFreeBusy:APIError", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("Google FreeBusy API error: %d", resp.StatusCode)
	}

	var result struct {
		Calendars map[string]struct {
			Busy []struct {
				Start string `json:"start"`
				End   string `json:"end"`
			} `json:"busy"`
		} `json:"calendars"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		logger.Error("SyncService:fetchGoogleFreeBusy:Decode:Error", "error", err)
		return nil, fmt.Errorf("parse freeBusy response: %w", err)
	}

	var intervals []busyInterval
	cal, ok := result.Calendars[calendarID]
	if !ok {
		return intervals, nil
	}
	for _, b := range cal.Busy {
		start, err := time.Parse(time.RFC3339, b.Start)
		if err != nil {
			logger.Warn("SyncService:fetchGoogleFreeBusy:BadStart", "value", b.Start, "error", err)
			continue
		}
		end, err := time.Parse(time.RFC3339, b.End)
		if err != nil {
			logger.Warn("SyncService:fetchGoogleFreeBusy:BadEnd", "value", b.End, "error", err)
			continue
		}
		if !end.After(start) {
			continue
		}
		intervals = append(intervals, busyInterval{start: start.UTC(), end: end.UTC()})
	}
	return intervals, nil
}

// freeBusyExternalID derives a stable id for a busy interval. FreeBusy does
// not expose event ids, so the interval itself is the identity; a moved event
// shows up as one stale row deleted and one new row upserted.
func freeBusyExternalID(start, end time.Time) string {
	return fmt.Sprintf("freebusy-%d-%d", start.Unix(), end.Unix())
}

func toConnectionResponse(conn *entity.CalendarConnection) *dto.CalendarConnectionResponse {
	resp := &dto.CalendarConnectionResponse{
		ID:          conn.ID.String(),
		Provider:    conn.Provider,
		CalendarID:  conn.CalendarID,
		IsActive:    conn.IsActive,
		ConnectedAt: conn.CreatedAt.UTC().Format(time.RFC3339),
	}
	if conn.LastSyncedAt != nil {
		syncedAt := conn.LastSyncedAt.UTC().Format(time.RFC3339)
		resp.LastSyncedAt = &syncedAt
	}
	return resp
}
