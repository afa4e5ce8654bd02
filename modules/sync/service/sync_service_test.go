package service

import (
	"context"
	"testing"
	"time"

	"availability-service/core/constants"
	"availability-service/core/errors"
	organizerEntity "availability-service/modules/organizer/entity"
	organizerService "availability-service/modules/organizer/service"
	"availability-service/modules/sync/dto"
	"availability-service/modules/sync/entity"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type fakeSyncRepo struct {
	conns map[string]*entity.CalendarConnection
}

func newFakeSyncRepo() *fakeSyncRepo {
	return &fakeSyncRepo{conns: map[string]*entity.CalendarConnection{}}
}

func connKey(organizerID uuid.UUID, provider string) string {
	return organizerID.String() + "/" + provider
}

func (f *fakeSyncRepo) UpsertConnection(ctx context.Context, conn *entity.CalendarConnection) (*entity.CalendarConnection, error) {
	key := connKey(conn.OrganizerID, conn.Provider)
	if existing, ok := f.conns[key]; ok {
		conn.ID = existing.ID
		conn.CreatedAt = existing.CreatedAt
	} else {
		conn.ID = uuid.New()
		conn.CreatedAt = time.Now()
	}
	conn.UpdatedAt = time.Now()
	stored := *conn
	f.conns[key] = &stored
	return conn, nil
}

func (f *fakeSyncRepo) GetConnection(ctx context.Context, organizerID uuid.UUID, provider string) (*entity.CalendarConnection, error) {
	conn, ok := f.conns[connKey(organizerID, provider)]
	if !ok {
		return nil, nil
	}
	copied := *conn
	return &copied, nil
}

func (f *fakeSyncRepo) ListConnectionsByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]entity.CalendarConnection, error) {
	var out []entity.CalendarConnection
	for _, conn := range f.conns {
		if conn.OrganizerID == organizerID {
			out = append(out, *conn)
		}
	}
	return out, nil
}

func (f *fakeSyncRepo) ListActiveConnections(ctx context.Context) ([]entity.CalendarConnection, error) {
	var out []entity.CalendarConnection
	for _, conn := range f.conns {
		if conn.IsActive {
			out = append(out, *conn)
		}
	}
	return out, nil
}

func (f *fakeSyncRepo) UpdateTokens(ctx context.Context, conn *entity.CalendarConnection) error {
	if stored, ok := f.conns[connKey(conn.OrganizerID, conn.Provider)]; ok {
		stored.AccessToken = conn.AccessToken
		stored.RefreshToken = conn.RefreshToken
		stored.TokenExpiresAt = conn.TokenExpiresAt
	}
	return nil
}

func (f *fakeSyncRepo) MarkSynced(ctx context.Context, id uuid.UUID, at time.Time) error {
	for _, conn := range f.conns {
		if conn.ID == id {
			synced := at
			conn.LastSyncedAt = &synced
		}
	}
	return nil
}

func (f *fakeSyncRepo) DeactivateConnection(ctx context.Context, organizerID uuid.UUID, provider string) error {
	if conn, ok := f.conns[connKey(organizerID, provider)]; ok {
		conn.IsActive = false
	}
	return nil
}

type fakeOrganizerResolver struct {
	organizerService.OrganizerServiceInterface
	organizer organizerEntity.Organizer
}

func (f *fakeOrganizerResolver) ResolveOrganizer(ctx context.Context, slug string) (*organizerEntity.Organizer, *errors.AppError) {
	if slug != f.organizer.Slug {
		return nil, errors.NewAppError(errors.ErrNotFound, "Organizer not found", nil)
	}
	org := f.organizer
	return &org, nil
}

func newSyncFixture() (*fakeSyncRepo, uuid.UUID, SyncServiceInterface) {
	repo := newFakeSyncRepo()
	org := organizerEntity.Organizer{Slug: "alice", Name: "Alice", Timezone: "UTC", IsActive: true}
	org.ID = uuid.New()
	svc := NewSyncService(repo, nil, &fakeOrganizerResolver{organizer: org}, nil)
	return repo, org.ID, svc
}

func TestFreeBusyExternalID(t *testing.T) {
	start := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	first := freeBusyExternalID(start, end)
	if first != freeBusyExternalID(start, end) {
		t.Error("same interval must map to the same id")
	}
	if first == freeBusyExternalID(start.Add(time.Minute), end) {
		t.Error("shifted interval must map to a different id")
	}
	want := "freebusy-1788775200-1788778800"
	if first != want {
		t.Errorf("id = %q, want %q", first, want)
	}
}

func TestConnectGoogle(t *testing.T) {
	repo, orgID, svc := newSyncFixture()

	resp, appErr := svc.ConnectGoogle(context.Background(), "alice", &dto.ConnectGoogleRequest{
		RefreshToken: "refresh-abc",
	})
	if appErr != nil {
		t.Fatalf("ConnectGoogle: %v", appErr)
	}
	if resp.Provider != dto.ProviderGoogle {
		t.Errorf("provider = %q, want google", resp.Provider)
	}
	if resp.CalendarID != "primary" {
		t.Errorf("calendar id = %q, want primary default", resp.CalendarID)
	}
	if !resp.IsActive {
		t.Error("new connection must be active")
	}

	stored, _ := repo.GetConnection(context.Background(), orgID, dto.ProviderGoogle)
	if stored == nil || stored.RefreshToken != "refresh-abc" {
		t.Fatalf("stored connection = %+v", stored)
	}
}

func TestConnectGoogleReplacesExisting(t *testing.T) {
	repo, orgID, svc := newSyncFixture()
	ctx := context.Background()

	first, appErr := svc.ConnectGoogle(ctx, "alice", &dto.ConnectGoogleRequest{RefreshToken: "old", CalendarID: "work"})
	if appErr != nil {
		t.Fatalf("first connect: %v", appErr)
	}
	second, appErr := svc.ConnectGoogle(ctx, "alice", &dto.ConnectGoogleRequest{RefreshToken: "new"})
	if appErr != nil {
		t.Fatalf("second connect: %v", appErr)
	}
	if first.ID != second.ID {
		t.Error("reconnecting must reuse the (organizer, provider) row")
	}

	stored, _ := repo.GetConnection(ctx, orgID, dto.ProviderGoogle)
	if stored.RefreshToken != "new" || stored.CalendarID != "primary" {
		t.Errorf("stored = refresh %q calendar %q, want replaced values", stored.RefreshToken, stored.CalendarID)
	}
}

func TestConnectGoogleValidation(t *testing.T) {
	_, _, svc := newSyncFixture()
	ctx := context.Background()

	tests := []struct {
		name string
		slug string
		req  *dto.ConnectGoogleRequest
		code errors.ErrorCode
	}{
		{"missing refresh token", "alice", &dto.ConnectGoogleRequest{}, errors.ErrInvalidInput},
		{"blank refresh token", "alice", &dto.ConnectGoogleRequest{RefreshToken: "   "}, errors.ErrInvalidInput},
		{"bad expiry", "alice", &dto.ConnectGoogleRequest{RefreshToken: "r", TokenExpiresAt: "tomorrow"}, errors.ErrInvalidInput},
		{"unknown organizer", "nobody", &dto.ConnectGoogleRequest{RefreshToken: "r"}, errors.ErrNotFound},
	}
	for _, tt := range tests {
		_, appErr := svc.ConnectGoogle(ctx, tt.slug, tt.req)
		if appErr == nil || appErr.Code != tt.code {
			t.Errorf("%s: appErr = %v, want %s", tt.name, appErr, tt.code)
		}
	}
}

func TestConnectGoogleParsesExpiry(t *testing.T) {
	repo, orgID, svc := newSyncFixture()

	_, appErr := svc.ConnectGoogle(context.Background(), "alice", &dto.ConnectGoogleRequest{
		RefreshToken:   "r",
		AccessToken:    "a",
		TokenExpiresAt: "2026-09-07T12:00:00Z",
	})
	if appErr != nil {
		t.Fatalf("ConnectGoogle: %v", appErr)
	}
	stored, _ := repo.GetConnection(context.Background(), orgID, dto.ProviderGoogle)
	want := time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC)
	if !stored.TokenExpiresAt.Equal(want) {
		t.Errorf("expiry = %v, want %v", stored.TokenExpiresAt, want)
	}
}

func TestDisconnectGoogle(t *testing.T) {
	repo, orgID, svc := newSyncFixture()
	ctx := context.Background()

	if appErr := svc.DisconnectGoogle(ctx, "alice"); appErr == nil || appErr.Code != errors.ErrNotFound {
		t.Errorf("disconnect without connection: appErr = %v, want NOT_FOUND", appErr)
	}

	if _, appErr := svc.ConnectGoogle(ctx, "alice", &dto.ConnectGoogleRequest{RefreshToken: "r"}); appErr != nil {
		t.Fatalf("connect: %v", appErr)
	}
	if appErr := svc.DisconnectGoogle(ctx, "alice"); appErr != nil {
		t.Fatalf("disconnect: %v", appErr)
	}

	stored, _ := repo.GetConnection(ctx, orgID, dto.ProviderGoogle)
	if stored == nil || stored.IsActive {
		t.Error("disconnect must deactivate the row, not delete it")
	}
}

func TestListConnections(t *testing.T) {
	repo, orgID, svc := newSyncFixture()
	ctx := context.Background()

	conns, appErr := svc.ListConnections(ctx, "alice")
	if appErr != nil {
		t.Fatalf("ListConnections: %v", appErr)
	}
	if len(conns) != 0 {
		t.Errorf("expected no connections, got %d", len(conns))
	}

	if _, appErr := svc.ConnectGoogle(ctx, "alice", &dto.ConnectGoogleRequest{RefreshToken: "r"}); appErr != nil {
		t.Fatalf("connect: %v", appErr)
	}
	syncedAt := time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC)
	stored, _ := repo.GetConnection(ctx, orgID, dto.ProviderGoogle)
	if err := repo.MarkSynced(ctx, stored.ID, syncedAt); err != nil {
		t.Fatalf("MarkSynced: %v", err)
	}

	conns, appErr = svc.ListConnections(ctx, "alice")
	if appErr != nil {
		t.Fatalf("ListConnections: %v", appErr)
	}
	if len(conns) != 1 {
		t.Fatalf("expected one connection, got %d", len(conns))
	}
	if conns[0].LastSyncedAt == nil || *conns[0].LastSyncedAt != "2026-09-07T08:00:00Z" {
		t.Errorf("last_synced_at = %v, want 2026-09-07T08:00:00Z", conns[0].LastSyncedAt)
	}
}

func TestRunGoogleSyncWithoutConnection(t *testing.T) {
	_, _, svc := newSyncFixture()

	_, appErr := svc.RunGoogleSync(context.Background(), "alice")
	if appErr == nil || appErr.Code != errors.ErrNotFound {
		t.Errorf("appErr = %v, want NOT_FOUND", appErr)
	}
}

func TestHandleSyncTaskBadPayload(t *testing.T) {
	_, _, svc := newSyncFixture()

	task := asynq.NewTask(constants.TaskTypeCalendarSync, []byte(`{"organizer_slug":`))
	if err := svc.HandleSyncTask(context.Background(), task); err == nil {
		t.Error("malformed payload must fail the task")
	}
}

func TestHandleSyncTaskUnknownOrganizer(t *testing.T) {
	_, _, svc := newSyncFixture()

	task := asynq.NewTask(constants.TaskTypeCalendarSync, []byte(`{"organizer_slug":"nobody"}`))
	if err := svc.HandleSyncTask(context.Background(), task); err == nil {
		t.Error("targeted sync for an unknown organizer must return an error for retry")
	}
}

func TestHandleSyncTaskEmptyPayloadNoConnections(t *testing.T) {
	_, _, svc := newSyncFixture()

	task := asynq.NewTask(constants.TaskTypeCalendarSync, nil)
	if err := svc.HandleSyncTask(context.Background(), task); err != nil {
		t.Errorf("a sweep over zero connections must succeed, got %v", err)
	}
}
