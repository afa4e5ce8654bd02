package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"availability-service/core/cache"
	"availability-service/core/constants"
	"availability-service/core/logger"

	"github.com/google/uuid"
)

// SlotCacheStore holds computed slot responses in Redis. Keys carry a
// per-organizer version stamp; invalidation bumps the version so stale
// entries simply stop being addressed and expire by TTL.
type SlotCacheStore struct {
	cache cache.Cache
}

func NewSlotCacheStore(c cache.Cache) *SlotCacheStore {
	return &SlotCacheStore{cache: c}
}

// SlotCacheKeyParams are the request parameters that distinguish cache
// entries. Buffer and interval values are baked in so settings changes
// between version bumps can never serve a mismatched payload.
type SlotCacheKeyParams struct {
	EventTypeSlug    string
	StartDate        string
	EndDate          string
	InviteeTimezone  string
	InviteeTimezones []string
	AttendeeCount    int
	SlotInterval     int
	BufferBefore     int
	BufferAfter      int
	MinimumGap       int
}

func (p SlotCacheKeyParams) digest() string {
	zones := make([]string, len(p.InviteeTimezones))
	copy(zones, p.InviteeTimezones)
	sort.Strings(zones)

	raw := strings.Join([]string{
		p.EventTypeSlug,
		p.StartDate,
		p.EndDate,
		p.InviteeTimezone,
		strings.Join(zones, ","),
		fmt.Sprintf("%d:%d:%d:%d:%d", p.AttendeeCount, p.SlotInterval, p.BufferBefore, p.BufferAfter, p.MinimumGap),
	}, "|")

	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:16])
}

// Key builds the versioned cache key for one request.
func (s *SlotCacheStore) Key(ctx context.Context, organizerID uuid.UUID, params SlotCacheKeyParams) string {
	version := s.currentVersion(ctx, organizerID)
	return fmt.Sprintf("%s:%s:v%d:%s", constants.RedisKeySlotCache, organizerID, version, params.digest())
}

func (s *SlotCacheStore) Get(ctx context.Context, key string) (string, bool) {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		if err != cache.ErrNil {
			logger.Warn("SlotCacheStore:Get:Error", "error", err, "key", key)
		}
		return "", false
	}
	return value, true
}

func (s *SlotCacheStore) Put(ctx context.Context, key string, payload string) {
	if err := s.cache.Set(ctx, key, payload, constants.SlotCacheTTL); err != nil {
		logger.Warn("SlotCacheStore:Put:Error", "error", err, "key", key)
	}
}

// InvalidateOrganizer evicts every cached response for the organizer by
// bumping the version counter.
func (s *SlotCacheStore) InvalidateOrganizer(ctx context.Context, organizerID uuid.UUID) error {
	key := versionKey(organizerID)
	version, err := s.cache.Incr(ctx, key)
	if err != nil {
		logger.Error("SlotCacheStore:InvalidateOrganizer:Error", "error", err, "organizer_id", organizerID)
		return err
	}
	logger.Info("SlotCacheStore:InvalidateOrganizer", "organizer_id", organizerID, "version", version)
	return nil
}

func (s *SlotCacheStore) currentVersion(ctx context.Context, organizerID uuid.UUID) int64 {
	value, err := s.cache.Get(ctx, versionKey(organizerID))
	if err != nil {
		if err != cache.ErrNil {
			logger.Warn("SlotCacheStore:currentVersion:Error", "error", err, "organizer_id", organizerID)
		}
		return 0
	}
	var version int64
	if _, err := fmt.Sscan(value, &version); err != nil {
		return 0
	}
	return version
}

func versionKey(organizerID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", constants.RedisKeySlotVersion, organizerID)
}
