package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"availability-service/core/cache"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// memCache implements cache.Cache against a plain map for tests.
type memCache struct {
	data map[string]string
}

func newMemCache() *memCache {
	return &memCache{data: map[string]string{}}
}

func (m *memCache) Get(ctx context.Context, key string) (string, error) {
	v, ok := m.data[key]
	if !ok {
		return "", cache.ErrNil
	}
	return v, nil
}

func (m *memCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *memCache) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memCache) Incr(ctx context.Context, key string) (int64, error) {
	var n int64
	if v, ok := m.data[key]; ok {
		if _, err := fmt.Sscan(v, &n); err != nil {
			return 0, err
		}
	}
	n++
	m.data[key] = strconv.FormatInt(n, 10)
	return n, nil
}

func (m *memCache) Expire(ctx context.Context, key string, ttl time.Duration) error { return nil }

func (m *memCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

func (m *memCache) Ping(ctx context.Context) error { return nil }

func (m *memCache) Client() *redis.Client { return nil }

func testKeyParams() SlotCacheKeyParams {
	return SlotCacheKeyParams{
		EventTypeSlug:   "intro-call",
		StartDate:       "2026-09-07",
		EndDate:         "2026-09-11",
		InviteeTimezone: "America/New_York",
		AttendeeCount:   1,
		SlotInterval:    30,
	}
}

func TestSlotCacheKeyDeterministic(t *testing.T) {
	store := NewSlotCacheStore(newMemCache())
	orgID := uuid.New()
	ctx := context.Background()

	first := store.Key(ctx, orgID, testKeyParams())
	second := store.Key(ctx, orgID, testKeyParams())
	if first != second {
		t.Errorf("keys differ for identical params: %q vs %q", first, second)
	}
	if !strings.Contains(first, orgID.String()) {
		t.Errorf("key %q does not embed the organizer id", first)
	}
	if !strings.Contains(first, ":v0:") {
		t.Errorf("key %q should start at version 0", first)
	}
}

func TestSlotCacheKeyZoneOrderInsensitive(t *testing.T) {
	a := testKeyParams()
	a.InviteeTimezones = []string{"America/New_York", "Europe/London"}
	b := testKeyParams()
	b.InviteeTimezones = []string{"Europe/London", "America/New_York"}

	if a.digest() != b.digest() {
		t.Error("digest must not depend on timezone list order")
	}
}

func TestSlotCacheKeyParamSensitivity(t *testing.T) {
	baseDigest := testKeyParams().digest()
	tests := []struct {
		name   string
		mutate func(*SlotCacheKeyParams)
	}{
		{"event type", func(p *SlotCacheKeyParams) { p.EventTypeSlug = "deep-dive" }},
		{"start date", func(p *SlotCacheKeyParams) { p.StartDate = "2026-09-08" }},
		{"invitee timezone", func(p *SlotCacheKeyParams) { p.InviteeTimezone = "UTC" }},
		{"attendee count", func(p *SlotCacheKeyParams) { p.AttendeeCount = 3 }},
		{"buffer before", func(p *SlotCacheKeyParams) { p.BufferBefore = 15 }},
		{"minimum gap", func(p *SlotCacheKeyParams) { p.MinimumGap = 10 }},
	}
	for _, tt := range tests {
		p := testKeyParams()
		tt.mutate(&p)
		if p.digest() == baseDigest {
			t.Errorf("%s: digest unchanged after param change", tt.name)
		}
	}
}

func TestSlotCacheGetPut(t *testing.T) {
	store := NewSlotCacheStore(newMemCache())
	ctx := context.Background()
	key := "slots:test:v0:abc"

	if _, ok := store.Get(ctx, key); ok {
		t.Fatal("Get on empty cache reported a hit")
	}
	store.Put(ctx, key, `{"slots":[]}`)
	payload, ok := store.Get(ctx, key)
	if !ok {
		t.Fatal("Get after Put reported a miss")
	}
	if payload != `{"slots":[]}` {
		t.Errorf("payload = %q, want the stored value", payload)
	}
}

func TestInvalidateOrganizerRotatesKeys(t *testing.T) {
	store := NewSlotCacheStore(newMemCache())
	ctx := context.Background()
	orgID := uuid.New()
	other := uuid.New()

	before := store.Key(ctx, orgID, testKeyParams())
	otherBefore := store.Key(ctx, other, testKeyParams())
	store.Put(ctx, before, "cached")

	if err := store.InvalidateOrganizer(ctx, orgID); err != nil {
		t.Fatalf("InvalidateOrganizer: %v", err)
	}

	after := store.Key(ctx, orgID, testKeyParams())
	if after == before {
		t.Error("key unchanged after invalidation")
	}
	if !strings.Contains(after, ":v1:") {
		t.Errorf("key %q should be at version 1", after)
	}
	if _, ok := store.Get(ctx, after); ok {
		t.Error("new key must not address the stale payload")
	}

	if got := store.Key(ctx, other, testKeyParams()); got != otherBefore {
		t.Error("invalidating one organizer must not touch another's keys")
	}
}
