package service

import (
	"testing"
	"time"

	"availability-service/core/errors"
	"availability-service/modules/availability/dto"

	"github.com/lib/pq"
)

func TestParseSlotQuery(t *testing.T) {
	svc := &AvailabilityService{}
	query := &dto.CalculatedSlotsQuery{
		OrganizerSlug:    "alice",
		EventTypeSlug:    "intro-call",
		StartDate:        "2026-09-07",
		EndDate:          "2026-09-11",
		InviteeTimezones: "America/New_York, Europe/London ,,",
	}

	start, end, count, zones, appErr := svc.parseSlotQuery(query)
	if appErr != nil {
		t.Fatalf("parseSlotQuery: %v", appErr)
	}
	if !start.Equal(time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v, want 2026-09-07", start)
	}
	if !end.Equal(time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v, want 2026-09-11", end)
	}
	if count != 1 {
		t.Errorf("attendee count = %d, want default 1", count)
	}
	if len(zones) != 2 || zones[0] != "America/New_York" || zones[1] != "Europe/London" {
		t.Errorf("zones = %v, want trimmed two-entry list", zones)
	}
}

func TestParseSlotQueryRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.CalculatedSlotsQuery)
	}{
		{"missing event type", func(q *dto.CalculatedSlotsQuery) { q.EventTypeSlug = "" }},
		{"missing start date", func(q *dto.CalculatedSlotsQuery) { q.StartDate = "" }},
		{"missing end date", func(q *dto.CalculatedSlotsQuery) { q.EndDate = "" }},
		{"bad start date", func(q *dto.CalculatedSlotsQuery) { q.StartDate = "07-09-2026" }},
		{"bad end date", func(q *dto.CalculatedSlotsQuery) { q.EndDate = "sometime" }},
		{"end before start", func(q *dto.CalculatedSlotsQuery) { q.StartDate, q.EndDate = "2026-09-11", "2026-09-07" }},
		{"zero attendees", func(q *dto.CalculatedSlotsQuery) { q.AttendeeCount = "0" }},
		{"non numeric attendees", func(q *dto.CalculatedSlotsQuery) { q.AttendeeCount = "lots" }},
	}
	svc := &AvailabilityService{}
	for _, tt := range tests {
		query := &dto.CalculatedSlotsQuery{
			OrganizerSlug: "alice",
			EventTypeSlug: "intro-call",
			StartDate:     "2026-09-07",
			EndDate:       "2026-09-11",
		}
		tt.mutate(query)
		_, _, _, _, appErr := svc.parseSlotQuery(query)
		if appErr == nil {
			t.Errorf("%s: expected an error", tt.name)
			continue
		}
		if appErr.Code != errors.ErrInvalidInput {
			t.Errorf("%s: code = %s, want %s", tt.name, appErr.Code, errors.ErrInvalidInput)
		}
	}
}

func TestParseSlotQueryDateRangeLimit(t *testing.T) {
	svc := &AvailabilityService{}

	// 2026-01-01 through 2026-03-31 is exactly 90 days inclusive.
	ok := &dto.CalculatedSlotsQuery{EventTypeSlug: "intro-call", StartDate: "2026-01-01", EndDate: "2026-03-31"}
	if _, _, _, _, appErr := svc.parseSlotQuery(ok); appErr != nil {
		t.Errorf("90-day range rejected: %v", appErr)
	}

	tooLong := &dto.CalculatedSlotsQuery{EventTypeSlug: "intro-call", StartDate: "2026-01-01", EndDate: "2026-04-01"}
	if _, _, _, _, appErr := svc.parseSlotQuery(tooLong); appErr == nil {
		t.Error("91-day range accepted")
	}
}

func TestValidateClockPair(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		wantErr    bool
	}{
		{"normal window", "09:00", "17:00", false},
		{"spans midnight", "22:00", "02:00", false},
		{"equal endpoints", "09:00", "09:00", true},
		{"bad start", "9am", "17:00", true},
		{"bad end", "09:00", "25:00", true},
	}
	for _, tt := range tests {
		err := validateClockPair(tt.start, tt.end)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: validateClockPair(%q, %q) err = %v, wantErr %v", tt.name, tt.start, tt.end, err, tt.wantErr)
		}
	}
}

func TestValidateOverrideWindow(t *testing.T) {
	s, e := "10:00", "12:00"
	bad := "noon"

	if err := validateOverrideWindow(&s, &e); err != nil {
		t.Errorf("valid window rejected: %v", err)
	}
	if err := validateOverrideWindow(nil, &e); err == nil {
		t.Error("nil start accepted")
	}
	if err := validateOverrideWindow(&s, nil); err == nil {
		t.Error("nil end accepted")
	}
	if err := validateOverrideWindow(&e, &s); err == nil {
		t.Error("end before start accepted; overrides cannot span midnight")
	}
	if err := validateOverrideWindow(&s, &s); err == nil {
		t.Error("equal endpoints accepted")
	}
	if err := validateOverrideWindow(&bad, &e); err == nil {
		t.Error("unparseable start accepted")
	}
}

func TestRuleMinuteSpan(t *testing.T) {
	tests := []struct {
		start, end string
		wantS      int
		wantE      int
	}{
		{"09:00", "17:00", 540, 1020},
		{"00:00", "23:30", 0, 1410},
		{"22:00", "02:00", 1320, 1560},
		{"23:30", "00:30", 1410, 1470},
	}
	for _, tt := range tests {
		s, e := ruleMinuteSpan(tt.start, tt.end)
		if s != tt.wantS || e != tt.wantE {
			t.Errorf("ruleMinuteSpan(%q, %q) = (%d, %d), want (%d, %d)", tt.start, tt.end, s, e, tt.wantS, tt.wantE)
		}
	}
}

func TestScopesShareEventType(t *testing.T) {
	tests := []struct {
		name string
		a, b pq.StringArray
		want bool
	}{
		{"both unrestricted", nil, nil, true},
		{"one unrestricted", pq.StringArray{"x"}, nil, true},
		{"intersecting", pq.StringArray{"x", "y"}, pq.StringArray{"y", "z"}, true},
		{"disjoint", pq.StringArray{"x"}, pq.StringArray{"z"}, false},
	}
	for _, tt := range tests {
		if got := scopesShareEventType(tt.a, tt.b); got != tt.want {
			t.Errorf("%s: scopesShareEventType = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestBoolOr(t *testing.T) {
	yes := true
	if !boolOr(&yes, false) {
		t.Error("explicit true ignored")
	}
	no := false
	if boolOr(&no, true) {
		t.Error("explicit false ignored")
	}
	if !boolOr(nil, true) {
		t.Error("nil must use the fallback")
	}
}

func TestParseDateBounds(t *testing.T) {
	s, e := "2026-09-01", "2026-09-30"
	start, end, appErr := parseDateBounds(&s, &e)
	if appErr != nil {
		t.Fatalf("parseDateBounds: %v", appErr)
	}
	if start == nil || end == nil {
		t.Fatal("bounds came back nil")
	}
	if start.Day() != 1 || end.Day() != 30 {
		t.Errorf("bounds = %v, %v", start, end)
	}

	if _, _, appErr := parseDateBounds(nil, nil); appErr != nil {
		t.Errorf("open bounds rejected: %v", appErr)
	}

	bad := "September"
	if _, _, appErr := parseDateBounds(&bad, nil); appErr == nil {
		t.Error("unparseable start accepted")
	}

	if _, _, appErr := parseDateBounds(&e, &s); appErr == nil {
		t.Error("end before start accepted")
	}
}

func TestParseDatetimePair(t *testing.T) {
	start, end, appErr := parseDatetimePair("2026-09-07T12:00:00+02:00", "2026-09-07T13:00:00+02:00")
	if appErr != nil {
		t.Fatalf("parseDatetimePair: %v", appErr)
	}
	if start.Location() != time.UTC || start.Hour() != 10 {
		t.Errorf("start = %v, want 10:00 UTC", start)
	}
	if !end.After(start) {
		t.Errorf("end %v not after start %v", end, start)
	}

	if _, _, appErr := parseDatetimePair("2026-09-07", "2026-09-07T13:00:00Z"); appErr == nil {
		t.Error("bare date accepted as datetime")
	}
	if _, _, appErr := parseDatetimePair("2026-09-07T13:00:00Z", "2026-09-07T13:00:00Z"); appErr == nil {
		t.Error("zero-length window accepted")
	}
}

func TestFormatDatePtr(t *testing.T) {
	if formatDatePtr(nil) != nil {
		t.Error("nil input must stay nil")
	}
	d := time.Date(2026, 9, 7, 15, 30, 0, 0, time.UTC)
	got := formatDatePtr(&d)
	if got == nil || *got != "2026-09-07" {
		t.Errorf("formatDatePtr = %v, want 2026-09-07", got)
	}
}

func TestRangeDays(t *testing.T) {
	day := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	if got := rangeDays(day, day); got != 1 {
		t.Errorf("same-day range = %d, want 1", got)
	}
	if got := rangeDays(day, day.AddDate(0, 0, 4)); got != 5 {
		t.Errorf("five-day range = %d, want 5", got)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.234, 1.23},
		{1.236, 1.24},
		{0, 0},
		{5.1, 5.1},
	}
	for _, tt := range tests {
		if got := round2(tt.in); got != tt.want {
			t.Errorf("round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
