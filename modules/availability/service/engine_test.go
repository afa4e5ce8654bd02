package service

import (
	"testing"
	"time"

	"availability-service/core/constants"
	"availability-service/modules/availability/entity"
	bookingEntity "availability-service/modules/booking/entity"
	organizerEntity "availability-service/modules/organizer/entity"

	"github.com/google/uuid"
)

// 2026-09-07 is a Monday, 2026-09-11 a Friday, 2026-09-12 a Saturday.
var (
	monday   = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	tuesday  = time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
	friday   = time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC)
	saturday = time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
)

func testRuleSet() RuleSet {
	orgID := uuid.New()
	etID := uuid.New()
	rs := RuleSet{
		Organizer: organizerEntity.Organizer{
			Slug:                 "alice",
			Name:                 "Alice",
			Timezone:             "UTC",
			ReasonableHoursStart: 7,
			ReasonableHoursEnd:   22,
			IsActive:             true,
		},
		EventType: organizerEntity.EventType{
			OrganizerID:     orgID,
			Slug:            "intro-call",
			Name:            "Intro Call",
			DurationMinutes: 30,
			MaxAttendees:    1,
			IsActive:        true,
		},
		Buffers: entity.BufferSettings{SlotIntervalMinutes: 30},
	}
	rs.Organizer.ID = orgID
	rs.EventType.ID = etID
	return rs
}

func weeklyRule(day int, start, end string) entity.AvailabilityRule {
	r := entity.AvailabilityRule{
		DayOfWeek: day,
		StartTime: start,
		EndTime:   end,
		IsActive:  true,
	}
	r.ID = uuid.New()
	return r
}

func singleDayRequest(day time.Time) SlotRequest {
	return SlotRequest{
		StartDate:       day,
		EndDate:         day,
		InviteeTimezone: "UTC",
		AttendeeCount:   1,
	}
}

func slotStarts(slots []Slot) []time.Time {
	out := make([]time.Time, len(slots))
	for i := range slots {
		out[i] = slots[i].Start
	}
	return out
}

func TestCalculateBasicDay(t *testing.T) {
	rs := testRuleSet()
	rs.Rules = []entity.AvailabilityRule{weeklyRule(0, "09:00", "17:00")}

	res := NewSlotEngine().Calculate(singleDayRequest(monday), rs)

	if len(res.Slots) != 16 {
		t.Fatalf("slot count = %d, want 16", len(res.Slots))
	}
	wantFirst := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	wantLast := time.Date(2026, 9, 7, 16, 30, 0, 0, time.UTC)
	if !res.Slots[0].Start.Equal(wantFirst) {
		t.Errorf("first slot = %v, want %v", res.Slots[0].Start, wantFirst)
	}
	if !res.Slots[15].Start.Equal(wantLast) {
		t.Errorf("last slot = %v, want %v", res.Slots[15].Start, wantLast)
	}
	if res.Slots[0].DurationMinutes != 30 {
		t.Errorf("duration = %d, want 30", res.Slots[0].DurationMinutes)
	}
	if res.MultiInviteeMode {
		t.Error("MultiInviteeMode = true, want false")
	}
	if len(res.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", res.Warnings)
	}
	if res.DateRangeDays != 1 {
		t.Errorf("DateRangeDays = %d, want 1", res.DateRangeDays)
	}
}

func TestCalculateNoRulesNoSlots(t *testing.T) {
	rs := testRuleSet()
	res := NewSlotEngine().Calculate(singleDayRequest(monday), rs)
	if len(res.Slots) != 0 {
		t.Errorf("slot count = %d, want 0", len(res.Slots))
	}
}

func TestCalculateRuleScopedToOtherEventType(t *testing.T) {
	rs := testRuleSet()
	rule := weeklyRule(0, "09:00", "17:00")
	rule.EventTypeIDs = []string{uuid.NewString()}
	rs.Rules = []entity.AvailabilityRule{rule}

	res := NewSlotEngine().Calculate(singleDayRequest(monday), rs)
	if len(res.Slots) != 0 {
		t.Errorf("slot count = %d, want 0 for out-of-scope rule", len(res.Slots))
	}
}

func TestCalculateInvalidInviteeTimezoneFallsBackToUTC(t *testing.T) {
	rs := testRuleSet()
	rs.Rules = []entity.AvailabilityRule{weeklyRule(0, "09:00", "17:00")}

	req := singleDayRequest(monday)
	req.InviteeTimezone = "Fake/Zone"
	res := NewSlotEngine().Calculate(req, rs)

	if res.Timezone != "UTC" {
		t.Errorf("Timezone = %q, want UTC", res.Timezone)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", res.Warnings)
	}
	if len(res.Slots) != 16 {
		t.Errorf("slot count = %d, want 16; fallback must not drop slots", len(res.Slots))
	}
	if !res.Slots[0].LocalStart.Equal(res.Slots[0].Start) {
		t.Errorf("LocalStart = %v, want UTC %v", res.Slots[0].LocalStart, res.Slots[0].Start)
	}
}

func TestCalculateInvalidOrganizerTimezoneWarns(t *testing.T) {
	rs := testRuleSet()
	rs.Organizer.Timezone = "Not/AZone"
	rs.Rules = []entity.AvailabilityRule{weeklyRule(0, "09:00", "17:00")}

	res := NewSlotEngine().Calculate(singleDayRequest(monday), rs)
	if len(res.Warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", res.Warnings)
	}
	if len(res.Slots) != 16 {
		t.Errorf("slot count = %d, want 16 after UTC fallback", len(res.Slots))
	}
}

func TestCalculateUnavailableOverrideRemovesDay(t *testing.T) {
	rs := testRuleSet()
	rs.Rules = []entity.AvailabilityRule{weeklyRule(0, "09:00", "17:00")}
	ov := entity.DateOverrideRule{
		Date:        monday,
		IsAvailable: false,
		Reason:      "Holiday",
		IsActive:    true,
	}
	ov.ID = uuid.New()
	rs.Overrides = []entity.DateOverrideRule{ov}

	res := NewSlotEngine().Calculate(singleDayRequest(monday), rs)
	if len(res.Slots) != 0 {
		t.Errorf("slot count = %d, want 0 on overridden holiday", len(res.Slots))
	}
}

func TestCalculateAvailableOverrideReplacesWeeklyRules(t *testing.T) {
	rs := testRuleSet()
	rs.Rules = []entity.AvailabilityRule{weeklyRule(0, "09:00", "17:00")}
	start, end := "10:00", "12:00"
	ov := entity.DateOverrideRule{
		Date:        monday,
		IsAvailable: true,
		StartTime:   &start,
		EndTime:     &end,
		IsActive:    true,
	}
	ov.ID = uuid.New()
	rs.Overrides = []entity.DateOverrideRule{ov}

	res := NewSlotEngine().Calculate(singleDayRequest(monday), rs)
	if len(res.Slots) != 4 {
		t.Fatalf("slot count = %d, want 4 from the override window alone", len(res.Slots))
	}
	wantFirst := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	if !res.Slots[0].Start.Equal(wantFirst) {
		t.Errorf("first slot = %v, want %v", res.Slots[0].Start, wantFirst)
	}
}

func TestCalculateInactiveOverrideIgnored(t *testing.T) {
	rs := testRuleSet()
	rs.Rules = []entity.AvailabilityRule{weeklyRule(0, "09:00", "17:00")}
	ov := entity.DateOverrideRule{
		Date:        monday,
		IsAvailable: false,
		IsActive:    false,
	}
	ov.ID = uuid.New()
	rs.Overrides = []entity.DateOverrideRule{ov}

	res := NewSlotEngine().Calculate(singleDayRequest(monday), rs)
	if len(res.Slots) != 16 {
		t.Errorf("slot count = %d, want 16; inactive override must not apply", len(res.Slots))
	}
}

func TestCalculateMidnightSpanningRule(t *testing.T) {
	rs := testRuleSet()
	rs.Rules = []entity.AvailabilityRule{weeklyRule(4, "22:00", "02:00")}

	res := NewSlotEngine().Calculate(singleDayRequest(friday), rs)
	if len(res.Slots) != 8 {
		t.Fatalf("slot count = %d, want 8 for a 22:00-02:00 window", len(res.Slots))
	}
	wantFirst := time.Date(2026, 9, 11, 22, 0, 0, 0, time.UTC)
	wantLast := time.Date(2026, 9, 12, 1, 30, 0, 0, time.UTC)
	if !res.Slots[0].Start.Equal(wantFirst) {
		t.Errorf("first slot = %v, want %v", res.Slots[0].Start, wantFirst)
	}
	if !res.Slots[7].Start.Equal(wantLast) {
		t.Errorf("last slot = %v, want %v", res.Slots[7].Start, wantLast)
	}
}

func TestCalculateMidnightSpillStopsAtNextDayOverride(t *testing.T) {
	rs := testRuleSet()
	rs.Rules = []entity.AvailabilityRule{weeklyRule(4, "22:00", "02:00")}
	ov := entity.DateOverrideRule{
		Date:        saturday,
		IsAvailable: false,
		IsActive:    true,
	}
	ov.ID = uuid.New()
	rs.Overrides = []entity.DateOverrideRule{ov}

	res := NewSlotEngine().Calculate(singleDayRequest(friday), rs)
	if len(res.Slots) != 4 {
		t.Fatalf("slot count = %d, want 4; spillover must stop at the overridden date", len(res.Slots))
	}
	wantLast := time.Date(2026, 9, 11, 23, 30, 0, 0, time.UTC)
	if !res.Slots[3].Start.Equal(wantLast) {
		t.Errorf("last slot = %v, want %v", res.Slots[3].Start, wantLast)
	}

	satRes := NewSlotEngine().Calculate(singleDayRequest(saturday), rs)
	if len(satRes.Slots) != 0 {
		t.Errorf("saturday slot count = %d, want 0", len(satRes.Slots))
	}
}

func TestCalculateDedupesOverlappingWindows(t *testing.T) {
	rs := testRuleSet()
	rs.Rules = []entity.AvailabilityRule{
		weeklyRule(4, "22:00", "02:00"),
		weeklyRule(5, "01:00", "03:00"),
	}

	req := SlotRequest{StartDate: friday, EndDate: saturday, InviteeTimezone: "UTC", AttendeeCount: 1}
	res := NewSlotEngine().Calculate(req, rs)

	if len(res.Slots) != 10 {
		t.Fatalf("slot count = %d, want 10 distinct starts", len(res.Slots))
	}
	starts := slotStarts(res.Slots)
	for i := 1; i < len(starts); i++ {
		if !starts[i].After(starts[i-1]) {
			t.Errorf("slots out of order or duplicated at %d: %v then %v", i, starts[i-1], starts[i])
		}
	}
}

func TestCalculateChronologicalAcrossDays(t *testing.T) {
	rs := testRuleSet()
	rs.Rules = []entity.AvailabilityRule{
		weeklyRule(0, "13:00", "14:00"),
		weeklyRule(0, "09:00", "10:00"),
		weeklyRule(1, "08:00", "09:00"),
	}

	req := SlotRequest{StartDate: monday, EndDate: tuesday, InviteeTimezone: "UTC", AttendeeCount: 1}
	res := NewSlotEngine().Calculate(req, rs)

	if len(res.Slots) != 6 {
		t.Fatalf("slot count = %d, want 6", len(res.Slots))
	}
	starts := slotStarts(res.Slots)
	for i := 1; i < len(starts); i++ {
		if !starts[i].After(starts[i-1]) {
			t.Errorf("slots not strictly ascending at %d: %v then %v", i, starts[i-1], starts[i])
		}
	}
	if res.DateRangeDays != 2 {
		t.Errorf("DateRangeDays = %d, want 2", res.DateRangeDays)
	}
}

func TestCalculateDeterministic(t *testing.T) {
	rs := testRuleSet()
	rs.Rules = []entity.AvailabilityRule{
		weeklyRule(0, "09:00", "17:00"),
		weeklyRule(4, "22:00", "02:00"),
	}

	req := SlotRequest{StartDate: monday, EndDate: saturday, InviteeTimezone: "UTC", AttendeeCount: 1}
	engine := NewSlotEngine()
	first := engine.Calculate(req, rs)
	second := engine.Calculate(req, rs)

	if len(first.Slots) != len(second.Slots) {
		t.Fatalf("runs differ in length: %d vs %d", len(first.Slots), len(second.Slots))
	}
	for i := range first.Slots {
		if !first.Slots[i].Start.Equal(second.Slots[i].Start) || !first.Slots[i].End.Equal(second.Slots[i].End) {
			t.Errorf("slot %d differs between runs", i)
		}
	}
}

func TestCalculateCapacityExceededRemovesSlotsSilently(t *testing.T) {
	rs := testRuleSet()
	rs.Rules = []entity.AvailabilityRule{weeklyRule(0, "09:00", "17:00")}

	req := singleDayRequest(monday)
	req.AttendeeCount = 5
	res := NewSlotEngine().Calculate(req, rs)

	if len(res.Slots) != 0 {
		t.Errorf("slot count = %d, want 0 when attendees exceed capacity", len(res.Slots))
	}
	if len(res.Warnings) != 0 {
		t.Errorf("warnings = %v, want none; capacity filtering is silent", res.Warnings)
	}
}

func TestCalculateBlockedTimeSplitsDay(t *testing.T) {
	rs := testRuleSet()
	rs.Rules = []entity.AvailabilityRule{weeklyRule(0, "09:00", "17:00")}
	block := entity.BlockedTime{
		StartDatetime: time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC),
		EndDatetime:   time.Date(2026, 9, 7, 13, 0, 0, 0, time.UTC),
		Source:        "manual",
		IsActive:      true,
	}
	block.ID = uuid.New()
	rs.Blocks = []entity.BlockedTime{block}

	res := NewSlotEngine().Calculate(singleDayRequest(monday), rs)
	if len(res.Slots) != 14 {
		t.Fatalf("slot count = %d, want 14 around a 12:00-13:00 block", len(res.Slots))
	}
	for _, s := range res.Slots {
		if s.Start.After(time.Date(2026, 9, 7, 11, 30, 0, 0, time.UTC)) && s.Start.Before(time.Date(2026, 9, 7, 13, 0, 0, 0, time.UTC)) {
			t.Errorf("slot %v intrudes into the blocked window", s.Start)
		}
	}
}

func TestCalculateInactiveBlockIgnored(t *testing.T) {
	rs := testRuleSet()
	rs.Rules = []entity.AvailabilityRule{weeklyRule(0, "09:00", "17:00")}
	block := entity.BlockedTime{
		StartDatetime: time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC),
		EndDatetime:   time.Date(2026, 9, 7, 13, 0, 0, 0, time.UTC),
		IsActive:      false,
	}
	block.ID = uuid.New()
	rs.Blocks = []entity.BlockedTime{block}

	res := NewSlotEngine().Calculate(singleDayRequest(monday), rs)
	if len(res.Slots) != 16 {
		t.Errorf("slot count = %d, want 16; inactive blocks must not apply", len(res.Slots))
	}
}

func TestCalculateBuffersKeepPaddingClearOfBlocks(t *testing.T) {
	rs := testRuleSet()
	rs.Rules = []entity.AvailabilityRule{weeklyRule(0, "09:00", "17:00")}
	rs.Buffers.DefaultBufferBefore = 15
	rs.Buffers.DefaultBufferAfter = 15
	block := entity.BlockedTime{
		StartDatetime: time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC),
		EndDatetime:   time.Date(2026, 9, 7, 13, 0, 0, 0, time.UTC),
		IsActive:      true,
	}
	block.ID = uuid.New()
	rs.Blocks = []entity.BlockedTime{block}

	res := NewSlotEngine().Calculate(singleDayRequest(monday), rs)

	// 11:30 and 13:00 fall to the padding; 12:00 and 12:30 to the block.
	if len(res.Slots) != 12 {
		t.Fatalf("slot count = %d, want 12", len(res.Slots))
	}
	for _, s := range res.Slots {
		padded := interval{start: s.Start.Add(-15 * time.Minute), end: s.End.Add(15 * time.Minute)}
		if padded.overlaps(interval{start: block.StartDatetime, end: block.EndDatetime}) {
			t.Errorf("padded slot %v-%v overlaps the block", s.Start, s.End)
		}
	}
}

func TestCalculateBookingConflictWithBuffers(t *testing.T) {
	rs := testRuleSet()
	rs.Rules = []entity.AvailabilityRule{weeklyRule(0, "09:00", "17:00")}
	rs.Buffers.DefaultBufferBefore = 15
	rs.Buffers.DefaultBufferAfter = 15
	bk := bookingEntity.Booking{
		OrganizerID:   rs.Organizer.ID,
		EventTypeID:   uuid.New(),
		StartTime:     time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC),
		EndTime:       time.Date(2026, 9, 7, 10, 30, 0, 0, time.UTC),
		AttendeeCount: 1,
		Status:        constants.BookingStatusConfirmed,
	}
	bk.ID = uuid.New()
	rs.Bookings = []bookingEntity.Booking{bk}

	res := NewSlotEngine().Calculate(singleDayRequest(monday), rs)

	// 09:30, 10:00 and 10:30 all pad into the booking.
	if len(res.Slots) != 13 {
		t.Fatalf("slot count = %d, want 13", len(res.Slots))
	}
	removed := map[string]bool{"09:30": true, "10:00": true, "10:30": true}
	for _, s := range res.Slots {
		if removed[s.Start.Format("15:04")] {
			t.Errorf("slot %v should have been removed by booking padding", s.Start)
		}
	}
}

func TestCalculateCancelledBookingDoesNotConflict(t *testing.T) {
	rs := testRuleSet()
	rs.Rules = []entity.AvailabilityRule{weeklyRule(0, "09:00", "17:00")}
	bk := bookingEntity.Booking{
		OrganizerID:   rs.Organizer.ID,
		EventTypeID:   rs.EventType.ID,
		StartTime:     time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC),
		EndTime:       time.Date(2026, 9, 7, 10, 30, 0, 0, time.UTC),
		AttendeeCount: 1,
		Status:        constants.BookingStatusCancelled,
	}
	bk.ID = uuid.New()
	rs.Bookings = []bookingEntity.Booking{bk}

	res := NewSlotEngine().Calculate(singleDayRequest(monday), rs)
	if len(res.Slots) != 16 {
		t.Errorf("slot count = %d, want 16; cancelled bookings must not block", len(res.Slots))
	}
}

func TestCalculateGroupEventSeatAccumulation(t *testing.T) {
	rs := testRuleSet()
	rs.EventType.MaxAttendees = 4
	rs.Rules = []entity.AvailabilityRule{weeklyRule(0, "09:00", "17:00")}
	bk := bookingEntity.Booking{
		OrganizerID:   rs.Organizer.ID,
		EventTypeID:   rs.EventType.ID,
		StartTime:     time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC),
		EndTime:       time.Date(2026, 9, 7, 10, 30, 0, 0, time.UTC),
		AttendeeCount: 2,
		Status:        constants.BookingStatusConfirmed,
	}
	bk.ID = uuid.New()
	rs.Bookings = []bookingEntity.Booking{bk}

	ten := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)

	req := singleDayRequest(monday)
	req.AttendeeCount = 2
	res := NewSlotEngine().Calculate(req, rs)
	found := false
	for _, s := range res.Slots {
		if s.Start.Equal(ten) {
			found = true
		}
	}
	if !found {
		t.Error("10:00 slot missing; 2 seats remain out of 4")
	}

	req.AttendeeCount = 3
	res = NewSlotEngine().Calculate(req, rs)
	for _, s := range res.Slots {
		if s.Start.Equal(ten) {
			t.Error("10:00 slot present; 2+3 exceeds capacity 4")
		}
	}
	if len(res.Slots) == 0 {
		t.Error("other slots must survive when only one start is full")
	}
}

func TestCalculateOtherEventTypeBookingBlocksGroupSlot(t *testing.T) {
	rs := testRuleSet()
	rs.EventType.MaxAttendees = 4
	rs.Rules = []entity.AvailabilityRule{weeklyRule(0, "09:00", "17:00")}
	bk := bookingEntity.Booking{
		OrganizerID:   rs.Organizer.ID,
		EventTypeID:   uuid.New(),
		StartTime:     time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC),
		EndTime:       time.Date(2026, 9, 7, 10, 30, 0, 0, time.UTC),
		AttendeeCount: 1,
		Status:        constants.BookingStatusConfirmed,
	}
	bk.ID = uuid.New()
	rs.Bookings = []bookingEntity.Booking{bk}

	ten := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	res := NewSlotEngine().Calculate(singleDayRequest(monday), rs)
	for _, s := range res.Slots {
		if s.Start.Equal(ten) {
			t.Error("10:00 slot present; a different event type holds that time")
		}
	}
}

func TestCalculateRecurringBlock(t *testing.T) {
	rs := testRuleSet()
	rs.Rules = []entity.AvailabilityRule{weeklyRule(0, "09:00", "17:00")}
	rb := entity.RecurringBlockedTime{
		Name:      "Lunch",
		DayOfWeek: 0,
		StartTime: "12:00",
		EndTime:   "13:00",
		IsActive:  true,
	}
	rb.ID = uuid.New()
	rs.RecurringBlocks = []entity.RecurringBlockedTime{rb}

	res := NewSlotEngine().Calculate(singleDayRequest(monday), rs)
	if len(res.Slots) != 14 {
		t.Fatalf("slot count = %d, want 14 around the lunch block", len(res.Slots))
	}
	noon := time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC)
	for _, s := range res.Slots {
		if s.Start.Equal(noon) || s.Start.Equal(noon.Add(30*time.Minute)) {
			t.Errorf("slot %v falls inside the recurring block", s.Start)
		}
	}
}

func TestCalculateRecurringBlockOutsideDateBounds(t *testing.T) {
	rs := testRuleSet()
	rs.Rules = []entity.AvailabilityRule{weeklyRule(0, "09:00", "17:00")}
	boundStart := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	rb := entity.RecurringBlockedTime{
		Name:      "Future standing meeting",
		DayOfWeek: 0,
		StartTime: "12:00",
		EndTime:   "13:00",
		StartDate: &boundStart,
		IsActive:  true,
	}
	rb.ID = uuid.New()
	rs.RecurringBlocks = []entity.RecurringBlockedTime{rb}

	res := NewSlotEngine().Calculate(singleDayRequest(monday), rs)
	if len(res.Slots) != 16 {
		t.Errorf("slot count = %d, want 16; the block starts only in October", len(res.Slots))
	}
}

func TestCalculateOrganizerTimezoneAnchorsWindows(t *testing.T) {
	rs := testRuleSet()
	rs.Organizer.Timezone = "America/New_York"
	rs.Rules = []entity.AvailabilityRule{weeklyRule(0, "09:00", "10:00")}

	res := NewSlotEngine().Calculate(singleDayRequest(monday), rs)
	if len(res.Slots) != 2 {
		t.Fatalf("slot count = %d, want 2", len(res.Slots))
	}
	// 09:00 New York is 13:00 UTC during DST.
	want := time.Date(2026, 9, 7, 13, 0, 0, 0, time.UTC)
	if !res.Slots[0].Start.Equal(want) {
		t.Errorf("first slot = %v, want %v", res.Slots[0].Start, want)
	}
}

func TestCalculateSingleInviteeLocalTimes(t *testing.T) {
	rs := testRuleSet()
	rs.Rules = []entity.AvailabilityRule{weeklyRule(0, "14:00", "15:00")}

	req := singleDayRequest(monday)
	req.InviteeTimezone = "America/New_York"
	res := NewSlotEngine().Calculate(req, rs)

	if res.Timezone != "America/New_York" {
		t.Errorf("Timezone = %q, want America/New_York", res.Timezone)
	}
	if len(res.Slots) != 2 {
		t.Fatalf("slot count = %d, want 2", len(res.Slots))
	}
	s := res.Slots[0]
	if s.LocalStart.Hour() != 10 {
		t.Errorf("LocalStart hour = %d, want 10 (EDT)", s.LocalStart.Hour())
	}
	if !s.IsDST {
		t.Error("IsDST = false, want true for September in New York")
	}
	if s.InviteeTimes != nil || s.FairnessScore != nil {
		t.Error("single invitee mode must not populate multi fields")
	}
}

func TestCalculateMultiInviteeMode(t *testing.T) {
	rs := testRuleSet()
	rs.Rules = []entity.AvailabilityRule{weeklyRule(0, "09:00", "17:00")}

	req := singleDayRequest(monday)
	req.InviteeTimezones = []string{"America/New_York", "Europe/London"}
	res := NewSlotEngine().Calculate(req, rs)

	if !res.MultiInviteeMode {
		t.Fatal("MultiInviteeMode = false, want true with two zones")
	}
	if len(res.Slots) == 0 {
		t.Fatal("no slots returned")
	}

	var nine *Slot
	for i := range res.Slots {
		if res.Slots[i].Start.Equal(time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)) {
			nine = &res.Slots[i]
		}
	}
	if nine == nil {
		t.Fatal("09:00 UTC slot missing")
	}
	if len(nine.InviteeTimes) != 2 {
		t.Fatalf("InviteeTimes has %d entries, want 2", len(nine.InviteeTimes))
	}

	ny := nine.InviteeTimes["America/New_York"]
	if ny.StartHour != 5 || ny.IsReasonable {
		t.Errorf("New York view = hour %d reasonable %v, want 5 and false", ny.StartHour, ny.IsReasonable)
	}
	london := nine.InviteeTimes["Europe/London"]
	if london.StartHour != 10 || !london.IsReasonable {
		t.Errorf("London view = hour %d reasonable %v, want 10 and true", london.StartHour, london.IsReasonable)
	}
	if nine.FairnessScore == nil || *nine.FairnessScore != 0.5 {
		t.Errorf("FairnessScore = %v, want 0.5", nine.FairnessScore)
	}

	var noon *Slot
	for i := range res.Slots {
		if res.Slots[i].Start.Equal(time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC)) {
			noon = &res.Slots[i]
		}
	}
	if noon == nil {
		t.Fatal("12:00 UTC slot missing")
	}
	if noon.FairnessScore == nil || *noon.FairnessScore != 1.0 {
		t.Errorf("noon FairnessScore = %v, want 1.0", noon.FairnessScore)
	}
}

func TestCalculateSingleZoneInListStaysSingleMode(t *testing.T) {
	rs := testRuleSet()
	rs.Rules = []entity.AvailabilityRule{weeklyRule(0, "09:00", "17:00")}

	req := singleDayRequest(monday)
	req.InviteeTimezones = []string{"America/New_York", "Bad/Zone"}
	res := NewSlotEngine().Calculate(req, rs)

	if res.MultiInviteeMode {
		t.Error("MultiInviteeMode = true, want false with one valid zone")
	}
	if len(res.Warnings) != 1 {
		t.Errorf("warnings = %v, want one for the bad zone", res.Warnings)
	}
}

func TestCalculateFairnessDoesNotReorder(t *testing.T) {
	rs := testRuleSet()
	rs.Rules = []entity.AvailabilityRule{weeklyRule(0, "04:00", "12:00")}

	req := singleDayRequest(monday)
	req.InviteeTimezones = []string{"America/New_York", "Asia/Tokyo"}
	res := NewSlotEngine().Calculate(req, rs)

	starts := slotStarts(res.Slots)
	for i := 1; i < len(starts); i++ {
		if !starts[i].After(starts[i-1]) {
			t.Fatalf("order must stay chronological regardless of fairness, broke at %d", i)
		}
	}
}
