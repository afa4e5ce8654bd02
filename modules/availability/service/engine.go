package service

import (
	"fmt"
	"sort"
	"time"

	"availability-service/core/constants"
	"availability-service/modules/availability/entity"
	bookingEntity "availability-service/modules/booking/entity"
	organizerEntity "availability-service/modules/organizer/entity"
)

// RuleSet is the read-only snapshot one calculation runs over. The engine
// performs no I/O; the caller loads the snapshot up front.
type RuleSet struct {
	Organizer       organizerEntity.Organizer
	EventType       organizerEntity.EventType
	Rules           []entity.AvailabilityRule
	Overrides       []entity.DateOverrideRule
	Blocks          []entity.BlockedTime
	RecurringBlocks []entity.RecurringBlockedTime
	Buffers         entity.BufferSettings
	Bookings        []bookingEntity.Booking
}

// EffectiveSlotInterval resolves the candidate step: event type override,
// then organizer buffer settings, then the service default.
func (rs *RuleSet) EffectiveSlotInterval() int {
	if rs.EventType.SlotIntervalMinutes != nil && *rs.EventType.SlotIntervalMinutes > 0 {
		return *rs.EventType.SlotIntervalMinutes
	}
	if rs.Buffers.SlotIntervalMinutes > 0 {
		return rs.Buffers.SlotIntervalMinutes
	}
	return constants.DefaultSlotIntervalMinutes
}

func (rs *RuleSet) EffectiveBufferBefore() int {
	if rs.EventType.BufferBefore != nil {
		return *rs.EventType.BufferBefore
	}
	return rs.Buffers.DefaultBufferBefore
}

func (rs *RuleSet) EffectiveBufferAfter() int {
	if rs.EventType.BufferAfter != nil {
		return *rs.EventType.BufferAfter
	}
	return rs.Buffers.DefaultBufferAfter
}

// SlotRequest carries the calculation parameters after HTTP-level
// validation. StartDate and EndDate are calendar dates (inclusive).
type SlotRequest struct {
	StartDate        time.Time
	EndDate          time.Time
	InviteeTimezone  string
	InviteeTimezones []string
	AttendeeCount    int
}

// InviteeTime is one timezone's view of a slot in multi-invitee mode.
type InviteeTime struct {
	Start        time.Time
	End          time.Time
	StartHour    int
	EndHour      int
	IsReasonable bool
}

// Slot is a bookable candidate. Start/End are canonical UTC; LocalStart and
// LocalEnd are the primary invitee's view. InviteeTimes and FairnessScore
// are populated only in multi-invitee mode.
type Slot struct {
	Start           time.Time
	End             time.Time
	DurationMinutes int
	LocalStart      time.Time
	LocalEnd        time.Time
	IsDST           bool
	InviteeTimes    map[string]InviteeTime
	FairnessScore   *float64
}

// SlotResult is the raw engine output, before caching and response shaping.
type SlotResult struct {
	Slots            []Slot
	Warnings         []string
	MultiInviteeMode bool
	Timezone         string
	DateRangeDays    int
}

// SlotEngine computes bookable slots from a rule snapshot. The reasonable
// hours fields are fallbacks for organizers without a configured window.
type SlotEngine struct {
	ReasonableHoursStart int
	ReasonableHoursEnd   int
}

func NewSlotEngine() *SlotEngine {
	return &SlotEngine{
		ReasonableHoursStart: constants.DefaultReasonableHoursStart,
		ReasonableHoursEnd:   constants.DefaultReasonableHoursEnd,
	}
}

type resolvedZone struct {
	name string
	loc  *time.Location
}

// Calculate walks the requested date range in the organizer's timezone and
// returns the surviving candidates in chronological UTC order. Fairness
// scores never reorder the result; they are informational only.
func (e *SlotEngine) Calculate(req SlotRequest, rs RuleSet) *SlotResult {
	res := &SlotResult{Timezone: req.InviteeTimezone}

	orgLoc := e.resolveZone(rs.Organizer.Timezone, res, "Invalid organizer timezone: %s, using UTC")

	primaryName := req.InviteeTimezone
	if primaryName == "" {
		primaryName = constants.DefaultInviteeTimezone
	}
	primaryLoc := e.resolveZone(primaryName, res, "Invalid invitee timezone: %s, using UTC")
	if primaryLoc == time.UTC {
		res.Timezone = "UTC"
	} else {
		res.Timezone = primaryName
	}

	zones := e.resolveInviteeZones(req.InviteeTimezones, res)
	multi := len(zones) >= 2
	res.MultiInviteeMode = multi

	attendeeCount := req.AttendeeCount
	if attendeeCount <= 0 {
		attendeeCount = constants.DefaultAttendeeCount
	}

	duration := time.Duration(rs.EventType.DurationMinutes) * time.Minute
	if duration <= 0 {
		return res
	}
	step := time.Duration(rs.EffectiveSlotInterval()) * time.Minute
	bufBefore := time.Duration(rs.EffectiveBufferBefore()) * time.Minute
	bufAfter := time.Duration(rs.EffectiveBufferAfter()) * time.Minute
	gap := time.Duration(rs.Buffers.MinimumGap) * time.Minute

	first := time.Date(req.StartDate.Year(), req.StartDate.Month(), req.StartDate.Day(), 0, 0, 0, 0, orgLoc)
	last := time.Date(req.EndDate.Year(), req.EndDate.Month(), req.EndDate.Day(), 0, 0, 0, 0, orgLoc)

	blocked := e.blockedIntervals(rs, first, last)

	var slots []Slot
	days := 0
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		days++
		for _, win := range e.dayWindows(rs, day) {
			for _, free := range subtractIntervals(win, blocked) {
				for cur := free.start; !cur.Add(duration).After(free.end); cur = cur.Add(step) {
					cand := interval{start: cur, end: cur.Add(duration)}
					if e.conflicts(cand, rs, blocked, attendeeCount, bufBefore, bufAfter, gap) {
						continue
					}
					slots = append(slots, e.buildSlot(cand, rs, primaryLoc, zones, multi))
				}
			}
		}
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].Start.Before(slots[j].Start) })
	res.Slots = dedupeSlots(slots)
	res.DateRangeDays = days
	return res
}

// resolveZone loads an IANA name, degrading to UTC with a warning when the
// name is unknown. Empty means UTC without a warning.
func (e *SlotEngine) resolveZone(name string, res *SlotResult, warnFormat string) *time.Location {
	if name == "" || name == "UTC" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf(warnFormat, name))
		return time.UTC
	}
	return loc
}

func (e *SlotEngine) resolveInviteeZones(names []string, res *SlotResult) []resolvedZone {
	var zones []resolvedZone
	for _, name := range names {
		if name == "" {
			continue
		}
		loc, err := time.LoadLocation(name)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("Invalid timezone in list: %s", name))
			continue
		}
		zones = append(zones, resolvedZone{name: name, loc: loc})
	}
	return zones
}

// dayWindows resolves one date's availability windows. An active override
// owns its date outright; otherwise matching weekly rules apply, with
// midnight-spanning rules running into the next day unless that day is
// itself overridden.
func (e *SlotEngine) dayWindows(rs RuleSet, day time.Time) []interval {
	if ov := e.overrideOn(rs, day); ov != nil {
		if !ov.IsAvailable || ov.StartTime == nil || ov.EndTime == nil {
			return nil
		}
		sh, sm, err := parseClock(*ov.StartTime)
		if err != nil {
			return nil
		}
		eh, em, err := parseClock(*ov.EndTime)
		if err != nil {
			return nil
		}
		win := interval{start: at(day, sh, sm), end: at(day, eh, em)}
		if !win.valid() {
			return nil
		}
		return []interval{win}
	}

	wd := weekdayIndex(day)
	var wins []interval
	for i := range rs.Rules {
		r := &rs.Rules[i]
		if !r.IsActive || r.DayOfWeek != wd || !r.AppliesToEventType(rs.EventType.ID) {
			continue
		}
		sh, sm, err := parseClock(r.StartTime)
		if err != nil {
			continue
		}
		eh, em, err := parseClock(r.EndTime)
		if err != nil {
			continue
		}
		start := at(day, sh, sm)
		var end time.Time
		if r.SpansMidnight() {
			next := day.AddDate(0, 0, 1)
			end = at(next, eh, em)
			if e.overrideOn(rs, next) != nil {
				// the next date's override owns everything past midnight
				end = startOfDay(next)
			}
		} else {
			end = at(day, eh, em)
		}
		if end.After(start) {
			wins = append(wins, interval{start: start, end: end})
		}
	}
	return mergeIntervals(wins)
}

func (e *SlotEngine) overrideOn(rs RuleSet, day time.Time) *entity.DateOverrideRule {
	for i := range rs.Overrides {
		ov := &rs.Overrides[i]
		if !ov.IsActive || !ov.AppliesToEventType(rs.EventType.ID) {
			continue
		}
		if ov.Date.Year() == day.Year() && ov.Date.Month() == day.Month() && ov.Date.Day() == day.Day() {
			return ov
		}
	}
	return nil
}

// blockedIntervals collects every blocked span that can touch the range,
// merged and sorted. Recurring blocks are expanded one day beyond each end
// so midnight spillover stays covered.
func (e *SlotEngine) blockedIntervals(rs RuleSet, first, last time.Time) []interval {
	var blocks []interval
	for i := range rs.Blocks {
		b := &rs.Blocks[i]
		if !b.IsActive {
			continue
		}
		iv := interval{start: b.StartDatetime, end: b.EndDatetime}
		if iv.valid() {
			blocks = append(blocks, iv)
		}
	}

	from := first.AddDate(0, 0, -1)
	to := last.AddDate(0, 0, 1)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		wd := weekdayIndex(day)
		for i := range rs.RecurringBlocks {
			rb := &rs.RecurringBlocks[i]
			if !rb.IsActive || rb.DayOfWeek != wd || !rb.AppliesOn(day) {
				continue
			}
			sh, sm, err := parseClock(rb.StartTime)
			if err != nil {
				continue
			}
			eh, em, err := parseClock(rb.EndTime)
			if err != nil {
				continue
			}
			start := at(day, sh, sm)
			end := at(day, eh, em)
			if rb.SpansMidnight() {
				end = at(day.AddDate(0, 0, 1), eh, em)
			}
			if end.After(start) {
				blocks = append(blocks, interval{start: start, end: end})
			}
		}
	}
	return mergeIntervals(blocks)
}

// conflicts applies the buffer, gap and capacity filters to one candidate.
// Capacity exhaustion silently removes the candidate; it is never an error.
func (e *SlotEngine) conflicts(cand interval, rs RuleSet, blocked []interval, attendeeCount int, bufBefore, bufAfter, gap time.Duration) bool {
	if attendeeCount > rs.EventType.MaxAttendees {
		return true
	}

	padded := interval{start: cand.start.Add(-bufBefore), end: cand.end.Add(bufAfter)}
	if bufBefore > 0 || bufAfter > 0 {
		// the free sub-interval already excludes the blocks themselves, only
		// the padding can reach into one
		for _, b := range blocked {
			if padded.overlaps(b) {
				return true
			}
		}
	}

	isGroup := rs.EventType.IsGroupEvent()
	groupSeats := 0
	for i := range rs.Bookings {
		bk := &rs.Bookings[i]
		if bk.Status != constants.BookingStatusConfirmed {
			continue
		}
		protected := interval{start: bk.StartTime.Add(-gap), end: bk.EndTime.Add(gap)}
		if !padded.overlaps(protected) {
			continue
		}
		if isGroup && bk.EventTypeID == rs.EventType.ID {
			groupSeats += bk.AttendeeCount
			continue
		}
		return true
	}
	if isGroup && groupSeats+attendeeCount > rs.EventType.MaxAttendees {
		return true
	}
	return false
}

func (e *SlotEngine) buildSlot(cand interval, rs RuleSet, primary *time.Location, zones []resolvedZone, multi bool) Slot {
	localStart := cand.start.In(primary)
	localEnd := cand.end.In(primary)
	s := Slot{
		Start:           cand.start.UTC(),
		End:             cand.end.UTC(),
		DurationMinutes: rs.EventType.DurationMinutes,
		LocalStart:      localStart,
		LocalEnd:        localEnd,
		IsDST:           isDST(localStart),
	}
	if !multi {
		return s
	}

	rStart, rEnd := e.reasonableHours(rs)
	times := make(map[string]InviteeTime, len(zones))
	reasonable := 0
	for _, z := range zones {
		ls := cand.start.In(z.loc)
		le := cand.end.In(z.loc)
		ok := ls.Hour() >= rStart && ls.Hour() <= rEnd
		if ok {
			reasonable++
		}
		times[z.name] = InviteeTime{
			Start:        ls,
			End:          le,
			StartHour:    ls.Hour(),
			EndHour:      le.Hour(),
			IsReasonable: ok,
		}
	}
	score := float64(reasonable) / float64(len(zones))
	s.InviteeTimes = times
	s.FairnessScore = &score
	return s
}

func (e *SlotEngine) reasonableHours(rs RuleSet) (int, int) {
	if rs.Organizer.ReasonableHoursStart > 0 || rs.Organizer.ReasonableHoursEnd > 0 {
		return rs.Organizer.ReasonableHoursStart, rs.Organizer.ReasonableHoursEnd
	}
	return e.ReasonableHoursStart, e.ReasonableHoursEnd
}

// dedupeSlots drops candidates sharing a start instant. Windows can collide
// when a midnight-spanning rule runs into a day that has its own early rule;
// the input must already be sorted by start.
func dedupeSlots(slots []Slot) []Slot {
	if len(slots) <= 1 {
		return slots
	}
	out := slots[:1]
	for _, s := range slots[1:] {
		if s.Start.Equal(out[len(out)-1].Start) {
			continue
		}
		out = append(out, s)
	}
	return out
}
