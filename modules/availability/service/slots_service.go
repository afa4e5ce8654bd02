package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"availability-service/core/constants"
	"availability-service/core/errors"
	"availability-service/core/logger"
	"availability-service/core/queue"
	"availability-service/modules/availability/dto"
	"availability-service/modules/availability/entity"

	"github.com/hibiken/asynq"
)

// GetCalculatedSlots is the public slot computation endpoint. It validates
// the query, serves from the slot cache when possible, and otherwise loads
// the organizer's full rule set and runs the engine.
func (s *AvailabilityService) GetCalculatedSlots(ctx context.Context, query *dto.CalculatedSlotsQuery) (*dto.CalculatedSlotsResponse, *errors.AppError) {
	started := time.Now()

	logger.Info("AvailabilityService:GetCalculatedSlots:Start",
		"organizer_slug", query.OrganizerSlug,
		"event_type_slug", query.EventTypeSlug,
		"start_date", query.StartDate,
		"end_date", query.EndDate,
	)

	startDate, endDate, attendeeCount, inviteeTimezones, appErr := s.parseSlotQuery(query)
	if appErr != nil {
		return nil, appErr
	}

	organizer, appErr := s.organizerSvc.ResolveOrganizer(ctx, query.OrganizerSlug)
	if appErr != nil {
		return nil, appErr
	}
	eventType, appErr := s.organizerSvc.ResolveEventType(ctx, organizer.ID, query.EventTypeSlug)
	if appErr != nil {
		return nil, appErr
	}

	buffers, err := s.repo.GetBufferSettings(ctx, organizer.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load buffer settings", err)
	}
	if buffers == nil {
		buffers = &entity.BufferSettings{SlotIntervalMinutes: constants.DefaultSlotIntervalMinutes}
	}

	rs := RuleSet{
		Organizer: *organizer,
		EventType: *eventType,
		Buffers:   *buffers,
	}

	inviteeTimezone := query.InviteeTimezone
	if inviteeTimezone == "" {
		inviteeTimezone = constants.DefaultInviteeTimezone
	}

	keyParams := SlotCacheKeyParams{
		EventTypeSlug:    query.EventTypeSlug,
		StartDate:        query.StartDate,
		EndDate:          query.EndDate,
		InviteeTimezone:  inviteeTimezone,
		InviteeTimezones: inviteeTimezones,
		AttendeeCount:    attendeeCount,
		SlotInterval:     rs.EffectiveSlotInterval(),
		BufferBefore:     rs.EffectiveBufferBefore(),
		BufferAfter:      rs.EffectiveBufferAfter(),
		MinimumGap:       buffers.MinimumGap,
	}
	cacheKey := s.cache.Key(ctx, organizer.ID, keyParams)

	if payload, ok := s.cache.Get(ctx, cacheKey); ok {
		var cached dto.CalculatedSlotsResponse
		if err := json.Unmarshal([]byte(payload), &cached); err == nil {
			cached.CacheHit = true
			cached.ComputationTimeMs = elapsedMs(started)
			logger.Info("AvailabilityService:GetCalculatedSlots:CacheHit",
				"organizer_slug", query.OrganizerSlug, "total_slots", cached.TotalSlots)
			return &cached, nil
		}
		logger.Warn("AvailabilityService:GetCalculatedSlots:CacheDecode:Error", "key", cacheKey)
	}

	if appErr := s.loadRuleSet(ctx, &rs, startDate, endDate); appErr != nil {
		return nil, appErr
	}

	result := s.engine.Calculate(SlotRequest{
		StartDate:        startDate,
		EndDate:          endDate,
		InviteeTimezone:  inviteeTimezone,
		InviteeTimezones: inviteeTimezones,
		AttendeeCount:    attendeeCount,
	}, rs)

	elapsed := time.Since(started)
	resp := &dto.CalculatedSlotsResponse{
		OrganizerSlug:     query.OrganizerSlug,
		EventTypeSlug:     query.EventTypeSlug,
		StartDate:         query.StartDate,
		EndDate:           query.EndDate,
		InviteeTimezone:   result.Timezone,
		AttendeeCount:     attendeeCount,
		AvailableSlots:    toSlotResponses(result),
		CacheHit:          false,
		TotalSlots:        len(result.Slots),
		ComputationTimeMs: float64(elapsed.Microseconds()) / 1000.0,
		Warnings:          result.Warnings,
		MultiInviteeMode:  result.MultiInviteeMode,
		PerformanceMetrics: &dto.PerformanceMetrics{
			Duration:             elapsed.Seconds(),
			TotalSlotsCalculated: len(result.Slots),
			DateRangeDays:        result.DateRangeDays,
		},
	}

	if payload, err := json.Marshal(resp); err == nil {
		s.cache.Put(ctx, cacheKey, string(payload))
	}

	logger.Info("AvailabilityService:GetCalculatedSlots:Success",
		"organizer_slug", query.OrganizerSlug,
		"total_slots", resp.TotalSlots,
		"computation_time_ms", resp.ComputationTimeMs,
	)
	return resp, nil
}

// parseSlotQuery validates the raw query parameters. Nothing partial is
// returned on failure; an oversized range is rejected outright.
func (s *AvailabilityService) parseSlotQuery(query *dto.CalculatedSlotsQuery) (time.Time, time.Time, int, []string, *errors.AppError) {
	var zero time.Time

	if query.EventTypeSlug == "" {
		return zero, zero, 0, nil, errors.NewAppError(errors.ErrInvalidInput, "event_type_slug is required", nil)
	}
	if query.StartDate == "" || query.EndDate == "" {
		return zero, zero, 0, nil, errors.NewAppError(errors.ErrInvalidInput, "start_date and end_date are required", nil)
	}

	startDate, err := time.Parse(dateLayout, query.StartDate)
	if err != nil {
		return zero, zero, 0, nil, errors.NewAppError(errors.ErrInvalidInput, "start_date must be YYYY-MM-DD", err)
	}
	endDate, err := time.Parse(dateLayout, query.EndDate)
	if err != nil {
		return zero, zero, 0, nil, errors.NewAppError(errors.ErrInvalidInput, "end_date must be YYYY-MM-DD", err)
	}
	if endDate.Before(startDate) {
		return zero, zero, 0, nil, errors.NewAppError(errors.ErrInvalidInput, "end_date must not be before start_date", nil)
	}
	if rangeDays(startDate, endDate) > constants.MaxDateRangeDays {
		return zero, zero, 0, nil, errors.NewAppError(errors.ErrInvalidInput, "Date range cannot exceed 90 days", nil)
	}

	attendeeCount := constants.DefaultAttendeeCount
	if query.AttendeeCount != "" {
		attendeeCount, err = strconv.Atoi(query.AttendeeCount)
		if err != nil || attendeeCount < 1 {
			return zero, zero, 0, nil, errors.NewAppError(errors.ErrInvalidInput, "attendee_count must be a positive integer", nil)
		}
	}

	var inviteeTimezones []string
	if query.InviteeTimezones != "" {
		for _, tz := range strings.Split(query.InviteeTimezones, ",") {
			if tz = strings.TrimSpace(tz); tz != "" {
				inviteeTimezones = append(inviteeTimezones, tz)
			}
		}
	}

	return startDate, endDate, attendeeCount, inviteeTimezones, nil
}

// loadRuleSet fills the rules, overrides, blocks and bookings of an already
// organizer/event-type/buffer initialized rule set. Query bounds are padded
// by a day on each side so timezone offsets and midnight spillover cannot
// lose rows.
func (s *AvailabilityService) loadRuleSet(ctx context.Context, rs *RuleSet, startDate, endDate time.Time) *errors.AppError {
	organizerID := rs.Organizer.ID

	rules, err := s.repo.ListRulesByOrganizer(ctx, organizerID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to load availability rules", err)
	}
	rs.Rules = rules

	overrides, err := s.repo.ListOverridesInRange(ctx, organizerID, startDate.AddDate(0, 0, -1), endDate.AddDate(0, 0, 1))
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to load date overrides", err)
	}
	rs.Overrides = overrides

	recurring, err := s.repo.ListRecurringBlocksByOrganizer(ctx, organizerID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to load recurring blocks", err)
	}
	rs.RecurringBlocks = recurring

	from := startDate.AddDate(0, 0, -1)
	to := endDate.AddDate(0, 0, 2)
	blocks, err := s.repo.ListBlockedTimesInRange(ctx, organizerID, from, to)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to load blocked times", err)
	}
	rs.Blocks = blocks

	bookings, err := s.bookingRepo.ListConfirmedInRange(ctx, organizerID, from, to)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to load bookings", err)
	}
	rs.Bookings = bookings

	return nil
}

// ClearCache drops every cached slot payload of the organizer by bumping the
// cache version.
func (s *AvailabilityService) ClearCache(ctx context.Context, organizerSlug string) (*dto.CacheClearResponse, *errors.AppError) {
	organizer, appErr := s.organizerSvc.ResolveOrganizer(ctx, organizerSlug)
	if appErr != nil {
		return nil, appErr
	}
	if err := s.cache.InvalidateOrganizer(ctx, organizer.ID); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to clear slot cache", err)
	}
	logger.Info("AvailabilityService:ClearCache:Success", "organizer_slug", organizerSlug)
	return &dto.CacheClearResponse{OrganizerSlug: organizerSlug, Cleared: true}, nil
}

// Precompute enqueues a cache warming task for the organizer.
func (s *AvailabilityService) Precompute(ctx context.Context, organizerSlug string) (*dto.PrecomputeResponse, *errors.AppError) {
	organizer, appErr := s.organizerSvc.ResolveOrganizer(ctx, organizerSlug)
	if appErr != nil {
		return nil, appErr
	}

	payload, err := json.Marshal(PrecomputePayload{OrganizerSlug: organizer.Slug})
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to build precompute task", err)
	}
	task := asynq.NewTask(constants.TaskTypePrecomputeSlots, payload)

	client := queue.GetClient()
	if client == nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Task queue is not initialized", nil)
	}
	info, err := client.EnqueueContext(ctx, task, asynq.MaxRetry(3), asynq.Timeout(5*time.Minute))
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to enqueue precompute task", err)
	}

	logger.Info("AvailabilityService:Precompute:Enqueued", "organizer_slug", organizerSlug, "task_id", info.ID)
	return &dto.PrecomputeResponse{OrganizerSlug: organizerSlug, Enqueued: true, TaskID: info.ID}, nil
}

// ===================== Slot mapping =====================

func toSlotResponses(result *SlotResult) []dto.AvailableSlotResponse {
	out := make([]dto.AvailableSlotResponse, 0, len(result.Slots))
	for i := range result.Slots {
		out = append(out, toSlotResponse(&result.Slots[i], result.MultiInviteeMode))
	}
	return out
}

func toSlotResponse(slot *Slot, multi bool) dto.AvailableSlotResponse {
	resp := dto.AvailableSlotResponse{
		StartTime:       slot.Start.UTC().Format(time.RFC3339),
		EndTime:         slot.End.UTC().Format(time.RFC3339),
		DurationMinutes: slot.DurationMinutes,
	}
	if multi {
		times := make(map[string]dto.SlotInviteeTime, len(slot.InviteeTimes))
		for tz, it := range slot.InviteeTimes {
			times[tz] = dto.SlotInviteeTime{
				StartTime:    it.Start.Format(time.RFC3339),
				EndTime:      it.End.Format(time.RFC3339),
				StartHour:    it.StartHour,
				EndHour:      it.EndHour,
				IsReasonable: it.IsReasonable,
			}
		}
		resp.InviteeTimes = times
		resp.FairnessScore = slot.FairnessScore
		return resp
	}

	resp.LocalStartTime = slot.LocalStart.Format(time.RFC3339)
	resp.LocalEndTime = slot.LocalEnd.Format(time.RFC3339)
	isDST := slot.IsDST
	resp.IsDST = &isDST
	return resp
}

// rangeDays counts calendar days inclusively.
func rangeDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

func elapsedMs(since time.Time) float64 {
	return float64(time.Since(since).Microseconds()) / 1000.0
}
