package mapper

import (
	"time"

	"availability-service/modules/availability/dto"
	"availability-service/modules/availability/entity"
)

const dateLayout = "2006-01-02"

func ToRuleResponse(rule *entity.AvailabilityRule) *dto.AvailabilityRuleResponse {
	if rule == nil {
		return nil
	}
	return &dto.AvailabilityRuleResponse{
		ID:            rule.ID.String(),
		DayOfWeek:     rule.DayOfWeek,
		StartTime:     rule.StartTime,
		EndTime:       rule.EndTime,
		EventTypeIDs:  []string(rule.EventTypeIDs),
		IsActive:      rule.IsActive,
		SpansMidnight: rule.SpansMidnight(),
		CreatedAt:     rule.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     rule.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func ToRuleResponses(rules []entity.AvailabilityRule) []dto.AvailabilityRuleResponse {
	out := make([]dto.AvailabilityRuleResponse, 0, len(rules))
	for i := range rules {
		out = append(out, *ToRuleResponse(&rules[i]))
	}
	return out
}

func ToOverrideResponse(override *entity.DateOverrideRule) *dto.DateOverrideResponse {
	if override == nil {
		return nil
	}
	return &dto.DateOverrideResponse{
		ID:           override.ID.String(),
		Date:         override.Date.Format(dateLayout),
		IsAvailable:  override.IsAvailable,
		StartTime:    override.StartTime,
		EndTime:      override.EndTime,
		Reason:       override.Reason,
		EventTypeIDs: []string(override.EventTypeIDs),
		IsActive:     override.IsActive,
		CreatedAt:    override.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    override.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func ToOverrideResponses(overrides []entity.DateOverrideRule) []dto.DateOverrideResponse {
	out := make([]dto.DateOverrideResponse, 0, len(overrides))
	for i := range overrides {
		out = append(out, *ToOverrideResponse(&overrides[i]))
	}
	return out
}

func ToRecurringBlockResponse(block *entity.RecurringBlockedTime) *dto.RecurringBlockResponse {
	if block == nil {
		return nil
	}
	resp := &dto.RecurringBlockResponse{
		ID:        block.ID.String(),
		Name:      block.Name,
		DayOfWeek: block.DayOfWeek,
		StartTime: block.StartTime,
		EndTime:   block.EndTime,
		IsActive:  block.IsActive,
		CreatedAt: block.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: block.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if block.StartDate != nil {
		s := block.StartDate.Format(dateLayout)
		resp.StartDate = &s
	}
	if block.EndDate != nil {
		s := block.EndDate.Format(dateLayout)
		resp.EndDate = &s
	}
	return resp
}

func ToRecurringBlockResponses(blocks []entity.RecurringBlockedTime) []dto.RecurringBlockResponse {
	out := make([]dto.RecurringBlockResponse, 0, len(blocks))
	for i := range blocks {
		out = append(out, *ToRecurringBlockResponse(&blocks[i]))
	}
	return out
}

func ToBlockedTimeResponse(block *entity.BlockedTime) *dto.BlockedTimeResponse {
	if block == nil {
		return nil
	}
	return &dto.BlockedTimeResponse{
		ID:            block.ID.String(),
		StartDatetime: block.StartDatetime.UTC().Format(time.RFC3339),
		EndDatetime:   block.EndDatetime.UTC().Format(time.RFC3339),
		Reason:        block.Reason,
		Source:        block.Source,
		ExternalID:    block.ExternalID,
		IsActive:      block.IsActive,
		CreatedAt:     block.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     block.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func ToBlockedTimeResponses(blocks []entity.BlockedTime) []dto.BlockedTimeResponse {
	out := make([]dto.BlockedTimeResponse, 0, len(blocks))
	for i := range blocks {
		out = append(out, *ToBlockedTimeResponse(&blocks[i]))
	}
	return out
}

func ToBufferSettingsResponse(settings *entity.BufferSettings) *dto.BufferSettingsResponse {
	if settings == nil {
		return nil
	}
	return &dto.BufferSettingsResponse{
		DefaultBufferBefore: settings.DefaultBufferBefore,
		DefaultBufferAfter:  settings.DefaultBufferAfter,
		MinimumGap:          settings.MinimumGap,
		SlotIntervalMinutes: settings.SlotIntervalMinutes,
		UpdatedAt:           settings.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
