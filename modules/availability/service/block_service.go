package service

import (
	"context"
	"time"

	"availability-service/core/constants"
	"availability-service/core/errors"
	"availability-service/core/logger"
	"availability-service/modules/availability/dto"
	"availability-service/modules/availability/entity"
	"availability-service/modules/availability/mapper"

	"github.com/google/uuid"
)

// ===================== Recurring blocks =====================

func (s *AvailabilityService) CreateRecurringBlock(ctx context.Context, organizerSlug string, req *dto.CreateRecurringBlockRequest) (*dto.RecurringBlockResponse, *errors.AppError) {
	logger.Info("AvailabilityService:CreateRecurringBlock:Start", "organizer_slug", organizerSlug, "name", req.Name)

	organizer, appErr := s.organizerSvc.ResolveOrganizer(ctx, organizerSlug)
	if appErr != nil {
		return nil, appErr
	}

	if req.Name == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "name is required", nil)
	}
	if req.DayOfWeek == nil || *req.DayOfWeek < 0 || *req.DayOfWeek > 6 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "day_of_week must be between 0 (Monday) and 6 (Sunday)", nil)
	}
	if appErr := validateClockPair(req.StartTime, req.EndTime); appErr != nil {
		return nil, appErr
	}
	startDate, endDate, appErr := parseDateBounds(req.StartDate, req.EndDate)
	if appErr != nil {
		return nil, appErr
	}

	block := &entity.RecurringBlockedTime{
		OrganizerID: organizer.ID,
		Name:        req.Name,
		DayOfWeek:   *req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		StartDate:   startDate,
		EndDate:     endDate,
		IsActive:    boolOr(req.IsActive, true),
	}
	created, err := s.repo.CreateRecurringBlock(ctx, block)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create recurring block", err)
	}
	s.invalidate(ctx, organizer.ID)

	logger.Info("AvailabilityService:CreateRecurringBlock:Success", "block_id", created.ID)
	return mapper.ToRecurringBlockResponse(created), nil
}

func (s *AvailabilityService) ListRecurringBlocks(ctx context.Context, organizerSlug string) ([]dto.RecurringBlockResponse, *errors.AppError) {
	organizer, appErr := s.organizerSvc.ResolveOrganizer(ctx, organizerSlug)
	if appErr != nil {
		return nil, appErr
	}
	blocks, err := s.repo.ListRecurringBlocksByOrganizer(ctx, organizer.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list recurring blocks", err)
	}
	return mapper.ToRecurringBlockResponses(blocks), nil
}

func (s *AvailabilityService) UpdateRecurringBlock(ctx context.Context, organizerSlug string, blockID uuid.UUID, req *dto.UpdateRecurringBlockRequest) (*dto.RecurringBlockResponse, *errors.AppError) {
	organizer, appErr := s.organizerSvc.ResolveOrganizer(ctx, organizerSlug)
	if appErr != nil {
		return nil, appErr
	}
	block, err := s.repo.GetRecurringBlockByID(ctx, blockID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load recurring block", err)
	}
	if block == nil || block.OrganizerID != organizer.ID {
		return nil, errors.NewAppError(errors.ErrNotFound, "Recurring block not found", nil)
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "name is required", nil)
		}
		block.Name = *req.Name
	}
	if req.DayOfWeek != nil {
		if *req.DayOfWeek < 0 || *req.DayOfWeek > 6 {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "day_of_week must be between 0 (Monday) and 6 (Sunday)", nil)
		}
		block.DayOfWeek = *req.DayOfWeek
	}
	if req.StartTime != nil {
		block.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		block.EndTime = *req.EndTime
	}
	if appErr := validateClockPair(block.StartTime, block.EndTime); appErr != nil {
		return nil, appErr
	}
	if req.StartDate != nil || req.EndDate != nil {
		startStr := formatDatePtr(block.StartDate)
		endStr := formatDatePtr(block.EndDate)
		if req.StartDate != nil {
			startStr = req.StartDate
		}
		if req.EndDate != nil {
			endStr = req.EndDate
		}
		startDate, endDate, appErr := parseDateBounds(startStr, endStr)
		if appErr != nil {
			return nil, appErr
		}
		block.StartDate = startDate
		block.EndDate = endDate
	}
	if req.IsActive != nil {
		block.IsActive = *req.IsActive
	}

	if err := s.repo.UpdateRecurringBlock(ctx, block); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update recurring block", err)
	}
	s.invalidate(ctx, organizer.ID)

	logger.Info("AvailabilityService:UpdateRecurringBlock:Success", "block_id", block.ID)
	return mapper.ToRecurringBlockResponse(block), nil
}

func (s *AvailabilityService) DeleteRecurringBlock(ctx context.Context, organizerSlug string, blockID uuid.UUID) *errors.AppError {
	organizer, appErr := s.organizerSvc.ResolveOrganizer(ctx, organizerSlug)
	if appErr != nil {
		return appErr
	}
	block, err := s.repo.GetRecurringBlockByID(ctx, blockID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to load recurring block", err)
	}
	if block == nil || block.OrganizerID != organizer.ID {
		return errors.NewAppError(errors.ErrNotFound, "Recurring block not found", nil)
	}
	if err := s.repo.DeleteRecurringBlock(ctx, blockID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete recurring block", err)
	}
	s.invalidate(ctx, organizer.ID)

	logger.Info("AvailabilityService:DeleteRecurringBlock:Success", "block_id", blockID)
	return nil
}

// ===================== One-off blocked times =====================

func (s *AvailabilityService) CreateBlockedTime(ctx context.Context, organizerSlug string, req *dto.CreateBlockedTimeRequest) (*dto.BlockedTimeResponse, *errors.AppError) {
	logger.Info("AvailabilityService:CreateBlockedTime:Start", "organizer_slug", organizerSlug)

	organizer, appErr := s.organizerSvc.ResolveOrganizer(ctx, organizerSlug)
	if appErr != nil {
		return nil, appErr
	}

	start, end, appErr := parseDatetimePair(req.StartDatetime, req.EndDatetime)
	if appErr != nil {
		return nil, appErr
	}

	block := &entity.BlockedTime{
		OrganizerID:   organizer.ID,
		StartDatetime: start,
		EndDatetime:   end,
		Reason:        req.Reason,
		Source:        constants.BlockSourceManual,
		IsActive:      boolOr(req.IsActive, true),
	}
	created, err := s.repo.CreateBlockedTime(ctx, block)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create blocked time", err)
	}
	s.invalidate(ctx, organizer.ID)

	logger.Info("AvailabilityService:CreateBlockedTime:Success", "block_id", created.ID)
	return mapper.ToBlockedTimeResponse(created), nil
}

func (s *AvailabilityService) ListBlockedTimes(ctx context.Context, organizerSlug string) ([]dto.BlockedTimeResponse, *errors.AppError) {
	organizer, appErr := s.organizerSvc.ResolveOrganizer(ctx, organizerSlug)
	if appErr != nil {
		return nil, appErr
	}
	blocks, err := s.repo.ListBlockedTimesByOrganizer(ctx, organizer.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list blocked times", err)
	}
	return mapper.ToBlockedTimeResponses(blocks), nil
}

func (s *AvailabilityService) UpdateBlockedTime(ctx context.Context, organizerSlug string, blockID uuid.UUID, req *dto.UpdateBlockedTimeRequest) (*dto.BlockedTimeResponse, *errors.AppError) {
	organizer, appErr := s.organizerSvc.ResolveOrganizer(ctx, organizerSlug)
	if appErr != nil {
		return nil, appErr
	}
	block, err := s.repo.GetBlockedTimeByID(ctx, blockID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load blocked time", err)
	}
	if block == nil || block.OrganizerID != organizer.ID {
		return nil, errors.NewAppError(errors.ErrNotFound, "Blocked time not found", nil)
	}
	if block.IsSynced() {
		return nil, errors.NewAppError(errors.ErrForbidden, "Synced blocks are managed by calendar sync", nil)
	}

	startStr := block.StartDatetime.UTC().Format(time.RFC3339)
	endStr := block.EndDatetime.UTC().Format(time.RFC3339)
	if req.StartDatetime != nil {
		startStr = *req.StartDatetime
	}
	if req.EndDatetime != nil {
		endStr = *req.EndDatetime
	}
	start, end, appErr := parseDatetimePair(startStr, endStr)
	if appErr != nil {
		return nil, appErr
	}
	block.StartDatetime = start
	block.EndDatetime = end
	if req.Reason != nil {
		block.Reason = *req.Reason
	}
	if req.IsActive != nil {
		block.IsActive = *req.IsActive
	}

	if err := s.repo.UpdateBlockedTime(ctx, block); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update blocked time", err)
	}
	s.invalidate(ctx, organizer.ID)

	logger.Info("AvailabilityService:UpdateBlockedTime:Success", "block_id", block.ID)
	return mapper.ToBlockedTimeResponse(block), nil
}

func (s *AvailabilityService) DeleteBlockedTime(ctx context.Context, organizerSlug string, blockID uuid.UUID) *errors.AppError {
	organizer, appErr := s.organizerSvc.ResolveOrganizer(ctx, organizerSlug)
	if appErr != nil {
		return appErr
	}
	block, err := s.repo.GetBlockedTimeByID(ctx, blockID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to load blocked time", err)
	}
	if block == nil || block.OrganizerID != organizer.ID {
		return errors.NewAppError(errors.ErrNotFound, "Blocked time not found", nil)
	}
	if block.IsSynced() {
		return errors.NewAppError(errors.ErrForbidden, "Synced blocks are managed by calendar sync", nil)
	}
	if err := s.repo.DeleteBlockedTime(ctx, blockID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete blocked time", err)
	}
	s.invalidate(ctx, organizer.ID)

	logger.Info("AvailabilityService:DeleteBlockedTime:Success", "block_id", blockID)
	return nil
}

// ===================== Buffer settings =====================

func (s *AvailabilityService) GetBufferSettings(ctx context.Context, organizerSlug string) (*dto.BufferSettingsResponse, *errors.AppError) {
	organizer, appErr := s.organizerSvc.ResolveOrganizer(ctx, organizerSlug)
	if appErr != nil {
		return nil, appErr
	}
	settings, err := s.repo.GetBufferSettings(ctx, organizer.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load buffer settings", err)
	}
	if settings == nil {
		return &dto.BufferSettingsResponse{
			SlotIntervalMinutes: constants.DefaultSlotIntervalMinutes,
		}, nil
	}
	return mapper.ToBufferSettingsResponse(settings), nil
}

func (s *AvailabilityService) UpdateBufferSettings(ctx context.Context, organizerSlug string, req *dto.UpdateBufferSettingsRequest) (*dto.BufferSettingsResponse, *errors.AppError) {
	organizer, appErr := s.organizerSvc.ResolveOrganizer(ctx, organizerSlug)
	if appErr != nil {
		return nil, appErr
	}

	settings, err := s.repo.GetBufferSettings(ctx, organizer.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load buffer settings", err)
	}
	if settings == nil {
		settings = &entity.BufferSettings{
			OrganizerID:         organizer.ID,
			SlotIntervalMinutes: constants.DefaultSlotIntervalMinutes,
		}
	}

	if req.DefaultBufferBefore != nil {
		if *req.DefaultBufferBefore < 0 || *req.DefaultBufferBefore > 240 {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "default_buffer_before must be between 0 and 240", nil)
		}
		settings.DefaultBufferBefore = *req.DefaultBufferBefore
	}
	if req.DefaultBufferAfter != nil {
		if *req.DefaultBufferAfter < 0 || *req.DefaultBufferAfter > 240 {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "default_buffer_after must be between 0 and 240", nil)
		}
		settings.DefaultBufferAfter = *req.DefaultBufferAfter
	}
	if req.MinimumGap != nil {
		if *req.MinimumGap < 0 || *req.MinimumGap > 240 {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "minimum_gap must be between 0 and 240", nil)
		}
		settings.MinimumGap = *req.MinimumGap
	}
	if req.SlotIntervalMinutes != nil {
		if *req.SlotIntervalMinutes < 5 || *req.SlotIntervalMinutes > 240 {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "slot_interval_minutes must be between 5 and 240", nil)
		}
		settings.SlotIntervalMinutes = *req.SlotIntervalMinutes
	}

	updated, err := s.repo.UpsertBufferSettings(ctx, settings)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update buffer settings", err)
	}
	s.invalidate(ctx, organizer.ID)

	logger.Info("AvailabilityService:UpdateBufferSettings:Success", "organizer_id", organizer.ID)
	return mapper.ToBufferSettingsResponse(updated), nil
}

// ===================== Parsing helpers =====================

func parseDateBounds(start, end *string) (*time.Time, *time.Time, *errors.AppError) {
	var startDate, endDate *time.Time
	if start != nil && *start != "" {
		d, err := time.Parse(dateLayout, *start)
		if err != nil {
			return nil, nil, errors.NewAppError(errors.ErrInvalidInput, "start_date must be YYYY-MM-DD", err)
		}
		startDate = &d
	}
	if end != nil && *end != "" {
		d, err := time.Parse(dateLayout, *end)
		if err != nil {
			return nil, nil, errors.NewAppError(errors.ErrInvalidInput, "end_date must be YYYY-MM-DD", err)
		}
		endDate = &d
	}
	if startDate != nil && endDate != nil && endDate.Before(*startDate) {
		return nil, nil, errors.NewAppError(errors.ErrInvalidInput, "end_date must not be before start_date", nil)
	}
	return startDate, endDate, nil
}

func parseDatetimePair(start, end string) (time.Time, time.Time, *errors.AppError) {
	s, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrInvalidInput, "start_datetime must be RFC3339", err)
	}
	e, err := time.Parse(time.RFC3339, end)
	if err != nil {
		return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrInvalidInput, "end_datetime must be RFC3339", err)
	}
	s, e = s.UTC(), e.UTC()
	if !e.After(s) {
		return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrInvalidInput, "end_datetime must be after start_datetime", nil)
	}
	return s, e, nil
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}
