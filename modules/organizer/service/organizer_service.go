package service

import (
	"context"
	"time"

	"availability-service/core/errors"
	"availability-service/core/logger"
	"availability-service/core/utils"
	"availability-service/modules/organizer/dto"
	"availability-service/modules/organizer/entity"
	"availability-service/modules/organizer/repository"

	"github.com/google/uuid"
)

type OrganizerServiceInterface interface {
	// Entity lookups used by other modules.
	ResolveOrganizer(ctx context.Context, slug string) (*entity.Organizer, *errors.AppError)
	ResolveEventType(ctx context.Context, organizerID uuid.UUID, slug string) (*entity.EventType, *errors.AppError)
	ListActiveOrganizerIDs(ctx context.Context) ([]uuid.UUID, *errors.AppError)
	ListActiveEventTypes(ctx context.Context, organizerID uuid.UUID) ([]entity.EventType, *errors.AppError)
	GetOrganizerByID(ctx context.Context, id uuid.UUID) (*entity.Organizer, *errors.AppError)

	CreateOrganizer(ctx context.Context, req *dto.CreateOrganizerRequest) (*dto.OrganizerResponse, *errors.AppError)
	GetOrganizer(ctx context.Context, slug string) (*dto.OrganizerResponse, *errors.AppError)
	ListOrganizers(ctx context.Context, page, limit int) ([]dto.OrganizerResponse, int64, *errors.AppError)
	UpdateOrganizer(ctx context.Context, slug string, req *dto.UpdateOrganizerRequest) (*dto.OrganizerResponse, *errors.AppError)
	DeleteOrganizer(ctx context.Context, slug string) *errors.AppError

	CreateEventType(ctx context.Context, organizerSlug string, req *dto.CreateEventTypeRequest) (*dto.EventTypeResponse, *errors.AppError)
	ListEventTypes(ctx context.Context, organizerSlug string) ([]dto.EventTypeResponse, *errors.AppError)
	UpdateEventType(ctx context.Context, organizerSlug, eventTypeSlug string, req *dto.UpdateEventTypeRequest) (*dto.EventTypeResponse, *errors.AppError)
	DeleteEventType(ctx context.Context, organizerSlug, eventTypeSlug string) *errors.AppError
}

type organizerService struct {
	repo repository.OrganizerRepository
}

func NewOrganizerService(repo repository.OrganizerRepository) OrganizerServiceInterface {
	return &organizerService{repo: repo}
}

// ResolveOrganizer loads an active organizer by public slug.
func (s *organizerService) ResolveOrganizer(ctx context.Context, slug string) (*entity.Organizer, *errors.AppError) {
	organizer, err := s.repo.GetOrganizerBySlug(ctx, slug)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load organizer", err)
	}
	if organizer == nil || !organizer.IsActive {
		return nil, errors.NewAppError(errors.ErrNotFound, "Organizer not found", nil)
	}
	return organizer, nil
}

func (s *organizerService) ResolveEventType(ctx context.Context, organizerID uuid.UUID, slug string) (*entity.EventType, *errors.AppError) {
	eventType, err := s.repo.GetEventTypeBySlug(ctx, organizerID, slug)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load event type", err)
	}
	if eventType == nil || !eventType.IsActive {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event type not found", nil)
	}
	return eventType, nil
}

func (s *organizerService) ListActiveOrganizerIDs(ctx context.Context) ([]uuid.UUID, *errors.AppError) {
	ids, err := s.repo.ListActiveOrganizerIDs(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list organizers", err)
	}
	return ids, nil
}

func (s *organizerService) ListActiveEventTypes(ctx context.Context, organizerID uuid.UUID) ([]entity.EventType, *errors.AppError) {
	eventTypes, err := s.repo.ListEventTypesByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list event types", err)
	}
	active := eventTypes[:0]
	for _, et := range eventTypes {
		if et.IsActive {
			active = append(active, et)
		}
	}
	return active, nil
}

func (s *organizerService) GetOrganizerByID(ctx context.Context, id uuid.UUID) (*entity.Organizer, *errors.AppError) {
	organizer, err := s.repo.GetOrganizerByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load organizer", err)
	}
	if organizer == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Organizer not found", nil)
	}
	return organizer, nil
}

func (s *organizerService) CreateOrganizer(ctx context.Context, req *dto.CreateOrganizerRequest) (*dto.OrganizerResponse, *errors.AppError) {
	logger.Info("OrganizerService:CreateOrganizer:Start", "name", req.Name)

	if req.Name == "" || req.Email == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "name and email are required", nil)
	}
	if _, err := time.LoadLocation(req.Timezone); err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "timezone must be a valid IANA name", err)
	}

	slug := utils.MakeSlug(req.Name)
	exists, err := s.repo.OrganizerSlugExists(ctx, slug)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to check slug", err)
	}
	if exists {
		slug = utils.MakeUniqueSlug(req.Name)
	}

	organizer := &entity.Organizer{
		Slug:                 slug,
		Name:                 req.Name,
		Email:                req.Email,
		Timezone:             req.Timezone,
		ReasonableHoursStart: valueOr(req.ReasonableHoursStart, 7),
		ReasonableHoursEnd:   valueOr(req.ReasonableHoursEnd, 22),
		IsActive:             true,
	}
	if appErr := validateReasonableHours(organizer.ReasonableHoursStart, organizer.ReasonableHoursEnd); appErr != nil {
		return nil, appErr
	}

	created, err := s.repo.CreateOrganizer(ctx, organizer)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create organizer", err)
	}

	logger.Info("OrganizerService:CreateOrganizer:Success", "organizer_id", created.ID, "slug", created.Slug)
	return toOrganizerResponse(created), nil
}

func (s *organizerService) GetOrganizer(ctx context.Context, slug string) (*dto.OrganizerResponse, *errors.AppError) {
	organizer, err := s.repo.GetOrganizerBySlug(ctx, slug)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load organizer", err)
	}
	if organizer == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Organizer not found", nil)
	}
	return toOrganizerResponse(organizer), nil
}

func (s *organizerService) ListOrganizers(ctx context.Context, page, limit int) ([]dto.OrganizerResponse, int64, *errors.AppError) {
	offset := (page - 1) * limit
	organizers, total, err := s.repo.ListOrganizers(ctx, limit, offset)
	if err != nil {
		return nil, 0, errors.NewAppError(errors.ErrInternalServer, "Failed to list organizers", err)
	}
	out := make([]dto.OrganizerResponse, 0, len(organizers))
	for i := range organizers {
		out = append(out, *toOrganizerResponse(&organizers[i]))
	}
	return out, total, nil
}

func (s *organizerService) UpdateOrganizer(ctx context.Context, slug string, req *dto.UpdateOrganizerRequest) (*dto.OrganizerResponse, *errors.AppError) {
	organizer, err := s.repo.GetOrganizerBySlug(ctx, slug)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load organizer", err)
	}
	if organizer == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Organizer not found", nil)
	}

	if req.Name != nil {
		organizer.Name = *req.Name
	}
	if req.Email != nil {
		organizer.Email = *req.Email
	}
	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "timezone must be a valid IANA name", err)
		}
		organizer.Timezone = *req.Timezone
	}
	if req.ReasonableHoursStart != nil {
		organizer.ReasonableHoursStart = *req.ReasonableHoursStart
	}
	if req.ReasonableHoursEnd != nil {
		organizer.ReasonableHoursEnd = *req.ReasonableHoursEnd
	}
	if appErr := validateReasonableHours(organizer.ReasonableHoursStart, organizer.ReasonableHoursEnd); appErr != nil {
		return nil, appErr
	}
	if req.IsActive != nil {
		organizer.IsActive = *req.IsActive
	}

	if err := s.repo.UpdateOrganizer(ctx, organizer); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update organizer", err)
	}
	logger.Info("OrganizerService:UpdateOrganizer:Success", "organizer_id", organizer.ID)
	return toOrganizerResponse(organizer), nil
}

func (s *organizerService) DeleteOrganizer(ctx context.Context, slug string) *errors.AppError {
	organizer, err := s.repo.GetOrganizerBySlug(ctx, slug)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to load organizer", err)
	}
	if organizer == nil {
		return errors.NewAppError(errors.ErrNotFound, "Organizer not found", nil)
	}
	if err := s.repo.DeleteOrganizer(ctx, organizer.ID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete organizer", err)
	}
	logger.Info("OrganizerService:DeleteOrganizer:Success", "organizer_id", organizer.ID)
	return nil
}

func (s *organizerService) CreateEventType(ctx context.Context, organizerSlug string, req *dto.CreateEventTypeRequest) (*dto.EventTypeResponse, *errors.AppError) {
	organizer, appErr := s.ResolveOrganizer(ctx, organizerSlug)
	if appErr != nil {
		return nil, appErr
	}
	if req.DurationMinutes <= 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "duration_minutes must be positive", nil)
	}
	maxAttendees := req.MaxAttendees
	if maxAttendees <= 0 {
		maxAttendees = 1
	}

	slug := utils.MakeSlug(req.Name)
	exists, err := s.repo.EventTypeSlugExists(ctx, organizer.ID, slug)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to check slug", err)
	}
	if exists {
		slug = utils.MakeUniqueSlug(req.Name)
	}

	eventType := &entity.EventType{
		OrganizerID:         organizer.ID,
		Slug:                slug,
		Name:                req.Name,
		Description:         req.Description,
		DurationMinutes:     req.DurationMinutes,
		MaxAttendees:        maxAttendees,
		BufferBefore:        req.BufferBefore,
		BufferAfter:         req.BufferAfter,
		SlotIntervalMinutes: req.SlotIntervalMinutes,
		IsActive:            true,
	}
	created, err := s.repo.CreateEventType(ctx, eventType)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create event type", err)
	}

	logger.Info("OrganizerService:CreateEventType:Success", "event_type_id", created.ID, "slug", created.Slug)
	return toEventTypeResponse(created), nil
}

func (s *organizerService) ListEventTypes(ctx context.Context, organizerSlug string) ([]dto.EventTypeResponse, *errors.AppError) {
	organizer, appErr := s.ResolveOrganizer(ctx, organizerSlug)
	if appErr != nil {
		return nil, appErr
	}
	eventTypes, err := s.repo.ListEventTypesByOrganizer(ctx, organizer.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list event types", err)
	}
	out := make([]dto.EventTypeResponse, 0, len(eventTypes))
	for i := range eventTypes {
		out = append(out, *toEventTypeResponse(&eventTypes[i]))
	}
	return out, nil
}

func (s *organizerService) UpdateEventType(ctx context.Context, organizerSlug, eventTypeSlug string, req *dto.UpdateEventTypeRequest) (*dto.EventTypeResponse, *errors.AppError) {
	organizer, appErr := s.ResolveOrganizer(ctx, organizerSlug)
	if appErr != nil {
		return nil, appErr
	}
	eventType, err := s.repo.GetEventTypeBySlug(ctx, organizer.ID, eventTypeSlug)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load event type", err)
	}
	if eventType == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event type not found", nil)
	}

	if req.Name != nil {
		eventType.Name = *req.Name
	}
	if req.Description != nil {
		eventType.Description = *req.Description
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "duration_minutes must be positive", nil)
		}
		eventType.DurationMinutes = *req.DurationMinutes
	}
	if req.MaxAttendees != nil {
		if *req.MaxAttendees < 1 {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "max_attendees must be at least 1", nil)
		}
		eventType.MaxAttendees = *req.MaxAttendees
	}
	if req.BufferBefore != nil {
		eventType.BufferBefore = req.BufferBefore
	}
	if req.BufferAfter != nil {
		eventType.BufferAfter = req.BufferAfter
	}
	if req.SlotIntervalMinutes != nil {
		eventType.SlotIntervalMinutes = req.SlotIntervalMinutes
	}
	if req.IsActive != nil {
		eventType.IsActive = *req.IsActive
	}

	if err := s.repo.UpdateEventType(ctx, eventType); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update event type", err)
	}
	logger.Info("OrganizerService:UpdateEventType:Success", "event_type_id", eventType.ID)
	return toEventTypeResponse(eventType), nil
}

func (s *organizerService) DeleteEventType(ctx context.Context, organizerSlug, eventTypeSlug string) *errors.AppError {
	organizer, appErr := s.ResolveOrganizer(ctx, organizerSlug)
	if appErr != nil {
		return appErr
	}
	eventType, err := s.repo.GetEventTypeBySlug(ctx, organizer.ID, eventTypeSlug)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to load event type", err)
	}
	if eventType == nil {
		return errors.NewAppError(errors.ErrNotFound, "Event type not found", nil)
	}
	if err := s.repo.DeleteEventType(ctx, eventType.ID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete event type", err)
	}
	logger.Info("OrganizerService:DeleteEventType:Success", "event_type_id", eventType.ID)
	return nil
}

func toOrganizerResponse(o *entity.Organizer) *dto.OrganizerResponse {
	return &dto.OrganizerResponse{
		ID:                   o.ID.String(),
		Slug:                 o.Slug,
		Name:                 o.Name,
		Email:                o.Email,
		Timezone:             o.Timezone,
		ReasonableHoursStart: o.ReasonableHoursStart,
		ReasonableHoursEnd:   o.ReasonableHoursEnd,
		IsActive:             o.IsActive,
		CreatedAt:            o.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toEventTypeResponse(e *entity.EventType) *dto.EventTypeResponse {
	return &dto.EventTypeResponse{
		ID:                  e.ID.String(),
		Slug:                e.Slug,
		Name:                e.Name,
		Description:         e.Description,
		DurationMinutes:     e.DurationMinutes,
		MaxAttendees:        e.MaxAttendees,
		BufferBefore:        e.BufferBefore,
		BufferAfter:         e.BufferAfter,
		SlotIntervalMinutes: e.SlotIntervalMinutes,
		IsActive:            e.IsActive,
		CreatedAt:           e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func valueOr(v *int, fallback int) int {
	if v != nil {
		return *v
	}
	return fallback
}

func validateReasonableHours(start, end int) *errors.AppError {
	if start < 0 || start > 23 || end < 0 || end > 23 || start >= end {
		return errors.NewAppError(errors.ErrInvalidInput, "reasonable hours must satisfy 0 <= start < end <= 23", nil)
	}
	return nil
}
