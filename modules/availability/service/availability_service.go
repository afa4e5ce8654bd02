package service

import (
	"context"
	"fmt"
	"time"

	"availability-service/core/errors"
	"availability-service/core/logger"
	"availability-service/modules/availability/dto"
	"availability-service/modules/availability/entity"
	"availability-service/modules/availability/mapper"
	"availability-service/modules/availability/repository"
	bookingRepository "availability-service/modules/booking/repository"
	organizerService "availability-service/modules/organizer/service"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/lib/pq"
)

const dateLayout = "2006-01-02"

// dayNames follows the 0=Monday..6=Sunday convention of availability rules.
var dayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// AvailabilityServiceInterface defines the service contract
type AvailabilityServiceInterface interface {
	// Weekly rules
	CreateRule(ctx context.Context, organizerSlug string, req *dto.CreateAvailabilityRuleRequest) (*dto.AvailabilityRuleResponse, *errors.AppError)
	ListRules(ctx context.Context, organizerSlug string) ([]dto.AvailabilityRuleResponse, *errors.AppError)
	UpdateRule(ctx context.Context, organizerSlug string, ruleID uuid.UUID, req *dto.UpdateAvailabilityRuleRequest) (*dto.AvailabilityRuleResponse, *errors.AppError)
	DeleteRule(ctx context.Context, organizerSlug string, ruleID uuid.UUID) *errors.AppError

	// Date overrides
	CreateOverride(ctx context.Context, organizerSlug string, req *dto.CreateDateOverrideRequest) (*dto.DateOverrideResponse, *errors.AppError)
	ListOverrides(ctx context.Context, organizerSlug string) ([]dto.DateOverrideResponse, *errors.AppError)
	UpdateOverride(ctx context.Context, organizerSlug string, overrideID uuid.UUID, req *dto.UpdateDateOverrideRequest) (*dto.DateOverrideResponse, *errors.AppError)
	DeleteOverride(ctx context.Context, organizerSlug string, overrideID uuid.UUID) *errors.AppError

	// Recurring blocks
	CreateRecurringBlock(ctx context.Context, organizerSlug string, req *dto.CreateRecurringBlockRequest) (*dto.RecurringBlockResponse, *errors.AppError)
	ListRecurringBlocks(ctx context.Context, organizerSlug string) ([]dto.RecurringBlockResponse, *errors.AppError)
	UpdateRecurringBlock(ctx context.Context, organizerSlug string, blockID uuid.UUID, req *dto.UpdateRecurringBlockRequest) (*dto.RecurringBlockResponse, *errors.AppError)
	DeleteRecurringBlock(ctx context.Context, organizerSlug string, blockID uuid.UUID) *errors.AppError

	// One-off blocked times
	CreateBlockedTime(ctx context.Context, organizerSlug string, req *dto.CreateBlockedTimeRequest) (*dto.BlockedTimeResponse, *errors.AppError)
	ListBlockedTimes(ctx context.Context, organizerSlug string) ([]dto.BlockedTimeResponse, *errors.AppError)
	UpdateBlockedTime(ctx context.Context, organizerSlug string, blockID uuid.UUID, req *dto.UpdateBlockedTimeRequest) (*dto.BlockedTimeResponse, *errors.AppError)
	DeleteBlockedTime(ctx context.Context, organizerSlug string, blockID uuid.UUID) *errors.AppError

	// Buffer settings
	GetBufferSettings(ctx context.Context, organizerSlug string) (*dto.BufferSettingsResponse, *errors.AppError)
	UpdateBufferSettings(ctx context.Context, organizerSlug string, req *dto.UpdateBufferSettingsRequest) (*dto.BufferSettingsResponse, *errors.AppError)

	// Calculated slots and cache administration
	GetCalculatedSlots(ctx context.Context, query *dto.CalculatedSlotsQuery) (*dto.CalculatedSlotsResponse, *errors.AppError)
	ClearCache(ctx context.Context, organizerSlug string) (*dto.CacheClearResponse, *errors.AppError)
	Precompute(ctx context.Context, organizerSlug string) (*dto.PrecomputeResponse, *errors.AppError)
	GetStats(ctx context.Context, organizerSlug string) (*dto.AvailabilityStatsResponse, *errors.AppError)

	// Worker handlers
	HandlePrecomputeTask(ctx context.Context, task *asynq.Task) error
}

// AvailabilityService handles availability business logic
type AvailabilityService struct {
	repo         repository.AvailabilityRepository
	bookingRepo  bookingRepository.BookingRepositoryInterface
	organizerSvc organizerService.OrganizerServiceInterface
	cache        *SlotCacheStore
	engine       *SlotEngine
}

// NewAvailabilityService creates a new availability service
func NewAvailabilityService(
	repo repository.AvailabilityRepository,
	bookingRepo bookingRepository.BookingRepositoryInterface,
	organizerSvc organizerService.OrganizerServiceInterface,
	cacheStore *SlotCacheStore,
) AvailabilityServiceInterface {
	return &AvailabilityService{
		repo:         repo,
		bookingRepo:  bookingRepo,
		organizerSvc: organizerSvc,
		cache:        cacheStore,
		engine:       NewSlotEngine(),
	}
}

// invalidate bumps the organizer's cache version. Failures are logged and
// swallowed; stale entries still expire by TTL.
func (s *AvailabilityService) invalidate(ctx context.Context, organizerID uuid.UUID) {
	if err := s.cache.InvalidateOrganizer(ctx, organizerID); err != nil {
		logger.Warn("AvailabilityService:CacheInvalidate:Error", "error", err, "organizer_id", organizerID)
	}
}

// ===================== Weekly rules =====================

func (s *AvailabilityService) CreateRule(ctx context.Context, organizerSlug string, req *dto.CreateAvailabilityRuleRequest) (*dto.AvailabilityRuleResponse, *errors.AppError) {
	logger.Info("AvailabilityService:CreateRule:Start", "organizer_slug", organizerSlug)

	organizer, appErr := s.organizerSvc.ResolveOrganizer(ctx, organizerSlug)
	if appErr != nil {
		return nil, appErr
	}

	if req.DayOfWeek == nil || *req.DayOfWeek < 0 || *req.DayOfWeek > 6 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "day_of_week must be between 0 (Monday) and 6 (Sunday)", nil)
	}
	if appErr := validateClockPair(req.StartTime, req.EndTime); appErr != nil {
		return nil, appErr
	}

	rule := &entity.AvailabilityRule{
		OrganizerID:  organizer.ID,
		DayOfWeek:    *req.DayOfWeek,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		EventTypeIDs: pq.StringArray(req.EventTypeIDs),
		IsActive:     boolOr(req.IsActive, true),
	}

	if appErr := s.checkRuleOverlap(ctx, organizer.ID, rule, uuid.Nil); appErr != nil {
		return nil, appErr
	}

	created, err := s.repo.CreateRule(ctx, rule)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create availability rule", err)
	}
	s.invalidate(ctx, organizer.ID)

	logger.Info("AvailabilityService:CreateRule:Success", "rule_id", created.ID, "day_of_week", created.DayOfWeek)
	return mapper.ToRuleResponse(created), nil
}

func (s *AvailabilityService) ListRules(ctx context.Context, organizerSlug string) ([]dto.AvailabilityRuleResponse, *errors.AppError) {
	organizer, appErr := s.organizerSvc.ResolveOrganizer(ctx, organizerSlug)
	if appErr != nil {
		return nil, appErr
	}
	rules, err := s.repo.ListRulesByOrganizer(ctx, organizer.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list availability rules", err)
	}
	return mapper.ToRuleResponses(rules), nil
}

func (s *AvailabilityService) UpdateRule(ctx context.Context, organizerSlug string, ruleID uuid.UUID, req *dto.UpdateAvailabilityRuleRequest) (*dto.AvailabilityRuleResponse, *errors.AppError) {
	organizer, appErr := s.organizerSvc.ResolveOrganizer(ctx, organizerSlug)
	if appErr != nil {
		return nil, appErr
	}
	rule, err := s.repo.GetRuleByID(ctx, ruleID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load availability rule", err)
	}
	if rule == nil || rule.OrganizerID != organizer.ID {
		return nil, errors.NewAppError(errors.ErrNotFound, "Availability rule not found", nil)
	}

	if req.DayOfWeek != nil {
		if *req.DayOfWeek < 0 || *req.DayOfWeek > 6 {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "day_of_week must be between 0 (Monday) and 6 (Sunday)", nil)
		}
		rule.DayOfWeek = *req.DayOfWeek
	}
	if req.StartTime != nil {
		rule.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		rule.EndTime = *req.EndTime
	}
	if appErr := validateClockPair(rule.StartTime, rule.EndTime); appErr != nil {
		return nil, appErr
	}
	if req.EventTypeIDs != nil {
		rule.EventTypeIDs = pq.StringArray(*req.EventTypeIDs)
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	if rule.IsActive {
		if appErr := s.checkRuleOverlap(ctx, organizer.ID, rule, rule.ID); appErr != nil {
			return nil, appErr
		}
	}

	if err := s.repo.UpdateRule(ctx, rule); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update availability rule", err)
	}
	s.invalidate(ctx, organizer.ID)

	logger.Info("AvailabilityService:UpdateRule:Success", "rule_id", rule.ID)
	return mapper.ToRuleResponse(rule), nil
}

func (s *AvailabilityService) DeleteRule(ctx context.Context, organizerSlug string, ruleID uuid.UUID) *errors.AppError {
	organizer, appErr := s.organizerSvc.ResolveOrganizer(ctx, organizerSlug)
	if appErr != nil {
		return appErr
	}
	rule, err := s.repo.GetRuleByID(ctx, ruleID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to load availability rule", err)
	}
	if rule == nil || rule.OrganizerID != organizer.ID {
		return errors.NewAppError(errors.ErrNotFound, "Availability rule not found", nil)
	}
	if err := s.repo.DeleteRule(ctx, ruleID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete availability rule", err)
	}
	s.invalidate(ctx, organizer.ID)

	logger.Info("AvailabilityService:DeleteRule:Success", "rule_id", ruleID)
	return nil
}

// checkRuleOverlap rejects a rule whose window collides with another active
// rule on the same weekday covering a shared event type. Adjacent windows
// count as a collision.
func (s *AvailabilityService) checkRuleOverlap(ctx context.Context, organizerID uuid.UUID, candidate *entity.AvailabilityRule, excludeID uuid.UUID) *errors.AppError {
	existing, err := s.repo.ListRulesByOrganizer(ctx, organizerID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to check availability rules", err)
	}

	candStart, candEnd := ruleMinuteSpan(candidate.StartTime, candidate.EndTime)
	for i := range existing {
		other := &existing[i]
		if other.ID == excludeID || !other.IsActive || other.DayOfWeek != candidate.DayOfWeek {
			continue
		}
		if !scopesShareEventType(candidate.EventTypeIDs, other.EventTypeIDs) {
			continue
		}
		otherStart, otherEnd := ruleMinuteSpan(other.StartTime, other.EndTime)
		if candStart <= otherEnd && otherStart <= candEnd {
			msg := fmt.Sprintf("This time range overlaps with existing availability rule on %s (%s - %s)",
				dayNames[other.DayOfWeek], other.StartTime, other.EndTime)
			return errors.NewAppError(errors.ErrInvalidInput, msg, nil)
		}
	}
	return nil
}

// ===================== Date overrides =====================

func (s *AvailabilityService) CreateOverride(ctx context.Context, organizerSlug string, req *dto.CreateDateOverrideRequest) (*dto.DateOverrideResponse, *errors.AppError) {
	logger.Info("AvailabilityService:CreateOverride:Start", "organizer_slug", organizerSlug, "date", req.Date)

	organizer, appErr := s.organizerSvc.ResolveOrganizer(ctx, organizerSlug)
	if appErr != nil {
		return nil, appErr
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "date must be YYYY-MM-DD", err)
	}

	override := &entity.DateOverrideRule{
		OrganizerID:  organizer.ID,
		Date:         date,
		IsAvailable:  req.IsAvailable,
		Reason:       req.Reason,
		EventTypeIDs: pq.StringArray(req.EventTypeIDs),
		IsActive:     boolOr(req.IsActive, true),
	}
	if req.IsAvailable {
		if appErr := validateOverrideWindow(req.StartTime, req.EndTime); appErr != nil {
			return nil, appErr
		}
		override.StartTime = req.StartTime
		override.EndTime = req.EndTime
	}

	if appErr := s.checkOverrideDate(ctx, organizer.ID, date, uuid.Nil); appErr != nil {
		return nil, appErr
	}

	created, err := s.repo.CreateOverride(ctx, override)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create date override", err)
	}
	s.invalidate(ctx, organizer.ID)

	logger.Info("AvailabilityService:CreateOverride:Success", "override_id", created.ID, "date", req.Date)
	return mapper.ToOverrideResponse(created), nil
}

func (s *AvailabilityService) ListOverrides(ctx context.Context, organizerSlug string) ([]dto.DateOverrideResponse, *errors.AppError) {
	organizer, appErr := s.organizerSvc.ResolveOrganizer(ctx, organizerSlug)
	if appErr != nil {
		return nil, appErr
	}
	overrides, err := s.repo.ListOverridesByOrganizer(ctx, organizer.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list date overrides", err)
	}
	return mapper.ToOverrideResponses(overrides), nil
}

func (s *AvailabilityService) UpdateOverride(ctx context.Context, organizerSlug string, overrideID uuid.UUID, req *dto.UpdateDateOverrideRequest) (*dto.DateOverrideResponse, *errors.AppError) {
	organizer, appErr := s.organizerSvc.ResolveOrganizer(ctx, organizerSlug)
	if appErr != nil {
		return nil, appErr
	}
	override, err := s.repo.GetOverrideByID(ctx, overrideID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load date override", err)
	}
	if override == nil || override.OrganizerID != organizer.ID {
		return nil, errors.NewAppError(errors.ErrNotFound, "Date override not found", nil)
	}

	if req.Date != nil {
		date, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "date must be YYYY-MM-DD", err)
		}
		if !date.Equal(override.Date) {
			if appErr := s.checkOverrideDate(ctx, organizer.ID, date, override.ID); appErr != nil {
				return nil, appErr
			}
		}
		override.Date = date
	}
	if req.IsAvailable != nil {
		override.IsAvailable = *req.IsAvailable
	}
	if req.StartTime != nil {
		override.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		override.EndTime = req.EndTime
	}
	if override.IsAvailable {
		if appErr := validateOverrideWindow(override.StartTime, override.EndTime); appErr != nil {
			return nil, appErr
		}
	} else {
		override.StartTime = nil
		override.EndTime = nil
	}
	if req.Reason != nil {
		override.Reason = *req.Reason
	}
	if req.EventTypeIDs != nil {
		override.EventTypeIDs = pq.StringArray(*req.EventTypeIDs)
	}
	if req.IsActive != nil {
		override.IsActive = *req.IsActive
	}

	if err := s.repo.UpdateOverride(ctx, override); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update date override", err)
	}
	s.invalidate(ctx, organizer.ID)

	logger.Info("AvailabilityService:UpdateOverride:Success", "override_id", override.ID)
	return mapper.ToOverrideResponse(override), nil
}

func (s *AvailabilityService) DeleteOverride(ctx context.Context, organizerSlug string, overrideID uuid.UUID) *errors.AppError {
	organizer, appErr := s.organizerSvc.ResolveOrganizer(ctx, organizerSlug)
	if appErr != nil {
		return appErr
	}
	override, err := s.repo.GetOverrideByID(ctx, overrideID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to load date override", err)
	}
	if override == nil || override.OrganizerID != organizer.ID {
		return errors.NewAppError(errors.ErrNotFound, "Date override not found", nil)
	}
	if err := s.repo.DeleteOverride(ctx, overrideID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete date override", err)
	}
	s.invalidate(ctx, organizer.ID)

	logger.Info("AvailabilityService:DeleteOverride:Success", "override_id", overrideID)
	return nil
}

// checkOverrideDate rejects a second active override for the same date; the
// engine expects at most one owner per calendar date.
func (s *AvailabilityService) checkOverrideDate(ctx context.Context, organizerID uuid.UUID, date time.Time, excludeID uuid.UUID) *errors.AppError {
	existing, err := s.repo.ListOverridesInRange(ctx, organizerID, date, date)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to check date overrides", err)
	}
	for i := range existing {
		if existing[i].ID != excludeID && existing[i].IsActive {
			return errors.NewAppError(errors.ErrAlreadyExists, "An override for this date already exists", nil)
		}
	}
	return nil
}

// ===================== Validation helpers =====================

// validateClockPair checks a weekly window. End before start is legal and
// means the window spans midnight; equal endpoints are not.
func validateClockPair(start, end string) *errors.AppError {
	if _, _, err := parseClock(start); err != nil {
		return errors.NewAppError(errors.ErrInvalidInput, "start_time must be HH:MM", err)
	}
	if _, _, err := parseClock(end); err != nil {
		return errors.NewAppError(errors.ErrInvalidInput, "end_time must be HH:MM", err)
	}
	if start == end {
		return errors.NewAppError(errors.ErrInvalidInput, "start_time and end_time cannot be equal", nil)
	}
	return nil
}

// validateOverrideWindow checks an available override's window. Overrides own
// a single calendar date, so the window cannot span midnight.
func validateOverrideWindow(start, end *string) *errors.AppError {
	if start == nil || end == nil {
		return errors.NewAppError(errors.ErrInvalidInput, "start_time and end_time are required when the date is available", nil)
	}
	if _, _, err := parseClock(*start); err != nil {
		return errors.NewAppError(errors.ErrInvalidInput, "start_time must be HH:MM", err)
	}
	if _, _, err := parseClock(*end); err != nil {
		return errors.NewAppError(errors.ErrInvalidInput, "end_time must be HH:MM", err)
	}
	if *end <= *start {
		return errors.NewAppError(errors.ErrInvalidInput, "end_time must be after start_time", nil)
	}
	return nil
}

// ruleMinuteSpan maps a weekly window to minutes from local midnight, with
// midnight-spanning windows extending past 1440.
func ruleMinuteSpan(start, end string) (int, int) {
	sh, sm, _ := parseClock(start)
	eh, em, _ := parseClock(end)
	s := sh*60 + sm
	e := eh*60 + em
	if e <= s {
		e += 24 * 60
	}
	return s, e
}

// scopesShareEventType reports whether two event type restrictions can apply
// to the same event type. An empty list means every event type.
func scopesShareEventType(a, b pq.StringArray) bool {
	if len(a) == 0 || len(b) == 0 {
		return true
	}
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}
	for _, v := range b {
		if _, ok := set[v]; ok {
			return true
		}
	}
	return false
}

func boolOr(v *bool, fallback bool) bool {
	if v != nil {
		return *v
	}
	return fallback
}
