package service

import (
	"context"
	"math"

	"availability-service/core/errors"
	"availability-service/modules/availability/dto"
)

// GetStats summarizes an organizer's configured schedule. Hours are derived
// from active weekly rules; midnight-spanning windows count fully toward the
// weekday they start on.
func (s *AvailabilityService) GetStats(ctx context.Context, organizerSlug string) (*dto.AvailabilityStatsResponse, *errors.AppError) {
	organizer, appErr := s.organizerSvc.ResolveOrganizer(ctx, organizerSlug)
	if appErr != nil {
		return nil, appErr
	}

	rules, err := s.repo.ListRulesByOrganizer(ctx, organizer.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load availability rules", err)
	}
	overrides, err := s.repo.ListOverridesByOrganizer(ctx, organizer.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load date overrides", err)
	}
	blocks, err := s.repo.ListBlockedTimesByOrganizer(ctx, organizer.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load blocked times", err)
	}
	recurring, err := s.repo.ListRecurringBlocksByOrganizer(ctx, organizer.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load recurring blocks", err)
	}

	activeRules := 0
	var dayMinutes [7]int
	for i := range rules {
		rule := &rules[i]
		if !rule.IsActive {
			continue
		}
		activeRules++
		start, end := ruleMinuteSpan(rule.StartTime, rule.EndTime)
		dayMinutes[rule.DayOfWeek] += end - start
	}

	dailyHours := make(map[string]float64, 7)
	totalHours := 0.0
	busiest := ""
	busiestMinutes := 0
	for day, minutes := range dayMinutes {
		hours := round2(float64(minutes) / 60.0)
		dailyHours[dayNames[day]] = hours
		totalHours += hours
		if minutes > busiestMinutes {
			busiestMinutes = minutes
			busiest = dayNames[day]
		}
	}

	return &dto.AvailabilityStatsResponse{
		TotalRules:           len(rules),
		ActiveRules:          activeRules,
		TotalOverrides:       len(overrides),
		TotalBlocks:          len(blocks),
		TotalRecurringBlocks: len(recurring),
		AverageWeeklyHours:   round2(totalHours),
		BusiestDay:           busiest,
		DailyHours:           dailyHours,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
