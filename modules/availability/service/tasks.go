package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"availability-service/core/constants"
	"availability-service/core/logger"
	"availability-service/modules/availability/dto"

	"github.com/hibiken/asynq"
)

// PrecomputePayload is the body of an availability:precompute task.
type PrecomputePayload struct {
	OrganizerSlug string `json:"organizer_slug"`
}

// HandlePrecomputeTask warms the slot cache for one organizer: every active
// event type over the standard upcoming ranges, with default invitee
// parameters. Failures on one range do not abort the rest.
func (s *AvailabilityService) HandlePrecomputeTask(ctx context.Context, task *asynq.Task) error {
	var payload PrecomputePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal precompute payload: %w", err)
	}

	logger.Info("AvailabilityService:HandlePrecomputeTask:Start", "organizer_slug", payload.OrganizerSlug)

	organizer, appErr := s.organizerSvc.ResolveOrganizer(ctx, payload.OrganizerSlug)
	if appErr != nil {
		return fmt.Errorf("resolve organizer %q: %w", payload.OrganizerSlug, appErr)
	}
	eventTypes, appErr := s.organizerSvc.ListActiveEventTypes(ctx, organizer.ID)
	if appErr != nil {
		return fmt.Errorf("list event types for %q: %w", payload.OrganizerSlug, appErr)
	}

	today := time.Now().UTC()
	warmed := 0
	for i := range eventTypes {
		for _, days := range constants.PrecomputeRangeDays {
			query := &dto.CalculatedSlotsQuery{
				OrganizerSlug: payload.OrganizerSlug,
				EventTypeSlug: eventTypes[i].Slug,
				StartDate:     today.Format(dateLayout),
				EndDate:       today.AddDate(0, 0, days-1).Format(dateLayout),
			}
			if _, appErr := s.GetCalculatedSlots(ctx, query); appErr != nil {
				logger.Warn("AvailabilityService:HandlePrecomputeTask:RangeFailed",
					"organizer_slug", payload.OrganizerSlug,
					"event_type_slug", eventTypes[i].Slug,
					"days", days,
					"error", appErr,
				)
				continue
			}
			warmed++
		}
	}

	logger.Info("AvailabilityService:HandlePrecomputeTask:Success",
		"organizer_slug", payload.OrganizerSlug,
		"ranges_warmed", warmed,
	)
	return nil
}
