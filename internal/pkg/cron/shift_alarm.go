package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/shift"
)

type ShiftAlarmJobs struct {
	shiftRepo       shift.Repository
	notifier        notification.Notifier
	interval        time.Duration
	lead            time.Duration
	log             *slog.Logger
	now             func() time.Time
}

func NewShiftAlarmJobs(
	shiftRepo shift.Repository,
	notifier notification.Notifier,
	interval time.Duration,
	lead time.Duration,
	logger *slog.Logger,
) *ShiftAlarmJobs {
	if logger == nil {
		logger = slog.Default()
	}
	return &ShiftAlarmJobs{
		shiftRepo:       shiftRepo,
		notifier:        notifier,
		interval:        interval,
		lead:            lead,
		log:             logger,
		now:             time.Now,
	}
}

func (j *ShiftAlarmJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("dispatch_shift_alarms", j.interval, j.DispatchShiftAlarms)
}

// DispatchShiftAlarms reminds workers of shifts starting within the lead
// window. A shift is alarmed at most once; shifts whose alarm could not be
// queued stay pending for the next run.
func (j *ShiftAlarmJobs) DispatchShiftAlarms(ctx context.Context) error {
	now := j.now()

	due, err := j.shiftRepo.ListStartingBetween(ctx, now, now.Add(j.lead))
	if err != nil {
		return fmt.Errorf("failed to list upcoming shifts: %w", err)
	}
	if len(due) == 0 {
		return nil
	}

	var (
		sent []string
		errs []error
	)
	for _, s := range due {
		payload := shift.NewAlarmPayload(s, now)
		workplaceID := s.WorkplaceID
		err := j.notifier.Notify(ctx, notification.CreateNotificationRequest{
			WorkplaceID: &workplaceID,
			RecipientID: s.WorkerID,
			Type:        notification.TypeShiftAlarm,
			Title:       "Shift Starting Soon",
			Message:     fmt.Sprintf("Your shift starts in %d minutes", payload.MinutesUntilStart),
			Data: map[string]interface{}{
				"shift_id":            payload.ShiftID,
				"workplace_id":        payload.WorkplaceID,
				"start_time":          payload.StartTime.Format(time.RFC3339),
				"minutes_until_start": payload.MinutesUntilStart,
			},
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("shift %s: %w", s.ID, err))
			continue
		}
		sent = append(sent, s.ID)
	}

	if len(sent) > 0 {
		if err := j.shiftRepo.MarkAlarmSent(ctx, sent, now); err != nil {
			return fmt.Errorf("failed to mark shift alarms: %w", err)
		}
		j.log.Info("Cron: Shift alarms dispatched", "count", len(sent))
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to queue %d shift alarm(s): %w", len(errs), errors.Join(errs...))
	}
	return nil
}
