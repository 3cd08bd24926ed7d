package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ReadPurger deletes notifications read longer ago than the retention.
type ReadPurger interface {
	PurgeRead(ctx context.Context, olderThan time.Duration) (int64, error)
}

type NotificationPurgeJobs struct {
	purger    ReadPurger
	interval  time.Duration
	retention time.Duration
	log       *slog.Logger
}

func NewNotificationPurgeJobs(purger ReadPurger, interval, retention time.Duration, logger *slog.Logger) *NotificationPurgeJobs {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationPurgeJobs{
		purger:    purger,
		interval:  interval,
		retention: retention,
		log:       logger,
	}
}

func (j *NotificationPurgeJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("purge_read_notifications", j.interval, j.PurgeReadNotifications)
}

func (j *NotificationPurgeJobs) PurgeReadNotifications(ctx context.Context) error {
	removed, err := j.purger.PurgeRead(ctx, j.retention)
	if err != nil {
		return fmt.Errorf("failed to purge read notifications: %w", err)
	}
	j.log.Debug("Cron: Read notifications purged", "count", removed, "retention", j.retention)
	return nil
}
