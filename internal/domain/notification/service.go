package notification

import (
	"context"
	"time"
)

// Notifier is the producer side used by the shift, salary and alarm code.
type Notifier interface {
	Notify(ctx context.Context, req CreateNotificationRequest) error
	NotifyMany(ctx context.Context, reqs []CreateNotificationRequest) error
}

type Service interface {
	Notifier

	List(ctx context.Context, recipientID string, query ListQuery) (*NotificationListResponse, error)
	UnreadCount(ctx context.Context, recipientID, workplaceID string) (int, error)
	MarkRead(ctx context.Context, recipientID string, req MarkAsReadRequest) error
	MarkAllRead(ctx context.Context, recipientID string) error
	Delete(ctx context.Context, recipientID, id string) error
	PurgeRead(ctx context.Context, olderThan time.Duration) (int64, error)

	Preferences(ctx context.Context, userID string) ([]PreferenceResponse, error)
	SetPreference(ctx context.Context, userID string, req UpdatePreferenceRequest) error

	Subscribe(ctx context.Context, userID string) (<-chan SSEEvent, func())

	// Stop flushes queued notifications and waits for the workers.
	Stop()
}
