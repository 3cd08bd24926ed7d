package notification

import (
	"context"
	"time"
)

// ListFilter selects one recipient's notifications. An empty WorkplaceID
// spans every workplace.
type ListFilter struct {
	RecipientID string
	WorkplaceID string
	UnreadOnly  bool
	Limit       int
	Offset      int
}

type Repository interface {
	Insert(ctx context.Context, notifications ...*Notification) error
	List(ctx context.Context, filter ListFilter) ([]*Notification, int, error)
	CountUnread(ctx context.Context, recipientID, workplaceID string) (int, error)
	// MarkRead marks the given ids, or every unread notification when ids is empty.
	MarkRead(ctx context.Context, recipientID string, ids []string) error
	Delete(ctx context.Context, recipientID, id string) error
	DeleteReadBefore(ctx context.Context, before time.Time) (int64, error)

	Preferences(ctx context.Context, userID string) ([]*NotificationPreference, error)
	SavePreference(ctx context.Context, pref *NotificationPreference) error
	// PushEnabled is true unless the user switched the type off.
	PushEnabled(ctx context.Context, userID string, notifType NotificationType) (bool, error)
}
