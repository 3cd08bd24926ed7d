package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeShiftAssigned       NotificationType = "shift_assigned"
	TypeShiftUpdated        NotificationType = "shift_updated"
	TypeShiftAlarm          NotificationType = "shift_alarm"
	TypeSalaryPolicyUpdated NotificationType = "salary_policy_updated"
)

// AllNotificationTypes returns all available notification types
func AllNotificationTypes() []NotificationType {
	return []NotificationType{
		TypeShiftAssigned,
		TypeShiftUpdated,
		TypeShiftAlarm,
		TypeSalaryPolicyUpdated,
	}
}

// IsValid reports whether t is a known type.
func (t NotificationType) IsValid() bool {
	for _, known := range AllNotificationTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// Notification represents a notification entity
type Notification struct {
	ID          string
	WorkplaceID *string
	RecipientID string
	SenderID    *string
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]interface{}
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}

// NotificationPreference represents whether a user receives pushes of one type
type NotificationPreference struct {
	ID               string
	UserID           string
	NotificationType NotificationType
	PushEnabled      bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
