package notification

import (
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/validator"
)

// CreateNotificationRequest represents a request to create a notification
type CreateNotificationRequest struct {
	WorkplaceID *string
	RecipientID string
	SenderID    *string
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]interface{}
}

func (r CreateNotificationRequest) Validate() error {
	if r.RecipientID == "" {
		return ErrRecipientRequired
	}
	if !r.Type.IsValid() {
		return ErrInvalidNotificationType
	}
	if r.Title == "" {
		return ErrTitleRequired
	}
	return nil
}

// ListQuery pages through a recipient's notifications
type ListQuery struct {
	WorkplaceID string
	UnreadOnly  bool
	Page        int
	PageSize    int
}

// Normalize clamps the page to 1 and the page size to 1..100, defaulting to 20.
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		q.PageSize = 20
	}
	return q
}

// MarkAsReadRequest represents a request to mark notifications as read
type MarkAsReadRequest struct {
	NotificationIDs []string `json:"notification_ids"`
}

func (r *MarkAsReadRequest) Validate() error {
	var errs validator.ValidationErrors
	if len(r.NotificationIDs) == 0 {
		errs.Add("notification_ids", "notification_ids is required")
	}
	for _, id := range r.NotificationIDs {
		if validator.IsEmpty(id) {
			errs.Add("notification_ids", "notification_ids must not contain blank ids")
			break
		}
	}
	return errs.Err()
}

// UpdatePreferenceRequest represents a request to update notification preference
type UpdatePreferenceRequest struct {
	NotificationType NotificationType `json:"notification_type"`
	PushEnabled      bool             `json:"push_enabled"`
}

func (r *UpdatePreferenceRequest) Validate() error {
	if !r.NotificationType.IsValid() {
		return ErrInvalidNotificationType
	}
	return nil
}

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID          string                 `json:"id"`
	WorkplaceID *string                `json:"workplace_id,omitempty"`
	Type        NotificationType       `json:"type"`
	Title       string                 `json:"title"`
	Message     string                 `json:"message"`
	Data        map[string]interface{} `json:"data,omitempty"`
	IsRead      bool                   `json:"is_read"`
	ReadAt      *time.Time             `json:"read_at,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

// NotificationListResponse represents a paginated list of notifications
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int                    `json:"total"`
	UnreadCount   int                    `json:"unread_count"`
	Page          int                    `json:"page"`
	PageSize      int                    `json:"page_size"`
}

// PreferenceResponse represents a notification preference in API responses
type PreferenceResponse struct {
	NotificationType NotificationType `json:"notification_type"`
	PushEnabled      bool             `json:"push_enabled"`
}

type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}

type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// SSEEvent represents a Server-Sent Event
type SSEEvent struct {
	Event string               `json:"event"`
	Data  NotificationResponse `json:"data"`
}
