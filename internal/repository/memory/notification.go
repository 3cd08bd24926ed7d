package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/notification"
	"github.com/google/uuid"
)

type prefKey struct {
	userID    string
	notifType notification.NotificationType
}

type NotificationRepository struct {
	mu            sync.RWMutex
	notifications map[string]*notification.Notification
	preferences   map[prefKey]*notification.NotificationPreference
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{
		notifications: make(map[string]*notification.Notification),
		preferences:   make(map[prefKey]*notification.NotificationPreference),
	}
}

func (r *NotificationRepository) Insert(ctx context.Context, notifications ...*notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range notifications {
		if n.ID == "" {
			n.ID = uuid.New().String()
		}
		if n.CreatedAt.IsZero() {
			n.CreatedAt = time.Now()
		}
		cp := *n
		r.notifications[n.ID] = &cp
	}
	return nil
}

func matchesWorkplace(n *notification.Notification, workplaceID string) bool {
	return workplaceID == "" || (n.WorkplaceID != nil && *n.WorkplaceID == workplaceID)
}

func (r *NotificationRepository) List(ctx context.Context, f notification.ListFilter) ([]*notification.Notification, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*notification.Notification, 0)
	for _, n := range r.notifications {
		if n.RecipientID != f.RecipientID || !matchesWorkplace(n, f.WorkplaceID) {
			continue
		}
		if f.UnreadOnly && n.IsRead {
			continue
		}
		cp := *n
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	if f.Offset >= total {
		return []*notification.Notification{}, total, nil
	}
	end := total
	if f.Limit > 0 && f.Offset+f.Limit < total {
		end = f.Offset + f.Limit
	}
	return matched[f.Offset:end], total, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID, workplaceID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, n := range r.notifications {
		if n.RecipientID == recipientID && !n.IsRead && matchesWorkplace(n, workplaceID) {
			count++
		}
	}
	return count, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, recipientID string, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	mark := func(n *notification.Notification) {
		if n.RecipientID == recipientID && !n.IsRead {
			n.IsRead = true
			n.ReadAt = &now
		}
	}

	if len(ids) == 0 {
		for _, n := range r.notifications {
			mark(n)
		}
		return nil
	}
	for _, id := range ids {
		if n, ok := r.notifications[id]; ok {
			mark(n)
		}
	}
	return nil
}

func (r *NotificationRepository) Delete(ctx context.Context, recipientID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notifications[id]
	if !ok || n.RecipientID != recipientID {
		return notification.ErrNotificationNotFound
	}
	delete(r.notifications, id)
	return nil
}

func (r *NotificationRepository) DeleteReadBefore(ctx context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for id, n := range r.notifications {
		if n.IsRead && n.ReadAt != nil && n.ReadAt.Before(before) {
			delete(r.notifications, id)
			removed++
		}
	}
	return removed, nil
}

func (r *NotificationRepository) Preferences(ctx context.Context, userID string) ([]*notification.NotificationPreference, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*notification.NotificationPreference, 0)
	for key, p := range r.preferences {
		if key.userID == userID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NotificationType < out[j].NotificationType })
	return out, nil
}

func (r *NotificationRepository) SavePreference(ctx context.Context, pref *notification.NotificationPreference) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := prefKey{userID: pref.UserID, notifType: pref.NotificationType}
	if existing, ok := r.preferences[key]; ok {
		existing.PushEnabled = pref.PushEnabled
		existing.UpdatedAt = pref.UpdatedAt
		return nil
	}

	cp := *pref
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}
	cp.CreatedAt = time.Now()
	r.preferences[key] = &cp
	return nil
}

func (r *NotificationRepository) PushEnabled(ctx context.Context, userID string, notifType notification.NotificationType) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.preferences[prefKey{userID: userID, notifType: notifType}]; ok {
		return p.PushEnabled, nil
	}
	return true, nil
}
