package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const notificationColumns = `id, workplace_id, recipient_id, sender_id, type, title, message, data, is_read, read_at, created_at`

type notificationRepository struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) notification.Repository {
	return &notificationRepository{db: db}
}

// Insert writes all notifications with one multi-row statement.
func (r *notificationRepository) Insert(ctx context.Context, notifications ...*notification.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	const cols = 9
	placeholders := make([]string, 0, len(notifications))
	args := make([]any, 0, len(notifications)*cols)

	for i, n := range notifications {
		if n.ID == "" {
			n.ID = uuid.New().String()
		}
		if n.CreatedAt.IsZero() {
			n.CreatedAt = time.Now()
		}

		data, err := json.Marshal(n.Data)
		if err != nil {
			return fmt.Errorf("failed to marshal notification data: %w", err)
		}

		row := make([]string, cols)
		for c := range row {
			row[c] = fmt.Sprintf("$%d", i*cols+c+1)
		}
		placeholders = append(placeholders, "("+strings.Join(row, ", ")+")")
		args = append(args,
			n.ID, n.WorkplaceID, n.RecipientID, n.SenderID, string(n.Type),
			n.Title, n.Message, data, n.CreatedAt,
		)
	}

	query := `INSERT INTO notifications (id, workplace_id, recipient_id, sender_id, type, title, message, data, created_at) VALUES ` +
		strings.Join(placeholders, ", ")

	if _, err := GetQuerier(ctx, r.db).Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert notifications: %w", err)
	}
	return nil
}

// recipientClause scopes a query to one recipient and, optionally, one workplace.
func recipientClause(recipientID, workplaceID string, unreadOnly bool) (string, []any) {
	clauses := []string{"recipient_id = $1"}
	args := []any{recipientID}

	if workplaceID != "" {
		args = append(args, workplaceID)
		clauses = append(clauses, fmt.Sprintf("workplace_id = $%d", len(args)))
	}
	if unreadOnly {
		clauses = append(clauses, "is_read = false")
	}
	return strings.Join(clauses, " AND "), args
}

func (r *notificationRepository) List(ctx context.Context, f notification.ListFilter) ([]*notification.Notification, int, error) {
	q := GetQuerier(ctx, r.db)
	where, args := recipientClause(f.RecipientID, f.WorkplaceID, f.UnreadOnly)

	var total int
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM notifications WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM notifications
		WHERE %s
		ORDER BY created_at DESC, id
		OFFSET $%d
	`, notificationColumns, where, len(args)+1)
	args = append(args, f.Offset)
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, f.Limit)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]*notification.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, err
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate notifications: %w", err)
	}

	return notifications, total, nil
}

func scanNotification(row pgx.Row) (*notification.Notification, error) {
	var (
		n         notification.Notification
		data      []byte
		notifType string
	)

	if err := row.Scan(
		&n.ID, &n.WorkplaceID, &n.RecipientID, &n.SenderID, &notifType,
		&n.Title, &n.Message, &data, &n.IsRead, &n.ReadAt, &n.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to scan notification: %w", err)
	}

	n.Type = notification.NotificationType(notifType)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &n.Data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal notification data: %w", err)
		}
	}
	return &n, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID, workplaceID string) (int, error) {
	where, args := recipientClause(recipientID, workplaceID, true)

	var count int
	if err := GetQuerier(ctx, r.db).QueryRow(ctx, "SELECT COUNT(*) FROM notifications WHERE "+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, recipientID string, ids []string) error {
	query := `
		UPDATE notifications
		SET is_read = true, read_at = $1
		WHERE recipient_id = $2 AND is_read = false
	`
	args := []any{time.Now(), recipientID}
	if len(ids) > 0 {
		query += " AND id = ANY($3)"
		args = append(args, ids)
	}

	if _, err := GetQuerier(ctx, r.db).Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to mark notifications as read: %w", err)
	}
	return nil
}

func (r *notificationRepository) Delete(ctx context.Context, recipientID, id string) error {
	result, err := GetQuerier(ctx, r.db).Exec(ctx, `DELETE FROM notifications WHERE id = $1 AND recipient_id = $2`, id, recipientID)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if result.RowsAffected() == 0 {
		return notification.ErrNotificationNotFound
	}
	return nil
}

func (r *notificationRepository) DeleteReadBefore(ctx context.Context, before time.Time) (int64, error) {
	result, err := GetQuerier(ctx, r.db).Exec(ctx, `DELETE FROM notifications WHERE is_read = true AND read_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to purge read notifications: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *notificationRepository) Preferences(ctx context.Context, userID string) ([]*notification.NotificationPreference, error) {
	rows, err := GetQuerier(ctx, r.db).Query(ctx, `
		SELECT id, user_id, notification_type, push_enabled, created_at, updated_at
		FROM notification_preferences
		WHERE user_id = $1
		ORDER BY notification_type
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}
	defer rows.Close()

	prefs := make([]*notification.NotificationPreference, 0)
	for rows.Next() {
		var (
			p         notification.NotificationPreference
			notifType string
		)
		if err := rows.Scan(&p.ID, &p.UserID, &notifType, &p.PushEnabled, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		p.NotificationType = notification.NotificationType(notifType)
		prefs = append(prefs, &p)
	}
	return prefs, rows.Err()
}

func (r *notificationRepository) SavePreference(ctx context.Context, pref *notification.NotificationPreference) error {
	if pref.ID == "" {
		pref.ID = uuid.New().String()
	}
	if pref.UpdatedAt.IsZero() {
		pref.UpdatedAt = time.Now()
	}

	_, err := GetQuerier(ctx, r.db).Exec(ctx, `
		INSERT INTO notification_preferences (id, user_id, notification_type, push_enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (user_id, notification_type)
		DO UPDATE SET push_enabled = EXCLUDED.push_enabled, updated_at = EXCLUDED.updated_at
	`, pref.ID, pref.UserID, string(pref.NotificationType), pref.PushEnabled, pref.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save preference: %w", err)
	}
	return nil
}

func (r *notificationRepository) PushEnabled(ctx context.Context, userID string, notifType notification.NotificationType) (bool, error) {
	var enabled bool
	err := GetQuerier(ctx, r.db).QueryRow(ctx, `
		SELECT push_enabled
		FROM notification_preferences
		WHERE user_id = $1 AND notification_type = $2
	`, userID, string(notifType)).Scan(&enabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return true, nil
		}
		return false, fmt.Errorf("failed to read preference: %w", err)
	}
	return enabled, nil
}
