package notification

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, repo notification.Repository, hub *sse.Hub) notification.Service {
	t.Helper()
	svc := NewNotificationService(repo, hub, Config{
		BatchSize:     10,
		FlushInterval: 10 * time.Millisecond,
		WorkerCount:   1,
		QueueSize:     16,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(svc.Stop)
	return svc
}

func strPtr(s string) *string { return &s }

func TestNotificationService_NotifyStoresAndPushes(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewNotificationRepository()
	hub := sse.NewHub(4)
	svc := newTestService(t, repo, hub)

	events, cleanup := svc.Subscribe(ctx, "worker-1")
	defer cleanup()

	wp := "workplace-1"
	err := svc.Notify(ctx, notification.CreateNotificationRequest{
		WorkplaceID: &wp,
		RecipientID: "worker-1",
		Type:        notification.TypeShiftAlarm,
		Title:       "Shift starts soon",
		Message:     "Your shift starts in 30 minutes",
	})
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, sse.EventShiftAlarm, ev.Event)
		assert.Equal(t, "Shift starts soon", ev.Data.Title)
		assert.Equal(t, &wp, ev.Data.WorkplaceID)
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not pushed")
	}

	list, err := svc.List(ctx, "worker-1", notification.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, 1, list.UnreadCount)
	assert.Equal(t, 1, list.Page)
	assert.Equal(t, 20, list.PageSize)
}

func TestNotificationService_NotifyValidates(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, memory.NewNotificationRepository(), sse.NewHub(1))

	tests := []struct {
		name string
		req  notification.CreateNotificationRequest
		want error
	}{
		{"no recipient", notification.CreateNotificationRequest{Type: notification.TypeShiftAlarm, Title: "x"}, notification.ErrRecipientRequired},
		{"unknown type", notification.CreateNotificationRequest{RecipientID: "w", Type: "payday", Title: "x"}, notification.ErrInvalidNotificationType},
		{"no title", notification.CreateNotificationRequest{RecipientID: "w", Type: notification.TypeShiftAlarm}, notification.ErrTitleRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, svc.Notify(ctx, tt.req), tt.want)
		})
	}

	err := svc.NotifyMany(ctx, []notification.CreateNotificationRequest{
		{RecipientID: "worker-1", Type: notification.TypeShiftAssigned, Title: "ok"},
		{Type: notification.TypeShiftAssigned, Title: "missing recipient"},
	})
	assert.ErrorIs(t, err, notification.ErrRecipientRequired)
}

func TestNotificationService_DisabledTypeIsSkipped(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewNotificationRepository()
	svc := newTestService(t, repo, sse.NewHub(1))

	require.NoError(t, svc.SetPreference(ctx, "worker-1", notification.UpdatePreferenceRequest{
		NotificationType: notification.TypeShiftAssigned,
		PushEnabled:      false,
	}))

	require.NoError(t, svc.Notify(ctx, notification.CreateNotificationRequest{
		RecipientID: "worker-1",
		Type:        notification.TypeShiftAssigned,
		Title:       "New shift",
	}))
	svc.Stop()

	count, err := svc.UnreadCount(ctx, "worker-1", "")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestNotificationService_StopFlushesQueue(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewNotificationRepository()
	svc := NewNotificationService(repo, sse.NewHub(1), Config{
		BatchSize:     100,
		FlushInterval: time.Hour,
		WorkerCount:   1,
	}, nil)

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Notify(ctx, notification.CreateNotificationRequest{
			RecipientID: "worker-1",
			Type:        notification.TypeShiftUpdated,
			Title:       "Shift changed",
		}))
	}
	svc.Stop()

	count, err := repo.CountUnread(ctx, "worker-1", "")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestNotificationService_ListByWorkplace(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewNotificationRepository()
	svc := newTestService(t, repo, sse.NewHub(1))

	base := time.Date(2025, 10, 13, 9, 0, 0, 0, time.UTC)
	for i, wp := range []string{"cafe", "bar", "cafe"} {
		require.NoError(t, repo.Insert(ctx, &notification.Notification{
			WorkplaceID: strPtr(wp),
			RecipientID: "worker-1",
			Type:        notification.TypeShiftAssigned,
			Title:       wp,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}))
	}

	list, err := svc.List(ctx, "worker-1", notification.ListQuery{WorkplaceID: "cafe", PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, list.Total)
	assert.Equal(t, 2, list.UnreadCount)
	require.Len(t, list.Notifications, 1)

	second, err := svc.List(ctx, "worker-1", notification.ListQuery{WorkplaceID: "cafe", Page: 2, PageSize: 1})
	require.NoError(t, err)
	require.Len(t, second.Notifications, 1)
	assert.True(t, second.Notifications[0].CreatedAt.Before(list.Notifications[0].CreatedAt))

	count, err := svc.UnreadCount(ctx, "worker-1", "bar")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNotificationService_Preferences(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, memory.NewNotificationRepository(), sse.NewHub(1))

	err := svc.SetPreference(ctx, "worker-1", notification.UpdatePreferenceRequest{NotificationType: "payday"})
	assert.ErrorIs(t, err, notification.ErrInvalidNotificationType)

	require.NoError(t, svc.SetPreference(ctx, "worker-1", notification.UpdatePreferenceRequest{
		NotificationType: notification.TypeShiftAlarm,
		PushEnabled:      false,
	}))

	prefs, err := svc.Preferences(ctx, "worker-1")
	require.NoError(t, err)
	require.Len(t, prefs, len(notification.AllNotificationTypes()))
	for _, p := range prefs {
		assert.Equal(t, p.NotificationType != notification.TypeShiftAlarm, p.PushEnabled, p.NotificationType)
	}
}

func TestNotificationService_MarkReadAndPurge(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewNotificationRepository()
	svc := newTestService(t, repo, sse.NewHub(1))

	first := &notification.Notification{RecipientID: "worker-1", Type: notification.TypeShiftAssigned, Title: "New shift"}
	second := &notification.Notification{RecipientID: "worker-1", Type: notification.TypeShiftUpdated, Title: "Changed"}
	require.NoError(t, repo.Insert(ctx, first, second))

	err := svc.MarkRead(ctx, "worker-1", notification.MarkAsReadRequest{})
	require.Error(t, err)

	require.NoError(t, svc.MarkRead(ctx, "worker-1", notification.MarkAsReadRequest{NotificationIDs: []string{first.ID}}))
	count, err := svc.UnreadCount(ctx, "worker-1", "")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	removed, err := svc.PurgeRead(ctx, time.Hour)
	require.NoError(t, err)
	assert.Zero(t, removed)

	require.NoError(t, svc.MarkAllRead(ctx, "worker-1"))
	removed, err = svc.PurgeRead(ctx, -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	assert.ErrorIs(t, svc.Delete(ctx, "worker-1", first.ID), notification.ErrNotificationNotFound)
}
