package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/sse"
	"github.com/google/uuid"
)

// Config holds notification service configuration
type Config struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 5 seconds
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
}

type service struct {
	repo   notification.Repository
	hub    *sse.Hub
	config Config
	log    *slog.Logger

	queue    chan notification.CreateNotificationRequest
	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewNotificationService creates a new notification service with background workers
func NewNotificationService(repo notification.Repository, hub *sse.Hub, cfg Config, logger *slog.Logger) notification.Service {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &service{
		repo:   repo,
		hub:    hub,
		config: cfg,
		log:    logger.With("component", "notification"),
		queue:  make(chan notification.CreateNotificationRequest, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.log.Info("notification workers started",
		"workers", cfg.WorkerCount,
		"batch_size", cfg.BatchSize,
		"flush_interval", cfg.FlushInterval)

	return s
}

// worker drains the queue, inserting in batches and pushing each stored
// notification to the recipient's open streams.
func (s *service) worker(id int) {
	defer s.wg.Done()

	batch := make([]notification.CreateNotificationRequest, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		notifications := make([]*notification.Notification, len(batch))
		for i, req := range batch {
			notifications[i] = newNotification(req)
		}

		if err := s.repo.Insert(ctx, notifications...); err != nil {
			s.log.Error("batch insert failed", "worker", id, "count", len(notifications), "error", err)
		} else {
			s.log.Debug("notifications stored", "worker", id, "count", len(notifications))
			for _, n := range notifications {
				s.push(n)
			}
		}

		batch = batch[:0]
	}

	for {
		select {
		case req := <-s.queue:
			batch = append(batch, req)
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stopCh:
			for {
				select {
				case req := <-s.queue:
					batch = append(batch, req)
				default:
					flush()
					return
				}
			}
		}
	}
}

// Notify validates req and hands it to the workers. Types the recipient
// switched off are dropped.
func (s *service) Notify(ctx context.Context, req notification.CreateNotificationRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	enabled, err := s.repo.PushEnabled(ctx, req.RecipientID, req.Type)
	if err != nil {
		return fmt.Errorf("failed to read notification preference: %w", err)
	}
	if !enabled {
		return nil
	}

	select {
	case s.queue <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		// Queue full, store synchronously
		return s.insertNow(ctx, req)
	}
}

// NotifyMany queues every request and reports the failures joined together.
func (s *service) NotifyMany(ctx context.Context, reqs []notification.CreateNotificationRequest) error {
	var errs []error
	for _, req := range reqs {
		if err := s.Notify(ctx, req); err != nil {
			s.log.Warn("failed to queue notification", "recipient_id", req.RecipientID, "type", req.Type, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", req.RecipientID, err))
		}
	}
	return errors.Join(errs...)
}

func (s *service) insertNow(ctx context.Context, req notification.CreateNotificationRequest) error {
	n := newNotification(req)
	if err := s.repo.Insert(ctx, n); err != nil {
		return err
	}
	s.push(n)
	return nil
}

func (s *service) push(n *notification.Notification) {
	if s.hub.SubscriberCount(n.RecipientID) == 0 {
		return
	}
	event := sse.EventNotification
	if n.Type == notification.TypeShiftAlarm {
		event = sse.EventShiftAlarm
	}
	s.hub.Publish(n.RecipientID, sse.Event{
		UserID: n.RecipientID,
		Event:  event,
		Data:   toResponse(n),
	})
}

func newNotification(req notification.CreateNotificationRequest) *notification.Notification {
	return &notification.Notification{
		ID:          uuid.New().String(),
		WorkplaceID: req.WorkplaceID,
		RecipientID: req.RecipientID,
		SenderID:    req.SenderID,
		Type:        req.Type,
		Title:       req.Title,
		Message:     req.Message,
		Data:        req.Data,
		CreatedAt:   time.Now(),
	}
}

func toResponse(n *notification.Notification) notification.NotificationResponse {
	return notification.NotificationResponse{
		ID:          n.ID,
		WorkplaceID: n.WorkplaceID,
		Type:        n.Type,
		Title:       n.Title,
		Message:     n.Message,
		Data:        n.Data,
		IsRead:      n.IsRead,
		ReadAt:      n.ReadAt,
		CreatedAt:   n.CreatedAt,
	}
}

// List pages through a recipient's notifications, optionally within one workplace.
func (s *service) List(ctx context.Context, recipientID string, query notification.ListQuery) (*notification.NotificationListResponse, error) {
	query = query.Normalize()

	notifications, total, err := s.repo.List(ctx, notification.ListFilter{
		RecipientID: recipientID,
		WorkplaceID: query.WorkplaceID,
		UnreadOnly:  query.UnreadOnly,
		Limit:       query.PageSize,
		Offset:      (query.Page - 1) * query.PageSize,
	})
	if err != nil {
		return nil, err
	}

	unread, err := s.repo.CountUnread(ctx, recipientID, query.WorkplaceID)
	if err != nil {
		return nil, err
	}

	responses := make([]notification.NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = toResponse(n)
	}

	return &notification.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		UnreadCount:   unread,
		Page:          query.Page,
		PageSize:      query.PageSize,
	}, nil
}

func (s *service) UnreadCount(ctx context.Context, recipientID, workplaceID string) (int, error) {
	return s.repo.CountUnread(ctx, recipientID, workplaceID)
}

func (s *service) MarkRead(ctx context.Context, recipientID string, req notification.MarkAsReadRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return s.repo.MarkRead(ctx, recipientID, req.NotificationIDs)
}

func (s *service) MarkAllRead(ctx context.Context, recipientID string) error {
	return s.repo.MarkRead(ctx, recipientID, nil)
}

func (s *service) Delete(ctx context.Context, recipientID, id string) error {
	return s.repo.Delete(ctx, recipientID, id)
}

// PurgeRead removes notifications read more than olderThan ago.
func (s *service) PurgeRead(ctx context.Context, olderThan time.Duration) (int64, error) {
	removed, err := s.repo.DeleteReadBefore(ctx, time.Now().Add(-olderThan))
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.log.Info("read notifications purged", "count", removed, "older_than", olderThan)
	}
	return removed, nil
}

// Preferences lists every notification type; types without a stored
// preference default to enabled.
func (s *service) Preferences(ctx context.Context, userID string) ([]notification.PreferenceResponse, error) {
	stored, err := s.repo.Preferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	enabled := make(map[notification.NotificationType]bool, len(stored))
	for _, p := range stored {
		enabled[p.NotificationType] = p.PushEnabled
	}

	types := notification.AllNotificationTypes()
	responses := make([]notification.PreferenceResponse, len(types))
	for i, t := range types {
		on, ok := enabled[t]
		responses[i] = notification.PreferenceResponse{NotificationType: t, PushEnabled: on || !ok}
	}
	return responses, nil
}

func (s *service) SetPreference(ctx context.Context, userID string, req notification.UpdatePreferenceRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return s.repo.SavePreference(ctx, &notification.NotificationPreference{
		UserID:           userID,
		NotificationType: req.NotificationType,
		PushEnabled:      req.PushEnabled,
		UpdatedAt:        time.Now(),
	})
}

// Subscribe creates an SSE subscription for a user
func (s *service) Subscribe(ctx context.Context, userID string) (<-chan notification.SSEEvent, func()) {
	ch, cleanup := s.hub.Subscribe(userID)

	out := make(chan notification.SSEEvent, 10)

	go func() {
		defer close(out)
		for {
			select {
			case event, ok := <-ch:
				if !ok {
					return
				}
				resp, ok := event.Data.(notification.NotificationResponse)
				if !ok {
					continue
				}
				select {
				case out <- notification.SSEEvent{Event: event.Event, Data: resp}:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cleanup
}

// Stop flushes queued notifications and waits for the workers to exit.
func (s *service) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		s.wg.Wait()
		s.log.Info("notification workers stopped", "dropped_events", s.hub.Dropped())
	})
}
