package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/kelasku/kelasku-backend/internal/apperror"
	"github.com/kelasku/kelasku-backend/internal/model"
	"github.com/kelasku/kelasku-backend/pkg/feed"
)

// NotificationService handles reading and acknowledging notifications.
// Creation happens in the fan-out worker.
type NotificationService struct {
	notifications NotificationStore
	publisher     EventPublisher
	limit         int
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notifications NotificationStore, publisher EventPublisher, limit int) *NotificationService {
	return &NotificationService{notifications: notifications, publisher: publisher, limit: limit}
}

// ListByUser retrieves the user's most recent notifications.
func (s *NotificationService) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Notification, error) {
	notifications, err := s.notifications.ListByUser(ctx, userID, s.limit)
	if err != nil {
		return nil, apperror.Classify(err)
	}
	return notifications, nil
}

// MarkRead flags one notification as read and publishes the update so other
// open sessions of the same user converge.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) (*model.Notification, error) {
	n, err := s.notifications.MarkRead(ctx, id, userID)
	if err != nil {
		return nil, apperror.Classify(err)
	}
	s.publisher.PublishUpdate(ctx, feed.TableNotifications, feed.NotificationScope(userID.String()), n)
	return n, nil
}

// MarkAllRead flags all unread notifications as read. Consumers re-fetch
// rather than patching locally, so no per-row events are published.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.notifications.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, apperror.Classify(err)
	}
	return count, nil
}
