package service

import (
	"context"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/repository"
	"github.com/ikkim/storefront/internal/events"
	"github.com/ikkim/storefront/pkg/logger"
)

// NotificationService keeps the notification badge and dropdown in step
// with the server
type NotificationService interface {
	UnreadCount(ctx context.Context) (int, error)
	List(ctx context.Context) ([]model.NotificationItem, error)
	MarkRead(ctx context.Context, id int64) (int, error)
	// Pushed records a count delivered over the push channel
	Pushed(count int)
}

type notificationService struct {
	repo repository.NotificationRepository
	bus  *events.Bus
}

// NewNotificationService creates the service. Count changes are published
// as UnreadCountChanged when bus is set.
func NewNotificationService(repo repository.NotificationRepository, bus *events.Bus) NotificationService {
	return &notificationService{
		repo: repo,
		bus:  bus,
	}
}

func (s *notificationService) UnreadCount(ctx context.Context) (int, error) {
	count, err := s.repo.UnreadCount(ctx)
	if err != nil {
		return 0, err
	}
	s.publish(count)
	return count, nil
}

func (s *notificationService) List(ctx context.Context) ([]model.NotificationItem, error) {
	notifications, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]model.NotificationItem, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, model.NotificationItem{
			ID:        n.ID,
			Message:   n.Message,
			Link:      n.Link,
			Unread:    !n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}

	logger.Debug("Notifications loaded", map[string]interface{}{
		"count": len(items),
	})
	return items, nil
}

// MarkRead marks one notification read and returns the refreshed unread count
func (s *notificationService) MarkRead(ctx context.Context, id int64) (int, error) {
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return 0, err
	}

	logger.Info("Notification marked as read", map[string]interface{}{
		"notification_id": id,
	})
	return s.UnreadCount(ctx)
}

func (s *notificationService) Pushed(count int) {
	logger.Debug("Unread count pushed", map[string]interface{}{
		"count": count,
	})
	s.publish(count)
}

func (s *notificationService) publish(count int) {
	if s.bus != nil {
		s.bus.Publish(events.UnreadCountChanged, count)
	}
}
