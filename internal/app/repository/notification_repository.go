package repository

import (
	"context"

	"github.com/ikkim/storefront/pkg/logger"
	"github.com/ikkim/storefront/pkg/storefront"
)

type NotificationRepository interface {
	List(ctx context.Context) ([]storefront.Notification, error)
	UnreadCount(ctx context.Context) (int, error)
	MarkRead(ctx context.Context, id int64) error
}

type notificationRepository struct {
	client *storefront.Client
}

func NewNotificationRepository(client *storefront.Client) NotificationRepository {
	return &notificationRepository{client: client}
}

func (r *notificationRepository) List(ctx context.Context) ([]storefront.Notification, error) {
	items, err := r.client.ListNotifications(ctx)
	if err != nil {
		logger.Error("Failed to list notifications", err, nil)
		return nil, err
	}
	return items, nil
}

func (r *notificationRepository) UnreadCount(ctx context.Context) (int, error) {
	count, err := r.client.UnreadNotifications(ctx)
	if err != nil {
		logger.Error("Failed to fetch unread notification count", err, nil)
		return 0, err
	}
	return count, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id int64) error {
	if err := r.client.MarkNotificationRead(ctx, id); err != nil {
		logger.Error("Failed to mark notification as read", err, map[string]interface{}{
			"notification_id": id,
		})
		return err
	}
	return nil
}
