package repository

import (
	"context"

	"github.com/ikkim/storefront/pkg/logger"
	"github.com/ikkim/storefront/pkg/storefront"
)

// OrderRepository covers the order actions a shopper can take after checkout
type OrderRepository interface {
	RequestCancel(ctx context.Context, orderID int64, reason string) (*storefront.SuccessResponse, error)
}

type orderRepository struct {
	client *storefront.Client
}

func NewOrderRepository(client *storefront.Client) OrderRepository {
	return &orderRepository{client: client}
}

func (r *orderRepository) RequestCancel(ctx context.Context, orderID int64, reason string) (*storefront.SuccessResponse, error) {
	logger.Debug("Requesting order cancellation", map[string]interface{}{
		"order_id": orderID,
	})

	resp, err := r.client.RequestCancel(ctx, orderID, reason)
	if err != nil {
		logger.Error("Order cancellation request failed", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}
	return resp, nil
}
