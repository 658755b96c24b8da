package repository

import (
	"context"

	"github.com/ikkim/storefront/pkg/logger"
	"github.com/ikkim/storefront/pkg/storefront"
)

type ReviewRepository interface {
	Submit(ctx context.Context, productID int64, req storefront.ReviewRequest) error
	RateOrder(ctx context.Context, orderID int64, req storefront.BatchRatingRequest) error
}

type reviewRepository struct {
	client *storefront.Client
}

func NewReviewRepository(client *storefront.Client) ReviewRepository {
	return &reviewRepository{client: client}
}

func (r *reviewRepository) Submit(ctx context.Context, productID int64, req storefront.ReviewRequest) error {
	if err := r.client.SubmitReview(ctx, productID, req); err != nil {
		logger.Error("Failed to submit review", err, map[string]interface{}{
			"product_id": productID,
			"rating":     req.Rating,
		})
		return err
	}
	return nil
}

func (r *reviewRepository) RateOrder(ctx context.Context, orderID int64, req storefront.BatchRatingRequest) error {
	if err := r.client.RateOrder(ctx, orderID, req); err != nil {
		logger.Error("Failed to submit order ratings", err, map[string]interface{}{
			"order_id": orderID,
			"count":    len(req.Ratings),
		})
		return err
	}
	return nil
}
