package service

import (
	"context"
	"strings"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/repository"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/ikkim/storefront/pkg/logger"
	"github.com/ikkim/storefront/pkg/storefront"
)

const (
	MsgReviewThanks  = "Thank you for your review!"
	MsgReviewsThanks = "Thank you for your reviews!"
	MsgSelectRating  = "Please select a rating"
	MsgRateOne       = "Please rate at least one product"
	MsgReviewFailed  = "Failed to submit review. Please try again."
	MsgReviewsFailed = "Failed to submit reviews. Please try again."

	msgRatingOutOfRange = "Rating must be between 1 and 5"
)

type ReviewService struct {
	reviewRepo repository.ReviewRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo}
}

// Submit posts a single product review
func (s *ReviewService) Submit(ctx context.Context, in model.ReviewInput) (string, error) {
	if err := checkRating(in.Rating); err != nil {
		return "", err
	}

	err := s.reviewRepo.Submit(ctx, in.ProductID, storefront.ReviewRequest{
		Rating:  in.Rating,
		Comment: strings.TrimSpace(in.Comment),
		OrderID: in.OrderID,
	})
	if err != nil {
		return "", err
	}

	logger.Info("Review submitted", map[string]interface{}{
		"product_id": in.ProductID,
		"rating":     in.Rating,
	})
	return MsgReviewThanks, nil
}

// RateOrder posts every rated item of an order; unrated items are skipped.
// It returns the product ids that were rated.
func (s *ReviewService) RateOrder(ctx context.Context, orderID int64, items []model.OrderRatingItem) ([]int64, error) {
	var req storefront.BatchRatingRequest
	var rated []int64
	for _, item := range items {
		if item.Rating == 0 {
			continue
		}
		if err := checkRating(item.Rating); err != nil {
			return nil, err
		}
		req.Ratings = append(req.Ratings, storefront.ProductRating{
			ProductID: item.ProductID,
			Rating:    item.Rating,
			Review:    strings.TrimSpace(item.Review),
		})
		rated = append(rated, item.ProductID)
	}
	if len(req.Ratings) == 0 {
		return nil, apperrors.Required("ratings", MsgRateOne)
	}

	if err := s.reviewRepo.RateOrder(ctx, orderID, req); err != nil {
		return nil, err
	}

	logger.Info("Order rated", map[string]interface{}{
		"order_id": orderID,
		"rated":    len(rated),
		"skipped":  len(items) - len(rated),
	})
	return rated, nil
}

func checkRating(rating int) error {
	if rating == 0 {
		return apperrors.Required("rating", MsgSelectRating)
	}
	if rating < model.MinRating || rating > model.MaxRating {
		return apperrors.Validation("rating", apperrors.ValidationInvalidRange, msgRatingOutOfRange)
	}
	return nil
}
