package controller

import (
	"context"
	"sync"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/service"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/ikkim/storefront/internal/ui"
)

// ReviewController holds the product review form and the order rating form
type ReviewController struct {
	reviewService *service.ReviewService
	notices       *ui.NoticeBoard

	mu         sync.Mutex
	submitting bool
	rated      map[int64]bool
}

func NewReviewController(reviewService *service.ReviewService, notices *ui.NoticeBoard) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
		notices:       notices,
		rated:         make(map[int64]bool),
	}
}

func (ctrl *ReviewController) begin() bool {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	if ctrl.submitting {
		return false
	}
	ctrl.submitting = true
	return true
}

func (ctrl *ReviewController) end() {
	ctrl.mu.Lock()
	ctrl.submitting = false
	ctrl.mu.Unlock()
}

// Submit posts one product review
func (ctrl *ReviewController) Submit(ctx context.Context, in model.ReviewInput) error {
	if !ctrl.begin() {
		return apperrors.ErrControlBusy
	}
	defer ctrl.end()

	msg, err := ctrl.reviewService.Submit(ctx, in)
	if err != nil {
		ctrl.notices.Error(err, service.MsgReviewFailed)
		return err
	}
	ctrl.notices.Success(msg)
	return nil
}

// RateOrder posts the ratings of an order's items
func (ctrl *ReviewController) RateOrder(ctx context.Context, orderID int64, items []model.OrderRatingItem) error {
	if !ctrl.begin() {
		return apperrors.ErrControlBusy
	}
	defer ctrl.end()

	rated, err := ctrl.reviewService.RateOrder(ctx, orderID, items)
	if err != nil {
		ctrl.notices.Error(err, service.MsgReviewsFailed)
		return err
	}

	ctrl.mu.Lock()
	for _, id := range rated {
		ctrl.rated[id] = true
	}
	ctrl.mu.Unlock()
	ctrl.notices.Success(service.MsgReviewsThanks)
	return nil
}

// Rated reports whether a product was rated in this session
func (ctrl *ReviewController) Rated(productID int64) bool {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	return ctrl.rated[productID]
}
