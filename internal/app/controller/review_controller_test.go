package controller

import (
	"context"
	"testing"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/repository"
	"github.com/ikkim/storefront/internal/app/service"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/ikkim/storefront/internal/fakestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupReviewControllerTest(t *testing.T) (*ReviewController, *testPage) {
	page := setupPage(t)
	svc := service.NewReviewService(repository.NewReviewRepository(page.client))
	return NewReviewController(svc, page.notices), page
}

func TestReviewController_Submit(t *testing.T) {
	ctrl, page := setupReviewControllerTest(t)

	err := ctrl.Submit(context.Background(), model.ReviewInput{ProductID: 2, Rating: 5, Comment: "  vải mát  "})
	require.NoError(t, err)

	assert.Equal(t, service.MsgReviewThanks, page.lastNotice(t).Message)
	reviews := page.srv.Store.Reviews()
	require.Len(t, reviews, 1)
	assert.Equal(t, "vải mát", reviews[0].Comment)
}

func TestReviewController_Submit_RatingRequired(t *testing.T) {
	ctrl, page := setupReviewControllerTest(t)

	err := ctrl.Submit(context.Background(), model.ReviewInput{ProductID: 2})
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, service.MsgSelectRating, page.lastNotice(t).Message)
	assert.Empty(t, page.srv.Store.Reviews())
}

func TestReviewController_Submit_WhileSubmitting(t *testing.T) {
	ctrl, _ := setupReviewControllerTest(t)
	ctrl.submitting = true

	err := ctrl.Submit(context.Background(), model.ReviewInput{ProductID: 2, Rating: 4})
	assert.ErrorIs(t, err, apperrors.ErrControlBusy)
}

func TestReviewController_RateOrder(t *testing.T) {
	ctrl, page := setupReviewControllerTest(t)
	orderID := page.srv.Store.PutOrder(fakestore.Order{Status: "delivered"})

	err := ctrl.RateOrder(context.Background(), orderID, []model.OrderRatingItem{
		{ProductID: 1, Rating: 5, Review: "đẹp"},
		{ProductID: 3},
	})
	require.NoError(t, err)

	assert.Equal(t, service.MsgReviewsThanks, page.lastNotice(t).Message)
	assert.True(t, ctrl.Rated(1))
	assert.False(t, ctrl.Rated(3), "unrated items are skipped")
	assert.Len(t, page.srv.Store.Reviews(), 1)
}

func TestReviewController_RateOrder_NothingRated(t *testing.T) {
	ctrl, page := setupReviewControllerTest(t)

	err := ctrl.RateOrder(context.Background(), 1001, []model.OrderRatingItem{{ProductID: 1}})
	require.Error(t, err)
	assert.Equal(t, service.MsgRateOne, page.lastNotice(t).Message)
}

func TestReviewController_RateOrder_UnknownOrder(t *testing.T) {
	ctrl, page := setupReviewControllerTest(t)

	err := ctrl.RateOrder(context.Background(), 424242, []model.OrderRatingItem{{ProductID: 1, Rating: 3}})
	require.Error(t, err)
	assert.Equal(t, "Order not found", page.lastNotice(t).Message)
	assert.False(t, ctrl.Rated(1))
}
