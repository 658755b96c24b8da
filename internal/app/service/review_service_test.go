package service

import (
	"context"
	"testing"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/repository"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/ikkim/storefront/internal/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupReviewServiceTest(t *testing.T) (*ReviewService, *router.TestServer) {
	srv, client := setupTestServer(t)
	return NewReviewService(repository.NewReviewRepository(client)), srv
}

func TestReviewService_Submit(t *testing.T) {
	reviewService, srv := setupReviewServiceTest(t)

	msg, err := reviewService.Submit(context.Background(), model.ReviewInput{
		ProductID: 3,
		Rating:    4,
		Comment:   "  Vải đẹp  ",
	})
	require.NoError(t, err)
	assert.Equal(t, MsgReviewThanks, msg)

	reviews := srv.Store.Reviews()
	require.Len(t, reviews, 1)
	assert.Equal(t, 4, reviews[0].Rating)
	assert.Equal(t, "Vải đẹp", reviews[0].Comment)
}

func TestReviewService_Submit_RatingChecks(t *testing.T) {
	tests := []struct {
		name    string
		rating  int
		message string
	}{
		{"no rating", 0, MsgSelectRating},
		{"above range", 6, "Rating must be between 1 and 5"},
		{"below range", -1, "Rating must be between 1 and 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reviewService, srv := setupReviewServiceTest(t)

			_, err := reviewService.Submit(context.Background(), model.ReviewInput{ProductID: 1, Rating: tt.rating})
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Equal(t, tt.message, err.Error())
			assert.Empty(t, srv.Store.Reviews())
		})
	}
}

func TestReviewService_Submit_UnknownProduct(t *testing.T) {
	reviewService, _ := setupReviewServiceTest(t)

	_, err := reviewService.Submit(context.Background(), model.ReviewInput{ProductID: 404, Rating: 5})
	require.Error(t, err)
	assert.Equal(t, "Product not found", apperrors.UserMessage(err, MsgReviewFailed).Message)
}

func TestReviewService_RateOrder_SkipsUnrated(t *testing.T) {
	reviewService, srv := setupReviewServiceTest(t)

	rated, err := reviewService.RateOrder(context.Background(), 1001, []model.OrderRatingItem{
		{ProductID: 1, Rating: 5, Review: "Tuyệt vời"},
		{ProductID: 2, Rating: 0},
		{ProductID: 3, Rating: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, rated)
	assert.Len(t, srv.Store.Reviews(), 2)
}

func TestReviewService_RateOrder_NothingRated(t *testing.T) {
	reviewService, srv := setupReviewServiceTest(t)

	_, err := reviewService.RateOrder(context.Background(), 1001, []model.OrderRatingItem{
		{ProductID: 1},
		{ProductID: 2},
	})
	require.Error(t, err)
	assert.Equal(t, MsgRateOne, err.Error())
	assert.Empty(t, srv.Store.Reviews())
}
