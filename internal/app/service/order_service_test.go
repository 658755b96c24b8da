package service

import (
	"context"
	"testing"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/repository"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/ikkim/storefront/internal/fakestore"
	"github.com/ikkim/storefront/internal/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupOrderServiceTest(t *testing.T) (OrderService, *router.TestServer, int64) {
	srv, client := setupTestServer(t)
	orderID := srv.Store.PutOrder(fakestore.Order{PaymentMethod: "cod"})
	return NewOrderService(repository.NewOrderRepository(client)), srv, orderID
}

func findOrder(t *testing.T, srv *router.TestServer, id int64) fakestore.Order {
	for _, o := range srv.Store.Orders() {
		if o.ID == id {
			return o
		}
	}
	t.Fatalf("order %d not found", id)
	return fakestore.Order{}
}

func TestOrderService_RequestCancel_DefaultReason(t *testing.T) {
	orderService, srv, orderID := setupOrderServiceTest(t)

	msg, err := orderService.RequestCancel(context.Background(), orderID, "   ")
	require.NoError(t, err)
	assert.Equal(t, MsgCancelRequested, msg)

	order := findOrder(t, srv, orderID)
	assert.Equal(t, "cancel_requested", order.Status)
	assert.Equal(t, model.CancelReason, order.CancelReason)
}

func TestOrderService_RequestCancel_WithReason(t *testing.T) {
	orderService, srv, orderID := setupOrderServiceTest(t)

	_, err := orderService.RequestCancel(context.Background(), orderID, "Ordered the wrong size")
	require.NoError(t, err)
	assert.Equal(t, "Ordered the wrong size", findOrder(t, srv, orderID).CancelReason)
}

func TestOrderService_RequestCancel_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		orderID func(int64) int64
		message string
	}{
		{"delivered order", func(int64) int64 { return 1001 }, "Delivered orders cannot be cancelled"},
		{"unknown order", func(int64) int64 { return 9999 }, "Order not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orderService, _, orderID := setupOrderServiceTest(t)

			_, err := orderService.RequestCancel(context.Background(), tt.orderID(orderID), "")
			require.Error(t, err)
			assert.Equal(t, tt.message, apperrors.UserMessage(err, MsgCancelFailed).Message)
		})
	}
}

func TestOrderService_RequestCancel_Twice(t *testing.T) {
	orderService, _, orderID := setupOrderServiceTest(t)

	_, err := orderService.RequestCancel(context.Background(), orderID, "")
	require.NoError(t, err)

	_, err = orderService.RequestCancel(context.Background(), orderID, "")
	require.Error(t, err)
	assert.Equal(t, "Cancellation has already been requested", apperrors.UserMessage(err, MsgCancelFailed).Message)
}

func TestOrderService_RequestCancel_InvalidID(t *testing.T) {
	orderService, _, _ := setupOrderServiceTest(t)

	_, err := orderService.RequestCancel(context.Background(), 0, "")
	assert.ErrorIs(t, err, ErrInvalidOrderID)
}
