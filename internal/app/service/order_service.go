package service

import (
	"context"
	"strings"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/repository"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/ikkim/storefront/pkg/logger"
)

const (
	MsgCancelRequested = "Đã gửi yêu cầu hủy, chờ admin xác nhận."
	MsgCancelFailed    = "Không thể gửi yêu cầu. Vui lòng thử lại."
)

var ErrInvalidOrderID = apperrors.Validation("order_id", apperrors.ValidationInvalidInput, "Invalid order")

type OrderService interface {
	// RequestCancel asks the store to cancel orderID. A blank reason is
	// replaced with the default one.
	RequestCancel(ctx context.Context, orderID int64, reason string) (string, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
}

func NewOrderService(orderRepo repository.OrderRepository) OrderService {
	return &orderService{orderRepo: orderRepo}
}

func (s *orderService) RequestCancel(ctx context.Context, orderID int64, reason string) (string, error) {
	if orderID <= 0 {
		return "", ErrInvalidOrderID
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = model.CancelReason
	}

	resp, err := s.orderRepo.RequestCancel(ctx, orderID, reason)
	if err != nil {
		return "", err
	}
	if !resp.Success {
		return "", apperrors.New(apperrors.ServerRejected, MsgCancelFailed)
	}

	logger.Info("Order cancellation requested", map[string]interface{}{
		"order_id": orderID,
	})
	return MsgCancelRequested, nil
}
