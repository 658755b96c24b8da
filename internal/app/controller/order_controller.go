package controller

import (
	"context"
	"fmt"

	"github.com/ikkim/storefront/internal/app/service"
	"github.com/ikkim/storefront/internal/ui"
)

// OrderController is the order detail page
type OrderController struct {
	orderService service.OrderService
	notices      *ui.NoticeBoard
	nav          ui.Navigator
}

func NewOrderController(orderService service.OrderService, notices *ui.NoticeBoard, nav ui.Navigator) *OrderController {
	return &OrderController{
		orderService: orderService,
		notices:      notices,
		nav:          nav,
	}
}

// RequestCancel asks for the order to be cancelled and reloads the page
func (ctrl *OrderController) RequestCancel(ctx context.Context, orderID int64, reason string) error {
	msg, err := ctrl.orderService.RequestCancel(ctx, orderID, reason)
	if err != nil {
		ctrl.notices.Error(err, service.MsgCancelFailed)
		return err
	}
	ctrl.notices.Success(msg)
	ctrl.nav.Navigate(fmt.Sprintf("/orders/%d", orderID))
	return nil
}
