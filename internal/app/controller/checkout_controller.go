package controller

import (
	"context"
	"sync"
	"time"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/service"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/ikkim/storefront/internal/ui"
	"github.com/ikkim/storefront/pkg/logger"
)

// CheckoutController is the checkout page form
type CheckoutController struct {
	checkoutService service.CheckoutService
	notices         *ui.NoticeBoard
	nav             ui.Navigator

	mu           sync.Mutex
	payment      model.PaymentMethod
	timer        *time.Timer
	navigated    chan struct{}
	navigateOnce sync.Once
}

func NewCheckoutController(checkoutService service.CheckoutService, notices *ui.NoticeBoard, nav ui.Navigator) *CheckoutController {
	return &CheckoutController{
		checkoutService: checkoutService,
		notices:         notices,
		nav:             nav,
		navigated:       make(chan struct{}),
	}
}

func (ctrl *CheckoutController) SelectPayment(method model.PaymentMethod) {
	ctrl.mu.Lock()
	ctrl.payment = method
	ctrl.mu.Unlock()
}

func (ctrl *CheckoutController) PaymentMethod() model.PaymentMethod {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	return ctrl.payment
}

func (ctrl *CheckoutController) State() model.CheckoutState {
	return ctrl.checkoutService.State()
}

// SubmitDisabled reports whether the place-order button is disabled
func (ctrl *CheckoutController) SubmitDisabled() bool {
	return ctrl.checkoutService.State() != model.CheckoutIdle
}

// Submit places the order with the selected payment method. Online payment
// opens the payment page at once; cash on delivery shows a confirmation and
// moves to the order page after the redirect delay.
func (ctrl *CheckoutController) Submit(ctx context.Context, shipping model.ShippingForm) (*model.CheckoutResult, error) {
	result, err := ctrl.checkoutService.Submit(ctx, model.CheckoutInput{
		Shipping:      shipping,
		PaymentMethod: ctrl.PaymentMethod(),
	})
	if err != nil {
		if apperrors.Is(err, apperrors.ErrCheckoutInProgress) {
			return nil, err
		}
		ctrl.notices.Error(err, service.MsgCheckoutFailed)
		if service.SuggestsCOD(err) {
			logger.Info("Switching payment method to COD", nil)
			ctrl.SelectPayment(model.PaymentCOD)
		}
		return nil, err
	}

	switch result.State {
	case model.CheckoutSuccessRedirect:
		ctrl.navigate(result.RedirectURL)
	default:
		ctrl.notices.Success(result.Message)
		ctrl.mu.Lock()
		ctrl.timer = time.AfterFunc(result.Delay, func() { ctrl.navigate(result.RedirectURL) })
		ctrl.mu.Unlock()
	}
	return result, nil
}

func (ctrl *CheckoutController) navigate(url string) {
	ctrl.navigateOnce.Do(func() {
		ctrl.nav.Navigate(url)
		close(ctrl.navigated)
	})
}

// Navigated is closed once the page has moved on
func (ctrl *CheckoutController) Navigated() <-chan struct{} {
	return ctrl.navigated
}

// Close cancels a pending redirect
func (ctrl *CheckoutController) Close() {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	if ctrl.timer != nil {
		ctrl.timer.Stop()
		ctrl.timer = nil
	}
}
