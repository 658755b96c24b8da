package controller

import (
	"context"
	"sync"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/service"
	"github.com/ikkim/storefront/internal/events"
	"github.com/ikkim/storefront/internal/ui"
	"github.com/ikkim/storefront/pkg/logger"
)

// CartController owns the cart page: the rendered lines and summary, one
// quantity control per line, the header badge and the checkout gate.
type CartController struct {
	cartService service.CartService
	bus         *events.Bus
	notices     *ui.NoticeBoard

	Badge *BadgeWidget
	Gate  *CheckoutGate

	mu          sync.Mutex
	view        model.CartView
	controls    map[int64]*QuantityControl
	unsubscribe func()
	onChange    func(model.CartView)
}

func NewCartController(
	cartService service.CartService,
	bus *events.Bus,
	notices *ui.NoticeBoard,
	nav ui.Navigator,
) *CartController {
	return &CartController{
		cartService: cartService,
		bus:         bus,
		notices:     notices,
		Badge:       NewBadgeWidget(cartService, bus),
		Gate:        NewCheckoutGate(cartService, notices, nav),
		view:        cartService.LastView(),
		controls:    make(map[int64]*QuantityControl),
	}
}

// Start loads the cart and follows cartUpdated until Close
func (ctrl *CartController) Start(ctx context.Context) error {
	ctrl.mu.Lock()
	if ctrl.unsubscribe == nil && ctrl.bus != nil {
		ctrl.unsubscribe = ctrl.bus.Subscribe(events.CartUpdated, ctrl.handleCartUpdated)
	}
	ctrl.mu.Unlock()

	return ctrl.Refresh(ctx)
}

func (ctrl *CartController) Close() {
	ctrl.mu.Lock()
	unsubscribe := ctrl.unsubscribe
	ctrl.unsubscribe = nil
	ctrl.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// OnChange registers fn to receive every applied view
func (ctrl *CartController) OnChange(fn func(model.CartView)) {
	ctrl.mu.Lock()
	ctrl.onChange = fn
	ctrl.mu.Unlock()
}

// Refresh re-reads the cart and rebuilds every displayed value from it
func (ctrl *CartController) Refresh(ctx context.Context) error {
	view, err := ctrl.cartService.GetCart(ctx)
	if err != nil {
		logger.Error("Failed to load cart", err, nil)
		return err
	}
	ctrl.apply(*view)
	return nil
}

// A view payload is already reconciled; anything else means re-read.
func (ctrl *CartController) handleCartUpdated(ev events.Event) {
	if view, ok := ev.Payload.(model.CartView); ok {
		ctrl.apply(view)
		return
	}
	if err := ctrl.Refresh(context.Background()); err != nil {
		logger.Warn("Cart refresh after update failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (ctrl *CartController) apply(view model.CartView) {
	ctrl.mu.Lock()
	ctrl.view = view
	live := make(map[int64]bool, len(view.Lines))
	for _, line := range view.Lines {
		live[line.ItemID] = true
		if c, ok := ctrl.controls[line.ItemID]; ok {
			c.sync(line)
			continue
		}
		ctrl.controls[line.ItemID] = newQuantityControl(line, ctrl.cartService.QuantityLimit(), ctrl.cartService, ctrl.notices)
	}
	for id := range ctrl.controls {
		if !live[id] {
			delete(ctrl.controls, id)
		}
	}
	fn := ctrl.onChange
	ctrl.mu.Unlock()

	ctrl.Badge.Update(view)
	ctrl.Gate.Update(view.ItemCount)
	if fn != nil {
		fn(view)
	}
}

// View returns the displayed cart
func (ctrl *CartController) View() model.CartView {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	return ctrl.view
}

// Control returns the quantity control of a line
func (ctrl *CartController) Control(itemID int64) (*QuantityControl, bool) {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	c, ok := ctrl.controls[itemID]
	return c, ok
}

// SetQuantity changes a line through its control
func (ctrl *CartController) SetQuantity(ctx context.Context, itemID int64, quantity int) error {
	c, ok := ctrl.Control(itemID)
	if !ok {
		return ErrUnknownItem
	}
	return c.Change(ctx, quantity)
}

// Remove deletes a line. The displayed cart is only changed by the
// cartUpdated refresh that follows a confirmed removal.
func (ctrl *CartController) Remove(ctx context.Context, itemID int64) error {
	msg, err := ctrl.cartService.RemoveItem(ctx, itemID)
	if err != nil {
		ctrl.notices.Error(err, service.MsgRemoveFailed)
		return err
	}
	ctrl.notices.Success(msg)
	return nil
}

// Checkout is the checkout button
func (ctrl *CartController) Checkout(ctx context.Context) error {
	return ctrl.Gate.Click(ctx)
}
