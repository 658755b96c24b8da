package controller

import (
	"context"
	"sync"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/service"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/ikkim/storefront/internal/events"
	"github.com/ikkim/storefront/internal/ui"
	"github.com/ikkim/storefront/pkg/logger"
)

const (
	CheckoutURL        = "/checkout"
	TooltipEmptyCart   = "Your cart is empty"
	msgCartCheckFailed = "Error checking your cart"
)

// BadgeWidget is the header cart count. The count is the sum of line
// quantities and the badge hides at zero.
type BadgeWidget struct {
	cartService service.CartService
	bus         *events.Bus

	mu          sync.Mutex
	badge       model.Badge
	unsubscribe func()
}

func NewBadgeWidget(cartService service.CartService, bus *events.Bus) *BadgeWidget {
	return &BadgeWidget{
		cartService: cartService,
		bus:         bus,
		badge:       model.Badge{Hidden: true},
	}
}

// Start is for pages without a cart controller: the badge follows
// cartUpdated on its own.
func (w *BadgeWidget) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.unsubscribe == nil && w.bus != nil {
		w.unsubscribe = w.bus.Subscribe(events.CartUpdated, func(ev events.Event) {
			if view, ok := ev.Payload.(model.CartView); ok {
				w.Update(view)
				return
			}
			if err := w.Refresh(context.Background()); err != nil {
				logger.Warn("Badge refresh failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
		})
	}
	w.mu.Unlock()

	return w.Refresh(ctx)
}

func (w *BadgeWidget) Close() {
	w.mu.Lock()
	unsubscribe := w.unsubscribe
	w.unsubscribe = nil
	w.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (w *BadgeWidget) Refresh(ctx context.Context) error {
	view, err := w.cartService.GetCart(ctx)
	if err != nil {
		return err
	}
	w.Update(*view)
	return nil
}

func (w *BadgeWidget) Update(view model.CartView) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.badge = model.Badge{Count: view.ItemCount, Hidden: view.ItemCount == 0}
}

func (w *BadgeWidget) State() model.Badge {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.badge
}

// CheckoutGate is the checkout button. It is disabled while the cart is
// empty and re-checks the cart before navigating.
type CheckoutGate struct {
	cartService service.CartService
	notices     *ui.NoticeBoard
	nav         ui.Navigator

	mu    sync.Mutex
	state model.GateState
}

func NewCheckoutGate(cartService service.CartService, notices *ui.NoticeBoard, nav ui.Navigator) *CheckoutGate {
	return &CheckoutGate{
		cartService: cartService,
		notices:     notices,
		nav:         nav,
		state:       model.GateState{Tooltip: TooltipEmptyCart},
	}
}

func (g *CheckoutGate) Update(count int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if count > 0 {
		g.state = model.GateState{Enabled: true}
		return
	}
	g.state = model.GateState{Tooltip: TooltipEmptyCart}
}

func (g *CheckoutGate) State() model.GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Click navigates to checkout. A disabled gate never navigates.
func (g *CheckoutGate) Click(ctx context.Context) error {
	if !g.State().Enabled {
		return apperrors.ErrCheckoutDisabled
	}

	view, err := g.cartService.ValidateForCheckout(ctx)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrCheckoutDisabled) {
			g.Update(0)
		}
		g.notices.Error(err, msgCartCheckFailed)
		return err
	}
	g.Update(view.ItemCount)

	logger.Info("Proceeding to checkout", map[string]interface{}{
		"item_count": view.ItemCount,
	})
	g.nav.Navigate(CheckoutURL)
	return nil
}
