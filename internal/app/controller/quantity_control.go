package controller

import (
	"context"
	"fmt"
	"sync"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/service"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/ikkim/storefront/internal/ui"
	"github.com/ikkim/storefront/pkg/logger"
)

// ErrUnknownItem is returned for a cart line that is not displayed
var ErrUnknownItem = apperrors.New(apperrors.ValidationInvalidInput, "This item is no longer in your cart")

// ErrOutOfStock is returned when a line's selector is disabled for zero stock
var ErrOutOfStock = apperrors.Validation("quantity", apperrors.CartOutOfStock, "This item is out of stock")

// QuantityControl is the quantity selector of one cart line. It offers
// 1..min(limit, stock) and is disabled while its own request is in flight.
// Other lines are unaffected.
type QuantityControl struct {
	itemID      int64
	cartService service.CartService
	notices     *ui.NoticeBoard
	limit       int

	mu       sync.Mutex
	value    int
	lastGood int
	options  model.QuantityOptions
	busy     bool
}

func newQuantityControl(line model.CartLine, limit int, cartService service.CartService, notices *ui.NoticeBoard) *QuantityControl {
	c := &QuantityControl{
		itemID:      line.ItemID,
		cartService: cartService,
		notices:     notices,
		limit:       limit,
	}
	c.bound(line.Quantity, line.Stock)
	return c
}

// bound rebuilds the options for a confirmed quantity. Unknown stock only
// caps the options at the limit, and never below the confirmed quantity.
// Caller holds mu.
func (c *QuantityControl) bound(quantity int, stock *int) {
	if stock != nil {
		c.options = service.BuildQuantityOptions(*stock, quantity, c.limit)
	} else {
		top := c.limit
		if quantity > top {
			top = quantity
		}
		c.options = service.BuildQuantityOptions(top, quantity, 0)
	}
	c.lastGood = quantity
	c.value = c.options.Selected
	if c.value != quantity {
		logger.Debug("Cart line quantity outside its options", map[string]interface{}{
			"cart_item_id": c.itemID,
			"quantity":     quantity,
			"shown":        c.value,
		})
	}
}

// selectable reports whether quantity is one of the options. Caller holds mu.
func (c *QuantityControl) selectable(quantity int) bool {
	return !c.options.Disabled && quantity >= 1 && quantity <= len(c.options.Options)
}

func (c *QuantityControl) ItemID() int64 {
	return c.itemID
}

// Value is the quantity currently displayed
func (c *QuantityControl) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// LastGood is the last quantity the server confirmed
func (c *QuantityControl) LastGood() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastGood
}

// Options is what the selector offers
func (c *QuantityControl) Options() model.QuantityOptions {
	c.mu.Lock()
	defer c.mu.Unlock()
	opts := c.options
	opts.Options = append([]int(nil), c.options.Options...)
	opts.Selected = c.value
	return opts
}

// Disabled reports whether a request is in flight or the line is out of stock
func (c *QuantityControl) Disabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy || c.options.Disabled
}

// Change submits a new quantity. A value the selector does not offer is
// refused without a request. On any failure the displayed value goes back
// to the last confirmed one.
func (c *QuantityControl) Change(ctx context.Context, quantity int) error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		logger.Debug("Quantity change ignored while busy", map[string]interface{}{
			"cart_item_id": c.itemID,
		})
		return apperrors.ErrControlBusy
	}
	if !c.selectable(quantity) {
		err := ErrOutOfStock
		if !c.options.Disabled {
			err = apperrors.Validation("quantity", apperrors.ValidationInvalidRange,
				fmt.Sprintf("Please choose a quantity between 1 and %d", len(c.options.Options)))
		}
		c.mu.Unlock()
		c.notices.Error(err, service.MsgUpdateFailed)
		return err
	}
	c.busy = true
	c.value = quantity
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
	}()

	result, err := c.cartService.UpdateQuantity(ctx, c.itemID, quantity)
	if err != nil {
		c.mu.Lock()
		c.value = c.options.Selected
		c.mu.Unlock()
		c.notices.Error(err, service.MsgUpdateFailed)
		return err
	}

	c.mu.Lock()
	c.lastGood = quantity
	c.value = quantity
	c.options.Selected = quantity
	c.mu.Unlock()
	c.notices.Success(result.Message)
	return nil
}

// sync takes a server-confirmed line unless a request is in flight
func (c *QuantityControl) sync(line model.CartLine) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return
	}
	c.bound(line.Quantity, line.Stock)
}
