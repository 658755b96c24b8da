package service

import (
	"context"
	"sync"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/repository"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/ikkim/storefront/internal/events"
	"github.com/ikkim/storefront/pkg/logger"
	"github.com/ikkim/storefront/pkg/storefront"
)

const (
	MsgItemAdded   = "Item added to cart successfully!"
	MsgCartUpdated = "Cart updated successfully"
	MsgItemRemoved = "Item removed from cart"

	MsgAddFailed    = "Error adding item to cart"
	MsgUpdateFailed = "Error updating cart"
	MsgRemoveFailed = "Error removing item from cart"

	DefaultMaxQuantityOptions = 10
)

// UpdateResult is the outcome of a confirmed quantity change
type UpdateResult struct {
	View    model.CartView
	Message string
	// Patched is set when the cart could not be re-fetched and the summary
	// came from the update response instead
	Patched bool
}

// CartService reconciles the displayed cart with the server after every
// mutation and announces each confirmed change on the event bus.
type CartService interface {
	GetCart(ctx context.Context) (*model.CartView, error)
	AddItem(ctx context.Context, form model.ProductForm, in model.AddItemInput) (string, error)
	UpdateQuantity(ctx context.Context, itemID int64, quantity int) (*UpdateResult, error)
	RemoveItem(ctx context.Context, itemID int64) (string, error)
	ValidateForCheckout(ctx context.Context) (*model.CartView, error)
	QuantityOptions(ctx context.Context, productID int64, size string, colorID *int64, current int, previous model.QuantityOptions) model.QuantityOptions
	LastView() model.CartView
	// QuantityLimit caps every quantity selector
	QuantityLimit() int
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	calc        *PriceCalculator
	bus         *events.Bus
	maxOptions  int

	mu   sync.RWMutex
	last model.CartView
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	calc *PriceCalculator,
	bus *events.Bus,
	maxOptions int,
) CartService {
	if maxOptions <= 0 {
		maxOptions = DefaultMaxQuantityOptions
	}
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		calc:        calc,
		bus:         bus,
		maxOptions:  maxOptions,
		last:        calc.BuildView(nil),
	}
}

func (s *cartService) GetCart(ctx context.Context) (*model.CartView, error) {
	cart, err := s.cartRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	view := s.calc.BuildView(cart)
	s.remember(view)

	logger.Debug("Cart reconciled", map[string]interface{}{
		"lines":      len(view.Lines),
		"item_count": view.ItemCount,
		"subtotal":   view.Subtotal.String(),
	})
	return &view, nil
}

func (s *cartService) AddItem(ctx context.Context, form model.ProductForm, in model.AddItemInput) (string, error) {
	if form.RequiresSize() && in.Size == "" {
		return "", apperrors.Required("size", "Please select a size")
	}
	if form.HasColorOptions && in.ColorID == nil {
		return "", apperrors.Required("color", "Please select a color")
	}
	quantity := in.Quantity
	if quantity < 1 {
		quantity = 1
	}

	logger.Info("Adding item to cart", map[string]interface{}{
		"product_id": in.ProductID,
		"quantity":   quantity,
		"size":       in.Size,
	})

	_, err := s.cartRepo.Add(ctx, in.ProductID, storefront.AddItemRequest{
		Quantity: quantity,
		Size:     in.Size,
		ColorID:  in.ColorID,
	})
	if err != nil {
		logger.Warn("Add to cart failed", map[string]interface{}{
			"product_id": in.ProductID,
			"error":      err.Error(),
		})
		return "", err
	}

	s.publish(nil)
	return MsgItemAdded, nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, itemID int64, quantity int) (*UpdateResult, error) {
	if quantity < 1 {
		return nil, apperrors.Validation("quantity", apperrors.ValidationInvalidRange, "Quantity must be at least 1")
	}

	resp, err := s.cartRepo.UpdateQuantity(ctx, itemID, quantity)
	if err != nil {
		logger.Warn("Quantity update rejected", map[string]interface{}{
			"cart_item_id": itemID,
			"quantity":     quantity,
			"error":        err.Error(),
		})
		return nil, err
	}

	result := &UpdateResult{Message: resp.Message}
	if result.Message == "" {
		result.Message = MsgCartUpdated
	}

	cart, err := s.cartRepo.Get(ctx)
	if err != nil {
		logger.Warn("Cart re-fetch after update failed, patching summary from response", map[string]interface{}{
			"cart_item_id": itemID,
			"error":        err.Error(),
		})
		view := s.calc.PatchLine(s.LastView(), itemID, quantity)
		result.View = s.calc.PatchSummary(view, resp)
		result.Patched = true
	} else {
		result.View = s.calc.BuildView(cart)
	}

	s.remember(result.View)
	s.publish(result.View)
	return result, nil
}

func (s *cartService) RemoveItem(ctx context.Context, itemID int64) (string, error) {
	resp, err := s.cartRepo.Remove(ctx, itemID)
	if err != nil {
		return "", err
	}

	logger.Info("Cart item removed", map[string]interface{}{
		"cart_item_id": itemID,
	})
	s.publish(nil)

	if resp.Message != "" {
		return resp.Message, nil
	}
	return MsgItemRemoved, nil
}

// ValidateForCheckout re-reads the cart and refuses an empty one
func (s *cartService) ValidateForCheckout(ctx context.Context) (*model.CartView, error) {
	view, err := s.GetCart(ctx)
	if err != nil {
		return nil, err
	}
	if view.IsEmpty() {
		logger.Warn("Checkout blocked: cart is empty", nil)
		return nil, apperrors.ErrCheckoutDisabled
	}
	return view, nil
}

// QuantityOptions loads the variant stock and bounds the selector by it. On a
// failed lookup the previous options are kept, or a single option of 1.
func (s *cartService) QuantityOptions(
	ctx context.Context,
	productID int64,
	size string,
	colorID *int64,
	current int,
	previous model.QuantityOptions,
) model.QuantityOptions {
	stock, err := s.productRepo.VariantStock(ctx, productID, size, colorID)
	if err != nil {
		logger.Warn("Variant stock lookup failed", map[string]interface{}{
			"product_id": productID,
			"size":       size,
			"error":      err.Error(),
		})
		if len(previous.Options) > 0 {
			return previous
		}
		return model.QuantityOptions{Options: []int{1}, Selected: 1}
	}
	return BuildQuantityOptions(stock, current, s.maxOptions)
}

func (s *cartService) QuantityLimit() int {
	return s.maxOptions
}

// LastView returns the most recently reconciled view
func (s *cartService) LastView() model.CartView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

func (s *cartService) remember(view model.CartView) {
	s.mu.Lock()
	s.last = view
	s.mu.Unlock()
}

func (s *cartService) publish(payload interface{}) {
	if s.bus != nil {
		s.bus.Publish(events.CartUpdated, payload)
	}
}

// BuildQuantityOptions offers 1..min(limit, stock). Zero stock disables the
// selector and a current value above the maximum resets to 1.
func BuildQuantityOptions(stock, current, limit int) model.QuantityOptions {
	if stock <= 0 {
		return model.QuantityOptions{Disabled: true}
	}
	max := stock
	if limit > 0 && max > limit {
		max = limit
	}

	options := make([]int, max)
	for i := range options {
		options[i] = i + 1
	}
	selected := current
	if selected < 1 || selected > max {
		selected = 1
	}
	return model.QuantityOptions{Options: options, Selected: selected}
}
