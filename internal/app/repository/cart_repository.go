package repository

import (
	"context"

	"github.com/ikkim/storefront/pkg/logger"
	"github.com/ikkim/storefront/pkg/storefront"
)

// CartRepository is the server-owned cart
type CartRepository interface {
	Get(ctx context.Context) (*storefront.Cart, error)
	Add(ctx context.Context, productID int64, req storefront.AddItemRequest) (*storefront.MutationResponse, error)
	UpdateQuantity(ctx context.Context, itemID int64, quantity int) (*storefront.MutationResponse, error)
	Remove(ctx context.Context, itemID int64) (*storefront.MutationResponse, error)
	Checkout(ctx context.Context, req storefront.CheckoutRequest) (*storefront.CheckoutResponse, error)
}

type cartRepository struct {
	client *storefront.Client
}

func NewCartRepository(client *storefront.Client) CartRepository {
	return &cartRepository{client: client}
}

func (r *cartRepository) Get(ctx context.Context) (*storefront.Cart, error) {
	logger.Debug("Fetching cart from storefront", nil)

	cart, err := r.client.GetCart(ctx)
	if err != nil {
		logger.Error("Failed to fetch cart from storefront", err, nil)
		return nil, err
	}

	logger.Debug("Cart fetched from storefront", map[string]interface{}{
		"items_present": cart.Items != nil,
		"count":         len(cart.Items),
	})
	return cart, nil
}

func (r *cartRepository) Add(ctx context.Context, productID int64, req storefront.AddItemRequest) (*storefront.MutationResponse, error) {
	logger.Debug("Adding cart item on storefront", map[string]interface{}{
		"product_id": productID,
		"quantity":   req.Quantity,
		"size":       req.Size,
	})

	resp, err := r.client.AddItem(ctx, productID, req)
	if err != nil {
		logger.Error("Failed to add cart item on storefront", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}
	return resp, nil
}

func (r *cartRepository) UpdateQuantity(ctx context.Context, itemID int64, quantity int) (*storefront.MutationResponse, error) {
	logger.Debug("Updating cart item on storefront", map[string]interface{}{
		"cart_item_id": itemID,
		"quantity":     quantity,
	})

	resp, err := r.client.UpdateItem(ctx, itemID, quantity)
	if err != nil {
		logger.Error("Failed to update cart item on storefront", err, map[string]interface{}{
			"cart_item_id": itemID,
			"quantity":     quantity,
		})
		return nil, err
	}
	return resp, nil
}

func (r *cartRepository) Remove(ctx context.Context, itemID int64) (*storefront.MutationResponse, error) {
	logger.Debug("Removing cart item on storefront", map[string]interface{}{
		"cart_item_id": itemID,
	})

	resp, err := r.client.RemoveItem(ctx, itemID)
	if err != nil {
		logger.Error("Failed to remove cart item on storefront", err, map[string]interface{}{
			"cart_item_id": itemID,
		})
		return nil, err
	}
	return resp, nil
}

func (r *cartRepository) Checkout(ctx context.Context, req storefront.CheckoutRequest) (*storefront.CheckoutResponse, error) {
	logger.Debug("Submitting checkout to storefront", map[string]interface{}{
		"payment_method": req.PaymentMethod,
	})

	resp, err := r.client.Checkout(ctx, req)
	if err != nil {
		logger.Error("Checkout rejected by storefront", err, map[string]interface{}{
			"payment_method": req.PaymentMethod,
		})
		return nil, err
	}
	return resp, nil
}
