package storefront

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// GetCart fetches the server-authoritative cart
func (c *Client) GetCart(ctx context.Context) (*Cart, error) {
	var cart Cart
	if err := c.get(ctx, "/api/cart", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddItem adds a product to the cart. The token travels in both the header and the body.
func (c *Client) AddItem(ctx context.Context, productID int64, req AddItemRequest) (*MutationResponse, error) {
	req.CSRFToken = c.tokens.Token()

	var resp MutationResponse
	if err := c.postJSON(ctx, fmt.Sprintf("/api/cart/add/%d", productID), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateItem changes the quantity of a cart line
func (c *Client) UpdateItem(ctx context.Context, itemID int64, quantity int) (*MutationResponse, error) {
	req := UpdateItemRequest{Quantity: quantity, CSRFToken: c.tokens.Token()}

	var resp MutationResponse
	if err := c.postJSON(ctx, fmt.Sprintf("/cart/update/%d", itemID), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RemoveItem deletes a cart line. The body is form encoded.
func (c *Client) RemoveItem(ctx context.Context, itemID int64) (*MutationResponse, error) {
	token := c.tokens.Token()
	if token == "" {
		return nil, ErrMissingToken
	}
	form := url.Values{}
	form.Set("csrf_token", token)

	var resp MutationResponse
	err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     fmt.Sprintf("/api/cart/remove/%d", itemID),
		body:     formPayload(form),
		mutating: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Checkout submits the order
func (c *Client) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error) {
	var resp CheckoutResponse
	if err := c.postJSON(ctx, "/cart/checkout", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
