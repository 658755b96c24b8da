package storefront

import (
	"context"
	"fmt"
	"net/http"
)

// ListAdminProducts returns one page of the admin product table
func (c *Client) ListAdminProducts(ctx context.Context, q AdminProductQuery) (*AdminProductPage, error) {
	var page AdminProductPage
	if err := c.get(ctx, "/api/admin/products", q.Values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// DeleteProduct removes a product. Any 2xx counts as success, whatever the body.
func (c *Client) DeleteProduct(ctx context.Context, productID int64) error {
	return c.do(ctx, request{
		method:     http.MethodPost,
		path:       fmt.Sprintf("/admin/products/%d/delete", productID),
		mutating:   true,
		allowEmpty: true,
	}, nil)
}

// ListNotifications returns the notification dropdown entries
func (c *Client) ListNotifications(ctx context.Context) ([]Notification, error) {
	var list NotificationList
	if err := c.get(ctx, "/api/notifications", nil, &list); err != nil {
		return nil, err
	}
	return list.Notifications, nil
}

// UnreadNotifications returns the unread count
func (c *Client) UnreadNotifications(ctx context.Context) (int, error) {
	var resp UnreadCount
	if err := c.get(ctx, "/api/notifications/unread", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// MarkNotificationRead marks one notification as read
func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	var resp SuccessResponse
	if err := c.postJSON(ctx, fmt.Sprintf("/api/notifications/%d/read", id), nil, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &APIError{StatusCode: http.StatusOK, Message: resp.Message}
	}
	return nil
}

// SubmitReview posts a single product review
func (c *Client) SubmitReview(ctx context.Context, productID int64, req ReviewRequest) error {
	r, err := jsonRequest(fmt.Sprintf("/api/products/%d/reviews", productID), req)
	if err != nil {
		return err
	}
	r.allowEmpty = true
	return c.do(ctx, r, nil)
}

// RateOrder posts ratings for several products of an order
func (c *Client) RateOrder(ctx context.Context, orderID int64, req BatchRatingRequest) error {
	r, err := jsonRequest(fmt.Sprintf("/api/orders/%d/rate", orderID), req)
	if err != nil {
		return err
	}
	r.allowEmpty = true
	return c.do(ctx, r, nil)
}

// RequestCancel asks the store to cancel an order
func (c *Client) RequestCancel(ctx context.Context, orderID int64, reason string) (*SuccessResponse, error) {
	var resp SuccessResponse
	if err := c.postJSON(ctx, fmt.Sprintf("/orders/%d/request-cancel", orderID), CancelRequest{Reason: reason}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ValidateCard looks up the issuer of a card number prefix
func (c *Client) ValidateCard(ctx context.Context, cardNumber string) (*CardValidation, error) {
	r, err := jsonRequest("/api/payments/validate-card", map[string]string{"card_number": cardNumber})
	if err != nil {
		return nil, err
	}
	r.rawResult = true

	var resp CardValidation
	if err := c.do(ctx, r, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateWalletPayment starts a wallet payment for the given phone number
func (c *Client) CreateWalletPayment(ctx context.Context, phone string) (*WalletPaymentResponse, error) {
	var resp WalletPaymentResponse
	if err := c.postJSON(ctx, "/create-payment", map[string]string{"phone": phone}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AddPaymentMethod stores a tokenized payment method
func (c *Client) AddPaymentMethod(ctx context.Context, provider, paymentToken string) error {
	body := map[string]string{
		"payment_provider": provider,
		"payment_token":    paymentToken,
		"csrf_token":       c.tokens.Token(),
	}
	r, err := jsonRequest("/add_payment_method", body)
	if err != nil {
		return err
	}
	r.allowEmpty = true
	return c.do(ctx, r, nil)
}

// jsonRequest builds a mutating JSON POST.
func jsonRequest(path string, v interface{}) (request, error) {
	p, err := jsonPayload(v)
	if err != nil {
		return request{}, err
	}
	return request{method: http.MethodPost, path: path, body: p, mutating: true}, nil
}
