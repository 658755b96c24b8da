package fakestore

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/ikkim/storefront/internal/middleware"
	"github.com/ikkim/storefront/pkg/storefront"
	"github.com/ikkim/storefront/pkg/util"
)

// ListNotifications returns every notification, newest first
// GET /api/notifications
func (h *Handler) ListNotifications(c *gin.Context) {
	h.store.mu.Lock()
	items := make([]storefront.Notification, len(h.store.notifications))
	copy(items, h.store.notifications)
	h.store.mu.Unlock()

	c.JSON(http.StatusOK, storefront.NotificationList{Notifications: items})
}

// UnreadNotifications returns the unread count
// GET /api/notifications/unread
func (h *Handler) UnreadNotifications(c *gin.Context) {
	h.store.mu.Lock()
	count := h.store.unreadLocked()
	h.store.mu.Unlock()

	c.JSON(http.StatusOK, storefront.UnreadCount{Count: count})
}

// MarkNotificationRead marks one notification read and pushes the new count
// POST /api/notifications/:id/read
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	h.store.mu.Lock()
	found := false
	for i := range h.store.notifications {
		if h.store.notifications[i].ID == id {
			h.store.notifications[i].IsRead = true
			found = true
		}
	}
	count := h.store.unreadLocked()
	h.store.mu.Unlock()

	if !found {
		apperrors.NotFound(c, apperrors.ResourceNotFound, "Notification not found")
		return
	}
	h.pushUnread(count)
	c.JSON(http.StatusOK, storefront.SuccessResponse{Success: true})
}

// SubmitReview stores a product review
// POST /api/products/:id/reviews
func (h *Handler) SubmitReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req storefront.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Rating must be between 1 and 5")
		return
	}

	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	if _, found := h.store.products[productID]; !found {
		apperrors.NotFound(c, apperrors.ResourceNotFound, "Product not found")
		return
	}
	h.store.reviews = append(h.store.reviews, Review{
		ProductID: productID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		OrderID:   req.OrderID,
	})

	log.Info("Review stored", map[string]interface{}{
		"product_id": productID,
		"rating":     req.Rating,
	})
	c.JSON(http.StatusOK, storefront.SuccessResponse{Success: true, Message: "Thank you for your review!"})
}

// RateOrder stores ratings for products of an order
// POST /api/orders/:id/rate
func (h *Handler) RateOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req storefront.BatchRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}
	if len(req.Ratings) == 0 {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "No ratings provided")
		return
	}
	for _, r := range req.Ratings {
		if r.Rating < 1 || r.Rating > 5 {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Rating must be between 1 and 5")
			return
		}
	}

	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	order, found := h.store.orders[orderID]
	if !found {
		apperrors.NotFound(c, apperrors.ResourceNotFound, "Order not found")
		return
	}
	order.Ratings = append(order.Ratings, req.Ratings...)
	for _, r := range req.Ratings {
		oid := orderID
		h.store.reviews = append(h.store.reviews, Review{
			ProductID: r.ProductID,
			Rating:    r.Rating,
			Comment:   r.Review,
			OrderID:   &oid,
		})
	}

	c.JSON(http.StatusOK, storefront.SuccessResponse{Success: true, Message: "Thank you for your review!"})
}

// RequestCancel flags an order for cancellation
// POST /orders/:id/request-cancel
func (h *Handler) RequestCancel(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req storefront.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	order, found := h.store.orders[orderID]
	if !found {
		apperrors.NotFound(c, apperrors.ResourceNotFound, "Order not found")
		return
	}
	switch order.Status {
	case "cancel_requested", "cancelled":
		apperrors.Reject(c, apperrors.ValidationInvalidInput, "Cancellation has already been requested")
		return
	case "delivered":
		apperrors.Reject(c, apperrors.ValidationInvalidInput, "Delivered orders cannot be cancelled")
		return
	}

	order.Status = "cancel_requested"
	order.CancelReason = req.Reason
	c.JSON(http.StatusOK, storefront.SuccessResponse{Success: true, Message: "Cancellation request submitted"})
}

// ValidateCard looks up a card by its leading digits
// POST /api/payments/validate-card
func (h *Handler) ValidateCard(c *gin.Context) {
	var req struct {
		CardNumber string `json:"card_number"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	c.JSON(http.StatusOK, lookupBIN(util.DigitsOnly(req.CardNumber)))
}

func lookupBIN(digits string) storefront.CardValidation {
	if !util.HasCardBIN(digits) {
		return storefront.CardValidation{Valid: false, Error: "Card number is too short"}
	}
	switch {
	case strings.HasPrefix(digits, "9704"):
		return storefront.CardValidation{Valid: true, Type: "napas", Issuer: "Vietcombank", CardholderName: "NGUYEN VAN A"}
	case strings.HasPrefix(digits, "4"):
		return storefront.CardValidation{Valid: true, Type: "visa", Issuer: "Visa"}
	case len(digits) >= 2 && digits[0] == '5' && digits[1] >= '1' && digits[1] <= '5':
		return storefront.CardValidation{Valid: true, Type: "mastercard", Issuer: "Mastercard"}
	default:
		return storefront.CardValidation{Valid: false, Error: "Unsupported card"}
	}
}

// CreateWalletPayment starts a wallet payment
// POST /create-payment
func (h *Handler) CreateWalletPayment(c *gin.Context) {
	var req struct {
		Phone string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}
	if !util.IsValidWalletPhone(req.Phone) {
		c.JSON(http.StatusOK, storefront.WalletPaymentResponse{Success: false, Error: "Invalid phone number"})
		return
	}

	c.JSON(http.StatusOK, storefront.WalletPaymentResponse{
		Success:    true,
		PaymentURL: "/payment/zalopay/" + uuid.NewString(),
	})
}

// AddPaymentMethod saves a tokenized payment method
// POST /add_payment_method
func (h *Handler) AddPaymentMethod(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req struct {
		Provider string `json:"payment_provider"`
		Token    string `json:"payment_token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}
	if req.Provider != "credit_card" && req.Provider != "zalopay" {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Unsupported payment provider")
		return
	}
	if !validPaymentToken(req.Token, req.Provider) {
		log.Warn("Rejected malformed payment token", map[string]interface{}{
			"provider": req.Provider,
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "Invalid payment token")
		return
	}

	h.store.mu.Lock()
	h.store.methods = append(h.store.methods, PaymentMethod{Provider: req.Provider, Token: req.Token})
	h.store.mu.Unlock()

	c.JSON(http.StatusOK, storefront.SuccessResponse{Success: true, Message: "Payment method added"})
}

func validPaymentToken(token, provider string) bool {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return false
	}
	var payload struct {
		Provider string `json:"provider"`
		Nonce    string `json:"nonce"`
		Hash     string `json:"hash"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return false
	}
	return payload.Provider == provider && payload.Nonce != "" && payload.Hash != ""
}
