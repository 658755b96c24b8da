package fakestore

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/ikkim/storefront/internal/middleware"
	"github.com/ikkim/storefront/pkg/storefront"
)

const (
	paymentCOD   = "cod"
	paymentPayOS = "payos"
)

// GetCart returns the cart with server-computed totals
// GET /api/cart
func (h *Handler) GetCart(c *gin.Context) {
	h.store.mu.Lock()
	cart := h.store.cartLocked()
	h.store.mu.Unlock()

	c.JSON(http.StatusOK, cart)
}

// AddItem adds a product variant to the cart
// POST /api/cart/add/:id
func (h *Handler) AddItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req storefront.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"product_id": productID,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}
	if req.Quantity < 1 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Quantity must be at least 1")
		return
	}

	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	p, found := h.store.products[productID]
	if !found || !p.Active {
		apperrors.NotFound(c, apperrors.ResourceNotFound, "Product not found")
		return
	}
	if len(p.Sizes) > 0 && req.Size == "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Please select a size")
		return
	}
	if len(p.ColorIDs) > 0 && req.ColorID == nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Please select a color")
		return
	}

	inCart := 0
	for _, line := range h.store.cart {
		if line.Product.ID == productID && line.Size == req.Size && sameColor(line.ColorID, req.ColorID) {
			inCart = line.Quantity
		}
	}
	if stock := p.stockFor(req.Size, req.ColorID); inCart+req.Quantity > stock {
		log.Warn("Add to cart exceeds stock", map[string]interface{}{
			"product_id": productID,
			"requested":  req.Quantity,
			"in_cart":    inCart,
			"stock":      stock,
		})
		apperrors.RespondWithError(c, http.StatusOK, apperrors.CartOutOfStock, "Not enough stock available")
		return
	}

	itemID := h.store.addLineLocked(productID, req.Quantity, req.Size, req.ColorID)

	log.Info("Item added to cart", map[string]interface{}{
		"product_id":   productID,
		"cart_item_id": itemID,
		"quantity":     req.Quantity,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Item added to cart successfully!",
	})
}

// UpdateItem changes the quantity of a cart line
// POST /cart/update/:id
func (h *Handler) UpdateItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req storefront.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}
	if req.Quantity < 1 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Quantity must be at least 1")
		return
	}

	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	idx := h.store.lineIndexLocked(itemID)
	if idx < 0 {
		apperrors.NotFound(c, apperrors.CartItemNotFound, "Cart item not found")
		return
	}

	line := &h.store.cart[idx]
	p, found := h.store.products[line.Product.ID]
	if !found {
		apperrors.NotFound(c, apperrors.ResourceNotFound, "Product not found")
		return
	}
	if req.Quantity > p.stockFor(line.Size, line.ColorID) {
		log.Warn("Quantity update exceeds stock", map[string]interface{}{
			"cart_item_id": itemID,
			"quantity":     req.Quantity,
		})
		apperrors.Reject(c, apperrors.CartOutOfStock, "Out of stock")
		return
	}

	line.Quantity = req.Quantity
	cart := h.store.cartLocked()

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Cart updated successfully",
		"subtotal": cart.Subtotal,
		"total":    cart.Total,
	})
}

// RemoveItem deletes a cart line
// POST /api/cart/remove/:id
func (h *Handler) RemoveItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	idx := h.store.lineIndexLocked(itemID)
	if idx < 0 {
		apperrors.NotFound(c, apperrors.CartItemNotFound, "Cart item not found")
		return
	}
	h.store.cart = append(h.store.cart[:idx], h.store.cart[idx+1:]...)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Item removed from cart",
	})
}

// Checkout places an order from the cart
// POST /cart/checkout
func (h *Handler) Checkout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req storefront.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}
	if field := missingShippingField(req.ShippingInfo); field != "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, fmt.Sprintf("Missing shipping information: %s", field))
		return
	}
	if req.PaymentMethod != paymentCOD && req.PaymentMethod != paymentPayOS {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid payment method")
		return
	}

	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	cart := h.store.cartLocked()
	if len(cart.Items) == 0 {
		apperrors.BadRequest(c, apperrors.CartEmpty, "Your cart is empty")
		return
	}
	if req.PaymentMethod == paymentPayOS && h.store.onlinePaymentDown {
		log.Warn("Online payment unavailable", nil)
		c.JSON(http.StatusOK, gin.H{
			"success":     false,
			"error":       "Online payment is temporarily unavailable. Please choose COD.",
			"code":        apperrors.CheckoutFailed,
			"suggest_cod": true,
		})
		return
	}

	order := &Order{
		ID:              h.store.nextOrderID,
		PaymentMethod:   req.PaymentMethod,
		Shipping:        req.ShippingInfo,
		Items:           cart.Items,
		Total:           *cart.Total,
		Status:          "pending",
		RequiresPayment: req.PaymentMethod == paymentPayOS,
	}
	h.store.nextOrderID++
	h.store.orders[order.ID] = order
	h.store.cart = nil
	unread := h.store.addNotificationLocked(fmt.Sprintf("Order #%d has been placed", order.ID), fmt.Sprintf("/orders/%d", order.ID))

	log.Info("Order placed", map[string]interface{}{
		"order_id":       order.ID,
		"payment_method": order.PaymentMethod,
		"total":          order.Total.String(),
	})
	h.pushUnread(unread)

	if order.RequiresPayment {
		c.JSON(http.StatusOK, storefront.CheckoutResponse{
			Success:         true,
			RequiresPayment: true,
			PaymentURL:      fmt.Sprintf("/payment/payos/%d", order.ID),
		})
		return
	}
	c.JSON(http.StatusOK, storefront.CheckoutResponse{
		Success:     true,
		RedirectURL: fmt.Sprintf("/orders/%d", order.ID),
	})
}

func (s *Store) lineIndexLocked(itemID int64) int {
	for i, line := range s.cart {
		if line.ID == itemID {
			return i
		}
	}
	return -1
}

func missingShippingField(info storefront.ShippingInfo) string {
	fields := []struct {
		key   string
		value string
	}{
		{"first_name", info.FirstName},
		{"last_name", info.LastName},
		{"address", info.Address},
		{"city", info.City},
		{"state", info.State},
		{"zip", info.Zip},
		{"phone", info.Phone},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return f.key
		}
	}
	return ""
}
