package storefront

import (
	"net/url"
	"strconv"

	"github.com/ikkim/storefront/pkg/money"
)

// CartProduct is the product embedded in a cart line. Price is the
// pre-discount unit price and Discount is a percentage.
type CartProduct struct {
	ID       int64        `json:"id"`
	Name     string       `json:"name"`
	Price    money.Amount `json:"price"`
	Discount money.Amount `json:"discount"`
}

// CartItem is one cart line
type CartItem struct {
	ID       int64       `json:"id"`
	Quantity int         `json:"quantity"`
	Product  CartProduct `json:"product"`
	Size     string      `json:"size,omitempty"`
	ColorID  *int64      `json:"color_id,omitempty"`
	Stock    *int        `json:"stock,omitempty"`
}

// Cart is the GET /api/cart payload. A nil Items slice means the field was
// absent, which is different from an empty cart.
type Cart struct {
	Items        []CartItem    `json:"items"`
	Subtotal     *money.Amount `json:"subtotal,omitempty"`
	Total        *money.Amount `json:"total,omitempty"`
	ShippingCost *money.Amount `json:"shipping_cost,omitempty"`
	TotalItems   *int          `json:"total_items,omitempty"`
}

// AddItemRequest is the add-to-cart body
type AddItemRequest struct {
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
	ColorID   *int64 `json:"color_id,omitempty"`
	CSRFToken string `json:"csrf_token"`
}

// UpdateItemRequest is the quantity update body
type UpdateItemRequest struct {
	Quantity  int    `json:"quantity"`
	CSRFToken string `json:"csrf_token"`
}

// MutationResponse is returned by add, update and remove.
type MutationResponse struct {
	Success  *bool         `json:"success,omitempty"`
	Message  string        `json:"message,omitempty"`
	Error    string        `json:"error,omitempty"`
	Subtotal *money.Amount `json:"subtotal,omitempty"`
	Total    *money.Amount `json:"total,omitempty"`
}

// ShippingInfo is the checkout address block
type ShippingInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address   string `json:"address"`
	Address2  string `json:"address2,omitempty"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
	Phone     string `json:"phone"`
}

// CheckoutRequest is the checkout submission body
type CheckoutRequest struct {
	ShippingInfo  ShippingInfo `json:"shipping_info"`
	PaymentMethod string       `json:"payment_method"`
}

// CheckoutResponse is the checkout outcome
type CheckoutResponse struct {
	Success         bool   `json:"success"`
	RequiresPayment bool   `json:"requires_payment,omitempty"`
	PaymentURL      string `json:"payment_url,omitempty"`
	RedirectURL     string `json:"redirect_url,omitempty"`
	Error           string `json:"error,omitempty"`
	SuggestCOD      bool   `json:"suggest_cod,omitempty"`
}

// Product is a catalog listing entry
type Product struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Price       money.Amount `json:"price"`
	Discount    money.Amount `json:"discount"`
	Category    string       `json:"category,omitempty"`
	ImageURL    string       `json:"image_url,omitempty"`
	Stock       int          `json:"stock"`
}

// ProductList is the GET /api/products payload
type ProductList struct {
	Success     bool      `json:"success"`
	Products    []Product `json:"products"`
	Total       int       `json:"total"`
	CurrentPage int       `json:"current_page"`
	Pages       int       `json:"pages"`
}

// ProductQuery filters the catalog listing
type ProductQuery struct {
	Search   string
	Category string
	MinPrice string
	MaxPrice string
	Sort     string
	Page     int
	PerPage  int
}

// Values encodes the non-empty filters as query parameters
func (q ProductQuery) Values() url.Values {
	v := url.Values{}
	setIfNotEmpty(v, "search", q.Search)
	setIfNotEmpty(v, "category", q.Category)
	setIfNotEmpty(v, "min_price", q.MinPrice)
	setIfNotEmpty(v, "max_price", q.MaxPrice)
	setIfNotEmpty(v, "sort", q.Sort)
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(q.PerPage))
	}
	return v
}

// StockResponse is the variant stock lookup payload
type StockResponse struct {
	Stock int `json:"stock"`
}

// Suggestion is one live search hit
type Suggestion struct {
	Name  string       `json:"name"`
	Price money.Amount `json:"price"`
	Image string       `json:"image"`
	URL   string       `json:"url"`
}

// AdminProduct is a row of the admin product table
type AdminProduct struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	SKU          string       `json:"sku"`
	CategoryName string       `json:"category_name"`
	Price        money.Amount `json:"price"`
	PriceDisplay string       `json:"price_display,omitempty"`
	Stock        int          `json:"stock"`
	IsActive     bool         `json:"is_active"`
	ImageURL     string       `json:"image_url,omitempty"`
}

// AdminProductPage is the GET /api/admin/products payload
type AdminProductPage struct {
	Items []AdminProduct `json:"items"`
	Total int            `json:"total"`
	Pages int            `json:"pages"`
	Page  int            `json:"page"`
}

// AdminProductQuery filters the admin table
type AdminProductQuery struct {
	Category string
	Sort     string
	Page     int
}

func (q AdminProductQuery) Values() url.Values {
	v := url.Values{}
	setIfNotEmpty(v, "category", q.Category)
	setIfNotEmpty(v, "sort", q.Sort)
	page := q.Page
	if page < 1 {
		page = 1
	}
	v.Set("page", strconv.Itoa(page))
	return v
}

// Notification is one entry of the notification dropdown
type Notification struct {
	ID        int64  `json:"id"`
	Message   string `json:"message"`
	Link      string `json:"link,omitempty"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

// NotificationList is the GET /api/notifications payload
type NotificationList struct {
	Notifications []Notification `json:"notifications"`
}

// UnreadCount is the GET /api/notifications/unread payload
type UnreadCount struct {
	Count int `json:"count"`
}

// PushMessage is delivered over the notification push channel
type PushMessage struct {
	UnreadCount int `json:"unreadCount"`
}

// ReviewRequest is a single product review
type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
	OrderID *int64 `json:"order_id,omitempty"`
}

// ProductRating is one entry of a batch order rating
type ProductRating struct {
	ProductID int64  `json:"product_id"`
	Rating    int    `json:"rating"`
	Review    string `json:"review"`
}

// BatchRatingRequest rates several products of one order
type BatchRatingRequest struct {
	Ratings []ProductRating `json:"ratings"`
}

// CardValidation is the BIN lookup result. Valid=false with Error set is a
// normal answer, not a failed request.
type CardValidation struct {
	Valid          bool   `json:"valid"`
	Type           string `json:"type,omitempty"`
	Issuer         string `json:"issuer,omitempty"`
	CardholderName string `json:"cardholder_name,omitempty"`
	Error          string `json:"error,omitempty"`
}

// WalletPaymentResponse is returned when creating a wallet payment
type WalletPaymentResponse struct {
	Success    bool   `json:"success"`
	PaymentURL string `json:"payment_url,omitempty"`
	Error      string `json:"error,omitempty"`
}

// CancelRequest asks for an order to be cancelled
type CancelRequest struct {
	Reason string `json:"reason"`
}

// SuccessResponse is the generic {success,message} acknowledgement
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func setIfNotEmpty(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
