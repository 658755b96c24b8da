package model

import (
	"github.com/ikkim/storefront/pkg/money"
	"github.com/shopspring/decimal"
)

// CartLine is one rendered cart row. UnitPrice is the pre-discount price.
type CartLine struct {
	ItemID          int64           `json:"item_id"`
	ProductID       int64           `json:"product_id"`
	Name            string          `json:"name"`
	Size            string          `json:"size,omitempty"`
	ColorID         *int64          `json:"color_id,omitempty"`
	Quantity        int             `json:"quantity"`
	Stock           *int            `json:"stock,omitempty"`
	UnitPrice       money.Amount    `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	FinalUnitPrice  money.Amount    `json:"final_unit_price"`
	Subtotal        money.Amount    `json:"subtotal"`
}

// Discounted reports whether the line shows a struck-through original price
func (l CartLine) Discounted() bool {
	return l.DiscountPercent.IsPositive()
}

// FreeShipping is the shipping banner state
type FreeShipping struct {
	Eligible  bool         `json:"eligible"`
	Remaining money.Amount `json:"remaining"`
	Message   string       `json:"message"`
}

// CartView is every value the cart page, badge and checkout gate render.
// It is rebuilt from scratch after each reconciliation.
type CartView struct {
	Lines []CartLine `json:"lines"`

	// ItemCount is the sum of line quantities; it drives the badge
	ItemCount int `json:"item_count"`

	Subtotal     money.Amount  `json:"subtotal"`
	Total        money.Amount  `json:"total"`
	ShippingCost *money.Amount `json:"shipping_cost,omitempty"`

	// ServerSubtotal and ServerTotal are what checkout is charged against
	ServerSubtotal *money.Amount `json:"server_subtotal,omitempty"`
	ServerTotal    *money.Amount `json:"server_total,omitempty"`

	FreeShipping FreeShipping `json:"free_shipping"`
}

// IsEmpty reports whether the cart has no lines
func (v CartView) IsEmpty() bool {
	return len(v.Lines) == 0
}

// Line finds a line by cart item id
func (v CartView) Line(itemID int64) (CartLine, bool) {
	for _, l := range v.Lines {
		if l.ItemID == itemID {
			return l, true
		}
	}
	return CartLine{}, false
}

// AddItemInput is what the product page submits
type AddItemInput struct {
	ProductID int64
	Quantity  int
	Size      string
	ColorID   *int64
}

// ProductForm describes which variant selectors the product page exposes
type ProductForm struct {
	HasSizeSelector     bool
	SizeSelectorEnabled bool
	HasColorOptions     bool
}

// RequiresSize reports whether a size must be chosen before adding
func (f ProductForm) RequiresSize() bool {
	return f.HasSizeSelector && f.SizeSelectorEnabled
}

// QuantityOptions is the content of a stock-bounded quantity selector
type QuantityOptions struct {
	Options  []int `json:"options"`
	Selected int   `json:"selected"`
	Disabled bool  `json:"disabled"`
}

// Badge is the header cart badge
type Badge struct {
	Count  int  `json:"count"`
	Hidden bool `json:"hidden"`
}

// GateState is the checkout button state
type GateState struct {
	Enabled bool   `json:"enabled"`
	Tooltip string `json:"tooltip,omitempty"`
}
