package model

import (
	"github.com/ikkim/storefront/pkg/money"
)

// SearchResults is the live search dropdown
type SearchResults struct {
	Query   string       `json:"query"`
	Hidden  bool         `json:"hidden"`
	Loading bool         `json:"loading"`
	Items   []SearchItem `json:"items"`
	// Message is "No products found" or an error text when there are no items
	Message string `json:"message,omitempty"`
}

// SearchItem is one dropdown entry
type SearchItem struct {
	Name      string `json:"name"`
	PriceText string `json:"price_text"`
	Image     string `json:"image,omitempty"`
	URL       string `json:"url"`
}

// ProductCard is a catalog grid entry with display prices
type ProductCard struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Price        money.Amount `json:"price"`
	FinalPrice   money.Amount `json:"final_price"`
	DiscountText string       `json:"discount_text,omitempty"`
	PriceText    string       `json:"price_text"`
	OriginalText string       `json:"original_text,omitempty"`
	Stock        int          `json:"stock"`
	URL          string       `json:"url"`
}

// CatalogPage is the filtered product listing
type CatalogPage struct {
	Products   []ProductCard `json:"products"`
	Total      int           `json:"total"`
	Pagination Pagination    `json:"pagination"`
	// Empty is set when the filters match nothing
	Empty bool `json:"empty"`
}

// PageLink is a pagination control. A zero Page means the control is hidden.
type PageLink struct {
	Page    int    `json:"page"`
	Query   string `json:"query,omitempty"`
	Current bool   `json:"current"`
}

// Pagination is previous / numbered pages / next
type Pagination struct {
	Previous *PageLink  `json:"previous,omitempty"`
	Pages    []PageLink `json:"pages"`
	Next     *PageLink  `json:"next,omitempty"`
}

// AdminRow is a row of the admin product table
type AdminRow struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	SKU       string `json:"sku"`
	Category  string `json:"category"`
	PriceText string `json:"price_text"`
	Stock     int    `json:"stock"`
	LowStock  bool   `json:"low_stock"`
	Status    string `json:"status"`
	ImageURL  string `json:"image_url,omitempty"`
}

// AdminTable is one page of the admin product table
type AdminTable struct {
	Rows       []AdminRow `json:"rows"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	Pages      int        `json:"pages"`
	Category   string     `json:"category,omitempty"`
	Sort       string     `json:"sort,omitempty"`
	Pagination Pagination `json:"pagination"`
}

// LowStockThreshold flags rows with fewer units than this
const LowStockThreshold = 10
