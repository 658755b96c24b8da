package storefront

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// ListProducts returns a filtered page of the catalog
func (c *Client) ListProducts(ctx context.Context, q ProductQuery) (*ProductList, error) {
	var list ProductList
	if err := c.get(ctx, "/api/products", q.Values(), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// VariantStock returns the stock of one product variant. Empty size or nil
// color are sent as empty parameters.
func (c *Client) VariantStock(ctx context.Context, productID int64, size string, colorID *int64) (int, error) {
	q := url.Values{}
	q.Set("size", size)
	if colorID != nil {
		q.Set("color_id", strconv.FormatInt(*colorID, 10))
	} else {
		q.Set("color_id", "")
	}

	var resp StockResponse
	if err := c.get(ctx, fmt.Sprintf("/api/products/%d/stock", productID), q, &resp); err != nil {
		return 0, err
	}
	return resp.Stock, nil
}

// SearchSuggestions returns live search hits for q
func (c *Client) SearchSuggestions(ctx context.Context, q string) ([]Suggestion, error) {
	var hits []Suggestion
	if err := c.get(ctx, "/api/search/suggestions", url.Values{"q": {q}}, &hits); err != nil {
		return nil, err
	}
	return hits, nil
}
