package fakestore

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/ikkim/storefront/internal/middleware"
	"github.com/ikkim/storefront/pkg/money"
	"github.com/ikkim/storefront/pkg/storefront"
)

// ListProducts returns a filtered page of active products
// GET /api/products
func (h *Handler) ListProducts(c *gin.Context) {
	filter := productFilter{
		search:   strings.TrimSpace(c.Query("search")),
		category: c.Query("category"),
		minPrice: optionalAmount(c.Query("min_price")),
		maxPrice: optionalAmount(c.Query("max_price")),
		sort:     c.Query("sort"),
	}
	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", defaultPerPage)

	h.store.mu.Lock()
	matched, total := h.store.listProductsLocked(filter)
	h.store.mu.Unlock()

	start, end, pages := paginate(total, page, perPage)
	products := make([]storefront.Product, 0, end-start)
	for _, p := range matched[start:end] {
		products = append(products, p.Product)
	}

	c.JSON(http.StatusOK, storefront.ProductList{
		Success:     true,
		Products:    products,
		Total:       total,
		CurrentPage: page,
		Pages:       pages,
	})
}

// VariantStock returns the stock of one size/color combination
// GET /api/products/:id/stock
func (h *Handler) VariantStock(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var colorID *int64
	if raw := c.Query("color_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid color")
			return
		}
		colorID = &id
	}

	p, found := h.store.Product(productID)
	if !found {
		apperrors.NotFound(c, apperrors.ResourceNotFound, "Product not found")
		return
	}

	c.JSON(http.StatusOK, storefront.StockResponse{Stock: p.stockFor(c.Query("size"), colorID)})
}

// SearchSuggestions returns live search hits
// GET /api/search/suggestions
func (h *Handler) SearchSuggestions(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	hits := []storefront.Suggestion{}
	if q == "" {
		c.JSON(http.StatusOK, hits)
		return
	}

	h.store.mu.Lock()
	matched, _ := h.store.listProductsLocked(productFilter{search: q, sort: "name"})
	h.store.mu.Unlock()

	for _, p := range matched {
		if len(hits) == suggestionLimit {
			break
		}
		hits = append(hits, storefront.Suggestion{
			Name:  p.Name,
			Price: p.FinalPrice(),
			Image: p.ImageURL,
			URL:   fmt.Sprintf("/product/%d", p.ID),
		})
	}
	c.JSON(http.StatusOK, hits)
}

// AdminProducts returns one page of the admin table, inactive products included
// GET /api/admin/products
func (h *Handler) AdminProducts(c *gin.Context) {
	category := c.Query("category")
	sortBy := c.Query("sort")
	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}

	h.store.mu.Lock()
	var matched []*Product
	for _, p := range h.store.products {
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		matched = append(matched, p)
	}
	sortProducts(matched, sortBy)

	start, end, pages := paginate(len(matched), page, adminPerPage)
	items := make([]storefront.AdminProduct, 0, end-start)
	for _, p := range matched[start:end] {
		items = append(items, storefront.AdminProduct{
			ID:           p.ID,
			Name:         p.Name,
			SKU:          p.SKU,
			CategoryName: p.Category,
			Price:        p.Price,
			PriceDisplay: money.Format(p.Price),
			Stock:        p.Stock,
			IsActive:     p.Active,
			ImageURL:     p.ImageURL,
		})
	}
	total := len(matched)
	h.store.mu.Unlock()

	c.JSON(http.StatusOK, storefront.AdminProductPage{
		Items: items,
		Total: total,
		Pages: pages,
		Page:  page,
	})
}

// DeleteProduct removes a product and any cart lines holding it
// POST /admin/products/:id/delete
func (h *Handler) DeleteProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	if _, found := h.store.products[productID]; !found {
		apperrors.NotFound(c, apperrors.ResourceNotFound, "Product not found")
		return
	}
	delete(h.store.products, productID)

	kept := h.store.cart[:0]
	for _, line := range h.store.cart {
		if line.Product.ID != productID {
			kept = append(kept, line)
		}
	}
	h.store.cart = kept

	log.Info("Product deleted", map[string]interface{}{
		"product_id": productID,
	})
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Categories lists the distinct product categories
// GET /api/categories
func (h *Handler) Categories(c *gin.Context) {
	h.store.mu.Lock()
	seen := make(map[string]bool)
	var names []string
	for _, p := range h.store.products {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			names = append(names, p.Category)
		}
	}
	h.store.mu.Unlock()

	sort.Strings(names)
	c.JSON(http.StatusOK, gin.H{"categories": names})
}

func optionalAmount(raw string) money.Amount {
	if strings.TrimSpace(raw) == "" {
		return money.Invalid()
	}
	return money.Parse(raw)
}
