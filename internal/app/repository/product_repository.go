package repository

import (
	"context"

	"github.com/ikkim/storefront/pkg/logger"
	"github.com/ikkim/storefront/pkg/storefront"
)

// ProductRepository reads the catalog and manages products from the admin side
type ProductRepository interface {
	List(ctx context.Context, q storefront.ProductQuery) (*storefront.ProductList, error)
	VariantStock(ctx context.Context, productID int64, size string, colorID *int64) (int, error)
	Suggest(ctx context.Context, q string) ([]storefront.Suggestion, error)
	ListAdmin(ctx context.Context, q storefront.AdminProductQuery) (*storefront.AdminProductPage, error)
	Delete(ctx context.Context, productID int64) error
}

type productRepository struct {
	client *storefront.Client
}

func NewProductRepository(client *storefront.Client) ProductRepository {
	return &productRepository{client: client}
}

func (r *productRepository) List(ctx context.Context, q storefront.ProductQuery) (*storefront.ProductList, error) {
	logger.Debug("Listing products from storefront", map[string]interface{}{
		"search":   q.Search,
		"category": q.Category,
		"page":     q.Page,
	})

	list, err := r.client.ListProducts(ctx, q)
	if err != nil {
		logger.Error("Failed to list products from storefront", err, map[string]interface{}{
			"search": q.Search,
		})
		return nil, err
	}
	return list, nil
}

func (r *productRepository) VariantStock(ctx context.Context, productID int64, size string, colorID *int64) (int, error) {
	stock, err := r.client.VariantStock(ctx, productID, size, colorID)
	if err != nil {
		logger.Error("Failed to fetch variant stock", err, map[string]interface{}{
			"product_id": productID,
			"size":       size,
		})
		return 0, err
	}
	return stock, nil
}

func (r *productRepository) Suggest(ctx context.Context, q string) ([]storefront.Suggestion, error) {
	hits, err := r.client.SearchSuggestions(ctx, q)
	if err != nil {
		logger.Error("Failed to fetch search suggestions", err, map[string]interface{}{
			"query": q,
		})
		return nil, err
	}
	return hits, nil
}

func (r *productRepository) ListAdmin(ctx context.Context, q storefront.AdminProductQuery) (*storefront.AdminProductPage, error) {
	page, err := r.client.ListAdminProducts(ctx, q)
	if err != nil {
		logger.Error("Failed to list admin products", err, map[string]interface{}{
			"category": q.Category,
			"sort":     q.Sort,
			"page":     q.Page,
		})
		return nil, err
	}
	return page, nil
}

func (r *productRepository) Delete(ctx context.Context, productID int64) error {
	logger.Debug("Deleting product on storefront", map[string]interface{}{
		"product_id": productID,
	})

	if err := r.client.DeleteProduct(ctx, productID); err != nil {
		logger.Error("Failed to delete product on storefront", err, map[string]interface{}{
			"product_id": productID,
		})
		return err
	}
	return nil
}
