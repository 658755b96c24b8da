package service

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/ikkim/storefront/internal/app/repository"
	"github.com/ikkim/storefront/internal/fakestore"
	"github.com/ikkim/storefront/internal/router"
	"github.com/ikkim/storefront/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProductServiceTest(t *testing.T) (ProductService, *router.TestServer) {
	srv, client := setupTestServer(t)
	return NewProductService(repository.NewProductRepository(client), NewPriceCalculator(0, "vi")), srv
}

func TestProductService_Suggest(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	results, err := productService.Suggest(context.Background(), "  quần ")
	require.NoError(t, err)
	assert.Equal(t, "quần", results.Query)
	assert.False(t, results.Hidden)
	require.Len(t, results.Items, 2)
	assert.Equal(t, "520.000₫", results.Items[0].PriceText)
	assert.Equal(t, "/product/3", results.Items[0].URL)
	assert.Empty(t, results.Message)
}

func TestProductService_Suggest_BlankQuery(t *testing.T) {
	productService, srv := setupProductServiceTest(t)
	// Any request would hit this fault and fail
	srv.Store.InjectFault(http.MethodGet, "/api/search/suggestions", fakestore.Fault{Status: http.StatusInternalServerError})

	results, err := productService.Suggest(context.Background(), "   ")
	require.NoError(t, err)
	assert.True(t, results.Hidden)
	assert.Empty(t, results.Items)
}

func TestProductService_Suggest_NoMatches(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	results, err := productService.Suggest(context.Background(), "zzz")
	require.NoError(t, err)
	assert.Empty(t, results.Items)
	assert.Equal(t, MsgNoProducts, results.Message)
}

func TestProductService_Suggest_Failure(t *testing.T) {
	productService, srv := setupProductServiceTest(t)
	srv.Store.InjectFault(http.MethodGet, "/api/search/suggestions", fakestore.Fault{
		Status: http.StatusInternalServerError,
		Body:   `{"error":"search index offline"}`,
		Times:  1,
	})

	results, err := productService.Suggest(context.Background(), "áo")
	require.Error(t, err)
	assert.Equal(t, MsgSearchFailed, results.Message)
}

func TestProductService_FilterProducts(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	page, err := productService.FilterProducts(context.Background(), ProductFilter{Category: "quan"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Len(t, page.Products, 2)
	assert.False(t, page.Empty)
	assert.Empty(t, page.Pagination.Pages, "single page shows no pagination")
}

func TestProductService_FilterProducts_Card(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	page, err := productService.FilterProducts(context.Background(), ProductFilter{Search: "thun"})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)

	card := page.Products[0]
	assert.Equal(t, "-50%", card.DiscountText)
	assert.Equal(t, "100.000₫", card.PriceText)
	assert.Equal(t, "200.000₫", card.OriginalText)
	assert.True(t, card.FinalPrice.Equal(money.New(100000)))
	assert.Equal(t, "/product/1", card.URL)
}

func TestProductService_FilterProducts_Empty(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	page, err := productService.FilterProducts(context.Background(), ProductFilter{MinPrice: "5000000"})
	require.NoError(t, err)
	assert.True(t, page.Empty)
	assert.Empty(t, page.Products)
}

func TestProductService_FilterProducts_Pagination(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	page, err := productService.FilterProducts(context.Background(), ProductFilter{Category: "ao", Page: 2, PerPage: 1, Sort: "price_asc"})
	require.NoError(t, err)

	p := page.Pagination
	require.NotNil(t, p.Previous)
	require.NotNil(t, p.Next)
	assert.Equal(t, 1, p.Previous.Page)
	assert.Equal(t, 3, p.Next.Page)
	require.Len(t, p.Pages, 3)
	assert.True(t, p.Pages[1].Current)

	q, err := url.ParseQuery(p.Next.Query)
	require.NoError(t, err)
	assert.Equal(t, "ao", q.Get("category"), "filters carried on links")
	assert.Equal(t, "3", q.Get("page"))
}

func TestBuildPagination(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		pages    int
		previous bool
		next     bool
		links    int
	}{
		{"single page", 1, 1, false, false, 0},
		{"first of three", 1, 3, false, true, 3},
		{"middle", 2, 3, true, true, 3},
		{"last", 3, 3, true, false, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := BuildPagination(tt.current, tt.pages, url.Values{"sort": {"newest"}})
			assert.Equal(t, tt.previous, p.Previous != nil)
			assert.Equal(t, tt.next, p.Next != nil)
			assert.Len(t, p.Pages, tt.links)
			if p.Next != nil {
				assert.False(t, p.Next.Current)
			}
		})
	}
}
