package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/repository"
	"github.com/ikkim/storefront/pkg/logger"
	"github.com/ikkim/storefront/pkg/storefront"
)

const (
	MsgNoProducts     = "No products found"
	MsgSearchFailed   = "Error fetching results"
	MsgProductsFailed = "Failed to load products"
)

// ProductFilter is the catalog filter form
type ProductFilter struct {
	Search   string
	Category string
	MinPrice string
	MaxPrice string
	Sort     string
	Page     int
	PerPage  int
}

func (f ProductFilter) query() storefront.ProductQuery {
	return storefront.ProductQuery{
		Search:   strings.TrimSpace(f.Search),
		Category: f.Category,
		MinPrice: strings.TrimSpace(f.MinPrice),
		MaxPrice: strings.TrimSpace(f.MaxPrice),
		Sort:     f.Sort,
		Page:     f.Page,
		PerPage:  f.PerPage,
	}
}

// ProductService serves live search and the filtered catalog listing
type ProductService interface {
	Suggest(ctx context.Context, query string) (*model.SearchResults, error)
	FilterProducts(ctx context.Context, filter ProductFilter) (*model.CatalogPage, error)
	Products(ctx context.Context, q storefront.ProductQuery) ([]storefront.Product, error)
}

type productService struct {
	productRepo repository.ProductRepository
	calc        *PriceCalculator
}

func NewProductService(productRepo repository.ProductRepository, calc *PriceCalculator) ProductService {
	return &productService{
		productRepo: productRepo,
		calc:        calc,
	}
}

// Suggest returns the live search dropdown for query. A blank query hides
// the dropdown without a request.
func (s *productService) Suggest(ctx context.Context, query string) (*model.SearchResults, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &model.SearchResults{Hidden: true}, nil
	}

	hits, err := s.productRepo.Suggest(ctx, query)
	if err != nil {
		return &model.SearchResults{Query: query, Message: MsgSearchFailed}, err
	}

	results := &model.SearchResults{Query: query, Items: []model.SearchItem{}}
	for _, h := range hits {
		if h.Name == "" || h.URL == "" {
			continue
		}
		results.Items = append(results.Items, model.SearchItem{
			Name:      h.Name,
			PriceText: s.calc.Format(h.Price),
			Image:     h.Image,
			URL:       h.URL,
		})
	}
	if len(results.Items) == 0 {
		results.Message = MsgNoProducts
	}

	logger.Debug("Search suggestions loaded", map[string]interface{}{
		"query": query,
		"hits":  len(results.Items),
	})
	return results, nil
}

func (s *productService) FilterProducts(ctx context.Context, filter ProductFilter) (*model.CatalogPage, error) {
	q := filter.query()
	if q.Page < 1 {
		q.Page = 1
	}

	list, err := s.productRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}

	page := &model.CatalogPage{
		Products: make([]model.ProductCard, 0, len(list.Products)),
		Total:    list.Total,
	}
	for _, p := range list.Products {
		if p.ID == 0 || p.Name == "" {
			continue
		}
		page.Products = append(page.Products, s.card(p))
	}
	page.Empty = len(page.Products) == 0

	current := list.CurrentPage
	if current < 1 {
		current = q.Page
	}
	params := q.Values()
	params.Del("page")
	page.Pagination = BuildPagination(current, list.Pages, params)

	logger.Info("Catalog filtered", map[string]interface{}{
		"search":   q.Search,
		"category": q.Category,
		"total":    list.Total,
		"page":     current,
	})
	return page, nil
}

// Products returns raw listing entries, used for building chat context
func (s *productService) Products(ctx context.Context, q storefront.ProductQuery) ([]storefront.Product, error) {
	list, err := s.productRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return list.Products, nil
}

func (s *productService) card(p storefront.Product) model.ProductCard {
	final := p.Price.Discount(p.Discount.Decimal())
	card := model.ProductCard{
		ID:         p.ID,
		Name:       p.Name,
		Price:      p.Price,
		FinalPrice: final,
		PriceText:  s.calc.Format(final),
		Stock:      p.Stock,
		URL:        fmt.Sprintf("/product/%d", p.ID),
	}
	if p.Discount.IsPositive() {
		card.DiscountText = "-" + p.Discount.Decimal().String() + "%"
		card.OriginalText = s.calc.Format(p.Price)
	}
	return card
}

// BuildPagination lays out previous, numbered and next links. Nothing is
// shown for a single page; params are carried on every link.
func BuildPagination(current, pages int, params url.Values) model.Pagination {
	var p model.Pagination
	if pages <= 1 {
		return p
	}
	if current < 1 {
		current = 1
	}

	link := func(page int) model.PageLink {
		v := url.Values{}
		for k, vals := range params {
			v[k] = append([]string(nil), vals...)
		}
		v.Set("page", strconv.Itoa(page))
		return model.PageLink{Page: page, Query: v.Encode(), Current: page == current}
	}

	if current > 1 {
		prev := link(current - 1)
		prev.Current = false
		p.Previous = &prev
	}
	for i := 1; i <= pages; i++ {
		p.Pages = append(p.Pages, link(i))
	}
	if current < pages {
		next := link(current + 1)
		next.Current = false
		p.Next = &next
	}
	return p
}
