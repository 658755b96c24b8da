package controller

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/service"
	"github.com/ikkim/storefront/internal/debounce"
	"github.com/ikkim/storefront/internal/ui"
	"github.com/ikkim/storefront/pkg/logger"
)

// SearchController drives the header live search and the catalog filter
// form. Both inputs are debounced; a response that arrives after newer input
// still replaces the displayed state.
type SearchController struct {
	productService service.ProductService
	notices        *ui.NoticeBoard

	search *debounce.Debouncer
	filter *debounce.Debouncer

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	results   model.SearchResults
	catalog   *model.CatalogPage
	form      service.ProductFilter
	onResults func(model.SearchResults)
	onCatalog func(*model.CatalogPage)
}

func NewSearchController(
	productService service.ProductService,
	notices *ui.NoticeBoard,
	searchDelay, filterDelay time.Duration,
) *SearchController {
	ctx, cancel := context.WithCancel(context.Background())
	return &SearchController{
		productService: productService,
		notices:        notices,
		search:         debounce.New(searchDelay),
		filter:         debounce.New(filterDelay),
		ctx:            ctx,
		cancel:         cancel,
		results:        model.SearchResults{Hidden: true},
	}
}

// OnResults registers fn to receive live search updates
func (ctrl *SearchController) OnResults(fn func(model.SearchResults)) {
	ctrl.mu.Lock()
	ctrl.onResults = fn
	ctrl.mu.Unlock()
}

// OnCatalog registers fn to receive catalog reloads
func (ctrl *SearchController) OnCatalog(fn func(*model.CatalogPage)) {
	ctrl.mu.Lock()
	ctrl.onCatalog = fn
	ctrl.mu.Unlock()
}

// Input is a keystroke in the search box. A blank query hides the results
// at once and drops any pending request.
func (ctrl *SearchController) Input(query string) {
	if strings.TrimSpace(query) == "" {
		ctrl.search.Cancel()
		ctrl.setResults(model.SearchResults{Hidden: true})
		return
	}

	ctrl.setResults(model.SearchResults{Query: strings.TrimSpace(query), Loading: true})
	ctrl.search.Trigger(func() {
		ctrl.Search(ctrl.ctx, query)
	})
}

// Search runs a query immediately
func (ctrl *SearchController) Search(ctx context.Context, query string) (model.SearchResults, error) {
	results, err := ctrl.productService.Suggest(ctx, query)
	if err != nil {
		logger.Warn("Live search failed", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
	}
	if results == nil {
		results = &model.SearchResults{Hidden: true}
	}
	ctrl.setResults(*results)
	return *results, err
}

func (ctrl *SearchController) setResults(results model.SearchResults) {
	ctrl.mu.Lock()
	ctrl.results = results
	fn := ctrl.onResults
	ctrl.mu.Unlock()

	if fn != nil {
		fn(results)
	}
}

func (ctrl *SearchController) Results() model.SearchResults {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	return ctrl.results
}

// ChangeFilter is an edit of the filter form. Any change other than the page
// itself starts again from page one.
func (ctrl *SearchController) ChangeFilter(f service.ProductFilter) {
	ctrl.mu.Lock()
	if f.Page == ctrl.form.Page && f != ctrl.form {
		f.Page = 1
	}
	ctrl.form = f
	ctrl.mu.Unlock()

	ctrl.filter.Trigger(func() {
		ctrl.LoadCatalog(ctrl.ctx, f)
	})
}

// LoadCatalog loads a catalog page immediately
func (ctrl *SearchController) LoadCatalog(ctx context.Context, f service.ProductFilter) (*model.CatalogPage, error) {
	page, err := ctrl.productService.FilterProducts(ctx, f)
	if err != nil {
		ctrl.notices.Error(err, service.MsgProductsFailed)
		return nil, err
	}

	ctrl.mu.Lock()
	ctrl.form = f
	ctrl.catalog = page
	fn := ctrl.onCatalog
	ctrl.mu.Unlock()

	if fn != nil {
		fn(page)
	}
	return page, nil
}

func (ctrl *SearchController) Catalog() *model.CatalogPage {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	return ctrl.catalog
}

// Close drops pending input and cancels requests still running
func (ctrl *SearchController) Close() {
	ctrl.search.Cancel()
	ctrl.filter.Cancel()
	ctrl.cancel()
}
