package controller

import (
	"context"
	"io"
	"sync"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/service"
	"github.com/ikkim/storefront/internal/ui"
	"github.com/ikkim/storefront/pkg/logger"
	"github.com/ikkim/storefront/pkg/storefront"
)

const msgAdminLoadFailed = "Failed to load products"

// Confirm asks the user a yes/no question
type Confirm func(question string) bool

// AdminController is the admin product table with its filters
type AdminController struct {
	adminService service.AdminService
	notices      *ui.NoticeBoard

	mu    sync.Mutex
	query storefront.AdminProductQuery
	table *model.AdminTable
}

func NewAdminController(adminService service.AdminService, notices *ui.NoticeBoard) *AdminController {
	return &AdminController{
		adminService: adminService,
		notices:      notices,
		query:        storefront.AdminProductQuery{Page: 1},
	}
}

// Load shows the page described by q
func (ctrl *AdminController) Load(ctx context.Context, q storefront.AdminProductQuery) (*model.AdminTable, error) {
	table, err := ctrl.adminService.LoadPage(ctx, q)
	if err != nil {
		ctrl.notices.Error(err, msgAdminLoadFailed)
		return nil, err
	}

	ctrl.mu.Lock()
	q.Page = table.Page
	q.Sort = table.Sort
	ctrl.query = q
	ctrl.table = table
	ctrl.mu.Unlock()
	return table, nil
}

// FilterCategory shows the first page of a category. An empty category
// shows every product.
func (ctrl *AdminController) FilterCategory(ctx context.Context, category string) (*model.AdminTable, error) {
	q := ctrl.Query()
	q.Category = category
	q.Page = 1
	return ctrl.Load(ctx, q)
}

// SortBy reorders the table from the first page
func (ctrl *AdminController) SortBy(ctx context.Context, sort string) (*model.AdminTable, error) {
	q := ctrl.Query()
	q.Sort = sort
	q.Page = 1
	return ctrl.Load(ctx, q)
}

func (ctrl *AdminController) GoToPage(ctx context.Context, page int) (*model.AdminTable, error) {
	q := ctrl.Query()
	q.Page = page
	return ctrl.Load(ctx, q)
}

// Delete removes a product once confirmed and reloads the current page. It
// reports whether the product was deleted.
func (ctrl *AdminController) Delete(ctx context.Context, productID int64, confirm Confirm) (bool, error) {
	if confirm != nil && !confirm(service.MsgDeleteConfirm) {
		return false, nil
	}

	table, err := ctrl.adminService.Delete(ctx, productID, ctrl.Query())
	if err != nil {
		ctrl.notices.Error(err, service.MsgDeleteFailed)
		return false, err
	}

	ctrl.mu.Lock()
	ctrl.query.Page = table.Page
	ctrl.table = table
	ctrl.mu.Unlock()
	return true, nil
}

// Export writes every product matching the current filters as xlsx
func (ctrl *AdminController) Export(ctx context.Context, w io.Writer) (int, error) {
	q := ctrl.Query()
	rows, err := ctrl.adminService.Export(ctx, q, w)
	if err != nil {
		logger.Error("Product export failed", err, map[string]interface{}{
			"category": q.Category,
		})
		ctrl.notices.Error(err, "")
		return rows, err
	}
	return rows, nil
}

func (ctrl *AdminController) Query() storefront.AdminProductQuery {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	return ctrl.query
}

func (ctrl *AdminController) Table() *model.AdminTable {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	return ctrl.table
}
