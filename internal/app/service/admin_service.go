package service

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/repository"
	"github.com/ikkim/storefront/pkg/logger"
	"github.com/ikkim/storefront/pkg/storefront"
	"github.com/xuri/excelize/v2"
)

const (
	MsgDeleteFailed  = "Error deleting product"
	MsgDeleteConfirm = "Are you sure you want to delete this product? This action cannot be undone."
	StatusActive     = "Active"
	StatusInactive   = "Inactive"

	exportSheet      = "Products"
	exportMaxPages   = 1000
	defaultAdminSort = "name"
)

var exportHeader = []interface{}{"id", "name", "sku", "category", "price", "price_display", "stock", "status", "image"}

// AdminService backs the admin product table
type AdminService interface {
	LoadPage(ctx context.Context, q storefront.AdminProductQuery) (*model.AdminTable, error)
	// Delete removes a product and reloads the page the admin was on
	Delete(ctx context.Context, productID int64, current storefront.AdminProductQuery) (*model.AdminTable, error)
	// Export writes every product matching q as an xlsx workbook and
	// returns the number of rows written
	Export(ctx context.Context, q storefront.AdminProductQuery, w io.Writer) (int, error)
}

type adminService struct {
	productRepo repository.ProductRepository
	calc        *PriceCalculator
}

func NewAdminService(productRepo repository.ProductRepository, calc *PriceCalculator) AdminService {
	return &adminService{
		productRepo: productRepo,
		calc:        calc,
	}
}

func (s *adminService) LoadPage(ctx context.Context, q storefront.AdminProductQuery) (*model.AdminTable, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Sort == "" {
		q.Sort = defaultAdminSort
	}

	page, err := s.productRepo.ListAdmin(ctx, q)
	if err != nil {
		return nil, err
	}

	table := &model.AdminTable{
		Rows:     make([]model.AdminRow, 0, len(page.Items)),
		Total:    page.Total,
		Page:     page.Page,
		Pages:    page.Pages,
		Category: q.Category,
		Sort:     q.Sort,
	}
	if table.Page < 1 {
		table.Page = q.Page
	}
	for _, p := range page.Items {
		table.Rows = append(table.Rows, s.row(p))
	}

	params := q.Values()
	params.Del("page")
	table.Pagination = BuildPagination(table.Page, table.Pages, params)
	return table, nil
}

func (s *adminService) Delete(ctx context.Context, productID int64, current storefront.AdminProductQuery) (*model.AdminTable, error) {
	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return nil, err
	}

	logger.Info("Product deleted", map[string]interface{}{
		"product_id": productID,
	})

	table, err := s.LoadPage(ctx, current)
	if err != nil {
		return nil, err
	}
	// The last row of the last page was removed
	if len(table.Rows) == 0 && table.Pages > 0 && current.Page > table.Pages {
		current.Page = table.Pages
		return s.LoadPage(ctx, current)
	}
	return table, nil
}

func (s *adminService) Export(ctx context.Context, q storefront.AdminProductQuery, w io.Writer) (int, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return 0, fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	written := 0
	q.Page = 1
	for q.Page <= exportMaxPages {
		page, err := s.productRepo.ListAdmin(ctx, q)
		if err != nil {
			return written, err
		}

		for _, p := range page.Items {
			cell, err := excelize.CoordinatesToCellName(1, written+2)
			if err != nil {
				return written, err
			}
			row := s.exportRow(p)
			if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
				return written, fmt.Errorf("failed to write row %d: %w", written+2, err)
			}
			written++
		}

		if page.Pages <= q.Page || len(page.Items) == 0 {
			break
		}
		q.Page++
	}

	if err := f.Write(w); err != nil {
		return written, fmt.Errorf("failed to write workbook: %w", err)
	}

	logger.Info("Products exported", map[string]interface{}{
		"rows":     written,
		"category": q.Category,
	})
	return written, nil
}

func (s *adminService) row(p storefront.AdminProduct) model.AdminRow {
	return model.AdminRow{
		ID:        p.ID,
		Name:      p.Name,
		SKU:       p.SKU,
		Category:  p.CategoryName,
		PriceText: s.priceText(p),
		Stock:     p.Stock,
		LowStock:  p.Stock < model.LowStockThreshold,
		Status:    statusText(p.IsActive),
		ImageURL:  p.ImageURL,
	}
}

func (s *adminService) exportRow(p storefront.AdminProduct) []interface{} {
	price := ""
	if p.Price.Valid() {
		price = p.Price.Decimal().Round(0).String()
	}
	return []interface{}{
		strconv.FormatInt(p.ID, 10),
		p.Name,
		p.SKU,
		p.CategoryName,
		price,
		s.priceText(p),
		p.Stock,
		statusText(p.IsActive),
		p.ImageURL,
	}
}

// priceText prefers the server's display string
func (s *adminService) priceText(p storefront.AdminProduct) string {
	if p.PriceDisplay != "" {
		return p.PriceDisplay
	}
	return s.calc.Format(p.Price)
}

func statusText(active bool) string {
	if active {
		return StatusActive
	}
	return StatusInactive
}
