package fakestore

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ikkim/storefront/pkg/logger"
	"github.com/ikkim/storefront/pkg/money"
	"github.com/ikkim/storefront/pkg/storefront"
	"github.com/xuri/excelize/v2"
)

// DefaultCatalog is the built-in demo catalog
func DefaultCatalog() []Product {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mk := func(id int64, name, category string, price, discount int64, stock int, sizes []string, colors []int64) Product {
		return Product{
			Product: storefront.Product{
				ID:       id,
				Name:     name,
				Price:    money.New(price),
				Discount: money.New(discount),
				Category: category,
				ImageURL: fmt.Sprintf("/static/images/products/%d.jpg", id),
				Stock:    stock,
			},
			SKU:       fmt.Sprintf("SKU-%04d", id),
			Active:    true,
			Sizes:     sizes,
			ColorIDs:  colors,
			CreatedAt: base.Add(time.Duration(id) * time.Hour),
		}
	}

	sizes := []string{"S", "M", "L", "XL"}
	return []Product{
		mk(1, "Áo thun basic", "ao", 200000, 50, 25, sizes, []int64{1, 2}),
		mk(2, "Áo sơ mi linen", "ao", 450000, 0, 12, sizes, nil),
		mk(3, "Quần jean slim", "quan", 650000, 20, 8, []string{"29", "30", "31", "32"}, nil),
		mk(4, "Quần short kaki", "quan", 320000, 10, 30, sizes, nil),
		mk(5, "Váy hoa mùa hè", "vay", 780000, 30, 5, []string{"S", "M", "L"}, []int64{3}),
		mk(6, "Áo khoác bomber", "ao", 1250000, 0, 3, sizes, []int64{1}),
		mk(7, "Mũ lưỡi trai", "phu-kien", 150000, 0, 50, nil, nil),
		mk(8, "Túi tote canvas", "phu-kien", 220000, 15, 0, nil, nil),
	}
}

// Seed fills store with products, one unread notification and a delivered order
func Seed(store *Store, products []Product) {
	for _, p := range products {
		store.PutProduct(p)
	}
	store.AddNotification("Welcome to the store!", "/")
	store.PutOrder(Order{
		ID:            1001,
		PaymentMethod: paymentCOD,
		Status:        "delivered",
		Items: []storefront.CartItem{
			{ID: 1, Quantity: 1, Product: storefront.CartProduct{ID: 1, Name: "Áo thun basic"}},
		},
		Total: money.New(100000),
	})
	logger.Info("Fake storefront seeded", map[string]interface{}{
		"products": len(products),
	})
}

// LoadProductsXLSX reads products from the first sheet of an xlsx file. The
// first row is a header; columns are matched by name (id, name, sku,
// category, price, discount, stock, status, sizes, image) in any order.
func LoadProductsXLSX(path string) ([]Product, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	cols := make(map[string]int)
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := cols["id"]; !ok {
		return nil, fmt.Errorf("missing id column")
	}
	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("missing name column")
	}

	cell := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var products []Product
	skipped := 0
	for _, row := range rows[1:] {
		id, err := strconv.ParseInt(cell(row, "id"), 10, 64)
		name := cell(row, "name")
		if err != nil || id <= 0 || name == "" {
			skipped++
			continue
		}

		stock, _ := strconv.Atoi(cell(row, "stock"))
		discount := money.Parse(cell(row, "discount"))
		if !discount.Valid() {
			discount = money.Zero
		}
		status := strings.ToLower(cell(row, "status"))

		var sizes []string
		for _, s := range strings.Split(cell(row, "sizes"), ",") {
			if s = strings.TrimSpace(s); s != "" {
				sizes = append(sizes, s)
			}
		}

		products = append(products, Product{
			Product: storefront.Product{
				ID:       id,
				Name:     name,
				Price:    money.Parse(cell(row, "price")),
				Discount: discount,
				Category: cell(row, "category"),
				ImageURL: cell(row, "image"),
				Stock:    stock,
			},
			SKU:    cell(row, "sku"),
			Active: status == "" || status == "active",
			Sizes:  sizes,
		})
	}

	logger.Info("Products loaded from XLSX", map[string]interface{}{
		"path":    path,
		"loaded":  len(products),
		"skipped": skipped,
	})
	return products, nil
}

var catalogHeader = []interface{}{"id", "name", "sku", "category", "price", "discount", "stock", "status", "sizes", "image"}

// WriteProductsXLSX writes products in the layout LoadProductsXLSX reads
func WriteProductsXLSX(w io.Writer, products []Product) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &catalogHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, p := range products {
		status := "active"
		if !p.Active {
			status = "inactive"
		}
		row := []interface{}{
			p.ID,
			p.Name,
			p.SKU,
			p.Category,
			p.Price.String(),
			p.Discount.String(),
			p.Stock,
			status,
			strings.Join(p.Sizes, ","),
			p.ImageURL,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// CleanCatalog drops duplicate ids and rows without a valid positive price.
// Each dropped row is described in problems.
func CleanCatalog(products []Product) (clean []Product, problems []string) {
	seen := make(map[int64]bool, len(products))
	for _, p := range products {
		switch {
		case seen[p.ID]:
			problems = append(problems, fmt.Sprintf("product %d: duplicate id", p.ID))
			continue
		case !p.Price.Valid() || !p.Price.IsPositive():
			problems = append(problems, fmt.Sprintf("product %d: invalid price", p.ID))
			continue
		}
		seen[p.ID] = true
		if p.Stock < 0 {
			p.Stock = 0
		}
		if p.SKU == "" {
			p.SKU = fmt.Sprintf("SKU-%04d", p.ID)
		}
		clean = append(clean, p)
	}
	return clean, problems
}
