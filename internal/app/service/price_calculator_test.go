package service

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/pkg/logger"
	"github.com/ikkim/storefront/pkg/money"
	"github.com/ikkim/storefront/pkg/storefront"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amountPtr(units int64) *money.Amount {
	a := money.New(units)
	return &a
}

func cartOf(items ...storefront.CartItem) *storefront.Cart {
	if items == nil {
		items = []storefront.CartItem{}
	}
	return &storefront.Cart{Items: items}
}

func item(id int64, qty int, price, discount int64) storefront.CartItem {
	return storefront.CartItem{
		ID:       id,
		Quantity: qty,
		Product: storefront.CartProduct{
			ID:       id * 10,
			Name:     "Item",
			Price:    money.New(price),
			Discount: money.New(discount),
		},
	}
}

func TestPriceCalculator_BuildView(t *testing.T) {
	calc := NewPriceCalculator(0, "vi")

	cart := cartOf(item(1, 2, 200000, 50), item(2, 1, 450000, 0))
	cart.Total = amountPtr(580000)
	view := calc.BuildView(cart)

	require.Len(t, view.Lines, 2)
	assert.Equal(t, 3, view.ItemCount)
	assert.True(t, view.Lines[0].FinalUnitPrice.Equal(money.New(100000)))
	assert.True(t, view.Lines[0].Subtotal.Equal(money.New(200000)))
	assert.True(t, view.Subtotal.Equal(money.New(650000)))
	assert.True(t, view.Total.Equal(money.New(580000)), "server total is shown")
	assert.Equal(t, "Add 350.000₫ more to get free shipping!", view.FreeShipping.Message)
}

func TestPriceCalculator_BuildView_Fallbacks(t *testing.T) {
	calc := NewPriceCalculator(0, "vi")

	tests := []struct {
		name     string
		cart     *storefront.Cart
		subtotal int64
		total    int64
	}{
		{"nil cart", nil, 0, 0},
		{"empty cart", cartOf(), 0, 0},
		{"items absent uses server subtotal", &storefront.Cart{Subtotal: amountPtr(300000)}, 300000, 300000},
		{"server total missing uses subtotal", cartOf(item(1, 1, 100000, 0)), 100000, 100000},
		{"mismatched server subtotal ignored", &storefront.Cart{
			Items:    []storefront.CartItem{item(1, 1, 100000, 0)},
			Subtotal: amountPtr(999),
		}, 100000, 100000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := calc.BuildView(tt.cart)
			assert.True(t, view.Subtotal.Equal(money.New(tt.subtotal)), "subtotal %s", view.Subtotal)
			assert.True(t, view.Total.Equal(money.New(tt.total)), "total %s", view.Total)
			assert.NotNil(t, view.Lines)
		})
	}
}

func TestPriceCalculator_BuildView_LogsSubtotalMismatch(t *testing.T) {
	var buf bytes.Buffer
	logger.Initialize(logger.Config{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() { logger.Initialize(logger.Config{Level: "info", Format: "json"}) })

	calc := NewPriceCalculator(0, "vi")

	calc.BuildView(&storefront.Cart{
		Items:    []storefront.CartItem{item(1, 1, 100000, 0)},
		Subtotal: amountPtr(100000),
	})
	assert.Empty(t, strings.TrimSpace(buf.String()), "a matching subtotal logs nothing")

	calc.BuildView(&storefront.Cart{
		Items:    []storefront.CartItem{item(1, 1, 100000, 0)},
		Subtotal: amountPtr(999),
	})

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &record))
	assert.Equal(t, "warn", record["level"])
	assert.Equal(t, "Cart subtotal differs from server subtotal", record["message"])
	assert.Equal(t, money.New(100000).String(), record["computed"])
	assert.Equal(t, money.New(999).String(), record["server"])
	assert.EqualValues(t, 1, record["items"])
}

func TestPriceCalculator_FreeShipping(t *testing.T) {
	calc := NewPriceCalculator(500000, "vi")

	tests := []struct {
		subtotal  money.Amount
		eligible  bool
		remaining int64
	}{
		{money.New(0), false, 500000},
		{money.New(499999), false, 1},
		{money.New(500000), true, 0},
		{money.New(900000), true, 0},
		{money.Invalid(), false, 500000},
	}

	for _, tt := range tests {
		fs := calc.FreeShipping(tt.subtotal)
		assert.Equal(t, tt.eligible, fs.Eligible)
		assert.True(t, fs.Remaining.Equal(money.New(tt.remaining)))
		if tt.eligible {
			assert.Equal(t, "Eligible for free shipping!", fs.Message)
		}
	}
}

func TestPriceCalculator_PatchLineAndSummary(t *testing.T) {
	calc := NewPriceCalculator(0, "vi")
	view := calc.BuildView(cartOf(item(1, 1, 200000, 50), item(2, 1, 100000, 0)))

	patched := calc.PatchLine(view, 1, 3)
	line, ok := patched.Line(1)
	require.True(t, ok)
	assert.Equal(t, 3, line.Quantity)
	assert.True(t, line.Subtotal.Equal(money.New(300000)))
	assert.Equal(t, 4, patched.ItemCount)
	assert.True(t, patched.Subtotal.Equal(view.Subtotal), "summary untouched by line patch")

	original, _ := view.Line(1)
	assert.Equal(t, 1, original.Quantity, "input view is not mutated")

	summary := calc.PatchSummary(patched, &storefront.MutationResponse{
		Subtotal: amountPtr(400000),
		Total:    amountPtr(430000),
	})
	assert.True(t, summary.Subtotal.Equal(money.New(400000)))
	assert.True(t, summary.Total.Equal(money.New(430000)))

	assert.Equal(t, patched, calc.PatchSummary(patched, nil))
}

func TestPriceCalculator_Format(t *testing.T) {
	calc := NewPriceCalculator(0, "vi")

	assert.Equal(t, "1.250.000₫", calc.Format(money.New(1250000)))
	assert.Equal(t, "0₫", calc.Format(money.Invalid()))
	assert.False(t, model.CartLine{}.Discounted())
}
