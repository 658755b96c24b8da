package service

import (
	"fmt"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/pkg/logger"
	"github.com/ikkim/storefront/pkg/money"
	"github.com/ikkim/storefront/pkg/storefront"
)

const (
	msgFreeShippingEligible = "Eligible for free shipping!"
	msgFreeShippingRemain   = "Add %s more to get free shipping!"

	// DefaultFreeShippingThreshold applies when no threshold is configured
	DefaultFreeShippingThreshold = 1000000
)

// PriceCalculator derives every displayed cart value from a server payload.
// Product prices are pre-discount and discounts are percentages.
type PriceCalculator struct {
	threshold money.Amount
	formatter *money.Formatter
}

func NewPriceCalculator(threshold int64, locale string) *PriceCalculator {
	if threshold <= 0 {
		threshold = DefaultFreeShippingThreshold
	}
	return &PriceCalculator{
		threshold: money.New(threshold),
		formatter: money.NewFormatter(locale),
	}
}

// Format renders an amount in the configured locale
func (c *PriceCalculator) Format(a money.Amount) string {
	return c.formatter.Format(a)
}

// FinalPrice applies the product discount to its unit price
func (c *PriceCalculator) FinalPrice(p storefront.CartProduct) money.Amount {
	return p.Price.Discount(p.Discount.Decimal())
}

// Line builds one rendered cart row
func (c *PriceCalculator) Line(item storefront.CartItem) model.CartLine {
	final := c.FinalPrice(item.Product)
	return model.CartLine{
		ItemID:          item.ID,
		ProductID:       item.Product.ID,
		Name:            item.Product.Name,
		Size:            item.Size,
		ColorID:         item.ColorID,
		Quantity:        item.Quantity,
		Stock:           item.Stock,
		UnitPrice:       item.Product.Price,
		DiscountPercent: item.Product.Discount.Decimal(),
		FinalUnitPrice:  final,
		Subtotal:        final.Mul(item.Quantity),
	}
}

// BuildView recomputes the whole view from a fetched cart. The displayed
// subtotal is the sum of line subtotals; the server subtotal is only used
// when the payload has no items field.
func (c *PriceCalculator) BuildView(cart *storefront.Cart) model.CartView {
	view := model.CartView{Lines: []model.CartLine{}}
	if cart == nil {
		view.Subtotal = money.Zero
		view.Total = money.Zero
		view.FreeShipping = c.FreeShipping(view.Subtotal)
		return view
	}

	view.ServerSubtotal = cart.Subtotal
	view.ServerTotal = cart.Total
	view.ShippingCost = cart.ShippingCost

	if cart.Items == nil {
		view.Subtotal = serverOrZero(cart.Subtotal)
	} else {
		subtotal := money.Zero
		for _, item := range cart.Items {
			line := c.Line(item)
			view.Lines = append(view.Lines, line)
			view.ItemCount += line.Quantity
			subtotal = subtotal.Add(line.Subtotal)
		}
		view.Subtotal = subtotal

		if cart.Subtotal != nil && cart.Subtotal.Valid() && !cart.Subtotal.Equal(subtotal) {
			logger.Warn("Cart subtotal differs from server subtotal", map[string]interface{}{
				"computed": subtotal.String(),
				"server":   cart.Subtotal.String(),
				"items":    len(cart.Items),
			})
		}
	}

	view.Total = c.total(cart.Total, view.Subtotal)
	view.FreeShipping = c.FreeShipping(view.Subtotal)
	return view
}

// FreeShipping renders the free shipping banner for a subtotal. The
// remaining amount is never negative.
func (c *PriceCalculator) FreeShipping(subtotal money.Amount) model.FreeShipping {
	if !subtotal.Valid() {
		subtotal = money.Zero
	}
	if subtotal.Cmp(c.threshold) >= 0 {
		return model.FreeShipping{
			Eligible:  true,
			Remaining: money.Zero,
			Message:   msgFreeShippingEligible,
		}
	}
	remaining := c.threshold.Sub(subtotal).Abs()
	return model.FreeShipping{
		Eligible:  false,
		Remaining: remaining,
		Message:   fmt.Sprintf(msgFreeShippingRemain, c.Format(remaining)),
	}
}

// PatchLine sets the quantity of one line and recomputes its subtotal and
// the item count. The summary is left alone.
func (c *PriceCalculator) PatchLine(view model.CartView, itemID int64, quantity int) model.CartView {
	lines := make([]model.CartLine, len(view.Lines))
	copy(lines, view.Lines)

	count := 0
	for i := range lines {
		if lines[i].ItemID == itemID {
			lines[i].Quantity = quantity
			lines[i].Subtotal = lines[i].FinalUnitPrice.Mul(quantity)
		}
		count += lines[i].Quantity
	}
	view.Lines = lines
	view.ItemCount = count
	return view
}

// PatchSummary applies the subtotal and total carried by a mutation response
func (c *PriceCalculator) PatchSummary(view model.CartView, resp *storefront.MutationResponse) model.CartView {
	if resp == nil {
		return view
	}
	if resp.Subtotal != nil && resp.Subtotal.Valid() {
		view.Subtotal = *resp.Subtotal
		view.ServerSubtotal = resp.Subtotal
		view.FreeShipping = c.FreeShipping(view.Subtotal)
	}
	if resp.Total != nil && resp.Total.Valid() {
		view.Total = *resp.Total
		view.ServerTotal = resp.Total
	}
	return view
}

func (c *PriceCalculator) total(server *money.Amount, subtotal money.Amount) money.Amount {
	if server != nil && server.Valid() {
		return *server
	}
	return subtotal
}

func serverOrZero(a *money.Amount) money.Amount {
	if a == nil || !a.Valid() {
		return money.Zero
	}
	return *a
}
