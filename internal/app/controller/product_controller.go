package controller

import (
	"context"
	"sync"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/service"
	"github.com/ikkim/storefront/internal/ui"
)

// ProductController is the product detail page: variant selection, the
// stock-bounded quantity selector and the add-to-cart button.
type ProductController struct {
	cartService service.CartService
	notices     *ui.NoticeBoard
	productID   int64
	form        model.ProductForm

	mu       sync.Mutex
	size     string
	colorID  *int64
	quantity model.QuantityOptions
}

func NewProductController(
	cartService service.CartService,
	notices *ui.NoticeBoard,
	productID int64,
	form model.ProductForm,
) *ProductController {
	return &ProductController{
		cartService: cartService,
		notices:     notices,
		productID:   productID,
		form:        form,
		quantity:    model.QuantityOptions{Options: []int{1}, Selected: 1},
	}
}

// SelectVariant records the chosen size and color and reloads the quantity
// options for that variant's stock
func (ctrl *ProductController) SelectVariant(ctx context.Context, size string, colorID *int64) model.QuantityOptions {
	ctrl.mu.Lock()
	ctrl.size = size
	ctrl.colorID = colorID
	previous := ctrl.quantity
	ctrl.mu.Unlock()

	opts := ctrl.cartService.QuantityOptions(ctx, ctrl.productID, size, colorID, previous.Selected, previous)

	ctrl.mu.Lock()
	ctrl.quantity = opts
	ctrl.mu.Unlock()
	return opts
}

// SelectQuantity picks one of the offered quantities
func (ctrl *ProductController) SelectQuantity(quantity int) bool {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	for _, o := range ctrl.quantity.Options {
		if o == quantity {
			ctrl.quantity.Selected = quantity
			return true
		}
	}
	return false
}

func (ctrl *ProductController) Quantity() model.QuantityOptions {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	return ctrl.quantity
}

// AddToCart submits the current selection
func (ctrl *ProductController) AddToCart(ctx context.Context) error {
	ctrl.mu.Lock()
	in := model.AddItemInput{
		ProductID: ctrl.productID,
		Quantity:  ctrl.quantity.Selected,
		Size:      ctrl.size,
		ColorID:   ctrl.colorID,
	}
	ctrl.mu.Unlock()

	msg, err := ctrl.cartService.AddItem(ctx, ctrl.form, in)
	if err != nil {
		ctrl.notices.Error(err, service.MsgAddFailed)
		return err
	}
	ctrl.notices.Success(msg)
	return nil
}
