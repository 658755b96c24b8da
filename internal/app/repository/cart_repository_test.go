package repository

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/ikkim/storefront/internal/fakestore"
	"github.com/ikkim/storefront/internal/router"
	"github.com/ikkim/storefront/pkg/money"
	"github.com/ikkim/storefront/pkg/storefront"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCartTest(t *testing.T) (*router.TestServer, CartRepository) {
	srv := router.SetupTestServer()
	t.Cleanup(srv.Close)

	client, err := srv.NewClient()
	require.NoError(t, err)

	return srv, NewCartRepository(client)
}

func TestCartRepository_Get_Empty(t *testing.T) {
	_, repo := setupCartTest(t)

	cart, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, cart.Items, "items present even when empty")
	assert.Len(t, cart.Items, 0)
	require.NotNil(t, cart.Subtotal)
	assert.True(t, cart.Subtotal.Equal(money.Zero))
}

func TestCartRepository_Add(t *testing.T) {
	srv, repo := setupCartTest(t)
	ctx := context.Background()

	color := int64(1)
	resp, err := repo.Add(ctx, 1, storefront.AddItemRequest{Quantity: 2, Size: "M", ColorID: &color})
	require.NoError(t, err)
	assert.Equal(t, "Item added to cart successfully!", resp.Message)

	cart, err := repo.Get(ctx)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, "Áo thun basic", cart.Items[0].Product.Name)
	// 200.000 at 50% off, two units
	assert.True(t, cart.Subtotal.Equal(money.New(200000)))
	assert.Len(t, srv.Store.CartItems(), 1)
}

func TestCartRepository_Add_MissingSize(t *testing.T) {
	_, repo := setupCartTest(t)

	_, err := repo.Add(context.Background(), 2, storefront.AddItemRequest{Quantity: 1})
	require.Error(t, err)

	var statusErr *storefront.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Equal(t, "Please select a size", statusErr.Message)
}

func TestCartRepository_Add_OutOfStock(t *testing.T) {
	_, repo := setupCartTest(t)

	// product 8 has no stock
	_, err := repo.Add(context.Background(), 8, storefront.AddItemRequest{Quantity: 1})
	var apiErr *storefront.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Not enough stock available", apiErr.Message)
}

func TestCartRepository_UpdateQuantity(t *testing.T) {
	srv, repo := setupCartTest(t)
	ctx := context.Background()
	itemID := srv.Store.PutCartItem(7, 1, "", nil)

	resp, err := repo.UpdateQuantity(ctx, itemID, 3)
	require.NoError(t, err)
	require.NotNil(t, resp.Subtotal)
	assert.True(t, resp.Subtotal.Equal(money.New(450000)))

	items := srv.Store.CartItems()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestCartRepository_UpdateQuantity_Rejected(t *testing.T) {
	srv, repo := setupCartTest(t)
	itemID := srv.Store.PutCartItem(6, 1, "M", nil)

	// product 6 only has 3 in stock
	_, err := repo.UpdateQuantity(context.Background(), itemID, 5)

	var apiErr *storefront.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Out of stock", apiErr.Message)
	assert.Equal(t, 1, srv.Store.CartItems()[0].Quantity)
}

func TestCartRepository_Remove(t *testing.T) {
	srv, repo := setupCartTest(t)
	itemID := srv.Store.PutCartItem(7, 1, "", nil)

	resp, err := repo.Remove(context.Background(), itemID)
	require.NoError(t, err)
	assert.Equal(t, "Item removed from cart", resp.Message)
	assert.Empty(t, srv.Store.CartItems())
}

func TestCartRepository_Remove_NotFound(t *testing.T) {
	_, repo := setupCartTest(t)

	_, err := repo.Remove(context.Background(), 999)

	var statusErr *storefront.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestCartRepository_Remove_BadToken(t *testing.T) {
	srv := router.SetupTestServer()
	defer srv.Close()
	itemID := srv.Store.PutCartItem(7, 1, "", nil)

	client, err := srv.NewClientWithToken(storefront.StaticToken("forged"))
	require.NoError(t, err)
	repo := NewCartRepository(client)

	_, err = repo.Remove(context.Background(), itemID)

	var statusErr *storefront.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	assert.Len(t, srv.Store.CartItems(), 1)
}

func TestCartRepository_Checkout(t *testing.T) {
	srv, repo := setupCartTest(t)
	ctx := context.Background()
	srv.Store.PutCartItem(7, 2, "", nil)

	shipping := storefront.ShippingInfo{
		FirstName: "An", LastName: "Nguyen", Address: "1 Le Loi",
		City: "HCMC", State: "HCM", Zip: "70000", Phone: "0901234567",
	}

	resp, err := repo.Checkout(ctx, storefront.CheckoutRequest{ShippingInfo: shipping, PaymentMethod: "cod"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.False(t, resp.RequiresPayment)
	assert.Contains(t, resp.RedirectURL, "/orders/")
	assert.Empty(t, srv.Store.CartItems())

	orders := srv.Store.Orders()
	last := orders[len(orders)-1]
	assert.Equal(t, "cod", last.PaymentMethod)
	// 300.000 plus flat shipping
	assert.True(t, last.Total.Equal(money.New(330000)))
}

func TestCartRepository_Checkout_OnlinePaymentDown(t *testing.T) {
	srv, repo := setupCartTest(t)
	srv.Store.PutCartItem(7, 1, "", nil)
	srv.Store.SetOnlinePaymentDown(true)

	_, err := repo.Checkout(context.Background(), storefront.CheckoutRequest{
		ShippingInfo: storefront.ShippingInfo{
			FirstName: "An", LastName: "Nguyen", Address: "1 Le Loi",
			City: "HCMC", State: "HCM", Zip: "70000", Phone: "0901234567",
		},
		PaymentMethod: "payos",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "COD")
	assert.Len(t, srv.Store.CartItems(), 1)
}

func TestCartRepository_InjectedFault(t *testing.T) {
	srv, repo := setupCartTest(t)
	srv.Store.InjectFault(http.MethodGet, "/api/cart", fakestore.Fault{
		Status:      http.StatusOK,
		Body:        "<html>maintenance</html>",
		ContentType: "text/html",
		Times:       1,
	})

	_, err := repo.Get(context.Background())
	assert.ErrorIs(t, err, storefront.ErrNonJSONResponse)

	// one-shot fault is consumed
	_, err = repo.Get(context.Background())
	assert.NoError(t, err)
}
