package fakestore

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Faults(t *testing.T) {
	store := NewStore()
	store.InjectFault("post", "/cart/update/:id", Fault{Status: http.StatusBadGateway, Times: 2})

	for i := 0; i < 2; i++ {
		f, ok := store.takeFault(http.MethodPost, "/cart/update/:id")
		require.True(t, ok)
		assert.Equal(t, http.StatusBadGateway, f.Status)
	}
	_, ok := store.takeFault(http.MethodPost, "/cart/update/:id")
	assert.False(t, ok, "fault is used up")
}

func TestStore_Faults_UntilCleared(t *testing.T) {
	store := NewStore()
	store.InjectFault(http.MethodGet, "/api/cart", Fault{Status: http.StatusInternalServerError})

	for i := 0; i < 3; i++ {
		_, ok := store.takeFault(http.MethodGet, "/api/cart")
		assert.True(t, ok)
	}
	store.ClearFaults()
	_, ok := store.takeFault(http.MethodGet, "/api/cart")
	assert.False(t, ok)
}

func TestProduct_StockFor(t *testing.T) {
	red := int64(1)
	p := Product{VariantStock: map[string]int{"M|1": 2, "L|": 0}}
	p.Stock = 9

	assert.Equal(t, 2, p.stockFor("M", &red))
	assert.Equal(t, 0, p.stockFor("L", nil))
	assert.Equal(t, 9, p.stockFor("S", nil), "unknown variants use the product stock")
}

func TestStore_CartLines(t *testing.T) {
	store := NewStore()
	Seed(store, DefaultCatalog())

	first := store.PutCartItem(7, 1, "", nil)
	second := store.PutCartItem(1, 2, "M", nil)
	assert.NotEqual(t, first, second)

	items := store.CartItems()
	require.Len(t, items, 2)
	assert.Equal(t, int64(7), items[0].Product.ID)
}

func TestStore_Notifications(t *testing.T) {
	store := NewStore()

	assert.Equal(t, 1, store.AddNotification("Order shipped", "/orders/1"))
	assert.Equal(t, 2, store.AddNotification("Order delivered", "/orders/1"))
}
