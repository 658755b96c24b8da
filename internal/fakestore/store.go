// Package fakestore is an in-memory storefront server implementing the HTTP
// API the client consumes. It backs local runs and the test suites.
package fakestore

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ikkim/storefront/pkg/money"
	"github.com/ikkim/storefront/pkg/storefront"
)

const (
	defaultPerPage      = 12
	adminPerPage        = 10
	suggestionLimit     = 5
	flatShippingCost    = 30000
	freeShippingMinimum = 1000000
)

// Product is a catalog entry with its variant stock
type Product struct {
	storefront.Product
	SKU       string
	Active    bool
	Sizes     []string
	ColorIDs  []int64
	CreatedAt time.Time

	// VariantStock overrides Stock for "size|color" keys
	VariantStock map[string]int
}

// FinalPrice is the price after discount
func (p Product) FinalPrice() money.Amount {
	return p.Price.Discount(p.Discount.Decimal())
}

func (p Product) stockFor(size string, colorID *int64) int {
	if p.VariantStock != nil {
		if n, ok := p.VariantStock[variantKey(size, colorID)]; ok {
			return n
		}
	}
	return p.Stock
}

func variantKey(size string, colorID *int64) string {
	color := ""
	if colorID != nil {
		color = fmt.Sprint(*colorID)
	}
	return size + "|" + color
}

// Order is a placed order
type Order struct {
	ID              int64
	PaymentMethod   string
	Shipping        storefront.ShippingInfo
	Items           []storefront.CartItem
	Total           money.Amount
	Status          string
	CancelReason    string
	Ratings         []storefront.ProductRating
	CreatedAt       time.Time
	RequiresPayment bool
}

// Review is a stored product review
type Review struct {
	ProductID int64
	Rating    int
	Comment   string
	OrderID   *int64
}

// PaymentMethod is a saved tokenized method
type PaymentMethod struct {
	Provider string
	Token    string
}

// Fault replaces the normal response of a route. Times zero means until cleared.
type Fault struct {
	Status      int
	Body        string
	ContentType string
	Times       int
}

// Store holds all server state behind one mutex
type Store struct {
	mu sync.Mutex

	products      map[int64]*Product
	cart          []storefront.CartItem
	orders        map[int64]*Order
	notifications []storefront.Notification
	reviews       []Review
	methods       []PaymentMethod
	faults        map[string]*Fault

	nextItemID         int64
	nextOrderID        int64
	nextNotificationID int64

	onlinePaymentDown bool
}

func NewStore() *Store {
	return &Store{
		products:           make(map[int64]*Product),
		orders:             make(map[int64]*Order),
		faults:             make(map[string]*Fault),
		nextItemID:         1,
		nextOrderID:        1,
		nextNotificationID: 1,
	}
}

// PutProduct inserts or replaces a product
func (s *Store) PutProduct(p Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	s.products[p.ID] = &p
}

// Product returns a copy of a product
func (s *Store) Product(id int64) (Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return Product{}, false
	}
	return *p, true
}

// SetStock changes the default stock of a product
func (s *Store) SetStock(productID int64, stock int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[productID]; ok {
		p.Stock = stock
	}
}

// SetOnlinePaymentDown makes online checkout fail with a COD suggestion
func (s *Store) SetOnlinePaymentDown(down bool) {
	s.mu.Lock()
	s.onlinePaymentDown = down
	s.mu.Unlock()
}

// PutCartItem puts a line straight into the cart and returns its id
func (s *Store) PutCartItem(productID int64, quantity int, size string, colorID *int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLineLocked(productID, quantity, size, colorID)
}

func (s *Store) addLineLocked(productID int64, quantity int, size string, colorID *int64) int64 {
	for i := range s.cart {
		line := &s.cart[i]
		if line.Product.ID == productID && line.Size == size && sameColor(line.ColorID, colorID) {
			line.Quantity += quantity
			return line.ID
		}
	}
	id := s.nextItemID
	s.nextItemID++
	s.cart = append(s.cart, storefront.CartItem{
		ID:       id,
		Quantity: quantity,
		Product:  storefront.CartProduct{ID: productID},
		Size:     size,
		ColorID:  colorID,
	})
	return id
}

func sameColor(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// CartItems returns a copy of the cart lines
func (s *Store) CartItems() []storefront.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]storefront.CartItem, len(s.cart))
	copy(out, s.cart)
	return out
}

// cartLocked renders the cart payload with current product data
func (s *Store) cartLocked() storefront.Cart {
	items := make([]storefront.CartItem, 0, len(s.cart))
	subtotal := money.Zero
	for _, line := range s.cart {
		p, ok := s.products[line.Product.ID]
		if !ok {
			continue
		}
		stock := p.stockFor(line.Size, line.ColorID)
		line.Product = storefront.CartProduct{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Discount: p.Discount,
		}
		line.Stock = &stock
		items = append(items, line)
		subtotal = subtotal.Add(p.FinalPrice().Mul(line.Quantity))
	}

	shipping := money.New(flatShippingCost)
	if len(items) == 0 || subtotal.Cmp(money.New(freeShippingMinimum)) >= 0 {
		shipping = money.Zero
	}
	total := subtotal.Add(shipping)
	count := 0
	for _, it := range items {
		count += it.Quantity
	}

	return storefront.Cart{
		Items:        items,
		Subtotal:     &subtotal,
		Total:        &total,
		ShippingCost: &shipping,
		TotalItems:   &count,
	}
}

// Orders returns copies of all orders sorted by id
func (s *Store) Orders() []Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// PutOrder stores a delivered order that can be rated or cancelled
func (s *Store) PutOrder(o Order) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID == 0 {
		o.ID = s.nextOrderID
	}
	if o.ID >= s.nextOrderID {
		s.nextOrderID = o.ID + 1
	}
	if o.Status == "" {
		o.Status = "pending"
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	s.orders[o.ID] = &o
	return o.ID
}

// Reviews returns all stored reviews
func (s *Store) Reviews() []Review {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Review, len(s.reviews))
	copy(out, s.reviews)
	return out
}

// PaymentMethods returns all saved payment methods
func (s *Store) PaymentMethods() []PaymentMethod {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]PaymentMethod, len(s.methods))
	copy(out, s.methods)
	return out
}

// AddNotification stores an unread notification and returns the new unread count
func (s *Store) AddNotification(message, link string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addNotificationLocked(message, link)
}

func (s *Store) addNotificationLocked(message, link string) int {
	s.notifications = append([]storefront.Notification{{
		ID:        s.nextNotificationID,
		Message:   message,
		Link:      link,
		CreatedAt: time.Now().Format("2006-01-02 15:04"),
	}}, s.notifications...)
	s.nextNotificationID++
	return s.unreadLocked()
}

func (s *Store) unreadLocked() int {
	n := 0
	for _, item := range s.notifications {
		if !item.IsRead {
			n++
		}
	}
	return n
}

// InjectFault makes method+route answer with f instead of running the handler.
// route is the gin route pattern, e.g. "/cart/update/:id".
func (s *Store) InjectFault(method, route string, f Fault) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[faultKey(method, route)] = &f
}

// ClearFaults removes every injected fault
func (s *Store) ClearFaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = make(map[string]*Fault)
}

// takeFault returns the fault for a route and consumes one use of it
func (s *Store) takeFault(method, route string) (Fault, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := faultKey(method, route)
	f, ok := s.faults[key]
	if !ok {
		return Fault{}, false
	}
	out := *f
	if f.Times > 0 {
		f.Times--
		if f.Times == 0 {
			delete(s.faults, key)
		}
	}
	return out, true
}

func faultKey(method, route string) string {
	return strings.ToUpper(method) + " " + route
}

// listProductsLocked filters, sorts and paginates the catalog
func (s *Store) listProductsLocked(q productFilter) ([]*Product, int) {
	var matched []*Product
	for _, p := range s.products {
		if !p.Active {
			continue
		}
		if q.search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(q.search)) {
			continue
		}
		if q.category != "" && !strings.EqualFold(p.Category, q.category) {
			continue
		}
		final := p.FinalPrice()
		if q.minPrice.Valid() && final.Cmp(q.minPrice) < 0 {
			continue
		}
		if q.maxPrice.Valid() && final.Cmp(q.maxPrice) > 0 {
			continue
		}
		matched = append(matched, p)
	}
	sortProducts(matched, q.sort)
	return matched, len(matched)
}

type productFilter struct {
	search   string
	category string
	minPrice money.Amount
	maxPrice money.Amount
	sort     string
}

func sortProducts(ps []*Product, by string) {
	sort.SliceStable(ps, func(i, j int) bool {
		a, b := ps[i], ps[j]
		switch by {
		case "price_asc":
			if c := a.FinalPrice().Cmp(b.FinalPrice()); c != 0 {
				return c < 0
			}
		case "price_desc":
			if c := a.FinalPrice().Cmp(b.FinalPrice()); c != 0 {
				return c > 0
			}
		case "name":
			if a.Name != b.Name {
				return a.Name < b.Name
			}
		case "newest":
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		case "stock":
			if a.Stock != b.Stock {
				return a.Stock < b.Stock
			}
		}
		return a.ID < b.ID
	})
}

// paginate returns the slice bounds for page and the page count
func paginate(total, page, perPage int) (start, end, pages int) {
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	pages = (total + perPage - 1) / perPage
	if pages == 0 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	start = (page - 1) * perPage
	if start > total {
		start = total
	}
	end = start + perPage
	if end > total {
		end = total
	}
	return start, end, pages
}
