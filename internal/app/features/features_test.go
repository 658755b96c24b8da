package features

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/cucumber/godog"
	"github.com/ikkim/storefront/internal/app/controller"
	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/repository"
	"github.com/ikkim/storefront/internal/app/service"
	"github.com/ikkim/storefront/internal/events"
	"github.com/ikkim/storefront/internal/fakestore"
	"github.com/ikkim/storefront/internal/router"
	"github.com/ikkim/storefront/internal/ui"
	"github.com/ikkim/storefront/pkg/storefront"
)

type storefrontTestContext struct {
	srv     *router.TestServer
	client  *storefront.Client
	bus     *events.Bus
	notices *ui.NoticeBoard
	nav     *ui.RecordingNavigator
	calc    *service.PriceCalculator

	cartService   service.CartService
	cart          *controller.CartController
	checkout      *controller.CheckoutController
	ordersAtStart int
}

func (c *storefrontTestContext) reset() {
	*c = storefrontTestContext{}
}

func (c *storefrontTestContext) close() {
	if c.cart != nil {
		c.cart.Close()
	}
	if c.checkout != nil {
		c.checkout.Close()
	}
	if c.notices != nil {
		c.notices.Close()
	}
	if c.srv != nil {
		c.srv.Close()
	}
}

func (c *storefrontTestContext) aFreshStorefront() error {
	c.srv = router.SetupTestServer()
	client, err := c.srv.NewClient()
	if err != nil {
		return err
	}
	c.client = client
	c.bus = events.NewBus()
	c.notices = ui.NewNoticeBoard()
	c.nav = ui.NewRecordingNavigator()
	c.calc = service.NewPriceCalculator(0, "vi")
	c.cartService = service.NewCartService(
		repository.NewCartRepository(client),
		repository.NewProductRepository(client),
		c.calc,
		c.bus,
		0,
	)
	c.cart = controller.NewCartController(c.cartService, c.bus, c.notices, c.nav)
	c.ordersAtStart = len(c.srv.Store.Orders())
	return nil
}

func (c *storefrontTestContext) productIsInTheCart(productID int64, quantity int) error {
	c.srv.Store.PutCartItem(productID, quantity, "", nil)
	return nil
}

func (c *storefrontTestContext) theServerRejectsTheNextQuantityUpdate(message string) error {
	c.srv.Store.InjectFault(http.MethodPost, "/cart/update/:id", fakestore.Fault{
		Status: http.StatusOK,
		Body:   fmt.Sprintf(`{"success":false,"message":%q}`, message),
		Times:  1,
	})
	return nil
}

func (c *storefrontTestContext) theCartPageLoads() error {
	return c.cart.Start(context.Background())
}

func (c *storefrontTestContext) theCartChangesInAnotherTab() error {
	c.bus.Publish(events.CartUpdated, nil)
	return nil
}

func (c *storefrontTestContext) line(name string) (model.CartLine, error) {
	for _, l := range c.cart.View().Lines {
		if l.Name == name {
			return l, nil
		}
	}
	return model.CartLine{}, fmt.Errorf("no cart line named %q", name)
}

func (c *storefrontTestContext) iSetTheQuantityOf(name string, quantity int) error {
	l, err := c.line(name)
	if err != nil {
		return err
	}
	// The outcome is asserted by the following steps
	_ = c.cart.SetQuantity(context.Background(), l.ItemID, quantity)
	return nil
}

func (c *storefrontTestContext) iRemove(name string) error {
	l, err := c.line(name)
	if err != nil {
		return err
	}
	return c.cart.Remove(context.Background(), l.ItemID)
}

func (c *storefrontTestContext) iAddProductWithoutChoosingASize(productID int64) error {
	product := controller.NewProductController(c.cartService, c.notices, productID, model.ProductForm{
		HasSizeSelector:     true,
		SizeSelectorEnabled: true,
	})
	if err := product.AddToCart(context.Background()); err == nil {
		return fmt.Errorf("expected the add to be blocked")
	}
	return nil
}

func (c *storefrontTestContext) iCheckOutByCODWithZip(zip string) error {
	checkoutService := service.NewCheckoutService(repository.NewCartRepository(c.client), c.bus, 0)
	c.checkout = controller.NewCheckoutController(checkoutService, c.notices, c.nav)
	c.checkout.SelectPayment(model.PaymentCOD)

	_, _ = c.checkout.Submit(context.Background(), model.ShippingForm{
		FirstName: "An",
		LastName:  "Nguyen",
		Address:   "12 Le Loi",
		City:      "Ho Chi Minh",
		State:     "HCM",
		Zip:       zip,
		Phone:     "0901234567",
	})
	return nil
}

func (c *storefrontTestContext) theLineCosts(name, price string) error {
	l, err := c.line(name)
	if err != nil {
		return err
	}
	if got := c.calc.Format(l.Subtotal); got != price {
		return fmt.Errorf("line %q costs %s, want %s", name, got, price)
	}
	return nil
}

func (c *storefrontTestContext) theSubtotalIs(price string) error {
	if got := c.calc.Format(c.cart.View().Subtotal); got != price {
		return fmt.Errorf("subtotal is %s, want %s", got, price)
	}
	return nil
}

func (c *storefrontTestContext) theShippingBannerSays(message string) error {
	banner := c.cart.View().FreeShipping
	if banner.Eligible {
		return fmt.Errorf("banner is eligible, want %q", message)
	}
	if banner.Message != message {
		return fmt.Errorf("banner says %q, want %q", banner.Message, message)
	}
	return nil
}

func (c *storefrontTestContext) theShippingBannerIsEligible() error {
	banner := c.cart.View().FreeShipping
	if !banner.Eligible {
		return fmt.Errorf("banner is not eligible: %q", banner.Message)
	}
	if banner.Remaining.IsPositive() {
		return fmt.Errorf("remaining amount is %s", banner.Remaining)
	}
	return nil
}

func (c *storefrontTestContext) theBadgeIsHidden() error {
	if b := c.cart.Badge.State(); !b.Hidden {
		return fmt.Errorf("badge shows %d", b.Count)
	}
	return nil
}

func (c *storefrontTestContext) theBadgeShows(count int) error {
	b := c.cart.Badge.State()
	if b.Hidden || b.Count != count {
		return fmt.Errorf("badge is %+v, want %d", b, count)
	}
	return nil
}

func (c *storefrontTestContext) theCheckoutGateIs(state string) error {
	want := state == "enabled"
	if got := c.cart.Gate.State().Enabled; got != want {
		return fmt.Errorf("checkout gate enabled=%t, want %s", got, state)
	}
	return nil
}

func (c *storefrontTestContext) theQuantityOfShows(name string, quantity int) error {
	l, err := c.line(name)
	if err != nil {
		return err
	}
	control, ok := c.cart.Control(l.ItemID)
	if !ok {
		return fmt.Errorf("no quantity control for %q", name)
	}
	if control.Value() != quantity {
		return fmt.Errorf("selector shows %d, want %d", control.Value(), quantity)
	}
	if control.Disabled() {
		return fmt.Errorf("selector is still disabled")
	}
	return nil
}

func (c *storefrontTestContext) theNoticeSays(message string) error {
	n, ok := c.notices.Last()
	if !ok {
		return fmt.Errorf("no notice is showing")
	}
	if n.Message != message {
		return fmt.Errorf("notice says %q, want %q", n.Message, message)
	}
	return nil
}

func (c *storefrontTestContext) theCartOnTheServerIsEmpty() error {
	if items := c.srv.Store.CartItems(); len(items) != 0 {
		return fmt.Errorf("server cart has %d items", len(items))
	}
	return nil
}

func (c *storefrontTestContext) anOrderShipsToZip(zip string) error {
	orders := c.srv.Store.Orders()
	if len(orders) == c.ordersAtStart {
		return fmt.Errorf("no order was placed")
	}
	if got := orders[len(orders)-1].Shipping.Zip; got != zip {
		return fmt.Errorf("order ships to %q, want %q", got, zip)
	}
	return nil
}

func (c *storefrontTestContext) noOrderWasPlaced() error {
	if n := len(c.srv.Store.Orders()); n != c.ordersAtStart {
		return fmt.Errorf("%d orders were placed", n-c.ordersAtStart)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &storefrontTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})
	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		tc.close()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a fresh storefront$`, tc.aFreshStorefront)
	ctx.Step(`^product (\d+) is in the cart with quantity (\d+)$`, tc.productIsInTheCart)
	ctx.Step(`^the server rejects the next quantity update with "([^"]*)"$`, tc.theServerRejectsTheNextQuantityUpdate)

	// When steps
	ctx.Step(`^the cart page loads$`, tc.theCartPageLoads)
	ctx.Step(`^the cart changes in another tab$`, tc.theCartChangesInAnotherTab)
	ctx.Step(`^I set the quantity of "([^"]*)" to (\d+)$`, tc.iSetTheQuantityOf)
	ctx.Step(`^I remove "([^"]*)"$`, tc.iRemove)
	ctx.Step(`^I add product (\d+) without choosing a size$`, tc.iAddProductWithoutChoosingASize)
	ctx.Step(`^I check out by COD with zip "([^"]*)"$`, tc.iCheckOutByCODWithZip)

	// Then steps
	ctx.Step(`^the line "([^"]*)" costs "([^"]*)"$`, tc.theLineCosts)
	ctx.Step(`^the subtotal is "([^"]*)"$`, tc.theSubtotalIs)
	ctx.Step(`^the shipping banner says "([^"]*)"$`, tc.theShippingBannerSays)
	ctx.Step(`^the shipping banner is eligible$`, tc.theShippingBannerIsEligible)
	ctx.Step(`^the badge is hidden$`, tc.theBadgeIsHidden)
	ctx.Step(`^the badge shows (\d+)$`, tc.theBadgeShows)
	ctx.Step(`^the checkout gate is (enabled|disabled)$`, tc.theCheckoutGateIs)
	ctx.Step(`^the quantity of "([^"]*)" shows (\d+)$`, tc.theQuantityOfShows)
	ctx.Step(`^the notice says "([^"]*)"$`, tc.theNoticeSays)
	ctx.Step(`^the cart on the server is empty$`, tc.theCartOnTheServerIsEmpty)
	ctx.Step(`^an order ships to zip "([^"]*)"$`, tc.anOrderShipsToZip)
	ctx.Step(`^no order was placed$`, tc.noOrderWasPlaced)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"cart.feature", "checkout.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
