package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ikkim/storefront/internal/app/controller"
	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/repository"
	"github.com/ikkim/storefront/internal/app/service"
)

var errUsage = errors.New("usage")

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// startCart loads the cart page the way a browser would: badge, gate and lines
func startCart(ctx context.Context, a *app) (*controller.CartController, error) {
	cart := controller.NewCartController(a.cartService(), a.bus, a.notices, a.nav)
	if err := cart.Start(ctx); err != nil {
		cart.Close()
		return nil, err
	}
	return cart, nil
}

func renderCart(a *app, cart *controller.CartController) {
	a.out.Header(cart.Badge.State(), cart.Gate.State())
	a.out.Cart(cart.View())
}

func runCart(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("cart", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cart, err := startCart(ctx, a)
	if err != nil {
		return err
	}
	defer cart.Close()

	renderCart(a, cart)
	return nil
}

func runAdd(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	qty := fs.Int("qty", 1, "quantity")
	size := fs.String("size", "", "size")
	color := fs.Int64("color", 0, "color option id")
	requireSize := fs.Bool("require-size", false, "the product page shows a size selector")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errUsage
	}
	productID, err := parseID(fs.Arg(0))
	if err != nil {
		return err
	}

	cartService := a.cartService()
	cart := controller.NewCartController(cartService, a.bus, a.notices, a.nav)
	defer cart.Close()
	if err := cart.Start(ctx); err != nil {
		return err
	}

	var colorID *int64
	if *color > 0 {
		colorID = color
	}
	product := controller.NewProductController(cartService, a.notices, productID, model.ProductForm{
		HasSizeSelector:     *size != "" || *requireSize,
		SizeSelectorEnabled: true,
		HasColorOptions:     colorID != nil,
	})
	opts := product.SelectVariant(ctx, *size, colorID)
	if !product.SelectQuantity(*qty) {
		return fmt.Errorf("quantity %d is not available, choose one of %v", *qty, opts.Options)
	}
	if err := product.AddToCart(ctx); err != nil {
		return err
	}

	renderCart(a, cart)
	return nil
}

func runUpdate(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errUsage
	}
	itemID, err := parseID(fs.Arg(0))
	if err != nil {
		return err
	}
	quantity, err := strconv.Atoi(fs.Arg(1))
	if err != nil {
		return fmt.Errorf("invalid quantity %q", fs.Arg(1))
	}

	cart, err := startCart(ctx, a)
	if err != nil {
		return err
	}
	defer cart.Close()

	err = cart.SetQuantity(ctx, itemID, quantity)
	renderCart(a, cart)
	return err
}

func runRemove(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("remove", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errUsage
	}
	itemID, err := parseID(fs.Arg(0))
	if err != nil {
		return err
	}

	cart, err := startCart(ctx, a)
	if err != nil {
		return err
	}
	defer cart.Close()

	err = cart.Remove(ctx, itemID)
	renderCart(a, cart)
	return err
}

func runCheckout(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	payment := fs.String("payment", string(model.PaymentCOD), "cod or payos")
	var form model.ShippingForm
	fs.StringVar(&form.FirstName, "first", "", "first name")
	fs.StringVar(&form.LastName, "last", "", "last name")
	fs.StringVar(&form.Address, "address", "", "street address")
	fs.StringVar(&form.Address2, "address2", "", "apartment, suite")
	fs.StringVar(&form.City, "city", "", "city")
	fs.StringVar(&form.State, "state", "", "state or province")
	fs.StringVar(&form.Zip, "zip", "", "5 digit ZIP code")
	fs.StringVar(&form.Phone, "phone", "", "phone number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// The cart page's checkout button re-checks the cart first
	cart, err := startCart(ctx, a)
	if err != nil {
		return err
	}
	defer cart.Close()
	if err := cart.Checkout(ctx); err != nil {
		return err
	}

	checkoutService := service.NewCheckoutService(repository.NewCartRepository(a.client), a.bus, a.cfg.Cart.RedirectDelay)
	checkout := controller.NewCheckoutController(checkoutService, a.notices, a.nav)
	defer checkout.Close()
	checkout.SelectPayment(model.PaymentMethod(*payment))

	result, err := checkout.Submit(ctx, form)
	if err != nil {
		return err
	}
	a.out.Checkout(result)

	select {
	case <-checkout.Navigated():
	case <-time.After(a.cfg.Cart.RedirectDelay + 5*time.Second):
	case <-ctx.Done():
	}
	return nil
}

func runSearch(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	interactive := fs.Bool("i", false, "read queries from stdin as they are typed")
	catalog := fs.Bool("catalog", false, "show the filtered product grid instead of suggestions")
	var filter service.ProductFilter
	fs.StringVar(&filter.Category, "category", "", "category slug")
	fs.StringVar(&filter.MinPrice, "min", "", "minimum price")
	fs.StringVar(&filter.MaxPrice, "max", "", "maximum price")
	fs.StringVar(&filter.Sort, "sort", "", "sort order")
	fs.IntVar(&filter.Page, "page", 1, "page")
	if err := fs.Parse(args); err != nil {
		return err
	}
	filter.Search = strings.Join(fs.Args(), " ")

	search := controller.NewSearchController(a.productService(), a.notices, a.cfg.Debounce.Search, a.cfg.Debounce.Filter)
	defer search.Close()

	if *catalog || filter.Category != "" || filter.MinPrice != "" || filter.MaxPrice != "" || filter.Sort != "" {
		page, err := search.LoadCatalog(ctx, filter)
		if err != nil {
			return err
		}
		a.out.Catalog(page)
		return nil
	}

	if *interactive {
		return searchInteractive(ctx, a, search)
	}

	results, err := search.Search(ctx, filter.Search)
	if err != nil {
		return err
	}
	a.out.Search(&results)
	return nil
}

// searchInteractive feeds each stdin line to the debounced search box, so
// only the last of a burst of lines is looked up
func searchInteractive(ctx context.Context, a *app, search *controller.SearchController) error {
	done := make(chan struct{}, 1)
	search.OnResults(func(results model.SearchResults) {
		a.out.Search(&results)
		select {
		case done <- struct{}{}:
		default:
		}
	})

	for {
		line, err := a.stdin.ReadString('\n')
		if line != "" {
			search.Input(strings.TrimSpace(line))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}

	select {
	case <-done:
	case <-time.After(a.cfg.Debounce.Search + 5*time.Second):
	case <-ctx.Done():
	}
	return nil
}
