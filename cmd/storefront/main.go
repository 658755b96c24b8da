package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/ikkim/storefront/config"
	"github.com/ikkim/storefront/internal/app/repository"
	"github.com/ikkim/storefront/internal/app/service"
	"github.com/ikkim/storefront/internal/events"
	"github.com/ikkim/storefront/internal/middleware"
	"github.com/ikkim/storefront/internal/ui"
	"github.com/ikkim/storefront/pkg/logger"
	"github.com/ikkim/storefront/pkg/storefront"
)

type command struct {
	usage string
	run   func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"cart":           {"cart", runCart},
	"add":            {"add [-qty n] [-size s] [-color id] [-require-size] <product-id>", runAdd},
	"update":         {"update <item-id> <quantity>", runUpdate},
	"remove":         {"remove <item-id>", runRemove},
	"checkout":       {"checkout [-payment cod|payos] -first .. -last .. -address .. -city .. -state .. -zip .. -phone ..", runCheckout},
	"search":         {"search [-i] [-catalog] [-category c] [-min p] [-max p] [-sort s] [-page n] <query>", runSearch},
	"chat":           {"chat [message]", runChat},
	"chat-clear":     {"chat-clear", runChatClear},
	"notifications":  {"notifications", runNotifications},
	"read":           {"read <notification-id>", runRead},
	"review":         {"review -rating n [-comment text] [-order id] <product-id>", runReview},
	"rate-order":     {"rate-order <order-id> <product-id>:<rating>[:review] ...", runRateOrder},
	"cancel-order":   {"cancel-order [-reason text] <order-id>", runCancelOrder},
	"admin-products": {"admin-products [-category c] [-sort s] [-page n]", runAdminProducts},
	"admin-delete":   {"admin-delete [-yes] <product-id>", runAdminDelete},
	"export":         {"export [-category c] [-sort s] -out products.xlsx", runExport},
	"validate-card":  {"validate-card <card-number>", runValidateCard},
	"add-card":       {"add-card -number .. -expiry MMYY -cvv .. -name .. | -zalopay phone", runAddCard},
	"watch":          {"watch", runWatch},
}

// app holds what every command shares: one page worth of client state
type app struct {
	cfg     *config.Config
	client  *storefront.Client
	bus     *events.Bus
	notices *ui.NoticeBoard
	nav     ui.Navigator
	out     *ui.Renderer
	calc    *service.PriceCalculator
	stdin   *bufio.Reader
	closers []func()
}

func newApp(cfg *config.Config, plain bool) (*app, error) {
	client, err := storefront.NewClient(
		storefront.Config{
			BaseURL:       cfg.Storefront.BaseURL,
			Timeout:       cfg.Storefront.Timeout,
			SessionCookie: cfg.Storefront.SessionCookie,
		},
		storefront.NewPageToken(cfg.Storefront.CSRFToken),
		storefront.WithTransport(middleware.NewLoggingTransport(http.DefaultTransport)),
	)
	if err != nil {
		return nil, fmt.Errorf("storefront client: %w", err)
	}

	markup := ui.ANSIMarkup
	if plain || os.Getenv("NO_COLOR") != "" {
		markup = ui.PlainMarkup
	}

	a := &app{
		cfg:     cfg,
		client:  client,
		bus:     events.NewBus(),
		notices: ui.NewNoticeBoard(),
		nav:     ui.NewWriterNavigator(os.Stdout, cfg.Storefront.BaseURL),
		out:     ui.NewRenderer(os.Stdout, cfg.Cart.Locale, markup),
		calc:    service.NewPriceCalculator(cfg.Cart.FreeShippingThreshold, cfg.Cart.Locale),
		stdin:   bufio.NewReader(os.Stdin),
	}
	a.closers = append(a.closers, a.notices.Close)
	return a, nil
}

func (a *app) cartService() service.CartService {
	return service.NewCartService(
		repository.NewCartRepository(a.client),
		repository.NewProductRepository(a.client),
		a.calc,
		a.bus,
		a.cfg.Cart.MaxQuantityOptions,
	)
}

func (a *app) productService() service.ProductService {
	return service.NewProductService(repository.NewProductRepository(a.client), a.calc)
}

func (a *app) notificationService() service.NotificationService {
	return service.NewNotificationService(repository.NewNotificationRepository(a.client), a.bus)
}

// flush prints the notices raised by the command
func (a *app) flush() {
	a.out.Notices(a.notices.Active())
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: storefront [-plain] <command> [flags] [args]")
	fmt.Fprintln(os.Stderr, "\ncommands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %s\n", commands[name].usage)
	}
}

func main() {
	plain := flag.Bool("plain", false, "disable colors")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}
	cmd, ok := commands[flag.Arg(0)]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n", flag.Arg(0))
		usage()
		os.Exit(2)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger; the terminal belongs to the output, so only
	// warnings and up unless debugging
	logLevel := cfg.Log.Level
	if logLevel == "info" {
		logLevel = "warn"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      cfg.Log.Format,
		EnableColor: !*plain,
	})

	a, err := newApp(cfg, *plain)
	if err != nil {
		logger.Fatal("Failed to initialize storefront client", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = cmd.run(ctx, a, flag.Args()[1:])
	shown := len(a.notices.Active()) > 0
	a.flush()
	a.close()
	stop()

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		if errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "usage: storefront %s\n", cmd.usage)
			os.Exit(2)
		}
		if !shown {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		logger.Debug("Command failed", map[string]interface{}{
			"command": flag.Arg(0),
			"error":   err.Error(),
		})
		os.Exit(1)
	}
}
