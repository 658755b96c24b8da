package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ikkim/storefront/internal/app/controller"
	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/repository"
	"github.com/ikkim/storefront/internal/app/service"
	"github.com/ikkim/storefront/internal/storage"
	"github.com/ikkim/storefront/pkg/gemini"
	"github.com/ikkim/storefront/pkg/logger"
	"github.com/ikkim/storefront/pkg/redis"
	"github.com/ikkim/storefront/pkg/storefront"
)

// chatController wires the assistant. Without an API key replies fail with
// a notice; without Redis the transcript lives for this run only.
func chatController(ctx context.Context, a *app) *controller.ChatController {
	var generator service.TextGenerator
	client, err := gemini.NewClient(gemini.Config{
		APIKey:  a.cfg.Gemini.APIKey,
		Model:   a.cfg.Gemini.Model,
		BaseURL: a.cfg.Gemini.BaseURL,
		Timeout: a.cfg.Storefront.Timeout,
	}, nil)
	if err != nil {
		logger.Warn("Chat assistant disabled", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		generator = client
	}

	repo := repository.NewMemoryChatRepository()
	if a.cfg.Redis.Enabled() {
		if err := redis.Init(a.cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, chat history will not be kept", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			a.closers = append(a.closers, func() { redis.Close() })
			repo = repository.NewRedisChatRepository(redis.GetClient(), model.TranscriptKey)
		}
	}

	var archiver service.TranscriptArchiver
	if a.cfg.S3.Enabled() {
		archiver = storage.NewS3Archive(ctx, a.cfg.S3.Region, a.cfg.S3.Bucket, a.cfg.S3.AccessKeyID, a.cfg.S3.SecretAccessKey)
	}

	ai := service.NewAIService(generator, a.productService(), a.calc, a.cfg.Storefront.BaseURL)
	return controller.NewChatController(service.NewChatService(repo, ai, archiver), a.notices)
}

func runChat(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("chat", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	chat := chatController(ctx, a)
	history, err := chat.Open(ctx)
	if err != nil {
		return err
	}

	if message := strings.Join(fs.Args(), " "); message != "" {
		reply, err := chat.Send(ctx, message)
		if reply != nil {
			a.out.ChatMessage(*reply)
		}
		return err
	}

	// No message: a chat session on stdin
	a.out.Transcript(history)
	for {
		a.out.Line("you> ")
		line, err := a.stdin.ReadString('\n')
		if text := strings.TrimSpace(line); text != "" {
			if reply, _ := chat.Send(ctx, text); reply != nil {
				a.out.ChatMessage(*reply)
			}
			a.flush()
		}
		if err == io.EOF || ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func runChatClear(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("chat-clear", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	chat := chatController(ctx, a)
	if err := chat.Clear(ctx); err != nil {
		return err
	}
	a.out.Line("Chat history cleared")
	return nil
}

func runNotifications(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("notifications", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	bell := controller.NewNotificationController(a.notificationService(), a.bus, a.notices)
	defer bell.Close()
	if err := bell.Start(ctx); err != nil {
		return err
	}
	panel, err := bell.Open(ctx)
	if err != nil {
		return err
	}
	a.out.Notifications(panel)
	return nil
}

func runRead(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("read", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errUsage
	}
	id, err := parseID(fs.Arg(0))
	if err != nil {
		return err
	}

	bell := controller.NewNotificationController(a.notificationService(), a.bus, a.notices)
	defer bell.Close()
	if err := bell.Start(ctx); err != nil {
		return err
	}
	if err := bell.MarkRead(ctx, id); err != nil {
		return err
	}
	a.out.Notifications(bell.Panel())
	return nil
}

func reviewController(a *app) *controller.ReviewController {
	return controller.NewReviewController(service.NewReviewService(repository.NewReviewRepository(a.client)), a.notices)
}

func runReview(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("review", flag.ContinueOnError)
	rating := fs.Int("rating", 0, "1 to 5 stars")
	comment := fs.String("comment", "", "review text")
	orderID := fs.Int64("order", 0, "order the product was bought in")
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

	in := model.ReviewInput{ProductID: productID, Rating: *rating, Comment: *comment}
	if *orderID > 0 {
		in.OrderID = orderID
	}
	return reviewController(a).Submit(ctx, in)
}

// parseRating reads product:rating[:review]
func parseRating(s string) (model.OrderRatingItem, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) < 2 {
		return model.OrderRatingItem{}, fmt.Errorf("invalid rating %q, want product:rating[:review]", s)
	}
	productID, err := parseID(parts[0])
	if err != nil {
		return model.OrderRatingItem{}, err
	}
	rating, err := strconv.Atoi(parts[1])
	if err != nil {
		return model.OrderRatingItem{}, fmt.Errorf("invalid rating %q", parts[1])
	}
	item := model.OrderRatingItem{ProductID: productID, Rating: rating}
	if len(parts) == 3 {
		item.Review = parts[2]
	}
	return item, nil
}

func runRateOrder(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("rate-order", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return errUsage
	}
	orderID, err := parseID(fs.Arg(0))
	if err != nil {
		return err
	}
	items := make([]model.OrderRatingItem, 0, fs.NArg()-1)
	for _, arg := range fs.Args()[1:] {
		item, err := parseRating(arg)
		if err != nil {
			return err
		}
		items = append(items, item)
	}
	return reviewController(a).RateOrder(ctx, orderID, items)
}

func runCancelOrder(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("cancel-order", flag.ContinueOnError)
	reason := fs.String("reason", "", "why the order is cancelled")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errUsage
	}
	orderID, err := parseID(fs.Arg(0))
	if err != nil {
		return err
	}

	orders := controller.NewOrderController(service.NewOrderService(repository.NewOrderRepository(a.client)), a.notices, a.nav)
	return orders.RequestCancel(ctx, orderID, *reason)
}

func adminFlags(name string) (*flag.FlagSet, *storefront.AdminProductQuery) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	q := &storefront.AdminProductQuery{}
	fs.StringVar(&q.Category, "category", "", "category slug")
	fs.StringVar(&q.Sort, "sort", "", "name, price or stock")
	fs.IntVar(&q.Page, "page", 1, "page")
	return fs, q
}

func adminController(a *app) *controller.AdminController {
	return controller.NewAdminController(service.NewAdminService(repository.NewProductRepository(a.client), a.calc), a.notices)
}

func runAdminProducts(ctx context.Context, a *app, args []string) error {
	fs, q := adminFlags("admin-products")
	if err := fs.Parse(args); err != nil {
		return err
	}

	table, err := adminController(a).Load(ctx, *q)
	if err != nil {
		return err
	}
	a.out.AdminTable(table)
	return nil
}

func runAdminDelete(ctx context.Context, a *app, args []string) error {
	fs, q := adminFlags("admin-delete")
	yes := fs.Bool("yes", false, "do not ask for confirmation")
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

	admin := adminController(a)
	if _, err := admin.Load(ctx, *q); err != nil {
		return err
	}
	confirm := func(question string) bool {
		if *yes {
			return true
		}
		a.out.Line("%s [y/N]", question)
		answer, _ := a.stdin.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes"
	}
	deleted, err := admin.Delete(ctx, productID, confirm)
	if err != nil {
		return err
	}
	if deleted {
		a.out.AdminTable(admin.Table())
	}
	return nil
}

func runExport(ctx context.Context, a *app, args []string) error {
	fs, q := adminFlags("export")
	out := fs.String("out", "products.xlsx", "output workbook")
	if err := fs.Parse(args); err != nil {
		return err
	}

	admin := adminController(a)
	if _, err := admin.Load(ctx, *q); err != nil {
		return err
	}

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	n, err := admin.Export(ctx, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(*out)
		return err
	}
	a.out.Line("Exported %d products to %s", n, *out)
	return nil
}

func paymentController(a *app) *controller.PaymentController {
	return controller.NewPaymentController(
		service.NewPaymentService(repository.NewPaymentRepository(a.client)),
		a.notices,
		a.nav,
		a.cfg.Debounce.CardValidate,
	)
}

func runValidateCard(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("validate-card", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errUsage
	}

	payment := paymentController(a)
	defer payment.Close()

	form := payment.Form()
	form.CardNumber = strings.Join(fs.Args(), "")
	payment.Input(form)
	a.out.CardForm(payment.LookupCard(ctx))
	return nil
}

func runAddCard(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("add-card", flag.ContinueOnError)
	var card model.CardForm
	fs.StringVar(&card.CardNumber, "number", "", "card number")
	fs.StringVar(&card.Expiry, "expiry", "", "expiry as MMYY")
	fs.StringVar(&card.CVV, "cvv", "", "security code")
	fs.StringVar(&card.CardholderName, "name", "", "name on the card")
	wallet := fs.String("zalopay", "", "ZaloPay wallet phone instead of a card")
	if err := fs.Parse(args); err != nil {
		return err
	}

	payment := paymentController(a)
	defer payment.Close()

	form := payment.Form()
	if *wallet != "" {
		form = payment.SelectProvider(model.ProviderZaloPay)
		form.WalletPhone = *wallet
	} else {
		card.Provider = form.Provider
		form = card
	}
	a.out.CardForm(payment.Input(form))
	return payment.Submit(ctx)
}
