package main

import (
	"context"
	"flag"
	"sync"

	"github.com/ikkim/storefront/internal/app/controller"
	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/scheduler"
	"github.com/ikkim/storefront/pkg/logger"
)

// runWatch keeps a header open: the cart badge follows every cart change,
// the notification count follows the push channel, and both are re-fetched
// on a schedule in case a push was missed.
func runWatch(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	schedule := fs.String("schedule", a.cfg.Notifications.RefreshSchedule, "cron spec for periodic refreshes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var mu sync.Mutex
	cart := controller.NewCartController(a.cartService(), a.bus, a.notices, a.nav)
	defer cart.Close()
	cart.OnChange(func(model.CartView) {
		mu.Lock()
		defer mu.Unlock()
		a.out.Header(cart.Badge.State(), cart.Gate.State())
	})
	if err := cart.Start(ctx); err != nil {
		return err
	}

	notifications := a.notificationService()
	bell := controller.NewNotificationController(notifications, a.bus, a.notices)
	defer bell.Close()
	bell.OnChange(func(panel model.NotificationPanel) {
		mu.Lock()
		defer mu.Unlock()
		a.out.Notifications(panel)
	})
	if err := bell.Start(ctx); err != nil {
		return err
	}

	listener, err := bell.ConnectPush(a.cfg.Storefront.BaseURL, a.cfg.Notifications.PushPath, a.cfg.Storefront.SessionCookie)
	if err != nil {
		// Polling still keeps the count fresh
		logger.Warn("Push channel unavailable", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		logger.Info("Listening for notification pushes", map[string]interface{}{
			"url": listener.URL(),
		})
	}

	refresher := scheduler.NewRefreshScheduler(*schedule, a.bus, notifications)
	if err := refresher.Start(); err != nil {
		return err
	}
	defer refresher.Stop()

	mu.Lock()
	a.out.Header(cart.Badge.State(), cart.Gate.State())
	a.out.Notifications(bell.Panel())
	mu.Unlock()

	<-ctx.Done()
	return nil
}
