package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/storefront/config"
	"github.com/ikkim/storefront/internal/fakestore"
	"github.com/ikkim/storefront/internal/middleware"
	"github.com/ikkim/storefront/internal/router"
	"github.com/ikkim/storefront/internal/websocket"
	"github.com/ikkim/storefront/pkg/logger"
)

func main() {
	seedPath := flag.String("seed", "", "xlsx catalog to load instead of the built-in one")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := cfg.Log.Level
	if cfg.App.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      cfg.Log.Format,
		EnableColor: true,
	})

	logger.Info("Starting fake storefront", map[string]interface{}{
		"environment": cfg.App.Environment,
		"address":     cfg.App.FakeStoreAddr,
		"log_level":   logLevel,
	})

	// Load the catalog
	catalog := fakestore.DefaultCatalog()
	if *seedPath != "" {
		catalog, err = fakestore.LoadProductsXLSX(*seedPath)
		if err != nil {
			logger.Fatal("Failed to load seed catalog", err, map[string]interface{}{
				"path": *seedPath,
			})
		}
	}
	store := fakestore.NewStore()
	fakestore.Seed(store, catalog)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Push hub for notification counts
	hub := websocket.NewHub()
	go hub.Run(ctx)

	// CSRF token; an empty config value accepts nothing
	token := cfg.Storefront.CSRFToken
	if token == "" {
		token = router.TestCSRFToken
		logger.Warn("STOREFRONT_CSRF_TOKEN not set, using the test token", map[string]interface{}{
			"token": token,
		})
	}

	// Setup router
	r := router.NewRouter(
		fakestore.NewHandler(store, hub),
		middleware.NewCSRFMiddleware(token),
		cfg.App.GinMode,
		cfg.Notifications.PushPath,
	)
	srv := &http.Server{
		Addr:    cfg.App.FakeStoreAddr,
		Handler: r.Setup(),
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Fake storefront started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down fake storefront gracefully...", nil)
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", err)
	}
	logger.Info("Fake storefront stopped", nil)
}
