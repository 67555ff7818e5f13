package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/backend"
	"storefront/internal/config"
	"storefront/internal/httpserver"
	"storefront/internal/payment"
	cartsvc "storefront/internal/service/cart"
	checkoutsvc "storefront/internal/service/checkout"
	couponsvc "storefront/internal/service/coupon"
	favoritessvc "storefront/internal/service/favorites"
	sessionsvc "storefront/internal/service/session"
	"storefront/internal/storage"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[storefront] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()

	var store storage.Store
	var pinger httpserver.Pinger
	if cfg.RedisAddr != "" {
		redisStore, err := storage.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Fatalf("connect to redis: %v", err)
		}
		defer redisStore.Close()
		store = redisStore
		pinger = redisStore
	} else {
		logger.Printf("REDIS_ADDR not set, using in-memory snapshot store")
		store = storage.NewMemory()
	}

	backendClient, err := backend.New(cfg.BackendBaseURL, nil, logger)
	if err != nil {
		logger.Fatalf("init backend client: %v", err)
	}
	provider, err := payment.NewClient(cfg.PaymentBaseURL, cfg.PaymentPublicKey, nil)
	if err != nil {
		logger.Fatalf("init payment client: %v", err)
	}

	sessions := sessionsvc.New(store, cfg.SessionTTL)
	carts := cartsvc.New(store, cfg.TaxRatePercent, logger)
	coupons := couponsvc.New(store, logger)
	favorites := favoritessvc.New(backendClient, store, logger)
	orchestrator := checkoutsvc.New(backendClient, provider, carts, coupons, checkoutsvc.Options{
		BillingCountry:  cfg.BillingCountry,
		PollInterval:    cfg.PollInterval,
		PollMaxAttempts: cfg.PollMaxAttempts,
	}, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Auth:           backendClient,
		Catalog:        backendClient,
		Sessions:       sessions,
		Carts:          carts,
		Coupons:        coupons,
		Checkout:       orchestrator,
		Favorites:      favorites,
		Prefs:          store,
		AllowedOrigins: cfg.AllowedOrigins,
		Pinger:         pinger,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
