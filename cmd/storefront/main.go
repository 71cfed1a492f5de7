package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"license-storefront/internal/backend"
	"license-storefront/internal/config"
	"license-storefront/internal/db"
	"license-storefront/internal/httpserver"
	"license-storefront/internal/migrate"
	orderrepo "license-storefront/internal/repository/order"
	cartsvc "license-storefront/internal/service/cart"
	catalogsvc "license-storefront/internal/service/catalog"
	sessionsvc "license-storefront/internal/service/session"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[storefront] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()

	var pool *pgxpool.Pool
	orderStore := orderrepo.NewMemory()
	if cfg.DBConnString != "" {
		var err error
		pool, err = db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			logger.Fatalf("connect to db: %v", err)
		}
		defer pool.Close()
		if err := migrate.Apply(ctx, pool); err != nil {
			logger.Fatalf("apply migrations: %v", err)
		}
		orderStore = orderrepo.NewPostgres(pool, logger)
		logger.Printf("order store: postgres")
	} else {
		logger.Printf("order store: memory (carts do not survive restarts)")
	}

	backendClient := backend.New(cfg.BackendBaseURL, cfg.BackendTimeout, logger)
	sessionService := sessionsvc.New(backendClient, cfg.SessionTTL, logger)
	cartService := cartsvc.New(orderStore, logger)
	catalogService := catalogsvc.New(backendClient)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, pool, httpserver.Deps{
		SessionSvc: sessionService,
		CartSvc:    cartService,
		CatalogSvc: catalogService,
	}, cfg.AllowedOrigins)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s (backend %s)", cfg.HTTPAddr, cfg.BackendBaseURL)
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
