package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/artnebula/artnebula-backend/api/routes"
	authsvc "github.com/artnebula/artnebula-backend/internal/auth"
	cartsvc "github.com/artnebula/artnebula-backend/internal/cart"
	"github.com/artnebula/artnebula-backend/internal/catalog"
	checkoutsvc "github.com/artnebula/artnebula-backend/internal/checkout"
	ordersvc "github.com/artnebula/artnebula-backend/internal/orders"
	paymentsvc "github.com/artnebula/artnebula-backend/internal/payments"
	salessvc "github.com/artnebula/artnebula-backend/internal/sales"
	"github.com/artnebula/artnebula-backend/internal/users"
	"github.com/artnebula/artnebula-backend/pkg/auth/session"
	"github.com/artnebula/artnebula-backend/pkg/config"
	"github.com/artnebula/artnebula-backend/pkg/db"
	"github.com/artnebula/artnebula-backend/pkg/logger"
	"github.com/artnebula/artnebula-backend/pkg/metrics"
	"github.com/artnebula/artnebula-backend/pkg/migrate"
	"github.com/artnebula/artnebula-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	closeResources := func() {
		err := multierr.Combine(
			redisClient.Close(),
			dbClient.Close(),
		)
		if err != nil {
			logg.Error(context.Background(), "error closing resources", err)
		}
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		closeResources()
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)
	orderMetrics := metrics.NewOrderFlowMetrics(prometheus.DefaultRegisterer)

	userRepo := users.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())
	ordersRepo := ordersvc.NewRepository(dbClient.DB())

	cartRepo, err := cartsvc.NewRepository(redisClient, cfg.Cart)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart repository", err)
		closeResources()
		os.Exit(1)
	}

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		closeResources()
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		closeResources()
		os.Exit(1)
	}

	cartService, err := cartsvc.NewService(cartRepo, catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		closeResources()
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		DB:      dbClient,
		Catalog: catalogRepo,
		Carts:   cartService,
		Metrics: orderMetrics,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		closeResources()
		os.Exit(1)
	}

	paymentsService, err := paymentsvc.NewService(paymentsvc.ServiceParams{
		DB:      dbClient,
		Metrics: orderMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		closeResources()
		os.Exit(1)
	}

	ordersService, err := ordersvc.NewService(ordersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		closeResources()
		os.Exit(1)
	}

	salesService, err := salessvc.NewService(ordersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create sales service", err)
		closeResources()
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			DB:          dbClient,
			Redis:       redisClient,
			Sessions:    sessionManager,
			HTTPMetrics: httpMetrics,
			Auth:        authService,
			Catalog:     catalogService,
			Cart:        cartService,
			Checkout:    checkoutService,
			Payments:    paymentsService,
			Orders:      ordersService,
			Sales:       salesService,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			closeResources()
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "error during server shutdown", err)
		}
	}

	closeResources()
	logg.Info(ctx, "api server stopped")
}
