package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/partspoint/checkout-backend/api/routes"
	checkoutsvc "github.com/partspoint/checkout-backend/internal/checkout"
	"github.com/partspoint/checkout-backend/internal/gateway"
	"github.com/partspoint/checkout-backend/internal/payments/razorpay"
	"github.com/partspoint/checkout-backend/pkg/config"
	"github.com/partspoint/checkout-backend/pkg/logger"
	"github.com/partspoint/checkout-backend/pkg/metrics"
	pkgredis "github.com/partspoint/checkout-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "checkout-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "checkout-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	var redisClient *pkgredis.Client
	var repo checkoutsvc.Repository
	if cfg.Redis.Configured() {
		redisClient, err = pkgredis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		repo = checkoutsvc.NewRedisRepository(redisClient, cfg.Checkout.SessionTTL)
	} else {
		logg.Warn(context.Background(), "redis not configured, keeping checkout sessions in process memory")
		repo = checkoutsvc.NewMemoryRepository(cfg.Checkout.SessionTTL)
	}

	registry := prometheus.NewRegistry()
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	gatewayClient, err := gateway.NewClient(cfg.Gateway, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build storefront gateway client", err)
		os.Exit(1)
	}

	bridge := razorpay.NewBridge(cfg.Razorpay)
	if !bridge.Enabled() {
		logg.Warn(context.Background(), "razorpay key not configured, online payment disabled")
	}

	checkoutService, err := checkoutsvc.NewService(
		repo,
		gatewayClient,
		bridge,
		checkoutsvc.NewPricer(cfg.Pricing),
		logg,
		checkoutMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
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
	logg.Info(ctx, "starting checkout api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, redisClient, checkoutService, registry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "checkout api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
