// cmd/cart/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/cart"
	"storefront/internal/clients"
	"storefront/internal/config"
	"storefront/internal/middleware"
	"storefront/internal/server"
	"storefront/internal/telemetry"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load("cart")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := telemetry.SetupLogging(cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		log.Fatalf("Failed to configure telemetry: %v", err)
	}
	defer shutdownTelemetry(context.Background())

	pricing, err := cart.ParsePricing(cfg.Cart.FreeShippingThreshold, cfg.Cart.ShippingFee, cfg.Cart.TaxRate)
	if err != nil {
		log.Fatalf("Invalid pricing configuration: %v", err)
	}

	catalogClient := clients.NewCatalogClient(cfg.Services.CatalogURL, cfg.Services.Timeout)
	defer catalogClient.Close()

	g, ctx := errgroup.WithContext(ctx)

	var store cart.Store
	switch cfg.Cart.Store {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		store = cart.NewRedisStore(rdb, cfg.Cart.SessionTTL)
	default:
		mem := cart.NewMemoryStore(cfg.Cart.SessionTTL)
		g.Go(func() error {
			return mem.RunSweeper(ctx, time.Minute)
		})
		store = mem
	}

	svc, err := cart.NewService(store, catalogClient, pricing)
	if err != nil {
		log.Fatalf("Failed to create cart service: %v", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RequestLogger, chimw.Recoverer)
	r.Get("/healthz", server.Healthz)
	cart.NewHandler(svc).Routes(r)

	log.WithFields(log.Fields{
		"store":   cfg.Cart.Store,
		"catalog": cfg.Services.CatalogURL,
	}).Info("Starting cart service")

	g.Go(func() error {
		return server.Run(ctx, cfg.Server.Addr(), r, cfg.Server.ShutdownTimeout)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Cart service exited with error: %v", err)
	}
}
