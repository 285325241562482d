// cmd/api/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/config"
	"storefront/internal/gateway"
	"storefront/internal/server"
	"storefront/internal/telemetry"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.Load("api")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := telemetry.SetupLogging(cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}

	router, err := gateway.NewRouter(gateway.Upstreams{
		CatalogURL: cfg.Services.CatalogURL,
		CartURL:    cfg.Services.CartURL,
	}, rate.NewLimiter(rate.Limit(cfg.Gateway.RPS), cfg.Gateway.Burst))
	if err != nil {
		log.Fatalf("Failed to build gateway: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"catalog": cfg.Services.CatalogURL,
		"cart":    cfg.Services.CartURL,
	}).Info("Starting API gateway")
	if err := server.Run(ctx, cfg.Server.Addr(), router, cfg.Server.ShutdownTimeout); err != nil {
		log.Fatalf("Gateway exited with error: %v", err)
	}
}
