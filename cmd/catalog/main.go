// cmd/catalog/main.go
package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/middleware"
	"storefront/internal/productstore"
	"storefront/internal/server"
	"storefront/internal/telemetry"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load("catalog")
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

	source, closeSource, err := newSource(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to set up product source: %v", err)
	}
	defer closeSource()

	svc, err := catalog.NewService(source)
	if err != nil {
		log.Fatalf("Failed to create catalog service: %v", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RequestLogger, chimw.Recoverer)
	r.Get("/healthz", server.Healthz)
	catalog.NewHandler(svc).Routes(r)

	log.WithField("source", cfg.Catalog.Source).Info("Starting catalog service")
	if err := server.Run(ctx, cfg.Server.Addr(), r, cfg.Server.ShutdownTimeout); err != nil {
		log.Fatalf("Catalog service exited with error: %v", err)
	}
}

func newSource(ctx context.Context, cfg *config.Config) (catalog.Source, func(), error) {
	if cfg.Catalog.Source == "static" {
		src, err := catalog.NewStaticSource(catalog.SampleProducts())
		return src, func() {}, err
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		return nil, nil, err
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}

	store := productstore.NewStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	if cfg.Catalog.SeedOnStart {
		if err := store.UpsertProducts(ctx, catalog.SampleProducts()); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Info("Seeded sample catalog")
	}

	return store, func() { db.Close() }, nil
}
