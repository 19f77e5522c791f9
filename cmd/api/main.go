package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ahmadchreiff/eigen-journal/internal/auth"
	"github.com/ahmadchreiff/eigen-journal/internal/config"
	"github.com/ahmadchreiff/eigen-journal/internal/database"
	"github.com/ahmadchreiff/eigen-journal/internal/database/migration"
	handlers "github.com/ahmadchreiff/eigen-journal/internal/http/handler"
	"github.com/ahmadchreiff/eigen-journal/internal/http/middleware"
	"github.com/ahmadchreiff/eigen-journal/internal/otel"
	"github.com/ahmadchreiff/eigen-journal/internal/repository/postgres"
	"github.com/ahmadchreiff/eigen-journal/internal/service"
	"github.com/ahmadchreiff/eigen-journal/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Object store backend: flat local directory by default, S3-compatible
	// when configured.
	var store storage.Storage
	switch cfg.Storage.Backend {
	case "s3":
		store, err = storage.NewMinIO(cfg.Storage.MinIO)
	default:
		store, err = storage.NewFS(cfg.Storage.Root)
	}
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	tokenManager := auth.NewTokenManager(cfg.Auth)
	authenticator := auth.NewAuthenticator(cfg.Auth, tokenManager)

	draftRepo := postgres.NewDraftPostgres(db)
	draftSvc := service.NewDraftService(store, draftRepo)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Register HTTP routes with injected dependencies
	handlers.RegisterRoutes(app, db, authenticator, tokenManager, draftSvc)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
