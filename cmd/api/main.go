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
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storeit/internal/config"
	"storeit/internal/database"
	"storeit/internal/database/migration"
	handlers "storeit/internal/http/handler"
	"storeit/internal/http/middleware"
	"storeit/internal/mail"
	"storeit/internal/otel"
	"storeit/internal/reconcile"
	"storeit/internal/repository/postgres"
	"storeit/internal/service"
	"storeit/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()
	loc := time.UTC

	// Initialize OpenTelemetry tracing (no-op when OTEL_SDK_DISABLED=true)
	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	sender, err := mail.NewSMTP(cfg.SMTP)
	if err != nil {
		log.Fatalf("failed to initialize mail sender: %v", err)
	}

	// Initialize repositories and services
	fileRepo := postgres.NewFilePostgres(db)
	userRepo := postgres.NewUserPostgres(db)
	sessionRepo := postgres.NewSessionPostgres(db)
	otpRepo := postgres.NewOTPPostgres(db)

	fileSvc := service.NewFileService(objStore, fileRepo, cfg.Upload.MaxBytes)
	authSvc := service.NewAuthService(userRepo, sessionRepo, otpRepo, sender, cfg.Auth)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	reg := prometheus.NewRegistry()
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to initialize prometheus middleware: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Register HTTP routes with injected services
	sessionTTL := time.Duration(cfg.Auth.SessionTTLHours) * time.Hour
	handlers.RegisterRoutes(app, db, fileSvc, authSvc, sessionTTL)

	// Background sweep for objects whose metadata row never landed
	if cfg.Reconcile.Enabled {
		sweeper := reconcile.NewSweeper(objStore, fileRepo,
			time.Duration(cfg.Reconcile.GraceMin)*time.Minute)
		go sweeper.RunEvery(ctx, time.Duration(cfg.Reconcile.IntervalMin)*time.Minute)
	}

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
