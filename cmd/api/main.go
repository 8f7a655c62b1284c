package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/georgemunganga/bookstore-backend/internal/app"
	"github.com/georgemunganga/bookstore-backend/internal/config"
	"github.com/georgemunganga/bookstore-backend/internal/modules/auth"
	"github.com/georgemunganga/bookstore-backend/internal/platform/database"
	"github.com/georgemunganga/bookstore-backend/internal/platform/events"
	"github.com/georgemunganga/bookstore-backend/internal/platform/telemetry"
	"github.com/georgemunganga/bookstore-backend/internal/store"
	"github.com/georgemunganga/bookstore-backend/migrations"
)

const serviceName = "bookstore-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry ───────────────────────────────────────────
	if cfg.OTLPEndpoint != "" {
		shutdownTracer, err := telemetry.InitTracerProvider(ctx, cfg.OTLPEndpoint, serviceName, cfg.Version)
		if err != nil {
			logger.Error("failed to init tracer provider", "error", err)
			os.Exit(1)
		}
		defer shutdownWithin(logger, "tracer provider", shutdownTracer)
	}

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(serviceName, cfg.Version)
	if err != nil {
		logger.Error("failed to init meter provider", "error", err)
		os.Exit(1)
	}
	defer shutdownWithin(logger, "meter provider", shutdownMeter)

	// ── Storage ─────────────────────────────────────────────
	var (
		repos app.Repositories
		ready func(context.Context) error
	)
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		if err := database.Migrate(migrations.FS, cfg.DatabaseURL); err != nil {
			logger.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
		db, err := database.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer func(db *sql.DB) { _ = db.Close() }(db)
		repos = app.PostgresRepositories(db)
		ready = db.PingContext
		logger.Info("connected to database")
	default:
		repos = app.MemoryRepositories(store.NewMemory())
		logger.Info("using in-memory storage")
	}

	// ── Order events ────────────────────────────────────────
	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.OrderEventsTopic)
		logger.Info("publishing order events", "brokers", cfg.KafkaBrokers, "topic", cfg.OrderEventsTopic)
	}
	defer func() { _ = publisher.Close() }()

	application := app.New(app.Options{
		Repos:              repos,
		Tokens:             auth.NewTokenCodec([]byte(cfg.JWTSecret), cfg.JWTTTL),
		Publisher:          publisher,
		Logger:             logger,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Metrics:            metricsHandler,
		Ready:              ready,
	})

	if cfg.SeedData {
		if err := store.Seed(ctx, application.Users, application.Books, logger); err != nil {
			logger.Error("failed to seed data", "error", err)
			os.Exit(1)
		}
	}

	// ── Start Server ────────────────────────────────────────
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(application.Router, serviceName),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	go func() {
		logger.Info("starting bookstore api", "port", cfg.Port, "storage", cfg.StorageDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func shutdownWithin(logger *slog.Logger, name string, shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		logger.Error("failed to shut down "+name, "error", err)
	}
}
