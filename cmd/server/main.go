package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/nekogravitycat/reservation-backend/internal/app"
	"github.com/nekogravitycat/reservation-backend/internal/config"
	"github.com/nekogravitycat/reservation-backend/internal/db"
	"github.com/nekogravitycat/reservation-backend/internal/pkg/logger"
	"github.com/nekogravitycat/reservation-backend/internal/pkg/telemetry"
)

const serviceName = "reservation-backend"

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.IsProduction)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:      cfg.OTelEnabled,
		ServiceName:  serviceName,
		OTLPEndpoint: cfg.OTelEndpoint,
		SampleRatio:  cfg.OTelSampleRatio,
	})
	if err != nil {
		zl.Fatal("failed to set up tracing", zap.Error(err))
	}

	// Connect DB
	pool, err := db.NewPool(ctx, cfg.DBDSN, db.PoolOptions{})
	if err != nil {
		zl.Fatal("failed to connect to db", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		zl.Fatal("failed to migrate db", zap.Error(err))
	}

	container := app.NewContainer(app.Config{
		IsProduction:        cfg.IsProduction,
		ProdOrigins:         cfg.ProdOrigins,
		DBPool:              pool,
		Logger:              zl,
		BusinessHours:       cfg.BusinessHours,
		Location:            cfg.Location,
		AvailabilityMaxDays: cfg.AvailabilityMaxDays,
		RedisAddr:           cfg.RedisAddr,
		RedisPassword:       cfg.RedisPassword,
		RateLimitPerMinute:  cfg.RateLimitPerMinute,
		KafkaBrokers:        cfg.KafkaBrokers,
		KafkaTopic:          cfg.KafkaTopic,
	})

	// Persisted salon hours override the env defaults.
	if err := container.SalonService.Load(ctx); err != nil {
		zl.Fatal("failed to load salon settings", zap.Error(err))
	}

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(container.Router, serviceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Run server in separate goroutine
	go func() {
		zl.Info("server running", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	zl.Info("shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Warn("server forced to shutdown", zap.Error(err))
	}
	if err := container.Close(); err != nil {
		zl.Warn("failed to close container", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		zl.Warn("failed to flush traces", zap.Error(err))
	}

	zl.Info("server exited gracefully")
}
