package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"lompakko/internal/infrastructure/postgres"
	"lompakko/internal/interfaces/scheduler"
	"lompakko/internal/shared/config"
	"lompakko/internal/shared/telemetry"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Load .env if present (development convenience)
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Initialize telemetry (if enabled)
	if cfg.Telemetry.Enabled {
		shutdownTelemetry, err := telemetry.Init(context.Background(), telemetry.Config{
			ServiceName:  cfg.Telemetry.ServiceName,
			Environment:  cfg.Telemetry.Environment,
			OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
			MetricsPort:  cfg.Telemetry.MetricsPort,
		})
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := shutdownTelemetry(ctx); err != nil {
				log.Printf("Telemetry shutdown error: %v", err)
			}
		}()
	}

	// Apply database migrations
	if err := postgres.RunMigrations(cfg.Database.ConnectionString()); err != nil {
		return err
	}
	log.Println("Database migrations applied")

	deps, err := NewDependencies(cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	// Background subscription expiry sweep (if enabled)
	var (
		pool    *scheduler.WorkerPool
		sweeper *scheduler.Sweeper
	)
	if cfg.Sweeper.Enabled {
		pool = scheduler.NewWorkerPool(cfg.Sweeper.WorkerCount, cfg.Sweeper.QueueSize)
		pool.Start()

		job := scheduler.NewSubscriptionSweepJob(deps.UserRepo)
		sweeper = scheduler.NewSweeper(pool, job, cfg.Sweeper.Interval, cfg.Sweeper.RunOnStartup)
		sweeper.Start()
	} else {
		log.Println("Subscription sweeper is disabled")
	}

	handler := SetupRoutes(deps, cfg)
	srv := StartServer(cfg.Server.Host+":"+cfg.Server.Port, handler)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	GracefulShutdown(srv, sweeper, pool, 30*time.Second)
	return nil
}
