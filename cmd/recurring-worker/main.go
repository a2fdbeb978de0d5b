package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"wealthtracker/internal/backend"
	"wealthtracker/internal/config"
	"wealthtracker/internal/log"
	"wealthtracker/internal/services"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := log.DefaultConfig()
	cfg.Component = log.ComponentWorker
	logger := log.New(cfg)
	log.SetDefault(logger)

	logger.Info("Starting recurring-worker")

	appCfg := config.Load()
	if err := appCfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	backendCfg, err := backend.FromAppConfig(appCfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger.Logger)
	result, err := factory.CreateBackend(backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", appCfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := result.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", "error", err)
		}
	}()

	notifier := services.NewAMQPNotifier(result.Events)
	processor := services.NewRecurringProcessor(result.Store, notifier)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Recurring transaction processor configured",
		"interval", appCfg.RecurringInterval,
		"backend", appCfg.DataBackend)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return processor.Run(gctx, appCfg.RecurringInterval)
	})

	// With a broker configured this worker also drains the change event
	// queue, writing an audit log line per entity change.
	if result.Events != nil {
		auditor := services.NewChangeAuditor(logger.Logger)
		g.Go(func() error {
			return result.Events.ConsumeEntityChanges(gctx, auditor.Handle)
		})
	}

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Recurring-worker shutdown complete")
}
