package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"moneta/internal/amqp"
	"moneta/internal/backup"
	"moneta/internal/backup/factory"
	"moneta/internal/config"
	applog "moneta/internal/log"
	"moneta/internal/storage"
	"moneta/internal/worker"
)

// Safety-net backup cadence when no change events arrive.
const periodicBackupInterval = 6 * time.Hour

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.FromEnv())
	applog.SetDefault(logger)
	logger.Info("starting moneta-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the backup worker")
		os.Exit(1)
	}
	if cfg.BackupUserID == "" {
		logger.Error("BACKUP_USER_ID is required for the backup worker")
		os.Exit(1)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("failed to initialize storage", applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := factory.NewStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize backup store", applog.FieldError, err)
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	svc := backup.NewService(repo, store, cfg.BackupUserID, logger)
	debouncer := backup.NewDebouncer(svc, cfg.BackupQuietPeriod, logger)
	w := worker.NewBackupWorker(client, svc, debouncer, periodicBackupInterval, logger)

	if err := w.StartupCheck(ctx); err != nil {
		logger.Error("startup backup check failed", applog.FieldError, err)
		// Keep running; the event loop can still catch up later.
	}

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped with error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("worker shutdown complete")
}
