package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"moneta/internal/amqp"
	"moneta/internal/backup"
	"moneta/internal/backup/factory"
	"moneta/internal/config"
	apphttp "moneta/internal/http"
	applog "moneta/internal/log"
	"moneta/internal/services"
	"moneta/internal/storage"
)

func main() {
	// .env is for local development; absence is fine in containers.
	_ = godotenv.Load()

	logger := applog.New(applog.FromEnv())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("failed to initialize storage", applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}

	// Change events are optional: without a broker the app still works,
	// only the backup worker goes blind.
	var publisher services.ChangePublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, continuing without change events", applog.FieldError, err)
		} else {
			publisher = client
			logger.Info("connected to AMQP", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	finance := services.NewFinanceService(repo, publisher, logger)
	defer func() {
		if err := finance.Close(); err != nil {
			logger.Error("close services", applog.FieldError, err)
		}
	}()

	reports := services.NewReportService(repo, cfg.MainCurrency, cfg.ReportCacheTTL, cfg.ReportCacheMax, logger)

	// The in-process backup endpoints share the worker's snapshot store.
	var backups *backup.Service
	if cfg.BackupUserID != "" {
		store, err := factory.NewStore(context.Background(), cfg, logger)
		if err != nil {
			logger.Error("failed to initialize backup store", applog.FieldError, err)
			os.Exit(1)
		}
		backups = backup.NewService(repo, store, cfg.BackupUserID, logger)
	} else {
		logger.Info("backup endpoints disabled, no BACKUP_USER_ID set")
	}

	srv := apphttp.NewServer(":"+cfg.Port, finance, reports, backups, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting moneta server", "port", cfg.Port, "main_currency", cfg.MainCurrency)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("server stopped gracefully")
}
