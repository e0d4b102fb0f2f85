// Package worker runs the event-driven backup loop: store-change events
// feed the debouncer, with a periodic safety-net backup for events the
// broker lost.
package worker

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"moneta/internal/amqp"
	"moneta/internal/backup"
	applog "moneta/internal/log"
)

type BackupWorker struct {
	client    *amqp.Client
	svc       *backup.Service
	debouncer *backup.Debouncer
	interval  time.Duration
	logger    *applog.Logger
}

func NewBackupWorker(client *amqp.Client, svc *backup.Service, debouncer *backup.Debouncer, interval time.Duration, logger *applog.Logger) *BackupWorker {
	return &BackupWorker{
		client:    client,
		svc:       svc,
		debouncer: debouncer,
		interval:  interval,
		logger:    logger.WithComponent(applog.ComponentWorker),
	}
}

// StartupCheck uploads an initial snapshot when the store has none yet, so
// a fresh deployment is covered before the first change event arrives.
// Existing remote snapshots are left alone.
func (w *BackupWorker) StartupCheck(ctx context.Context) error {
	snap, err := w.svc.RemoteSnapshot(ctx)
	switch {
	case errors.Is(err, backup.ErrNoSnapshot):
		w.logger.InfoContext(ctx, "no remote snapshot found, uploading initial backup")
		_, err := w.svc.Backup(ctx)
		return err
	case err != nil:
		return err
	default:
		w.logger.InfoContext(ctx, "remote snapshot present",
			applog.FieldSnapshotID, snap.ID,
			"created_at", snap.CreatedAt,
		)
		return nil
	}
}

// Run consumes change events and keeps the safety-net ticker going until
// the context is cancelled.
func (w *BackupWorker) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := w.client.ConsumeStoreChanges(ctx, func(msg *amqp.StoreChangedMessage) error {
			w.logger.DebugContext(ctx, "store change received",
				applog.FieldEntity, msg.Entity,
				applog.FieldOperation, msg.Op,
				applog.FieldEntityID, msg.ID,
			)
			w.debouncer.Notify()
			return nil
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if _, err := w.svc.Backup(ctx); err != nil {
					w.logger.ErrorContext(ctx, "periodic backup failed", applog.FieldError, err)
				}
			}
		}
	})

	err := g.Wait()
	w.debouncer.Stop()
	return err
}
