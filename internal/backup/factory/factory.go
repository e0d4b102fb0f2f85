// Package factory selects the snapshot store implementation from
// configuration.
package factory

import (
	"context"
	"fmt"

	"moneta/internal/backup"
	"moneta/internal/backup/drive"
	"moneta/internal/backup/memory"
	"moneta/internal/config"
	applog "moneta/internal/log"
)

// NewStore creates the configured snapshot store. "memory" holds snapshots
// in process and loses them on exit; "drive" persists them to Google Drive.
func NewStore(ctx context.Context, cfg *config.Config, logger *applog.Logger) (backup.Store, error) {
	log := logger.WithComponent(applog.ComponentBackup)
	switch cfg.BackupBackend {
	case "memory":
		log.Warn("using in-memory snapshot store, backups will not survive restarts")
		return memory.NewStore(), nil
	case "drive":
		store, err := drive.New(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("initialize drive store: %w", err)
		}
		log.Info("initialized Google Drive snapshot store", "folder", cfg.GoogleDriveFolder)
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported backup backend: %s", cfg.BackupBackend)
	}
}
