package backup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	applog "moneta/internal/log"
	"moneta/internal/storage"
)

var (
	// ErrNoSnapshot indicates the user has never uploaded a backup.
	ErrNoSnapshot = errors.New("backup: no snapshot for user")
	// ErrSchemaTooNew indicates the stored snapshot was written by a newer
	// build and cannot be restored safely.
	ErrSchemaTooNew = errors.New("backup: snapshot schema is newer than this build")
)

// Service exports the repository and ships snapshots through a Store.
type Service struct {
	repo   *storage.Repository
	store  Store
	userID string
	logger *applog.Logger
}

func NewService(repo *storage.Repository, store Store, userID string, logger *applog.Logger) *Service {
	return &Service{
		repo:   repo,
		store:  store,
		userID: userID,
		logger: logger.WithComponent(applog.ComponentBackup),
	}
}

// Export builds a snapshot from the current repository state without
// uploading it.
func (s *Service) Export(ctx context.Context) (*Snapshot, error) {
	dump, err := s.repo.ExportAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("export store: %w", err)
	}
	return &Snapshot{
		ID:        uuid.NewString(),
		UserID:    s.userID,
		Schema:    SchemaVersion,
		CreatedAt: time.Now().UTC(),
		Data:      *dump,
	}, nil
}

// Backup exports the store and uploads the snapshot, replacing whatever the
// store held for the user.
func (s *Service) Backup(ctx context.Context) (*Snapshot, error) {
	snap, err := s.Export(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.store.Upload(ctx, s.userID, snap); err != nil {
		return nil, fmt.Errorf("upload snapshot: %w", err)
	}
	s.logger.InfoContext(ctx, "backup uploaded",
		applog.FieldSnapshotID, snap.ID,
		applog.FieldUserID, s.userID,
		"transactions", len(snap.Data.Transactions),
	)
	return snap, nil
}

// RemoteSnapshot fetches the stored snapshot without touching local data.
func (s *Service) RemoteSnapshot(ctx context.Context) (*Snapshot, error) {
	return s.store.Download(ctx, s.userID)
}

// Restore downloads the user's snapshot and replaces the local store with it.
// The import is transactional: on error the local data is untouched.
func (s *Service) Restore(ctx context.Context) (*Snapshot, error) {
	snap, err := s.store.Download(ctx, s.userID)
	if err != nil {
		return nil, err
	}
	if snap.Schema > SchemaVersion {
		return nil, fmt.Errorf("%w: got %d, support up to %d", ErrSchemaTooNew, snap.Schema, SchemaVersion)
	}
	if err := s.repo.ImportAll(ctx, &snap.Data); err != nil {
		return nil, fmt.Errorf("import snapshot: %w", err)
	}
	s.logger.InfoContext(ctx, "backup restored",
		applog.FieldSnapshotID, snap.ID,
		applog.FieldUserID, s.userID,
	)
	return snap, nil
}
