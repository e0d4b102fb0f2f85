// Package backup exports the local store as a snapshot document and moves
// it to and from a cloud snapshot store. The trigger path is event-driven:
// store changes arrive over AMQP and a debouncer collapses bursts into a
// single upload per quiet period.
package backup

import (
	"context"
	"time"

	"moneta/internal/storage"
)

// Snapshot is one full export of the store, the unit of backup/restore.
type Snapshot struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	Schema    int          `json:"schema"`
	CreatedAt time.Time    `json:"created_at"`
	Data      storage.Dump `json:"data"`
}

// SchemaVersion is stamped on every snapshot; Restore refuses anything newer.
const SchemaVersion = 1

// Store is an outbound port to a cloud document store holding one snapshot
// per user.
type Store interface {
	// Upload replaces the user's stored snapshot.
	Upload(ctx context.Context, userID string, snap *Snapshot) error
	// Download returns the user's stored snapshot, or ErrNoSnapshot when
	// the user has never backed up.
	Download(ctx context.Context, userID string) (*Snapshot, error)
}
