// Package memory provides an in-memory snapshot store for tests and for
// running without cloud credentials.
package memory

import (
	"context"
	"sync"

	"moneta/internal/backup"
)

type Store struct {
	mu    sync.RWMutex
	snaps map[string]*backup.Snapshot
}

func NewStore() *Store {
	return &Store{snaps: make(map[string]*backup.Snapshot)}
}

func (s *Store) Upload(ctx context.Context, userID string, snap *backup.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cp := *snap
	s.mu.Lock()
	s.snaps[userID] = &cp
	s.mu.Unlock()
	return nil
}

func (s *Store) Download(ctx context.Context, userID string) (*backup.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	snap, ok := s.snaps[userID]
	s.mu.RUnlock()
	if !ok {
		return nil, backup.ErrNoSnapshot
	}
	cp := *snap
	return &cp, nil
}
