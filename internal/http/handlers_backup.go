package http

import (
	"errors"
	"net/http"
	"time"

	"moneta/internal/backup"
)

type backupResponse struct {
	SnapshotID string    `json:"snapshot_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	if s.backups == nil {
		http.Error(w, "backup not configured", http.StatusServiceUnavailable)
		return
	}
	snap, err := s.backups.Backup(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, backupResponse{SnapshotID: snap.ID, CreatedAt: snap.CreatedAt})
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	if s.backups == nil {
		http.Error(w, "backup not configured", http.StatusServiceUnavailable)
		return
	}
	snap, err := s.backups.Restore(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, backup.ErrNoSnapshot):
			writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		case errors.Is(err, backup.ErrSchemaTooNew):
			writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
		default:
			writeError(w, r, err)
		}
		return
	}
	s.reports.Invalidate()
	writeJSON(w, http.StatusOK, backupResponse{SnapshotID: snap.ID, CreatedAt: snap.CreatedAt})
}
