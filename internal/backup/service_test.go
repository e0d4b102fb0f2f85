package backup_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"moneta/internal/backup"
	"moneta/internal/backup/memory"
	"moneta/internal/core"
	applog "moneta/internal/log"
	"moneta/internal/storage"
)

func newTestService(t *testing.T) (*backup.Service, *storage.Repository, *memory.Store) {
	t.Helper()
	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	store := memory.NewStore()
	logger := applog.New(applog.DefaultConfig())
	return backup.NewService(repo, store, "user-1", logger), repo, store
}

func seed(t *testing.T, repo *storage.Repository) {
	t.Helper()
	ctx := context.Background()
	acc, err := repo.CreateAccount(ctx, core.Account{Name: "Cash", Currency: "TWD", Balance: 500})
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	_, err = repo.CreateTransaction(ctx, core.Transaction{
		Amount:      120,
		Type:        core.Expense,
		Date:        time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
		Description: "餐飲 lunch",
		AccountID:   acc.ID,
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if err := repo.SaveCurrencySettings(ctx, core.RateTable{"USD": 0.032, "JPY": 4.7}); err != nil {
		t.Fatalf("SaveCurrencySettings: %v", err)
	}
}

func TestExportStampsMetadata(t *testing.T) {
	svc, repo, _ := newTestService(t)
	seed(t, repo)

	snap, err := svc.Export(context.Background())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if snap.ID == "" {
		t.Error("expected generated snapshot id")
	}
	if snap.UserID != "user-1" {
		t.Errorf("UserID = %q, want user-1", snap.UserID)
	}
	if snap.Schema != backup.SchemaVersion {
		t.Errorf("Schema = %d, want %d", snap.Schema, backup.SchemaVersion)
	}
	if snap.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
	if len(snap.Data.Accounts) != 1 || len(snap.Data.Transactions) != 1 {
		t.Errorf("dump has %d accounts / %d transactions, want 1/1",
			len(snap.Data.Accounts), len(snap.Data.Transactions))
	}
}

func TestBackupThenRestoreRoundTrip(t *testing.T) {
	svc, repo, store := newTestService(t)
	seed(t, repo)
	ctx := context.Background()

	uploaded, err := svc.Backup(ctx)
	if err != nil {
		t.Fatalf("Backup: %v", err)
	}

	// Restore into a fresh repository via a second service sharing the store.
	repo2, err := storage.NewRepository(filepath.Join(t.TempDir(), "restored.db"))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(func() { repo2.Close() })
	svc2 := backup.NewService(repo2, store, "user-1", applog.New(applog.DefaultConfig()))

	restored, err := svc2.Restore(ctx)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored.ID != uploaded.ID {
		t.Errorf("restored snapshot id %q, want %q", restored.ID, uploaded.ID)
	}

	txns, err := repo2.ListTransactions(ctx, time.Time{})
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(txns) != 1 || txns[0].Description != "餐飲 lunch" {
		t.Errorf("unexpected restored transactions: %+v", txns)
	}
	rates, err := repo2.LoadCurrencySettings(ctx)
	if err != nil {
		t.Fatalf("LoadCurrencySettings: %v", err)
	}
	if rates["JPY"] != 4.7 {
		t.Errorf("restored JPY rate = %v, want 4.7", rates["JPY"])
	}
}

func TestRestoreWithoutSnapshot(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.Restore(context.Background()); !errors.Is(err, backup.ErrNoSnapshot) {
		t.Fatalf("Restore error = %v, want ErrNoSnapshot", err)
	}
}

func TestRestoreRejectsNewerSchema(t *testing.T) {
	svc, _, store := newTestService(t)
	ctx := context.Background()
	err := store.Upload(ctx, "user-1", &backup.Snapshot{
		ID:     "future",
		UserID: "user-1",
		Schema: backup.SchemaVersion + 1,
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if _, err := svc.Restore(ctx); !errors.Is(err, backup.ErrSchemaTooNew) {
		t.Fatalf("Restore error = %v, want ErrSchemaTooNew", err)
	}
}
