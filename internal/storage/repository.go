// Package storage is the local relational store: a sqlite database holding
// accounts, transactions, budgets, investments, goals and the currency
// settings. Monetary amounts are persisted as decimal strings so values
// survive round trips without float drift; the computation core receives
// plain float64 values.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"moneta/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a record with the requested id does not exist.
var ErrNotFound = errors.New("record not found")

const dateFormat = time.RFC3339

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// amount persistence helpers: decimal strings at rest, float64 in memory.

func encAmount(v float64) string {
	return decimal.NewFromFloat(v).String()
}

func decAmount(s string) float64 {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}

func encDate(t time.Time) string {
	return t.UTC().Format(dateFormat)
}

func decDate(s string) time.Time {
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func ensureID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

// --- accounts ---

func (r *Repository) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	a.ID = ensureID(a.ID)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, name, currency, balance) VALUES (?, ?, ?, ?)`,
		a.ID, a.Name, a.Currency, encAmount(a.Balance))
	if err != nil {
		return core.Account{}, fmt.Errorf("create account: %w", err)
	}

	slog.InfoContext(ctx, "Account saved", "id", a.ID, "name", a.Name, "currency", a.Currency)
	return a, nil
}

func (r *Repository) GetAccount(ctx context.Context, id string) (core.Account, error) {
	var a core.Account
	var balance string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, currency, balance FROM accounts WHERE id = ?`, id).
		Scan(&a.ID, &a.Name, &a.Currency, &balance)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, ErrNotFound
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("get account: %w", err)
	}
	a.Balance = decAmount(balance)
	return a, nil
}

func (r *Repository) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, currency, balance FROM accounts ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []core.Account
	for rows.Next() {
		var a core.Account
		var balance string
		if err := rows.Scan(&a.ID, &a.Name, &a.Currency, &balance); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		a.Balance = decAmount(balance)
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *Repository) UpdateAccount(ctx context.Context, a core.Account) error {
	if err := a.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET name = ?, currency = ?, balance = ? WHERE id = ?`,
		a.Name, a.Currency, encAmount(a.Balance), a.ID)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	return requireRow(res)
}

func (r *Repository) DeleteAccount(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return requireRow(res)
}

// --- transactions ---

func (r *Repository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	t.ID = ensureID(t.ID)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, amount, type, date, description, account_id, target_account_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, encAmount(t.Amount), string(t.Type), encDate(t.Date), t.Description,
		t.AccountID, nullStr(t.TargetAccountID))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID, "type", string(t.Type), "description", t.Description, "amount", t.Amount)
	return t, nil
}

func (r *Repository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, amount, type, date, description, account_id, target_account_id
		 FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// ListTransactions returns transactions ordered by date. A zero since
// returns everything.
func (r *Repository) ListTransactions(ctx context.Context, since time.Time) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, amount, type, date, description, account_id, target_account_id
		 FROM transactions WHERE date >= ? ORDER BY date, id`,
		encDate(since))
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows, false)
}

// ListTransactionsJoined is ListTransactions with each row joined to its
// account's currency, the shape the report computations consume.
func (r *Repository) ListTransactionsJoined(ctx context.Context, since time.Time) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT t.id, t.amount, t.type, t.date, t.description, t.account_id, t.target_account_id,
		        COALESCE(a.currency, '')
		 FROM transactions t LEFT JOIN accounts a ON a.id = t.account_id
		 WHERE t.date >= ? ORDER BY t.date, t.id`,
		encDate(since))
	if err != nil {
		return nil, fmt.Errorf("list transactions joined: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows, true)
}

func (r *Repository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET amount = ?, type = ?, date = ?, description = ?,
		        account_id = ?, target_account_id = ? WHERE id = ?`,
		encAmount(t.Amount), string(t.Type), encDate(t.Date), t.Description,
		t.AccountID, nullStr(t.TargetAccountID), t.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res)
}

func (r *Repository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res)
}

func scanTransaction(scan func(dest ...any) error) (core.Transaction, error) {
	var t core.Transaction
	var amount, date string
	var target sql.NullString
	if err := scan(&t.ID, &amount, (*string)(&t.Type), &date, &t.Description, &t.AccountID, &target); err != nil {
		return core.Transaction{}, err
	}
	t.Amount = decAmount(amount)
	t.Date = decDate(date)
	t.TargetAccountID = target.String
	return t, nil
}

func collectTransactions(rows *sql.Rows, joined bool) ([]core.Transaction, error) {
	var txns []core.Transaction
	for rows.Next() {
		var t core.Transaction
		var amount, date string
		var target sql.NullString
		dest := []any{&t.ID, &amount, (*string)(&t.Type), &date, &t.Description, &t.AccountID, &target}
		if joined {
			dest = append(dest, &t.AccountCurrency)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Amount = decAmount(amount)
		t.Date = decDate(date)
		t.TargetAccountID = target.String
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
