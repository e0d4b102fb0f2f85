package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"moneta/internal/core"
)

// Dump is the full contents of the store, the unit the backup layer
// exports and restores.
type Dump struct {
	Accounts     []core.Account     `json:"accounts"`
	Transactions []core.Transaction `json:"transactions"`
	Budgets      []core.Budget      `json:"budgets"`
	Investments  []core.Investment  `json:"investments"`
	Goals        []core.SavingsGoal `json:"goals"`
	Rates        core.RateTable     `json:"exchange_rates"`
}

// ExportAll reads every table into a Dump. The reads run one after another
// on the same connection pool; sqlite serializes them, which is consistency
// enough for a backup of a single-user store.
func (r *Repository) ExportAll(ctx context.Context) (*Dump, error) {
	var d Dump
	var err error

	if d.Accounts, err = r.ListAccounts(ctx); err != nil {
		return nil, fmt.Errorf("export accounts: %w", err)
	}
	if d.Transactions, err = r.ListTransactions(ctx, time.Time{}); err != nil {
		return nil, fmt.Errorf("export transactions: %w", err)
	}
	if d.Budgets, err = r.ListBudgets(ctx); err != nil {
		return nil, fmt.Errorf("export budgets: %w", err)
	}
	if d.Investments, err = r.ListInvestments(ctx); err != nil {
		return nil, fmt.Errorf("export investments: %w", err)
	}
	if d.Goals, err = r.ListGoals(ctx); err != nil {
		return nil, fmt.Errorf("export goals: %w", err)
	}
	if d.Rates, err = r.LoadCurrencySettings(ctx); err != nil {
		return nil, fmt.Errorf("export currency settings: %w", err)
	}

	slog.InfoContext(ctx, "Store exported",
		"accounts", len(d.Accounts),
		"transactions", len(d.Transactions),
		"budgets", len(d.Budgets),
		"investments", len(d.Investments),
		"goals", len(d.Goals))
	return &d, nil
}

// ImportAll replaces the entire store with the dump in one transaction.
// Either every table is restored or none is.
func (r *Repository) ImportAll(ctx context.Context, d *Dump) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"transactions", "investments", "goals", "budgets", "exchange_rates", "accounts"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, a := range d.Accounts {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO accounts (id, name, currency, balance) VALUES (?, ?, ?, ?)`,
			a.ID, a.Name, a.Currency, encAmount(a.Balance))
		if err != nil {
			return fmt.Errorf("restore account %s: %w", a.ID, err)
		}
	}
	for _, t := range d.Transactions {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO transactions (id, amount, type, date, description, account_id, target_account_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.ID, encAmount(t.Amount), string(t.Type), encDate(t.Date), t.Description,
			t.AccountID, nullStr(t.TargetAccountID))
		if err != nil {
			return fmt.Errorf("restore transaction %s: %w", t.ID, err)
		}
	}
	for _, b := range d.Budgets {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO budgets (id, category, amount, period, currency) VALUES (?, ?, ?, ?, ?)`,
			b.ID, b.Category, encAmount(b.Amount), string(b.Period), b.Currency)
		if err != nil {
			return fmt.Errorf("restore budget %s: %w", b.ID, err)
		}
	}
	for _, inv := range d.Investments {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO investments (`+investmentColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			inv.ID, inv.Name, string(inv.Type), encAmount(inv.Amount), encAmount(inv.CostPrice),
			encAmount(inv.CurrentPrice), inv.Currency, encDate(inv.Date), encOptDate(inv.MaturityDate),
			inv.InterestRate, inv.InterestFrequency, encAmount(inv.HandlingFee),
			nullStr(inv.SourceAccountID), nullStr(inv.LinkedTransactionID), string(inv.Status))
		if err != nil {
			return fmt.Errorf("restore investment %s: %w", inv.ID, err)
		}
	}
	for _, g := range d.Goals {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO goals (id, name, target_amount, saved_amount, currency, deadline)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			g.ID, g.Name, encAmount(g.TargetAmount), encAmount(g.SavedAmount), g.Currency, encOptDate(g.Deadline))
		if err != nil {
			return fmt.Errorf("restore goal %s: %w", g.ID, err)
		}
	}
	for currency, rate := range d.Rates {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO exchange_rates (currency, rate) VALUES (?, ?)`,
			currency, encAmount(rate))
		if err != nil {
			return fmt.Errorf("restore exchange rate %s: %w", currency, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}

	slog.InfoContext(ctx, "Store restored",
		"accounts", len(d.Accounts),
		"transactions", len(d.Transactions),
		"budgets", len(d.Budgets),
		"investments", len(d.Investments),
		"goals", len(d.Goals))
	return nil
}
