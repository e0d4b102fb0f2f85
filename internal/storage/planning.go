package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"moneta/internal/core"
)

// Budgets, savings goals and the currency settings.

func (r *Repository) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	b.ID = ensureID(b.ID)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (id, category, amount, period, currency) VALUES (?, ?, ?, ?, ?)`,
		b.ID, b.Category, encAmount(b.Amount), string(b.Period), b.Currency)
	if err != nil {
		return core.Budget{}, fmt.Errorf("create budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget saved", "id", b.ID, "category", b.Category, "period", string(b.Period))
	return b, nil
}

func (r *Repository) GetBudget(ctx context.Context, id string) (core.Budget, error) {
	var b core.Budget
	var amount string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, category, amount, period, currency FROM budgets WHERE id = ?`, id).
		Scan(&b.ID, &b.Category, &amount, (*string)(&b.Period), &b.Currency)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	b.Amount = decAmount(amount)
	return b, nil
}

func (r *Repository) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, category, amount, period, currency FROM budgets ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		var b core.Budget
		var amount string
		if err := rows.Scan(&b.ID, &b.Category, &amount, (*string)(&b.Period), &b.Currency); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		b.Amount = decAmount(amount)
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (r *Repository) UpdateBudget(ctx context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE budgets SET category = ?, amount = ?, period = ?, currency = ? WHERE id = ?`,
		b.Category, encAmount(b.Amount), string(b.Period), b.Currency, b.ID)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	return requireRow(res)
}

func (r *Repository) DeleteBudget(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return requireRow(res)
}

// --- goals ---

func (r *Repository) CreateGoal(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}
	g.ID = ensureID(g.ID)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO goals (id, name, target_amount, saved_amount, currency, deadline)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID, g.Name, encAmount(g.TargetAmount), encAmount(g.SavedAmount), g.Currency, encOptDate(g.Deadline))
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("create goal: %w", err)
	}

	slog.InfoContext(ctx, "Goal saved", "id", g.ID, "name", g.Name)
	return g, nil
}

func (r *Repository) GetGoal(ctx context.Context, id string) (core.SavingsGoal, error) {
	var g core.SavingsGoal
	var target, saved string
	var deadline sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, target_amount, saved_amount, currency, deadline FROM goals WHERE id = ?`, id).
		Scan(&g.ID, &g.Name, &target, &saved, &g.Currency, &deadline)
	if errors.Is(err, sql.ErrNoRows) {
		return core.SavingsGoal{}, ErrNotFound
	}
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("get goal: %w", err)
	}
	g.TargetAmount = decAmount(target)
	g.SavedAmount = decAmount(saved)
	if deadline.Valid {
		g.Deadline = decDate(deadline.String)
	}
	return g, nil
}

func (r *Repository) ListGoals(ctx context.Context) ([]core.SavingsGoal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, target_amount, saved_amount, currency, deadline FROM goals ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []core.SavingsGoal
	for rows.Next() {
		var g core.SavingsGoal
		var target, saved string
		var deadline sql.NullString
		if err := rows.Scan(&g.ID, &g.Name, &target, &saved, &g.Currency, &deadline); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		g.TargetAmount = decAmount(target)
		g.SavedAmount = decAmount(saved)
		if deadline.Valid {
			g.Deadline = decDate(deadline.String)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (r *Repository) UpdateGoal(ctx context.Context, g core.SavingsGoal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE goals SET name = ?, target_amount = ?, saved_amount = ?, currency = ?, deadline = ?
		 WHERE id = ?`,
		g.Name, encAmount(g.TargetAmount), encAmount(g.SavedAmount), g.Currency, encOptDate(g.Deadline), g.ID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return requireRow(res)
}

func (r *Repository) DeleteGoal(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return requireRow(res)
}

// --- currency settings ---

// LoadCurrencySettings returns the stored exchange-rate table. Rates are
// persisted as decimal strings; rows that fail to parse are skipped rather
// than poisoning the table.
func (r *Repository) LoadCurrencySettings(ctx context.Context) (core.RateTable, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT currency, rate FROM exchange_rates`)
	if err != nil {
		return nil, fmt.Errorf("load currency settings: %w", err)
	}
	defer rows.Close()

	rates := make(core.RateTable)
	for rows.Next() {
		var currency, rate string
		if err := rows.Scan(&currency, &rate); err != nil {
			return nil, fmt.Errorf("scan exchange rate: %w", err)
		}
		d, err := decimal.NewFromString(rate)
		if err != nil {
			slog.WarnContext(ctx, "Skipping unparsable exchange rate", "currency", currency, "rate", rate)
			continue
		}
		rates[currency] = d.InexactFloat64()
	}
	return rates, rows.Err()
}

// SaveCurrencySettings replaces the exchange-rate table atomically.
func (r *Repository) SaveCurrencySettings(ctx context.Context, rates core.RateTable) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin currency settings: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM exchange_rates`); err != nil {
		return fmt.Errorf("clear exchange rates: %w", err)
	}
	for currency, rate := range rates {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO exchange_rates (currency, rate) VALUES (?, ?)`,
			currency, decimal.NewFromFloat(rate).String())
		if err != nil {
			return fmt.Errorf("insert exchange rate %s: %w", currency, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit currency settings: %w", err)
	}

	slog.InfoContext(ctx, "Currency settings saved", "currencies", len(rates))
	return nil
}

func encOptDate(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: encDate(t), Valid: true}
}
