package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"moneta/internal/core"
)

const investmentColumns = `id, name, type, amount, cost_price, current_price, currency, date,
	maturity_date, interest_rate, interest_frequency, handling_fee,
	source_account_id, linked_transaction_id, status`

func (r *Repository) CreateInvestment(ctx context.Context, inv core.Investment) (core.Investment, error) {
	if err := inv.Validate(); err != nil {
		return core.Investment{}, err
	}
	inv.ID = ensureID(inv.ID)
	if inv.Status == "" {
		inv.Status = core.StatusActive
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO investments (`+investmentColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.Name, string(inv.Type), encAmount(inv.Amount), encAmount(inv.CostPrice),
		encAmount(inv.CurrentPrice), inv.Currency, encDate(inv.Date), encOptDate(inv.MaturityDate),
		inv.InterestRate, inv.InterestFrequency, encAmount(inv.HandlingFee),
		nullStr(inv.SourceAccountID), nullStr(inv.LinkedTransactionID), string(inv.Status))
	if err != nil {
		return core.Investment{}, fmt.Errorf("create investment: %w", err)
	}

	slog.InfoContext(ctx, "Investment lot saved",
		"id", inv.ID, "name", inv.Name, "type", string(inv.Type), "amount", inv.Amount)
	return inv, nil
}

func (r *Repository) GetInvestment(ctx context.Context, id string) (core.Investment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+investmentColumns+` FROM investments WHERE id = ?`, id)
	inv, err := scanInvestment(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Investment{}, ErrNotFound
	}
	if err != nil {
		return core.Investment{}, fmt.Errorf("get investment: %w", err)
	}
	return inv, nil
}

// ListInvestments returns every lot in insertion order. The aggregation in
// core depends on that order for its tie-breaks, so the ordering clause is
// load-bearing.
func (r *Repository) ListInvestments(ctx context.Context) ([]core.Investment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+investmentColumns+` FROM investments ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list investments: %w", err)
	}
	defer rows.Close()

	var lots []core.Investment
	for rows.Next() {
		inv, err := scanInvestment(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan investment: %w", err)
		}
		lots = append(lots, inv)
	}
	return lots, rows.Err()
}

// ListActiveInvestments filters out sold and closed lots; the portfolio
// view is built from this set.
func (r *Repository) ListActiveInvestments(ctx context.Context) ([]core.Investment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+investmentColumns+` FROM investments WHERE status = ? ORDER BY created_at, id`,
		string(core.StatusActive))
	if err != nil {
		return nil, fmt.Errorf("list active investments: %w", err)
	}
	defer rows.Close()

	var lots []core.Investment
	for rows.Next() {
		inv, err := scanInvestment(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan investment: %w", err)
		}
		lots = append(lots, inv)
	}
	return lots, rows.Err()
}

func (r *Repository) UpdateInvestment(ctx context.Context, inv core.Investment) error {
	if err := inv.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE investments SET name = ?, type = ?, amount = ?, cost_price = ?, current_price = ?,
		        currency = ?, date = ?, maturity_date = ?, interest_rate = ?, interest_frequency = ?,
		        handling_fee = ?, source_account_id = ?, linked_transaction_id = ?, status = ?
		 WHERE id = ?`,
		inv.Name, string(inv.Type), encAmount(inv.Amount), encAmount(inv.CostPrice),
		encAmount(inv.CurrentPrice), inv.Currency, encDate(inv.Date), encOptDate(inv.MaturityDate),
		inv.InterestRate, inv.InterestFrequency, encAmount(inv.HandlingFee),
		nullStr(inv.SourceAccountID), nullStr(inv.LinkedTransactionID), string(inv.Status), inv.ID)
	if err != nil {
		return fmt.Errorf("update investment: %w", err)
	}
	return requireRow(res)
}

func (r *Repository) DeleteInvestment(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM investments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete investment: %w", err)
	}
	return requireRow(res)
}

func scanInvestment(scan func(dest ...any) error) (core.Investment, error) {
	var inv core.Investment
	var amount, cost, current, fee, date string
	var maturity, source, linked sql.NullString
	err := scan(&inv.ID, &inv.Name, (*string)(&inv.Type), &amount, &cost, &current,
		&inv.Currency, &date, &maturity, &inv.InterestRate, &inv.InterestFrequency,
		&fee, &source, &linked, (*string)(&inv.Status))
	if err != nil {
		return core.Investment{}, err
	}
	inv.Amount = decAmount(amount)
	inv.CostPrice = decAmount(cost)
	inv.CurrentPrice = decAmount(current)
	inv.HandlingFee = decAmount(fee)
	inv.Date = decDate(date)
	if maturity.Valid {
		inv.MaturityDate = decDate(maturity.String)
	}
	inv.SourceAccountID = source.String
	inv.LinkedTransactionID = linked.String
	return inv, nil
}
