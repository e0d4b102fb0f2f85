// Package core holds the domain model and the pure computation layer:
// currency conversion, portfolio aggregation, budget windows and the
// spending analysis. Everything here operates on plain values handed in
// by the caller; no storage handle, no I/O.
package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income   TransactionType = "income"
	Expense  TransactionType = "expense"
	Transfer TransactionType = "transfer"
)

const (
	Weekly  BudgetPeriod = "weekly"
	Monthly BudgetPeriod = "monthly"
	Yearly  BudgetPeriod = "yearly"
)

const (
	Stock        InvestmentType = "stock"
	FixedDeposit InvestmentType = "fixed_deposit"
	Savings      InvestmentType = "savings"
)

const (
	StatusActive InvestmentStatus = "active"
	StatusSold   InvestmentStatus = "sold"
	StatusClosed InvestmentStatus = "closed"
)

type (
	TransactionType  string
	BudgetPeriod     string
	InvestmentType   string
	InvestmentStatus string

	// RateTable maps a currency code to units of that currency per one
	// unit of the main/reference currency. Codes are case-sensitive.
	RateTable map[string]float64

	Account struct {
		ID       string  `json:"id"`
		Name     string  `json:"name"`
		Currency string  `json:"currency"`
		Balance  float64 `json:"balance"`
	}

	// Transaction is read-only to this package; the store owns its
	// lifecycle. Amount is always a non-negative magnitude, the Type
	// carries the sign semantics.
	Transaction struct {
		ID              string          `json:"id"`
		Amount          float64         `json:"amount"`
		Type            TransactionType `json:"type"`
		Date            time.Time       `json:"date"`
		Description     string          `json:"description"`
		AccountID       string          `json:"account_id"`
		TargetAccountID string          `json:"target_account_id,omitempty"`
		// AccountCurrency is joined in by storage when the transaction
		// set is loaded for a report.
		AccountCurrency string `json:"account_currency,omitempty"`
	}

	Budget struct {
		ID       string       `json:"id"`
		Category string       `json:"category"`
		Amount   float64      `json:"amount"` // spending limit per period
		Period   BudgetPeriod `json:"period"`
		Currency string       `json:"currency"`
	}

	// Investment is one purchase/deposit event (a lot), not a position.
	// Several lots may share a Name; stock lots get aggregated into
	// positions by AggregatePortfolio.
	Investment struct {
		ID                  string           `json:"id"`
		Name                string           `json:"name"`
		Type                InvestmentType   `json:"type"`
		Amount              float64          `json:"amount"`
		CostPrice           float64          `json:"cost_price"`
		CurrentPrice        float64          `json:"current_price"`
		Currency            string           `json:"currency"`
		Date                time.Time        `json:"date"`
		MaturityDate        time.Time        `json:"maturity_date,omitempty"`
		InterestRate        float64          `json:"interest_rate"` // percent per annum
		InterestFrequency   string           `json:"interest_frequency,omitempty"`
		HandlingFee         float64          `json:"handling_fee,omitempty"`
		SourceAccountID     string           `json:"source_account_id,omitempty"`
		LinkedTransactionID string           `json:"linked_transaction_id,omitempty"`
		Status              InvestmentStatus `json:"status"`
	}

	SavingsGoal struct {
		ID           string    `json:"id"`
		Name         string    `json:"name"`
		TargetAmount float64   `json:"target_amount"`
		SavedAmount  float64   `json:"saved_amount"`
		Currency     string    `json:"currency"`
		Deadline     time.Time `json:"deadline,omitempty"`
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid type")
	ErrInvalidPeriod    = errors.New("invalid period")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyCategory    = errors.New("empty category")
	ErrEmptyCurrency    = errors.New("empty currency")
	ErrZeroDate         = errors.New("date cannot be zero")
	ErrDescriptionLong  = errors.New("description too long (max 200 characters)")
)

func (t TransactionType) Valid() bool {
	switch t {
	case Income, Expense, Transfer:
		return true
	}
	return false
}

func (p BudgetPeriod) Valid() bool {
	switch p {
	case Weekly, Monthly, Yearly:
		return true
	}
	return false
}

func (t InvestmentType) Valid() bool {
	switch t {
	case Stock, FixedDeposit, Savings:
		return true
	}
	return false
}

func (s InvestmentStatus) Valid() bool {
	switch s {
	case StatusActive, StatusSold, StatusClosed:
		return true
	}
	return false
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(a.Currency) == "" {
		return ErrEmptyCurrency
	}
	return nil
}

func (t Transaction) Validate() error {
	if t.Amount < 0 {
		return ErrInvalidAmount
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if t.Date.IsZero() {
		return ErrZeroDate
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return ErrDescriptionLong
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if b.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !b.Period.Valid() {
		return ErrInvalidPeriod
	}
	if strings.TrimSpace(b.Currency) == "" {
		return ErrEmptyCurrency
	}
	return nil
}

func (i Investment) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyName
	}
	if !i.Type.Valid() {
		return ErrInvalidType
	}
	if i.Amount < 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(i.Currency) == "" {
		return ErrEmptyCurrency
	}
	if i.Date.IsZero() {
		return ErrZeroDate
	}
	if i.Status != "" && !i.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

func (g SavingsGoal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if g.TargetAmount <= 0 {
		return ErrInvalidAmount
	}
	if g.SavedAmount < 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(g.Currency) == "" {
		return ErrEmptyCurrency
	}
	return nil
}
