package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{Amount: 100, Type: Expense, Date: time.Now(), Description: "Food lunch", AccountID: "a1"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid transaction rejected: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr error
	}{
		{"negative amount", func(tx *Transaction) { tx.Amount = -1 }, ErrInvalidAmount},
		{"bad type", func(tx *Transaction) { tx.Type = "refund" }, ErrInvalidType},
		{"zero date", func(tx *Transaction) { tx.Date = time.Time{} }, ErrZeroDate},
		{"blank description", func(tx *Transaction) { tx.Description = "   " }, ErrEmptyDescription},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)
			if err := tx.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("overlong description", func(t *testing.T) {
		tx := valid
		tx.Description = strings.Repeat("x", 201)
		if err := tx.Validate(); err == nil {
			t.Error("Validate() accepted a 201-char description")
		}
	})

	t.Run("zero amount is a valid magnitude", func(t *testing.T) {
		tx := valid
		tx.Amount = 0
		if err := tx.Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil for zero amount", err)
		}
	})
}

func TestBudgetValidate(t *testing.T) {
	valid := Budget{ID: "b", Category: "Food", Amount: 5000, Period: Monthly, Currency: "TWD"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid budget rejected: %v", err)
	}

	b := valid
	b.Period = "fortnightly"
	if err := b.Validate(); !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("Validate() = %v, want %v", err, ErrInvalidPeriod)
	}

	b = valid
	b.Amount = 0
	if err := b.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Validate() = %v, want %v", err, ErrInvalidAmount)
	}
}

func TestInvestmentValidate(t *testing.T) {
	valid := Investment{ID: "i", Name: "AAPL", Type: Stock, Amount: 10, Currency: "USD", Date: time.Now(), Status: StatusActive}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid investment rejected: %v", err)
	}

	inv := valid
	inv.Type = "bond"
	if err := inv.Validate(); !errors.Is(err, ErrInvalidType) {
		t.Errorf("Validate() = %v, want %v", err, ErrInvalidType)
	}

	inv = valid
	inv.Status = "pending"
	if err := inv.Validate(); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("Validate() = %v, want %v", err, ErrInvalidStatus)
	}

	// Status is optional; blank passes.
	inv = valid
	inv.Status = ""
	if err := inv.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil for blank status", err)
	}
}
