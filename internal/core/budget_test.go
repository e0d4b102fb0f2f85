package core

import (
	"testing"
	"time"
)

func TestPeriodStart(t *testing.T) {
	// 2026-03-18 is a Wednesday.
	now := time.Date(2026, time.March, 18, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		period BudgetPeriod
		want   time.Time
	}{
		{Weekly, time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)}, // most recent Sunday
		{Monthly, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)},
		{Yearly, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{BudgetPeriod("bogus"), time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			if got := PeriodStart(tt.period, now); !got.Equal(tt.want) {
				t.Errorf("PeriodStart(%s) = %v, want %v", tt.period, got, tt.want)
			}
		})
	}
}

func TestPeriodStartOnSunday(t *testing.T) {
	// A Sunday is its own weekly window start.
	sunday := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	want := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	if got := PeriodStart(Weekly, sunday); !got.Equal(want) {
		t.Errorf("PeriodStart(weekly, sunday) = %v, want %v", got, want)
	}
}

func TestComputeSpendingMonthlyPrefixMatch(t *testing.T) {
	now := time.Date(2026, time.March, 20, 12, 0, 0, 0, time.UTC)
	rates := RateTable{"TWD": 30, "USD": 1}
	budgets := []Budget{
		{ID: "b1", Category: "餐飲", Amount: 5000, Period: Monthly, Currency: "TWD"},
	}
	txns := []Transaction{
		// Counted: expense, prefix match, inside the month. 3 USD -> 90 TWD.
		{Type: Expense, Description: "餐飲 午餐", Amount: 3, AccountCurrency: "USD", Date: time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)},
		// Counted: already in TWD.
		{Type: Expense, Description: "餐飲晚餐", Amount: 250, AccountCurrency: "TWD", Date: time.Date(2026, time.March, 19, 0, 0, 0, 0, time.UTC)},
		// Wrong category prefix.
		{Type: Expense, Description: "交通 捷運", Amount: 100, AccountCurrency: "TWD", Date: time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)},
		// Right prefix but last month.
		{Type: Expense, Description: "餐飲 聚餐", Amount: 999, AccountCurrency: "TWD", Date: time.Date(2026, time.February, 25, 0, 0, 0, 0, time.UTC)},
		// Right prefix but in the future relative to now.
		{Type: Expense, Description: "餐飲 訂位", Amount: 400, AccountCurrency: "TWD", Date: time.Date(2026, time.March, 25, 0, 0, 0, 0, time.UTC)},
		// Income never counts against a budget.
		{Type: Income, Description: "餐飲 退款", Amount: 50, AccountCurrency: "TWD", Date: time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)},
	}

	spent := ComputeSpending(budgets, txns, rates, now)
	if got := spent["b1"]; got != 340 {
		t.Errorf("spent[b1] = %d, want 340", got)
	}
}

func TestComputeSpendingRounding(t *testing.T) {
	now := time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC)
	budgets := []Budget{{ID: "b", Category: "Food", Period: Monthly, Currency: "TWD"}}
	// 10 / 4 * 30 = 75; plus 0.02 / 4 * 30 = 0.15 -> 75.15 rounds to 75.
	// Then a half: 10.1 / 4 * 30 = 75.75... use amounts that land on .5.
	rates := RateTable{"USD": 4, "TWD": 30}
	txns := []Transaction{
		{Type: Expense, Description: "Food", Amount: 10.07, AccountCurrency: "USD", Date: now},
	}
	// 10.07 / 4 * 30 = 75.525 -> 76
	spent := ComputeSpending(budgets, txns, rates, now)
	if got := spent["b"]; got != 76 {
		t.Errorf("spent = %d, want 76 (half away from zero)", got)
	}

	// The exact form keeps the fraction.
	exact := ComputeSpendingExact(budgets, txns, rates, now)
	if got := exact["b"]; got < 75.52 || got > 75.53 {
		t.Errorf("exact spent = %v, want 75.525", got)
	}
}

func TestComputeSpendingEmptyInputs(t *testing.T) {
	now := time.Now()
	spent := ComputeSpending(nil, nil, nil, now)
	if len(spent) != 0 {
		t.Errorf("spent = %v, want empty map", spent)
	}

	spent = ComputeSpending([]Budget{{ID: "b", Category: "x", Period: Weekly, Currency: "TWD"}}, nil, nil, now)
	if got := spent["b"]; got != 0 {
		t.Errorf("spent with no transactions = %d, want 0", got)
	}
}

func TestComputeSpendingWeeklyWindow(t *testing.T) {
	// Wednesday; weekly window opened Sunday the 15th.
	now := time.Date(2026, time.March, 18, 12, 0, 0, 0, time.UTC)
	budgets := []Budget{{ID: "w", Category: "Coffee", Period: Weekly, Currency: "USD"}}
	rates := RateTable{"USD": 1}
	txns := []Transaction{
		{Type: Expense, Description: "Coffee beans", Amount: 12, AccountCurrency: "USD", Date: time.Date(2026, time.March, 16, 8, 0, 0, 0, time.UTC)},
		// Saturday the 14th is the previous week.
		{Type: Expense, Description: "Coffee", Amount: 30, AccountCurrency: "USD", Date: time.Date(2026, time.March, 14, 8, 0, 0, 0, time.UTC)},
	}

	spent := ComputeSpending(budgets, txns, rates, now)
	if got := spent["w"]; got != 12 {
		t.Errorf("weekly spent = %d, want 12", got)
	}
}
