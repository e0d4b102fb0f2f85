package core

import (
	"strings"
	"time"
)

// PeriodStart returns the start of the budget window that contains now,
// in now's location: weekly windows open on the most recent Sunday at
// 00:00, monthly on the first of the month, yearly on January 1st. An
// unknown period falls back to the monthly window.
func PeriodStart(period BudgetPeriod, now time.Time) time.Time {
	y, m, d := now.Date()
	loc := now.Location()
	switch period {
	case Weekly:
		return time.Date(y, m, d-int(now.Weekday()), 0, 0, 0, 0, loc)
	case Yearly:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	}
}

// ComputeSpending returns, per budget id, the spend-to-date inside the
// budget's current period window, expressed as a whole number of the
// budget's own currency (half rounds away from zero).
//
// A transaction counts against a budget when it is an expense, its
// description starts with the budget category, and its date falls in
// [PeriodStart, now]. The raw string-prefix match is kept deliberately:
// the mobile clients encode the category as the leading token of the
// description and existing data relies on it. Amounts are converted from
// the transaction's account currency to the budget currency through the
// rate table, both lookups defaulting to 1 when the table has no usable
// entry.
func ComputeSpending(budgets []Budget, txns []Transaction, rates RateTable, now time.Time) map[string]int64 {
	exact := ComputeSpendingExact(budgets, txns, rates, now)
	spent := make(map[string]int64, len(exact))
	for id, sum := range exact {
		spent[id] = RoundHalfAway(sum)
	}
	return spent
}

// ComputeSpendingExact is ComputeSpending without the final rounding.
// Over/under-limit decisions use this form so a budget overspent by less
// than half a unit still reads as exceeded.
func ComputeSpendingExact(budgets []Budget, txns []Transaction, rates RateTable, now time.Time) map[string]float64 {
	spent := make(map[string]float64, len(budgets))
	for _, b := range budgets {
		start := PeriodStart(b.Period, now)
		var sum float64
		for _, t := range txns {
			if t.Type != Expense {
				continue
			}
			if !strings.HasPrefix(t.Description, b.Category) {
				continue
			}
			if t.Date.Before(start) || t.Date.After(now) {
				continue
			}
			sum += ConvertBetween(t.Amount, t.AccountCurrency, b.Currency, rates)
		}
		spent[b.ID] = sum
	}
	return spent
}
