package core

import (
	"fmt"
	"sort"
	"strings"
)

// OthersCategory labels transactions whose description is empty. The
// presentation layer substitutes its localized string before display.
const OthersCategory = "Others"

// Advice periods accepted by GenerateAdvice.
const (
	AdviceMonth = "month"
	AdviceYear  = "year"
)

// Expenses above this share of income trigger the high-spending notice.
const highSpendingShare = 0.8

// CategoryData is a reporting projection of one expense category:
// integer amount in the main currency plus chart styling. Discarded
// after rendering.
type CategoryData struct {
	Name        string
	Amount      int64
	Color       string
	LegendColor string
}

// Summary is the converted income/expense overview of a transaction set.
type Summary struct {
	Income        float64
	Expense       float64
	MainCurrency  string
	TopCategories []CategoryData
}

// Summarize totals income and expenses over the transaction set, both
// converted to mainCurrency, and breaks expenses down by category.
//
// The category of an expense is the first whitespace-delimited token of
// its description, or OthersCategory when the description is blank.
// Categories come back sorted by amount descending; equal amounts keep
// first-seen order, so the ranking is deterministic for a given input
// order. Chart colors cycle through the palette.
func Summarize(txns []Transaction, rates RateTable, mainCurrency string, palette []string, legendColor string) Summary {
	s := Summary{MainCurrency: mainCurrency}

	byCategory := make(map[string]float64)
	var order []string

	for _, t := range txns {
		amount := ConvertBetween(t.Amount, t.AccountCurrency, mainCurrency, rates)
		switch t.Type {
		case Income:
			s.Income += amount
		case Expense:
			s.Expense += amount
			name := categoryOf(t.Description)
			if _, seen := byCategory[name]; !seen {
				order = append(order, name)
			}
			byCategory[name] += amount
		}
	}

	// Stable sort over first-seen order gives the documented tie-break.
	sort.SliceStable(order, func(i, j int) bool {
		return byCategory[order[i]] > byCategory[order[j]]
	})

	for i, name := range order {
		cd := CategoryData{
			Name:        name,
			Amount:      RoundHalfAway(byCategory[name]),
			LegendColor: legendColor,
		}
		if len(palette) > 0 {
			cd.Color = palette[i%len(palette)]
		}
		s.TopCategories = append(s.TopCategories, cd)
	}
	return s
}

func categoryOf(description string) string {
	fields := strings.Fields(description)
	if len(fields) == 0 {
		return OthersCategory
	}
	return fields[0]
}

// GenerateAdvice emits the rule-based advice lines for a reporting period
// (AdviceMonth or AdviceYear). Exactly one spending-level line comes first:
// overspent when expenses exceed income, high-spending when they exceed
// 80% of income, otherwise an all-clear. A top-category callout follows
// when topCategory is non-empty.
func GenerateAdvice(income, expense float64, topCategory, period string) []string {
	span := "this " + period

	var advice []string
	switch {
	case expense > income:
		advice = append(advice, fmt.Sprintf("You overspent %s: expenses exceeded your income.", span))
	case expense > income*highSpendingShare:
		advice = append(advice, fmt.Sprintf("Spending is running high %s: expenses are above 80%% of your income.", span))
	default:
		advice = append(advice, fmt.Sprintf("Good job! Your spending is under control %s.", span))
	}

	if topCategory != "" {
		advice = append(advice, fmt.Sprintf("Your biggest spending category %s is %s.", span, topCategory))
	}
	return advice
}
