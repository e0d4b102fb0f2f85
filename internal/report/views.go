package report

import (
	"time"

	"moneta/internal/core"
)

// PortfolioEntry is one aggregated position or accruing lot, amounts
// formatted in the entry's own currency.
type PortfolioEntry struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Type              string  `json:"type"`
	Currency          string  `json:"currency"`
	TotalShares       float64 `json:"total_shares,omitempty"`
	AverageCost       float64 `json:"average_cost,omitempty"`
	CurrentPrice      float64 `json:"current_price,omitempty"`
	MarketValue       string  `json:"market_value,omitempty"`
	UnrealizedProfit  string  `json:"unrealized_profit,omitempty"`
	ReturnRate        float64 `json:"return_rate,omitempty"`
	Principal         string  `json:"principal,omitempty"`
	InterestRate      float64 `json:"interest_rate,omitempty"`
	EstimatedInterest string  `json:"estimated_interest,omitempty"`
}

type PortfolioSection struct {
	Name    string           `json:"name"`
	Kind    string           `json:"kind"`
	Entries []PortfolioEntry `json:"entries"`
}

type PortfolioReport struct {
	GeneratedAt time.Time          `json:"generated_at"`
	Sections    []PortfolioSection `json:"sections"`
}

// BuildPortfolio projects an aggregated portfolio view into its report form.
func BuildPortfolio(view core.PortfolioView, now time.Time) PortfolioReport {
	rep := PortfolioReport{GeneratedAt: now}
	for _, sec := range view.Sections {
		out := PortfolioSection{Name: sec.Name, Kind: string(sec.Kind)}
		for _, e := range sec.Entries {
			entry := PortfolioEntry{
				ID:       e.ID,
				Name:     e.Name,
				Type:     string(e.Type),
				Currency: e.Currency,
			}
			if e.Type == core.Stock {
				entry.TotalShares = e.TotalShares
				entry.AverageCost = e.AverageCost
				entry.CurrentPrice = e.CurrentPrice
				entry.MarketValue = FormatAmount(e.MarketValue, e.Currency)
				entry.UnrealizedProfit = FormatAmount(e.UnrealizedProfit, e.Currency)
				entry.ReturnRate = e.ReturnRate
			} else {
				entry.Principal = FormatAmount(e.Amount, e.Currency)
				entry.InterestRate = e.InterestRate
				entry.EstimatedInterest = FormatAmount(e.EstimatedInterest, e.Currency)
			}
			out.Entries = append(out.Entries, entry)
		}
		rep.Sections = append(rep.Sections, out)
	}
	return rep
}

// BudgetStatus is one budget with its spending over the current period,
// both in the budget's own currency.
type BudgetStatus struct {
	ID           string  `json:"id"`
	Category     string  `json:"category"`
	Period       string  `json:"period"`
	Currency     string  `json:"currency"`
	Limit        float64 `json:"limit"`
	Spent        int64   `json:"spent"`
	SpentDisplay string  `json:"spent_display"`
	Percent      float64 `json:"percent"`
	Exceeded     bool    `json:"exceeded"`
}

type BudgetReport struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Budgets     []BudgetStatus `json:"budgets"`
}

// BuildBudgets pairs each budget with its computed spending. Spent is
// rounded for display only; the exceeded flag and percentage come from
// the exact sum so small overspends are not masked by rounding.
func BuildBudgets(budgets []core.Budget, spent map[string]float64, now time.Time) BudgetReport {
	rep := BudgetReport{GeneratedAt: now}
	for _, b := range budgets {
		sum := spent[b.ID]
		rounded := core.RoundHalfAway(sum)
		st := BudgetStatus{
			ID:           b.ID,
			Category:     b.Category,
			Period:       string(b.Period),
			Currency:     b.Currency,
			Limit:        b.Amount,
			Spent:        rounded,
			SpentDisplay: FormatMinor(rounded, b.Currency),
			Exceeded:     sum > b.Amount,
		}
		if b.Amount > 0 {
			st.Percent = sum / b.Amount * 100
		}
		rep.Budgets = append(rep.Budgets, st)
	}
	return rep
}

// CategoryRow is one slice of the expense breakdown chart.
type CategoryRow struct {
	Name          string `json:"name"`
	Amount        int64  `json:"amount"`
	AmountDisplay string `json:"amount_display"`
	Color         string `json:"color"`
	LegendColor   string `json:"legend_color"`
}

type SummaryReport struct {
	GeneratedAt    time.Time     `json:"generated_at"`
	MainCurrency   string        `json:"main_currency"`
	Income         int64         `json:"income"`
	IncomeDisplay  string        `json:"income_display"`
	Expense        int64         `json:"expense"`
	ExpenseDisplay string        `json:"expense_display"`
	Categories     []CategoryRow `json:"categories"`
}

// BuildSummary projects a core summary into its report form.
func BuildSummary(s core.Summary, now time.Time) SummaryReport {
	rep := SummaryReport{
		GeneratedAt:    now,
		MainCurrency:   s.MainCurrency,
		Income:         core.RoundHalfAway(s.Income),
		Expense:        core.RoundHalfAway(s.Expense),
		IncomeDisplay:  FormatMinor(core.RoundHalfAway(s.Income), s.MainCurrency),
		ExpenseDisplay: FormatMinor(core.RoundHalfAway(s.Expense), s.MainCurrency),
	}
	for _, c := range s.TopCategories {
		rep.Categories = append(rep.Categories, CategoryRow{
			Name:          c.Name,
			Amount:        c.Amount,
			AmountDisplay: FormatMinor(c.Amount, s.MainCurrency),
			Color:         c.Color,
			LegendColor:   c.LegendColor,
		})
	}
	return rep
}

type AdviceReport struct {
	GeneratedAt time.Time `json:"generated_at"`
	Period      string    `json:"period"`
	Advice      []string  `json:"advice"`
}
