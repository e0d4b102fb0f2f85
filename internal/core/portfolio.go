package core

import "time"

const hoursPerDay = 24

// GroupedInvestment is the position-level view derived from one or more
// lots. It is recomputed on every call and never persisted. For a stock
// position the embedded Investment carries the representative fields of
// the first lot seen for that name, with Amount and CostPrice summed
// across the group.
type GroupedInvestment struct {
	Investment

	TotalShares       float64
	AverageCost       float64
	MarketValue       float64
	UnrealizedProfit  float64
	ReturnRate        float64 // percent on cost
	EstimatedInterest float64
}

// PortfolioSection is one named slice of the portfolio view. Sections come
// out in a fixed order (stocks, fixed deposits, savings) and a section with
// no entries is omitted entirely.
type PortfolioSection struct {
	Name    string
	Kind    InvestmentType
	Entries []GroupedInvestment
}

type PortfolioView struct {
	Sections []PortfolioSection
}

// AggregatePortfolio turns raw lots into the position-level view.
//
// Stock lots are grouped by exact name: amounts and cost prices are summed
// and the current price is taken from the lot with the latest date. When two
// lots tie on date the earlier one in input order keeps the price; the rule
// is stable so repeated calls over the same slice produce identical output.
// Deposit and savings lots stay one entry per lot, with simple-interest
// accrual from the lot date to now (zero for future-dated lots).
//
// The input slice is never modified. An empty input yields a view with no
// sections.
func AggregatePortfolio(lots []Investment, now time.Time) PortfolioView {
	var (
		stockIdx    = make(map[string]int)
		stocks      []GroupedInvestment
		stockLatest []time.Time
		deposits    []GroupedInvestment
		savings     []GroupedInvestment
	)

	for _, lot := range lots {
		switch lot.Type {
		case Stock:
			i, seen := stockIdx[lot.Name]
			if !seen {
				stockIdx[lot.Name] = len(stocks)
				stocks = append(stocks, GroupedInvestment{Investment: lot})
				stockLatest = append(stockLatest, lot.Date)
				continue
			}
			stocks[i].Amount += lot.Amount
			stocks[i].CostPrice += lot.CostPrice
			// Strictly later date wins; on a tie the earlier lot keeps
			// the price.
			if lot.Date.After(stockLatest[i]) {
				stocks[i].CurrentPrice = lot.CurrentPrice
				stockLatest[i] = lot.Date
			}
		case FixedDeposit:
			deposits = append(deposits, accrueLot(lot, now))
		case Savings:
			savings = append(savings, accrueLot(lot, now))
		}
	}

	for i := range stocks {
		deriveStock(&stocks[i])
	}

	var view PortfolioView
	if len(stocks) > 0 {
		view.Sections = append(view.Sections, PortfolioSection{Name: "Stocks", Kind: Stock, Entries: stocks})
	}
	if len(deposits) > 0 {
		view.Sections = append(view.Sections, PortfolioSection{Name: "Fixed Deposits", Kind: FixedDeposit, Entries: deposits})
	}
	if len(savings) > 0 {
		view.Sections = append(view.Sections, PortfolioSection{Name: "Savings", Kind: Savings, Entries: savings})
	}
	return view
}

func deriveStock(g *GroupedInvestment) {
	g.TotalShares = g.Amount
	if g.Amount != 0 {
		g.AverageCost = g.CostPrice / g.Amount
	}
	g.MarketValue = g.Amount * g.CurrentPrice
	g.UnrealizedProfit = g.MarketValue - g.CostPrice
	if g.CostPrice > 0 {
		g.ReturnRate = g.UnrealizedProfit / g.CostPrice * 100
	}
}

// accrueLot keeps a deposit/savings lot as its own entry and computes
// simple interest accrued since the lot date: amount * rate% * days/365.
func accrueLot(lot Investment, now time.Time) GroupedInvestment {
	g := GroupedInvestment{Investment: lot}
	days := now.Sub(lot.Date).Hours() / hoursPerDay
	if days > 0 {
		g.EstimatedInterest = lot.Amount * (lot.InterestRate / 100) * (days / 365)
	}
	return g
}
