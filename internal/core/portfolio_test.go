package core

import (
	"math"
	"reflect"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAggregatePortfolioStockGrouping(t *testing.T) {
	now := day(2026, time.March, 1)
	lots := []Investment{
		{ID: "1", Name: "AAPL", Type: Stock, Amount: 10, CostPrice: 1000, CurrentPrice: 90, Currency: "USD", Date: day(2026, time.January, 10)},
		{ID: "2", Name: "AAPL", Type: Stock, Amount: 5, CostPrice: 600, CurrentPrice: 50, Currency: "USD", Date: day(2026, time.February, 20)},
	}

	view := AggregatePortfolio(lots, now)
	if len(view.Sections) != 1 {
		t.Fatalf("sections = %d, want 1", len(view.Sections))
	}
	sec := view.Sections[0]
	if sec.Kind != Stock || len(sec.Entries) != 1 {
		t.Fatalf("unexpected section %q with %d entries", sec.Name, len(sec.Entries))
	}

	g := sec.Entries[0]
	if g.Amount != 15 {
		t.Errorf("Amount = %v, want 15", g.Amount)
	}
	if g.CostPrice != 1600 {
		t.Errorf("CostPrice = %v, want 1600", g.CostPrice)
	}
	if !almostEqual(g.AverageCost, 1600.0/15) {
		t.Errorf("AverageCost = %v, want %v", g.AverageCost, 1600.0/15)
	}
	if g.CurrentPrice != 50 {
		t.Errorf("CurrentPrice = %v, want 50 (price of the later lot)", g.CurrentPrice)
	}
	if g.MarketValue != 750 {
		t.Errorf("MarketValue = %v, want 750", g.MarketValue)
	}
	if g.UnrealizedProfit != -850 {
		t.Errorf("UnrealizedProfit = %v, want -850", g.UnrealizedProfit)
	}
	if !almostEqual(g.ReturnRate, -53.125) {
		t.Errorf("ReturnRate = %v, want -53.125", g.ReturnRate)
	}
	// Representative fields come from the first lot seen for the name.
	if g.ID != "1" || g.Currency != "USD" {
		t.Errorf("representative lot = %q/%q, want first lot", g.ID, g.Currency)
	}
}

func TestAggregatePortfolioDateTieKeepsEarlierLot(t *testing.T) {
	d := day(2026, time.January, 10)
	lots := []Investment{
		{ID: "a", Name: "TSM", Type: Stock, Amount: 1, CurrentPrice: 100, Date: d},
		{ID: "b", Name: "TSM", Type: Stock, Amount: 1, CurrentPrice: 200, Date: d},
	}

	view := AggregatePortfolio(lots, day(2026, time.February, 1))
	g := view.Sections[0].Entries[0]
	if g.CurrentPrice != 100 {
		t.Errorf("CurrentPrice = %v, want 100 (earlier lot keeps the price on a date tie)", g.CurrentPrice)
	}
}

func TestAggregatePortfolioEmpty(t *testing.T) {
	view := AggregatePortfolio(nil, time.Now())
	if len(view.Sections) != 0 {
		t.Errorf("sections = %d, want none for empty input", len(view.Sections))
	}
}

func TestAggregatePortfolioSectionOrderAndOmission(t *testing.T) {
	now := day(2026, time.June, 1)
	lots := []Investment{
		{ID: "s1", Name: "Rainy Day", Type: Savings, Amount: 1000, Date: day(2026, time.January, 1)},
		{ID: "q1", Name: "AAPL", Type: Stock, Amount: 2, CostPrice: 100, CurrentPrice: 60, Date: day(2026, time.January, 1)},
	}

	view := AggregatePortfolio(lots, now)
	if len(view.Sections) != 2 {
		t.Fatalf("sections = %d, want 2 (deposits omitted)", len(view.Sections))
	}
	if view.Sections[0].Kind != Stock || view.Sections[1].Kind != Savings {
		t.Errorf("section order = %v/%v, want stocks then savings", view.Sections[0].Kind, view.Sections[1].Kind)
	}
}

func TestAggregatePortfolioInterestAccrual(t *testing.T) {
	now := day(2026, time.January, 1)
	lots := []Investment{
		// One year at 2% on 10000 accrues 200.
		{ID: "d1", Name: "Term 12m", Type: FixedDeposit, Amount: 10000, InterestRate: 2, Date: day(2025, time.January, 1)},
		// Future-dated lot accrues nothing.
		{ID: "d2", Name: "Term future", Type: FixedDeposit, Amount: 10000, InterestRate: 2, Date: day(2026, time.July, 1)},
		// No rate means no accrual.
		{ID: "d3", Name: "Term norate", Type: FixedDeposit, Amount: 10000, Date: day(2025, time.January, 1)},
	}

	view := AggregatePortfolio(lots, now)
	entries := view.Sections[0].Entries
	if len(entries) != 3 {
		t.Fatalf("deposit entries = %d, want 3 (no grouping by name)", len(entries))
	}
	if !almostEqual(entries[0].EstimatedInterest, 10000*0.02) {
		t.Errorf("EstimatedInterest = %v, want 200", entries[0].EstimatedInterest)
	}
	if entries[1].EstimatedInterest != 0 {
		t.Errorf("future-dated EstimatedInterest = %v, want 0", entries[1].EstimatedInterest)
	}
	if entries[2].EstimatedInterest != 0 {
		t.Errorf("no-rate EstimatedInterest = %v, want 0", entries[2].EstimatedInterest)
	}
}

func TestAggregatePortfolioIdempotent(t *testing.T) {
	now := day(2026, time.March, 1)
	lots := []Investment{
		{ID: "1", Name: "AAPL", Type: Stock, Amount: 10, CostPrice: 1000, CurrentPrice: 90, Date: day(2026, time.January, 10)},
		{ID: "2", Name: "AAPL", Type: Stock, Amount: 5, CostPrice: 600, CurrentPrice: 50, Date: day(2026, time.February, 20)},
		{ID: "3", Name: "Rainy", Type: Savings, Amount: 500, InterestRate: 1, Date: day(2025, time.June, 1)},
	}
	before := make([]Investment, len(lots))
	copy(before, lots)

	first := AggregatePortfolio(lots, now)
	second := AggregatePortfolio(lots, now)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated aggregation differs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
	if !reflect.DeepEqual(lots, before) {
		t.Errorf("input lots were mutated: %+v", lots)
	}
}
