package services

import (
	"context"
	"fmt"
	"time"

	"moneta/internal/cache"
	"moneta/internal/core"
	applog "moneta/internal/log"
	"moneta/internal/report"
	"moneta/internal/storage"
)

// ReportService computes the read-side reports over the store. Results are
// cached until the next mutation or TTL expiry, whichever comes first.
type ReportService struct {
	repo         *storage.Repository
	mainCurrency string
	logger       *applog.Logger

	portfolios *cache.LRU[report.PortfolioReport]
	budgets    *cache.LRU[report.BudgetReport]
	summaries  *cache.LRU[report.SummaryReport]

	// now is swappable in tests
	now func() time.Time
}

func NewReportService(repo *storage.Repository, mainCurrency string, ttl time.Duration, maxEntries int, logger *applog.Logger) *ReportService {
	return &ReportService{
		repo:         repo,
		mainCurrency: mainCurrency,
		logger:       logger.WithComponent(applog.ComponentReport),
		portfolios:   cache.NewLRU[report.PortfolioReport](maxEntries, ttl),
		budgets:      cache.NewLRU[report.BudgetReport](maxEntries, ttl),
		summaries:    cache.NewLRU[report.SummaryReport](maxEntries, ttl),
		now:          time.Now,
	}
}

// Invalidate drops all cached reports. Called after every mutation.
func (s *ReportService) Invalidate() {
	s.portfolios.Purge()
	s.budgets.Purge()
	s.summaries.Purge()
	s.logger.Debug("report caches invalidated")
}

// Portfolio aggregates active investment lots into the sectioned view.
func (s *ReportService) Portfolio(ctx context.Context) (report.PortfolioReport, error) {
	const key = "portfolio"
	if rep, ok := s.portfolios.Get(key); ok {
		return rep, nil
	}

	lots, err := s.repo.ListActiveInvestments(ctx)
	if err != nil {
		return report.PortfolioReport{}, fmt.Errorf("load investments: %w", err)
	}
	now := s.now()
	rep := report.BuildPortfolio(core.AggregatePortfolio(lots, now), now)
	s.portfolios.Set(key, rep)
	return rep, nil
}

// Budgets reports each budget's spending over its current period.
func (s *ReportService) Budgets(ctx context.Context) (report.BudgetReport, error) {
	const key = "budgets"
	if rep, ok := s.budgets.Get(key); ok {
		return rep, nil
	}

	budgets, err := s.repo.ListBudgets(ctx)
	if err != nil {
		return report.BudgetReport{}, fmt.Errorf("load budgets: %w", err)
	}
	rates, err := s.repo.LoadCurrencySettings(ctx)
	if err != nil {
		return report.BudgetReport{}, fmt.Errorf("load rates: %w", err)
	}

	now := s.now()
	// One query since the earliest window start among the budgets. The
	// yearly start is not a safe lower bound on its own: in early January
	// a weekly window reaches back into the previous year.
	since := now
	for _, b := range budgets {
		if start := core.PeriodStart(b.Period, now); start.Before(since) {
			since = start
		}
	}
	txns, err := s.repo.ListTransactionsJoined(ctx, since)
	if err != nil {
		return report.BudgetReport{}, fmt.Errorf("load transactions: %w", err)
	}

	spent := core.ComputeSpendingExact(budgets, txns, rates, now)
	rep := report.BuildBudgets(budgets, spent, now)
	s.budgets.Set(key, rep)
	return rep, nil
}

// Summary totals income and expenses over a reporting period (AdviceMonth
// or AdviceYear) with the category breakdown, converted to the main
// currency.
func (s *ReportService) Summary(ctx context.Context, period string) (report.SummaryReport, error) {
	if rep, ok := s.summaries.Get(period); ok {
		return rep, nil
	}

	sum, err := s.summarize(ctx, period)
	if err != nil {
		return report.SummaryReport{}, err
	}
	rep := report.BuildSummary(sum, s.now())
	s.summaries.Set(period, rep)
	return rep, nil
}

// Advice runs the rule-based advice over the period's summary.
func (s *ReportService) Advice(ctx context.Context, period string) (report.AdviceReport, error) {
	sum, err := s.summarize(ctx, period)
	if err != nil {
		return report.AdviceReport{}, err
	}
	top := ""
	if len(sum.TopCategories) > 0 {
		top = sum.TopCategories[0].Name
	}
	return report.AdviceReport{
		GeneratedAt: s.now(),
		Period:      period,
		Advice:      core.GenerateAdvice(sum.Income, sum.Expense, top, period),
	}, nil
}

func (s *ReportService) summarize(ctx context.Context, period string) (core.Summary, error) {
	var budgetPeriod core.BudgetPeriod
	switch period {
	case core.AdviceMonth:
		budgetPeriod = core.Monthly
	case core.AdviceYear:
		budgetPeriod = core.Yearly
	default:
		return core.Summary{}, fmt.Errorf("%w: period %q", core.ErrInvalidPeriod, period)
	}

	now := s.now()
	txns, err := s.repo.ListTransactionsJoined(ctx, core.PeriodStart(budgetPeriod, now))
	if err != nil {
		return core.Summary{}, fmt.Errorf("load transactions: %w", err)
	}
	rates, err := s.repo.LoadCurrencySettings(ctx)
	if err != nil {
		return core.Summary{}, fmt.Errorf("load rates: %w", err)
	}
	return core.Summarize(txns, rates, s.mainCurrency, report.DefaultPalette, report.LegendColor), nil
}

// GoalStatuses reports progress for every savings goal.
func (s *ReportService) GoalStatuses(ctx context.Context) (map[string]core.GoalStatus, error) {
	goals, err := s.repo.ListGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("load goals: %w", err)
	}
	now := s.now()
	out := make(map[string]core.GoalStatus, len(goals))
	for _, g := range goals {
		out[g.ID] = core.GoalProgress(g, now)
	}
	return out, nil
}
