package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"moneta/internal/core"
	applog "moneta/internal/log"
	"moneta/internal/storage"
)

func newReportService(t *testing.T) (*ReportService, *storage.Repository) {
	t.Helper()
	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	svc := NewReportService(repo, "TWD", time.Minute, 16, applog.New(applog.DefaultConfig()))
	return svc, repo
}

func seedReportData(t *testing.T, repo *storage.Repository, now time.Time) core.Budget {
	t.Helper()
	ctx := context.Background()

	acc, err := repo.CreateAccount(ctx, core.Account{Name: "Cash", Currency: "TWD"})
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	txns := []core.Transaction{
		{Amount: 3000, Type: core.Income, Date: now.Add(-48 * time.Hour), Description: "salary", AccountID: acc.ID},
		{Amount: 120, Type: core.Expense, Date: now.Add(-24 * time.Hour), Description: "餐飲 lunch", AccountID: acc.ID},
		{Amount: 220, Type: core.Expense, Date: now.Add(-2 * time.Hour), Description: "餐飲 dinner", AccountID: acc.ID},
	}
	for _, txn := range txns {
		if _, err := repo.CreateTransaction(ctx, txn); err != nil {
			t.Fatalf("CreateTransaction: %v", err)
		}
	}
	budget, err := repo.CreateBudget(ctx, core.Budget{
		Category: "餐飲", Amount: 300, Period: core.Monthly, Currency: "TWD",
	})
	if err != nil {
		t.Fatalf("CreateBudget: %v", err)
	}
	if _, err := repo.CreateInvestment(ctx, core.Investment{
		Name: "AAPL", Type: core.Stock, Amount: 10, CostPrice: 1000,
		CurrentPrice: 120, Currency: "USD", Date: now.Add(-72 * time.Hour),
	}); err != nil {
		t.Fatalf("CreateInvestment: %v", err)
	}
	return budget
}

func TestBudgetsReport(t *testing.T) {
	svc, repo := newReportService(t)
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	budget := seedReportData(t, repo, now)

	rep, err := svc.Budgets(context.Background())
	if err != nil {
		t.Fatalf("Budgets: %v", err)
	}
	if len(rep.Budgets) != 1 {
		t.Fatalf("got %d budgets, want 1", len(rep.Budgets))
	}
	b := rep.Budgets[0]
	if b.ID != budget.ID {
		t.Errorf("budget id = %q, want %q", b.ID, budget.ID)
	}
	if b.Spent != 340 {
		t.Errorf("Spent = %d, want 340", b.Spent)
	}
	if !b.Exceeded {
		t.Error("expected budget to be exceeded")
	}
}

func TestBudgetsReportWeeklyWindowAcrossYearBoundary(t *testing.T) {
	svc, repo := newReportService(t)
	// Friday Jan 2: the weekly window opened Sunday Dec 28, in the
	// previous year.
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	ctx := context.Background()
	acc, err := repo.CreateAccount(ctx, core.Account{Name: "Cash", Currency: "TWD"})
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if _, err := repo.CreateTransaction(ctx, core.Transaction{
		Amount: 100, Type: core.Expense, Description: "Coffee beans",
		Date: time.Date(2025, 12, 30, 9, 0, 0, 0, time.UTC), AccountID: acc.ID,
	}); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	budget, err := repo.CreateBudget(ctx, core.Budget{
		Category: "Coffee", Amount: 500, Period: core.Weekly, Currency: "TWD",
	})
	if err != nil {
		t.Fatalf("CreateBudget: %v", err)
	}

	rep, err := svc.Budgets(ctx)
	if err != nil {
		t.Fatalf("Budgets: %v", err)
	}
	if len(rep.Budgets) != 1 || rep.Budgets[0].ID != budget.ID {
		t.Fatalf("unexpected report: %+v", rep.Budgets)
	}
	if got := rep.Budgets[0].Spent; got != 100 {
		t.Errorf("Spent = %d, want 100 (last year's in-window expense dropped)", got)
	}
}

func TestSummaryAndAdvice(t *testing.T) {
	svc, repo := newReportService(t)
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	seedReportData(t, repo, now)

	sum, err := svc.Summary(context.Background(), core.AdviceMonth)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.Income != 3000 || sum.Expense != 340 {
		t.Errorf("income/expense = %d/%d, want 3000/340", sum.Income, sum.Expense)
	}
	if len(sum.Categories) != 1 || sum.Categories[0].Name != "餐飲" {
		t.Errorf("unexpected categories: %+v", sum.Categories)
	}

	adv, err := svc.Advice(context.Background(), core.AdviceMonth)
	if err != nil {
		t.Fatalf("Advice: %v", err)
	}
	if len(adv.Advice) != 2 {
		t.Fatalf("got %d advice lines, want 2: %v", len(adv.Advice), adv.Advice)
	}
}

func TestSummaryRejectsUnknownPeriod(t *testing.T) {
	svc, _ := newReportService(t)
	if _, err := svc.Summary(context.Background(), "week"); !errors.Is(err, core.ErrInvalidPeriod) {
		t.Fatalf("err = %v, want ErrInvalidPeriod", err)
	}
}

func TestPortfolioReport(t *testing.T) {
	svc, repo := newReportService(t)
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	seedReportData(t, repo, now)

	rep, err := svc.Portfolio(context.Background())
	if err != nil {
		t.Fatalf("Portfolio: %v", err)
	}
	if len(rep.Sections) != 1 || rep.Sections[0].Kind != string(core.Stock) {
		t.Fatalf("unexpected sections: %+v", rep.Sections)
	}
	e := rep.Sections[0].Entries[0]
	if e.Name != "AAPL" || e.TotalShares != 10 {
		t.Errorf("entry = %+v", e)
	}
}

func TestReportCachingAndInvalidation(t *testing.T) {
	svc, repo := newReportService(t)
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	seedReportData(t, repo, now)
	ctx := context.Background()

	first, err := svc.Budgets(ctx)
	if err != nil {
		t.Fatalf("Budgets: %v", err)
	}

	// A write the service does not know about: the cached report stays.
	acc, _ := repo.ListAccounts(ctx)
	if _, err := repo.CreateTransaction(ctx, core.Transaction{
		Amount: 1000, Type: core.Expense, Date: now.Add(-time.Hour),
		Description: "餐飲 banquet", AccountID: acc[0].ID,
	}); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	cached, err := svc.Budgets(ctx)
	if err != nil {
		t.Fatalf("Budgets: %v", err)
	}
	if cached.Budgets[0].Spent != first.Budgets[0].Spent {
		t.Error("expected cached spending before invalidation")
	}

	svc.Invalidate()
	fresh, err := svc.Budgets(ctx)
	if err != nil {
		t.Fatalf("Budgets: %v", err)
	}
	if fresh.Budgets[0].Spent != first.Budgets[0].Spent+1000 {
		t.Errorf("Spent after invalidation = %d, want %d", fresh.Budgets[0].Spent, first.Budgets[0].Spent+1000)
	}
}
