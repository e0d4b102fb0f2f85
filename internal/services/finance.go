// Package services orchestrates the store, the change-event stream and the
// report computations for the HTTP layer.
package services

import (
	"context"
	"fmt"
	"time"

	"moneta/internal/amqp"
	"moneta/internal/core"
	applog "moneta/internal/log"
	"moneta/internal/storage"
)

// ChangePublisher emits store-change events. *amqp.Client satisfies it; a
// nil publisher disables eventing.
type ChangePublisher interface {
	PublishStoreChanged(ctx context.Context, entity, op, id string) error
	Close() error
}

// FinanceService owns all mutations. Each write lands in SQLite first and a
// change event is published afterwards; a publish failure is logged but
// never fails the request, the local write already succeeded.
type FinanceService struct {
	repo      *storage.Repository
	publisher ChangePublisher
	logger    *applog.Logger
}

func NewFinanceService(repo *storage.Repository, publisher ChangePublisher, logger *applog.Logger) *FinanceService {
	return &FinanceService{
		repo:      repo,
		publisher: publisher,
		logger:    logger.WithComponent(applog.ComponentService),
	}
}

func (s *FinanceService) publish(ctx context.Context, entity, op, id string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishStoreChanged(ctx, entity, op, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish change event",
			applog.FieldEntity, entity,
			applog.FieldOperation, op,
			applog.FieldEntityID, id,
			applog.FieldError, err,
		)
	}
}

// Accounts

func (s *FinanceService) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	created, err := s.repo.CreateAccount(ctx, a)
	if err != nil {
		return core.Account{}, err
	}
	s.publish(ctx, amqp.EntityAccount, amqp.OpCreated, created.ID)
	return created, nil
}

func (s *FinanceService) GetAccount(ctx context.Context, id string) (core.Account, error) {
	return s.repo.GetAccount(ctx, id)
}

func (s *FinanceService) ListAccounts(ctx context.Context) ([]core.Account, error) {
	return s.repo.ListAccounts(ctx)
}

func (s *FinanceService) UpdateAccount(ctx context.Context, a core.Account) error {
	if err := s.repo.UpdateAccount(ctx, a); err != nil {
		return err
	}
	s.publish(ctx, amqp.EntityAccount, amqp.OpUpdated, a.ID)
	return nil
}

func (s *FinanceService) DeleteAccount(ctx context.Context, id string) error {
	if err := s.repo.DeleteAccount(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, amqp.EntityAccount, amqp.OpDeleted, id)
	return nil
}

// Transactions

func (s *FinanceService) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	created, err := s.repo.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, err
	}
	s.publish(ctx, amqp.EntityTransaction, amqp.OpCreated, created.ID)
	return created, nil
}

func (s *FinanceService) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *FinanceService) ListTransactions(ctx context.Context, since time.Time) ([]core.Transaction, error) {
	return s.repo.ListTransactions(ctx, since)
}

func (s *FinanceService) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	if err := s.repo.UpdateTransaction(ctx, t); err != nil {
		return err
	}
	s.publish(ctx, amqp.EntityTransaction, amqp.OpUpdated, t.ID)
	return nil
}

func (s *FinanceService) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.repo.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, amqp.EntityTransaction, amqp.OpDeleted, id)
	return nil
}

// Budgets

func (s *FinanceService) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	created, err := s.repo.CreateBudget(ctx, b)
	if err != nil {
		return core.Budget{}, err
	}
	s.publish(ctx, amqp.EntityBudget, amqp.OpCreated, created.ID)
	return created, nil
}

func (s *FinanceService) GetBudget(ctx context.Context, id string) (core.Budget, error) {
	return s.repo.GetBudget(ctx, id)
}

func (s *FinanceService) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	return s.repo.ListBudgets(ctx)
}

func (s *FinanceService) UpdateBudget(ctx context.Context, b core.Budget) error {
	if err := s.repo.UpdateBudget(ctx, b); err != nil {
		return err
	}
	s.publish(ctx, amqp.EntityBudget, amqp.OpUpdated, b.ID)
	return nil
}

func (s *FinanceService) DeleteBudget(ctx context.Context, id string) error {
	if err := s.repo.DeleteBudget(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, amqp.EntityBudget, amqp.OpDeleted, id)
	return nil
}

// Investments

func (s *FinanceService) CreateInvestment(ctx context.Context, inv core.Investment) (core.Investment, error) {
	created, err := s.repo.CreateInvestment(ctx, inv)
	if err != nil {
		return core.Investment{}, err
	}
	s.publish(ctx, amqp.EntityInvestment, amqp.OpCreated, created.ID)
	return created, nil
}

func (s *FinanceService) GetInvestment(ctx context.Context, id string) (core.Investment, error) {
	return s.repo.GetInvestment(ctx, id)
}

func (s *FinanceService) ListInvestments(ctx context.Context) ([]core.Investment, error) {
	return s.repo.ListInvestments(ctx)
}

func (s *FinanceService) UpdateInvestment(ctx context.Context, inv core.Investment) error {
	if err := s.repo.UpdateInvestment(ctx, inv); err != nil {
		return err
	}
	s.publish(ctx, amqp.EntityInvestment, amqp.OpUpdated, inv.ID)
	return nil
}

func (s *FinanceService) DeleteInvestment(ctx context.Context, id string) error {
	if err := s.repo.DeleteInvestment(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, amqp.EntityInvestment, amqp.OpDeleted, id)
	return nil
}

// Savings goals

func (s *FinanceService) CreateGoal(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	created, err := s.repo.CreateGoal(ctx, g)
	if err != nil {
		return core.SavingsGoal{}, err
	}
	s.publish(ctx, amqp.EntityGoal, amqp.OpCreated, created.ID)
	return created, nil
}

func (s *FinanceService) GetGoal(ctx context.Context, id string) (core.SavingsGoal, error) {
	return s.repo.GetGoal(ctx, id)
}

func (s *FinanceService) ListGoals(ctx context.Context) ([]core.SavingsGoal, error) {
	return s.repo.ListGoals(ctx)
}

func (s *FinanceService) UpdateGoal(ctx context.Context, g core.SavingsGoal) error {
	if err := s.repo.UpdateGoal(ctx, g); err != nil {
		return err
	}
	s.publish(ctx, amqp.EntityGoal, amqp.OpUpdated, g.ID)
	return nil
}

func (s *FinanceService) DeleteGoal(ctx context.Context, id string) error {
	if err := s.repo.DeleteGoal(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, amqp.EntityGoal, amqp.OpDeleted, id)
	return nil
}

// Currency settings

func (s *FinanceService) GetRates(ctx context.Context) (core.RateTable, error) {
	return s.repo.LoadCurrencySettings(ctx)
}

func (s *FinanceService) SaveRates(ctx context.Context, rates core.RateTable) error {
	for code, rate := range rates {
		if code == "" {
			return fmt.Errorf("%w: empty currency code", core.ErrEmptyCurrency)
		}
		if rate <= 0 {
			return fmt.Errorf("%w: rate for %s must be positive", core.ErrInvalidAmount, code)
		}
	}
	if err := s.repo.SaveCurrencySettings(ctx, rates); err != nil {
		return err
	}
	s.publish(ctx, amqp.EntityRates, amqp.OpUpdated, amqp.EntityRates)
	return nil
}

// Close closes the storage and the publisher.
func (s *FinanceService) Close() error {
	var errs []error
	if s.repo != nil {
		if err := s.repo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close finance service: %v", errs)
	}
	return nil
}
