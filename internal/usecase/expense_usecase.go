package usecase

import (
	"context"

	"github.com/iho/splitclear/internal/domain"
)

// ExpenseUseCase handles expense reads and admin mutations. Every view goes
// through the same derivation so settlement state cannot drift between
// dashboards.
type ExpenseUseCase struct {
	gateway LedgerGateway
	cache   Cache
}

// NewExpenseUseCase creates a new ExpenseUseCase.
func NewExpenseUseCase(gateway LedgerGateway, cache Cache) *ExpenseUseCase {
	return &ExpenseUseCase{gateway: gateway, cache: cache}
}

// ListExpenses returns all expenses with reconciled settlement state.
func (uc *ExpenseUseCase) ListExpenses(ctx context.Context) ([]*domain.Expense, error) {
	if err := requireAction(ctx, domain.ActionViewExpenses); err != nil {
		return nil, err
	}

	expenses, err := uc.gateway.ListExpenses(ctx)
	if err != nil {
		return nil, err
	}

	for _, e := range expenses {
		if err := e.Reconcile(); err != nil {
			return nil, err
		}
	}

	return expenses, nil
}

// GetExpense returns one expense with settlement state re-derived from its
// full payment history. This is the authoritative per-expense view: the sum
// of recorded payments, not the upstream's cached counters, decides the
// cleared amount.
func (uc *ExpenseUseCase) GetExpense(ctx context.Context, id string) (*domain.Expense, error) {
	if err := requireAction(ctx, domain.ActionViewExpenses); err != nil {
		return nil, err
	}

	expense, err := uc.gateway.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}

	payments, err := uc.gateway.ListPayments(ctx, id)
	if err != nil {
		return nil, err
	}

	domain.ApplySettlement(expense, payments)

	return expense, nil
}

// PaymentHistory returns the chronologically ordered payments of an expense.
func (uc *ExpenseUseCase) PaymentHistory(ctx context.Context, expenseID string) ([]*domain.Payment, error) {
	if err := requireAction(ctx, domain.ActionViewExpenses); err != nil {
		return nil, err
	}

	return uc.gateway.ListPayments(ctx, expenseID)
}

// CreateExpense creates an expense and refetches it from the ledger.
func (uc *ExpenseUseCase) CreateExpense(ctx context.Context, draft domain.ExpenseDraft) (*domain.Expense, error) {
	if err := requireAction(ctx, domain.ActionCreateExpense); err != nil {
		return nil, err
	}

	if err := draft.Validate(); err != nil {
		return nil, err
	}

	created, err := uc.gateway.CreateExpense(ctx, draft)
	if err != nil {
		return nil, err
	}

	uc.invalidateBalances(ctx)

	return created, nil
}

// UpdateExpense edits an expense that is not yet fully cleared.
func (uc *ExpenseUseCase) UpdateExpense(ctx context.Context, id string, draft domain.ExpenseDraft) (*domain.Expense, error) {
	if err := requireAction(ctx, domain.ActionEditExpense); err != nil {
		return nil, err
	}

	if err := draft.Validate(); err != nil {
		return nil, err
	}

	// The UI never offers edit on a cleared expense; check again here so a
	// direct API call cannot slip through.
	current, err := uc.gateway.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := current.Reconcile(); err != nil {
		return nil, err
	}

	if !current.Editable() {
		return nil, domain.ErrAlreadyCleared
	}

	updated, err := uc.gateway.UpdateExpense(ctx, id, draft)
	if err != nil {
		return nil, err
	}

	uc.invalidateBalances(ctx)

	return updated, nil
}

// DeleteExpense removes an expense and, implicitly, its payments. Deletion
// is allowed at any settlement state.
func (uc *ExpenseUseCase) DeleteExpense(ctx context.Context, id string) error {
	if err := requireAction(ctx, domain.ActionDeleteExpense); err != nil {
		return err
	}

	if err := uc.gateway.DeleteExpense(ctx, id); err != nil {
		return err
	}

	uc.invalidateBalances(ctx)

	return nil
}

func (uc *ExpenseUseCase) invalidateBalances(ctx context.Context) {
	if uc.cache != nil {
		_ = uc.cache.Delete(ctx, balanceSummaryCacheKey)
	}
}
