package usecase

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/iho/splitclear/internal/domain"
)

const recentExpenseCount = 5

// DashboardOverview is the aggregate view backing the overview screen.
type DashboardOverview struct {
	TotalAmount    decimal.Decimal
	TotalCleared   decimal.Decimal
	TotalRemaining decimal.Decimal
	ExpenseCount   int

	RecentExpenses []*domain.Expense
	Balances       []*domain.MemberBalance
}

// DashboardUseCase assembles the overview from expenses and balances.
type DashboardUseCase struct {
	expenses *ExpenseUseCase
	balances *BalanceUseCase
}

// NewDashboardUseCase creates a new DashboardUseCase.
func NewDashboardUseCase(expenses *ExpenseUseCase, balances *BalanceUseCase) *DashboardUseCase {
	return &DashboardUseCase{expenses: expenses, balances: balances}
}

// Overview fetches expenses and balances concurrently and folds the totals.
func (uc *DashboardUseCase) Overview(ctx context.Context) (*DashboardOverview, error) {
	if err := requireAction(ctx, domain.ActionViewBalances); err != nil {
		return nil, err
	}

	var (
		expenses []*domain.Expense
		balances []*domain.MemberBalance
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = uc.expenses.ListExpenses(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		balances, err = uc.balances.MemberBalances(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	overview := &DashboardOverview{
		TotalAmount:    decimal.Zero,
		TotalCleared:   decimal.Zero,
		TotalRemaining: decimal.Zero,
		ExpenseCount:   len(expenses),
		Balances:       balances,
	}

	for _, e := range expenses {
		overview.TotalAmount = overview.TotalAmount.Add(e.Amount)
		overview.TotalCleared = overview.TotalCleared.Add(e.ClearedAmount)
	}
	overview.TotalRemaining = overview.TotalAmount.Sub(overview.TotalCleared)

	// Most recent first.
	n := len(expenses)
	count := recentExpenseCount
	if n < count {
		count = n
	}
	for i := 0; i < count; i++ {
		overview.RecentExpenses = append(overview.RecentExpenses, expenses[n-1-i])
	}

	return overview, nil
}
