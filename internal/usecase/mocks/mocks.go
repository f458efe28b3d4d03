package mocks

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/splitclear/internal/domain"
)

// MockLedgerGateway is a mock implementation of usecase.LedgerGateway.
// Unset funcs return ErrExpenseNotFound/ErrMemberNotFound or empty results.
type MockLedgerGateway struct {
	ListExpensesFunc         func(ctx context.Context) ([]*domain.Expense, error)
	GetExpenseFunc           func(ctx context.Context, id string) (*domain.Expense, error)
	CreateExpenseFunc        func(ctx context.Context, draft domain.ExpenseDraft) (*domain.Expense, error)
	UpdateExpenseFunc        func(ctx context.Context, id string, draft domain.ExpenseDraft) (*domain.Expense, error)
	DeleteExpenseFunc        func(ctx context.Context, id string) error
	ClearExpenseFunc         func(ctx context.Context, id, payerMemberID string, amount decimal.Decimal, key string) (*domain.Expense, error)
	ListPaymentsFunc         func(ctx context.Context, expenseID string) ([]*domain.Payment, error)
	MemberBalanceSummaryFunc func(ctx context.Context) ([]*domain.MemberBalance, error)
	ListMembersFunc          func(ctx context.Context) ([]*domain.Member, error)
	CreateMemberFunc         func(ctx context.Context, name string) (*domain.Member, error)
}

func NewMockLedgerGateway() *MockLedgerGateway {
	return &MockLedgerGateway{}
}

func (m *MockLedgerGateway) ListExpenses(ctx context.Context) ([]*domain.Expense, error) {
	if m.ListExpensesFunc != nil {
		return m.ListExpensesFunc(ctx)
	}
	return nil, nil
}

func (m *MockLedgerGateway) GetExpense(ctx context.Context, id string) (*domain.Expense, error) {
	if m.GetExpenseFunc != nil {
		return m.GetExpenseFunc(ctx, id)
	}
	return nil, domain.ErrExpenseNotFound
}

func (m *MockLedgerGateway) CreateExpense(ctx context.Context, draft domain.ExpenseDraft) (*domain.Expense, error) {
	if m.CreateExpenseFunc != nil {
		return m.CreateExpenseFunc(ctx, draft)
	}
	return nil, domain.ErrUpstream
}

func (m *MockLedgerGateway) UpdateExpense(ctx context.Context, id string, draft domain.ExpenseDraft) (*domain.Expense, error) {
	if m.UpdateExpenseFunc != nil {
		return m.UpdateExpenseFunc(ctx, id, draft)
	}
	return nil, domain.ErrUpstream
}

func (m *MockLedgerGateway) DeleteExpense(ctx context.Context, id string) error {
	if m.DeleteExpenseFunc != nil {
		return m.DeleteExpenseFunc(ctx, id)
	}
	return nil
}

func (m *MockLedgerGateway) ClearExpense(ctx context.Context, id, payerMemberID string, amount decimal.Decimal, key string) (*domain.Expense, error) {
	if m.ClearExpenseFunc != nil {
		return m.ClearExpenseFunc(ctx, id, payerMemberID, amount, key)
	}
	return nil, domain.ErrUpstream
}

func (m *MockLedgerGateway) ListPayments(ctx context.Context, expenseID string) ([]*domain.Payment, error) {
	if m.ListPaymentsFunc != nil {
		return m.ListPaymentsFunc(ctx, expenseID)
	}
	return nil, nil
}

func (m *MockLedgerGateway) MemberBalanceSummary(ctx context.Context) ([]*domain.MemberBalance, error) {
	if m.MemberBalanceSummaryFunc != nil {
		return m.MemberBalanceSummaryFunc(ctx)
	}
	return nil, nil
}

func (m *MockLedgerGateway) ListMembers(ctx context.Context) ([]*domain.Member, error) {
	if m.ListMembersFunc != nil {
		return m.ListMembersFunc(ctx)
	}
	return nil, nil
}

func (m *MockLedgerGateway) CreateMember(ctx context.Context, name string) (*domain.Member, error) {
	if m.CreateMemberFunc != nil {
		return m.CreateMemberFunc(ctx, name)
	}
	return nil, domain.ErrUpstream
}
