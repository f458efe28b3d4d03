package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/splitclear/internal/domain"
)

// LedgerGateway defines the operations of the remote expense-ledger API.
// The gateway is the single system of record: every mutation is followed by
// a refetch through it rather than a local patch.
type LedgerGateway interface {
	ListExpenses(ctx context.Context) ([]*domain.Expense, error)
	GetExpense(ctx context.Context, id string) (*domain.Expense, error)
	CreateExpense(ctx context.Context, draft domain.ExpenseDraft) (*domain.Expense, error)
	UpdateExpense(ctx context.Context, id string, draft domain.ExpenseDraft) (*domain.Expense, error)
	DeleteExpense(ctx context.Context, id string) error

	// ClearExpense records a payment against an expense. The key is an
	// idempotency key covering one workflow submission.
	ClearExpense(ctx context.Context, id, payerMemberID string, amount decimal.Decimal, key string) (*domain.Expense, error)
	ListPayments(ctx context.Context, expenseID string) ([]*domain.Payment, error)

	// MemberBalanceSummary returns the server-side balance aggregation.
	MemberBalanceSummary(ctx context.Context) ([]*domain.MemberBalance, error)

	ListMembers(ctx context.Context) ([]*domain.Member, error)
	CreateMember(ctx context.Context, name string) (*domain.Member, error)
}

// Cache defines caching operations. Get returns (nil, nil) on a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}
