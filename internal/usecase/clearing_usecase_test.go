package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/splitclear/internal/domain"
	"github.com/iho/splitclear/internal/infrastructure/session"
	"github.com/iho/splitclear/internal/usecase"
	"github.com/iho/splitclear/internal/usecase/mocks"
)

func userContext(role domain.Role) context.Context {
	return session.NewContext(context.Background(), &session.Session{
		UserID: "u-1",
		Name:   "tester",
		Role:   role,
		Token:  "token",
	})
}

func openExpense(id, amount, cleared string) *domain.Expense {
	return &domain.Expense{
		ID:            id,
		Member:        domain.Member{ID: "m-1", Name: "Asha"},
		Description:   "groceries",
		Amount:        decimal.RequireFromString(amount),
		Date:          time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		ClearedAmount: decimal.RequireFromString(cleared),
	}
}

func newClearingUseCase(t *testing.T, gateway *mocks.MockLedgerGateway) *usecase.ClearingUseCase {
	t.Helper()

	ctrl := gomock.NewController(t)
	cache := mocks.NewMockCache(ctrl)
	cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	idGen := mocks.NewMockIDGenerator(ctrl)
	idGen.EXPECT().Generate().Return("wf-1").AnyTimes()

	return usecase.NewClearingUseCase(gateway, cache, idGen)
}

func TestClearingUseCase_BeginRefusesClearedExpense(t *testing.T) {
	gateway := mocks.NewMockLedgerGateway()
	gateway.GetExpenseFunc = func(ctx context.Context, id string) (*domain.Expense, error) {
		return openExpense(id, "100", "100"), nil
	}

	uc := newClearingUseCase(t, gateway)

	_, err := uc.Begin(userContext(domain.RoleUser), "e1")
	if !errors.Is(err, domain.ErrAlreadyCleared) {
		t.Fatalf("expected ErrAlreadyCleared, got %v", err)
	}
}

func TestClearingUseCase_OverpaymentRejectedBeforeNetwork(t *testing.T) {
	gateway := mocks.NewMockLedgerGateway()
	gateway.GetExpenseFunc = func(ctx context.Context, id string) (*domain.Expense, error) {
		return openExpense(id, "100", "80"), nil
	}
	gateway.ClearExpenseFunc = func(ctx context.Context, id, payerMemberID string, amount decimal.Decimal, key string) (*domain.Expense, error) {
		t.Fatal("overpayment must be rejected before any upstream call")
		return nil, nil
	}

	uc := newClearingUseCase(t, gateway)
	ctx := userContext(domain.RoleUser)

	wf, err := uc.Begin(ctx, "e1")
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	_, err = uc.Submit(ctx, wf, usecase.SubmitPaymentInput{
		PayerMemberID: "m-2",
		Amount:        decimal.RequireFromString("30"),
	})
	if !errors.Is(err, domain.ErrOverpayment) {
		t.Fatalf("expected ErrOverpayment, got %v", err)
	}

	if wf.State != usecase.ClearingRejected {
		t.Errorf("expected state REJECTED, got %s", wf.State)
	}
	if !wf.Expense.ClearedAmount.Equal(decimal.RequireFromString("80")) {
		t.Error("rejected submission mutated the expense")
	}
}

func TestClearingUseCase_RejectedWorkflowAllowsRetry(t *testing.T) {
	cleared := decimal.RequireFromString("80")
	gateway := mocks.NewMockLedgerGateway()
	gateway.GetExpenseFunc = func(ctx context.Context, id string) (*domain.Expense, error) {
		e := openExpense(id, "100", "0")
		e.ClearedAmount = cleared
		return e, nil
	}
	gateway.ClearExpenseFunc = func(ctx context.Context, id, payerMemberID string, amount decimal.Decimal, key string) (*domain.Expense, error) {
		cleared = cleared.Add(amount)
		return nil, nil
	}

	uc := newClearingUseCase(t, gateway)
	ctx := userContext(domain.RoleUser)

	wf, err := uc.Begin(ctx, "e1")
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	if _, err := uc.Submit(ctx, wf, usecase.SubmitPaymentInput{PayerMemberID: "m-2", Amount: decimal.RequireFromString("30")}); err == nil {
		t.Fatal("expected overpayment rejection")
	}

	// Exact clearing on retry.
	updated, err := uc.Submit(ctx, wf, usecase.SubmitPaymentInput{PayerMemberID: "m-2", Amount: decimal.RequireFromString("20")})
	if err != nil {
		t.Fatalf("retry submit: %v", err)
	}

	if wf.State != usecase.ClearingApplied {
		t.Errorf("expected state APPLIED, got %s", wf.State)
	}
	if !updated.Cleared {
		t.Error("expected refetched expense to be cleared")
	}
	if !updated.ClearedAmount.Equal(decimal.RequireFromString("100")) {
		t.Errorf("expected cleared amount 100, got %s", updated.ClearedAmount)
	}
	if !updated.Remaining().IsZero() {
		t.Errorf("expected zero remaining, got %s", updated.Remaining())
	}
}

func TestClearingUseCase_AppliedUsesRefetchedState(t *testing.T) {
	var clearCalls, getCalls int

	gateway := mocks.NewMockLedgerGateway()
	gateway.GetExpenseFunc = func(ctx context.Context, id string) (*domain.Expense, error) {
		getCalls++
		if clearCalls == 0 {
			return openExpense(id, "150", "0"), nil
		}
		// State after the server applied the payment.
		return openExpense(id, "150", "50"), nil
	}
	gateway.ClearExpenseFunc = func(ctx context.Context, id, payerMemberID string, amount decimal.Decimal, key string) (*domain.Expense, error) {
		clearCalls++
		if key == "" {
			t.Error("expected idempotency key on clear submission")
		}
		// The gateway response is deliberately ignored by the workflow.
		return openExpense(id, "150", "999"), nil
	}

	uc := newClearingUseCase(t, gateway)
	ctx := userContext(domain.RoleUser)

	wf, err := uc.Begin(ctx, "e1")
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	updated, err := uc.Submit(ctx, wf, usecase.SubmitPaymentInput{PayerMemberID: "m-2", Amount: decimal.RequireFromString("50")})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if getCalls != 2 {
		t.Errorf("expected a refetch after the mutation, got %d gets", getCalls)
	}
	if !updated.ClearedAmount.Equal(decimal.RequireFromString("50")) {
		t.Errorf("expected refetched cleared amount 50, got %s", updated.ClearedAmount)
	}
	if updated.Cleared {
		t.Error("expected partially cleared expense")
	}
}

func TestClearingUseCase_InvalidInput(t *testing.T) {
	gateway := mocks.NewMockLedgerGateway()
	gateway.GetExpenseFunc = func(ctx context.Context, id string) (*domain.Expense, error) {
		return openExpense(id, "100", "0"), nil
	}

	uc := newClearingUseCase(t, gateway)
	ctx := userContext(domain.RoleUser)

	tests := []struct {
		name  string
		input usecase.SubmitPaymentInput
		want  error
	}{
		{"missing payer", usecase.SubmitPaymentInput{Amount: decimal.RequireFromString("10")}, domain.ErrMissingMember},
		{"zero amount", usecase.SubmitPaymentInput{PayerMemberID: "m-2"}, domain.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wf, err := uc.Begin(ctx, "e1")
			if err != nil {
				t.Fatalf("begin: %v", err)
			}
			if _, err := uc.Submit(ctx, wf, tt.input); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestClearingUseCase_AbandonOnlyBeforeSubmit(t *testing.T) {
	gateway := mocks.NewMockLedgerGateway()
	gateway.GetExpenseFunc = func(ctx context.Context, id string) (*domain.Expense, error) {
		return openExpense(id, "100", "0"), nil
	}
	gateway.ClearExpenseFunc = func(ctx context.Context, id, payerMemberID string, amount decimal.Decimal, key string) (*domain.Expense, error) {
		return nil, nil
	}

	uc := newClearingUseCase(t, gateway)
	ctx := userContext(domain.RoleUser)

	wf, err := uc.Begin(ctx, "e1")
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	if err := uc.Abandon(wf); err != nil {
		t.Fatalf("abandon while awaiting input: %v", err)
	}
	if wf.State != usecase.ClearingIdle {
		t.Errorf("expected state IDLE, got %s", wf.State)
	}

	wf2, _ := uc.Begin(ctx, "e1")
	if _, err := uc.Submit(ctx, wf2, usecase.SubmitPaymentInput{PayerMemberID: "m-2", Amount: decimal.RequireFromString("10")}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := uc.Abandon(wf2); !errors.Is(err, domain.ErrWorkflowState) {
		t.Errorf("expected ErrWorkflowState after Applied, got %v", err)
	}
}

func TestClearingUseCase_RequiresSession(t *testing.T) {
	uc := newClearingUseCase(t, mocks.NewMockLedgerGateway())

	if _, err := uc.Begin(context.Background(), "e1"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized without session, got %v", err)
	}
}
