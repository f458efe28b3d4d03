package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/splitclear/internal/domain"
)

func TestExpense_ValidatePayment(t *testing.T) {
	e := &domain.Expense{
		ID:            "e1",
		Member:        domain.Member{ID: "m-1", Name: "Asha"},
		Amount:        decimal.RequireFromString("100"),
		ClearedAmount: decimal.RequireFromString("80"),
	}

	tests := []struct {
		name    string
		amount  string
		wantErr error
	}{
		{name: "exact remaining accepted", amount: "20", wantErr: nil},
		{name: "partial accepted", amount: "10", wantErr: nil},
		{name: "overpayment rejected", amount: "30", wantErr: domain.ErrOverpayment},
		{name: "zero rejected", amount: "0", wantErr: domain.ErrInvalidAmount},
		{name: "negative rejected", amount: "-5", wantErr: domain.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := e.ValidatePayment(decimal.RequireFromString(tt.amount))
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	// Rejection must not touch the expense.
	if !e.ClearedAmount.Equal(decimal.RequireFromString("80")) {
		t.Error("validation mutated the expense")
	}
}

func TestExpense_ValidatePayment_AlreadyCleared(t *testing.T) {
	e := &domain.Expense{
		ID:            "e1",
		Amount:        decimal.RequireFromString("100"),
		ClearedAmount: decimal.RequireFromString("100"),
		Cleared:       true,
	}

	if err := e.ValidatePayment(decimal.RequireFromString("1")); !errors.Is(err, domain.ErrAlreadyCleared) {
		t.Errorf("expected ErrAlreadyCleared, got %v", err)
	}
	if e.Editable() {
		t.Error("cleared expense must not be editable")
	}
}

func TestExpense_Reconcile(t *testing.T) {
	e := &domain.Expense{
		Amount:        decimal.RequireFromString("100"),
		ClearedAmount: decimal.RequireFromString("100.00"),
	}

	if err := e.Reconcile(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !e.Cleared {
		t.Error("expected cleared flag after reconcile")
	}

	bad := &domain.Expense{
		Amount:        decimal.RequireFromString("100"),
		ClearedAmount: decimal.RequireFromString("130"),
	}
	if err := bad.Reconcile(); err == nil {
		t.Error("expected error for cleared amount above total")
	}
}

func TestExpense_Status(t *testing.T) {
	e := &domain.Expense{Amount: decimal.RequireFromString("100")}

	if got := e.Status(); got != domain.StatusPending {
		t.Errorf("expected PENDING, got %s", got)
	}

	e.ClearedAmount = decimal.RequireFromString("40")
	if got := e.Status(); got != domain.StatusPartial {
		t.Errorf("expected PARTIALLY_CLEARED, got %s", got)
	}

	e.ClearedAmount = e.Amount
	e.Cleared = true
	if got := e.Status(); got != domain.StatusCleared {
		t.Errorf("expected CLEARED, got %s", got)
	}
}

func TestExpenseDraft_Validate(t *testing.T) {
	valid := domain.ExpenseDraft{
		MemberID:    "m-1",
		Description: "dinner",
		Amount:      decimal.RequireFromString("42.50"),
		Date:        time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*domain.ExpenseDraft)
		want   error
	}{
		{"missing member", func(d *domain.ExpenseDraft) { d.MemberID = "" }, domain.ErrMissingMember},
		{"zero amount", func(d *domain.ExpenseDraft) { d.Amount = decimal.Zero }, domain.ErrInvalidAmount},
		{"blank description", func(d *domain.ExpenseDraft) { d.Description = "  " }, domain.ErrInvalidDescription},
		{"missing date", func(d *domain.ExpenseDraft) { d.Date = time.Time{} }, domain.ErrMissingDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid
			tt.mutate(&d)
			if err := d.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
