package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Expense represents one obligation owned by a member, together with its
// accumulated settlement state. ClearedAmount only ever grows; payments that
// would push it past Amount are rejected, never clamped.
type Expense struct {
	ID          string
	Member      Member
	Description string
	Amount      decimal.Decimal
	Date        time.Time

	ClearedAmount decimal.Decimal
	Cleared       bool
	ClearedBy     *Member
	ClearedAt     *time.Time

	LastClearedAmount *decimal.Decimal
	LastClearedBy     *Member
	LastClearedAt     *time.Time
}

// ExpenseStatus is the tri-state settlement status shown to callers.
type ExpenseStatus string

const (
	StatusPending ExpenseStatus = "PENDING"
	StatusPartial ExpenseStatus = "PARTIALLY_CLEARED"
	StatusCleared ExpenseStatus = "CLEARED"
)

const maxDescriptionLength = 50

// Remaining returns the outstanding balance.
func (e *Expense) Remaining() decimal.Decimal {
	return e.Amount.Sub(e.ClearedAmount)
}

// Editable reports whether the expense may still be edited. Fully cleared
// expenses are frozen.
func (e *Expense) Editable() bool {
	return !e.Cleared
}

// Status derives the settlement status from the cleared amount.
func (e *Expense) Status() ExpenseStatus {
	switch {
	case e.Cleared:
		return StatusCleared
	case e.ClearedAmount.IsPositive():
		return StatusPartial
	default:
		return StatusPending
	}
}

// ValidatePayment checks whether a payment of amount may be applied.
func (e *Expense) ValidatePayment(amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}

	if e.Cleared {
		return ErrAlreadyCleared
	}

	if e.ClearedAmount.Add(amount).GreaterThan(e.Amount) {
		return fmt.Errorf("%w: %s remaining, %s offered", ErrOverpayment, e.Remaining(), amount)
	}

	return nil
}

// Reconcile re-establishes the derived invariants on an expense fetched from
// the upstream ledger: the cleared flag must agree with the amounts, and the
// cleared amount must stay within [0, Amount].
func (e *Expense) Reconcile() error {
	if e.ClearedAmount.IsNegative() || e.ClearedAmount.GreaterThan(e.Amount) {
		return fmt.Errorf("%w: cleared amount %s out of range for total %s",
			ErrOverpayment, e.ClearedAmount, e.Amount)
	}

	e.Cleared = e.ClearedAmount.Equal(e.Amount)

	return nil
}

// ExpenseDraft carries the caller-supplied fields of a new or edited expense.
type ExpenseDraft struct {
	MemberID    string
	Description string
	Amount      decimal.Decimal
	Date        time.Time
}

// Validate validates a draft before it is sent upstream.
func (d *ExpenseDraft) Validate() error {
	if d.MemberID == "" {
		return ErrMissingMember
	}

	if err := ValidateAmount(d.Amount); err != nil {
		return err
	}

	desc := strings.TrimSpace(d.Description)
	if desc == "" {
		return fmt.Errorf("%w: description cannot be empty", ErrInvalidDescription)
	}

	if len(desc) > maxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidDescription, maxDescriptionLength)
	}

	if d.Date.IsZero() {
		return ErrMissingDate
	}

	return nil
}
