package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is one clearing event applied against an expense. Payments are
// append-only: once recorded they are never mutated or removed.
type Payment struct {
	ID         string
	ExpenseID  string
	Member     Member
	Amount     decimal.Decimal
	RecordedAt time.Time
}

// Validate validates a payment record.
func (p *Payment) Validate() error {
	if p.Member.ID == "" {
		return ErrMissingMember
	}

	return ValidateAmount(p.Amount)
}
