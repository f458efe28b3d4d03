package dto

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/iho/splitclear/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

const dateLayout = "2006-01-02"

// Amounts travel as strings so clients are never tempted to do float math on
// money; both "42.50" and "42,50" are accepted.

type CreateExpenseRequest struct {
	MemberID    string `json:"memberId" validate:"required"`
	Description string `json:"description" validate:"required,max=50"`
	Amount      string `json:"amount" validate:"required"`
	Date        string `json:"date" validate:"required"`
}

func (r *CreateExpenseRequest) ToDraft() (domain.ExpenseDraft, error) {
	if err := validate.Struct(r); err != nil {
		return domain.ExpenseDraft{}, fmt.Errorf("%w: %v", domain.ErrInvalidDescription, err)
	}

	amount, err := domain.ParseAmount(r.Amount)
	if err != nil {
		return domain.ExpenseDraft{}, err
	}

	date, err := time.Parse(dateLayout, r.Date)
	if err != nil {
		return domain.ExpenseDraft{}, domain.ErrMissingDate
	}

	return domain.ExpenseDraft{
		MemberID:    r.MemberID,
		Description: r.Description,
		Amount:      amount,
		Date:        date,
	}, nil
}

type ClearExpenseRequest struct {
	MemberID string `json:"memberId" validate:"required"`
	Amount   string `json:"amount" validate:"required"`
}

func (r *ClearExpenseRequest) ParseAmount() (decimal.Decimal, error) {
	if err := validate.Struct(r); err != nil {
		if r.MemberID == "" {
			return decimal.Decimal{}, domain.ErrMissingMember
		}
		return decimal.Decimal{}, domain.ErrInvalidAmount
	}
	return domain.ParseAmount(r.Amount)
}

type CreateMemberRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

func (r *CreateMemberRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidMemberName, err)
	}
	return nil
}
