package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount bounds. The upstream ledger stores two decimal places; anything
// beyond that is a data-entry mistake, not a rounding concern.
const (
	MaxAmount = "10000000"
	maxScale  = 2
)

// ParseAmount parses a monetary amount from user input. Both dot and comma
// decimal separators are accepted. The result must satisfy ValidateAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty amount", ErrInvalidAmount)
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
	}

	if err := ValidateAmount(amount); err != nil {
		return decimal.Zero, err
	}

	return amount, nil
}

// ValidateAmount checks that an amount is positive, within bounds, and no
// finer than cent precision.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxAmount)
	}

	if amount.Exponent() < -maxScale {
		return fmt.Errorf("%w: at most %d decimal places", ErrInvalidAmount, maxScale)
	}

	return nil
}
