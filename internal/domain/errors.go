package domain

import "errors"

var (
	// Validation errors
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrAmountTooLarge     = errors.New("amount exceeds maximum allowed")
	ErrInvalidMemberName  = errors.New("invalid member name")
	ErrInvalidDescription = errors.New("invalid description")
	ErrMissingDate        = errors.New("date is required")
	ErrMissingMember      = errors.New("member is required")

	// Settlement errors
	ErrOverpayment    = errors.New("payment exceeds remaining balance")
	ErrAlreadyCleared = errors.New("expense is already fully cleared")

	// Lookup errors
	ErrExpenseNotFound = errors.New("expense not found")
	ErrMemberNotFound  = errors.New("member not found")

	// Access errors
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrSessionExpired   = errors.New("session has expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")

	// Upstream errors
	ErrUpstream = errors.New("expense ledger request failed")

	// Workflow errors
	ErrWorkflowState = errors.New("invalid clearing workflow state")
)
