package usecase

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/iho/splitclear/internal/domain"
	"github.com/iho/splitclear/internal/infrastructure/metrics"
)

// ClearingState is the state of one clearing workflow instance.
type ClearingState string

const (
	ClearingIdle          ClearingState = "IDLE"
	ClearingAwaitingInput ClearingState = "AWAITING_INPUT"
	ClearingSubmitting    ClearingState = "SUBMITTING"
	ClearingApplied       ClearingState = "APPLIED"
	ClearingRejected      ClearingState = "REJECTED"
)

// ClearingWorkflow tracks one attempt to record a payment against an
// expense. Applied is terminal; a Rejected workflow may be resubmitted with
// corrected input or abandoned.
type ClearingWorkflow struct {
	ID      string
	State   ClearingState
	Expense *domain.Expense

	// Result holds the refetched expense after a successful submission.
	Result *domain.Expense

	// LastError holds the rejection reason of the most recent submission.
	LastError error
}

// ClearingUseCase orchestrates the clearing workflow. It is the only
// mutator of settlement state; everything else derives from reads.
type ClearingUseCase struct {
	gateway LedgerGateway
	cache   Cache
	idGen   IDGenerator
}

// NewClearingUseCase creates a new ClearingUseCase.
func NewClearingUseCase(gateway LedgerGateway, cache Cache, idGen IDGenerator) *ClearingUseCase {
	return &ClearingUseCase{
		gateway: gateway,
		cache:   cache,
		idGen:   idGen,
	}
}

// Begin starts a workflow for the given expense. Fully cleared expenses
// expose no clearing action, so Begin refuses them.
func (uc *ClearingUseCase) Begin(ctx context.Context, expenseID string) (*ClearingWorkflow, error) {
	if err := requireAction(ctx, domain.ActionRecordPayment); err != nil {
		return nil, err
	}

	expense, err := uc.gateway.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}

	if err := expense.Reconcile(); err != nil {
		return nil, err
	}

	if expense.Cleared {
		return nil, domain.ErrAlreadyCleared
	}

	return &ClearingWorkflow{
		ID:      uc.idGen.Generate(),
		State:   ClearingAwaitingInput,
		Expense: expense,
	}, nil
}

// SubmitPaymentInput carries the caller's submission.
type SubmitPaymentInput struct {
	PayerMemberID string
	Amount        decimal.Decimal
}

// Submit drives AwaitingInput -> Submitting -> Applied | Rejected.
//
// Validation and the overpayment check run before anything is sent upstream;
// a rejected submission leaves the expense untouched and marks the workflow
// Rejected, from where it can be resubmitted. On success the expense is refetched from the
// gateway (never patched locally) and the cached balance summary is
// invalidated.
func (uc *ClearingUseCase) Submit(ctx context.Context, wf *ClearingWorkflow, input SubmitPaymentInput) (*domain.Expense, error) {
	// A rejected workflow is back at AwaitingInput for retry purposes.
	if wf.State != ClearingAwaitingInput && wf.State != ClearingRejected {
		return nil, domain.ErrWorkflowState
	}

	wf.State = ClearingSubmitting

	if err := uc.validateSubmission(wf.Expense, input); err != nil {
		return nil, uc.reject(wf, err)
	}

	if _, err := uc.gateway.ClearExpense(ctx, wf.Expense.ID, input.PayerMemberID, input.Amount, wf.ID); err != nil {
		if errors.Is(err, domain.ErrOverpayment) {
			metrics.OverpaymentsRejected.Inc()
		}
		return nil, uc.reject(wf, err)
	}

	// Mutate, then refetch, then re-derive: the server-assigned payment
	// timestamp and any concurrent clearings are only visible on refetch.
	updated, err := uc.gateway.GetExpense(ctx, wf.Expense.ID)
	if err != nil {
		return nil, uc.reject(wf, err)
	}

	if err := updated.Reconcile(); err != nil {
		return nil, uc.reject(wf, err)
	}

	if uc.cache != nil {
		// Best effort: a stale summary is replaced on the next read anyway.
		_ = uc.cache.Delete(ctx, balanceSummaryCacheKey)
	}

	metrics.PaymentsRecorded.Inc()

	wf.State = ClearingApplied
	wf.Result = updated

	return updated, nil
}

// Abandon discards a workflow that has not been submitted. Once Submitting,
// the request runs to completion and its outcome is still surfaced.
func (uc *ClearingUseCase) Abandon(wf *ClearingWorkflow) error {
	if wf.State != ClearingAwaitingInput && wf.State != ClearingRejected {
		return domain.ErrWorkflowState
	}

	wf.State = ClearingIdle

	return nil
}

func (uc *ClearingUseCase) validateSubmission(expense *domain.Expense, input SubmitPaymentInput) error {
	if input.PayerMemberID == "" {
		return domain.ErrMissingMember
	}

	return expense.ValidatePayment(input.Amount)
}

func (uc *ClearingUseCase) reject(wf *ClearingWorkflow, err error) error {
	wf.State = ClearingRejected
	wf.LastError = err

	return err
}
