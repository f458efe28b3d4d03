package usecase

import (
	"context"
	"strings"

	"github.com/iho/splitclear/internal/domain"
)

// MemberUseCase handles member reads and admin-only creation.
type MemberUseCase struct {
	gateway LedgerGateway
}

// NewMemberUseCase creates a new MemberUseCase.
func NewMemberUseCase(gateway LedgerGateway) *MemberUseCase {
	return &MemberUseCase{gateway: gateway}
}

// ListMembers lists all members. Any authenticated role may read members;
// the payment form needs them to pick a payer.
func (uc *MemberUseCase) ListMembers(ctx context.Context) ([]*domain.Member, error) {
	if err := requireAction(ctx, domain.ActionViewExpenses); err != nil {
		return nil, err
	}

	return uc.gateway.ListMembers(ctx)
}

// CreateMember creates a member and refetches it from the ledger.
func (uc *MemberUseCase) CreateMember(ctx context.Context, name string) (*domain.Member, error) {
	if err := requireAction(ctx, domain.ActionCreateMember); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if err := domain.ValidateMemberName(name); err != nil {
		return nil, err
	}

	return uc.gateway.CreateMember(ctx, name)
}
