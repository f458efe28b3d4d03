package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/iho/splitclear/internal/domain"
	"github.com/iho/splitclear/internal/usecase"
	"github.com/iho/splitclear/internal/usecase/mocks"
)

func TestMemberUseCase_CreateMemberIsAdminOnly(t *testing.T) {
	gateway := mocks.NewMockLedgerGateway()
	gateway.CreateMemberFunc = func(ctx context.Context, name string) (*domain.Member, error) {
		t.Fatal("policy rejection must happen before any gateway call")
		return nil, nil
	}

	uc := usecase.NewMemberUseCase(gateway)

	_, err := uc.CreateMember(userContext(domain.RoleUser), "Asha")
	if !errors.Is(err, domain.ErrInsufficientRole) {
		t.Fatalf("expected ErrInsufficientRole, got %v", err)
	}
}

func TestMemberUseCase_CreateMember(t *testing.T) {
	gateway := mocks.NewMockLedgerGateway()
	gateway.CreateMemberFunc = func(ctx context.Context, name string) (*domain.Member, error) {
		return &domain.Member{ID: "m-9", Name: name}, nil
	}

	uc := usecase.NewMemberUseCase(gateway)
	ctx := userContext(domain.RoleAdmin)

	m, err := uc.CreateMember(ctx, "  Asha  ")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if m.Name != "Asha" {
		t.Errorf("expected trimmed name, got %q", m.Name)
	}

	if _, err := uc.CreateMember(ctx, "   "); !errors.Is(err, domain.ErrInvalidMemberName) {
		t.Errorf("expected ErrInvalidMemberName, got %v", err)
	}
}

func TestMemberUseCase_ListMembersAnyRole(t *testing.T) {
	gateway := mocks.NewMockLedgerGateway()
	gateway.ListMembersFunc = func(ctx context.Context) ([]*domain.Member, error) {
		return []*domain.Member{{ID: "m-1", Name: "Asha"}}, nil
	}

	uc := usecase.NewMemberUseCase(gateway)

	members, err := uc.ListMembers(userContext(domain.RoleUser))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(members) != 1 {
		t.Errorf("expected one member, got %d", len(members))
	}
}
