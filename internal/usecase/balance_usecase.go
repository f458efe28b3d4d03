package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/splitclear/internal/domain"
)

// balanceSummaryCacheKey caches the balance summary for at most one query
// cycle; every mutation deletes it.
const balanceSummaryCacheKey = "balances:summary"

// BalanceUseCase produces per-member balance summaries.
//
// The server-provided summary is authoritative when available, so totals
// agree with backend-side rounding. Local aggregation over the expense list
// is the fallback when the summary endpoint fails.
type BalanceUseCase struct {
	gateway  LedgerGateway
	cache    Cache
	cacheTTL time.Duration
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(gateway LedgerGateway, cache Cache, cacheTTL time.Duration) *BalanceUseCase {
	return &BalanceUseCase{
		gateway:  gateway,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

type cachedBalance struct {
	MemberID   string          `json:"member_id"`
	MemberName string          `json:"member_name"`
	Total      decimal.Decimal `json:"total"`
	Cleared    decimal.Decimal `json:"cleared"`
	Remaining  decimal.Decimal `json:"remaining"`
}

// MemberBalances returns one balance per member that owns expenses.
func (uc *BalanceUseCase) MemberBalances(ctx context.Context) ([]*domain.MemberBalance, error) {
	if err := requireAction(ctx, domain.ActionViewBalances); err != nil {
		return nil, err
	}

	if cached := uc.fromCache(ctx); cached != nil {
		return cached, nil
	}

	balances, err := uc.gateway.MemberBalanceSummary(ctx)
	if err != nil {
		balances, err = uc.aggregateLocally(ctx)
		if err != nil {
			return nil, err
		}
	}

	uc.toCache(ctx, balances)

	return balances, nil
}

func (uc *BalanceUseCase) aggregateLocally(ctx context.Context) ([]*domain.MemberBalance, error) {
	expenses, err := uc.gateway.ListExpenses(ctx)
	if err != nil {
		return nil, err
	}

	for _, e := range expenses {
		if err := e.Reconcile(); err != nil {
			return nil, err
		}
	}

	return domain.AggregateBalances(expenses), nil
}

func (uc *BalanceUseCase) fromCache(ctx context.Context) []*domain.MemberBalance {
	if uc.cache == nil {
		return nil
	}

	raw, err := uc.cache.Get(ctx, balanceSummaryCacheKey)
	if err != nil || raw == nil {
		return nil
	}

	var entries []cachedBalance
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}

	balances := make([]*domain.MemberBalance, len(entries))
	for i, c := range entries {
		balances[i] = &domain.MemberBalance{
			Member:    domain.Member{ID: c.MemberID, Name: c.MemberName},
			Total:     c.Total,
			Cleared:   c.Cleared,
			Remaining: c.Remaining,
		}
	}

	return balances
}

func (uc *BalanceUseCase) toCache(ctx context.Context, balances []*domain.MemberBalance) {
	if uc.cache == nil {
		return
	}

	entries := make([]cachedBalance, len(balances))
	for i, b := range balances {
		entries[i] = cachedBalance{
			MemberID:   b.Member.ID,
			MemberName: b.Member.Name,
			Total:      b.Total,
			Cleared:    b.Cleared,
			Remaining:  b.Remaining,
		}
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}

	_ = uc.cache.Set(ctx, balanceSummaryCacheKey, raw, uc.cacheTTL)
}
