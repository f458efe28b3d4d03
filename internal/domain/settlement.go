package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Settlement is the view derived from an expense's payment history.
type Settlement struct {
	ClearedAmount decimal.Decimal
	Remaining     decimal.Decimal
	Cleared       bool

	LastClearedAmount *decimal.Decimal
	LastClearedBy     *Member
	LastClearedAt     *time.Time
}

// DeriveSettlement folds an expense's payment history into its settlement
// state. The input slice is not modified; payments are ordered by RecordedAt
// (server-assigned), with the ID as tie-break, since the transport does not
// guarantee order. Pure and deterministic: the same history always yields
// the same settlement.
func DeriveSettlement(amount decimal.Decimal, payments []*Payment) Settlement {
	ordered := make([]*Payment, len(payments))
	copy(ordered, payments)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].RecordedAt.Equal(ordered[j].RecordedAt) {
			return ordered[i].ID < ordered[j].ID
		}
		return ordered[i].RecordedAt.Before(ordered[j].RecordedAt)
	})

	cleared := decimal.Zero
	for _, p := range ordered {
		cleared = cleared.Add(p.Amount)
	}

	s := Settlement{
		ClearedAmount: cleared,
		Remaining:     amount.Sub(cleared),
		Cleared:       cleared.Equal(amount),
	}

	if len(ordered) > 0 {
		last := ordered[len(ordered)-1]
		lastAmount := last.Amount
		lastMember := last.Member
		lastAt := last.RecordedAt
		s.LastClearedAmount = &lastAmount
		s.LastClearedBy = &lastMember
		s.LastClearedAt = &lastAt
	}

	return s
}

// ApplySettlement stamps a derived settlement onto an expense. When the
// expense is fully cleared the final payment doubles as the clearing record.
func ApplySettlement(e *Expense, payments []*Payment) {
	s := DeriveSettlement(e.Amount, payments)

	e.ClearedAmount = s.ClearedAmount
	e.Cleared = s.Cleared
	e.LastClearedAmount = s.LastClearedAmount
	e.LastClearedBy = s.LastClearedBy
	e.LastClearedAt = s.LastClearedAt

	if s.Cleared && len(payments) > 0 {
		e.ClearedBy = s.LastClearedBy
		e.ClearedAt = s.LastClearedAt
	} else {
		e.ClearedBy = nil
		e.ClearedAt = nil
	}
}
